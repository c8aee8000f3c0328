package classify

import "regexp"

// defaultKeywords is the built-in todo vocabulary, covering submission,
// request, review, and deadline terms in Korean and English. The
// user-managed keyword list from the store is unioned with this set.
var defaultKeywords = []string{
	"할일", "제출", "마감", "기한", "검토", "확인", "필수", "요청",
	"과제", "숙제",
	"deadline", "due", "todo", "assignment", "report",
}

// defaultBlockList is the built-in advertising suppression list. A match
// against sender or text forces not-todo before any other signal runs.
var defaultBlockList = []string{
	"(광고)", "프로모션", "할인쿠폰", "쿠폰", "수신거부",
	"unsubscribe", "newsletter", "promotion", "% off", "limited offer",
}

// requestPatterns match imperative-request sentence constructions:
// polite-request endings in Korean and "please/required/by <date>"
// phrasings in English.
var requestPatterns = []*regexp.Regexp{
	regexp.MustCompile(`해\s*주세요`),
	regexp.MustCompile(`(?:주시기|하시기)\s*바랍니다`),
	regexp.MustCompile(`부탁\s*드립니다`),
	regexp.MustCompile(`요청\s*드립니다`),
	regexp.MustCompile(`(?i)please\s+(?:submit|reply|respond|review|complete|confirm|send)`),
	regexp.MustCompile(`(?i)\b(?:is|are)\s+required\b`),
	regexp.MustCompile(`(?i)\bby\s+(?:\d{4}[./-]\d{1,2}[./-]\d{1,2}|\d{1,2}[./-]\d{1,2})`),
}

// dateAlternation matches any date-bearing phrase the deadline extractor
// understands, from fully qualified down to a bare day-of-month.
const dateAlternation = `(?:\d{4}년\s*\d{1,2}월\s*\d{1,2}일` +
	`|\d{4}[./-]\d{1,2}[./-]\d{1,2}` +
	`|\d{1,2}월\s*\d{1,2}일` +
	`|\d{1,2}[./-]\d{1,2}` +
	`|\d{1,2}일(?:까지)?)`

// actionVerbs are the verbs that make a co-located date an actionable
// deadline. A bare date without one of these in the same clause is not
// sufficient, to suppress false positives from incidental dates.
const actionVerbs = `(?:제출|회신|답변|답장|완료|등록|신청|회수` +
	`|submit|reply|respond|complete|return|confirm|finish)`

// clauseGap is the run of characters allowed between the verb and the
// date without crossing a clause boundary.
const clauseGap = `[^.!?\n]{0,60}`

// deadlinePhrasePatterns match a date co-located with an action verb
// within the same clause, in either order.
var deadlinePhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)` + actionVerbs + clauseGap + dateAlternation),
	regexp.MustCompile(`(?i)` + dateAlternation + clauseGap + actionVerbs),
}
