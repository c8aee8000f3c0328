package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Deadline extraction patterns, tried in priority order: fully qualified
// dates first, then progressively more ambiguous phrasings that default
// missing components from the current date. The first match wins; this is
// a deliberate precision-over-recall tie-break.
var (
	isoDatePattern    = regexp.MustCompile(`(\d{4})[./-](\d{1,2})[./-](\d{1,2})`)
	koreanFullPattern = regexp.MustCompile(`(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일`)
	monthDayPattern   = regexp.MustCompile(`(\d{1,2})월\s*(\d{1,2})일`)
	numericMonthDay   = regexp.MustCompile(`(\d{1,2})[./-](\d{1,2})`)
	bareDayPattern    = regexp.MustCompile(`(\d{1,2})일(?:까지)?`)
)

// ExtractDeadline finds the best-effort deadline date in text, normalized
// to YYYY/MM/DD. Partial patterns default year (and month, for bare days)
// from now. A match with impossible components is skipped, within a
// pattern and across pattern priorities, until something yields a valid
// date. Returns "" when nothing does.
func ExtractDeadline(text string, now time.Time) string {
	for _, m := range isoDatePattern.FindAllStringSubmatch(text, -1) {
		if d := formatDate(atoi(m[1]), atoi(m[2]), atoi(m[3])); d != "" {
			return d
		}
	}
	for _, m := range koreanFullPattern.FindAllStringSubmatch(text, -1) {
		if d := formatDate(atoi(m[1]), atoi(m[2]), atoi(m[3])); d != "" {
			return d
		}
	}
	for _, m := range monthDayPattern.FindAllStringSubmatch(text, -1) {
		if d := formatDate(now.Year(), atoi(m[1]), atoi(m[2])); d != "" {
			return d
		}
	}
	for _, m := range numericMonthDay.FindAllStringSubmatch(text, -1) {
		if d := formatDate(now.Year(), atoi(m[1]), atoi(m[2])); d != "" {
			return d
		}
	}
	for _, m := range bareDayPattern.FindAllStringSubmatch(text, -1) {
		if d := formatDate(now.Year(), int(now.Month()), atoi(m[1])); d != "" {
			return d
		}
	}
	return ""
}

// formatDate normalizes to YYYY/MM/DD, rejecting impossible month or day
// components.
func formatDate(year, month, day int) string {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}
	return fmt.Sprintf("%04d/%02d/%02d", year, month, day)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
