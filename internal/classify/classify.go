// Package classify decides whether a message represents an actionable
// item and extracts a best-effort deadline date. Independent signals are
// combined with OR semantics; an advertising block-list match suppresses
// everything.
package classify

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/mailtodo/internal/model"
)

// Result is the classification outcome for a single message.
type Result struct {
	Flag model.TodoFlag

	// Deadline is normalized YYYY/MM/DD, empty when no date phrase
	// matched. Extraction is independent of the flag and always
	// attempted.
	Deadline string
}

// Scorer is an optional pluggable probabilistic signal. A positive
// verdict is an additional OR-signal; its absence or failure never fails
// classification.
type Scorer interface {
	Score(text string) (bool, error)
}

// Classifier evaluates messages against keyword, request-phrase, and
// deadline-phrase signals, plus an optional scorer. Construct once at
// pipeline construction and reuse across runs.
type Classifier struct {
	keywords  []string
	blockList []string
	scorer    Scorer
	logger    *log.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithKeywords unions user-managed keywords with the built-in defaults.
func WithKeywords(keywords []string) Option {
	return func(c *Classifier) {
		c.keywords = append(c.keywords, keywords...)
	}
}

// WithBlockList replaces the built-in advertising block list.
func WithBlockList(terms []string) Option {
	return func(c *Classifier) {
		if len(terms) > 0 {
			c.blockList = terms
		}
	}
}

// WithScorer plugs in an external probabilistic scorer.
func WithScorer(s Scorer) Option {
	return func(c *Classifier) {
		c.scorer = s
	}
}

// New creates a Classifier with the built-in keyword and block-list
// defaults plus any options.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		keywords:  append([]string(nil), defaultKeywords...),
		blockList: append([]string(nil), defaultBlockList...),
		logger:    log.Default().With("component", "classifier"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify evaluates a message. It is a pure function of the message
// content: partial-date deadlines take their defaults from the message's
// received time, so the same input always yields the same result. It
// never returns an error; on scorer failure the remaining signals decide.
func (c *Classifier) Classify(m model.Message) Result {
	text := m.Text()
	folded := strings.ToLower(text)

	ref := m.ReceivedAt
	if ref.IsZero() {
		ref = time.Now()
	}

	res := Result{
		Flag:     model.FlagNotTodo,
		Deadline: ExtractDeadline(text, ref),
	}

	// Advertising suppression short-circuits every other signal.
	if c.blocked(strings.ToLower(m.Sender), folded) {
		return res
	}

	if c.keywordSignal(folded) ||
		requestSignal(text) ||
		deadlinePhraseSignal(text) ||
		c.scorerSignal(text) {
		res.Flag = model.FlagTodo
	}

	return res
}

// blocked reports whether the sender or text matches the promotional
// block list.
func (c *Classifier) blocked(sender, folded string) bool {
	for _, term := range c.blockList {
		t := strings.ToLower(term)
		if strings.Contains(sender, t) || strings.Contains(folded, t) {
			return true
		}
	}
	return false
}

// keywordSignal reports whether the case-folded text contains any
// configured keyword.
func (c *Classifier) keywordSignal(folded string) bool {
	for _, kw := range c.keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(folded, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// requestSignal reports whether the text matches an imperative-request
// construction.
func requestSignal(text string) bool {
	for _, p := range requestPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// deadlinePhraseSignal reports whether a date-bearing phrase appears in
// the same clause as an action verb. A bare date is not sufficient.
func deadlinePhraseSignal(text string) bool {
	for _, p := range deadlinePhrasePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// scorerSignal consults the pluggable scorer when present. Errors are
// logged and ignored so classification falls back to the other signals.
func (c *Classifier) scorerSignal(text string) bool {
	if c.scorer == nil {
		return false
	}
	positive, err := c.scorer.Score(text)
	if err != nil {
		c.logger.Debug("scorer unavailable", "err", err)
		return false
	}
	return positive
}
