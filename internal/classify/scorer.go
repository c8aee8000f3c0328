package classify

import (
	"errors"
	"math"
	"strings"
	"unicode"

	"github.com/nhle/mailtodo/internal/model"
)

// minCorpusSize is the number of feedback samples required before the
// corpus scorer starts producing verdicts.
const minCorpusSize = 30

// ErrCorpusTooSmall is returned by Score while the feedback corpus holds
// fewer than minCorpusSize samples.
var ErrCorpusTooSmall = errors.New("feedback corpus too small to score")

// CorpusScorer is a token-frequency model trained from the user's
// exclude/promote feedback corpus. It implements Scorer. Train once at
// construction; retrain by constructing a new scorer from the refreshed
// corpus.
type CorpusScorer struct {
	todoCounts    map[string]int
	notTodoCounts map[string]int
	todoTotal     int
	notTodoTotal  int
	vocabulary    map[string]struct{}
	samples       int
}

// NewCorpusScorer trains a scorer from the given feedback samples.
func NewCorpusScorer(samples []model.TrainingSample) *CorpusScorer {
	s := &CorpusScorer{
		todoCounts:    make(map[string]int),
		notTodoCounts: make(map[string]int),
		vocabulary:    make(map[string]struct{}),
		samples:       len(samples),
	}

	for _, sample := range samples {
		for _, tok := range tokenize(sample.Text) {
			s.vocabulary[tok] = struct{}{}
			if sample.IsTodo {
				s.todoCounts[tok]++
				s.todoTotal++
			} else {
				s.notTodoCounts[tok]++
				s.notTodoTotal++
			}
		}
	}

	return s
}

// Ready reports whether the corpus is large enough to score.
func (s *CorpusScorer) Ready() bool {
	return s.samples >= minCorpusSize && s.todoTotal > 0 && s.notTodoTotal > 0
}

// Score returns a positive verdict when the text's tokens are more likely
// under the todo class than the not-todo class, with add-one smoothing.
func (s *CorpusScorer) Score(text string) (bool, error) {
	if !s.Ready() {
		return false, ErrCorpusTooSmall
	}

	vocab := float64(len(s.vocabulary))
	var todoLog, notTodoLog float64

	for _, tok := range tokenize(text) {
		todoLog += math.Log(
			(float64(s.todoCounts[tok]) + 1) / (float64(s.todoTotal) + vocab),
		)
		notTodoLog += math.Log(
			(float64(s.notTodoCounts[tok]) + 1) / (float64(s.notTodoTotal) + vocab),
		)
	}

	return todoLog > notTodoLog, nil
}

// tokenize lowercases and splits on anything that is not a letter or
// digit. Works for both alphabetic and Hangul text.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
