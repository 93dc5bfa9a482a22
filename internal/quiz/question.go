package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// OptionCount is the number of options every question carries.
const OptionCount = 4

// Question is a single multiple-choice question. Values are immutable once
// built by NewQuestion; sessions keep their own copy.
type Question struct {
	Text         string
	Options      [OptionCount]string
	CorrectIndex int
}

// NewQuestion validates and builds a Question.
func NewQuestion(text string, options []string, correctIndex int) (Question, error) {
	if len(options) != OptionCount {
		return Question{}, fmt.Errorf("question %q: want %d options, got %d", text, OptionCount, len(options))
	}

	q := Question{Text: text, CorrectIndex: correctIndex}
	copy(q.Options[:], options)
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// Validate checks a Question built by hand: non-empty text, four non-empty
// options and a correct index in [0, OptionCount).
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return errors.New("question text is empty")
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= OptionCount {
		return fmt.Errorf("question %q: correct index %d out of range [0,%d)", q.Text, q.CorrectIndex, OptionCount)
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("question %q: option %d is empty", q.Text, i+1)
		}
	}
	return nil
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	return q.Options[q.CorrectIndex]
}

// IsCorrect reports whether selected is the correct option index.
func (q Question) IsCorrect(selected int) bool {
	return selected == q.CorrectIndex
}
