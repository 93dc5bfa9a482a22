package quiz

import (
	"errors"
	"fmt"
)

// ErrInvalidChoice indicates a selected option index outside [0, OptionCount).
var ErrInvalidChoice = errors.New("selected option out of range")

// EmptyQuizError indicates there were no questions to build a session from.
// Category is zero when the questions did not come from a category lookup.
type EmptyQuizError struct {
	Category int
}

func (e *EmptyQuizError) Error() string {
	if e.Category > 0 {
		return fmt.Sprintf("no questions available for category %d", e.Category)
	}
	return "no questions available"
}

// InvalidQuestionError reports a malformed question handed to New.
// Index is zero-based.
type InvalidQuestionError struct {
	Index int
	Err   error
}

func (e *InvalidQuestionError) Error() string {
	return fmt.Sprintf("quiz: question %d is invalid: %v", e.Index+1, e.Err)
}

func (e *InvalidQuestionError) Unwrap() error {
	return e.Err
}

// InvalidStateError indicates a transition was called from a state that does
// not allow it. This is a caller bug, not a recoverable condition.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("quiz: %s not allowed in state %s", e.Op, e.State)
}

// NotCompletedError is returned by Result before the last question is done.
type NotCompletedError struct {
	State State
}

func (e *NotCompletedError) Error() string {
	return fmt.Sprintf("quiz: result requested before completion (state %s)", e.State)
}
