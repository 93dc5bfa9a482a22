package quiz

import (
	"context"
	"log/slog"
)

// QuestionSource supplies the questions for a category.
type QuestionSource interface {
	// QuestionsFor returns the category's questions in the order they should
	// be asked. An unknown category yields an empty slice.
	QuestionsFor(ctx context.Context, category int) ([]Question, error)

	// CountFor returns how many questions the category holds.
	CountFor(ctx context.Context, category int) (int, error)
}

// Start loads the category's questions and builds a session. A source
// failure is logged and reported the same way as an empty category.
func Start(ctx context.Context, src QuestionSource, category int, cfg Config) (*Session, error) {
	questions, err := src.QuestionsFor(ctx, category)
	if err != nil {
		slog.Warn("loading questions failed", "category", category, "error", err)
		return nil, &EmptyQuizError{Category: category}
	}
	if len(questions) == 0 {
		return nil, &EmptyQuizError{Category: category}
	}
	return New(questions, cfg)
}
