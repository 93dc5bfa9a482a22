package store

import (
	"context"
	"time"

	"github.com/abhisek/quizapp/internal/catalog"
	"github.com/abhisek/quizapp/internal/quiz"
)

// QueryOpts configures history queries with filtering and pagination.
type QueryOpts struct {
	Limit    int   // max results (0 = unlimited)
	Category int   // category filter (0 = all)
	After    int64 // sequence > After
	Before   int64 // sequence < Before
}

// QuestionRepo reads and seeds the question table. It is the store-backed
// quiz.QuestionSource.
type QuestionRepo interface {
	quiz.QuestionSource

	// CountsByCategory returns the number of questions per category.
	// Categories without questions are absent from the map.
	CountsByCategory(ctx context.Context) (map[int]int, error)

	// Seed inserts the catalog's questions if the table is empty and
	// returns how many rows were inserted.
	Seed(ctx context.Context, cat *catalog.Catalog) (int, error)

	// Replace deletes every question and inserts the catalog's questions
	// in one transaction.
	Replace(ctx context.Context, cat *catalog.Catalog) (int, error)
}

// AnswerData captures one answered or timed-out question of an attempt.
type AnswerData struct {
	Position     int
	Question     string
	Selected     int // -1 on timeout
	CorrectIndex int
	Correct      bool
	TimedOut     bool
	ElapsedMs    int64
}

// AttemptData captures a completed quiz attempt.
type AttemptData struct {
	Category      int
	CategoryLabel string
	Score         int
	Total         int
	StartedAt     time.Time
	FinishedAt    time.Time
	Answers       []AnswerData
}

// AttemptRecord is a stored attempt.
type AttemptRecord struct {
	ID            int
	UUID          string
	Sequence      int64
	Category      int
	CategoryLabel string
	Score         int
	Total         int
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Accuracy returns Score / Total, or 0 for an empty attempt.
func (r AttemptRecord) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Total)
}

// Duration returns how long the attempt took.
func (r AttemptRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// AnswerRecord is a stored answer row.
type AnswerRecord struct {
	ID int
	AnswerData
}

// CategoryStat aggregates attempts for one category.
type CategoryStat struct {
	Category       int
	Label          string
	Attempts       int
	BestScore      int
	TotalCorrect   int
	TotalQuestions int
	LastPlayed     time.Time
}

// Accuracy returns the overall accuracy across attempts.
func (s CategoryStat) Accuracy() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.TotalCorrect) / float64(s.TotalQuestions)
}

// AttemptRepo records and queries quiz history.
type AttemptRepo interface {
	// AppendAttempt stores an attempt and its answers.
	AppendAttempt(ctx context.Context, data AttemptData) (AttemptRecord, error)

	// RecentAttempts returns attempts newest first.
	RecentAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error)

	// AttemptAnswers returns the answers of an attempt in question order.
	AttemptAnswers(ctx context.Context, attemptID int) ([]AnswerRecord, error)

	// CategoryStats returns per-category aggregates ordered by category.
	CategoryStats(ctx context.Context) ([]CategoryStat, error)

	// DeleteAll removes every attempt and answer and returns the number of
	// attempts removed.
	DeleteAll(ctx context.Context) (int, error)
}
