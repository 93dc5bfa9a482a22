package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizapp/internal/catalog"
	"github.com/abhisek/quizapp/internal/quiz"
)

// questionRepo implements QuestionRepo with the ent SQL builder.
type questionRepo struct {
	db *sql.DB
}

func (r *questionRepo) QuestionsFor(ctx context.Context, category int) ([]quiz.Question, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("question", "option1", "option2", "option3", "option4", "answer").
		From(entsql.Table(questionsTable)).
		Where(entsql.EQ("category", category)).
		OrderExpr(entsql.Expr("RANDOM()")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var questions []quiz.Question
	for rows.Next() {
		var q quiz.Question
		if err := rows.Scan(&q.Text, &q.Options[0], &q.Options[1], &q.Options[2], &q.Options[3], &q.CorrectIndex); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= quiz.OptionCount {
			return nil, fmt.Errorf("question %q: stored answer %d out of range", q.Text, q.CorrectIndex)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}

func (r *questionRepo) CountFor(ctx context.Context, category int) (int, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(entsql.Count("*")).
		From(entsql.Table(questionsTable)).
		Where(entsql.EQ("category", category)).
		Query()

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func (r *questionRepo) CountsByCategory(ctx context.Context) (map[int]int, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("category", entsql.Count("*")).
		From(entsql.Table(questionsTable)).
		GroupBy("category").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count questions by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var cat, n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts[cat] = n
	}
	return counts, rows.Err()
}

func (r *questionRepo) Seed(ctx context.Context, cat *catalog.Catalog) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	query, args := entsql.Dialect(dialect.SQLite).
		Select(entsql.Count("*")).
		From(entsql.Table(questionsTable)).
		Query()
	var existing int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&existing); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	n, err := insertQuestions(ctx, tx, cat)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return n, nil
}

func (r *questionRepo) Replace(ctx context.Context, cat *catalog.Catalog) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	query, args := entsql.Dialect(dialect.SQLite).Delete(questionsTable).Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("delete questions: %w", err)
	}

	n, err := insertQuestions(ctx, tx, cat)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit replace: %w", err)
	}
	return n, nil
}

// insertBatch keeps each INSERT well under SQLite's bound-variable limit.
const insertBatch = 500

func insertQuestions(ctx context.Context, tx *sql.Tx, cat *catalog.Catalog) (int, error) {
	entries := cat.All()
	for start := 0; start < len(entries); start += insertBatch {
		end := min(start+insertBatch, len(entries))

		insert := entsql.Dialect(dialect.SQLite).
			Insert(questionsTable).
			Columns("category", "question", "option1", "option2", "option3", "option4", "answer")
		for _, e := range entries[start:end] {
			q := e.Question
			insert.Values(e.Category, q.Text, q.Options[0], q.Options[1], q.Options[2], q.Options[3], q.CorrectIndex)
		}

		query, args := insert.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert questions: %w", err)
		}
	}
	return len(entries), nil
}
