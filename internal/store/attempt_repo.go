package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// attemptRepo implements AttemptRepo with the ent SQL builder.
type attemptRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var attemptColumns = []string{
	"id", "uuid", "sequence", "category", "category_label",
	"score", "total", "started_at", "finished_at",
}

func (r *attemptRepo) AppendAttempt(ctx context.Context, data AttemptData) (AttemptRecord, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return AttemptRecord{}, fmt.Errorf("next sequence: %w", err)
	}

	rec := AttemptRecord{
		UUID:          uuid.NewString(),
		Sequence:      seqNum,
		Category:      data.Category,
		CategoryLabel: data.CategoryLabel,
		Score:         data.Score,
		Total:         data.Total,
		StartedAt:     data.StartedAt,
		FinishedAt:    data.FinishedAt,
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = rec.FinishedAt
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return AttemptRecord{}, fmt.Errorf("begin attempt: %w", err)
	}
	defer tx.Rollback()

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(attemptsTable).
		Columns(attemptColumns[1:]...).
		Values(rec.UUID, rec.Sequence, rec.Category, rec.CategoryLabel,
			rec.Score, rec.Total, rec.StartedAt.UnixMilli(), rec.FinishedAt.UnixMilli()).
		Query()
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return AttemptRecord{}, fmt.Errorf("save attempt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return AttemptRecord{}, fmt.Errorf("attempt id: %w", err)
	}
	rec.ID = int(id)

	if len(data.Answers) > 0 {
		insert := entsql.Dialect(dialect.SQLite).
			Insert(answersTable).
			Columns("attempt_id", "position", "question", "selected", "correct_index", "correct", "timed_out", "elapsed_ms")
		for _, a := range data.Answers {
			insert.Values(rec.ID, a.Position, a.Question, a.Selected, a.CorrectIndex, a.Correct, a.TimedOut, a.ElapsedMs)
		}
		query, args := insert.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return AttemptRecord{}, fmt.Errorf("save answers: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return AttemptRecord{}, fmt.Errorf("commit attempt: %w", err)
	}
	return rec, nil
}

func (r *attemptRepo) RecentAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(attemptColumns...).
		From(entsql.Table(attemptsTable)).
		OrderBy(entsql.Desc("sequence"))

	var preds []*entsql.Predicate
	if opts.Category > 0 {
		preds = append(preds, entsql.EQ("category", opts.Category))
	}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var records []AttemptRecord
	for rows.Next() {
		var (
			rec                 AttemptRecord
			startedMs, finishMs int64
		)
		if err := rows.Scan(&rec.ID, &rec.UUID, &rec.Sequence, &rec.Category, &rec.CategoryLabel,
			&rec.Score, &rec.Total, &startedMs, &finishMs); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		rec.StartedAt = time.UnixMilli(startedMs)
		rec.FinishedAt = time.UnixMilli(finishMs)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return records, nil
}

func (r *attemptRepo) AttemptAnswers(ctx context.Context, attemptID int) ([]AnswerRecord, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("id", "position", "question", "selected", "correct_index", "correct", "timed_out", "elapsed_ms").
		From(entsql.Table(answersTable)).
		Where(entsql.EQ("attempt_id", attemptID)).
		OrderBy("position").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var answers []AnswerRecord
	for rows.Next() {
		var a AnswerRecord
		if err := rows.Scan(&a.ID, &a.Position, &a.Question, &a.Selected, &a.CorrectIndex,
			&a.Correct, &a.TimedOut, &a.ElapsedMs); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}
	return answers, nil
}

func (r *attemptRepo) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(
			"category",
			entsql.Max("category_label"),
			entsql.Count("*"),
			entsql.Max("score"),
			entsql.Sum("score"),
			entsql.Sum("total"),
			entsql.Max("finished_at"),
		).
		From(entsql.Table(attemptsTable)).
		GroupBy("category").
		OrderBy("category").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query category stats: %w", err)
	}
	defer rows.Close()

	var stats []CategoryStat
	for rows.Next() {
		var (
			st     CategoryStat
			lastMs int64
		)
		if err := rows.Scan(&st.Category, &st.Label, &st.Attempts, &st.BestScore,
			&st.TotalCorrect, &st.TotalQuestions, &lastMs); err != nil {
			return nil, fmt.Errorf("scan category stats: %w", err)
		}
		st.LastPlayed = time.UnixMilli(lastMs)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category stats: %w", err)
	}
	return stats, nil
}

func (r *attemptRepo) DeleteAll(ctx context.Context) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	b := entsql.Dialect(dialect.SQLite)

	query, args := b.Delete(answersTable).Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("delete answers: %w", err)
	}

	query, args = b.Delete(attemptsTable).Query()
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete attempts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleted attempts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete: %w", err)
	}
	return int(n), nil
}
