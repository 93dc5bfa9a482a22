package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	"github.com/abhisek/quizapp/internal/catalog"
	"github.com/abhisek/quizapp/internal/config"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the SQLite connection and provides access to repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

// DSN builds a modernc SQLite DSN for the database file at path. Foreign
// keys and the busy timeout are set per connection.
func DSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Open creates a new Store connected to the SQLite database at path.
// It applies recommended pragmas and migrates the tables.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		drv.Close()
		return nil, err
	}

	return &Store{db: db, drv: drv, seq: seq}, nil
}

func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Questions returns the question repository.
func (s *Store) Questions() QuestionRepo {
	return &questionRepo{db: s.db}
}

// Attempts returns the attempt history repository.
func (s *Store) Attempts() AttemptRepo {
	return &attemptRepo{db: s.db, seq: s.seq}
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. QUIZAPP_DB environment variable
// 2. $XDG_DATA_HOME/quizapp/quizapp.db
// 3. ~/.local/share/quizapp/quizapp.db
// The parent directory is created.
func DefaultDBPath() (string, error) {
	if p := os.Getenv(config.EnvDB); p != "" {
		return p, EnsureDir(p)
	}
	p := config.DefaultDataPath()
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Seed inserts the catalog's questions if the question table is empty.
func (s *Store) Seed(ctx context.Context, cat *catalog.Catalog) (int, error) {
	return s.Questions().Seed(ctx, cat)
}

// ReplaceQuestions swaps the whole question table for the catalog's questions.
func (s *Store) ReplaceQuestions(ctx context.Context, cat *catalog.Catalog) (int, error) {
	return s.Questions().Replace(ctx, cat)
}
