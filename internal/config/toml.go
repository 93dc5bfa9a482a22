package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/abhisek/quizapp/internal/quiz"
)

// Bounds accepted for the timing settings.
const (
	MinQuestionSeconds = 5
	MaxQuestionSeconds = 120
	MinFeedbackMS      = 0
	MaxFeedbackMS      = 10000
)

// Settings represents the TOML configuration file. Nil fields fall back to
// the built-in defaults.
type Settings struct {
	Quiz  QuizSettings  `toml:"quiz"`
	Store StoreSettings `toml:"store"`
}

// QuizSettings maps session timing.
type QuizSettings struct {
	QuestionSeconds *int `toml:"question_seconds"`
	FeedbackMS      *int `toml:"feedback_ms"`
}

// StoreSettings maps storage options.
type StoreSettings struct {
	DB *string `toml:"db"`
}

// Load reads settings from the given path. Missing file is not an error.
func Load(path string) (Settings, error) {
	if path == "" {
		return Settings{}, errors.New("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var s Settings
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return s, nil
}

// Save writes the settings to path, creating the parent directory.
func Save(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(s); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return f.Close()
}

// Validate checks that set values are within bounds.
func (s Settings) Validate() error {
	if v := s.Quiz.QuestionSeconds; v != nil && (*v < MinQuestionSeconds || *v > MaxQuestionSeconds) {
		return fmt.Errorf("quiz.question_seconds must be between %d and %d, got %d",
			MinQuestionSeconds, MaxQuestionSeconds, *v)
	}
	if v := s.Quiz.FeedbackMS; v != nil && (*v < MinFeedbackMS || *v > MaxFeedbackMS) {
		return fmt.Errorf("quiz.feedback_ms must be between %d and %d, got %d",
			MinFeedbackMS, MaxFeedbackMS, *v)
	}
	return nil
}

// QuestionSeconds returns the per-question time budget in seconds.
func (s Settings) QuestionSeconds() int {
	if s.Quiz.QuestionSeconds != nil {
		return *s.Quiz.QuestionSeconds
	}
	return int(quiz.DefaultTimeBudget / time.Second)
}

// FeedbackMS returns the feedback delay in milliseconds.
func (s Settings) FeedbackMS() int {
	if s.Quiz.FeedbackMS != nil {
		return *s.Quiz.FeedbackMS
	}
	return int(quiz.DefaultFeedbackDelay / time.Millisecond)
}

// DBPath returns the configured database path, or "" when unset.
func (s Settings) DBPath() string {
	if s.Store.DB != nil {
		return *s.Store.DB
	}
	return ""
}

// WithTiming returns a copy with both timing values set.
func (s Settings) WithTiming(questionSeconds, feedbackMS int) Settings {
	s.Quiz.QuestionSeconds = &questionSeconds
	s.Quiz.FeedbackMS = &feedbackMS
	return s
}

// QuizConfig converts the settings to session timing.
func (s Settings) QuizConfig() quiz.Config {
	return quiz.Config{
		TimeBudget:    time.Duration(s.QuestionSeconds()) * time.Second,
		FeedbackDelay: time.Duration(s.FeedbackMS()) * time.Millisecond,
	}
}
