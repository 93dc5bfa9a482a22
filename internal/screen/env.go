package screen

import (
	"time"

	"github.com/abhisek/quizapp/internal/catalog"
	"github.com/abhisek/quizapp/internal/config"
	"github.com/abhisek/quizapp/internal/quiz"
	"github.com/abhisek/quizapp/internal/store"
)

// Env carries the services screens need. It is built once per process and
// shared by pointer, so settings saved on one screen apply to the next
// quiz started from another.
type Env struct {
	// Questions supplies quiz questions.
	Questions quiz.QuestionSource

	// Attempts records finished quizzes. Nil disables history.
	Attempts store.AttemptRepo

	// Catalog provides category labels.
	Catalog *catalog.Catalog

	// Settings is the live configuration; ConfigPath is where the settings
	// screen saves it.
	Settings   config.Settings
	ConfigPath string

	// Now is the clock used to arm question deadlines.
	Now func() time.Time
}

// QuizConfig returns the session timing from the current settings.
func (e *Env) QuizConfig() quiz.Config {
	return e.Settings.QuizConfig()
}

// Clock returns the current time from Now, or time.Now when unset.
func (e *Env) Clock() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Label returns the display label for a category.
func (e *Env) Label(category int) string {
	if e.Catalog == nil {
		return catalog.Default().Label(category)
	}
	return e.Catalog.Label(category)
}

// Categories returns the selectable categories.
func (e *Env) Categories() []catalog.Category {
	if e.Catalog == nil {
		return catalog.Default().Categories()
	}
	return e.Catalog.Categories()
}
