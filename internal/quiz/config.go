package quiz

import "time"

const (
	// DefaultTimeBudget is how long the player has for each question.
	DefaultTimeBudget = 15 * time.Second

	// DefaultFeedbackDelay is how long answer feedback stays on screen
	// before the caller advances the session.
	DefaultFeedbackDelay = 1500 * time.Millisecond
)

// Config controls session timing. The session itself never waits; both
// values are exposed for the caller's scheduler.
type Config struct {
	// TimeBudget is the per-question answer window.
	TimeBudget time.Duration

	// FeedbackDelay is the pause between an answer and Advance.
	FeedbackDelay time.Duration
}

// DefaultConfig returns the reference timing.
func DefaultConfig() Config {
	return Config{
		TimeBudget:    DefaultTimeBudget,
		FeedbackDelay: DefaultFeedbackDelay,
	}
}

func (c Config) withDefaults() Config {
	if c.TimeBudget <= 0 {
		c.TimeBudget = DefaultTimeBudget
	}
	if c.FeedbackDelay < 0 {
		c.FeedbackDelay = 0
	}
	return c
}
