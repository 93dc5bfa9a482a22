package quiz

import (
	"time"

	qz "github.com/abhisek/quizapp/internal/quiz"
)

// tickInterval is how often the countdown is refreshed and the deadline
// checked.
const tickInterval = 250 * time.Millisecond

// emptyRedirectDelay is how long the "no questions" notice stays up.
const emptyRedirectDelay = 2 * time.Second

// urgentThreshold is the remaining time at which the countdown turns red.
const urgentThreshold = 5 * time.Second

// sessionLoadedMsg carries the result of loading the category's questions.
type sessionLoadedMsg struct {
	Session *qz.Session
	Err     error
}

// timerTickMsg drives the countdown. Gen ties it to one question; ticks
// from an earlier question are dropped.
type timerTickMsg struct {
	Gen int
	At  time.Time
}

// feedbackDoneMsg ends the feedback pause for question Gen.
type feedbackDoneMsg struct {
	Gen int
}

// emptyRedirectMsg returns to the welcome screen after the empty notice.
// Screen names the notice's owner; the router hands messages to whichever
// screen is active, which may be a newer quiz by the time this fires.
type emptyRedirectMsg struct {
	Screen *QuizScreen
}
