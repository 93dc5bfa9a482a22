package quiz

import "time"

// State is the controller state of a Session.
type State int

const (
	StateAwaitingAnswer State = iota // Waiting for an answer or timeout on CurrentIndex
	StateTransitioning               // Answer committed, waiting for Advance
	StateCompleted                   // All questions done
)

func (s State) String() string {
	switch s {
	case StateAwaitingAnswer:
		return "awaiting-answer"
	case StateTransitioning:
		return "transitioning"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// Outcome is the committed result of one question.
type Outcome struct {
	// Index is the position of the question in the session.
	Index int

	// Selected is the chosen option, or -1 when the time ran out.
	Selected int

	// CorrectIndex is surfaced for feedback in both cases.
	CorrectIndex int

	Correct  bool
	TimedOut bool
}

// Result is the final score summary of a completed session.
type Result struct {
	Score    int
	Total    int
	Accuracy float64 // Score / Total
	Outcomes []Outcome
}

// Session sequences one quiz attempt from the first question to the final
// score. It owns no clock: callers arm a deadline, watch it with their own
// scheduler and call TimeExpired once it lapses.
//
// A Session is not safe for concurrent use; it is driven from a single
// event loop.
type Session struct {
	questions    []Question
	cfg          Config
	currentIndex int
	score        int
	state        State
	deadline     time.Time
	outcomes     []Outcome
}

// New creates a session positioned on the first question. An empty
// question list yields *EmptyQuizError and a malformed question yields
// *InvalidQuestionError; neither creates a session.
func New(questions []Question, cfg Config) (*Session, error) {
	if len(questions) == 0 {
		return nil, &EmptyQuizError{}
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, &InvalidQuestionError{Index: i, Err: err}
		}
	}
	qs := make([]Question, len(questions))
	copy(qs, questions)

	return &Session{
		questions: qs,
		cfg:       cfg.withDefaults(),
		state:     StateAwaitingAnswer,
		outcomes:  make([]Outcome, 0, len(qs)),
	}, nil
}

// SubmitAnswer scores the selected option for the current question and moves
// to StateTransitioning. A second call before Advance is a contract violation.
func (s *Session) SubmitAnswer(selected int) (Outcome, error) {
	if s.state != StateAwaitingAnswer {
		return Outcome{}, &InvalidStateError{Op: "SubmitAnswer", State: s.state}
	}
	if selected < 0 || selected >= OptionCount {
		return Outcome{}, ErrInvalidChoice
	}

	q := s.questions[s.currentIndex]
	out := Outcome{
		Index:        s.currentIndex,
		Selected:     selected,
		CorrectIndex: q.CorrectIndex,
		Correct:      q.IsCorrect(selected),
	}
	if out.Correct {
		s.score++
	}
	s.commit(out)
	return out, nil
}

// TimeExpired records a timeout for the current question. The score is left
// unchanged and the correct index is still reported.
func (s *Session) TimeExpired() (Outcome, error) {
	if s.state != StateAwaitingAnswer {
		return Outcome{}, &InvalidStateError{Op: "TimeExpired", State: s.state}
	}

	q := s.questions[s.currentIndex]
	out := Outcome{
		Index:        s.currentIndex,
		Selected:     -1,
		CorrectIndex: q.CorrectIndex,
		TimedOut:     true,
	}
	s.commit(out)
	return out, nil
}

func (s *Session) commit(out Outcome) {
	s.outcomes = append(s.outcomes, out)
	s.deadline = time.Time{}
	s.state = StateTransitioning
}

// Advance moves past the answered question. It returns StateCompleted after
// the last question and StateAwaitingAnswer otherwise.
func (s *Session) Advance() (State, error) {
	if s.state != StateTransitioning {
		return s.state, &InvalidStateError{Op: "Advance", State: s.state}
	}

	s.currentIndex++
	if s.currentIndex == len(s.questions) {
		s.state = StateCompleted
	} else {
		s.state = StateAwaitingAnswer
	}
	return s.state, nil
}

// Result returns the final score. Only valid once completed.
func (s *Session) Result() (Result, error) {
	if s.state != StateCompleted {
		return Result{}, &NotCompletedError{State: s.state}
	}
	total := len(s.questions)
	return Result{
		Score:    s.score,
		Total:    total,
		Accuracy: float64(s.score) / float64(total),
		Outcomes: s.Outcomes(),
	}, nil
}

// Arm starts the deadline for the current question at now + TimeBudget and
// returns it. Re-arming replaces the previous deadline.
func (s *Session) Arm(now time.Time) (time.Time, error) {
	if s.state != StateAwaitingAnswer {
		return time.Time{}, &InvalidStateError{Op: "Arm", State: s.state}
	}
	s.deadline = now.Add(s.cfg.TimeBudget)
	return s.deadline, nil
}

// Deadline returns the armed deadline for the current question, if any.
func (s *Session) Deadline() (time.Time, bool) {
	return s.deadline, !s.deadline.IsZero()
}

// Remaining returns the time left before the armed deadline, clamped at zero.
// Without an armed deadline the full budget is reported.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.deadline.IsZero() {
		if s.state == StateAwaitingAnswer {
			return s.cfg.TimeBudget
		}
		return 0
	}
	left := s.deadline.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Current returns the question being asked or just answered. The second
// value is false once the session is completed.
func (s *Session) Current() (Question, bool) {
	if s.currentIndex >= len(s.questions) {
		return Question{}, false
	}
	return s.questions[s.currentIndex], true
}

// LastOutcome returns the most recently committed outcome.
func (s *Session) LastOutcome() (Outcome, bool) {
	if len(s.outcomes) == 0 {
		return Outcome{}, false
	}
	return s.outcomes[len(s.outcomes)-1], true
}

// Outcomes returns a copy of the committed outcomes in question order.
func (s *Session) Outcomes() []Outcome {
	out := make([]Outcome, len(s.outcomes))
	copy(out, s.outcomes)
	return out
}

// Question returns the question at position i.
func (s *Session) Question(i int) (Question, bool) {
	if i < 0 || i >= len(s.questions) {
		return Question{}, false
	}
	return s.questions[i], true
}

// State returns the current controller state.
func (s *Session) State() State { return s.state }

// CurrentIndex returns the position of the question being asked. It equals
// Total once the session is completed.
func (s *Session) CurrentIndex() int { return s.currentIndex }

// Total returns the number of questions in the session.
func (s *Session) Total() int { return len(s.questions) }

// Score returns the number of correct answers so far.
func (s *Session) Score() int { return s.score }

// Answered returns the number of committed outcomes.
func (s *Session) Answered() int { return len(s.outcomes) }

func (s *Session) TimeBudget() time.Duration { return s.cfg.TimeBudget }

func (s *Session) FeedbackDelay() time.Duration { return s.cfg.FeedbackDelay }
