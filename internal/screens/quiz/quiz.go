package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	qz "github.com/abhisek/quizapp/internal/quiz"
	"github.com/abhisek/quizapp/internal/router"
	"github.com/abhisek/quizapp/internal/screen"
	"github.com/abhisek/quizapp/internal/screens/result"
	"github.com/abhisek/quizapp/internal/store"
	"github.com/abhisek/quizapp/internal/ui/components"
	"github.com/abhisek/quizapp/internal/ui/layout"
)

// QuizScreen presents one quiz attempt and owns its timers. The session
// controller is clockless; this screen arms each deadline, watches it with
// generation-tagged ticks, and calls TimeExpired when it lapses.
type QuizScreen struct {
	env      *screen.Env
	category int
	label    string

	session *qz.Session
	picker  components.AnswerPicker

	// gen increments for every question and every early advance so stale
	// tick and feedback messages can be recognized.
	gen int

	now           time.Time // last observed clock
	startedAt     time.Time // quiz start
	questionStart time.Time
	answers       []store.AnswerData

	empty       bool
	loadErr     error
	confirmQuit bool
	finished    bool

	// pendingAdvance holds a feedback timeout that fired under the quit
	// dialog.
	pendingAdvance bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.EscapeCapturer = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)

// New creates a quiz screen for the category.
func New(env *screen.Env, category int) *QuizScreen {
	return &QuizScreen{
		env:      env,
		category: category,
		label:    env.Label(category),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.loadSession()
}

func (s *QuizScreen) Title() string {
	return s.label
}

// Status shows the running score in the header.
func (s *QuizScreen) Status() string {
	if s.session == nil {
		return ""
	}
	return fmt.Sprintf("Score %d", s.session.Score())
}

func (s *QuizScreen) CapturesEscape() bool {
	return true
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.empty:
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.session == nil:
		return nil
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave quiz"},
			{Key: "N", Description: "Keep going"},
		}
	case s.session.State() == qz.StateTransitioning:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Quit"},
	}
}

// Session exposes the running session, nil until loaded.
func (s *QuizScreen) Session() *qz.Session {
	return s.session
}

func (s *QuizScreen) loadSession() tea.Cmd {
	src := s.env.Questions
	category := s.category
	cfg := s.env.QuizConfig()
	return func() tea.Msg {
		sess, err := qz.Start(context.Background(), src, category, cfg)
		return sessionLoadedMsg{Session: sess, Err: err}
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionLoadedMsg:
		return s.handleLoaded(msg)

	case emptyRedirectMsg:
		if msg.Screen != s || !s.empty {
			return s, nil
		}
		return s, router.PopToRoot

	case timerTickMsg:
		return s.handleTick(msg)

	case components.ChoiceMsg:
		return s.handleChoice(msg)

	case feedbackDoneMsg:
		if msg.Gen != s.gen {
			return s, nil
		}
		if s.confirmQuit {
			s.pendingAdvance = true
			return s, nil
		}
		return s.advance()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *QuizScreen) handleLoaded(msg sessionLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		var empty *qz.EmptyQuizError
		if !errors.As(msg.Err, &empty) {
			s.loadErr = msg.Err
		}
		s.empty = true
		slog.Info("quiz not started", "category", s.category, "error", msg.Err)
		return s, tea.Tick(emptyRedirectDelay, func(time.Time) tea.Msg {
			return emptyRedirectMsg{Screen: s}
		})
	}

	s.session = msg.Session
	s.startedAt = s.env.Clock()
	slog.Debug("quiz started", "category", s.category, "questions", s.session.Total())
	return s, s.startQuestion()
}

// startQuestion arms the deadline for the current question and starts a
// fresh tick chain for it.
func (s *QuizScreen) startQuestion() tea.Cmd {
	s.gen++
	s.now = s.env.Clock()
	s.questionStart = s.now
	if _, err := s.session.Arm(s.now); err != nil {
		slog.Error("arm deadline", "error", err)
		return nil
	}

	q, _ := s.session.Current()
	s.picker = components.NewAnswerPicker(q.Options[:])
	return tickCmd(s.gen)
}

func (s *QuizScreen) handleTick(msg timerTickMsg) (screen.Screen, tea.Cmd) {
	if msg.Gen != s.gen || s.session == nil || s.session.State() != qz.StateAwaitingAnswer {
		return s, nil
	}

	s.now = msg.At
	// The countdown keeps running under the quit dialog, but expiry waits
	// for it to close.
	if s.session.Remaining(msg.At) > 0 || s.confirmQuit {
		return s, tickCmd(s.gen)
	}

	out, err := s.session.TimeExpired()
	if err != nil {
		slog.Error("time expired", "error", err)
		return s, nil
	}
	s.picker.Reveal(out.CorrectIndex, -1)
	s.recordAnswer(out, msg.At)
	return s, s.feedbackCmd()
}

func (s *QuizScreen) handleChoice(msg components.ChoiceMsg) (screen.Screen, tea.Cmd) {
	if s.session == nil || s.session.State() != qz.StateAwaitingAnswer {
		return s, nil
	}

	out, err := s.session.SubmitAnswer(msg.Index)
	if err != nil {
		slog.Warn("submit answer", "index", msg.Index, "error", err)
		return s, nil
	}
	now := s.env.Clock()
	s.now = now
	s.picker.Reveal(out.CorrectIndex, out.Selected)
	s.recordAnswer(out, now)
	return s, s.feedbackCmd()
}

func (s *QuizScreen) recordAnswer(out qz.Outcome, at time.Time) {
	q, _ := s.session.Question(out.Index)
	s.answers = append(s.answers, store.AnswerData{
		Position:     out.Index,
		Question:     q.Text,
		Selected:     out.Selected,
		CorrectIndex: out.CorrectIndex,
		Correct:      out.Correct,
		TimedOut:     out.TimedOut,
		ElapsedMs:    at.Sub(s.questionStart).Milliseconds(),
	})
}

func (s *QuizScreen) feedbackCmd() tea.Cmd {
	gen := s.gen
	return tea.Tick(s.session.FeedbackDelay(), func(time.Time) tea.Msg {
		return feedbackDoneMsg{Gen: gen}
	})
}

// advance moves past the answered question. Bumping gen first makes any
// pending feedback timer for it a no-op.
func (s *QuizScreen) advance() (screen.Screen, tea.Cmd) {
	if s.session == nil || s.session.State() != qz.StateTransitioning {
		return s, nil
	}
	s.gen++

	st, err := s.session.Advance()
	if err != nil {
		slog.Error("advance", "error", err)
		return s, nil
	}
	if st == qz.StateCompleted {
		return s, s.finish()
	}
	return s, s.startQuestion()
}

// finish records the attempt and swaps in the result screen.
func (s *QuizScreen) finish() tea.Cmd {
	if s.finished {
		return nil
	}
	s.finished = true

	res, err := s.session.Result()
	if err != nil {
		slog.Error("quiz result", "error", err)
		return router.PopToRoot
	}

	if s.env.Attempts != nil {
		_, err := s.env.Attempts.AppendAttempt(context.Background(), store.AttemptData{
			Category:      s.category,
			CategoryLabel: s.label,
			Score:         res.Score,
			Total:         res.Total,
			StartedAt:     s.startedAt,
			FinishedAt:    s.env.Clock(),
			Answers:       s.answers,
		})
		if err != nil {
			slog.Warn("failed to record attempt", "category", s.category, "error", err)
		}
	}

	questions := make([]qz.Question, s.session.Total())
	for i := range questions {
		questions[i], _ = s.session.Question(i)
	}

	env, category := s.env, s.category
	return router.Replace(result.New(result.Data{
		CategoryLabel: s.label,
		Result:        res,
		Questions:     questions,
	}, func() screen.Screen {
		return New(env, category)
	}))
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.empty {
		return s, router.PopToRoot
	}
	if s.session == nil {
		if key == "esc" {
			return s, router.PopToRoot
		}
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			slog.Debug("quiz abandoned", "category", s.category, "answered", s.session.Answered())
			return s, router.PopToRoot
		case "n", "N", "esc":
			s.confirmQuit = false
			if s.pendingAdvance {
				s.pendingAdvance = false
				return s.advance()
			}
		}
		return s, nil
	}

	if key == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	switch s.session.State() {
	case qz.StateTransitioning:
		// Any key skips the rest of the feedback pause.
		return s.advance()
	case qz.StateAwaitingAnswer:
		var cmd tea.Cmd
		s.picker, cmd = s.picker.Update(msg)
		return s, cmd
	}
	return s, nil
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return timerTickMsg{Gen: gen, At: t}
	})
}
