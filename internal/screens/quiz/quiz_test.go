package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	qz "github.com/abhisek/quizapp/internal/quiz"
	"github.com/abhisek/quizapp/internal/router"
	"github.com/abhisek/quizapp/internal/screen"
	"github.com/abhisek/quizapp/internal/screens/result"
	"github.com/abhisek/quizapp/internal/store"
	"github.com/abhisek/quizapp/internal/ui/components"
)

// mockSource implements qz.QuestionSource for testing.
type mockSource struct {
	questions []qz.Question
	err       error
}

func (m *mockSource) QuestionsFor(_ context.Context, _ int) ([]qz.Question, error) {
	return m.questions, m.err
}

func (m *mockSource) CountFor(_ context.Context, _ int) (int, error) {
	return len(m.questions), m.err
}

// mockAttemptRepo implements store.AttemptRepo for testing.
type mockAttemptRepo struct {
	attempts []store.AttemptData
}

func (m *mockAttemptRepo) AppendAttempt(_ context.Context, data store.AttemptData) (store.AttemptRecord, error) {
	m.attempts = append(m.attempts, data)
	return store.AttemptRecord{ID: len(m.attempts), Score: data.Score, Total: data.Total}, nil
}
func (m *mockAttemptRepo) RecentAttempts(_ context.Context, _ store.QueryOpts) ([]store.AttemptRecord, error) {
	return nil, nil
}
func (m *mockAttemptRepo) AttemptAnswers(_ context.Context, _ int) ([]store.AnswerRecord, error) {
	return nil, nil
}
func (m *mockAttemptRepo) CategoryStats(_ context.Context) ([]store.CategoryStat, error) {
	return nil, nil
}
func (m *mockAttemptRepo) DeleteAll(_ context.Context) (int, error) {
	return 0, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testQuestions() []qz.Question {
	return []qz.Question{
		{Text: "What is 2 + 2?", Options: [4]string{"3", "4", "5", "6"}, CorrectIndex: 1},
		{Text: "What is 5 x 3?", Options: [4]string{"8", "15", "10", "20"}, CorrectIndex: 1},
		{Text: "What is 10 / 2?", Options: [4]string{"2", "3", "5", "7"}, CorrectIndex: 2},
	}
}

func testEnv(src *mockSource) (*screen.Env, *mockAttemptRepo) {
	attempts := &mockAttemptRepo{}
	env := &screen.Env{
		Questions: src,
		Attempts:  attempts,
		Now:       func() time.Time { return t0 },
	}
	return env, attempts
}

// startedScreen returns a screen with its session already loaded.
func startedScreen(t *testing.T) (*QuizScreen, *mockAttemptRepo) {
	t.Helper()
	env, attempts := testEnv(&mockSource{questions: testQuestions()})
	s := New(env, 1)
	s.Update(s.Init()())
	if s.Session() == nil {
		t.Fatal("session not loaded")
	}
	return s, attempts
}

// answer presses the key and feeds the resulting ChoiceMsg back in.
func answer(t *testing.T, s *QuizScreen, key rune) {
	t.Helper()
	_, cmd := s.Update(keyPress(key))
	if cmd == nil {
		t.Fatalf("key %q produced no command", key)
	}
	msg, ok := cmd().(components.ChoiceMsg)
	if !ok {
		t.Fatalf("key %q did not choose an option", key)
	}
	s.Update(msg)
}

func TestQuizScreen_Title(t *testing.T) {
	env, _ := testEnv(&mockSource{})
	s := New(env, 1)
	if s.Title() != "Math" {
		t.Errorf("Title = %q, want %q", s.Title(), "Math")
	}
}

func TestQuizScreen_Loads(t *testing.T) {
	s, _ := startedScreen(t)

	if s.Session().Total() != 3 {
		t.Errorf("Total = %d, want 3", s.Session().Total())
	}
	if s.Session().State() != qz.StateAwaitingAnswer {
		t.Errorf("State = %v, want awaiting-answer", s.Session().State())
	}
	if d, ok := s.Session().Deadline(); !ok || !d.Equal(t0.Add(qz.DefaultTimeBudget)) {
		t.Errorf("Deadline = %v, %v; want armed at t0+budget", d, ok)
	}

	view := s.View(80, 24)
	for _, want := range []string{"Question 1 of 3", "What is 2 + 2?", "15s"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestQuizScreen_CorrectAnswer(t *testing.T) {
	s, _ := startedScreen(t)

	answer(t, s, '2')

	if s.Session().State() != qz.StateTransitioning {
		t.Fatalf("State = %v, want transitioning", s.Session().State())
	}
	if s.Session().Score() != 1 {
		t.Errorf("Score = %d, want 1", s.Session().Score())
	}
	if !s.picker.Locked() {
		t.Error("picker should lock after an answer")
	}
	if s.Status() != "Score 1" {
		t.Errorf("Status = %q, want %q", s.Status(), "Score 1")
	}
	if !strings.Contains(s.View(80, 24), "Correct!") {
		t.Error("view missing correct feedback")
	}
}

func TestQuizScreen_WrongAnswerShowsCorrectOption(t *testing.T) {
	s, _ := startedScreen(t)

	answer(t, s, '1')

	if s.Session().Score() != 0 {
		t.Errorf("Score = %d, want 0", s.Session().Score())
	}
	view := s.View(80, 24)
	if !strings.Contains(view, "Wrong answer") || !strings.Contains(view, "The answer was: 4") {
		t.Error("view missing incorrect feedback")
	}
}

func TestQuizScreen_SecondAnswerIgnored(t *testing.T) {
	s, _ := startedScreen(t)

	answer(t, s, '1')
	s.Update(components.ChoiceMsg{Index: 1})

	if s.Session().Answered() != 1 {
		t.Errorf("Answered = %d, want 1", s.Session().Answered())
	}
	if s.Session().Score() != 0 {
		t.Errorf("Score = %d, want 0", s.Session().Score())
	}
}

func TestQuizScreen_TickBeforeDeadline(t *testing.T) {
	s, _ := startedScreen(t)

	_, cmd := s.Update(timerTickMsg{Gen: s.gen, At: t0.Add(3 * time.Second)})
	if cmd == nil {
		t.Error("expected next tick to be scheduled")
	}
	if s.Session().State() != qz.StateAwaitingAnswer {
		t.Errorf("State = %v, want awaiting-answer", s.Session().State())
	}
	if !strings.Contains(s.View(80, 24), "12s") {
		t.Error("countdown not updated")
	}
}

func TestQuizScreen_Timeout(t *testing.T) {
	s, _ := startedScreen(t)

	s.Update(timerTickMsg{Gen: s.gen, At: t0.Add(qz.DefaultTimeBudget)})

	out, ok := s.Session().LastOutcome()
	if !ok || !out.TimedOut {
		t.Fatalf("LastOutcome = %+v, %v; want timeout", out, ok)
	}
	if out.Selected != -1 {
		t.Errorf("Selected = %d, want -1", out.Selected)
	}
	if s.Session().Score() != 0 {
		t.Errorf("Score = %d, want 0", s.Session().Score())
	}
	if !strings.Contains(s.View(80, 24), "Time's up!") {
		t.Error("view missing timeout feedback")
	}
}

func TestQuizScreen_StaleTickIgnored(t *testing.T) {
	s, _ := startedScreen(t)
	stale := s.gen

	answer(t, s, '2')
	s.Update(feedbackDoneMsg{Gen: s.gen})

	// A tick from the first question must not expire the second one.
	_, cmd := s.Update(timerTickMsg{Gen: stale, At: t0.Add(time.Hour)})
	if cmd != nil {
		t.Error("stale tick scheduled a command")
	}
	if s.Session().CurrentIndex() != 1 || s.Session().State() != qz.StateAwaitingAnswer {
		t.Errorf("index=%d state=%v, want 1 awaiting-answer", s.Session().CurrentIndex(), s.Session().State())
	}
}

func TestQuizScreen_StaleFeedbackIgnored(t *testing.T) {
	s, _ := startedScreen(t)

	answer(t, s, '2')
	pending := s.gen

	// Any key skips the pause; the original timer must then be a no-op.
	s.Update(keyPress('x'))
	if s.Session().CurrentIndex() != 1 {
		t.Fatalf("CurrentIndex = %d, want 1", s.Session().CurrentIndex())
	}

	s.Update(feedbackDoneMsg{Gen: pending})
	if s.Session().CurrentIndex() != 1 || s.Session().State() != qz.StateAwaitingAnswer {
		t.Errorf("index=%d state=%v, want 1 awaiting-answer", s.Session().CurrentIndex(), s.Session().State())
	}
}

func TestQuizScreen_CompletesAndRecords(t *testing.T) {
	s, attempts := startedScreen(t)

	answer(t, s, '2') // correct
	s.Update(feedbackDoneMsg{Gen: s.gen})
	answer(t, s, '1') // wrong
	s.Update(feedbackDoneMsg{Gen: s.gen})
	s.Update(timerTickMsg{Gen: s.gen, At: t0.Add(time.Minute)}) // timeout
	_, cmd := s.Update(feedbackDoneMsg{Gen: s.gen})

	if s.Session().State() != qz.StateCompleted {
		t.Fatalf("State = %v, want completed", s.Session().State())
	}
	if cmd == nil {
		t.Fatal("expected replace command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*result.ResultScreen); !ok {
		t.Errorf("replacement = %T, want *result.ResultScreen", msg.Screen)
	}

	if len(attempts.attempts) != 1 {
		t.Fatalf("recorded %d attempts, want 1", len(attempts.attempts))
	}
	a := attempts.attempts[0]
	if a.Score != 1 || a.Total != 3 {
		t.Errorf("attempt = %d/%d, want 1/3", a.Score, a.Total)
	}
	if a.Category != 1 || a.CategoryLabel != "Math" {
		t.Errorf("category = %d %q, want 1 Math", a.Category, a.CategoryLabel)
	}
	if len(a.Answers) != 3 {
		t.Fatalf("answers = %d, want 3", len(a.Answers))
	}
	if !a.Answers[2].TimedOut || a.Answers[2].Selected != -1 {
		t.Errorf("third answer = %+v, want timeout", a.Answers[2])
	}
}

func TestQuizScreen_EmptyCategory(t *testing.T) {
	env, _ := testEnv(&mockSource{})
	s := New(env, 7)
	_, cmd := s.Update(s.Init()())

	if s.Session() != nil {
		t.Error("session should not start for an empty category")
	}
	if cmd == nil {
		t.Error("expected redirect timer")
	}
	if !strings.Contains(s.View(80, 24), "No questions available for this category") {
		t.Error("view missing empty notice")
	}

	_, cmd = s.Update(emptyRedirectMsg{Screen: s})
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("redirect should pop to root")
	}
}

func TestQuizScreen_RedirectIgnoredByLoadedQuiz(t *testing.T) {
	env, _ := testEnv(&mockSource{})
	emptyScreen := New(env, 7)
	emptyScreen.Update(emptyScreen.Init()())

	// The empty notice was dismissed and a new quiz started before its
	// redirect timer fired.
	s, _ := startedScreen(t)
	for _, msg := range []emptyRedirectMsg{{Screen: emptyScreen}, {Screen: s}} {
		if _, cmd := s.Update(msg); cmd != nil {
			t.Errorf("loaded quiz returned a command for %+v", msg)
		}
	}
	if s.Session().State() != qz.StateAwaitingAnswer {
		t.Errorf("State = %v, want awaiting-answer", s.Session().State())
	}
}

func TestQuizScreen_SourceError(t *testing.T) {
	env, _ := testEnv(&mockSource{err: errors.New("db locked")})
	s := New(env, 1)
	s.Update(s.Init()())

	if !s.empty {
		t.Error("source error should show the empty notice")
	}

	_, cmd := s.Update(keyPress('x'))
	if cmd == nil {
		t.Fatal("expected key to leave")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("key should pop to root")
	}
}

func TestQuizScreen_QuitConfirm(t *testing.T) {
	s, attempts := startedScreen(t)

	s.Update(specialKey(tea.KeyEscape))
	if !s.confirmQuit {
		t.Fatal("esc should ask for confirmation")
	}
	if !strings.Contains(s.View(80, 24), "Leave this quiz?") {
		t.Error("view missing confirmation")
	}

	s.Update(keyPress('n'))
	if s.confirmQuit {
		t.Error("n should dismiss the confirmation")
	}

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("y should leave")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("y should pop to root")
	}
	if len(attempts.attempts) != 0 {
		t.Error("abandoned quiz should not be recorded")
	}
}

func TestQuizScreen_DeadlineWaitsForQuitDialog(t *testing.T) {
	s, _ := startedScreen(t)

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(timerTickMsg{Gen: s.gen, At: t0.Add(16 * time.Second)})
	if s.Session().State() != qz.StateAwaitingAnswer {
		t.Fatalf("State = %v, want awaiting-answer under the dialog", s.Session().State())
	}
	if cmd == nil {
		t.Error("tick chain should keep running under the dialog")
	}

	s.Update(keyPress('n'))
	s.Update(timerTickMsg{Gen: s.gen, At: t0.Add(17 * time.Second)})
	if s.Session().State() != qz.StateTransitioning {
		t.Fatalf("State = %v, want transitioning once the dialog closes", s.Session().State())
	}
	if out, _ := s.Session().LastOutcome(); !out.TimedOut {
		t.Errorf("outcome = %+v, want timeout", out)
	}
}

// lastQuestionAnswered plays up to an answered final question.
func lastQuestionAnswered(t *testing.T) (*QuizScreen, *mockAttemptRepo) {
	t.Helper()
	s, attempts := startedScreen(t)
	answer(t, s, '2')
	s.Update(feedbackDoneMsg{Gen: s.gen})
	answer(t, s, '2')
	s.Update(feedbackDoneMsg{Gen: s.gen})
	answer(t, s, '2')
	if s.Session().State() != qz.StateTransitioning || s.Session().CurrentIndex() != 2 {
		t.Fatalf("index=%d state=%v, want 2 transitioning", s.Session().CurrentIndex(), s.Session().State())
	}
	return s, attempts
}

func TestQuizScreen_FeedbackWaitsForQuitDialog(t *testing.T) {
	s, attempts := lastQuestionAnswered(t)

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(feedbackDoneMsg{Gen: s.gen})
	if cmd != nil {
		t.Error("feedback timeout under the dialog should not finish the quiz")
	}
	if s.Session().State() != qz.StateTransitioning {
		t.Errorf("State = %v, want transitioning", s.Session().State())
	}

	_, cmd = s.Update(keyPress('y'))
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("y should pop to root")
	}
	if len(attempts.attempts) != 0 {
		t.Errorf("recorded %d attempts after leaving, want 0", len(attempts.attempts))
	}
}

func TestQuizScreen_DeferredAdvanceAfterDialog(t *testing.T) {
	s, attempts := lastQuestionAnswered(t)

	s.Update(specialKey(tea.KeyEscape))
	s.Update(feedbackDoneMsg{Gen: s.gen})

	_, cmd := s.Update(keyPress('n'))
	if s.Session().State() != qz.StateCompleted {
		t.Fatalf("State = %v, want completed after the dialog closes", s.Session().State())
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected the result screen once the dialog closes")
	}
	if len(attempts.attempts) != 1 {
		t.Errorf("recorded %d attempts, want 1", len(attempts.attempts))
	}
}

func TestQuizScreen_ConfirmSwallowsAnswers(t *testing.T) {
	s, _ := startedScreen(t)

	s.Update(specialKey(tea.KeyEscape))
	s.Update(keyPress('2'))

	if s.Session().Answered() != 0 {
		t.Error("answer accepted while confirming quit")
	}
}

func TestQuizScreen_CapturesEscape(t *testing.T) {
	env, _ := testEnv(&mockSource{})
	if !New(env, 1).CapturesEscape() {
		t.Error("quiz screen should capture esc")
	}
}

func TestCountdownText(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{15 * time.Second, "15s"},
		{4200 * time.Millisecond, "5s"},
		{1 * time.Millisecond, "1s"},
		{0, "0s"},
		{-time.Second, "0s"},
	}
	for _, tt := range tests {
		if got := CountdownText(tt.in); got != tt.want {
			t.Errorf("CountdownText(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProgressText(t *testing.T) {
	if got := ProgressText(0, 5); got != "Question 1 of 5" {
		t.Errorf("ProgressText = %q", got)
	}
}
