package quiz

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testQuestions returns n questions whose correct index is i % 4.
func testQuestions(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			Text:         fmt.Sprintf("Question %d?", i+1),
			Options:      [OptionCount]string{"a", "b", "c", "d"},
			CorrectIndex: i % OptionCount,
		}
	}
	return qs
}

func wrongIndex(q Question) int {
	return (q.CorrectIndex + 1) % OptionCount
}

func TestNew_Empty(t *testing.T) {
	s, err := New(nil, DefaultConfig())
	assert.Nil(t, s)

	var empty *EmptyQuizError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, 0, empty.Category)
}

func TestNew_RejectsMalformedQuestion(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Question)
	}{
		{"correct index too large", func(q *Question) { q.CorrectIndex = 7 }},
		{"negative correct index", func(q *Question) { q.CorrectIndex = -1 }},
		{"blank text", func(q *Question) { q.Text = " " }},
		{"blank option", func(q *Question) { q.Options[3] = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := testQuestions(3)
			tt.mutate(&qs[1])

			s, err := New(qs, DefaultConfig())
			assert.Nil(t, s)

			var invalid *InvalidQuestionError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, 1, invalid.Index)
			assert.Contains(t, err.Error(), "question 2 is invalid")
		})
	}
}

func TestNew_InitialState(t *testing.T) {
	s, err := New(testQuestions(3), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, StateAwaitingAnswer, s.State())
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 3, s.Total())
	assert.Equal(t, DefaultTimeBudget, s.TimeBudget())
	assert.Equal(t, DefaultFeedbackDelay, s.FeedbackDelay())

	q, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Question 1?", q.Text)
}

func TestNew_CopiesQuestions(t *testing.T) {
	qs := testQuestions(2)
	s, err := New(qs, DefaultConfig())
	require.NoError(t, err)

	qs[0].Text = "mutated"
	q, _ := s.Current()
	assert.Equal(t, "Question 1?", q.Text)
}

func TestSubmitAnswer_Correct(t *testing.T) {
	s, err := New(testQuestions(2), DefaultConfig())
	require.NoError(t, err)

	out, err := s.SubmitAnswer(0)
	require.NoError(t, err)

	assert.True(t, out.Correct)
	assert.False(t, out.TimedOut)
	assert.Equal(t, 0, out.CorrectIndex)
	assert.Equal(t, 1, s.Score())
	assert.Equal(t, StateTransitioning, s.State())
	assert.Equal(t, 0, s.CurrentIndex())
}

func TestSubmitAnswer_Wrong(t *testing.T) {
	s, err := New(testQuestions(2), DefaultConfig())
	require.NoError(t, err)

	out, err := s.SubmitAnswer(3)
	require.NoError(t, err)

	assert.False(t, out.Correct)
	assert.Equal(t, 3, out.Selected)
	assert.Equal(t, 0, out.CorrectIndex)
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, StateTransitioning, s.State())
}

func TestSubmitAnswer_OutOfRange(t *testing.T) {
	s, err := New(testQuestions(1), DefaultConfig())
	require.NoError(t, err)

	for _, sel := range []int{-1, 4, 99} {
		_, err := s.SubmitAnswer(sel)
		assert.ErrorIs(t, err, ErrInvalidChoice, "selected=%d", sel)
	}
	assert.Equal(t, StateAwaitingAnswer, s.State())
	assert.Equal(t, 0, s.Score())
	assert.Empty(t, s.Outcomes())
}

func TestSubmitAnswer_TwiceIsRejected(t *testing.T) {
	s, err := New(testQuestions(2), DefaultConfig())
	require.NoError(t, err)

	_, err = s.SubmitAnswer(0)
	require.NoError(t, err)

	_, err = s.SubmitAnswer(0)
	var invalid *InvalidStateError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "SubmitAnswer", invalid.Op)
	assert.Equal(t, StateTransitioning, invalid.State)
	assert.Equal(t, 1, s.Score(), "score must count the question once")
}

func TestTimeExpired(t *testing.T) {
	s, err := New(testQuestions(2), DefaultConfig())
	require.NoError(t, err)

	out, err := s.TimeExpired()
	require.NoError(t, err)

	assert.True(t, out.TimedOut)
	assert.False(t, out.Correct)
	assert.Equal(t, -1, out.Selected)
	assert.Equal(t, 0, out.CorrectIndex)
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, StateTransitioning, s.State())
}

func TestTimeExpired_AfterAnswerIsRejected(t *testing.T) {
	s, err := New(testQuestions(2), DefaultConfig())
	require.NoError(t, err)

	_, err = s.SubmitAnswer(1)
	require.NoError(t, err)

	_, err = s.TimeExpired()
	var invalid *InvalidStateError
	require.ErrorAs(t, err, &invalid)
	assert.Len(t, s.Outcomes(), 1)
}

func TestAdvance(t *testing.T) {
	s, err := New(testQuestions(2), DefaultConfig())
	require.NoError(t, err)

	_, err = s.Advance()
	var invalid *InvalidStateError
	require.ErrorAs(t, err, &invalid, "advance before answering")
	assert.Equal(t, 0, s.CurrentIndex())

	_, err = s.SubmitAnswer(0)
	require.NoError(t, err)

	st, err := s.Advance()
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingAnswer, st)
	assert.Equal(t, 1, s.CurrentIndex())

	_, err = s.TimeExpired()
	require.NoError(t, err)

	st, err = s.Advance()
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, st)
	assert.Equal(t, 2, s.CurrentIndex())

	_, ok := s.Current()
	assert.False(t, ok)

	_, err = s.Advance()
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, StateCompleted, invalid.State)
}

func TestResult_BeforeCompletion(t *testing.T) {
	s, err := New(testQuestions(1), DefaultConfig())
	require.NoError(t, err)

	_, err = s.Result()
	var nc *NotCompletedError
	require.ErrorAs(t, err, &nc)
	assert.Equal(t, StateAwaitingAnswer, nc.State)
}

func TestCompletedRejectsEverything(t *testing.T) {
	s, err := New(testQuestions(1), DefaultConfig())
	require.NoError(t, err)
	_, err = s.SubmitAnswer(0)
	require.NoError(t, err)
	_, err = s.Advance()
	require.NoError(t, err)

	var invalid *InvalidStateError
	_, err = s.SubmitAnswer(0)
	assert.ErrorAs(t, err, &invalid)
	_, err = s.TimeExpired()
	assert.ErrorAs(t, err, &invalid)
	_, err = s.Arm(time.Now())
	assert.ErrorAs(t, err, &invalid)
}

// Three questions: correct, wrong, timeout.
func TestScenario_MixedRun(t *testing.T) {
	qs := testQuestions(3)
	s, err := New(qs, DefaultConfig())
	require.NoError(t, err)

	_, err = s.SubmitAnswer(qs[0].CorrectIndex)
	require.NoError(t, err)
	_, err = s.Advance()
	require.NoError(t, err)

	_, err = s.SubmitAnswer(wrongIndex(qs[1]))
	require.NoError(t, err)
	_, err = s.Advance()
	require.NoError(t, err)

	_, err = s.TimeExpired()
	require.NoError(t, err)
	st, err := s.Advance()
	require.NoError(t, err)
	require.Equal(t, StateCompleted, st)

	res, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 3, res.Total)
	assert.InDelta(t, 1.0/3.0, res.Accuracy, 1e-9)
	require.Len(t, res.Outcomes, 3)
	assert.True(t, res.Outcomes[0].Correct)
	assert.False(t, res.Outcomes[1].Correct)
	assert.True(t, res.Outcomes[2].TimedOut)
}

func TestScenario_TwoOfThree(t *testing.T) {
	qs := testQuestions(3)
	s, err := New(qs, DefaultConfig())
	require.NoError(t, err)

	answers := []int{qs[0].CorrectIndex, qs[1].CorrectIndex, wrongIndex(qs[2])}
	for _, a := range answers {
		_, err := s.SubmitAnswer(a)
		require.NoError(t, err)
		_, err = s.Advance()
		require.NoError(t, err)
	}

	res, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, 2, res.Score)
	assert.InDelta(t, 0.667, res.Accuracy, 0.001)
}

func TestScenario_AllTimeouts(t *testing.T) {
	s, err := New(testQuestions(5), DefaultConfig())
	require.NoError(t, err)

	for s.State() != StateCompleted {
		_, err := s.TimeExpired()
		require.NoError(t, err)
		_, err = s.Advance()
		require.NoError(t, err)
	}

	res, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 5, res.Total)
	assert.Zero(t, res.Accuracy)
}

func TestScoreNeverExceedsAnswered(t *testing.T) {
	qs := testQuestions(8)
	s, err := New(qs, DefaultConfig())
	require.NoError(t, err)

	for i := 0; s.State() != StateCompleted; i++ {
		assert.LessOrEqual(t, s.Score(), s.Answered())
		assert.LessOrEqual(t, s.CurrentIndex(), s.Total())
		if i%3 == 2 {
			_, err = s.TimeExpired()
		} else {
			_, err = s.SubmitAnswer(qs[i].CorrectIndex)
		}
		require.NoError(t, err)
		assert.LessOrEqual(t, s.Score(), s.CurrentIndex()+1)
		_, err = s.Advance()
		require.NoError(t, err)
		assert.LessOrEqual(t, s.Score(), s.CurrentIndex())
	}
	assert.Equal(t, s.Total(), s.CurrentIndex())
}

func TestArmAndRemaining(t *testing.T) {
	cfg := Config{TimeBudget: 10 * time.Second, FeedbackDelay: time.Second}
	s, err := New(testQuestions(2), cfg)
	require.NoError(t, err)

	_, ok := s.Deadline()
	assert.False(t, ok)
	assert.Equal(t, 10*time.Second, s.Remaining(time.Now()))

	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	deadline, err := s.Arm(start)
	require.NoError(t, err)
	assert.Equal(t, start.Add(10*time.Second), deadline)

	got, ok := s.Deadline()
	require.True(t, ok)
	assert.Equal(t, deadline, got)

	assert.Equal(t, 4*time.Second, s.Remaining(start.Add(6*time.Second)))
	assert.Equal(t, time.Duration(0), s.Remaining(start.Add(time.Minute)))

	// An answer after the deadline is still scored; the caller decides
	// when time is up.
	out, err := s.SubmitAnswer(0)
	require.NoError(t, err)
	assert.True(t, out.Correct)

	_, ok = s.Deadline()
	assert.False(t, ok, "committing clears the deadline")
	assert.Equal(t, time.Duration(0), s.Remaining(start))
}

func TestConfigDefaults(t *testing.T) {
	s, err := New(testQuestions(1), Config{TimeBudget: 0, FeedbackDelay: -time.Second})
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeBudget, s.TimeBudget())
	assert.Equal(t, time.Duration(0), s.FeedbackDelay())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting-answer", StateAwaitingAnswer.String())
	assert.Equal(t, "transitioning", StateTransitioning.String())
	assert.Equal(t, "completed", StateCompleted.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "no questions available", (&EmptyQuizError{}).Error())
	assert.Equal(t, "no questions available for category 3", (&EmptyQuizError{Category: 3}).Error())

	err := error(&InvalidStateError{Op: "Advance", State: StateAwaitingAnswer})
	assert.Equal(t, "quiz: Advance not allowed in state awaiting-answer", err.Error())
	assert.False(t, errors.Is(err, ErrInvalidChoice))
}
