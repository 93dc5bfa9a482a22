package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizapp/internal/quiz"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "default", c.Name())
	assert.Equal(t, FormatVersion, c.Format())
	assert.Equal(t, 15, c.Len())

	cats := c.Categories()
	require.Len(t, cats, 12)
	for i, cat := range cats {
		assert.Equal(t, i+1, cat.ID)
	}
	assert.Equal(t, "Math", cats[0].Label)
	assert.Equal(t, "Science", cats[1].Label)
	assert.Equal(t, "General Knowledge", cats[2].Label)

	for id := 1; id <= 3; id++ {
		assert.Len(t, c.Questions(id), 5, "category %d", id)
	}
	for id := 4; id <= 12; id++ {
		assert.Empty(t, c.Questions(id), "category %d", id)
	}
}

func TestDefault_SeedQuestions(t *testing.T) {
	c := Default()

	math := c.Questions(1)
	require.NotEmpty(t, math)
	assert.Equal(t, "What is 2 + 2?", math[0].Text)
	assert.Equal(t, "4", math[0].CorrectOption())

	sci := c.Questions(2)
	assert.Equal(t, "Mars", sci[0].CorrectOption())

	gk := c.Questions(3)
	assert.Equal(t, "Nile", gk[4].CorrectOption())
}

func TestLabel(t *testing.T) {
	c := Default()
	assert.Equal(t, "Animals", c.Label(12))
	assert.Equal(t, "Category 42", c.Label(42))
}

func TestQuestionsReturnsCopy(t *testing.T) {
	c := Default()
	qs := c.Questions(1)
	qs[0].Text = "changed"
	assert.Equal(t, "What is 2 + 2?", c.Questions(1)[0].Text)
}

func TestAll(t *testing.T) {
	entries := Default().All()
	require.Len(t, entries, 15)
	assert.Equal(t, 1, entries[0].Category)
	assert.Equal(t, 3, entries[14].Category)
}

func TestSource(t *testing.T) {
	src := Default().Source()
	ctx := context.Background()

	n, err := src.CountFor(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	qs, err := src.QuestionsFor(ctx, 2)
	require.NoError(t, err)
	assert.ElementsMatch(t, Default().Questions(2), qs)

	qs, err = src.QuestionsFor(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, qs)

	_, err = quiz.Start(ctx, src, 7, quiz.DefaultConfig())
	var empty *quiz.EmptyQuizError
	assert.ErrorAs(t, err, &empty)
}

func TestSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Default().Source().QuestionsFor(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
