package result

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizapp/internal/quiz"
	"github.com/abhisek/quizapp/internal/router"
	"github.com/abhisek/quizapp/internal/screen"
	"github.com/abhisek/quizapp/internal/ui/components"
	"github.com/abhisek/quizapp/internal/ui/layout"
	"github.com/abhisek/quizapp/internal/ui/theme"
)

// Data is what the result screen displays.
type Data struct {
	CategoryLabel string
	Result        quiz.Result

	// Questions holds the asked questions in order, for the review list.
	Questions []quiz.Question
}

// ResultScreen displays the final score of a quiz.
type ResultScreen struct {
	data    Data
	retry   func() screen.Screen
	buttons components.ButtonRow
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)
var _ screen.EscapeCapturer = (*ResultScreen)(nil)

// New creates a ResultScreen. retry builds a fresh quiz for the same
// category; when nil the retry action is not offered.
func New(data Data, retry func() screen.Screen) *ResultScreen {
	r := &ResultScreen{data: data, retry: retry}

	var buttons []components.Button
	if retry != nil {
		buttons = append(buttons, components.NewButton("PLAY AGAIN", false, func() tea.Cmd {
			return r.retryCmd()
		}))
	}
	buttons = append(buttons, components.NewButton("HOME", false, func() tea.Cmd {
		return router.PopToRoot
	}))
	r.buttons = components.NewButtonRow(buttons...)
	return r
}

func (r *ResultScreen) Init() tea.Cmd {
	return nil
}

func (r *ResultScreen) Title() string {
	return "Results"
}

func (r *ResultScreen) CapturesEscape() bool {
	return true
}

func (r *ResultScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Select"},
	}
	if r.retry != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Retry"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Home"})
}

func (r *ResultScreen) retryCmd() tea.Cmd {
	if r.retry == nil {
		return nil
	}
	return router.Replace(r.retry())
}

func (r *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc", "q":
			return r, router.PopToRoot
		case "r", "R":
			return r, r.retryCmd()
		}
	}

	var cmd tea.Cmd
	r.buttons, cmd = r.buttons.Update(msg)
	return r, cmd
}

// ScoreLine formats the score the way the result screen shows it.
func ScoreLine(res quiz.Result) string {
	return fmt.Sprintf("Your score: %d out of %d", res.Score, res.Total)
}

// AccuracyLine formats accuracy as a percentage with one decimal.
func AccuracyLine(res quiz.Result) string {
	return fmt.Sprintf("Accuracy: %.1f%%", res.Accuracy*100)
}

func (r *ResultScreen) View(width, height int) string {
	res := r.data.Result
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder

	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render("Quiz Completed"))
	b.WriteString("\n")
	if r.data.CategoryLabel != "" {
		b.WriteString(center.Foreground(theme.TextDim).Render(r.data.CategoryLabel))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(center.Foreground(theme.Text).Bold(true).Render(ScoreLine(res)))
	b.WriteString("\n")
	b.WriteString(center.Foreground(accuracyColor(res.Accuracy)).Render(AccuracyLine(res)))
	b.WriteString("\n\n")

	barWidth := min(width-8, 40)
	bar := components.NewProgressBar("", res.Accuracy, false, barWidth)
	bar.Fill = accuracyColor(res.Accuracy)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	// Per-question review, as many lines as fit above the buttons.
	review := r.reviewLines(min(width-8, 70))
	room := max(height-lipgloss.Height(b.String())-6, 0)
	if len(review) > room {
		review = review[:room]
	}
	if len(review) > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(review, "\n")))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, r.buttons.View()))

	return b.String()
}

func (r *ResultScreen) reviewLines(w int) []string {
	outcomes := r.data.Result.Outcomes
	lines := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		text := fmt.Sprintf("Question %d", o.Index+1)
		answer := ""
		if o.Index < len(r.data.Questions) {
			q := r.data.Questions[o.Index]
			text = q.Text
			answer = q.CorrectOption()
		}

		var mark string
		var style lipgloss.Style
		switch {
		case o.TimedOut:
			mark, style = "⏱", lipgloss.NewStyle().Foreground(theme.Accent)
		case o.Correct:
			mark, style = "✓", theme.Correct
		default:
			mark, style = "✗", theme.Incorrect
		}

		line := fmt.Sprintf("%s %s", mark, text)
		if answer != "" && !o.Correct {
			line += "  → " + answer
		}
		lines = append(lines, style.Width(w).MaxHeight(1).Render(line))
	}
	return lines
}

func accuracyColor(acc float64) color.Color {
	switch {
	case acc >= 0.8:
		return theme.Success
	case acc >= 0.5:
		return theme.Accent
	default:
		return theme.Error
	}
}
