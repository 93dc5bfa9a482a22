package quiz

import (
	"fmt"
	"math"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/quizapp/internal/quiz"
	"github.com/abhisek/quizapp/internal/ui/components"
	"github.com/abhisek/quizapp/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	switch {
	case s.empty:
		return s.renderEmpty(width)
	case s.session == nil:
		return renderLoading(width)
	case s.confirmQuit:
		return renderQuitConfirm(width)
	}
	return s.renderQuestion(width, height)
}

// CountdownText formats the remaining time as whole seconds, rounded up so
// the display only reads 0 once the deadline has passed.
func CountdownText(remaining time.Duration) string {
	secs := int(math.Ceil(remaining.Seconds()))
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%ds", secs)
}

// ProgressText is the "Question i of n" label.
func ProgressText(index, total int) string {
	return fmt.Sprintf("Question %d of %d", index+1, total)
}

func (s *QuizScreen) renderQuestion(width, height int) string {
	q, ok := s.session.Current()
	if !ok {
		return renderLoading(width)
	}
	cw := min(width-4, 72)

	var b strings.Builder

	// Progress left, countdown right.
	remaining := s.session.Remaining(s.now)
	urgent := s.session.State() == qz.StateAwaitingAnswer && remaining <= urgentThreshold
	timerStyle := theme.TimerNormal
	if urgent {
		timerStyle = theme.TimerUrgent
	}
	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(ProgressText(s.session.CurrentIndex(), s.session.Total()))
	right := timerStyle.Render("⏱ " + CountdownText(remaining))
	gap := max(cw-lipgloss.Width(left)-lipgloss.Width(right), 1)
	info := left + strings.Repeat(" ", gap) + right

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, info))
	b.WriteString("\n")

	budget := s.session.TimeBudget()
	fraction := 0.0
	if budget > 0 {
		fraction = float64(remaining) / float64(budget)
	}
	bar := components.NewTimeBar(fraction, urgent, cw)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(q.Text)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.picker.View(cw)))

	if s.session.State() == qz.StateTransitioning {
		b.WriteString("\n\n")
		b.WriteString(s.renderFeedback(width))
	}

	return b.String()
}

func (s *QuizScreen) renderFeedback(width int) string {
	out, ok := s.session.LastOutcome()
	if !ok {
		return ""
	}
	q, _ := s.session.Question(out.Index)
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	switch {
	case out.Correct:
		b.WriteString(center.Foreground(theme.Success).Bold(true).Render("Correct!"))
	case out.TimedOut:
		b.WriteString(center.Foreground(theme.Accent).Bold(true).Render("Time's up!"))
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.TextDim).Render("The answer was: " + q.CorrectOption()))
	default:
		b.WriteString(center.Foreground(theme.Error).Bold(true).Render("Wrong answer"))
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.TextDim).Render("The answer was: " + q.CorrectOption()))
	}
	return b.String()
}

func (s *QuizScreen) renderEmpty(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Accent).Bold(true).Render("No questions available for this category"))
	b.WriteString("\n")
	if s.loadErr != nil {
		b.WriteString(center.Foreground(theme.TextDim).Render(s.loadErr.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("Returning to the menu..."))
	return b.String()
}

func renderQuitConfirm(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("Leave this quiz?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("This attempt will not be recorded."))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Success).Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Loading questions...")
}
