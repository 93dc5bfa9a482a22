package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizapp/internal/screen"
	"github.com/abhisek/quizapp/internal/store"
	"github.com/abhisek/quizapp/internal/ui/layout"
	"github.com/abhisek/quizapp/internal/ui/theme"
)

// Limit is the number of attempts listed.
const Limit = 50

type historyLoadedMsg struct {
	Attempts []store.AttemptRecord
	Err      error
}

type answersLoadedMsg struct {
	AttemptID int
	Answers   []store.AnswerRecord
	Err       error
}

// HistoryScreen displays past quiz attempts.
type HistoryScreen struct {
	attempts store.AttemptRepo
	records  []store.AttemptRecord
	answers  map[int][]store.AnswerRecord // attempt ID → answers
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. A nil repo shows an empty history.
func New(attempts store.AttemptRepo) *HistoryScreen {
	return &HistoryScreen{
		attempts: attempts,
		answers:  make(map[int][]store.AnswerRecord),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.attempts
	return func() tea.Msg {
		if repo == nil {
			return historyLoadedMsg{}
		}
		records, err := repo.RecentAttempts(context.Background(), store.QueryOpts{Limit: Limit})
		return historyLoadedMsg{Attempts: records, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Attempts
		}
		s.loaded = true
		return s, nil

	case answersLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.answers[msg.AttemptID] = msg.Answers
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			return s, s.toggle()
		}
	}
	return s, nil
}

// toggle expands or collapses the selected attempt, loading its answers the
// first time it is opened.
func (s *HistoryScreen) toggle() tea.Cmd {
	if s.selected >= len(s.records) {
		return nil
	}
	s.expanded[s.selected] = !s.expanded[s.selected]

	id := s.records[s.selected].ID
	if !s.expanded[s.selected] || s.answers[id] != nil || s.attempts == nil {
		return nil
	}
	repo := s.attempts
	return func() tea.Msg {
		answers, err := repo.AttemptAnswers(context.Background(), id)
		if answers == nil && err == nil {
			answers = []store.AnswerRecord{}
		}
		return answersLoadedMsg{AttemptID: id, Answers: answers, Err: err}
	}
}

// Summary formats one attempt row.
func Summary(r store.AttemptRecord) string {
	return fmt.Sprintf("%s  %-18s  %2d/%-2d  %5.1f%%",
		r.FinishedAt.Local().Format("Jan 02 15:04"),
		r.CategoryLabel, r.Score, r.Total, r.Accuracy()*100)
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Pick a category and play!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, r := range s.records {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		style := lipgloss.NewStyle().Foreground(accuracyColor(r.Accuracy()))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(prefix+Summary(r))))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderAnswers(r.ID, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderAnswers(attemptID, width int) string {
	answers, ok := s.answers[attemptID]
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)

	var b strings.Builder
	switch {
	case !ok:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    Loading answers...")))
		b.WriteString("\n")
	case len(answers) == 0:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    No answers recorded")))
		b.WriteString("\n")
	default:
		lineWidth := min(width-8, 64)
		for _, a := range answers {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, AnswerLine(a, lineWidth)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// AnswerLine renders one stored answer with its outcome mark.
func AnswerLine(a store.AnswerRecord, width int) string {
	var mark string
	var style lipgloss.Style
	switch {
	case a.TimedOut:
		mark, style = "⏱", lipgloss.NewStyle().Foreground(theme.Accent)
	case a.Correct:
		mark, style = "✓", theme.Correct
	default:
		mark, style = "✗", theme.Incorrect
	}
	line := fmt.Sprintf("    %s %d. %s  (%.1fs)", mark, a.Position+1, a.Question, float64(a.ElapsedMs)/1000)
	return style.Width(width).MaxHeight(1).Render(line)
}

func accuracyColor(acc float64) color.Color {
	switch {
	case acc >= 0.8:
		return theme.Success
	case acc >= 0.5:
		return theme.Text
	default:
		return theme.Error
	}
}
