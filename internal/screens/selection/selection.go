package selection

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizapp/internal/catalog"
	"github.com/abhisek/quizapp/internal/router"
	"github.com/abhisek/quizapp/internal/screen"
	quizscreen "github.com/abhisek/quizapp/internal/screens/quiz"
	"github.com/abhisek/quizapp/internal/ui/layout"
	"github.com/abhisek/quizapp/internal/ui/theme"
)

// Columns is the width of the category grid.
const Columns = 3

// countsLoadedMsg carries question counts keyed by category ID.
type countsLoadedMsg struct {
	Counts map[int]int
}

// SelectionScreen lets the player pick a category from a grid.
type SelectionScreen struct {
	env        *screen.Env
	categories []catalog.Category
	counts     map[int]int
	cursor     int
}

var _ screen.Screen = (*SelectionScreen)(nil)
var _ screen.KeyHintProvider = (*SelectionScreen)(nil)
var _ screen.Refreshable = (*SelectionScreen)(nil)

// New creates a SelectionScreen over env's categories.
func New(env *screen.Env) *SelectionScreen {
	return &SelectionScreen{
		env:        env,
		categories: env.Categories(),
	}
}

func (s *SelectionScreen) Init() tea.Cmd {
	return s.loadCounts()
}

// Refresh reloads the counts, e.g. after a reseed.
func (s *SelectionScreen) Refresh() tea.Cmd {
	return s.loadCounts()
}

func (s *SelectionScreen) Title() string {
	return "Choose a Category"
}

func (s *SelectionScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "Move"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

// Selected returns the category under the cursor.
func (s *SelectionScreen) Selected() (catalog.Category, bool) {
	if s.cursor < 0 || s.cursor >= len(s.categories) {
		return catalog.Category{}, false
	}
	return s.categories[s.cursor], true
}

// Count returns the loaded question count for a category and whether it is
// known yet.
func (s *SelectionScreen) Count(category int) (int, bool) {
	if s.counts == nil {
		return 0, false
	}
	n, ok := s.counts[category]
	return n, ok
}

func (s *SelectionScreen) loadCounts() tea.Cmd {
	src := s.env.Questions
	cats := s.categories
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		counts := make(map[int]int, len(cats))
		for _, c := range cats {
			n, err := src.CountFor(ctx, c.ID)
			if err != nil {
				slog.Warn("failed to count questions", "category", c.ID, "error", err)
				continue
			}
			counts[c.ID] = n
		}
		return countsLoadedMsg{Counts: counts}
	}
}

func (s *SelectionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case countsLoadedMsg:
		s.counts = msg.Counts
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "left", "h":
			s.move(-1)
		case "right", "l", "tab":
			s.move(1)
		case "up", "k":
			s.move(-Columns)
		case "down", "j":
			s.move(Columns)
		case "enter", "space":
			return s, s.start()
		}
	}
	return s, nil
}

// move shifts the cursor by delta, staying put when that would leave the
// grid.
func (s *SelectionScreen) move(delta int) {
	next := s.cursor + delta
	if next < 0 || next >= len(s.categories) {
		return
	}
	s.cursor = next
}

func (s *SelectionScreen) start() tea.Cmd {
	c, ok := s.Selected()
	if !ok {
		return nil
	}
	slog.Debug("category selected", "category", c.ID, "label", c.Label)
	return router.Push(quizscreen.New(s.env, c.ID))
}

func (s *SelectionScreen) View(width, height int) string {
	cellWidth := max(min((width-4)/Columns-2, 24), 12)

	var rows []string
	for start := 0; start < len(s.categories); start += Columns {
		end := min(start+Columns, len(s.categories))
		cells := make([]string, 0, Columns)
		for i := start; i < end; i++ {
			cells = append(cells, s.renderCell(i, cellWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.ArcadeYellow).
		Bold(true).
		Render("SELECT A CATEGORY"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Left, rows...)))
	return b.String()
}

func (s *SelectionScreen) renderCell(i, cellWidth int) string {
	c := s.categories[i]
	selected := i == s.cursor

	countLine := "…"
	dim := false
	if n, ok := s.Count(c.ID); ok {
		countLine = CountLabel(n)
		dim = n == 0
	}

	border := theme.Border
	labelColor := theme.Text
	if selected {
		border = theme.ArcadeYellow
		labelColor = theme.ArcadeYellow
	}

	labelStyle := lipgloss.NewStyle().Foreground(labelColor).Bold(selected)
	if dim && !selected {
		labelStyle = theme.Disabled
	}
	label := labelStyle.Render(c.Label)
	count := lipgloss.NewStyle().Foreground(theme.TextDim).Render(countLine)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(cellWidth).
		Align(lipgloss.Center).
		Render(label + "\n" + count)
}

// CountLabel formats a question count for a grid cell.
func CountLabel(n int) string {
	switch n {
	case 0:
		return "no questions"
	case 1:
		return "1 question"
	}
	return fmt.Sprintf("%d questions", n)
}
