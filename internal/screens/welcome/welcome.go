package welcome

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizapp/internal/router"
	"github.com/abhisek/quizapp/internal/screen"
	"github.com/abhisek/quizapp/internal/screens/history"
	"github.com/abhisek/quizapp/internal/screens/selection"
	"github.com/abhisek/quizapp/internal/screens/settings"
	"github.com/abhisek/quizapp/internal/store"
	"github.com/abhisek/quizapp/internal/ui/components"
	"github.com/abhisek/quizapp/internal/ui/layout"
	"github.com/abhisek/quizapp/internal/ui/theme"
)

const (
	tickInterval = 60 * time.Millisecond
	bannerEnd    = 300 * time.Millisecond
)

// Tagline is typed out under the banner.
const Tagline = "Test your knowledge, one question at a time."

// Menu labels.
const (
	LabelStart    = "START QUIZ"
	LabelHistory  = "HISTORY"
	LabelSettings = "SETTINGS"
	LabelExit     = "EXIT"
)

type tickMsg time.Time

type lastAttemptMsg struct {
	Record *store.AttemptRecord
}

// WelcomeScreen is the root screen: banner, tagline and the main menu.
// The menu appears once the tagline has been typed out; any key skips the
// animation.
type WelcomeScreen struct {
	env     *screen.Env
	menu    components.Menu
	elapsed time.Duration
	typed   int // tagline runes revealed
	last    *store.AttemptRecord
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)
var _ screen.Refreshable = (*WelcomeScreen)(nil)

// New creates the WelcomeScreen.
func New(env *screen.Env) *WelcomeScreen {
	w := &WelcomeScreen{env: env}
	w.menu = components.NewMenu([]components.MenuItem{
		{Label: LabelStart, Action: func() tea.Cmd {
			return router.Push(selection.New(env))
		}},
		{Label: LabelHistory, Action: func() tea.Cmd {
			return router.Push(history.New(env.Attempts))
		}},
		{Label: LabelSettings, Action: func() tea.Cmd {
			return router.Push(settings.New(env))
		}},
		{Label: LabelExit, Action: func() tea.Cmd {
			return tea.Quit
		}},
	})
	return w
}

func (w *WelcomeScreen) Title() string {
	return "Welcome"
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Batch(tick(), w.loadLast())
}

// Refresh reloads the last attempt when the player returns from a quiz.
func (w *WelcomeScreen) Refresh() tea.Cmd {
	return w.loadLast()
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	if !w.Ready() {
		return []layout.KeyHint{{Key: "any key", Description: "Skip"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Ready reports whether the animation has finished and the menu is live.
func (w *WelcomeScreen) Ready() bool {
	return w.typed >= len([]rune(Tagline))
}

func (w *WelcomeScreen) loadLast() tea.Cmd {
	repo := w.env.Attempts
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		recs, err := repo.RecentAttempts(context.Background(), store.QueryOpts{Limit: 1})
		if err != nil {
			slog.Warn("failed to load last attempt", "error", err)
			return lastAttemptMsg{}
		}
		if len(recs) == 0 {
			return lastAttemptMsg{}
		}
		return lastAttemptMsg{Record: &recs[0]}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.Ready() {
			return w, nil
		}
		w.elapsed += tickInterval
		if w.elapsed >= bannerEnd {
			w.typed++
		}
		return w, tick()

	case lastAttemptMsg:
		w.last = msg.Record
		return w, nil

	case tea.KeyPressMsg:
		if !w.Ready() {
			w.SkipIntro()
			return w, nil
		}
	}

	var cmd tea.Cmd
	w.menu, cmd = w.menu.Update(msg)
	return w, cmd
}

// SkipIntro ends the animation and shows the menu.
func (w *WelcomeScreen) SkipIntro() {
	w.elapsed = bannerEnd
	w.typed = len([]rune(Tagline))
}

// LastLine summarizes the most recent attempt.
func LastLine(r store.AttemptRecord) string {
	return fmt.Sprintf("Last quiz: %s  %d/%d", r.CategoryLabel, r.Score, r.Total)
}

func (w *WelcomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, RenderBanner(cw))

	if w.elapsed >= bannerEnd {
		runes := []rune(Tagline)
		shown := string(runes[:min(w.typed, len(runes))])
		cursor := ""
		if !w.Ready() {
			cursor = "▌"
		}
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.ArcadeCyan).
			Bold(true).
			Render(shown+cursor))
	}

	if w.Ready() {
		sections = append(sections, w.menu.ArcadeView(min(cw, 32)))
		if w.last != nil {
			sections = append(sections, lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render(LastLine(*w.last)))
		}
	} else {
		sections = append(sections, theme.Hint.Render("press any key"))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, intersperse(sections, "")...)
	return components.CabinetFrame(content, width, height)
}

func intersperse(parts []string, sep string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}

// MenuLabels returns the menu labels in order.
func (w *WelcomeScreen) MenuLabels() []string {
	labels := make([]string, len(w.menu.Items))
	for i, it := range w.menu.Items {
		labels[i] = strings.TrimSpace(it.Label)
	}
	return labels
}
