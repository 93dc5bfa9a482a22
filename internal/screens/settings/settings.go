package settings

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizapp/internal/config"
	"github.com/abhisek/quizapp/internal/screen"
	"github.com/abhisek/quizapp/internal/ui/components"
	"github.com/abhisek/quizapp/internal/ui/layout"
	"github.com/abhisek/quizapp/internal/ui/theme"
)

const (
	fieldSeconds = iota
	fieldFeedback
	fieldCount
)

// SettingsScreen edits quiz timing and saves it to the config file.
type SettingsScreen struct {
	env    *screen.Env
	inputs [fieldCount]components.TextInput
	focus  int

	message string
	failed  bool
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)

// New creates a SettingsScreen prefilled from env.Settings.
func New(env *screen.Env) *SettingsScreen {
	s := &SettingsScreen{env: env}

	s.inputs[fieldSeconds] = components.NewTextInput("Seconds per question", "15", true, 3)
	s.inputs[fieldSeconds].SetValue(strconv.Itoa(env.Settings.QuestionSeconds()))

	s.inputs[fieldFeedback] = components.NewTextInput("Feedback delay (ms)", "1500", true, 5)
	s.inputs[fieldFeedback].SetValue(strconv.Itoa(env.Settings.FeedbackMS()))

	return s
}

func (s *SettingsScreen) Init() tea.Cmd {
	return s.inputs[s.focus].Focus()
}

func (s *SettingsScreen) Title() string {
	return "Settings"
}

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Back"},
	}
}

// Focus returns the index of the focused field.
func (s *SettingsScreen) Focus() int {
	return s.focus
}

// Message returns the last save status.
func (s *SettingsScreen) Message() (string, bool) {
	return s.message, s.failed
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
		case "enter":
			s.save()
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *SettingsScreen) setFocus(i int) tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = i
	return s.inputs[s.focus].Focus()
}

func (s *SettingsScreen) save() {
	secs, secErr := s.inputs[fieldSeconds].NumericValue()
	ms, msErr := s.inputs[fieldFeedback].NumericValue()

	secOK := secErr == nil && secs >= config.MinQuestionSeconds && secs <= config.MaxQuestionSeconds
	msOK := msErr == nil && ms >= config.MinFeedbackMS && ms <= config.MaxFeedbackMS
	s.inputs[fieldSeconds].Submit(secOK)
	s.inputs[fieldFeedback].Submit(msOK)

	switch {
	case !secOK:
		s.fail(fmt.Sprintf("Seconds must be between %d and %d", config.MinQuestionSeconds, config.MaxQuestionSeconds))
		return
	case !msOK:
		s.fail(fmt.Sprintf("Feedback delay must be between %d and %d ms", config.MinFeedbackMS, config.MaxFeedbackMS))
		return
	}

	next := s.env.Settings.WithTiming(secs, ms)
	if s.env.ConfigPath != "" {
		if err := config.Save(s.env.ConfigPath, next); err != nil {
			slog.Warn("failed to save settings", "path", s.env.ConfigPath, "error", err)
			s.fail("Could not save: " + err.Error())
			return
		}
	}
	s.env.Settings = next
	s.failed = false
	s.message = "Saved. Applies to the next quiz."
	slog.Info("settings saved", "question_seconds", secs, "feedback_ms", ms)
}

func (s *SettingsScreen) fail(msg string) {
	s.failed = true
	s.message = msg
}

func (s *SettingsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var fields []string
	for _, in := range s.inputs {
		fields = append(fields, in.View())
	}
	card := components.ArcadeCard(strings.Join(fields, "\n\n"), cw)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")

	hint := fmt.Sprintf("Seconds %d-%d · Feedback %d-%d ms",
		config.MinQuestionSeconds, config.MaxQuestionSeconds, config.MinFeedbackMS, config.MaxFeedbackMS)
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Render(hint))

	if s.message != "" {
		color := theme.Success
		if s.failed {
			color = theme.Error
		}
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(color).Render(s.message))
	}
	return b.String()
}
