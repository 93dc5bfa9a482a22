package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizapp/internal/ui/theme"
)

// optionLabels label the options on screen. Keys 1-4 and a-d pick them.
var optionLabels = []string{"A", "B", "C", "D"}

// AnswerPicker is a multiple-choice selector. It reports a choice and then
// waits to be revealed; scoring happens elsewhere.
type AnswerPicker struct {
	Options  []string
	Selected int

	chosen   int
	locked   bool
	revealed bool
	correct  int
}

// ChoiceMsg is emitted when the player picks an option.
type ChoiceMsg struct {
	Index int
}

// NewAnswerPicker creates a picker over the given options.
func NewAnswerPicker(options []string) AnswerPicker {
	return AnswerPicker{
		Options: options,
		chosen:  -1,
		correct: -1,
	}
}

// Init returns nil.
func (p AnswerPicker) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection. Once a choice is made
// the picker ignores further keys.
func (p AnswerPicker) Update(msg tea.Msg) (AnswerPicker, tea.Cmd) {
	if p.locked {
		return p, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k", "left", "h":
		if p.Selected > 0 {
			p.Selected--
		}
		return p, nil
	case "down", "j", "right", "l":
		if p.Selected < len(p.Options)-1 {
			p.Selected++
		}
		return p, nil
	case "enter", "space":
		return p.choose(p.Selected)
	}

	if idx := optionIndex(key); idx >= 0 && idx < len(p.Options) {
		p.Selected = idx
		return p.choose(idx)
	}
	return p, nil
}

func (p AnswerPicker) choose(idx int) (AnswerPicker, tea.Cmd) {
	p.locked = true
	p.chosen = idx
	return p, func() tea.Msg { return ChoiceMsg{Index: idx} }
}

// optionIndex maps "1".."4" and "a".."d" to an option index, or -1.
func optionIndex(key string) int {
	if len(key) != 1 {
		return -1
	}
	c := key[0]
	switch {
	case c >= '1' && c <= '4':
		return int(c - '1')
	case c >= 'a' && c <= 'd':
		return int(c - 'a')
	case c >= 'A' && c <= 'D':
		return int(c - 'A')
	}
	return -1
}

// Reveal marks the correct option. chosen is -1 when nothing was picked.
func (p *AnswerPicker) Reveal(correct, chosen int) {
	p.locked = true
	p.revealed = true
	p.correct = correct
	p.chosen = chosen
}

// Locked reports whether the picker has stopped accepting keys.
func (p AnswerPicker) Locked() bool {
	return p.locked
}

// View renders the options at the given width.
func (p AnswerPicker) View(width int) string {
	lines := make([]string, 0, len(p.Options))
	for i, opt := range p.Options {
		prefix := "  "
		if i == p.Selected && !p.locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, optionLabels[i], opt)

		var style lipgloss.Style
		switch {
		case p.revealed && i == p.correct:
			style = theme.Correct
			line += "  ✓"
		case p.revealed && i == p.chosen:
			style = theme.Incorrect
			line += "  ✗"
		case p.revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == p.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		lines = append(lines, style.Width(width).Render(line))
	}
	return strings.Join(lines, "\n")
}
