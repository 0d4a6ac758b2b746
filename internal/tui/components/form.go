package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/netpay/internal/tui/tuistyles"
)

// numeric reports whether every rune is a digit or a thousands separator.
func numeric(runes []rune) bool {
	for _, r := range runes {
		if (r < '0' || r > '9') && r != ',' {
			return false
		}
	}
	return true
}

// Field is a labelled numeric input.
type Field struct {
	Label string
	Input textinput.Model
}

// Form is a vertical list of numeric fields with one focused at a time.
type Form struct {
	Fields []Field
	focus  int
}

// NewForm builds a form; defaults pairs each label with its initial value.
func NewForm(labels []string, defaults []string) Form {
	f := Form{}
	for i, label := range labels {
		ti := textinput.New()
		ti.CharLimit = 15
		ti.Width = 16
		ti.Prompt = ""
		if i < len(defaults) {
			ti.SetValue(defaults[i])
		}
		f.Fields = append(f.Fields, Field{Label: label, Input: ti})
	}
	if len(f.Fields) > 0 {
		f.Fields[0].Input.Focus()
	}
	return f
}

// Focused returns the index of the focused field.
func (f Form) Focused() int {
	return f.focus
}

// Value returns a field's text with separators removed.
func (f Form) Value(i int) string {
	if i < 0 || i >= len(f.Fields) {
		return ""
	}
	return strings.ReplaceAll(strings.TrimSpace(f.Fields[i].Input.Value()), ",", "")
}

// Move shifts focus by delta, wrapping around.
func (f Form) Move(delta int) Form {
	if len(f.Fields) == 0 {
		return f
	}
	f.Fields[f.focus].Input.Blur()
	f.focus = (f.focus + delta + len(f.Fields)) % len(f.Fields)
	f.Fields[f.focus].Input.Focus()
	return f
}

// Update forwards msg to the focused field. Non-numeric typing is dropped.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if len(f.Fields) == 0 {
		return f, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyRunes && !numeric(k.Runes) {
		return f, nil
	}
	var cmd tea.Cmd
	f.Fields[f.focus].Input, cmd = f.Fields[f.focus].Input.Update(msg)
	return f, cmd
}

// View renders one line per field.
func (f Form) View() string {
	var sb strings.Builder
	for i, field := range f.Fields {
		label := tuistyles.LabelStyle.Render(field.Label)
		if i == f.focus {
			label = tuistyles.FocusedLabelStyle.Render("› " + field.Label)
		}
		sb.WriteString(label + field.Input.View() + "\n")
	}
	return sb.String()
}
