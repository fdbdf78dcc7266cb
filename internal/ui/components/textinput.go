package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/labprep/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with LabPrep styling.
type TextInput struct {
	Model    textinput.Model
	Label    string
	MaxWidth int
}

// NewTextInput creates a focused, styled text input. charLimit of 0 means
// unlimited.
func NewTextInput(label, placeholder string, charLimit, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit
	if maxWidth > 0 {
		ti.SetWidth(maxWidth)
	}
	ti.Focus()

	return TextInput{
		Model:    ti,
		Label:    label,
		MaxWidth: maxWidth,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input with its label.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.Label == "" {
		return view
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Label+" ") + view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Clear empties the input after a submission.
func (t *TextInput) Clear() {
	t.Model.Reset()
}

// SetEnabled focuses or blurs the input.
func (t *TextInput) SetEnabled(enabled bool) tea.Cmd {
	if enabled {
		return t.Model.Focus()
	}
	t.Model.Blur()
	return nil
}
