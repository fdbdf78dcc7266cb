package components

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/labprep/internal/ui/layout"
	"github.com/abhisek/labprep/internal/ui/theme"
)

// Button fires OnPress when its binding is pressed. A disabled button
// still renders, dimmed, and ignores keys.
type Button struct {
	Label   string
	Binding key.Binding
	OnPress func() tea.Cmd
}

// NewButton binds the button to the given keys; the first one is shown
// in key hints.
func NewButton(label string, onPress func() tea.Cmd, keys ...string) Button {
	if len(keys) == 0 {
		keys = []string{"enter"}
	}
	return Button{
		Label:   label,
		Binding: key.NewBinding(key.WithKeys(keys...), key.WithHelp(hintKey(keys[0]), label)),
		OnPress: onPress,
	}
}

func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	press, ok := msg.(tea.KeyPressMsg)
	if !ok || b.OnPress == nil || !key.Matches(press, b.Binding) {
		return b, nil
	}
	return b, b.OnPress()
}

// SetEnabled toggles whether the button reacts to its binding.
func (b *Button) SetEnabled(on bool) { b.Binding.SetEnabled(on) }

// Hint is the footer entry for this button.
func (b Button) Hint() layout.KeyHint {
	h := b.Binding.Help()
	return layout.KeyHint{Key: h.Key, Description: h.Desc}
}

func (b Button) View() string {
	if b.Binding.Enabled() {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render("  " + b.Label)
}

func hintKey(k string) string {
	switch k {
	case "enter":
		return "Enter"
	case "esc":
		return "Esc"
	default:
		return k
	}
}
