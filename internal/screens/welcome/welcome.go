// Package welcome implements the name-entry screen that starts a session.
package welcome

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/labprep/internal/router"
	"github.com/abhisek/labprep/internal/screen"
	"github.com/abhisek/labprep/internal/session"
	"github.com/abhisek/labprep/internal/ui/components"
	"github.com/abhisek/labprep/internal/ui/layout"
	"github.com/abhisek/labprep/internal/ui/theme"
)

const nameLimit = 40

// Starter begins a learning session.
type Starter interface {
	StartSession(ctx context.Context, name string) error
}

// WelcomeScreen collects the learner's name and starts the session.
type WelcomeScreen struct {
	ctx          context.Context
	starter      Starter
	topicFactory func() screen.Screen
	history      func() screen.Screen
	topicCount   int
	input        components.TextInput
	errMsg       string
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen. topicFactory builds the first topic screen
// once the session has started; history may be nil.
func New(ctx context.Context, starter Starter, topicCount int, topicFactory, history func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		ctx:          ctx,
		starter:      starter,
		topicFactory: topicFactory,
		history:      history,
		topicCount:   topicCount,
		input:        components.NewTextInput("What's your name?", "Your name", nameLimit, nameLimit),
	}
}

func (w *WelcomeScreen) Title() string {
	return "Welcome"
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Let's Start Learning!"}}
	if w.history != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+R", Description: "Past sessions"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return w.input.Init()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter":
			return w, w.start()
		case "ctrl+r":
			if w.history != nil {
				next := w.history()
				return w, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
			return w, nil
		}
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	if _, ok := msg.(tea.KeyPressMsg); ok {
		w.errMsg = ""
	}
	return w, cmd
}

func (w *WelcomeScreen) start() tea.Cmd {
	if w.transitioned {
		return nil
	}
	if err := w.starter.StartSession(w.ctx, w.input.Value()); err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			w.errMsg = "Please enter your name first."
		} else {
			w.errMsg = err.Error()
		}
		return nil
	}
	w.transitioned = true
	next := w.topicFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	center := func(s string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, s) }

	sections := []string{
		RenderBanner(width),
		"",
		center(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
			Render("Calorimetry lab prep with a Socratic tutor")),
		center(theme.Hint.Render(topicLine(w.topicCount))),
		"",
		center(w.input.View()),
	}
	if w.errMsg != "" {
		sections = append(sections, "", center(theme.ErrorText.Render(w.errMsg)))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

func topicLine(n int) string {
	if n == 1 {
		return "1 topic to talk through before lab"
	}
	return fmt.Sprintf("%d topics to talk through before lab", n)
}
