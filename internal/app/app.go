// Package app wires the screens into the root Bubble Tea model.
package app

import (
	"context"
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/labprep/internal/router"
	"github.com/abhisek/labprep/internal/screen"
	"github.com/abhisek/labprep/internal/screens/history"
	"github.com/abhisek/labprep/internal/screens/summary"
	"github.com/abhisek/labprep/internal/screens/topic"
	"github.com/abhisek/labprep/internal/screens/welcome"
	"github.com/abhisek/labprep/internal/session"
	"github.com/abhisek/labprep/internal/ui/layout"
)

// Options holds the dependencies for the TUI.
type Options struct {
	Controller *session.Controller
	// Sessions enables the past-sessions screen when non-nil.
	Sessions history.SessionLister
	Logger   *slog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	ctx    context.Context
	opts   Options
	router *router.Router
	width  int
	height int
}

// newAppModel creates an AppModel starting at the welcome screen.
func newAppModel(ctx context.Context, opts Options) AppModel {
	m := AppModel{ctx: ctx, opts: opts}
	m.router = router.New(m.welcomeScreen())
	return m
}

func (m AppModel) welcomeScreen() screen.Screen {
	var hist func() screen.Screen
	if m.opts.Sessions != nil {
		hist = func() screen.Screen { return history.New(m.ctx, m.opts.Sessions) }
	}
	return welcome.New(m.ctx, m.opts.Controller, m.opts.Controller.Catalog().Len(), m.topicScreen, hist)
}

func (m AppModel) topicScreen() screen.Screen {
	return topic.New(m.ctx, m.opts.Controller, m.summaryScreen)
}

func (m AppModel) summaryScreen() screen.Screen {
	return summary.New(m.ctx, m.opts.Controller.Summarize(), m.opts.Controller, m.welcomeScreen)
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.router.Update(msg)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render lays out header, active screen and footer for the current size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, progress := "", ""
	var footerHints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if p, ok := active.(screen.ProgressProvider); ok {
			progress = p.Progress()
		}
		if kp, ok := active.(screen.KeyHintProvider); ok {
			footerHints = kp.KeyHints()
		}
	}
	if footerHints == nil {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	snap := m.opts.Controller.Snapshot()
	student := ""
	if snap.Started() {
		student = snap.StudentName
		if progress == "" && snap.Complete() {
			progress = "All topics done"
		}
	}
	header := layout.RenderHeader(title, student, progress, m.width)
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(0, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	if opts.Controller == nil {
		return fmt.Errorf("app: controller is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		opts.Logger.Error("tui exited", "error", err)
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
