// Package summary implements the end-of-session results screen.
package summary

import (
	"context"
	"fmt"
	"image/color"
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

// Resetter clears the session for "Start Over".
type Resetter interface {
	Reset(ctx context.Context)
}

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	ctx     context.Context
	summary session.Summary
	button  components.Button
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. Start Over resets the session and replaces
// this screen with the one built by restart.
func New(ctx context.Context, summary session.Summary, resetter Resetter, restart func() screen.Screen) *SummaryScreen {
	s := &SummaryScreen{ctx: ctx, summary: summary}
	s.button = components.NewButton("Start Over", func() tea.Cmd {
		resetter.Reset(s.ctx)
		next := restart()
		return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}, "enter", "r")
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Learning Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		s.button.Hint(),
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.button, cmd = s.button.Update(msg)
	return s, cmd
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := func(str string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, str) }

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Success).Bold(true).
		Render("Great job completing the learning session!")))
	b.WriteString("\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("Learning Summary for %s:", sum.StudentName))))
	b.WriteString("\n\n")

	writeBucket(&b, width, "Strong Understanding", sum.Strong, theme.Success)
	writeBucket(&b, width, "Developing Understanding", sum.Developing, theme.Secondary)
	writeBucket(&b, width, "Areas for Review", sum.NeedsWork, theme.Warning)

	b.WriteString(layout.Divider(width))
	b.WriteString("\n\n")
	b.WriteString(center(readiness(sum)))
	b.WriteString("\n\n")
	b.WriteString(center(s.button.View()))

	return b.String()
}

func writeBucket(b *strings.Builder, width int, title string, topics []string, c color.Color) {
	if len(topics) == 0 {
		return
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(c).Bold(true).Render(title)))
	b.WriteString("\n")
	for _, t := range topics {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Text).Render("- "+t)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func readiness(sum session.Summary) string {
	if sum.Ready {
		return lipgloss.NewStyle().Foreground(theme.Success).Bold(true).
			Render(fmt.Sprintf("%s shows good readiness for the lab!", sum.StudentName))
	}
	return lipgloss.NewStyle().Foreground(theme.Accent).
		Render(fmt.Sprintf("%s would benefit from reviewing some concepts before lab. (%d of %d strong, %d needed)",
			sum.StudentName, len(sum.Strong), sum.Total, sum.Required))
}
