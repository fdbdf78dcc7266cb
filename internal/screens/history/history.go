// Package history lists past sessions and their topic assessments.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/labprep/internal/router"
	"github.com/abhisek/labprep/internal/screen"
	"github.com/abhisek/labprep/internal/session"
	"github.com/abhisek/labprep/internal/store"
	"github.com/abhisek/labprep/internal/ui/components"
	"github.com/abhisek/labprep/internal/ui/layout"
	"github.com/abhisek/labprep/internal/ui/theme"
)

const sessionLimit = 50

// SessionLister returns recent sessions, newest first.
type SessionLister interface {
	RecentSessions(ctx context.Context, limit int) ([]store.SessionRecord, error)
}

type historyLoadedMsg struct {
	Sessions []store.SessionRecord
	Err      error
}

// HistoryScreen displays past sessions and their assessments.
type HistoryScreen struct {
	ctx      context.Context
	lister   SessionLister
	sessions []store.SessionRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(ctx context.Context, lister SessionLister) *HistoryScreen {
	return &HistoryScreen{
		ctx:      ctx,
		lister:   lister,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	ctx, lister := s.ctx, s.lister
	return func() tea.Msg {
		sessions, err := lister.RecentSessions(ctx, sessionLimit)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Past Sessions"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	notice := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return notice.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return notice.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return notice.Foreground(theme.TextDim).Italic(true).Render("\n\n  No sessions yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		status := fmt.Sprintf("%d/%d topics", len(rec.Assessments), rec.TopicCount)
		if rec.Finished {
			status += ", finished"
		}
		line := fmt.Sprintf("%s%s  %-16s  %s",
			prefix, rec.StartedAt.Local().Format("Jan 02, 2006 15:04"), rec.StudentName, status)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(renderAssessments(rec.Assessments, width))
		}
	}

	return b.String()
}

func renderAssessments(as []store.AssessmentEvent, width int) string {
	if len(as) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
				Render("    No topics assessed")) + "\n"
	}
	var b strings.Builder
	for _, a := range as {
		rating, _ := session.ParseRating(a.Rating)
		line := fmt.Sprintf("    %d. %s: %s", a.TopicIndex+1, a.Topic, rating.Label())
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(components.RatingColor(rating)).Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
