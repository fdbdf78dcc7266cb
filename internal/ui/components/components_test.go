package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/labprep/internal/session"
)

func TestButtonFiresOnBinding(t *testing.T) {
	pressed := 0
	b := NewButton("Continue", func() tea.Cmd { pressed++; return nil }, "enter", "c")

	b, _ = b.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	b, _ = b.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})
	b, _ = b.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if pressed != 2 {
		t.Fatalf("expected 2 presses, got %d", pressed)
	}

	b.SetEnabled(false)
	b.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if pressed != 2 {
		t.Fatal("disabled button fired")
	}
	if strings.Contains(b.View(), "▸") {
		t.Fatal("disabled button should not render the pointer")
	}

	if h := b.Hint(); h.Key != "Enter" || h.Description != "Continue" {
		t.Fatalf("unexpected hint %+v", h)
	}
}

func TestButtonDefaultsToEnter(t *testing.T) {
	pressed := false
	b := NewButton("Go", func() tea.Cmd { pressed = true; return nil })
	b.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !pressed {
		t.Fatal("expected enter to press a button with no keys given")
	}
}

func TestTopicTrack(t *testing.T) {
	track := TopicTrack{
		Phases:  []session.Phase{session.PhaseCompleted, session.PhaseInProgress, session.PhaseNotStarted},
		Current: 1,
		Width:   40,
	}
	view := track.View()
	if !strings.Contains(view, "1/3 done") {
		t.Fatalf("missing done count in %q", view)
	}
	if w := lipgloss.Width(view); w > 40 {
		t.Fatalf("track is %d cells wide, want at most 40", w)
	}

	if (TopicTrack{}).View() != "" {
		t.Fatal("empty track should render nothing")
	}
}
