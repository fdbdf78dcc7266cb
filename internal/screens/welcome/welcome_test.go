package welcome

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/labprep/internal/router"
	"github.com/abhisek/labprep/internal/screen"
	"github.com/abhisek/labprep/internal/session"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{ title string }

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return s.title }
func (s *stubScreen) Title() string                          { return s.title }

type fakeStarter struct {
	names []string
}

func (f *fakeStarter) StartSession(_ context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return &session.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	f.names = append(f.names, strings.TrimSpace(name))
	return nil
}

func newTestWelcome(withHistory bool) (*WelcomeScreen, *fakeStarter, *int) {
	starter := &fakeStarter{}
	calls := 0
	factory := func() screen.Screen {
		calls++
		return &stubScreen{title: "topic"}
	}
	var hist func() screen.Screen
	if withHistory {
		hist = func() screen.Screen { return &stubScreen{title: "history"} }
	}
	return New(context.Background(), starter, 5, factory, hist), starter, &calls
}

func typeText(w *WelcomeScreen, text string) {
	for _, r := range text {
		w.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestEnterStartsSession(t *testing.T) {
	w, starter, calls := newTestWelcome(false)
	typeText(w, "Ava")

	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a transition command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "topic" {
		t.Errorf("replaced with %q, want topic", msg.Screen.Title())
	}
	if len(starter.names) != 1 || starter.names[0] != "Ava" {
		t.Errorf("started with %v", starter.names)
	}
	if *calls != 1 {
		t.Errorf("factory calls = %d, want 1", *calls)
	}

	// A second Enter does not start again.
	if _, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("expected no command after transition")
	}
}

func TestBlankNameShowsError(t *testing.T) {
	w, starter, calls := newTestWelcome(false)
	typeText(w, "   ")

	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("blank name should not transition")
	}
	if len(starter.names) != 0 || *calls != 0 {
		t.Error("blank name should not start a session")
	}
	if !strings.Contains(w.View(100, 30), "Please enter your name first.") {
		t.Error("expected validation message in view")
	}

	// Typing clears the error.
	typeText(w, "B")
	if strings.Contains(w.View(100, 30), "Please enter your name first.") {
		t.Error("error should clear on input")
	}
}

func TestHistoryKey(t *testing.T) {
	w, _, _ := newTestWelcome(true)
	_, cmd := w.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected push command")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Errorf("expected PushScreenMsg, got %T", cmd())
	}

	w, _, _ = newTestWelcome(false)
	if _, cmd := w.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}); cmd != nil {
		t.Error("history key should be inert without a history screen")
	}
}

func TestViewShowsBannerAndTopicCount(t *testing.T) {
	w, _, _ := newTestWelcome(false)
	view := w.View(100, 30)
	if !strings.Contains(view, "5 topics") {
		t.Error("expected topic count in view")
	}
	if !strings.Contains(view, "██") {
		t.Error("expected full banner at wide widths")
	}
	if !strings.Contains(w.View(50, 30), bannerCompact) {
		t.Error("expected compact banner at narrow widths")
	}
}
