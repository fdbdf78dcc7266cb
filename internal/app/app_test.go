package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/labprep/internal/catalog"
	"github.com/abhisek/labprep/internal/router"
	"github.com/abhisek/labprep/internal/session"
)

type replyTutor struct{}

func (replyTutor) Respond(context.Context, session.TutorRequest) session.Outcome {
	return session.Outcome{Text: "What happens to the heat?"}
}

type strongEvaluator struct{}

func (strongEvaluator) Evaluate(context.Context, session.EvaluationRequest) session.Outcome {
	return session.Outcome{Text: "STRONG"}
}

func newTestModel(t *testing.T) AppModel {
	t.Helper()
	cat := catalog.New(catalog.TopicRecord{
		Topic:           "Adiabatic Calorimetry",
		InitialQuestion: "Why insulate the cup?",
		KeyConcepts:     []string{"no heat exchange"},
	})
	ctrl, err := session.NewController(cat, replyTutor{}, strongEvaluator{}, session.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	m := newAppModel(context.Background(), Options{Controller: ctrl})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(AppModel)
}

func press(m AppModel, msg tea.KeyPressMsg) (AppModel, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(AppModel), cmd
}

func TestWelcomeToTopic(t *testing.T) {
	m := newTestModel(t)
	if got := m.router.Active().Title(); got != "Welcome" {
		t.Fatalf("initial screen = %q, want Welcome", got)
	}
	if strings.Contains(m.render(), "All topics done") {
		t.Error("header should not mark an unstarted session complete")
	}

	for _, r := range "Ava" {
		m, _ = press(m, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	m, cmd := press(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected transition command")
	}
	msg := cmd()
	if _, ok := msg.(router.ReplaceScreenMsg); !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	updated, _ := m.Update(msg)
	m = updated.(AppModel)

	if got := m.router.Active().Title(); got != "Adiabatic Calorimetry" {
		t.Errorf("active screen = %q", got)
	}
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}

	view := m.render()
	if !strings.Contains(view, "Ava") || !strings.Contains(view, "Topic 1 of 1") {
		t.Error("header should show the student and progress")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(t)
	_, cmd := press(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestEscAtRootIsNoop(t *testing.T) {
	m := newTestModel(t)
	if _, cmd := press(m, tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("esc on the root screen should do nothing")
	}
}

func TestTooSmall(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	view := updated.(AppModel).render()
	if !strings.Contains(view, "Terminal too small!") {
		t.Error("tiny terminals should show the size notice instead of screens")
	}
}

func TestHeaderAfterSessionComplete(t *testing.T) {
	m := newTestModel(t)
	ctrl := m.opts.Controller
	ctx := context.Background()
	if err := ctrl.StartSession(ctx, "Ava"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := ctrl.SubmitResponse(ctx, 0, "Heat stays in the cup"); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := ctrl.MarkUnderstood(ctx, 0); err != nil {
		t.Fatal(err)
	}

	updated, _ := m.Update(router.ReplaceScreenMsg{Screen: m.summaryScreen()})
	view := updated.(AppModel).render()
	if !strings.Contains(view, "All topics done") {
		t.Error("header should mark the session complete")
	}
}
