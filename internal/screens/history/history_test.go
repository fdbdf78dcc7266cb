package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/labprep/internal/router"
	"github.com/abhisek/labprep/internal/store"
)

type fakeLister struct {
	sessions []store.SessionRecord
	err      error
}

func (f fakeLister) RecentSessions(context.Context, int) ([]store.SessionRecord, error) {
	return f.sessions, f.err
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected load command")
	}
	s.Update(cmd())
}

func TestEmptyHistory(t *testing.T) {
	s := New(context.Background(), fakeLister{})
	if !strings.Contains(s.View(100, 30), "Loading history") {
		t.Error("expected loading notice before load")
	}
	load(t, s)
	if !strings.Contains(s.View(100, 30), "No sessions yet.") {
		t.Error("expected empty notice")
	}
}

func TestLoadError(t *testing.T) {
	s := New(context.Background(), fakeLister{err: errors.New("db locked")})
	load(t, s)
	if !strings.Contains(s.View(100, 30), "db locked") {
		t.Error("expected error in view")
	}
}

func TestExpandAssessments(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := New(context.Background(), fakeLister{sessions: []store.SessionRecord{
		{SessionID: "b", StudentName: "Ben", StartedAt: started, TopicCount: 5},
		{
			SessionID: "a", StudentName: "Ava", StartedAt: started, TopicCount: 1, Finished: true,
			Assessments: []store.AssessmentEvent{{AssessmentEventData: store.AssessmentEventData{
				TopicIndex: 0, Topic: "Adiabatic Calorimetry", Rating: "STRONG",
			}}},
		},
	}})
	load(t, s)

	view := s.View(120, 30)
	if !strings.Contains(view, "Ben") || !strings.Contains(view, "0/5 topics") {
		t.Error("expected Ben's session line")
	}
	if !strings.Contains(view, "1/1 topics, finished") {
		t.Error("expected Ava's finished session line")
	}
	if strings.Contains(view, "Adiabatic Calorimetry") {
		t.Error("assessments should be collapsed")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(120, 30), "1. Adiabatic Calorimetry: Strong") {
		t.Error("expected expanded assessment")
	}

	// Down at the end stays put.
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
}

func TestEscPops(t *testing.T) {
	s := New(context.Background(), fakeLister{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("got %T", cmd())
	}
}
