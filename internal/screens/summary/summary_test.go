package summary

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/labprep/internal/router"
	"github.com/abhisek/labprep/internal/screen"
	"github.com/abhisek/labprep/internal/session"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "welcome" }
func (s *stubScreen) Title() string                          { return "Welcome" }

type countingResetter struct{ calls int }

func (r *countingResetter) Reset(context.Context) { r.calls++ }

func TestViewBucketsAndReadiness(t *testing.T) {
	tests := []struct {
		name    string
		summary session.Summary
		want    []string
		absent  []string
	}{
		{
			name: "ready",
			summary: session.Summary{
				StudentName: "Ava", Total: 5, Required: 3, Ready: true,
				Strong:    []string{"Adiabatic Calorimetry", "Water Equivalent", "Specific Heat"},
				NeedsWork: []string{"Thermal Equilibrium", "Heat Loss"},
			},
			want:   []string{"Learning Summary for Ava:", "Strong Understanding", "Areas for Review", "Ava shows good readiness for the lab!"},
			absent: []string{"Developing Understanding"},
		},
		{
			name: "not ready",
			summary: session.Summary{
				StudentName: "Ben", Total: 5, Required: 3,
				Strong:     []string{"Adiabatic Calorimetry", "Water Equivalent"},
				Developing: []string{"Specific Heat", "Thermal Equilibrium", "Heat Loss"},
			},
			want:   []string{"Developing Understanding", "(2 of 5 strong, 3 needed)"},
			absent: []string{"Areas for Review", "good readiness"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(context.Background(), tt.summary, &countingResetter{}, func() screen.Screen { return &stubScreen{} })
			view := s.View(120, 40)
			for _, w := range tt.want {
				if !strings.Contains(view, w) {
					t.Errorf("view missing %q", w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(view, a) {
					t.Errorf("view unexpectedly contains %q", a)
				}
			}
		})
	}
}

func TestStartOverResets(t *testing.T) {
	r := &countingResetter{}
	s := New(context.Background(), session.Summary{StudentName: "Ava"}, r, func() screen.Screen { return &stubScreen{} })

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected transition command")
	}
	if r.calls != 1 {
		t.Errorf("Reset calls = %d, want 1", r.calls)
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok || msg.Screen.Title() != "Welcome" {
		t.Errorf("got %T", cmd())
	}
}

func TestStartOverShortcutAndHint(t *testing.T) {
	r := &countingResetter{}
	s := New(context.Background(), session.Summary{StudentName: "Ava"}, r, func() screen.Screen { return &stubScreen{} })

	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'x', Text: "x"}); cmd != nil || r.calls != 0 {
		t.Fatal("unbound key should do nothing")
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"}); cmd == nil || r.calls != 1 {
		t.Fatalf("r should start over, resets=%d", r.calls)
	}

	hints := s.KeyHints()
	if hints[0].Key != "Enter" || hints[0].Description != "Start Over" {
		t.Fatalf("unexpected first hint %+v", hints[0])
	}
}
