package session

import (
	"context"
	"testing"
)

func TestConfig_RequiredStrong(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct{ n, want int }{
		{0, 0}, {1, 1}, {2, 2}, {3, 2}, {4, 3}, {5, 3}, {10, 6},
	}
	for _, tt := range tests {
		if got := cfg.RequiredStrong(tt.n); got != tt.want {
			t.Errorf("RequiredStrong(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func completeWith(t *testing.T, ratings []Rating) Summary {
	t.Helper()
	outcomes := make([]Outcome, len(ratings))
	for i, r := range ratings {
		if r == RatingError {
			outcomes[i] = Outcome{Err: context.DeadlineExceeded}
			continue
		}
		outcomes[i] = Outcome{Text: string(r) + ": assessment"}
	}
	c := newTestController(t, len(ratings), &fakeTutor{}, &fakeEvaluator{outcomes: outcomes})
	if err := c.StartSession(context.Background(), "Ava"); err != nil {
		t.Fatal(err)
	}
	for i := range ratings {
		exchange(t, c, i)
		if _, err := c.MarkUnderstood(context.Background(), i); err != nil {
			t.Fatal(err)
		}
	}
	return c.Summarize()
}

func TestSummarize_Readiness(t *testing.T) {
	S, D, N, E := RatingStrong, RatingDeveloping, RatingNeedsWork, RatingError
	tests := []struct {
		name    string
		ratings []Rating
		ready   bool
		strong  int
		dev     int
		needs   int
	}{
		{"2 strong 3 developing", []Rating{S, D, S, D, D}, false, 2, 3, 0},
		{"3 strong 2 needs work", []Rating{S, N, S, N, S}, true, 3, 0, 2},
		{"all strong", []Rating{S, S, S, S, S}, true, 5, 0, 0},
		{"errors bucket as needs work", []Rating{S, E, S, E, D}, false, 2, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := completeWith(t, tt.ratings)
			if sum.Ready != tt.ready {
				t.Errorf("Ready = %v, want %v", sum.Ready, tt.ready)
			}
			if sum.Required != 3 {
				t.Errorf("Required = %d, want 3", sum.Required)
			}
			if len(sum.Strong) != tt.strong || len(sum.Developing) != tt.dev || len(sum.NeedsWork) != tt.needs {
				t.Errorf("buckets = %v / %v / %v", sum.Strong, sum.Developing, sum.NeedsWork)
			}
			if sum.Total != 5 || sum.StudentName != "Ava" {
				t.Errorf("Total = %d, StudentName = %q", sum.Total, sum.StudentName)
			}
		})
	}
}

func TestSummarize_CatalogOrder(t *testing.T) {
	sum := completeWith(t, []Rating{RatingStrong, RatingDeveloping, RatingStrong})
	if len(sum.Strong) != 2 || sum.Strong[0] != "Topic 1" || sum.Strong[1] != "Topic 3" {
		t.Errorf("Strong = %v", sum.Strong)
	}
}

func TestSummarize_BeforeCompletion(t *testing.T) {
	c := newTestController(t, 5, &fakeTutor{}, &fakeEvaluator{})
	sum := c.Summarize()
	if sum.Assessed() != 0 || sum.Ready {
		t.Errorf("empty summary = %+v", sum)
	}
}

func TestSummarize_ConfigurableRatio(t *testing.T) {
	c, err := NewController(testCatalog(4), &fakeTutor{}, &fakeEvaluator{}, Config{MinMessages: 2, ReadinessRatio: 0.25})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.StartSession(context.Background(), "Ava"); err != nil {
		t.Fatal(err)
	}
	exchange(t, c, 0)
	if _, err := c.MarkUnderstood(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	sum := c.Summarize()
	if !sum.Ready || sum.Required != 1 {
		t.Errorf("Ready = %v, Required = %d", sum.Ready, sum.Required)
	}
}
