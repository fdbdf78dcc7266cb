package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/labprep/internal/llm"
	"github.com/abhisek/labprep/internal/session"
)

func textContent(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

func adiabaticRequest() session.TutorRequest {
	return session.TutorRequest{
		Topic:       "Adiabatic Calorimetry",
		KeyConcepts: []string{"no heat exchange", "isolated system"},
		Transcript: []session.Message{
			{Role: session.RoleLearner, Content: "Heat stays inside"},
			{Role: session.RoleTutor, Content: "Good! Why does that matter?"},
		},
		LatestLearnerText: "So the temperature change is only from the reaction",
	}
}

func TestResponder_Respond(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: textContent("  Great thinking! What would happen if heat leaked out?  ")})
	r := NewResponder(mock, DefaultResponderConfig())

	out := r.Respond(context.Background(), adiabaticRequest())
	if out.Failed() {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	if out.Text != "Great thinking! What would happen if heat leaked out?" {
		t.Errorf("Text = %q", out.Text)
	}

	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
	req := mock.Calls[0]
	if req.MaxTokens != 300 || req.Temperature != 0.7 {
		t.Errorf("MaxTokens = %d, Temperature = %v", req.MaxTokens, req.Temperature)
	}
	if req.Schema != nil {
		t.Error("reply request should not carry a schema")
	}
	for _, want := range []string{
		"Socratic method",
		"Topic: Adiabatic Calorimetry",
		"Key concepts to eventually cover: no heat exchange, isolated system",
		"student: Heat stays inside\ntutor: Good! Why does that matter?\nstudent: So the temperature change is only from the reaction",
	} {
		if !strings.Contains(req.System, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if len(req.Messages) != 1 || req.Messages[0].Content != "Student's response: So the temperature change is only from the reaction" {
		t.Errorf("Messages = %+v", req.Messages)
	}
}

func TestResponder_Failures(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: &llm.ErrRateLimit{}}},
		{"empty text", llm.MockResponse{Content: textContent("  ")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResponder(llm.NewMockProvider(tt.resp), DefaultResponderConfig())
			out := r.Respond(context.Background(), adiabaticRequest())
			if !out.Failed() {
				t.Fatalf("expected failure, got %q", out.Text)
			}
		})
	}
}

func TestResponder_Purpose(t *testing.T) {
	var got string
	p := purposeProvider{fn: func(ctx context.Context) { got = llm.PurposeFrom(ctx) }}
	NewResponder(p, DefaultResponderConfig()).Respond(context.Background(), adiabaticRequest())
	if got != PurposeReply {
		t.Errorf("purpose = %q, want %q", got, PurposeReply)
	}
}

type purposeProvider struct {
	fn func(ctx context.Context)
}

func (p purposeProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	p.fn(ctx)
	return &llm.Response{Content: textContent("ok")}, nil
}

func (p purposeProvider) ModelID() string { return "purpose" }

func evaluationRequest() session.EvaluationRequest {
	return session.EvaluationRequest{
		Topic:       "Water Equivalent of Calorimeter",
		KeyConcepts: []string{"calorimeter heat capacity", "water equivalent"},
		Transcript: []session.Message{
			{Role: session.RoleLearner, Content: "The cup absorbs heat too"},
			{Role: session.RoleTutor, Content: "Yes! How would you measure that?"},
			{Role: session.RoleLearner, Content: "Mix hot and cold water"},
			{Role: session.RoleTutor, Content: "Exactly."},
		},
	}
}

func TestEvaluator_FreeText(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: textContent("DEVELOPING: knows the cup absorbs heat.")})
	e := NewEvaluator(mock, DefaultEvaluatorConfig())

	out := e.Evaluate(context.Background(), evaluationRequest())
	if out.Failed() {
		t.Fatal(out.Err)
	}
	if out.Rating != "" {
		t.Errorf("free-text mode set Rating = %s", out.Rating)
	}
	if session.ClassifyRating(out.Text) != session.RatingDeveloping {
		t.Errorf("Text = %q", out.Text)
	}

	req := mock.Calls[0]
	if req.MaxTokens != 150 || req.Temperature != 0.3 || req.Schema != nil {
		t.Errorf("request = %+v", req)
	}
	if !strings.Contains(req.System, "calorimeter heat capacity, water equivalent") {
		t.Error("system prompt missing key concepts")
	}
	if !strings.Contains(req.System, "NEEDS_WORK") {
		t.Error("system prompt missing rating scale")
	}
	want := "Conversation:\nstudent: The cup absorbs heat too\ntutor: Yes! How would you measure that?\nstudent: Mix hot and cold water\ntutor: Exactly."
	if req.Messages[0].Content != want {
		t.Errorf("user message = %q", req.Messages[0].Content)
	}
}

func TestEvaluator_Structured(t *testing.T) {
	cfg := DefaultEvaluatorConfig()
	cfg.Structured = true

	tests := []struct {
		name    string
		content string
		rating  session.Rating
		wantErr bool
	}{
		{"strong", `{"rating":"STRONG","explanation":"Explains water equivalent."}`, session.RatingStrong, false},
		{"lowercase", `{"rating":"needs_work","explanation":"Unsure."}`, session.RatingNeedsWork, false},
		{"unknown rating", `{"rating":"GREAT","explanation":"?"}`, "", true},
		{"error rating", `{"rating":"ERROR","explanation":"?"}`, "", true},
		{"malformed", `{"rating":`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(tt.content)})
			out := NewEvaluator(mock, cfg).Evaluate(context.Background(), evaluationRequest())
			if tt.wantErr {
				if !out.Failed() {
					t.Fatalf("expected failure, got %+v", out)
				}
				return
			}
			if out.Failed() {
				t.Fatal(out.Err)
			}
			if out.Rating != tt.rating {
				t.Errorf("Rating = %s, want %s", out.Rating, tt.rating)
			}
			if mock.Calls[0].Schema != VerdictSchema {
				t.Error("structured request should carry the verdict schema")
			}
		})
	}
}

func TestEvaluator_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("no key")}})
	out := NewEvaluator(mock, DefaultEvaluatorConfig()).Evaluate(context.Background(), evaluationRequest())
	var unavailable *llm.ErrProviderUnavailable
	if !errors.As(out.Err, &unavailable) {
		t.Errorf("Err = %v, want ErrProviderUnavailable", out.Err)
	}
}

func TestVerdictSchema(t *testing.T) {
	props, ok := VerdictSchema.Definition["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties missing: %v", VerdictSchema.Definition)
	}
	rating, ok := props["rating"].(map[string]any)
	if !ok {
		t.Fatal("rating property missing")
	}
	enum, ok := rating["enum"].([]any)
	if !ok || len(enum) != 3 {
		t.Errorf("rating enum = %v", rating["enum"])
	}
	if VerdictSchema.Definition["additionalProperties"] != false {
		t.Error("schema should deny additional properties")
	}
}

// The controller and LLM-backed collaborators work end to end.
func TestWithController(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: textContent("Nice! Where does the heat go?")},
		llm.MockResponse{Err: errors.New("timeout")},
		llm.MockResponse{Content: textContent("This shows STRONG grasp of adiabatic isolation.")},
	)
	cat := testCatalog()
	c, err := session.NewController(cat, NewResponder(mock, DefaultResponderConfig()),
		NewEvaluator(mock, DefaultEvaluatorConfig()), session.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := c.StartSession(ctx, "Ava"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SubmitResponse(ctx, 0, "Heat can't escape"); err != nil {
		t.Fatal(err)
	}
	conv, err := c.SubmitResponse(ctx, 0, "It stays in the system")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(conv.Messages[3].Content, "timeout") {
		t.Errorf("fallback = %q", conv.Messages[3].Content)
	}
	a, err := c.MarkUnderstood(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if a.Rating != session.RatingStrong {
		t.Errorf("rating = %s", a.Rating)
	}
}
