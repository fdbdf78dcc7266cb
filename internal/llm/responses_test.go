package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

func newTestResponsesProvider(t *testing.T, handler http.HandlerFunc) *ResponsesProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := openai.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL+"/v1/"),
		option.WithMaxRetries(0),
	)
	return &ResponsesProvider{client: &client, model: "gpt-4o-mini"}
}

func responsesBody(text, status string) map[string]any {
	body := map[string]any{
		"id":         "resp_test",
		"object":     "response",
		"created_at": 1234567890,
		"model":      "gpt-4o-mini-2024-07-18",
		"status":     status,
		"output": []map[string]any{
			{
				"type":   "message",
				"id":     "msg_test",
				"status": "completed",
				"role":   "assistant",
				"content": []map[string]any{
					{"type": "output_text", "text": text, "annotations": []any{}},
				},
			},
		},
		"usage": map[string]any{
			"input_tokens":          80,
			"output_tokens":         20,
			"total_tokens":          100,
			"input_tokens_details":  map[string]any{"cached_tokens": 0},
			"output_tokens_details": map[string]any{"reasoning_tokens": 0},
		},
	}
	if status == "incomplete" {
		body["incomplete_details"] = map[string]any{"reason": "max_output_tokens"}
	}
	return body
}

func TestResponsesProvider_HappyPath(t *testing.T) {
	var got map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(responsesBody("Which reagent runs out first?", "completed"))
	}

	p := newTestResponsesProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		System:      "You are a Socratic chemistry tutor.",
		Messages:    []Message{{Role: RoleUser, Content: "Student's response: the acid"}},
		MaxTokens:   300,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "Which reagent runs out first?" {
		t.Fatalf("unexpected text %q", resp.Text())
	}
	if resp.Usage.InputTokens != 80 || resp.Usage.TotalTokens != 100 {
		t.Fatalf("unexpected usage %+v", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp.StopReason)
	}
	if got["instructions"] != "You are a Socratic chemistry tutor." {
		t.Fatalf("instructions not sent: %v", got["instructions"])
	}
}

func TestResponsesProvider_StructuredTruncated(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(responsesBody(`{"rating":"STR`, "incomplete"))
	}

	p := newTestResponsesProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "evaluate"}},
		Schema:   verdictSchema(),
	})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}
}

func TestResponsesProvider_RateLimit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "tokens", "message": "Rate limit exceeded", "code": "rate_limit_exceeded"},
		})
	}

	p := newTestResponsesProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
	}
}

func TestNewResponsesProvider_RequiresKey(t *testing.T) {
	if _, err := NewResponsesProvider(OpenAIConfig{Model: "gpt-4o-mini"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
	p, err := NewResponsesProvider(OpenAIConfig{APIKey: "k", Model: "gpt-3.5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-3.5-turbo" {
		t.Fatalf("expected friendly name mapping, got %q", p.ModelID())
	}
}
