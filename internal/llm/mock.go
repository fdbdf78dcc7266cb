package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply. A non-nil Err is returned instead
// of content.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted replies in order and keeps every request
// it saw in Calls. Once the script runs out it asks Otherwise, or reports
// the provider as unavailable when that is nil.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Otherwise func(context.Context, Request) MockResponse
	Calls     []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// NewOfflineProvider backs provider "mock" in labprep.yaml: a session can
// be clicked through end to end without a key. Every tutor turn gets the
// same nudge and every evaluation comes back DEVELOPING.
func NewOfflineProvider() *MockProvider {
	m := NewMockProvider()
	m.Otherwise = offlineReply
	return m
}

func offlineReply(ctx context.Context, req Request) MockResponse {
	usage := Usage{InputTokens: len(req.System) / 4, OutputTokens: 16}
	usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	switch {
	case req.Schema != nil:
		return MockResponse{
			Content: json.RawMessage(`{"rating":"DEVELOPING","explanation":"Offline mode: no evaluation was made."}`),
			Usage:   usage,
		}
	case PurposeFrom(ctx) == PurposeEvaluation:
		return MockResponse{Content: json.RawMessage("DEVELOPING: offline mode, no evaluation was made."), Usage: usage}
	default:
		return MockResponse{
			Content: json.RawMessage("Good. Where does the heat released by the reaction end up, and how would you measure it?"),
			Usage:   usage,
		}
	}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	var next MockResponse
	switch {
	case len(m.responses) > 0:
		next, m.responses = m.responses[0], m.responses[1:]
	case m.Otherwise != nil:
		next = m.Otherwise(ctx, req)
	default:
		return nil, &ErrProviderUnavailable{}
	}
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: "end"}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
