// Package tutor wraps the LLM calls behind the session's tutor and
// evaluator collaborators.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/labprep/internal/llm"
	"github.com/abhisek/labprep/internal/session"
)

var errEmptyReply = errors.New("empty reply")

// Responder produces Socratic tutor replies.
type Responder struct {
	provider llm.Provider
	cfg      Config
}

// NewResponder creates a Responder backed by provider.
func NewResponder(provider llm.Provider, cfg Config) *Responder {
	return &Responder{provider: provider, cfg: cfg}
}

// Respond asks the LLM for guidance on the learner's latest text.
func (r *Responder) Respond(ctx context.Context, req session.TutorRequest) session.Outcome {
	ctx = llm.WithPurpose(ctx, PurposeReply)

	system, user, err := buildReplyPrompt(req)
	if err != nil {
		return session.Outcome{Err: fmt.Errorf("build reply prompt: %w", err)}
	}

	resp, err := r.provider.Generate(ctx, llm.Request{
		System:      system,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: user}},
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		return session.Outcome{Err: err}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return session.Outcome{Err: &llm.ErrInvalidResponse{Content: resp.Content, Err: errEmptyReply}}
	}
	return session.Outcome{Text: text}
}

var _ session.Tutor = (*Responder)(nil)
