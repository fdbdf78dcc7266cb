package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/labprep/internal/llm"
	"github.com/abhisek/labprep/internal/session"
)

// verdict is the structured evaluation output.
type verdict struct {
	Rating      string `json:"rating" jsonschema:"enum=STRONG,enum=DEVELOPING,enum=NEEDS_WORK,description=Overall understanding of the key concepts"`
	Explanation string `json:"explanation" jsonschema:"description=Brief explanation of the assessment"`
}

// VerdictSchema is the JSON schema for structured evaluations.
var VerdictSchema = llm.MustSchemaFor[verdict]("understanding-verdict",
	"Rating of a student's understanding of a topic's key concepts")

// Evaluator rates understanding from a topic transcript.
type Evaluator struct {
	provider llm.Provider
	cfg      EvaluatorConfig
}

// NewEvaluator creates an Evaluator backed by provider.
func NewEvaluator(provider llm.Provider, cfg EvaluatorConfig) *Evaluator {
	return &Evaluator{provider: provider, cfg: cfg}
}

// Evaluate asks the LLM to rate the transcript. In free-text mode the
// rating is left for the session to classify from the text.
func (e *Evaluator) Evaluate(ctx context.Context, req session.EvaluationRequest) session.Outcome {
	ctx = llm.WithPurpose(ctx, PurposeEvaluate)

	system, user, err := buildEvaluationPrompt(req, e.cfg.Structured)
	if err != nil {
		return session.Outcome{Err: fmt.Errorf("build evaluation prompt: %w", err)}
	}

	llmReq := llm.Request{
		System:      system,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: user}},
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	}
	if e.cfg.Structured {
		llmReq.Schema = VerdictSchema
	}

	resp, err := e.provider.Generate(ctx, llmReq)
	if err != nil {
		return session.Outcome{Err: err}
	}
	if !e.cfg.Structured {
		return session.Outcome{Text: strings.TrimSpace(resp.Text())}
	}

	var v verdict
	if err := json.Unmarshal(resp.Content, &v); err != nil {
		return session.Outcome{Err: fmt.Errorf("parse verdict: %w", err)}
	}
	rating, ok := session.ParseRating(v.Rating)
	if !ok || rating == session.RatingError {
		return session.Outcome{Err: fmt.Errorf("unknown rating %q", v.Rating)}
	}
	return session.Outcome{Text: strings.TrimSpace(v.Explanation), Rating: rating}
}

var _ session.Evaluator = (*Evaluator)(nil)
