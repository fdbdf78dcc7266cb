package tutor

import "github.com/abhisek/labprep/internal/llm"

// Purposes attached to LLM requests for the request log.
const (
	PurposeReply    = llm.PurposeTutorReply
	PurposeEvaluate = llm.PurposeEvaluation
)

// Config holds generation settings for one kind of call.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultResponderConfig leaves room for a short, warm reply with a
// follow-up question.
func DefaultResponderConfig() Config {
	return Config{
		MaxTokens:   300,
		Temperature: 0.7,
	}
}

// EvaluatorConfig holds evaluator settings.
type EvaluatorConfig struct {
	Config
	// Structured requests a JSON verdict instead of free text.
	Structured bool
}

// DefaultEvaluatorConfig keeps assessments brief and stable.
func DefaultEvaluatorConfig() EvaluatorConfig {
	return EvaluatorConfig{
		Config: Config{
			MaxTokens:   150,
			Temperature: 0.3,
		},
	}
}
