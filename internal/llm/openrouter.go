package llm

import (
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider is the chat provider pointed at OpenRouter. Model IDs
// are namespaced ("openai/gpt-4o-mini") and are used exactly as configured.
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, &ErrProviderUnavailable{Err: errors.New("OPENROUTER_API_KEY is not set")}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.HTTPClient = &http.Client{Transport: attribution{next: http.DefaultTransport}}
	return &OpenRouterProvider{OpenAIProvider: newChatProvider(config, baseURL, cfg.Model)}, nil
}

// attribution adds the app headers OpenRouter uses for its usage rankings.
type attribution struct {
	next http.RoundTripper
}

func (a attribution) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("HTTP-Referer", "https://github.com/abhisek/labprep")
	r.Header.Set("X-Title", "labprep")
	return a.next.RoundTrip(r)
}
