package llm

import "context"

// UnavailableProvider fails every request with ErrProviderUnavailable.
// It stands in when no credential is configured so the app still starts.
type UnavailableProvider struct {
	reason error
}

// NewUnavailableProvider returns a provider that always fails with reason.
func NewUnavailableProvider(reason error) *UnavailableProvider {
	return &UnavailableProvider{reason: reason}
}

func (p *UnavailableProvider) Generate(_ context.Context, _ Request) (*Response, error) {
	return nil, &ErrProviderUnavailable{Err: p.reason}
}

// ModelID returns "unavailable".
func (p *UnavailableProvider) ModelID() string {
	return "unavailable"
}
