package llm

import (
	"context"
	"slices"
)

// Purposes label every request in the request log and the latency metrics.
const (
	PurposeTutorReply = "tutor-reply"
	PurposeEvaluation = "understanding-eval"
)

// Purposes lists the labels LabPrep issues, in display order.
func Purposes() []string {
	return []string{PurposeTutorReply, PurposeEvaluation}
}

// IsPurpose reports whether p is one of Purposes.
func IsPurpose(p string) bool {
	return slices.Contains(Purposes(), p)
}

type purposeKey struct{}

// WithPurpose tags ctx so the logging decorator can attribute the call.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
