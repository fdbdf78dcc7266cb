// Package metrics exposes Prometheus instruments for tutoring sessions.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LLMRequests counts provider calls by purpose and outcome (ok|error).
	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "labprep_llm_requests_total",
		Help: "LLM requests by purpose and outcome",
	}, []string{"purpose", "outcome"})

	// LLMLatency tracks provider round-trip latency.
	LLMLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "labprep_llm_request_duration_seconds",
		Help:    "LLM request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
	}, []string{"purpose"})

	// SessionsStarted counts StartSession calls that succeeded.
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "labprep_sessions_started_total",
		Help: "Learning sessions started",
	})

	// ResponsesSubmitted counts learner responses accepted by the controller.
	ResponsesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "labprep_responses_submitted_total",
		Help: "Learner responses accepted",
	})

	// CollaboratorFailures counts tutor/evaluator failures converted to in-band content.
	CollaboratorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "labprep_collaborator_failures_total",
		Help: "Tutor and evaluator failures recovered in-band",
	}, []string{"collaborator"})

	// Assessments counts recorded topic assessments by rating.
	Assessments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "labprep_assessments_total",
		Help: "Topic assessments by rating",
	}, []string{"rating"})
)

// ObserveLLM records one provider call.
func ObserveLLM(purpose string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	LLMRequests.WithLabelValues(purpose, outcome).Inc()
	LLMLatency.WithLabelValues(purpose).Observe(d.Seconds())
}

// Serve exposes /metrics on addr until ctx is cancelled. A bind failure
// is returned immediately.
func Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	logger.Info("metrics listening", "addr", ln.Addr().String())
	return serve(ctx, ln)
}

// serve runs the metrics server on ln. The shutdown watcher exits with it.
func serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
