package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// Purpose restricts LLM events to one call purpose.
	Purpose string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMPurposeUsage aggregates token usage for one purpose.
type LLMPurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// Session lifecycle actions recorded in session_events.
const (
	SessionActionStarted  = "started"
	SessionActionReset    = "reset"
	SessionActionFinished = "finished"
)

// SessionEventData records a lifecycle change of a learning session.
type SessionEventData struct {
	SessionID   string
	Action      string
	StudentName string
	TopicCount  int
}

// AssessmentEventData records the final assessment of one topic.
type AssessmentEventData struct {
	SessionID    string
	StudentName  string
	TopicIndex   int
	Topic        string
	Rating       string
	Explanation  string
	MessageCount int
}

// AssessmentEvent is a stored topic assessment.
type AssessmentEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AssessmentEventData
}

// SessionRecord summarizes one past session from its events.
type SessionRecord struct {
	SessionID   string
	StudentName string
	StartedAt   time.Time
	TopicCount  int
	Assessments []AssessmentEvent
	Finished    bool
}

// EventRepo provides append and query access to the audit history.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one LLM event by ID, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates usage grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error)

	// LLMUsageByModel aggregates usage grouped by model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	// AppendSessionEvent records a session lifecycle change.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAssessment records a completed topic assessment.
	AppendAssessment(ctx context.Context, data AssessmentEventData) error

	// RecentSessions returns up to limit sessions, newest first, with
	// their assessments in topic order.
	RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error)
}
