// Package session implements the learner's progression through the topic
// catalog: per-topic conversations, gating, assessments and the summary.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/abhisek/labprep/internal/catalog"
	"github.com/abhisek/labprep/internal/metrics"
	"github.com/abhisek/labprep/internal/store"
	"github.com/google/uuid"
)

// FallbackReply is the tutor message shown when the tutor cannot answer.
const FallbackReply = "I'm having trouble processing that right now. Can you try rephrasing your answer? (Error: %s)"

// AssessmentErrorExplanation is the explanation recorded for a failed evaluation.
const AssessmentErrorExplanation = "Assessment error: %s"

// Controller owns one learner's session state. All mutation happens
// through its methods, one action at a time.
type Controller struct {
	catalog   *catalog.Catalog
	tutor     Tutor
	evaluator Evaluator
	cfg       Config
	logger    *slog.Logger
	recorder  Recorder

	mu        sync.Mutex
	state     State
	sessionID string
	busy      bool
	epoch     uint64
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder attaches an audit recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// NewController creates a controller over cat. The session is not started.
func NewController(cat *catalog.Catalog, tutor Tutor, evaluator Evaluator, cfg Config, opts ...Option) (*Controller, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if tutor == nil || evaluator == nil {
		return nil, errors.New("tutor and evaluator are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("session config: %w", err)
	}
	c := &Controller{
		catalog:   cat,
		tutor:     tutor,
		evaluator: evaluator,
		cfg:       cfg,
		logger:    slog.New(slog.DiscardHandler),
		state:     newState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the controller's thresholds.
func (c *Controller) Config() Config {
	return c.cfg
}

// Catalog returns the catalog the controller walks through.
func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

// StartSession begins a session for name. The session must not already
// be started; use Reset first.
func (c *Controller) StartSession(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	c.mu.Lock()
	if c.state.StudentName != "" {
		c.mu.Unlock()
		return &StateError{Op: "start", Reason: "session already started"}
	}
	c.state = newState()
	c.state.StudentName = name
	c.sessionID = uuid.NewString()
	c.openActive()
	sessionID, topicCount := c.sessionID, c.catalog.Len()
	c.mu.Unlock()

	metrics.SessionsStarted.Inc()
	c.logger.Info("session started", "session_id", sessionID, "student", name, "topics", topicCount)
	if c.recorder != nil {
		if err := c.recorder.SessionStarted(context.WithoutCancel(ctx), sessionID, name, topicCount); err != nil {
			c.logger.Warn("record session start", "error", err)
		}
	}
	return nil
}

// GetActiveTopic returns the topic at the current index, or
// ErrSessionComplete once every topic has been assessed.
func (c *Controller) GetActiveTopic() (catalog.TopicRecord, error) {
	c.mu.Lock()
	idx := c.state.CurrentTopicIndex
	c.mu.Unlock()

	t, ok := c.catalog.Topic(idx)
	if !ok {
		return catalog.TopicRecord{}, ErrSessionComplete
	}
	return t, nil
}

// CurrentTopicIndex returns the active topic index.
func (c *Controller) CurrentTopicIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.CurrentTopicIndex
}

// SubmitResponse records the learner's text for the active topic and
// appends the tutor's reply. Tutor failures become a fallback reply.
func (c *Controller) SubmitResponse(ctx context.Context, topicIndex int, text string) (TopicConversation, error) {
	c.mu.Lock()
	topic, err := c.checkActive("submit", topicIndex)
	if err != nil {
		c.mu.Unlock()
		return TopicConversation{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		c.mu.Unlock()
		return TopicConversation{}, &ValidationError{Field: "response", Reason: "must not be empty"}
	}

	conv := c.state.Conversations[topicIndex]
	req := TutorRequest{
		Topic:             topic.Topic,
		KeyConcepts:       topic.KeyConcepts,
		Transcript:        append([]Message(nil), conv.Messages...),
		LatestLearnerText: text,
	}
	conv.Messages = append(conv.Messages, Message{Role: RoleLearner, Content: text})
	c.busy = true
	epoch := c.epoch
	c.mu.Unlock()

	metrics.ResponsesSubmitted.Inc()
	out := callTutor(ctx, c.tutor, req)

	reply := out.Text
	if out.Err == nil && strings.TrimSpace(reply) == "" {
		out.Err = errors.New("empty reply")
	}
	if out.Failed() {
		metrics.CollaboratorFailures.WithLabelValues("tutor").Inc()
		c.logger.Warn("tutor reply failed", "topic", topic.Topic, "error", out.Err)
		reply = fmt.Sprintf(FallbackReply, out.Err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return TopicConversation{}, &StateError{Op: "submit", Reason: "session was reset"}
	}
	c.busy = false
	conv.Messages = append(conv.Messages, Message{Role: RoleTutor, Content: reply})
	c.logger.Info("response submitted", "topic", topic.Topic, "messages", len(conv.Messages))
	return conv.clone(), nil
}

// CanMarkUnderstood reports whether the topic's conversation has reached
// the minimum message count.
func (c *Controller) CanMarkUnderstood(topicIndex int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gateOpen(topicIndex)
}

// MessagesUntilGate returns how many more messages topicIndex needs
// before it can be marked understood.
func (c *Controller) MessagesUntilGate(topicIndex int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	if conv, ok := c.state.Conversations[topicIndex]; ok {
		n = len(conv.Messages)
	}
	return max(0, c.cfg.MinMessages-n)
}

// MarkUnderstood evaluates the active topic's conversation, records the
// assessment and advances to the next topic. Evaluator failures are
// recorded as RatingError and still advance.
func (c *Controller) MarkUnderstood(ctx context.Context, topicIndex int) (Assessment, error) {
	c.mu.Lock()
	topic, err := c.checkActive("mark understood", topicIndex)
	if err != nil {
		c.mu.Unlock()
		return Assessment{}, err
	}
	if !c.gateOpen(topicIndex) {
		c.mu.Unlock()
		return Assessment{}, &StateError{
			Op:     "mark understood",
			Reason: fmt.Sprintf("at least %d messages are required", c.cfg.MinMessages),
		}
	}

	conv := c.state.Conversations[topicIndex]
	req := EvaluationRequest{
		Topic:       topic.Topic,
		KeyConcepts: topic.KeyConcepts,
		Transcript:  append([]Message(nil), conv.Messages...),
	}
	c.busy = true
	epoch := c.epoch
	c.mu.Unlock()

	out := callEvaluator(ctx, c.evaluator, req)
	assessment := assess(out)
	if out.Failed() {
		metrics.CollaboratorFailures.WithLabelValues("evaluator").Inc()
		c.logger.Warn("evaluation failed", "topic", topic.Topic, "error", out.Err)
	}

	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		return Assessment{}, &StateError{Op: "mark understood", Reason: "session was reset"}
	}
	c.busy = false
	a := assessment
	conv.Assessment = &a
	conv.Completed = true
	c.state.CurrentTopicIndex++
	c.openActive()
	sessionID, name := c.sessionID, c.state.StudentName
	messageCount := len(conv.Messages)
	finished := c.state.CurrentTopicIndex >= c.catalog.Len()
	c.mu.Unlock()

	metrics.Assessments.WithLabelValues(string(assessment.Rating)).Inc()
	c.logger.Info("topic assessed", "topic", topic.Topic, "rating", assessment.Rating, "messages", messageCount)
	if c.recorder != nil {
		rctx := context.WithoutCancel(ctx)
		if err := c.recorder.TopicAssessed(rctx, sessionID, name, topicIndex, topic.Topic, assessment, messageCount); err != nil {
			c.logger.Warn("record assessment", "error", err)
		}
		if finished {
			if err := c.recorder.SessionEnded(rctx, sessionID, name, store.SessionActionFinished, c.catalog.Len()); err != nil {
				c.logger.Warn("record session end", "error", err)
			}
		}
	}
	return assessment, nil
}

// IsSessionComplete reports whether the index has passed the last topic.
func (c *Controller) IsSessionComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.CurrentTopicIndex >= c.catalog.Len()
}

// Conversation returns a copy of the conversation for topicIndex.
func (c *Controller) Conversation(topicIndex int) (TopicConversation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conv, ok := c.state.Conversations[topicIndex]
	if !ok {
		return TopicConversation{}, false
	}
	return conv.clone(), true
}

// Phase returns where topicIndex is in its lifecycle.
func (c *Controller) Phase(topicIndex int) Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	conv, ok := c.state.Conversations[topicIndex]
	switch {
	case !ok:
		return PhaseNotStarted
	case conv.Completed:
		return PhaseCompleted
	default:
		return PhaseInProgress
	}
}

// Snapshot returns a deep copy of the session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		SessionID:         c.sessionID,
		StudentName:       c.state.StudentName,
		CurrentTopicIndex: c.state.CurrentTopicIndex,
		TopicCount:        c.catalog.Len(),
		Conversations:     make(map[int]TopicConversation, len(c.state.Conversations)),
		Busy:              c.busy,
	}
	for i, conv := range c.state.Conversations {
		snap.Conversations[i] = conv.clone()
	}
	return snap
}

// Reset returns the controller to its pre-start state. A collaborator
// call still in flight has its result discarded.
func (c *Controller) Reset(ctx context.Context) {
	c.mu.Lock()
	sessionID, name := c.sessionID, c.state.StudentName
	complete := c.state.CurrentTopicIndex >= c.catalog.Len()
	c.state = newState()
	c.sessionID = ""
	c.busy = false
	c.epoch++
	c.mu.Unlock()

	if name == "" {
		return
	}
	c.logger.Info("session reset", "session_id", sessionID, "student", name)
	if c.recorder != nil && !complete {
		if err := c.recorder.SessionEnded(context.WithoutCancel(ctx), sessionID, name, store.SessionActionReset, c.catalog.Len()); err != nil {
			c.logger.Warn("record session reset", "error", err)
		}
	}
}

// checkActive validates that topicIndex is the active topic and no other
// action is in flight. Caller holds c.mu.
func (c *Controller) checkActive(op string, topicIndex int) (catalog.TopicRecord, error) {
	if c.state.StudentName == "" {
		return catalog.TopicRecord{}, &StateError{Op: op, Reason: "no session started"}
	}
	if c.busy {
		return catalog.TopicRecord{}, &StateError{Op: op, Reason: "another action is in progress"}
	}
	if topicIndex != c.state.CurrentTopicIndex {
		return catalog.TopicRecord{}, &StateError{
			Op:     op,
			Reason: fmt.Sprintf("topic %d is not active (active is %d)", topicIndex, c.state.CurrentTopicIndex),
		}
	}
	topic, ok := c.catalog.Topic(topicIndex)
	if !ok {
		return catalog.TopicRecord{}, &StateError{Op: op, Reason: ErrSessionComplete.Error()}
	}
	return topic, nil
}

// gateOpen reports whether topicIndex has enough messages. Caller holds c.mu.
func (c *Controller) gateOpen(topicIndex int) bool {
	conv, ok := c.state.Conversations[topicIndex]
	return ok && len(conv.Messages) >= c.cfg.MinMessages
}

// openActive creates the conversation for the active topic on first
// visit. Caller holds c.mu.
func (c *Controller) openActive() {
	idx := c.state.CurrentTopicIndex
	if idx >= c.catalog.Len() {
		return
	}
	if _, ok := c.state.Conversations[idx]; !ok {
		c.state.Conversations[idx] = &TopicConversation{}
	}
}

// assess turns an evaluator outcome into an Assessment.
func assess(out Outcome) Assessment {
	if out.Failed() {
		return Assessment{Rating: RatingError, Explanation: fmt.Sprintf(AssessmentErrorExplanation, out.Err)}
	}
	rating := out.Rating
	if rating == "" || rating == RatingError {
		rating = ClassifyRating(out.Text)
	}
	return Assessment{Rating: rating, Explanation: strings.TrimSpace(out.Text)}
}

func callTutor(ctx context.Context, t Tutor, req TutorRequest) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: fmt.Errorf("tutor panic: %v", r)}
		}
	}()
	return t.Respond(ctx, req)
}

func callEvaluator(ctx context.Context, e Evaluator, req EvaluationRequest) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: fmt.Errorf("evaluator panic: %v", r)}
		}
	}()
	return e.Evaluate(ctx, req)
}
