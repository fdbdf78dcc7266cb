package session

import "context"

// TutorRequest is the input to a tutor reply.
type TutorRequest struct {
	Topic       string
	KeyConcepts []string
	// Transcript holds the conversation before the latest learner text.
	Transcript        []Message
	LatestLearnerText string
}

// EvaluationRequest is the input to an understanding assessment.
type EvaluationRequest struct {
	Topic       string
	KeyConcepts []string
	Transcript  []Message
}

// Outcome is the typed result of a collaborator call: either Text or Err.
type Outcome struct {
	Text string
	// Rating optionally carries an exact verdict from structured output.
	// When empty, the rating is classified from Text.
	Rating Rating
	Err    error
}

// Failed reports whether the call failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Tutor produces guidance text for the learner's latest response.
type Tutor interface {
	Respond(ctx context.Context, req TutorRequest) Outcome
}

// Evaluator rates a learner's understanding of a topic.
type Evaluator interface {
	Evaluate(ctx context.Context, req EvaluationRequest) Outcome
}

// Recorder receives audit events. Implementations must not block the
// learner; failures are logged by the caller and otherwise ignored.
type Recorder interface {
	SessionStarted(ctx context.Context, sessionID, studentName string, topicCount int) error
	TopicAssessed(ctx context.Context, sessionID, studentName string, topicIndex int, topic string, a Assessment, messageCount int) error
	SessionEnded(ctx context.Context, sessionID, studentName, action string, topicCount int) error
}
