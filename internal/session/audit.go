package session

import (
	"context"

	"github.com/abhisek/labprep/internal/store"
)

// EventStore is the subset of store.EventRepo the session records to.
type EventStore interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
	AppendAssessment(ctx context.Context, data store.AssessmentEventData) error
}

// StoreRecorder writes session events to the audit store.
type StoreRecorder struct {
	events EventStore
}

// NewStoreRecorder returns a Recorder backed by events.
func NewStoreRecorder(events EventStore) *StoreRecorder {
	return &StoreRecorder{events: events}
}

func (r *StoreRecorder) SessionStarted(ctx context.Context, sessionID, studentName string, topicCount int) error {
	return r.events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:   sessionID,
		Action:      store.SessionActionStarted,
		StudentName: studentName,
		TopicCount:  topicCount,
	})
}

func (r *StoreRecorder) TopicAssessed(ctx context.Context, sessionID, studentName string, topicIndex int, topic string, a Assessment, messageCount int) error {
	return r.events.AppendAssessment(ctx, store.AssessmentEventData{
		SessionID:    sessionID,
		StudentName:  studentName,
		TopicIndex:   topicIndex,
		Topic:        topic,
		Rating:       string(a.Rating),
		Explanation:  a.Explanation,
		MessageCount: messageCount,
	})
}

func (r *StoreRecorder) SessionEnded(ctx context.Context, sessionID, studentName, action string, topicCount int) error {
	return r.events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:   sessionID,
		Action:      action,
		StudentName: studentName,
		TopicCount:  topicCount,
	})
}
