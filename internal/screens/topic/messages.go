package topic

import "github.com/abhisek/labprep/internal/session"

// replyMsg carries the conversation after a tutor round-trip.
type replyMsg struct {
	Index        int
	Conversation session.TopicConversation
	Err          error
}

// assessedMsg carries the result of marking a topic understood.
type assessedMsg struct {
	Index      int
	Assessment session.Assessment
	Err        error
}
