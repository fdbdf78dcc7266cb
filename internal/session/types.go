package session

import (
	"strings"
)

// Role identifies who wrote a message.
type Role string

const (
	RoleLearner Role = "learner"
	RoleTutor   Role = "tutor"
)

// Message is one turn of a topic conversation. Messages are immutable once
// appended.
type Message struct {
	Role    Role
	Content string
}

// Rating is the qualitative outcome of an understanding assessment.
type Rating string

const (
	RatingStrong     Rating = "STRONG"
	RatingDeveloping Rating = "DEVELOPING"
	RatingNeedsWork  Rating = "NEEDS_WORK"
	RatingError      Rating = "ERROR"
)

// Label returns a human-readable rating name.
func (r Rating) Label() string {
	switch r {
	case RatingStrong:
		return "Strong"
	case RatingDeveloping:
		return "Developing"
	case RatingNeedsWork:
		return "Needs work"
	case RatingError:
		return "Error"
	}
	return string(r)
}

// ClassifyRating maps evaluator text to a Rating. The case-insensitive
// keyword "STRONG" wins over "DEVELOPING"; text with neither is NEEDS_WORK.
// ERROR is never produced here: it is reserved for evaluator failures.
func ClassifyRating(text string) Rating {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, string(RatingStrong)):
		return RatingStrong
	case strings.Contains(upper, string(RatingDeveloping)):
		return RatingDeveloping
	default:
		return RatingNeedsWork
	}
}

// ParseRating maps an exact rating name (any case) to a Rating.
func ParseRating(s string) (Rating, bool) {
	switch Rating(strings.ToUpper(strings.TrimSpace(s))) {
	case RatingStrong:
		return RatingStrong, true
	case RatingDeveloping:
		return RatingDeveloping, true
	case RatingNeedsWork:
		return RatingNeedsWork, true
	case RatingError:
		return RatingError, true
	}
	return "", false
}

// Assessment is the recorded outcome for a completed topic.
type Assessment struct {
	Rating      Rating
	Explanation string
}

// TopicConversation is the message history for one topic.
type TopicConversation struct {
	Messages  []Message
	Completed bool
	// Assessment is non-nil iff Completed is true.
	Assessment *Assessment
}

// Phase is the per-topic lifecycle position.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInProgress
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not started"
	case PhaseInProgress:
		return "in progress"
	case PhaseCompleted:
		return "completed"
	}
	return "unknown"
}

func (c *TopicConversation) clone() TopicConversation {
	out := TopicConversation{
		Messages:  append([]Message(nil), c.Messages...),
		Completed: c.Completed,
	}
	if c.Assessment != nil {
		a := *c.Assessment
		out.Assessment = &a
	}
	return out
}

// State is the owned, per-learner session state.
type State struct {
	StudentName       string
	CurrentTopicIndex int
	Conversations     map[int]*TopicConversation
}

func newState() State {
	return State{Conversations: make(map[int]*TopicConversation)}
}

// Snapshot is a deep copy of State safe to hand to the presentation layer.
type Snapshot struct {
	SessionID         string
	StudentName       string
	CurrentTopicIndex int
	TopicCount        int
	Conversations     map[int]TopicConversation
	Busy              bool
}

// Started reports whether StartSession has run since the last reset.
func (s Snapshot) Started() bool {
	return s.StudentName != ""
}

// Complete reports whether every topic has been assessed.
func (s Snapshot) Complete() bool {
	return s.Started() && s.CurrentTopicIndex >= s.TopicCount
}
