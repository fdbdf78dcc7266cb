package session

import (
	"errors"
	"fmt"
)

// ErrSessionComplete is returned by GetActiveTopic once every topic has
// been assessed.
var ErrSessionComplete = errors.New("session complete")

// ValidationError reports learner input that cannot be accepted as given.
// No state changes accompany it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateError reports an operation that is illegal in the current state,
// such as acting on a topic other than the active one.
type StateError struct {
	Op     string
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsState reports whether err is a StateError.
func IsState(err error) bool {
	var s *StateError
	return errors.As(err, &s)
}
