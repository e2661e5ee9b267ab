package captable

import "fmt"

// ErrorKind classifies why an event was rejected.
type ErrorKind int

const (
	// ErrMalformed means a required field is absent or unparseable.
	ErrMalformed ErrorKind = iota + 1
	// ErrReferential means the event references an entity the state does not
	// have, e.g. exercising options before any option class exists.
	ErrReferential
	// ErrCapacity means the event asks for more than is available, e.g. a
	// grant exceeding the pool balance.
	ErrCapacity
	// ErrDomain means a value is outside a formula's domain, e.g. a target
	// pool percentage of 100% or more.
	ErrDomain
)

func (k ErrorKind) String() string {
	switch k {
	case ErrMalformed:
		return "malformed"
	case ErrReferential:
		return "referential"
	case ErrCapacity:
		return "capacity"
	case ErrDomain:
		return "domain"
	default:
		return "unknown"
	}
}

// EventError is the failure raised by a handler while applying one event.
// The replay aborts at the offending event; the caller must treat the event
// as rejected and must not persist it.
type EventError struct {
	Kind    ErrorKind
	EventID string
	Type    EventType
	Err     error
}

func (e *EventError) Error() string {
	return fmt.Sprintf("%s event %s rejected (%s): %v", e.Type, e.EventID, e.Kind, e.Err)
}

func (e *EventError) Unwrap() error { return e.Err }

// eventErr builds an EventError for ev with the given kind.
func eventErr(ev interface {
	What() EventType
	ID() string
}, kind ErrorKind, format string, args ...any) *EventError {
	return &EventError{
		Kind:    kind,
		EventID: ev.ID(),
		Type:    ev.What(),
		Err:     fmt.Errorf(format, args...),
	}
}
