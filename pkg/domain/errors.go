package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when a submission contains only whitespace.
var ErrEmptyInput = errors.New("empty input")

// ErrBusy is returned when a gesture would issue a request while another one is outstanding.
var ErrBusy = errors.New("a request is already in flight")

// ErrAffordanceInactive is returned when a gesture targets an affordance that is not live.
var ErrAffordanceInactive = errors.New("affordance is not live")

// ErrInvalidTransition is returned when a gesture is not valid in the current mode.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrUnknownOption is returned when a selected event is not among the offered options.
var ErrUnknownOption = errors.New("event is not one of the offered options")

// ErrTransport marks failures to reach the query service or non-success responses.
var ErrTransport = errors.New("transport failure")

// ErrEventNotFound is returned when an event ID cannot be found in the store.
var ErrEventNotFound = errors.New("event not found")

// TransportError describes a failed round trip to the query service.
// Status is zero when no response was received.
type TransportError struct {
	Status int
	Detail string
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Detail != "":
		return fmt.Sprintf("query service returned %d: %s", e.Status, e.Detail)
	case e.Status != 0:
		return fmt.Sprintf("query service returned %d", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("query service unreachable: %v", e.Err)
	default:
		return ErrTransport.Error()
	}
}

// Unwrap allows errors.Is(err, ErrTransport) as well as access to the cause.
func (e *TransportError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTransport, e.Err}
	}
	return []error{ErrTransport}
}
