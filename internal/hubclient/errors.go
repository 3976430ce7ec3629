package hubclient

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies why a fetch call failed.
type ErrorKind string

// All fetch failure kinds.
const (
	TimeoutError   ErrorKind = "timeout"   // Remote did not answer within the window
	TransportError ErrorKind = "transport" // Connection failure or non-2xx status
	MalformedError ErrorKind = "malformed" // Body is not a JSON array
	InvalidError   ErrorKind = "invalid"   // Rejected before any request was sent
)

// FetchError is the classified failure of a single GET.
type FetchError struct {
	Kind   ErrorKind
	Status int // HTTP status when one was received
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// classify wraps a transport-level error with its kind.
func classify(err error) *FetchError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &FetchError{Kind: TimeoutError, Err: err}
	}
	return &FetchError{Kind: TransportError, Err: err}
}

// IsKind reports whether err is a FetchError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == kind
}
