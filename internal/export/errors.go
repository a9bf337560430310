package export

import (
	"errors"
	"fmt"
)

// errSkip marks an item that was deliberately not exported.
type errSkip struct {
	reason string
}

func (e *errSkip) Error() string { return e.reason }

func skip(format string, args ...any) error {
	return &errSkip{reason: fmt.Sprintf(format, args...)}
}

// ItemError is a per-candidate pipeline failure.
type ItemError struct {
	// Candidate is the scene name of the failed candidate.
	Candidate string

	// Stage is the state the item was in when it failed.
	Stage State

	// Err is the underlying cause.
	Err error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("candidate %q failed while %s: %v", e.Candidate, e.Stage, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// PanicError carries a value recovered from a panicking item.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func isSkip(err error) (*errSkip, bool) {
	var s *errSkip
	ok := errors.As(err, &s)
	return s, ok
}
