package orders

import (
	"errors"
	"fmt"
)

// WriteErrorKind classifies order store write failures.
type WriteErrorKind string

const (
	WriteErrorPayloadTooLarge WriteErrorKind = "payload_too_large"
	WriteErrorDuplicate       WriteErrorKind = "duplicate"
	WriteErrorGeneric         WriteErrorKind = "generic"
)

// WriteError is returned by the order store when a create fails.
type WriteError struct {
	Kind WriteErrorKind
	Err  error
}

func (e *WriteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("order write failed (%s)", e.Kind)
	}
	return fmt.Sprintf("order write failed (%s): %v", e.Kind, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// KindOf returns the write error kind carried by err, defaulting to generic.
func KindOf(err error) WriteErrorKind {
	var writeErr *WriteError
	if errors.As(err, &writeErr) {
		return writeErr.Kind
	}
	return WriteErrorGeneric
}
