package session

import "errors"

var (
	// ErrInvalidInput marks a malformed score value, unknown attribute or bad
	// partner number. Such input is rejected and never stored.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPreconditionFailed marks a lifecycle action invoked before its gate holds.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrPersistence marks a failed durable-store call. It is never fatal:
	// the in-memory session stays authoritative.
	ErrPersistence = errors.New("persistence failure")
)
