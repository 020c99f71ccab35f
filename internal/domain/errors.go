package domain

import (
	"errors"
	"fmt"
)

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// ErrBadFormat marks a malformed temporal wire value. Fatal for the
	// record being decoded; the surrounding fetch fails as a unit.
	ErrBadFormat = errors.New("malformed temporal value")

	// ErrUnknownTaskType marks an unrecognized task discriminant.
	ErrUnknownTaskType = errors.New("unknown task type")

	// ErrDisconnected marks a dropped push channel. Transient; the
	// subscriber reconnects with back-off.
	ErrDisconnected = errors.New("push channel disconnected")

	// ErrTaskNotFound is reported by the server for an unknown task id.
	ErrTaskNotFound = errors.New("task not found")
)

// RequestError is a non-success API response, carrying the message the
// server provided. Recoverable by retry or reload.
type RequestError struct {
	Op      string // operation that failed, e.g. "update task"
	Message string // server-provided message
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}
