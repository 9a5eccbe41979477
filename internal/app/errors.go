package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the user asked to exit.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates Run was called twice.
	ErrAlreadyRunning = errors.New("terminal already running")

	// ErrResourceUnavailable indicates an auxiliary file (activity log,
	// help text, upload file) could not be opened. The operation is
	// skipped and the user is told on the status line.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrNoUploadFile indicates a transfer was requested with no file
	// configured.
	ErrNoUploadFile = errors.New("no upload file configured")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "open log", "send")
	Target string // Target of the operation (e.g., file path)
	Err    error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// unavailable wraps err as a ResourceUnavailable failure of op on target.
func unavailable(op, target string, err error) error {
	return NewOperationError(op, target, fmt.Errorf("%w: %w", ErrResourceUnavailable, err))
}
