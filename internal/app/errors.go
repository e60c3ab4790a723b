package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrAlreadyRunning indicates Run was called twice.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNoFilePath indicates the document has never been saved.
	ErrNoFilePath = errors.New("no file path")

	// ErrUnsavedChanges indicates the document has unsaved changes.
	ErrUnsavedChanges = errors.New("unsaved changes")

	// ErrInvalidLine indicates a go-to-line request that is not a line
	// number.
	ErrInvalidLine = errors.New("invalid line number")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op      string // e.g. "save", "open"
	Target  string // e.g. a file path
	Context string
	Err     error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

// WithContext adds context to the error. Safe to call on a nil receiver.
func (e *OperationError) WithContext(ctx string) *OperationError {
	if e == nil {
		return nil
	}
	e.Context = ctx
	return e
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Context != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Context)
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

// RecoveredPanicError wraps a panic raised while handling an event.
type RecoveredPanicError struct {
	Value any
	Stack string
}

func (e *RecoveredPanicError) Error() string {
	if e == nil {
		return ""
	}
	if e.Stack != "" {
		return fmt.Sprintf("panic: %v\n%s", e.Value, e.Stack)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}
