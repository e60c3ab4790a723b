package engine

import (
	"errors"

	"github.com/dshills/blockedit/internal/engine/buffer"
)

// Errors returned by controller operations.
var (
	// ErrReentrant indicates an operation was started while another one on
	// the same controller was still running, typically from inside a
	// renderer callback.
	ErrReentrant = errors.New("controller operation already in progress")

	// ErrReadOnly indicates an edit was attempted on a read-only controller.
	ErrReadOnly = errors.New("controller is read-only")
)

// Buffer errors surfaced unchanged by the controller.
var (
	ErrOutOfRange        = buffer.ErrOutOfRange
	ErrAllocationFailure = buffer.ErrAllocationFailure
	ErrMalformedBlock    = buffer.ErrMalformedBlock
	ErrInvalidChar       = buffer.ErrInvalidChar
)
