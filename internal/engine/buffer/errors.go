package buffer

import "errors"

// Sentinel errors returned by Buffer operations.
var (
	// ErrOutOfRange indicates a line or column outside the document.
	ErrOutOfRange = errors.New("position out of range")

	// ErrLineNotFound indicates a line index at or past the line count.
	ErrLineNotFound = errors.New("line not found")

	// ErrAllocationFailure indicates the block limit would be exceeded.
	ErrAllocationFailure = errors.New("block allocation failed")

	// ErrMalformedBlock indicates corrupted block metadata.
	ErrMalformedBlock = errors.New("malformed block")

	// ErrInvalidChar indicates a byte that cannot be stored as text.
	ErrInvalidChar = errors.New("invalid character")
)
