package buffer

import "fmt"

// ByteOffset counts visible bytes in the document.
type ByteOffset = int64

// Point represents a line and column position.
// Both Line and Column are 0-indexed.
// Column is measured in bytes from the start of the line.
type Point struct {
	Line   uint32 // 0-indexed line number
	Column uint32 // 0-indexed column (byte offset within line)
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// IsZero returns true if this is the zero point (0:0).
func (p Point) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// MinPoint returns whichever of a and b comes first.
func MinPoint(a, b Point) Point {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxPoint returns whichever of a and b comes last.
func MaxPoint(a, b Point) Point {
	if b.After(a) {
		return b
	}
	return a
}

// RevisionID identifies a buffer revision.
// It increases by one with every successful modification.
type RevisionID uint64
