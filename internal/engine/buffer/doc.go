// Package buffer provides the segmented, line-oriented text store used by
// the editing widgets.
//
// Text is held in a doubly linked list of fixed-capacity blocks. Every line
// is stored as its visible bytes, followed by its original line ending
// (unless it is the last line), followed by a single NUL sentinel byte. A
// line may span several blocks. Each block records how many lines start
// inside it and the number of the first of those lines, and every Nth
// block is remembered in a chapter index so a line can be located by a
// binary search followed by a short walk.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello\nWorld")
//
//	// Insert text at line 0, column 5
//	end, _ := buf.InsertText(0, 5, ", there")  // "Hello, there\nWorld"
//
//	// Merge line 0 with line 1
//	buf.MergeLine(0)  // "Hello, thereWorld"
//
//	// Read a line back
//	s, _ := buf.LineText(0)
//
// Positions:
//
// All addressing is by (line, column). Both are 0-indexed and the column is
// a byte offset into the line's visible content. Line endings are not part
// of the visible content: a column equal to LineLen addresses the end of
// the line.
//
// Line endings:
//
// "\n", "\r" and "\r\n" each count as exactly one line break, and the
// buffer keeps whichever style it was given. Text() and TextRange() return
// the original endings; LineText() never includes them.
//
// Concurrency:
//
// A Buffer is not safe for concurrent use. It is owned by a single editing
// controller which serializes all access.
package buffer
