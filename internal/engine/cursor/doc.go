// Package cursor tracks the caret, the gesture anchor and the selection of
// one editing widget, and implements the navigation transitions over a
// line-oriented document.
//
// Selection Model:
//
// The anchor is where a shift-held or drag gesture started; the caret is
// where typing occurs. The selection is always reported normalized, Start
// before End in document order, whichever way the gesture ran. When the
// caret returns to the anchor the selection disappears but the anchor is
// kept, so continuing the gesture reopens it from the same point.
//
// Navigation never fails. Moves that cannot go anywhere (up from the first
// line, right at the end of the document) leave the state untouched.
//
// Basic usage:
//
//	m := cursor.New(buf)
//	m.Move(cursor.DirEnd, false)    // caret to end of line
//	m.Move(cursor.DirLeft, true)    // select the last character
//	sel, ok := m.Selection()
package cursor
