// Package engine provides the editing controller shared by the multi-line
// and single-line text widgets.
//
// # Architecture
//
// The controller is built on several sub-packages:
//
//   - buffer: segmented block store addressed by line and column
//   - cursor: caret, gesture anchor and normalized selection
//   - pan: horizontal pan offset that keeps the caret visible
//
// It talks to the outside world through two collaborators: a Clipboard
// for copy, cut and paste, and a Renderer that supplies the viewport width
// and text measurement and receives redraw requests.
//
// # Atomicity
//
// Every intent either completes or leaves the buffer, caret, selection and
// pan offset as they were. Mutating intents report the caret/selection box
// from before the edit to the renderer so stale highlighting is repainted.
//
// # Concurrency
//
// A Controller belongs to one widget and one goroutine. Calling back into
// the controller from a collaborator while an intent is running returns
// ErrReentrant.
//
// # Basic Usage
//
//	c, err := engine.New(engine.WithContent("hello"), engine.WithRenderer(r))
//	if err != nil {
//		return err
//	}
//
//	c.Move(engine.DirEnd, false)
//	c.InsertText(", world")     // "hello, world"
//
//	c.Move(engine.DirHome, true) // select the line
//	c.Cut()                      // clipboard holds "hello, world"
package engine
