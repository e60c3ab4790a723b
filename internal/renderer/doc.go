// Package renderer paints editing widgets onto a terminal.
//
// A Renderer owns a rectangle of a backend and paints one document into
// it: line text laid out in terminal cells, the selection in the theme's
// selection style, an optional line number gutter and the terminal
// cursor at the caret. It also implements the edit controller's rendering
// collaborator, so text widths, the usable width and redraw requests all
// come from the same place.
//
// Layers:
//
//	┌─────────────────────────────────────────┐
//	│      Renderer (per widget)              │
//	├─────────────────────────────────────────┤
//	│  Viewport │ Dirty tracker │ CellMeasurer│
//	├─────────────────────────────────────────┤
//	│  Backend: Terminal (tcell) │ Null       │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	r := renderer.New(term, core.RectFromSize(0, 0, 24, 80), renderer.DefaultOptions())
//	c, _ := engine.New(engine.WithRenderer(r))
//	r.SetSource(c)
//	r.Paint()
//	term.Show()
package renderer
