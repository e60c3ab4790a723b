package cursor

// Document is the read-only view of the text the model navigates.
// *buffer.Buffer satisfies it.
type Document interface {
	LineCount() uint32
	LineText(line uint32) (string, error)
}

// Direction is a navigation intent.
type Direction uint8

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
	DirHome     // start of line
	DirEnd      // end of line
	DirDocStart // start of document
	DirDocEnd   // end of document
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirHome:
		return "home"
	case DirEnd:
		return "end"
	case DirDocStart:
		return "doc-start"
	case DirDocEnd:
		return "doc-end"
	default:
		return "unknown"
	}
}

type state struct {
	caret     Point
	sel       Selection
	hasSel    bool
	anchor    Point
	hasAnchor bool
}

// Model holds the caret, gesture anchor and selection of one widget.
// Methods returning bool report whether the state changed.
type Model struct {
	doc Document
	state
}

// New creates a model with the caret at the start of doc.
func New(doc Document) *Model {
	return &Model{doc: doc}
}

// Caret returns the caret position.
func (m *Model) Caret() Point {
	return m.caret
}

// Selection returns the current selection, if any.
func (m *Model) Selection() (Selection, bool) {
	return m.sel, m.hasSel
}

// HasSelection returns true if a non-empty selection exists.
func (m *Model) HasSelection() bool {
	return m.hasSel
}

// Anchor returns the gesture anchor, if a gesture is in progress.
func (m *Model) Anchor() (Point, bool) {
	return m.anchor, m.hasAnchor
}

// Bounds returns the region covered by the caret and selection together.
func (m *Model) Bounds() Selection {
	if m.hasSel {
		return m.sel
	}
	return Selection{Start: m.caret, End: m.caret}
}

func (m *Model) lastLine() uint32 {
	n := m.doc.LineCount()
	if n == 0 {
		return 0
	}
	return n - 1
}

func (m *Model) line(n uint32) string {
	s, err := m.doc.LineText(n)
	if err != nil {
		return ""
	}
	return s
}

func (m *Model) lineLen(n uint32) uint32 {
	return uint32(len(m.line(n)))
}

// clampPoint moves p onto the document, snapping the column back to a
// grapheme boundary.
func (m *Model) clampPoint(p Point) Point {
	if last := m.lastLine(); p.Line > last {
		p.Line = last
	}
	s := m.line(p.Line)
	p.Column = uint32(snap(s, int(p.Column)))
	return p
}

// collapse places the caret at p and drops the selection and anchor.
func (m *Model) collapse(p Point) {
	m.state = state{caret: p}
}

// extendTo moves the caret to p, opening the anchor at the current caret
// if no gesture is in progress.
func (m *Model) extendTo(p Point) {
	if !m.hasAnchor {
		m.anchor = m.caret
		m.hasAnchor = true
	}
	m.caret = p
	m.normalize()
}

func (m *Model) normalize() {
	if !m.hasAnchor || m.anchor == m.caret {
		m.sel, m.hasSel = Selection{}, false
		return
	}
	m.sel, m.hasSel = NewSelection(m.anchor, m.caret), true
}

// Move applies a navigation intent. Without extend an existing selection
// collapses: Left and Home to its start, Right and End to its end.
func (m *Model) Move(dir Direction, extend bool) bool {
	before := m.state

	if !extend && m.hasSel {
		switch dir {
		case DirLeft:
			m.collapse(m.sel.Start)
			return true
		case DirRight:
			m.collapse(m.sel.End)
			return true
		case DirHome:
			m.collapse(Point{Line: m.sel.Start.Line})
			return true
		case DirEnd:
			m.collapse(Point{Line: m.sel.End.Line, Column: m.lineLen(m.sel.End.Line)})
			return true
		}
	}

	to := m.target(m.caret, dir)
	if to == m.caret {
		return false
	}
	if extend {
		m.extendTo(to)
	} else {
		m.collapse(to)
	}
	return m.state != before
}

// Target returns where dir would move the caret, ignoring the selection.
func (m *Model) Target(dir Direction) Point {
	return m.target(m.caret, dir)
}

// target computes where dir leads from p.
func (m *Model) target(p Point, dir Direction) Point {
	last := m.lastLine()
	s := m.line(p.Line)
	col := min(int(p.Column), len(s))

	switch dir {
	case DirLeft:
		if col > 0 {
			return Point{Line: p.Line, Column: uint32(prevBoundary(s, col))}
		}
		if p.Line > 0 {
			return Point{Line: p.Line - 1, Column: m.lineLen(p.Line - 1)}
		}
	case DirRight:
		if col < len(s) {
			return Point{Line: p.Line, Column: uint32(nextBoundary(s, col))}
		}
		if p.Line < last {
			return Point{Line: p.Line + 1}
		}
	case DirUp:
		if p.Line > 0 {
			return m.clampPoint(Point{Line: p.Line - 1, Column: p.Column})
		}
	case DirDown:
		if p.Line < last {
			return m.clampPoint(Point{Line: p.Line + 1, Column: p.Column})
		}
	case DirHome:
		return Point{Line: p.Line}
	case DirEnd:
		return Point{Line: p.Line, Column: uint32(len(s))}
	case DirDocStart:
		return Point{}
	case DirDocEnd:
		return Point{Line: last, Column: m.lineLen(last)}
	}
	return p
}

// SelectAll selects the whole document with the caret at its end. It is a
// no-op on a document holding a single empty line.
func (m *Model) SelectAll() bool {
	last := m.lastLine()
	end := Point{Line: last, Column: m.lineLen(last)}
	if end.IsZero() {
		return false
	}
	before := m.state
	m.state = state{caret: end, anchor: Point{}, hasAnchor: true}
	m.normalize()
	return m.state != before
}

// SelectLine selects the visible content of line with the caret at its
// end.
func (m *Model) SelectLine(line uint32) bool {
	if line >= m.doc.LineCount() {
		return false
	}
	before := m.state
	m.state = state{
		caret:     Point{Line: line, Column: m.lineLen(line)},
		anchor:    Point{Line: line},
		hasAnchor: true,
	}
	m.normalize()
	return m.state != before
}

// SetCaret moves the caret to p, clamped to the document, and drops any
// selection.
func (m *Model) SetCaret(p Point) bool {
	before := m.state
	m.collapse(m.clampPoint(p))
	return m.state != before
}

// Click places the caret at p. With extend the selection grows from the
// anchor, or from the caret if no gesture is in progress.
func (m *Model) Click(p Point, extend bool) bool {
	if !extend {
		return m.SetCaret(p)
	}
	return m.Drag(p)
}

// Drag extends the selection to p.
func (m *Model) Drag(p Point) bool {
	before := m.state
	p = m.clampPoint(p)
	if p == m.caret && m.hasAnchor {
		return false
	}
	m.extendTo(p)
	return m.state != before
}

// Select sets the anchor to from and the caret to to.
func (m *Model) Select(from, to Point) bool {
	before := m.state
	m.state = state{caret: m.clampPoint(to), anchor: m.clampPoint(from), hasAnchor: true}
	m.normalize()
	return m.state != before
}

// Reset returns the caret to the start of the document and drops the
// selection and anchor.
func (m *Model) Reset() bool {
	before := m.state
	m.state = state{}
	return m.state != before
}

// Clamp pulls the caret, anchor and selection back onto the document after
// it changed underneath the model.
func (m *Model) Clamp() {
	m.caret = m.clampPoint(m.caret)
	if m.hasAnchor {
		m.anchor = m.clampPoint(m.anchor)
	}
	m.normalize()
}
