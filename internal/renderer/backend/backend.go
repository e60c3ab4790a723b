// Package backend abstracts the terminal the widgets draw on and read
// events from.
package backend

import (
	"strings"
	"time"

	"github.com/dshills/blockedit/internal/renderer/core"
)

// EventType identifies the kind of event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventPaste
	EventFocus
	// EventInterrupt carries Data posted from another goroutine.
	EventInterrupt
	// EventClosed is returned once the backend has shut down.
	EventClosed
)

// Event is a terminal event.
type Event struct {
	Type EventType
	When time.Time

	// Key events. Control chords arrive as KeyRune with ModCtrl.
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse events
	MouseX, MouseY int
	MouseButton    MouseButton

	// Resize events
	Width, Height int

	// Focus events
	Focused bool

	// Paste events carry the whole pasted text.
	Text string

	// Interrupt events
	Data any
}

// Key identifies a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Rune holds the character
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// ModMask is the modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains mod.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton is the mouse button state. MouseNone on a mouse event means
// every button is up.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Backend is a cell-addressed display with an event queue.
type Backend interface {
	Init() error
	Shutdown()

	// Size returns the display size in cells.
	Size() (width, height int)

	// SetCell sets one cell. Positions outside the display are ignored.
	SetCell(x, y int, cell core.Cell)
	Fill(rect core.ScreenRect, cell core.Cell)
	Clear()

	// Show flushes pending changes to the display.
	Show()
	ShowCursor(x, y int)
	HideCursor()
	Beep()

	// PollEvent blocks until the next event.
	PollEvent() Event
	// PostEvent queues an event; it is safe to call from any goroutine.
	PostEvent(ev Event)
}

// NullBackend is an in-memory Backend for tests and headless use.
type NullBackend struct {
	width, height int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	shows         int
	beeps         int
	events        chan Event
}

// NewNullBackend creates a null backend with the given size.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{events: make(chan Event, 100)}
	b.Resize(width, height)
	return b
}

func (b *NullBackend) Init() error { return nil }

func (b *NullBackend) Shutdown() {
	b.PostEvent(Event{Type: EventClosed})
}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

// GetCell returns the cell at (x, y), or an empty cell off the display.
func (b *NullBackend) GetCell(x, y int) core.Cell {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

func (b *NullBackend) Fill(rect core.ScreenRect, cell core.Cell) {
	for y := max(rect.Top, 0); y < rect.Bottom && y < b.height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < b.width; x++ {
			b.cells[y][x] = cell
		}
	}
}

func (b *NullBackend) Clear() {
	b.Fill(core.RectFromSize(0, 0, b.height, b.width), core.EmptyCell())
}

func (b *NullBackend) Show() { b.shows++ }

func (b *NullBackend) ShowCursor(x, y int) {
	b.cursorX, b.cursorY = x, y
	b.cursorVisible = true
}

func (b *NullBackend) HideCursor() {
	b.cursorVisible = false
}

func (b *NullBackend) Beep() { b.beeps++ }

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

func (b *NullBackend) PostEvent(ev Event) {
	select {
	case b.events <- ev:
	default:
		// Queue full; drop.
	}
}

// Resize changes the display size and clears it.
func (b *NullBackend) Resize(width, height int) {
	b.width, b.height = max(width, 0), max(height, 0)
	b.cells = make([][]core.Cell, b.height)
	for y := range b.cells {
		b.cells[y] = make([]core.Cell, b.width)
		for x := range b.cells[y] {
			b.cells[y][x] = core.EmptyCell()
		}
	}
}

// CursorPosition returns the cursor position and visibility.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	return b.cursorX, b.cursorY, b.cursorVisible
}

// Row returns the text shown on row y, with trailing blanks trimmed.
func (b *NullBackend) Row(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[y] {
		sb.WriteString(c.Text())
	}
	return strings.TrimRight(sb.String(), " ")
}

// ShowCount returns how many times Show was called.
func (b *NullBackend) ShowCount() int { return b.shows }

// BeepCount returns how many times Beep was called.
func (b *NullBackend) BeepCount() int { return b.beeps }
