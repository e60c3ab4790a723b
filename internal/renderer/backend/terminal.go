package backend

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/blockedit/internal/renderer/core"
)

// Terminal implements Backend on a tcell screen.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
	active bool

	// Bracketed paste state, owned by the PollEvent goroutine.
	pasting bool
	paste   strings.Builder
}

// NewTerminal creates a backend on the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen), nil
}

// NewTerminalWithScreen creates a backend on an existing screen, such as a
// tcell simulation screen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	t.screen.EnablePaste()
	t.screen.EnableFocus()
	t.active = true
	return nil
}

// Shutdown restores the terminal. Calls after the first are no-ops.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active {
		return
	}
	t.active = false
	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	if cell.IsContinuation() {
		// tcell fills the second column of a wide rune itself.
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, cell.Rune, cell.Combining, convertStyle(cell.Style))
}

func (t *Terminal) Fill(rect core.ScreenRect, cell core.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	style := convertStyle(cell.Style)
	width, height := t.screen.Size()
	for y := max(rect.Top, 0); y < rect.Bottom && y < height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < width; x++ {
			t.screen.SetContent(x, y, cell.Rune, nil, style)
		}
	}
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	_ = t.screen.Beep() // best-effort
}

// PollEvent returns the next event. Key events inside a bracketed paste
// are collected and delivered as a single EventPaste.
func (t *Terminal) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Type: EventClosed}
		}
		if out, ok := t.convertEvent(ev); ok {
			return out
		}
	}
}

// PostEvent queues ev behind the pending terminal events.
func (t *Terminal) PostEvent(ev Event) {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(ev)) // best-effort; the queue may be full
}

// convertEvent translates a tcell event. It returns false for events that
// are consumed without producing one, such as keys inside a paste.
func (t *Terminal) convertEvent(ev tcell.Event) (Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventPaste:
		if e.Start() {
			t.pasting = true
			t.paste.Reset()
			return Event{}, false
		}
		t.pasting = false
		return Event{Type: EventPaste, When: e.When(), Text: t.paste.String()}, true

	case *tcell.EventKey:
		key, r, mod := convertKey(e)
		if t.pasting {
			switch key {
			case KeyRune:
				t.paste.WriteRune(r)
			case KeyEnter:
				t.paste.WriteByte('\n')
			case KeyTab:
				t.paste.WriteByte('\t')
			}
			return Event{}, false
		}
		return Event{Type: EventKey, When: e.When(), Key: key, Rune: r, Mod: mod}, true

	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:        EventMouse,
			When:        e.When(),
			MouseX:      x,
			MouseY:      y,
			MouseButton: convertMouseButton(e.Buttons()),
			Mod:         convertMod(e.Modifiers()),
		}, true

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, When: e.When(), Width: w, Height: h}, true

	case *tcell.EventFocus:
		return Event{Type: EventFocus, When: e.When(), Focused: e.Focused}, true

	case *tcell.EventInterrupt:
		if posted, ok := e.Data().(Event); ok {
			if posted.When.IsZero() {
				posted.When = e.When()
			}
			return posted, true
		}
		return Event{Type: EventInterrupt, When: e.When(), Data: e.Data()}, true
	}
	return Event{}, false
}

var keyTable = map[tcell.Key]Key{
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBacktab:    KeyBacktab,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
}

// convertKey maps a tcell key event. Control letters become the lower-case
// rune with ModCtrl; Backspace, Tab and Enter keep their own keys even
// though they share codes with Ctrl+H, Ctrl+I and Ctrl+M.
func convertKey(e *tcell.EventKey) (Key, rune, ModMask) {
	mod := convertMod(e.Modifiers())
	k := e.Key()
	if k == tcell.KeyRune {
		return KeyRune, e.Rune(), mod
	}
	if key, ok := keyTable[k]; ok {
		return key, 0, mod
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return KeyRune, 'a' + rune(k-tcell.KeyCtrlA), mod | ModCtrl
	}
	return KeyNone, 0, mod
}

func convertMod(m tcell.ModMask) ModMask {
	var result ModMask
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}

func convertMouseButton(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return MouseLeft
	case b&tcell.Button2 != 0:
		return MouseRight
	case b&tcell.Button3 != 0:
		return MouseMiddle
	case b&tcell.WheelUp != 0:
		return MouseWheelUp
	case b&tcell.WheelDown != 0:
		return MouseWheelDown
	default:
		return MouseNone
	}
}

func convertColor(c core.Color) tcell.Color {
	switch {
	case c.IsDefault():
		return tcell.ColorDefault
	case c.Indexed:
		return tcell.PaletteColor(int(c.R))
	default:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
}

func convertStyle(s core.Style) tcell.Style {
	return tcell.StyleDefault.
		Foreground(convertColor(s.Foreground)).
		Background(convertColor(s.Background)).
		Bold(s.Attributes.Has(core.AttrBold)).
		Dim(s.Attributes.Has(core.AttrDim)).
		Italic(s.Attributes.Has(core.AttrItalic)).
		Underline(s.Attributes.Has(core.AttrUnderline)).
		Reverse(s.Attributes.Has(core.AttrReverse))
}
