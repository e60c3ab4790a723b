package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/blockedit/internal/renderer/core"
)

// NullBackend Tests

func TestNullBackendSetGetCell(t *testing.T) {
	b := NewNullBackend(10, 3)

	cell := core.Cell{Rune: 'X', Width: 1, Style: core.DefaultStyle().Reverse()}
	b.SetCell(4, 1, cell)

	if got := b.GetCell(4, 1); !got.Equals(cell) {
		t.Errorf("expected %+v, got %+v", cell, got)
	}

	b.SetCell(-1, 0, cell)
	b.SetCell(10, 0, cell)
	if got := b.GetCell(-1, 0); !got.Equals(core.EmptyCell()) {
		t.Error("out of bounds reads should return an empty cell")
	}
}

func TestNullBackendFillAndRow(t *testing.T) {
	b := NewNullBackend(6, 2)

	b.Fill(core.RectFromSize(0, 1, 1, 3), core.Cell{Rune: '.', Width: 1})
	if got := b.Row(0); got != " ..." {
		t.Errorf("expected %q, got %q", " ...", got)
	}

	b.Clear()
	if got := b.Row(0); got != "" {
		t.Errorf("expected cleared row, got %q", got)
	}
}

func TestNullBackendCursorAndEvents(t *testing.T) {
	b := NewNullBackend(5, 5)

	b.ShowCursor(2, 3)
	if x, y, ok := b.CursorPosition(); x != 2 || y != 3 || !ok {
		t.Errorf("expected visible cursor at (2,3), got (%d,%d,%v)", x, y, ok)
	}
	b.HideCursor()
	if _, _, ok := b.CursorPosition(); ok {
		t.Error("cursor should be hidden")
	}

	b.PostEvent(Event{Type: EventKey, Key: KeyRune, Rune: 'q'})
	if ev := b.PollEvent(); ev.Rune != 'q' {
		t.Errorf("expected posted event, got %+v", ev)
	}

	b.Shutdown()
	if ev := b.PollEvent(); ev.Type != EventClosed {
		t.Errorf("expected EventClosed after shutdown, got %v", ev.Type)
	}
}

// Terminal Tests

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(sim)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	sim.SetSize(20, 4)
	t.Cleanup(term.Shutdown)
	return term, sim
}

// poll returns the next event of type want, skipping others.
func poll(t *testing.T, term *Terminal, want EventType) Event {
	t.Helper()
	for range 10 {
		ev := term.PollEvent()
		if ev.Type == want {
			return ev
		}
	}
	t.Fatalf("no event of type %v", want)
	return Event{}
}

func TestTerminalSetCell(t *testing.T) {
	term, sim := newSimTerminal(t)

	term.SetCell(1, 2, core.Cell{Rune: 'Z', Width: 1, Style: core.DefaultStyle()})
	term.Show()

	cells, w, _ := sim.GetContents()
	got := cells[2*w+1]
	if len(got.Runes) == 0 || got.Runes[0] != 'Z' {
		t.Errorf("expected 'Z' at (1,2), got %v", got.Runes)
	}
}

func TestTerminalKeyConversion(t *testing.T) {
	term, sim := newSimTerminal(t)

	sim.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	ev := poll(t, term, EventKey)
	if ev.Key != KeyRune || ev.Rune != 'x' {
		t.Errorf("expected rune x, got %+v", ev)
	}

	sim.InjectKey(tcell.KeyBackspace2, 0, tcell.ModNone)
	if ev := poll(t, term, EventKey); ev.Key != KeyBackspace {
		t.Errorf("expected backspace, got %v", ev.Key)
	}

	sim.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	ev = poll(t, term, EventKey)
	if ev.Key != KeyRune || ev.Rune != 'c' || !ev.Mod.Has(ModCtrl) {
		t.Errorf("expected ctrl+c, got %+v", ev)
	}

	sim.InjectKey(tcell.KeyLeft, 0, tcell.ModShift)
	ev = poll(t, term, EventKey)
	if ev.Key != KeyLeft || !ev.Mod.Has(ModShift) {
		t.Errorf("expected shift+left, got %+v", ev)
	}
}

func TestTerminalMouse(t *testing.T) {
	term, sim := newSimTerminal(t)

	sim.InjectMouse(3, 1, tcell.Button1, tcell.ModNone)
	ev := poll(t, term, EventMouse)
	if ev.MouseX != 3 || ev.MouseY != 1 || ev.MouseButton != MouseLeft {
		t.Errorf("unexpected mouse event %+v", ev)
	}
}

func TestTerminalBracketedPaste(t *testing.T) {
	term, sim := newSimTerminal(t)

	_ = sim.PostEvent(tcell.NewEventPaste(true))
	sim.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	sim.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'b', tcell.ModNone)
	_ = sim.PostEvent(tcell.NewEventPaste(false))

	ev := poll(t, term, EventPaste)
	if ev.Text != "a\nb" {
		t.Errorf("expected pasted text %q, got %q", "a\nb", ev.Text)
	}
}

func TestTerminalPostEvent(t *testing.T) {
	term, _ := newSimTerminal(t)

	term.PostEvent(Event{Type: EventInterrupt, Data: "reload"})
	ev := poll(t, term, EventInterrupt)
	if ev.Data != "reload" {
		t.Errorf("expected posted data, got %v", ev.Data)
	}
	if ev.When.IsZero() {
		t.Error("posted events should be stamped")
	}
}
