package statusline

import (
	"strings"
	"testing"

	"github.com/dshills/blockedit/internal/renderer/backend"
	"github.com/dshills/blockedit/internal/renderer/core"
)

func TestRenderBar(t *testing.T) {
	b := backend.NewNullBackend(40, 2)
	s := New()
	s.SetFilename("notes.txt")
	s.SetModified(true)
	s.SetPosition(3, 7)
	s.SetTotalLines(40)
	s.SetLineEnding("LF")

	s.Render(b, 0, 40)

	row := b.Row(0)
	if !strings.HasPrefix(row, " notes.txt [+]") {
		t.Errorf("unexpected bar %q", row)
	}
	if !strings.HasSuffix(row, "Ln 3/40, Col 7 | LF") {
		t.Errorf("unexpected position info %q", row)
	}
	if !b.GetCell(0, 0).Style.Attributes.Has(core.AttrReverse) {
		t.Error("bar should be drawn in reverse video")
	}
}

func TestRenderBarTruncatesFilename(t *testing.T) {
	b := backend.NewNullBackend(24, 2)
	s := New()
	s.SetFilename("a-very-long-file-name-indeed.txt")

	s.Render(b, 0, 24)

	row := b.Row(0)
	if !strings.HasSuffix(row, "Ln 1, Col 1") {
		t.Errorf("position info should win over the filename, got %q", row)
	}
}

func TestPromptReplacesMessage(t *testing.T) {
	b := backend.NewNullBackend(30, 2)
	s := New()
	s.SetMessage("saved", MessageInfo)

	if x := s.Render(b, 0, 30); x != 5 {
		t.Errorf("expected input column 5 after the message, got %d", x)
	}
	if got := b.Row(1); got != "saved" {
		t.Errorf("expected message row %q, got %q", "saved", got)
	}

	s.SetPrompt("Go to line: ")
	x := s.Render(b, 0, 30)
	if got := b.Row(1); got != "Go to line:" {
		t.Errorf("expected prompt label, got %q", got)
	}
	if x != len("Go to line: ") {
		t.Errorf("expected input column %d, got %d", len("Go to line: "), x)
	}
}

func TestErrorMessageStyle(t *testing.T) {
	b := backend.NewNullBackend(30, 2)
	s := New()
	s.SetMessage("write failed", MessageError)
	s.Render(b, 0, 30)

	if !b.GetCell(0, 1).Style.Attributes.Has(core.AttrBold) {
		t.Error("error messages should be bold")
	}
}
