// Package clipboard provides the copy/paste clipboard used by the editing
// controller. If available it uses the system clipboard, but if
// unavailable it falls back to a memory buffer.
//
// It is a wrapper on top of github.com/atotto/clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard stores and fetches text.
// Implementations support concurrent access.
type Clipboard interface {
	// GetText returns the clipboard text, or false if it holds none.
	GetText() (string, bool)
	// SetText replaces the clipboard text.
	SetText(text string) error
}

// New returns the system clipboard, or an empty memory clipboard if the
// platform has no clipboard utility.
func New() Clipboard {
	if clipboard.Unsupported {
		return NewMemory()
	}
	return &System{}
}

// System is the platform clipboard.
type System struct {
	// last is served when reading the system clipboard fails.
	last Memory
}

// GetText reads the system clipboard.
func (s *System) GetText() (string, bool) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return s.last.GetText()
	}
	return text, text != ""
}

// SetText writes the system clipboard.
func (s *System) SetText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("writing system clipboard: %w", err)
	}
	_ = s.last.SetText(text)
	return nil
}

// Memory is a process-local clipboard. It is useful for tests and for
// headless sessions.
type Memory struct {
	mu   sync.Mutex
	text string
}

// NewMemory returns a new, empty memory clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

// GetText returns the stored text.
func (m *Memory) GetText() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, m.text != ""
}

// SetText stores text.
func (m *Memory) SetText(text string) error {
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
	return nil
}
