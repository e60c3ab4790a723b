package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dshills/blockedit/internal/engine"
	"github.com/dshills/blockedit/internal/engine/buffer"
)

// ReadFile returns the contents of path. A file that does not exist yet
// reads as empty so it can be created on the first save.
func ReadFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", NewOperationError("open", path, err)
	}
	return string(data), nil
}

// Document ties the edited text to its file.
type Document struct {
	ID   uuid.UUID
	Path string // empty until first saved
	Name string

	ctrl  *engine.Controller
	saved buffer.RevisionID
}

// NewDocument creates a document for the text held by ctrl. The current
// revision counts as saved.
func NewDocument(path string, ctrl *engine.Controller) *Document {
	d := &Document{
		ID:   uuid.New(),
		ctrl: ctrl,
	}
	d.setPath(path)
	d.saved = ctrl.Buffer().Revision()
	return d
}

func (d *Document) setPath(path string) {
	d.Path = path
	d.Name = ""
	if path != "" {
		d.Name = filepath.Base(path)
	}
}

// IsScratch returns true if the document has no file yet.
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// IsModified returns true if the text changed since it was loaded or saved.
func (d *Document) IsModified() bool {
	return d.ctrl.Buffer().Revision() != d.saved
}

// Save writes the text to the document's file.
func (d *Document) Save() error {
	if d.IsScratch() {
		return NewOperationError("save", d.Name, ErrNoFilePath)
	}
	return d.write(d.Path)
}

// SaveAs writes the text to path and makes path the document's file.
func (d *Document) SaveAs(path string) error {
	if path == "" {
		return NewOperationError("save", "", ErrNoFilePath)
	}
	if err := d.write(path); err != nil {
		return err
	}
	d.setPath(path)
	return nil
}

func (d *Document) write(path string) error {
	if err := os.WriteFile(path, []byte(d.ctrl.Text()), 0o644); err != nil {
		return NewOperationError("save", path, err)
	}
	d.saved = d.ctrl.Buffer().Revision()
	return nil
}
