package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/blockedit/internal/engine"
)

func newController(t *testing.T, content string) *engine.Controller {
	t.Helper()
	ctrl, err := engine.New(engine.WithContent(content))
	require.NoError(t, err)
	return ctrl
}

func TestReadFileMissingIsEmpty(t *testing.T) {
	text, err := ReadFile(filepath.Join(t.TempDir(), "absent.txt"))
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestReadFileDirectoryFails(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadFile(dir)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "open", opErr.Op)
	assert.Equal(t, dir, opErr.Target)
}

func TestDocumentModifiedTracking(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	ctrl := newController(t, "abc")
	doc := NewDocument(path, ctrl)

	assert.NotEqual(t, uuid.Nil, doc.ID)
	assert.Equal(t, "a.txt", doc.Name)
	assert.False(t, doc.IsModified())

	require.NoError(t, ctrl.InsertCharacter('x'))
	assert.True(t, doc.IsModified())

	require.NoError(t, doc.Save())
	assert.False(t, doc.IsModified())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "xabc", string(data))
}

func TestDocumentNavigationIsNotAModification(t *testing.T) {
	ctrl := newController(t, "one\ntwo")
	doc := NewDocument("", ctrl)

	require.NoError(t, ctrl.Move(engine.DirDown, true))
	require.NoError(t, ctrl.SelectAll())
	assert.False(t, doc.IsModified())
}

func TestScratchDocumentNeedsPath(t *testing.T) {
	doc := NewDocument("", newController(t, ""))

	assert.True(t, doc.IsScratch())
	assert.ErrorIs(t, doc.Save(), ErrNoFilePath)
	assert.ErrorIs(t, doc.SaveAs(""), ErrNoFilePath)
}

func TestDocumentSaveAs(t *testing.T) {
	ctrl := newController(t, "line 1\r\nline 2\r\n")
	doc := NewDocument("", ctrl)
	path := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, doc.SaveAs(path))
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, "out.txt", doc.Name)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line 1\r\nline 2\r\n", string(data))
}

func TestDocumentSaveAsFailureKeepsPath(t *testing.T) {
	ctrl := newController(t, "x")
	doc := NewDocument("", ctrl)
	require.NoError(t, ctrl.InsertCharacter('y'))

	err := doc.SaveAs(filepath.Join(t.TempDir(), "missing", "out.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, doc.IsScratch())
	assert.True(t, doc.IsModified())
}
