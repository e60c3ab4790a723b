package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader loads configuration from a TOML file.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoader creates a loader for the file at path.
func NewTOMLLoader(path string) *TOMLLoader {
	return &TOMLLoader{fs: OSFS{}, path: path}
}

// NewTOMLLoaderWithFS creates a loader reading path from fsys.
func NewTOMLLoaderWithFS(fsys FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{fs: fsys, path: path}
}

// Path returns the file the loader reads.
func (l *TOMLLoader) Path() string {
	return l.path
}

// Load reads and parses the file. A missing file yields nil, nil.
func (l *TOMLLoader) Load() (map[string]any, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", l.path, err)
	}
	return parse(l.path, data)
}

// LoadFromReader parses TOML from r.
func (l *TOMLLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse("<reader>", data)
}

func parse(source string, data []byte) (map[string]any, error) {
	config := map[string]any{}
	if err := toml.Unmarshal(data, &config); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	return config, nil
}

// ParseError reports a malformed configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
