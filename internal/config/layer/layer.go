// Package layer merges configuration from several sources. Each source is
// a layer with a priority, and higher priority layers override the values
// of lower ones key by key.
package layer

import (
	"time"
)

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceBuiltin is the compiled-in defaults.
	SourceBuiltin Source = iota
	// SourceFile is the user's TOML settings file.
	SourceFile
	// SourceEnv is BLOCKEDIT_* environment variables.
	SourceEnv
	// SourceArgs is command-line flags.
	SourceArgs
	// SourceSession holds values set while the editor runs.
	SourceSession
)

// Priorities for the standard sources. Higher overrides lower.
const (
	PriorityBuiltin = 0
	PriorityFile    = 100
	PriorityEnv     = 500
	PriorityArgs    = 600
	PrioritySession = 1000
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceFile:
		return "file"
	case SourceEnv:
		return "environment"
	case SourceArgs:
		return "arguments"
	case SourceSession:
		return "session"
	default:
		return "unknown"
	}
}

// Priority returns the standard priority of the source.
func (s Source) Priority() int {
	switch s {
	case SourceFile:
		return PriorityFile
	case SourceEnv:
		return PriorityEnv
	case SourceArgs:
		return PriorityArgs
	case SourceSession:
		return PrioritySession
	default:
		return PriorityBuiltin
	}
}

// Layer is one source of configuration values.
type Layer struct {
	// Name identifies the layer, e.g. "defaults" or "file".
	Name     string
	Source   Source
	Priority int

	// Path is the file the layer was read from, if any.
	Path string

	// Data holds the values as nested maps keyed by path segment.
	Data map[string]any

	// Loaded is when the layer's data was last replaced.
	Loaded time.Time
}

// New creates a layer for source at the source's standard priority.
func New(name string, source Source, data map[string]any) *Layer {
	if data == nil {
		data = make(map[string]any)
	}
	return &Layer{
		Name:     name,
		Source:   source,
		Priority: source.Priority(),
		Data:     data,
		Loaded:   time.Now(),
	}
}

// Clone returns a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	c := *l
	c.Data = cloneMap(l.Data)
	return &c
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = cloneValue(v)
	}
	return dst
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		dst := make([]any, len(v))
		for i, item := range v {
			dst[i] = cloneValue(item)
		}
		return dst
	default:
		return val
	}
}
