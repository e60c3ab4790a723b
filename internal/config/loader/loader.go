// Package loader reads configuration layers from TOML files and from
// environment variables.
package loader

import (
	"os"
)

// Loader produces the data of one configuration layer.
type Loader interface {
	// Load returns the values read from the source. A missing source is
	// not an error: it yields nil, nil.
	Load() (map[string]any, error)
}

// FileSystem reads whole files. fstest.MapFS satisfies it.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
}

// OSFS reads from the operating system's file system.
type OSFS struct{}

// ReadFile reads the named file.
func (OSFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}
