package config

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/dshills/blockedit/internal/config/layer"
	"github.com/dshills/blockedit/internal/engine/buffer"
	"github.com/dshills/blockedit/internal/renderer/core"
)

// Section accessors return snapshots. Values of the wrong type fall back
// to the defaults; Validate reports them.

// BufferConfig holds the storage settings of new documents.
type BufferConfig struct {
	// BlockCapacity is the byte capacity of each storage block.
	BlockCapacity int
	// ChapterSize is how many blocks one chapter index entry covers.
	ChapterSize int
	// MaxBlocks caps the block count; zero means unlimited.
	MaxBlocks int
}

// Options returns the buffer options for the settings.
func (b BufferConfig) Options() []buffer.Option {
	return []buffer.Option{
		buffer.WithBlockCapacity(b.BlockCapacity),
		buffer.WithChapterSize(b.ChapterSize),
		buffer.WithMaxBlocks(b.MaxBlocks),
	}
}

// EditorConfig holds the editing widget settings.
type EditorConfig struct {
	TabWidth           int
	LineNumbers        bool
	DoubleClickTimeout time.Duration
	// ScrollMargin is the number of lines kept visible around the caret.
	ScrollMargin int
	ReadOnly     bool
	// LineEnding is "auto", "lf", "crlf" or "cr".
	LineEnding string
}

// LineEndingOverride returns the configured line ending, or false for
// "auto".
func (e EditorConfig) LineEndingOverride() (buffer.LineEnding, bool) {
	switch strings.ToLower(e.LineEnding) {
	case "lf":
		return buffer.LineEndingLF, true
	case "crlf":
		return buffer.LineEndingCRLF, true
	case "cr":
		return buffer.LineEndingCR, true
	}
	return buffer.LineEndingLF, false
}

// ThemeConfig holds colors as "#rrggbb" hex or "default".
type ThemeConfig struct {
	Foreground string
	Background string
	// Selection is the selection background; empty means reverse video.
	Selection string
	// Gutter is the line number color; empty means dimmed text.
	Gutter string
}

// Theme builds the renderer theme.
func (t ThemeConfig) Theme() (core.Theme, error) {
	theme := core.DefaultTheme()

	fg, err := core.ParseColor(t.Foreground)
	if err != nil {
		return theme, err
	}
	bg, err := core.ParseColor(t.Background)
	if err != nil {
		return theme, err
	}
	theme.Text = core.DefaultStyle().WithForeground(fg).WithBackground(bg)
	theme.Selection = theme.Text.Reverse()
	theme.Gutter = theme.Text.Dim()

	if t.Selection != "" {
		sel, err := core.ParseColor(t.Selection)
		if err != nil {
			return theme, err
		}
		theme.Selection = theme.Text.WithBackground(sel)
	}
	if t.Gutter != "" {
		g, err := core.ParseColor(t.Gutter)
		if err != nil {
			return theme, err
		}
		theme.Gutter = theme.Text.WithForeground(g)
	}
	return theme, nil
}

// LoggingConfig holds the log settings.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string
	// File receives the log; empty discards it.
	File string
}

var (
	logLevels   = []string{"debug", "info", "warn", "error"}
	lineEndings = []string{"auto", "lf", "crlf", "cr"}
)

// Buffer returns the buffer settings.
func (c *Config) Buffer() BufferConfig {
	return bufferFrom(c.Merged())
}

// Editor returns the editor settings.
func (c *Config) Editor() EditorConfig {
	return editorFrom(c.Merged())
}

// Theme returns the color settings.
func (c *Config) Theme() ThemeConfig {
	return themeFrom(c.Merged())
}

// Logging returns the log settings.
func (c *Config) Logging() LoggingConfig {
	return loggingFrom(c.Merged())
}

func bufferFrom(m map[string]any) BufferConfig {
	return BufferConfig{
		BlockCapacity: intOr(m, "buffer.blockCapacity", buffer.DefaultBlockCapacity),
		ChapterSize:   intOr(m, "buffer.chapterSize", buffer.DefaultChapterSize),
		MaxBlocks:     intOr(m, "buffer.maxBlocks", 0),
	}
}

func editorFrom(m map[string]any) EditorConfig {
	return EditorConfig{
		TabWidth:           intOr(m, "editor.tabWidth", core.DefaultTabWidth),
		LineNumbers:        boolOr(m, "editor.lineNumbers", true),
		DoubleClickTimeout: durationOr(m, "editor.doubleClickTimeout", 200*time.Millisecond),
		ScrollMargin:       intOr(m, "editor.scrollMargin", 2),
		ReadOnly:           boolOr(m, "editor.readOnly", false),
		LineEnding:         stringOr(m, "editor.lineEnding", "auto"),
	}
}

func themeFrom(m map[string]any) ThemeConfig {
	return ThemeConfig{
		Foreground: stringOr(m, "theme.foreground", "default"),
		Background: stringOr(m, "theme.background", "default"),
		Selection:  stringOr(m, "theme.selection", ""),
		Gutter:     stringOr(m, "theme.gutter", ""),
	}
}

func loggingFrom(m map[string]any) LoggingConfig {
	return LoggingConfig{
		Level: stringOr(m, "logging.level", "info"),
		File:  stringOr(m, "logging.file", ""),
	}
}

func intOr(m map[string]any, path string, def int) int {
	if v, ok := layer.GetByPath(m, path); ok {
		if i, err := toInt(path, v); err == nil {
			return i
		}
	}
	return def
}

func boolOr(m map[string]any, path string, def bool) bool {
	if v, ok := layer.GetByPath(m, path); ok {
		if b, err := toBool(path, v); err == nil {
			return b
		}
	}
	return def
}

func stringOr(m map[string]any, path string, def string) string {
	if v, ok := layer.GetByPath(m, path); ok {
		if s, err := toString(path, v); err == nil {
			return s
		}
	}
	return def
}

func durationOr(m map[string]any, path string, def time.Duration) time.Duration {
	if v, ok := layer.GetByPath(m, path); ok {
		if d, err := toDuration(path, v); err == nil {
			return d
		}
	}
	return def
}

// validate checks the types and ranges of every known setting in m.
func validate(m map[string]any) error {
	var errs ValidationErrors
	add := func(path, msg string, value any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
	}

	checkInt := func(path string, lo, hi int) {
		v, ok := layer.GetByPath(m, path)
		if !ok {
			return
		}
		i, err := toInt(path, v)
		switch {
		case err != nil:
			add(path, "expected an integer", v)
		case i < lo || (hi > 0 && i > hi):
			add(path, "out of range", v)
		}
	}
	checkBool := func(path string) {
		if v, ok := layer.GetByPath(m, path); ok {
			if _, err := toBool(path, v); err != nil {
				add(path, "expected true or false", v)
			}
		}
	}
	checkEnum := func(path string, allowed []string) {
		v, ok := layer.GetByPath(m, path)
		if !ok {
			return
		}
		s, err := toString(path, v)
		if err != nil || !slices.Contains(allowed, strings.ToLower(s)) {
			add(path, "expected one of "+strings.Join(allowed, ", "), v)
		}
	}
	checkColor := func(path string) {
		v, ok := layer.GetByPath(m, path)
		if !ok {
			return
		}
		s, err := toString(path, v)
		if err != nil {
			add(path, "expected a color string", v)
			return
		}
		if s == "" {
			return
		}
		if _, err := core.ParseColor(s); err != nil {
			add(path, "invalid color", v)
		}
	}

	checkInt("buffer.blockCapacity", 16, 0)
	checkInt("buffer.chapterSize", 1, 0)
	checkInt("buffer.maxBlocks", 0, 0)
	checkInt("editor.tabWidth", 1, 16)
	checkInt("editor.scrollMargin", 0, 0)
	checkBool("editor.lineNumbers")
	checkBool("editor.readOnly")
	checkEnum("editor.lineEnding", lineEndings)
	if v, ok := layer.GetByPath(m, "editor.doubleClickTimeout"); ok {
		if d, err := toDuration("editor.doubleClickTimeout", v); err != nil || d <= 0 {
			add("editor.doubleClickTimeout", "expected a positive duration", v)
		}
	}
	for _, p := range []string{"theme.foreground", "theme.background", "theme.selection", "theme.gutter"} {
		checkColor(p)
	}
	checkEnum("logging.level", logLevels)
	if v, ok := layer.GetByPath(m, "logging.file"); ok {
		if _, err := toString("logging.file", v); err != nil {
			add("logging.file", "expected a path", v)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// IsValidationError returns true if err reports invalid settings.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}
