package loader

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/dshills/blockedit/internal/config/layer"
)

func TestTOMLLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"settings.toml": {Data: []byte(`
[buffer]
blockCapacity = 512

[editor]
tabWidth = 2
lineNumbers = false
doubleClickTimeout = "250ms"

[theme]
selection = "#3355aa"
`)},
	}

	data, err := NewTOMLLoaderWithFS(fsys, "settings.toml").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	checks := map[string]any{
		"buffer.blockCapacity":      int64(512),
		"editor.tabWidth":           int64(2),
		"editor.lineNumbers":        false,
		"editor.doubleClickTimeout": "250ms",
		"theme.selection":           "#3355aa",
	}
	for path, want := range checks {
		if got, ok := layer.GetByPath(data, path); !ok || got != want {
			t.Errorf("%s = %v (%T), want %v", path, got, got, want)
		}
	}
}

func TestTOMLMissingFile(t *testing.T) {
	data, err := NewTOMLLoaderWithFS(fstest.MapFS{}, "absent.toml").Load()
	if err != nil || data != nil {
		t.Errorf("missing file: got %v, %v; want nil, nil", data, err)
	}
}

func TestTOMLParseError(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.toml": {Data: []byte("[editor]\ntabWidth = = 3\n")},
	}

	_, err := NewTOMLLoaderWithFS(fsys, "bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Path != "bad.toml" {
		t.Errorf("Path = %q", perr.Path)
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}
	if !strings.Contains(perr.Error(), "line 2") {
		t.Errorf("message should carry the position: %s", perr.Error())
	}
}

func TestTOMLFromReader(t *testing.T) {
	data, err := NewTOMLLoader("").LoadFromReader(strings.NewReader(`logging = { level = "debug" }`))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if v, _ := layer.GetByPath(data, "logging.level"); v != "debug" {
		t.Errorf("logging.level = %v", v)
	}
}

// Env Tests

func newTestEnvLoader(env ...string) *EnvLoader {
	l := NewEnvLoader(DefaultEnvPrefix)
	l.environ = func() []string { return env }
	return l
}

func TestEnvNaming(t *testing.T) {
	l := newTestEnvLoader(
		"BLOCKEDIT_EDITOR_TAB_WIDTH=1",
		"BLOCKEDIT_EDITOR_LINE_NUMBERS=off",
		"BLOCKEDIT_BUFFER_BLOCK_CAPACITY=4096",
		"BLOCKEDIT_EDITOR_DOUBLE_CLICK_TIMEOUT=300ms",
		"BLOCKEDIT_LOG_LEVEL=debug",
		"BLOCKEDIT_NOSECTION=1",
		"HOME=/root",
	)

	data, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	checks := map[string]any{
		"editor.tabWidth":           int64(1),
		"editor.lineNumbers":        false,
		"buffer.blockCapacity":      int64(4096),
		"editor.doubleClickTimeout": "300ms",
		"logging.level":             "debug",
	}
	for path, want := range checks {
		if got, ok := layer.GetByPath(data, path); !ok || got != want {
			t.Errorf("%s = %v (%T), want %v", path, got, got, want)
		}
	}
	if len(layer.Flatten(data)) != len(checks) {
		t.Errorf("unexpected extra values: %v", layer.Flatten(data))
	}
}

func TestEnvAddMapping(t *testing.T) {
	l := newTestEnvLoader("BLOCKEDIT_SELECTION=#ff0000")
	l.AddMapping("BLOCKEDIT_SELECTION", "theme.selection")

	data, _ := l.Load()
	if v, _ := layer.GetByPath(data, "theme.selection"); v != "#ff0000" {
		t.Errorf("theme.selection = %v", v)
	}
}

func TestEnvFromProcess(t *testing.T) {
	t.Setenv("BLOCKEDIT_EDITOR_SCROLL_MARGIN", "3")

	data, err := NewEnvLoader(DefaultEnvPrefix).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v, _ := layer.GetByPath(data, "editor.scrollMargin"); v != int64(3) {
		t.Errorf("editor.scrollMargin = %v", v)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"yes", true},
		{"FALSE", false},
		{"0", int64(0)},
		{"1.5", 1.5},
		{"1.2.3", "1.2.3"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}
