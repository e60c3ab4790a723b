package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/dshills/blockedit/internal/config/layer"
	"github.com/dshills/blockedit/internal/config/loader"
	"github.com/dshills/blockedit/internal/config/notify"
	"github.com/dshills/blockedit/internal/config/watcher"
)

// Layer names.
const (
	layerDefaults = "defaults"
	layerFile     = "file"
	layerEnv      = "environment"
	layerArgs     = "arguments"
)

// Config provides the merged settings and reloads the settings file when
// it changes.
type Config struct {
	mu sync.Mutex

	layers   *layer.Manager
	notifier *notify.Notifier
	watcher  *watcher.Watcher

	path          string
	fs            loader.FileSystem
	envPrefix     string
	overrides     map[string]any
	enableWatcher bool
	onError       func(error)
}

// Option configures a Config.
type Option func(*Config)

// WithFile sets the settings file. Without it no file is read.
func WithFile(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithFileSystem reads the settings file from fsys. Live reload is only
// available for the operating system's file system.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// WithWatcher enables reloading the settings file when it changes. The
// file's directory must exist when Load is called; otherwise nothing is
// watched.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithEnvPrefix changes the environment variable prefix. An empty prefix
// disables the environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithOverrides sets values from the command line, keyed by path.
func WithOverrides(values map[string]any) Option {
	return func(c *Config) {
		c.overrides = values
	}
}

// WithErrorHandler receives errors from background reloads.
func WithErrorHandler(fn func(error)) Option {
	return func(c *Config) {
		c.onError = fn
	}
}

// New creates a Config. Call Load before reading settings.
func New(opts ...Option) *Config {
	c := &Config{
		layers:    layer.NewManager(),
		notifier:  notify.New(),
		fs:        loader.OSFS{},
		envPrefix: loader.DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.layers.Put(layer.New(layerDefaults, layer.SourceBuiltin, defaultConfig()))
	return c
}

// DefaultPath returns the per-user settings file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "blockedit", "settings.toml")
}

// Path returns the settings file, or "" if none is used.
func (c *Config) Path() string {
	return c.path
}

// Load reads the settings file, the environment and the overrides, then
// validates the result. A missing settings file is not an error.
func (c *Config) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	if err := c.loadFile(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.envPrefix != "" {
		data, err := loader.NewEnvLoader(c.envPrefix).Load()
		if err != nil {
			c.mu.Unlock()
			return fmt.Errorf("loading environment: %w", err)
		}
		c.layers.Put(layer.New(layerEnv, layer.SourceEnv, data))
	}
	if len(c.overrides) > 0 {
		data := make(map[string]any)
		for path, v := range c.overrides {
			layer.SetByPath(data, path, v)
		}
		c.layers.Put(layer.New(layerArgs, layer.SourceArgs, data))
	}
	c.mu.Unlock()

	if err := c.Validate(); err != nil {
		return err
	}
	if c.enableWatcher && c.path != "" && dirExists(filepath.Dir(c.path)) {
		return c.startWatcher()
	}
	return nil
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// loadFile replaces the file layer. It must be called with c.mu held.
func (c *Config) loadFile() error {
	if c.path == "" {
		return nil
	}
	data, err := loader.NewTOMLLoaderWithFS(c.fs, c.path).Load()
	if err != nil {
		return err
	}
	if data == nil {
		c.layers.Remove(layerFile)
		return nil
	}
	l := layer.New(layerFile, layer.SourceFile, data)
	l.Path = c.path
	c.layers.Put(l)
	return nil
}

func (c *Config) startWatcher() error {
	w, err := watcher.New(watcher.WithErrorHandler(c.reportError))
	if err != nil {
		return fmt.Errorf("starting config watcher: %w", err)
	}
	if err := w.Watch(c.path); err != nil {
		_ = w.Stop()
		return fmt.Errorf("watching %s: %w", c.path, err)
	}
	w.OnChange(c.handleFileChange)

	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()
	w.Start()
	return nil
}

// Reload re-reads the settings file and notifies subscribers of the
// settings whose effective value changed. On a parse or validation error
// the previous file layer stays in effect.
func (c *Config) Reload() error {
	c.mu.Lock()
	before := c.layers.Merge()
	prev := c.layers.Layer(layerFile)
	if err := c.loadFile(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	if err := c.Validate(); err != nil {
		c.mu.Lock()
		if prev != nil {
			c.layers.Put(prev)
		} else {
			c.layers.Remove(layerFile)
		}
		c.mu.Unlock()
		return err
	}

	changed := layer.Diff(before, c.layers.Merge())
	c.notifier.Notify(notify.Change{Type: notify.ChangeReload, Paths: changed, Source: layerFile})
	return nil
}

func (c *Config) handleFileChange(watcher.Event) {
	if err := c.Reload(); err != nil {
		c.reportError(err)
	}
}

func (c *Config) reportError(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}

// Close stops watching the settings file.
func (c *Config) Close() error {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		return w.Stop()
	}
	return nil
}

// Subscribe registers an observer for every change.
func (c *Config) Subscribe(observer notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes at or below path.
func (c *Config) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribePath(path, observer)
}

// Merged returns a copy of the merged settings.
func (c *Config) Merged() map[string]any {
	return c.layers.Merge()
}

// Source returns the name of the layer providing path, or "".
func (c *Config) Source(path string) string {
	_, l, ok := c.layers.Get(path)
	if !ok {
		return ""
	}
	return l.Name
}

// Set changes a setting for the rest of the session. An invalid value is
// rejected and leaves the settings unchanged.
func (c *Config) Set(path string, value any) error {
	if path == "" {
		return ErrSettingNotFound
	}
	candidate := c.layers.Merge()
	layer.SetByPath(candidate, path, value)
	if err := validate(candidate); err != nil {
		return err
	}
	c.layers.SetInSession(path, value)
	c.notifier.Notify(notify.Change{Type: notify.ChangeSet, Paths: []string{path}, Source: layer.SourceSession.String()})
	return nil
}

// Validate checks the merged settings.
func (c *Config) Validate() error {
	return validate(c.layers.Merge())
}

// Get returns the effective value at path.
func (c *Config) Get(path string) (any, bool) {
	v, _, ok := c.layers.Get(path)
	return v, ok
}

// GetString returns a string setting.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	return toString(path, v)
}

// GetInt returns an integer setting.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	return toInt(path, v)
}

// GetBool returns a boolean setting.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	return toBool(path, v)
}

// GetDuration returns a duration setting. Strings use time.ParseDuration
// syntax; bare integers are milliseconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	return toDuration(path, v)
}

func toString(path string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

func toInt(path string, v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val == float64(int(val)) {
			return int(val), nil
		}
	case string:
		if i, err := strconv.Atoi(val); err == nil {
			return i, nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

func toBool(path string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

func toDuration(path string, v any) (time.Duration, error) {
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d, nil
		}
	case int:
		return time.Duration(val) * time.Millisecond, nil
	case int64:
		return time.Duration(val) * time.Millisecond, nil
	}
	return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
}

func defaultConfig() map[string]any {
	return map[string]any{
		"buffer": map[string]any{
			"blockCapacity": 2048,
			"chapterSize":   10,
			"maxBlocks":     0,
		},
		"editor": map[string]any{
			"tabWidth":           4,
			"lineNumbers":        true,
			"doubleClickTimeout": "200ms",
			"scrollMargin":       2,
			"readOnly":           false,
			"lineEnding":         "auto",
		},
		"theme": map[string]any{
			"foreground": "default",
			"background": "default",
			"selection":  "",
			"gutter":     "",
		},
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
	}
}
