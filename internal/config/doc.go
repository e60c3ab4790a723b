// Package config provides the editor's settings.
//
// Settings are organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  5. Session (Config.Set)    │  ← Highest priority
//	├─────────────────────────────┤
//	│  4. Command Line Flags      │
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← BLOCKEDIT_EDITOR_TAB_WIDTH=2
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← ~/.config/blockedit/settings.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - layer: layer storage and merging
//   - loader: TOML file and environment variable loading
//   - notify: change subscriptions
//   - watcher: settings file watching for live reload
//
// # Usage
//
//	cfg := config.New(config.WithFile(path))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	defer cfg.Close()
//
//	editor := cfg.Editor()
//	cfg.SubscribePath("editor", func(c notify.Change) { ... })
//
// Observers of file reloads run on the watcher's goroutine.
package config
