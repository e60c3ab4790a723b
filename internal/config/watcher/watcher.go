// Package watcher reports changes to configuration files so they can be
// reloaded while the editor runs.
//
// Files are watched through their parent directory, which keeps the watch
// alive when an editor saves by writing a new file and renaming it over
// the old one.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before its change is
// reported.
const DefaultDebounce = 100 * time.Millisecond

// ErrClosed is returned by operations on a stopped watcher.
var ErrClosed = errors.New("watcher is closed")

// Operation is the kind of file change.
type Operation int

const (
	OpWrite Operation = iota
	OpCreate
	OpRemove
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Event is a change to a watched file.
type Event struct {
	// Path is the absolute path of the file.
	Path string
	Op   Operation
	Time time.Time
}

// Handler is called for each reported change. Handlers run on the
// watcher's goroutine.
type Handler func(event Event)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Zero reports every change at once.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler receives errors from the underlying notifier.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// Watcher monitors a set of files.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]bool
	handlers []Handler
	onError  func(error)
	debounce time.Duration
	pending  map[string]Event

	running bool
	done    chan struct{}
	wg      sync.WaitGroup
	closed  bool
}

// New creates a watcher.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		debounce: DefaultDebounce,
		pending:  make(map[string]Event),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch adds a file. The file does not need to exist yet; its creation is
// reported, but its directory must exist.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true
	return nil
}

// WatchedFiles returns the watched file paths.
func (w *Watcher) WatchedFiles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	return files
}

// OnChange registers a handler.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	w.handlers = append(w.handlers, handler)
	w.mu.Unlock()
}

// Start begins delivering events.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.closed {
		return
	}
	w.running = true
	w.done = make(chan struct{})
	w.wg.Add(1)
	go w.loop(w.done)
}

// Stop ends delivery and releases the notifier. A stopped watcher cannot
// be restarted.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.running {
		close(w.done)
		w.running = false
	}
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

// IsRunning returns true between Start and Stop.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) loop(done <-chan struct{}) {
	defer w.wg.Done()

	var tick <-chan time.Time
	if w.debounce > 0 {
		ticker := time.NewTicker(w.debounce)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		case now := <-tick:
			w.flush(now)
		}
	}
}

func (w *Watcher) handleFSEvent(fe fsnotify.Event) {
	op, ok := convertOp(fe.Op)
	if !ok {
		return
	}
	path := filepath.Clean(fe.Name)

	w.mu.Lock()
	watched := w.files[path]
	w.mu.Unlock()
	if !watched {
		return
	}

	ev := Event{Path: path, Op: op, Time: time.Now()}
	if w.debounce == 0 {
		w.emit(ev)
		return
	}
	w.queue(ev)
}

func convertOp(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	}
	return 0, false
}

// queue coalesces bursts per file. The latest event restarts the quiet
// period.
func (w *Watcher) queue(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev, ok := w.pending[ev.Path]
	if ok {
		switch {
		case ev.Op == OpRemove || ev.Op == OpRename:
			// Removal wins.
		case prev.Op == OpRemove || prev.Op == OpRename:
			// Removed then recreated.
			if ev.Op == OpCreate || ev.Op == OpWrite {
				ev.Op = OpCreate
			}
		case prev.Op == OpCreate:
			ev.Op = OpCreate
		}
	}
	w.pending[ev.Path] = ev
}

// flush reports pending changes that have been quiet for the debounce
// period.
func (w *Watcher) flush(now time.Time) {
	w.mu.Lock()
	var ready []Event
	for path, ev := range w.pending {
		if now.Sub(ev.Time) >= w.debounce {
			ready = append(ready, ev)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, ev := range ready {
		w.emit(ev)
	}
}

func (w *Watcher) emit(ev Event) {
	w.mu.Lock()
	handlers := append([]Handler(nil), w.handlers...)
	w.mu.Unlock()

	for _, h := range handlers {
		call(h, ev)
	}
}

func call(h Handler, ev Event) {
	defer func() { _ = recover() }()
	h(ev)
}
