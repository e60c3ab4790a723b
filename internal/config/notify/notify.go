// Package notify delivers configuration change notifications to
// subscribers.
package notify

import (
	"strings"
	"sync"
)

// ChangeType is the kind of configuration change.
type ChangeType int

const (
	// ChangeSet means a value was set at runtime.
	ChangeSet ChangeType = iota
	// ChangeReload means a source was re-read.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change describes one configuration update.
type Change struct {
	Type ChangeType
	// Paths lists the settings whose effective value changed.
	Paths []string
	// Source names the layer the change came from.
	Source string
}

// Affects returns true if the change touches path or anything below it.
// "editor" matches "editor.tabWidth".
func (c Change) Affects(path string) bool {
	for _, p := range c.Paths {
		if p == path || strings.HasPrefix(p, path+".") {
			return true
		}
	}
	return false
}

// Observer receives changes.
type Observer func(change Change)

// Subscription is an active observer registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe stops deliveries to the observer.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type entry struct {
	prefix   string
	observer Observer
}

// Notifier fans changes out to observers. Observers run synchronously on
// the goroutine calling Notify.
type Notifier struct {
	mu      sync.RWMutex
	entries map[uint64]entry
	nextID  uint64
}

// New creates a notifier.
func New() *Notifier {
	return &Notifier{entries: make(map[uint64]entry)}
}

// Subscribe registers an observer for every change.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribePath("", observer)
}

// SubscribePath registers an observer for changes affecting path.
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.entries[n.nextID] = entry{prefix: path, observer: observer}
	return &Subscription{id: n.nextID, notifier: n}
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	delete(n.entries, id)
	n.mu.Unlock()
}

// Count returns the number of subscriptions.
func (n *Notifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.entries)
}

// Notify delivers change to the matching observers. A change with no
// paths is dropped. A panicking observer does not stop the others.
func (n *Notifier) Notify(change Change) {
	if len(change.Paths) == 0 {
		return
	}

	n.mu.RLock()
	var targets []Observer
	for _, e := range n.entries {
		if e.prefix == "" || change.Affects(e.prefix) {
			targets = append(targets, e.observer)
		}
	}
	n.mu.RUnlock()

	for _, obs := range targets {
		deliver(obs, change)
	}
}

func deliver(obs Observer, change Change) {
	defer func() { _ = recover() }()
	obs(change)
}
