package layer

import (
	"slices"
	"sync"
)

// Manager holds the layers and serves their merged view.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer // ascending priority
	merged map[string]any
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Put adds l, replacing any layer with the same name.
func (m *Manager) Put(l *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.layers = slices.DeleteFunc(m.layers, func(x *Layer) bool { return x.Name == l.Name })
	m.layers = append(m.layers, l)
	slices.SortStableFunc(m.layers, func(a, b *Layer) int { return a.Priority - b.Priority })
	m.merged = nil
}

// Remove drops the named layer. It returns true if it existed.
func (m *Manager) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.layers)
	m.layers = slices.DeleteFunc(m.layers, func(x *Layer) bool { return x.Name == name })
	if len(m.layers) == n {
		return false
	}
	m.merged = nil
	return true
}

// Layer returns the named layer or nil.
func (m *Manager) Layer(name string) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.find(name)
}

// Layers returns the layers in ascending priority.
func (m *Manager) Layers() []*Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.layers)
}

// Merge returns a copy of all layers merged in priority order.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneMap(m.mergedLocked())
}

func (m *Manager) mergedLocked() map[string]any {
	if m.merged == nil {
		result := make(map[string]any)
		for _, l := range m.layers {
			result = DeepMerge(result, l.Data)
		}
		m.merged = result
	}
	return m.merged
}

// Get returns the effective value at path and the layer providing it.
func (m *Manager) Get(path string) (any, *Layer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.layers) - 1; i >= 0; i-- {
		if val, ok := GetByPath(m.layers[i].Data, path); ok {
			return val, m.layers[i], true
		}
	}
	return nil, nil, false
}

// SetInSession stores value in the session layer, creating it on first
// use.
func (m *Manager) SetInSession(path string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := m.find(SourceSession.String())
	if session == nil {
		session = New(SourceSession.String(), SourceSession, nil)
		m.layers = append(m.layers, session)
		slices.SortStableFunc(m.layers, func(a, b *Layer) int { return a.Priority - b.Priority })
	}
	SetByPath(session.Data, path, value)
	m.merged = nil
}

func (m *Manager) find(name string) *Layer {
	for _, l := range m.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}
