package dirty

import (
	"slices"
	"sync"
)

// DefaultMaxRegions is the region count past which a tracker gives up on
// line tracking and asks for a full repaint.
const DefaultMaxRegions = 32

// Tracker collects dirty regions between paints, merging overlapping and
// adjacent ones.
type Tracker struct {
	mu sync.Mutex

	regions    []Region
	full       bool
	maxRegions int
}

// NewTracker creates a tracker that starts out needing a full repaint.
func NewTracker() *Tracker {
	return &Tracker{
		regions:    make([]Region, 0, 8),
		full:       true,
		maxRegions: DefaultMaxRegions,
	}
}

// SetMaxRegions changes the region limit. Values below 1 are ignored.
func (t *Tracker) SetMaxRegions(n int) {
	if n < 1 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.maxRegions = n
}

// MarkAll asks for a full repaint.
func (t *Tracker) MarkAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.full = true
	t.regions = t.regions[:0]
}

// MarkLine marks one line dirty.
func (t *Tracker) MarkLine(line uint32) {
	t.Mark(NewSingleLine(line))
}

// Mark adds a region. It satisfies the redraw half of the controller's
// renderer collaborator.
func (t *Tracker) Mark(r Region) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.full || r.StartLine > r.EndLine {
		return
	}
	t.regions = append(t.regions, r)
	t.coalesce()

	if len(t.regions) > t.maxRegions {
		t.full = true
		t.regions = t.regions[:0]
	}
}

// coalesce sorts the regions and merges neighbours.
func (t *Tracker) coalesce() {
	if len(t.regions) < 2 {
		return
	}
	slices.SortFunc(t.regions, func(a, b Region) int {
		switch {
		case a.StartLine < b.StartLine:
			return -1
		case a.StartLine > b.StartLine:
			return 1
		}
		return 0
	})

	out := t.regions[:1]
	for _, r := range t.regions[1:] {
		last := &out[len(out)-1]
		if merged, ok := last.Merge(r); ok {
			*last = merged
			continue
		}
		out = append(out, r)
	}
	t.regions = out
}

// IsDirty returns true if anything needs repainting.
func (t *Tracker) IsDirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.full || len(t.regions) > 0
}

// NeedsFullRedraw returns true if everything needs repainting.
func (t *Tracker) NeedsFullRedraw() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.full
}

// IsLineDirty returns true if line needs repainting.
func (t *Tracker) IsLineDirty(line uint32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.full {
		return true
	}
	for _, r := range t.regions {
		if r.ContainsLine(line) {
			return true
		}
	}
	return false
}

// Regions returns a copy of the pending regions, sorted and merged.
func (t *Tracker) Regions() []Region {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.regions)
}

// Take returns the pending state and resets the tracker.
func (t *Tracker) Take() (regions []Region, full bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	regions, full = slices.Clone(t.regions), t.full
	t.regions = t.regions[:0]
	t.full = false
	return regions, full
}

// Clear drops all pending regions.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.regions = t.regions[:0]
	t.full = false
}
