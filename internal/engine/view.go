package engine

import (
	"sync"
	"time"

	"github.com/leapstack-labs/penguineda/internal/penguins"
)

// View is the memoized filtered dataset for one selection state.
//
// A View is either stale or fresh. Changing the selection to a different
// set of values makes it stale at once; the next read recomputes and makes
// it fresh again. Re-applying an equal selection keeps the cached rows.
type View struct {
	mu     sync.Mutex
	source []penguins.Record
	sel    Selection
	key    string
	fresh  bool

	rows    []penguins.Record
	indices []int
}

// NewView returns a stale view over source for sel.
func NewView(source []penguins.Record, sel Selection) *View {
	sel = sel.Clone()
	return &View{source: source, sel: sel, key: sel.Key()}
}

// Select replaces the selection. It reports whether the view went stale.
func (v *View) Select(sel Selection) bool {
	key := sel.Key()

	v.mu.Lock()
	defer v.mu.Unlock()
	if key == v.key {
		return false
	}
	v.sel = sel.Clone()
	v.key = key
	v.fresh = false
	return true
}

// Selection returns a copy of the current selection.
func (v *View) Selection() Selection {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sel.Clone()
}

// Fresh reports whether the cached rows reflect the current selection.
func (v *View) Fresh() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fresh
}

// Rows returns the filtered records, recomputing if the view is stale.
// The slice is shared between readers and must not be modified.
func (v *View) Rows() []penguins.Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refreshLocked()
	return v.rows
}

// Indices returns the positions of the filtered records in the source.
func (v *View) Indices() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refreshLocked()
	return v.indices
}

func (v *View) refreshLocked() {
	if v.fresh {
		filterCacheHits.Inc()
		return
	}

	start := time.Now()
	rows, indices := FilterSelection(v.source, v.sel)
	v.indices = indices
	v.rows = rows
	v.fresh = true
	filterRecomputes.Inc()
	filterDuration.Observe(time.Since(start).Seconds())
}
