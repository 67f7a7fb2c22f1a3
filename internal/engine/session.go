package engine

import (
	"sync"

	"github.com/leapstack-labs/penguineda/internal/penguins"
)

// Bin count limits for the two histograms.
const (
	DefaultPlotlyBins  = 20
	MinPlotlyBins      = 1
	MaxPlotlyBins      = 500
	DefaultSeabornBins = 20
	MinSeabornBins     = 5
	MaxSeabornBins     = 100
)

// Params are the display-only inputs. They never affect filtering.
type Params struct {
	Attribute   penguins.Attribute
	PlotlyBins  int
	SeabornBins int
}

// DefaultParams returns the initial control values.
func DefaultParams() Params {
	return Params{
		Attribute:   penguins.DefaultAttribute,
		PlotlyBins:  DefaultPlotlyBins,
		SeabornBins: DefaultSeabornBins,
	}
}

// Normalize falls back to the default attribute when it is unknown and
// clamps both bin counts into range.
func (p Params) Normalize() Params {
	if _, err := penguins.ParseAttribute(string(p.Attribute)); err != nil {
		p.Attribute = penguins.DefaultAttribute
	}
	p.PlotlyBins = clamp(p.PlotlyBins, MinPlotlyBins, MaxPlotlyBins)
	p.SeabornBins = clamp(p.SeabornBins, MinSeabornBins, MaxSeabornBins)
	return p
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Session is one user's dashboard state: the memoized view plus the display
// parameters. Each handler works on its own session, never on shared state.
type Session struct {
	ID string

	view   *View
	mu     sync.Mutex
	params Params
}

// NewSession creates a session with the default selection and parameters.
func NewSession(id string, source []penguins.Record) *Session {
	return &Session{
		ID:     id,
		view:   NewView(source, DefaultSelection()),
		params: DefaultParams(),
	}
}

// Apply records one input event: the selection and the display parameters.
// Both change together, so no Snapshot sees one without the other. It
// reports whether the filtered dataset went stale.
func (s *Session) Apply(sel Selection, p Params) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = p.Normalize()
	return s.view.Select(sel)
}

// Params returns the current display parameters.
func (s *Session) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// View exposes the session's memoized filtered dataset.
func (s *Session) View() *View {
	return s.view
}

// Snapshot is a consistent read of a session for one render pass.
type Snapshot struct {
	Selection Selection
	Params    Params
	Rows      []penguins.Record
	Indices   []int
}

// Snapshot reads selection, parameters and filtered rows together. Every
// display in a render pass should use the same snapshot.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.mu.Lock()
	defer s.view.mu.Unlock()
	s.view.refreshLocked()

	return Snapshot{
		Selection: s.view.sel.Clone(),
		Params:    s.params,
		Rows:      s.view.rows,
		Indices:   s.view.indices,
	}
}
