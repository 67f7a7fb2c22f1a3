package charts

import (
	"math"

	"github.com/leapstack-labs/penguineda/internal/penguins"
)

// Bins is a set of equal-width bin edges shared by every series of a
// histogram.
type Bins struct {
	Edges []float64
}

// NewBins derives n equal-width bins covering values. A zero-width range is
// widened by 0.5 either side. It returns empty Bins when values is empty.
func NewBins(values []float64, n int) Bins {
	if len(values) == 0 || n < 1 {
		return Bins{}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	width := (hi - lo) / float64(n)
	edges := make([]float64, n+1)
	for i := range n {
		edges[i] = lo + float64(i)*width
	}
	edges[n] = hi
	return Bins{Edges: edges}
}

// Len returns the number of bins.
func (b Bins) Len() int {
	return max(len(b.Edges)-1, 0)
}

// Width returns the width of one bin.
func (b Bins) Width() float64 {
	if b.Len() == 0 {
		return 0
	}
	return (b.Edges[len(b.Edges)-1] - b.Edges[0]) / float64(b.Len())
}

// Centers returns the midpoint of each bin.
func (b Bins) Centers() []float64 {
	out := make([]float64, b.Len())
	for i := range out {
		out[i] = (b.Edges[i] + b.Edges[i+1]) / 2
	}
	return out
}

// Index returns the bin holding v. Bins are half-open except the last,
// which also holds the upper edge.
func (b Bins) Index(v float64) int {
	n := b.Len()
	if n == 0 {
		return -1
	}
	i := int((v - b.Edges[0]) / b.Width())
	return max(0, min(i, n-1))
}

// Counts tallies values into the bins.
func (b Bins) Counts(values []float64) []int {
	out := make([]int, b.Len())
	for _, v := range values {
		if i := b.Index(v); i >= 0 {
			out[i]++
		}
	}
	return out
}

// Group is the present values of one attribute for one species.
type Group struct {
	Species penguins.Species
	Values  []float64
}

// GroupBySpecies collects the present values of attr per species. Groups
// appear in the order their species first appears in rows; species with no
// present values are left out. The second result holds every present value.
func GroupBySpecies(rows []penguins.Record, attr penguins.Attribute) ([]Group, []float64) {
	var (
		groups []Group
		all    []float64
		index  = make(map[penguins.Species]int)
	)
	for _, r := range rows {
		v, ok := r.Value(attr)
		if !ok {
			continue
		}
		i, seen := index[r.Species]
		if !seen {
			i = len(groups)
			index[r.Species] = i
			groups = append(groups, Group{Species: r.Species})
		}
		groups[i].Values = append(groups[i].Values, v)
		all = append(all, v)
	}
	return groups, all
}

// Histogram is a per-species histogram over shared bins.
type Histogram struct {
	Attribute penguins.Attribute
	Bins      Bins
	Series    []HistogramSeries
}

// HistogramSeries is one species' bin counts. Density normalizes counts so
// the series' area is one.
type HistogramSeries struct {
	Species penguins.Species
	Counts  []int
	Density []float64
}

// NewHistogram bins attr for the filtered rows into n shared bins.
func NewHistogram(rows []penguins.Record, attr penguins.Attribute, n int) Histogram {
	groups, all := GroupBySpecies(rows, attr)
	bins := NewBins(all, n)

	h := Histogram{Attribute: attr, Bins: bins, Series: make([]HistogramSeries, 0, len(groups))}
	width := bins.Width()
	for _, g := range groups {
		counts := bins.Counts(g.Values)
		density := make([]float64, len(counts))
		for i, c := range counts {
			density[i] = float64(c) / (float64(len(g.Values)) * width)
		}
		h.Series = append(h.Series, HistogramSeries{Species: g.Species, Counts: counts, Density: density})
	}
	return h
}
