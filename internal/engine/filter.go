package engine

import (
	"github.com/leapstack-labs/penguineda/internal/penguins"
)

// SpeciesSet is a set of selected species.
type SpeciesSet map[penguins.Species]struct{}

// NewSpeciesSet builds a set from the given values.
func NewSpeciesSet(values ...penguins.Species) SpeciesSet {
	set := make(SpeciesSet, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Has reports whether s is in the set.
func (set SpeciesSet) Has(s penguins.Species) bool {
	_, ok := set[s]
	return ok
}

// IslandSet is a set of selected islands.
type IslandSet map[penguins.Island]struct{}

// NewIslandSet builds a set from the given values.
func NewIslandSet(values ...penguins.Island) IslandSet {
	set := make(IslandSet, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Has reports whether i is in the set.
func (set IslandSet) Has(i penguins.Island) bool {
	_, ok := set[i]
	return ok
}

// Filter returns the records of source whose species is in species and
// whose island is in islands, in source order. Membership is ORed within a
// set and ANDed across the two sets, so an empty set matches nothing.
// Values that are not known species or islands simply never match.
//
// The result never aliases source's backing array.
func Filter(source []penguins.Record, species SpeciesSet, islands IslandSet) []penguins.Record {
	return pick(source, FilterIndices(source, species, islands))
}

// FilterIndices is Filter returning positions into source instead of copies.
// The data grid uses them as row numbers.
func FilterIndices(source []penguins.Record, species SpeciesSet, islands IslandSet) []int {
	out := make([]int, 0, len(source))
	if len(species) == 0 || len(islands) == 0 {
		return out
	}
	for i, rec := range source {
		if species.Has(rec.Species) && islands.Has(rec.Island) {
			out = append(out, i)
		}
	}
	return out
}

// FilterSelection applies sel to source and returns the matching records
// together with their positions in source.
func FilterSelection(source []penguins.Record, sel Selection) ([]penguins.Record, []int) {
	indices := FilterIndices(source, sel.SpeciesSet(), sel.IslandSet())
	return pick(source, indices), indices
}

func pick(source []penguins.Record, indices []int) []penguins.Record {
	out := make([]penguins.Record, len(indices))
	for i, idx := range indices {
		out[i] = source[idx]
	}
	return out
}
