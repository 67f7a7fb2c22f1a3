package engine

import (
	"slices"
	"strconv"
	"strings"

	"github.com/leapstack-labs/penguineda/internal/penguins"
)

// Selection is the user's current species and island choices.
type Selection struct {
	Species []penguins.Species
	Islands []penguins.Island
}

// DefaultSelection selects every species and every island.
func DefaultSelection() Selection {
	return Selection{
		Species: penguins.AllSpecies(),
		Islands: penguins.AllIslands(),
	}
}

// SpeciesSet returns the selected species as a set.
func (s Selection) SpeciesSet() SpeciesSet {
	return NewSpeciesSet(s.Species...)
}

// IslandSet returns the selected islands as a set.
func (s Selection) IslandSet() IslandSet {
	return NewIslandSet(s.Islands...)
}

// Key is a canonical form of the selection: order and duplicates do not
// matter, so equal sets give equal keys.
func (s Selection) Key() string {
	sp := make([]string, 0, len(s.Species))
	for _, v := range s.Species {
		sp = append(sp, strconv.Quote(string(v)))
	}
	is := make([]string, 0, len(s.Islands))
	for _, v := range s.Islands {
		is = append(is, strconv.Quote(string(v)))
	}
	slices.Sort(sp)
	slices.Sort(is)
	sp = slices.Compact(sp)
	is = slices.Compact(is)
	return strings.Join(sp, ",") + "|" + strings.Join(is, ",")
}

// Equal reports whether both selections choose the same sets.
func (s Selection) Equal(other Selection) bool {
	return s.Key() == other.Key()
}

// Clone returns a copy that shares no slices with s.
func (s Selection) Clone() Selection {
	return Selection{
		Species: slices.Clone(s.Species),
		Islands: slices.Clone(s.Islands),
	}
}
