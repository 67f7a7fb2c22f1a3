package engine

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/penguineda/internal/penguins"
)

func rec(s penguins.Species, i penguins.Island, billLength float64) penguins.Record {
	return penguins.Record{
		Species:    s,
		Island:     i,
		BillLength: sql.NullFloat64{Float64: billLength, Valid: true},
		Year:       2007,
	}
}

// scenarioSource is the three-record dataset used by the filter scenarios.
func scenarioSource() []penguins.Record {
	return []penguins.Record{
		rec(penguins.Adelie, penguins.Torgersen, 39.1),
		rec(penguins.Gentoo, penguins.Biscoe, 46.1),
		rec(penguins.Chinstrap, penguins.Dream, 46.5),
	}
}

func embedded(t *testing.T) []penguins.Record {
	t.Helper()
	records, err := penguins.LoadEmbedded()
	require.NoError(t, err)
	return records
}

// subsets returns every subset of values, including the empty one.
func subsets[T any](values []T) [][]T {
	out := make([][]T, 0, 1<<len(values))
	for mask := 0; mask < 1<<len(values); mask++ {
		var sub []T
		for i, v := range values {
			if mask&(1<<i) != 0 {
				sub = append(sub, v)
			}
		}
		out = append(out, sub)
	}
	return out
}

func TestFilter_Scenarios(t *testing.T) {
	source := scenarioSource()

	tests := []struct {
		name    string
		species []penguins.Species
		islands []penguins.Island
		want    []penguins.Record
	}{
		{
			name:    "two species on two islands",
			species: []penguins.Species{penguins.Adelie, penguins.Gentoo},
			islands: []penguins.Island{penguins.Torgersen, penguins.Biscoe},
			want:    source[:2],
		},
		{
			name:    "island mismatch excludes the only chinstrap",
			species: []penguins.Species{penguins.Chinstrap},
			islands: []penguins.Island{penguins.Torgersen, penguins.Biscoe},
			want:    []penguins.Record{},
		},
		{
			name:    "empty species",
			species: nil,
			islands: penguins.AllIslands(),
			want:    []penguins.Record{},
		},
		{
			name:    "empty islands",
			species: penguins.AllSpecies(),
			islands: []penguins.Island{},
			want:    []penguins.Record{},
		},
		{
			name:    "unknown values never match",
			species: []penguins.Species{"Emperor"},
			islands: []penguins.Island{"Ross"},
			want:    []penguins.Record{},
		},
		{
			name:    "unknown values mixed with known",
			species: []penguins.Species{"Emperor", penguins.Gentoo},
			islands: []penguins.Island{"Ross", penguins.Biscoe},
			want:    source[1:2],
		},
		{
			name:    "full selection is identity",
			species: penguins.AllSpecies(),
			islands: penguins.AllIslands(),
			want:    source,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(source, NewSpeciesSet(tt.species...), NewIslandSet(tt.islands...))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_EmptySource(t *testing.T) {
	got := Filter(nil, NewSpeciesSet(penguins.AllSpecies()...), NewIslandSet(penguins.AllIslands()...))
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFilter_OrderedSubsequence(t *testing.T) {
	source := embedded(t)

	for _, species := range subsets(penguins.AllSpecies()) {
		for _, islands := range subsets(penguins.AllIslands()) {
			sp, is := NewSpeciesSet(species...), NewIslandSet(islands...)
			indices := FilterIndices(source, sp, is)
			rows := Filter(source, sp, is)
			require.Len(t, rows, len(indices))

			for i, idx := range indices {
				if i > 0 {
					require.Greater(t, idx, indices[i-1], "indices must be increasing")
				}
				require.Equal(t, source[idx], rows[i])
				require.True(t, sp.Has(rows[i].Species))
				require.True(t, is.Has(rows[i].Island))
			}

			// Every excluded record fails at least one predicate.
			kept := make(map[int]bool, len(indices))
			for _, idx := range indices {
				kept[idx] = true
			}
			for idx, r := range source {
				if !kept[idx] {
					require.False(t, sp.Has(r.Species) && is.Has(r.Island))
				}
			}
		}
	}
}

func TestFilter_Idempotent(t *testing.T) {
	source := embedded(t)
	sp := NewSpeciesSet(penguins.Adelie, penguins.Chinstrap)
	is := NewIslandSet(penguins.Dream)

	first := Filter(source, sp, is)
	second := Filter(source, sp, is)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, Filter(first, sp, is), "filtering a filtered set changes nothing")
}

func TestFilter_IdentityOnFullSelection(t *testing.T) {
	source := embedded(t)
	got := Filter(source, DefaultSelection().SpeciesSet(), DefaultSelection().IslandSet())
	assert.Equal(t, source, got)
}

func TestFilterSelection(t *testing.T) {
	source := scenarioSource()
	sel := Selection{
		Species: []penguins.Species{penguins.Gentoo, penguins.Chinstrap},
		Islands: penguins.AllIslands(),
	}

	rows, indices := FilterSelection(source, sel)
	assert.Equal(t, []int{1, 2}, indices)
	assert.Equal(t, source[1:], rows)
	assert.Equal(t, Filter(source, sel.SpeciesSet(), sel.IslandSet()), rows)

	rows, indices = FilterSelection(source, Selection{})
	assert.Empty(t, rows)
	assert.Empty(t, indices)
}

func TestFilter_DoesNotAliasSource(t *testing.T) {
	source := scenarioSource()
	got := Filter(source, DefaultSelection().SpeciesSet(), DefaultSelection().IslandSet())
	got[0].Species = "Changed"
	assert.Equal(t, penguins.Adelie, source[0].Species)
}

func TestSelectionKey(t *testing.T) {
	a := Selection{
		Species: []penguins.Species{penguins.Gentoo, penguins.Adelie, penguins.Gentoo},
		Islands: []penguins.Island{penguins.Dream},
	}
	b := Selection{
		Species: []penguins.Species{penguins.Adelie, penguins.Gentoo},
		Islands: []penguins.Island{penguins.Dream},
	}
	assert.True(t, a.Equal(b))

	empty := Selection{}
	blank := Selection{Species: []penguins.Species{""}}
	assert.False(t, empty.Equal(blank), "empty set differs from a set holding an empty value")

	// Species and islands are separate dimensions.
	x := Selection{Species: []penguins.Species{"Dream"}}
	y := Selection{Islands: []penguins.Island{"Dream"}}
	assert.False(t, x.Equal(y))
}
