package engine

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/penguineda/internal/penguins"
	"github.com/leapstack-labs/penguineda/internal/testutil"
)

func TestParams_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{
			name: "defaults unchanged",
			in:   DefaultParams(),
			want: DefaultParams(),
		},
		{
			name: "unknown attribute falls back",
			in:   Params{Attribute: "year", PlotlyBins: 10, SeabornBins: 10},
			want: Params{Attribute: penguins.BillLength, PlotlyBins: 10, SeabornBins: 10},
		},
		{
			name: "bins clamped low",
			in:   Params{Attribute: penguins.BodyMass, PlotlyBins: 0, SeabornBins: 1},
			want: Params{Attribute: penguins.BodyMass, PlotlyBins: MinPlotlyBins, SeabornBins: MinSeabornBins},
		},
		{
			name: "bins clamped high",
			in:   Params{Attribute: penguins.BillDepth, PlotlyBins: 10000, SeabornBins: 101},
			want: Params{Attribute: penguins.BillDepth, PlotlyBins: MaxPlotlyBins, SeabornBins: MaxSeabornBins},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestSession_ApplyAndSnapshot(t *testing.T) {
	s := NewSession("s1", scenarioSource())

	snap := s.Snapshot()
	assert.Len(t, snap.Rows, 3)
	assert.Equal(t, DefaultParams(), snap.Params)

	// Display parameters alone do not invalidate the filtered rows.
	stale := s.Apply(DefaultSelection(), Params{Attribute: penguins.FlipperLength, PlotlyBins: 5, SeabornBins: 50})
	assert.False(t, stale)
	assert.True(t, s.View().Fresh())
	assert.Equal(t, penguins.FlipperLength, s.Params().Attribute)

	stale = s.Apply(Selection{
		Species: []penguins.Species{penguins.Adelie, penguins.Gentoo},
		Islands: []penguins.Island{penguins.Torgersen, penguins.Biscoe},
	}, s.Params())
	assert.True(t, stale)

	snap = s.Snapshot()
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, []int{0, 1}, snap.Indices)
	assert.Equal(t, 50, snap.Params.SeabornBins)
}

func TestRegistry_GetCreatesAndReuses(t *testing.T) {
	reg, err := NewRegistry(scenarioSource(), 4)
	require.NoError(t, err)

	s, created := reg.Get("")
	require.True(t, created)
	_, err = uuid.Parse(s.ID)
	assert.NoError(t, err, "new sessions get a uuid")

	again, created := reg.Get(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	// Non-uuid IDs from clients are replaced.
	other, created := reg.Get("not-a-uuid")
	assert.True(t, created)
	assert.NotEqual(t, "not-a-uuid", other.ID)
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_EvictsLeastRecentlyUsed(t *testing.T) {
	reg, err := NewRegistry(scenarioSource(), 2)
	require.NoError(t, err)
	evicted := promtest.ToFloat64(evictedSessions)

	a, _ := reg.Get("")
	b, _ := reg.Get("")
	_, _ = reg.Get(a.ID) // a is now most recent
	_, _ = reg.Get("")   // evicts b

	assert.False(t, reg.sessions.Contains(b.ID))
	assert.True(t, reg.sessions.Contains(a.ID))
	assert.Equal(t, 2, reg.Len())
	assert.InDelta(t, evicted+1, promtest.ToFloat64(evictedSessions), 0)
}

func TestNewRegistry_InvalidSize(t *testing.T) {
	_, err := NewRegistry(nil, -1)
	assert.Error(t, err)
}

func TestEngine(t *testing.T) {
	source := embedded(t)
	eng, err := New(Config{Source: source, MaxSessions: 8, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)

	assert.Len(t, eng.Source(), len(source))

	s, created := eng.Session("")
	assert.True(t, created)
	same, created := eng.Session(s.ID)
	assert.False(t, created)
	assert.Same(t, s, same)

	gentoo := Selection{Species: []penguins.Species{penguins.Gentoo}, Islands: penguins.AllIslands()}
	require.True(t, s.Apply(gentoo, s.Params()))
	for _, r := range s.Snapshot().Rows {
		assert.Equal(t, penguins.Gentoo, r.Species)
	}
	assert.NotEmpty(t, s.Snapshot().Rows)
	assert.Equal(t, 1, eng.Sessions().Len())
}

func TestSession_ApplyIsAtomic(t *testing.T) {
	s := NewSession("s1", scenarioSource())

	// Each writer pairs one selection with one attribute. A snapshot must
	// never see one writer's selection with the other's parameters.
	adelie := Selection{Species: []penguins.Species{penguins.Adelie}, Islands: penguins.AllIslands()}
	gentoo := Selection{Species: []penguins.Species{penguins.Gentoo}, Islands: penguins.AllIslands()}
	pairs := map[penguins.Attribute]penguins.Species{
		penguins.BillDepth: penguins.Adelie,
		penguins.BodyMass:  penguins.Gentoo,
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for _, w := range []struct {
		sel  Selection
		attr penguins.Attribute
	}{{adelie, penguins.BillDepth}, {gentoo, penguins.BodyMass}} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					s.Apply(w.sel, Params{Attribute: w.attr, PlotlyBins: 20, SeabornBins: 20})
				}
			}
		}()
	}

	for i := 0; i < 500; i++ {
		snap := s.Snapshot()
		want, ok := pairs[snap.Params.Attribute]
		if !ok {
			continue // initial state
		}
		require.Len(t, snap.Selection.Species, 1)
		require.Equal(t, want, snap.Selection.Species[0])
		require.Len(t, snap.Rows, 1)
		require.Equal(t, want, snap.Rows[0].Species)
	}
	close(stop)
	wg.Wait()
}
