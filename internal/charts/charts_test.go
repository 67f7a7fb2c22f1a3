package charts

import (
	"bytes"
	"database/sql"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/penguineda/internal/penguins"
)

func rec(s penguins.Species, billLength, bodyMass float64) penguins.Record {
	return penguins.Record{
		Species:    s,
		Island:     penguins.Biscoe,
		BillLength: sql.NullFloat64{Float64: billLength, Valid: true},
		BodyMass:   sql.NullFloat64{Float64: bodyMass, Valid: bodyMass > 0},
		Year:       2008,
	}
}

func embedded(t *testing.T) []penguins.Record {
	t.Helper()
	records, err := penguins.LoadEmbedded()
	require.NoError(t, err)
	return records
}

func TestNewBins(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		n      int
		edges  []float64
	}{
		{name: "empty", values: nil, n: 5, edges: nil},
		{name: "two bins", values: []float64{3, 1, 2}, n: 2, edges: []float64{1, 2, 3}},
		{name: "zero width is widened", values: []float64{5, 5}, n: 4, edges: []float64{4.5, 4.75, 5, 5.25, 5.5}},
		{name: "single bin", values: []float64{10, 20}, n: 1, edges: []float64{10, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBins(tt.values, tt.n)
			assert.InDeltaSlice(t, tt.edges, b.Edges, 1e-9)
			if len(tt.edges) > 0 {
				assert.Equal(t, tt.n, b.Len())
			}
		})
	}
}

func TestBins_Index(t *testing.T) {
	b := NewBins([]float64{0, 10}, 5)

	assert.Equal(t, 0, b.Index(0))
	assert.Equal(t, 0, b.Index(1.9))
	assert.Equal(t, 1, b.Index(2))
	assert.Equal(t, 4, b.Index(10), "upper edge falls in the last bin")
	assert.Equal(t, []int{1, 0, 1, 0, 2}, b.Counts([]float64{0, 5, 9, 10}))
	assert.InDeltaSlice(t, []float64{1, 3, 5, 7, 9}, b.Centers(), 1e-9)
}

func TestNewHistogram_SeriesPerSpecies(t *testing.T) {
	rows := []penguins.Record{
		rec(penguins.Gentoo, 46.1, 0),
		rec(penguins.Adelie, 39.1, 0),
	}

	for _, bins := range []int{10, 20} {
		t.Run(fmt.Sprintf("%d bins", bins), func(t *testing.T) {
			h := NewHistogram(rows, penguins.BillLength, bins)
			require.Len(t, h.Series, 2)
			assert.InDelta(t, 39.1, h.Bins.Edges[0], 1e-9)
			assert.InDelta(t, 46.1, h.Bins.Edges[bins], 1e-9)
			assert.InDelta(t, 7.0/float64(bins), h.Bins.Width(), 1e-9)

			// First-appearance order, each built only from its own records.
			assert.Equal(t, penguins.Gentoo, h.Series[0].Species)
			assert.Equal(t, penguins.Adelie, h.Series[1].Species)
			assert.Equal(t, 1, h.Series[0].Counts[bins-1], "max value lands in the last bin")
			assert.Equal(t, 1, h.Series[1].Counts[0])
			for _, s := range h.Series {
				require.Len(t, s.Counts, bins)
				total := 0
				for _, c := range s.Counts {
					total += c
				}
				assert.Equal(t, 1, total)
			}

			// One value per species: density is 1/width in its own bin.
			assert.InDelta(t, 1/h.Bins.Width(), h.Series[0].Density[bins-1], 1e-9)
			assert.InDelta(t, 0.0, h.Series[0].Density[0], 1e-9)
		})
	}
}

func TestNewHistogram_DensityIntegratesToOne(t *testing.T) {
	h := NewHistogram(embedded(t), penguins.FlipperLength, 17)
	require.Len(t, h.Series, 3)

	for _, s := range h.Series {
		area := 0.0
		for _, d := range s.Density {
			area += d * h.Bins.Width()
		}
		assert.InDelta(t, 1.0, area, 1e-9, string(s.Species))
	}
}

func TestNewHistogram_SkipsMissingValues(t *testing.T) {
	rows := []penguins.Record{
		rec(penguins.Adelie, 39.1, 3750),
		rec(penguins.Adelie, 40.3, 0),
		rec(penguins.Chinstrap, 46.5, 0),
	}

	h := NewHistogram(rows, penguins.BodyMass, 5)
	require.Len(t, h.Series, 1, "species without any value get no series")
	assert.Equal(t, penguins.Adelie, h.Series[0].Species)

	// The same rows still count for an attribute they do have.
	h = NewHistogram(rows, penguins.BillLength, 5)
	assert.Len(t, h.Series, 2)
}

func TestPlotlyHistogram(t *testing.T) {
	rows := []penguins.Record{
		rec(penguins.Adelie, 39.1, 0),
		rec(penguins.Gentoo, 46.1, 0),
	}

	fig := PlotlyHistogram(rows, penguins.BillLength, 20)
	assert.Equal(t, "Histogram of bill_length_mm by Species", fig.Layout.Title.Text)
	assert.Equal(t, "Bill Length Mm", fig.Layout.XAxis.Title.Text)
	assert.Equal(t, "count", fig.Layout.YAxis.Title.Text)
	assert.Equal(t, "relative", fig.Layout.BarMode)
	require.Len(t, fig.Data, 2)
	assert.Equal(t, "Adelie", fig.Data[0].Name)
	assert.Equal(t, "Gentoo", fig.Data[1].Name)
	assert.Len(t, fig.Data[0].X, 20)
	assert.NotEqual(t, fig.Data[0].Marker.Color, fig.Data[1].Marker.Color)

	b, err := fig.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"barmode":"relative"`)
}

func TestScatter(t *testing.T) {
	source := embedded(t)
	fig := Scatter(source, penguins.BodyMass)
	assert.Equal(t, "Scatterplot of Bill Length vs Body Mass G", fig.Layout.Title.Text)
	assert.Equal(t, "Bill Length (mm)", fig.Layout.XAxis.Title.Text)
	assert.Equal(t, "Body Mass G", fig.Layout.YAxis.Title.Text)
	require.Len(t, fig.Data, 3)

	points := map[string]int{}
	for _, tr := range fig.Data {
		assert.Equal(t, "markers", tr.Mode)
		require.Len(t, tr.Y, len(tr.X))
		points[tr.Name] = len(tr.X)
	}

	want := map[string]int{}
	for _, r := range source {
		_, okX := r.Value(penguins.BillLength)
		_, okY := r.Value(penguins.BodyMass)
		if okX && okY {
			want[string(r.Species)]++
		}
	}
	assert.Equal(t, want, points)
	total := 0
	for _, n := range points {
		total += n
	}
	assert.Less(t, total, len(source), "rows missing a coordinate are skipped")
}

func TestScatter_SkipsNaN(t *testing.T) {
	nan := rec(penguins.Chinstrap, math.NaN(), 3700)
	rows := []penguins.Record{
		rec(penguins.Adelie, 39.1, 3750),
		nan,
		rec(penguins.Gentoo, 46.1, math.NaN()),
	}

	fig := Scatter(rows, penguins.BodyMass)
	require.Len(t, fig.Data, 1)
	assert.Equal(t, "Adelie", fig.Data[0].Name)
	assert.Equal(t, []float64{39.1}, fig.Data[0].X)

	b, err := fig.JSON()
	require.NoError(t, err)
	assert.NotContains(t, string(b), "NaN")

	hist, err := PlotlyHistogram(rows, penguins.BillLength, 20).JSON()
	require.NoError(t, err)
	assert.NotContains(t, string(hist), "NaN")
}

func TestEmptyDataset(t *testing.T) {
	var rows []penguins.Record

	hist := PlotlyHistogram(rows, penguins.BillDepth, 20)
	assert.Empty(t, hist.Data)
	b, err := hist.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"data":[]`)

	scatter := Scatter(rows, penguins.BillDepth)
	assert.Empty(t, scatter.Data)

	var buf bytes.Buffer
	require.NoError(t, DensityHistogram(rows, penguins.BillDepth, 20).RenderSVG(&buf))
	assert.Contains(t, buf.String(), "<svg")

	assert.Equal(t, 0, DataTable(rows).Len())
	assert.Equal(t, 0, DataGrid(rows, nil).Len())
}

func TestDensityHistogram_RenderSVG(t *testing.T) {
	d := DensityHistogram(embedded(t), penguins.BillLength, 20)
	assert.Equal(t, "Seaborn Histogram of Bill Length Mm by Species", d.Title)
	assert.Equal(t, "Bill Length Mm", d.chart().XAxis.Name)
	require.Len(t, d.Histogram.Series, 3)

	var buf bytes.Buffer
	require.NoError(t, d.RenderSVG(&buf))
	assert.Contains(t, buf.String(), "<svg")
	assert.Contains(t, buf.String(), "Density")
}

func TestStepSeries(t *testing.T) {
	xs, ys := stepSeries([]float64{0, 1, 2}, []float64{0.25, 0.75})
	assert.Equal(t, []float64{0, 0, 1, 1, 2, 2}, xs)
	assert.Equal(t, []float64{0, 0.25, 0.25, 0.75, 0.75, 0}, ys)
}

func TestDataTable(t *testing.T) {
	rows := embedded(t)[:4]
	table := DataTable(rows)

	require.Len(t, table.Columns, len(penguins.Columns))
	assert.Equal(t, "species", table.Columns[0].Key)
	require.Equal(t, 4, table.Len())
	assert.Equal(t, []string{"Adelie", "Torgersen", "NA", "NA", "NA", "NA", "NA", "2007"}, table.Rows[3])
}

func TestDataGrid(t *testing.T) {
	source := embedded(t)
	rows := []penguins.Record{source[3], source[7]}

	grid := DataGrid(rows, []int{3, 7})
	require.Len(t, grid.Columns, len(penguins.Columns)+1)
	assert.Equal(t, RowNumberColumn, grid.Columns[0].Key)
	assert.Equal(t, "left", grid.Columns[1].Align)
	assert.Equal(t, "right", grid.Columns[3].Align)
	assert.Equal(t, "right", grid.Columns[8].Align)
	assert.Equal(t, "4", grid.Rows[0][0])
	assert.Equal(t, "8", grid.Rows[1][0])

	assert.Equal(t, "1", DataGrid(rows, nil).Rows[0][0])
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Bill Length Mm", Title("bill_length_mm"))
	assert.Equal(t, "Body Mass G", AttributeTitle(penguins.BodyMass))
}

func TestColor(t *testing.T) {
	assert.Equal(t, "#636efa", Color(penguins.Adelie))
	assert.Equal(t, Color("Emperor"), Color("Emperor"))
	assert.NotEmpty(t, Color("Emperor"))
}
