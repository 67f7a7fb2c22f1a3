package charts

import (
	"bytes"
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/leapstack-labs/penguineda/internal/penguins"
)

// Default density chart size in pixels.
const (
	DensityWidth  = 640
	DensityHeight = 400
)

// DensityChart describes the static density histogram.
type DensityChart struct {
	Title     string
	Histogram Histogram
	Width     int
	Height    int
}

// DensityHistogram builds the density histogram of attr with one translucent
// series per species. Each series integrates to one over the shared bins.
func DensityHistogram(rows []penguins.Record, attr penguins.Attribute, bins int) DensityChart {
	return DensityChart{
		Title:     fmt.Sprintf("Seaborn Histogram of %s by Species", AttributeTitle(attr)),
		Histogram: NewHistogram(rows, attr, bins),
		Width:     DensityWidth,
		Height:    DensityHeight,
	}
}

// stepSeries traces the outline of a histogram so the area under it can be
// filled: up and across each bin, down to zero at both ends.
func stepSeries(edges, heights []float64) ([]float64, []float64) {
	xs := make([]float64, 0, 2*len(heights)+2)
	ys := make([]float64, 0, 2*len(heights)+2)
	xs, ys = append(xs, edges[0]), append(ys, 0)
	for i, h := range heights {
		xs = append(xs, edges[i], edges[i+1])
		ys = append(ys, h, h)
	}
	xs, ys = append(xs, edges[len(edges)-1]), append(ys, 0)
	return xs, ys
}

func (d DensityChart) chart() chart.Chart {
	h := d.Histogram
	series := make([]chart.Series, 0, len(h.Series))

	top := 0.0
	for _, s := range h.Series {
		for _, v := range s.Density {
			top = max(top, v)
		}
		xs, ys := stepSeries(h.Bins.Edges, s.Density)
		col := drawing.ColorFromHex(Color(s.Species)[1:])
		series = append(series, chart.ContinuousSeries{
			Name:    string(s.Species),
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 1.5,
				FillColor:   col.WithAlpha(96),
			},
		})
	}

	xRange := &chart.ContinuousRange{Min: 0, Max: 1}
	if h.Bins.Len() > 0 {
		xRange = &chart.ContinuousRange{Min: h.Bins.Edges[0], Max: h.Bins.Edges[len(h.Bins.Edges)-1]}
	}
	if top == 0 {
		top = 1
	}

	ch := chart.Chart{
		Title:      d.Title,
		Width:      d.Width,
		Height:     d.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: AttributeTitle(h.Attribute), Range: xRange},
		YAxis:      chart.YAxis{Name: "Density", Range: &chart.ContinuousRange{Min: 0, Max: top * 1.05}},
		Series:     series,
	}

	if len(series) == 0 {
		// go-chart refuses to draw without a series; an invisible baseline
		// keeps the axes and title for an empty selection.
		ch.Series = []chart.Series{chart.ContinuousSeries{
			XValues: []float64{xRange.Min, xRange.Max},
			YValues: []float64{0, 0},
			Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
		}}
		return ch
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

// RenderSVG writes the chart as SVG.
func (d DensityChart) RenderSVG(w io.Writer) error {
	ch := d.chart()
	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return fmt.Errorf("failed to render density chart: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
