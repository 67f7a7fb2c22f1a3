package charts

import (
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/penguineda/internal/penguins"
)

// Figure is a plotly.js figure: the argument pair for Plotly.react.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one plotly.js trace. Only the fields the dashboard uses are
// modelled.
type Trace struct {
	Type   string    `json:"type"`
	Mode   string    `json:"mode,omitempty"`
	Name   string    `json:"name"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
	Width  []float64 `json:"width,omitempty"`
	Marker Marker    `json:"marker"`
}

// Marker styles bars and points.
type Marker struct {
	Color   string  `json:"color"`
	Size    int     `json:"size,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

// Layout holds figure-level settings.
type Layout struct {
	Title   Text   `json:"title"`
	XAxis   Axis   `json:"xaxis"`
	YAxis   Axis   `json:"yaxis"`
	BarMode string `json:"barmode,omitempty"`
	Legend  Legend `json:"legend"`
	Margin  Margin `json:"margin"`
}

// Text is a plotly title object.
type Text struct {
	Text string `json:"text"`
}

// Axis is a plotly axis.
type Axis struct {
	Title Text `json:"title"`
}

// Legend is a plotly legend.
type Legend struct {
	Title Text `json:"title"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

func baseLayout(title, x, y string) Layout {
	return Layout{
		Title:  Text{Text: title},
		XAxis:  Axis{Title: Text{Text: x}},
		YAxis:  Axis{Title: Text{Text: y}},
		Legend: Legend{Title: Text{Text: "species"}},
		Margin: Margin{L: 60, R: 20, T: 60, B: 50},
	}
}

// JSON encodes the figure.
func (f Figure) JSON() ([]byte, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode figure: %w", err)
	}
	return b, nil
}

// PlotlyHistogram builds the interactive histogram: one stacked bar trace
// per species, counts over shared bins.
func PlotlyHistogram(rows []penguins.Record, attr penguins.Attribute, bins int) Figure {
	h := NewHistogram(rows, attr, bins)

	fig := Figure{
		Data:   make([]Trace, 0, len(h.Series)),
		Layout: baseLayout(fmt.Sprintf("Histogram of %s by Species", attr), AttributeTitle(attr), "count"),
	}
	fig.Layout.BarMode = "relative"

	centers := h.Bins.Centers()
	widths := make([]float64, h.Bins.Len())
	for i := range widths {
		widths[i] = h.Bins.Width()
	}

	for _, s := range h.Series {
		y := make([]float64, len(s.Counts))
		for i, c := range s.Counts {
			y[i] = float64(c)
		}
		fig.Data = append(fig.Data, Trace{
			Type:   "bar",
			Name:   string(s.Species),
			X:      centers,
			Y:      y,
			Width:  widths,
			Marker: Marker{Color: Color(s.Species)},
		})
	}
	return fig
}

// BillLengthAxisTitle labels the fixed scatterplot x axis.
const BillLengthAxisTitle = "Bill Length (mm)"

// Scatter builds the bill-length scatterplot against attr, one marker trace
// per species. Rows missing either coordinate are skipped.
func Scatter(rows []penguins.Record, attr penguins.Attribute) Figure {
	title := fmt.Sprintf("Scatterplot of Bill Length vs %s", AttributeTitle(attr))
	fig := Figure{
		Data:   []Trace{},
		Layout: baseLayout(title, BillLengthAxisTitle, AttributeTitle(attr)),
	}

	index := make(map[penguins.Species]int)
	for _, r := range rows {
		x, okX := r.Value(penguins.BillLength)
		y, okY := r.Value(attr)
		if !okX || !okY {
			continue
		}
		i, seen := index[r.Species]
		if !seen {
			i = len(fig.Data)
			index[r.Species] = i
			fig.Data = append(fig.Data, Trace{
				Type:   "scatter",
				Mode:   "markers",
				Name:   string(r.Species),
				Marker: Marker{Color: Color(r.Species), Size: 8, Opacity: 0.8},
			})
		}
		fig.Data[i].X = append(fig.Data[i].X, x)
		fig.Data[i].Y = append(fig.Data[i].Y, y)
	}
	return fig
}
