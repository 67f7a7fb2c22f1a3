// Package types provides shared types for the dashboard feature.
package types //nolint:revive // intentional: imported with alias dashboardtypes

import (
	"github.com/leapstack-labs/penguineda/internal/charts"
	"github.com/leapstack-labs/penguineda/internal/engine"
	"github.com/leapstack-labs/penguineda/internal/penguins"
)

// Element IDs patched by the dashboard SSE streams.
const (
	SidebarID          = "sidebar"
	SummaryID          = "selection-summary"
	DataTableID        = "data-table"
	DataGridID         = "data-grid"
	PlotlyHistogramID  = "plotly-histogram"
	DensityHistogramID = "density-histogram"
	ScatterplotID      = "scatterplot"
)

// Controls holds the sidebar state and the choices it offers.
type Controls struct {
	Selection  engine.Selection
	Params     engine.Params
	Attributes []penguins.Attribute
	Species    []penguins.Species
	Islands    []penguins.Island
	RepoURL    string
}

// DashboardData is everything one render pass of the dashboard needs. All
// displays are built from the same filtered rows.
type DashboardData struct {
	Controls  Controls
	Records   int // rows in the filtered dataset
	Total     int // rows in the source dataset
	Table     charts.TableData
	Grid      charts.TableData
	Histogram charts.Figure
	Density   string // inline SVG
	Scatter   charts.Figure
}

// Signals are the datastar signals bound to the sidebar controls.
type Signals struct {
	Attribute   string   `json:"attribute" validate:"required,oneof=bill_length_mm bill_depth_mm flipper_length_mm body_mass_g"`
	PlotlyBins  int      `json:"plotlyBins" validate:"gte=1"`
	SeabornBins int      `json:"seabornBins" validate:"gte=5,lte=100"`
	Species     []string `json:"species" validate:"dive,oneof=Adelie Gentoo Chinstrap"`
	Islands     []string `json:"islands" validate:"dive,oneof=Torgersen Dream Biscoe"`
}

// SignalsFor mirrors the session state as signals.
func SignalsFor(sel engine.Selection, p engine.Params) Signals {
	s := Signals{
		Attribute:   string(p.Attribute),
		PlotlyBins:  p.PlotlyBins,
		SeabornBins: p.SeabornBins,
		Species:     make([]string, 0, len(sel.Species)),
		Islands:     make([]string, 0, len(sel.Islands)),
	}
	for _, sp := range sel.Species {
		s.Species = append(s.Species, string(sp))
	}
	for _, is := range sel.Islands {
		s.Islands = append(s.Islands, string(is))
	}
	return s
}

// Selection converts the checkbox signals into a selection.
func (s Signals) Selection() engine.Selection {
	sel := engine.Selection{
		Species: make([]penguins.Species, 0, len(s.Species)),
		Islands: make([]penguins.Island, 0, len(s.Islands)),
	}
	for _, sp := range s.Species {
		sel.Species = append(sel.Species, penguins.Species(sp))
	}
	for _, is := range s.Islands {
		sel.Islands = append(sel.Islands, penguins.Island(is))
	}
	return sel
}

// Params converts the display signals into parameters. The result is not
// normalized.
func (s Signals) Params() engine.Params {
	return engine.Params{
		Attribute:   penguins.Attribute(s.Attribute),
		PlotlyBins:  s.PlotlyBins,
		SeabornBins: s.SeabornBins,
	}
}
