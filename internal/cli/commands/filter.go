package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/penguineda/internal/charts"
	"github.com/leapstack-labs/penguineda/internal/cli/output"
	"github.com/leapstack-labs/penguineda/internal/engine"
	"github.com/leapstack-labs/penguineda/internal/penguins"
)

// FilterOptions holds options for the filter command.
type FilterOptions struct {
	Species   []string
	Islands   []string
	Grid      bool
	Histogram bool
	Attribute string
	Bins      int
}

// NewFilterCommand creates the filter command.
func NewFilterCommand() *cobra.Command {
	opts := &FilterOptions{}

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print the penguins matching a selection",
		Long: `Filter the dataset by species and island and print the matching rows.

A row is kept when its species and its island are both selected. An empty
selection matches nothing. Output is a styled table on a terminal and a
markdown table when piped; use --output json for scripts.`,
		Example: `  # Gentoo penguins on Biscoe
  penguineda filter --species Gentoo --islands Biscoe

  # Row-numbered grid plus a histogram of body mass
  penguineda filter --grid --histogram --attribute body_mass_g --bins 10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFilter(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Species, "species", speciesNames(), "Species to keep")
	cmd.Flags().StringSliceVar(&opts.Islands, "islands", islandNames(), "Islands to keep")
	cmd.Flags().BoolVar(&opts.Grid, "grid", false, "Number rows by their position in the dataset")
	cmd.Flags().BoolVar(&opts.Histogram, "histogram", false, "Also print per-species bin counts")
	cmd.Flags().StringVar(&opts.Attribute, "attribute", string(penguins.DefaultAttribute), "Measurement to bin")
	cmd.Flags().IntVar(&opts.Bins, "bins", engine.DefaultPlotlyBins, "Number of histogram bins")

	_ = cmd.RegisterFlagCompletionFunc("species", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return speciesNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("islands", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return islandNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("attribute", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, 4)
		for _, a := range penguins.AllAttributes() {
			names = append(names, string(a))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runFilter(cmd *cobra.Command, opts *FilterOptions) error {
	sel, err := opts.selection()
	if err != nil {
		return err
	}
	attr, err := penguins.ParseAttribute(opts.Attribute)
	if err != nil {
		return err
	}
	if opts.Bins < engine.MinPlotlyBins || opts.Bins > engine.MaxPlotlyBins {
		return fmt.Errorf("--bins must be between %d and %d", engine.MinPlotlyBins, engine.MaxPlotlyBins)
	}

	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	records, err := cc.LoadDataset(cmd.Context())
	if err != nil {
		return err
	}

	rows, indices := engine.FilterSelection(records, sel)
	cc.Logger.Debug("filtered dataset", "species", opts.Species, "islands", opts.Islands, "rows", len(rows))

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		if opts.Histogram {
			return r.JSON(histogramJSON(charts.NewHistogram(rows, attr, opts.Bins)))
		}
		return renderTable(r, tableFor(rows, indices, opts.Grid))
	}

	r.Header(2, "Penguins")
	r.Muted(fmt.Sprintf("Showing %d of %d penguins", len(rows), len(records)))
	r.Println()
	if err := renderTable(r, tableFor(rows, indices, opts.Grid)); err != nil {
		return err
	}

	if opts.Histogram {
		h := charts.NewHistogram(rows, attr, opts.Bins)
		r.Println()
		r.Header(2, "Histogram of "+charts.AttributeTitle(attr))
		return renderHistogram(r, h)
	}
	return nil
}

func (o *FilterOptions) selection() (engine.Selection, error) {
	var sel engine.Selection
	for _, s := range o.Species {
		if !slices.Contains(penguins.AllSpecies(), penguins.Species(s)) {
			return sel, fmt.Errorf("unknown species %q (valid: %s)", s, strings.Join(speciesNames(), ", "))
		}
		sel.Species = append(sel.Species, penguins.Species(s))
	}
	for _, i := range o.Islands {
		if !slices.Contains(penguins.AllIslands(), penguins.Island(i)) {
			return sel, fmt.Errorf("unknown island %q (valid: %s)", i, strings.Join(islandNames(), ", "))
		}
		sel.Islands = append(sel.Islands, penguins.Island(i))
	}
	return sel, nil
}

func tableFor(rows []penguins.Record, indices []int, grid bool) charts.TableData {
	if grid {
		return charts.DataGrid(rows, indices)
	}
	return charts.DataTable(rows)
}

func renderTable(r *output.Renderer, t charts.TableData) error {
	columns := make([]output.Column, len(t.Columns))
	for i, c := range t.Columns {
		name := c.Label
		if r.EffectiveMode() == output.ModeJSON {
			name = c.Key
		}
		columns[i] = output.Column{Name: name, AlignRight: c.Align == "right"}
	}
	return r.Table(columns, t.Rows)
}

func renderHistogram(r *output.Renderer, h charts.Histogram) error {
	columns := []output.Column{{Name: "bin"}}
	for _, s := range h.Series {
		columns = append(columns, output.Column{Name: string(s.Species), AlignRight: true})
	}

	rows := make([][]string, h.Bins.Len())
	for i := range rows {
		row := []string{binLabel(h.Bins, i)}
		for _, s := range h.Series {
			row = append(row, fmt.Sprint(s.Counts[i]))
		}
		rows[i] = row
	}
	return r.Table(columns, rows)
}

// binLabel shows a bin as a half-open interval; the last bin is closed.
func binLabel(b charts.Bins, i int) string {
	closing := ")"
	if i == b.Len()-1 {
		closing = "]"
	}
	return fmt.Sprintf("[%.2f, %.2f%s", b.Edges[i], b.Edges[i+1], closing)
}

type histogramSeriesJSON struct {
	Species string    `json:"species"`
	Counts  []int     `json:"counts"`
	Density []float64 `json:"density"`
}

type histogramOutput struct {
	Attribute string                `json:"attribute"`
	Edges     []float64             `json:"edges"`
	Series    []histogramSeriesJSON `json:"series"`
}

func histogramJSON(h charts.Histogram) histogramOutput {
	out := histogramOutput{
		Attribute: string(h.Attribute),
		Edges:     h.Bins.Edges,
		Series:    make([]histogramSeriesJSON, 0, len(h.Series)),
	}
	for _, s := range h.Series {
		out.Series = append(out.Series, histogramSeriesJSON{
			Species: string(s.Species),
			Counts:  s.Counts,
			Density: s.Density,
		})
	}
	return out
}

func speciesNames() []string {
	all := penguins.AllSpecies()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = string(s)
	}
	return names
}

func islandNames() []string {
	all := penguins.AllIslands()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = string(s)
	}
	return names
}
