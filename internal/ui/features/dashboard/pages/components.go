// Package pages renders the dashboard page and the fragments the SSE
// streams patch into it.
package pages

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/penguineda/internal/charts"
	dashboardtypes "github.com/leapstack-labs/penguineda/internal/ui/features/dashboard/types"
	"github.com/leapstack-labs/penguineda/internal/ui/resources"
)

const (
	datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"
	plotlyScript   = "https://cdn.plot.ly/plotly-2.35.2.min.js"
)

var esc = templ.EscapeString[string]

// render adapts a builder func to a templ component. Output is buffered so a
// failing fragment writes nothing.
func render(fn func(b *strings.Builder) error) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		if err := fn(&b); err != nil {
			return err
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// DashboardPage renders the full page with every display server-side, so
// the first paint needs no SSE round trip.
func DashboardPage(title string, isDev bool, data dashboardtypes.DashboardData) templ.Component {
	return render(func(b *strings.Builder) error {
		signals, err := json.Marshal(dashboardtypes.SignalsFor(data.Controls.Selection, data.Controls.Params))
		if err != nil {
			return fmt.Errorf("failed to encode signals: %w", err)
		}

		b.WriteString("<!doctype html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		fmt.Fprintf(b, "<title>%s - Penguin EDA</title>", esc(title))
		fmt.Fprintf(b, `<link rel="stylesheet" href="%s">`, resources.StaticPath("app.css"))
		fmt.Fprintf(b, `<script type="module" src="%s"></script>`, datastarScript)
		fmt.Fprintf(b, `<script src="%s" charset="utf-8"></script>`, plotlyScript)
		fmt.Fprintf(b, `<script src="%s" defer></script>`, resources.StaticPath("app.js"))
		b.WriteString("</head>")

		fmt.Fprintf(b, `<body data-signals="%s">`, esc(string(signals)))
		if isDev {
			b.WriteString(`<div data-init="@get('/reload', {openWhenHidden: true})"></div>`)
		}
		b.WriteString(`<div class="layout" data-init="@get('/dashboard/updates', {openWhenHidden: true})">`)

		writeSidebar(b, data.Controls)

		b.WriteString(`<main class="ui-content"><h1>Palmer Penguins</h1>`)
		writeSummary(b, data.Records, data.Total)

		b.WriteString(`<section class="row"><div class="col"><h2>Data Table</h2>`)
		writeTable(b, dashboardtypes.DataTableID, data.Table)
		b.WriteString(`</div><div class="col"><h2>Data Grid</h2>`)
		writeTable(b, dashboardtypes.DataGridID, data.Grid)
		b.WriteString(`</div></section>`)

		b.WriteString(`<section class="row"><div class="col"><h2>Plotly Histogram</h2>`)
		if err := writeFigure(b, dashboardtypes.PlotlyHistogramID, data.Histogram); err != nil {
			return err
		}
		b.WriteString(`</div><div class="col"><h2>Seaborn Histogram</h2>`)
		writeDensity(b, data.Density)
		b.WriteString(`</div></section>`)

		b.WriteString(`<section class="full"><h2>Scatterplot</h2>`)
		if err := writeFigure(b, dashboardtypes.ScatterplotID, data.Scatter); err != nil {
			return err
		}
		b.WriteString("</section></main></div></body></html>")
		return nil
	})
}

// Sidebar renders the control panel.
func Sidebar(c dashboardtypes.Controls) templ.Component {
	return render(func(b *strings.Builder) error {
		writeSidebar(b, c)
		return nil
	})
}

// Summary renders the filtered row count.
func Summary(records, total int) templ.Component {
	return render(func(b *strings.Builder) error {
		writeSummary(b, records, total)
		return nil
	})
}

// Table renders a table display under id.
func Table(id string, t charts.TableData) templ.Component {
	return render(func(b *strings.Builder) error {
		writeTable(b, id, t)
		return nil
	})
}

// Figure renders a plotly figure container under id. The figure itself is
// drawn client-side from the data-figure attribute.
func Figure(id string, fig charts.Figure) templ.Component {
	return render(func(b *strings.Builder) error { return writeFigure(b, id, fig) })
}

// Density renders the inline density histogram SVG.
func Density(svg string) templ.Component {
	return render(func(b *strings.Builder) error {
		writeDensity(b, svg)
		return nil
	})
}

func writeSidebar(b *strings.Builder, c dashboardtypes.Controls) {
	fmt.Fprintf(b, `<aside id="%s" class="sidebar" data-on:change="@post('/dashboard/refresh')">`, dashboardtypes.SidebarID)
	b.WriteString("<h2>Controls</h2>")

	b.WriteString(`<label for="attribute">Attribute</label><select id="attribute" data-bind="attribute">`)
	for _, a := range c.Attributes {
		selected := ""
		if a == c.Params.Attribute {
			selected = " selected"
		}
		fmt.Fprintf(b, `<option value="%s"%s>%s</option>`, esc(string(a)), selected, esc(string(a)))
	}
	b.WriteString("</select>")

	fmt.Fprintf(b, `<label for="plotly-bins">Plotly bins</label><input id="plotly-bins" type="number" min="1" value="%d" data-bind="plotlyBins">`,
		c.Params.PlotlyBins)
	fmt.Fprintf(b, `<label for="seaborn-bins">Seaborn bins <span data-text="$seabornBins">%d</span></label>`, c.Params.SeabornBins)
	fmt.Fprintf(b, `<input id="seaborn-bins" type="range" min="5" max="100" value="%d" data-bind="seabornBins">`, c.Params.SeabornBins)

	selectedSpecies := c.Selection.SpeciesSet()
	b.WriteString("<fieldset><legend>Species</legend>")
	for _, s := range c.Species {
		writeCheckbox(b, "species", string(s), selectedSpecies.Has(s))
	}
	b.WriteString("</fieldset>")

	selectedIslands := c.Selection.IslandSet()
	b.WriteString("<fieldset><legend>Islands</legend>")
	for _, is := range c.Islands {
		writeCheckbox(b, "islands", string(is), selectedIslands.Has(is))
	}
	b.WriteString("</fieldset>")

	if c.RepoURL != "" {
		fmt.Fprintf(b, `<a class="repo-link" href="%s" target="_blank" rel="noopener">View source on GitHub</a>`, esc(c.RepoURL))
	}
	b.WriteString("</aside>")
}

func writeCheckbox(b *strings.Builder, signal, value string, checked bool) {
	attr := ""
	if checked {
		attr = " checked"
	}
	fmt.Fprintf(b, `<label class="check"><input type="checkbox" value="%s" data-bind="%s"%s> %s</label>`,
		esc(value), signal, attr, esc(value))
}

func writeSummary(b *strings.Builder, records, total int) {
	fmt.Fprintf(b, `<p id="%s" class="summary">Showing %d of %d penguins</p>`, dashboardtypes.SummaryID, records, total)
}

func writeTable(b *strings.Builder, id string, t charts.TableData) {
	fmt.Fprintf(b, `<div id="%s" class="table-wrap"><table><thead><tr>`, esc(id))
	for _, c := range t.Columns {
		fmt.Fprintf(b, `<th class="%s">%s</th>`, alignClass(c.Align), esc(c.Label))
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		for i, cell := range row {
			align := "left"
			if i < len(t.Columns) {
				align = t.Columns[i].Align
			}
			fmt.Fprintf(b, `<td class="%s">%s</td>`, alignClass(align), esc(cell))
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	if t.Len() == 0 {
		b.WriteString(`<p class="empty">No penguins match the selection.</p>`)
	}
	b.WriteString("</div>")
}

func alignClass(align string) string {
	if align == "right" {
		return "num"
	}
	return "text"
}

func writeFigure(b *strings.Builder, id string, fig charts.Figure) error {
	raw, err := fig.JSON()
	if err != nil {
		return err
	}
	fmt.Fprintf(b, `<div id="%s" class="chart" data-figure="%s"></div>`, esc(id), esc(string(raw)))
	return nil
}

func writeDensity(b *strings.Builder, svg string) {
	fmt.Fprintf(b, `<figure id="%s" class="chart">%s<figcaption><a href="/charts/density.svg" target="_blank">Open SVG</a></figcaption></figure>`,
		dashboardtypes.DensityHistogramID, svg)
}

// RenderFiguresScript redraws every plotly container after a patch.
func RenderFiguresScript() string {
	return "window.penguineda && window.penguineda.renderFigures()"
}
