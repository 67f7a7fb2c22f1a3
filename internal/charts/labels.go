package charts

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/penguineda/internal/penguins"
)

var titleCaser = cases.Title(language.English)

// Title turns a column name into a heading: "bill_length_mm" becomes
// "Bill Length Mm".
func Title(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "_", " "))
}

// AttributeTitle is Title for an attribute.
func AttributeTitle(attr penguins.Attribute) string {
	return Title(string(attr))
}

// species colours follow the plotly default qualitative sequence so both
// histograms and the scatterplot agree on a species' colour.
var palette = []string{"#636efa", "#ef553b", "#00cc96", "#ab63fa", "#ffa15a", "#19d3f3"}

// Color returns a stable colour for a species. Known species keep their
// colour regardless of which subset is selected.
func Color(s penguins.Species) string {
	for i, known := range penguins.AllSpecies() {
		if s == known {
			return palette[i]
		}
	}
	var h uint32
	for _, c := range []byte(s) {
		h = h*31 + uint32(c)
	}
	extra := palette[len(penguins.AllSpecies()):]
	return extra[h%uint32(len(extra))]
}
