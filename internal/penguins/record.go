// Package penguins defines the penguin observation record and the loaders
// that supply the source dataset.
package penguins

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
)

// Species is a penguin species label.
type Species string

// Known species, in display order.
const (
	Adelie    Species = "Adelie"
	Gentoo    Species = "Gentoo"
	Chinstrap Species = "Chinstrap"
)

// AllSpecies returns every known species in display order.
func AllSpecies() []Species {
	return []Species{Adelie, Gentoo, Chinstrap}
}

// Island is the island an observation was made on.
type Island string

// Known islands, in display order.
const (
	Torgersen Island = "Torgersen"
	Dream     Island = "Dream"
	Biscoe    Island = "Biscoe"
)

// AllIslands returns every known island in display order.
func AllIslands() []Island {
	return []Island{Torgersen, Dream, Biscoe}
}

// Attribute names one of the continuous measurements.
type Attribute string

// Numeric attributes. The string values match the dataset column names.
const (
	BillLength    Attribute = "bill_length_mm"
	BillDepth     Attribute = "bill_depth_mm"
	FlipperLength Attribute = "flipper_length_mm"
	BodyMass      Attribute = "body_mass_g"
)

// DefaultAttribute is selected when nothing else is.
const DefaultAttribute = BillLength

// AllAttributes returns the numeric attributes in selector order.
func AllAttributes() []Attribute {
	return []Attribute{BillLength, BillDepth, FlipperLength, BodyMass}
}

// ParseAttribute validates an attribute name.
func ParseAttribute(s string) (Attribute, error) {
	for _, a := range AllAttributes() {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown attribute %q", s)
}

// Record is one penguin observation. Measurements may be missing, in which
// case the corresponding NullFloat64 is not Valid.
type Record struct {
	Species       Species
	Island        Island
	BillLength    sql.NullFloat64
	BillDepth     sql.NullFloat64
	FlipperLength sql.NullFloat64
	BodyMass      sql.NullFloat64
	Sex           sql.NullString
	Year          int
}

// Value returns the measurement for attr and whether it is present. A NaN
// measurement counts as missing.
func (r Record) Value(attr Attribute) (float64, bool) {
	var v sql.NullFloat64
	switch attr {
	case BillLength:
		v = r.BillLength
	case BillDepth:
		v = r.BillDepth
	case FlipperLength:
		v = r.FlipperLength
	case BodyMass:
		v = r.BodyMass
	default:
		return 0, false
	}
	if !v.Valid || math.IsNaN(v.Float64) {
		return 0, false
	}
	return v.Float64, true
}

// Columns lists the dataset columns in file order.
var Columns = []string{
	"species", "island",
	string(BillLength), string(BillDepth), string(FlipperLength), string(BodyMass),
	"sex", "year",
}

// MissingLabel is shown in place of absent values.
const MissingLabel = "NA"

// Strings formats the record as one string per entry of Columns.
func (r Record) Strings() []string {
	out := make([]string, 0, len(Columns))
	out = append(out, string(r.Species), string(r.Island))
	for _, attr := range AllAttributes() {
		v, ok := r.Value(attr)
		if !ok {
			out = append(out, MissingLabel)
			continue
		}
		out = append(out, strconv.FormatFloat(v, 'f', -1, 64))
	}
	if r.Sex.Valid {
		out = append(out, r.Sex.String)
	} else {
		out = append(out, MissingLabel)
	}
	return append(out, strconv.Itoa(r.Year))
}
