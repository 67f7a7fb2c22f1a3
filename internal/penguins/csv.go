package penguins

import (
	"database/sql"
	_ "embed"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

//go:embed data/penguins.csv
var embeddedCSV string

// missingTokens are the cell values read as absent.
var missingTokens = []string{"NA", "NaN", ""}

// columnTypes pins the dataframe column types so that integer-looking
// measurement columns are not inferred as Int.
var columnTypes = map[string]series.Type{
	"species":             series.String,
	"island":              series.String,
	string(BillLength):    series.Float,
	string(BillDepth):     series.Float,
	string(FlipperLength): series.Float,
	string(BodyMass):      series.Float,
	"sex":                 series.String,
	"year":                series.Int,
}

// requiredColumns must be present in every CSV source.
var requiredColumns = []string{
	"species", "island",
	string(BillLength), string(BillDepth), string(FlipperLength), string(BodyMass),
}

// LoadEmbedded parses the CSV bundled with the binary.
func LoadEmbedded() ([]Record, error) {
	return ReadCSV(strings.NewReader(embeddedCSV))
}

// ReadCSV parses a penguins CSV. The header row is required; sex and year
// are optional columns.
func ReadCSV(r io.Reader) ([]Record, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.NaNValues(missingTokens),
		dataframe.WithTypes(columnTypes),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", df.Err)
	}
	return fromDataFrame(df)
}

func fromDataFrame(df dataframe.DataFrame) ([]Record, error) {
	names := df.Names()
	for _, col := range requiredColumns {
		if !slices.Contains(names, col) {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	species := df.Col("species")
	island := df.Col("island")
	measures := make(map[Attribute]series.Series, 4)
	for _, attr := range AllAttributes() {
		measures[attr] = df.Col(string(attr))
	}

	var sex, year *series.Series
	if slices.Contains(names, "sex") {
		s := df.Col("sex")
		sex = &s
	}
	if slices.Contains(names, "year") {
		y := df.Col("year")
		year = &y
	}

	n := df.Nrow()
	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		rec := Record{
			Species:       Species(species.Elem(i).String()),
			Island:        Island(island.Elem(i).String()),
			BillLength:    nullFloat(measures[BillLength].Elem(i)),
			BillDepth:     nullFloat(measures[BillDepth].Elem(i)),
			FlipperLength: nullFloat(measures[FlipperLength].Elem(i)),
			BodyMass:      nullFloat(measures[BodyMass].Elem(i)),
		}
		if sex != nil && !sex.Elem(i).IsNA() {
			rec.Sex = sql.NullString{String: sex.Elem(i).String(), Valid: true}
		}
		if year != nil && !year.Elem(i).IsNA() {
			y, err := year.Elem(i).Int()
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid year: %w", i+1, err)
			}
			rec.Year = y
		}
		records = append(records, rec)
	}
	return records, nil
}

func nullFloat(e series.Element) sql.NullFloat64 {
	if e.IsNA() {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: e.Float(), Valid: true}
}
