package penguins

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"  // postgres driver ("pgx")
	_ "github.com/marcboeker/go-duckdb" // duckdb driver
	_ "modernc.org/sqlite"              // sqlite driver
)

// identPattern restricts table and column identifiers interpolated into
// queries. Identifiers cannot be bound as parameters.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// selectColumns is the projection shared by every SQL source.
const selectColumns = "species, island, bill_length_mm, bill_depth_mm, flipper_length_mm, body_mass_g, sex, year"

// driverNames maps source kinds to database/sql driver names.
var driverNames = map[Kind]string{
	KindDuckDB:   "duckdb",
	KindSQLite:   "sqlite",
	KindPostgres: "pgx",
}

// buildQuery returns the SELECT for a SQL-backed source.
func buildQuery(src Source) (string, error) {
	var from string
	switch {
	case src.Kind == KindDuckDB && src.Table == "" && src.Path != "":
		// DuckDB reads the CSV directly; same NA convention as the CSV loader.
		from = fmt.Sprintf("read_csv_auto('%s', header=true, nullstr='NA')",
			strings.ReplaceAll(src.Path, "'", "''"))
	case src.Table != "":
		if !identPattern.MatchString(src.Table) {
			return "", fmt.Errorf("invalid table name %q", src.Table)
		}
		from = src.Table
	default:
		return "", fmt.Errorf("%s source requires a table", src.Kind)
	}

	query := "SELECT " + selectColumns + " FROM " + from
	if src.OrderBy != "" {
		if !identPattern.MatchString(src.OrderBy) {
			return "", fmt.Errorf("invalid order_by column %q", src.OrderBy)
		}
		query += " ORDER BY " + src.OrderBy
	}
	return query, nil
}

// openSQL opens and pings the database behind src.
func openSQL(ctx context.Context, src Source) (*sql.DB, error) {
	driver, ok := driverNames[src.Kind]
	if !ok {
		return nil, fmt.Errorf("no SQL driver for source %q", src.Kind)
	}

	// For file databases the path doubles as the DSN. A DuckDB CSV read
	// runs in an in-memory database.
	dsn := src.DSN
	if dsn == "" && src.Table != "" && src.Kind != KindPostgres {
		dsn = src.Path
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", src.Kind, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", src.Kind, err)
	}
	return db, nil
}

// ReadRows runs query against db and scans every row into a Record.
// Row order is the order the database returns.
func ReadRows(ctx context.Context, db *sql.DB, query string) ([]Record, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var (
			rec           Record
			species, isle string
			year          sql.NullInt64
		)
		if err := rows.Scan(
			&species, &isle,
			&rec.BillLength, &rec.BillDepth, &rec.FlipperLength, &rec.BodyMass,
			&rec.Sex, &year,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(records)+1, err)
		}
		rec.Species = Species(species)
		rec.Island = Island(isle)
		rec.Year = int(year.Int64)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dataset rows: %w", err)
	}
	return records, nil
}
