package penguins

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Kind selects where the source dataset comes from.
type Kind string

// Supported source kinds.
const (
	KindEmbedded Kind = "embedded"
	KindCSV      Kind = "csv"
	KindDuckDB   Kind = "duckdb"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
)

// Kinds returns every supported source kind.
func Kinds() []Kind {
	return []Kind{KindEmbedded, KindCSV, KindDuckDB, KindSQLite, KindPostgres}
}

// Source describes a dataset location.
type Source struct {
	Kind    Kind
	Path    string // CSV file or database file
	DSN     string // connection string; overrides Path for SQL sources
	Table   string // table holding the dataset (SQL sources)
	OrderBy string // optional column giving the row order (SQL sources)
}

// String describes the source for logs.
func (s Source) String() string {
	switch s.Kind {
	case KindEmbedded, "":
		return "embedded"
	case KindCSV:
		return "csv:" + s.Path
	case KindPostgres:
		return "postgres:" + s.Table
	default:
		if s.Table != "" {
			return fmt.Sprintf("%s:%s#%s", s.Kind, s.Path, s.Table)
		}
		return fmt.Sprintf("%s:%s", s.Kind, s.Path)
	}
}

// Load reads the full dataset described by src. The result is the
// process-wide source dataset and must not be mutated by callers.
func Load(ctx context.Context, src Source, logger *slog.Logger) ([]Record, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	start := time.Now()

	records, err := load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset from %s: %w", src, err)
	}

	logger.Info("dataset loaded",
		slog.String("source", src.String()),
		slog.Int("records", len(records)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return records, nil
}

func load(ctx context.Context, src Source) ([]Record, error) {
	switch src.Kind {
	case KindEmbedded, "":
		return LoadEmbedded()

	case KindCSV:
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		return ReadCSV(f)

	case KindDuckDB, KindSQLite, KindPostgres:
		query, err := buildQuery(src)
		if err != nil {
			return nil, err
		}
		db, err := openSQL(ctx, src)
		if err != nil {
			return nil, err
		}
		defer func() { _ = db.Close() }()
		return ReadRows(ctx, db, query)

	default:
		return nil, fmt.Errorf("unknown source kind %q", src.Kind)
	}
}
