package pipeline

import (
	"log/slog"
	"time"

	"github.com/theirongolddev/pvmdash/internal/source"
)

// LoadResult holds the output of the full data loading pipeline.
type LoadResult struct {
	Table    *Table
	Path     string
	Format   source.Format
	Rows     int
	Duration time.Duration
}

// ProgressFunc is called during loading to report progress.
// current is the number of rows parsed so far, total is the row count.
type ProgressFunc = source.ProgressFunc

// Load reads the input table at path, sorts it by month and derives metrics.
func Load(path string, opts source.Options) (*LoadResult, error) {
	start := time.Now()

	res, err := source.Read(path, opts)
	if err != nil {
		return nil, err
	}

	table, err := NewTable(res.Records, path)
	if err != nil {
		return nil, err
	}

	lr := &LoadResult{
		Table:    table,
		Path:     path,
		Format:   res.Format,
		Rows:     table.Len(),
		Duration: time.Since(start),
	}
	slog.Debug("dataset loaded", "path", path, "format", res.Format, "rows", lr.Rows, "duration", lr.Duration)
	return lr, nil
}
