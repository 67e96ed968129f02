// Package source defines the collaborators that feed the results grid: a
// query executor and a table preview provider, both producing a Result of
// pre-formatted string cells. Catalog, Previewer and CELExecutor implement
// them over a directory of data files.
package source

import (
	"context"
	"errors"

	"github.com/oakwood-commons/cellgrid/pkg/grid"
	"github.com/oakwood-commons/cellgrid/pkg/loader"
)

var (
	// ErrTableNotFound is returned when a table id names no catalog file.
	ErrTableNotFound = errors.New("table not found")
	// ErrProjectMismatch is returned when a table id or query names a project
	// other than the catalog's.
	ErrProjectMismatch = errors.New("project mismatch")
	// ErrInvalidTableID is returned for ids that are not dataset.table shaped.
	ErrInvalidTableID = errors.New("invalid table id")
)

// Result is a query or preview outcome ready for display. Every cell is
// already a string: nulls read "NULL" and structured values are JSON.
type Result struct {
	Columns        []string
	Rows           [][]string
	RowCount       int
	ElapsedMs      int64
	BytesProcessed int64
	// HasStats is false for previews, which carry no timing or byte counts.
	HasStats bool
}

// Grid validates the result's shape and returns it as a grid.
func (r *Result) Grid() (grid.Grid, error) {
	return grid.New(r.Columns, r.Rows)
}

// QueryExecutor runs free-form query text, optionally scoped to a project.
type QueryExecutor interface {
	Execute(ctx context.Context, query, projectID string) (*Result, error)
}

// PreviewProvider returns the first rows of a fully qualified table.
type PreviewProvider interface {
	Preview(ctx context.Context, tableID string) (*Result, error)
}

// ResultFromTable formats every value of t and wraps it as a Result without
// stats.
func ResultFromTable(t loader.Table) *Result {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out := make([]string, len(cols))
		for j := range out {
			if j < len(row) {
				out[j] = FormatValue(row[j])
			} else {
				out[j] = NullMarker
			}
		}
		rows[i] = out
	}
	return &Result{Columns: cols, Rows: rows, RowCount: len(rows)}
}
