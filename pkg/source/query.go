package source

import (
	"context"
	"fmt"
	"time"

	"github.com/oakwood-commons/cellgrid/internal/cel"
	"github.com/oakwood-commons/cellgrid/pkg/loader"
)

// CELExecutor runs CEL expressions over a Catalog. Inside a query,
// table("dataset.table") yields the rows of a table as a list of maps and "_"
// holds the list of table ids.
//
//	table("shop.orders").filter(o, o.total > 100.0)
type CELExecutor struct {
	Catalog Catalog
	now     func() time.Time
}

// NewCELExecutor returns an executor over c.
func NewCELExecutor(c Catalog) *CELExecutor {
	return &CELExecutor{Catalog: c, now: time.Now}
}

// execution tracks the tables one query touched.
type execution struct {
	catalog   Catalog
	projectID string
	columns   []string
	seen      map[string]bool
	bytes     int64
	err       error
}

func (x *execution) table(id string) ([]any, error) {
	t, size, err := x.catalog.Open(id, x.projectID)
	if err != nil {
		if x.err == nil {
			x.err = err
		}
		return nil, err
	}
	x.bytes += size
	for _, c := range t.Columns {
		if !x.seen[c] {
			x.seen[c] = true
			x.columns = append(x.columns, c)
		}
	}
	return t.Records(), nil
}

// Execute evaluates query. projectID, when set, must match the catalog's
// project.
func (e *CELExecutor) Execute(ctx context.Context, query, projectID string) (*Result, error) {
	if err := e.Catalog.checkProject(projectID); err != nil {
		return nil, err
	}
	now := e.now
	if now == nil {
		now = time.Now
	}
	start := now()

	ids, err := e.Catalog.Tables(ctx)
	if err != nil {
		return nil, err
	}
	x := &execution{catalog: e.Catalog, projectID: projectID, seen: map[string]bool{}}
	eval, err := cel.NewEvaluator(cel.WithTables(x.table))
	if err != nil {
		return nil, err
	}
	idList := make([]any, len(ids))
	for i, id := range ids {
		idList[i] = id
	}

	value, err := eval.Evaluate(ctx, query, idList)
	if err != nil {
		if x.err != nil {
			return nil, fmt.Errorf("query failed: %w", x.err)
		}
		return nil, fmt.Errorf("query failed: %w", err)
	}

	res := ResultFromTable(loader.FromValueOrdered(value, x.columns))
	res.ElapsedMs = now().Sub(start).Milliseconds()
	res.BytesProcessed = x.bytes
	res.HasStats = true
	return res, nil
}
