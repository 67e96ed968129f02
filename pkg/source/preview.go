package source

import (
	"context"

	"github.com/oakwood-commons/cellgrid/internal/limiter"
)

// DefaultPreviewLimit is how many rows a preview shows.
const DefaultPreviewLimit = 5

// Previewer serves table previews out of a Catalog.
type Previewer struct {
	Catalog Catalog
	// Limit caps the rows returned; zero means DefaultPreviewLimit.
	Limit int
}

// NewPreviewer returns a Previewer over c with the default row cap.
func NewPreviewer(c Catalog) *Previewer {
	return &Previewer{Catalog: c, Limit: DefaultPreviewLimit}
}

// Preview loads tableID and returns its first rows without stats.
func (p *Previewer) Preview(ctx context.Context, tableID string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, _, err := p.Catalog.Open(tableID, "")
	if err != nil {
		return nil, err
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	t.Rows = limiter.Apply(limiter.Config{Limit: limit}, t.Rows)
	return ResultFromTable(t), nil
}
