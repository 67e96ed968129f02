package settings

import "context"

type runKey struct{}

// IntoContext returns a copy of ctx carrying run. A nil run leaves ctx as is.
func IntoContext(ctx context.Context, run *Run) context.Context {
	if run == nil {
		return ctx
	}
	return context.WithValue(ctx, runKey{}, run)
}

// FromContext returns the run settings stored in ctx, if any.
func FromContext(ctx context.Context) (*Run, bool) {
	run, ok := ctx.Value(runKey{}).(*Run)
	return run, ok && run != nil
}

// RunFromContext returns the run settings stored in ctx, or the command-line
// defaults when none were stored.
func RunFromContext(ctx context.Context) *Run {
	if run, ok := FromContext(ctx); ok {
		return run
	}
	return NewCliParams()
}

// Source describes where the grid's data comes from, for logs and titles.
func (i InputSettings) Source() string {
	switch {
	case i.Path != "":
		return i.Path
	case i.FromStdin:
		return "stdin"
	case i.TableID != "":
		return i.TableID
	}
	return "catalog"
}
