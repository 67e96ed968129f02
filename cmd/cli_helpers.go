package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/cellgrid/internal/config"
	"github.com/oakwood-commons/cellgrid/internal/formatter"
	"github.com/oakwood-commons/cellgrid/internal/limiter"
	"github.com/oakwood-commons/cellgrid/internal/ui"
	"github.com/oakwood-commons/cellgrid/pkg/source"
)

// usageError marks invalid flags or arguments; the process exits with 2.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

type themeSelectionError struct {
	Selected  string
	Available []string
}

func (e themeSelectionError) Error() string {
	return fmt.Sprintf("unknown theme %q (available: %s)", e.Selected, strings.Join(e.Available, ", "))
}

// applyFlagOverrides layers --theme, --keymap and -o over the loaded config.
func applyFlagOverrides(cfg *config.Config, cmd *cobra.Command) error {
	if cmd.Flags().Changed("theme") {
		name := strings.TrimSpace(themeName)
		if _, ok := cfg.Themes[name]; !ok {
			return usageError{err: themeSelectionError{Selected: name, Available: cfg.ThemeNames()}}
		}
		cfg.Theme = name
	}
	if keyMode != "" {
		if !ui.IsValidKeyMode(keyMode) {
			return usageErrorf("invalid --keymap %q (expected vim, emacs or function)", keyMode)
		}
		cfg.Keymap = keyMode
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return nil
}

// limitConfig validates --limit/--offset/--tail.
func limitConfig() (limiter.Config, error) {
	lc := limiter.Config{Limit: limitRecords, Offset: offsetRecords, Tail: tailRecords}
	if err := lc.Validate(); err != nil {
		return lc, usageError{err: err}
	}
	return lc, nil
}

// outputFormat resolves -o, falling back to the config's output setting.
func outputFormat() (formatter.Format, error) {
	name := output
	if name == "" {
		name = appConfig.Output
	}
	f, err := formatter.ParseFormat(name)
	if err != nil {
		return "", usageError{err: err}
	}
	return f, nil
}

// limitResult applies lc to a copy of res.
func limitResult(res *source.Result, lc limiter.Config) *source.Result {
	if res == nil || !lc.IsActive() {
		return res
	}
	out := *res
	out.Rows = limiter.Apply(lc, res.Rows)
	out.RowCount = len(out.Rows)
	return &out
}

func limitLoad(load ui.LoadFunc, lc limiter.Config) ui.LoadFunc {
	if load == nil || !lc.IsActive() {
		return load
	}
	return func(ctx context.Context) (*source.Result, error) {
		res, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return limitResult(res, lc), nil
	}
}

// catalogFromConfig returns the catalog named by --catalog/--project,
// falling back to the config's catalog section.
func catalogFromConfig() source.Catalog {
	c := source.Catalog{Root: appConfig.Catalog.Root, Project: appConfig.Catalog.Project}
	if catalogRoot != "" {
		c.Root = catalogRoot
	}
	if c.Root == "" {
		c.Root = "."
	}
	if projectID != "" {
		c.Project = projectID
	}
	return c
}
