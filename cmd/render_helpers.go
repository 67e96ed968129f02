package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/cellgrid/internal/formatter"
	"github.com/oakwood-commons/cellgrid/internal/ui"
	"github.com/oakwood-commons/cellgrid/pkg/logger"
	"github.com/oakwood-commons/cellgrid/pkg/settings"
	"github.com/oakwood-commons/cellgrid/pkg/source"
	"github.com/oakwood-commons/cellgrid/pkg/tui"
)

// presentation describes one grid to print, snapshot or open.
type presentation struct {
	title     string
	load      ui.LoadFunc
	watchPath string
	catalog   source.Catalog
	// query seeds the viewer's query bar instead of calling load.
	query string
}

type snapshotSize struct {
	Width  int
	Height int
}

// resolveSnapshotSize prefers explicit flags, then the detected terminal,
// then 80x24.
func resolveSnapshotSize(flagWidth, flagHeight, detectedWidth, detectedHeight int) snapshotSize {
	width := flagWidth
	if width <= 0 {
		width = detectedWidth
	}
	if width <= 0 {
		width = 80
	}
	height := flagHeight
	if height <= 0 {
		height = detectedHeight
	}
	if height <= 0 {
		height = 24
	}
	return snapshotSize{Width: width, Height: height}
}

// present routes a grid to the interactive viewer, a snapshot frame or
// printed output according to the display flags.
func present(cmd *cobra.Command, p presentation) error {
	lc, err := limitConfig()
	if err != nil {
		return err
	}
	format, err := outputFormat()
	if err != nil {
		return err
	}
	if p.watchPath != "" && !interactive {
		return usageErrorf("--watch requires -i")
	}

	ctx := cmd.Context()
	lgr := logger.WithValues(logger.FromContext(ctx), logger.SourceKey, settings.RunFromContext(ctx).Input.Source())
	cfg := viewerConfig(p)
	formatter.SetTableTheme(cfg.ResolveTheme().TableColors())

	switch {
	case renderSnapshot:
		res, err := p.load(ctx)
		if err != nil {
			return err
		}
		detectedW, detectedH := tui.DetectTerminalSize()
		size := resolveSnapshotSize(snapshotWidth, snapshotHeight, detectedW, detectedH)
		cfg.Width, cfg.Height = size.Width, size.Height
		lgr.V(1).Info("render snapshot", "width", size.Width, "height", size.Height, "keys", len(startKeys))
		_, err = fmt.Fprint(cmd.OutOrStdout(), tui.RenderSnapshot(limitResult(res, lc), cfg))
		return err

	case interactive:
		if p.query != "" {
			cfg.InitialQuery = p.query
		} else {
			cfg.Load = limitLoad(p.load, lc)
		}
		cfg.WatchPath = p.watchPath
		cfg.Width, cfg.Height = snapshotWidth, snapshotHeight
		opts, cleanup := getProgramOptions()
		defer cleanup()
		lgr.V(1).Info("start viewer", "title", p.title, "keymap", cfg.KeyMode, "watch", p.watchPath)
		return tui.Run(ctx, nil, cfg, opts...)
	}

	res, err := p.load(ctx)
	if err != nil {
		return err
	}
	res = limitResult(res, lc)
	lgr.V(1).Info("print grid", "format", string(format), "rows", len(res.Rows), "cols", len(res.Columns))
	return printResult(cmd.OutOrStdout(), res, format)
}

// viewerConfig maps the merged config and flags onto the viewer settings.
func viewerConfig(p presentation) tui.Config {
	cfg := tui.FromSettings(appConfig)
	cfg.Title = p.title
	cfg.NoColor = noColor
	cfg.RowNumbers = rowNumbers
	cfg.StartKeys = startKeys
	cfg.Logger = *logger.GetGlobalLogger()

	previewer := source.NewPreviewer(p.catalog)
	previewer.Limit = appConfig.PreviewRows()
	cfg.Executor = source.NewCELExecutor(p.catalog)
	cfg.Previewer = previewer
	cfg.ProjectID = p.catalog.Project
	return cfg
}

// printResult writes res to w in the given format.
func printResult(w io.Writer, res *source.Result, format formatter.Format) error {
	g, err := res.Grid()
	if err != nil {
		return err
	}
	out, err := formatter.Render(g, formatter.Options{
		Format: format,
		Table: formatter.TableOptions{
			NoColor:    noColor || stdoutIsPiped(),
			TotalWidth: snapshotWidth,
			RowNumbers: rowNumbers,
		},
	})
	if err != nil {
		return err
	}
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err = io.WriteString(w, out)
	return err
}
