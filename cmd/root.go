package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/cellgrid/internal/config"
	"github.com/oakwood-commons/cellgrid/internal/ui"
	"github.com/oakwood-commons/cellgrid/pkg/loader"
	"github.com/oakwood-commons/cellgrid/pkg/logger"
	"github.com/oakwood-commons/cellgrid/pkg/settings"
	"github.com/oakwood-commons/cellgrid/pkg/source"
)

// errShowHelp is returned when no input is provided and help should be shown.
var errShowHelp = errors.New("no input provided")

var (
	// Global flags
	configFile string
	themeName  string
	keyMode    string // empty = use config, "vim"/"emacs"/"function" = override
	noColor    bool
	debug      bool
	logFile    string

	// Display flags shared by root, query, preview and tables
	interactive    bool
	output         string
	renderSnapshot bool
	startKeys      []string
	snapshotWidth  int
	snapshotHeight int
	limitRecords   int
	offsetRecords  int
	tailRecords    int
	rowNumbers     bool

	// Root-only flags
	watchFile bool
	sheetName string

	// Catalog flags for query, preview and tables
	catalogRoot string
	projectID   string

	configOutput string // for configCmd (default: yaml)
)

var (
	stdinIsPiped  = func() bool { stat, _ := os.Stdin.Stat(); return (stat.Mode() & os.ModeCharDevice) == 0 }
	stdoutIsPiped = func() bool { stat, _ := os.Stdout.Stat(); return (stat.Mode() & os.ModeCharDevice) == 0 }
)

// appConfig is the merged configuration for the current run.
var appConfig config.Config

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName + " [file]",
	Short: "cellgrid - spreadsheet-style viewer for tabular data and query results",
	Long: `cellgrid loads CSV, TSV, JSON, NDJSON, YAML, TOML and XLSX data as a grid.

By default the grid is printed (-o table|csv|tsv|json|yaml|markdown|html).
With -i it opens an interactive viewer: drag or shift+arrow to select a
rectangle of cells, ctrl+c to copy it as tab-separated text, click a header to
select the column, click a link to open it.`,
	Example: "\n  cellgrid people.csv\n  cellgrid people.csv -i\n  cellgrid book.xlsx --sheet Q3 -o markdown\n  cat events.ndjson | cellgrid --tail 20\n  cellgrid query 'table(\"shop.orders\").filter(o, o.total > 100.0)' -i\n",
	Args:    cobra.MaximumNArgs(1),
	Version: cliVersionString(),
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupRun(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchFile && len(args) == 0 {
			return usageErrorf("--watch requires a file argument")
		}
		title, load, err := inputLoader(cmd, args)
		if errors.Is(err, errShowHelp) {
			return cmd.Help()
		}
		if err != nil {
			return err
		}
		watchPath := ""
		if watchFile {
			watchPath = args[0]
		}
		return present(cmd, presentation{
			title:     title,
			load:      load,
			watchPath: watchPath,
			catalog:   catalogFromConfig(),
		})
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// setupRun loads the config, validates global flags and installs the
// logger and run settings on the command context.
func setupRun(cmd *cobra.Command) error {
	path := config.ResolvePath(configFile)
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := applyFlagOverrides(&cfg, cmd); err != nil {
		return err
	}
	appConfig = cfg

	run := settings.NewCliParams()
	run.ConfigFile = path
	run.NoColor = noColor
	run.Interactive = interactive && !renderSnapshot
	run.LogFile = logFile
	if run.LogFile == "" {
		run.LogFile = cfg.LogFile
	}
	if debug {
		run.MinLogLevel = -1
	}

	// The TUI owns the terminal; without a log file its logs are dropped.
	lgr, err := logger.Setup(logger.Options{
		Level: run.MinLogLevel,
		Path:  run.LogFile,
		Quiet: run.Interactive,
	})
	if err != nil {
		return err
	}
	lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = settings.IntoContext(ctx, run)
	cmd.SetContext(logger.WithLogger(ctx, lgr))
	return nil
}

// inputLoader resolves the root command's data source: a file argument or
// piped stdin. Stdin is read once so reloads replay the same data.
func inputLoader(cmd *cobra.Command, args []string) (string, ui.LoadFunc, error) {
	if len(args) == 1 {
		path := args[0]
		settings.RunFromContext(cmd.Context()).Input.Path = path
		return filepath.Base(path), func(context.Context) (*source.Result, error) {
			t, err := loadTable(path)
			if err != nil {
				return nil, err
			}
			return source.ResultFromTable(t), nil
		}, nil
	}
	if !stdinIsPiped() {
		return "", nil, errShowHelp
	}
	if sheetName != "" {
		return "", nil, usageErrorf("--sheet requires an xlsx file argument")
	}
	settings.RunFromContext(cmd.Context()).Input.FromStdin = true
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", nil, fmt.Errorf("read stdin: %w", err)
	}
	t, err := loader.LoadData(string(data))
	if err != nil {
		return "", nil, fmt.Errorf("stdin: %w", err)
	}
	return "stdin", func(context.Context) (*source.Result, error) {
		return source.ResultFromTable(t), nil
	}, nil
}

func loadTable(path string) (loader.Table, error) {
	if sheetName != "" {
		if loader.FormatForPath(path) != loader.FormatXLSX {
			return loader.Table{}, usageErrorf("--sheet requires an xlsx file, got %s", filepath.Base(path))
		}
		return loader.LoadSheet(path, sheetName)
	}
	return loader.LoadFile(path)
}

func addGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&configFile, "config-file", "", "path to a YAML config file (themes, keymap, catalog)")
	pf.StringVar(&themeName, "theme", "", "theme name (default from config; see 'cellgrid config themes')")
	pf.StringVar(&keyMode, "keymap", "", "keybinding mode: vim (default), emacs, or function")
	pf.BoolVar(&noColor, "no-color", false, "disable color output")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.StringVar(&logFile, "log-file", "", "write JSON logs to this file (required to see logs from the interactive viewer)")
}

func addDisplayFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVarP(&interactive, "interactive", "i", false, "open the interactive grid viewer")
	f.StringVarP(&output, "output", "o", "", "output format: table|csv|tsv|json|yaml|markdown|html (default from config)")
	f.BoolVar(&renderSnapshot, "snapshot", false, "render a single viewer frame and exit; honors --width/--height and --press")
	f.StringArrayVar(&startKeys, "press", nil, "Simulate input on startup. Use <Key> for special keys (e.g. <S-Down>, <C-a>, <C-c>, <F6>) and <Click:x,y>, <Drag:x,y>, <Release> for the pointer")
	f.IntVar(&snapshotWidth, "width", 0, "Output width in columns (affects formatting and viewer layout)")
	f.IntVar(&snapshotHeight, "height", 0, "Output height in rows (affects viewer layout)")
	f.IntVar(&limitRecords, "limit", 0, "Limit total number of rows displayed")
	f.IntVar(&offsetRecords, "offset", 0, "Skip the first N rows")
	f.IntVar(&tailRecords, "tail", 0, "Show the last N rows (mutually exclusive with --limit; ignores --offset)")
	f.BoolVar(&rowNumbers, "row-numbers", false, "show a row number column")
}

func addCatalogFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&catalogRoot, "catalog", "", "catalog root directory of <dataset>/<table>.<ext> files (default from config)")
	f.StringVar(&projectID, "project", "", "project id that table ids and queries must agree with")
}

func init() { //nolint:gochecknoinits
	addGlobalFlags(rootCmd)
	addDisplayFlags(rootCmd)
	rootCmd.Flags().BoolVar(&watchFile, "watch", false, "reload the grid when the file changes (interactive only)")
	rootCmd.Flags().StringVar(&sheetName, "sheet", "", "sheet to load from an xlsx workbook (default: first sheet)")
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	for _, c := range []*cobra.Command{queryCmd, previewCmd, tablesCmd, functionsCmd} {
		addDisplayFlags(c)
		addCatalogFlags(c)
		rootCmd.AddCommand(c)
	}

	configCmd.Flags().BoolVar(&showDefaults, "defaults", false, "print the embedded default config (a starting point for a config file)")
	configCmd.PersistentFlags().StringVarP(&configOutput, "output", "o", "yaml", "output format: yaml|json")
	configCmd.AddCommand(configThemesCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}
