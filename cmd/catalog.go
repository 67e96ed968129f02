package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/cellgrid/internal/cel"
	"github.com/oakwood-commons/cellgrid/pkg/settings"
	"github.com/oakwood-commons/cellgrid/pkg/source"
)

var queryCmd = &cobra.Command{
	Use:   "query <expr>",
	Short: "Run a CEL query over the catalog",
	Long: `Run a CEL query over the table catalog and show the result as a grid.

Inside a query, table("dataset.table") yields a table's rows as a list of
maps and "_" lists every table id. A list of maps becomes one row per map.`,
	Example: "\n  cellgrid query 'table(\"shop.orders\")' --catalog ./data\n  cellgrid query 'table(\"shop.orders\").filter(o, o.total > 100.0)' -o csv\n  cellgrid query '_' -i\n",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expr := strings.TrimSpace(args[0])
		if expr == "" {
			return usageErrorf("query expression is empty")
		}
		catalog := catalogFromConfig()
		exec := source.NewCELExecutor(catalog)
		return present(cmd, presentation{
			title:   expr,
			catalog: catalog,
			query:   expr,
			load: func(ctx context.Context) (*source.Result, error) {
				return exec.Execute(ctx, expr, catalog.Project)
			},
		})
	},
}

var previewCmd = &cobra.Command{
	Use:     "preview <table-id>",
	Short:   "Show the first rows of a catalog table",
	Example: "\n  cellgrid preview shop.orders\n  cellgrid preview acme.shop.orders --project acme -i\n  cellgrid preview finance.book.Q3\n",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		settings.RunFromContext(cmd.Context()).Input.TableID = id
		catalog := catalogFromConfig()
		previewer := source.NewPreviewer(catalog)
		previewer.Limit = appConfig.PreviewRows()
		return present(cmd, presentation{
			title:   id,
			catalog: catalog,
			load: func(ctx context.Context) (*source.Result, error) {
				return previewer.Preview(ctx, id)
			},
		})
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the table ids in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		catalog := catalogFromConfig()
		return present(cmd, presentation{
			title:   "tables",
			catalog: catalog,
			load: func(ctx context.Context) (*source.Result, error) {
				ids, err := catalog.Tables(ctx)
				if err != nil {
					return nil, err
				}
				res := &source.Result{Columns: []string{"table_id"}, Rows: make([][]string, 0, len(ids))}
				for _, id := range ids {
					res.Rows = append(res.Rows, []string{id})
				}
				res.RowCount = len(res.Rows)
				return res, nil
			},
		})
	},
}

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the functions and macros available in queries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return present(cmd, presentation{
			title:   "functions",
			catalog: catalogFromConfig(),
			load: func(context.Context) (*source.Result, error) {
				names, err := cel.Functions(cel.WithTables(func(string) ([]any, error) { return nil, nil }))
				if err != nil {
					return nil, err
				}
				res := &source.Result{Columns: []string{"function"}, Rows: make([][]string, 0, len(names))}
				for _, name := range names {
					res.Rows = append(res.Rows, []string{name})
				}
				res.RowCount = len(res.Rows)
				return res, nil
			},
		})
	},
}
