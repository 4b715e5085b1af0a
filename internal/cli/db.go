package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/deppfellow/employer-api/internal/config"
	"github.com/deppfellow/employer-api/internal/database"
	"github.com/deppfellow/employer-api/internal/errs"
	"github.com/deppfellow/employer-api/internal/logger"
	"github.com/deppfellow/employer-api/internal/sqlerr"
	"github.com/spf13/cobra"
)

type dbOptions struct {
	output   string
	set      []string
	where    []string
	columns  []string
	idColumn string
	one      bool
	yes      bool
}

// newDBCommand exposes every helper operation for operators. TABLE is a
// catalog key of the selected database or a schema-qualified name; it is
// used verbatim in the SQL text.
func newDBCommand() *cobra.Command {
	opts := &dbOptions{}

	cmd := &cobra.Command{
		Use:   "db",
		Short: "Run one statement against the configured database",
	}
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputYAML, "output format: yaml or json")

	insert := &cobra.Command{
		Use:   "insert TABLE --set col=value...",
		Short: "Insert a row and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseAssignments("set", opts.set)
			if err != nil {
				return err
			}
			return withHelper(cmd.Context(), func(h *database.Helper, table func(string) string) error {
				id, err := h.Insert(cmd.Context(), table(args[0]), data, opts.idColumn)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), opts.output, map[string]any{opts.idColumn: id})
			})
		},
	}
	insert.Flags().StringArrayVar(&opts.set, "set", nil, "column=value to insert (repeatable)")
	insert.Flags().StringVar(&opts.idColumn, "id-column", "id", "column returned for the new row")

	update := &cobra.Command{
		Use:   "update TABLE --set col=value... --where col=value...",
		Short: "Update matching rows and print the affected count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseAssignments("set", opts.set)
			if err != nil {
				return err
			}
			condition, err := parseAssignments("where", opts.where)
			if err != nil {
				return err
			}
			return withHelper(cmd.Context(), func(h *database.Helper, table func(string) string) error {
				n, err := h.Update(cmd.Context(), table(args[0]), data, condition)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), opts.output, map[string]int64{"rows_affected": n})
			})
		},
	}
	update.Flags().StringArrayVar(&opts.set, "set", nil, "column=value to assign (repeatable)")
	update.Flags().StringArrayVar(&opts.where, "where", nil, "column=value to match (repeatable, AND-ed)")

	del := &cobra.Command{
		Use:   "delete TABLE --where col=value...",
		Short: "Delete matching rows and print the affected count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			condition, err := parseAssignments("where", opts.where)
			if err != nil {
				return err
			}
			return withHelper(cmd.Context(), func(h *database.Helper, table func(string) string) error {
				n, err := h.Delete(cmd.Context(), table(args[0]), condition)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), opts.output, map[string]int64{"rows_affected": n})
			})
		},
	}
	del.Flags().StringArrayVar(&opts.where, "where", nil, "column=value to match (repeatable, AND-ed)")

	sel := &cobra.Command{
		Use:   "select TABLE [--columns a,b] [--where col=value...] [--one]",
		Short: "Print matching rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			condition, err := parseAssignments("where", opts.where)
			if err != nil {
				return err
			}
			return withHelper(cmd.Context(), func(h *database.Helper, table func(string) string) error {
				if opts.one {
					row, err := h.SelectOne(cmd.Context(), table(args[0]), opts.columns, condition)
					if err != nil {
						return err
					}
					if row == nil {
						return writeOutput(cmd.OutOrStdout(), opts.output, nil)
					}
					labeled := labelRows(opts.columns, []database.Row{row})
					return writeOutput(cmd.OutOrStdout(), opts.output, first(labeled))
				}

				rows, err := h.SelectAll(cmd.Context(), table(args[0]), opts.columns, condition)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), opts.output, labelRows(opts.columns, rows))
			})
		},
	}
	sel.Flags().StringSliceVar(&opts.columns, "columns", nil, "columns to return (default all)")
	sel.Flags().StringArrayVar(&opts.where, "where", nil, "column=value to match (repeatable, AND-ed)")
	sel.Flags().BoolVar(&opts.one, "one", false, "return only the first matching row")

	truncate := &cobra.Command{
		Use:   "truncate TABLE --yes",
		Short: "Remove every row of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.yes {
				return errors.New("truncate removes every row; pass --yes to confirm")
			}
			return withHelper(cmd.Context(), func(h *database.Helper, table func(string) string) error {
				if err := h.Truncate(cmd.Context(), table(args[0])); err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), opts.output, map[string]string{"truncated": table(args[0])})
			})
		},
	}
	truncate.Flags().BoolVar(&opts.yes, "yes", false, "confirm truncation")

	cmd.AddCommand(insert, update, del, sel, truncate)
	return cmd
}

func first(labeled any) any {
	switch rows := labeled.(type) {
	case [][]any:
		return rows[0]
	case []map[string]any:
		return rows[0]
	}
	return labeled
}

// withHelper loads configuration, opens the pool, runs fn and closes the
// pool. Logs go to stderr so stdout carries only the result. An
// unreachable database fails the command before fn runs.
func withHelper(ctx context.Context, fn func(h *database.Helper, table func(string) string) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewStderrLogger(cfg.Observability)

	pool, err := database.NewPool(cfg, &log, nil)
	if err != nil {
		return err
	}
	defer pool.Shutdown()

	if err := pool.Initialize(ctx); err != nil {
		return err
	}

	helper := database.NewHelper(pool, &log, cfg.Observability.Logging.SlowQueryThreshold)
	return explain(fn(helper, cfg.Database.Table))
}

// explain puts the readable form of a rejected statement in front of the
// raw error, e.g. "The Employer Name is required (CV_EMPLOYER_DETAIL_REQUIRED)".
// The original chain is kept.
func explain(err error) error {
	if !database.IsStatementError(err) {
		return err
	}

	var httpErr *errs.HTTPError
	if !errors.As(sqlerr.HandleError(err), &httpErr) || httpErr.Status == http.StatusInternalServerError {
		return err
	}
	return fmt.Errorf("%s (%s): %w", httpErr.Message, httpErr.Code, err)
}
