package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mahabbalab/mahabba-server/internal/dataset"
	"github.com/mahabbalab/mahabba-server/internal/service"
)

// maxParallelViews bounds concurrent runs for inspect --all. Each run reads
// the dataset on its own.
const maxParallelViews = 4

func newColumnsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "Show the dataset headers and the role each one serves",
		Long: `Reads only the header row and reports which column was detected for each
role (genre, era, score, title, author, identifier, year) under the view's
candidate names. Missing required roles are listed, not treated as an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := a.atlas.Columns(cmd.Context(), a.view)
			if err != nil {
				return err
			}
			renderColumns(a.out, report)
			return nil
		},
	}
}

func newInspectCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Run a view and print stage counts and a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all {
				return a.inspectAll(cmd.Context())
			}

			atlas, err := a.atlas.Run(cmd.Context(), a.view)
			if err != nil {
				return err
			}
			renderInspect(a.out, atlas)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Inspect every configured view")

	return cmd
}

// inspectAll runs every view, prints the successful ones in configuration
// order and a diagnostic for each failure.
func (a *app) inspectAll(ctx context.Context) error {
	views := a.atlas.Views()
	atlases := make([]*service.Atlas, len(views))
	errs := make([]error, len(views))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelViews)
	for i, v := range views {
		g.Go(func() error {
			// Failures are per view; siblings keep running.
			atlases[i], errs[i] = a.atlas.Run(gctx, v.Name)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, v := range views {
		if errs[i] != nil {
			failed++
			fmt.Fprintf(a.errOut, "view %s failed\n", v.Name)
			printError(a.errOut, errs[i])
			continue
		}
		renderInspect(a.out, atlases[i])
		fmt.Fprintln(a.out)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d views failed", failed, len(views))
	}
	return nil
}

func newSeriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "series",
		Short: "Print the pooled and per-genre century series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			atlas, err := a.atlas.Run(cmd.Context(), a.view)
			if err != nil {
				return err
			}
			renderSeries(a.out, atlas)
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the canonical records of a view as CSV to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.atlas.Records(cmd.Context(), a.view)
			if err != nil {
				return err
			}
			return dataset.WriteRecords(a.out, res.Records)
		},
	}
}
