package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/folio/internal/cli/formatter"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/importer"
	"github.com/spf13/cobra"
)

func newOrderExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:               "export [type...]",
		Short:             "Write the current order of content types as an order plan",
		ValidArgsFunction: completeContentTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			types := domain.ContentTypes
			if len(args) > 0 {
				types = nil
				for i := range args {
					ct, err := contentTypeArg(args, i)
					if err != nil {
						return err
					}
					types = append(types, ct)
				}
			}

			ctx := context.Background()
			lists := make(map[domain.ContentType][]domain.Item, len(types))
			for _, ct := range types {
				list, err := app.Orders.Load(ctx, ct)
				if err != nil {
					return err
				}
				lists[ct] = list.Snapshot()
			}
			plan := importer.NewOrderPlan(lists)

			if out == "" || out == "-" {
				return plan.Write(cmd.OutOrStdout())
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := plan.Write(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote order of %d content types to %s\n", len(types), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newOrderImportCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Apply an order plan, saving each content type in turn",
		Long: `Apply an order plan file ("-" reads stdin). Each content type is
saved with its own request. A failed type is reported and the rest are
still applied.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := importer.LoadOrderPlan(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if errs := importer.ValidateOrderPlan(plan); len(errs) > 0 {
				return fmt.Errorf("invalid order plan:\n%w", errors.Join(errs...))
			}

			out := cmd.OutOrStdout()
			entries := plan.Entries()
			if dryRun {
				for _, e := range entries {
					fmt.Fprintf(out, "%s: %d items\n", e.ContentType.Label(), len(e.IDs))
				}
				fmt.Fprintln(out, formatter.Dim("Plan is valid. Nothing was saved."))
				return nil
			}

			ctx := context.Background()
			var failed []error
			for _, e := range entries {
				res, err := app.Orders.SetOrder(ctx, e.ContentType, e.IDs)
				if err != nil {
					failed = append(failed, fmt.Errorf("%s: %w", e.ContentType, orderError(err)))
					fmt.Fprintf(out, "%s %s\n", formatter.StyleRed.Render("✗"), e.ContentType.Label())
					continue
				}
				if len(res.Changed) == 0 {
					fmt.Fprintf(out, "%s %s unchanged\n", formatter.Dim("·"), e.ContentType.Label())
				} else {
					fmt.Fprintf(out, "%s %s %s\n", formatter.StyleGreen.Render("✓"), e.ContentType.Label(), formatter.FormatChanges(res.Changed))
				}
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d of %d content types not saved:\n%w", len(failed), len(entries), errors.Join(failed...))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the plan without saving")
	return cmd
}
