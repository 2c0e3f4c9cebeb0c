package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/folio/internal/cli/formatter"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/reorder"
	"github.com/alexanderramin/folio/internal/service"
	"github.com/spf13/cobra"
)

func newOrderCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Inspect and change display order",
	}
	cmd.AddCommand(
		newOrderShowCmd(app),
		newOrderMoveCmd(app),
		newOrderSetCmd(app),
		newOrderHistoryCmd(app),
		newOrderExportCmd(app),
		newOrderImportCmd(app),
	)
	return cmd
}

func newOrderShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:               "show <type>",
		Short:             "Show the current order of a content type",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeContentTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := contentTypeArg(args, 0)
			if err != nil {
				return err
			}
			list, err := app.Orders.Load(context.Background(), ct)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOrder(ct, list.Snapshot()))
			return nil
		},
	}
}

func newOrderMoveCmd(app *App) *cobra.Command {
	var from, to int

	cmd := &cobra.Command{
		Use:               "move <type> --from N --to M",
		Short:             "Move one item and save the new order",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeContentTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := contentTypeArg(args, 0)
			if err != nil {
				return err
			}
			if from < 1 || to < 1 {
				return errors.New("--from and --to are 1-based positions")
			}
			res, err := app.Orders.Move(context.Background(), ct, from-1, to-1)
			if err != nil {
				return orderError(err)
			}
			reportOrder(cmd, ct, res)
			return nil
		},
	}

	cmd.Flags().IntVar(&from, "from", 0, "Current 1-based position")
	cmd.Flags().IntVar(&to, "to", 0, "New 1-based position (clamped to the list)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newOrderSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:               "set <type> <id>...",
		Short:             "Save a complete order given as item ids",
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: completeContentTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := contentTypeArg(args, 0)
			if err != nil {
				return err
			}
			res, err := app.Orders.SetOrder(context.Background(), ct, args[1:])
			if err != nil {
				return orderError(err)
			}
			reportOrder(cmd, ct, res)
			return nil
		},
	}
}

func newOrderHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:               "history [type]",
		Short:             "Show recent order saves",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeContentTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *domain.ContentType
			if len(args) == 1 {
				ct, err := contentTypeArg(args, 0)
				if err != nil {
					return err
				}
				filter = &ct
			}
			recs, err := app.Orders.History(context.Background(), filter, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(recs, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries")
	return cmd
}

func reportOrder(cmd *cobra.Command, ct domain.ContentType, res service.OrderResult) {
	out := cmd.OutOrStdout()
	if len(res.Changed) == 0 {
		fmt.Fprintln(out, formatter.Dim("Order unchanged, nothing saved."))
	} else {
		fmt.Fprintln(out, formatter.StyleGreen.Render("Saved. ")+formatter.FormatChanges(res.Changed))
	}
	fmt.Fprint(out, formatter.FormatOrder(ct, res.List.Snapshot()))
}

func orderError(err error) error {
	var ce *reorder.CommitError
	if errors.As(err, &ce) {
		return fmt.Errorf("order not saved, nothing changed on the server: %w", ce.Err)
	}
	return err
}
