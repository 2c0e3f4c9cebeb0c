package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/folio/internal/cli/formatter"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/service"
	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list [type|resource]",
		Short: "List content in display order, or every type with --all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()
			if all {
				sums, err := app.Orders.Overview(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatOverview(sums))
				return nil
			}
			if len(args) == 0 {
				return errors.New("name a content type or resource, or pass --all")
			}

			if ct, err := domain.ParseContentType(args[0]); err == nil {
				list, err := app.Orders.Load(ctx, ct)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatOrder(ct, list.Working()))
				return nil
			}
			res, err := domain.ParseResource(args[0])
			if err != nil {
				return err
			}
			raw, err := app.Content.List(ctx, res)
			if err != nil {
				return err
			}
			return printJSON(out, raw)
		},
		ValidArgsFunction: completeContentTypes,
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Summarize every content type")
	return cmd
}

func formatOverview(sums []service.TypeSummary) string {
	rows := make([][]string, 0, len(sums))
	total := 0
	for _, s := range sums {
		rows = append(rows, []string{
			s.ContentType.Label(),
			fmt.Sprintf("%d", s.Total),
			fmt.Sprintf("%d", s.Active),
		})
		total += s.Total
	}
	return formatter.Header("Content") + "\n" +
		formatter.RenderTable([]string{"TYPE", "ITEMS", "ACTIVE"}, rows) +
		formatter.Dim(fmt.Sprintf("%d items total", total)) + "\n"
}
