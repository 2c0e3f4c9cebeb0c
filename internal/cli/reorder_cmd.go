package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

func newReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:               "reorder <type>",
		Short:             "Rearrange a content list interactively",
		Long:              "Opens a full-screen list. Move items with the keyboard or drag them with the mouse, then press s to save.",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeContentTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := contentTypeArg(args, 0)
			if err != nil {
				return err
			}
			if !app.interactive() {
				return errors.New("reorder needs a terminal; use `folio order set` or `folio order move` instead")
			}
			list, err := app.Orders.Load(context.Background(), ct)
			if err != nil {
				return err
			}
			return app.run(newAppModel(app, list))
		},
	}
}
