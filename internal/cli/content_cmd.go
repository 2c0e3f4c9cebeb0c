package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/folio/internal/cli/formatter"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/spf13/cobra"
)

func newCreateCmd(app *App) *cobra.Command {
	var payload payloadFlags

	cmd := &cobra.Command{
		Use:   "create <resource> --data JSON",
		Short: "Create a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, app, domain.ActionCreate, args[0], "", &payload)
		},
	}
	payload.register(cmd.Flags())
	return cmd
}

func newUpdateCmd(app *App) *cobra.Command {
	var payload payloadFlags

	cmd := &cobra.Command{
		Use:   "update <resource> <id> --data JSON",
		Short: "Update a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, app, domain.ActionUpdate, args[0], args[1], &payload)
		},
	}
	payload.register(cmd.Flags())
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, app, domain.ActionDelete, args[0], args[1], nil)
		},
	}
}

func dispatch(cmd *cobra.Command, app *App, action domain.CommandAction, resource, id string, payload *payloadFlags) error {
	res, err := domain.ParseResource(resource)
	if err != nil {
		return err
	}
	c := domain.Command{Action: action, Resource: res, ID: id}
	if payload != nil {
		if c.Payload, err = payload.read(cmd.InOrStdin()); err != nil {
			return err
		}
	}

	out, err := app.Content.Dispatch(context.Background(), c)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if action == domain.ActionDelete {
		fmt.Fprintf(w, "Deleted %s %s\n", res, id)
		return nil
	}
	return printJSON(w, out)
}

func newGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <resource> <id>",
		Short: "Print one record as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := domain.ParseResource(args[0])
			if err != nil {
				return err
			}
			raw, err := app.Content.Get(context.Background(), res, args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:               "show <type> <id>",
		Short:             "Show a content item with its description rendered",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeContentTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := contentTypeArg(args, 0)
			if err != nil {
				return err
			}
			it, err := app.Content.Item(context.Background(), ct, args[1])
			if err != nil {
				return err
			}
			out, err := formatter.FormatItem(ct, it, width, app.MarkdownStyle)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 80, "Wrap width for the description")
	return cmd
}

func newUploadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload an image or document and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Content.Upload(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.URL)
			return nil
		},
	}
}
