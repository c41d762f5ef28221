package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seatmap/pkg/document"
)

// saveCommand stores a layout file as a new layout.
func (c *CLI) saveCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save [layout.json]",
		Short: "Store a layout file as a new layout",
		Long: `Store a layout file as a new layout for the configured owner.

The file holds {"name": ..., "tables": [...]} or a full exported layout.
Every save creates a new layout with a new id; nothing is overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			draft, err := document.ReadDraftFile(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				draft.Name = name
			}

			st, cfg, err := c.layoutStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			owner, err := requireOwner(cfg)
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(ctx))
			var id string
			err = withSpinner(ctx, cmd.ErrOrStderr(), "Saving layout", func(ctx context.Context) error {
				id, err = st.Save(ctx, owner, draft.Name, draft.Tables)
				return err
			})
			if err != nil {
				return err
			}
			prog.done("saved layout", "id", id, "tables", len(draft.Tables))

			out := cmd.OutOrStdout()
			printSuccess(out, "Saved %d tables", len(draft.Tables))
			printKeyValue(out, "id", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "layout name (default: name in the file, or today's date)")
	return cmd
}

// loadCommand exports a stored layout as JSON.
func (c *CLI) loadCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "load [id]",
		Short: "Export a stored layout as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, _, err := c.layoutStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			doc, err := st.Load(ctx, args[0])
			if err != nil {
				return err
			}

			if output == "" {
				data, err := document.Marshal(doc)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := document.WriteFile(doc, output); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Exported %q (%d tables)", doc.Name, len(doc.Tables))
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

// listCommand lists the owner's layouts.
func (c *CLI) listCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the owner's layouts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, cfg, err := c.layoutStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			owner, err := requireOwner(cfg)
			if err != nil {
				return err
			}

			list, err := st.List(ctx, owner)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case plain:
				for _, s := range list {
					fmt.Fprintf(out, "%s\t%s\t%d\n", s.ID, s.Name, s.Tables)
				}
			case len(list) == 0:
				printInfo(out, "No layouts for %s", owner)
			default:
				fmt.Fprintln(out, renderSummaries(list))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print tab-separated id, name and table count")
	return cmd
}

// deleteCommand removes a layout.
func (c *CLI) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete one of the owner's layouts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, cfg, err := c.layoutStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			owner, err := requireOwner(cfg)
			if err != nil {
				return err
			}
			if err := st.Delete(ctx, owner, args[0]); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Deleted %s", args[0])
			return nil
		},
	}
}
