package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seatmap/pkg/config"
	"github.com/matzehuels/seatmap/pkg/editor"
	"github.com/matzehuels/seatmap/pkg/floor"
)

// editCommand opens the interactive floor-plan editor.
func (c *CLI) editCommand() *cobra.Command {
	var (
		guest bool
		grid  float64
		name  string
	)

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a layout interactively in the terminal",
		Long: `Open the interactive floor-plan editor.

Without an id the editor starts with an empty floor. Drag tables with the
mouse, zoom with the wheel, and press s to save; every save stores a new
layout. With --guest, or when no owner is configured, the plan is read-only.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, cfg, err := c.layoutStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			var opts []floor.Option
			if cmd.Flags().Changed("grid") {
				opts = append(opts, floor.WithGrid(grid))
			}
			session := editor.NewSession(editPrincipal(cfg, guest), st,
				editor.WithModel(floor.New(opts...)),
				editor.WithLayout("", name))
			if len(args) == 1 {
				if err := session.Load(ctx, args[0]); err != nil {
					return err
				}
			}
			loggerFromContext(ctx).Debug("starting editor", "principal", session.Principal(), "layout", session.LayoutID())

			final, err := runEditor(ctx, cmd, session)
			if err != nil {
				return err
			}
			if final.fatal != nil {
				return final.fatal
			}
			if final.saveCount > 0 {
				printSuccess(cmd.OutOrStdout(), "Saved %d time(s)", final.saveCount)
				printKeyValue(cmd.OutOrStdout(), "id", session.LayoutID())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&guest, "guest", false, "open read-only as a guest")
	cmd.Flags().Float64Var(&grid, "grid", 0, "snap tables to a grid of this size (0 selects 20)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "name for new layouts")
	return cmd
}

func editPrincipal(cfg *config.Config, guest bool) editor.Principal {
	if guest || cfg.Owner == "" {
		return editor.Guest{}
	}
	return editor.ClubOwner{ID: cfg.Owner}
}

func runEditor(ctx context.Context, cmd *cobra.Command, session *editor.Session) (editorModel, error) {
	p := tea.NewProgram(newEditorModel(ctx, session),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, err := p.Run()
	if err != nil {
		return editorModel{}, err
	}
	return final.(editorModel), nil
}
