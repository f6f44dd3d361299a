package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcode/internal/render"
	"github.com/leapstack-labs/leapcode/internal/tui"
)

// NewViewCommand creates the interactive view command.
func NewViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view [view]",
		Short: "Browse views in the terminal",
		Long: `Browse the configured views in an interactive terminal viewer.

Keys: n/p switch views, r reloads, s opens the current view in a split
pane, x closes it, tab moves focus, q quits.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeViewIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd, false)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cmdCtx.LoadAll(cmd.Context()); err != nil {
				return err
			}

			initial := ""
			if len(args) > 0 {
				initial = args[0]
			}
			out := cmd.OutOrStdout()
			return tui.Run(cmd.Context(), tui.Config{
				Store:    cmdCtx.Store,
				Loader:   cmdCtx.Loader,
				Views:    cmdCtx.Cfg.Views,
				Initial:  initial,
				Renderer: &render.Terminal{Style: cmdCtx.Cfg.Render.Style, Color: render.ColorEnabled(out)},
				Logger:   cmdCtx.Logger,
			})
		},
	}
}
