package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcode/internal/render"
	"github.com/leapstack-labs/leapcode/pkg/core"
	"github.com/leapstack-labs/leapcode/pkg/frame"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "tables [view]",
		Short: "List the result tables of a view",
		Long: `List the result tables of a view with their code flag, language,
columns and row count. The table the code view displays is marked
with an asterisk.`,
		Example: `  leapcode tables snippet
  leapcode tables --file results.yaml`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeViewIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd, false)
			if err != nil {
				return err
			}
			defer cleanup()

			var tables []core.ResultTable
			if file != "" {
				tables, err = frame.LoadFile(file)
				if err != nil {
					return err
				}
			} else {
				viewID, err := resolveViewID(cmdCtx.Cfg, args)
				if err != nil {
					return err
				}
				if err := cmdCtx.LoadView(cmd.Context(), viewID); err != nil {
					return err
				}
				snap, _ := cmdCtx.Store.Snapshot(viewID)
				tables = snap.Tables
			}

			out := cmd.OutOrStdout()
			render.Tables(out, tables, codeOptions(cmdCtx.Cfg, cmdCtx.Logger), render.ColorEnabled(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read result tables from a YAML or JSON file")

	return cmd
}
