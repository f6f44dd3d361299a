package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcode/internal/cli/config"
	"github.com/leapstack-labs/leapcode/internal/render"
	"github.com/leapstack-labs/leapcode/pkg/codeview"
	"github.com/leapstack-labs/leapcode/pkg/frame"
)

// ShowOptions holds options for the show command.
type ShowOptions struct {
	File string
}

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	opts := &ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show [view]",
		Short: "Show the code of a view",
		Long: `Load a view and display its code.

The first result table flagged as code is selected, its first value is
decoded as text, and the text is highlighted for the table's language.
Views without a code table print a notice instead.`,
		Example: `  # Show the only configured view
  leapcode show

  # Show a named view as HTML
  leapcode show snippet --format html

  # Show a tables file without a project
  leapcode show --file results.yaml --format json`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeViewIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Read result tables from a YAML or JSON file")

	return cmd
}

func runShow(cmd *cobra.Command, args []string, opts *ShowOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd, false)
	if err != nil {
		return err
	}
	defer cleanup()

	var state codeview.RenderState
	if opts.File != "" {
		tables, err := frame.LoadFile(opts.File)
		if err != nil {
			return err
		}
		state = codeview.Prepare(tables, codeOptions(cmdCtx.Cfg, cmdCtx.Logger))
	} else {
		viewID, err := resolveViewID(cmdCtx.Cfg, args)
		if err != nil {
			return err
		}
		if err := cmdCtx.LoadView(cmd.Context(), viewID); err != nil {
			return err
		}
		state = cmdCtx.Store.Prepare(viewID)
	}

	return writeState(cmd.OutOrStdout(), cmdCtx.Cfg, state)
}

// writeState writes state in the configured output format.
func writeState(w io.Writer, cfg *config.Config, state codeview.RenderState) error {
	switch cfg.Format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	case config.FormatHTML:
		if err := (&render.HTML{Style: cfg.Render.Style}).Render(w, state); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	default:
		return render.NewTerminal(w, cfg.Render.Style, cfg.Render.Width).Render(w, state)
	}
}
