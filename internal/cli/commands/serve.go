package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcode/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	NoBrowser bool
	Dev       bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web code view",
		Long: `Start a local web server showing every configured view.

Pages update live when a view is reloaded. With --watch, views read from
files reload when the file changes. Each view can be opened in a split
pane next to another.`,
		Example: `  # Start on the default port
  leapcode serve

  # Start on a custom port without opening a browser
  leapcode serve --port 3000 --no-browser`,
		Aliases: []string{"ui"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	// Read through the configuration as ui.port and ui.watch.
	cmd.Flags().Int("port", 0, "Port to serve on (default: 8766)")
	cmd.Flags().Bool("watch", true, "Reload file views when their file changes")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Enable browser hot reload")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd, false)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cmdCtx.LoadAll(cmd.Context()); err != nil {
		return err
	}

	uiCfg := cmdCtx.Cfg.UI
	server := ui.NewServer(ui.Config{
		Store:         cmdCtx.Store,
		Loader:        cmdCtx.Loader,
		Views:         cmdCtx.Cfg.Views,
		Port:          uiCfg.Port,
		Watch:         uiCfg.Watch,
		Dev:           opts.Dev,
		Style:         cmdCtx.Cfg.Render.Style,
		SessionSecret: os.Getenv("LEAPCODE_SESSION_SECRET"),
		Logger:        cmdCtx.Logger,
	})

	url := fmt.Sprintf("http://localhost:%d", uiCfg.Port)
	if !opts.NoBrowser {
		go openBrowser(url)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving %d view(s) on %s\n", len(cmdCtx.Cfg.Views), url)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
