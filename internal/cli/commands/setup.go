package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcode/internal/cli/config"
	"github.com/leapstack-labs/leapcode/internal/store"
	"github.com/leapstack-labs/leapcode/pkg/adapter"
	"github.com/leapstack-labs/leapcode/pkg/codeview"
	"github.com/leapstack-labs/leapcode/pkg/core"

	// Register the database adapters.
	_ "github.com/leapstack-labs/leapcode/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapcode/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapcode/pkg/adapters/sqlite"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg     *config.Config
	Logger  *slog.Logger
	Adapter core.Adapter
	Store   *store.Store
	Loader  *store.Loader
}

// NewCommandContext creates a CommandContext. With connect the database is
// connected up front; otherwise the loader connects the first time a view
// with queries is loaded, so file-only views work without a reachable
// target.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command, connect bool) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	dial := func(ctx context.Context) (core.Adapter, error) {
		return adapter.Connect(ctx, cfg.Target.AdapterConfig(), logger)
	}

	var a core.Adapter
	var loader *store.Loader
	if connect {
		var err error
		a, err = dial(cmd.Context())
		if err != nil {
			return nil, nil, err
		}
		loader = store.NewLoader(a, logger)
	} else {
		loader = store.NewLazyLoader(dial, logger)
	}

	cleanup := func() {
		if a != nil {
			_ = a.Close()
		}
		_ = loader.Close()
	}

	return &CommandContext{
		Cfg:     cfg,
		Logger:  logger,
		Adapter: a,
		Store:   store.New(store.WithLogger(logger), store.WithCodeOptions(codeOptions(cfg, logger))),
		Loader:  loader,
	}, cleanup, nil
}

// LoadView loads a configured view into the store.
func (c *CommandContext) LoadView(ctx context.Context, id string) error {
	view, err := c.Cfg.View(id)
	if err != nil {
		return err
	}
	_, err = c.Loader.Refresh(ctx, c.Store, id, view)
	return err
}

// LoadAll loads every configured view into the store. Views that fail are
// logged and left empty; only a cancelled context is returned as an error.
func (c *CommandContext) LoadAll(ctx context.Context) error {
	if err := c.Loader.RefreshAll(ctx, c.Store, c.Cfg.Views); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.Logger.Warn("some views failed to load", slog.String("error", err.Error()))
	}
	return nil
}

// Helper functions shared across commands

// getConfig returns the current configuration, or the defaults when no
// configuration was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

func codeOptions(cfg *config.Config, logger *slog.Logger) codeview.Options {
	return cfg.Project().CodeOptions(logger)
}

// resolveViewID returns the view named by args, or the only configured
// view when args is empty.
func resolveViewID(cfg *config.Config, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	ids := cfg.Project().ViewIDs()
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("no views configured\nHint: Define one under views in leapcode.yaml, or pass --file")
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("several views configured, name one of: %v", ids)
	}
}

// completeViewIDs completes view ids from the loaded configuration.
func completeViewIDs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return cfg.Project().ViewIDs(), cobra.ShellCompDirectiveNoFileComp
}
