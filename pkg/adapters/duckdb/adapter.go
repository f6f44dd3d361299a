// Package duckdb provides a DuckDB database adapter for leapcode.
package duckdb

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapcode/pkg/adapter"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
	params *Params
}

// New creates a new DuckDB adapter instance.
// A nil logger discards all output.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "duckdb"
}

// Connect establishes a connection to DuckDB and applies cfg.Params.
// Use ":memory:" as the path for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := parseParams(cfg.Params)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	if err := a.Open(ctx, "duckdb", path, cfg); err != nil {
		return err
	}
	a.params = params

	if err := a.applyParams(ctx); err != nil {
		_ = a.Close()
		a.DB = nil
		return err
	}
	return nil
}

// applyParams loads extensions, then secrets, then session settings.
func (a *Adapter) applyParams(ctx context.Context) error {
	for _, ext := range a.params.Extensions {
		a.Logger.Debug("loading extension", slog.String("extension", ext))
		if err := a.Exec(ctx, fmt.Sprintf("INSTALL %s; LOAD %s;", ext, ext)); err != nil {
			return fmt.Errorf("failed to load extension %s: %w", ext, err)
		}
	}

	for i, secret := range a.params.Secrets {
		if err := a.Exec(ctx, buildCreateSecretSQL(secret)); err != nil {
			return fmt.Errorf("failed to create secret %d (%s): %w", i, secret.Type, err)
		}
	}

	keys := make([]string, 0, len(a.params.Settings))
	for k := range a.params.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		stmt := fmt.Sprintf("SET %s = '%s'", k, escapeString(a.params.Settings[k]))
		if err := a.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply setting %s: %w", k, err)
		}
	}
	return nil
}

// buildCreateSecretSQL renders a CREATE SECRET statement for cfg.
func buildCreateSecretSQL(cfg SecretConfig) string {
	parts := []string{"TYPE " + cfg.Type}
	if cfg.Provider != "" {
		parts = append(parts, "PROVIDER "+cfg.Provider)
	}
	quoted := func(key, value string) {
		if value != "" {
			parts = append(parts, fmt.Sprintf("%s '%s'", key, escapeString(value)))
		}
	}
	quoted("REGION", cfg.Region)
	if scope := formatScope(cfg.Scope); scope != "" {
		parts = append(parts, "SCOPE "+scope)
	}
	quoted("KEY_ID", cfg.KeyID)
	quoted("SECRET", cfg.Secret)
	quoted("ENDPOINT", cfg.Endpoint)
	quoted("URL_STYLE", cfg.URLStyle)
	if cfg.UseSSL != nil {
		parts = append(parts, fmt.Sprintf("USE_SSL %t", *cfg.UseSSL))
	}

	return "CREATE SECRET (\n    " + strings.Join(parts, ",\n    ") + "\n)"
}

func formatScope(scope any) string {
	var values []string
	switch s := scope.(type) {
	case nil:
		return ""
	case string:
		return "'" + escapeString(s) + "'"
	case []string:
		values = s
	case []any:
		for _, v := range s {
			values = append(values, fmt.Sprint(v))
		}
	default:
		return "'" + escapeString(fmt.Sprint(s)) + "'"
	}

	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + escapeString(v) + "'"
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

func escapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

var _ adapter.Adapter = (*Adapter)(nil)
