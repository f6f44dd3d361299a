// Package sqlite provides a SQLite database adapter for leapcode backed by
// the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapcode/pkg/adapter"

	_ "modernc.org/sqlite" // sqlite driver
)

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "sqlite"
}

// Connect opens the database file at cfg.Path, or an in-memory database
// when the path is empty or ":memory:". Options become _pragma parameters.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	if err := a.Open(ctx, "sqlite", buildDSN(cfg), cfg); err != nil {
		return err
	}
	// Each pooled connection to :memory: is a separate database.
	if isMemory(cfg.Path) {
		a.DB.SetMaxOpenConns(1)
	}
	return nil
}

func isMemory(path string) bool {
	return path == "" || path == ":memory:"
}

// buildDSN renders cfg as a modernc sqlite DSN, e.g.
// "file:app.db?_pragma=busy_timeout(5000)".
func buildDSN(cfg adapter.Config) string {
	path := cfg.Path
	if isMemory(path) {
		path = ":memory:"
	}
	if len(cfg.Options) == 0 {
		return path
	}

	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := url.Values{}
	for _, k := range keys {
		q.Add("_pragma", fmt.Sprintf("%s(%s)", k, cfg.Options[k]))
	}

	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path + "?" + q.Encode()
}

var _ adapter.Adapter = (*Adapter)(nil)
