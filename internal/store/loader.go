package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapcode/pkg/adapter"
	"github.com/leapstack-labs/leapcode/pkg/core"
	"github.com/leapstack-labs/leapcode/pkg/frame"
)

// MetaKeyQueryName records the configured query name on query results.
const MetaKeyQueryName = "queryName"

// ErrNoAdapter is returned when a view has queries but the loader has no
// database connection.
var ErrNoAdapter = errors.New("view has queries but no database adapter is connected")

// maxConcurrentQueries bounds the queries of one view run at once.
const maxConcurrentQueries = 4

// maxConcurrentViews bounds the views RefreshAll loads at once.
const maxConcurrentViews = 4

// Connector opens the database connection a loader runs queries on.
type Connector func(ctx context.Context) (core.Adapter, error)

// Loader turns view configurations into result tables.
type Loader struct {
	logger  *slog.Logger
	connect Connector

	mu      sync.Mutex
	adapter core.Adapter
}

// NewLoader creates a loader. a may be nil when only file-sourced views
// are loaded.
func NewLoader(a core.Adapter, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{adapter: a, logger: logger}
}

// NewLazyLoader creates a loader that calls connect the first time a view
// with queries is loaded. File-only views never open a connection.
// A failed connect is not cached; the next query view tries again.
func NewLazyLoader(connect Connector, logger *slog.Logger) *Loader {
	l := NewLoader(nil, logger)
	l.connect = connect
	return l
}

// Adapter returns the open connection, or nil if none was opened.
func (l *Loader) Adapter() core.Adapter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.adapter
}

// Close closes the connection if the loader opened one.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.adapter == nil || l.connect == nil {
		return nil
	}
	err := l.adapter.Close()
	l.adapter = nil
	return err
}

func (l *Loader) conn(ctx context.Context) (core.Adapter, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.adapter != nil {
		return l.adapter, nil
	}
	if l.connect == nil {
		return nil, ErrNoAdapter
	}
	a, err := l.connect(ctx)
	if err != nil {
		return nil, err
	}
	l.adapter = a
	return a, nil
}

// Load returns the tables of view: file tables first, then one table per
// query in configured order. Queries run concurrently.
func (l *Loader) Load(ctx context.Context, view core.ViewConfig) ([]core.ResultTable, error) {
	var tables []core.ResultTable

	if view.File != "" {
		fileTables, err := frame.LoadFile(view.File)
		if err != nil {
			return nil, err
		}
		tables = append(tables, fileTables...)
	}

	if len(view.Queries) == 0 {
		return tables, nil
	}
	a, err := l.conn(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]core.ResultTable, len(view.Queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQueries)

	for i, q := range view.Queries {
		g.Go(func() error {
			meta := core.Metadata(maps.Clone(q.Metadata))
			if meta == nil {
				meta = core.Metadata{}
			}
			if q.Name != "" {
				meta[MetaKeyQueryName] = q.Name
			}

			l.logger.Debug("running view query", slog.Int("index", i), slog.String("name", q.Name))
			table, err := adapter.QueryTable(gctx, a, q.SQL, meta)
			if err != nil {
				return fmt.Errorf("query %d (%s): %w", i, q.Name, err)
			}
			results[i] = table
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return append(tables, results...), nil
}

// Refresh loads view and stores the result under viewID.
// On failure the previous snapshot is kept.
func (l *Loader) Refresh(ctx context.Context, s *Store, viewID string, view core.ViewConfig) (Snapshot, error) {
	tables, err := l.Load(ctx, view)
	if err != nil {
		l.logger.Warn("view reload failed", slog.String("view", viewID), slog.String("error", err.Error()))
		return Snapshot{}, fmt.Errorf("load view %q: %w", viewID, err)
	}
	return s.Set(viewID, tables), nil
}

// RefreshAll refreshes every view in views concurrently. A view that
// fails to load is logged and skipped so the others are still stored;
// the returned error joins every failure in view id order.
func (l *Loader) RefreshAll(ctx context.Context, s *Store, views map[string]core.ViewConfig) error {
	ids := sortedKeys(views)
	errs := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(maxConcurrentViews)
	for i, id := range ids {
		g.Go(func() error {
			_, errs[i] = l.Refresh(ctx, s, id, views[id])
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func sortedKeys(views map[string]core.ViewConfig) []string {
	ids := make([]string, 0, len(views))
	for id := range views {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
