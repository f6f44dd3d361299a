// Package store keeps the latest result tables of every view and notifies
// subscribers when a view is replaced.
//
// Snapshots are immutable: Set swaps in a new snapshot under a fresh id,
// so readers never observe a partially loaded view.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/leapcode/internal/ui/notifier"
	"github.com/leapstack-labs/leapcode/pkg/codeview"
	"github.com/leapstack-labs/leapcode/pkg/core"
)

// Errors returned by SplitOpen.
var (
	ErrUnknownView  = errors.New("unknown view")
	ErrNoDispatcher = errors.New("no split dispatcher configured")
)

// Snapshot is one loaded version of a view.
type Snapshot struct {
	ID       uuid.UUID
	ViewID   string
	Tables   []core.ResultTable
	LoadedAt time.Time
}

// Dispatcher opens viewID in a split pane. It is supplied by the
// presentation layer (web UI or TUI).
type Dispatcher func(ctx context.Context, viewID string) error

// Store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
	dispatch  Dispatcher
	codeOpts  codeview.Options
	preparer  codeview.Preparer
	notifier  *notifier.Notifier
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithDispatcher sets the split-open dispatcher.
func WithDispatcher(d Dispatcher) Option {
	return func(s *Store) { s.dispatch = d }
}

// WithCodeOptions sets the options used by Prepare.
func WithCodeOptions(opts codeview.Options) Option {
	return func(s *Store) { s.codeOpts = opts }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		snapshots: make(map[string]Snapshot),
		notifier:  notifier.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.codeOpts.Logger == nil {
		s.codeOpts.Logger = s.logger
	}
	s.preparer = codeview.NewPreparer(s.codeOpts)
	return s
}

// Set replaces the tables of viewID and notifies its subscribers.
func (s *Store) Set(viewID string, tables []core.ResultTable) Snapshot {
	snap := Snapshot{
		ID:       uuid.New(),
		ViewID:   viewID,
		Tables:   slices.Clone(tables),
		LoadedAt: s.now(),
	}

	s.mu.Lock()
	s.snapshots[viewID] = snap
	s.mu.Unlock()

	s.logger.Debug("view updated",
		slog.String("view", viewID),
		slog.String("snapshot", snap.ID.String()),
		slog.Int("tables", len(tables)))
	s.notifier.Broadcast(viewID)
	return snap
}

// Snapshot returns the current snapshot of viewID.
func (s *Store) Snapshot(viewID string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[viewID]
	if !ok {
		return Snapshot{}, false
	}
	snap.Tables = slices.Clone(snap.Tables)
	return snap, true
}

// Delete removes viewID and notifies its subscribers.
func (s *Store) Delete(viewID string) {
	s.mu.Lock()
	_, ok := s.snapshots[viewID]
	delete(s.snapshots, viewID)
	s.mu.Unlock()

	if ok {
		s.notifier.Broadcast(viewID)
	}
}

// Views returns the ids of all loaded views, sorted.
func (s *Store) Views() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.snapshots))
	for id := range s.snapshots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Prepare runs the code pipeline over the current tables of viewID.
// An unknown view prepares as empty.
func (s *Store) Prepare(viewID string) codeview.RenderState {
	snap, ok := s.Snapshot(viewID)
	if !ok {
		return codeview.Empty()
	}
	return s.preparer.Prepare(snap.Tables)
}

// Subscribe returns a channel pinged whenever viewID changes.
// Use notifier.All to follow every view.
func (s *Store) Subscribe(viewID string) chan struct{} {
	return s.notifier.Subscribe(viewID)
}

// Unsubscribe releases a channel returned by Subscribe.
func (s *Store) Unsubscribe(ch chan struct{}) {
	s.notifier.Unsubscribe(ch)
}

// SetDispatcher replaces the split-open dispatcher.
func (s *Store) SetDispatcher(d Dispatcher) {
	s.mu.Lock()
	s.dispatch = d
	s.mu.Unlock()
}

// SplitOpen asks the presentation layer to open viewID in a split pane.
func (s *Store) SplitOpen(ctx context.Context, viewID string) error {
	s.mu.RLock()
	_, ok := s.snapshots[viewID]
	dispatch := s.dispatch
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("split open %q: %w", viewID, ErrUnknownView)
	}
	if dispatch == nil {
		return fmt.Errorf("split open %q: %w", viewID, ErrNoDispatcher)
	}
	s.logger.Debug("split open", slog.String("view", viewID))
	return dispatch(ctx, viewID)
}

// CodeOptions returns the resolved options used by Prepare.
func (s *Store) CodeOptions() codeview.Options {
	return s.preparer.Options()
}
