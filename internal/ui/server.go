// Package ui provides the web code view for LeapCode.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapcode/internal/store"
	"github.com/leapstack-labs/leapcode/internal/ui/router"
	"github.com/leapstack-labs/leapcode/pkg/core"
)

const watchDebounce = 100 * time.Millisecond

// Server is the main UI server.
type Server struct {
	store        *store.Store
	loader       *store.Loader
	views        map[string]core.ViewConfig
	sessionStore *sessions.CookieStore
	port         int
	watch        bool
	dev          bool
	style        string
	logger       *slog.Logger
}

// Config holds configuration for the UI server.
type Config struct {
	Store  *store.Store
	Loader *store.Loader
	// Views are the configured views; file-sourced ones are watched.
	Views map[string]core.ViewConfig
	Port  int
	Watch bool
	Dev   bool
	Style string
	// SessionSecret signs the session cookie. A random key is used when
	// empty, so sessions do not survive a restart.
	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}
	sessionStore := sessions.NewCookieStore(secret)
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		store:        cfg.Store,
		loader:       cfg.Loader,
		views:        cfg.Views,
		sessionStore: sessionStore,
		port:         cfg.Port,
		watch:        cfg.Watch,
		dev:          cfg.Dev,
		style:        cfg.Style,
		logger:       logger,
	}
}

// Handler builds the HTTP handler with all routes mounted.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug),
			NoColor: true,
		}),
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.store, s.sessionStore, s.style, s.dev, s.logger); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until the context is cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	handler, err := s.Handler()
	if err != nil {
		_ = ln.Close()
		return err
	}

	s.logger.Info("starting UI server", "addr", "http://"+ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watchedFiles maps absolute view file paths to the views reading them.
func (s *Server) watchedFiles() map[string][]string {
	files := make(map[string][]string)
	for id, view := range s.views {
		if view.File == "" {
			continue
		}
		path, err := filepath.Abs(view.File)
		if err != nil {
			path = view.File
		}
		files[path] = append(files[path], id)
	}
	for _, ids := range files {
		slices.Sort(ids)
	}
	return files
}

// watchFiles reloads file-sourced views when their file changes.
// Directories are watched rather than files so editors that replace the
// file on save are still seen.
func (s *Server) watchFiles(ctx context.Context) error {
	files := s.watchedFiles()
	if len(files) == 0 || s.loader == nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	dirs := make(map[string]struct{})
	for path := range files {
		dirs[filepath.Dir(path)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			s.logger.Error("failed to watch directory", "dir", dir, "error", err)
		}
	}

	debounce := newDebouncer(watchDebounce)
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			path, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			ids, ok := files[path]
			if !ok {
				continue
			}

			debounce.Trigger(path, func() {
				s.logger.Debug("view file changed, reloading", "file", path)
				for _, id := range ids {
					if _, err := s.loader.Refresh(ctx, s.store, id, s.views[id]); err != nil {
						s.logger.Error("reload failed", "view", id, "error", err)
					}
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}
