package codeview

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/leapcode/internal/store"
)

// SetupRoutes configures routes for the code view feature.
func SetupRoutes(
	router chi.Router,
	st *store.Store,
	sessionStore sessions.Store,
	style string,
	isDev bool,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(st, sessionStore, style, isDev, logger)

	router.Get("/", handlers.IndexPage)
	router.Get("/updates", handlers.IndexUpdates)

	router.Route("/views/{id}", func(r chi.Router) {
		r.Get("/", handlers.ViewPage)
		r.Get("/code", handlers.ViewCode)
		r.Get("/sse", handlers.ViewUpdates)
		r.Post("/split", handlers.OpenSplit)
		r.Delete("/split", handlers.CloseSplit)
	})

	return nil
}
