// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/leapcode/internal/store"
	"github.com/leapstack-labs/leapcode/internal/testutil"
	"github.com/leapstack-labs/leapcode/pkg/core"
)

// TestView is a helper to describe a loaded view with minimal boilerplate.
type TestView struct {
	ID     string
	Tables []core.ResultTable
}

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
}

// SetupTestFixture creates a store preloaded with views.
func SetupTestFixture(t *testing.T, views ...TestView) *TestFixture {
	t.Helper()

	st := store.New(store.WithLogger(testutil.NewTestLogger(t)))
	for _, v := range views {
		st.Set(v.ID, v.Tables)
	}

	return &TestFixture{
		Store:        st,
		SessionStore: NewTestSessionStore(),
	}
}

// CodeTable builds a single-cell table flagged as code.
func CodeTable(text, lang string) core.ResultTable {
	meta := core.Metadata{"isCode": true}
	if lang != "" {
		meta["language"] = lang
	}
	return core.MustResultTable([]core.Column{core.NewSliceColumn("code", []any{text})}, meta)
}

// DataTable builds a single-column table that is not flagged as code.
func DataTable(name string, values ...any) core.ResultTable {
	return core.MustResultTable([]core.Column{core.NewSliceColumn(name, values)}, nil)
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(t *testing.T, r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	t.Cleanup(cancel)
	return r.WithContext(ctx)
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
