package codeview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcode/internal/store"
	"github.com/leapstack-labs/leapcode/internal/testutil"
	"github.com/leapstack-labs/leapcode/internal/ui/features"
	"github.com/leapstack-labs/leapcode/pkg/core"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestHandlers(t *testing.T, views ...features.TestView) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t, views...)
	handlers := NewHandlers(fixture.Store, fixture.SessionStore, "monokai", false, testutil.NewTestLogger(t))
	return handlers, fixture
}

func setupTestRouter(t *testing.T, views ...features.TestView) (http.Handler, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t, views...)
	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, fixture.Store, fixture.SessionStore, "monokai", false, testutil.NewTestLogger(t)))
	return r, fixture
}

func snippetView() features.TestView {
	return features.TestView{
		ID: "snippet",
		Tables: []core.ResultTable{
			features.DataTable("count", 1),
			features.CodeTable("print('<hi>')", "python"),
		},
	}
}

// =============================================================================
// Page Tests - server-rendered HTML
// =============================================================================

func TestIndexPage(t *testing.T) {
	tests := []struct {
		name     string
		views    []features.TestView
		wantBody []string
	}{
		{
			name:     "no views",
			wantBody: []string{"<!doctype html>", "<title>Views - LeapCode</title>", "No views configured"},
		},
		{
			name: "lists views with their state",
			views: []features.TestView{
				snippetView(),
				{ID: "plain", Tables: []core.ResultTable{features.DataTable("n", 1)}},
			},
			wantBody: []string{
				`href="/views/snippet"`,
				"ready, Python",
				`href="/views/plain"`,
				"empty",
				"@get('/updates')",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t, tt.views...)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			h.IndexPage(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want, "response should contain %q", want)
			}
		})
	}
}

func TestViewPage(t *testing.T) {
	h, _ := setupTestHandlers(t, snippetView())

	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/views/snippet", nil), "id", "snippet")
	rec := httptest.NewRecorder()
	h.ViewPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="pane-main"`)
	assert.Contains(t, body, `data-language="python"`)
	assert.Contains(t, body, "&lt;hi&gt;", "code must be escaped")
	assert.Contains(t, body, `<div id="pane-split"></div>`, "no split pane without a session")
	assert.Contains(t, body, "/views/snippet/sse?pane=main")
}

func TestViewPage_EscapesViewIDInURLs(t *testing.T) {
	const id = "it's/a view"
	view := features.TestView{ID: id, Tables: []core.ResultTable{features.CodeTable("x", "go")}}

	h, _ := setupTestHandlers(t, view)
	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", id)
	rec := httptest.NewRecorder()
	h.ViewPage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "@get('/views/it%27s%2Fa%20view/sse?pane=main')")
	assert.Contains(t, body, "@post('/views/it%27s%2Fa%20view/split')")
	assert.NotContains(t, body, "@get('/views/it&#39;s")

	router, _ := setupTestRouter(t, view)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/views/it%27s%2Fa%20view/code", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"ready"`)
}

func TestViewPage_UnknownView(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/views/nope", nil), "id", "nope")
	rec := httptest.NewRecorder()
	h.ViewPage(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestViewPage_Notices(t *testing.T) {
	tests := []struct {
		name   string
		tables []core.ResultTable
		want   string
	}{
		{
			name:   "no code table",
			tables: []core.ResultTable{features.DataTable("n", 1)},
			want:   "No code to display",
		},
		{
			name: "code table without rows",
			tables: []core.ResultTable{
				core.MustResultTable([]core.Column{core.NewSliceColumn("code", nil)}, core.Metadata{"isCode": true}),
			},
			want: "The code result has no rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t, features.TestView{ID: "v", Tables: tt.tables})

			req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/views/v", nil), "id", "v")
			rec := httptest.NewRecorder()
			h.ViewPage(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

// =============================================================================
// JSON Tests
// =============================================================================

func TestViewCode(t *testing.T) {
	h, _ := setupTestHandlers(t, snippetView())

	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/views/snippet/code", nil), "id", "snippet")
	rec := httptest.NewRecorder()
	h.ViewCode(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got struct {
		State   string `json:"state"`
		Source  int    `json:"sourceTableIndex"`
		Payload struct {
			Text        string `json:"text"`
			Language    string `json:"language"`
			LineNumbers bool   `json:"lineNumbers"`
			WrapLines   bool   `json:"wrapLines"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ready", got.State)
	assert.Equal(t, 1, got.Source)
	assert.Equal(t, "print('<hi>')", got.Payload.Text)
	assert.Equal(t, "python", got.Payload.Language)
	assert.True(t, got.Payload.LineNumbers)
	assert.True(t, got.Payload.WrapLines)
}

// =============================================================================
// SSE Tests - live updates only
// =============================================================================

func TestViewUpdates_SendsPaneOnSet(t *testing.T) {
	h, fixture := setupTestHandlers(t, snippetView())

	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/views/snippet/sse", nil), "id", "snippet")
	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.ViewUpdates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	fixture.Store.Set("snippet", []core.ResultTable{features.CodeTable("SELECT 42", "sql")})
	// Changes to other views are not streamed.
	fixture.Store.Set("other", []core.ResultTable{features.CodeTable("nope", "")})

	<-done

	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1)
	assert.Contains(t, body, "pane-main")
	assert.Contains(t, body, "42")
	assert.NotContains(t, body, "nope")
}

func TestViewUpdates_NoInitialState(t *testing.T) {
	h, _ := setupTestHandlers(t, snippetView())

	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/views/snippet/sse", nil), "id", "snippet")
	ctx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	h.ViewUpdates(rec, req)

	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"))
}

func TestViewUpdates_UnknownPane(t *testing.T) {
	h, _ := setupTestHandlers(t, snippetView())

	req := features.RequestWithPathParam(
		httptest.NewRequest(http.MethodGet, "/views/snippet/sse?pane=left", nil), "id", "snippet")
	rec := httptest.NewRecorder()
	h.ViewUpdates(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIndexUpdates_SendsListOnAnyView(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.IndexUpdates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	fixture.Store.Set("fresh", []core.ResultTable{features.CodeTable("x", "go")})

	<-done

	body := rec.Body.String()
	assert.Contains(t, body, "view-list")
	assert.Contains(t, body, "/views/fresh")
}

// =============================================================================
// Split Tests - split pane remembered in the session
// =============================================================================

func TestSplit_OpenAndClose(t *testing.T) {
	other := features.TestView{ID: "other", Tables: []core.ResultTable{features.CodeTable("SELECT 1", "sql")}}
	r, _ := setupTestRouter(t, snippetView(), other)

	// Open "other" in the split pane.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/views/other/split", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pane-split")
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "split is stored in the session cookie")

	// The split survives a page load in the same session.
	req := httptest.NewRequest(http.MethodGet, "/views/snippet", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<section id="pane-split"`)
	assert.Contains(t, body, `data-view="other"`)

	// Closing clears it.
	req = httptest.NewRequest(http.MethodDelete, "/views/other/split", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies = rec.Result().Cookies()

	req = httptest.NewRequest(http.MethodGet, "/views/snippet", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `<div id="pane-split"></div>`)
}

func TestSplit_UnknownView(t *testing.T) {
	r, _ := setupTestRouter(t, snippetView())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/views/missing/split", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSplitOpen_OutsideRequest(t *testing.T) {
	_, fixture := setupTestHandlers(t, snippetView())

	err := fixture.Store.SplitOpen(context.Background(), "snippet")
	require.ErrorIs(t, err, errNoSession)
	assert.NotErrorIs(t, err, store.ErrNoDispatcher)
}
