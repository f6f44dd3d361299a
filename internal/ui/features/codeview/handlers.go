// Package codeview provides the web code view: a page per view, live
// updates over SSE, and a split pane remembered per browser session.
package codeview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/leapcode/internal/render"
	"github.com/leapstack-labs/leapcode/internal/store"
	"github.com/leapstack-labs/leapcode/internal/ui/features/codeview/pages"
	"github.com/leapstack-labs/leapcode/internal/ui/notifier"
	cv "github.com/leapstack-labs/leapcode/pkg/codeview"
)

const (
	sessionName = "leapcode"
	splitKey    = "split"
)

var errNoSession = errors.New("split open outside of a browser request")

// viewParam returns the view id of the request path. chi routes on the raw
// path when the request carries escapes that differ from the default
// encoding, so the segment is unescaped in that case.
func viewParam(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return id
	}
	if unescaped, err := url.PathUnescape(id); err == nil {
		return unescaped
	}
	return id
}

// Handlers provides HTTP handlers for the code view feature.
type Handlers struct {
	store        *store.Store
	sessionStore sessions.Store
	html         *render.HTML
	isDev        bool
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance and installs its split
// dispatcher on st.
func NewHandlers(st *store.Store, sessionStore sessions.Store, style string, isDev bool, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handlers{
		store:        st,
		sessionStore: sessionStore,
		html:         &render.HTML{Style: style},
		isDev:        isDev,
		logger:       logger,
	}
	st.SetDispatcher(h.openSplit)
	return h
}

// IndexPage renders the list of views.
func (h *Handlers) IndexPage(w http.ResponseWriter, r *http.Request) {
	if err := pages.IndexPage(h.isDev, h.summaries()).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// IndexUpdates is the long-lived SSE endpoint of the index page.
func (h *Handlers) IndexUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.store.Subscribe(notifier.All)
	defer h.store.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := sse.PatchElementTempl(pages.ViewList(h.summaries())); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// ViewPage renders a view with its split pane, if the session has one.
func (h *Handlers) ViewPage(w http.ResponseWriter, r *http.Request) {
	viewID := viewParam(r)
	if _, ok := h.store.Snapshot(viewID); !ok {
		http.NotFound(w, r)
		return
	}

	data := pages.ViewPageData{
		Title: viewID,
		IsDev: h.isDev,
		Main:  h.pane(pages.PaneMain, viewID),
	}
	if splitID := h.sessionSplit(r); splitID != "" {
		if _, ok := h.store.Snapshot(splitID); ok {
			split := h.pane(pages.PaneSplit, splitID)
			data.Split = &split
		}
	}

	if err := pages.ViewPage(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ViewCode returns the render state of a view as JSON.
func (h *Handlers) ViewCode(w http.ResponseWriter, r *http.Request) {
	viewID := viewParam(r)
	if _, ok := h.store.Snapshot(viewID); !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.store.Prepare(viewID)); err != nil {
		h.logger.Error("failed to encode render state", slog.String("view", viewID), slog.Any("error", err))
	}
}

// ViewUpdates streams pane patches whenever the view changes.
// The pane query parameter selects which pane is patched.
func (h *Handlers) ViewUpdates(w http.ResponseWriter, r *http.Request) {
	viewID := viewParam(r)
	pane := r.URL.Query().Get("pane")
	if pane == "" {
		pane = pages.PaneMain
	}
	if pane != pages.PaneMain && pane != pages.PaneSplit {
		http.Error(w, "unknown pane", http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)

	updates := h.store.Subscribe(viewID)
	defer h.store.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.sendPane(sse, pane, viewID); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// OpenSplit opens the view in the split pane of this browser session.
func (h *Handlers) OpenSplit(w http.ResponseWriter, r *http.Request) {
	viewID := viewParam(r)

	ctx := context.WithValue(r.Context(), splitRequestKey{}, &splitRequest{w: w, r: r})
	if err := h.store.SplitOpen(ctx, viewID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrUnknownView) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := h.sendPane(sse, pages.PaneSplit, viewID); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// CloseSplit clears the split pane of this browser session.
func (h *Handlers) CloseSplit(w http.ResponseWriter, r *http.Request) {
	session, _ := h.sessionStore.Get(r, sessionName)
	delete(session.Values, splitKey)
	if err := session.Save(r, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(pages.EmptyPane(pages.PaneSplit)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

type splitRequestKey struct{}

type splitRequest struct {
	w http.ResponseWriter
	r *http.Request
}

// openSplit is the store's split dispatcher. It records the view in the
// session of the request carried by ctx.
func (h *Handlers) openSplit(ctx context.Context, viewID string) error {
	req, ok := ctx.Value(splitRequestKey{}).(*splitRequest)
	if !ok {
		return errNoSession
	}
	session, _ := h.sessionStore.Get(req.r, sessionName)
	session.Values[splitKey] = viewID
	return session.Save(req.r, req.w)
}

func (h *Handlers) sessionSplit(r *http.Request) string {
	session, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		return ""
	}
	id, _ := session.Values[splitKey].(string)
	return id
}

func (h *Handlers) sendPane(sse *datastar.ServerSentEventGenerator, pane, viewID string) error {
	if _, ok := h.store.Snapshot(viewID); !ok {
		return sse.PatchElementTempl(pages.EmptyPane(pane))
	}
	return sse.PatchElementTempl(pages.Pane(h.pane(pane, viewID)))
}

func (h *Handlers) pane(pane, viewID string) pages.PaneData {
	state := h.store.Prepare(viewID)
	data := pages.PaneData{
		Pane:   pane,
		ViewID: viewID,
		Body:   h.html.String(state),
	}
	if state.Kind == cv.StateReady {
		data.Language = render.LanguageLabel(state.Code.Language)
	}
	return data
}

func (h *Handlers) summaries() []pages.ViewSummary {
	ids := h.store.Views()
	out := make([]pages.ViewSummary, 0, len(ids))
	for _, id := range ids {
		state := h.store.Prepare(id)
		summary := pages.ViewSummary{ID: id, State: state.Kind.String()}
		if state.Kind == cv.StateReady {
			summary.Language = render.LanguageLabel(state.Code.Language)
		}
		out = append(out, summary)
	}
	return out
}
