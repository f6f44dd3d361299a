// Package pages provides the templ components of the code view feature.
package pages

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/leapcode/internal/ui/resources"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// Pane names. Each names the element id patched over SSE.
const (
	PaneMain  = "main"
	PaneSplit = "split"
)

// ViewURL returns the page path of a view. The id is escaped as one path
// segment, so the result is safe inside quoted datastar expressions.
func ViewURL(id string) string {
	return "/views/" + url.PathEscape(id)
}

// ViewSummary is one entry of the view index.
type ViewSummary struct {
	ID       string
	State    string
	Language string
}

// PaneData is everything needed to draw one code pane.
type PaneData struct {
	Pane     string
	ViewID   string
	Language string
	// Body is a trusted HTML fragment produced by the HTML renderer.
	Body string
}

// ViewPageData is the data for a view page.
type ViewPageData struct {
	Title string
	IsDev bool
	Main  PaneData
	Split *PaneData
}

// PaneID returns the DOM id of a pane.
func PaneID(pane string) string {
	return "pane-" + pane
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// Layout wraps body in the HTML document shell.
func Layout(title string, isDev bool, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!doctype html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>%s - LeapCode</title>`+
			`<link rel="stylesheet" href="%s">`+
			`<script type="module" src="%s"></script></head><body>`,
			esc(title), resources.StaticPath("leapcode.css"), datastarScript); err != nil {
			return err
		}
		if isDev {
			if _, err := io.WriteString(w, `<div data-init="@get('/reload')"></div>`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<header class="ui-header"><a href="/">LeapCode</a></header>`+
			`<main class="ui-content">`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// IndexPage lists the loaded views.
func IndexPage(isDev bool, views []ViewSummary) templ.Component {
	return Layout("Views", isDev, ViewList(views))
}

// ViewList renders the view index. It is also patched over SSE when a
// view changes.
func ViewList(views []ViewSummary) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<ul id="view-list" class="view-list" data-init="@get('/updates')">`); err != nil {
			return err
		}
		if len(views) == 0 {
			if _, err := io.WriteString(w, `<li class="view-state">No views configured</li>`); err != nil {
				return err
			}
		}
		for _, v := range views {
			state := v.State
			if v.Language != "" {
				state += ", " + v.Language
			}
			if _, err := fmt.Fprintf(w, `<li><a href="%s">%s</a><span class="view-state">%s</span></li>`,
				esc(ViewURL(v.ID)), esc(v.ID), esc(state)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	})
}

// ViewPage renders the page of a single view, with its split pane when
// one is open.
func ViewPage(data ViewPageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="panes">`); err != nil {
			return err
		}
		if err := Pane(data.Main).Render(ctx, w); err != nil {
			return err
		}
		if data.Split != nil {
			if err := Pane(*data.Split).Render(ctx, w); err != nil {
				return err
			}
		} else if _, err := fmt.Fprintf(w, `<div id="%s"></div>`, PaneID(PaneSplit)); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
	return Layout(data.Title, data.IsDev, body)
}

// Pane renders one code pane. The pane subscribes to updates of its view
// on load.
func Pane(p PaneData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		viewURL := esc(ViewURL(p.ViewID))
		if _, err := fmt.Fprintf(w,
			`<section id="%s" class="pane" data-view="%s" data-init="@get('%s/sse?pane=%s')">`+
				`<div class="pane-header"><span>%s`,
			PaneID(p.Pane), esc(p.ViewID), viewURL, esc(p.Pane), esc(p.ViewID)); err != nil {
			return err
		}
		if p.Language != "" {
			if _, err := fmt.Fprintf(w, ` &middot; %s`, esc(p.Language)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</span>`); err != nil {
			return err
		}

		var button string
		if p.Pane == PaneSplit {
			button = fmt.Sprintf(`<button data-on:click="@delete('%s/split')">Close</button>`, viewURL)
		} else {
			button = fmt.Sprintf(`<button data-on:click="@post('%s/split')">Split</button>`, viewURL)
		}
		if _, err := io.WriteString(w, button+`</div>`); err != nil {
			return err
		}

		if err := templ.Raw(p.Body).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// EmptyPane renders a placeholder that replaces a closed pane.
func EmptyPane(pane string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div id="%s"></div>`, PaneID(pane))
		return err
	})
}
