package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"

	"github.com/leapstack-labs/leapcode/pkg/codeview"
)

// HTML renders states as HTML fragments with inline styles.
type HTML struct {
	// Style is the chroma style name.
	Style string
}

// Render writes the fragment for state to w.
func (h *HTML) Render(w io.Writer, state codeview.RenderState) error {
	switch state.Kind {
	case codeview.StateReady:
		return h.code(w, state.Code)
	case codeview.StateError:
		_, err := fmt.Fprintf(w, `<div class="codeview-notice codeview-error" role="alert">%s</div>`,
			html.EscapeString(state.Notice()))
		return err
	default:
		_, err := fmt.Fprintf(w, `<div class="codeview-notice codeview-empty">%s</div>`,
			html.EscapeString(state.Notice()))
		return err
	}
}

// String renders state to a string. Formatting errors yield the escaped
// source in a plain pre block.
func (h *HTML) String(state codeview.RenderState) string {
	var b strings.Builder
	if err := h.Render(&b, state); err != nil {
		return `<pre class="codeview-plain">` + html.EscapeString(state.Code.Text) + `</pre>`
	}
	return b.String()
}

func (h *HTML) code(w io.Writer, code codeview.ExtractedCode) error {
	formatter := chromahtml.New(
		chromahtml.WithLineNumbers(true),
		chromahtml.WrapLongLines(true),
		chromahtml.TabWidth(4),
	)

	it, err := Lexer(code.Language).Tokenise(nil, strings.TrimSuffix(code.Text, "\n"))
	if err != nil {
		return fmt.Errorf("failed to tokenise code: %w", err)
	}

	if _, err := fmt.Fprintf(w, `<div class="codeview" data-language="%s">`,
		html.EscapeString(code.Language)); err != nil {
		return err
	}
	if err := formatter.Format(w, Style(h.Style), it); err != nil {
		return fmt.Errorf("failed to format code: %w", err)
	}
	_, err = io.WriteString(w, `</div>`)
	return err
}
