package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/leapstack-labs/leapcode/pkg/codeview"
)

const gutterSeparator = "│"

// Terminal renders states as terminal text.
type Terminal struct {
	// Style is the chroma style name.
	Style string

	// Width wraps lines longer than Width columns, gutter included.
	// Zero disables wrapping.
	Width int

	// Color enables ANSI highlighting. Without it the code is written as
	// plain text.
	Color bool
}

// NewTerminal returns a renderer configured for out: color and width are
// detected when out is a terminal.
func NewTerminal(out io.Writer, style string, width int) *Terminal {
	if width == 0 {
		width = TerminalWidth(out)
	}
	return &Terminal{Style: style, Width: width, Color: ColorEnabled(out)}
}

// Render writes state to w.
func (t *Terminal) Render(w io.Writer, state codeview.RenderState) error {
	_, err := io.WriteString(w, t.String(state))
	return err
}

// String renders state to a string.
func (t *Terminal) String(state codeview.RenderState) string {
	r := t.renderer()

	switch state.Kind {
	case codeview.StateReady:
		return t.code(r, state.Code)
	case codeview.StateError:
		return r.NewStyle().Foreground(lipgloss.Color("9")).Render("! "+state.Notice()) + "\n"
	default:
		return r.NewStyle().Faint(true).Italic(true).Render(state.Notice()) + "\n"
	}
}

func (t *Terminal) renderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	if t.Color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

func (t *Terminal) code(r *lipgloss.Renderer, code codeview.ExtractedCode) string {
	lines := t.lines(code)
	digits := len(strconv.Itoa(len(lines)))
	gutterStyle := r.NewStyle().Faint(true)
	blank := strings.Repeat(" ", digits)

	limit := 0
	if t.Width > 0 {
		// number, space, separator, space
		limit = max(t.Width-digits-3, 1)
	}

	var b strings.Builder
	for i, line := range lines {
		parts := []string{line}
		if limit > 0 && ansi.StringWidth(line) > limit {
			parts = strings.Split(ansi.Hardwrap(line, limit, true), "\n")
		}
		for j, part := range parts {
			num := blank
			if j == 0 {
				num = fmt.Sprintf("%*d", digits, i+1)
			}
			b.WriteString(gutterStyle.Render(num))
			b.WriteString(" ")
			b.WriteString(gutterStyle.Render(gutterSeparator))
			b.WriteString(" ")
			b.WriteString(part)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// lines returns the display lines of code, highlighted when color is on.
func (t *Terminal) lines(code codeview.ExtractedCode) []string {
	plain := strings.Split(strings.TrimSuffix(code.Text, "\n"), "\n")
	if !t.Color {
		return plain
	}

	tokens, err := tokenLines(code.Text, code.Language)
	if err != nil {
		return plain
	}

	formatter := formatters.Get("terminal256")
	style := Style(t.Style)
	out := make([]string, 0, len(tokens))
	for _, line := range tokens {
		var buf bytes.Buffer
		if err := formatter.Format(&buf, style, chroma.Literator(line...)); err != nil {
			return plain
		}
		out = append(out, strings.TrimRight(buf.String(), "\n"))
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}
