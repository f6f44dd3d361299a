package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/leapstack-labs/leapcode/pkg/codeview"
	"github.com/leapstack-labs/leapcode/pkg/core"
)

// Tables writes a listing of tables to w: index, code flag, language hint,
// column names and row count. The table the code view would display is
// marked with an asterisk.
func Tables(w io.Writer, tables []core.ResultTable, opts codeview.Options, color bool) {
	// The listing itself is not a display, so multi-match anomalies are not logged.
	quiet := opts
	quiet.Logger = nil
	_, selected, _ := codeview.Select(tables, quiet)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	if !color {
		tw.Style().Color = table.ColorOptions{}
		tw.Style().Format.Header = text.FormatUpper
	} else {
		tw.Style().Color.Header = text.Colors{text.Bold}
	}

	tw.AppendHeader(table.Row{"#", "Code", "Language", "Columns", "Rows"})
	for i, t := range tables {
		index := fmt.Sprint(i)
		if i == selected {
			index += "*"
		}

		isCode := codeview.IsCode(t, optsCodeKey(opts))
		lang := ""
		if isCode {
			lang = codeview.ResolveLanguage(t, opts)
		}

		tw.AppendRow(table.Row{
			index,
			isCode,
			lang,
			strings.Join(t.ColumnNames(), ", "),
			t.NumRows(),
		})
	}
	if len(tables) == 0 {
		tw.AppendFooter(table.Row{"", "", "", "no tables", ""})
	}
	tw.Render()
}

func optsCodeKey(opts codeview.Options) string {
	if opts.CodeKey == "" {
		return codeview.DefaultCodeKey
	}
	return opts.CodeKey
}
