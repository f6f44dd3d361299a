package codeview

import (
	"errors"
	"log/slog"

	"github.com/leapstack-labs/leapcode/pkg/core"
)

// Prepare runs the full pipeline over tables.
//
// It is idempotent and keeps no state: identical input yields an identical
// RenderState. Callers invoke it on every upstream change and discard
// results superseded by a newer snapshot.
func Prepare(tables []core.ResultTable, opts Options) RenderState {
	opts = opts.withDefaults()

	table, index, ok := Select(tables, opts)
	if !ok {
		return Empty()
	}

	text, err := Extract(table, opts)
	if err != nil {
		var xerr *ExtractionError
		if errors.As(err, &xerr) {
			opts.Logger.Debug("code table cannot be displayed",
				slog.Int("table_index", index),
				slog.String("kind", xerr.Kind.String()))
			return Failed(xerr.Kind)
		}
		// Extract only fails with *ExtractionError.
		return Failed(NoColumns)
	}

	return Ready(ExtractedCode{
		Text:             text,
		Language:         ResolveLanguage(table, opts),
		SourceTableIndex: index,
	})
}

// Preparer binds Options to Prepare. It is a value type and safe for
// concurrent use.
type Preparer struct {
	opts Options
}

// NewPreparer creates a Preparer with opts.
func NewPreparer(opts Options) Preparer {
	return Preparer{opts: opts.withDefaults()}
}

// Prepare runs the pipeline over tables.
func (p Preparer) Prepare(tables []core.ResultTable) RenderState {
	return Prepare(tables, p.opts)
}

// Options returns the effective options.
func (p Preparer) Options() Options { return p.opts }
