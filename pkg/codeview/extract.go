package codeview

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapcode/pkg/core"
)

// Extract decodes the code text held by table.
//
// The first column is the code column regardless of its name, and only its
// first row is read. A value with no faithful string form yields "" and an
// anomaly log rather than an error.
func Extract(table core.ResultTable, opts Options) (string, error) {
	opts = opts.withDefaults()

	if table.NumColumns() == 0 {
		return "", &ExtractionError{Kind: NoColumns}
	}
	col := table.Column(0)
	if col.Len() == 0 {
		return "", &ExtractionError{Kind: EmptyValues}
	}

	v := col.Value(0)
	text, ok := DecodeValue(v)
	if !ok {
		opts.Logger.Warn("code value has no text form, rendering empty",
			slog.String("anomaly", string(AnomalyUnrepresentableValue)),
			slog.String("column", col.Name()),
			slog.String("type", fmt.Sprintf("%T", v)))
		return "", nil
	}
	return text, nil
}
