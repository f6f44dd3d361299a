package codeview

import (
	"testing"

	"github.com/leapstack-labs/leapcode/internal/testutil"
	"github.com/leapstack-labs/leapcode/pkg/core"
)

// table builds a ResultTable from name/values pairs.
func table(t *testing.T, meta core.Metadata, cols ...core.Column) core.ResultTable {
	t.Helper()
	tbl, err := core.NewResultTable(cols, meta)
	if err != nil {
		t.Fatalf("invalid fixture table: %v", err)
	}
	return tbl
}

func col(name string, values ...any) core.Column {
	return core.NewSliceColumn(name, values)
}

// captureLogger returns options whose logger also writes into the returned buffer.
func captureLogger(t *testing.T) (Options, *testutil.LogBuffer) {
	t.Helper()
	logger, logs := testutil.NewCaptureLogger(t)
	return Options{Logger: logger}, logs
}
