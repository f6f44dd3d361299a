package frame

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcode/pkg/codeview"
	"github.com/leapstack-labs/leapcode/pkg/core"
)

func newSnippetSchema(meta *arrow.Metadata) *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "code", Type: arrow.BinaryTypes.String},
		{Name: "n", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}, meta)
}

func buildRecord(t *testing.T, schema *arrow.Schema, codes []string, ns []int64, valid []bool) arrow.Record {
	t.Helper()
	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	b.Field(0).(*array.StringBuilder).AppendValues(codes, nil)
	b.Field(1).(*array.Int64Builder).AppendValues(ns, valid)
	return b.NewRecord()
}

func TestFromArrowRecord(t *testing.T) {
	md := arrow.NewMetadata([]string{"isCode", "language"}, []string{"true", "sql"})
	schema := newSnippetSchema(&md)

	rec := buildRecord(t, schema, []string{"SELECT 1", "SELECT 2"}, []int64{7, 0}, []bool{true, false})
	defer rec.Release()

	table, err := FromArrowRecord(rec)
	require.NoError(t, err)

	assert.Equal(t, []string{"code", "n"}, table.ColumnNames())
	assert.Equal(t, 2, table.NumRows())
	assert.Equal(t, "SELECT 1", table.Column(0).Value(0))
	assert.Equal(t, int64(7), table.Column(1).Value(0))
	assert.Nil(t, table.Column(1).Value(1), "null cells are nil")

	lang, _ := table.Meta("language")
	assert.Equal(t, "sql", lang)

	state := codeview.Prepare([]core.ResultTable{table}, codeview.Options{})
	require.Equal(t, codeview.StateReady, state.Kind)
	assert.Equal(t, "SELECT 1", state.Code.Text)
	assert.Equal(t, "sql", state.Code.Language)
}

func TestFromArrow_MultipleChunks(t *testing.T) {
	schema := newSnippetSchema(nil)

	first := buildRecord(t, schema, []string{"a", "b"}, []int64{1, 2}, nil)
	defer first.Release()
	second := buildRecord(t, schema, []string{"c"}, []int64{3}, nil)
	defer second.Release()

	tbl := array.NewTableFromRecords(schema, []arrow.Record{first, second})
	defer tbl.Release()

	table, err := FromArrow(tbl)
	require.NoError(t, err)

	assert.Equal(t, 3, table.NumRows())
	assert.Equal(t, "c", table.Column(0).Value(2))
	assert.Equal(t, int64(3), table.Column(1).Value(2))
	assert.Nil(t, table.Column(0).Value(3), "past the end is nil")
	assert.Empty(t, table.Metadata(), "no schema metadata")
}

func TestFromArrow_NoCodeFlag(t *testing.T) {
	schema := newSnippetSchema(nil)
	rec := buildRecord(t, schema, []string{"x"}, []int64{1}, nil)
	defer rec.Release()

	table, err := FromArrowRecord(rec)
	require.NoError(t, err)

	state := codeview.Prepare([]core.ResultTable{table}, codeview.Options{})
	assert.Equal(t, codeview.StateEmpty, state.Kind)
}
