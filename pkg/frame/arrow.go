package frame

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/leapstack-labs/leapcode/pkg/core"
)

// arrowColumn is a lazy Column over the chunks of an Arrow column.
type arrowColumn struct {
	name   string
	chunks []arrow.Array
	length int
}

func (c *arrowColumn) Name() string { return c.name }

func (c *arrowColumn) Len() int { return c.length }

// Value walks the chunks to row i. Nulls and out-of-range rows are nil.
func (c *arrowColumn) Value(i int) any {
	for _, chunk := range c.chunks {
		if i < chunk.Len() {
			if chunk.IsNull(i) {
				return nil
			}
			return chunk.GetOneForMarshal(i)
		}
		i -= chunk.Len()
	}
	return nil
}

// FromArrow wraps tbl as a ResultTable without copying column data.
// Schema metadata is copied as string values. The caller keeps tbl retained
// for as long as the returned table is in use.
func FromArrow(tbl arrow.Table) (core.ResultTable, error) {
	columns := make([]core.Column, tbl.NumCols())
	for i := range columns {
		col := tbl.Column(i)
		columns[i] = &arrowColumn{
			name:   col.Name(),
			chunks: col.Data().Chunks(),
			length: col.Len(),
		}
	}

	return core.NewResultTable(columns, schemaMetadata(tbl.Schema()))
}

// FromArrowRecord wraps a single record batch as a ResultTable.
// The caller keeps rec retained for as long as the returned table is in use.
func FromArrowRecord(rec arrow.Record) (core.ResultTable, error) {
	tbl := array.NewTableFromRecords(rec.Schema(), []arrow.Record{rec})
	defer tbl.Release()
	return FromArrow(tbl)
}

func schemaMetadata(schema *arrow.Schema) core.Metadata {
	md := core.Metadata{}
	if !schema.HasMetadata() {
		return md
	}
	m := schema.Metadata()
	keys, values := m.Keys(), m.Values()
	for i, k := range keys {
		md[k] = values[i]
	}
	return md
}
