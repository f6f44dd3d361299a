package frame

import (
	"database/sql"
	"fmt"
	"maps"

	"github.com/leapstack-labs/leapcode/pkg/core"
)

// MetaKeyColumnTypes holds the database type name of each column.
const MetaKeyColumnTypes = "columnTypes"

// FromRows drains rows into an eager ResultTable carrying meta.
// Byte slices are copied into strings because drivers may reuse scan buffers.
// The caller still owns rows and must close it.
func FromRows(rows *sql.Rows, meta core.Metadata) (core.ResultTable, error) {
	names, err := rows.Columns()
	if err != nil {
		return core.ResultTable{}, fmt.Errorf("failed to read columns: %w", err)
	}

	typeNames := make([]string, len(names))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			typeNames[i] = ct.DatabaseTypeName()
		}
	}

	values := make([][]any, len(names))
	for rows.Next() {
		dest := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return core.ResultTable{}, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range dest {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			values[i] = append(values[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return core.ResultTable{}, fmt.Errorf("error iterating rows: %w", err)
	}

	columns := make([]core.Column, len(names))
	for i, name := range names {
		columns[i] = core.NewSliceColumn(name, values[i])
	}

	md := maps.Clone(meta)
	if md == nil {
		md = core.Metadata{}
	}
	md[MetaKeyColumnTypes] = typeNames

	return core.NewResultTable(columns, md)
}
