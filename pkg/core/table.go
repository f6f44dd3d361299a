package core

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Errors returned when constructing a ResultTable.
var (
	// ErrRaggedTable is returned when columns have different lengths.
	ErrRaggedTable = errors.New("columns have unequal lengths")

	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrNilColumn is returned when a column slot is nil.
	ErrNilColumn = errors.New("nil column")
)

// Metadata holds free-form information attached to a result table.
type Metadata map[string]any

// Column is a named, indexable sequence of values.
// Implementations may be eager or lazy; Value must be valid for 0 <= i < Len().
type Column interface {
	Name() string
	Len() int
	Value(i int) any
}

// SliceColumn is an eager Column backed by a slice.
type SliceColumn struct {
	name   string
	values []any
}

// NewSliceColumn creates a column holding a copy of values.
func NewSliceColumn(name string, values []any) *SliceColumn {
	return &SliceColumn{name: name, values: slices.Clone(values)}
}

// Name returns the column name.
func (c *SliceColumn) Name() string { return c.name }

// Len returns the number of values.
func (c *SliceColumn) Len() int { return len(c.values) }

// Value returns the value at row i.
func (c *SliceColumn) Value(i int) any { return c.values[i] }

// ResultTable is an immutable, rectangular query result.
type ResultTable struct {
	columns  []Column
	metadata Metadata
	rows     int
}

// NewResultTable validates columns and returns a table snapshot.
// Tables whose columns differ in length are rejected, never truncated.
func NewResultTable(columns []Column, metadata Metadata) (ResultTable, error) {
	seen := make(map[string]struct{}, len(columns))
	rows := 0
	for i, col := range columns {
		if col == nil {
			return ResultTable{}, fmt.Errorf("column %d: %w", i, ErrNilColumn)
		}
		if _, dup := seen[col.Name()]; dup {
			return ResultTable{}, fmt.Errorf("column %q: %w", col.Name(), ErrDuplicateColumn)
		}
		seen[col.Name()] = struct{}{}

		if i == 0 {
			rows = col.Len()
		} else if col.Len() != rows {
			return ResultTable{}, fmt.Errorf("column %q has %d values, expected %d: %w",
				col.Name(), col.Len(), rows, ErrRaggedTable)
		}
	}

	return ResultTable{
		columns:  slices.Clone(columns),
		metadata: maps.Clone(metadata),
		rows:     rows,
	}, nil
}

// MustResultTable is like NewResultTable but panics on invalid input.
// Intended for fixtures and tests.
func MustResultTable(columns []Column, metadata Metadata) ResultTable {
	t, err := NewResultTable(columns, metadata)
	if err != nil {
		panic(err)
	}
	return t
}

// NumColumns returns the number of columns.
func (t ResultTable) NumColumns() int { return len(t.columns) }

// NumRows returns the shared length of every column.
func (t ResultTable) NumRows() int { return t.rows }

// Column returns the column at position i.
func (t ResultTable) Column(i int) Column { return t.columns[i] }

// Columns returns the columns in order.
func (t ResultTable) Columns() []Column { return slices.Clone(t.columns) }

// ColumnNames returns the column names in order.
func (t ResultTable) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name()
	}
	return names
}

// Meta returns the metadata value stored under key.
func (t ResultTable) Meta(key string) (any, bool) {
	v, ok := t.metadata[key]
	return v, ok
}

// Metadata returns a copy of the table metadata.
func (t ResultTable) Metadata() Metadata { return maps.Clone(t.metadata) }
