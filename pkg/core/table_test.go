package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResultTable(t *testing.T) {
	tests := []struct {
		name     string
		columns  []Column
		wantErr  error
		wantRows int
	}{
		{
			name:     "no columns",
			columns:  nil,
			wantRows: 0,
		},
		{
			name: "rectangular",
			columns: []Column{
				NewSliceColumn("id", []any{1, 2}),
				NewSliceColumn("name", []any{"a", "b"}),
			},
			wantRows: 2,
		},
		{
			name: "empty columns",
			columns: []Column{
				NewSliceColumn("id", nil),
				NewSliceColumn("name", []any{}),
			},
			wantRows: 0,
		},
		{
			name: "ragged",
			columns: []Column{
				NewSliceColumn("id", []any{1, 2}),
				NewSliceColumn("name", []any{"a"}),
			},
			wantErr: ErrRaggedTable,
		},
		{
			name: "duplicate name",
			columns: []Column{
				NewSliceColumn("id", []any{1}),
				NewSliceColumn("id", []any{2}),
			},
			wantErr: ErrDuplicateColumn,
		},
		{
			name:    "nil column",
			columns: []Column{nil},
			wantErr: ErrNilColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewResultTable(tt.columns, nil)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.columns), table.NumColumns())
			assert.Equal(t, tt.wantRows, table.NumRows())
		})
	}
}

func TestResultTable_IsSnapshot(t *testing.T) {
	values := []any{"print('hi')"}
	meta := Metadata{"isCode": true}
	columns := []Column{NewSliceColumn("msg", values)}

	table := MustResultTable(columns, meta)

	// Mutating the inputs must not leak into the table.
	values[0] = "changed"
	meta["isCode"] = false
	columns[0] = NewSliceColumn("other", []any{1})

	assert.Equal(t, "msg", table.Column(0).Name())
	assert.Equal(t, "print('hi')", table.Column(0).Value(0))
	v, ok := table.Meta("isCode")
	require.True(t, ok)
	assert.Equal(t, true, v)

	// Neither may mutating what the accessors hand out.
	table.Metadata()["isCode"] = false
	v, _ = table.Meta("isCode")
	assert.Equal(t, true, v)
}

func TestResultTable_ColumnNames(t *testing.T) {
	table := MustResultTable([]Column{
		NewSliceColumn("a", []any{1}),
		NewSliceColumn("b", []any{2}),
	}, nil)

	assert.Equal(t, []string{"a", "b"}, table.ColumnNames())
	_, ok := table.Meta("missing")
	assert.False(t, ok)
}

func TestMustResultTable_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustResultTable([]Column{
			NewSliceColumn("a", []any{1}),
			NewSliceColumn("b", nil),
		}, nil)
	})
}

func TestTargetConfig_AdapterConfig(t *testing.T) {
	target := &TargetConfig{
		Type:     "postgres",
		Database: "analytics",
		Host:     "db.local",
		Port:     5432,
		User:     "reader",
		Password: "secret",
		Schema:   "public",
	}

	cfg := target.AdapterConfig()
	assert.Equal(t, "postgres", cfg.Type)
	assert.Equal(t, "analytics", cfg.Path)
	assert.Equal(t, "analytics", cfg.Database)
	assert.Equal(t, "reader", cfg.Username)
	assert.Equal(t, 5432, cfg.Port)
}
