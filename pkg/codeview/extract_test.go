package codeview

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcode/pkg/core"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		columns  []core.Column
		want     string
		wantKind ErrorKind
	}{
		{
			name:     "no columns",
			columns:  nil,
			wantKind: NoColumns,
		},
		{
			name:     "first column empty",
			columns:  []core.Column{col("code"), col("other")},
			wantKind: EmptyValues,
		},
		{
			name:    "first row of first column",
			columns: []core.Column{col("msg", "print('hi')", "ignored"), col("other", "x", "y")},
			want:    "print('hi')",
		},
		{
			name:    "selection is by position not name",
			columns: []core.Column{col("whatever", "SELECT 1"), col("code", "not me")},
			want:    "SELECT 1",
		},
		{
			name:    "numeric value",
			columns: []core.Column{col("n", int64(42))},
			want:    "42",
		},
		{
			name:    "null value",
			columns: []core.Column{col("n", nil)},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(table(t, nil, tt.columns...), Options{})
			if tt.wantKind != 0 {
				var xerr *ExtractionError
				require.True(t, errors.As(err, &xerr), "expected ExtractionError, got %v", err)
				assert.Equal(t, tt.wantKind, xerr.Kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_UnrepresentableValue(t *testing.T) {
	opts, logs := captureLogger(t)
	tbl := table(t, nil, col("code", make(chan int)))

	got, err := Extract(tbl, opts)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Contains(t, logs.String(), string(AnomalyUnrepresentableValue))
	assert.Contains(t, logs.String(), "chan int")
}

func TestExtractionError_Is(t *testing.T) {
	noCols := &ExtractionError{Kind: NoColumns}
	empty := &ExtractionError{Kind: EmptyValues}

	assert.ErrorIs(t, noCols, ErrNoColumns)
	assert.NotErrorIs(t, noCols, ErrEmptyValues)
	assert.ErrorIs(t, empty, ErrEmptyValues)
	assert.Contains(t, empty.Error(), "no values")
	assert.Equal(t, "unknown(9)", ErrorKind(9).String())
}
