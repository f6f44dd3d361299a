package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcode/pkg/adapter"
	"github.com/leapstack-labs/leapcode/pkg/core"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  adapter.Config
		want string
	}{
		{"empty path", adapter.Config{}, ":memory:"},
		{"memory", adapter.Config{Path: ":memory:"}, ":memory:"},
		{"file", adapter.Config{Path: "data/app.db"}, "data/app.db"},
		{
			name: "pragmas",
			cfg: adapter.Config{
				Path:    "app.db",
				Options: map[string]string{"foreign_keys": "1", "busy_timeout": "5000"},
			},
			want: "file:app.db?_pragma=busy_timeout%285000%29&_pragma=foreign_keys%281%29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildDSN(tt.cfg))
		})
	}
}

func TestAdapter_ConnectAndQuery(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snippets.db")

	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Path: path}))
	defer func() { _ = adp.Close() }()

	require.NoError(t, adp.Exec(ctx, `CREATE TABLE snippets (id INTEGER, body TEXT)`))
	require.NoError(t, adp.Exec(ctx, `INSERT INTO snippets VALUES (1, 'fmt.Println("hi")')`))

	table, err := adapter.QueryTable(ctx, adp, "SELECT body, id FROM snippets", core.Metadata{"isCode": "true"})
	require.NoError(t, err)

	assert.Equal(t, []string{"body", "id"}, table.ColumnNames())
	assert.Equal(t, `fmt.Println("hi")`, table.Column(0).Value(0))
	assert.EqualValues(t, 1, table.Column(1).Value(0))
}

func TestAdapter_MemoryIsSingleConnection(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{}))
	defer func() { _ = adp.Close() }()

	require.NoError(t, adp.Exec(ctx, `CREATE TABLE t (x TEXT)`))
	// A second pooled connection would not see the table.
	rows, err := adp.Query(ctx, `SELECT count(*) FROM t`)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
	require.True(t, rows.Next())
}

func TestAdapter_Registered(t *testing.T) {
	factory, ok := adapter.Get("sqlite")
	require.True(t, ok)
	assert.Equal(t, "sqlite", factory(nil).DialectName())
}
