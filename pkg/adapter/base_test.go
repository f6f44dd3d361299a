package adapter

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcode/internal/testutil"
	"github.com/leapstack-labs/leapcode/pkg/core"
)

func TestBaseSQLAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	base := &BaseSQLAdapter{}

	assert.False(t, base.IsConnected())
	assert.NoError(t, base.Close())

	err := base.Exec(ctx, "SELECT 1")
	assert.EqualError(t, err, "database connection not established")

	rows, err := base.Query(ctx, "SELECT 1")
	assert.Nil(t, rows)
	assert.EqualError(t, err, "database connection not established")
}

func TestBaseSQLAdapter_ExecAndQuery(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE snippets").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INVALID").WillReturnError(assert.AnError)
	mock.ExpectQuery("SELECT body").WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow("x"))
	mock.ExpectQuery("SELECT broken").WillReturnError(assert.AnError)
	mock.ExpectClose()

	base := &BaseSQLAdapter{DB: db, Logger: testutil.NewTestLogger(t)}
	require.True(t, base.IsConnected())

	require.NoError(t, base.Exec(ctx, "CREATE TABLE snippets (body TEXT)"))

	err = base.Exec(ctx, "INVALID SQL")
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to execute SQL")

	rows, err := base.Query(ctx, "SELECT body FROM snippets")
	require.NoError(t, err)
	require.NoError(t, rows.Close())

	_, err = base.Query(ctx, "SELECT broken")
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to execute query")

	require.NoError(t, base.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_Open(t *testing.T) {
	db, _, err := sqlmock.NewWithDSN("base_open_test")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	base := &BaseSQLAdapter{Logger: testutil.NewTestLogger(t)}
	cfg := core.AdapterConfig{Type: "mock", Path: "base_open_test"}

	require.NoError(t, base.Open(context.Background(), "sqlmock", "base_open_test", cfg))
	assert.True(t, base.IsConnected())
	assert.Equal(t, "mock", base.Cfg.Type)
	require.NoError(t, base.Close())
}

func TestBaseSQLAdapter_Open_UnknownDriver(t *testing.T) {
	base := &BaseSQLAdapter{}
	err := base.Open(context.Background(), "no-such-driver", "", core.AdapterConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open no-such-driver connection")
	assert.False(t, base.IsConnected())
}

// mockAdapter is a minimal Adapter over sqlmock.
type mockAdapter struct {
	BaseSQLAdapter
}

func (m *mockAdapter) Connect(context.Context, Config) error { return nil }
func (m *mockAdapter) DialectName() string                  { return "mock" }

func TestQueryTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT body").WillReturnRows(
		sqlmock.NewRows([]string{"body"}).AddRow("SELECT 42"),
	)

	adp := &mockAdapter{BaseSQLAdapter{DB: db}}
	table, err := QueryTable(context.Background(), adp, "SELECT body FROM snippets", core.Metadata{"isCode": true})
	require.NoError(t, err)

	assert.Equal(t, "SELECT 42", table.Column(0).Value(0))
	flag, _ := table.Meta("isCode")
	assert.Equal(t, true, flag)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryTable_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	adp := &mockAdapter{BaseSQLAdapter{DB: db}}
	_, err = QueryTable(context.Background(), adp, "SELECT 1", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
