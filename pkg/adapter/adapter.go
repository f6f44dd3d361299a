// Package adapter provides the database adapter contract used to pull
// result tables out of data backends.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves from init().
package adapter

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/leapcode/pkg/core"
	"github.com/leapstack-labs/leapcode/pkg/frame"
)

// Type aliases so adapter implementations need only import this package.
type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Rows is an alias for core.Rows.
	Rows = core.Rows

	// Adapter is an alias for core.Adapter.
	Adapter = core.Adapter
)

// QueryTable runs sqlStr on a and drains the result into a ResultTable
// carrying meta.
func QueryTable(ctx context.Context, a Adapter, sqlStr string, meta core.Metadata) (core.ResultTable, error) {
	rows, err := a.Query(ctx, sqlStr)
	if err != nil {
		return core.ResultTable{}, err
	}
	defer func() { _ = rows.Close() }()

	table, err := frame.FromRows(rows.Rows, meta)
	if err != nil {
		return core.ResultTable{}, fmt.Errorf("failed to read query result: %w", err)
	}
	return table, nil
}
