package codeview

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapcode/pkg/core"
)

// IsCode reports whether table's metadata flags it as code under key.
// Both a boolean true and a string that parses as true are accepted, since
// Arrow schema metadata and SQL-sourced metadata are string-typed.
func IsCode(table core.ResultTable, key string) bool {
	v, ok := table.Meta(key)
	if !ok {
		return false
	}
	switch flag := v.(type) {
	case bool:
		return flag
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(flag))
		return err == nil && b
	default:
		return false
	}
}

// Select returns the first code-flagged table and its index in tables.
// ok is false when no table is flagged, which is a valid "no code" state.
// When several tables are flagged the first wins and the rest are reported
// as an anomaly; input order is taken as backend precedence.
func Select(tables []core.ResultTable, opts Options) (table core.ResultTable, index int, ok bool) {
	opts = opts.withDefaults()

	index = -1
	matches := 0
	for i, t := range tables {
		if !IsCode(t, opts.CodeKey) {
			continue
		}
		matches++
		if index < 0 {
			index = i
		}
	}

	if matches == 0 {
		return core.ResultTable{}, -1, false
	}
	if matches > 1 {
		opts.Logger.Warn("multiple tables flagged as code, using the first",
			slog.String("anomaly", string(AnomalyMultipleCodeTables)),
			slog.Int("count", matches),
			slog.Int("table_index", index))
	}
	return tables[index], index, true
}
