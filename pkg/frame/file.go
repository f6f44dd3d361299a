package frame

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapcode/pkg/core"
)

// fileDoc is the on-disk layout of a table fixture. JSON is accepted too,
// being a subset of YAML.
type fileDoc struct {
	Tables []fileTable `yaml:"tables"`
}

type fileTable struct {
	Metadata map[string]any `yaml:"metadata"`
	Columns  []fileColumn   `yaml:"columns"`
}

type fileColumn struct {
	Name   string `yaml:"name"`
	Values []any  `yaml:"values"`
}

// LoadFile reads result tables from a YAML or JSON fixture file.
func LoadFile(path string) ([]core.ResultTable, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from project configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open table file: %w", err)
	}
	defer func() { _ = f.Close() }()

	tables, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tables, nil
}

// Decode reads result tables from a YAML or JSON document:
//
//	tables:
//	  - metadata: {isCode: true, language: sql}
//	    columns:
//	      - name: query
//	        values: ["SELECT 1"]
func Decode(r io.Reader) ([]core.ResultTable, error) {
	var doc fileDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode tables: %w", err)
	}

	tables := make([]core.ResultTable, 0, len(doc.Tables))
	for i, ft := range doc.Tables {
		columns := make([]core.Column, len(ft.Columns))
		for j, fc := range ft.Columns {
			columns[j] = core.NewSliceColumn(fc.Name, fc.Values)
		}
		t, err := core.NewResultTable(columns, ft.Metadata)
		if err != nil {
			return nil, fmt.Errorf("table %d: %w", i, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}
