// Package frame builds core.ResultTable values from the shapes data backends
// hand back: database/sql rows, Apache Arrow tables, and fixture files.
package frame
