package codeview

import (
	"errors"
	"fmt"
)

// ErrorKind classifies extraction failures.
type ErrorKind int

const (
	// NoColumns means the selected table has zero columns.
	NoColumns ErrorKind = iota + 1
	// EmptyValues means the designated code column has zero rows.
	EmptyValues
)

// String returns the string representation of an ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case NoColumns:
		return "no_columns"
	case EmptyValues:
		return "empty_values"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Sentinel errors matched by ExtractionError via errors.Is.
var (
	ErrNoColumns   = errors.New("code table has no columns")
	ErrEmptyValues = errors.New("code column has no values")
)

// ExtractionError is returned by Extract when a table cannot yield code.
type ExtractionError struct {
	Kind ErrorKind
}

func (e *ExtractionError) Error() string {
	return "extract code: " + e.sentinel().Error()
}

// Is reports whether target is the sentinel for this error's kind.
func (e *ExtractionError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *ExtractionError) sentinel() error {
	switch e.Kind {
	case NoColumns:
		return ErrNoColumns
	case EmptyValues:
		return ErrEmptyValues
	default:
		return fmt.Errorf("unknown extraction failure %d", int(e.Kind))
	}
}

// Anomaly names a non-fatal condition that is logged but does not change
// the outcome of an operation.
type Anomaly string

const (
	// AnomalyMultipleCodeTables is logged when more than one table is flagged as code.
	AnomalyMultipleCodeTables Anomaly = "multiple_code_tables"
	// AnomalyUnrepresentableValue is logged when a code value has no faithful string form.
	AnomalyUnrepresentableValue Anomaly = "unrepresentable_value"
)
