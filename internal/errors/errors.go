// Package errors defines the error taxonomy of the analytics core.
//
// Fatal errors (ConfigError, SchemaError) abort a run before any
// partial output is produced. ComputationError identifies a cell that
// cannot be interpreted under its declared column role; it is located
// (column plus row) and never silently coerced. Insufficient data in a
// group is deliberately NOT an error: it is reported as a diagnostic
// alongside the primary output (see contracts/domain.SkippedGroup).
package errors

import (
	"errors"
	"fmt"
)

// Error codes carried by the core error types. Codes are stable and
// machine-checkable; messages are for humans.
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeSchemaInvalid   = "SCHEMA_INVALID"
	CodeValueNotNumeric = "VALUE_NOT_NUMERIC"
)

// ConfigError reports an invalid engine configuration value: an
// unknown correction method or policy, a bad window size, or a
// percentile outside its valid domain. Always fatal.
type ConfigError struct {
	Field   string
	Message string
	Value   interface{}
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s: %s (got %v)", CodeConfigInvalid, e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s: %s", CodeConfigInvalid, e.Field, e.Message)
}

// NewConfig creates a ConfigError for the given field.
func NewConfig(field, message string, value interface{}) *ConfigError {
	return &ConfigError{Field: field, Message: message, Value: value}
}

// SchemaError reports a required column that is absent from the input
// table or declared with a conflicting role. Always fatal.
type SchemaError struct {
	Column  string
	Message string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: column %q: %s", CodeSchemaInvalid, e.Column, e.Message)
}

// NewSchema creates a SchemaError for the given column.
func NewSchema(column, message string) *SchemaError {
	return &SchemaError{Column: column, Message: message}
}

// ComputationError reports a cell whose value cannot be interpreted
// under its column's declared semantic type. Row is 1-based over the
// table's data rows so the failure is attributable to a specific cell.
type ComputationError struct {
	Column  string
	Row     int
	Value   string
	Message string
}

// Error implements the error interface.
func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: column %q row %d: %s (value %q)", CodeValueNotNumeric, e.Column, e.Row, e.Message, e.Value)
}

// NewComputation creates a located ComputationError.
func NewComputation(column string, row int, value, message string) *ComputationError {
	return &ComputationError{Column: column, Row: row, Value: value, Message: message}
}

// IsConfig reports whether err is or wraps a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsSchema reports whether err is or wraps a SchemaError.
func IsSchema(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// IsComputation reports whether err is or wraps a ComputationError.
func IsComputation(err error) bool {
	var ce *ComputationError
	return errors.As(err, &ce)
}
