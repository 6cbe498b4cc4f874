// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrMalformedInput = errors.New("malformed input")
	ErrConfigInvalid  = errors.New("invalid configuration")
	ErrColumnExists   = errors.New("column already exists")
	ErrDataNotFound   = errors.New("data not found")
)

// InputError represents a malformed-input failure detected at pipeline entry.
type InputError struct {
	Field   string
	Index   int
	Message string
}

func (e *InputError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("malformed input: %s at index %d: %s", e.Field, e.Index, e.Message)
	}
	return fmt.Sprintf("malformed input: %s: %s", e.Field, e.Message)
}

func (e *InputError) Unwrap() error {
	return ErrMalformedInput
}

// NewInputError creates a new InputError. Index may be -1 when the failure is
// not tied to a specific bar.
func NewInputError(field string, index int, message string) *InputError {
	return &InputError{
		Field:   field,
		Index:   index,
		Message: message,
	}
}

// ConfigError represents an invalid configuration value rejected at
// construction time.
type ConfigError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfigInvalid
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field string, value interface{}, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Symbol   string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Symbol, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Symbol, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, symbol, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Symbol:   symbol,
		Message:  message,
		Err:      err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
