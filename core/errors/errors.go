// Package errors provides standardized error types and helpers for the xliffmerge codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrStructure indicates a required schema element is missing
	ErrStructure = errors.New("missing required element")
	// ErrMalformed indicates input that does not match the expected shape
	ErrMalformed = errors.New("malformed input")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")
)

// StructuralError reports a required schema element that is absent from a
// document, such as a missing file, body, segment, or source element.
type StructuralError struct {
	Element string // Element that was expected (e.g., "segment")
	Parent  string // Enclosing element, if known
	Dialect string // Dialect being parsed (e.g., "xliff-1.2")
	Err     error  // Underlying error, if any
}

func (e *StructuralError) Error() string {
	if e.Parent != "" {
		return fmt.Sprintf("%s: missing required element <%s> in <%s>", e.Dialect, e.Element, e.Parent)
	}
	return fmt.Sprintf("%s: missing required element <%s>", e.Dialect, e.Element)
}

func (e *StructuralError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrStructure
}

// MalformedLocationError reports a location note whose text does not decode
// as file:line or file:line,line.
type MalformedLocationError struct {
	Text   string // Raw note text that failed to decode
	Reason string // Human-readable reason
	Err    error  // Underlying error, if any
}

func (e *MalformedLocationError) Error() string {
	return fmt.Sprintf("malformed location note %q: %s", e.Text, e.Reason)
}

func (e *MalformedLocationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformed
}

// IntegerParseError reports a field that was expected to hold a base-10
// integer but did not.
type IntegerParseError struct {
	Field string // Field name (e.g., "lineStart")
	Value string // Value that failed to parse
	Err   error  // Underlying strconv error
}

func (e *IntegerParseError) Error() string {
	return fmt.Sprintf("%s: %q is not a number", e.Field, e.Value)
}

func (e *IntegerParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformed
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "XML", "XLIFF 2.0")
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write")
	Path      string // File path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// UnsupportedError represents an unsupported feature or format
type UnsupportedError struct {
	Feature string // Feature or format that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// Helper functions for creating common errors

// NewStructural creates a StructuralError
func NewStructural(dialect, element, parent string) *StructuralError {
	return &StructuralError{
		Dialect: dialect,
		Element: element,
		Parent:  parent,
	}
}

// NewMalformedLocation creates a MalformedLocationError
func NewMalformedLocation(text, reason string) *MalformedLocationError {
	return &MalformedLocationError{
		Text:   text,
		Reason: reason,
	}
}

// NewIntegerParse creates an IntegerParseError
func NewIntegerParse(field, value string, err error) *IntegerParseError {
	return &IntegerParseError{
		Field: field,
		Value: value,
		Err:   err,
	}
}

// NewParse creates a ParseError
func NewParse(format, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
