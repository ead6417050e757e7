package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorType classifies a pipeline failure
type ErrorType string

const (
	ErrTypeOpen     ErrorType = "OPEN_FAILED"
	ErrTypeSheet    ErrorType = "SHEET_NOT_FOUND"
	ErrTypeHeader   ErrorType = "HEADER_NOT_FOUND"
	ErrTypeFields   ErrorType = "MISSING_TABLE_FIELDS"
	ErrTypeCoercion ErrorType = "TYPE_COERCION_FAILED"
	ErrTypeWrite    ErrorType = "WRITE_FAILED"
	ErrTypeConfig   ErrorType = "CONFIG"
	ErrTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for the pipeline error kinds

// NewOpenError reports that the source workbook cannot be opened or read
func NewOpenError(path string, cause error) *AppError {
	msg := "cannot open workbook"
	if path == "" {
		msg = "cannot open workbook: empty path"
	}
	return NewAppError(ErrTypeOpen, msg, cause).WithContext("path", path)
}

// NewSheetNotFoundError reports that the requested worksheet is absent
func NewSheetNotFoundError(sheet string) *AppError {
	return NewAppError(ErrTypeSheet, fmt.Sprintf("worksheet %q not found", sheet), nil).
		WithContext("sheet", sheet)
}

// NewHeaderNotFoundError reports that no scanned row contains a non-empty cell
func NewHeaderNotFoundError(rowsScanned int) *AppError {
	return NewAppError(ErrTypeHeader, "no header row found in the scanned prefix", nil).
		WithContext("rows_scanned", rowsScanned)
}

// NewMissingFieldsError reports that a report specification requires columns
// the normalized table does not have. Both column sets are kept on the error
// for diagnostics, sorted for stable output.
func NewMissingFieldsError(report string, available, missing []string) *AppError {
	avail := sortedCopy(available)
	miss := sortedCopy(missing)
	msg := fmt.Sprintf("report %q requires columns [%s] that are not in the table (available: [%s])",
		report, strings.Join(miss, ", "), strings.Join(avail, ", "))
	return NewAppError(ErrTypeFields, msg, nil).
		WithContext("report", report).
		WithContext("available", avail).
		WithContext("missing", miss)
}

// NewCoercionError reports a value-field cell that cannot be parsed as numeric
func NewCoercionError(field, cell string, cause error) *AppError {
	return NewAppError(ErrTypeCoercion, fmt.Sprintf("column %q contains non-numeric value %q", field, cell), cause).
		WithContext("field", field).
		WithContext("cell", cell)
}

// NewWriteError reports that the normalized table cannot be persisted
func NewWriteError(path string, cause error) *AppError {
	return NewAppError(ErrTypeWrite, "cannot write workbook", cause).WithContext("path", path)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewInternalError wraps an unanticipated failure, preserving the original
// error for errors.Is/As
func NewInternalError(cause error) *AppError {
	return NewAppError(ErrTypeInternal, "unexpected internal error", cause)
}

// Classify maps any error to its ErrorType. Errors that do not carry an
// AppError anywhere in their chain classify as ErrTypeInternal.
func Classify(err error) ErrorType {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrTypeInternal
}

// IsType reports whether err classifies as the given type
func IsType(err error, t ErrorType) bool {
	return Classify(err) == t
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
