package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents the CLI exit codes
type ErrorCode int

const (
	// CodeGeneric represents a generic failure (code 1)
	CodeGeneric ErrorCode = 1
	// CodeAborted represents a user-aborted confirmation (code 1)
	CodeAborted ErrorCode = 1
	// CodeFailed represents validation, not-found, or sync failures (code 3)
	CodeFailed ErrorCode = 3
	// CodeAccountMismatch represents an account-type mismatch (code 4)
	CodeAccountMismatch ErrorCode = 4
)

// CLIError represents a CLI error with a specific exit code
type CLIError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewGenericError creates a new generic error (code 1)
func NewGenericError(message string, cause error) *CLIError {
	return &CLIError{
		Code:    CodeGeneric,
		Message: message,
		Cause:   cause,
	}
}

// NewAbortedError creates a new user-aborted error (code 1)
func NewAbortedError(message string) *CLIError {
	return &CLIError{
		Code:    CodeAborted,
		Message: message,
	}
}

// NewValidationError creates a new validation error (code 3)
func NewValidationError(message string) *CLIError {
	return &CLIError{
		Code:    CodeFailed,
		Message: message,
	}
}

// NewSyncError creates a new sync error (code 3)
func NewSyncError(message string, cause error) *CLIError {
	return &CLIError{
		Code:    CodeFailed,
		Message: message,
		Cause:   cause,
	}
}

// NewNotFoundError creates a new not-found error (code 3)
func NewNotFoundError(message string) *CLIError {
	return &CLIError{
		Code:    CodeFailed,
		Message: message,
	}
}

// NewAccountTypeError creates a new account-type mismatch error (code 4)
func NewAccountTypeError(message string) *CLIError {
	return &CLIError{
		Code:    CodeAccountMismatch,
		Message: message,
	}
}

// Validation failure kinds carried by DetailsError.
const (
	KindRequiredSheets = "required tabs are missing"
	KindRequiredFields = "required fields are missing"
	KindRequiredValues = "required field values are missing"
)

// DetailsError is a validation failure that carries the names of the
// missing sheets, fields, or values.
type DetailsError struct {
	Kind    string
	Details []string
}

func (e *DetailsError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Details, ", "))
}

// NewRequiredSheetsError reports workbook tabs that are missing entirely.
func NewRequiredSheetsError(details []string) *DetailsError {
	return &DetailsError{Kind: KindRequiredSheets, Details: details}
}

// NewRequiredFieldsError reports declared fields absent from a tab.
func NewRequiredFieldsError(details []string) *DetailsError {
	return &DetailsError{Kind: KindRequiredFields, Details: details}
}

// NewRequiredFieldValuesError reports fields present but without a value.
func NewRequiredFieldValuesError(details []string) *DetailsError {
	return &DetailsError{Kind: KindRequiredValues, Details: details}
}

// InvalidCoordinateError reports a cell reference that is not A1-style.
type InvalidCoordinateError struct {
	Coordinate string
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid cell coordinate %q", e.Coordinate)
}

// InvalidTokenError reports an API secret that does not resolve to exactly
// one platform token.
type InvalidTokenError struct {
	Reason string
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid API token: %s", e.Reason)
}
