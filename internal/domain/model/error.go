package model

import (
	"errors"
	"fmt"
)

// ErrorCode classifies core errors and warnings
type ErrorCode string

const (
	CodeConfigurationConflict   ErrorCode = "CONFIGURATION_CONFLICT"
	CodeMalformedRecurrenceRule ErrorCode = "MALFORMED_RECURRENCE_RULE"
	CodeCyclicDependency        ErrorCode = "CYCLIC_DEPENDENCY"
	CodeDanglingReference       ErrorCode = "DANGLING_REFERENCE"
	CodeInvalidDateKey          ErrorCode = "INVALID_DATE_KEY"
	CodeNotRecurring            ErrorCode = "NOT_RECURRING"
	CodeInvalidDependency       ErrorCode = "INVALID_DEPENDENCY"
	CodeInvalidCatalog          ErrorCode = "INVALID_CATALOG"
)

// String returns the string representation
func (c ErrorCode) String() string {
	return string(c)
}

// CoreError represents a typed error raised by the domain core.
// Two CoreErrors match under errors.Is when their codes are equal.
type CoreError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (e CoreError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is reports whether target carries the same code
func (e CoreError) Is(target error) bool {
	var other CoreError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// Common core errors
var (
	// ErrConfigurationConflict indicates two canonical fields share a user property name
	ErrConfigurationConflict = CoreError{
		Code:    CodeConfigurationConflict,
		Message: "Field mapping assigns one property name to several fields",
	}

	// ErrMalformedRecurrenceRule indicates a recurrence rule could not be parsed
	ErrMalformedRecurrenceRule = CoreError{
		Code:    CodeMalformedRecurrenceRule,
		Message: "Recurrence rule is malformed",
	}

	// ErrCyclicDependency indicates a dependency would close a cycle
	ErrCyclicDependency = CoreError{
		Code:    CodeCyclicDependency,
		Message: "Dependency would create a cycle",
	}

	// ErrDanglingReference indicates a dependency target does not resolve to a task
	ErrDanglingReference = CoreError{
		Code:    CodeDanglingReference,
		Message: "Dependency target does not exist",
	}

	// ErrInvalidDateKey indicates a date-key is not a valid instance key
	ErrInvalidDateKey = CoreError{
		Code:    CodeInvalidDateKey,
		Message: "Invalid date key",
	}

	// ErrNotRecurring indicates an instance operation on a non-recurring task
	ErrNotRecurring = CoreError{
		Code:    CodeNotRecurring,
		Message: "Task is not recurring",
	}

	// ErrInvalidDependency indicates an unknown relation type or malformed gap
	ErrInvalidDependency = CoreError{
		Code:    CodeInvalidDependency,
		Message: "Invalid dependency",
	}

	// ErrInvalidCatalog indicates a status or priority catalog mutation was refused
	ErrInvalidCatalog = CoreError{
		Code:    CodeInvalidCatalog,
		Message: "Invalid catalog",
	}
)

// NewCoreError creates a new core error with details
func NewCoreError(code ErrorCode, message string, details map[string]interface{}) CoreError {
	return CoreError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// WithDetails adds details to an existing error
func (e CoreError) WithDetails(details map[string]interface{}) CoreError {
	e.Details = details
	return e
}

// WithMessage replaces the message while keeping the code
func (e CoreError) WithMessage(format string, args ...interface{}) CoreError {
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// IsCyclicDependency checks if the error is a cyclic dependency error
func IsCyclicDependency(err error) bool {
	return errors.Is(err, ErrCyclicDependency)
}

// IsInvalidDateKey checks if the error is an invalid date key error
func IsInvalidDateKey(err error) bool {
	return errors.Is(err, ErrInvalidDateKey)
}

// IsNotRecurring checks if the error is a not recurring error
func IsNotRecurring(err error) bool {
	return errors.Is(err, ErrNotRecurring)
}

// IsInvalidDependency checks if the error is an invalid dependency error
func IsInvalidDependency(err error) bool {
	return errors.Is(err, ErrInvalidDependency)
}

// IsInvalidCatalog checks if the error is an invalid catalog error
func IsInvalidCatalog(err error) bool {
	return errors.Is(err, ErrInvalidCatalog)
}

// Direction selects which way a catalog is cycled
type Direction int

const (
	Forward Direction = iota
	Backward
)

// String returns the string representation
func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}
