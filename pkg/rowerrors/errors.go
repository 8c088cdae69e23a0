// Package rowerrors provides structured error handling for rowbridge with
// error categorization, key-value context and stack traces.
//
// # Overview
//
// Every failure surfaced by the row adapter and the reflection layer is an
// *Error carrying one ErrorType:
//   - ErrorTypeUnsupportedType: a declared type outside the fixed element set
//   - ErrorTypeUnsupportedOperation: an entry point that is intentionally unimplemented
//   - ErrorTypeTypeMismatch: a runtime value that does not match the declared type
//   - ErrorTypeNotFound: a missing field or object
//
// None of these are retryable; the adapter has no transient resources.
//
// # Basic Usage
//
//	err := rowerrors.New(rowerrors.ErrorTypeTypeMismatch, "value does not match cell").
//	    WithDetail("expected", "int32").
//	    WithDetail("actual", "string")
//
//	if rowerrors.IsType(err, rowerrors.ErrorTypeTypeMismatch) {
//	    // schema and data disagree
//	}
//
// # Thread Safety
//
// Error instances are not thread-safe for modification. Use WithDetail
// before sharing across goroutines.
package rowerrors

import (
	"errors"
	"runtime"

	stringpool "github.com/ajitpratap0/rowbridge/pkg/strings"
)

// ErrorType represents the category of error.
type ErrorType string

const (
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeValidation represents caller contract violations (bad index, bad length)
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNotFound represents missing fields or objects
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeUnsupportedType represents a declared type outside the supported set
	ErrorTypeUnsupportedType ErrorType = "unsupported_type"
	// ErrorTypeUnsupportedOperation represents an intentionally unimplemented entry point
	ErrorTypeUnsupportedOperation ErrorType = "unsupported_operation"
	// ErrorTypeTypeMismatch represents a value whose runtime type disagrees with its declared type
	ErrorTypeTypeMismatch ErrorType = "type_mismatch"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeData represents data processing errors
	ErrorTypeData ErrorType = "data"
	// ErrorTypeFile represents file and object storage errors
	ErrorTypeFile ErrorType = "file"
)

// Error represents a structured error with context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack.
type StackFrame struct {
	Function string // Fully qualified function name
	File     string // Source file path
	Line     int    // Line number in source file
}

// Error implements the error interface, returning a formatted error message
// that includes the error type, message, and cause (if present).
func (e *Error) Error() string {
	if e.Cause != nil {
		return stringpool.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return stringpool.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error. It can be chained.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message, capturing the
// call stack at the point of creation.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf is New with a format string.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: stringpool.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context, preserving the original
// error as the cause. If the error is already a structured Error, its stack
// trace is preserved. Returns nil if the input error is nil.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType reports whether any error in err's chain is an *Error of the given type.
func IsType(err error, errType ErrorType) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Type == errType {
			return true
		}
		err = e.Cause
	}
	return false
}

// captureStack captures the current call stack up to maxFrames deep,
// skipping the specified number of frames from the top.
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
