// Package errors provides the error taxonomy for tool library decoding.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================
// Error Categories
// ============================================================

// Category defines the type of error for handling decisions.
type Category int

const (
	// CategoryUnsupported: the file extension is unknown or no detector
	// recognized the file. The whole file is rejected.
	CategoryUnsupported Category = iota

	// CategoryMalformed: a record failed structural validation in a strict
	// format. Heuristic scanners skip such records instead of reporting them.
	CategoryMalformed

	// CategorySource: the bytes or rows could not be read at all
	// (I/O, truncation, decompression, SQL).
	CategorySource

	// CategoryConfig: the configuration file is invalid.
	CategoryConfig
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryUnsupported:
		return "unsupported_format"
	case CategoryMalformed:
		return "malformed_record"
	case CategorySource:
		return "source_read_failure"
	case CategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ============================================================
// AppError - Main Error Type
// ============================================================

// AppError is the error type returned by parsers and the CLI.
type AppError struct {
	// Code is a unique error code for programmatic handling
	Code string

	// Message is a user-friendly error message
	Message string

	// Category determines how the error should be handled
	Category Category

	// Inner is the underlying error
	Inner error

	// Context is additional debugging information (offsets, paths)
	Context map[string]interface{}
}

// Error returns the error message.
func (e *AppError) Error() string {
	var sb strings.Builder

	if e.Code != "" {
		sb.WriteString("[")
		sb.WriteString(e.Code)
		sb.WriteString("] ")
	}

	sb.WriteString(e.Message)

	if e.Inner != nil {
		innerMsg := e.Inner.Error()
		if innerMsg != "" && innerMsg != e.Message {
			sb.WriteString(": ")
			sb.WriteString(innerMsg)
		}
	}

	return sb.String()
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Inner
}

// WithContext attaches a debugging value and returns e.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// ============================================================
// Error Constructors
// ============================================================

// New creates a new AppError.
func New(code, message string, category Category) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Category: category,
	}
}

// Wrap wraps an existing error with context.
func Wrap(err error, code, message string, category Category) *AppError {
	if err == nil {
		return nil
	}

	var inner *AppError
	if errors.As(err, &inner) {
		return &AppError{
			Code:     code,
			Message:  message,
			Category: category,
			Inner:    err,
			Context:  inner.Context,
		}
	}

	return &AppError{
		Code:     code,
		Message:  message,
		Category: category,
		Inner:    err,
	}
}

// Unsupported reports a file no parser can handle.
func Unsupported(format string, args ...interface{}) *AppError {
	return New(CodeUnsupportedFormat, fmt.Sprintf(format, args...), CategoryUnsupported)
}

// Malformed reports a structural violation at a byte offset.
func Malformed(offset int, format string, args ...interface{}) *AppError {
	return New(CodeMalformedRecord, fmt.Sprintf(format, args...), CategoryMalformed).
		WithContext("offset", offset)
}

// SourceRead wraps an I/O, decompression or query failure.
func SourceRead(err error, format string, args ...interface{}) *AppError {
	return Wrap(err, CodeSourceReadFailed, fmt.Sprintf(format, args...), CategorySource)
}

// ============================================================
// Error Codes
// ============================================================

const (
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeMalformedRecord   = "MALFORMED_RECORD"
	CodeSourceReadFailed  = "SOURCE_READ_FAILED"
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeOutputWriteFailed = "OUTPUT_WRITE_FAILED"
)

// ============================================================
// Helpers
// ============================================================

// GetCategory extracts the category from an error.
// Errors that are not AppErrors count as source read failures.
func GetCategory(err error) Category {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Category
	}
	return CategorySource
}

// IsUnsupported reports whether err rejects the file format.
func IsUnsupported(err error) bool {
	return err != nil && GetCategory(err) == CategoryUnsupported
}

// IsMalformed reports whether err is a strict-format structural violation.
func IsMalformed(err error) bool {
	return err != nil && GetCategory(err) == CategoryMalformed
}

// IsSourceRead reports whether err is a read, decompression or query failure.
func IsSourceRead(err error) bool {
	return err != nil && GetCategory(err) == CategorySource
}

// FormatUserMessage formats a user-facing message, including the byte offset
// of a malformed record when known.
func FormatUserMessage(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		msg := appErr.Error()
		if off, ok := appErr.Context["offset"]; ok {
			msg = fmt.Sprintf("%s (at byte offset %v)", msg, off)
		}
		return msg
	}

	return err.Error()
}
