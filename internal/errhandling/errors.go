// Package errhandling provides error types and classification utilities.
// It defines error categories and classification functions for consistent
// error handling across the linefilter runtime.
package errhandling

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// ErrorCategory represents the type/category of an error.
// Categories determine how an error is reported and which exit code applies.
type ErrorCategory string

// Error categories for classification.
const (
	// CategoryIO represents stream and file errors (read, write, open, close).
	// IO errors are fatal for a one-shot stream tool: no recovery is attempted.
	CategoryIO ErrorCategory = "io"

	// CategoryConfig represents configuration errors (parse, schema, convert).
	// Config errors are fatal and reported before any line is processed.
	CategoryConfig ErrorCategory = "config"

	// CategoryStage represents stage evaluation errors (expression, script,
	// template). Stage errors abort the run unless the stage is configured
	// to keep or drop the offending line.
	CategoryStage ErrorCategory = "stage"

	// CategoryInterrupt represents context cancellation.
	CategoryInterrupt ErrorCategory = "interrupt"

	// CategoryUnknown represents unclassified errors.
	CategoryUnknown ErrorCategory = "unknown"
)

// ClassifiedError wraps an error with classification metadata.
type ClassifiedError struct {
	// Category is the error classification category.
	Category ErrorCategory

	// Code is a machine-readable error code (e.g. READ_FAILED).
	Code string

	// Message is a human-readable error message.
	Message string

	// OriginalErr is the underlying error that was classified.
	OriginalErr error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s error [%s]: %s", e.Category, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Category, e.Message)
}

// Unwrap returns the original error for use with errors.Is and errors.As.
func (e *ClassifiedError) Unwrap() error {
	return e.OriginalErr
}

// NewIOError creates a classified IO error.
func NewIOError(code, message string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:    CategoryIO,
		Code:        code,
		Message:     message,
		OriginalErr: err,
	}
}

// NewConfigError creates a classified configuration error.
func NewConfigError(code, message string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:    CategoryConfig,
		Code:        code,
		Message:     message,
		OriginalErr: err,
	}
}

// NewStageError creates a classified stage evaluation error.
func NewStageError(code, message string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:    CategoryStage,
		Code:        code,
		Message:     message,
		OriginalErr: err,
	}
}

// Classify determines the category of an arbitrary error.
//
// Classification rules:
//   - already classified errors keep their category
//   - context.Canceled / context.DeadlineExceeded: interrupt
//   - fs.PathError (open/read/stat failures): io
//   - everything else: unknown
func Classify(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CategoryInterrupt
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return CategoryIO
	}

	return CategoryUnknown
}

// IsInterrupt reports whether the error stems from context cancellation.
func IsInterrupt(err error) bool {
	return Classify(err) == CategoryInterrupt
}
