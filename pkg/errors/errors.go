// Package errors provides structured error types for graphdiff.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and library packages
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (graphs, mappings, parameters)
//   - FILE_NOT_FOUND: Missing input files
//   - INTERNAL_*: Unexpected internal errors (misbehaving agents)
//   - *_BACKEND: Cache and render backends
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsortedAdjacency, "vertex %d: neighbors not ascending", v)
//	if errors.Is(err, errors.ErrCodeUnsortedAdjacency) {
//	    // Reject the input graph
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidGraph, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidGraph       Code = "INVALID_GRAPH"
	ErrCodeUnsortedAdjacency  Code = "UNSORTED_ADJACENCY"
	ErrCodeInvalidMapping     Code = "INVALID_MAPPING"
	ErrCodeInvalidParams      Code = "INVALID_PARAMS"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidAlgorithm   Code = "INVALID_ALGORITHM"
	ErrCodeInvalidPath        Code = "INVALID_PATH"
	ErrCodeInvalidConfigValue Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal       Code = "INTERNAL_ERROR"
	ErrCodeInvalidAgent   Code = "INTERNAL_INVALID_CANDIDATE"
	ErrCodeUnsupported    Code = "UNSUPPORTED"
	ErrCodeCacheBackend   Code = "CACHE_BACKEND"
	ErrCodeRenderBackend  Code = "RENDER_BACKEND"
	ErrCodeSearchCanceled Code = "SEARCH_CANCELED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
