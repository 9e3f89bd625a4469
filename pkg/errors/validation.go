package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// graphExtensions lists the file extensions accepted for graph documents.
var graphExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// ValidateGraphPath validates a graph file path supplied on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Extension must be .json, .yaml or .yml
func ValidateGraphPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "graph path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "graph path contains invalid characters")
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !graphExtensions[ext] {
		return New(ErrCodeInvalidFormat, "unsupported graph file extension %q (must be .json, .yaml or .yml)", ext)
	}

	return nil
}

// ValidateOutputFormat checks that format is one of the allowed values.
func ValidateOutputFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}

// ValidatePositive rejects zero and negative values for a named parameter.
func ValidatePositive(name string, value int) error {
	if value <= 0 {
		return New(ErrCodeInvalidParams, "%s must be positive, got %d", name, value)
	}
	return nil
}
