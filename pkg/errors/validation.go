package errors

import (
	"strings"
	"unicode"
)

// maxOperationIDLength bounds operation names read from input files and API requests.
const maxOperationIDLength = 256

// ValidateOperationID validates an operation name read from an input record.
//
// The rules follow the row layout of the input file:
//   - No empty names
//   - No whitespace (predecessor lists are whitespace-separated)
//   - No commas (fields are comma-separated)
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateOperationID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "operation name cannot be empty")
	}

	if len(id) > maxOperationIDLength {
		return New(ErrCodeInvalidInput, "operation name too long (max %d characters)", maxOperationIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "operation name %q contains control characters", id)
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "operation name %q contains whitespace", id)
		}
	}

	if strings.Contains(id, ",") {
		return New(ErrCodeInvalidInput, "operation name %q contains a comma", id)
	}

	return nil
}

// ValidatePath validates a relative input path referenced from a config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
