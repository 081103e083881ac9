package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// datasetNameRegex matches dataset and knowledge-graph names used as folder
// names and query parameters.
var datasetNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateDatasetName validates a dataset name for safety and correctness.
// Dataset names become output folder names, so they are restricted to a
// conservative character set:
//   - No empty names
//   - Letters, digits, dot, dash and underscore only
//   - Must start with a letter or digit
//   - Maximum length of 128 characters
func ValidateDatasetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "dataset name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "dataset name too long (max 128 characters)")
	}
	if !datasetNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid dataset name: %q", name)
	}
	return nil
}

// ValidatePath validates a relative output path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
