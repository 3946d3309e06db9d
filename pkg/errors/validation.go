package errors

import (
	"strings"
	"unicode"
)

const maxPartLength = 256

// ValidateCoordinatePart validates one component (groupId, artifactId or
// version) of a Maven coordinate. Coordinates are turned into repository URLs
// and local cache paths, so any component that could escape the cache root is
// rejected, including components read from remote POM files.
//
// The validation rules are intentionally conservative:
//   - No empty values
//   - No control characters or null bytes
//   - No path separators or traversal sequences (/, \, ..)
//   - No colons, which separate the parts of a coordinate
//   - Maximum length of 256 characters
func ValidateCoordinatePart(field, value string) error {
	if value == "" {
		return New(ErrCodeInvalidCoordinate, "%s cannot be empty", field)
	}

	if len(value) > maxPartLength {
		return New(ErrCodeInvalidCoordinate, "%s too long (max %d characters)", field, maxPartLength)
	}

	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCoordinate, "%s contains invalid control characters", field)
		}
	}

	for _, pattern := range []string{"..", "/", "\\", ":", "\x00"} {
		if strings.Contains(value, pattern) {
			return New(ErrCodeInvalidCoordinate, "%s contains invalid characters: %q", field, pattern)
		}
	}

	return nil
}

// ValidateURL validates a repository URL string.
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
