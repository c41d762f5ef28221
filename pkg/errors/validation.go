package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxNameLength bounds layout and table names.
const MaxNameLength = 50

// ValidateOwnerID validates the owner (venue) identifier attached to a layout.
// Owner ids are issued by the auth layer; this only rejects values that could
// not possibly be ids, such as empty strings or strings with control characters.
func ValidateOwnerID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "owner id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "owner id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "owner id contains invalid characters")
		}
	}
	return nil
}

// ValidateLayoutName validates a human label for a layout.
// Empty names are allowed; the store substitutes the creation date.
func ValidateLayoutName(name string) error {
	if len([]rune(name)) > MaxNameLength {
		return New(ErrCodeInvalidInput, "layout name too long (max %d characters)", MaxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "layout name contains invalid control characters")
		}
	}
	return nil
}

// ValidateDimensions rejects non-positive or non-finite table dimensions.
func ValidateDimensions(width, height float64) error {
	if !finite(width) || !finite(height) {
		return New(ErrCodeInvalidGeometry, "dimensions must be finite, got %gx%g", width, height)
	}
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidGeometry, "dimensions must be positive, got %gx%g", width, height)
	}
	return nil
}

// ValidatePosition rejects positions whose corners are not finite.
func ValidatePosition(x, y, width, height float64) error {
	if !finite(x) || !finite(y) || !finite(x+width) || !finite(y+height) {
		return New(ErrCodeInvalidGeometry, "position must be finite, got (%g, %g)", x, y)
	}
	return nil
}

// ValidatePath validates a file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
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

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateLayoutID validates a layout id received from a caller.
// Ids double as file names in the file store, so separators are rejected.
func ValidateLayoutID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "layout id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "layout id too long (max 64 characters)")
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "layout id contains invalid characters")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "layout id contains invalid characters")
		}
	}
	return nil
}
