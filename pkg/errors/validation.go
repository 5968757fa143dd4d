package errors

import (
	"math"
	"regexp"
	"unicode"
)

// maxLabelLength bounds a single node label.
const maxLabelLength = 1024

// ValidateLabel validates a node label.
//
// Labels are rendered verbatim as text, so the rules only reject what no
// renderer can display on a single line:
//   - No control characters (tabs included)
//   - Maximum length of 1024 bytes
//
// Empty labels are allowed; they produce a box that is padding only.
func ValidateLabel(label string) error {
	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidTree, "label too long (max %d characters)", maxLabelLength)
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTree, "label %q contains control characters", label)
		}
	}
	return nil
}

// elementIDRegex matches identifiers that are safe as SVG element ids.
var elementIDRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.:-]*$`)

// ValidateID validates an optional node id. The empty string is valid.
func ValidateID(id string) error {
	if id == "" {
		return nil
	}
	if !elementIDRegex.MatchString(id) {
		return New(ErrCodeInvalidTree, "invalid node id: %q", id)
	}
	return nil
}

// ValidateDimension checks that v is a finite, non-negative number.
// name identifies the value in the error message.
func ValidateDimension(code Code, name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(code, "%s must be finite, got %v", name, v)
	}
	if v < 0 {
		return New(code, "%s must be non-negative, got %v", name, v)
	}
	return nil
}
