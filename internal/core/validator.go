package core

import (
	"strings"
)

// ValidateForGeneration checks text that is about to be encoded into a QR
// code. It returns the rejection reason, or nil when generation may proceed.
func ValidateForGeneration(input string) *string {
	lower := foldASCII(input)

	// Reject dangerous schemes
	if hasAnyPrefix(lower, dangerousSchemes) {
		reason := reasonUnsafeScheme
		return &reason
	}

	// Basic check for markup
	for _, marker := range htmlMarkers {
		if strings.Contains(lower, marker) {
			reason := reasonHTMLTags
			return &reason
		}
	}

	return nil
}

// ContainsSensitiveData reports whether input looks like it carries secrets.
// It is advisory only and never blocks generation.
func ContainsSensitiveData(input string) bool {
	_, found := firstContained(foldASCII(input), sensitiveKeywords)
	return found
}
