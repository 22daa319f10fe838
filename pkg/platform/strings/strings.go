// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order of first appearance is
// preserved, which keeps merged licence reference lists deterministic.
//
// Example:
//
//	DedupeAndTrim([]string{"  01/123 ", "02/456", "01/123", "", "  "})
//	// Returns: []string{"01/123", "02/456"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// JoinNonEmpty joins the non-empty elements with a single separator,
// trimming whitespace from each. Used for address name lines and
// fingerprint field concatenation where absent parts must not leave
// doubled separators.
//
// Example:
//
//	JoinNonEmpty(" ", "Mr", "", "H", "Duce")
//	// Returns: "Mr H Duce"
func JoinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, sep)
}
