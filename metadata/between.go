package metadata

import "strings"

// Between returns the text in s between the first occurrence of first and the
// following occurrence of last. When last never follows, the remainder is
// returned only if it is a single whitespace-free token (a trailing field).
// Returns an empty string if first does not appear in s.
func Between(s, first, last string) string {
	_, rest, found := strings.Cut(s, first)
	if !found {
		return ""
	}

	if before, _, ok := strings.Cut(rest, last); ok {
		return before
	}

	trimmed := strings.TrimSpace(rest)
	if strings.Contains(trimmed, " ") {
		return ""
	}
	return trimmed
}
