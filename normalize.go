package liveatc

import "strings"

// CleanFrequency strips the markers the source site decorates frequency
// cells with: asterisks and a trailing "b" for broadcast-only frequencies.
// Anything else passes through trimmed.
func CleanFrequency(raw string) string {
	s := strings.ReplaceAll(raw, "*", "")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "b")
	return strings.TrimSpace(s)
}
