package vocab

import "strings"

// Normalize trims surrounding whitespace and lowercases s. Every unit name and
// word goes through it before it is used as a key.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
