package utils

import (
	"strconv"
	"strings"
)

// PositiveIntOr parses s as a base-10 integer and returns fallback when s is
// empty, malformed or not strictly positive.
func PositiveIntOr(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// EscapeLike escapes the LIKE/ILIKE metacharacters in s so that it matches
// literally when used with the default backslash escape character.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
