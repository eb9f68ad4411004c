// Package pattern implements the single-component wildcard matcher used
// throughout exclusion and collision handling: case-insensitive, anchored
// at both ends, supporting only `*` (any run of characters, including
// none) and `?` (exactly one character).
package pattern

import "strings"

// Matches reports whether name satisfies pattern. Both are case-folded
// before matching. pattern and name are each expected to be a single path
// component (a basename), never a full path.
func Matches(pattern, name string) bool {
	p := []rune(strings.ToLower(pattern))
	n := []rune(strings.ToLower(name))
	return matchInner(p, n)
}

func matchInner(pattern, name []rune) bool {
	if len(pattern) == 0 {
		return len(name) == 0
	}
	if pattern[0] == '*' {
		if matchInner(pattern[1:], name) {
			return true
		}
		return len(name) > 0 && matchInner(pattern, name[1:])
	}
	if len(name) == 0 {
		return false
	}
	if pattern[0] == '?' || pattern[0] == name[0] {
		return matchInner(pattern[1:], name[1:])
	}
	return false
}
