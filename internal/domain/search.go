package domain

import "strings"

// Matches reports whether q is a case-insensitive substring of any field.
// An empty query matches everything.
func Matches(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Filter keeps the items whose fields match q.
func Filter[T any](items []T, q string, fields func(T) []string) []T {
	if strings.TrimSpace(q) == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Matches(q, fields(it)...) {
			out = append(out, it)
		}
	}
	return out
}
