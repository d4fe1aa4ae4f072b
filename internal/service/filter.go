package service

import (
	"strconv"
	"strings"
)

// matchSearch reports whether the lowercased term appears in any of the
// candidate fields. An empty term matches everything.
func matchSearch(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// intFilter returns the parsed value of a numeric filter. A missing key or
// a value that does not parse yields applied=false, which callers treat as
// "filter not present" rather than an error.
func intFilter(p ListParams, key string) (value int, applied bool) {
	raw, ok := p.filter(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return v, true
}

func int64Filter(p ListParams, key string) (value int64, applied bool) {
	raw, ok := p.filter(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// keep filters rows in place, preserving relative order.
func keep[T any](rows []T, pred func(T) bool) []T {
	out := rows[:0:0]
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
