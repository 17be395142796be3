// Package strings provides string list helpers.
package strings

import (
	"strings"
)

// DedupeAndTrim trims every value and drops empties and repeats, keeping
// first-seen order.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// SplitList splits a sep-separated list such as "k1:9092, k2:9092" and
// applies DedupeAndTrim.
func SplitList(s, sep string) []string {
	return DedupeAndTrim(strings.Split(s, sep))
}
