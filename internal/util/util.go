package util

import (
	"path"
	"sort"
	"strings"
)

// NormalizeSlash rewrites a filesystem path to forward slashes and cleans it.
func NormalizeSlash(s string) string {
	trimmed := strings.TrimSpace(strings.ReplaceAll(s, "\\", "/"))
	if trimmed == "" {
		return ""
	}
	clean := path.Clean(trimmed)
	if clean == "." {
		return ""
	}
	return clean
}

// HasPathPrefix returns true when p equals prefix or lies inside prefix.
// Both arguments are normalized before comparison.
func HasPathPrefix(p, prefix string) bool {
	p = NormalizeSlash(p)
	prefix = NormalizeSlash(prefix)
	if p == "" || prefix == "" {
		return p == prefix
	}
	if p == prefix {
		return true
	}
	return strings.HasPrefix(p, prefix+"/")
}

// SortedStringKeys returns the map's keys in sorted order.
func SortedStringKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
