package alias

import "strings"

// Wildcard is the single placeholder allowed in a mapping pattern.
const Wildcard = "*"

// SourceExtensions are the module file extensions the rewriter recognizes,
// in resolution-probe order.
var SourceExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// PathPattern is a mapping pattern decomposed around its wildcard marker.
// When HasWildcard is false, Prefix holds the entire literal pattern and
// Suffix is empty.
type PathPattern struct {
	Prefix      string
	Suffix      string
	HasWildcard bool
}

// ParsePattern splits a mapping pattern around its wildcard marker.
// Patterns with more than one wildcard are unsupported and rejected.
func ParsePattern(raw string) (PathPattern, bool) {
	switch strings.Count(raw, Wildcard) {
	case 0:
		return PathPattern{Prefix: raw}, true
	case 1:
		i := strings.Index(raw, Wildcard)
		return PathPattern{Prefix: raw[:i], Suffix: raw[i+1:], HasWildcard: true}, true
	default:
		return PathPattern{}, false
	}
}

// HasSourceExtension reports whether the specifier's last segment carries a
// recognized module extension.
func HasSourceExtension(specifier string) bool {
	for _, ext := range SourceExtensions {
		if strings.HasSuffix(specifier, ext) {
			return true
		}
	}
	return false
}

func stripSourceExtension(text string) string {
	for _, ext := range SourceExtensions {
		if strings.HasSuffix(text, ext) {
			return strings.TrimSuffix(text, ext)
		}
	}
	return text
}
