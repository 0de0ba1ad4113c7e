package alias

import (
	"path/filepath"
	"strings"

	"aliasify/internal/util"
)

// Matcher is one resolved mapping rule: an alias-side pattern paired with a
// physical-side pattern whose prefix has been resolved to an absolute path.
// An alias pattern mapping to several target patterns produces one Matcher
// per target.
type Matcher struct {
	AliasPrefix  string
	AliasSuffix  string
	HasWildcard  bool
	TargetPrefix string // absolute, forward slashes
	TargetSuffix string
	Order        int // declaration order across the configuration
}

// NewMatcher builds a matcher from an alias pattern and one of its target
// patterns, resolving the target prefix against baseDir. Patterns with more
// than one wildcard, or where only one side carries a wildcard, are invalid.
func NewMatcher(aliasPattern, targetPattern, baseDir string, order int) (Matcher, bool) {
	ap, ok := ParsePattern(aliasPattern)
	if !ok {
		return Matcher{}, false
	}
	tp, ok := ParsePattern(targetPattern)
	if !ok {
		return Matcher{}, false
	}
	if ap.HasWildcard != tp.HasWildcard {
		return Matcher{}, false
	}
	return Matcher{
		AliasPrefix:  ap.Prefix,
		AliasSuffix:  ap.Suffix,
		HasWildcard:  ap.HasWildcard,
		TargetPrefix: joinTargetPrefix(baseDir, tp.Prefix),
		TargetSuffix: tp.Suffix,
		Order:        order,
	}, true
}

// TargetRelative returns the matcher's physical-side prefix relative to
// baseDir, used for exact matching of bare specifiers against non-wildcard
// mappings.
func (m Matcher) TargetRelative(baseDir string) string {
	base := util.NormalizeSlash(filepath.ToSlash(baseDir))
	return strings.TrimPrefix(strings.TrimPrefix(m.TargetPrefix, base), "/")
}

// joinTargetPrefix resolves a (possibly partial) pattern prefix against the
// base directory. Trailing separators are significant: "src/" must not match
// a sibling like "src-legacy/", so they survive the join.
func joinTargetPrefix(baseDir, prefix string) string {
	base := util.NormalizeSlash(filepath.ToSlash(baseDir))
	prefix = strings.TrimPrefix(strings.ReplaceAll(prefix, "\\", "/"), "./")
	if prefix == "" {
		return base + "/"
	}
	joined := base + "/" + strings.TrimPrefix(prefix, "/")
	if strings.HasSuffix(prefix, "/") {
		return util.NormalizeSlash(joined) + "/"
	}
	return joined
}
