package alias

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"aliasify/internal/util"
)

// BareStatus reports the outcome of resolving a bare specifier.
type BareStatus int

const (
	BareNoMatch BareStatus = iota
	BareMatch
	BareShadowed
)

type candidate struct {
	text  string
	order int
}

// Resolver computes the minimal valid alias for a specifier. It holds the
// installed-package lookup used to keep bare specifiers from shadowing real
// dependencies.
type Resolver struct {
	shadow *ShadowChecker
}

func NewResolver(projectRoot string) *Resolver {
	return &Resolver{shadow: NewShadowChecker(projectRoot)}
}

// ForTarget resolves the minimal alias for an absolute target path reached
// from a relative specifier. keepExt mirrors whether the original specifier
// carried a module extension. The caller is responsible for rejecting aliases
// that are not strictly shorter than the original specifier.
func (r *Resolver) ForTarget(targetAbs string, matchers []Matcher, keepExt bool) (string, bool) {
	target := util.NormalizeSlash(filepath.ToSlash(targetAbs))
	var candidates []candidate

	for _, m := range matchers {
		if m.HasWildcard {
			if !strings.HasPrefix(target, m.TargetPrefix) {
				continue
			}
			middle := target[len(m.TargetPrefix):]
			if m.TargetSuffix != "" {
				if !strings.HasSuffix(middle, m.TargetSuffix) {
					continue
				}
				middle = middle[:len(middle)-len(m.TargetSuffix)]
			}
			if middle == "" {
				continue
			}
			text := m.AliasPrefix + middle + m.AliasSuffix
			if !keepExt {
				text = stripSourceExtension(text)
			}
			candidates = append(candidates, candidate{text: text, order: m.Order})
			continue
		}

		// A literal mapping matches only the exact target, with or without
		// the extension the mapping itself spells out.
		if target == m.TargetPrefix || target == stripSourceExtension(m.TargetPrefix) {
			candidates = append(candidates, candidate{text: m.AliasPrefix, order: m.Order})
		}
	}

	return pickBest(candidates)
}

// ForBare resolves a bare specifier (no leading relative marker) that
// coincides with a mapping's physical side. fileDir anchors the installed-
// package search; projectRoot bounds both that search and the implied path.
func (r *Resolver) ForBare(specifier string, matchers []Matcher, baseDir, fileDir, projectRoot string, keepExt bool) (string, BareStatus) {
	var candidates []candidate

	for _, m := range matchers {
		if m.HasWildcard {
			implied := m.TargetPrefix + specifier + m.TargetSuffix
			if !util.HasPathPrefix(implied, projectRoot) {
				continue
			}
			if !resolvesToModuleFile(implied) {
				continue
			}
			text := m.AliasPrefix + specifier + m.AliasSuffix
			if !keepExt {
				text = stripSourceExtension(text)
			}
			candidates = append(candidates, candidate{text: text, order: m.Order})
			continue
		}

		if m.TargetRelative(baseDir) == specifier {
			candidates = append(candidates, candidate{text: m.AliasPrefix, order: m.Order})
		}
	}

	alias, ok := pickBest(candidates)
	if !ok {
		return "", BareNoMatch
	}
	if pkg := PackageName(specifier); pkg != "" && r.shadow.Installed(fileDir, pkg) {
		return "", BareShadowed
	}
	return alias, BareMatch
}

// pickBest selects the shortest candidate, breaking length ties
// lexicographically and exact ties by declaration order.
func pickBest(candidates []candidate) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if len(a.text) != len(b.text) {
			return len(a.text) < len(b.text)
		}
		if a.text != b.text {
			return a.text < b.text
		}
		return a.order < b.order
	})
	return candidates[0].text, true
}

// resolvesToModuleFile verifies that an implied absolute path names a real
// module: the exact file, the file with a recognized extension appended, or
// an index file inside a directory of that name.
func resolvesToModuleFile(p string) bool {
	if isRegularFile(p) {
		return true
	}
	for _, ext := range SourceExtensions {
		if isRegularFile(p + ext) {
			return true
		}
	}
	for _, ext := range SourceExtensions {
		if isRegularFile(filepath.Join(p, "index"+ext)) {
			return true
		}
	}
	return false
}

func isRegularFile(p string) bool {
	info, err := os.Stat(filepath.FromSlash(p))
	return err == nil && info.Mode().IsRegular()
}
