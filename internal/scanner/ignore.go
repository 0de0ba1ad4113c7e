package scanner

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// IgnoreFileName holds gitignore-like rules scoped to its directory.
// Deeper files win over shallower ones; within and across files the last
// matching rule decides, so a later "!pattern" re-includes what an earlier
// rule ignored.
const IgnoreFileName = ".aliasifyignore"

type ignoreRule struct {
	matcher glob.Glob
	raw     string
	negate  bool
	slashed bool // patterns with a separator match the relative path, others the base name
}

// ignoreIndex lazily loads and caches the rules of every directory seen
// during one scan.
type ignoreIndex struct {
	byDir map[string][]ignoreRule
}

func newIgnoreIndex() *ignoreIndex {
	return &ignoreIndex{byDir: make(map[string][]ignoreRule)}
}

// Excluded walks the directory chain from root down to the file's directory,
// applying each level's rules to the path relative to that level.
func (x *ignoreIndex) Excluded(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}

	excluded := false
	dir := root
	segments := strings.Split(filepath.ToSlash(rel), "/")
	for i := 0; i < len(segments); i++ {
		remainder := segments[i:]
		for _, rule := range x.rules(dir) {
			if rule.applies(remainder) {
				excluded = !rule.negate
			}
		}
		dir = filepath.Join(dir, segments[i])
	}
	return excluded
}

// applies matches a rule against the path segments below the rule's
// directory: slashed patterns match the whole relative path, bare patterns
// match any single component (gitignore-style).
func (r ignoreRule) applies(segments []string) bool {
	if r.slashed {
		return r.matcher.Match(strings.Join(segments, "/"))
	}
	for _, segment := range segments {
		if r.matcher.Match(segment) {
			return true
		}
	}
	return false
}

func (x *ignoreIndex) rules(dir string) []ignoreRule {
	if cached, ok := x.byDir[dir]; ok {
		return cached
	}
	rules := loadIgnoreFile(filepath.Join(dir, IgnoreFileName))
	x.byDir[dir] = rules
	return rules
}

func loadIgnoreFile(path string) []ignoreRule {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var rules []ignoreRule
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		negate := strings.HasPrefix(line, "!")
		pattern := strings.TrimPrefix(line, "!")
		pattern = strings.TrimSuffix(pattern, "/")
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			slog.Warn("invalid ignore pattern", "file", path, "pattern", line, "error", err)
			continue
		}
		rules = append(rules, ignoreRule{
			matcher: g,
			raw:     pattern,
			negate:  negate,
			slashed: strings.Contains(pattern, "/"),
		})
	}
	return rules
}
