package alias

import (
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const shadowCacheSize = 4096

// ShadowChecker answers whether a package name resolves to an installed
// dependency by upward node_modules search. Lookups are cached per
// (directory, package) pair for the lifetime of one scan.
type ShadowChecker struct {
	root  string
	cache *lru.Cache[string, bool]
}

func NewShadowChecker(projectRoot string) *ShadowChecker {
	cache, err := lru.New[string, bool](shadowCacheSize)
	if err != nil {
		// Only reachable with a non-positive size.
		panic(err)
	}
	return &ShadowChecker{root: filepath.Clean(projectRoot), cache: cache}
}

// PackageName extracts the leading path segment of a bare specifier: the
// package name, or the scope/name pair for scoped packages. Returns "" when
// the specifier cannot name a package.
func PackageName(specifier string) string {
	if specifier == "" || strings.HasPrefix(specifier, ".") || strings.HasPrefix(specifier, "/") {
		return ""
	}
	parts := strings.SplitN(specifier, "/", 3)
	if strings.HasPrefix(specifier, "@") {
		if len(parts) < 2 || parts[1] == "" {
			return ""
		}
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// Installed walks from dir up to (and including) the project root looking
// for node_modules/<pkg>.
func (c *ShadowChecker) Installed(dir, pkg string) bool {
	dir = filepath.Clean(dir)
	key := dir + "\x00" + pkg
	if hit, ok := c.cache.Get(key); ok {
		return hit
	}

	installed := false
	for d := dir; ; {
		candidate := filepath.Join(d, "node_modules", filepath.FromSlash(pkg))
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			installed = true
			break
		}
		if d == c.root {
			break
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}

	c.cache.Add(key, installed)
	return installed
}
