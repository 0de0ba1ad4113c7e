package tsconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tidwall/gjson"

	"aliasify/internal/alias"
)

const (
	dirCacheSize  = 8192
	fileCacheSize = 256
)

// configFileNames in lookup order; tsconfig wins over jsconfig in the same
// directory.
var configFileNames = []string{"tsconfig.json", "jsconfig.json"}

// ParseError is fatal for the whole run: rewriting with an unknown alias
// configuration is unsafe.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse config %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Config is the alias configuration attached to one tsconfig/jsconfig file.
// Immutable after construction.
type Config struct {
	File     string
	BaseDir  string // effective base for physical-side resolution
	Matchers []alias.Matcher
}

// Resolver finds the configuration governing a file by nearest-ancestor walk
// and caches both the per-directory answer and the built configuration per
// config file. Caches live for one scan; the tree is assumed stable.
type Resolver struct {
	root   string
	byDir  *lru.Cache[string, string]  // directory -> config file path ("" = none)
	byFile *lru.Cache[string, *Config] // config file path -> built config (nil = no mappings)
}

func NewResolver(projectRoot string) *Resolver {
	byDir, err := lru.New[string, string](dirCacheSize)
	if err != nil {
		panic(err)
	}
	byFile, err := lru.New[string, *Config](fileCacheSize)
	if err != nil {
		panic(err)
	}
	return &Resolver{
		root:   filepath.Clean(projectRoot),
		byDir:  byDir,
		byFile: byFile,
	}
}

// Resolve returns the alias configuration for files in dir: the one attached
// to the nearest ancestor directory (up to and including the project root)
// holding a tsconfig or jsconfig. A nil Config with nil error means no
// aliasing applies.
func (r *Resolver) Resolve(dir string) (*Config, error) {
	file := r.findConfigFile(filepath.Clean(dir))
	if file == "" {
		return nil, nil
	}
	return r.load(file)
}

func (r *Resolver) findConfigFile(dir string) string {
	var visited []string
	found := ""

	for d := dir; ; {
		if cached, ok := r.byDir.Get(d); ok {
			found = cached
			break
		}
		visited = append(visited, d)

		stop := false
		for _, name := range configFileNames {
			candidate := filepath.Join(d, name)
			if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
				found = candidate
				stop = true
				break
			}
		}
		if stop || d == r.root {
			break
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}

	for _, d := range visited {
		r.byDir.Add(d, found)
	}
	return found
}

func (r *Resolver) load(file string) (*Config, error) {
	if cached, ok := r.byFile.Get(file); ok {
		return cached, nil
	}

	doc, err := parseConfigFile(file)
	if err != nil {
		return nil, err
	}

	baseURL := doc.Get("compilerOptions.baseUrl").String()
	paths := doc.Get("compilerOptions.paths")

	// Single-level extends: the parent supplies whichever of baseUrl/paths
	// the child does not declare itself.
	if ext := doc.Get("extends"); ext.Exists() && (baseURL == "" || !paths.Exists()) {
		parentFile := resolveExtends(filepath.Dir(file), ext.String())
		parentDoc, err := parseConfigFile(parentFile)
		if err != nil {
			return nil, err
		}
		if baseURL == "" {
			baseURL = parentDoc.Get("compilerOptions.baseUrl").String()
		}
		if !paths.Exists() {
			paths = parentDoc.Get("compilerOptions.paths")
		}
	}

	if !paths.Exists() {
		r.byFile.Add(file, nil)
		return nil, nil
	}

	baseDir := filepath.Dir(file)
	if baseURL != "" {
		baseDir = filepath.Join(baseDir, filepath.FromSlash(baseURL))
	}

	var matchers []alias.Matcher
	order := 0
	paths.ForEach(func(pattern, targets gjson.Result) bool {
		for _, target := range targets.Array() {
			m, ok := alias.NewMatcher(pattern.String(), target.String(), baseDir, order)
			order++
			if !ok {
				slog.Debug("skipping unsupported path mapping",
					"config", file, "alias", pattern.String(), "target", target.String())
				continue
			}
			matchers = append(matchers, m)
		}
		return true
	})

	if len(matchers) == 0 {
		r.byFile.Add(file, nil)
		return nil, nil
	}

	cfg := &Config{File: file, BaseDir: baseDir, Matchers: matchers}
	r.byFile.Add(file, cfg)
	return cfg, nil
}

func parseConfigFile(file string) (gjson.Result, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return gjson.Result{}, &ParseError{File: file, Err: err}
	}
	stripped := stripJSONC(data)
	if !gjson.ValidBytes(stripped) {
		return gjson.Result{}, &ParseError{File: file, Err: fmt.Errorf("invalid JSON")}
	}
	return gjson.ParseBytes(stripped), nil
}

func resolveExtends(dir, ref string) string {
	p := filepath.Join(dir, filepath.FromSlash(ref))
	if filepath.Ext(p) != ".json" {
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			p += ".json"
		}
	}
	return p
}
