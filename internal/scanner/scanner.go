// Package scanner discovers the source files one run operates on. Directory
// and file excludes use base-name globs; .aliasifyignore files add
// gitignore-like, directory-scoped rules on top.
package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

type Scanner struct {
	extensions map[string]bool
	dirGlobs   []glob.Glob
	fileGlobs  []glob.Glob
}

// New compiles the exclude patterns once for the lifetime of the scanner.
func New(extensions, excludeDirs, excludeFiles []string) (*Scanner, error) {
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[strings.ToLower(ext)] = true
	}

	dirGlobs := make([]glob.Glob, 0, len(excludeDirs))
	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		dirGlobs = append(dirGlobs, g)
	}

	fileGlobs := make([]glob.Glob, 0, len(excludeFiles))
	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		fileGlobs = append(fileGlobs, g)
	}

	return &Scanner{extensions: exts, dirGlobs: dirGlobs, fileGlobs: fileGlobs}, nil
}

// ScanRoots walks every root and returns the matching files, sorted and
// de-duplicated across overlapping roots.
func (s *Scanner) ScanRoots(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve scan root %q: %w", root, err)
		}
		ignores := newIgnoreIndex()

		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)
			if d.IsDir() {
				if path == absRoot {
					return nil
				}
				for _, g := range s.dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !s.extensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}

			for _, g := range s.fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			if ignores.Excluded(absRoot, path) {
				return nil
			}

			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// Supported reports whether a single path would survive the extension and
// file-exclude filters. The watcher uses it to drop irrelevant events early.
func (s *Scanner) Supported(path string) bool {
	if !s.extensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	base := filepath.Base(path)
	for _, g := range s.fileGlobs {
		if g.Match(base) {
			return false
		}
	}
	dir := filepath.Dir(path)
	for {
		name := filepath.Base(dir)
		for _, g := range s.dirGlobs {
			if g.Match(name) {
				return false
			}
		}
		next := filepath.Dir(dir)
		if next == dir {
			break
		}
		dir = next
	}
	return true
}
