// Package app wires the scanner, tsconfig resolution, and the rewrite passes
// into one run over a project tree.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"aliasify/internal/alias"
	"aliasify/internal/config"
	"aliasify/internal/history"
	"aliasify/internal/rewrite"
	"aliasify/internal/scanner"
	"aliasify/internal/tsconfig"
	"aliasify/internal/util"
)

type Options struct {
	Root  string // project root; scan roots and alias targets resolve against it
	Write bool   // apply edits instead of reporting them
	Refs  bool   // run the reference-propagation pass
	Mode  string // recorded in run history
}

// Summary of one run. Changed and Propagated are relative to Root, sorted.
type Summary struct {
	FilesScanned     int
	FilesChanged     int
	FilesPropagated  int
	AmbiguousSkipped int
	ShadowedSkipped  int
	Changed          []string
	Propagated       []string
	Ambiguous        []string
	Duration         time.Duration
}

type App struct {
	cfg     *config.Config
	opts    Options
	scanner *scanner.Scanner
	configs *tsconfig.Resolver
	editor  *rewrite.Editor
	refs    *rewrite.RefRewriter
	store   *history.Store
}

func New(cfg *config.Config, opts Options) (*App, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root %q: %w", opts.Root, err)
	}
	opts.Root = root

	sc, err := scanner.New(cfg.Extensions, cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}

	grammars := rewrite.NewGrammars()
	return &App{
		cfg:     cfg,
		opts:    opts,
		scanner: sc,
		configs: tsconfig.NewResolver(root),
		editor:  rewrite.NewEditor(grammars, alias.NewResolver(root), root),
		refs:    rewrite.NewRefRewriter(grammars),
	}, nil
}

// SetHistory attaches an optional run-history store.
func (a *App) SetHistory(store *history.Store) { a.store = store }

func (a *App) Scanner() *scanner.Scanner { return a.scanner }

// Run scans the configured roots and rewrites every file they contain.
func (a *App) Run() (Summary, error) {
	roots := make([]string, 0, len(a.cfg.Roots))
	for _, r := range a.cfg.Roots {
		if !filepath.IsAbs(r) {
			r = filepath.Join(a.opts.Root, r)
		}
		roots = append(roots, r)
	}

	files, err := a.scanner.ScanRoots(roots)
	if err != nil {
		return Summary{}, err
	}
	return a.process(files, a.opts.Refs)
}

// RunFiles rewrites an explicit batch, used by watch mode. Reference
// propagation is skipped: a partial batch cannot prove a rename is
// project-wide unambiguous.
func (a *App) RunFiles(paths []string) (Summary, error) {
	files := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if a.scanner.Supported(abs) {
			files = append(files, abs)
		}
	}
	sort.Strings(files)
	return a.process(files, false)
}

func (a *App) process(files []string, propagate bool) (Summary, error) {
	start := time.Now()
	summary := Summary{FilesScanned: len(files)}

	contents := make(map[string][]byte, len(files))
	dirty := make(map[string]bool)
	renames := rewrite.NewRenameMap()

	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return summary, fmt.Errorf("read %s: %w", path, err)
		}
		contents[path] = content

		cfg, err := a.configs.Resolve(filepath.Dir(path))
		if err != nil {
			var parseErr *tsconfig.ParseError
			if errors.As(err, &parseErr) {
				return summary, err
			}
			return summary, fmt.Errorf("resolve config for %s: %w", path, err)
		}
		if cfg == nil {
			continue
		}

		res, err := a.editor.RewriteFile(content, path, cfg)
		if err != nil {
			slog.Warn("skipping unparseable file", "path", path, "error", err)
			continue
		}

		for _, spec := range res.Shadowed {
			summary.ShadowedSkipped++
			slog.Warn("specifier shadows an installed package, left unchanged",
				"path", path, "specifier", spec)
		}
		for _, pair := range res.Renames {
			renames.Add(pair.Old, pair.New)
		}
		if res.Changed {
			contents[path] = res.NewText
			dirty[path] = true
			summary.Changed = append(summary.Changed, a.rel(path))
		}
	}
	summary.FilesChanged = len(summary.Changed)

	if propagate {
		stable, ambiguous := rewrite.BuildStableMap(renames)
		summary.Ambiguous = ambiguous
		summary.AmbiguousSkipped = len(ambiguous)
		for _, old := range ambiguous {
			slog.Warn("ambiguous rename excluded from reference propagation",
				"specifier", old, "targets", renames.Alternatives(old))
		}

		for _, path := range files {
			out, changed, err := a.refs.RewriteFile(contents[path], path, stable)
			if err != nil {
				slog.Warn("skipping reference propagation", "path", path, "error", err)
				continue
			}
			if !changed {
				continue
			}
			contents[path] = out
			summary.Propagated = append(summary.Propagated, a.rel(path))
			dirty[path] = true
		}
		summary.FilesPropagated = len(summary.Propagated)
	}

	if a.opts.Write {
		for _, path := range util.SortedStringKeys(dirty) {
			if err := writePreservingMode(path, contents[path]); err != nil {
				return summary, err
			}
		}
	}

	sort.Strings(summary.Changed)
	sort.Strings(summary.Propagated)
	summary.Duration = time.Since(start)

	a.record(summary)
	return summary, nil
}

func (a *App) rel(path string) string {
	rel, err := filepath.Rel(a.opts.Root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func (a *App) record(summary Summary) {
	if a.store == nil {
		return
	}
	mode := a.opts.Mode
	if mode == "" {
		if a.opts.Write {
			mode = "write"
		} else {
			mode = "dry-run"
		}
	}
	_, err := a.store.SaveRun(history.Run{
		Root:             a.opts.Root,
		Mode:             mode,
		FilesScanned:     summary.FilesScanned,
		FilesChanged:     summary.FilesChanged,
		FilesPropagated:  summary.FilesPropagated,
		AmbiguousSkipped: summary.AmbiguousSkipped,
		ShadowedSkipped:  summary.ShadowedSkipped,
		DurationMS:       summary.Duration.Milliseconds(),
	})
	if err != nil {
		slog.Warn("failed to record run history", "error", err)
	}
}

func writePreservingMode(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, content, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
