package rewrite

import (
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"aliasify/internal/alias"
	"aliasify/internal/tsconfig"
)

// RenamePair records one rewritten specifier, aggregated project-wide for
// reference propagation.
type RenamePair struct {
	Old string
	New string
}

// Result of rewriting one file. NewText always holds the current text, even
// when unchanged.
type Result struct {
	Changed  bool
	NewText  []byte
	Renames  []RenamePair
	Shadowed []string // bare specifiers left alone to avoid shadowing installed packages
}

// Editor rewrites module specifiers in one source file to their minimal
// alias form. Rewriting is idempotent: a minimal alias can never shorten
// further, so a second pass produces zero edits.
type Editor struct {
	grammars    *Grammars
	resolver    *alias.Resolver
	projectRoot string
}

func NewEditor(grammars *Grammars, resolver *alias.Resolver, projectRoot string) *Editor {
	return &Editor{
		grammars:    grammars,
		resolver:    resolver,
		projectRoot: filepath.Clean(projectRoot),
	}
}

// RewriteFile parses content, resolves every rewritable specifier, and
// splices the accepted edits in descending offset order.
func (e *Editor) RewriteFile(content []byte, filePath string, cfg *tsconfig.Config) (Result, error) {
	lang := e.grammars.ForPath(filePath)
	if lang == nil {
		return Result{NewText: content}, fmt.Errorf("unsupported source extension: %s", filePath)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return Result{NewText: content}, fmt.Errorf("set language for %s: %w", filePath, err)
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return Result{NewText: content}, fmt.Errorf("parse %s failed", filePath)
	}
	defer tree.Close()

	fileDir := filepath.Dir(filePath)
	var edits []Edit
	var renames []RenamePair
	var shadowed []string
	shadowSeen := make(map[string]bool)

	for _, lit := range collectSpecifiers(tree.RootNode(), content) {
		orig := lit.text
		if orig == "" {
			continue
		}
		keepExt := alias.HasSourceExtension(orig)

		var replacement string
		if isRelativeSpecifier(orig) {
			target := filepath.Join(fileDir, filepath.FromSlash(orig))
			aliasText, ok := e.resolver.ForTarget(target, cfg.Matchers, keepExt)
			// Aliasing is an optimization: already-short relative paths stay.
			if !ok || len(aliasText) >= len(orig) {
				continue
			}
			replacement = aliasText
		} else {
			aliasText, status := e.resolver.ForBare(orig, cfg.Matchers, cfg.BaseDir, fileDir, e.projectRoot, keepExt)
			if status == alias.BareShadowed {
				if !shadowSeen[orig] {
					shadowSeen[orig] = true
					shadowed = append(shadowed, orig)
				}
				continue
			}
			if status != alias.BareMatch || aliasText == orig {
				continue
			}
			replacement = aliasText
		}

		edits = append(edits, Edit{Start: lit.start, End: lit.end, Replacement: replacement})
		renames = append(renames, RenamePair{Old: orig, New: replacement})
	}

	if len(edits) == 0 {
		return Result{NewText: content, Shadowed: shadowed}, nil
	}
	return Result{
		Changed:  true,
		NewText:  applyEdits(content, edits),
		Renames:  renames,
		Shadowed: shadowed,
	}, nil
}

func isRelativeSpecifier(s string) bool {
	return s == "." || s == ".." ||
		strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../")
}
