package rewrite

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Grammars maps source extensions to tree-sitter languages. Built once and
// shared by the editor and the reference rewriter.
type Grammars struct {
	byExt map[string]*sitter.Language
}

func NewGrammars() *Grammars {
	ts := sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	tsx := sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	js := sitter.NewLanguage(tree_sitter_javascript.Language())

	return &Grammars{byExt: map[string]*sitter.Language{
		".ts":  ts,
		".tsx": tsx,
		".js":  js,
		".jsx": js,
		".mjs": js,
		".cjs": js,
	}}
}

// ForPath returns the language for a file path, or nil when the extension is
// not a recognized module source.
func (g *Grammars) ForPath(path string) *sitter.Language {
	return g.byExt[strings.ToLower(filepath.Ext(path))]
}
