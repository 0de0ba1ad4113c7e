package rewrite

import (
	"fmt"
	"sort"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// RenameMap accumulates every observed old-specifier -> new-specifier pair
// across the whole corpus. An entry is stable only when exactly one target
// was ever observed for it.
type RenameMap map[string]map[string]struct{}

func NewRenameMap() RenameMap {
	return make(RenameMap)
}

func (m RenameMap) Add(old, new string) {
	set, ok := m[old]
	if !ok {
		set = make(map[string]struct{})
		m[old] = set
	}
	set[new] = struct{}{}
}

// Alternatives returns the observed targets for one key, sorted.
func (m RenameMap) Alternatives(old string) []string {
	targets := make([]string, 0, len(m[old]))
	for t := range m[old] {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	return targets
}

// BuildStableMap splits the rename map into the unambiguous replacement
// table and the sorted list of excluded ambiguous keys. Ambiguous keys are
// reported, never resolved by arbitrary choice.
func BuildStableMap(m RenameMap) (map[string]string, []string) {
	stable := make(map[string]string, len(m))
	var ambiguous []string
	for old, targets := range m {
		if len(targets) == 1 {
			for t := range targets {
				stable[old] = t
			}
			continue
		}
		ambiguous = append(ambiguous, old)
	}
	sort.Strings(ambiguous)
	return stable, ambiguous
}

// RefRewriter propagates stable renames to string and template literals that
// are not themselves module specifiers (mock keys and the like). The pass is
// strictly textual: by this stage a matching literal is an opaque reference,
// not a navigable path.
type RefRewriter struct {
	grammars *Grammars
}

func NewRefRewriter(grammars *Grammars) *RefRewriter {
	return &RefRewriter{grammars: grammars}
}

// RewriteFile replaces every non-specifier literal whose exact text is a key
// in stable. Returns the (possibly unchanged) text and whether it changed.
func (r *RefRewriter) RewriteFile(content []byte, filePath string, stable map[string]string) ([]byte, bool, error) {
	if len(stable) == 0 {
		return content, false, nil
	}

	lang := r.grammars.ForPath(filePath)
	if lang == nil {
		return content, false, fmt.Errorf("unsupported source extension: %s", filePath)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return content, false, fmt.Errorf("set language for %s: %w", filePath, err)
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return content, false, fmt.Errorf("parse %s failed", filePath)
	}
	defer tree.Close()

	var edits []Edit
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if start, end, ok := plainLiteralSpan(n); ok && !isSpecifierPosition(n, content) {
			if replacement, hit := stable[string(content[start:end])]; hit {
				edits = append(edits, Edit{Start: start, End: end, Replacement: replacement})
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())

	if len(edits) == 0 {
		return content, false, nil
	}
	return applyEdits(content, edits), true, nil
}
