package rewrite

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// specifierLiteral is a rewritable module specifier: the inner text span of
// a string or interpolation-free template, delimiters excluded.
type specifierLiteral struct {
	start uint
	end   uint
	text  string
}

func nodeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return string(src[n.StartByte():n.EndByte()])
}

// plainLiteralSpan returns the inner span of a string or template literal
// holding plain text only. Both quote and backtick delimiters are one byte.
func plainLiteralSpan(n *sitter.Node) (uint, uint, bool) {
	switch n.Kind() {
	case "string":
		return n.StartByte() + 1, n.EndByte() - 1, true
	case "template_string":
		for i := uint(0); i < n.ChildCount(); i++ {
			if n.Child(i).Kind() == "template_substitution" {
				return 0, 0, false
			}
		}
		return n.StartByte() + 1, n.EndByte() - 1, true
	default:
		return 0, 0, false
	}
}

// dynamicImportCallee reports whether a call expression is a dynamic import
// or a CommonJS require.
func dynamicImportCallee(call *sitter.Node, src []byte) bool {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return false
	}
	if fn.Kind() == "import" {
		return true
	}
	return fn.Kind() == "identifier" && nodeText(fn, src) == "require"
}

// collectSpecifiers gathers every rewritable specifier literal: the source
// of static import/export declarations and the first argument of dynamic
// import / require calls.
func collectSpecifiers(root *sitter.Node, src []byte) []specifierLiteral {
	var out []specifierLiteral

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case "import_statement", "export_statement":
			if source := n.ChildByFieldName("source"); source != nil {
				if start, end, ok := plainLiteralSpan(source); ok {
					out = append(out, specifierLiteral{start, end, string(src[start:end])})
				}
			}
		case "call_expression":
			if dynamicImportCallee(n, src) {
				if args := n.ChildByFieldName("arguments"); args != nil && args.NamedChildCount() > 0 {
					if start, end, ok := plainLiteralSpan(args.NamedChild(0)); ok {
						out = append(out, specifierLiteral{start, end, string(src[start:end])})
					}
				}
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	return out
}

// isSpecifierPosition reports whether a literal node sits in module-specifier
// position, i.e. was already considered by the source editor.
func isSpecifierPosition(n *sitter.Node, src []byte) bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}
	switch parent.Kind() {
	case "import_statement", "export_statement":
		return true
	case "arguments":
		call := parent.Parent()
		if call == nil || call.Kind() != "call_expression" || !dynamicImportCallee(call, src) {
			return false
		}
		first := parent.NamedChild(0)
		return first != nil && first.StartByte() == n.StartByte()
	default:
		return false
	}
}
