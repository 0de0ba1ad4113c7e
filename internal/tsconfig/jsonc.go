package tsconfig

// tsconfig files are JSONC: comments and trailing commas are legal. The
// stripper rewrites the text to strict JSON before field access.

func stripJSONC(src []byte) []byte {
	return stripTrailingCommas(stripComments(src))
}

func stripComments(src []byte) []byte {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '"':
			j := skipString(src, i)
			out = append(out, src[i:j]...)
			i = j
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			i += 2
			for i+1 < len(src) && !(src[i] == '*' && src[i+1] == '/') {
				i++
			}
			if i+1 < len(src) {
				i += 2
			} else {
				i = len(src)
			}
		default:
			out = append(out, c)
			i++
		}
	}
	return out
}

func stripTrailingCommas(src []byte) []byte {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); {
		c := src[i]
		if c == '"' {
			j := skipString(src, i)
			out = append(out, src[i:j]...)
			i = j
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(src) && isJSONSpace(src[j]) {
				j++
			}
			if j < len(src) && (src[j] == '}' || src[j] == ']') {
				i++ // drop the comma, keep the whitespace
				continue
			}
		}
		out = append(out, c)
		i++
	}
	return out
}

func skipString(src []byte, i int) int {
	j := i + 1
	for j < len(src) {
		if src[j] == '\\' && j+1 < len(src) {
			j += 2
			continue
		}
		if src[j] == '"' {
			return j + 1
		}
		j++
	}
	return j
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
