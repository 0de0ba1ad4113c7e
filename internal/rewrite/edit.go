package rewrite

import "sort"

// Edit replaces the half-open byte range [Start, End) of a file's original
// text. Edits produced for one file never overlap: each literal is rewritten
// at most once.
type Edit struct {
	Start       uint
	End         uint
	Replacement string
}

// applyEdits splices the edits into content in descending start order, so
// earlier offsets stay valid while later ones are applied.
func applyEdits(content []byte, edits []Edit) []byte {
	if len(edits) == 0 {
		return content
	}
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start > sorted[j].Start })

	out := make([]byte, len(content))
	copy(out, content)
	for _, e := range sorted {
		out = append(out[:e.Start], append([]byte(e.Replacement), out[e.End:]...)...)
	}
	return out
}
