package rewrite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStableMap(t *testing.T) {
	m := NewRenameMap()
	m.Add("components/A", "@/components/A")
	m.Add("components/A", "@/components/A") // repeated observation, same target
	m.Add("x", "@/a")
	m.Add("x", "@/b")

	stable, ambiguous := BuildStableMap(m)
	assert.Equal(t, map[string]string{"components/A": "@/components/A"}, stable)
	assert.Equal(t, []string{"x"}, ambiguous)
	assert.Equal(t, []string{"@/a", "@/b"}, m.Alternatives("x"))
}

func TestRefRewriteMockLiteral(t *testing.T) {
	r := NewRefRewriter(NewGrammars())
	stable := map[string]string{
		"components/CompanyAdminRoute": "@/components/CompanyAdminRoute",
	}

	src := []byte(`jest.mock("components/CompanyAdminRoute");
const table = { key: "components/CompanyAdminRoute" };
const other = "components/SomethingElse";
`)

	out, changed, err := r.RewriteFile(src, filepath.Join("/proj", "src", "routes.test.ts"), stable)
	require.NoError(t, err)
	require.True(t, changed)
	assert.Contains(t, string(out), `jest.mock("@/components/CompanyAdminRoute")`)
	assert.Contains(t, string(out), `key: "@/components/CompanyAdminRoute"`)
	assert.Contains(t, string(out), `"components/SomethingElse"`)
}

func TestRefRewriteSkipsSpecifierPositions(t *testing.T) {
	r := NewRefRewriter(NewGrammars())
	// A stable mapping whose key still appears in specifier position (for
	// example, a file the editor could not shorten) must not be touched by
	// the textual pass.
	stable := map[string]string{"./widget": "@/widget"}

	src := []byte(`import w from "./widget";
export * from "./widget";
const lazy = import("./widget");
const label = "./widget";
`)

	out, changed, err := r.RewriteFile(src, filepath.Join("/proj", "src", "a.ts"), stable)
	require.NoError(t, err)
	require.True(t, changed)
	assert.Contains(t, string(out), `import w from "./widget";`)
	assert.Contains(t, string(out), `export * from "./widget";`)
	assert.Contains(t, string(out), `import("./widget")`)
	assert.Contains(t, string(out), `const label = "@/widget";`)
}

func TestRefRewriteTemplateLiteral(t *testing.T) {
	r := NewRefRewriter(NewGrammars())
	stable := map[string]string{"components/A": "@/components/A"}

	src := []byte("vi.mock(`components/A`);\nconst tpl = `components/${name}`;\n")

	out, changed, err := r.RewriteFile(src, filepath.Join("/proj", "src", "a.test.ts"), stable)
	require.NoError(t, err)
	require.True(t, changed)
	assert.Contains(t, string(out), "vi.mock(`@/components/A`)")
	assert.Contains(t, string(out), "`components/${name}`")
}

func TestRefRewriteNoChange(t *testing.T) {
	r := NewRefRewriter(NewGrammars())
	src := []byte(`const a = "unrelated";` + "\n")

	out, changed, err := r.RewriteFile(src, filepath.Join("/proj", "src", "a.ts"), map[string]string{"k": "v"})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, string(src), string(out))

	// An empty table short-circuits before parsing.
	_, changed, err = r.RewriteFile(src, filepath.Join("/proj", "src", "a.ts"), nil)
	require.NoError(t, err)
	assert.False(t, changed)
}
