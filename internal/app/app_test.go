package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aliasify/internal/config"
	"aliasify/internal/history"
	"aliasify/internal/tsconfig"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newApp(t *testing.T, root string, opts Options) *App {
	t.Helper()
	opts.Root = root
	a, err := New(config.Default(), opts)
	require.NoError(t, err)
	return a
}

const baseTSConfig = `{
  "compilerOptions": {
    "baseUrl": ".",
    "paths": { "@/*": ["src/*"] }
  }
}`

func TestRunRewritesAndPropagates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tsconfig.json"), baseTSConfig)
	writeFile(t, filepath.Join(root, "src", "components", "CompanyAdminRoute.tsx"), "export {}\n")
	writeFile(t, filepath.Join(root, "src", "routes.ts"),
		`const route = import("components/CompanyAdminRoute");`+"\n")
	writeFile(t, filepath.Join(root, "src", "routes.test.ts"),
		`jest.mock("components/CompanyAdminRoute");`+"\n")

	a := newApp(t, root, Options{Write: true, Refs: true})
	summary, err := a.Run()
	require.NoError(t, err)

	assert.Equal(t, 3, summary.FilesScanned)
	assert.Equal(t, []string{"src/routes.ts"}, summary.Changed)
	assert.Equal(t, []string{"src/routes.test.ts"}, summary.Propagated)
	assert.Zero(t, summary.AmbiguousSkipped)

	assert.Contains(t, readFile(t, filepath.Join(root, "src", "routes.ts")),
		`import("@/components/CompanyAdminRoute")`)
	assert.Contains(t, readFile(t, filepath.Join(root, "src", "routes.test.ts")),
		`jest.mock("@/components/CompanyAdminRoute")`)
}

func TestRunDryRunLeavesFilesAlone(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tsconfig.json"), baseTSConfig)
	original := `import Hello from "../../../components/Hello.tsx"` + "\n"
	writeFile(t, filepath.Join(root, "src", "a", "b", "c", "page.tsx"), original)

	a := newApp(t, root, Options{Write: false, Refs: true})
	summary, err := a.Run()
	require.NoError(t, err)

	assert.Equal(t, []string{"src/a/b/c/page.tsx"}, summary.Changed)
	assert.Equal(t, original, readFile(t, filepath.Join(root, "src", "a", "b", "c", "page.tsx")))
}

func TestRunAmbiguousRenameExcluded(t *testing.T) {
	root := t.TempDir()
	// Two configs map the same relative segment to different aliases, so the
	// observed old specifier gains two distinct targets.
	writeFile(t, filepath.Join(root, "appA", "tsconfig.json"), `{
  "compilerOptions": { "baseUrl": ".", "paths": { "@a/*": ["src/*"] } }
}`)
	writeFile(t, filepath.Join(root, "appB", "tsconfig.json"), `{
  "compilerOptions": { "baseUrl": ".", "paths": { "@b/*": ["src/*"] } }
}`)
	writeFile(t, filepath.Join(root, "appA", "src", "x", "y", "z", "a.ts"),
		`import v from "../../../lib/util"`+"\n")
	writeFile(t, filepath.Join(root, "appB", "src", "x", "y", "z", "b.ts"),
		`import v from "../../../lib/util"`+"\n")
	writeFile(t, filepath.Join(root, "shared.ts"), `const ref = "../../../lib/util";`+"\n")

	a := newApp(t, root, Options{Write: true, Refs: true})
	summary, err := a.Run()
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FilesChanged)
	assert.Equal(t, []string{"../../../lib/util"}, summary.Ambiguous)
	assert.Equal(t, 1, summary.AmbiguousSkipped)
	assert.Contains(t, readFile(t, filepath.Join(root, "shared.ts")), `"../../../lib/util"`)
}

func TestRunMalformedConfigFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tsconfig.json"), `{ "compilerOptions": { bad }`)
	writeFile(t, filepath.Join(root, "src", "a.ts"), `import x from "./b"`+"\n")

	a := newApp(t, root, Options{})
	_, err := a.Run()
	require.Error(t, err)
	var parseErr *tsconfig.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.File, "tsconfig.json")
}

func TestRunNoConfigNoChanges(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a", "b", "c", "page.ts"),
		`import Hello from "../../../components/Hello"`+"\n")

	a := newApp(t, root, Options{Write: true})
	summary, err := a.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesScanned)
	assert.Zero(t, summary.FilesChanged)
}

func TestRunFilesSkipsPropagation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tsconfig.json"), baseTSConfig)
	target := filepath.Join(root, "src", "a", "b", "c", "page.tsx")
	writeFile(t, target, `import Hello from "../../../components/Hello.tsx"`+"\n")
	writeFile(t, filepath.Join(root, "src", "mock.ts"), `jest.mock("../../../components/Hello.tsx");`+"\n")

	a := newApp(t, root, Options{Write: true, Refs: true})
	summary, err := a.RunFiles([]string{target, filepath.Join(root, "src", "styles.css")})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesScanned)
	assert.Equal(t, []string{"src/a/b/c/page.tsx"}, summary.Changed)
	assert.Empty(t, summary.Propagated)
	assert.Contains(t, readFile(t, target), `"@/components/Hello.tsx"`)
}

func TestRunIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tsconfig.json"), baseTSConfig)
	writeFile(t, filepath.Join(root, "src", "a", "b", "c", "page.tsx"),
		`import Hello from "../../../components/Hello.tsx"`+"\n")

	a := newApp(t, root, Options{Write: true, Refs: true})
	first, err := a.Run()
	require.NoError(t, err)
	require.Equal(t, 1, first.FilesChanged)

	second, err := a.Run()
	require.NoError(t, err)
	assert.Zero(t, second.FilesChanged)
	assert.Zero(t, second.FilesPropagated)
}

func TestRunRecordsHistory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tsconfig.json"), baseTSConfig)
	writeFile(t, filepath.Join(root, "src", "a", "b", "c", "page.tsx"),
		`import Hello from "../../../components/Hello.tsx"`+"\n")

	store, err := history.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	a := newApp(t, root, Options{Write: true, Refs: true})
	a.SetHistory(store)
	_, err = a.Run()
	require.NoError(t, err)

	runs, err := store.LoadRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "write", runs[0].Mode)
	assert.Equal(t, 1, runs[0].FilesChanged)
}

func TestRunReadErrorIsFatal(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tsconfig.json"), baseTSConfig)
	path := filepath.Join(root, "src", "a.ts")
	writeFile(t, path, `import x from "./b"`+"\n")
	require.NoError(t, os.Chmod(path, 0o000))

	a := newApp(t, root, Options{})
	_, err := a.Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrPermission))
}
