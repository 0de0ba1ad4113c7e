package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func relPaths(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestScanRootsFiltersExtensionsAndDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "App.tsx"), "export {}\n")
	writeFile(t, filepath.Join(root, "src", "util.ts"), "export {}\n")
	writeFile(t, filepath.Join(root, "src", "styles.css"), "body {}\n")
	writeFile(t, filepath.Join(root, "node_modules", "react", "index.js"), "module.exports = {}\n")
	writeFile(t, filepath.Join(root, "dist", "bundle.js"), "var x\n")

	s, err := New([]string{".ts", ".tsx", ".js"}, []string{"node_modules", "dist"}, nil)
	require.NoError(t, err)

	files, err := s.ScanRoots([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/App.tsx", "src/util.ts"}, relPaths(t, root, files))
}

func TestScanRootsFileGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ts"), "export {}\n")
	writeFile(t, filepath.Join(root, "a.test.ts"), "export {}\n")
	writeFile(t, filepath.Join(root, "a.d.ts"), "export {}\n")

	s, err := New([]string{"ts"}, nil, []string{"*.test.ts", "*.d.ts"})
	require.NoError(t, err)

	files, err := s.ScanRoots([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ts"}, relPaths(t, root, files))
}

func TestScanRootsInvalidPattern(t *testing.T) {
	_, err := New([]string{"ts"}, []string{"[unclosed"}, nil)
	assert.Error(t, err)
}

func TestScanRootsDeduplicatesOverlappingRoots(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.ts"), "export {}\n")

	s, err := New([]string{"ts"}, nil, nil)
	require.NoError(t, err)

	files, err := s.ScanRoots([]string{root, filepath.Join(root, "src")})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts"}, relPaths(t, root, files))
}

func TestIgnoreFileExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, IgnoreFileName), "generated\n*.stories.ts\n")
	writeFile(t, filepath.Join(root, "src", "a.ts"), "export {}\n")
	writeFile(t, filepath.Join(root, "src", "a.stories.ts"), "export {}\n")
	writeFile(t, filepath.Join(root, "src", "generated", "api.ts"), "export {}\n")

	s, err := New([]string{"ts"}, nil, nil)
	require.NoError(t, err)

	files, err := s.ScanRoots([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts"}, relPaths(t, root, files))
}

func TestIgnoreFileNegation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, IgnoreFileName), "vendor/*\n!vendor/keep.ts\n")
	writeFile(t, filepath.Join(root, "vendor", "drop.ts"), "export {}\n")
	writeFile(t, filepath.Join(root, "vendor", "keep.ts"), "export {}\n")

	s, err := New([]string{"ts"}, nil, nil)
	require.NoError(t, err)

	files, err := s.ScanRoots([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor/keep.ts"}, relPaths(t, root, files))
}

func TestNestedIgnoreFilesWinDeeper(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, IgnoreFileName), "legacy\n")
	writeFile(t, filepath.Join(root, "pkg", IgnoreFileName), "!legacy\n")
	writeFile(t, filepath.Join(root, "app", "legacy", "a.ts"), "export {}\n")
	writeFile(t, filepath.Join(root, "pkg", "legacy", "b.ts"), "export {}\n")

	s, err := New([]string{"ts"}, nil, nil)
	require.NoError(t, err)

	files, err := s.ScanRoots([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg/legacy/b.ts"}, relPaths(t, root, files))
}

func TestSupported(t *testing.T) {
	s, err := New([]string{"ts", "tsx"}, []string{"node_modules"}, []string{"*.d.ts"})
	require.NoError(t, err)

	assert.True(t, s.Supported(filepath.Join("proj", "src", "a.ts")))
	assert.False(t, s.Supported(filepath.Join("proj", "src", "a.css")))
	assert.False(t, s.Supported(filepath.Join("proj", "src", "a.d.ts")))
	assert.False(t, s.Supported(filepath.Join("proj", "node_modules", "x", "a.ts")))
}
