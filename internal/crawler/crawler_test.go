package crawler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestCrawler_Discover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "greeter.h"))
	writeFile(t, filepath.Join(root, "src", "greeter.c"))
	writeFile(t, filepath.Join(root, "gir", "Test-1.0.gir"))
	writeFile(t, filepath.Join(root, "README.md"))
	writeFile(t, filepath.Join(root, "build", "generated.h"))
	writeFile(t, filepath.Join(root, ".git", "hook.h"))

	src, err := New().Discover(root)
	require.NoError(t, err)

	require.Len(t, src.Headers, 1)
	assert.Equal(t, filepath.Join(root, "src", "greeter.h"), src.Headers[0])
	require.Len(t, src.Girs, 1)
	assert.Equal(t, filepath.Join(root, "gir", "Test-1.0.gir"), src.Girs[0])
}

func TestCrawler_DiscoverMultipleRoots(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	writeFile(t, filepath.Join(a, "a.h"))
	writeFile(t, filepath.Join(b, "b.h"))

	src, err := New().Discover(a, b)
	require.NoError(t, err)
	assert.Len(t, src.Headers, 2)
}

func TestCrawler_DiscoverMissingRoot(t *testing.T) {
	_, err := New().Discover(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestSources_AllHeadersFirst(t *testing.T) {
	src := &Sources{
		Headers: []string{"a.h", "b.h"},
		Girs:    []string{"Test-1.0.gir"},
	}
	assert.Equal(t, []string{"a.h", "b.h", "Test-1.0.gir"}, src.All())
}
