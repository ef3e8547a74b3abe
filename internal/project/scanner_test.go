package project

// TEST PLAN
// =========
//
// Scanner:
// 1. Finds supported files by extension, sorted, relative slash paths
// 2. Skips unsupported extensions
// 3. Skips version control and node_modules directories
// 4. Honors user ignore patterns for files and directories
// 5. Picks up extensionless files with a recognized shebang
// 6. Rejects invalid ignore patterns at construction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribedocs/scribe/internal/lang"
)

func registry(t *testing.T) *lang.Registry {
	t.Helper()
	reg, err := lang.NewRegistry(nil)
	require.NoError(t, err)
	return reg
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
}

func TestScanFindsSupportedFiles(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/net.c":    "int x;",
		"src/util.pl":  "# comment",
		"README.xyz":   "not a source file",
		"binary":       "\x00\x01",
	})

	s, err := NewScanner(root, registry(t), nil)
	require.NoError(t, err)

	files, err := s.Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"src/net.c", "src/util.pl"}, files)
}

func TestScanSkipsVersionControlDirs(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.c":                 "int x;",
		".git/objects/b.c":    "int y;",
		"node_modules/mod.js": "var z;",
	})

	s, err := NewScanner(root, registry(t), nil)
	require.NoError(t, err)

	files, err := s.Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.c"}, files)
}

func TestScanHonorsIgnorePatterns(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/keep.c":      "int x;",
		"src/skip.gen.c":  "int y;",
		"build/out.c":     "int z;",
	})

	s, err := NewScanner(root, registry(t), []string{"build/**", "**.gen.c"})
	require.NoError(t, err)

	files, err := s.Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"src/keep.c"}, files)
}

func TestScanDetectsShebangFiles(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"tool":  "#!/usr/bin/perl\nprint 1;\n",
		"notes": "no interpreter here\n",
	})

	s, err := NewScanner(root, registry(t), nil)
	require.NoError(t, err)

	files, err := s.Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"tool"}, files)
}

func TestNewScannerRejectsBadPattern(t *testing.T) {
	t.Parallel()
	_, err := NewScanner(t.TempDir(), registry(t), []string{"[unterminated"})
	assert.Error(t, err)
}
