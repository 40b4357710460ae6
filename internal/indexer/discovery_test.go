package indexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
)

// Test Plan for File Discovery:
// - files are partitioned by language using the configured glob patterns
// - root-level files match "**/*.ext" patterns
// - results are sorted lexicographically per language
// - ignored directories are skipped entirely
// - the .codeshape directory is always ignored
// - languages with no files are absent from the result
// - a missing root returns ErrDiscovery instead of an empty result
// - invalid glob patterns are rejected at construction
// - "**/" patterns are precompiled for root-level files

func testPatterns() map[extraction.Language][]string {
	return map[extraction.Language][]string{
		extraction.LanguageC:          {"**/*.c", "**/*.h"},
		extraction.LanguageJava:       {"**/*.java"},
		extraction.LanguageJavaScript: {"**/*.js"},
		extraction.LanguagePHP:        {"**/*.php"},
		extraction.LanguagePython:     {"**/*.py"},
		extraction.LanguageTypeScript: {"**/*.ts", "**/*.tsx"},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFileDiscovery_PartitionsByLanguage(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.c"), "int main(void) { return 0; }")
	writeFile(t, filepath.Join(root, "include", "util.h"), "")
	writeFile(t, filepath.Join(root, "src", "b.py"), "")
	writeFile(t, filepath.Join(root, "src", "a.py"), "")
	writeFile(t, filepath.Join(root, "web", "ui.tsx"), "")
	writeFile(t, filepath.Join(root, "README.md"), "")
	writeFile(t, filepath.Join(root, "node_modules", "dep", "index.js"), "")
	writeFile(t, filepath.Join(root, ".codeshape", "hook.py"), "")

	fd, err := NewFileDiscovery(root, testPatterns(), []string{"node_modules/**"})
	require.NoError(t, err)

	files, err := fd.Discover()
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "include", "util.h"),
		filepath.Join(root, "main.c"),
	}, files[extraction.LanguageC])
	assert.Equal(t, []string{
		filepath.Join(root, "src", "a.py"),
		filepath.Join(root, "src", "b.py"),
	}, files[extraction.LanguagePython])
	assert.Equal(t, []string{filepath.Join(root, "web", "ui.tsx")}, files[extraction.LanguageTypeScript])

	_, hasJS := files[extraction.LanguageJavaScript]
	assert.False(t, hasJS, "node_modules should be skipped")
	_, hasJava := files[extraction.LanguageJava]
	assert.False(t, hasJava)
}

func TestFileDiscovery_MissingRoot(t *testing.T) {
	t.Parallel()

	fd, err := NewFileDiscovery(filepath.Join(t.TempDir(), "missing"), testPatterns(), nil)
	require.NoError(t, err)

	files, err := fd.Discover()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDiscovery)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, files)
}

func TestFileDiscovery_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFileDiscovery(t.TempDir(), map[extraction.Language][]string{
		extraction.LanguageC: {"[unclosed"},
	}, nil)
	assert.Error(t, err)

	_, err = NewFileDiscovery(t.TempDir(), testPatterns(), []string{"[broken"})
	assert.Error(t, err)
}

func TestCompilePatterns_RootGlobs(t *testing.T) {
	t.Parallel()

	compiled, err := compilePatterns([]string{"**/*.py", "src/*.c"})
	require.NoError(t, err)
	require.Len(t, compiled, 2)

	assert.NotNil(t, compiled[0].rootGlob)
	assert.Nil(t, compiled[1].rootGlob)

	fd := &FileDiscovery{}
	assert.True(t, fd.matchesAnyPattern("main.py", compiled))
	assert.True(t, fd.matchesAnyPattern("pkg/mod.py", compiled))
	assert.True(t, fd.matchesAnyPattern("src/util.c", compiled))
	assert.False(t, fd.matchesAnyPattern("util.c", compiled))
}
