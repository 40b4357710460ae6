package indexer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
)

// compiledPattern holds both the pattern string and compiled glob. For
// "**/"-prefixed patterns, rootGlob matches files at the project root.
type compiledPattern struct {
	pattern  string
	glob     glob.Glob
	rootGlob glob.Glob
}

// FileDiscovery finds source files per language using glob patterns and ignore rules.
type FileDiscovery struct {
	rootDir          string
	languagePatterns map[extraction.Language][]compiledPattern
	ignorePatterns   []compiledPattern
}

// NewFileDiscovery creates a new file discovery instance.
func NewFileDiscovery(rootDir string, languagePatterns map[extraction.Language][]string, ignorePatterns []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{
		rootDir:          rootDir,
		languagePatterns: make(map[extraction.Language][]compiledPattern),
	}

	for lang, patterns := range languagePatterns {
		compiled, err := compilePatterns(patterns)
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern: %w", lang, err)
		}
		fd.languagePatterns[lang] = compiled
	}

	compiled, err := compilePatterns(ignorePatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid ignore pattern: %w", err)
	}
	fd.ignorePatterns = compiled

	return fd, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	var compiled []compiledPattern
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		cp := compiledPattern{pattern: pattern, glob: g}
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			if cp.rootGlob, err = glob.Compile(rest, '/'); err != nil {
				return nil, err
			}
		}
		compiled = append(compiled, cp)
	}
	return compiled, nil
}

// Discover walks the directory tree and returns matching files partitioned
// by language, each list in lexicographic order. A file belongs to the first
// language (in canonical order) whose patterns match it. Languages with no
// matching files are absent from the result.
func (fd *FileDiscovery) Discover() (map[extraction.Language][]string, error) {
	files := make(map[extraction.Language][]string)

	err := filepath.Walk(fd.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Get relative path for pattern matching
		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		// Normalize path separators for glob matching
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if fd.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if fd.shouldIgnore(relPath) {
			return nil
		}

		for _, lang := range extraction.Languages {
			if fd.matchesAnyPattern(relPath, fd.languagePatterns[lang]) {
				files[lang] = append(files[lang], path)
				return nil
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiscovery, err)
	}

	for lang := range files {
		sort.Strings(files[lang])
	}

	return files, nil
}

// shouldIgnore checks if a path matches any ignore pattern.
func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	// Always ignore the tool's own config directory
	if strings.HasPrefix(relPath, ".codeshape/") || relPath == ".codeshape" {
		return true
	}

	if fd.matchesAnyPattern(relPath, fd.ignorePatterns) {
		return true
	}

	// Also check if this is a directory that would match with /** suffix
	// For example, "node_modules" should match pattern "node_modules/**"
	pathWithSuffix := relPath + "/**"
	return fd.matchesAnyPattern(pathWithSuffix, fd.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func (fd *FileDiscovery) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// A root-level file ("main.c") should match "**/*.c" as well.
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if cp.rootGlob != nil && cp.rootGlob.Match(path) {
				return true
			}
		}
	}

	return false
}
