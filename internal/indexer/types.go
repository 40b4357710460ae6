package indexer

import (
	"errors"
	"sort"
	"time"

	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
)

var (
	// ErrDiscovery indicates the project root could not be walked.
	ErrDiscovery = errors.New("source discovery failed")

	// ErrNoSourceFiles indicates discovery found no file of any supported language.
	ErrNoSourceFiles = errors.New("no supported source files (.py, .java, .js, .ts, .c, .h, .php) found in the project")
)

// Config holds the settings the scanner needs.
type Config struct {
	RootDir          string
	LanguagePatterns map[extraction.Language][]string
	IgnorePatterns   []string
	Workers          int
}

// FileRecord is a structural record tagged with the language that produced it.
type FileRecord struct {
	Language          extraction.Language `json:"language" yaml:"language"`
	extraction.Record `yaml:",inline"`
}

// ProjectRecord holds the records of every discovered file of one project.
// Files are keyed by slash-separated path relative to Root. A ProjectRecord
// is built once per analysis and not modified afterwards.
type ProjectRecord struct {
	Root      string
	Languages []extraction.Language
	Files     map[string]FileRecord
}

// Paths returns the file paths in lexicographic order.
func (p *ProjectRecord) Paths() []string {
	paths := make([]string, 0, len(p.Files))
	for path := range p.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// FilesFor returns the records of one language keyed by path.
func (p *ProjectRecord) FilesFor(lang extraction.Language) map[string]extraction.Record {
	out := make(map[string]extraction.Record)
	for path, fr := range p.Files {
		if fr.Language == lang {
			out[path] = fr.Record
		}
	}
	return out
}

// HasLanguage reports whether any file of lang was discovered.
func (p *ProjectRecord) HasLanguage(lang extraction.Language) bool {
	for _, l := range p.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// ScanStats tracks what a scan processed.
type ScanStats struct {
	FilesByLanguage map[extraction.Language]int `json:"files_by_language"`
	FilesScanned    int                         `json:"files_scanned"`
	FailedFiles     int                         `json:"failed_files"`
	Duration        time.Duration               `json:"duration"`
}
