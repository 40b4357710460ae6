package parsers

import (
	"path/filepath"
	"strings"

	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
)

// Extractor turns the source text of one file into a structural record.
// Implementations are pure: the same bytes always produce the same record,
// and nothing is retained between calls.
type Extractor interface {
	Extract(source []byte) extraction.Record
	Language() extraction.Language
}

// NewExtractor returns the extractor for lang, or nil if the language is unknown.
func NewExtractor(lang extraction.Language) Extractor {
	switch lang {
	case extraction.LanguageC:
		return NewCParser()
	case extraction.LanguageJava:
		return NewJavaParser()
	case extraction.LanguageJavaScript:
		return NewJavaScriptParser()
	case extraction.LanguagePHP:
		return NewPhpParser()
	case extraction.LanguagePython:
		return NewPythonParser()
	case extraction.LanguageTypeScript:
		return NewTypeScriptParser()
	default:
		return nil
	}
}

// ExtractFile extracts source for a discovered file. TypeScript files with
// a .tsx extension are parsed with the TSX grammar.
func ExtractFile(lang extraction.Language, path string, source []byte) extraction.Record {
	if lang == extraction.LanguageTypeScript && strings.EqualFold(filepath.Ext(path), ".tsx") {
		return NewTSXParser().Extract(source)
	}

	extractor := NewExtractor(lang)
	if extractor == nil {
		return extraction.NewRecord()
	}
	return extractor.Extract(source)
}
