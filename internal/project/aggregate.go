package project

import (
	"sort"

	"github.com/mvp-joe/codeshape/internal/indexer"
	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
)

// Tagged is one extracted element with the language and file it came from.
type Tagged struct {
	Language extraction.Language `json:"language"`
	Path     string              `json:"path"`
	Value    string              `json:"value"`
}

// String renders the element as "<Language>: <value>".
func (t Tagged) String() string {
	return t.Language.DisplayName() + ": " + t.Value
}

// Relation is a relationship statement with the language and file it came from.
type Relation struct {
	Language extraction.Language `json:"language"`
	Path     string              `json:"path"`
	extraction.Relationship
}

// String renders the statement as "<Language>: <text>".
func (r Relation) String() string {
	return r.Language.DisplayName() + ": " + r.Text
}

// View is the merged, read-only view of a ProjectRecord. Every list is
// ordered by language (canonical order), then file path, then source order.
type View struct {
	project *indexer.ProjectRecord

	Types         []Tagged
	Relationships []Relation
	Functions     []Tagged
	Methods       []Tagged
	Imports       []Tagged
	Bindings      []Tagged
}

// Aggregate flattens a ProjectRecord into a View. Languages that were not
// detected contribute nothing.
func Aggregate(p *indexer.ProjectRecord) *View {
	v := &View{
		project:       p,
		Types:         []Tagged{},
		Relationships: []Relation{},
		Functions:     []Tagged{},
		Methods:       []Tagged{},
		Imports:       []Tagged{},
		Bindings:      []Tagged{},
	}

	for _, lang := range p.Languages {
		files := p.FilesFor(lang)
		for _, path := range sortedKeys(files) {
			rec := files[path]
			v.Types = appendTagged(v.Types, lang, path, rec.TypeDeclarations)
			v.Functions = appendTagged(v.Functions, lang, path, rec.Callables.Functions)
			v.Methods = appendTagged(v.Methods, lang, path, rec.Callables.Methods)
			v.Imports = appendTagged(v.Imports, lang, path, rec.Imports)
			v.Bindings = appendTagged(v.Bindings, lang, path, rec.ModuleBindings)
			for _, rel := range rec.Relationships {
				v.Relationships = append(v.Relationships, Relation{Language: lang, Path: path, Relationship: rel})
			}
		}
	}

	return v
}

func appendTagged(list []Tagged, lang extraction.Language, path string, values []string) []Tagged {
	for _, value := range values {
		list = append(list, Tagged{Language: lang, Path: path, Value: value})
	}
	return list
}

func sortedKeys(files map[string]extraction.Record) []string {
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Project returns the record the view was built from.
func (v *View) Project() *indexer.ProjectRecord {
	return v.project
}

// Languages returns the detected languages in canonical order.
func (v *View) Languages() []extraction.Language {
	return v.project.Languages
}

// HasLanguage reports whether lang was detected.
func (v *View) HasLanguage(lang extraction.Language) bool {
	return v.project.HasLanguage(lang)
}

// HasAnyLanguage reports whether at least one of langs was detected.
func (v *View) HasAnyLanguage(langs ...extraction.Language) bool {
	for _, lang := range langs {
		if v.HasLanguage(lang) {
			return true
		}
	}
	return false
}

// RelationsOf returns the statements of one kind. Negative statements
// ("has no superclass") are included only when includeAbsent is set.
func (v *View) RelationsOf(kind extraction.RelationKind, includeAbsent bool) []Relation {
	var out []Relation
	for _, rel := range v.Relationships {
		if rel.Kind != kind {
			continue
		}
		if rel.Absent && !includeAbsent {
			continue
		}
		out = append(out, rel)
	}
	return out
}

// UniqueImports returns the distinct import identifiers across all
// languages, sorted.
func (v *View) UniqueImports() []string {
	return uniqueSorted(values(v.Imports))
}

// UniqueTaggedImports returns the distinct "<Language>: <import>" lines, sorted.
func (v *View) UniqueTaggedImports() []string {
	lines := make([]string, 0, len(v.Imports))
	for _, imp := range v.Imports {
		lines = append(lines, imp.String())
	}
	return uniqueSorted(lines)
}

// Dump returns the full combined mapping of file path to tagged record.
func (v *View) Dump() map[string]indexer.FileRecord {
	return v.project.Files
}

// filter returns the elements of list belonging to lang.
func filter(list []Tagged, lang extraction.Language) []Tagged {
	var out []Tagged
	for _, t := range list {
		if t.Language == lang {
			out = append(out, t)
		}
	}
	return out
}

func values(list []Tagged) []string {
	out := make([]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.Value)
	}
	return out
}

func uniqueSorted(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
