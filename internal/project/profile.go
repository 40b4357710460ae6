package project

import "github.com/mvp-joe/codeshape/internal/indexer/extraction"

// relationLabel names a relationship kind in summaries and context text.
type relationLabel struct {
	kind  extraction.RelationKind
	label string
}

// profile describes which structural categories a language models and
// how they are worded.
type profile struct {
	typeNoun   string // "structs" or "classes"
	functions  bool
	methods    bool
	bindings   bool
	importNoun string
	relations  []relationLabel

	// Summary paragraph wording.
	importLabel   string // label of the imports line
	countBindings bool   // headline counts global variables
	countImports  bool   // headline counts unique imports
	bindingsLine  bool   // separate "Global variables:" line
	application   bool   // closing sentence calls the project an application
}

var profiles = map[extraction.Language]profile{
	extraction.LanguageC: {
		typeNoun:     "structs",
		functions:    true,
		bindings:     true,
		importNoun:   "included files",
		importLabel:  "Included files",
		bindingsLine: true,
	},
	extraction.LanguageJava: {
		typeNoun:    "classes",
		methods:     true,
		importNoun:  "imported packages",
		importLabel: "Imported packages",
		relations: []relationLabel{
			{extraction.RelationSuperclass, "superclasses"},
			{extraction.RelationInterfaces, "interfaces"},
		},
	},
	extraction.LanguageJavaScript: {
		typeNoun:      "classes",
		functions:     true,
		methods:       true,
		bindings:      true,
		importNoun:    "imported modules",
		importLabel:   "Imported modules",
		countBindings: true,
		countImports:  true,
		application:   true,
	},
	extraction.LanguagePHP: {
		typeNoun:    "classes",
		functions:   true,
		methods:     true,
		bindings:    true,
		importNoun:  "imported namespaces",
		importLabel: "Imported namespaces/classes",
		relations: []relationLabel{
			{extraction.RelationSuperclass, "parent classes"},
			{extraction.RelationInterfaces, "interfaces"},
			{extraction.RelationTraits, "traits"},
		},
	},
	extraction.LanguagePython: {
		typeNoun:      "classes",
		functions:     true,
		methods:       true,
		bindings:      true,
		importNoun:    "imported modules",
		importLabel:   "Imported modules",
		countBindings: true,
	},
	extraction.LanguageTypeScript: {
		typeNoun:      "classes",
		functions:     true,
		methods:       true,
		bindings:      true,
		importNoun:    "imported modules",
		importLabel:   "Imported modules",
		countBindings: true,
		countImports:  true,
		application:   true,
	},
}

// ModelsRelation reports whether lang produces statements of the given kind.
func ModelsRelation(lang extraction.Language, kind extraction.RelationKind) bool {
	for _, rl := range profiles[lang].relations {
		if rl.kind == kind {
			return true
		}
	}
	return false
}

// LanguagesModeling returns, in canonical order, every language that
// produces statements of the given kind.
func LanguagesModeling(kind extraction.RelationKind) []extraction.Language {
	var langs []extraction.Language
	for _, lang := range extraction.Languages {
		if ModelsRelation(lang, kind) {
			langs = append(langs, lang)
		}
	}
	return langs
}
