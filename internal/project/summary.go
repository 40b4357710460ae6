package project

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
)

// Summarize renders one paragraph describing the files of a single language.
// The output depends only on its input: files are visited in path order and
// imports are de-duplicated and sorted.
func Summarize(lang extraction.Language, files map[string]extraction.Record) string {
	prof, ok := profiles[lang]
	if !ok {
		return ""
	}

	var types, functions, methods, imports, bindings []string
	relations := make(map[extraction.RelationKind][]string)
	for _, path := range sortedKeys(files) {
		rec := files[path]
		types = append(types, rec.TypeDeclarations...)
		functions = append(functions, rec.Callables.Functions...)
		methods = append(methods, rec.Callables.Methods...)
		imports = append(imports, rec.Imports...)
		bindings = append(bindings, rec.ModuleBindings...)
		for _, rel := range rec.Relationships {
			relations[rel.Kind] = append(relations[rel.Kind], rel.Text)
		}
	}

	uniqueImports := uniqueSorted(imports)

	counts := []string{fmt.Sprintf("%d %s", len(types), prof.typeNoun)}
	if prof.functions {
		counts = append(counts, fmt.Sprintf("%d functions", len(functions)))
	}
	if prof.methods {
		counts = append(counts, fmt.Sprintf("%d methods", len(methods)))
	}
	if prof.countBindings {
		counts = append(counts, fmt.Sprintf("%d global variables", len(bindings)))
	}
	if prof.countImports {
		counts = append(counts, fmt.Sprintf("%d imported modules", len(uniqueImports)))
	}
	headline := strings.Join(counts, ", ")
	if prof.countBindings || prof.countImports {
		headline = joinPhrases(counts)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s project with %s.\n", lang.DisplayName(), headline)
	fmt.Fprintf(&b, "%s: %s.\n", prof.importLabel, listOrNone(uniqueImports, ", "))
	if prof.bindingsLine {
		fmt.Fprintf(&b, "Global variables: %d (%s).\n", len(bindings), listOrNone(bindings, ", "))
	}
	for _, rl := range prof.relations {
		fmt.Fprintf(&b, "%s: %s.\n", capitalize(rl.label), listOrNone(relations[rl.kind], ", "))
	}
	if prof.application {
		fmt.Fprintf(&b, "This project is a %s application based on the uploaded code structure.", lang.DisplayName())
	} else {
		fmt.Fprintf(&b, "This project's purpose is based on the uploaded %s code structure.", lang.DisplayName())
	}

	return b.String()
}

// Summaries returns the paragraph of every detected language, in canonical
// order, separated by blank lines.
func (v *View) Summaries() string {
	parts := make([]string, 0, len(v.Languages()))
	for _, lang := range v.Languages() {
		parts = append(parts, Summarize(lang, v.project.FilesFor(lang)))
	}
	return strings.Join(parts, "\n\n")
}

// Purposes returns one purpose sentence per detected language.
func (v *View) Purposes() string {
	parts := make([]string, 0, len(v.Languages()))
	for _, lang := range v.Languages() {
		parts = append(parts, fmt.Sprintf("The %s portion is designed to manage its specific functionality based on the uploaded code.", lang.DisplayName()))
	}
	return strings.Join(parts, " ")
}

// Context builds the project-level context string handed to the
// completion service alongside a query.
func (v *View) Context() string {
	sentences := make([]string, 0, len(v.Languages()))
	for _, lang := range v.Languages() {
		prof := profiles[lang]

		phrases := []string{countPhrase(values(filter(v.Types, lang)), prof.typeNoun)}
		if prof.functions {
			phrases = append(phrases, countPhrase(values(filter(v.Functions, lang)), "functions"))
		}
		if prof.methods {
			phrases = append(phrases, countPhrase(values(filter(v.Methods, lang)), "methods"))
		}
		if prof.bindings {
			phrases = append(phrases, countPhrase(values(filter(v.Bindings, lang)), "global variables"))
		}
		phrases = append(phrases, countPhrase(uniqueSorted(values(filter(v.Imports, lang))), prof.importNoun))

		sentences = append(sentences, fmt.Sprintf("%s code with %s.", lang.DisplayName(), joinPhrases(phrases)))
	}

	return "Project contains: " + strings.Join(sentences, " ") + " This is a multi-language project with the uploaded code structure."
}

func countPhrase(names []string, noun string) string {
	if len(names) == 0 {
		return "0 " + noun
	}
	return fmt.Sprintf("%d %s (%s)", len(names), noun, strings.Join(names, ", "))
}

// joinPhrases joins with commas and a final "and".
func joinPhrases(phrases []string) string {
	switch len(phrases) {
	case 0:
		return ""
	case 1:
		return phrases[0]
	default:
		return strings.Join(phrases[:len(phrases)-1], ", ") + ", and " + phrases[len(phrases)-1]
	}
}

func listOrNone(items []string, sep string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, sep)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
