package project

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codeshape/internal/indexer"
	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
)

// Test Plan for the project aggregator and summarizer:
// - Aggregate tags every element with its language and file path
// - lists follow canonical language order, then path order
// - RelationsOf filters by kind and optionally drops negative statements
// - UniqueImports / UniqueTaggedImports de-duplicate and sort
// - Summarize renders each language's paragraph deterministically
// - Context lists each detected language in one sentence
// - an empty project yields empty lists, not nil

func record(mutate func(r *extraction.Record)) extraction.Record {
	r := extraction.NewRecord()
	mutate(&r)
	return r
}

func sampleProject() *indexer.ProjectRecord {
	return &indexer.ProjectRecord{
		Root:      "/tmp/project",
		Languages: []extraction.Language{extraction.LanguageJava, extraction.LanguagePython},
		Files: map[string]indexer.FileRecord{
			"b.py": {Language: extraction.LanguagePython, Record: record(func(r *extraction.Record) {
				r.TypeDeclarations = []string{"Gamma"}
				r.Imports = []string{"os"}
			})},
			"a.py": {Language: extraction.LanguagePython, Record: record(func(r *extraction.Record) {
				r.TypeDeclarations = []string{"Alpha", "Beta"}
				r.Callables.Functions = []string{"main"}
				r.Callables.Methods = []string{"run"}
				r.Imports = []string{"os", "sys"}
				r.ModuleBindings = []string{"TIMEOUT"}
			})},
			"src/Dog.java": {Language: extraction.LanguageJava, Record: record(func(r *extraction.Record) {
				r.TypeDeclarations = []string{"Dog", "Animal"}
				r.Callables.Methods = []string{"bark"}
				r.Imports = []string{"java.util.List"}
				r.Relationships = []extraction.Relationship{
					{Kind: extraction.RelationSuperclass, Text: "Dog extends Animal"},
					{Kind: extraction.RelationInterfaces, Text: "Dog implements Serializable"},
					{Kind: extraction.RelationSuperclass, Text: "Animal has no superclass", Absent: true},
					{Kind: extraction.RelationInterfaces, Text: "Animal implements no interfaces", Absent: true},
				}
			})},
		},
	}
}

func TestAggregate_Order(t *testing.T) {
	t.Parallel()

	view := Aggregate(sampleProject())

	require.Len(t, view.Types, 5)
	assert.Equal(t, []string{"Dog", "Animal", "Alpha", "Beta", "Gamma"}, values(view.Types))
	assert.Equal(t, Tagged{Language: extraction.LanguageJava, Path: "src/Dog.java", Value: "Dog"}, view.Types[0])
	assert.Equal(t, "Python: Alpha", view.Types[2].String())

	assert.Equal(t, []string{"main"}, values(view.Functions))
	assert.Equal(t, []string{"bark", "run"}, values(view.Methods))
	assert.Equal(t, []string{"TIMEOUT"}, values(view.Bindings))
	assert.Len(t, view.Relationships, 4)
}

func TestView_RelationsOf(t *testing.T) {
	t.Parallel()

	view := Aggregate(sampleProject())

	present := view.RelationsOf(extraction.RelationSuperclass, false)
	require.Len(t, present, 1)
	assert.Equal(t, "Java: Dog extends Animal", present[0].String())

	all := view.RelationsOf(extraction.RelationSuperclass, true)
	assert.Len(t, all, 2)

	assert.Empty(t, view.RelationsOf(extraction.RelationTraits, true))
}

func TestView_Imports(t *testing.T) {
	t.Parallel()

	view := Aggregate(sampleProject())

	assert.Equal(t, []string{"java.util.List", "os", "sys"}, view.UniqueImports())
	assert.Equal(t, []string{"Java: java.util.List", "Python: os", "Python: sys"}, view.UniqueTaggedImports())
}

func TestView_HasLanguage(t *testing.T) {
	t.Parallel()

	view := Aggregate(sampleProject())

	assert.True(t, view.HasLanguage(extraction.LanguageJava))
	assert.False(t, view.HasLanguage(extraction.LanguagePHP))
	assert.True(t, view.HasAnyLanguage(extraction.LanguagePHP, extraction.LanguagePython))
	assert.False(t, view.HasAnyLanguage(extraction.LanguageC))
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	p := sampleProject()

	t.Run("python", func(t *testing.T) {
		t.Parallel()
		got := Summarize(extraction.LanguagePython, p.FilesFor(extraction.LanguagePython))
		want := "Python project with 3 classes, 1 functions, 1 methods, and 1 global variables.\n" +
			"Imported modules: os, sys.\n" +
			"This project's purpose is based on the uploaded Python code structure."
		assert.Equal(t, want, got)
	})

	t.Run("java", func(t *testing.T) {
		t.Parallel()
		got := Summarize(extraction.LanguageJava, p.FilesFor(extraction.LanguageJava))
		want := "Java project with 2 classes, 1 methods.\n" +
			"Imported packages: java.util.List.\n" +
			"Superclasses: Dog extends Animal, Animal has no superclass.\n" +
			"Interfaces: Dog implements Serializable, Animal implements no interfaces.\n" +
			"This project's purpose is based on the uploaded Java code structure."
		assert.Equal(t, want, got)
	})

	t.Run("c without files", func(t *testing.T) {
		t.Parallel()
		got := Summarize(extraction.LanguageC, nil)
		want := "C project with 0 structs, 0 functions.\n" +
			"Included files: none.\n" +
			"Global variables: 0 (none).\n" +
			"This project's purpose is based on the uploaded C code structure."
		assert.Equal(t, want, got)
	})

	t.Run("c with globals", func(t *testing.T) {
		t.Parallel()
		files := map[string]extraction.Record{
			"geometry.c": record(func(r *extraction.Record) {
				r.TypeDeclarations = []string{"Point"}
				r.Callables.Functions = []string{"area"}
				r.Imports = []string{"stdio.h", "math.h", "stdio.h"}
				r.ModuleBindings = []string{"origin", "scale"}
			}),
		}
		got := Summarize(extraction.LanguageC, files)
		want := "C project with 1 structs, 1 functions.\n" +
			"Included files: math.h, stdio.h.\n" +
			"Global variables: 2 (origin, scale).\n" +
			"This project's purpose is based on the uploaded C code structure."
		assert.Equal(t, want, got)
	})

	t.Run("javascript", func(t *testing.T) {
		t.Parallel()
		files := map[string]extraction.Record{
			"app.js": record(func(r *extraction.Record) {
				r.TypeDeclarations = []string{"App"}
				r.Callables.Functions = []string{"boot"}
				r.Callables.Methods = []string{"render", "mount"}
				r.Imports = []string{"react", "./util", "react"}
				r.ModuleBindings = []string{"config"}
			}),
		}
		got := Summarize(extraction.LanguageJavaScript, files)
		want := "JavaScript project with 1 classes, 1 functions, 2 methods, 1 global variables, and 2 imported modules.\n" +
			"Imported modules: ./util, react.\n" +
			"This project is a JavaScript application based on the uploaded code structure."
		assert.Equal(t, want, got)
	})

	t.Run("typescript without files", func(t *testing.T) {
		t.Parallel()
		got := Summarize(extraction.LanguageTypeScript, nil)
		want := "TypeScript project with 0 classes, 0 functions, 0 methods, 0 global variables, and 0 imported modules.\n" +
			"Imported modules: none.\n" +
			"This project is a TypeScript application based on the uploaded code structure."
		assert.Equal(t, want, got)
	})

	t.Run("php traits line", func(t *testing.T) {
		t.Parallel()
		files := map[string]extraction.Record{
			"User.php": record(func(r *extraction.Record) {
				r.TypeDeclarations = []string{"User"}
				r.Relationships = []extraction.Relationship{
					{Kind: extraction.RelationTraits, Text: "User uses HasFactory"},
				}
			}),
		}
		got := Summarize(extraction.LanguagePHP, files)
		assert.Contains(t, got, "Traits: User uses HasFactory.\n")
		assert.Contains(t, got, "Parent classes: none.\n")
		assert.Contains(t, got, "Imported namespaces/classes: none.\n")
		assert.True(t, strings.HasPrefix(got, "PHP project with 1 classes, 0 functions, 0 methods.\n"))
	})
}

func TestView_ContextAndPurposes(t *testing.T) {
	t.Parallel()

	view := Aggregate(sampleProject())

	ctx := view.Context()
	assert.Equal(t,
		"Project contains: "+
			"Java code with 2 classes (Dog, Animal), 1 methods (bark), and 1 imported packages (java.util.List). "+
			"Python code with 3 classes (Alpha, Beta, Gamma), 1 functions (main), 1 methods (run), 1 global variables (TIMEOUT), and 2 imported modules (os, sys)."+
			" This is a multi-language project with the uploaded code structure.",
		ctx)

	assert.Equal(t,
		"The Java portion is designed to manage its specific functionality based on the uploaded code. "+
			"The Python portion is designed to manage its specific functionality based on the uploaded code.",
		view.Purposes())

	summaries := view.Summaries()
	assert.Contains(t, summaries, "Java project with 2 classes")
	assert.Contains(t, summaries, "\n\nPython project with 3 classes")
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	view := Aggregate(&indexer.ProjectRecord{Files: map[string]indexer.FileRecord{}})

	assert.NotNil(t, view.Types)
	assert.Empty(t, view.Types)
	assert.Empty(t, view.UniqueImports())
	assert.Empty(t, view.Dump())
	assert.Equal(t, "", view.Summaries())
}

func TestLanguagesModeling(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []extraction.Language{extraction.LanguageJava, extraction.LanguagePHP},
		LanguagesModeling(extraction.RelationInterfaces))
	assert.Equal(t, []extraction.Language{extraction.LanguagePHP},
		LanguagesModeling(extraction.RelationTraits))
	assert.False(t, ModelsRelation(extraction.LanguagePython, extraction.RelationSuperclass))
}
