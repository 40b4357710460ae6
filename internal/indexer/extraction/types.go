package extraction

// Language identifies a supported source language.
type Language string

const (
	LanguageC          Language = "c"
	LanguageJava       Language = "java"
	LanguageJavaScript Language = "javascript"
	LanguagePHP        Language = "php"
	LanguagePython     Language = "python"
	LanguageTypeScript Language = "typescript"
)

// Languages lists every supported language in canonical order.
// Aggregation, summaries and answers iterate in this order.
var Languages = []Language{
	LanguageC,
	LanguageJava,
	LanguageJavaScript,
	LanguagePHP,
	LanguagePython,
	LanguageTypeScript,
}

var displayNames = map[Language]string{
	LanguageC:          "C",
	LanguageJava:       "Java",
	LanguageJavaScript: "JavaScript",
	LanguagePHP:        "PHP",
	LanguagePython:     "Python",
	LanguageTypeScript: "TypeScript",
}

// DisplayName returns the human readable language name ("PHP", "JavaScript").
func (l Language) DisplayName() string {
	if name, ok := displayNames[l]; ok {
		return name
	}
	return string(l)
}

// ParseLanguage maps a user supplied name to a Language.
func ParseLanguage(s string) (Language, bool) {
	for _, l := range Languages {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// RelationKind names the kind of type relationship a statement describes.
type RelationKind string

const (
	RelationSuperclass RelationKind = "superclass"
	RelationInterfaces RelationKind = "interfaces"
	RelationTraits     RelationKind = "traits"
)

// Relationship is one statement about a declared type, such as
// "Dog extends Animal" or "Dog implements no interfaces".
type Relationship struct {
	Kind RelationKind `json:"kind" yaml:"kind"`
	Text string       `json:"text" yaml:"text"`
	// Absent is set for the negative statements ("has no superclass").
	Absent bool `json:"absent,omitempty" yaml:"absent,omitempty"`
}

// Callables holds the callable units found in a file.
type Callables struct {
	Functions []string `json:"functions" yaml:"functions"`
	Methods   []string `json:"methods" yaml:"methods"`
}

// Record is the structural summary of a single source file.
// Every slice is non-nil, so an empty file and a file that failed to
// parse both produce a record with empty sequences.
type Record struct {
	TypeDeclarations []string       `json:"type_declarations" yaml:"type_declarations"`
	Relationships    []Relationship `json:"relationships" yaml:"relationships"`
	Callables        Callables      `json:"callables" yaml:"callables"`
	Imports          []string       `json:"imports" yaml:"imports"`
	ModuleBindings   []string       `json:"module_bindings" yaml:"module_bindings"`
}

// NewRecord returns an empty record with all sequences initialized.
func NewRecord() Record {
	return Record{
		TypeDeclarations: []string{},
		Relationships:    []Relationship{},
		Callables: Callables{
			Functions: []string{},
			Methods:   []string{},
		},
		Imports:        []string{},
		ModuleBindings: []string{},
	}
}

// IsEmpty reports whether the record carries no facts at all.
func (r Record) IsEmpty() bool {
	return len(r.TypeDeclarations) == 0 &&
		len(r.Relationships) == 0 &&
		len(r.Callables.Functions) == 0 &&
		len(r.Callables.Methods) == 0 &&
		len(r.Imports) == 0 &&
		len(r.ModuleBindings) == 0
}

// RelationshipsOf returns the statements of the given kind in source order.
func (r Record) RelationshipsOf(kind RelationKind) []Relationship {
	var out []Relationship
	for _, rel := range r.Relationships {
		if rel.Kind == kind {
			out = append(out, rel)
		}
	}
	return out
}
