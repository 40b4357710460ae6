package query

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
	"github.com/mvp-joe/codeshape/internal/project"
)

func taggedLines(list []project.Tagged) string {
	lines := make([]string, 0, len(list))
	for _, t := range list {
		lines = append(lines, t.String())
	}
	return strings.Join(lines, "\n")
}

func relationLines(list []project.Relation) string {
	lines := make([]string, 0, len(list))
	for _, r := range list {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}

// section joins the non-empty parts with a blank line.
func section(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

func answerClasses(v *project.View, count, list bool) string {
	var total, listing string
	if count {
		total = fmt.Sprintf("Total classes/structs: %d", len(v.Types))
	}
	if list {
		if len(v.Types) == 0 {
			listing = "No classes or structs found."
		} else {
			listing = "Classes/Structs:\n" + taggedLines(v.Types)
		}
	}
	return section(total, listing)
}

// relationAnswer holds the wording of one relationship category.
type relationAnswer struct {
	kind        extraction.RelationKind
	totalLabel  string
	listLabel   string
	empty       string
	unsupported string
}

func (ra relationAnswer) render(v *project.View, count, list bool) string {
	if !v.HasAnyLanguage(project.LanguagesModeling(ra.kind)...) {
		return ra.unsupported
	}

	var total, listing string
	if count {
		total = fmt.Sprintf("%s: %d", ra.totalLabel, len(v.RelationsOf(ra.kind, false)))
	}
	if list {
		statements := v.RelationsOf(ra.kind, true)
		if len(statements) == 0 {
			listing = ra.empty
		} else {
			listing = ra.listLabel + ":\n" + relationLines(statements)
		}
	}
	return section(total, listing)
}

var (
	superclassAnswer = relationAnswer{
		kind:        extraction.RelationSuperclass,
		totalLabel:  "Total superclasses/parent classes (Java/PHP)",
		listLabel:   "Superclasses/Parent Classes (Java/PHP)",
		empty:       "No superclasses or parent classes found.",
		unsupported: "Superclass/parent class queries are only supported for Java and PHP code, which were not detected.",
	}
	interfaceAnswer = relationAnswer{
		kind:        extraction.RelationInterfaces,
		totalLabel:  "Total interfaces (Java/PHP)",
		listLabel:   "Interfaces (Java/PHP)",
		empty:       "No interfaces found.",
		unsupported: "Interface queries are only supported for Java and PHP code, which were not detected.",
	}
	traitAnswer = relationAnswer{
		kind:        extraction.RelationTraits,
		totalLabel:  "Total traits (PHP)",
		listLabel:   "Traits (PHP)",
		empty:       "No traits found.",
		unsupported: "Trait queries are only supported for PHP code, which was not detected.",
	}
)

func answerSuperclasses(v *project.View, count, list bool) string {
	return superclassAnswer.render(v, count, list)
}

func answerInterfaces(v *project.View, count, list bool) string {
	return interfaceAnswer.render(v, count, list)
}

func answerTraits(v *project.View, count, list bool) string {
	return traitAnswer.render(v, count, list)
}

func answerImports(v *project.View, count, list bool) string {
	var total, listing string
	if count {
		total = fmt.Sprintf("Total modules/packages/includes/uses: %d", len(v.UniqueImports()))
	}
	if list {
		lines := v.UniqueTaggedImports()
		if len(lines) == 0 {
			listing = "No modules, packages, includes, or uses found."
		} else {
			listing = "Modules/Packages/Includes/Uses:\n" + strings.Join(lines, "\n")
		}
	}
	return section(total, listing)
}

func answerFunctions(v *project.View, count, list bool) string {
	var total, listing string
	if count {
		total = fmt.Sprintf("Total functions: %d\nTotal methods: %d", len(v.Functions), len(v.Methods))
	}
	if list {
		var parts []string
		if len(v.Functions) > 0 {
			parts = append(parts, "Functions:\n"+taggedLines(v.Functions))
		}
		if len(v.Methods) > 0 {
			parts = append(parts, "Methods:\n"+taggedLines(v.Methods))
		}
		if len(parts) == 0 {
			listing = "No functions or methods found."
		} else {
			listing = section(parts...)
		}
	}
	return section(total, listing)
}

func answerGlobals(v *project.View, count, list bool) string {
	var total, listing string
	if count {
		total = fmt.Sprintf("Total global variables: %d", len(v.Bindings))
	}
	if list {
		if len(v.Bindings) == 0 {
			listing = "No global variables found."
		} else {
			listing = "Global Variables:\n" + taggedLines(v.Bindings)
		}
	}
	return section(total, listing)
}
