package query

import (
	"fmt"
	"regexp"

	"github.com/mvp-joe/codeshape/internal/project"
)

// Intent is the classified purpose of a query.
type Intent string

const (
	IntentClasses      Intent = "classes"
	IntentSuperclasses Intent = "superclasses"
	IntentInterfaces   Intent = "interfaces"
	IntentTraits       Intent = "traits"
	IntentImports      Intent = "imports"
	IntentFunctions    Intent = "functions"
	IntentGlobals      Intent = "globals"
	IntentExplain      Intent = "explain"
	IntentDump         Intent = "dump"
	IntentFallback     Intent = "fallback"
)

const (
	countPrefix = `\b(how\s+many|count|number\s+of)\b.*`
	listPrefix  = `\b(name|list|show|what|which|all)\b.*`
)

// categoryHandler answers a matched category. count and list report which
// sub-intents apply; at least one is set.
type categoryHandler func(v *project.View, count, list bool) string

// rule is one entry of the ordered classification table.
type rule struct {
	intent  Intent
	keyword *regexp.Regexp
	count   *regexp.Regexp
	list    *regexp.Regexp
	aliases map[string]bool
	exclude *regexp.Regexp // phrases removed before matching
	answer  categoryHandler
}

// newRule compiles the keyword alternation kw into the three patterns.
func newRule(intent Intent, kw string, aliases []string, answer categoryHandler) rule {
	set := make(map[string]bool, len(aliases))
	for _, a := range aliases {
		set[a] = true
	}
	return rule{
		intent:  intent,
		keyword: regexp.MustCompile(fmt.Sprintf(`\b(%s)\b`, kw)),
		count:   regexp.MustCompile(fmt.Sprintf(`%s\b(%s)\b`, countPrefix, kw)),
		list:    regexp.MustCompile(fmt.Sprintf(`%s\b(%s)\b`, listPrefix, kw)),
		aliases: set,
		answer:  answer,
	}
}

// match reports whether q falls into the rule's category and which
// sub-intents apply. When the keyword matches but neither sub-pattern
// does, the query is treated as a listing request.
func (r rule) match(q string) (matched, count, list bool) {
	if r.aliases[q] {
		return true, false, true
	}
	if r.exclude != nil {
		q = r.exclude.ReplaceAllString(q, " ")
	}
	if !r.keyword.MatchString(q) {
		return false, false, false
	}
	count = r.count.MatchString(q)
	list = r.list.MatchString(q)
	if !count && !list {
		list = true
	}
	return true, count, list
}

// without returns r with every match of phrase removed from queries
// before the rule is tested.
func (r rule) without(phrase string) rule {
	r.exclude = regexp.MustCompile(fmt.Sprintf(`\b(%s)\b`, phrase))
	return r
}

// categoryRules is the fixed priority order of the structural categories.
// The first matching rule wins. "parent class" belongs to superclasses.
var categoryRules = []rule{
	newRule(IntentClasses, `class|classes|struct|structs`,
		[]string{"classes", "structs"}, answerClasses).without(`parent\s+class(es)?`),
	newRule(IntentSuperclasses, `superclass|superclasses|parent\s+class|parent\s+classes`,
		[]string{"superclasses", "parent classes"}, answerSuperclasses),
	newRule(IntentInterfaces, `interface|interfaces`,
		[]string{"interfaces"}, answerInterfaces),
	newRule(IntentTraits, `trait|traits`,
		[]string{"traits"}, answerTraits),
	newRule(IntentImports, `librar(y|ies)|module|modules|package|packages|include|includes|use|uses|imports?`,
		[]string{"imports", "libraries"}, answerImports),
	newRule(IntentFunctions, `function|functions|method|methods`,
		[]string{"functions", "methods"}, answerFunctions),
	newRule(IntentGlobals, `global|globals|global\s+variables`,
		[]string{"globals"}, answerGlobals),
}

var (
	explainPattern = regexp.MustCompile(`\b(explain|describe|what|about|summary)\b`)
	explainAliases = map[string]bool{
		"explain":             true,
		"what code describes": true,
		"describe code":       true,
	}
	dumpPattern = regexp.MustCompile(`\bextracted\s+elements\b`)
)
