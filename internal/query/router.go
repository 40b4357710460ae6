package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mvp-joe/codeshape/internal/llm"
	"github.com/mvp-joe/codeshape/internal/project"
)

// Answer is the routed response to one query.
type Answer struct {
	Intent Intent `json:"intent"`
	Count  bool   `json:"count,omitempty"`
	List   bool   `json:"list,omitempty"`
	Text   string `json:"text"`
}

// Router classifies free-text queries and answers them from a project view.
// Structural categories are answered locally; explain and fallback queries
// go to the completion service.
type Router struct {
	completer llm.Completer
	newID     func() string
}

// NewRouter creates a router that sends open-ended queries to completer.
func NewRouter(completer llm.Completer) *Router {
	return &Router{
		completer: completer,
		newID:     func() string { return uuid.New().String() },
	}
}

// Classify returns the intent of query without answering it.
func Classify(query string) (intent Intent, count, list bool) {
	q := normalize(query)
	for _, r := range categoryRules {
		if ok, c, l := r.match(q); ok {
			return r.intent, c, l
		}
	}
	if explainAliases[q] || explainPattern.MatchString(q) {
		return IntentExplain, false, false
	}
	if dumpPattern.MatchString(q) {
		return IntentDump, false, false
	}
	return IntentFallback, false, false
}

// Answer routes query against view. It never fails: completion errors are
// returned as the answer text.
func (r *Router) Answer(ctx context.Context, query string, view *project.View) Answer {
	intent, count, list := Classify(query)
	ans := Answer{Intent: intent, Count: count, List: list}

	switch intent {
	case IntentExplain:
		ans.Text = r.explain(ctx, query, view)
	case IntentDump:
		ans.Text = dump(view)
	case IntentFallback:
		ans.Text = r.fallback(ctx, query, view)
	default:
		for _, rule := range categoryRules {
			if rule.intent == intent {
				ans.Text = rule.answer(view, count, list)
				break
			}
		}
	}

	return ans
}

func (r *Router) explain(ctx context.Context, query string, view *project.View) string {
	prompt := fmt.Sprintf("%s\n\nStructural analysis:\n%s\n\nQuery: %s [Unique ID: %s]\n\n"+
		"Provide a clear, concise explanation addressing the query, using the context and analysis. "+
		"Focus on the project's functionality and purpose.",
		view.Context(), view.Summaries(), query, r.newID())

	return view.Purposes() + "\n\n" + llm.Answer(ctx, r.completer, prompt)
}

func (r *Router) fallback(ctx context.Context, query string, view *project.View) string {
	prompt := fmt.Sprintf("%s\n\nQuery: %s [Unique ID: %s]\n\n"+
		"Answer the query based on the project context. If it's about code structure, summarize classes, "+
		"structs, methods, functions, superclasses, interfaces, traits, includes, or imports. "+
		"If it's unclear, ask for clarification.",
		view.Context(), query, r.newID())

	return llm.Answer(ctx, r.completer, prompt)
}

func dump(view *project.View) string {
	data, err := json.MarshalIndent(view.Dump(), "", "  ")
	if err != nil {
		return fmt.Sprintf("Error: failed to encode extracted elements: %v", err)
	}
	return string(data)
}

func normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
