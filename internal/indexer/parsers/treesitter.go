package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
)

// treeSitterParser provides common tree-sitter parsing functionality.
type treeSitterParser struct {
	language *sitter.Language
	lang     extraction.Language
}

// newTreeSitterParser creates a new tree-sitter parser for the given language.
func newTreeSitterParser(language *sitter.Language, lang extraction.Language) *treeSitterParser {
	return &treeSitterParser{
		language: language,
		lang:     lang,
	}
}

// Language returns the language this parser extracts.
func (p *treeSitterParser) Language() extraction.Language {
	return p.lang
}

// parse builds a syntax tree for source. A fresh sitter.Parser is created
// per call so extractors can be used from several goroutines at once.
// The caller owns the returned tree and must Close it.
func (p *treeSitterParser) parse(source []byte) *sitter.Tree {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil
	}

	return parser.Parse(source, nil)
}

// extractNodeText extracts the text content of a tree-sitter node.
func extractNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// nameOf returns the text of the node's "name" field.
func nameOf(node *sitter.Node, source []byte) string {
	return extractNodeText(node.ChildByFieldName("name"), source)
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for each node.
// Returning false from the visitor skips the node's children.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

// children returns every child of node, named or not.
func children(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}

	results := make([]*sitter.Node, 0, node.ChildCount())
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(uint(i)); child != nil {
			results = append(results, child)
		}
	}
	return results
}

// findChildByType finds the first child node with the given type.
func findChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	for _, child := range children(node) {
		if child.Kind() == nodeType {
			return child
		}
	}
	return nil
}

// findChildrenByType finds all child nodes with any of the given types.
func findChildrenByType(node *sitter.Node, nodeTypes ...string) []*sitter.Node {
	var results []*sitter.Node
	for _, child := range children(node) {
		for _, t := range nodeTypes {
			if child.Kind() == t {
				results = append(results, child)
				break
			}
		}
	}
	return results
}

// childrenByField returns all children attached to node under the given field name.
func childrenByField(node *sitter.Node, field string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if node.FieldNameForChild(uint32(i)) == field {
			results = append(results, node.Child(uint(i)))
		}
	}
	return results
}

// stripDelimiters removes the quote and angle-bracket characters that
// surround import paths ("stdio.h", <stdio.h>, 'fs').
func stripDelimiters(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"'<>`")
}

// appendUnique appends s unless it is empty or already present.
func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

// relationship builds a relationship statement for a declared type.
// An empty target list produces the negative statement.
func relationship(kind extraction.RelationKind, typeName, verb string, targets []string, absentText string) extraction.Relationship {
	if len(targets) == 0 {
		return extraction.Relationship{
			Kind:   kind,
			Text:   typeName + " " + absentText,
			Absent: true,
		}
	}
	return extraction.Relationship{
		Kind: kind,
		Text: typeName + " " + verb + " " + strings.Join(targets, ", "),
	}
}
