package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
)

// PhpParser extracts classes with parent, interface and trait statements,
// functions, methods, namespace imports and top-level variables.
type phpParser struct {
	*treeSitterParser
}

// NewPhpParser creates a new PHP parser.
func NewPhpParser() *phpParser {
	lang := sitter.NewLanguage(php.LanguagePHP())
	return &phpParser{
		treeSitterParser: newTreeSitterParser(lang, extraction.LanguagePHP),
	}
}

// Extract parses PHP source and returns its structural record.
func (p *phpParser) Extract(source []byte) extraction.Record {
	rec := extraction.NewRecord()

	tree := p.parse(source)
	if tree == nil {
		return rec
	}
	defer tree.Close()

	root := tree.RootNode()
	p.extractTopLevel(root, source, &rec)
	p.extractStructure(root, source, &rec)

	return rec
}

// extractTopLevel collects use imports (de-duplicated) and $variable
// assignments. A braced namespace body counts as top level.
func (p *phpParser) extractTopLevel(node *sitter.Node, source []byte, rec *extraction.Record) {
	for _, child := range children(node) {
		switch child.Kind() {
		case "namespace_use_declaration":
			for _, name := range p.useDeclarationNames(child, source) {
				rec.Imports = appendUnique(rec.Imports, name)
			}
		case "expression_statement":
			assign := child.NamedChild(0)
			if assign == nil || assign.Kind() != "assignment_expression" {
				continue
			}
			if left := assign.ChildByFieldName("left"); left != nil && left.Kind() == "variable_name" {
				rec.ModuleBindings = append(rec.ModuleBindings, extractNodeText(left, source))
			}
		case "namespace_definition":
			if body := child.ChildByFieldName("body"); body != nil {
				p.extractTopLevel(body, source, rec)
			}
		}
	}
}

// useDeclarationNames returns the qualified names imported by one use
// declaration. Group uses (use A\{B, C}) expand to A\B and A\C.
func (p *phpParser) useDeclarationNames(node *sitter.Node, source []byte) []string {
	var names []string
	for _, clause := range findChildrenByType(node, "namespace_use_clause") {
		names = append(names, clauseName(clause, source))
	}

	if group := findChildByType(node, "namespace_use_group"); group != nil {
		prefix := extractNodeText(findChildByType(node, "namespace_name"), source)
		for _, clause := range findChildrenByType(group, "namespace_use_clause", "namespace_use_group_clause") {
			name := clauseName(clause, source)
			if prefix != "" {
				name = prefix + `\` + name
			}
			names = append(names, name)
		}
	}
	return names
}

// clauseName returns the imported name of a use clause, ignoring any alias.
func clauseName(clause *sitter.Node, source []byte) string {
	for i := 0; i < int(clause.ChildCount()); i++ {
		child := clause.Child(uint(i))
		if clause.FieldNameForChild(uint32(i)) == "alias" {
			continue
		}
		switch child.Kind() {
		case "name", "qualified_name", "namespace_name":
			return extractNodeText(child, source)
		}
	}
	return ""
}

func (p *phpParser) extractStructure(root *sitter.Node, source []byte, rec *extraction.Record) {
	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_declaration":
			p.extractClass(n, source, rec)
		case "function_definition":
			if name := nameOf(n, source); name != "" {
				rec.Callables.Functions = append(rec.Callables.Functions, name)
			}
		case "method_declaration":
			if name := nameOf(n, source); name != "" {
				rec.Callables.Methods = append(rec.Callables.Methods, name)
			}
		}
		return true
	})
}

// extractClass records the class and one statement each for its parent
// class, interfaces and traits.
func (p *phpParser) extractClass(node *sitter.Node, source []byte, rec *extraction.Record) {
	name := nameOf(node, source)
	if name == "" {
		return
	}
	rec.TypeDeclarations = append(rec.TypeDeclarations, name)

	var parents []string
	if base := findChildByType(node, "base_clause"); base != nil {
		if names := typeNames(base, source); len(names) > 0 {
			parents = names[:1]
		}
	}
	rec.Relationships = append(rec.Relationships,
		relationship(extraction.RelationSuperclass, name, "extends", parents, "has no parent class"))

	interfaces := typeNames(findChildByType(node, "class_interface_clause"), source)
	rec.Relationships = append(rec.Relationships,
		relationship(extraction.RelationInterfaces, name, "implements", interfaces, "implements no interfaces"))

	var traits []string
	for _, use := range findChildrenByType(node.ChildByFieldName("body"), "use_declaration") {
		traits = append(traits, typeNames(use, source)...)
	}
	rec.Relationships = append(rec.Relationships,
		relationship(extraction.RelationTraits, name, "uses", traits, "uses no traits"))
}

// typeNames returns the text of each name or qualified_name child.
func typeNames(node *sitter.Node, source []byte) []string {
	var names []string
	for _, child := range findChildrenByType(node, "name", "qualified_name") {
		names = append(names, extractNodeText(child, source))
	}
	return names
}
