package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
)

// ecmaScriptParser extracts classes, class members, functions, imports and
// top-level bindings. JavaScript and TypeScript share the same node kinds for
// everything extracted here, so one visitor serves both.
type ecmaScriptParser struct {
	*treeSitterParser
}

// NewJavaScriptParser creates a new JavaScript parser. JavaScript is parsed
// with the TSX grammar, which accepts plain JavaScript as well as JSX.
func NewJavaScriptParser() *ecmaScriptParser {
	lang := sitter.NewLanguage(typescript.LanguageTSX())
	return &ecmaScriptParser{
		treeSitterParser: newTreeSitterParser(lang, extraction.LanguageJavaScript),
	}
}

// NewTypeScriptParser creates a new TypeScript parser for .ts files.
func NewTypeScriptParser() *ecmaScriptParser {
	lang := sitter.NewLanguage(typescript.LanguageTypescript())
	return &ecmaScriptParser{
		treeSitterParser: newTreeSitterParser(lang, extraction.LanguageTypeScript),
	}
}

// NewTSXParser creates a new TypeScript parser for .tsx files.
func NewTSXParser() *ecmaScriptParser {
	lang := sitter.NewLanguage(typescript.LanguageTSX())
	return &ecmaScriptParser{
		treeSitterParser: newTreeSitterParser(lang, extraction.LanguageTypeScript),
	}
}

// Class members reported as methods, mapped to the field holding their name.
var classMemberNameField = map[string]string{
	"method_definition":         "name",
	"method_signature":          "name",
	"abstract_method_signature": "name",
	"public_field_definition":   "name",
	"field_definition":          "property",
}

// Extract parses the source and returns its structural record.
func (p *ecmaScriptParser) Extract(source []byte) extraction.Record {
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

// extractTopLevel collects ES module imports, require() calls and
// module-scope bindings from the program's direct children.
func (p *ecmaScriptParser) extractTopLevel(root *sitter.Node, source []byte, rec *extraction.Record) {
	for _, node := range children(root) {
		p.extractStatement(node, source, rec)
	}
}

func (p *ecmaScriptParser) extractStatement(node *sitter.Node, source []byte, rec *extraction.Record) {
	switch node.Kind() {
	case "import_statement":
		if src := node.ChildByFieldName("source"); src != nil {
			rec.Imports = append(rec.Imports, stripDelimiters(extractNodeText(src, source)))
		}
	case "lexical_declaration", "variable_declaration":
		for _, decl := range findChildrenByType(node, "variable_declarator") {
			value := decl.ChildByFieldName("value")
			if value == nil {
				continue
			}
			if name := decl.ChildByFieldName("name"); name != nil && name.Kind() == "identifier" {
				rec.ModuleBindings = append(rec.ModuleBindings, extractNodeText(name, source))
			}
			if mod, ok := requireSource(value, source); ok {
				rec.Imports = append(rec.Imports, mod)
			}
		}
	case "expression_statement":
		assign := node.NamedChild(0)
		if assign == nil || assign.Kind() != "assignment_expression" {
			return
		}
		if left := assign.ChildByFieldName("left"); left != nil && left.Kind() == "identifier" {
			rec.ModuleBindings = append(rec.ModuleBindings, extractNodeText(left, source))
		}
		if mod, ok := requireSource(assign.ChildByFieldName("right"), source); ok {
			rec.Imports = append(rec.Imports, mod)
		}
	case "export_statement":
		// export const x = 1;
		if decl := node.ChildByFieldName("declaration"); decl != nil {
			p.extractStatement(decl, source, rec)
		}
	}
}

// requireSource returns the module name of a require("x") call.
func requireSource(node *sitter.Node, source []byte) (string, bool) {
	if node == nil || node.Kind() != "call_expression" {
		return "", false
	}
	if extractNodeText(node.ChildByFieldName("function"), source) != "require" {
		return "", false
	}
	args := node.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return "", false
	}
	arg := args.NamedChild(0)
	if arg.Kind() != "string" && arg.Kind() != "template_string" {
		return "", false
	}
	return stripDelimiters(extractNodeText(arg, source)), true
}

func (p *ecmaScriptParser) extractStructure(root *sitter.Node, source []byte, rec *extraction.Record) {
	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_declaration", "abstract_class_declaration":
			p.extractClass(n, source, rec)
		case "function_declaration", "generator_function_declaration":
			if name := nameOf(n, source); name != "" {
				rec.Callables.Functions = append(rec.Callables.Functions, name)
			}
		}
		return true
	})
}

// extractClass records the class name and the names of its body members.
func (p *ecmaScriptParser) extractClass(node *sitter.Node, source []byte, rec *extraction.Record) {
	name := nameOf(node, source)
	if name == "" {
		return
	}
	rec.TypeDeclarations = append(rec.TypeDeclarations, name)

	for _, member := range children(node.ChildByFieldName("body")) {
		field, ok := classMemberNameField[member.Kind()]
		if !ok {
			continue
		}
		if memberName := extractNodeText(member.ChildByFieldName(field), source); memberName != "" {
			rec.Callables.Methods = append(rec.Callables.Methods, memberName)
		}
	}
}
