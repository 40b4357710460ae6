package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
)

// PythonParser extracts classes, functions, methods, imports and module globals.
type pythonParser struct {
	*treeSitterParser
}

// NewPythonParser creates a new Python parser.
func NewPythonParser() *pythonParser {
	lang := sitter.NewLanguage(python.Language())
	return &pythonParser{
		treeSitterParser: newTreeSitterParser(lang, extraction.LanguagePython),
	}
}

// scopeKind is the kind of scope enclosing a node during traversal.
type scopeKind int

const (
	scopeModule scopeKind = iota
	scopeClass
	scopeFunction
	scopeBlock // statement nested in a class body (if, try, with, for)
)

// Extract parses Python source and returns its structural record. Source
// that does not parse cleanly yields an empty record.
func (p *pythonParser) Extract(source []byte) extraction.Record {
	rec := extraction.NewRecord()

	tree := p.parse(source)
	if tree == nil {
		return rec
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return rec
	}

	p.extractBindings(root, source, &rec)
	p.visit(root, scopeModule, source, &rec)

	return rec
}

// extractBindings collects names assigned by statements directly in the module body.
func (p *pythonParser) extractBindings(root *sitter.Node, source []byte, rec *extraction.Record) {
	for _, stmt := range findChildrenByType(root, "expression_statement") {
		assign := stmt.NamedChild(0)
		for assign != nil && assign.Kind() == "assignment" {
			// x: int has no value and binds nothing.
			if assign.ChildByFieldName("right") == nil {
				break
			}
			if left := assign.ChildByFieldName("left"); left != nil && left.Kind() == "identifier" {
				rec.ModuleBindings = append(rec.ModuleBindings, extractNodeText(left, source))
			}
			// a = b = 1 nests the second target in the right-hand side.
			assign = assign.ChildByFieldName("right")
		}
	}
}

// visit walks the tree top-down carrying the kind of the enclosing scope,
// so a function directly inside a class body is classified as a method.
// Only the class body block and decorators keep the class scope.
func (p *pythonParser) visit(node *sitter.Node, scope scopeKind, source []byte, rec *extraction.Record) {
	switch node.Kind() {
	case "class_definition":
		if name := nameOf(node, source); name != "" {
			rec.TypeDeclarations = append(rec.TypeDeclarations, name)
		}
		p.visitChildren(node, scopeClass, source, rec)
		return
	case "function_definition":
		if name := nameOf(node, source); name != "" {
			if scope == scopeClass {
				rec.Callables.Methods = append(rec.Callables.Methods, name)
			} else {
				rec.Callables.Functions = append(rec.Callables.Functions, name)
			}
		}
		p.visitChildren(node, scopeFunction, source, rec)
		return
	case "import_statement":
		for _, name := range childrenByField(node, "name") {
			rec.Imports = append(rec.Imports, importedName(name, source))
		}
		return
	case "import_from_statement":
		p.extractFromImport(node, source, rec)
		return
	case "block", "decorated_definition":
	default:
		if scope == scopeClass {
			scope = scopeBlock
		}
	}

	p.visitChildren(node, scope, source, rec)
}

func (p *pythonParser) visitChildren(node *sitter.Node, scope scopeKind, source []byte, rec *extraction.Record) {
	for _, child := range children(node) {
		p.visit(child, scope, source, rec)
	}
}

// extractFromImport maps "from m import x" to "m.x". Relative modules lose
// their leading dots, and "from . import x" yields plain "x".
func (p *pythonParser) extractFromImport(node *sitter.Node, source []byte, rec *extraction.Record) {
	module := strings.TrimLeft(extractNodeText(node.ChildByFieldName("module_name"), source), ".")

	qualify := func(name string) string {
		if module == "" {
			return name
		}
		return module + "." + name
	}

	if findChildByType(node, "wildcard_import") != nil {
		rec.Imports = append(rec.Imports, qualify("*"))
		return
	}

	for _, name := range childrenByField(node, "name") {
		rec.Imports = append(rec.Imports, qualify(importedName(name, source)))
	}
}

// importedName returns the dotted name of an import, dropping any alias.
func importedName(node *sitter.Node, source []byte) string {
	if node.Kind() == "aliased_import" {
		return extractNodeText(node.ChildByFieldName("name"), source)
	}
	return extractNodeText(node, source)
}
