package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
)

// CParser extracts structs, unions, functions, includes and globals from C files.
type cParser struct {
	*treeSitterParser
}

// NewCParser creates a new C parser.
func NewCParser() *cParser {
	lang := sitter.NewLanguage(c.Language())
	return &cParser{
		treeSitterParser: newTreeSitterParser(lang, extraction.LanguageC),
	}
}

// Preprocessor conditionals wrap most header files (include guards), so
// their contents are treated as top level.
var cTransparentTopLevel = map[string]bool{
	"preproc_ifdef": true,
	"preproc_if":    true,
	"preproc_else":  true,
	"preproc_elif":  true,
}

// Extract parses C source and returns its structural record.
func (p *cParser) Extract(source []byte) extraction.Record {
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

// extractTopLevel collects #include paths and initialized global variables.
func (p *cParser) extractTopLevel(node *sitter.Node, source []byte, rec *extraction.Record) {
	for _, child := range children(node) {
		switch {
		case child.Kind() == "preproc_include":
			if path := child.ChildByFieldName("path"); path != nil {
				rec.Imports = append(rec.Imports, stripDelimiters(extractNodeText(path, source)))
			}
		case child.Kind() == "declaration":
			for _, decl := range childrenByField(child, "declarator") {
				if decl.Kind() != "init_declarator" {
					continue
				}
				if name := p.declaratorName(decl.ChildByFieldName("declarator"), source); name != "" {
					rec.ModuleBindings = append(rec.ModuleBindings, name)
				}
			}
		case cTransparentTopLevel[child.Kind()]:
			p.extractTopLevel(child, source, rec)
		}
	}
}

// extractStructure collects struct/union definitions and function names at any depth.
func (p *cParser) extractStructure(node *sitter.Node, source []byte, rec *extraction.Record) {
	walkTree(node, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "struct_specifier", "union_specifier":
			// "struct Point *p" references a type, only bodies declare one.
			if n.ChildByFieldName("body") == nil {
				return true
			}
			if name := nameOf(n, source); name != "" {
				rec.TypeDeclarations = append(rec.TypeDeclarations, name)
			}
		case "function_definition":
			if name := p.declaratorName(n.ChildByFieldName("declarator"), source); name != "" {
				rec.Callables.Functions = append(rec.Callables.Functions, name)
			}
		}
		return true
	})
}

// declaratorName follows a declarator chain (function, pointer, array,
// parenthesized) down to its innermost identifier.
func (p *cParser) declaratorName(node *sitter.Node, source []byte) string {
	for node != nil {
		switch node.Kind() {
		case "identifier":
			return extractNodeText(node, source)
		case "function_declarator", "pointer_declarator", "array_declarator", "init_declarator", "attributed_declarator":
			node = node.ChildByFieldName("declarator")
		case "parenthesized_declarator":
			node = node.NamedChild(0)
		default:
			return ""
		}
	}
	return ""
}
