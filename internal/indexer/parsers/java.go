package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
)

// JavaParser extracts classes, their superclass and interfaces, methods and imports.
type javaParser struct {
	*treeSitterParser
}

// NewJavaParser creates a new Java parser.
func NewJavaParser() *javaParser {
	lang := sitter.NewLanguage(java.Language())
	return &javaParser{
		treeSitterParser: newTreeSitterParser(lang, extraction.LanguageJava),
	}
}

// Extract parses Java source and returns its structural record.
func (p *javaParser) Extract(source []byte) extraction.Record {
	rec := extraction.NewRecord()

	tree := p.parse(source)
	if tree == nil {
		return rec
	}
	defer tree.Close()

	root := tree.RootNode()
	p.extractImports(root, source, &rec)
	p.extractStructure(root, source, &rec)

	return rec
}

// extractImports collects top-level imports, de-duplicated within the file.
func (p *javaParser) extractImports(root *sitter.Node, source []byte, rec *extraction.Record) {
	for _, node := range findChildrenByType(root, "import_declaration") {
		text := strings.TrimSpace(extractNodeText(node, source))
		text = strings.TrimPrefix(text, "import")
		text = strings.TrimSuffix(text, ";")
		rec.Imports = appendUnique(rec.Imports, strings.TrimSpace(text))
	}
}

func (p *javaParser) extractStructure(root *sitter.Node, source []byte, rec *extraction.Record) {
	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_declaration":
			p.extractClass(n, source, rec)
		case "method_declaration":
			if name := nameOf(n, source); name != "" {
				rec.Callables.Methods = append(rec.Callables.Methods, name)
			}
		}
		return true
	})
}

// extractClass records the class name plus exactly one superclass and one
// interfaces statement for it.
func (p *javaParser) extractClass(node *sitter.Node, source []byte, rec *extraction.Record) {
	name := nameOf(node, source)
	if name == "" {
		return
	}
	rec.TypeDeclarations = append(rec.TypeDeclarations, name)

	var parents []string
	if superclass := node.ChildByFieldName("superclass"); superclass != nil {
		// The clause includes the "extends" keyword; the type is its only named child.
		if parent := superclass.NamedChild(0); parent != nil {
			parents = append(parents, extractNodeText(parent, source))
		}
	}
	rec.Relationships = append(rec.Relationships,
		relationship(extraction.RelationSuperclass, name, "extends", parents, "has no superclass"))

	var interfaces []string
	if clause := node.ChildByFieldName("interfaces"); clause != nil {
		if list := findChildByType(clause, "type_list"); list != nil {
			for i := 0; i < int(list.NamedChildCount()); i++ {
				interfaces = append(interfaces, extractNodeText(list.NamedChild(uint(i)), source))
			}
		}
	}
	rec.Relationships = append(rec.Relationships,
		relationship(extraction.RelationInterfaces, name, "implements", interfaces, "implements no interfaces"))
}
