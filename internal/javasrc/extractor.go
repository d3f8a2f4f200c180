package javasrc

// Implementation Plan:
// 1. Parse the source with tree-sitter-java
// 2. Walk top-level class/interface/enum declarations
// 3. Extract method and constructor descriptors from each body in order
// 4. Recurse into nested types with a dot-qualified class name
// 5. Read visibility and static literally from the modifiers node

import (
	"fmt"
	"os"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// Extractor builds SourceModels from Java sources. It holds only the
// grammar, so one Extractor is safe for concurrent use; a parser is
// created per call.
type Extractor struct {
	language *sitter.Language
}

// NewExtractor creates a Java source model extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		language: sitter.NewLanguage(java.Language()),
	}
}

// ExtractFile reads and extracts a Java source file.
func (e *Extractor) ExtractFile(path string) (*SourceModel, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return e.Extract(source)
}

// Extract parses Java source bytes and returns the structural model.
//
// Extraction is purely syntactic: descriptors record what is written, with
// no import or type resolution. Sources with syntax errors still yield the
// declarations tree-sitter can recover. A file without type declarations
// returns an empty model, not an error.
func (e *Extractor) Extract(source []byte) (*SourceModel, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(e.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("unparseable java source")
	}
	defer tree.Close()

	model := &SourceModel{
		Classes: []string{},
		Methods: []MethodDescriptor{},
	}

	rootNode := tree.RootNode()
	model.Package = extractPackageName(rootNode, source)

	walkTree(rootNode, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_declaration", "interface_declaration", "enum_declaration":
			extractType(n, source, "", model)
			return false // extractType recurses into the body itself
		}
		return true
	})

	return model, nil
}

// extractPackageName reads the package declaration, if any.
func extractPackageName(root *sitter.Node, source []byte) string {
	var name string
	walkTree(root, func(n *sitter.Node) bool {
		if n.Kind() == "package_declaration" {
			nameNode := findChildByType(n, "scoped_identifier")
			if nameNode == nil {
				nameNode = findChildByType(n, "identifier")
			}
			name = nodeText(nameNode, source)
			return false
		}
		return true
	})
	return name
}

// extractType records one type declaration and its members. enclosing is
// the dot-qualified outer chain, empty for top-level types.
func extractType(node *sitter.Node, source []byte, enclosing string, model *SourceModel) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	className := nodeText(nameNode, source)
	if enclosing != "" {
		className = enclosing + "." + className
	}
	model.Classes = append(model.Classes, className)

	bodyNode := node.ChildByFieldName("body")
	if bodyNode == nil {
		return
	}

	// Enum members live one level deeper than class and interface members.
	if node.Kind() == "enum_declaration" {
		if decls := findChildByType(bodyNode, "enum_body_declarations"); decls != nil {
			bodyNode = decls
		}
	}

	for i := 0; i < int(bodyNode.ChildCount()); i++ {
		child := bodyNode.Child(uint(i))
		switch child.Kind() {
		case "method_declaration":
			model.Methods = append(model.Methods, buildDescriptor(child, source, className, false))
		case "constructor_declaration":
			model.Methods = append(model.Methods, buildDescriptor(child, source, className, true))
		case "class_declaration", "interface_declaration", "enum_declaration":
			extractType(child, source, className, model)
		}
	}
}

// buildDescriptor converts a method or constructor declaration node.
func buildDescriptor(node *sitter.Node, source []byte, className string, constructor bool) MethodDescriptor {
	nameNode := node.ChildByFieldName("name")

	descriptor := MethodDescriptor{
		Name:       nodeText(nameNode, source),
		Class:      className,
		Parameters: extractParameters(node.ChildByFieldName("parameters"), source),
		Visibility: VisibilityPackage,
		Line:       nodeLine(node),
	}
	if nameNode != nil {
		descriptor.Line = nodeLine(nameNode)
	}

	if !constructor {
		descriptor.ReturnType = nodeText(node.ChildByFieldName("type"), source)
	}

	if modifiers := findChildByType(node, "modifiers"); modifiers != nil {
		text := nodeText(modifiers, source)
		switch {
		case strings.Contains(text, VisibilityPublic):
			descriptor.Visibility = VisibilityPublic
		case strings.Contains(text, VisibilityProtected):
			descriptor.Visibility = VisibilityProtected
		case strings.Contains(text, VisibilityPrivate):
			descriptor.Visibility = VisibilityPrivate
		}
		descriptor.Static = strings.Contains(text, "static")
	}

	return descriptor
}

// extractParameters reads a formal_parameters node into Parameter values.
func extractParameters(paramsNode *sitter.Node, source []byte) []Parameter {
	params := []Parameter{}
	if paramsNode == nil {
		return params
	}

	for i := 0; i < int(paramsNode.ChildCount()); i++ {
		child := paramsNode.Child(uint(i))
		switch child.Kind() {
		case "formal_parameter":
			params = append(params, Parameter{
				Type: nodeText(child.ChildByFieldName("type"), source),
				Name: nodeText(child.ChildByFieldName("name"), source),
			})
		case "spread_parameter":
			params = append(params, spreadParameter(child, source))
		}
	}
	return params
}

// spreadParameter handles varargs, which the grammar exposes without field
// names: the declarator is the last child and everything before it is the
// element type with its ellipsis.
func spreadParameter(node *sitter.Node, source []byte) Parameter {
	declarator := findChildByType(node, "variable_declarator")
	if declarator == nil {
		return Parameter{Type: strings.TrimSpace(nodeText(node, source))}
	}

	raw := string(source[node.StartByte():declarator.StartByte()])
	return Parameter{
		Type: strings.TrimSpace(raw),
		Name: nodeText(declarator.ChildByFieldName("name"), source),
	}
}
