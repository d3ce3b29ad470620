package index

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// symbolExtractor walks a language's AST to produce SymbolRecords, pooling
// one *sitter.Parser per language the way the teacher's TreeSitterParser
// does, since a parser is not safe for concurrent reuse across goroutines.
type symbolExtractor struct {
	goParser     *sitter.Parser
	pythonParser *sitter.Parser
	jsParser     *sitter.Parser
	tsParser     *sitter.Parser
	rustParser   *sitter.Parser
}

func newSymbolExtractor() *symbolExtractor {
	return &symbolExtractor{
		goParser:     sitter.NewParser(),
		pythonParser: sitter.NewParser(),
		jsParser:     sitter.NewParser(),
		tsParser:     sitter.NewParser(),
		rustParser:   sitter.NewParser(),
	}
}

func (e *symbolExtractor) Close() {
	e.goParser.Close()
	e.pythonParser.Close()
	e.jsParser.Close()
	e.tsParser.Close()
	e.rustParser.Close()
}

// declNode describes one AST node type worth turning into a SymbolRecord.
type declNode struct {
	nodeType   string
	kind       SymbolKind
	nameField  string
	typeField  string // for container nodes (Go type_spec) whose inner shape decides the kind
}

var goDecls = []declNode{
	{nodeType: "function_declaration", kind: KindFunction, nameField: "name"},
	{nodeType: "method_declaration", kind: KindMethod, nameField: "name"},
	{nodeType: "type_spec", kind: KindStruct, nameField: "name", typeField: "type"},
}

var pythonDecls = []declNode{
	{nodeType: "function_definition", kind: KindFunction, nameField: "name"},
	{nodeType: "class_definition", kind: KindClass, nameField: "name"},
}

var jsDecls = []declNode{
	{nodeType: "function_declaration", kind: KindFunction, nameField: "name"},
	{nodeType: "class_declaration", kind: KindClass, nameField: "name"},
	{nodeType: "method_definition", kind: KindMethod, nameField: "name"},
}

var tsDecls = append(append([]declNode{}, jsDecls...), declNode{
	nodeType: "interface_declaration", kind: KindInterface, nameField: "name",
})

var rustDecls = []declNode{
	{nodeType: "function_item", kind: KindFunction, nameField: "name"},
	{nodeType: "struct_item", kind: KindStruct, nameField: "name"},
	{nodeType: "enum_item", kind: KindEnum, nameField: "name"},
	{nodeType: "trait_item", kind: KindTrait, nameField: "name"},
	{nodeType: "impl_item", kind: KindImpl, nameField: "type"},
}

func languageFor(name string) *sitter.Language {
	switch name {
	case "go":
		return golang.GetLanguage()
	case "python":
		return python.GetLanguage()
	case "javascript":
		return javascript.GetLanguage()
	case "typescript":
		return typescript.GetLanguage()
	case "rust":
		return rust.GetLanguage()
	default:
		return nil
	}
}

func (e *symbolExtractor) parserFor(language string) *sitter.Parser {
	switch language {
	case "go":
		return e.goParser
	case "python":
		return e.pythonParser
	case "javascript":
		return e.jsParser
	case "typescript":
		return e.tsParser
	case "rust":
		return e.rustParser
	default:
		return nil
	}
}

func declsFor(language string) []declNode {
	switch language {
	case "go":
		return goDecls
	case "python":
		return pythonDecls
	case "javascript":
		return jsDecls
	case "typescript":
		return tsDecls
	case "rust":
		return rustDecls
	default:
		return nil
	}
}

// Extract parses content for a supported language and returns the symbols
// found. Unsupported languages return (nil, nil) — the file is still
// text-indexed, just with no symbol records.
func (e *symbolExtractor) Extract(ctx context.Context, path, language string, content []byte) ([]SymbolRecord, error) {
	lang := languageFor(language)
	parser := e.parserFor(language)
	decls := declsFor(language)
	if lang == nil || parser == nil || decls == nil {
		return nil, nil
	}

	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var records []SymbolRecord
	var nodes []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for _, decl := range decls {
			if n.Type() == decl.nodeType {
				if rec, ok := buildRecord(n, decl, path, language, content); ok {
					records = append(records, rec)
					nodes = append(nodes, n)
				}
				break
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(tree.RootNode())
	populateDependencies(records, nodes, content)
	return records, nil
}

// populateDependencies fills each record's Dependencies with the names of
// sibling declarations (in the same file) that its body refers to, by
// scanning identifier tokens inside the declaration's node range against
// the set of names declared in the file. This is a same-file, name-based
// approximation of a uses-relationship, not a type-resolved call graph.
func populateDependencies(records []SymbolRecord, nodes []*sitter.Node, content []byte) {
	declared := make(map[string]bool, len(records))
	for _, rec := range records {
		declared[rec.Identifier] = true
	}
	for i := range records {
		own := records[i].Identifier
		seen := make(map[string]bool)
		var deps []string
		var scan func(n *sitter.Node)
		scan = func(n *sitter.Node) {
			if n.Type() == "identifier" {
				name := n.Content(content)
				if name != own && declared[name] && !seen[name] {
					seen[name] = true
					deps = append(deps, name)
				}
			}
			for c := 0; c < int(n.NamedChildCount()); c++ {
				scan(n.NamedChild(c))
			}
		}
		scan(nodes[i])
		records[i].Dependencies = deps
	}
}

func buildRecord(n *sitter.Node, decl declNode, path, language string, content []byte) (SymbolRecord, bool) {
	nameNode := n.ChildByFieldName(decl.nameField)
	if nameNode == nil {
		return SymbolRecord{}, false
	}
	name := nameNode.Content(content)
	kind := decl.kind
	if decl.typeField != "" {
		if typeNode := n.ChildByFieldName(decl.typeField); typeNode != nil {
			switch typeNode.Type() {
			case "interface_type":
				kind = KindInterface
			case "struct_type":
				kind = KindStruct
			}
		}
	}

	startLine := int(n.StartPoint().Row)
	endLine := int(n.EndPoint().Row) + 1
	preview := previewLine(content, startLine)

	id := SymbolID(fmt.Sprintf("%s:%s:%d:%s", path, kind, startLine, name))
	return SymbolRecord{
		ID:         id,
		Identifier: name,
		Kind:       kind,
		Language:   language,
		Path:       path,
		Range:      SymbolRange{Start: startLine, End: endLine},
		Categories: classifyCategories(path),
		Preview:    preview,
	}, true
}

func previewLine(content []byte, line int) string {
	lines := splitLinesKeepOffsets(content)
	if line < 0 || line >= len(lines.offsets) {
		return ""
	}
	start := lines.offsets[line]
	end := len(content)
	if line+1 < len(lines.offsets) {
		end = lines.offsets[line+1]
	}
	text := string(content[start:end])
	if len(text) > 0 && text[len(text)-1] == '\n' {
		text = text[:len(text)-1]
	}
	if len(text) > 160 {
		text = text[:160]
	}
	return text
}
