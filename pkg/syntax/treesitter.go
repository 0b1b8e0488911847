package syntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/swift"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"
)

// grammars maps each supported language to its tree-sitter grammar.
var grammars = map[LanguageID]func() *sitter.Language{
	LangSwift:      swift.GetLanguage,
	LangGo:         golang.GetLanguage,
	LangPython:     python.GetLanguage,
	LangJavaScript: javascript.GetLanguage,
	LangTypeScript: typescript.GetLanguage,
	LangTSX:        tsx.GetLanguage,
	LangRust:       rust.GetLanguage,
	LangJava:       java.GetLanguage,
	LangYAML:       yaml.GetLanguage,
}

// HasGrammar reports whether a tree-sitter grammar is bundled for lang.
func HasGrammar(lang LanguageID) bool {
	_, ok := grammars[lang]
	return ok
}

// NodeKinds returns the set of node kinds the grammar for lang can
// produce, or nil if no grammar is bundled.
func NodeKinds(lang LanguageID) map[string]bool {
	grammar, ok := grammars[lang]
	if !ok {
		return nil
	}
	l := grammar()
	kinds := make(map[string]bool, l.SymbolCount())
	for i := uint32(0); i < l.SymbolCount(); i++ {
		kinds[l.SymbolName(sitter.Symbol(i))] = true
	}
	return kinds
}

// TreeSitterParser implements Parser on top of go-tree-sitter.
type TreeSitterParser struct {
	parser *sitter.Parser
	lang   LanguageID
}

// NewTreeSitterParser creates an unconfigured parser handle.
func NewTreeSitterParser() *TreeSitterParser {
	return &TreeSitterParser{parser: sitter.NewParser()}
}

// SetLanguage loads the grammar for lang.
func (p *TreeSitterParser) SetLanguage(lang LanguageID) error {
	grammar, ok := grammars[lang]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	p.parser.SetLanguage(grammar())
	p.lang = lang
	return nil
}

// Parse parses src with the current grammar.
func (p *TreeSitterParser) Parse(src []byte) (Tree, error) {
	if p.lang == LangUnknown {
		return nil, ErrNoLanguage
	}
	tree, err := p.parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.lang, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("parse %s: parser returned no tree", p.lang)
	}
	return &sitterTree{tree: tree}, nil
}

type sitterTree struct {
	tree *sitter.Tree
}

func (t *sitterTree) Root() Node {
	return sitterNode{n: t.tree.RootNode()}
}

func (t *sitterTree) Close() {
	t.tree.Close()
}

// sitterNode adapts *sitter.Node to Node. Children include anonymous
// nodes so that punctuation such as braces takes part in the search.
type sitterNode struct {
	n *sitter.Node
}

func (s sitterNode) Kind() string {
	return s.n.Type()
}

func (s sitterNode) Range() Range {
	return Range{Start: int(s.n.StartByte()), End: int(s.n.EndByte())}
}

func (s sitterNode) IsErrorOrMissing() bool {
	return s.n.Type() == "ERROR" || s.n.IsMissing()
}

func (s sitterNode) Children() []Node {
	count := int(s.n.ChildCount())
	children := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		if child := s.n.Child(i); child != nil {
			children = append(children, sitterNode{n: child})
		}
	}
	return children
}
