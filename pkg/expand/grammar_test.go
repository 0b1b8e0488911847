package expand

import (
	"errors"
	"fmt"
	"strings"

	"github.com/simonkoeck/widen/pkg/syntax"
)

// langBrace is a line-oriented toy language used to drive the engine with
// predictable trees: a line ending in "{" opens a block, a line that is
// exactly "}" closes one, every other non-blank line is a statement.
// Unmatched braces produce error or missing nodes.
const langBrace syntax.LanguageID = "brace"

var errParseFailed = errors.New("parse failed")

type testNode struct {
	kind     string
	rng      syntax.Range
	broken   bool
	children []syntax.Node
}

func (n *testNode) Kind() string { return n.kind }
func (n *testNode) Range() syntax.Range { return n.rng }
func (n *testNode) IsErrorOrMissing() bool { return n.broken }
func (n *testNode) Children() []syntax.Node { return n.children }
func (n *testNode) add(child *testNode) { n.children = append(n.children, child) }

type testTree struct{ root *testNode }

func (t testTree) Root() syntax.Node { return t.root }
func (t testTree) Close() {}

type braceParser struct {
	lang   syntax.LanguageID
	parsed []string
}

func (p *braceParser) SetLanguage(lang syntax.LanguageID) error {
	if lang != langBrace {
		return fmt.Errorf("%w: %q", syntax.ErrUnsupportedLanguage, lang)
	}
	p.lang = lang
	return nil
}

func (p *braceParser) Parse(src []byte) (syntax.Tree, error) {
	if p.lang != langBrace {
		return nil, syntax.ErrNoLanguage
	}
	text := string(src)
	if strings.Contains(text, "FAIL") {
		return nil, errParseFailed
	}
	p.parsed = append(p.parsed, text)

	root := &testNode{kind: "file", rng: syntax.Range{Start: 0, End: len(text)}}
	stack := []*testNode{root}

	offset := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		start := offset + len(line) - len(strings.TrimLeft(line, " \t"))
		end := offset + len(strings.TrimRight(line, " \t\r"))
		offset += len(line) + 1

		top := stack[len(stack)-1]
		switch {
		case trimmed == "":
		case trimmed == "}":
			if len(stack) == 1 {
				root.add(&testNode{kind: "ERROR", rng: syntax.Range{Start: start, End: end}, broken: true})
				continue
			}
			top.rng.End = end
			stack = stack[:len(stack)-1]
			stack[len(stack)-1].add(top)
		case strings.HasSuffix(trimmed, "{"):
			stack = append(stack, &testNode{kind: "block", rng: syntax.Range{Start: start}})
		default:
			top.add(&testNode{kind: "stmt", rng: syntax.Range{Start: start, End: end}})
		}
	}

	for len(stack) > 1 {
		top := stack[len(stack)-1]
		top.rng.End = len(text)
		top.add(&testNode{kind: "}", rng: syntax.Range{Start: len(text), End: len(text)}, broken: true})
		stack = stack[:len(stack)-1]
		stack[len(stack)-1].add(top)
	}

	return testTree{root: root}, nil
}

// braceSource hands out a fresh braceParser per call and remembers them.
type braceSource struct {
	handed []*braceParser
}

func (s *braceSource) Get(lang syntax.LanguageID) (syntax.Parser, error) {
	p := &braceParser{}
	if err := p.SetLanguage(lang); err != nil {
		return nil, err
	}
	s.handed = append(s.handed, p)
	return p, nil
}

func (s *braceSource) Put(syntax.LanguageID, syntax.Parser) {}

func newBraceExpander() (*Expander, *braceSource) {
	src := &braceSource{}
	return New(
		WithParsers(src),
		WithExpandableKinds(langBrace, "file", "block"),
	), src
}
