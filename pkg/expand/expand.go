// Package expand widens git conflict regions to syntactic boundaries.
//
// When resolving a file to either side of its conflicts leaves a syntax
// error, each region is grown line by line to the smallest enclosing
// statement or declaration, so that accepting either side in isolation
// yields code that parses. Regions that already sit on valid boundaries,
// or whose enclosing node is expression level, are left alone.
package expand

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/simonkoeck/widen/pkg/conflict"
	"github.com/simonkoeck/widen/pkg/logging"
	"github.com/simonkoeck/widen/pkg/syntax"
)

var (
	// ErrLineOutOfRange is returned when a computed line or byte position
	// falls outside the text it indexes.
	ErrLineOutOfRange = errors.New("line out of range")
	// ErrUnsafeWiden is returned when widening would produce nested or
	// misplaced markers.
	ErrUnsafeWiden = errors.New("unsafe widening")
)

// Status summarises what happened to a whole document.
type Status int

const (
	StatusNoConflicts Status = iota
	StatusParserUnavailable
	StatusAlreadyValid
	StatusProcessed
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusNoConflicts:
		return "no conflicts"
	case StatusParserUnavailable:
		return "parser unavailable"
	case StatusAlreadyValid:
		return "already valid"
	case StatusProcessed:
		return "processed"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Outcome is the fate of a single region.
type Outcome int

const (
	OutcomeUnchanged Outcome = iota
	OutcomeExpanded
	OutcomeNotExpandable
	OutcomeNoNode
	OutcomeOutOfRange
	OutcomeUnsafe
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeExpanded:
		return "expanded"
	case OutcomeNotExpandable:
		return "not expandable"
	case OutcomeNoNode:
		return "no enclosing node"
	case OutcomeOutOfRange:
		return "out of range"
	case OutcomeUnsafe:
		return "unsafe"
	default:
		return "unknown"
	}
}

// RegionReport records the decision taken for one region.
type RegionReport struct {
	Index     int
	Region    conflict.Region
	NodeKind  string
	NodeLines LineSpan
	Decision  Decision
	Outcome   Outcome
	Err       error
}

// Report is the full result of one expansion call.
type Report struct {
	Language  syntax.LanguageID
	Status    Status
	Original  string
	Content   string
	Regions   []RegionReport
	LineDelta int
	Err       error
}

// Expanded returns the number of regions that were widened.
func (r Report) Expanded() int {
	n := 0
	for _, rr := range r.Regions {
		if rr.Outcome == OutcomeExpanded {
			n++
		}
	}
	return n
}

// Changed reports whether the content differs from the input.
func (r Report) Changed() bool {
	return r.Content != r.Original
}

// ParserSource hands out parser handles for exclusive use by one call.
// *syntax.Pool implements it.
type ParserSource interface {
	Get(lang syntax.LanguageID) (syntax.Parser, error)
	Put(lang syntax.LanguageID, parser syntax.Parser)
}

// Expander runs the expansion. It is safe for concurrent use as long as its
// ParserSource is.
type Expander struct {
	parsers    ParserSource
	classifier *Classifier
	logger     *slog.Logger
}

// Option configures an Expander.
type Option func(*Expander)

// WithParsers sets where parser handles come from.
func WithParsers(src ParserSource) Option {
	return func(e *Expander) { e.parsers = src }
}

// WithClassifier replaces the node kind tables.
func WithClassifier(c *Classifier) Option {
	return func(e *Expander) { e.classifier = c }
}

// WithExpandableKinds adds kinds to the table for lang.
func WithExpandableKinds(lang syntax.LanguageID, kinds ...string) Option {
	return func(e *Expander) { e.classifier.Add(lang, kinds...) }
}

// WithLogger sets the logger used for per-region decisions.
func WithLogger(l *slog.Logger) Option {
	return func(e *Expander) { e.logger = l }
}

// New creates an Expander backed by tree-sitter and the bundled kind tables.
func New(opts ...Option) *Expander {
	e := &Expander{
		parsers:    syntax.NewTreeSitterPool(),
		classifier: NewClassifier(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultExpander = sync.OnceValue(func() *Expander { return New() })

// Expand widens the conflict regions in content using the default Expander.
// It never fails: if anything goes wrong content is returned unchanged.
func Expand(content string, lang syntax.LanguageID) string {
	return defaultExpander().Expand(content, lang)
}

// Expand widens the conflict regions in content. It never fails: if
// anything goes wrong content is returned unchanged.
func (e *Expander) Expand(content string, lang syntax.LanguageID) string {
	return e.ExpandWithReport(content, lang).Content
}

// ExpandWithReport is Expand with a record of every decision taken.
func (e *Expander) ExpandWithReport(content string, lang syntax.LanguageID) (report Report) {
	report = Report{Language: lang, Original: content, Content: content}
	log := e.log().With("language", string(lang))

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("expansion aborted", "panic", rec)
			report = Report{
				Language: lang,
				Status:   StatusAborted,
				Original: content,
				Content:  content,
				Err:      fmt.Errorf("expansion aborted: %v", rec),
			}
		}
	}()

	lines := conflict.SplitLines(content)
	regions := conflict.ParseLines(lines)
	if len(regions) == 0 {
		report.Status = StatusNoConflicts
		return report
	}

	oursLines := conflict.ResolveLines(lines, regions, conflict.Ours)
	theirsLines := conflict.ResolveLines(lines, regions, conflict.Theirs)

	ours, theirs, err := e.parseBoth(lang,
		strings.Join(oursLines, "\n"),
		strings.Join(theirsLines, "\n"),
	)
	if err != nil {
		log.Debug("skipping expansion", "error", err)
		report.Status = StatusParserUnavailable
		report.Err = err
		return report
	}
	defer ours.Close()
	defer theirs.Close()

	if !needsExpansion(ours.Root(), theirs.Root()) {
		log.Debug("both resolutions parse cleanly", "regions", len(regions))
		report.Status = StatusAlreadyValid
		return report
	}

	p := pass{doc: lines}
	for i := range regions {
		rr := e.decide(lang, regions, i, oursLines, ours.Root())
		if rr.Outcome == OutcomeExpanded {
			if err := p.widen(regions[i], rr.Decision); err != nil {
				rr.Outcome = outcomeFor(err)
				rr.Err = err
				rr.Decision = Decision{}
			}
		}
		log.Debug("region decided",
			"index", i,
			"kind", rr.NodeKind,
			"outcome", rr.Outcome.String(),
			"before", rr.Decision.Before,
			"after", rr.Decision.After,
		)
		report.Regions = append(report.Regions, rr)
	}

	report.Status = StatusProcessed
	report.LineDelta = p.offset
	report.Content = strings.Join(p.doc, "\n")
	return report
}

// pass is the state folded over the regions: the current document and the
// net number of lines earlier rewrites have added.
type pass struct {
	doc    []string
	offset int
}

func (p *pass) widen(r conflict.Region, d Decision) error {
	doc, delta, err := Rewrite(p.doc, r, d, p.offset)
	if err != nil {
		return err
	}
	p.doc = doc
	p.offset += delta
	return nil
}

// decide locates the node enclosing region idx in the ours tree and works
// out how far the region must grow to cover it. The theirs tree only takes
// part in the file-level gate.
func (e *Expander) decide(lang syntax.LanguageID, regions []conflict.Region, idx int, oursLines []string, root syntax.Node) RegionReport {
	r := regions[idx]
	rr := RegionReport{Index: idx, Region: r}

	start, err := ResolvedStartLine(regions, idx, conflict.Ours)
	if err != nil {
		rr.Outcome, rr.Err = OutcomeOutOfRange, err
		return rr
	}
	count := r.OursLineCount()

	target, err := LineSpanToByteRange(oursLines, start, count)
	if err != nil {
		rr.Outcome, rr.Err = OutcomeOutOfRange, err
		return rr
	}

	node := syntax.FindSmallestContaining(root, target)
	if node == nil {
		rr.Outcome = OutcomeNoNode
		return rr
	}
	rr.NodeKind = node.Kind()

	if !e.classifier.IsExpandable(lang, node.Kind()) {
		rr.Outcome = OutcomeNotExpandable
		return rr
	}

	span, err := ByteRangeToLineSpan(node.Range(), oursLines)
	if err != nil {
		rr.Outcome, rr.Err = OutcomeOutOfRange, err
		return rr
	}
	rr.NodeLines = span

	// An empty side covers no lines: end sits just above start.
	end := start + count - 1
	d := Decision{
		Before: max(0, start-span.Start),
		After:  max(0, span.End-end),
	}
	if d.IsZero() {
		rr.Outcome = OutcomeUnchanged
		return rr
	}

	rr.Decision = d
	rr.Outcome = OutcomeExpanded
	return rr
}

// parseBoth parses both resolutions with one handle, setting the language
// before each parse.
func (e *Expander) parseBoth(lang syntax.LanguageID, oursText, theirsText string) (syntax.Tree, syntax.Tree, error) {
	parser, err := e.parsers.Get(lang)
	if err != nil {
		return nil, nil, err
	}
	defer e.parsers.Put(lang, parser)

	ours, err := parseAs(parser, lang, oursText)
	if err != nil {
		return nil, nil, fmt.Errorf("ours: %w", err)
	}
	theirs, err := parseAs(parser, lang, theirsText)
	if err != nil {
		ours.Close()
		return nil, nil, fmt.Errorf("theirs: %w", err)
	}
	return ours, theirs, nil
}

func parseAs(parser syntax.Parser, lang syntax.LanguageID, text string) (syntax.Tree, error) {
	if err := parser.SetLanguage(lang); err != nil {
		return nil, err
	}
	return parser.Parse([]byte(text))
}

// needsExpansion reports whether either resolution fails to parse.
func needsExpansion(ours, theirs syntax.Node) bool {
	return syntax.ContainsError(ours) || syntax.ContainsError(theirs)
}

func outcomeFor(err error) Outcome {
	if errors.Is(err, ErrLineOutOfRange) {
		return OutcomeOutOfRange
	}
	return OutcomeUnsafe
}

func (e *Expander) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return logging.With("component", "expand")
}
