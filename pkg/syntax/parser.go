package syntax

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnsupportedLanguage is returned when no grammar is registered for a language.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrNoLanguage is returned by Parse when SetLanguage was never called.
	ErrNoLanguage = errors.New("parser language not set")
)

// Tree owns a parsed syntax tree. Close releases it; nodes obtained from
// Root must not be used afterwards.
type Tree interface {
	Root() Node
	Close()
}

// Parser is a stateful parser handle. SetLanguage and Parse are a two-step
// sequence, so a handle must not be shared by concurrent callers.
type Parser interface {
	SetLanguage(lang LanguageID) error
	Parse(src []byte) (Tree, error)
}

// Pool hands out parser handles keyed by language. A handle is owned
// exclusively by the caller between Get and Put.
type Pool struct {
	newParser func() Parser

	mu    sync.Mutex
	pools map[LanguageID]*sync.Pool
}

// NewPool creates a pool that allocates handles with newParser.
func NewPool(newParser func() Parser) *Pool {
	return &Pool{
		newParser: newParser,
		pools:     make(map[LanguageID]*sync.Pool),
	}
}

// NewTreeSitterPool creates a pool of tree-sitter parser handles.
func NewTreeSitterPool() *Pool {
	return NewPool(func() Parser { return NewTreeSitterParser() })
}

// Get checks out a handle configured for lang.
func (p *Pool) Get(lang LanguageID) (Parser, error) {
	parser, _ := p.poolFor(lang).Get().(Parser)
	if parser == nil {
		parser = p.newParser()
	}
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("configure parser: %w", err)
	}
	return parser, nil
}

// Put returns a handle obtained from Get.
func (p *Pool) Put(lang LanguageID, parser Parser) {
	if parser == nil {
		return
	}
	p.poolFor(lang).Put(parser)
}

func (p *Pool) poolFor(lang LanguageID) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	pool, ok := p.pools[lang]
	if !ok {
		pool = &sync.Pool{}
		p.pools[lang] = pool
	}
	return pool
}
