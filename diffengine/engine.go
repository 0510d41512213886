// Package diffengine computes token level edit operations between
// consecutive revisions of a page.
//
// An Engine is configured once (usually from YAML, see LoadConfig) and
// hands out a fresh Processor for every page.  The Processor remembers
// the tokens of the last text it saw, so feeding it each revision in
// order produces incremental diffs.
package diffengine

import (
	"context"
	"sync"

	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("mwdiffs.diffengine")

// Operation names.
const (
	Insert = "insert"
	Delete = "delete"
	Equal  = "equal"
)

// An Operation describes how the half open range [A1,A2) of the
// previous token sequence relates to [B1,B2) of the current one.
type Operation struct {
	Name   string
	A1, A2 int
	B1, B2 int
}

// Processor is a per-page diff state.  It is not safe to share between
// pages.
type Processor interface {
	// Process diffs text against the last seen text and remembers
	// text for the next call.  If ctx is cancelled the computation may
	// return early with a partial result that callers must discard.
	Process(ctx context.Context, text string) (ops []Operation, a, b []string)
	// Tokenize splits text the way Process would.
	Tokenize(text string) []string
	// Last returns the tokens of the last seen text.
	Last() []string
	// Update replaces the last seen text.
	Update(lastText string)
}

// Engine constructs processors.
type Engine interface {
	Processor() Processor
}

// Tokenizer splits text into tokens.  Concatenating the tokens must
// yield the original text.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Matcher computes the operations that transform a into b.
type Matcher interface {
	Diff(ctx context.Context, a, b []string) []Operation
}

// New builds an engine from a tokenizer and a matcher.
func New(t Tokenizer, m Matcher) Engine {
	return &engine{tokenizer: t, matcher: m}
}

type engine struct {
	tokenizer Tokenizer
	matcher   Matcher
}

func (e *engine) Processor() Processor {
	return &processor{tokenizer: e.tokenizer, matcher: e.matcher}
}

type processor struct {
	tokenizer Tokenizer
	matcher   Matcher

	mu   sync.Mutex
	last []string
	// gen is bumped on every commit so a computation abandoned by its
	// caller can't overwrite a later Update.
	gen uint64
}

func (p *processor) Process(ctx context.Context, text string) ([]Operation, []string, []string) {
	b := p.tokenizer.Tokenize(text)

	p.mu.Lock()
	a, gen := p.last, p.gen
	p.mu.Unlock()

	ops := p.matcher.Diff(ctx, a, b)

	p.mu.Lock()
	if p.gen == gen {
		p.last = b
		p.gen++
	} else {
		logger.Debugf("discarding stale diff state (generation %d, now %d)", gen, p.gen)
	}
	p.mu.Unlock()

	return ops, a, b
}

func (p *processor) Tokenize(text string) []string {
	return p.tokenizer.Tokenize(text)
}

func (p *processor) Last() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *processor) Update(lastText string) {
	tokens := p.tokenizer.Tokenize(lastText)
	p.mu.Lock()
	p.last = tokens
	p.gen++
	p.mu.Unlock()
}
