// Package parser builds a ChainDSL syntax tree from a token stream by
// recursive descent. Syntax errors do not abort the parse: each failed item
// is recorded as a diagnostic and the parser synchronizes to the next safe
// resumption point, so a single call reports every independent error in the
// file. A depth guard bounds grammar recursion because DSL source is
// untrusted input.
package parser

import (
	"github.com/chainweave/chaindsl/compiler/internal/ast"
	"github.com/chainweave/chaindsl/compiler/internal/token"
	"github.com/chainweave/chaindsl/errors"
)

// DefaultMaxDepth bounds expression/block/type nesting.
const DefaultMaxDepth = 256

type Parser struct {
	tokens   []token.Token
	file     string
	diags    []errors.Diagnostic
	pos      int
	depth    int
	maxDepth int
	tripped  bool // depth guard fired; the parse is abandoned
}

func New(file string, tokens []token.Token) *Parser {
	return &Parser{
		tokens:   tokens,
		file:     file,
		maxDepth: DefaultMaxDepth,
	}
}

// SetMaxDepth overrides the nesting limit. Values < 1 are ignored.
func (p *Parser) SetMaxDepth(n int) {
	if n >= 1 {
		p.maxDepth = n
	}
}

// Parse consumes the whole stream and returns the tree together with every
// diagnostic collected along the way. When the depth guard trips the AST is
// nil and the diagnostics hold the single DepthExceeded record.
func (p *Parser) Parse() (*ast.SourceFile, []errors.Diagnostic) {
	file := &ast.SourceFile{File: p.file}

	for !p.at(token.EOF) {
		item, err := p.parseItem()
		if p.tripped {
			return nil, p.diags
		}
		if err != nil {
			p.report(err)
			p.synchronize()
			continue
		}
		file.Items = append(file.Items, item)
	}

	return file, p.diags
}

// Diagnostics returns the diagnostics collected so far.
func (p *Parser) Diagnostics() []errors.Diagnostic {
	return p.diags
}

func (p *Parser) report(err error) {
	if e, ok := err.(*errors.Error); ok {
		p.diags = append(p.diags, e.Diagnostic())
		return
	}
	p.diags = append(p.diags, errors.Diagnostic{
		Message:  err.Error(),
		Severity: errors.SeverityError,
	})
}

// synchronize discards tokens until a statement terminator or a token that
// can begin a new item, guaranteeing the cursor strictly advances.
func (p *Parser) synchronize() {
	if p.at(token.EOF) {
		return
	}
	// Always step past the offending token so a single bad token can never
	// loop.
	t := p.next()
	if t.Kind == token.Semicolon {
		return
	}
	for !p.at(token.EOF) {
		if p.peek().IsItemStart() {
			return
		}
		if p.next().Kind == token.Semicolon {
			return
		}
	}
}

// ---- cursor ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) next() token.Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) at(kind token.Kind) bool {
	return p.peek().Kind == kind
}

// accept consumes the next token when it has the given kind.
func (p *Parser) accept(kind token.Kind) bool {
	if p.at(kind) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	t := p.peek()
	if t.Kind != kind {
		return t, p.unexpected(t, kind.String())
	}
	return p.next(), nil
}

func (p *Parser) expectIdent() (token.Token, error) {
	t := p.peek()
	if t.Kind != token.Ident {
		return t, p.unexpected(t, "identifier")
	}
	return p.next(), nil
}

func (p *Parser) unexpected(t token.Token, want string) *errors.Error {
	got := t.Kind.String()
	if t.Kind == token.Ident {
		got = "'" + t.Lexeme + "'"
	}
	kind := errors.KindUnexpectedToken
	if t.Kind == token.EOF {
		kind = errors.KindUnexpectedEOF
	}
	return errors.New(errors.PhaseParse, kind).
		At(t.Line, t.Column).
		Detail("expected %s, got %s", want, got).
		Build()
}

func (p *Parser) posOf(t token.Token) ast.Position {
	return ast.Position{File: p.file, Line: t.Line, Column: t.Column}
}

// ---- depth guard ----

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		p.tripped = true
		t := p.peek()
		err := errors.DepthExceeded(t.Line, t.Column, p.maxDepth)
		p.diags = []errors.Diagnostic{err.Diagnostic()}
		return err
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}
