package parser

import (
	"github.com/chainweave/chaindsl/compiler/internal/ast"
	"github.com/chainweave/chaindsl/compiler/internal/token"
)

func (p *Parser) parseBlock() (*ast.Block, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	open, err := p.expect(token.LBrace)
	if err != nil {
		return nil, err
	}
	b := &ast.Block{Position: p.posOf(open)}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
	}
	_, err = p.expect(token.RBrace)
	return b, err
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	t := p.peek()
	switch t.Kind {
	case token.KwLet:
		return p.parseLet()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwMatch:
		return p.parseMatch()
	case token.KwReturn:
		p.next()
		r := &ast.Return{Position: p.posOf(t)}
		if !p.at(token.Semicolon) {
			var err error
			r.Value, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		_, err := p.expect(token.Semicolon)
		return r, err
	case token.KwBreak:
		p.next()
		_, err := p.expect(token.Semicolon)
		return &ast.Break{Position: p.posOf(t)}, err
	case token.KwContinue:
		p.next()
		_, err := p.expect(token.Semicolon)
		return &ast.Continue{Position: p.posOf(t)}, err
	case token.KwEmit:
		return p.parseEmit()
	case token.LBrace:
		return p.parseBlock()
	}

	// Expression statement or assignment.
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.at(token.Assign) {
		eq := p.next()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.Assign{Position: p.posOf(eq), Target: x, Value: value}, nil
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Position: x.Pos(), X: x}, nil
}

func (p *Parser) parseLet() (*ast.Let, error) {
	start := p.next() // let
	let := &ast.Let{Position: p.posOf(start), Mut: p.accept(token.KwMut)}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	let.Name = name.Lexeme
	if p.accept(token.Colon) {
		let.Type, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	let.Value, err = p.parseExpr()
	if err != nil {
		return nil, err
	}
	_, err = p.expect(token.Semicolon)
	return let, err
}

func (p *Parser) parseIf() (*ast.If, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	start := p.next() // if
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.If{Position: p.posOf(start), Cond: cond, Then: then}
	if p.accept(token.KwElse) {
		if p.at(token.KwIf) {
			stmt.Else, err = p.parseIf()
		} else {
			stmt.Else, err = p.parseBlock()
		}
		if err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (*ast.While, error) {
	start := p.next() // while
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Position: p.posOf(start), Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor() (*ast.For, error) {
	start := p.next() // for
	binding, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwIn); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.For{
		Position: p.posOf(start),
		Binding:  binding.Lexeme,
		Iterable: iterable,
		Body:     body,
	}, nil
}

func (p *Parser) parseMatch() (*ast.Match, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	start := p.next() // match
	subject, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	m := &ast.Match{Position: p.posOf(start), Subject: subject}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.FatArrow); err != nil {
			return nil, err
		}
		var body ast.Stmt
		if p.at(token.LBrace) {
			body, err = p.parseBlock()
		} else {
			x, xerr := p.parseExpr()
			if xerr != nil {
				return nil, xerr
			}
			body = &ast.ExprStmt{Position: x.Pos(), X: x}
		}
		if err != nil {
			return nil, err
		}
		m.Arms = append(m.Arms, ast.MatchArm{
			Position: pat.Pos(),
			Pattern:  pat,
			Body:     body,
		})
		if !p.accept(token.Comma) {
			break
		}
	}
	_, err = p.expect(token.RBrace)
	return m, err
}

func (p *Parser) parseEmit() (*ast.Emit, error) {
	start := p.next() // emit
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	e := &ast.Emit{Position: p.posOf(start), Event: name.Lexeme}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		e.Args = append(e.Args, arg)
		if !p.accept(token.Comma) {
			break
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	_, err = p.expect(token.Semicolon)
	return e, err
}
