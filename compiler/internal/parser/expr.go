package parser

import (
	"math/big"
	"strconv"

	"github.com/chainweave/chaindsl/compiler/internal/ast"
	"github.com/chainweave/chaindsl/compiler/internal/token"
)

// Binding powers, loosest to tightest. Binary operators are
// left-associative; unary operators bind tighter than any binary operator.
const (
	precNone = iota
	precOr
	precAnd
	precEquality
	precComparison
	precAdditive
	precMultiplicative
)

func precedence(kind token.Kind) int {
	switch kind {
	case token.OrOr:
		return precOr
	case token.AndAnd:
		return precAnd
	case token.Eq, token.NotEq:
		return precEquality
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	}
	return precNone
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseBinary(precNone + 1)
}

func (p *Parser) parseBinary(minPrec int) (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()
		prec := precedence(op.Kind)
		if prec < minPrec {
			return left, nil
		}
		p.next()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{
			Position: p.posOf(op),
			Op:       op.Lexeme,
			Left:     left,
			Right:    right,
		}
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	t := p.peek()
	switch t.Kind {
	case token.Not, token.Minus:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Position: p.posOf(t), Op: t.Lexeme, X: x}, nil
	case token.KwAwait:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Await{Position: p.posOf(t), X: x}, nil
	}
	return p.parsePostfix()
}

// parsePostfix chains calls, member access, indexing, and casts
// left-to-right after a primary expression.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		switch t.Kind {
		case token.LParen:
			p.next()
			call := &ast.Call{Position: p.posOf(t), Callee: x}
			for !p.at(token.RParen) && !p.at(token.EOF) {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
				if !p.accept(token.Comma) {
					break
				}
			}
			if _, err := p.expect(token.RParen); err != nil {
				return nil, err
			}
			x = call
		case token.Dot:
			p.next()
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			x = &ast.Member{Position: p.posOf(t), X: x, Name: name.Lexeme}
		case token.LBracket:
			p.next()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBracket); err != nil {
				return nil, err
			}
			x = &ast.IndexExpr{Position: p.posOf(t), X: x, Index: idx}
		case token.KwAs:
			p.next()
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}
			x = &ast.Cast{Position: p.posOf(t), X: x, To: typ}
		default:
			return x, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	t := p.peek()
	switch t.Kind {
	case token.IntLit:
		p.next()
		v, ok := new(big.Int).SetString(t.Lexeme, 10)
		if !ok {
			return nil, p.unexpected(t, "integer literal")
		}
		return &ast.IntLit{Position: p.posOf(t), Value: v}, nil

	case token.FloatLit:
		p.next()
		v, err := strconv.ParseFloat(t.Lexeme, 64)
		if err != nil {
			return nil, p.unexpected(t, "float literal")
		}
		return &ast.FloatLit{Position: p.posOf(t), Value: v}, nil

	case token.StringLit:
		p.next()
		return &ast.StringLit{Position: p.posOf(t), Value: t.Lexeme}, nil

	case token.AddressLit:
		p.next()
		return &ast.AddressLit{Position: p.posOf(t), Value: t.Lexeme}, nil

	case token.KwTrue, token.KwFalse:
		p.next()
		return &ast.BoolLit{Position: p.posOf(t), Value: t.Kind == token.KwTrue}, nil

	case token.Ident, token.KwSelf:
		p.next()
		return &ast.Ident{Position: p.posOf(t), Name: t.Lexeme}, nil

	case token.MLOp:
		p.next()
		if _, err := p.expect(token.LParen); err != nil {
			return nil, err
		}
		lit := &ast.TensorLit{Position: p.posOf(t), Op: t.Lexeme}
		for !p.at(token.RParen) && !p.at(token.EOF) {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			lit.Args = append(lit.Args, arg)
			if !p.accept(token.Comma) {
				break
			}
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return lit, nil

	case token.LParen:
		p.next()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		_, err = p.expect(token.RParen)
		return x, err

	case token.LBracket:
		p.next()
		arr := &ast.ArrayLit{Position: p.posOf(t)}
		for !p.at(token.RBracket) && !p.at(token.EOF) {
			elem, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			arr.Elems = append(arr.Elems, elem)
			if !p.accept(token.Comma) {
				break
			}
		}
		_, err := p.expect(token.RBracket)
		return arr, err

	case token.LBrace:
		p.next()
		obj := &ast.ObjectLit{Position: p.posOf(t)}
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.Colon); err != nil {
				return nil, err
			}
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			obj.Fields = append(obj.Fields, ast.ObjectField{
				Position: p.posOf(name),
				Name:     name.Lexeme,
				Value:    value,
			})
			if !p.accept(token.Comma) {
				break
			}
		}
		_, err := p.expect(token.RBrace)
		return obj, err
	}

	return nil, p.unexpected(t, "expression")
}
