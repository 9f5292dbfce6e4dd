package parser

import (
	"github.com/chainweave/chaindsl/compiler/internal/ast"
	"github.com/chainweave/chaindsl/compiler/internal/token"
)

func (p *Parser) parseType() (ast.Type, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	t := p.peek()
	switch t.Kind {
	case token.PrimType:
		p.next()
		return &ast.Primitive{Position: p.posOf(t), Name: t.Lexeme}, nil

	case token.LBracket:
		p.next()
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBracket); err != nil {
			return nil, err
		}
		return &ast.Array{Position: p.posOf(t), Elem: elem}, nil

	case token.LParen:
		p.next()
		tup := &ast.Tuple{Position: p.posOf(t)}
		for !p.at(token.RParen) && !p.at(token.EOF) {
			elem, err := p.parseType()
			if err != nil {
				return nil, err
			}
			tup.Elems = append(tup.Elems, elem)
			if !p.accept(token.Comma) {
				break
			}
		}
		_, err := p.expect(token.RParen)
		return tup, err

	case token.KwFn:
		p.next()
		ft := &ast.FuncType{Position: p.posOf(t)}
		if _, err := p.expect(token.LParen); err != nil {
			return nil, err
		}
		for !p.at(token.RParen) && !p.at(token.EOF) {
			param, err := p.parseType()
			if err != nil {
				return nil, err
			}
			ft.Params = append(ft.Params, param)
			if !p.accept(token.Comma) {
				break
			}
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		if p.accept(token.Arrow) {
			ret, err := p.parseType()
			if err != nil {
				return nil, err
			}
			ft.Return = ret
		}
		return ft, nil

	case token.Amp:
		p.next()
		ref := &ast.Ref{Position: p.posOf(t), Mut: p.accept(token.KwMut)}
		target, err := p.parseType()
		if err != nil {
			return nil, err
		}
		ref.Target = target
		return ref, nil

	case token.Ident:
		p.next()
		g := &ast.Generic{Position: p.posOf(t), Name: t.Lexeme}
		if p.accept(token.Lt) {
			for !p.at(token.Gt) && !p.at(token.EOF) {
				arg, err := p.parseType()
				if err != nil {
					return nil, err
				}
				g.Args = append(g.Args, arg)
				if !p.accept(token.Comma) {
					break
				}
			}
			if _, err := p.expect(token.Gt); err != nil {
				return nil, err
			}
		}
		return g, nil
	}

	return nil, p.unexpected(t, "type")
}

func (p *Parser) parsePattern() (ast.Pattern, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	t := p.peek()
	switch t.Kind {
	case token.IntLit, token.FloatLit, token.StringLit, token.AddressLit,
		token.KwTrue, token.KwFalse:
		value, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &ast.LitPat{Position: p.posOf(t), Value: value}, nil

	case token.Ident:
		if t.Lexeme == "_" {
			p.next()
			return &ast.WildcardPat{Position: p.posOf(t)}, nil
		}
		p.next()

		// Enum::Variant or Enum::Variant(binds)
		if p.accept(token.ColonColon) {
			variant, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			pat := &ast.EnumPat{
				Position: p.posOf(t),
				Enum:     t.Lexeme,
				Variant:  variant.Lexeme,
			}
			if p.accept(token.LParen) {
				for !p.at(token.RParen) && !p.at(token.EOF) {
					bind, err := p.expectIdent()
					if err != nil {
						return nil, err
					}
					pat.Binds = append(pat.Binds, bind.Lexeme)
					if !p.accept(token.Comma) {
						break
					}
				}
				if _, err := p.expect(token.RParen); err != nil {
					return nil, err
				}
			}
			return pat, nil
		}

		// Struct { fields }
		if p.accept(token.LBrace) {
			pat := &ast.StructPat{Position: p.posOf(t), Name: t.Lexeme}
			for !p.at(token.RBrace) && !p.at(token.EOF) {
				field, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				pat.Fields = append(pat.Fields, field.Lexeme)
				if !p.accept(token.Comma) {
					break
				}
			}
			_, err := p.expect(token.RBrace)
			return pat, err
		}

		return &ast.IdentPat{Position: p.posOf(t), Name: t.Lexeme}, nil
	}

	return nil, p.unexpected(t, "pattern")
}
