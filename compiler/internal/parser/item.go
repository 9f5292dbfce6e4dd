package parser

import (
	"math/big"

	"github.com/chainweave/chaindsl/compiler/internal/ast"
	"github.com/chainweave/chaindsl/compiler/internal/token"
)

func (p *Parser) parseItem() (ast.Item, error) {
	t := p.peek()
	switch t.Kind {
	case token.KwContract:
		return p.parseContract()
	case token.KwStruct:
		return p.parseStruct()
	case token.KwEnum:
		return p.parseEnum()
	case token.KwTrait:
		return p.parseTrait()
	case token.KwImpl:
		return p.parseImpl()
	case token.KwUse:
		return p.parseUse()
	case token.KwConst:
		return p.parseConst()
	case token.KwModule:
		return p.parseModule()
	case token.KwIndex:
		return p.parseIndex()
	case token.KwQuery:
		return p.parseQuery()
	case token.KwPub, token.KwFn:
		return p.parseFunction()
	}
	return nil, p.unexpected(t, "item")
}

func (p *Parser) parseContract() (*ast.Contract, error) {
	start := p.next() // contract
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	c := &ast.Contract{Position: p.posOf(start), Name: name.Lexeme}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.KwFn, token.KwPub:
			fn, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			c.Functions = append(c.Functions, fn)
		case token.KwEvent:
			ev, err := p.parseEvent()
			if err != nil {
				return nil, err
			}
			c.Events = append(c.Events, ev)
		default:
			f, err := p.parseField()
			if err != nil {
				return nil, err
			}
			c.Fields = append(c.Fields, f)
			if !p.accept(token.Comma) {
				p.accept(token.Semicolon)
			}
		}
	}
	_, err = p.expect(token.RBrace)
	return c, err
}

func (p *Parser) parseStruct() (*ast.Struct, error) {
	start := p.next() // struct
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	s := &ast.Struct{Position: p.posOf(start), Name: name.Lexeme}
	s.Fields, err = p.parseFieldList(token.RBrace)
	if err != nil {
		return nil, err
	}
	_, err = p.expect(token.RBrace)
	return s, err
}

// parseFieldList parses comma-separated "name: Type" pairs up to the
// closing token, allowing a trailing comma.
func (p *Parser) parseFieldList(closing token.Kind) ([]ast.Field, error) {
	var fields []ast.Field
	for !p.at(closing) && !p.at(token.EOF) {
		f, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		if !p.accept(token.Comma) {
			break
		}
	}
	return fields, nil
}

func (p *Parser) parseField() (ast.Field, error) {
	name, err := p.expectIdent()
	if err != nil {
		return ast.Field{}, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return ast.Field{}, err
	}
	typ, err := p.parseType()
	if err != nil {
		return ast.Field{}, err
	}
	return ast.Field{Position: p.posOf(name), Name: name.Lexeme, Type: typ}, nil
}

func (p *Parser) parseEvent() (*ast.Event, error) {
	start := p.next() // event
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	ev := &ast.Event{Position: p.posOf(start), Name: name.Lexeme}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		fname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		ef := ast.EventField{
			Position: p.posOf(fname),
			Name:     fname.Lexeme,
			Type:     typ,
			Indexed:  p.accept(token.KwIndexed),
		}
		ev.Fields = append(ev.Fields, ef)
		if !p.accept(token.Comma) {
			break
		}
	}
	_, err = p.expect(token.RBrace)
	return ev, err
}

func (p *Parser) parseEnum() (*ast.Enum, error) {
	start := p.next() // enum
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	e := &ast.Enum{Position: p.posOf(start), Name: name.Lexeme}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		vname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		variant := ast.EnumVariant{Position: p.posOf(vname), Name: vname.Lexeme}
		if p.accept(token.LParen) {
			for !p.at(token.RParen) && !p.at(token.EOF) {
				typ, err := p.parseType()
				if err != nil {
					return nil, err
				}
				variant.Payload = append(variant.Payload, typ)
				if !p.accept(token.Comma) {
					break
				}
			}
			if _, err := p.expect(token.RParen); err != nil {
				return nil, err
			}
		}
		e.Variants = append(e.Variants, variant)
		if !p.accept(token.Comma) {
			break
		}
	}
	_, err = p.expect(token.RBrace)
	return e, err
}

func (p *Parser) parseTrait() (*ast.Trait, error) {
	start := p.next() // trait
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	tr := &ast.Trait{Position: p.posOf(start), Name: name.Lexeme}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		fn, err := p.parseFunctionSig()
		if err != nil {
			return nil, err
		}
		tr.Methods = append(tr.Methods, fn)
	}
	_, err = p.expect(token.RBrace)
	return tr, err
}

func (p *Parser) parseImpl() (ast.Item, error) {
	start := p.next() // impl

	// impl operator + for Target { fn ... }
	if p.at(token.KwOperator) {
		p.next()
		op := p.next()
		switch op.Kind {
		case token.Plus, token.Minus, token.Star, token.Slash, token.Percent,
			token.Eq, token.NotEq, token.Lt, token.Gt:
		default:
			return nil, p.unexpected(op, "operator")
		}
		if _, err := p.expect(token.KwFor); err != nil {
			return nil, err
		}
		target, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.LBrace); err != nil {
			return nil, err
		}
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBrace); err != nil {
			return nil, err
		}
		return &ast.OperatorImpl{
			Position: p.posOf(start),
			Op:       op.Lexeme,
			Target:   target.Lexeme,
			Function: fn,
		}, nil
	}

	first, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	impl := &ast.Impl{Position: p.posOf(start), Target: first.Lexeme}
	if p.accept(token.KwFor) {
		target, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		impl.Trait = first.Lexeme
		impl.Target = target.Lexeme
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		impl.Functions = append(impl.Functions, fn)
	}
	_, err = p.expect(token.RBrace)
	return impl, err
}

func (p *Parser) parseUse() (*ast.Use, error) {
	start := p.next() // use
	u := &ast.Use{Position: p.posOf(start)}
	for {
		seg, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		u.Path = append(u.Path, seg.Lexeme)
		if !p.accept(token.ColonColon) {
			break
		}
	}
	_, err := p.expect(token.Semicolon)
	return u, err
}

func (p *Parser) parseConst() (*ast.Const, error) {
	start := p.next() // const
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.Const{
		Position: p.posOf(start),
		Name:     name.Lexeme,
		Type:     typ,
		Value:    value,
	}, nil
}

func (p *Parser) parseModule() (*ast.Module, error) {
	start := p.next() // module
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	m := &ast.Module{Position: p.posOf(start), Name: name.Lexeme}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		m.Items = append(m.Items, item)
	}
	_, err = p.expect(token.RBrace)
	return m, err
}

// parseIndex parses an ingestion declaration:
//
//	index Transfers {
//		source: ethereum("0xdead..."),
//		events: [Transfer, Approval],
//		map: { to: Address, value: u256 },
//	}
func (p *Parser) parseIndex() (*ast.Index, error) {
	start := p.next() // index
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	idx := &ast.Index{Position: p.posOf(start), Name: name.Lexeme}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		clause := p.next()
		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		switch clause.Kind {
		case token.KwSource:
			chain, err := p.expect(token.ChainName)
			if err != nil {
				return nil, err
			}
			idx.Chain = chain.Lexeme
			if _, err := p.expect(token.LParen); err != nil {
				return nil, err
			}
			addr := p.next()
			if addr.Kind != token.AddressLit && addr.Kind != token.StringLit {
				return nil, p.unexpected(addr, "address literal")
			}
			idx.Address = addr.Lexeme
			if _, err := p.expect(token.RParen); err != nil {
				return nil, err
			}
		case token.KwEvents:
			if _, err := p.expect(token.LBracket); err != nil {
				return nil, err
			}
			for !p.at(token.RBracket) && !p.at(token.EOF) {
				ev, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				idx.Events = append(idx.Events, ev.Lexeme)
				if !p.accept(token.Comma) {
					break
				}
			}
			if _, err := p.expect(token.RBracket); err != nil {
				return nil, err
			}
		case token.KwMap:
			if _, err := p.expect(token.LBrace); err != nil {
				return nil, err
			}
			idx.Map, err = p.parseFieldList(token.RBrace)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBrace); err != nil {
				return nil, err
			}
		default:
			return nil, p.unexpected(clause, "'source', 'events', or 'map'")
		}
		if !p.accept(token.Comma) {
			break
		}
	}
	_, err = p.expect(token.RBrace)
	return idx, err
}

// parseQuery parses a read declaration:
//
//	query TopTransfers {
//		from: Transfers,
//		where: value > 1000,
//		order_by: value desc,
//		limit: 100,
//	}
func (p *Parser) parseQuery() (*ast.Query, error) {
	start := p.next() // query
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	q := &ast.Query{Position: p.posOf(start), Name: name.Lexeme}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		clause := p.next()
		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		switch clause.Kind {
		case token.KwFrom:
			src, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			q.From = src.Lexeme
		case token.KwWhere:
			q.Where, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		case token.KwOrderBy:
			field, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			q.OrderBy = field.Lexeme
			if p.accept(token.KwDesc) {
				q.Desc = true
			} else {
				p.accept(token.KwAsc)
			}
		case token.KwLimit:
			lit, err := p.expect(token.IntLit)
			if err != nil {
				return nil, err
			}
			n, ok := new(big.Int).SetString(lit.Lexeme, 10)
			if !ok {
				return nil, p.unexpected(lit, "integer literal")
			}
			q.Limit = n
		default:
			return nil, p.unexpected(clause, "'from', 'where', 'order_by', or 'limit'")
		}
		if !p.accept(token.Comma) {
			break
		}
	}
	_, err = p.expect(token.RBrace)
	return q, err
}

func (p *Parser) parseFunction() (*ast.Function, error) {
	fn, err := p.parseFunctionHeader()
	if err != nil {
		return nil, err
	}
	fn.Body, err = p.parseBlock()
	return fn, err
}

// parseFunctionSig parses a trait member: a signature terminated by ';' or
// a default method with a body.
func (p *Parser) parseFunctionSig() (*ast.Function, error) {
	fn, err := p.parseFunctionHeader()
	if err != nil {
		return nil, err
	}
	if p.accept(token.Semicolon) {
		return fn, nil
	}
	fn.Body, err = p.parseBlock()
	return fn, err
}

func (p *Parser) parseFunctionHeader() (*ast.Function, error) {
	public := p.accept(token.KwPub)
	start, err := p.expect(token.KwFn)
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}

	fn := &ast.Function{Position: p.posOf(start), Name: name.Lexeme, Public: public}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if p.at(token.KwSelf) {
			self := p.next()
			fn.Params = append(fn.Params, ast.Param{Position: p.posOf(self), Name: "self"})
		} else {
			pname, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.Colon); err != nil {
				return nil, err
			}
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, ast.Param{
				Position: p.posOf(pname),
				Name:     pname.Lexeme,
				Type:     typ,
			})
		}
		if !p.accept(token.Comma) {
			break
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if p.accept(token.Arrow) {
		fn.Return, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	return fn, nil
}
