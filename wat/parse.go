package wat

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	valI32 byte = 0x7F
	valI64 byte = 0x7E
)

type module struct {
	memMin    uint32
	memMax    *uint32
	memExport string
	hasMemory bool
	globals   []globalDecl
	funcs     []funcDecl
}

type globalDecl struct {
	name    string
	export  string
	valType byte
	mutable bool
	init    int64
}

type funcDecl struct {
	name    string
	export  string
	params  []localDecl
	results []byte
	locals  []localDecl
	body    []instr
}

type localDecl struct {
	name    string
	valType byte
}

// instr is one flattened instruction. sym holds an unresolved $name for
// call/local/global operands; resolution happens during encoding once all
// indices are known.
type instr struct {
	sym    string
	op     byte
	n      int64
	offset uint32
}

type watParser struct {
	tokens []watToken
	pos    int
}

func parse(tokens []watToken) (*module, error) {
	p := &watParser{tokens: tokens}
	if err := p.open("module"); err != nil {
		return nil, err
	}

	mod := &module{}
	for !p.atClose() {
		if err := p.parseField(mod); err != nil {
			return nil, err
		}
	}
	return mod, p.close()
}

func (p *watParser) peek() *watToken {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *watParser) next() *watToken {
	t := p.peek()
	if t != nil {
		p.pos++
	}
	return t
}

func (p *watParser) atClose() bool {
	t := p.peek()
	return t == nil || t.kind == tkRParen
}

// open consumes "(" followed by the given atom.
func (p *watParser) open(head string) error {
	t := p.next()
	if t == nil || t.kind != tkLParen {
		return p.fail(t, "'('")
	}
	a := p.next()
	if a == nil || a.kind != tkAtom || a.value != head {
		return p.fail(a, fmt.Sprintf("'%s'", head))
	}
	return nil
}

func (p *watParser) close() error {
	t := p.next()
	if t == nil || t.kind != tkRParen {
		return p.fail(t, "')'")
	}
	return nil
}

func (p *watParser) fail(t *watToken, want string) error {
	if t == nil {
		return fmt.Errorf("wat: unexpected end of input, expected %s", want)
	}
	return fmt.Errorf("wat: line %d: expected %s, got %q", t.line, want, t.value)
}

func (p *watParser) parseField(mod *module) error {
	t := p.next()
	if t == nil || t.kind != tkLParen {
		return p.fail(t, "'('")
	}
	head := p.next()
	if head == nil || head.kind != tkAtom {
		return p.fail(head, "field name")
	}

	switch head.value {
	case "memory":
		return p.parseMemory(mod)
	case "global":
		return p.parseGlobal(mod)
	case "func":
		return p.parseFunc(mod)
	}
	return fmt.Errorf("wat: line %d: unsupported field %q", head.line, head.value)
}

func (p *watParser) parseMemory(mod *module) error {
	if t := p.peek(); t != nil && t.kind == tkLParen {
		if err := p.open("export"); err != nil {
			return err
		}
		name := p.next()
		if name == nil || name.kind != tkString {
			return p.fail(name, "export name")
		}
		mod.memExport = name.value
		if err := p.close(); err != nil {
			return err
		}
	}

	min, err := p.parseU32()
	if err != nil {
		return err
	}
	mod.memMin = min
	mod.hasMemory = true

	if t := p.peek(); t != nil && t.kind == tkAtom {
		max, err := p.parseU32()
		if err != nil {
			return err
		}
		mod.memMax = &max
	}
	return p.close()
}

func (p *watParser) parseGlobal(mod *module) error {
	g := globalDecl{}
	if t := p.peek(); t != nil && t.kind == tkAtom && strings.HasPrefix(t.value, "$") {
		g.name = p.next().value
	}

	if t := p.peek(); t != nil && t.kind == tkLParen && p.peekHead() == "export" {
		p.next()
		p.next()
		name := p.next()
		if name == nil || name.kind != tkString {
			return p.fail(name, "export name")
		}
		g.export = name.value
		if err := p.close(); err != nil {
			return err
		}
	}

	// Type: a bare value type or (mut <valtype>)
	t := p.next()
	if t != nil && t.kind == tkLParen {
		head := p.next()
		if head == nil || head.kind != tkAtom || head.value != "mut" {
			return p.fail(head, "'mut'")
		}
		g.mutable = true
		vt, err := valType(p.next())
		if err != nil {
			return err
		}
		g.valType = vt
		if err := p.close(); err != nil {
			return err
		}
	} else {
		vt, err := valType(t)
		if err != nil {
			return err
		}
		g.valType = vt
	}

	// Initializer: (i32.const n) or (i64.const n)
	open := p.next()
	if open == nil || open.kind != tkLParen {
		return p.fail(open, "initializer")
	}
	head := p.next()
	if head == nil || head.kind != tkAtom ||
		(head.value != "i32.const" && head.value != "i64.const") {
		return p.fail(head, "const initializer")
	}
	n, err := p.parseI64()
	if err != nil {
		return err
	}
	g.init = n
	if err := p.close(); err != nil {
		return err
	}

	mod.globals = append(mod.globals, g)
	return p.close()
}

func (p *watParser) parseFunc(mod *module) error {
	fn := funcDecl{}
	if t := p.peek(); t != nil && t.kind == tkAtom && strings.HasPrefix(t.value, "$") {
		fn.name = p.next().value
	}

	// Header clauses: (export "n"), (param ...), (result ...), (local ...)
	for {
		t := p.peek()
		if t == nil || t.kind != tkLParen {
			break
		}
		head := p.peekHead()
		done := false
		switch head {
		case "export":
			p.next()
			p.next()
			name := p.next()
			if name == nil || name.kind != tkString {
				return p.fail(name, "export name")
			}
			fn.export = name.value
			if err := p.close(); err != nil {
				return err
			}
		case "param":
			decls, err := p.parseLocalDecls("param")
			if err != nil {
				return err
			}
			fn.params = append(fn.params, decls...)
		case "result":
			p.next()
			p.next()
			for !p.atClose() {
				vt, err := valType(p.next())
				if err != nil {
					return err
				}
				fn.results = append(fn.results, vt)
			}
			if err := p.close(); err != nil {
				return err
			}
		case "local":
			decls, err := p.parseLocalDecls("local")
			if err != nil {
				return err
			}
			fn.locals = append(fn.locals, decls...)
		default:
			done = true
		}
		if done {
			break
		}
	}

	for !p.atClose() {
		body, err := p.parseInstr()
		if err != nil {
			return err
		}
		fn.body = append(fn.body, body...)
	}

	mod.funcs = append(mod.funcs, fn)
	return p.close()
}

// peekHead returns the atom following a "(" without consuming anything.
func (p *watParser) peekHead() string {
	if p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].kind == tkAtom {
		return p.tokens[p.pos+1].value
	}
	return ""
}

// parseLocalDecls parses (param $a i32 ...) or (local $a i32 ...). A named
// declaration holds exactly one entry; unnamed forms may list several
// types.
func (p *watParser) parseLocalDecls(head string) ([]localDecl, error) {
	p.next() // (
	p.next() // head atom
	var decls []localDecl
	name := ""
	if t := p.peek(); t != nil && t.kind == tkAtom && strings.HasPrefix(t.value, "$") {
		name = p.next().value
	}
	for !p.atClose() {
		vt, err := valType(p.next())
		if err != nil {
			return nil, err
		}
		decls = append(decls, localDecl{name: name, valType: vt})
		name = ""
	}
	if err := p.close(); err != nil {
		return nil, err
	}
	if len(decls) == 0 {
		return nil, fmt.Errorf("wat: empty %s declaration", head)
	}
	return decls, nil
}

func (p *watParser) parseU32() (uint32, error) {
	t := p.next()
	if t == nil || t.kind != tkAtom {
		return 0, p.fail(t, "number")
	}
	v, err := strconv.ParseUint(t.value, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("wat: line %d: invalid number %q", t.line, t.value)
	}
	return uint32(v), nil
}

func (p *watParser) parseI64() (int64, error) {
	t := p.next()
	if t == nil || t.kind != tkAtom {
		return 0, p.fail(t, "number")
	}
	v, err := strconv.ParseInt(t.value, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("wat: line %d: invalid number %q", t.line, t.value)
	}
	return v, nil
}

func valType(t *watToken) (byte, error) {
	if t == nil || t.kind != tkAtom {
		return 0, fmt.Errorf("wat: expected value type")
	}
	switch t.value {
	case "i32":
		return valI32, nil
	case "i64":
		return valI64, nil
	}
	return 0, fmt.Errorf("wat: line %d: unknown value type %q", t.line, t.value)
}
