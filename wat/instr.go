package wat

import (
	"fmt"
	"strconv"
	"strings"
)

type immKind int

const (
	immNone immKind = iota
	immConstI32
	immConstI64
	immLocal
	immGlobal
	immFunc
	immMemarg
)

type opInfo struct {
	op    byte
	imm   immKind
	align uint32 // natural alignment exponent for memory ops
}

var opcodes = map[string]opInfo{
	"nop":         {op: 0x01},
	"unreachable": {op: 0x00},
	"drop":        {op: 0x1A},
	"return":      {op: 0x0F},
	"call":        {op: 0x10, imm: immFunc},
	"local.get":   {op: 0x20, imm: immLocal},
	"local.set":   {op: 0x21, imm: immLocal},
	"local.tee":   {op: 0x22, imm: immLocal},
	"global.get":  {op: 0x23, imm: immGlobal},
	"global.set":  {op: 0x24, imm: immGlobal},
	"i32.const":   {op: 0x41, imm: immConstI32},
	"i64.const":   {op: 0x42, imm: immConstI64},
	"i32.add":     {op: 0x6A},
	"i32.sub":     {op: 0x6B},
	"i32.mul":     {op: 0x6C},
	"i64.add":     {op: 0x7C},
	"i64.sub":     {op: 0x7D},
	"i64.mul":     {op: 0x7E},
	"i32.load":    {op: 0x28, imm: immMemarg, align: 2},
	"i64.load":    {op: 0x29, imm: immMemarg, align: 3},
	"i32.store":   {op: 0x36, imm: immMemarg, align: 2},
	"i64.store":   {op: 0x37, imm: immMemarg, align: 3},
}

// instrImm pairs the opcode with how its immediate encodes.
var instrImm = func() map[byte]immKind {
	m := make(map[byte]immKind, len(opcodes))
	for _, info := range opcodes {
		m[info.op] = info.imm
	}
	return m
}()

// parseInstr parses one folded instruction: "(op imm* operand*)". Folded
// operands flatten in evaluation order, so the operands' instructions come
// first and the operation itself last.
func (p *watParser) parseInstr() ([]instr, error) {
	t := p.next()
	if t == nil || t.kind != tkLParen {
		return nil, p.fail(t, "instruction")
	}
	name := p.next()
	if name == nil || name.kind != tkAtom {
		return nil, p.fail(name, "instruction name")
	}
	info, ok := opcodes[name.value]
	if !ok {
		return nil, fmt.Errorf("wat: line %d: unknown instruction %q", name.line, name.value)
	}

	self := instr{op: info.op}
	switch info.imm {
	case immConstI32, immConstI64:
		n, err := p.parseI64()
		if err != nil {
			return nil, err
		}
		self.n = n
	case immLocal, immGlobal, immFunc:
		a := p.next()
		if a == nil || a.kind != tkAtom {
			return nil, p.fail(a, "index")
		}
		if strings.HasPrefix(a.value, "$") {
			self.sym = a.value
		} else {
			n, err := strconv.ParseUint(a.value, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("wat: line %d: invalid index %q", a.line, a.value)
			}
			self.n = int64(n)
		}
	case immMemarg:
		self.n = int64(info.align)
		for {
			a := p.peek()
			if a == nil || a.kind != tkAtom {
				break
			}
			if v, ok := strings.CutPrefix(a.value, "offset="); ok {
				n, err := strconv.ParseUint(v, 10, 32)
				if err != nil {
					return nil, fmt.Errorf("wat: line %d: invalid offset %q", a.line, v)
				}
				self.offset = uint32(n)
				p.next()
				continue
			}
			if v, ok := strings.CutPrefix(a.value, "align="); ok {
				n, err := strconv.ParseUint(v, 10, 32)
				if err != nil || n == 0 || n&(n-1) != 0 {
					return nil, fmt.Errorf("wat: line %d: invalid alignment %q", a.line, v)
				}
				exp := int64(0)
				for m := n; m > 1; m >>= 1 {
					exp++
				}
				self.n = exp
				p.next()
				continue
			}
			break
		}
	}

	var out []instr
	for !p.atClose() {
		operand, err := p.parseInstr()
		if err != nil {
			return nil, err
		}
		out = append(out, operand...)
	}
	if err := p.close(); err != nil {
		return nil, err
	}
	return append(out, self), nil
}
