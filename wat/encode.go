package wat

import "fmt"

type buffer struct {
	bytes []byte
}

func (b *buffer) writeByte(v byte) {
	b.bytes = append(b.bytes, v)
}

func (b *buffer) write(v []byte) {
	b.bytes = append(b.bytes, v...)
}

// writeU32 writes unsigned LEB128 encoding.
func (b *buffer) writeU32(v uint32) {
	for {
		byt := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			byt |= 0x80
		}
		b.writeByte(byt)
		if v == 0 {
			return
		}
	}
}

// writeI64 writes signed LEB128 encoding.
func (b *buffer) writeI64(v int64) {
	for {
		byt := byte(v & 0x7F)
		v >>= 7
		if (v == 0 && byt&0x40 == 0) || (v == -1 && byt&0x40 != 0) {
			b.writeByte(byt)
			return
		}
		b.writeByte(byt | 0x80)
	}
}

func (b *buffer) writeName(s string) {
	b.writeU32(uint32(len(s)))
	b.write([]byte(s))
}

// writeSection frames a section payload with its id and size.
func (b *buffer) writeSection(id byte, payload *buffer) {
	b.writeByte(id)
	b.writeU32(uint32(len(payload.bytes)))
	b.write(payload.bytes)
}

type funcType struct {
	params  []byte
	results []byte
}

func (ft funcType) equal(other funcType) bool {
	if len(ft.params) != len(other.params) || len(ft.results) != len(other.results) {
		return false
	}
	for i, p := range ft.params {
		if p != other.params[i] {
			return false
		}
	}
	for i, r := range ft.results {
		if r != other.results[i] {
			return false
		}
	}
	return true
}

func encode(mod *module) ([]byte, error) {
	out := &buffer{}
	out.write([]byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}) // magic + version

	// Index spaces.
	funcIdx := make(map[string]uint32)
	for i, fn := range mod.funcs {
		if fn.name != "" {
			funcIdx[fn.name] = uint32(i)
		}
	}
	globalIdx := make(map[string]uint32)
	for i, g := range mod.globals {
		if g.name != "" {
			globalIdx[g.name] = uint32(i)
		}
	}

	// Deduplicated type section.
	var types []funcType
	typeOf := make([]uint32, len(mod.funcs))
	for i, fn := range mod.funcs {
		ft := funcType{results: fn.results}
		for _, p := range fn.params {
			ft.params = append(ft.params, p.valType)
		}
		found := false
		for j, existing := range types {
			if existing.equal(ft) {
				typeOf[i] = uint32(j)
				found = true
				break
			}
		}
		if !found {
			typeOf[i] = uint32(len(types))
			types = append(types, ft)
		}
	}

	if len(types) > 0 {
		sec := &buffer{}
		sec.writeU32(uint32(len(types)))
		for _, ft := range types {
			sec.writeByte(0x60)
			sec.writeU32(uint32(len(ft.params)))
			sec.write(ft.params)
			sec.writeU32(uint32(len(ft.results)))
			sec.write(ft.results)
		}
		out.writeSection(1, sec)
	}

	if len(mod.funcs) > 0 {
		sec := &buffer{}
		sec.writeU32(uint32(len(mod.funcs)))
		for i := range mod.funcs {
			sec.writeU32(typeOf[i])
		}
		out.writeSection(3, sec)
	}

	if mod.hasMemory {
		sec := &buffer{}
		sec.writeU32(1)
		if mod.memMax != nil {
			sec.writeByte(0x01)
			sec.writeU32(mod.memMin)
			sec.writeU32(*mod.memMax)
		} else {
			sec.writeByte(0x00)
			sec.writeU32(mod.memMin)
		}
		out.writeSection(5, sec)
	}

	if len(mod.globals) > 0 {
		sec := &buffer{}
		sec.writeU32(uint32(len(mod.globals)))
		for _, g := range mod.globals {
			sec.writeByte(g.valType)
			if g.mutable {
				sec.writeByte(0x01)
			} else {
				sec.writeByte(0x00)
			}
			if g.valType == valI64 {
				sec.writeByte(0x42)
			} else {
				sec.writeByte(0x41)
			}
			sec.writeI64(g.init)
			sec.writeByte(0x0B)
		}
		out.writeSection(6, sec)
	}

	if err := encodeExports(out, mod); err != nil {
		return nil, err
	}

	if len(mod.funcs) > 0 {
		sec := &buffer{}
		sec.writeU32(uint32(len(mod.funcs)))
		for _, fn := range mod.funcs {
			body, err := encodeBody(&fn, funcIdx, globalIdx)
			if err != nil {
				return nil, err
			}
			sec.writeU32(uint32(len(body.bytes)))
			sec.write(body.bytes)
		}
		out.writeSection(10, sec)
	}

	return out.bytes, nil
}

func encodeExports(out *buffer, mod *module) error {
	count := 0
	if mod.memExport != "" {
		count++
	}
	for _, fn := range mod.funcs {
		if fn.export != "" {
			count++
		}
	}
	for _, g := range mod.globals {
		if g.export != "" {
			count++
		}
	}
	if count == 0 {
		return nil
	}

	sec := &buffer{}
	sec.writeU32(uint32(count))
	for i, fn := range mod.funcs {
		if fn.export == "" {
			continue
		}
		sec.writeName(fn.export)
		sec.writeByte(0x00)
		sec.writeU32(uint32(i))
	}
	if mod.memExport != "" {
		sec.writeName(mod.memExport)
		sec.writeByte(0x02)
		sec.writeU32(0)
	}
	for i, g := range mod.globals {
		if g.export == "" {
			continue
		}
		sec.writeName(g.export)
		sec.writeByte(0x03)
		sec.writeU32(uint32(i))
	}
	out.writeSection(7, sec)
	return nil
}

func encodeBody(fn *funcDecl, funcIdx, globalIdx map[string]uint32) (*buffer, error) {
	localIdx := make(map[string]uint32)
	for i, p := range fn.params {
		if p.name != "" {
			localIdx[p.name] = uint32(i)
		}
	}
	for i, l := range fn.locals {
		if l.name != "" {
			localIdx[l.name] = uint32(len(fn.params) + i)
		}
	}

	body := &buffer{}

	// Local declarations, run-length encoded by type.
	var runs [][2]uint32 // count, valtype
	for _, l := range fn.locals {
		if n := len(runs); n > 0 && runs[n-1][1] == uint32(l.valType) {
			runs[n-1][0]++
			continue
		}
		runs = append(runs, [2]uint32{1, uint32(l.valType)})
	}
	body.writeU32(uint32(len(runs)))
	for _, run := range runs {
		body.writeU32(run[0])
		body.writeByte(byte(run[1]))
	}

	for _, in := range fn.body {
		body.writeByte(in.op)
		switch instrImm[in.op] {
		case immConstI32, immConstI64:
			body.writeI64(in.n)
		case immLocal:
			idx, err := resolve(in, localIdx, "local")
			if err != nil {
				return nil, err
			}
			body.writeU32(idx)
		case immGlobal:
			idx, err := resolve(in, globalIdx, "global")
			if err != nil {
				return nil, err
			}
			body.writeU32(idx)
		case immFunc:
			idx, err := resolve(in, funcIdx, "function")
			if err != nil {
				return nil, err
			}
			body.writeU32(idx)
		case immMemarg:
			body.writeU32(uint32(in.n)) // alignment exponent
			body.writeU32(in.offset)
		}
	}
	body.writeByte(0x0B) // end

	return body, nil
}

func resolve(in instr, idx map[string]uint32, space string) (uint32, error) {
	if in.sym == "" {
		return uint32(in.n), nil
	}
	if v, ok := idx[in.sym]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("wat: unknown %s %s", space, in.sym)
}
