// Package codegen lowers a validated tree into WebAssembly text format.
//
// Value lowering is fixed: Address and every integer type lower to i64,
// with true 128/256-bit values represented out-of-line in linear memory
// and the i64 acting as the pointer/low-word; String, Bytes, and bool
// lower to i32. This ABI is load-bearing for downstream tooling, which
// binds exports by name and arity, and must stay stable.
//
// Generation never fails on a tree that passed validation: every valid
// input produces syntactically valid WAT.
package codegen

import (
	"fmt"
	"strings"

	"github.com/chainweave/chaindsl/compiler/internal/ast"
)

// FieldSchema describes one column of the table downstream storage creates
// for a struct or index map.
type FieldSchema struct {
	Name     string
	DSLType  string
	Nullable bool
}

// StructSchema is the ordered field metadata for one emitted constructor.
type StructSchema struct {
	Name   string
	Fields []FieldSchema
}

// Output is the code generator's artifact: the WAT text, the export names
// in emission order, and the schema metadata the storage collaborator
// consumes.
type Output struct {
	WAT     string
	Exports []string
	Schema  []StructSchema
}

// heapBase is where the bump allocator starts; the low words are reserved
// for scratch space.
const heapBase = 16

// Generate lowers the file into a WAT module.
func Generate(file *ast.SourceFile) *Output {
	g := &emitter{}

	g.line("(module")
	g.indent++

	g.line(`(memory (export "memory") 1)`)
	g.exports = append(g.exports, "memory")

	g.line(fmt.Sprintf("(global $heap (mut i32) (i32.const %d))", heapBase))
	g.emitAlloc()

	ast.Inspect(file, func(node ast.Node) bool {
		switch n := node.(type) {
		case *ast.Struct:
			g.emitConstructor(n)
			return false
		case *ast.Index:
			g.emitMapper(n)
			return false
		}
		return true
	})

	g.indent--
	g.line(")")

	return &Output{
		WAT:     g.b.String(),
		Exports: g.exports,
		Schema:  g.schema,
	}
}

type emitter struct {
	b       strings.Builder
	exports []string
	schema  []StructSchema
	indent  int
}

func (g *emitter) line(s string) {
	for i := 0; i < g.indent; i++ {
		g.b.WriteString("  ")
	}
	g.b.WriteString(s)
	g.b.WriteByte('\n')
}

func (g *emitter) linef(format string, args ...any) {
	g.line(fmt.Sprintf(format, args...))
}

// commentText makes a source-derived value safe inside a ";;" comment. A
// raw line break would terminate the comment and leak the remainder into
// the instruction stream; string literals can carry one.
func commentText(s string) string {
	if !strings.ContainsFunc(s, isControl) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if isControl(r) {
			fmt.Fprintf(&b, "\\%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7F
}

// emitAlloc writes the bump allocator: takes a byte size, returns a
// pointer. The exported signature is fixed; the strategy is not.
func (g *emitter) emitAlloc() {
	g.line(`(func $alloc (export "alloc") (param $size i32) (result i32)`)
	g.indent++
	g.line("(local $ptr i32)")
	g.line("(local.set $ptr (global.get $heap))")
	g.line("(global.set $heap (i32.add (global.get $heap) (local.get $size)))")
	g.line("(local.get $ptr))")
	g.indent--
	g.exports = append(g.exports, "alloc")
}

// emitConstructor writes the exported create_<Struct> function. Parameters
// are the struct's fields in declaration order; the body allocates the
// instance and stores each field at its offset.
func (g *emitter) emitConstructor(s *ast.Struct) {
	schema := StructSchema{Name: s.Name}
	g.linef(";; struct %s", s.Name)
	for _, f := range s.Fields {
		dsl := TypeString(f.Type)
		g.linef(";; field %s: %s", f.Name, dsl)
		schema.Fields = append(schema.Fields, FieldSchema{Name: f.Name, DSLType: dsl})
	}
	g.schema = append(g.schema, schema)

	name := "create_" + s.Name
	var sig strings.Builder
	fmt.Fprintf(&sig, "(func $%s (export %q)", name, name)
	for _, f := range s.Fields {
		fmt.Fprintf(&sig, " (param $%s %s)", f.Name, Lower(f.Type))
	}
	sig.WriteString(" (result i32)")
	g.line(sig.String())
	g.indent++
	g.line("(local $ptr i32)")

	size := 0
	for _, f := range s.Fields {
		size += fieldSize(f.Type)
	}
	g.linef("(local.set $ptr (call $alloc (i32.const %d)))", size)

	offset := 0
	for _, f := range s.Fields {
		store := Lower(f.Type) + ".store"
		if offset == 0 {
			g.linef("(%s (local.get $ptr) (local.get $%s))", store, f.Name)
		} else {
			g.linef("(%s offset=%d (local.get $ptr) (local.get $%s))", store, offset, f.Name)
		}
		offset += fieldSize(f.Type)
	}

	g.line("(local.get $ptr))")
	g.indent--
	g.exports = append(g.exports, name)
}

// emitMapper writes the exported map_<Index> function: event-data pointer
// in, mapped-data pointer out. The body allocates the mapped record; field
// extraction from the raw event is the ingestion runtime's job.
func (g *emitter) emitMapper(idx *ast.Index) {
	schema := StructSchema{Name: idx.Name}
	g.linef(";; index %s source %s(%s)", idx.Name, idx.Chain, commentText(idx.Address))
	for _, f := range idx.Map {
		dsl := TypeString(f.Type)
		g.linef(";; field %s: %s", f.Name, dsl)
		schema.Fields = append(schema.Fields, FieldSchema{Name: f.Name, DSLType: dsl})
	}
	g.schema = append(g.schema, schema)

	name := "map_" + idx.Name
	g.linef("(func $%s (export %q) (param $event i32) (result i32)", name, name)
	g.indent++

	size := 0
	for _, f := range idx.Map {
		size += fieldSize(f.Type)
	}
	if size == 0 {
		// An index with no map block passes the event record through.
		g.line("(local.get $event))")
	} else {
		g.linef("(call $alloc (i32.const %d)))", size)
	}
	g.indent--
	g.exports = append(g.exports, name)
}

// Lower maps a DSL type to its WASM value type per the fixed table.
func Lower(t ast.Type) string {
	p, ok := t.(*ast.Primitive)
	if !ok {
		// Composite and user types pass as pointers into memory.
		return "i32"
	}
	switch p.Name {
	case "bool", "String", "Bytes":
		return "i32"
	default:
		// Address and all integer widths, including u256/i256 via the
		// out-of-line representation.
		return "i64"
	}
}

func fieldSize(t ast.Type) int {
	if Lower(t) == "i64" {
		return 8
	}
	return 4
}

// TypeString renders a type annotation back to DSL syntax for schema
// metadata and WAT comments.
func TypeString(t ast.Type) string {
	switch n := t.(type) {
	case *ast.Primitive:
		return n.Name
	case *ast.Array:
		return "[" + TypeString(n.Elem) + "]"
	case *ast.Tuple:
		parts := make([]string, len(n.Elems))
		for i, e := range n.Elems {
			parts[i] = TypeString(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.FuncType:
		parts := make([]string, len(n.Params))
		for i, e := range n.Params {
			parts[i] = TypeString(e)
		}
		s := "fn(" + strings.Join(parts, ", ") + ")"
		if n.Return != nil {
			s += " -> " + TypeString(n.Return)
		}
		return s
	case *ast.Generic:
		if len(n.Args) == 0 {
			return n.Name
		}
		parts := make([]string, len(n.Args))
		for i, e := range n.Args {
			parts[i] = TypeString(e)
		}
		return n.Name + "<" + strings.Join(parts, ", ") + ">"
	case *ast.Ref:
		if n.Mut {
			return "&mut " + TypeString(n.Target)
		}
		return "&" + TypeString(n.Target)
	}
	return "unknown"
}
