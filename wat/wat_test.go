package wat

import (
	"bytes"
	"strings"
	"testing"
)

var magic = []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

func TestAssembleEmptyModule(t *testing.T) {
	bin, err := Assemble("(module)")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !bytes.Equal(bin, magic) {
		t.Errorf("empty module = % x, want magic+version only", bin)
	}
}

func TestAssembleMemory(t *testing.T) {
	bin, err := Assemble(`(module (memory (export "memory") 1))`)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	want := append(append([]byte{}, magic...),
		0x05, 0x03, 0x01, 0x00, 0x01, // memory section: min 1, no max
		0x07, 0x0A, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00, // export section
	)
	if !bytes.Equal(bin, want) {
		t.Errorf("got  % x\nwant % x", bin, want)
	}
}

func TestAssembleConstFunction(t *testing.T) {
	bin, err := Assemble(`(module (func $f (export "f") (result i32) (i32.const 42)))`)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	want := append(append([]byte{}, magic...),
		0x01, 0x05, 0x01, 0x60, 0x00, 0x01, 0x7F, // type: () -> i32
		0x03, 0x02, 0x01, 0x00, // function: one func of type 0
		0x07, 0x05, 0x01, 0x01, 'f', 0x00, 0x00, // export "f" func 0
		0x0A, 0x06, 0x01, 0x04, 0x00, 0x41, 0x2A, 0x0B, // code: i32.const 42
	)
	if !bytes.Equal(bin, want) {
		t.Errorf("got  % x\nwant % x", bin, want)
	}
}

// Folded operands flatten in evaluation order before the operation.
func TestAssembleFoldedInstructions(t *testing.T) {
	bin, err := Assemble(`(module
		(func (param $a i32) (param $b i32) (result i32)
			(i32.add (local.get $a) (local.get $b))))`)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	body := []byte{0x00, 0x20, 0x00, 0x20, 0x01, 0x6A, 0x0B}
	if !bytes.Contains(bin, body) {
		t.Errorf("body % x not flattened as expected in % x", body, bin)
	}
}

func TestAssembleMemarg(t *testing.T) {
	bin, err := Assemble(`(module
		(memory 1)
		(func (param $p i32) (param $v i64)
			(i64.store offset=8 (local.get $p) (local.get $v))))`)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	// Natural alignment exponent 3 for i64.store, offset 8.
	if !bytes.Contains(bin, []byte{0x37, 0x03, 0x08}) {
		t.Errorf("memarg encoding missing in % x", bin)
	}
}

func TestAssembleGlobal(t *testing.T) {
	bin, err := Assemble(`(module
		(global $heap (mut i32) (i32.const 16))
		(func (result i32) (global.get $heap)))`)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	// Global section: i32 mutable, init i32.const 16.
	if !bytes.Contains(bin, []byte{0x06, 0x06, 0x01, 0x7F, 0x01, 0x41, 0x10, 0x0B}) {
		t.Errorf("global section missing in % x", bin)
	}
	// global.get resolves $heap to index 0.
	if !bytes.Contains(bin, []byte{0x23, 0x00, 0x0B}) {
		t.Errorf("global.get not resolved in % x", bin)
	}
}

func TestAssembleTypeDedup(t *testing.T) {
	bin, err := Assemble(`(module
		(func $a (result i32) (i32.const 1))
		(func $b (result i32) (i32.const 2)))`)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	// Both functions share type 0: one entry in the type section.
	if !bytes.Contains(bin, []byte{0x01, 0x05, 0x01, 0x60, 0x00, 0x01, 0x7F}) {
		t.Errorf("type section not deduplicated in % x", bin)
	}
	if !bytes.Contains(bin, []byte{0x03, 0x03, 0x02, 0x00, 0x00}) {
		t.Errorf("function section wrong in % x", bin)
	}
}

func TestAssembleCallBySymbol(t *testing.T) {
	bin, err := Assemble(`(module
		(func $alloc (param $size i32) (result i32) (local.get $size))
		(func $use (result i32) (call $alloc (i32.const 8))))`)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	// i32.const 8 then call func 0.
	if !bytes.Contains(bin, []byte{0x41, 0x08, 0x10, 0x00, 0x0B}) {
		t.Errorf("call not resolved in % x", bin)
	}
}

func TestAssembleLocalRuns(t *testing.T) {
	bin, err := Assemble(`(module
		(func (local $a i32) (local $b i32) (local $c i64) (nop)))`)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	// Two runs: 2 x i32, 1 x i64.
	if !bytes.Contains(bin, []byte{0x02, 0x02, 0x7F, 0x01, 0x7E, 0x01, 0x0B}) {
		t.Errorf("local runs wrong in % x", bin)
	}
}

func TestAssembleComments(t *testing.T) {
	_, err := Assemble(`(module
		;; a comment
		(memory 1) ;; trailing
	)`)
	if err != nil {
		t.Errorf("comments must be skipped: %v", err)
	}
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"not_a_module", "(memory 1)", "'module'"},
		{"stray_semicolon", "(module ; )", "'('"},
		{"stray_semicolon_in_func", "(module (func (nop) ; ))", "instruction"},
		{"truncated", "(module (func", "end of input"},
		{"unsupported_field", "(module (table 1 funcref))", "unsupported field"},
		{"unknown_instruction", "(module (func (f64.sqrt)))", "unknown instruction"},
		{"unknown_local", "(module (func (local.get $missing)))", "unknown local"},
		{"unknown_function", "(module (func (call $missing)))", "unknown function"},
		{"bad_value_type", "(module (func (param $x f32)))", "unknown value type"},
		{"bad_alignment", "(module (memory 1) (func (param $p i32) (i32.load align=3 (local.get $p))))", "invalid alignment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.source)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}
