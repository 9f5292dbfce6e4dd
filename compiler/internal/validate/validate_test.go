package validate

import (
	"strings"
	"testing"

	"github.com/chainweave/chaindsl/compiler/internal/ast"
	"github.com/chainweave/chaindsl/compiler/internal/parser"
	"github.com/chainweave/chaindsl/compiler/internal/token"
	"github.com/chainweave/chaindsl/errors"
)

func validateSource(t *testing.T, src string) []errors.Diagnostic {
	t.Helper()
	tokens, err := token.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	file, diags := parser.New("test.dsl", tokens).Parse()
	if errors.HasErrors(diags) {
		t.Fatalf("parse diagnostics: %v", diags)
	}
	return Validate(file)
}

func countContaining(diags []errors.Diagnostic, substr string) int {
	n := 0
	for _, d := range diags {
		if strings.Contains(d.Message, substr) {
			n++
		}
	}
	return n
}

func TestValidateOK(t *testing.T) {
	diags := validateSource(t, "struct Pool { id: Address, liquidity: u256 }")
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

func TestValidateEmptyStruct(t *testing.T) {
	diags := validateSource(t, "struct Ghost { }")
	if got := countContaining(diags, "must have at least one field"); got != 1 {
		t.Errorf("got %d empty-struct diagnostics, want exactly 1: %v", got, diags)
	}
	if countContaining(diags, `"Ghost"`) != 1 {
		t.Errorf("diagnostic does not name the struct: %v", diags)
	}
}

func TestValidateDuplicateField(t *testing.T) {
	diags := validateSource(t, "struct Dup { a: u32, a: u32 }")
	if got := countContaining(diags, "duplicate field"); got != 1 {
		t.Errorf("got %d duplicate diagnostics, want exactly 1: %v", got, diags)
	}
	if countContaining(diags, `"a"`) != 1 {
		t.Errorf("diagnostic does not reference the field: %v", diags)
	}
}

// The first duplicate must not suppress detection of further ones.
func TestValidateMultipleDuplicates(t *testing.T) {
	diags := validateSource(t, "struct Dup { a: u32, a: u32, b: u64, b: u64, a: u32 }")
	if got := countContaining(diags, "duplicate field"); got != 3 {
		t.Errorf("got %d duplicate diagnostics, want 3: %v", got, diags)
	}
}

func TestValidateNoStructs(t *testing.T) {
	diags := validateSource(t, "contract Empty { }")
	if got := countContaining(diags, "declares no structs"); got != 1 {
		t.Errorf("got %v", diags)
	}
	if !errors.HasErrors(diags) {
		t.Error("no-structs rule should be error severity")
	}
}

func TestValidateStructInsideModule(t *testing.T) {
	diags := validateSource(t, "module inner { struct Tick { v: u64 } }")
	if countContaining(diags, "declares no structs") != 0 {
		t.Errorf("struct inside module not counted: %v", diags)
	}
}

func TestValidateEventDuplicates(t *testing.T) {
	diags := validateSource(t, `
struct S { v: u64 }
contract C {
	event E { from: Address, from: Address }
}`)
	if got := countContaining(diags, `in event "E"`); got != 1 {
		t.Errorf("got %v", diags)
	}
}

func TestValidateIndexMapDuplicates(t *testing.T) {
	diags := validateSource(t, `
struct S { v: u64 }
index I { source: ethereum(0xabc1), events: [T], map: { v: u64, v: u64 } }`)
	if got := countContaining(diags, `in index "I"`); got != 1 {
		t.Errorf("got %v", diags)
	}
}

func TestValidateDuplicateStructWarning(t *testing.T) {
	diags := validateSource(t, "struct A { x: u32 } struct A { y: u32 }")
	var warn *errors.Diagnostic
	for i, d := range diags {
		if d.Severity == errors.SeverityWarning {
			warn = &diags[i]
		}
	}
	if warn == nil {
		t.Fatalf("expected a warning: %v", diags)
	}
	if !strings.Contains(warn.Message, "declared more than once") {
		t.Errorf("warning = %q", warn.Message)
	}
	if errors.HasErrors(diags) {
		t.Error("duplicate struct should not be an error")
	}
}

// Diagnostics from independent rules accumulate.
func TestValidateAccumulates(t *testing.T) {
	diags := validateSource(t, "struct A { } struct B { x: u32, x: u32 }")
	if len(diags) < 2 {
		t.Errorf("got %d diagnostics, want >= 2: %v", len(diags), diags)
	}
}

// Validation reads the tree and never mutates it.
func TestValidatePure(t *testing.T) {
	tokens, err := token.Tokenize("struct Dup { a: u32, a: u32 }")
	if err != nil {
		t.Fatal(err)
	}
	file, _ := parser.New("t.dsl", tokens).Parse()

	first := Validate(file)
	second := Validate(file)
	if len(first) != len(second) {
		t.Errorf("repeated validation differs: %d vs %d", len(first), len(second))
	}
	s := file.Items[0].(*ast.Struct)
	if len(s.Fields) != 2 {
		t.Error("validation mutated the tree")
	}
}
