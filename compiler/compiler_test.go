package compiler

import (
	"strings"
	"testing"

	"github.com/chainweave/chaindsl/errors"
)

const indexerSource = `
struct Pool {
	token0: Address,
	token1: Address,
	liquidity: u256,
}

index Swaps {
	source: ethereum(0x1f98431c8ad98523631ae4a59f267346ea31f984),
	events: [Swap, Mint, Burn],
	map: { pool: Address, amount: u256 },
}

query TopPools {
	from: Pool,
	where: liquidity > 1000000,
	order_by: liquidity desc,
	limit: 10,
}
`

func TestCompileIndexerSource(t *testing.T) {
	res := Compile(indexerSource, WithFile("swaps.dsl"))

	if !res.OK() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if res.WAT == "" {
		t.Fatal("no WAT produced")
	}
	for _, want := range []string{"memory", "alloc", "create_Pool", "map_Swaps"} {
		found := false
		for _, e := range res.Exports {
			if e == want {
				found = true
			}
		}
		if !found {
			t.Errorf("export %q missing from %v", want, res.Exports)
		}
	}
	if len(res.Schema) != 2 {
		t.Fatalf("got %d schemas, want 2: %+v", len(res.Schema), res.Schema)
	}
	if res.Schema[0].Name != "Pool" || len(res.Schema[0].Fields) != 3 {
		t.Errorf("Pool schema = %+v", res.Schema[0])
	}
	if res.Schema[1].Name != "Swaps" || res.Schema[1].Fields[0].DSLType != "Address" {
		t.Errorf("Swaps schema = %+v", res.Schema[1])
	}
}

func TestCompileLexError(t *testing.T) {
	res := Compile(`struct S { v: u64 } "unterminated`)

	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.WAT != "" {
		t.Error("failed compile must not produce WAT")
	}
	if len(res.Diagnostics) != 1 {
		t.Errorf("lex failure yields a single diagnostic, got %v", res.Diagnostics)
	}
	if !strings.Contains(res.Diagnostics[0].Message, "unterminated") {
		t.Errorf("diagnostic = %q", res.Diagnostics[0].Message)
	}
}

func TestCompileParseErrorsAccumulate(t *testing.T) {
	res := Compile(`
struct { v: u64 }
struct Good { v: u64 }
struct Bad v }
`)

	if res.OK() {
		t.Fatal("expected failure")
	}
	if len(res.Diagnostics) < 2 {
		t.Errorf("want diagnostics from both bad items, got %v", res.Diagnostics)
	}
	if res.WAT != "" || res.Exports != nil {
		t.Error("parse failure must not reach code generation")
	}
}

func TestCompileValidateError(t *testing.T) {
	res := Compile("struct Empty { }")

	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.WAT != "" {
		t.Error("validation failure must not reach code generation")
	}
}

// A warning-only result still compiles.
func TestCompileWarningsPass(t *testing.T) {
	res := Compile("struct A { x: u32 } struct A { y: u32 }")

	if !res.OK() {
		t.Fatalf("warnings must not fail the compile: %v", res.Diagnostics)
	}
	if res.WAT == "" {
		t.Error("no WAT produced")
	}
	if len(res.Diagnostics) == 0 {
		t.Error("expected the duplicate-struct warning to survive")
	}
	for _, d := range res.Diagnostics {
		if d.Severity != errors.SeverityWarning {
			t.Errorf("unexpected severity in %v", d)
		}
	}
}

func TestCompileMaxDepth(t *testing.T) {
	src := "fn f() { let x = " + strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50) + "; }\nstruct S { v: u64 }"

	if res := Compile(src); !res.OK() {
		t.Fatalf("50 levels within default limit: %v", res.Diagnostics)
	}

	res := Compile(src, WithMaxDepth(8))
	if res.OK() {
		t.Fatal("expected depth guard to trip")
	}
	if len(res.Diagnostics) != 1 {
		t.Errorf("depth guard yields a single diagnostic, got %v", res.Diagnostics)
	}
}

func TestCompileMaxTokens(t *testing.T) {
	res := Compile("struct S { v: u64 }", WithMaxTokens(4))
	if res.OK() {
		t.Fatal("expected token limit failure")
	}

	if res := Compile("struct S { v: u64 }", WithMaxTokens(1000)); !res.OK() {
		t.Fatalf("limit above stream length must pass: %v", res.Diagnostics)
	}
}

func TestCompileDeterministic(t *testing.T) {
	first := Compile(indexerSource)
	second := Compile(indexerSource)
	if first.WAT != second.WAT {
		t.Error("identical input produced different WAT")
	}
}

func TestCompileConcurrent(t *testing.T) {
	done := make(chan *Result, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- Compile(indexerSource) }()
	}
	want := Compile(indexerSource).WAT
	for i := 0; i < 8; i++ {
		if res := <-done; res.WAT != want {
			t.Error("concurrent compile diverged")
		}
	}
}
