package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/chainweave/chaindsl/compiler"
	cerrors "github.com/chainweave/chaindsl/errors"
)

const validSource = `
struct Pool {
	token0: Address,
	liquidity: u256,
}

index Swaps {
	source: ethereum(0xdeadbeef),
	events: [Swap],
	map: { pool: Address },
}
`

// fakeAssembler records the WAT it receives and returns canned output.
type fakeAssembler struct {
	gotWAT string
	mod    *Module
	err    error
	block  bool
}

func (f *fakeAssembler) Assemble(ctx context.Context, watText string) (*Module, error) {
	f.gotWAT = watText
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.mod, nil
}

func TestPipelineCompile(t *testing.T) {
	fake := &fakeAssembler{mod: &Module{Binary: []byte{0x00}, Exports: []string{"alloc"}}}
	p := New(WithAssembler(fake))

	res, err := p.Compile(context.Background(), validSource)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if !res.OK() {
		t.Fatalf("diagnostics: %v", res.Diagnostics)
	}
	if !strings.Contains(fake.gotWAT, "create_Pool") {
		t.Error("assembler did not receive the generated WAT")
	}
	if res.Binary == nil || res.Exports[0] != "alloc" {
		t.Errorf("result = %+v", res)
	}
}

// Compiler diagnostics short-circuit before the assembler runs.
func TestPipelineCompilerFailure(t *testing.T) {
	fake := &fakeAssembler{}
	p := New(WithAssembler(fake))

	res, err := p.Compile(context.Background(), "struct Empty { }")
	if err != nil {
		t.Fatalf("malformed input must not return a Go error: %v", err)
	}
	if res.OK() {
		t.Fatal("expected failure")
	}
	if fake.gotWAT != "" {
		t.Error("assembler ran on a failed compile")
	}
	if res.Binary != nil {
		t.Error("failed result carries a binary")
	}
}

func TestPipelineAssemblerFailure(t *testing.T) {
	fake := &fakeAssembler{err: errors.New("bad opcode")}
	p := New(WithAssembler(fake))

	res, err := p.Compile(context.Background(), validSource)
	if err != nil {
		t.Fatalf("assembler failure surfaces as a diagnostic, not an error: %v", err)
	}
	if res.OK() {
		t.Fatal("expected failure")
	}
	found := false
	for _, d := range res.Diagnostics {
		if strings.Contains(d.Message, "bad opcode") {
			found = true
		}
	}
	if !found {
		t.Errorf("assembler error not in diagnostics: %v", res.Diagnostics)
	}
	if res.WAT == "" {
		t.Error("WAT should survive an assembler failure for inspection")
	}
}

func TestPipelineTimeout(t *testing.T) {
	fake := &fakeAssembler{block: true}
	p := New(WithAssembler(fake), WithTimeout(10*time.Millisecond))

	res, err := p.Compile(context.Background(), validSource)
	if err == nil {
		t.Fatal("cancellation must return an error")
	}
	var cerr *cerrors.Error
	if !errors.As(err, &cerr) || cerr.Kind != cerrors.KindTimeout {
		t.Errorf("error = %v, want timeout kind", err)
	}
	if res == nil || res.OK() {
		t.Error("result must carry the timeout diagnostic")
	}
}

func TestPipelineCancellation(t *testing.T) {
	fake := &fakeAssembler{block: true}
	p := New(WithAssembler(fake))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	if _, err := p.Compile(ctx, validSource); err == nil {
		t.Fatal("cancellation must return an error")
	}
}

func TestPipelineCompilerOptions(t *testing.T) {
	fake := &fakeAssembler{mod: &Module{}}
	p := New(WithAssembler(fake), WithCompilerOptions(compiler.WithMaxDepth(4)),
		WithLogger(zap.NewNop()))

	deep := "fn f() { let x = ((((((1)))))); }\nstruct S { v: u64 }"
	res, err := p.Compile(context.Background(), deep)
	if err != nil {
		t.Fatal(err)
	}
	if res.OK() {
		t.Error("forwarded depth limit did not apply")
	}
}

func TestWazeroAssembler(t *testing.T) {
	out := compiler.Compile(validSource)
	if !out.OK() {
		t.Fatalf("diagnostics: %v", out.Diagnostics)
	}

	mod, err := NewWazeroAssembler().Assemble(context.Background(), out.WAT)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(mod.Binary) == 0 {
		t.Fatal("empty binary")
	}
	want := []string{"alloc", "create_Pool", "map_Swaps", "memory"}
	if len(mod.Exports) != len(want) {
		t.Fatalf("exports = %v, want %v", mod.Exports, want)
	}
	for i := range want {
		if mod.Exports[i] != want[i] {
			t.Errorf("exports[%d] = %q, want %q", i, mod.Exports[i], want[i])
		}
	}
}

func TestWazeroAssemblerRejectsBadWAT(t *testing.T) {
	if _, err := NewWazeroAssembler().Assemble(context.Background(), "(module (bogus))"); err == nil {
		t.Fatal("expected error")
	}
}

// Any source that compiles must also assemble; a newline smuggled into a
// string-literal address must not corrupt the generated WAT.
func TestPipelineNewlineAddressAssembles(t *testing.T) {
	src := "struct S { v: u64 }\nindex I { source: ethereum(\"abc\ndef)\"), map: { v: u256 } }"

	res, err := New().Compile(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() {
		t.Fatalf("diagnostics: %v", res.Diagnostics)
	}
}

// End to end through the real assembler.
func TestPipelineEndToEnd(t *testing.T) {
	p := New()
	res, err := p.Compile(context.Background(), validSource)
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() {
		t.Fatalf("diagnostics: %v", res.Diagnostics)
	}
	if len(res.Binary) < 8 {
		t.Errorf("binary too small: %d bytes", len(res.Binary))
	}
}
