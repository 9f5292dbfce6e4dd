package pipeline

import (
	"context"
	"sort"

	"github.com/tetratelabs/wazero"

	"github.com/chainweave/chaindsl/wat"
)

// wazeroAssembler encodes WAT through the wat package and validates the
// binary by compiling it in a throwaway wazero runtime, which also yields
// the authoritative export list.
type wazeroAssembler struct{}

// NewWazeroAssembler returns the default Assembler.
func NewWazeroAssembler() Assembler {
	return wazeroAssembler{}
}

func (wazeroAssembler) Assemble(ctx context.Context, watText string) (*Module, error) {
	binary, err := wat.Assemble(watText)
	if err != nil {
		return nil, err
	}

	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, binary)
	if err != nil {
		return nil, err
	}
	defer compiled.Close(ctx)

	var exports []string
	for name := range compiled.ExportedFunctions() {
		exports = append(exports, name)
	}
	for name := range compiled.ExportedMemories() {
		exports = append(exports, name)
	}
	sort.Strings(exports)

	return &Module{Binary: binary, Exports: exports}, nil
}
