// Package chaindsl compiles a blockchain-indexing DSL to WebAssembly.
//
// Source text declaring structs, indexes, and queries is compiled to a WAT
// module whose exports construct records and map chain events into them,
// then assembled to a binary and validated in a wazero runtime.
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	chaindsl/
//	├── compiler/        Source text to WAT: lexing, parsing, validation, codegen
//	├── wat/             WAT text format to WASM binary assembler
//	├── pipeline/        Compile-and-assemble orchestration with wazero
//	├── errors/          Structured error types and diagnostics
//	└── cmd/chainc/      Command-line compiler and interactive mode
//
// # Quick Start
//
// Compile a source file and assemble it:
//
//	p := pipeline.New()
//	res, err := p.Compile(ctx, source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range res.Diagnostics {
//	    fmt.Println(d)
//	}
//	if res.OK() {
//	    os.WriteFile("out.wasm", res.Binary, 0o644)
//	}
//
// For WAT text without assembly, call compiler.Compile directly; it is pure
// and safe for concurrent use.
package chaindsl
