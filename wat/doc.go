// Package wat assembles WebAssembly Text format into binary WASM.
//
// It covers the module subset the ChainDSL code generator emits: one
// memory, mutable i32 globals, and functions with named params, locals,
// and folded instructions over the integer ops (const, local/global
// access, add/sub/mul, load/store with offsets, call). Line comments
// (";;") carry schema metadata through the text form and are discarded
// here.
//
// Basic usage:
//
//	wasm, err := wat.Assemble(`(module
//		(func (export "answer") (result i64) (i64.const 42)))`)
//
// The output starts with the standard magic and version and encodes the
// type, function, memory, global, export, and code sections in order.
package wat
