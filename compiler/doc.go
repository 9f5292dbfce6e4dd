// Package compiler turns ChainDSL source text into a WebAssembly text
// format module plus the schema metadata downstream storage needs.
//
// The pipeline is tokenize, parse, validate, generate. Each stage is a
// pure function over its input: no stage performs I/O, mutates the tree a
// previous stage built, or keeps state between calls, so any number of
// Compile calls may run concurrently.
//
// Basic usage:
//
//	res := compiler.Compile(`struct Pool { id: Address, liquidity: u256 }`)
//	if !res.OK() {
//		for _, d := range res.Diagnostics {
//			fmt.Println(d)
//		}
//		return
//	}
//	// res.WAT holds the module text, res.Exports its entry points.
//
// Syntax errors accumulate: a source file with several independent errors
// reports all of them in one call. The parser bounds grammar recursion
// (see WithMaxDepth) because DSL source is untrusted, user-submitted
// input; exceeding the bound yields a single diagnostic, never a crash.
//
// Assembling the WAT into a binary module is the wat and pipeline
// packages' job; this package never depends on them.
package compiler
