// Package pipeline orchestrates a full ChainDSL compilation: source text
// through the pure compiler stages, then the generated WAT through an
// Assembler to obtain a loadable binary module and its export list.
//
// The compiler stages are deterministic pure functions, so the pipeline
// never retries them; only the assemble boundary is cancellable and
// subject to a time budget, because an assembler may be slow on
// pathological WAT. Cancellation simply discards the request's buffers;
// no shared state exists to corrupt.
//
//	p := pipeline.New(pipeline.WithTimeout(5 * time.Second))
//	res, err := p.Compile(ctx, source)
//	if res.OK() {
//		deploy(res.Binary, res.Exports, res.Schema)
//	}
package pipeline
