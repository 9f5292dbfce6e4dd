package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chainweave/chaindsl/compiler"
	"github.com/chainweave/chaindsl/errors"
)

// Assembler turns WAT text into a binary module and its export list. The
// call must honor ctx: assembly is the pipeline's only boundary that can
// be slow on pathological input, so it is cancellable.
type Assembler interface {
	Assemble(ctx context.Context, watText string) (*Module, error)
}

// Module is an assembled binary and the exports the assembler observed in
// it.
type Module struct {
	Binary  []byte
	Exports []string
}

// CompileResult is the pipeline's artifact: the compiler's output plus the
// assembled binary. Binary is nil exactly when Diagnostics contains an
// error-severity record.
type CompileResult struct {
	WAT         string
	Binary      []byte
	Exports     []string
	Schema      []compiler.StructSchema
	Diagnostics []errors.Diagnostic
}

// OK reports whether the pipeline produced a loadable module.
func (r *CompileResult) OK() bool {
	return !errors.HasErrors(r.Diagnostics) && r.Binary != nil
}

type Pipeline struct {
	asm      Assembler
	log      *zap.Logger
	timeout  time.Duration
	compOpts []compiler.Option
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAssembler overrides the default wazero-backed assembler.
func WithAssembler(a Assembler) Option {
	return func(p *Pipeline) { p.asm = a }
}

// WithLogger attaches a logger; the default is a nop.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithTimeout bounds each Compile call's assemble step. Zero means no
// bound beyond the caller's ctx.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.timeout = d }
}

// WithCompilerOptions forwards options to every compiler.Compile call.
func WithCompilerOptions(opts ...compiler.Option) Option {
	return func(p *Pipeline) { p.compOpts = append(p.compOpts, opts...) }
}

// New builds a pipeline. A Pipeline is safe for concurrent use: each
// Compile call owns its token and tree buffers, so no locking is needed.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		asm: NewWazeroAssembler(),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Compile runs the full pipeline on one source text. Malformed input never
// returns a Go error: every failure surfaces as a diagnostic in the
// result. The error return is reserved for cancellation of the assemble
// boundary, and even then the result carries the matching diagnostic.
func (p *Pipeline) Compile(ctx context.Context, source string) (*CompileResult, error) {
	start := time.Now()

	res := compiler.Compile(source, p.compOpts...)
	out := &CompileResult{
		WAT:         res.WAT,
		Schema:      res.Schema,
		Diagnostics: res.Diagnostics,
	}
	if !res.OK() {
		p.log.Debug("compile failed",
			zap.Int("diagnostics", len(res.Diagnostics)),
			zap.Duration("elapsed", time.Since(start)))
		return out, nil
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	mod, err := p.asm.Assemble(ctx, res.WAT)
	if err != nil {
		wrapped := errors.AssembleFailed(err)
		if ctx.Err() != nil {
			wrapped = errors.Timeout(err)
		}
		out.Diagnostics = append(out.Diagnostics, wrapped.Diagnostic())
		p.log.Warn("assemble failed", zap.Error(err))
		if ctx.Err() != nil {
			return out, wrapped
		}
		return out, nil
	}

	out.Binary = mod.Binary
	out.Exports = mod.Exports
	p.log.Debug("compile ok",
		zap.Int("binary_bytes", len(mod.Binary)),
		zap.Int("exports", len(mod.Exports)),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}
