package compiler

import (
	"github.com/chainweave/chaindsl/compiler/internal/codegen"
	"github.com/chainweave/chaindsl/compiler/internal/parser"
	"github.com/chainweave/chaindsl/compiler/internal/token"
	"github.com/chainweave/chaindsl/compiler/internal/validate"
	"github.com/chainweave/chaindsl/errors"
)

// FieldSchema describes one column of the table the storage collaborator
// creates for a struct or index map. Fields appear in declaration order.
type FieldSchema struct {
	Name     string
	DSLType  string
	Nullable bool
}

// StructSchema is the ordered field metadata accompanying one exported
// constructor.
type StructSchema struct {
	Name   string
	Fields []FieldSchema
}

// Result is the sole artifact a compile call produces. On failure WAT is
// empty and Diagnostics is non-empty; on success WAT holds the module text
// and Exports lists its entry points in emission order.
type Result struct {
	WAT         string
	Exports     []string
	Schema      []StructSchema
	Diagnostics []errors.Diagnostic
}

// OK reports whether the compile produced a module: no diagnostic carries
// error severity.
func (r *Result) OK() bool {
	return !errors.HasErrors(r.Diagnostics)
}

type config struct {
	file      string
	maxDepth  int
	maxTokens int
}

// Option configures a single Compile call.
type Option func(*config)

// WithFile attaches a file name to diagnostics and source locations.
func WithFile(name string) Option {
	return func(c *config) { c.file = name }
}

// WithMaxDepth overrides the parser's nesting limit (default 256).
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}

// WithMaxTokens bounds the token stream; 0 means unlimited. Set this when
// the source arrives over the wire.
func WithMaxTokens(n int) Option {
	return func(c *config) { c.maxTokens = n }
}

// Compile runs the full pipeline on one source text: tokenize, parse,
// validate, generate. It is pure and stateless: identical input yields
// identical output, and concurrent calls share nothing. Malformed input
// never produces an error return in the Go sense; every failure surfaces
// as a diagnostic in the result.
func Compile(source string, opts ...Option) *Result {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	tokens, err := token.TokenizeLimit(source, cfg.maxTokens)
	if err != nil {
		return &Result{Diagnostics: toDiagnostics(err)}
	}

	p := parser.New(cfg.file, tokens)
	if cfg.maxDepth > 0 {
		p.SetMaxDepth(cfg.maxDepth)
	}
	file, diags := p.Parse()
	if errors.HasErrors(diags) || file == nil {
		return &Result{Diagnostics: diags}
	}

	diags = append(diags, validate.Validate(file)...)
	if errors.HasErrors(diags) {
		return &Result{Diagnostics: diags}
	}

	out := codegen.Generate(file)
	return &Result{
		WAT:         out.WAT,
		Exports:     out.Exports,
		Schema:      toSchema(out.Schema),
		Diagnostics: diags,
	}
}

func toDiagnostics(err error) []errors.Diagnostic {
	if e, ok := err.(*errors.Error); ok {
		return []errors.Diagnostic{e.Diagnostic()}
	}
	return []errors.Diagnostic{{Message: err.Error(), Severity: errors.SeverityError}}
}

func toSchema(in []codegen.StructSchema) []StructSchema {
	out := make([]StructSchema, len(in))
	for i, s := range in {
		fields := make([]FieldSchema, len(s.Fields))
		for j, f := range s.Fields {
			fields[j] = FieldSchema{Name: f.Name, DSLType: f.DSLType, Nullable: f.Nullable}
		}
		out[i] = StructSchema{Name: s.Name, Fields: fields}
	}
	return out
}
