// Package errors provides structured error types for the ChainDSL compiler.
//
// Errors are categorized by Phase (which compiler stage produced the error)
// and Kind (error category). The Error type carries a source position and a
// cause chain, and converts to the Diagnostic record the compilation
// pipeline returns to callers.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseParse, errors.KindUnexpectedToken).
//		At(tok.Line, tok.Column).
//		Detail("expected %s, got %q", "identifier", tok.Lexeme).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.DuplicateField(line, col, "owner", "Pool")
//	err := errors.DepthExceeded(line, col, 256)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
