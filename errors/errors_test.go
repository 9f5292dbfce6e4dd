package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "full",
			err: &Error{
				Phase: PhaseParse, Kind: KindUnexpectedToken,
				Line: 3, Column: 7, Detail: "expected '{', got '}'",
			},
			want: "[parse] unexpected_token at 3:7: expected '{', got '}'",
		},
		{
			name: "no_position",
			err:  &Error{Phase: PhaseValidate, Kind: KindNoStructs, Detail: "a.dsl declares no structs"},
			want: "[validate] no_structs: a.dsl declares no structs",
		},
		{
			name: "with_cause",
			err: &Error{
				Phase: PhaseAssemble, Kind: KindInvalidData,
				Detail: "assemble module", Cause: fmt.Errorf("bad opcode"),
			},
			want: "[assemble] invalid_data: assemble module (caused by: bad opcode)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := UnexpectedToken(1, 1, "'}'", "identifier")
	if !stderrors.Is(err, &Error{Phase: PhaseParse, Kind: KindUnexpectedToken}) {
		t.Error("Is must match on phase and kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseLex, Kind: KindUnexpectedToken}) {
		t.Error("Is must not match across phases")
	}
	if stderrors.Is(err, stderrors.New("other")) {
		t.Error("Is must not match foreign errors")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(PhaseAssemble, KindInvalidData, cause, "assemble module")
	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause not reachable through Unwrap")
	}
}

func TestBuilder(t *testing.T) {
	cause := stderrors.New("root")
	err := New(PhaseValidate, KindDuplicateField).
		At(4, 9).
		Detail("duplicate field name %q in struct %q", "to", "Transfer").
		Cause(cause).
		Build()

	if err.Phase != PhaseValidate || err.Kind != KindDuplicateField {
		t.Errorf("phase/kind = %s/%s", err.Phase, err.Kind)
	}
	if err.Line != 4 || err.Column != 9 {
		t.Errorf("position = %d:%d", err.Line, err.Column)
	}
	if err.Detail != `duplicate field name "to" in struct "Transfer"` {
		t.Errorf("detail = %q", err.Detail)
	}
	if !stderrors.Is(err, cause) {
		t.Error("cause lost")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err        *Error
		phase      Phase
		kind       Kind
		wantDetail string
	}{
		{IllegalChar(1, 2, '#'), PhaseLex, KindIllegalChar, `unexpected character '#'`},
		{UnterminatedString(1, 2), PhaseLex, KindUnterminatedString, "unterminated string literal"},
		{UnexpectedToken(1, 2, "'}'", ""), PhaseParse, KindUnexpectedToken, "unexpected '}'"},
		{UnexpectedToken(1, 2, "'}'", "identifier"), PhaseParse, KindUnexpectedToken, "expected identifier, got '}'"},
		{DepthExceeded(1, 2, 256), PhaseParse, KindDepthExceeded, "nesting exceeds maximum depth 256"},
		{EmptyStruct(1, 2, "Ghost"), PhaseValidate, KindEmptyStruct, `struct "Ghost" must have at least one field`},
		{DuplicateField(1, 2, "to", "T"), PhaseValidate, KindDuplicateField, `duplicate field name "to" in struct "T"`},
		{NoStructs("a.dsl"), PhaseValidate, KindNoStructs, "a.dsl declares no structs"},
		{Timeout(stderrors.New("deadline")), PhaseAssemble, KindTimeout, "compile budget exceeded"},
	}
	for _, tt := range tests {
		if tt.err.Phase != tt.phase || tt.err.Kind != tt.kind {
			t.Errorf("%v: phase/kind = %s/%s, want %s/%s", tt.err, tt.err.Phase, tt.err.Kind, tt.phase, tt.kind)
		}
		if tt.err.Detail != tt.wantDetail {
			t.Errorf("detail = %q, want %q", tt.err.Detail, tt.wantDetail)
		}
	}
}

func TestDiagnosticConversion(t *testing.T) {
	err := EmptyStruct(5, 3, "Ghost")

	d := err.Diagnostic()
	if d.Severity != SeverityError || d.Line != 5 || d.Column != 3 {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Message != `struct "Ghost" must have at least one field` {
		t.Errorf("message = %q", d.Message)
	}

	w := err.Warning()
	if w.Severity != SeverityWarning || w.Message != d.Message {
		t.Errorf("warning = %+v", w)
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Message: "boom", Severity: SeverityError, Line: 2, Column: 4}
	if got := d.String(); got != "error 2:4: boom" {
		t.Errorf("String() = %q", got)
	}
	filed := Diagnostic{Message: "no structs", Severity: SeverityWarning}
	if got := filed.String(); got != "warning: no structs" {
		t.Errorf("String() = %q", got)
	}
}

func TestHasErrors(t *testing.T) {
	if HasErrors(nil) {
		t.Error("empty slice has no errors")
	}
	warn := []Diagnostic{{Severity: SeverityWarning}}
	if HasErrors(warn) {
		t.Error("warnings are not errors")
	}
	if !HasErrors(append(warn, Diagnostic{Severity: SeverityError})) {
		t.Error("error severity not detected")
	}
}
