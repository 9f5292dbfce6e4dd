package errors

import (
	"fmt"
	"strings"
)

// Severity classifies a diagnostic
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is the user-facing record produced by every compiler stage.
// Line and Column are 1-based; zero means the diagnostic has no position
// (file-level rules).
type Diagnostic struct {
	Message  string
	Severity Severity
	Line     int
	Column   int
}

// String renders the diagnostic in "severity line:col message" form
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(string(d.Severity))
	if d.Line > 0 {
		fmt.Fprintf(&b, " %d:%d", d.Line, d.Column)
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// Diagnostic converts the structured error to its user-facing form
func (e *Error) Diagnostic() Diagnostic {
	return Diagnostic{
		Message:  e.Detail,
		Severity: SeverityError,
		Line:     e.Line,
		Column:   e.Column,
	}
}

// Warning converts the structured error to a warning-severity diagnostic
func (e *Error) Warning() Diagnostic {
	d := e.Diagnostic()
	d.Severity = SeverityWarning
	return d
}

// HasErrors reports whether any diagnostic carries error severity
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
