// Package validate performs structural checks on a parsed tree. It runs
// independently of code generation, consults no external state, and only
// produces diagnostics; the tree is never modified.
package validate

import (
	"github.com/chainweave/chaindsl/compiler/internal/ast"
	"github.com/chainweave/chaindsl/errors"
)

// Validate walks the file and returns every structural diagnostic. A
// diagnostic never suppresses detection of later ones.
func Validate(file *ast.SourceFile) []errors.Diagnostic {
	v := &checker{}

	ast.Inspect(file, func(node ast.Node) bool {
		switch n := node.(type) {
		case *ast.Struct:
			v.structs++
			v.checkStruct(n)
		case *ast.Event:
			v.checkEvent(n)
		case *ast.Index:
			v.checkIndex(n)
		}
		return true
	})

	v.checkDuplicateStructs(file)

	if v.structs == 0 {
		name := file.File
		if name == "" {
			name = "source"
		}
		v.diags = append(v.diags, errors.NoStructs(name).Diagnostic())
	}

	return v.diags
}

type checker struct {
	diags   []errors.Diagnostic
	structs int
}

func (v *checker) checkStruct(s *ast.Struct) {
	if len(s.Fields) == 0 {
		v.diags = append(v.diags, errors.EmptyStruct(s.Line, s.Column, s.Name).Diagnostic())
		return
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if seen[f.Name] {
			v.diags = append(v.diags,
				errors.DuplicateField(f.Line, f.Column, f.Name, s.Name).Diagnostic())
			continue
		}
		seen[f.Name] = true
	}
}

func (v *checker) checkEvent(e *ast.Event) {
	seen := make(map[string]bool, len(e.Fields))
	for _, f := range e.Fields {
		if seen[f.Name] {
			v.diags = append(v.diags, errors.New(errors.PhaseValidate, errors.KindDuplicateField).
				At(f.Line, f.Column).
				Detail("duplicate field name %q in event %q", f.Name, e.Name).
				Build().Diagnostic())
			continue
		}
		seen[f.Name] = true
	}
}

// checkIndex applies the struct field rules to the index's map block, which
// downstream storage turns into a table the same way it does a struct.
func (v *checker) checkIndex(idx *ast.Index) {
	seen := make(map[string]bool, len(idx.Map))
	for _, f := range idx.Map {
		if seen[f.Name] {
			v.diags = append(v.diags, errors.New(errors.PhaseValidate, errors.KindDuplicateField).
				At(f.Line, f.Column).
				Detail("duplicate field name %q in index %q", f.Name, idx.Name).
				Build().Diagnostic())
			continue
		}
		seen[f.Name] = true
	}
}

// checkDuplicateStructs flags repeated struct names at file level. This is
// a warning: the later declaration shadows the earlier one downstream but
// the module itself is still well formed.
func (v *checker) checkDuplicateStructs(file *ast.SourceFile) {
	seen := make(map[string]bool)
	ast.Inspect(file, func(node ast.Node) bool {
		s, ok := node.(*ast.Struct)
		if !ok {
			return true
		}
		if seen[s.Name] {
			v.diags = append(v.diags, errors.New(errors.PhaseValidate, errors.KindDuplicateItem).
				At(s.Line, s.Column).
				Detail("struct %q declared more than once", s.Name).
				Build().Warning())
		}
		seen[s.Name] = true
		return true
	})
}
