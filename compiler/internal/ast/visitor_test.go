package ast

import (
	"math/big"
	"testing"
)

func sampleFile() *SourceFile {
	u64 := &Primitive{Name: "u64"}
	return &SourceFile{
		File: "sample.dsl",
		Items: []Item{
			&Struct{
				Name: "Pool",
				Fields: []Field{
					{Name: "liquidity", Type: &Primitive{Name: "u256"}},
					{Name: "fee", Type: u64},
				},
			},
			&Function{
				Name: "total",
				Body: &Block{Stmts: []Stmt{
					&Return{Value: &Binary{
						Op:    "+",
						Left:  &Ident{Name: "a"},
						Right: &IntLit{Value: big.NewInt(1)},
					}},
				}},
			},
			&Module{Items: []Item{
				&Struct{Name: "Inner", Fields: []Field{{Name: "v", Type: u64}}},
			}},
		},
	}
}

func TestInspectVisitsAllNodes(t *testing.T) {
	counts := map[string]int{}
	Inspect(sampleFile(), func(n Node) bool {
		switch n.(type) {
		case *Struct:
			counts["struct"]++
		case *Field:
			counts["field"]++
		case *Binary:
			counts["binary"]++
		case *IntLit:
			counts["int"]++
		}
		return true
	})

	want := map[string]int{"struct": 2, "field": 3, "binary": 1, "int": 1}
	for k, n := range want {
		if counts[k] != n {
			t.Errorf("visited %d %s nodes, want %d", counts[k], k, n)
		}
	}
}

// Returning false prunes the subtree but not the siblings.
func TestInspectPrune(t *testing.T) {
	fields := 0
	Inspect(sampleFile(), func(n Node) bool {
		switch n.(type) {
		case *Struct:
			return false
		case *Field:
			fields++
		}
		return true
	})
	if fields != 0 {
		t.Errorf("pruned struct still yielded %d fields", fields)
	}

	modules := 0
	Inspect(sampleFile(), func(n Node) bool {
		if _, ok := n.(*Module); ok {
			modules++
		}
		return true
	})
	if modules != 1 {
		t.Errorf("sibling module not visited, got %d", modules)
	}
}

type depthVisitor struct {
	depth, max int
}

func (v *depthVisitor) Visit(n Node) Visitor {
	if n == nil {
		v.depth--
		return nil
	}
	v.depth++
	if v.depth > v.max {
		v.max = v.depth
	}
	return v
}

// Walk pairs every Visit(node) with a closing Visit(nil).
func TestWalkBalanced(t *testing.T) {
	v := &depthVisitor{}
	WalkFile(v, sampleFile())
	if v.depth != 0 {
		t.Errorf("unbalanced traversal, final depth %d", v.depth)
	}
	if v.max < 3 {
		t.Errorf("max depth %d, want nesting through struct fields", v.max)
	}
}

func TestPositionPos(t *testing.T) {
	p := Position{File: "a.dsl", Line: 3, Column: 7}
	if got := p.Pos(); got != p {
		t.Errorf("Pos() = %+v", got)
	}
}
