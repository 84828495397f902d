package hir

import (
	"testing"

	"drift/internal/diag"
)

func TestLowerResolvesLetAndVarRef(t *testing.T) {
	prog := &Program{Funcs: []*FuncDecl{{
		Name: "drift_main",
		Body: []Stmt{
			&LetStmt{Name: "x", Init: &IntLit{Value: 1}},
			&ReturnStmt{Value: &VarRef{Name: "x"}},
		},
	}}}

	bag := diag.NewBag(100)
	mod := Lower(prog, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	fn := mod.Funcs[0]
	let := fn.Body[0].(*HLet)
	ret := fn.Body[1].(*HReturn)
	v := ret.Value.(*HVar)
	if v.Binding != let.ID {
		t.Fatalf("HVar did not resolve to its Let binding: %d != %d", v.Binding, let.ID)
	}
}

func TestLowerReportsUnresolvedName(t *testing.T) {
	prog := &Program{Funcs: []*FuncDecl{{
		Name: "f",
		Body: []Stmt{&ReturnStmt{Value: &VarRef{Name: "missing"}}},
	}}}

	bag := diag.NewBag(100)
	Lower(prog, bag)
	if !bag.HasErrors() {
		t.Fatalf("expected an unresolved-name diagnostic")
	}
}

func TestLowerForExpandsToIteratorAndWhile(t *testing.T) {
	prog := &Program{Funcs: []*FuncDecl{{
		Name: "f",
		Body: []Stmt{
			&ForStmt{
				Name: "item",
				Iter: &VarRef{Name: "items"},
				Body: []Stmt{&ExprStmt{Value: &VarRef{Name: "item"}}},
			},
		},
	}}}
	prog.Funcs[0].Params = []Param{{Name: "items"}}

	bag := diag.NewBag(100)
	mod := Lower(prog, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	fn := mod.Funcs[0]
	if len(fn.Body) != 2 {
		t.Fatalf("expected iterator let + while, got %d statements", len(fn.Body))
	}
	if _, ok := fn.Body[0].(*HLet); !ok {
		t.Fatalf("expected hidden iterator Let first, got %T", fn.Body[0])
	}
	while, ok := fn.Body[1].(*HWhile)
	if !ok {
		t.Fatalf("expected While second, got %T", fn.Body[1])
	}
	if len(while.Body) != 2 {
		t.Fatalf("expected next()-bind + original body, got %d stmts", len(while.Body))
	}
}
