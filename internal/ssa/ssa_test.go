package ssa

import (
	"errors"
	"testing"

	"drift/internal/diag"
	"drift/internal/hir"
	"drift/internal/mir"
	"drift/internal/sema"
	"drift/internal/types"
)

func lowerAndCheck(t *testing.T, prog *hir.Program) (*mir.Module, *types.Interner) {
	t.Helper()
	bag := diag.NewBag(100)
	mod := hir.Lower(prog, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected lowering diagnostics: %v", bag.Items())
	}
	ti := types.NewInterner()
	checker := sema.NewChecker(ti, bag)
	checker.CheckModule(mod)
	if bag.HasErrors() {
		t.Fatalf("unexpected sema diagnostics: %v", bag.Items())
	}
	return mir.Lower(mod, map[string]*sema.FuncSig{}, ti), ti
}

func TestBuildAcceptsAcyclicIf(t *testing.T) {
	prog := &hir.Program{Funcs: []*hir.FuncDecl{{
		Name: "drift_main",
		Body: []hir.Stmt{
			&hir.LetStmt{Name: "x", Init: &hir.IntLit{Value: 1}},
			&hir.IfStmt{
				Cond: &hir.BoolLit{Value: true},
				Then: []hir.Stmt{&hir.AssignStmt{Target: &hir.VarRef{Name: "x"}, Value: &hir.IntLit{Value: 2}}},
				Else: []hir.Stmt{&hir.AssignStmt{Target: &hir.VarRef{Name: "x"}, Value: &hir.IntLit{Value: 3}}},
			},
			&hir.ReturnStmt{Value: &hir.VarRef{Name: "x"}},
		},
	}}}

	m, _ := lowerAndCheck(t, prog)
	if _, err := Build(m); err != nil {
		t.Fatalf("expected an acyclic if/else to pass SSA confirmation, got: %v", err)
	}
}

func TestBuildRejectsWhileLoop(t *testing.T) {
	prog := &hir.Program{Funcs: []*hir.FuncDecl{{
		Name: "drift_main",
		Body: []hir.Stmt{
			&hir.LetStmt{Name: "x", Init: &hir.IntLit{Value: 0}},
			&hir.WhileStmt{
				Cond: &hir.BoolLit{Value: true},
				Body: []hir.Stmt{
					&hir.AssignStmt{Target: &hir.VarRef{Name: "x"}, Value: &hir.IntLit{Value: 1}},
				},
			},
			&hir.ReturnStmt{Value: &hir.VarRef{Name: "x"}},
		},
	}}}

	m, _ := lowerAndCheck(t, prog)
	_, err := Build(m)
	if err == nil {
		t.Fatalf("expected a while loop to be rejected by v1's acyclic-only SSA contract")
	}
	var loopErr *LoopError
	if !errors.As(err, &loopErr) {
		t.Fatalf("expected a *LoopError, got: %v", err)
	}
}
