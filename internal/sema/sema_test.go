package sema

import (
	"strings"
	"testing"

	"drift/internal/diag"
	"drift/internal/hir"
	"drift/internal/types"
)

func TestBorrowConflictDetected(t *testing.T) {
	// let x = 1; let r = &x; &mut x; r;
	prog := &hir.Program{Funcs: []*hir.FuncDecl{{
		Name: "drift_main",
		Body: []hir.Stmt{
			&hir.LetStmt{Name: "x", Init: &hir.IntLit{Value: 1}},
			&hir.LetStmt{Name: "r", Init: &hir.BorrowExpr{Place: &hir.VarRef{Name: "x"}, Mutable: false}},
			&hir.ExprStmt{Value: &hir.BorrowExpr{Place: &hir.VarRef{Name: "x"}, Mutable: true}},
			&hir.ExprStmt{Value: &hir.VarRef{Name: "r"}},
		},
	}}}

	bag := diag.NewBag(100)
	mod := hir.Lower(prog, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected lowering diagnostics: %v", bag.Items())
	}

	ti := types.NewInterner()
	checker := NewChecker(ti, bag)
	checker.CheckModule(mod)

	if !bag.HasErrors() {
		t.Fatalf("expected a borrow conflict diagnostic")
	}
	found := false
	for _, d := range bag.Items() {
		if strings.Contains(strings.ToLower(d.Message), "borrow") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a diagnostic mentioning 'borrow', got: %v", bag.Items())
	}
}

func TestAutoBorrowAtCallSite(t *testing.T) {
	// fn foo(r: &Int) {}
	// fn drift_main() { let x = 1; foo(x); x; }
	prog := &hir.Program{Funcs: []*hir.FuncDecl{
		{
			Name:   "foo",
			Params: []hir.Param{{Name: "r"}},
		},
		{
			Name: "drift_main",
			Body: []hir.Stmt{
				&hir.LetStmt{Name: "x", Init: &hir.IntLit{Value: 1}},
				&hir.ExprStmt{Value: &hir.CallExpr{Callee: &hir.VarRef{Name: "foo"}, Args: []hir.Expr{&hir.VarRef{Name: "x"}}}},
				&hir.ExprStmt{Value: &hir.VarRef{Name: "x"}},
			},
		},
	}}

	bag := diag.NewBag(100)
	mod := hir.Lower(prog, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected lowering diagnostics: %v", bag.Items())
	}

	ti := types.NewInterner()
	b := ti.Builtins()
	checker := NewChecker(ti, bag)
	checker.Funcs["foo"] = &FuncSig{
		Name:   "foo",
		Params: []ParamSig{{Name: "r", Type: ti.Intern(types.MakeReference(b.Int, false)), Ref: ByRef}},
		Result: b.Unit,
	}
	checker.CheckModule(mod)

	if bag.HasErrors() {
		t.Fatalf("expected no diagnostics for auto-borrow, got: %v", bag.Items())
	}
}

func TestThrowDisciplineRejectsUndeclaredEvent(t *testing.T) {
	prog := &hir.Program{Funcs: []*hir.FuncDecl{{
		Name:     "f",
		Fallible: true,
		Throws:   []string{"Known"},
		Body: []hir.Stmt{
			&hir.ThrowStmt{Value: &hir.DiagnosticInit{EventName: "Other"}},
		},
	}}}

	bag := diag.NewBag(100)
	mod := hir.Lower(prog, bag)
	ti := types.NewInterner()
	checker := NewChecker(ti, bag)
	checker.CheckModule(mod)

	if !bag.HasErrors() {
		t.Fatalf("expected an undeclared-throw-event diagnostic")
	}
}

func TestNothrowFunctionMayNotThrow(t *testing.T) {
	prog := &hir.Program{Funcs: []*hir.FuncDecl{{
		Name: "f",
		Body: []hir.Stmt{
			&hir.ThrowStmt{Value: &hir.DiagnosticInit{EventName: "Boom"}},
		},
	}}}

	bag := diag.NewBag(100)
	mod := hir.Lower(prog, bag)
	ti := types.NewInterner()
	checker := NewChecker(ti, bag)
	checker.CheckModule(mod)

	if !bag.HasErrors() {
		t.Fatalf("expected a nothrow-may-throw diagnostic")
	}
}
