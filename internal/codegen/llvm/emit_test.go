package llvm

import (
	"strings"
	"testing"

	"drift/internal/diag"
	"drift/internal/hir"
	"drift/internal/sema"
	"drift/internal/ssa"
	mirpkg "drift/internal/mir"
	"drift/internal/types"
)

func buildSSA(t *testing.T, prog *hir.Program, sigs map[string]*sema.FuncSig) (*ssa.Module, *types.Interner) {
	t.Helper()
	bag := diag.NewBag(100)
	mod := hir.Lower(prog, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected lowering diagnostics: %v", bag.Items())
	}
	ti := types.NewInterner()
	checker := sema.NewChecker(ti, bag)
	for name, sig := range sigs {
		checker.Funcs[name] = sig
	}
	checker.CheckModule(mod)
	if bag.HasErrors() {
		t.Fatalf("unexpected sema diagnostics: %v", bag.Items())
	}
	m := mirpkg.Lower(mod, sigs, ti)
	if err := mirpkg.Validate(m, ti); err != nil {
		t.Fatalf("validate: %v", err)
	}
	out, err := ssa.Build(m)
	if err != nil {
		t.Fatalf("ssa.Build: %v", err)
	}
	return out, ti
}

func TestEmitStraightLine(t *testing.T) {
	prog := &hir.Program{Funcs: []*hir.FuncDecl{{
		Name: "drift_main",
		Body: []hir.Stmt{
			&hir.LetStmt{Name: "x", Init: &hir.IntLit{Value: 1}},
			&hir.LetStmt{Name: "y", Init: &hir.BinaryExpr{Op: "+", Left: &hir.VarRef{Name: "x"}, Right: &hir.IntLit{Value: 1}}},
			&hir.ReturnStmt{Value: &hir.VarRef{Name: "y"}},
		},
	}}}
	m, ti := buildSSA(t, prog, nil)
	text, err := EmitModule(m, ti)
	if err != nil {
		t.Fatalf("EmitModule: %v", err)
	}
	if !strings.Contains(text, "define void @drift_main()") {
		t.Fatalf("expected a void-returning drift_main (no declared result sig), got:\n%s", text)
	}
	if !strings.Contains(text, "= add i64") {
		t.Fatalf("expected materialized int constants, got:\n%s", text)
	}
}

func TestEmitIfJoinEmitsPhi(t *testing.T) {
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
	m, ti := buildSSA(t, prog, nil)
	text, err := EmitModule(m, ti)
	if err != nil {
		t.Fatalf("EmitModule: %v", err)
	}
	if !strings.Contains(text, "= phi i64") {
		t.Fatalf("expected a phi node at the if/else join, got:\n%s", text)
	}
}

func TestEmitRejectsFallibleCallTerminator(t *testing.T) {
	prog := &hir.Program{Funcs: []*hir.FuncDecl{
		{
			Name:     "parse",
			Fallible: true,
			Throws:   []string{"Bad"},
			Body: []hir.Stmt{
				&hir.ThrowStmt{Value: &hir.DiagnosticInit{EventName: "Bad"}},
			},
		},
		{
			Name:     "drift_main",
			Fallible: true,
			Throws:   []string{"Bad"},
			Body: []hir.Stmt{
				&hir.LetStmt{Name: "v", Init: &hir.TryExpr{Call: &hir.CallExpr{Callee: &hir.VarRef{Name: "parse"}}}},
				&hir.ReturnStmt{Value: &hir.ResultCtor{IsErr: false, Value: &hir.VarRef{Name: "v"}}},
			},
		},
	}}

	ti := types.NewInterner()
	b := ti.Builtins()
	sigs := map[string]*sema.FuncSig{
		"parse": {
			Name:     "parse",
			Result:   ti.RegisterFnResult(b.Int, b.Error),
			Fallible: true,
			Throws:   map[string]struct{}{"Bad": {}},
		},
		"drift_main": {
			Name:     "drift_main",
			Result:   ti.RegisterFnResult(b.Int, b.Error),
			Fallible: true,
			Throws:   map[string]struct{}{"Bad": {}},
		},
	}

	bag := diag.NewBag(100)
	mod := hir.Lower(prog, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected lowering diagnostics: %v", bag.Items())
	}
	checker := sema.NewChecker(ti, bag)
	for name, sig := range sigs {
		checker.Funcs[name] = sig
	}
	checker.CheckModule(mod)
	if bag.HasErrors() {
		t.Fatalf("unexpected sema diagnostics: %v", bag.Items())
	}
	m := mirpkg.Lower(mod, sigs, ti)
	ssaMod, err := ssa.Build(m)
	if err != nil {
		t.Fatalf("ssa.Build: %v", err)
	}
	if _, err := EmitModule(ssaMod, ti); err == nil {
		t.Fatalf("expected v1's LLVM lowering to reject a function containing a fallible TermCall")
	}
}
