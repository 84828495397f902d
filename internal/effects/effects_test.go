package effects

import (
	"testing"

	"drift/internal/diag"
	"drift/internal/hir"
	"drift/internal/mir"
	"drift/internal/sema"
	"drift/internal/types"
)

func lowerFallible(t *testing.T, retValue hir.Expr) (*mir.Module, *types.Interner) {
	t.Helper()
	prog := &hir.Program{Funcs: []*hir.FuncDecl{{
		Name:     "parse",
		Fallible: true,
		Throws:   []string{"Bad"},
		Body: []hir.Stmt{
			&hir.LetStmt{Name: "x", Init: &hir.IntLit{Value: 1}},
			&hir.ReturnStmt{Value: retValue},
		},
	}}}
	bag := diag.NewBag(100)
	mod := hir.Lower(prog, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected lowering diagnostics: %v", bag.Items())
	}
	ti := types.NewInterner()
	b := ti.Builtins()
	sigs := map[string]*sema.FuncSig{
		"parse": {
			Name:     "parse",
			Result:   ti.RegisterFnResult(b.Int, b.Error),
			Fallible: true,
			Throws:   map[string]struct{}{"Bad": {}},
		},
	}
	checker := sema.NewChecker(ti, bag)
	for name, sig := range sigs {
		checker.Funcs[name] = sig
	}
	checker.CheckModule(mod)
	if bag.HasErrors() {
		t.Fatalf("unexpected sema diagnostics: %v", bag.Items())
	}
	return mir.Lower(mod, sigs, ti), ti
}

// A bare `return x;` in a fallible function never runs through a result
// constructor — sema's own HReturn handling (typecheck.go) only infers the
// value's type and never compares it against the declared signature, so
// this is exactly the gap stage-4 invariant checking exists to close.
func TestCheckRejectsUnwrappedReturn(t *testing.T) {
	m, ti := lowerFallible(t, &hir.VarRef{Name: "x"})
	if err := Check(m, ti); err == nil {
		t.Fatalf("expected a violation for a fallible function returning an unwrapped value")
	}
}

func TestCheckAcceptsOkWrappedReturn(t *testing.T) {
	m, ti := lowerFallible(t, &hir.ResultCtor{IsErr: false, Value: &hir.VarRef{Name: "x"}})
	if err := Check(m, ti); err != nil {
		t.Fatalf("expected an Ok-wrapped return to satisfy stage-4 invariants, got: %v", err)
	}
}

func TestCheckAcceptsErrWrappedReturn(t *testing.T) {
	m, ti := lowerFallible(t, &hir.ResultCtor{IsErr: true, Value: &hir.DiagnosticInit{EventName: "Bad"}})
	if err := Check(m, ti); err != nil {
		t.Fatalf("expected an Err-wrapped return to satisfy stage-4 invariants, got: %v", err)
	}
}

func TestCheckRejectsNonFallibleConstructingError(t *testing.T) {
	prog := &hir.Program{Funcs: []*hir.FuncDecl{{
		Name: "drift_main",
		Body: []hir.Stmt{
			&hir.LetStmt{Name: "e", Init: &hir.DiagnosticInit{EventName: "Bad"}},
			&hir.ReturnStmt{},
		},
	}}}
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
	m := mir.Lower(mod, map[string]*sema.FuncSig{}, ti)
	if err := Check(m, ti); err == nil {
		t.Fatalf("expected a violation: a non-fallible function constructed an Error")
	}
}
