package mir

import (
	"testing"

	"drift/internal/diag"
	"drift/internal/hir"
	"drift/internal/sema"
	"drift/internal/types"
)

func checkedModule(t *testing.T, prog *hir.Program, sigs map[string]*sema.FuncSig) (*hir.Module, *types.Interner) {
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
	return mod, ti
}

func TestLowerStraightLine(t *testing.T) {
	// fn drift_main() { let x = 1; let y = x + 1; return y; }
	prog := &hir.Program{Funcs: []*hir.FuncDecl{{
		Name: "drift_main",
		Body: []hir.Stmt{
			&hir.LetStmt{Name: "x", Init: &hir.IntLit{Value: 1}},
			&hir.LetStmt{Name: "y", Init: &hir.BinaryExpr{Op: "+", Left: &hir.VarRef{Name: "x"}, Right: &hir.IntLit{Value: 1}}},
			&hir.ReturnStmt{Value: &hir.VarRef{Name: "y"}},
		},
	}}}

	mod, ti := checkedModule(t, prog, nil)
	out := Lower(mod, map[string]*sema.FuncSig{}, ti)
	if len(out.Funcs) != 1 {
		t.Fatalf("expected 1 lowered function, got %d", len(out.Funcs))
	}
	f := out.Funcs[0]
	entry := f.Block(f.Entry)
	if entry == nil {
		t.Fatalf("entry block %s missing", f.Entry)
	}
	if entry.Term.Kind != TermReturn || !entry.Term.Return.HasValue {
		t.Fatalf("expected a value-returning terminator, got %v", entry.Term.Kind)
	}
	if err := Validate(out, ti); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLowerIfMergesAssignedLocal(t *testing.T) {
	// fn drift_main() {
	//   let x = 1;
	//   if true { x = 2; } else { x = 3; }
	//   return x;
	// }
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

	mod, ti := checkedModule(t, prog, nil)
	out := Lower(mod, map[string]*sema.FuncSig{}, ti)
	f := out.Funcs[0]

	var join *Block
	for _, name := range f.Order {
		blk := f.Block(name)
		if len(blk.Params) == 1 {
			join = blk
		}
	}
	if join == nil {
		t.Fatalf("expected a join block with one parameter for the reassigned local")
	}
	if join.Term.Kind != TermReturn || join.Term.Return.Value != join.Params[0].Name {
		t.Fatalf("expected the join block to return its own parameter, got %+v", join.Term)
	}
	if err := Validate(out, ti); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLowerFalliblePropagation(t *testing.T) {
	// fn parse(): Int throws Bad { throw Bad{}; }
	// fn drift_main() { let v = parse()?; return v; }
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
				&hir.ReturnStmt{Value: &hir.VarRef{Name: "v"}},
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

	out := Lower(mod, sigs, ti)
	var mainFn *Func
	for _, f := range out.Funcs {
		if f.Name == "drift_main" {
			mainFn = f
		}
	}
	if mainFn == nil {
		t.Fatalf("drift_main not found in lowered module")
	}

	entry := mainFn.Block(mainFn.Entry)
	if entry.Term.Kind != TermCall {
		t.Fatalf("expected the entry block to end in a fallible TermCall, got %v", entry.Term.Kind)
	}
	errBlock := mainFn.Block(entry.Term.Call.Error.Target)
	if errBlock == nil || errBlock.Term.Kind != TermReturn {
		t.Fatalf("expected the error edge to return the propagated error")
	}
	okBlock := mainFn.Block(entry.Term.Call.Normal.Target)
	if okBlock == nil {
		t.Fatalf("expected the normal edge's target block to exist")
	}
	if err := Validate(out, ti); err != nil {
		t.Fatalf("validate: %v", err)
	}
}
