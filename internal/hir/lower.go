package hir

import (
	"drift/internal/diag"
	"drift/internal/source"
)

// Lower turns a parsed Program into a binding-resolved, sugar-reduced
// Module. Diagnostics for unresolved names are collected into bag rather
// than aborting lowering, matching the checker's "collect, don't abort"
// discipline carried through every later stage.
func Lower(prog *Program, bag *diag.Bag) *Module {
	mod := &Module{}
	for _, fn := range prog.Funcs {
		mod.Funcs = append(mod.Funcs, lowerFunc(fn, bag))
	}
	return mod
}

func lowerFunc(fn *FuncDecl, bag *diag.Bag) *Func {
	b := newBinder()
	out := &Func{
		Name:     fn.Name,
		Fallible: fn.Fallible,
		Throws:   fn.Throws,
		Span:     fn.Span,
	}
	for _, p := range fn.Params {
		id := b.declare(p.Name)
		out.Params = append(out.Params, id)
		out.ParamNames = append(out.ParamNames, p.Name)
	}
	out.Body = lowerBlock(fn.Body, b, bag)
	out.NumLocals = uint32(b.next)
	return out
}

func lowerBlock(stmts []Stmt, b *binder, bag *diag.Bag) []Stmt {
	out := make([]Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, lowerStmt(s, b, bag)...)
	}
	return out
}

// lowerStmt returns a slice because `for` expands into more than one
// statement (an iterator let followed by a while loop).
func lowerStmt(s Stmt, b *binder, bag *diag.Bag) []Stmt {
	switch st := s.(type) {
	case *LetStmt:
		init := lowerExpr(st.Init, b, bag)
		id := b.declare(st.Name)
		return []Stmt{&HLet{ID: id, Name: st.Name, Init: init, Span: st.Span}}
	case *AssignStmt:
		return []Stmt{&HAssign{
			Target: lowerExpr(st.Target, b, bag),
			Value:  lowerExpr(st.Value, b, bag),
			Span:   st.Span,
		}}
	case *IfStmt:
		cond := lowerExpr(st.Cond, b, bag)
		b.push()
		then := lowerBlock(st.Then, b, bag)
		b.pop()
		b.push()
		els := lowerBlock(st.Else, b, bag)
		b.pop()
		return []Stmt{&HIf{Cond: cond, Then: then, Else: els, Span: st.Span}}
	case *WhileStmt:
		cond := lowerExpr(st.Cond, b, bag)
		b.push()
		body := lowerBlock(st.Body, b, bag)
		b.pop()
		return []Stmt{&HWhile{Cond: cond, Body: body, Span: st.Span}}
	case *ForStmt:
		return lowerFor(st, b, bag)
	case *TryStmt:
		body := func() []Stmt {
			b.push()
			defer b.pop()
			return lowerBlock(st.Body, b, bag)
		}()
		arms := make([]HCatchArm, 0, len(st.Catches))
		for _, c := range st.Catches {
			b.push()
			bindID := LocalID(NoLocalID)
			if c.Binding != "" {
				bindID = b.declare(c.Binding)
			}
			armBody := lowerBlock(c.Body, b, bag)
			b.pop()
			arms = append(arms, HCatchArm{EventName: c.EventName, Binding: bindID, Body: armBody})
		}
		return []Stmt{&HTry{Body: body, Catches: arms, Span: st.Span}}
	case *ReturnStmt:
		var val Expr
		if st.Value != nil {
			val = lowerExpr(st.Value, b, bag)
		}
		return []Stmt{&HReturn{Value: val, Span: st.Span}}
	case *ThrowStmt:
		return []Stmt{&HThrow{Value: lowerExpr(st.Value, b, bag), Span: st.Span}}
	case *ExprStmt:
		return []Stmt{&HExprStmt{Value: lowerExpr(st.Value, b, bag), Span: st.Span}}
	case *ImportStmt:
		return []Stmt{&HImport{Path: st.Path, Span: st.Span}}
	default:
		return nil
	}
}

// lowerFor expands `for x in expr { body }` per spec §4.2: introduce a
// hidden iterator local, loop while its `next()` yields an Ok-shaped
// optional arm, binding x to the payload and exiting on the empty arm.
// Since this module has no runtime Option type of its own, the desugared
// form keeps the iterator binding and a HWhile guarded by a synthetic
// "has next" call, leaving the concrete iterator protocol to the callee's
// declared signature — the shape the checker and MIR builder need (a
// binding id for the iterator, a loop body scoped under x) is what
// matters here.
func lowerFor(st *ForStmt, b *binder, bag *diag.Bag) []Stmt {
	iter := lowerExpr(st.Iter, b, bag)
	iterID := b.declare(syntheticName("iter", st.Span))
	iterLet := &HLet{ID: iterID, Name: "$iter", Init: iter, Span: st.Span}

	b.push()
	defer b.pop()
	cond := &HMethodCall{
		Receiver: &HVar{Name: "$iter", Binding: iterID, Span: st.Span},
		Method:   "has_next",
		Span:     st.Span,
	}
	elemID := b.declare(st.Name)
	bindNext := &HLet{
		ID:   elemID,
		Name: st.Name,
		Init: &HMethodCall{
			Receiver: &HVar{Name: "$iter", Binding: iterID, Span: st.Span},
			Method:   "next",
			Span:     st.Span,
		},
		Span: st.Span,
	}
	body := append([]Stmt{bindNext}, lowerBlock(st.Body, b, bag)...)
	return []Stmt{iterLet, &HWhile{Cond: cond, Body: body, Span: st.Span}}
}

func syntheticName(prefix string, span source.Span) string {
	return "$" + prefix + "@" + span.String()
}

// lowerCallee resolves a call target name. Function names live in a
// separate namespace from local bindings (resolved later by the checker's
// Funcs table against the callee's Name), so an unresolved bare name here
// is not reported as an error the way an ordinary variable reference would
// be: it is assumed to name a function and is left for the checker to
// validate.
func lowerCallee(e Expr, b *binder, bag *diag.Bag) Expr {
	v, ok := e.(*VarRef)
	if !ok {
		return lowerExpr(e, b, bag)
	}
	id, _ := b.resolve(v.Name)
	return &HVar{Name: v.Name, Binding: id, Span: v.Span}
}

func lowerExpr(e Expr, b *binder, bag *diag.Bag) Expr {
	switch ex := e.(type) {
	case nil:
		return nil
	case *IntLit:
		return &HIntLit{Value: ex.Value, Span: ex.Span}
	case *BoolLit:
		return &HBoolLit{Value: ex.Value, Span: ex.Span}
	case *StringLit:
		return &HStringLit{Value: ex.Value, Span: ex.Span}
	case *VarRef:
		id, ok := b.resolve(ex.Name)
		if !ok {
			d := diag.NewError(diag.SemaUnresolvedSymbol, ex.Span, "unresolved name "+ex.Name)
			bag.Add(&d)
		}
		return &HVar{Name: ex.Name, Binding: id, Span: ex.Span}
	case *FieldAccess:
		return &HFieldAccess{Base: lowerExpr(ex.Base, b, bag), Field: ex.Field, Span: ex.Span}
	case *IndexExpr:
		return &HIndex{Base: lowerExpr(ex.Base, b, bag), Index: lowerExpr(ex.Index, b, bag), Span: ex.Span}
	case *CallExpr:
		args := make([]Expr, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = lowerExpr(a, b, bag)
		}
		kwargs := make([]HKwArg, len(ex.Kwargs))
		for i, kw := range ex.Kwargs {
			kwargs[i] = HKwArg{Name: kw.Name, Value: lowerExpr(kw.Value, b, bag)}
		}
		return &HCall{Callee: lowerCallee(ex.Callee, b, bag), Args: args, Kwargs: kwargs, Span: ex.Span}
	case *MethodCallExpr:
		args := make([]Expr, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = lowerExpr(a, b, bag)
		}
		return &HMethodCall{Receiver: lowerExpr(ex.Receiver, b, bag), Method: ex.Method, Args: args, Span: ex.Span}
	case *UnaryExpr:
		return &HUnary{Op: ex.Op, Operand: lowerExpr(ex.Operand, b, bag), Span: ex.Span}
	case *BinaryExpr:
		return &HBinary{Op: ex.Op, Left: lowerExpr(ex.Left, b, bag), Right: lowerExpr(ex.Right, b, bag), Span: ex.Span}
	case *BorrowExpr:
		return &HBorrow{Place: lowerExpr(ex.Place, b, bag), Mutable: ex.Mutable, Span: ex.Span}
	case *TernaryExpr:
		return &HTernary{
			Cond: lowerExpr(ex.Cond, b, bag),
			Then: lowerExpr(ex.Then, b, bag),
			Else: lowerExpr(ex.Else, b, bag),
			Span: ex.Span,
		}
	case *ArrayLit:
		elems := make([]Expr, len(ex.Elems))
		for i, el := range ex.Elems {
			elems[i] = lowerExpr(el, b, bag)
		}
		return &HArrayLit{Elems: elems, Span: ex.Span}
	case *DiagnosticInit:
		fields := make([]HDiagField, len(ex.Fields))
		for i, f := range ex.Fields {
			fields[i] = HDiagField{Name: f.Name, Value: lowerExpr(f.Value, b, bag)}
		}
		return &HDiagnosticInit{EventName: ex.EventName, Fields: fields, Span: ex.Span}
	case *ResultCtor:
		return &HResultCtor{IsErr: ex.IsErr, Value: lowerExpr(ex.Value, b, bag), Span: ex.Span}
	case *TryExpr:
		return &HTryExpr{Call: lowerExpr(ex.Call, b, bag), Span: ex.Span}
	default:
		return nil
	}
}
