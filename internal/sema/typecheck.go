package sema

import (
	"drift/internal/diag"
	"drift/internal/hir"
	"drift/internal/source"
	"drift/internal/types"
)

type funcTypeChecker struct {
	c            *Checker
	fn           *hir.Func
	env          map[hir.LocalID]types.TypeID
	throwSummary map[string]struct{}
}

func newFuncTypeChecker(c *Checker, fn *hir.Func) *funcTypeChecker {
	tc := &funcTypeChecker{
		c:            c,
		fn:           fn,
		env:          map[hir.LocalID]types.TypeID{},
		throwSummary: map[string]struct{}{},
	}
	if sig, ok := c.Funcs[fn.Name]; ok {
		for i, p := range sig.Params {
			if i < len(fn.Params) {
				tc.env[fn.Params[i]] = p.Type
			}
		}
	}
	return tc
}

func (tc *funcTypeChecker) emit(code diag.Code, span source.Span, msg string) {
	d := diag.NewError(code, span, msg)
	tc.c.Bag.Add(&d)
}

func (tc *funcTypeChecker) checkBody(stmts []hir.Stmt) {
	for _, s := range stmts {
		tc.checkStmt(s)
	}
}

func (tc *funcTypeChecker) checkStmt(s hir.Stmt) {
	b := tc.c.Types.Builtins()
	switch st := s.(type) {
	case *hir.HLet:
		t := tc.infer(st.Init)
		if st.DeclaredType != types.NoTypeID && st.DeclaredType != t {
			tc.emit(diag.SemaTypeMismatch, st.Span, "let initializer type does not match declared type")
		}
		tc.env[st.ID] = t
	case *hir.HAssign:
		switch st.Target.(type) {
		case *hir.HVar, *hir.HFieldAccess, *hir.HIndex:
		default:
			tc.emit(diag.SemaNotAddressable, st.Span, "assignment target is not addressable")
		}
		targetType := tc.infer(st.Target)
		valueType := tc.infer(st.Value)
		if targetType != types.NoTypeID && targetType != valueType {
			tc.emit(diag.SemaAssignTypeMismatch, st.Span, "assignment value type does not match target type")
		}
	case *hir.HIf:
		if tc.infer(st.Cond) != b.Bool {
			tc.emit(diag.SemaConditionNotBool, st.Span, "if condition must be bool")
		}
		tc.checkBody(st.Then)
		tc.checkBody(st.Else)
	case *hir.HWhile:
		if tc.infer(st.Cond) != b.Bool {
			tc.emit(diag.SemaConditionNotBool, st.Span, "while condition must be bool")
		}
		tc.checkBody(st.Body)
	case *hir.HTry:
		tc.checkBody(st.Body)
		for _, arm := range st.Catches {
			if arm.Binding != hir.NoLocalID {
				tc.env[arm.Binding] = b.Error
			}
			tc.checkBody(arm.Body)
		}
	case *hir.HReturn:
		if st.Value != nil {
			tc.infer(st.Value)
		}
	case *hir.HThrow:
		t := tc.infer(st.Value)
		if t != b.Error {
			tc.emit(diag.SemaThrowPayloadNotDV, st.Span, "throw payload must be a diagnostic value")
		}
		if di, ok := st.Value.(*hir.HDiagnosticInit); ok {
			tc.throwSummary[di.EventName] = struct{}{}
		}
	case *hir.HExprStmt:
		tc.infer(st.Value)
	case *hir.HImport:
	}
}

func (tc *funcTypeChecker) infer(e hir.Expr) types.TypeID {
	b := tc.c.Types.Builtins()
	if e == nil {
		return types.NoTypeID
	}
	switch ex := e.(type) {
	case *hir.HIntLit:
		return b.Int
	case *hir.HBoolLit:
		return b.Bool
	case *hir.HStringLit:
		return b.String
	case *hir.HVar:
		if t, ok := tc.env[ex.Binding]; ok {
			return t
		}
		return b.Unknown
	case *hir.HFieldAccess:
		baseType := tc.infer(ex.Base)
		info, ok := tc.c.Types.VariantInfo(baseType)
		if !ok {
			tc.emit(diag.SemaFieldNotFound, ex.Span, "field access on a non-variant type")
			return b.Unknown
		}
		for _, arm := range info.Arms {
			for _, f := range arm.Fields {
				if tc.c.Types.Strings != nil {
					if name, ok := tc.c.Types.Strings.Lookup(f.Name); ok && name == ex.Field {
						return f.Type
					}
				}
			}
		}
		tc.emit(diag.SemaFieldNotFound, ex.Span, "no arm of this variant declares field "+ex.Field)
		return b.Unknown
	case *hir.HIndex:
		baseType := tc.infer(ex.Base)
		idxType := tc.infer(ex.Index)
		if idxType != b.Int {
			tc.emit(diag.SemaArrayIndexNotInt, ex.Span, "array index must be int")
		}
		baseDesc, ok := tc.c.Types.Lookup(baseType)
		if !ok || baseDesc.Kind != types.KindArray {
			return b.Unknown
		}
		return baseDesc.Elem
	case *hir.HCall:
		return tc.inferCall(ex)
	case *hir.HMethodCall:
		tc.infer(ex.Receiver)
		for _, a := range ex.Args {
			tc.infer(a)
		}
		return b.Unknown
	case *hir.HUnary:
		operand := tc.infer(ex.Operand)
		switch ex.Op {
		case "-":
			if operand != b.Int {
				tc.emit(diag.SemaInvalidUnaryOperand, ex.Span, "unary - requires int")
			}
			return b.Int
		case "!":
			if operand != b.Bool {
				tc.emit(diag.SemaInvalidUnaryOperand, ex.Span, "unary ! requires bool")
			}
			return b.Bool
		default:
			tc.emit(diag.SemaInvalidUnaryOperand, ex.Span, "unknown unary operator "+ex.Op)
			return b.Unknown
		}
	case *hir.HBinary:
		return tc.inferBinary(ex)
	case *hir.HBorrow:
		placeType := tc.infer(ex.Place)
		return tc.c.Types.Intern(types.MakeReference(placeType, ex.Mutable))
	case *hir.HTernary:
		if tc.infer(ex.Cond) != b.Bool {
			tc.emit(diag.SemaConditionNotBool, ex.Span, "ternary condition must be bool")
		}
		thenType := tc.infer(ex.Then)
		elseType := tc.infer(ex.Else)
		if thenType != elseType {
			tc.emit(diag.SemaTypeMismatch, ex.Span, "ternary branches must have the same type")
		}
		return thenType
	case *hir.HArrayLit:
		if len(ex.Elems) == 0 {
			return tc.c.Types.Intern(types.MakeArray(b.Unknown, 0))
		}
		elemType := tc.infer(ex.Elems[0])
		for _, el := range ex.Elems[1:] {
			if tc.infer(el) != elemType {
				tc.emit(diag.SemaArrayElemMismatch, ex.Span, "array literal elements must have the same type")
			}
		}
		return tc.c.Types.Intern(types.MakeArray(elemType, uint32(len(ex.Elems))))
	case *hir.HDiagnosticInit:
		for _, f := range ex.Fields {
			tc.infer(f.Value)
		}
		return b.Error
	case *hir.HResultCtor:
		if ex.IsErr {
			errType := tc.infer(ex.Value)
			return tc.c.Types.RegisterFnResult(b.Unknown, errType)
		}
		okType := tc.infer(ex.Value)
		return tc.c.Types.RegisterFnResult(okType, b.Error)
	case *hir.HTryExpr:
		callType := tc.infer(ex.Call)
		desc, ok := tc.c.Types.Lookup(callType)
		if !ok || desc.Kind != types.KindFnResult {
			tc.emit(diag.SemaTypeMismatch, ex.Span, "'?' may only be applied to a fallible call")
			return b.Unknown
		}
		info, _ := tc.c.Types.FnResultInfo(callType)
		tc.throwSummary["<propagated>"] = struct{}{}
		return info.Ok
	default:
		return b.Unknown
	}
}

func (tc *funcTypeChecker) inferBinary(ex *hir.HBinary) types.TypeID {
	b := tc.c.Types.Builtins()
	left := tc.infer(ex.Left)
	right := tc.infer(ex.Right)
	switch ex.Op {
	case "+":
		if left == b.String && right == b.String {
			return b.String
		}
		if left == b.Int && right == b.Int {
			return b.Int
		}
		tc.emit(diag.SemaInvalidBinaryOperands, ex.Span, "+ requires two ints or two strings")
		return b.Unknown
	case "-", "*", "/", "%":
		if left == b.Int && right == b.Int {
			return b.Int
		}
		tc.emit(diag.SemaInvalidBinaryOperands, ex.Span, ex.Op+" requires two ints")
		return b.Unknown
	case "==", "!=", "<", "<=", ">", ">=":
		if left != right {
			tc.emit(diag.SemaInvalidBinaryOperands, ex.Span, "comparison operands must have the same type")
		}
		return b.Bool
	case "&&", "||":
		if left != b.Bool || right != b.Bool {
			tc.emit(diag.SemaInvalidBinaryOperands, ex.Span, ex.Op+" requires two bools")
		}
		return b.Bool
	default:
		tc.emit(diag.SemaInvalidBinaryOperands, ex.Span, "unknown binary operator "+ex.Op)
		return b.Unknown
	}
}

func (tc *funcTypeChecker) inferCall(ex *hir.HCall) types.TypeID {
	b := tc.c.Types.Builtins()
	name, ok := calleeName(ex.Callee)
	if !ok {
		for _, a := range ex.Args {
			tc.infer(a)
		}
		return b.Unknown
	}
	sig, ok := tc.c.Funcs[name]
	if !ok {
		for _, a := range ex.Args {
			tc.infer(a)
		}
		tc.emit(diag.SemaUnresolvedSymbol, ex.Span, "call to unknown function "+name)
		return b.Unknown
	}
	if len(ex.Args) != len(sig.Params) {
		tc.emit(diag.SemaCallArityMismatch, ex.Span, "wrong number of arguments calling "+name)
	}
	for i, a := range ex.Args {
		argType := tc.infer(a)
		if i >= len(sig.Params) {
			continue
		}
		param := sig.Params[i]
		if param.Ref != ByValue {
			// Auto-borrow: an owned argument passed to a reference
			// parameter is implicitly borrowed rather than moved; the
			// signature drives this, so no diagnostic is raised when
			// the owned value's type matches the reference's element.
			if argType == param.Type {
				continue
			}
			refDesc, ok := tc.c.Types.Lookup(param.Type)
			if ok && refDesc.Kind == types.KindReference && refDesc.Elem == argType {
				continue
			}
		}
		if argType != param.Type {
			tc.emit(diag.SemaCallArgTypeMismatch, ex.Span, "argument "+param.Name+" has the wrong type")
		}
	}
	for _, kw := range ex.Kwargs {
		tc.infer(kw.Value)
		tc.emit(diag.SemaUnknownKeywordArg, ex.Span, "unknown keyword argument "+kw.Name)
	}
	for event := range sig.Throws {
		tc.throwSummary[event] = struct{}{}
	}
	return sig.Result
}

func calleeName(e hir.Expr) (string, bool) {
	v, ok := e.(*hir.HVar)
	if !ok {
		return "", false
	}
	return v.Name, true
}
