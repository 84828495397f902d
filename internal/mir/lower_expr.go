package mir

import (
	"drift/internal/hir"
	"drift/internal/sema"
	"drift/internal/types"
)

// lowerExpr flattens one HIR expression into zero or more instructions plus
// a value name carrying the result, mirroring the teacher's lower_expr_*.go
// split — kept as a single file here since drift's expression set is far
// smaller than the teacher's.
func (b *builder) lowerExpr(e hir.Expr) (string, types.TypeID) {
	bi := b.ti.Builtins()
	switch ex := e.(type) {
	case *hir.HIntLit:
		d := b.newTemp()
		b.emit(Instr{Kind: InstrConst, Dest: d, Type: bi.Int, ConstKind: ConstInt, ConstInt: ex.Value})
		return d, bi.Int
	case *hir.HBoolLit:
		d := b.newTemp()
		b.emit(Instr{Kind: InstrConst, Dest: d, Type: bi.Bool, ConstKind: ConstBool, ConstBool: ex.Value})
		return d, bi.Bool
	case *hir.HStringLit:
		d := b.newTemp()
		b.emit(Instr{Kind: InstrConst, Dest: d, Type: bi.String, ConstKind: ConstString, ConstString: ex.Value})
		return d, bi.String
	case *hir.HVar:
		return b.env[ex.Binding], b.ltypes[ex.Binding]
	case *hir.HFieldAccess:
		base, baseType := b.lowerExpr(ex.Base)
		fieldType := bi.Unknown
		if info, ok := b.ti.VariantInfo(baseType); ok {
			for _, arm := range info.Arms {
				for _, f := range arm.Fields {
					if name, ok := b.ti.Strings.Lookup(f.Name); ok && name == ex.Field {
						fieldType = f.Type
					}
				}
			}
		}
		d := b.newTemp()
		b.emit(Instr{Kind: InstrFieldGet, Dest: d, Type: fieldType, Base: base, Field: ex.Field})
		return d, fieldType
	case *hir.HIndex:
		base, baseType := b.lowerExpr(ex.Base)
		idx, _ := b.lowerExpr(ex.Index)
		elemType := bi.Unknown
		if desc, ok := b.ti.Lookup(baseType); ok && desc.Kind == types.KindArray {
			elemType = desc.Elem
		}
		d := b.newTemp()
		b.emit(Instr{Kind: InstrArrayGet, Dest: d, Type: elemType, Base: base, Index: idx})
		return d, elemType
	case *hir.HCall:
		return b.lowerCall(ex)
	case *hir.HMethodCall:
		recv, _ := b.lowerExpr(ex.Receiver)
		args := make([]string, 0, len(ex.Args)+1)
		args = append(args, recv)
		for _, a := range ex.Args {
			v, _ := b.lowerExpr(a)
			args = append(args, v)
		}
		d := b.newTemp()
		b.emit(Instr{Kind: InstrCall, Dest: d, Type: bi.Unknown, CallCallee: ex.Method, CallArgs: args})
		return d, bi.Unknown
	case *hir.HUnary:
		v, _ := b.lowerExpr(ex.Operand)
		d := b.newTemp()
		resType := bi.Int
		if ex.Op == "!" {
			resType = bi.Bool
		}
		b.emit(Instr{Kind: InstrUnaryOp, Dest: d, Type: resType, UnOp: ex.Op, Operand: v})
		return d, resType
	case *hir.HBinary:
		left, leftType := b.lowerExpr(ex.Left)
		right, _ := b.lowerExpr(ex.Right)
		d := b.newTemp()
		resType := binaryResultType(ex.Op, leftType, bi)
		b.emit(Instr{Kind: InstrBinaryOp, Dest: d, Type: resType, BinOp: ex.Op, Left: left, Right: right})
		return d, resType
	case *hir.HBorrow:
		place, placeType := b.lowerExpr(ex.Place)
		d := b.newTemp()
		refType := b.ti.Intern(types.MakeReference(placeType, ex.Mutable))
		b.emit(Instr{Kind: InstrAddrOfLocal, Dest: d, Type: refType, Src: place})
		return d, refType
	case *hir.HTernary:
		return b.lowerTernary(ex)
	case *hir.HArrayLit:
		elems := make([]string, len(ex.Elems))
		elemType := bi.Unknown
		for i, el := range ex.Elems {
			v, t := b.lowerExpr(el)
			elems[i] = v
			if i == 0 {
				elemType = t
			}
		}
		arrType := b.ti.Intern(types.MakeArray(elemType, uint32(len(ex.Elems))))
		d := b.newTemp()
		b.emit(Instr{Kind: InstrArrayInit, Dest: d, Type: arrType, Elems: elems})
		return d, arrType
	case *hir.HDiagnosticInit:
		fields := make([]FieldInit, len(ex.Fields))
		for i, f := range ex.Fields {
			v, _ := b.lowerExpr(f.Value)
			fields[i] = FieldInit{Name: f.Name, Value: v}
		}
		d := b.newTemp()
		b.emit(Instr{Kind: InstrConstructError, Dest: d, Type: bi.Error, EventName: ex.EventName, Fields: fields})
		return d, bi.Error
	case *hir.HResultCtor:
		v, vt := b.lowerExpr(ex.Value)
		d := b.newTemp()
		if ex.IsErr {
			// The Ok half isn't derivable from the Err arm's own value, so
			// prefer the enclosing function's declared result carrier (the
			// one place that type is actually known) over a bare Unknown —
			// otherwise a legitimate `return Err(e);` would register a
			// distinct FnResult<Unknown,Error> type never equal to the
			// function's own Result, which internal/effects checks against.
			okType := bi.Unknown
			if b.f.Fallible {
				if info, ok := b.ti.FnResultInfo(b.f.Result); ok {
					okType = info.Ok
				}
			}
			rt := b.ti.RegisterFnResult(okType, vt)
			b.emit(Instr{Kind: InstrConstructErr, Dest: d, Type: rt, Value: v})
			return d, rt
		}
		rt := b.ti.RegisterFnResult(vt, bi.Error)
		b.emit(Instr{Kind: InstrConstructOk, Dest: d, Type: rt, Value: v})
		return d, rt
	case *hir.HTryExpr:
		// The call itself already lowers to a TermCall whose normal edge
		// carries the unwrapped Ok value and whose error edge propagates —
		// `?` names no further transformation of its own.
		if call, ok := ex.Call.(*hir.HCall); ok {
			return b.lowerCall(call)
		}
		return b.lowerExpr(ex.Call)
	default:
		return "", bi.Unknown
	}
}

func binaryResultType(op string, leftType types.TypeID, bi types.Builtins) types.TypeID {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		return bi.Bool
	case "+":
		if leftType == bi.String {
			return bi.String
		}
		return bi.Int
	default:
		return bi.Int
	}
}

// lowerCall lowers a call expression. A call to a known fallible function
// becomes a TermCall terminator with two successor edges (spec §4.5): the
// normal edge resumes with the unwrapped Ok value, the error edge
// propagates to the nearest enclosing try handler or, absent one, returns
// the function's own Err result — so an un-caught fallible call behaves
// like an implicit `?` at the MIR level regardless of surface syntax.
func (b *builder) lowerCall(ex *hir.HCall) (string, types.TypeID) {
	bi := b.ti.Builtins()
	name, ok := calleeName(ex.Callee)
	args := make([]string, len(ex.Args))
	for i, a := range ex.Args {
		v, _ := b.lowerExpr(a)
		args[i] = v
	}
	var sig *sema.FuncSig
	if ok {
		sig = b.sigs[name]
	}
	if sig != nil && sig.Fallible {
		// By convention a fallible signature's Result is the function's
		// actual return type — the FnResult<Ok,Err> carrier, per spec §4.3
		// — not the bare Ok type; unwrap it for the normal edge's param.
		okType := bi.Unknown
		if info, ok := b.ti.FnResultInfo(sig.Result); ok {
			okType = info.Ok
		}
		okBlock := b.newBlock("call_ok")
		okParam := joinParamName(okBlock.Name, 0)
		okBlock.Params = append(okBlock.Params, Param{Name: okParam, Type: okType})

		errBlock := b.newBlock("call_err")
		errParam := joinParamName(errBlock.Name, 0)
		errBlock.Params = append(errBlock.Params, Param{Name: errParam, Type: bi.Error})

		b.current.Term = Terminator{Kind: TermCall, Call: CallTerm{
			Callee: name,
			Args:   args,
			Normal: Edge{Target: okBlock.Name},
			Error:  Edge{Target: errBlock.Name},
		}}

		b.current = errBlock
		if len(b.raiseTo) > 0 {
			b.current.Term = Terminator{Kind: TermRaise, Raise: RaiseTerm{Value: errParam, Target: b.raiseTo[len(b.raiseTo)-1]}}
		} else {
			errVal := b.newTemp()
			b.emit(Instr{Kind: InstrConstructErr, Dest: errVal, Type: b.f.Result, Value: errParam})
			b.current.Term = Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: true, Value: errVal}}
		}

		b.current = okBlock
		return okParam, okType
	}

	resType := bi.Unknown
	if sig != nil {
		resType = sig.Result
	}
	d := b.newTemp()
	b.emit(Instr{Kind: InstrCall, Dest: d, Type: resType, CallCallee: name, CallArgs: args})
	return d, resType
}

// lowerTernary lowers `cond ? then : else` the same way lowerIf joins a
// statement-level if, except the join block carries exactly one parameter:
// the ternary's own result.
func (b *builder) lowerTernary(ex *hir.HTernary) (string, types.TypeID) {
	cond, _ := b.lowerExpr(ex.Cond)
	preBlock := b.current

	thenBlock := b.newBlock("ternary_then")
	b.current = thenBlock
	thenVal, thenType := b.lowerExpr(ex.Then)
	thenTail := b.current

	elseBlock := b.newBlock("ternary_else")
	b.current = elseBlock
	elseVal, _ := b.lowerExpr(ex.Else)
	elseTail := b.current

	join := b.newBlock("ternary_join")
	joinParam := joinParamName(join.Name, 0)
	join.Params = append(join.Params, Param{Name: joinParam, Type: thenType})

	thenTail.Term = Terminator{Kind: TermBr, Br: Edge{Target: join.Name, Args: []string{thenVal}}}
	elseTail.Term = Terminator{Kind: TermBr, Br: Edge{Target: join.Name, Args: []string{elseVal}}}

	preBlock.Term = Terminator{Kind: TermCondBr, CondBr: CondBrTerm{
		Cond: cond,
		Then: Edge{Target: thenBlock.Name},
		Else: Edge{Target: elseBlock.Name},
	}}

	b.current = join
	return joinParam, thenType
}
