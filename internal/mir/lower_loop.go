package mir

import "drift/internal/hir"

// lowerWhile builds a loop header with block parameters for every local
// the body reassigns, so the header's own instructions see one consistent
// name for a loop-carried value regardless of whether control reached the
// header from outside the loop or via the backedge. This is the one place
// MIR legally contains a cyclic edge — internal/ssa's construction pass
// rejects any function whose CFG still has one, per spec §4.8.
func (b *builder) lowerWhile(st *hir.HWhile) {
	preBlock := b.current
	preEnv := cloneEnv(b.env)
	carried := collectAssignedLocals(st.Body)

	header := b.newBlock("while_header")
	for _, id := range carried {
		header.Params = append(header.Params, Param{Name: joinParamName(header.Name, id), Type: b.ltypes[id]})
	}
	preBlock.Term = Terminator{Kind: TermBr, Br: Edge{Target: header.Name, Args: argsFor(carried, preEnv, preEnv)}}

	b.current = header
	b.env = cloneEnv(preEnv)
	for _, id := range carried {
		b.env[id] = joinParamName(header.Name, id)
	}
	cond, _ := b.lowerExpr(st.Cond)
	condBlock := b.current

	body := b.newBlock("while_body")
	exit := b.newBlock("while_exit")
	condBlock.Term = Terminator{Kind: TermCondBr, CondBr: CondBrTerm{
		Cond: cond,
		Then: Edge{Target: body.Name},
		Else: Edge{Target: exit.Name},
	}}

	b.current = body
	b.lowerStmts(st.Body)
	if b.current.Term.Kind == TermNone {
		b.current.Term = Terminator{Kind: TermBr, Br: Edge{Target: header.Name, Args: argsFor(carried, b.env, preEnv)}}
	}

	b.current = exit
	b.env = cloneEnv(preEnv)
	for _, id := range carried {
		b.env[id] = joinParamName(header.Name, id)
	}
}

// lowerTry lowers `try { body } catch ...`: raises inside body transfer to
// a handler block that receives the error as its first parameter and
// dispatches by event name via a linear comparison chain (spec names no
// richer dispatch structure), falling through to try_cont either from the
// body's normal completion or from a matching catch arm.
func (b *builder) lowerTry(st *hir.HTry) {
	errType := b.ti.Builtins().Error

	handler := b.newBlock("try_handler")
	errParam := joinParamName(handler.Name, 0)
	handler.Params = append(handler.Params, Param{Name: errParam, Type: errType})

	cont := b.newBlock("try_cont")
	preEnv := cloneEnv(b.env)

	bodyBlock := b.newBlock("try_body")
	preBlock := b.current
	preBlock.Term = Terminator{Kind: TermBr, Br: Edge{Target: bodyBlock.Name}}

	b.current = bodyBlock
	b.raiseTo = append(b.raiseTo, handler.Name)
	b.lowerStmts(st.Body)
	b.raiseTo = b.raiseTo[:len(b.raiseTo)-1]
	if b.current.Term.Kind == TermNone {
		b.current.Term = Terminator{Kind: TermBr, Br: Edge{Target: cont.Name}}
	}

	b.current = handler
	b.env = cloneEnv(preEnv)
	for i, arm := range st.Catches {
		// __event is not a user-declared field: it names the Error
		// carrier's built-in event-name slot, read here the same way any
		// other field is, since MIR has no separate instruction for it.
		tag := b.newTemp()
		b.emit(Instr{Kind: InstrFieldGet, Dest: tag, Base: errParam, Field: "__event"})
		match := b.newTemp()
		lit := b.newTemp()
		b.emit(Instr{Kind: InstrConst, Dest: lit, ConstKind: ConstString, ConstString: arm.EventName})
		b.emit(Instr{Kind: InstrBinaryOp, Dest: match, BinOp: "==", Left: tag, Right: lit})

		armBlock := b.newBlock("try_catch")
		var nextBlock *Block
		if i == len(st.Catches)-1 {
			nextBlock = b.newBlock("try_rethrow")
		} else {
			nextBlock = b.newBlock("try_dispatch")
		}
		b.current.Term = Terminator{Kind: TermCondBr, CondBr: CondBrTerm{
			Cond: match,
			Then: Edge{Target: armBlock.Name},
			Else: Edge{Target: nextBlock.Name},
		}}

		armEnv := cloneEnv(preEnv)
		b.current = armBlock
		b.env = armEnv
		if arm.Binding != hir.NoLocalID {
			b.env[arm.Binding] = errParam
			b.ltypes[arm.Binding] = errType
		}
		b.lowerStmts(arm.Body)
		if b.current.Term.Kind == TermNone {
			b.current.Term = Terminator{Kind: TermBr, Br: Edge{Target: cont.Name}}
		}

		b.current = nextBlock
		b.env = cloneEnv(preEnv)
	}
	// No arm matched: propagate to the next enclosing handler, or if this
	// try is outermost, fall through as the function's own Err return.
	if len(b.raiseTo) > 0 {
		b.current.Term = Terminator{Kind: TermRaise, Raise: RaiseTerm{Value: errParam, Target: b.raiseTo[len(b.raiseTo)-1]}}
	} else {
		errVal := b.newTemp()
		b.emit(Instr{Kind: InstrConstructErr, Dest: errVal, Type: b.f.Result, Value: errParam})
		b.current.Term = Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: true, Value: errVal}}
	}

	b.current = cont
	b.env = preEnv
}
