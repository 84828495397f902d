package mir

import (
	"strconv"

	"drift/internal/hir"
	"drift/internal/sema"
	"drift/internal/types"
)

// Lower builds a mir.Module from a checked hir.Module. sigs supplies each
// callable's checked signature (arity, parameter ref-kinds, result type,
// fallibility) so the builder can decide normal-vs-error call edges and
// materialize result-carrier construction without re-running the type
// checker; ti is the shared type interner the signatures were built
// against.
func Lower(mod *hir.Module, sigs map[string]*sema.FuncSig, ti *types.Interner) *Module {
	out := &Module{}
	for _, fn := range mod.Funcs {
		out.Funcs = append(out.Funcs, lowerFunc(fn, sigs, ti))
	}
	return out
}

type builder struct {
	f       *Func
	sigs    map[string]*sema.FuncSig
	ti      *types.Interner
	tmp     int
	blk     int
	env     map[hir.LocalID]string
	ltypes  map[hir.LocalID]types.TypeID
	current *Block
	raiseTo []string // stack of enclosing try handler block names, innermost last
}

func lowerFunc(fn *hir.Func, sigs map[string]*sema.FuncSig, ti *types.Interner) *Func {
	sig := sigs[fn.Name]
	f := &Func{
		Name:     fn.Name,
		Fallible: fn.Fallible,
		Throws:   fn.Throws,
		Blocks:   map[string]*Block{},
	}
	if sig != nil {
		f.Result = sig.Result
	}

	b := &builder{
		f:      f,
		sigs:   sigs,
		ti:     ti,
		env:    map[hir.LocalID]string{},
		ltypes: map[hir.LocalID]types.TypeID{},
	}
	entry := b.newBlock("entry")
	f.Entry = entry.Name
	b.current = entry

	for i, pid := range fn.Params {
		var pt types.TypeID
		if sig != nil && i < len(sig.Params) {
			pt = sig.Params[i].Type
		}
		name := "param_" + fn.ParamNames[i]
		f.Params = append(f.Params, Param{Name: name, Type: pt})
		b.env[pid] = name
		b.ltypes[pid] = pt
	}

	b.lowerStmts(fn.Body)
	if b.current.Term.Kind == TermNone {
		b.current.Term = Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: false}}
	}
	return f
}

func (b *builder) newBlock(prefix string) *Block {
	b.blk++
	name := prefix + "_" + strconv.Itoa(b.blk)
	blk := &Block{Name: name}
	b.f.Blocks[name] = blk
	b.f.Order = append(b.f.Order, name)
	return blk
}

func (b *builder) newTemp() string {
	b.tmp++
	return "t" + strconv.Itoa(b.tmp)
}

func (b *builder) emit(ins Instr) string {
	b.current.Instrs = append(b.current.Instrs, ins)
	return ins.Dest
}

// lowerStmts lowers a statement list into the current block, stopping
// early once a terminator has been emitted (everything after is
// unreachable and is not lowered, matching how the verifier requires
// every retained block to be reachable).
func (b *builder) lowerStmts(stmts []hir.Stmt) {
	for _, s := range stmts {
		if b.current.Term.Kind != TermNone {
			return
		}
		b.lowerStmt(s)
	}
}

func (b *builder) lowerStmt(s hir.Stmt) {
	switch st := s.(type) {
	case *hir.HLet:
		v, t := b.lowerExpr(st.Init)
		b.env[st.ID] = v
		b.ltypes[st.ID] = t
	case *hir.HAssign:
		v, _ := b.lowerExpr(st.Value)
		switch target := st.Target.(type) {
		case *hir.HVar:
			b.env[target.Binding] = v
		case *hir.HIndex:
			// Spec §4.7's instruction set gives arrays an ArraySet but
			// names no FieldSet; index assignment mutates storage in
			// place rather than rebinding an SSA name.
			base, _ := b.lowerExpr(target.Base)
			idx, _ := b.lowerExpr(target.Index)
			b.emit(Instr{Kind: InstrArraySet, Base: base, Index: idx, Value: v})
		}
	case *hir.HIf:
		b.lowerIf(st)
	case *hir.HWhile:
		b.lowerWhile(st)
	case *hir.HTry:
		b.lowerTry(st)
	case *hir.HReturn:
		if st.Value == nil {
			b.current.Term = Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: false}}
			return
		}
		v, _ := b.lowerExpr(st.Value)
		b.current.Term = Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: true, Value: v}}
	case *hir.HThrow:
		v, _ := b.lowerExpr(st.Value)
		if len(b.raiseTo) > 0 {
			target := b.raiseTo[len(b.raiseTo)-1]
			b.current.Term = Terminator{Kind: TermRaise, Raise: RaiseTerm{Value: v, Target: target}}
			return
		}
		errVal := b.newTemp()
		b.emit(Instr{Kind: InstrConstructErr, Dest: errVal, Type: b.f.Result, Value: v})
		b.current.Term = Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: true, Value: errVal}}
	case *hir.HExprStmt:
		b.lowerExpr(st.Value)
	case *hir.HImport:
	}
}

// collectAssignedLocals conservatively finds every local directly
// reassigned (via HAssign to a bare HVar) anywhere within stmts, including
// nested blocks — the candidate set for join/header block parameters.
func collectAssignedLocals(stmts []hir.Stmt) []hir.LocalID {
	seen := map[hir.LocalID]bool{}
	var order []hir.LocalID
	var walk func([]hir.Stmt)
	add := func(id hir.LocalID) {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	walk = func(stmts []hir.Stmt) {
		for _, s := range stmts {
			switch st := s.(type) {
			case *hir.HAssign:
				if v, ok := st.Target.(*hir.HVar); ok {
					add(v.Binding)
				}
			case *hir.HIf:
				walk(st.Then)
				walk(st.Else)
			case *hir.HWhile:
				walk(st.Body)
			case *hir.HTry:
				walk(st.Body)
				for _, arm := range st.Catches {
					walk(arm.Body)
				}
			}
		}
	}
	walk(stmts)
	return order
}

func (b *builder) lowerIf(st *hir.HIf) {
	cond, _ := b.lowerExpr(st.Cond)
	preBlock := b.current
	preEnv := cloneEnv(b.env)

	merge := collectAssignedLocals(append(append([]hir.Stmt{}, st.Then...), st.Else...))

	thenBlock := b.newBlock("if_then")
	b.current = thenBlock
	b.env = cloneEnv(preEnv)
	b.lowerStmts(st.Then)
	thenEnv := b.env
	thenTerminated := b.current.Term.Kind != TermNone
	thenTail := b.current

	elseBlock := b.newBlock("if_else")
	b.current = elseBlock
	b.env = cloneEnv(preEnv)
	b.lowerStmts(st.Else)
	elseEnv := b.env
	elseTerminated := b.current.Term.Kind != TermNone
	elseTail := b.current

	join := b.newBlock("if_join")
	for _, id := range merge {
		join.Params = append(join.Params, Param{Name: joinParamName(join.Name, id), Type: b.ltypes[id]})
	}

	if !thenTerminated {
		thenTail.Term = Terminator{Kind: TermBr, Br: Edge{Target: join.Name, Args: argsFor(merge, thenEnv, preEnv)}}
	}
	if !elseTerminated {
		elseTail.Term = Terminator{Kind: TermBr, Br: Edge{Target: join.Name, Args: argsFor(merge, elseEnv, preEnv)}}
	}

	preBlock.Term = Terminator{Kind: TermCondBr, CondBr: CondBrTerm{
		Cond: cond,
		Then: Edge{Target: thenBlock.Name},
		Else: Edge{Target: elseBlock.Name},
	}}

	b.env = preEnv
	for _, id := range merge {
		b.env[id] = joinParamName(join.Name, id)
	}
	b.current = join
}

func cloneEnv(env map[hir.LocalID]string) map[hir.LocalID]string {
	out := make(map[hir.LocalID]string, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}

func joinParamName(block string, id hir.LocalID) string {
	return block + "_v" + strconv.Itoa(int(id))
}

func argsFor(ids []hir.LocalID, branchEnv, preEnv map[hir.LocalID]string) []string {
	args := make([]string, len(ids))
	for i, id := range ids {
		if v, ok := branchEnv[id]; ok {
			args[i] = v
			continue
		}
		args[i] = preEnv[id]
	}
	return args
}
