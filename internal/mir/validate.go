package mir

import (
	"errors"
	"fmt"

	"drift/internal/types"
)

// Validate checks MIR module invariants, grounded on the teacher's
// internal/mir/validate.go (same errors.Join-of-per-function,
// per-invariant-function shape, adapted to this module's string-named
// values and simpler instruction set).
func Validate(m *Module, ti *types.Interner) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		if err := validateFunc(f, ti); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

func validateFunc(f *Func, ti *types.Interner) error {
	var errs []error
	if err := validateTerminated(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateTargets(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateReachable(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateDefinedness(f, ti); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func validateTerminated(f *Func) error {
	var errs []error
	for _, name := range f.Order {
		if f.Blocks[name].Term.Kind == TermNone {
			errs = append(errs, fmt.Errorf("block %s: unterminated", name))
		}
	}
	return errors.Join(errs...)
}

func validateTargets(f *Func) error {
	var errs []error
	exists := func(name string) bool { _, ok := f.Blocks[name]; return ok }
	checkEdge := func(blockName string, e Edge) {
		target, ok := f.Blocks[e.Target]
		if !ok {
			errs = append(errs, fmt.Errorf("block %s: target %s does not exist", blockName, e.Target))
			return
		}
		if len(e.Args) != len(target.Params) {
			errs = append(errs, fmt.Errorf("block %s: edge to %s passes %d args, target wants %d",
				blockName, e.Target, len(e.Args), len(target.Params)))
		}
	}
	// A call terminator's Normal/Error edges carry no explicit Args: the
	// call's own Ok/Err value IS the target block's sole parameter, fed
	// implicitly rather than listed — so these targets are only checked
	// for existence and arity one, not matched against Edge.Args.
	checkCallEdge := func(blockName string, e Edge) {
		target, ok := f.Blocks[e.Target]
		if !ok {
			errs = append(errs, fmt.Errorf("block %s: target %s does not exist", blockName, e.Target))
			return
		}
		if len(target.Params) != 1 {
			errs = append(errs, fmt.Errorf("block %s: call edge to %s must receive exactly one parameter, target has %d",
				blockName, e.Target, len(target.Params)))
		}
	}
	for _, name := range f.Order {
		blk := f.Blocks[name]
		switch blk.Term.Kind {
		case TermBr:
			checkEdge(name, blk.Term.Br)
		case TermCondBr:
			checkEdge(name, blk.Term.CondBr.Then)
			checkEdge(name, blk.Term.CondBr.Else)
		case TermCall:
			checkCallEdge(name, blk.Term.Call.Normal)
			checkCallEdge(name, blk.Term.Call.Error)
		case TermRaise:
			if !exists(blk.Term.Raise.Target) {
				errs = append(errs, fmt.Errorf("block %s: raise target %s does not exist", name, blk.Term.Raise.Target))
			}
		}
	}
	return errors.Join(errs...)
}

// validateReachable requires every block to be reachable from the entry
// block; an unreachable block usually means a lowering bug (a branch that
// was never wired) rather than legitimate dead code, since this module's
// builder never emits a block it doesn't also link in.
func validateReachable(f *Func) error {
	seen := map[string]bool{f.Entry: true}
	work := []string{f.Entry}
	for len(work) > 0 {
		name := work[len(work)-1]
		work = work[:len(work)-1]
		blk, ok := f.Blocks[name]
		if !ok {
			continue
		}
		for _, succ := range successors(blk) {
			if !seen[succ] {
				seen[succ] = true
				work = append(work, succ)
			}
		}
	}
	var errs []error
	for _, name := range f.Order {
		if !seen[name] {
			errs = append(errs, fmt.Errorf("block %s: unreachable", name))
		}
	}
	return errors.Join(errs...)
}

// Successors returns a block's terminator's target block names, in a
// fixed order (then before else, normal before error). internal/ssa reuses
// this for its own reverse-postorder backedge detection rather than
// re-deriving the terminator-to-targets mapping.
func Successors(blk *Block) []string {
	return successors(blk)
}

func successors(blk *Block) []string {
	switch blk.Term.Kind {
	case TermBr:
		return []string{blk.Term.Br.Target}
	case TermCondBr:
		return []string{blk.Term.CondBr.Then.Target, blk.Term.CondBr.Else.Target}
	case TermCall:
		return []string{blk.Term.Call.Normal.Target, blk.Term.Call.Error.Target}
	case TermRaise:
		return []string{blk.Term.Raise.Target}
	default:
		return nil
	}
}

// validateDefinedness checks that every operand an instruction or
// terminator reads was defined earlier — spec §4.7's "dest undefined on
// entry" rule. Values have function-wide scope in this IR (a block
// created inside an if/while/try freely references a value one of its
// ancestors defined, rather than always threading it through as a block
// parameter), so the defined set accumulates across blocks in the order
// the builder created them rather than resetting per block. Block
// creation order tracks a valid topological order for every construct
// this builder emits (straight-line, if/else, while, try/catch all
// define a block's inputs before creating that block), so this is
// sufficient without full dominance-based dataflow — the latter is what
// internal/ssa (spec §4.8) performs once it renames across the whole
// function.
func validateDefinedness(f *Func, ti *types.Interner) error {
	var errs []error
	defined := map[string]bool{}
	for _, p := range f.Params {
		defined[p.Name] = true
	}
	for _, name := range f.Order {
		blk := f.Blocks[name]
		for _, p := range blk.Params {
			defined[p.Name] = true
		}
		check := func(v string) {
			if v == "" {
				return
			}
			if !defined[v] {
				errs = append(errs, fmt.Errorf("block %s: use of %s before definition", name, v))
			}
		}
		for _, ins := range blk.Instrs {
			checkInstrOperands(ins, check)
			if ins.Dest != "" {
				defined[ins.Dest] = true
			}
		}
		checkTermOperands(blk.Term, check)
	}
	return errors.Join(errs...)
}

func checkInstrOperands(ins Instr, check func(string)) {
	switch ins.Kind {
	case InstrMove, InstrCopy, InstrAddrOfLocal:
		check(ins.Src)
	case InstrCall:
		for _, a := range ins.CallArgs {
			check(a)
		}
	case InstrBinaryOp:
		check(ins.Left)
		check(ins.Right)
	case InstrUnaryOp:
		check(ins.Operand)
	case InstrFieldGet:
		check(ins.Base)
	case InstrArrayInit:
		for _, e := range ins.Elems {
			check(e)
		}
	case InstrArrayGet:
		check(ins.Base)
		check(ins.Index)
	case InstrArraySet:
		check(ins.Base)
		check(ins.Index)
		check(ins.Value)
	case InstrDrop:
		check(ins.Src)
	case InstrConstructOk, InstrConstructErr:
		check(ins.Value)
	case InstrConstructError:
		for _, fld := range ins.Fields {
			check(fld.Value)
		}
	case InstrVariantInit:
		for _, fld := range ins.Fields {
			check(fld.Value)
		}
	}
}

func checkTermOperands(t Terminator, check func(string)) {
	switch t.Kind {
	case TermReturn:
		if t.Return.HasValue {
			check(t.Return.Value)
		}
	case TermRaise:
		check(t.Raise.Value)
	case TermBr:
		for _, a := range t.Br.Args {
			check(a)
		}
	case TermCondBr:
		check(t.CondBr.Cond)
		for _, a := range t.CondBr.Then.Args {
			check(a)
		}
		for _, a := range t.CondBr.Else.Args {
			check(a)
		}
	case TermCall:
		for _, a := range t.Call.Args {
			check(a)
		}
	}
}
