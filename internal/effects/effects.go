// Package effects enforces the stage-4 invariants spec §4.9 assigns
// between SSA confirmation and LLVM lowering: a non-fallible function must
// neither raise nor construct an Error, and a fallible function's every
// Return must actually carry its result-carrier type. Grounded on the
// teacher's internal/mir/validate.go's errors.Join-of-per-function shape —
// the same pattern internal/mir/validate.go itself already reuses — since
// this is one more verifier pass over the same IR, just run one stage
// later and checking a different invariant set.
package effects

import (
	"errors"
	"fmt"

	"drift/internal/mir"
	"drift/internal/types"
)

// Violation reports one stage-4 invariant failure.
type Violation struct {
	Func string
	Msg  string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("function %s: %s", v.Func, v.Msg)
}

// Check walks m and enforces spec §4.9's invariants for every function. ti
// is the type environment lowering produced; when non-nil, return-value
// checking is type-aware (comparing against the function's declared result
// type) rather than merely structural, per §4.9's "type-aware supersedes
// structural" rule.
func Check(m *mir.Module, ti *types.Interner) error {
	var errs []error
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		if err := checkFunc(f, ti); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

func checkFunc(f *mir.Func, ti *types.Interner) error {
	if !f.Fallible {
		return checkNoThrow(f)
	}
	return checkReturnsCarried(f, ti)
}

// checkNoThrow enforces that a non-fallible function's throw summary is
// empty and that it never constructs an Error value. internal/sema already
// rejects this at the HIR level (checkThrowDiscipline); this is the MIR-side
// re-verification spec §4.9 calls for, catching anything a lowering bug
// might have let through SSA confirmation undetected.
func checkNoThrow(f *mir.Func) error {
	var errs []error
	for _, name := range f.Order {
		blk := f.Block(name)
		for _, ins := range blk.Instrs {
			if ins.Kind == mir.InstrConstructError || ins.Kind == mir.InstrConstructErr {
				errs = append(errs, &Violation{f.Name, fmt.Sprintf("block %s: non-fallible function constructs an Error", name)})
			}
		}
		if blk.Term.Kind == mir.TermRaise {
			errs = append(errs, &Violation{f.Name, fmt.Sprintf("block %s: non-fallible function raises", name)})
		}
	}
	return errors.Join(errs...)
}

// checkReturnsCarried enforces that every Return in a fallible function
// carries a result-carrier value. The structural check (does the value
// come directly from InstrConstructOk/InstrConstructErr) only sees values
// produced within the same function; a value threaded in through a block
// parameter (e.g. an if/else join) is structurally invisible, which is why
// the type-aware check — run whenever ti is available, which is always
// true in this compiler's own pipeline — supersedes it rather than merely
// supplementing it.
func checkReturnsCarried(f *mir.Func, ti *types.Interner) error {
	producer := map[string]mir.Instr{}
	valType := map[string]types.TypeID{}
	for _, p := range f.Params {
		valType[p.Name] = p.Type
	}
	for _, name := range f.Order {
		blk := f.Block(name)
		for _, p := range blk.Params {
			valType[p.Name] = p.Type
		}
		for _, ins := range blk.Instrs {
			if ins.Dest != "" {
				producer[ins.Dest] = ins
				valType[ins.Dest] = ins.Type
			}
		}
	}

	var errs []error
	for _, name := range f.Order {
		blk := f.Block(name)
		if blk.Term.Kind != mir.TermReturn || !blk.Term.Return.HasValue {
			continue
		}
		v := blk.Term.Return.Value
		if ti != nil {
			if t, ok := valType[v]; !ok || t != f.Result {
				errs = append(errs, &Violation{f.Name, fmt.Sprintf(
					"block %s: return value %s is not the declared result-carrier type", name, v)})
			}
			continue
		}
		ins, ok := producer[v]
		if !ok || (ins.Kind != mir.InstrConstructOk && ins.Kind != mir.InstrConstructErr) {
			errs = append(errs, &Violation{f.Name, fmt.Sprintf(
				"block %s: return value %s is not produced by a result constructor", name, v)})
		}
	}
	return errors.Join(errs...)
}
