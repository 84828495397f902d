// Package llvm emits textual LLVM IR for the v1 ABI spec §4.10 defines,
// consuming confirmed-SSA input from internal/ssa. Grounded on the
// teacher's internal/backend/llvm (the same EmitModule-entrypoint,
// Emitter-struct-with-strings.Builder, one-file-per-concern shape as
// emit.go/emit_func.go/emit_term.go/types.go there), generalized because
// this module's MIR is already value-named SSA rather than the teacher's
// alloca-per-local model — there is no emitAllocas/emitParamStores pass
// here, every block parameter and instruction destination becomes an LLVM
// SSA register (`%name`) directly.
//
// This package never shells out to llc/clang and never parses its own
// output: producing object code is external tooling's job, matching the
// Non-goal framing in spec.md ("only its contract is specified").
package llvm

import (
	"fmt"
	"sort"
	"strings"

	"drift/internal/mir"
	"drift/internal/ssa"
	"drift/internal/types"
)

// calleeSig is what emitCall needs to type-annotate a call's arguments and
// result the way LLVM's textual syntax requires (`call <ret> @f(<ty> %a,
// ...)`) — collected once per module up front, mirroring the teacher's own
// funcSigs prepare pass in emit.go there.
type calleeSig struct {
	ret    string
	params []string
}

// Emitter accumulates one module's LLVM IR text.
type Emitter struct {
	ti          *types.Interner
	buf         strings.Builder
	resultTypes map[string]types.TypeID // %Result.* name -> the FnResult TypeID it was derived from
	funcSigs    map[string]calleeSig
}

// EmitModule lowers a confirmed-SSA module to LLVM IR text.
func EmitModule(m *ssa.Module, ti *types.Interner) (string, error) {
	e := &Emitter{ti: ti, resultTypes: map[string]types.TypeID{}, funcSigs: map[string]calleeSig{}}
	if m == nil {
		return "", nil
	}
	if err := e.collectResultTypes(m); err != nil {
		return "", err
	}
	if err := e.collectFuncSigs(m); err != nil {
		return "", err
	}
	e.emitPreamble()
	for _, f := range m.Funcs {
		if err := e.emitFunction(f); err != nil {
			return "", err
		}
	}
	return e.buf.String(), nil
}

// collectFuncSigs records each function's LLVM-level return and parameter
// types before any body is emitted, so a call site can type-annotate its
// arguments without re-deriving a callee's signature from its own MIR.
// Callees outside this module (imports) are left unresolved here; emitCall
// reports those as unsupported rather than guessing a signature.
func (e *Emitter) collectFuncSigs(m *ssa.Module) error {
	for _, f := range m.Funcs {
		retType := "void"
		if f.Result != types.NoTypeID {
			t, err := llvmScalarType(e.ti, f.Result)
			if err != nil {
				return &Error{Func: f.Name, Msg: err.Error()}
			}
			retType = t
		}
		params := make([]string, 0, len(f.Params))
		for _, p := range f.Params {
			t, err := llvmScalarType(e.ti, p.Type)
			if err != nil {
				return &Error{Func: f.Name, Msg: err.Error()}
			}
			params = append(params, t)
		}
		e.funcSigs[f.Name] = calleeSig{ret: retType, params: params}
	}
	return nil
}

func (e *Emitter) emitPreamble() {
	e.buf.WriteString("target triple = \"x86_64-linux-gnu\"\n\n")
	fmt.Fprintf(&e.buf, "%s = type { i64, ptr, ptr, ptr }\n", errorTypeName)

	names := make([]string, 0, len(e.resultTypes))
	for name := range e.resultTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		okType, _ := llvmScalarType(e.ti, mustOkType(e.ti, e.resultTypes[name]))
		fmt.Fprintf(&e.buf, "%s = type { i1, %s, %s }\n", name, okType, errorTypeName)
	}
	e.buf.WriteString("\n")
}

func mustOkType(ti *types.Interner, resultID types.TypeID) types.TypeID {
	info, ok := ti.FnResultInfo(resultID)
	if !ok {
		return types.NoTypeID
	}
	return info.Ok
}

// collectResultTypes walks every function so each distinct result-carrier
// shape in use gets exactly one `%Result.* = type {...}` declaration,
// emitted up front the way the teacher's prepareGlobals/prepareFunctions
// passes collect their own declarations before any function body is
// written.
func (e *Emitter) collectResultTypes(m *ssa.Module) error {
	for _, f := range m.Funcs {
		if f.Fallible && f.Result != types.NoTypeID {
			if err := e.registerResultType(f.Result); err != nil {
				return &Error{Func: f.Name, Msg: err.Error()}
			}
		}
		for _, name := range f.Order {
			blk := f.Block(name)
			for _, ins := range blk.Instrs {
				if ins.Kind == mir.InstrConstructOk || ins.Kind == mir.InstrConstructErr {
					if err := e.registerResultType(ins.Type); err != nil {
						return &Error{Func: f.Name, Msg: err.Error()}
					}
				}
			}
		}
	}
	return nil
}

func (e *Emitter) registerResultType(id types.TypeID) error {
	info, ok := e.ti.FnResultInfo(id)
	if !ok {
		return fmt.Errorf("type %d is not a result carrier", id)
	}
	okType, err := llvmScalarType(e.ti, info.Ok)
	if err != nil {
		return err
	}
	e.resultTypes[resultTypeName(okType)] = id
	return nil
}
