// Package driftpipeline wires driftc's compilation stages — HIR lowering,
// type/borrow checking, MIR lowering, MIR verification, SSA confirmation,
// effect checking, and LLVM text emission — into the single ordered
// sequence cmd/driftc's compile subcommands drive, mirroring how the
// teacher's internal/buildpipeline.Compile sequences driver.Diagnose,
// mir.Lower and its own later stages behind one CompileRequest/CompileResult
// pair rather than leaving main.go to call each stage directly.
package driftpipeline

import (
	"context"
	"fmt"
	"time"

	"drift/internal/astjson"
	"drift/internal/codegen/llvm"
	"drift/internal/diag"
	"drift/internal/effects"
	"drift/internal/hir"
	"drift/internal/mir"
	"drift/internal/sema"
	"drift/internal/ssa"
	"drift/internal/trace"
	"drift/internal/types"
)

// Stage names one pipeline phase, used both for trace span names and for
// Timings lookups.
type Stage string

const (
	StageHIRLower  Stage = "hir-lower"
	StageCheck     Stage = "check"
	StageMIRLower  Stage = "mir-lower"
	StageMIRVerify Stage = "mir-verify"
	StageSSA       Stage = "ssa"
	StageEffects   Stage = "effects"
	StageCodegen   Stage = "codegen"
)

var allStages = []Stage{StageHIRLower, StageCheck, StageMIRLower, StageMIRVerify, StageSSA, StageEffects, StageCodegen}

// Timings records how long each stage took, for --timings output.
type Timings struct {
	stages map[Stage]time.Duration
}

// Set stores a duration for stage.
func (t *Timings) set(stage Stage, d time.Duration) {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration, len(allStages))
	}
	t.stages[stage] = d
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Stages returns every stage in pipeline order, for iterating Timings.
func Stages() []Stage { return allStages }

// Request configures one compile-file invocation.
type Request struct {
	// Source is the decoded program document (see package astjson for the
	// wire format driftc reads from its program JSON argument).
	Source *astjson.ProgramDoc

	// Entry, when non-empty, requires the named function to exist; an
	// entry point absent from Source makes Run return an error rather
	// than a diagnostic.
	Entry string

	MaxDiagnostics int
	Tracer         trace.Tracer
}

// Result captures every pipeline artifact compile-file's caller may need:
// the emitted LLVM IR text, the diagnostic bag (populated even on success,
// e.g. with warnings), and per-stage timings.
type Result struct {
	LLVM    string
	Bag     *diag.Bag
	Timings Timings

	Types *types.Interner
	MIR   *mir.Module

	// Funcs is the declared signature table resolved from Source, exposed
	// so a caller emitting a package (see internal/pkgfmt.ModuleIface) can
	// describe each function's exported shape without re-decoding Source.
	Funcs map[string]*sema.FuncSig
}

// Run drives Source through every compilation stage in order, stopping at
// the first stage that reports an error diagnostic or returns an error of
// its own. The returned Bag always reflects everything collected up to the
// point execution stopped.
func Run(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	tracer := req.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	maxDiag := req.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 200
	}

	var result Result
	bag := diag.NewBag(maxDiag)
	result.Bag = bag

	ti := types.NewInterner()
	result.Types = ti

	prog, sigs, err := astjson.ToProgram(req.Source, ti)
	if err != nil {
		return result, fmt.Errorf("driftpipeline: decoding input: %w", err)
	}
	result.Funcs = sigs
	if req.Entry != "" {
		if _, ok := sigs[req.Entry]; !ok {
			return result, fmt.Errorf("driftpipeline: entry point %q not declared in input", req.Entry)
		}
	}

	mod, err := stage(tracer, &result.Timings, StageHIRLower, func() (*hir.Module, error) {
		m := hir.Lower(prog, bag)
		if bag.HasErrors() {
			return m, fmt.Errorf("hir lowering reported errors")
		}
		return m, nil
	})
	if err != nil {
		return result, err
	}

	_, err = stage(tracer, &result.Timings, StageCheck, func() (struct{}, error) {
		checker := sema.NewChecker(ti, bag)
		for name, sig := range sigs {
			checker.Funcs[name] = sig
		}
		checker.CheckModule(mod)
		if bag.HasErrors() {
			return struct{}{}, fmt.Errorf("type/borrow checking reported errors")
		}
		return struct{}{}, nil
	})
	if err != nil {
		return result, err
	}

	mirMod, err := stage(tracer, &result.Timings, StageMIRLower, func() (*mir.Module, error) {
		return mir.Lower(mod, sigs, ti), nil
	})
	if err != nil {
		return result, err
	}
	result.MIR = mirMod

	_, err = stage(tracer, &result.Timings, StageMIRVerify, func() (struct{}, error) {
		return struct{}{}, mir.Validate(mirMod, ti)
	})
	if err != nil {
		return result, err
	}

	ssaMod, err := stage(tracer, &result.Timings, StageSSA, func() (*ssa.Module, error) {
		return ssa.Build(mirMod)
	})
	if err != nil {
		return result, err
	}

	_, err = stage(tracer, &result.Timings, StageEffects, func() (struct{}, error) {
		return struct{}{}, effects.Check(mirMod, ti)
	})
	if err != nil {
		return result, err
	}

	ir, err := stage(tracer, &result.Timings, StageCodegen, func() (string, error) {
		return llvm.EmitModule(ssaMod, ti)
	})
	if err != nil {
		return result, err
	}
	result.LLVM = ir

	return result, nil
}

func stage[T any](tracer trace.Tracer, timings *Timings, name Stage, fn func() (T, error)) (T, error) {
	span := trace.Begin(tracer, trace.ScopePass, string(name), 0)
	start := time.Now()
	out, err := fn()
	timings.set(name, time.Since(start))
	detail := "ok"
	if err != nil {
		detail = err.Error()
	}
	span.End(detail)
	return out, err
}
