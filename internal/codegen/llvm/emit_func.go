package llvm

import (
	"fmt"
	"strings"

	"drift/internal/mir"
	"drift/internal/types"
)

func (e *Emitter) emitFunction(f *mir.Func) error {
	if f == nil {
		return nil
	}
	if err := checkSupportedShape(f); err != nil {
		return err
	}

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
		pt, err := llvmScalarType(e.ti, p.Type)
		if err != nil {
			return &Error{Func: f.Name, Msg: fmt.Sprintf("parameter %s: %s", p.Name, err.Error())}
		}
		params = append(params, fmt.Sprintf("%s %%%s", pt, p.Name))
	}
	fmt.Fprintf(&e.buf, "define %s @%s(%s) {\n", retType, f.Name, strings.Join(params, ", "))

	fe := &funcEmitter{e: e, f: f, incoming: collectIncoming(f), valType: collectValueTypes(f)}
	for _, name := range f.Order {
		blk := f.Block(name)
		fmt.Fprintf(&e.buf, "%s:\n", blk.Name)
		if err := fe.emitPhis(blk); err != nil {
			return err
		}
		for _, ins := range blk.Instrs {
			if err := fe.emitInstr(ins); err != nil {
				return err
			}
		}
		if err := fe.emitTerminator(blk); err != nil {
			return err
		}
	}
	e.buf.WriteString("}\n\n")
	return nil
}

// checkSupportedShape rejects a whole function up front when it contains a
// construct outside v1's supported surface: a TermCall or TermRaise
// terminator (spec §4.10 lists only Return/Br/CondBr as supported), or a
// block with more than one parameter ("multiple parameters" in the same
// section's failure-mode list — v1's phi emission handles one join value
// per block, not a tuple of them). Checking every block before writing any
// of the function's IR means a rejected function never leaves partial
// output in the buffer.
func checkSupportedShape(f *mir.Func) error {
	for _, name := range f.Order {
		blk := f.Block(name)
		if len(blk.Params) > 1 {
			return &Error{Func: f.Name, Msg: fmt.Sprintf("block %s has %d parameters; v1 supports at most one", name, len(blk.Params))}
		}
		switch blk.Term.Kind {
		case mir.TermCall:
			return &Error{Func: f.Name, Msg: "fallible call terminators are not supported by v1's LLVM lowering"}
		case mir.TermRaise:
			return &Error{Func: f.Name, Msg: "raise terminators are not supported by v1's LLVM lowering"}
		case mir.TermNone:
			return &Error{Func: f.Name, Msg: fmt.Sprintf("block %s is unterminated", name)}
		}
	}
	return nil
}

type incomingEdge struct {
	pred string
	arg  string
}

// collectIncoming maps each block's single parameter (if any) to the
// (predecessor label, argument) pairs its Br/CondBr edges feed it, so phi
// emission doesn't re-scan the whole function per block.
func collectIncoming(f *mir.Func) map[string][]incomingEdge {
	out := map[string][]incomingEdge{}
	record := func(pred string, e mir.Edge) {
		if len(e.Args) == 0 {
			return
		}
		out[e.Target] = append(out[e.Target], incomingEdge{pred: pred, arg: e.Args[0]})
	}
	for _, name := range f.Order {
		blk := f.Block(name)
		switch blk.Term.Kind {
		case mir.TermBr:
			record(name, blk.Term.Br)
		case mir.TermCondBr:
			record(name, blk.Term.CondBr.Then)
			record(name, blk.Term.CondBr.Else)
		}
	}
	return out
}

type funcEmitter struct {
	e        *Emitter
	f        *mir.Func
	incoming map[string][]incomingEdge
	valType  map[string]types.TypeID
	tmp      int
}

// collectValueTypes maps every value name in f to its drift type, the same
// way internal/effects.checkReturnsCarried does for its own return-type
// check — here so emitBinaryOp's icmp can type its operands from the
// values actually being compared instead of guessing.
func collectValueTypes(f *mir.Func) map[string]types.TypeID {
	vt := map[string]types.TypeID{}
	for _, p := range f.Params {
		vt[p.Name] = p.Type
	}
	for _, name := range f.Order {
		blk := f.Block(name)
		for _, p := range blk.Params {
			vt[p.Name] = p.Type
		}
		for _, ins := range blk.Instrs {
			if ins.Dest != "" {
				vt[ins.Dest] = ins.Type
			}
		}
	}
	return vt
}

// newTemp names a compiler-internal intermediate register this package
// itself needs (e.g. the tag value insertvalue builds a result carrier
// from), distinct from any name mir.Lower itself ever produces so the two
// naming schemes can never collide.
func (fe *funcEmitter) newTemp() string {
	fe.tmp++
	return fmt.Sprintf("llvm.tmp%d", fe.tmp)
}

func (fe *funcEmitter) emitPhis(blk *mir.Block) error {
	if len(blk.Params) == 0 {
		return nil
	}
	p := blk.Params[0]
	ins := fe.incoming[blk.Name]
	if len(ins) == 0 {
		return &Error{Func: fe.f.Name, Msg: fmt.Sprintf("block %s has a parameter but no incoming Br/CondBr edge", blk.Name)}
	}
	ty, err := llvmScalarType(fe.e.ti, p.Type)
	if err != nil {
		return &Error{Func: fe.f.Name, Msg: err.Error()}
	}
	pairs := make([]string, 0, len(ins))
	for _, in := range ins {
		pairs = append(pairs, fmt.Sprintf("[ %%%s, %%%s ]", in.arg, in.pred))
	}
	fmt.Fprintf(&fe.e.buf, "  %%%s = phi %s %s\n", p.Name, ty, strings.Join(pairs, ", "))
	return nil
}
