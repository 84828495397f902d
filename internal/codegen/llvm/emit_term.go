package llvm

import (
	"fmt"

	"drift/internal/mir"
	"drift/internal/types"
)

// emitTerminator handles the three terminator kinds spec §4.10 lists as
// supported. checkSupportedShape already rejected TermCall/TermRaise/
// TermNone for the whole function before emission started, so this only
// needs to cover Return/Br/CondBr.
func (fe *funcEmitter) emitTerminator(blk *mir.Block) error {
	switch blk.Term.Kind {
	case mir.TermReturn:
		if !blk.Term.Return.HasValue || fe.f.Result == types.NoTypeID {
			fmt.Fprint(&fe.e.buf, "  ret void\n")
			return nil
		}
		ty, err := llvmScalarType(fe.e.ti, fe.f.Result)
		if err != nil {
			return &Error{Func: fe.f.Name, Msg: err.Error()}
		}
		fmt.Fprintf(&fe.e.buf, "  ret %s %%%s\n", ty, blk.Term.Return.Value)
		return nil
	case mir.TermBr:
		fmt.Fprintf(&fe.e.buf, "  br label %%%s\n", blk.Term.Br.Target)
		return nil
	case mir.TermCondBr:
		fmt.Fprintf(&fe.e.buf, "  br i1 %%%s, label %%%s, label %%%s\n",
			blk.Term.CondBr.Cond, blk.Term.CondBr.Then.Target, blk.Term.CondBr.Else.Target)
		return nil
	default:
		return &Error{Func: fe.f.Name, Msg: fmt.Sprintf("terminator kind %v is not supported by v1's LLVM lowering", blk.Term.Kind)}
	}
}
