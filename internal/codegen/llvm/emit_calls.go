package llvm

import (
	"fmt"
	"strings"

	"drift/internal/mir"
)

// emitCall handles InstrCall, which the MIR builder produces only for a
// non-fallible callee: every call to a fallible callee lowers to TermCall
// instead, which v1's LLVM backend does not support — see
// checkSupportedShape. Callee
// argument types come from the module-wide calleeSig table collected in
// EmitModule's prepare pass rather than from the instruction itself, since
// mir.Instr does not carry per-argument types.
func (fe *funcEmitter) emitCall(ins mir.Instr) error {
	sig, ok := fe.e.funcSigs[ins.CallCallee]
	if !ok {
		return &Error{Func: fe.f.Name, Msg: fmt.Sprintf("call to %s: no known signature (imported callees are not supported by v1's LLVM lowering)", ins.CallCallee)}
	}
	if len(sig.params) != len(ins.CallArgs) {
		return &Error{Func: fe.f.Name, Msg: fmt.Sprintf("call to %s: argument count mismatch", ins.CallCallee)}
	}
	args := make([]string, len(ins.CallArgs))
	for i, a := range ins.CallArgs {
		args[i] = fmt.Sprintf("%s %%%s", sig.params[i], a)
	}
	if sig.ret == "void" {
		fmt.Fprintf(&fe.e.buf, "  call void @%s(%s)\n", ins.CallCallee, strings.Join(args, ", "))
		return nil
	}
	fmt.Fprintf(&fe.e.buf, "  %%%s = call %s @%s(%s)\n", ins.Dest, sig.ret, ins.CallCallee, strings.Join(args, ", "))
	return nil
}
