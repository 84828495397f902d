package llvm

import (
	"fmt"

	"drift/internal/mir"
)

// emitInstr dispatches one MIR instruction. Only the instruction kinds
// spec §4.10 names — constant materialization, integer arithmetic,
// assignment aliases, call, and Error/result-Ok/Err construction — have a
// case here; anything else (arrays, variant fields, address-of) falls to
// the default and is reported as unsupported, per the section's mandate to
// fail rather than emit malformed IR.
func (fe *funcEmitter) emitInstr(ins mir.Instr) error {
	switch ins.Kind {
	case mir.InstrConst:
		return fe.emitConst(ins)
	case mir.InstrMove, mir.InstrCopy:
		return fe.emitAlias(ins)
	case mir.InstrBinaryOp:
		return fe.emitBinaryOp(ins)
	case mir.InstrUnaryOp:
		return fe.emitUnaryOp(ins)
	case mir.InstrCall:
		return fe.emitCall(ins)
	case mir.InstrConstructOk:
		return fe.emitConstruct(ins, false)
	case mir.InstrConstructErr:
		return fe.emitConstruct(ins, true)
	case mir.InstrDrop:
		return nil // no refcounted/owned runtime representation exists in v1's ABI to release
	default:
		return &Error{Func: fe.f.Name, Msg: fmt.Sprintf("instruction kind %v is not supported by v1's LLVM lowering", ins.Kind)}
	}
}

func (fe *funcEmitter) emitConst(ins mir.Instr) error {
	ty, err := llvmScalarType(fe.e.ti, ins.Type)
	if err != nil {
		return &Error{Func: fe.f.Name, Msg: err.Error()}
	}
	switch ins.ConstKind {
	case mir.ConstInt:
		fmt.Fprintf(&fe.e.buf, "  %%%s = add %s 0, %d\n", ins.Dest, ty, ins.ConstInt)
		return nil
	case mir.ConstBool:
		v := 0
		if ins.ConstBool {
			v = 1
		}
		fmt.Fprintf(&fe.e.buf, "  %%%s = add %s 0, %d\n", ins.Dest, ty, v)
		return nil
	default:
		return &Error{Func: fe.f.Name, Msg: "string constants are not supported by v1's LLVM lowering"}
	}
}

// emitAlias gives a Move/Copy its own distinct SSA register, since this
// IR's Move/Copy name a fresh destination rather than reusing the source's
// register directly. `select i1 true, T %src, T %src` is the standard
// type-generic identity idiom — it works for the struct-typed Error and
// result-carrier values as well as the scalar ones, unlike an arithmetic
// no-op which would only make sense for integers.
func (fe *funcEmitter) emitAlias(ins mir.Instr) error {
	ty, err := llvmScalarType(fe.e.ti, ins.Type)
	if err != nil {
		return &Error{Func: fe.f.Name, Msg: err.Error()}
	}
	fmt.Fprintf(&fe.e.buf, "  %%%s = select i1 true, %s %%%s, %s %%%s\n", ins.Dest, ty, ins.Src, ty, ins.Src)
	return nil
}

var binaryOpcode = map[string]string{
	"+": "add",
	"-": "sub",
	"*": "mul",
	"/": "sdiv",
	"%": "srem",
	"&": "and",
	"|": "or",
	"^": "xor",
}

var binaryCmp = map[string]string{
	"==": "eq",
	"!=": "ne",
	"<":  "slt",
	"<=": "sle",
	">":  "sgt",
	">=": "sge",
}

func (fe *funcEmitter) emitBinaryOp(ins mir.Instr) error {
	destTy, err := llvmScalarType(fe.e.ti, ins.Type)
	if err != nil {
		return &Error{Func: fe.f.Name, Msg: err.Error()}
	}
	if op, ok := binaryOpcode[ins.BinOp]; ok {
		fmt.Fprintf(&fe.e.buf, "  %%%s = %s %s %%%s, %%%s\n", ins.Dest, op, destTy, ins.Left, ins.Right)
		return nil
	}
	if cmp, ok := binaryCmp[ins.BinOp]; ok {
		// icmp's operand type is the operands' own type, not the i1 result
		// destTy names — looked up from the function-wide value-type table
		// rather than assumed, since "==" compares bools as well as ints.
		operandTy, err := llvmScalarType(fe.e.ti, fe.valType[ins.Left])
		if err != nil {
			return &Error{Func: fe.f.Name, Msg: err.Error()}
		}
		fmt.Fprintf(&fe.e.buf, "  %%%s = icmp %s %s %%%s, %%%s\n", ins.Dest, cmp, operandTy, ins.Left, ins.Right)
		return nil
	}
	if ins.BinOp == "&&" || ins.BinOp == "||" {
		op := "and"
		if ins.BinOp == "||" {
			op = "or"
		}
		fmt.Fprintf(&fe.e.buf, "  %%%s = %s i1 %%%s, %%%s\n", ins.Dest, op, ins.Left, ins.Right)
		return nil
	}
	return &Error{Func: fe.f.Name, Msg: fmt.Sprintf("binary operator %q is not supported by v1's LLVM lowering", ins.BinOp)}
}

func (fe *funcEmitter) emitUnaryOp(ins mir.Instr) error {
	destTy, err := llvmScalarType(fe.e.ti, ins.Type)
	if err != nil {
		return &Error{Func: fe.f.Name, Msg: err.Error()}
	}
	switch ins.UnOp {
	case "-":
		fmt.Fprintf(&fe.e.buf, "  %%%s = sub %s 0, %%%s\n", ins.Dest, destTy, ins.Operand)
		return nil
	case "!":
		fmt.Fprintf(&fe.e.buf, "  %%%s = xor i1 %%%s, true\n", ins.Dest, ins.Operand)
		return nil
	default:
		return &Error{Func: fe.f.Name, Msg: fmt.Sprintf("unary operator %q is not supported by v1's LLVM lowering", ins.UnOp)}
	}
}

// emitConstruct builds a result-carrier struct value via insertvalue on a
// zero-initialized aggregate, exactly as spec §4.10 specifies. The unused
// Ok/Err slot is left at its zero value rather than given a defined
// payload — reading it without first checking is_err is a caller bug the
// ABI doesn't protect against, matching the struct's plain-data framing in
// §4.10's ABI table.
func (fe *funcEmitter) emitConstruct(ins mir.Instr, isErr bool) error {
	resultTy, err := llvmScalarType(fe.e.ti, ins.Type)
	if err != nil {
		return &Error{Func: fe.f.Name, Msg: err.Error()}
	}
	info, ok := fe.e.ti.FnResultInfo(ins.Type)
	if !ok {
		return &Error{Func: fe.f.Name, Msg: fmt.Sprintf("type %d is not a result carrier", ins.Type)}
	}
	slotTy := errorTypeName
	slotIdx := 2
	if !isErr {
		okTy, err := llvmScalarType(fe.e.ti, info.Ok)
		if err != nil {
			return &Error{Func: fe.f.Name, Msg: err.Error()}
		}
		slotTy = okTy
		slotIdx = 1
	}
	tagTmp := fe.newTemp()
	tag := 0
	if isErr {
		tag = 1
	}
	fmt.Fprintf(&fe.e.buf, "  %%%s = insertvalue %s zeroinitializer, i1 %d, 0\n", tagTmp, resultTy, tag)
	fmt.Fprintf(&fe.e.buf, "  %%%s = insertvalue %s %%%s, %s %%%s, %d\n", ins.Dest, resultTy, tagTmp, slotTy, ins.Value, slotIdx)
	return nil
}
