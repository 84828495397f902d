package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindBottom
	KindBool
	KindString
	KindInt
	KindError
	KindUnknown
	KindReference
	KindArray
	KindVariant
	KindFnResult
	KindFn
	KindTypeParam
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "unit"
	case KindBottom:
		return "bottom"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindError:
		return "error"
	case KindUnknown:
		return "unknown"
	case KindReference:
		return "reference"
	case KindArray:
		return "array"
	case KindVariant:
		return "variant"
	case KindFnResult:
		return "fnresult"
	case KindFn:
		return "fn"
	case KindTypeParam:
		return "typeparam"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ArrayDynamicLength marks arrays with unknown compile-time length.
const ArrayDynamicLength = ^uint32(0)

// Type is a compact descriptor for any supported type. Payload indexes into
// one of the Interner's side tables (variants, fns, fnResults, params),
// depending on Kind; its meaning is otherwise opaque.
type Type struct {
	Kind    Kind
	Elem    TypeID
	Count   uint32
	Mutable bool
	Payload uint32
}

// Descriptor helpers ---------------------------------------------------------

// MakeArray describes an array of element type and length. Use
// ArrayDynamicLength for runtime-sized arrays.
func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}

// MakeReference describes &T or &mut T depending on the mutable flag.
func MakeReference(elem TypeID, mutable bool) Type {
	return Type{Kind: KindReference, Elem: elem, Mutable: mutable}
}
