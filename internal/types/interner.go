package types

import (
	"fmt"

	"fortio.org/safecast"

	"drift/internal/source"
)

// Builtins stores TypeIDs for the primitive scalar kinds, the Error type
// carried by thrown errors, and the Unknown sentinel that appears before
// the checker has resolved an expression's type.
type Builtins struct {
	Invalid TypeID
	Unit    TypeID
	Bottom  TypeID
	Bool    TypeID
	String  TypeID
	Int     TypeID
	Error   TypeID
	Unknown TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Variant, function, FnResult, and type-parameter metadata too large to fit
// in a Type's fixed-width fields live in side tables, indexed by Type.Payload.
type Interner struct {
	types     []Type
	index     map[typeKey]TypeID
	builtins  Builtins
	Strings   *source.Interner
	copyTypes map[TypeID]struct{}
	variants  []VariantInfo
	fns       []FnInfo
	fnResults []FnResultInfo
	params    []TypeParamInfo
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[typeKey]TypeID, 64),
	}
	in.variants = append(in.variants, VariantInfo{}) // reserve 0 as invalid sentinel
	in.fns = append(in.fns, FnInfo{})
	in.fnResults = append(in.fnResults, FnResultInfo{})
	in.params = append(in.params, TypeParamInfo{})
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bottom = in.Intern(Type{Kind: KindBottom})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.Error = in.Intern(Type{Kind: KindError})
	in.builtins.Unknown = in.Intern(Type{Kind: KindUnknown})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
// Used for descriptors that carry a freshly allocated side-table slot
// (variants, fns, fnResults, params), which are never structurally shared.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	key := typeKey(t)
	in.index[key] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

type typeKey struct {
	Kind    Kind
	Elem    TypeID
	Count   uint32
	Mutable bool
	Payload uint32
}

// IsCopy reports whether values of type id can be implicitly Copied rather
// than Moved: moving a Copy value leaves the original binding live, moving
// a non-Copy value does not. Neither sema nor the MIR builder calls it.
//
// Copy: bool, int, unit, bottom, shared references (&T, Copy if T is Copy).
// Not Copy: string, array, variant, error, FnResult, mutable references.
func (in *Interner) IsCopy(id TypeID) bool {
	if id == NoTypeID {
		return false
	}
	if in != nil && in.copyTypes != nil {
		if _, ok := in.copyTypes[id]; ok {
			return true
		}
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindBool, KindInt, KindUnit, KindBottom:
		return true
	case KindReference:
		if tt.Mutable {
			return false
		}
		return in.IsCopy(tt.Elem)
	default:
		return false
	}
}

// MarkCopyType records a type as Copy-capable outside the structural rule
// in IsCopy, e.g. a variant whose arms are all scalar fields.
func (in *Interner) MarkCopyType(id TypeID) {
	if in == nil || id == NoTypeID {
		return
	}
	if in.copyTypes == nil {
		in.copyTypes = make(map[TypeID]struct{}, 64)
	}
	in.copyTypes[id] = struct{}{}
}
