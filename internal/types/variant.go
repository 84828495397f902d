package types

import (
	"fmt"

	"fortio.org/safecast"

	"drift/internal/source"
)

// VariantField is one named field of a variant arm.
type VariantField struct {
	Name source.StringID
	Type TypeID
}

// VariantArm is one named arm of an algebraic sum, carrying an ordered set
// of named fields.
type VariantArm struct {
	Name   source.StringID
	Fields []VariantField
}

// VariantInfo stores metadata for a variant type: its declaration site, its
// arms, and (for instantiations of a parametric schema) the type parameters
// it was declared with and the type arguments it was instantiated with.
type VariantInfo struct {
	Name       source.StringID
	Decl       source.Span
	Arms       []VariantArm
	TypeParams []TypeID
	TypeArgs   []TypeID
}

// RegisterVariant creates a fresh, uninstantiated (or non-generic) variant
// type. Callers fill in arms afterward via SetVariantArms once the arm
// field types are known, since arm fields may reference the variant's own
// type parameters or be mutually recursive with other variants.
func (in *Interner) RegisterVariant(name source.StringID, decl source.Span, typeParams []TypeID) TypeID {
	slot := in.appendVariantInfo(VariantInfo{
		Name:       name,
		Decl:       decl,
		TypeParams: cloneTypeArgs(typeParams),
	})
	return in.internRaw(Type{Kind: KindVariant, Payload: slot})
}

// RegisterVariantInstance creates a variant TypeID representing base
// instantiated with args. Callers should first consult FindVariantInstance
// so structurally identical instantiations alias.
func (in *Interner) RegisterVariantInstance(name source.StringID, decl source.Span, args []TypeID) TypeID {
	slot := in.appendVariantInfo(VariantInfo{
		Name:     name,
		Decl:     decl,
		TypeArgs: cloneTypeArgs(args),
	})
	return in.internRaw(Type{Kind: KindVariant, Payload: slot})
}

// SetVariantArms assigns arms to a previously registered variant type.
func (in *Interner) SetVariantArms(id TypeID, arms []VariantArm) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindVariant || int(tt.Payload) >= len(in.variants) {
		return
	}
	in.variants[tt.Payload].Arms = cloneVariantArms(arms)
}

// VariantInfo returns metadata for the provided variant TypeID.
func (in *Interner) VariantInfo(id TypeID) (*VariantInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindVariant {
		return nil, false
	}
	if int(tt.Payload) >= len(in.variants) {
		return nil, false
	}
	return &in.variants[tt.Payload], true
}

// VariantArgs returns the type arguments a variant instance was built with.
func (in *Interner) VariantArgs(id TypeID) []TypeID {
	info, ok := in.VariantInfo(id)
	if !ok || info == nil {
		return nil
	}
	return info.TypeArgs
}

// Instantiate substitutes args for base's type parameters into each arm's
// field types, producing a new concrete variant instance. Structurally
// identical instantiations (same name, same args) alias via
// FindVariantInstance, so repeated instantiation of the same generic
// variant with the same arguments returns the same TypeID.
func (in *Interner) Instantiate(base TypeID, args []TypeID) TypeID {
	baseInfo, ok := in.VariantInfo(base)
	if !ok || baseInfo == nil {
		return NoTypeID
	}
	if existing, found := in.FindVariantInstance(baseInfo.Name, args); found {
		return existing
	}

	substitution := make(map[TypeID]TypeID, len(baseInfo.TypeParams))
	for i, param := range baseInfo.TypeParams {
		if i < len(args) {
			substitution[param] = args[i]
		}
	}

	instanceArms := make([]VariantArm, len(baseInfo.Arms))
	for i, arm := range baseInfo.Arms {
		fields := make([]VariantField, len(arm.Fields))
		for j, field := range arm.Fields {
			fields[j] = VariantField{Name: field.Name, Type: in.substitute(field.Type, substitution)}
		}
		instanceArms[i] = VariantArm{Name: arm.Name, Fields: fields}
	}

	instance := in.RegisterVariantInstance(baseInfo.Name, baseInfo.Decl, args)
	in.SetVariantArms(instance, instanceArms)
	return instance
}

func (in *Interner) substitute(id TypeID, substitution map[TypeID]TypeID) TypeID {
	if replacement, ok := substitution[id]; ok {
		return replacement
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case KindReference:
		return in.Intern(MakeReference(in.substitute(tt.Elem, substitution), tt.Mutable))
	case KindArray:
		return in.Intern(MakeArray(in.substitute(tt.Elem, substitution), tt.Count))
	default:
		return id
	}
}

func (in *Interner) appendVariantInfo(info VariantInfo) uint32 {
	in.variants = append(in.variants, VariantInfo{
		Name:       info.Name,
		Decl:       info.Decl,
		Arms:       cloneVariantArms(info.Arms),
		TypeParams: cloneTypeArgs(info.TypeParams),
		TypeArgs:   cloneTypeArgs(info.TypeArgs),
	})
	slot, err := safecast.Conv[uint32](len(in.variants) - 1)
	if err != nil {
		panic(fmt.Errorf("variant info overflow: %w", err))
	}
	return slot
}

func cloneVariantArms(arms []VariantArm) []VariantArm {
	if arms == nil {
		return nil
	}
	out := make([]VariantArm, len(arms))
	for i, arm := range arms {
		fields := make([]VariantField, len(arm.Fields))
		copy(fields, arm.Fields)
		out[i] = VariantArm{Name: arm.Name, Fields: fields}
	}
	return out
}

func cloneTypeArgs(args []TypeID) []TypeID {
	if args == nil {
		return nil
	}
	out := make([]TypeID, len(args))
	copy(out, args)
	return out
}
