package types

import (
	"fmt"

	"fortio.org/safecast"

	"drift/internal/source"
)

// TypeParamInfo stores metadata about a parametric variant's type parameter.
type TypeParamInfo struct {
	Name  source.StringID
	Owner uint32
	Index uint32
}

// RegisterTypeParam allocates a new type parameter descriptor, owned by the
// variant (or function) whose Payload slot is owner.
func (in *Interner) RegisterTypeParam(name source.StringID, owner, index uint32) TypeID {
	slot := in.appendTypeParamInfo(TypeParamInfo{
		Name:  name,
		Owner: owner,
		Index: index,
	})
	return in.internRaw(Type{
		Kind:    KindTypeParam,
		Count:   owner,
		Payload: slot,
	})
}

// TypeParamInfo returns metadata for the provided type parameter.
func (in *Interner) TypeParamInfo(id TypeID) (*TypeParamInfo, bool) {
	if id == NoTypeID {
		return nil, false
	}
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTypeParam {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.params) {
		return nil, false
	}
	info := in.params[tt.Payload]
	return &info, true
}

// RemapTypeParamOwners updates type parameter owner IDs using the provided
// mapping, keyed by old owner IDs and yielding new owner IDs. Used when a
// variant declaration is cloned for a fresh instantiation slot.
func (in *Interner) RemapTypeParamOwners(mapping map[uint32]uint32) {
	if in == nil || len(mapping) == 0 {
		return
	}
	for i := range in.params {
		if i == 0 {
			continue
		}
		owner := in.params[i].Owner
		if mapped, ok := mapping[owner]; ok {
			in.params[i].Owner = mapped
		}
	}
}

func (in *Interner) appendTypeParamInfo(info TypeParamInfo) uint32 {
	if in.params == nil {
		in.params = append(in.params, TypeParamInfo{})
	}
	in.params = append(in.params, info)
	slot, err := safecast.Conv[uint32](len(in.params) - 1)
	if err != nil {
		panic(fmt.Errorf("type param index overflow: %w", err))
	}
	return slot
}
