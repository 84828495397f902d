package types //nolint:revive

import (
	"slices"

	"drift/internal/source"
)

// FindVariantInstance returns a variant TypeID whose name and type
// arguments match args, so that instantiating the same generic variant
// twice with structurally identical arguments aliases to one TypeID.
func (in *Interner) FindVariantInstance(name source.StringID, args []TypeID) (TypeID, bool) {
	if in == nil || name == source.NoStringID {
		return NoTypeID, false
	}
	for id := TypeID(1); int(id) < len(in.types); id++ {
		if in.types[id].Kind != KindVariant {
			continue
		}
		info, ok := in.VariantInfo(id)
		if !ok || info == nil {
			continue
		}
		if info.Name != name {
			continue
		}
		if slices.Equal(info.TypeArgs, args) {
			return id, true
		}
	}
	return NoTypeID, false
}
