package types

import (
	"fmt"

	"fortio.org/safecast"
)

// FnResultInfo stores the Ok/Err member types of a FnResult<Ok,Err> carrier,
// the internal aggregate used to represent a function's throwing return
// value ({is_err, ok, err}) before codegen lowers it to a concrete struct.
type FnResultInfo struct {
	Ok  TypeID
	Err TypeID
}

// RegisterFnResult creates or finds the FnResult<ok,err> type.
func (in *Interner) RegisterFnResult(ok, err TypeID) TypeID {
	if in != nil {
		for id := TypeID(1); int(id) < len(in.types); id++ {
			tt := in.types[id]
			if tt.Kind != KindFnResult {
				continue
			}
			if int(tt.Payload) >= len(in.fnResults) {
				continue
			}
			info := in.fnResults[tt.Payload]
			if info.Ok == ok && info.Err == err {
				return id
			}
		}
	}
	slot := in.appendFnResultInfo(FnResultInfo{Ok: ok, Err: err})
	return in.internRaw(Type{Kind: KindFnResult, Payload: slot})
}

// FnResultInfo retrieves FnResult member types by TypeID.
func (in *Interner) FnResultInfo(id TypeID) (*FnResultInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFnResult {
		return nil, false
	}
	if int(tt.Payload) >= len(in.fnResults) {
		return nil, false
	}
	return &in.fnResults[tt.Payload], true
}

func (in *Interner) appendFnResultInfo(info FnResultInfo) uint32 {
	in.fnResults = append(in.fnResults, info)
	slot, err := safecast.Conv[uint32](len(in.fnResults) - 1)
	if err != nil {
		panic(fmt.Errorf("fn result info overflow: %w", err))
	}
	return slot
}
