package llvm

import (
	"fmt"

	"drift/internal/types"
)

// errorTypeName is the one structural LLVM type v1 ever needs beyond the
// scalar Int/Bool registers and the per-result-carrier structs: the Error
// value's own layout, fixed by spec §4.10's ABI table.
const errorTypeName = "%Error"

// llvmScalarType maps a drift type to its v1 LLVM representation. Only the
// ABI's named scalar types — Int, Bool, Error, and FnResult carriers of
// those — have one; anything else (arrays, variants, references) is
// outside v1's supported surface and reported via *Error so callers raise
// rather than emit malformed IR, per spec §4.10's failure-mode mandate.
func llvmScalarType(ti *types.Interner, id types.TypeID) (string, error) {
	if ti == nil {
		return "", fmt.Errorf("missing type interner")
	}
	bi := ti.Builtins()
	switch id {
	case bi.Int:
		return "i64", nil
	case bi.Bool:
		return "i1", nil
	case bi.Error:
		return errorTypeName, nil
	}
	if info, ok := ti.FnResultInfo(id); ok {
		okType, err := llvmScalarType(ti, info.Ok)
		if err != nil {
			return "", err
		}
		return resultTypeName(okType), nil
	}
	return "", fmt.Errorf("type %d has no scalar representation in v1's LLVM ABI", id)
}

// resultTypeName derives a stable, distinct LLVM struct name per Ok type,
// so `FnResult<Int,Error>` and a future `FnResult<Bool,Error>` each get
// their own `%Result.*` declaration rather than colliding.
func resultTypeName(okType string) string {
	return "%Result." + sanitizeTypeSuffix(okType)
}

func sanitizeTypeSuffix(t string) string {
	out := make([]rune, 0, len(t))
	for _, r := range t {
		if r == '%' || r == '*' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
