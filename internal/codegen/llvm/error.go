package llvm

import "fmt"

// Error reports a construct outside v1's supported lowering surface —
// spec §4.10 requires these fail loudly rather than emit malformed IR.
type Error struct {
	Func string
	Msg  string
}

func (e *Error) Error() string {
	if e.Func == "" {
		return e.Msg
	}
	return fmt.Sprintf("function %s: %s", e.Func, e.Msg)
}
