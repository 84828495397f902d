package sema

import (
	"drift/internal/diag"
	"drift/internal/hir"
)

// checkThrowDiscipline cross-checks the events a function's body was
// observed to raise (summary, accumulated by the type checker from throw
// statements, callee signatures, and '?' propagation) against what the
// function declares: a nothrow function must raise nothing, and a fallible
// function may only raise events present in its declared Throws set.
func checkThrowDiscipline(c *Checker, fn *hir.Func, summary map[string]struct{}) {
	if len(summary) == 0 {
		return
	}
	if !fn.Fallible {
		d := diag.NewError(diag.SemaNothrowMayThrow, fn.Span, "function declared nothrow may transitively throw")
		c.Bag.Add(&d)
		return
	}
	declared := make(map[string]struct{}, len(fn.Throws))
	for _, ev := range fn.Throws {
		declared[ev] = struct{}{}
	}
	for ev := range summary {
		if ev == "<propagated>" {
			continue
		}
		if _, ok := declared[ev]; !ok {
			d := diag.NewError(diag.SemaUndeclaredThrowEvent, fn.Span, "thrown event '"+ev+"' is not in the function's declared throw set")
			c.Bag.Add(&d)
		}
	}
}
