// Package sema assigns types to every HIR expression and binding and
// enforces the borrow/region aliasing discipline. It threads a *diag.Bag
// through every check function and never aborts early, following the
// teacher's internal/sema.typeChecker's "collect, don't abort" structure.
package sema

import (
	"drift/internal/diag"
	"drift/internal/hir"
	"drift/internal/types"
)

// RefKind classifies how a parameter is passed.
type RefKind uint8

const (
	ByValue RefKind = iota
	ByRef
	ByRefMut
)

// ParamSig is one parameter's checked signature.
type ParamSig struct {
	Name string
	Type types.TypeID
	Ref  RefKind
}

// FuncSig is a callable's checked signature, used for call-site arity,
// argument-type, and auto-borrow decisions.
type FuncSig struct {
	Name     string
	Params   []ParamSig
	Result   types.TypeID
	Fallible bool
	Throws   map[string]struct{}
}

// Checker type-checks and borrow-checks a module's functions against a
// shared type interner and a table of known function signatures (the
// checker does not resolve imports; callers populate Funcs up front).
type Checker struct {
	Types *types.Interner
	Funcs map[string]*FuncSig
	Bag   *diag.Bag
}

// NewChecker constructs a Checker over a shared type interner.
func NewChecker(ti *types.Interner, bag *diag.Bag) *Checker {
	return &Checker{
		Types: ti,
		Funcs: map[string]*FuncSig{},
		Bag:   bag,
	}
}

// CheckModule type-checks and borrow-checks every function in mod.
func (c *Checker) CheckModule(mod *hir.Module) {
	for _, fn := range mod.Funcs {
		c.CheckFunc(fn)
	}
}

// CheckFunc runs the type checker, then the borrow checker, then the throw
// discipline check over fn's body. The borrow checker works on fn's HIR
// alone and does not consult the types the type checker assigned.
func (c *Checker) CheckFunc(fn *hir.Func) {
	tc := newFuncTypeChecker(c, fn)
	tc.checkBody(fn.Body)
	checkBorrows(c, fn)
	checkThrowDiscipline(c, fn, tc.throwSummary)
}
