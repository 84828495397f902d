package main

import (
	"testing"

	"drift/internal/sema"
	"drift/internal/types"
)

func TestTypeNameRendersBuiltinsAndFnResult(t *testing.T) {
	ti := types.NewInterner()
	b := ti.Builtins()

	if got := typeName(b.Int, ti); got != "Int" {
		t.Fatalf("typeName(Int) = %q", got)
	}

	resultID := ti.RegisterFnResult(b.Int, b.Error)
	if got := typeName(resultID, ti); got != "Result<Int, Error>" {
		t.Fatalf("typeName(FnResult) = %q", got)
	}
}

func TestSignatureStringFormatsParamsAndResult(t *testing.T) {
	ti := types.NewInterner()
	b := ti.Builtins()
	sig := &sema.FuncSig{
		Params: []sema.ParamSig{{Name: "a", Type: b.Int}, {Name: "b", Type: b.Bool}},
		Result: b.String,
	}
	if got := signatureString(sig, ti); got != "(Int, Bool) -> String" {
		t.Fatalf("signatureString = %q", got)
	}
}
