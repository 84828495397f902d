package astjson

import (
	"testing"

	"drift/internal/types"
)

func TestDecodeAndToProgram(t *testing.T) {
	raw := []byte(`{
		"funcs": [
			{
				"name": "add",
				"params": [{"name": "a", "type": "Int"}, {"name": "b", "type": "Int"}],
				"return_type": "Int",
				"body": [
					{"kind": "return", "value": {"kind": "binary", "op": "+",
						"left": {"kind": "var", "name": "a"},
						"right": {"kind": "var", "name": "b"}}}
				]
			}
		]
	}`)

	doc, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ti := types.NewInterner()
	prog, sigs, err := ToProgram(doc, ti)
	if err != nil {
		t.Fatalf("ToProgram: %v", err)
	}
	if len(prog.Funcs) != 1 || prog.Funcs[0].Name != "add" {
		t.Fatalf("expected one func named add, got %+v", prog.Funcs)
	}
	sig, ok := sigs["add"]
	if !ok {
		t.Fatalf("expected a signature for add")
	}
	if sig.Result != ti.Builtins().Int {
		t.Fatalf("expected add's result type to be Int")
	}
	if len(sig.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(sig.Params))
	}
}

func TestToProgramRejectsUnknownType(t *testing.T) {
	doc := &ProgramDoc{Funcs: []FuncDoc{{Name: "f", ReturnType: "Widget"}}}
	ti := types.NewInterner()
	if _, _, err := ToProgram(doc, ti); err == nil {
		t.Fatalf("expected an error for an unknown scalar type")
	}
}

func TestFallibleFunctionWrapsResultInFnResult(t *testing.T) {
	doc := &ProgramDoc{Funcs: []FuncDoc{{
		Name: "parse", ReturnType: "Int", Fallible: true, Throws: []string{"Bad"},
		Body: []StmtDoc{{Kind: "throw", Value: &ExprDoc{Kind: "diagnostic_init", EventName: "Bad"}}},
	}}}
	ti := types.NewInterner()
	_, sigs, err := ToProgram(doc, ti)
	if err != nil {
		t.Fatalf("ToProgram: %v", err)
	}
	info, ok := ti.FnResultInfo(sigs["parse"].Result)
	if !ok {
		t.Fatalf("expected parse's result type to be a FnResult")
	}
	if info.Ok != ti.Builtins().Int || info.Err != ti.Builtins().Error {
		t.Fatalf("unexpected FnResult members: %+v", info)
	}
}
