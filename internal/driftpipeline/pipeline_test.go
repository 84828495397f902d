package driftpipeline

import (
	"context"
	"strings"
	"testing"

	"drift/internal/astjson"
)

func straightLineProgram() *astjson.ProgramDoc {
	return &astjson.ProgramDoc{Funcs: []astjson.FuncDoc{{
		Name:       "drift_main",
		ReturnType: "Int",
		Body: []astjson.StmtDoc{
			{Kind: "let", Name: "x", Init: &astjson.ExprDoc{Kind: "int", IntValue: 1}},
			{Kind: "let", Name: "y", Init: &astjson.ExprDoc{
				Kind: "binary", Op: "+",
				Left:  &astjson.ExprDoc{Kind: "var", Name: "x"},
				Right: &astjson.ExprDoc{Kind: "int", IntValue: 1},
			}},
			{Kind: "return", Value: &astjson.ExprDoc{Kind: "var", Name: "y"}},
		},
	}}}
}

func TestRunStraightLineEmitsLLVM(t *testing.T) {
	res, err := Run(context.Background(), Request{Source: straightLineProgram()})
	if err != nil {
		t.Fatalf("Run: %v (diagnostics: %v)", err, res.Bag.Items())
	}
	if !strings.Contains(res.LLVM, "define") {
		t.Fatalf("expected emitted LLVM IR to define a function, got: %s", res.LLVM)
	}
	if res.Timings.Duration(StageCodegen) == 0 && res.Timings.Duration(StageHIRLower) == 0 {
		t.Fatalf("expected at least one stage to have a recorded duration")
	}
}

func TestRunRejectsUnknownEntry(t *testing.T) {
	_, err := Run(context.Background(), Request{Source: straightLineProgram(), Entry: "does_not_exist"})
	if err == nil {
		t.Fatalf("expected an error for an undeclared entry point")
	}
}

func TestRunStopsAtHIRLowerOnUnresolvedSymbol(t *testing.T) {
	prog := &astjson.ProgramDoc{Funcs: []astjson.FuncDoc{{
		Name:       "drift_main",
		ReturnType: "Int",
		Body: []astjson.StmtDoc{
			{Kind: "return", Value: &astjson.ExprDoc{Kind: "var", Name: "nonexistent"}},
		},
	}}}
	res, err := Run(context.Background(), Request{Source: prog})
	if err == nil {
		t.Fatalf("expected lowering to fail on an unresolved symbol")
	}
	if !res.Bag.HasErrors() {
		t.Fatalf("expected the diagnostic bag to record the unresolved symbol")
	}
}
