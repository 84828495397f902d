// Package mir is the explicit control-flow graph the checker's HIR lowers
// into: named blocks with typed parameters standing in for phi nodes at
// join points, three-address instructions, and terminators carrying
// explicit successor edges. Modeled on the teacher's internal/mir (see
// block.go/func.go/instr.go/terminator.go there), adapted from the
// teacher's symbol-table-addressed locals to drift's simpler value-name
// model: every MIR value (local or temporary) is identified by a string
// name, since there is no separate symbols package in this module.
package mir

import "drift/internal/types"

// Param is one typed block parameter — a function's entry parameters, or
// the values a join block receives from each predecessor edge.
type Param struct {
	Name string
	Type types.TypeID
}

// Block is one basic block: an (optional) parameter list, a straight-line
// instruction sequence, and exactly one terminator.
type Block struct {
	Name   string
	Params []Param
	Instrs []Instr
	Term   Terminator
}

// Func is one lowered function body.
type Func struct {
	Name     string
	Params   []Param
	Result   types.TypeID
	Fallible bool
	Throws   []string

	Blocks map[string]*Block
	Order  []string // block names in the order they were created; used for deterministic iteration and printing
	Entry  string
}

// Block looks up a block by name.
func (f *Func) Block(name string) *Block {
	return f.Blocks[name]
}

// Module is a lowered compilation unit.
type Module struct {
	Funcs []*Func
}
