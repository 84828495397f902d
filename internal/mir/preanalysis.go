package mir

// AnalysisResult holds the side tables a MIR function's pre-analysis
// computes, for later stages (SSA construction, the verifier) to consult
// without re-walking the function themselves. Grounded on the original
// implementation's MirPreAnalysis (stage3/pre_analysis.py): address-taken
// is implemented; may-fail is tracked there too, mirroring its own
// placeholder status in the source this is grounded on.
type AnalysisResult struct {
	AddressTaken map[string]struct{}
	MayFail      map[string]struct{} // block names whose terminator can raise; reserved for SSA/effects consumers
}

// Analyze walks f and computes its pre-analysis side tables.
func Analyze(f *Func) AnalysisResult {
	res := AnalysisResult{
		AddressTaken: map[string]struct{}{},
		MayFail:      map[string]struct{}{},
	}
	for _, name := range f.Order {
		blk := f.Blocks[name]
		for _, ins := range blk.Instrs {
			visitInstr(ins, res.AddressTaken)
		}
		visitTerm(blk, res.MayFail)
	}
	return res
}

func visitInstr(ins Instr, addrTaken map[string]struct{}) {
	if ins.Kind == InstrAddrOfLocal {
		addrTaken[ins.Src] = struct{}{}
	}
}

func visitTerm(blk *Block, mayFail map[string]struct{}) {
	switch blk.Term.Kind {
	case TermCall, TermRaise:
		mayFail[blk.Name] = struct{}{}
	}
}
