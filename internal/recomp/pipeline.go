package recomp

import "mipsrecomp/internal/hints"

// Run executes the full analysis pipeline over a freshly constructed
// Program, in the same order the original tool's main() drives its
// passes: disassemble, scan both data sections for function-pointer
// tables, resolve symbols, discover functions, build the CFG, run both
// liveness passes, then infer signatures. The caller is left with a
// Program ready for internal/lower.
func (p *Program) Run(ht hints.Table) error {
	p.Disassemble()

	p.ScanDataFunctionPointers(p.In.RodataVaddr, p.In.Rodata)
	p.ScanDataFunctionPointers(p.In.DataVaddr, p.In.Data)

	p.Resolve(ht)

	if err := p.DiscoverFunctions(); err != nil {
		return err
	}
	if err := p.BuildCFG(); err != nil {
		return err
	}
	if err := p.ForwardReachability(); err != nil {
		return err
	}
	if err := p.BackwardLiveness(); err != nil {
		return err
	}
	p.InferSignatures()

	return nil
}
