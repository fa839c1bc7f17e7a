package recomp

import "mipsrecomp/internal/mips"

// InferSignatures runs stage 6: deriving each function's argument count,
// return count, and whether it reads $v0 on entry (an unusual calling
// convention some tail-call-heavy leaf functions use to receive a value
// the caller left behind), purely from where the two liveness passes
// agree a register carries real data.
func (p *Program) InferSignatures() {
	for _, entry := range p.SortedFunctionEntries() {
		fn := p.Functions[entry]

		for _, ret := range fn.Returns {
			i := p.IndexOf(ret)
			if i < 0 {
				continue
			}
			both := p.Insns[i].FLiveOut & p.Insns[i].BLiveOut
			if hasReg(both, mips.V1) {
				fn.NRet = 2
			} else if hasReg(both, mips.V0) && fn.NRet == 0 {
				fn.NRet = 1
			}
		}

		i := p.IndexOf(entry)
		if i < 0 {
			continue
		}
		both := p.Insns[i].FLiveIn & p.Insns[i].BLiveIn

		for argN := 0; argN < 4; argN++ {
			if hasReg(both, mips.A0+mips.Reg(argN)) {
				fn.NArgs = argN + 1
			}
		}
		fn.V0In = hasReg(both, mips.V0) && !fn.ReferencedByFunctionPointer
	}
}
