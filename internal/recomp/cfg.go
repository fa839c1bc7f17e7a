package recomp

import (
	"fmt"

	"mipsrecomp/internal/mips"
)

// addEdge records a successor/predecessor pair tagged with the edge kind
// the rest of the pipeline cares about: a plain fallthrough/branch edge
// when kind is the zero Edge, or one of function_entry/function_exit/
// extern_function/function_ptr otherwise.
func (p *Program) addEdge(from, to int, kind Edge) {
	if to < 0 || to >= len(p.Insns) {
		return
	}
	fe := kind
	fe.To = to
	be := kind
	be.To = from
	p.Insns[from].Successors = append(p.Insns[from].Successors, fe)
	p.Insns[to].Predecessors = append(p.Insns[to].Predecessors, be)
}

// BuildCFG runs stage 3: turning the linear, resolved instruction stream
// into a control-flow graph, one node per instruction, honoring the MIPS
// branch/jump delay slot (the instruction after a transfer always falls
// through into the delay slot itself; the transfer's real target edge
// hangs off the delay slot, not off the branch/jump instruction).
func (p *Program) BuildCFG() error {
	for i := range p.Insns {
		if p.Insns[i].NoFollowingSucc {
			continue
		}
		insn := p.Insns[i].Insn()

		switch {
		case insn.IsBranch() && !insn.IsLikely():
			p.addEdge(i, i+1, Edge{})
			p.addEdge(i+1, p.IndexOf(p.branchTarget(i, insn)), Edge{})

		case insn.IsBranch() && insn.IsLikely():
			p.addEdge(i, i+1, Edge{})
			p.addEdge(i, i+2, Edge{})
			p.addEdge(i+1, p.IndexOf(p.branchTarget(i, insn)), Edge{})
			p.Insns[i+1].NoFollowingSucc = true

		case insn.Op == mips.OpJ:
			p.addEdge(i, i+1, Edge{})
			target := insn.Target
			if p.Insns[i].PatchedValid {
				target = p.Insns[i].PatchedAddr
			}
			p.addEdge(i+1, p.IndexOf(target), Edge{})
			p.Insns[i+1].NoFollowingSucc = true

		case insn.Op == mips.OpJR:
			p.addEdge(i, i+1, Edge{})
			if p.Insns[i].NumCases > 0 {
				for c := uint32(0); c < p.Insns[i].NumCases; c++ {
					word, ok := p.readRodataWordBE(p.Insns[i].JtblAddr + c*4)
					if !ok {
						continue
					}
					p.addEdge(i+1, p.IndexOf(word+p.In.GPValue), Edge{})
				}
			}
			// else: plain `jr $ra`, no successor beyond the delay slot —
			// the function-exit edges are wired from the caller's `jal` site.
			p.Insns[i+1].NoFollowingSucc = true

		case insn.Op == mips.OpJAL:
			p.addEdge(i, i+1, Edge{})
			dest := insn.Target
			if p.Insns[i].PatchedValid {
				dest = p.Insns[i].PatchedAddr
			}

			if dest > p.In.MCountAddr && dest >= p.In.TextVaddr && dest < p.In.TextVaddr+uint32(len(p.In.Text)) {
				p.addEdge(i+1, p.IndexOf(dest), Edge{FunctionEntry: true})

				fn := p.Functions[dest]
				if fn == nil {
					return fmt.Errorf("recomp: call to 0x%x has no registered function", dest)
				}
				for _, ret := range fn.Returns {
					p.addEdge(p.IndexOf(ret), i+2, Edge{FunctionExit: true})
				}
			} else {
				p.addEdge(i+1, i+2, Edge{ExternFunction: true})
			}
			p.Insns[i+1].NoFollowingSucc = true

		case insn.Op == mips.OpJALR:
			p.addEdge(i, i+1, Edge{})
			p.addEdge(i+1, i+2, Edge{FunctionPtr: true})
			p.Insns[i+1].NoFollowingSucc = true

		default:
			p.addEdge(i, i+1, Edge{})
		}
	}
	return nil
}

func (p *Program) branchTarget(i int, insn mips.Insn) uint32 {
	if p.Insns[i].PatchedValid {
		return p.Insns[i].PatchedAddr
	}
	return uint32(int32(p.Insns[i].Addr()) + 4 + insn.Imm*4)
}
