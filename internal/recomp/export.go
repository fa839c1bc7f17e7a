package recomp

import (
	"mipsrecomp/internal/extern"
	"mipsrecomp/internal/mips"
)

// The accessors below exist solely so internal/lower (stage 7) can reuse
// the exact address-resolution and register-mask logic the earlier
// stages already computed, instead of re-deriving it from scratch.

// BranchTargetAt returns the resolved branch target VRAM for the branch
// at instruction index i, the same helper BuildCFG uses internally.
func (p *Program) BranchTargetAt(i int) uint32 {
	return p.branchTarget(i, p.Insns[i].Insn())
}

// ReadRodataWordBE reads a big-endian uint32 out of .rodata at vram.
func (p *Program) ReadRodataWordBE(vram uint32) (uint32, bool) {
	return p.readRodataWordBE(vram)
}

// ExternAtSite resolves the extern-catalog entry for the call site whose
// JAL/JALR sits at instruction index i.
func (p *Program) ExternAtSite(i int) (extern.Function, error) {
	return p.externAt(i)
}

// HasReg reports whether mask carries r's bit, exposing the same bit
// layout BuildCFG/liveness use internally.
func HasReg(mask uint64, r mips.Reg) bool {
	return hasReg(mask, r)
}
