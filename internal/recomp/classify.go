package recomp

import "mipsrecomp/internal/mips"

// insnType buckets an instruction by its register dataflow shape, the
// same eight-way split the original pipeline classifies against before
// running either liveness pass. FP arithmetic (ADD_S/ADD_D and friends)
// intentionally classifies as typeNop: this recompiler does not track FP
// registers through GPR liveness, so those instructions contribute
// nothing to either pass. See DESIGN.md.
type insnType int

const (
	typeNop insnType = iota
	type1S
	type2S
	type1D
	type1D1S
	type1D2S
	typeDLoHi2S
	type1SPos1
)

func classify(op mips.Op) insnType {
	switch op {
	case mips.OpADD, mips.OpADDU, mips.OpADDI, mips.OpADDIU, mips.OpANDI, mips.OpORI,
		mips.OpLB, mips.OpLBU, mips.OpLH, mips.OpLHU, mips.OpLW, mips.OpLWL,
		mips.OpMOVE, mips.OpNEGU, mips.OpNOT, mips.OpSLL, mips.OpSLTI, mips.OpSLTIU,
		mips.OpSRA, mips.OpSRL, mips.OpXORI, mips.OpMFHI, mips.OpMFLO:
		return type1D1S

	case mips.OpAND, mips.OpOR, mips.OpNOR, mips.OpSLLV, mips.OpSLT, mips.OpSLTU,
		mips.OpSRAV, mips.OpSRLV, mips.OpSUBU, mips.OpXOR:
		return type1D2S

	case mips.OpCFC1, mips.OpMFC1, mips.OpLUI:
		return type1D

	case mips.OpCTC1, mips.OpBGEZ, mips.OpBGEZL, mips.OpBGTZ, mips.OpBGTZL,
		mips.OpBLEZ, mips.OpBLEZL, mips.OpBLTZ, mips.OpBLTZL, mips.OpMTC1:
		return type1S

	case mips.OpBEQ, mips.OpBEQL, mips.OpBNE, mips.OpBNEL,
		mips.OpSB, mips.OpSH, mips.OpSW, mips.OpSWL, mips.OpSWR,
		mips.OpTNE, mips.OpTEQ, mips.OpTGE, mips.OpTGEU, mips.OpTLT:
		return type2S

	case mips.OpDIV, mips.OpDIVU, mips.OpMULT, mips.OpMULTU:
		return typeDLoHi2S

	case mips.OpADD_S, mips.OpADD_D, mips.OpDIV_S, mips.OpDIV_D,
		mips.OpNEG_S, mips.OpNEG_D:
		return typeNop

	case mips.OpJALR:
		return type1S

	case mips.OpJR:
		return type1S // caller special-cases `jr $ra` (TYPE_NOP) itself

	case mips.OpLWC1, mips.OpLDC1, mips.OpSWC1, mips.OpSDC1:
		return type1SPos1

	default:
		return typeNop
	}
}

// hasRsField reports whether op's encoding carries a meaningful $rs
// operand (as opposed to an unused/zero field, or no such field at all).
func hasRsField(op mips.Op) bool {
	switch op {
	case mips.OpLUI, mips.OpJ, mips.OpJAL, mips.OpSLL, mips.OpSRL, mips.OpSRA,
		mips.OpMFHI, mips.OpMFLO, mips.OpNOP, mips.OpSYSCALL, mips.OpBREAK, mips.OpSYNC,
		mips.OpMFC1, mips.OpMTC1, mips.OpCFC1, mips.OpCTC1, mips.OpBC1T, mips.OpBC1F:
		return false
	}
	return true
}

// hasRtField reports whether op's encoding carries a $rt operand that
// functions as a register source (true even when the op later turns out
// to also write rt as a destination — callers filter that case via
// ModifiesRt).
func hasRtField(op mips.Op) bool {
	switch op {
	case mips.OpLUI, mips.OpJ, mips.OpJAL, mips.OpJR, mips.OpMFHI, mips.OpMFLO,
		mips.OpNOP, mips.OpSYSCALL, mips.OpBREAK, mips.OpSYNC,
		mips.OpCFC1:
		return false
	}
	return true
}

// singleSourceReg implements get_single_source_reg_mask: prefer $rs, fall
// back to $rt, matching the original's operand-alias priority exactly
// (including its well-known side effect of under-reporting the second
// source register on two-input register-register ALU ops).
func singleSourceReg(in mips.Insn) (mips.Reg, bool) {
	if hasRsField(in.Op) {
		return in.Rs, true
	}
	if hasRtField(in.Op) {
		return in.Rt, true
	}
	return 0, false
}

// allSourceRegs implements get_all_source_reg_mask: every operand field
// that is a register read, excluding one the instruction itself writes.
func allSourceRegs(in mips.Insn) []mips.Reg {
	var regs []mips.Reg
	if hasRsField(in.Op) {
		regs = append(regs, in.Rs)
	}
	if hasRtField(in.Op) && !in.ModifiesRt() {
		regs = append(regs, in.Rt)
	}
	return regs
}
