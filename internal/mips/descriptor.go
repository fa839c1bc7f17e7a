package mips

// Descriptor predicates, mirroring the accessor surface the spec asks the
// decoder wrapper to expose (modifies_rt, is_jump, is_i_type) plus the
// destination-register helper get_dest_reg from the original pipeline.

// ModifiesRt reports whether this instruction writes its Rt field as a
// GPR destination (immediate ALU ops and ordinary loads).
func (in Insn) ModifiesRt() bool {
	switch in.Op {
	case OpADDI, OpADDIU, OpANDI, OpORI, OpXORI, OpSLTI, OpSLTIU, OpLUI,
		OpLB, OpLBU, OpLH, OpLHU, OpLW, OpLWL, OpLWR,
		OpMFC1, OpCFC1:
		return true
	}
	return false
}

// ModifiesRd reports whether this instruction writes its Rd field as a
// GPR destination (register-register ALU ops, shifts, JALR's link reg).
func (in Insn) ModifiesRd() bool {
	switch in.Op {
	case OpADD, OpADDU, OpSUB, OpSUBU, OpAND, OpOR, OpNOR, OpXOR,
		OpSLT, OpSLTU, OpSLL, OpSRL, OpSRA, OpSLLV, OpSRLV, OpSRAV,
		OpMOVE, OpNEGU, OpNOT, OpJALR:
		return true
	}
	return false
}

// ModifiesHiLo reports whether this instruction writes HI/LO (mult/div
// family, or explicit mthi/mtlo).
func (in Insn) ModifiesHiLo() bool {
	switch in.Op {
	case OpMULT, OpMULTU, OpDIV, OpDIVU, OpMTHI, OpMTLO:
		return true
	}
	return false
}

// IsJump reports whether this is an unconditional transfer: J/JAL/JR/JALR.
func (in Insn) IsJump() bool {
	switch in.Op {
	case OpJ, OpJAL, OpJR, OpJALR:
		return true
	}
	return false
}

// IsBranch reports whether this is a conditional branch (non-likely or
// likely; integer or FP condition-code branch).
func (in Insn) IsBranch() bool {
	switch in.Op {
	case OpBEQ, OpBNE, OpBEQL, OpBNEL,
		OpBLEZ, OpBLEZL, OpBGTZ, OpBGTZL,
		OpBLTZ, OpBLTZL, OpBGEZ, OpBGEZL,
		OpBC1T, OpBC1F:
		return true
	}
	return false
}

// IsLikely reports whether a branch is a "likely" (delay-slot-nullifying)
// variant.
func (in Insn) IsLikely() bool {
	switch in.Op {
	case OpBEQL, OpBNEL, OpBLEZL, OpBGTZL, OpBLTZL, OpBGEZL:
		return true
	}
	return false
}

// IsIType reports whether this instruction carries a 16-bit immediate
// operand field (as opposed to a register-only or jump-target encoding).
func (in Insn) IsIType() bool {
	switch in.Op {
	case OpADDI, OpADDIU, OpANDI, OpORI, OpXORI, OpSLTI, OpSLTIU, OpLUI,
		OpLB, OpLBU, OpLH, OpLHU, OpLW, OpLWL, OpLWR,
		OpSB, OpSH, OpSW, OpSWL, OpSWR,
		OpBEQ, OpBNE, OpBEQL, OpBNEL, OpBLEZ, OpBLEZL, OpBGTZ, OpBGTZL,
		OpBLTZ, OpBLTZL, OpBGEZ, OpBGEZL, OpBGEZAL, OpBLTZAL,
		OpLWC1, OpSWC1, OpLDC1, OpSDC1:
		return true
	}
	return false
}

// IsLoad reports whether this instruction reads memory through a base
// register plus immediate offset (GPR or FPU destination).
func (in Insn) IsLoad() bool {
	switch in.Op {
	case OpLB, OpLBU, OpLH, OpLHU, OpLW, OpLWL, OpLWR, OpLWC1, OpLDC1:
		return true
	}
	return false
}

// IsStore reports whether this instruction writes memory through a base
// register plus immediate offset.
func (in Insn) IsStore() bool {
	switch in.Op {
	case OpSB, OpSH, OpSW, OpSWL, OpSWR, OpSWC1, OpSDC1:
		return true
	}
	return false
}

// DestGPR returns the GPR this instruction writes and true, or (0,false)
// if it writes no GPR (stores, branches, FP ops, HI/LO-only writers).
func (in Insn) DestGPR() (Reg, bool) {
	if in.ModifiesRt() {
		return in.Rt, true
	}
	if in.ModifiesRd() {
		return in.Rd, true
	}
	return 0, false
}

// UsesBaseReg reports whether this instruction addresses memory via Rs as
// a base register (all loads/stores), returning that base register.
func (in Insn) UsesBaseReg() (Reg, bool) {
	if in.IsLoad() || in.IsStore() {
		return in.Rs, true
	}
	return 0, false
}
