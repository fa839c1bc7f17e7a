package mips

// Op identifies a decoded MIPS-I/II opcode. Pseudo-ops (MOVE, NOP, NEGU,
// NOT) are assigned their own ids even though they share an
// encoding with a "real" instruction, so that lowering and liveness can
// special-case them without re-deriving the pseudo form from operands.
type Op int

const (
	OpInvalid Op = iota

	// Loads/stores.
	OpLB
	OpLBU
	OpLH
	OpLHU
	OpLW
	OpLWL
	OpLWR
	OpSB
	OpSH
	OpSW
	OpSWL
	OpSWR

	// ALU immediate.
	OpADDI
	OpADDIU
	OpANDI
	OpORI
	OpXORI
	OpSLTI
	OpSLTIU
	OpLUI

	// ALU register.
	OpADD
	OpADDU
	OpSUB
	OpSUBU
	OpAND
	OpOR
	OpNOR
	OpXOR
	OpSLT
	OpSLTU
	OpSLL
	OpSRL
	OpSRA
	OpSLLV
	OpSRLV
	OpSRAV
	OpMOVE // pseudo: ADDU rd, rs, $zero / OR rd, rs, $zero
	OpNEGU // pseudo: SUBU rd, $zero, rt
	OpNOT  // pseudo: NOR rd, rs, $zero

	// Mult/div.
	OpMULT
	OpMULTU
	OpDIV
	OpDIVU
	OpMFHI
	OpMFLO
	OpMTHI
	OpMTLO

	// Branches.
	OpBEQ
	OpBNE
	OpBEQL
	OpBNEL
	OpBLEZ
	OpBLEZL
	OpBGTZ
	OpBGTZL
	OpBLTZ
	OpBLTZL
	OpBGEZ
	OpBGEZL
	OpBGEZAL
	OpBLTZAL

	// Jumps.
	OpJ
	OpJAL
	OpJR
	OpJALR

	// Traps (basic-block terminators in the original's type table, never
	// branch-folded).
	OpTEQ
	OpTNE
	OpTGE
	OpTGEU
	OpTLT

	// Misc.
	OpNOP
	OpSYSCALL
	OpBREAK
	OpSYNC

	// COP1 (FPU) moves.
	OpMFC1
	OpMTC1
	OpCFC1
	OpCTC1
	OpLWC1
	OpSWC1
	OpLDC1
	OpSDC1
	OpBC1T
	OpBC1F

	// COP1 arithmetic (tracked only enough to be classified TYPE_NOP for
	// GPR liveness purposes; FP registers are not tracked — see DESIGN.md).
	OpADD_S
	OpADD_D
	OpSUB_S
	OpSUB_D
	OpMUL_S
	OpMUL_D
	OpDIV_S
	OpDIV_D
	OpNEG_S
	OpNEG_D
	OpMOV_S
	OpMOV_D
	OpCVT_S_W
	OpCVT_D_W
	OpCVT_W_S
	OpCVT_W_D
	OpCVT_S_D
	OpCVT_D_S
	OpC_COND_S
	OpC_COND_D
)

var opNames = map[Op]string{
	OpInvalid: "invalid",
	OpLB:      "lb", OpLBU: "lbu", OpLH: "lh", OpLHU: "lhu", OpLW: "lw",
	OpLWL: "lwl", OpLWR: "lwr", OpSB: "sb", OpSH: "sh", OpSW: "sw",
	OpSWL: "swl", OpSWR: "swr",
	OpADDI: "addi", OpADDIU: "addiu", OpANDI: "andi", OpORI: "ori",
	OpXORI: "xori", OpSLTI: "slti", OpSLTIU: "sltiu", OpLUI: "lui",
	OpADD: "add", OpADDU: "addu", OpSUB: "sub", OpSUBU: "subu",
	OpAND: "and", OpOR: "or", OpNOR: "nor", OpXOR: "xor",
	OpSLT: "slt", OpSLTU: "sltu",
	OpSLL: "sll", OpSRL: "srl", OpSRA: "sra",
	OpSLLV: "sllv", OpSRLV: "srlv", OpSRAV: "srav",
	OpMOVE: "move", OpNEGU: "negu", OpNOT: "not",
	OpMULT: "mult", OpMULTU: "multu", OpDIV: "div", OpDIVU: "divu",
	OpMFHI: "mfhi", OpMFLO: "mflo", OpMTHI: "mthi", OpMTLO: "mtlo",
	OpBEQ: "beq", OpBNE: "bne", OpBEQL: "beql", OpBNEL: "bnel",
	OpBLEZ: "blez", OpBLEZL: "blezl", OpBGTZ: "bgtz", OpBGTZL: "bgtzl",
	OpBLTZ: "bltz", OpBLTZL: "bltzl", OpBGEZ: "bgez", OpBGEZL: "bgezl",
	OpBGEZAL: "bgezal", OpBLTZAL: "bltzal",
	OpJ: "j", OpJAL: "jal", OpJR: "jr", OpJALR: "jalr",
	OpTEQ: "teq", OpTNE: "tne", OpTGE: "tge", OpTGEU: "tgeu", OpTLT: "tlt",
	OpNOP: "nop", OpSYSCALL: "syscall", OpBREAK: "break", OpSYNC: "sync",
	OpMFC1: "mfc1", OpMTC1: "mtc1", OpCFC1: "cfc1", OpCTC1: "ctc1",
	OpLWC1: "lwc1", OpSWC1: "swc1", OpLDC1: "ldc1", OpSDC1: "sdc1",
	OpBC1T: "bc1t", OpBC1F: "bc1f",
	OpADD_S: "add.s", OpADD_D: "add.d", OpSUB_S: "sub.s", OpSUB_D: "sub.d",
	OpMUL_S: "mul.s", OpMUL_D: "mul.d", OpDIV_S: "div.s", OpDIV_D: "div.d",
	OpNEG_S: "neg.s", OpNEG_D: "neg.d", OpMOV_S: "mov.s", OpMOV_D: "mov.d",
	OpCVT_S_W: "cvt.s.w", OpCVT_D_W: "cvt.d.w", OpCVT_W_S: "cvt.w.s", OpCVT_W_D: "cvt.w.d",
	OpCVT_S_D: "cvt.s.d", OpCVT_D_S: "cvt.d.s",
	OpC_COND_S: "c.cond.s", OpC_COND_D: "c.cond.d",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return "op?"
}
