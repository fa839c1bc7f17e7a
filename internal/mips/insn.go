package mips

// Insn is a decoded MIPS-I/II instruction: the opcode id, its raw operand
// fields, and a handful of descriptor predicates used by every later
// pipeline stage. It intentionally keeps both the original word and the
// decoded op so that later stages can rewrite Op/Imm in place (the
// "patched overlay" pattern — see internal/recomp) without losing the
// original encoding for diagnostics.
type Insn struct {
	Addr uint32 // VRAM of this instruction
	Word uint32 // original 32-bit big-endian word, as fetched

	Op Op

	Rs Reg
	Rt Reg
	Rd Reg
	Sa uint8 // shift amount, 0..31

	Fmt uint8 // COP1 fmt field (for FP ops), unused by integer ops
	Fs  FReg
	Ft  FReg
	Fd  FReg

	Imm    int32  // sign-extended 16-bit immediate (ADDIU, loads/stores, etc.)
	ImmU   uint16 // raw unsigned 16-bit immediate (ANDI, ORI, LUI)
	Target uint32 // J/JAL: (Addr&0xf0000000) | (instr_index<<2)

	CC uint8 // COP1 condition-code number (bc1t/bc1f, c.cond.fmt), usually 0
}

// Decode decodes a single big-endian 32-bit MIPS-I/II word fetched at vram.
func Decode(word, vram uint32) Insn {
	in := Insn{Addr: vram, Word: word}
	op := (word >> 26) & 0x3f
	rs := Reg((word >> 21) & 0x1f)
	rt := Reg((word >> 16) & 0x1f)
	rd := Reg((word >> 11) & 0x1f)
	sa := uint8((word >> 6) & 0x1f)
	funct := word & 0x3f
	imm := int32(int16(word & 0xffff))
	immU := uint16(word & 0xffff)

	in.Rs, in.Rt, in.Rd, in.Sa = rs, rt, rd, sa
	in.Imm, in.ImmU = imm, immU

	switch op {
	case 0x00: // SPECIAL
		decodeSpecial(&in, funct, rs, rt, rd, sa)
	case 0x01: // REGIMM
		decodeRegimm(&in, rt)
	case 0x02:
		in.Op = OpJ
		in.Target = (vram & 0xf0000000) | ((word & 0x03ffffff) << 2)
	case 0x03:
		in.Op = OpJAL
		in.Target = (vram & 0xf0000000) | ((word & 0x03ffffff) << 2)
	case 0x04:
		in.Op = OpBEQ
	case 0x05:
		in.Op = OpBNE
	case 0x06:
		in.Op = OpBLEZ
	case 0x07:
		in.Op = OpBGTZ
	case 0x08:
		in.Op = OpADDI
	case 0x09:
		in.Op = OpADDIU
	case 0x0a:
		in.Op = OpSLTI
	case 0x0b:
		in.Op = OpSLTIU
	case 0x0c:
		in.Op = OpANDI
	case 0x0d:
		in.Op = OpORI
	case 0x0e:
		in.Op = OpXORI
	case 0x0f:
		in.Op = OpLUI
	case 0x10:
		decodeCop0(&in, rs)
	case 0x11:
		decodeCop1(&in, rs, rt, rd, sa, funct)
	case 0x14:
		in.Op = OpBEQL
	case 0x15:
		in.Op = OpBNEL
	case 0x16:
		in.Op = OpBLEZL
	case 0x17:
		in.Op = OpBGTZL
	case 0x20:
		in.Op = OpLB
	case 0x21:
		in.Op = OpLH
	case 0x22:
		in.Op = OpLWL
	case 0x23:
		in.Op = OpLW
	case 0x24:
		in.Op = OpLBU
	case 0x25:
		in.Op = OpLHU
	case 0x26:
		in.Op = OpLWR
	case 0x28:
		in.Op = OpSB
	case 0x29:
		in.Op = OpSH
	case 0x2a:
		in.Op = OpSWL
	case 0x2b:
		in.Op = OpSW
	case 0x2e:
		in.Op = OpSWR
	case 0x2f:
		in.Op = OpNOP // CACHE, treated as a no-op for our purposes
	case 0x31:
		in.Op = OpLWC1
		in.Ft = FReg(rt)
	case 0x35:
		in.Op = OpLDC1
		in.Ft = FReg(rt)
	case 0x39:
		in.Op = OpSWC1
		in.Ft = FReg(rt)
	case 0x3d:
		in.Op = OpSDC1
		in.Ft = FReg(rt)
	default:
		in.Op = OpInvalid
	}

	normalizePseudo(&in)
	return in
}

func decodeSpecial(in *Insn, funct uint32, rs, rt, rd Reg, sa uint8) {
	switch funct {
	case 0x00:
		if word := in.Word; word == 0 {
			in.Op = OpNOP
		} else {
			in.Op = OpSLL
		}
	case 0x02:
		in.Op = OpSRL
	case 0x03:
		in.Op = OpSRA
	case 0x04:
		in.Op = OpSLLV
	case 0x06:
		in.Op = OpSRLV
	case 0x07:
		in.Op = OpSRAV
	case 0x08:
		in.Op = OpJR
	case 0x09:
		in.Op = OpJALR
	case 0x0c:
		in.Op = OpSYSCALL
	case 0x0d:
		in.Op = OpBREAK
	case 0x0f:
		in.Op = OpSYNC
	case 0x10:
		in.Op = OpMFHI
	case 0x11:
		in.Op = OpMTHI
	case 0x12:
		in.Op = OpMFLO
	case 0x13:
		in.Op = OpMTLO
	case 0x18:
		in.Op = OpMULT
	case 0x19:
		in.Op = OpMULTU
	case 0x1a:
		in.Op = OpDIV
	case 0x1b:
		in.Op = OpDIVU
	case 0x20:
		in.Op = OpADD
	case 0x21:
		in.Op = OpADDU
	case 0x22:
		in.Op = OpSUB
	case 0x23:
		in.Op = OpSUBU
	case 0x24:
		in.Op = OpAND
	case 0x25:
		in.Op = OpOR
	case 0x26:
		in.Op = OpXOR
	case 0x27:
		in.Op = OpNOR
	case 0x2a:
		in.Op = OpSLT
	case 0x2b:
		in.Op = OpSLTU
	case 0x30:
		in.Op = OpTGE
	case 0x31:
		in.Op = OpTGEU
	case 0x32:
		in.Op = OpTLT
	case 0x34:
		in.Op = OpTEQ
	case 0x36:
		in.Op = OpTNE
	default:
		in.Op = OpInvalid
	}
}

func decodeRegimm(in *Insn, rt Reg) {
	switch rt {
	case 0x00:
		in.Op = OpBLTZ
	case 0x01:
		in.Op = OpBGEZ
	case 0x02:
		in.Op = OpBLTZL
	case 0x03:
		in.Op = OpBGEZL
	case 0x10:
		in.Op = OpBLTZAL
	case 0x11:
		in.Op = OpBGEZAL
	default:
		in.Op = OpInvalid
	}
}

func decodeCop0(in *Insn, rs Reg) {
	// MTC0/MFC0 and friends are not part of the user-mode O32 surface this
	// recompiler targets; treat as NOP like the original's default case.
	_ = rs
	in.Op = OpNOP
}

func decodeCop1(in *Insn, rs, rt, rd Reg, sa uint8, funct uint32) {
	switch rs {
	case 0x00: // MFC1
		in.Op = OpMFC1
		in.Ft = FReg(rd)
	case 0x02: // CFC1
		in.Op = OpCFC1
		in.Ft = FReg(rd)
	case 0x04: // MTC1
		in.Op = OpMTC1
		in.Ft = FReg(rd)
	case 0x06: // CTC1
		in.Op = OpCTC1
		in.Ft = FReg(rd)
	case 0x08: // BC1
		if rt == 0 {
			in.Op = OpBC1F
		} else {
			in.Op = OpBC1T
		}
		in.CC = uint8((rd >> 2) & 0x7)
	case 0x10: // fmt=S
		decodeCop1Arith(in, funct, rd, sa, OpADD_S, OpSUB_S, OpMUL_S, OpDIV_S, OpNEG_S, OpMOV_S, OpCVT_D_S, OpCVT_W_S)
		in.Fmt = 0x10
	case 0x11: // fmt=D
		decodeCop1Arith(in, funct, rd, sa, OpADD_D, OpSUB_D, OpMUL_D, OpDIV_D, OpNEG_D, OpMOV_D, OpCVT_S_D, OpCVT_W_D)
		in.Fmt = 0x11
	case 0x14: // fmt=W
		if funct == 0x20 {
			in.Op = OpCVT_S_W
		} else if funct == 0x21 {
			in.Op = OpCVT_D_W
		} else {
			in.Op = OpInvalid
		}
	default:
		in.Op = OpInvalid
	}
	in.Fd = FReg(rd)
	in.Fs = FReg((in.Word >> 11) & 0x1f)
	in.Ft = FReg((in.Word >> 16) & 0x1f)
}

func decodeCop1Arith(in *Insn, funct uint32, rd Reg, sa uint8, add, sub, mul, div, neg, mov, cvtOther, cvtw Op) {
	switch funct {
	case 0x00:
		in.Op = add
	case 0x01:
		in.Op = sub
	case 0x02:
		in.Op = mul
	case 0x03:
		in.Op = div
	case 0x06:
		in.Op = mov
	case 0x07:
		in.Op = neg
	case 0x20, 0x21:
		in.Op = cvtOther // cvt.s.fmt / cvt.d.fmt (promotion/demotion between S and D)
	case 0x0d:
		in.Op = cvtw
	case 0x30, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37,
		0x38, 0x39, 0x3a, 0x3b, 0x3c, 0x3d, 0x3e, 0x3f:
		if add == OpADD_S {
			in.Op = OpC_COND_S
		} else {
			in.Op = OpC_COND_D
		}
		in.CC = uint8((rd >> 2) & 0x7)
	default:
		in.Op = OpInvalid
	}
	_ = sa
}

// normalizePseudo recognizes the canonical encodings of MIPS assembler
// pseudo-instructions and tags them with their own Op, matching how the
// lowerer and liveness engine think about them (move/negu/not), while
// leaving the underlying register fields untouched.
func normalizePseudo(in *Insn) {
	switch in.Op {
	case OpADDU, OpOR:
		if in.Rt == ZERO {
			in.Op = OpMOVE
		}
	case OpSUBU:
		if in.Rs == ZERO {
			in.Op = OpNEGU
		}
	case OpNOR:
		if in.Rt == ZERO {
			in.Op = OpNOT
		}
	}
}
