package lower

import (
	"fmt"

	"mipsrecomp/internal/mips"
)

// insnStmt lowers one ordinary (non-control-transfer) instruction to its
// Go statement text. Control transfers (branches, J/JAL/JR/JALR) are
// handled by function.go, which calls insnStmt only for their delay
// slots.
func insnStmt(in mips.Insn) string {
	rs, rt := regName(in.Rs), regName(in.Rt)

	switch in.Op {
	case mips.OpNOP, mips.OpSYNC:
		return ""
	case mips.OpBREAK:
		return `panic("mips break")`
	case mips.OpSYSCALL:
		return "rt.Syscall(mem)"

	// ALU register-register.
	case mips.OpADD, mips.OpADDU:
		return assign(in.Rd, fmt.Sprintf("%s + %s", rs, rt))
	case mips.OpSUB, mips.OpSUBU:
		return assign(in.Rd, fmt.Sprintf("%s - %s", rs, rt))
	case mips.OpAND:
		return assign(in.Rd, fmt.Sprintf("%s & %s", rs, rt))
	case mips.OpOR:
		return assign(in.Rd, fmt.Sprintf("%s | %s", rs, rt))
	case mips.OpNOR:
		return assign(in.Rd, fmt.Sprintf("^(%s | %s)", rs, rt))
	case mips.OpXOR:
		return assign(in.Rd, fmt.Sprintf("%s ^ %s", rs, rt))
	case mips.OpSLT:
		return assign(in.Rd, fmt.Sprintf("rt.B2U(int32(%s) < int32(%s))", rs, rt))
	case mips.OpSLTU:
		return assign(in.Rd, fmt.Sprintf("rt.B2U(%s < %s)", rs, rt))
	case mips.OpMOVE:
		return assign(in.Rd, rs)
	case mips.OpNEGU:
		return assign(in.Rd, fmt.Sprintf("-%s", rt))
	case mips.OpNOT:
		return assign(in.Rd, fmt.Sprintf("^%s", rs))

	// Shifts.
	case mips.OpSLL:
		return assign(in.Rd, fmt.Sprintf("%s << %d", rt, in.Sa))
	case mips.OpSRL:
		return assign(in.Rd, fmt.Sprintf("%s >> %d", rt, in.Sa))
	case mips.OpSRA:
		return assign(in.Rd, fmt.Sprintf("uint32(int32(%s) >> %d)", rt, in.Sa))
	case mips.OpSLLV:
		return assign(in.Rd, fmt.Sprintf("%s << (%s & 0x1f)", rt, rs))
	case mips.OpSRLV:
		return assign(in.Rd, fmt.Sprintf("%s >> (%s & 0x1f)", rt, rs))
	case mips.OpSRAV:
		return assign(in.Rd, fmt.Sprintf("uint32(int32(%s) >> (%s & 0x1f))", rt, rs))

	// ALU immediate.
	case mips.OpADDI, mips.OpADDIU:
		return assign(in.Rt, fmt.Sprintf("%s + uint32(int32(%d))", rs, in.Imm))
	case mips.OpANDI:
		return assign(in.Rt, fmt.Sprintf("%s & 0x%x", rs, in.ImmU))
	case mips.OpORI:
		return assign(in.Rt, fmt.Sprintf("%s | 0x%x", rs, in.ImmU))
	case mips.OpXORI:
		return assign(in.Rt, fmt.Sprintf("%s ^ 0x%x", rs, in.ImmU))
	case mips.OpSLTI:
		return assign(in.Rt, fmt.Sprintf("rt.B2U(int32(%s) < %d)", rs, in.Imm))
	case mips.OpSLTIU:
		return assign(in.Rt, fmt.Sprintf("rt.B2U(%s < uint32(int32(%d)))", rs, in.Imm))
	case mips.OpLUI:
		return assign(in.Rt, fmt.Sprintf("0x%x << 16", in.ImmU))

	// Mult/div/HI-LO.
	case mips.OpMULT:
		return fmt.Sprintf("lo, hi = rt.Mult(%s, %s)", rs, rt)
	case mips.OpMULTU:
		return fmt.Sprintf("lo, hi = rt.MultU(%s, %s)", rs, rt)
	case mips.OpDIV:
		return fmt.Sprintf("lo, hi = rt.Div(%s, %s)", rs, rt)
	case mips.OpDIVU:
		return fmt.Sprintf("lo, hi = rt.DivU(%s, %s)", rs, rt)
	case mips.OpMFHI:
		return assign(in.Rd, "hi")
	case mips.OpMFLO:
		return assign(in.Rd, "lo")
	case mips.OpMTHI:
		return "hi = " + rs
	case mips.OpMTLO:
		return "lo = " + rs

	// Loads/stores.
	case mips.OpLB:
		return assign(in.Rt, fmt.Sprintf("uint32(int32(mem.S8(%s)))", baseOff(rs, in.Imm)))
	case mips.OpLBU:
		return assign(in.Rt, fmt.Sprintf("uint32(mem.U8(%s))", baseOff(rs, in.Imm)))
	case mips.OpLH:
		return assign(in.Rt, fmt.Sprintf("uint32(int32(mem.S16(%s)))", baseOff(rs, in.Imm)))
	case mips.OpLHU:
		return assign(in.Rt, fmt.Sprintf("uint32(mem.U16(%s))", baseOff(rs, in.Imm)))
	case mips.OpLW:
		return assign(in.Rt, fmt.Sprintf("mem.U32(%s)", baseOff(rs, in.Imm)))
	case mips.OpLWL:
		return assign(in.Rt, fmt.Sprintf("mem.LWL(%s, %s)", rt, baseOff(rs, in.Imm)))
	case mips.OpLWR:
		return assign(in.Rt, fmt.Sprintf("mem.LWR(%s, %s)", rt, baseOff(rs, in.Imm)))
	case mips.OpSB:
		return fmt.Sprintf("mem.SetU8(%s, uint8(%s))", baseOff(rs, in.Imm), rt)
	case mips.OpSH:
		return fmt.Sprintf("mem.SetU16(%s, uint16(%s))", baseOff(rs, in.Imm), rt)
	case mips.OpSW:
		return fmt.Sprintf("mem.SetU32(%s, %s)", baseOff(rs, in.Imm), rt)
	case mips.OpSWL:
		return fmt.Sprintf("mem.SWL(%s, %s)", baseOff(rs, in.Imm), rt)
	case mips.OpSWR:
		return fmt.Sprintf("mem.SWR(%s, %s)", baseOff(rs, in.Imm), rt)

	// Traps.
	case mips.OpTEQ:
		return trapStmt(fmt.Sprintf("%s == %s", rs, rt))
	case mips.OpTNE:
		return trapStmt(fmt.Sprintf("%s != %s", rs, rt))
	case mips.OpTGE:
		return trapStmt(fmt.Sprintf("int32(%s) >= int32(%s)", rs, rt))
	case mips.OpTGEU:
		return trapStmt(fmt.Sprintf("%s >= %s", rs, rt))
	case mips.OpTLT:
		return trapStmt(fmt.Sprintf("int32(%s) < int32(%s)", rs, rt))

	default:
		return fpStmt(in)
	}
}

func assign(dst mips.Reg, expr string) string {
	if dst == mips.ZERO {
		return fmt.Sprintf("_ = %s", expr)
	}
	return fmt.Sprintf("%s = %s", dst.String(), expr)
}

func baseOff(base string, imm int32) string {
	if imm == 0 {
		return base
	}
	if imm < 0 {
		return fmt.Sprintf("%s - 0x%x", base, -imm)
	}
	return fmt.Sprintf("%s + 0x%x", base, imm)
}

func trapStmt(cond string) string {
	return fmt.Sprintf("if %s {\n\t\tpanic(\"mips trap\")\n\t}", cond)
}
