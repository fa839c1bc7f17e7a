package lower

import (
	"fmt"

	"mipsrecomp/internal/mips"
	"mipsrecomp/internal/recomp"
)

// function emits one recompiled function: its Go signature, GPR/FPU
// local declarations, and the body of every reachable instruction in its
// range, honoring MIPS delay-slot ordering (see DESIGN.md for the
// per-branch-kind rationale).
func (l *lowerer) function(fn *recomp.Function) error {
	p := l.p
	start := p.IndexOf(fn.Entry)
	end := p.IndexOf(fn.EndAddr)
	if start < 0 {
		return fmt.Errorf("function entry 0x%08x has no instruction", fn.Entry)
	}
	if end < 0 {
		end = len(p.Insns)
	}

	l.printf("func %s%s {\n", funcName(fn.Entry, fn.Name), signature(fn))
	l.declareLocals(fn)

	i := start
	for i < end {
		addr := p.Insns[i].Addr()
		if p.LabelAddresses[addr] {
			l.printf("%s:\n", label(addr))
		}

		consumed, err := l.emitAt(fn, i, end)
		if err != nil {
			return err
		}
		i += consumed
	}

	l.printf("}\n\n")
	return nil
}

// declareLocals emits the per-function register locals: every GPR except
// $zero (a constant) and the argument registers the signature already
// binds, plus hi/lo, the FPU condition flag, and FP scratch arrays.
func (l *lowerer) declareLocals(fn *recomp.Function) {
	l.printf("\tvar (\n")
	for r := mips.AT; r <= mips.RA; r++ {
		if r >= mips.A0 && r < mips.A0+mips.Reg(fn.NArgs) {
			continue // bound as a parameter by signature()
		}
		l.printf("\t\t%s uint32\n", r.String())
	}
	l.printf("\t\thi, lo uint32\n")
	l.printf("\t\tcf bool\n")
	l.printf("\t\tf [32]float32\n")
	l.printf("\t\td [16]float64\n")
	l.printf("\t)\n")
	l.printf("\t_, _, _, _ = hi, lo, cf, f\n\n")
}

// emitAt lowers the instruction at index i (and its delay slot, for
// control transfers) and returns how many instruction slots it consumed
// (1 for ordinary instructions, 2 for anything with a delay slot).
func (l *lowerer) emitAt(fn *recomp.Function, i, end int) (int, error) {
	p := l.p
	insn := p.Insns[i].Insn()

	deadComment := deadAnnotation(p, i)

	switch {
	case insn.Op == mips.OpJR && p.Insns[i].NumCases == 0 && insn.Rs == mips.RA:
		l.emitDelaySlot(p, i+1)
		l.returnStmt(fn)
		return 2, nil

	case insn.Op == mips.OpJR && p.Insns[i].NumCases > 0:
		l.emitDelaySlot(p, i+1)
		l.jumpTableSwitch(p, i)
		return 2, nil

	case insn.Op == mips.OpJR:
		// Unresolved computed jump outside a recognized jump table: an
		// unsupported pattern, so lowering stops with an error.
		return 0, fmt.Errorf("unresolved computed jump at 0x%08x", p.Insns[i].Addr())

	case insn.Op == mips.OpJ:
		l.emitDelaySlot(p, i+1)
		target := insn.Target
		if p.Insns[i].PatchedValid {
			target = p.Insns[i].PatchedAddr
		}
		l.printf("\tgoto %s\n", label(target))
		return 2, nil

	case insn.Op == mips.OpJAL:
		return 2, l.jalStmt(p, i, deadComment)

	case insn.Op == mips.OpJALR:
		l.emitDelaySlot(p, i+1)
		l.printf("\tv0, v1 = rt.SplitU64(trampoline(mem, t9, sp, a0, a1, a2, a3))\n")
		return 2, nil

	case insn.IsBranch():
		return 2, l.branchStmt(p, i, insn)

	default:
		if s := insnStmt(insn); s != "" {
			if deadComment != "" {
				l.printf("\t%s // %s\n", s, deadComment)
			} else {
				l.printf("\t%s\n", s)
			}
		}
		return 1, nil
	}
}

func (l *lowerer) emitDelaySlot(p *recomp.Program, i int) {
	if i >= len(p.Insns) {
		return
	}
	if s := insnStmt(p.Insns[i].Insn()); s != "" {
		l.printf("\t%s\n", s)
	}
}

func (l *lowerer) returnStmt(fn *recomp.Function) {
	switch fn.NRet {
	case 0:
		l.printf("\treturn\n")
	case 1:
		l.printf("\treturn v0\n")
	default:
		l.printf("\treturn (uint64(v0) << 32) | uint64(v1)\n")
	}
}

func (l *lowerer) jumpTableSwitch(p *recomp.Program, jrIndex int) {
	in := p.Insns[jrIndex]
	l.printf("\tswitch %s {\n", regName(in.IndexReg))
	for c := uint32(0); c < in.NumCases; c++ {
		word, ok := p.ReadRodataWordBE(in.JtblAddr + c*4)
		if !ok {
			continue
		}
		target := word + p.In.GPValue
		l.printf("\tcase %d:\n\t\tgoto %s\n", c, label(target))
	}
	l.printf("\tdefault:\n\t\tpanic(\"jump table index out of range\")\n")
	l.printf("\t}\n")
}

// branchStmt lowers a conditional branch per spec.md §4.8. Ordinary
// branches always execute their delay slot (real MIPS semantics: the
// condition is latched before the delay slot can mutate anything), so
// the condition is captured into a temporary first. Likely branches
// squash the delay slot on the not-taken path, so it is emitted only
// inside the taken arm, with an explicit jump around it otherwise.
func (l *lowerer) branchStmt(p *recomp.Program, i int, insn mips.Insn) error {
	target := p.BranchTargetAt(i)
	cond := branchCond(insn)

	if insn.IsLikely() {
		l.printf("\tif %s {\n", cond)
		l.emitDelaySlotIndented(p, i+1)
		l.printf("\t\tgoto %s\n", label(target))
		l.printf("\t} else {\n")
		l.printf("\t\tgoto %s\n", label(p.Insns[i+2].Addr()))
		l.printf("\t}\n")
		return nil
	}

	l.printf("\t_cond := %s\n", cond)
	l.emitDelaySlot(p, i+1)
	l.printf("\tif _cond {\n\t\tgoto %s\n\t}\n", label(target))
	return nil
}

func (l *lowerer) emitDelaySlotIndented(p *recomp.Program, i int) {
	if i >= len(p.Insns) {
		return
	}
	if s := insnStmt(p.Insns[i].Insn()); s != "" {
		l.printf("\t\t%s\n", s)
	}
}

func branchCond(in mips.Insn) string {
	rs, rt := regName(in.Rs), regName(in.Rt)
	switch in.Op {
	case mips.OpBEQ, mips.OpBEQL:
		return fmt.Sprintf("%s == %s", rs, rt)
	case mips.OpBNE, mips.OpBNEL:
		return fmt.Sprintf("%s != %s", rs, rt)
	case mips.OpBLEZ, mips.OpBLEZL:
		return fmt.Sprintf("int32(%s) <= 0", rs)
	case mips.OpBGTZ, mips.OpBGTZL:
		return fmt.Sprintf("int32(%s) > 0", rs)
	case mips.OpBLTZ, mips.OpBLTZL:
		return fmt.Sprintf("int32(%s) < 0", rs)
	case mips.OpBGEZ, mips.OpBGEZL:
		return fmt.Sprintf("int32(%s) >= 0", rs)
	case mips.OpBC1T, mips.OpBC1F:
		return fpBranchCond(in)
	default:
		return "false"
	}
}

// jalStmt lowers a `jal` call site, dispatching on whether the resolved
// target is an internal function (direct Go call, splitting a 64-bit
// return into v0/v1) or an extern symbol (wrapper_<name> marshalling per
// spec.md §4.9).
func (l *lowerer) jalStmt(p *recomp.Program, i int, deadComment string) error {
	insn := p.Insns[i].Insn()
	target := insn.Target
	if p.Insns[i].PatchedValid {
		target = p.Insns[i].PatchedAddr
	}

	l.emitDelaySlot(p, i+1)

	if target > p.In.MCountAddr && target >= p.In.TextVaddr && target < p.In.TextVaddr+uint32(len(p.In.Text)) {
		callee := p.Functions[target]
		if callee == nil {
			return fmt.Errorf("lower: call to 0x%08x has no registered function", target)
		}
		l.printf("\t%s\n", directCallStmt(target, callee))
		return nil
	}

	fn, err := p.ExternAtSite(i)
	if err != nil {
		return fmt.Errorf("lower: %w", err)
	}
	for _, line := range externCallStmt(fn) {
		if deadComment != "" {
			l.printf("\t%s // %s\n", line, deadComment)
			deadComment = ""
		} else {
			l.printf("\t%s\n", line)
		}
	}
	return nil
}

func directCallStmt(target uint32, callee *recomp.Function) string {
	argNames := []string{"a0", "a1", "a2", "a3"}
	s := funcName(target, callee.Name) + "(mem, sp"
	for a := 0; a < callee.NArgs; a++ {
		s += ", " + argNames[a]
	}
	s += ")"

	switch callee.NRet {
	case 0:
		return s
	case 1:
		return "v0 = " + s
	default:
		return "v0, v1 = rt.SplitU64(" + s + ")"
	}
}

// deadAnnotation implements the diagnostic-only `// fdead` / `// bdead`
// markers from spec.md §4.8: they never suppress emission, only flag
// that one pass's liveness masks disagree the result is used.
func deadAnnotation(p *recomp.Program, i int) string {
	insn := p.Insns[i].Insn()
	dst, ok := insn.DestGPR()
	if !ok || dst == mips.ZERO {
		return ""
	}
	var tags []string
	if !recomp.HasReg(p.Insns[i].FLiveOut, dst) {
		tags = append(tags, "fdead "+dst.String())
	}
	if !recomp.HasReg(p.Insns[i].BLiveOut, dst) {
		tags = append(tags, "bdead "+dst.String())
	}
	if len(tags) == 0 {
		return ""
	}
	out := tags[0]
	for _, t := range tags[1:] {
		out += ", " + t
	}
	return out
}
