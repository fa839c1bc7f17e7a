package recomp

import (
	"fmt"

	"mipsrecomp/internal/extern"
	"mipsrecomp/internal/mips"
)

// ForwardReachability runs stage 4: a forward fixed-point pass that both
// marks which instructions are reachable at all (bit 0 of every mask) and
// propagates which GPRs carry a meaningful value into each instruction
// (FLiveIn) and out of it (FLiveOut). Queue seeds are main, and every
// function reachable only through a function pointer (data-segment
// pointer table entries, or an `li`-materialized address) — those start
// with the a2/a3 slots marked live in since an indirect caller may pass
// more arguments than a direct one the signature inferrer already saw.
func (p *Program) ForwardReachability() error {
	liveinFuncStart := maskReachable | regMask(mips.A0) | regMask(mips.A1) | regMask(mips.SP) | regMask(mips.ZERO)
	fnPtrLivein := liveinFuncStart | regMask(mips.A2) | regMask(mips.A3)

	var queue []int
	seed := func(addr uint32, livein uint64) error {
		i := p.IndexOf(addr)
		if i < 0 {
			return fmt.Errorf("recomp: forward-liveness seed 0x%x is outside .text", addr)
		}
		p.Insns[i].FLiveIn |= livein
		queue = append(queue, i)
		return nil
	}

	if err := seed(p.In.MainAddr, liveinFuncStart); err != nil {
		return err
	}
	for _, addr := range p.DataFunctionPointers {
		if err := seed(addr, fnPtrLivein); err != nil {
			return err
		}
	}
	for addr := range p.LIFunctionPointers {
		if err := seed(addr, fnPtrLivein); err != nil {
			return err
		}
	}

	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		insn := p.Insns[i].Insn()
		live := p.Insns[i].FLiveIn | maskReachable

		switch classify(insn.Op) {
		case type1D:
			if dst, ok := insn.DestGPR(); ok {
				live |= regMask(dst)
			}
		case type1D1S:
			if src, ok := singleSourceReg(insn); ok && hasReg(live, src) {
				if dst, ok := insn.DestGPR(); ok {
					live |= regMask(dst)
				}
			}
		case type1D2S:
			srcs := allSourceRegs(insn)
			if allLive(live, srcs) {
				if dst, ok := insn.DestGPR(); ok {
					live |= regMask(dst)
				}
			}
		case typeDLoHi2S:
			srcs := allSourceRegs(insn)
			if allLive(live, srcs) {
				live |= maskHI | maskLO
			}
		}

		if p.Insns[i].FLiveOut|live == p.Insns[i].FLiveOut {
			continue
		}
		live |= p.Insns[i].FLiveOut
		p.Insns[i].FLiveOut = live

		isFunctionEntry := false
		for _, e := range p.Insns[i].Successors {
			newLive := live

			switch {
			case e.FunctionExit:
				newLive &= maskReachable | regMask(mips.V0) | regMask(mips.V1) | regMask(mips.ZERO)
			case e.FunctionEntry:
				newLive &= maskReachable | regMask(mips.V0) | regMask(mips.A0) | regMask(mips.A1) |
					regMask(mips.A2) | regMask(mips.A3) | regMask(mips.SP) | regMask(mips.ZERO)
				isFunctionEntry = true
			case e.ExternFunction:
				fn, err := p.externAt(i - 1)
				if err != nil {
					return err
				}
				newLive &^= callerSavedMask()
				for _, r := range fn.ReturnRegs() {
					newLive |= regMask(r)
				}
			case e.FunctionPtr:
				newLive &^= callerSavedMask()
				newLive |= regMask(mips.V0) | regMask(mips.V1)
			}

			if p.Insns[e.To].FLiveIn|newLive != p.Insns[e.To].FLiveIn {
				p.Insns[e.To].FLiveIn |= newLive
				queue = append(queue, e.To)
			}
		}

		if isFunctionEntry {
			// A second path that skips straight past the call, carrying only
			// callee-saved registers forward, so liveness of registers the
			// callee never touches still reaches the instruction after it.
			skip := live &^ callerSavedMask()
			if i+1 < len(p.Insns) && p.Insns[i+1].FLiveIn|skip != p.Insns[i+1].FLiveIn {
				p.Insns[i+1].FLiveIn |= skip
				queue = append(queue, i+1)
			}
		}
	}

	return nil
}

// BackwardLiveness runs stage 5: the backward fixed-point pass computing,
// for every instruction, which GPRs a later instruction still needs
// (BLiveIn) — the classic liveness-analysis direction, seeded from the
// return sites of main and of every address-taken function (data-segment
// and li-materialized pointers), and from every instruction the forward pass
// found reachable at all (so liveness is computed everywhere reachable,
// not just on paths back from a return the forward pass never found).
func (p *Program) BackwardLiveness() error {
	var queue []int

	seedReturns := func(entry uint32, liveout uint64) error {
		fn := p.Functions[entry]
		if fn == nil {
			return fmt.Errorf("recomp: backward-liveness seed function 0x%x not found", entry)
		}
		for _, ret := range fn.Returns {
			i := p.IndexOf(ret)
			if i < 0 {
				return fmt.Errorf("recomp: return site 0x%x is outside .text", ret)
			}
			p.Insns[i].BLiveOut |= liveout
			queue = append(queue, i)
		}
		return nil
	}

	if err := seedReturns(p.In.MainAddr, maskReachable|regMask(mips.V0)); err != nil {
		return err
	}
	wide := maskReachable | regMask(mips.V0) | regMask(mips.V1)
	for _, addr := range p.DataFunctionPointers {
		if err := seedReturns(addr, wide); err != nil {
			return err
		}
	}
	for addr := range p.LIFunctionPointers {
		if err := seedReturns(addr, wide); err != nil {
			return err
		}
	}

	for i := range p.Insns {
		if p.Insns[i].FLiveIn != 0 {
			queue = append(queue, i)
		}
	}

	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		insn := p.Insns[i].Insn()
		live := p.Insns[i].BLiveOut | maskReachable

		t := classify(insn.Op)
		if insn.Op == mips.OpJR && insn.Rs == mips.RA {
			t = typeNop
		}
		switch t {
		case type1S, type1SPos1:
			if src, ok := singleSourceReg(insn); ok {
				live |= regMask(src)
			}
		case type2S:
			for _, r := range allSourceRegs(insn) {
				live |= regMask(r)
			}
		case type1D:
			if dst, ok := insn.DestGPR(); ok {
				live &^= regMask(dst)
			}
		case type1D1S:
			if dst, ok := insn.DestGPR(); ok && hasReg(live, dst) {
				live &^= regMask(dst)
				if src, ok := singleSourceReg(insn); ok {
					live |= regMask(src)
				}
			}
		case type1D2S:
			if dst, ok := insn.DestGPR(); ok && hasReg(live, dst) {
				live &^= regMask(dst)
				for _, r := range allSourceRegs(insn) {
					live |= regMask(r)
				}
			}
		case typeDLoHi2S:
			used := live&(maskHI|maskLO) != 0
			live &^= maskHI | maskLO
			if used {
				for _, r := range allSourceRegs(insn) {
					live |= regMask(r)
				}
			}
		}

		if p.Insns[i].BLiveIn|live == p.Insns[i].BLiveIn {
			continue
		}
		live |= p.Insns[i].BLiveIn
		p.Insns[i].BLiveIn = live

		isFunctionExit := false
		for _, e := range p.Insns[i].Predecessors {
			newLive := live

			switch {
			case e.FunctionExit:
				newLive &= maskReachable | regMask(mips.V0) | regMask(mips.V1)
				isFunctionExit = true
			case e.FunctionEntry:
				newLive &= maskReachable | regMask(mips.V0) | regMask(mips.A0) | regMask(mips.A1) |
					regMask(mips.A2) | regMask(mips.A3) | regMask(mips.SP)
			case e.ExternFunction:
				fn, err := p.externAt(i - 2)
				if err != nil {
					return err
				}
				args := uint64(maskReachable) | regMask(mips.SP)
				for _, r := range fn.ArgRegs() {
					args |= regMask(r)
				}
				newLive &^= callerSavedMask()
				newLive |= args
			case e.FunctionPtr:
				newLive &^= callerSavedMask()
				newLive |= regMask(mips.A0) | regMask(mips.A1) | regMask(mips.A2) | regMask(mips.A3)
			}

			if p.Insns[e.To].BLiveOut|newLive != p.Insns[e.To].BLiveOut {
				p.Insns[e.To].BLiveOut |= newLive
				queue = append(queue, e.To)
			}
		}

		if isFunctionExit && i >= 1 {
			skip := live &^ callerSavedMask()
			if p.Insns[i-1].BLiveOut|skip != p.Insns[i-1].BLiveOut {
				p.Insns[i-1].BLiveOut |= skip
				queue = append(queue, i-1)
			}
		}
	}

	return nil
}

// externAt resolves the extern-catalog entry for the `jal`/`jalr` call
// site at index i, whose target symbol name drives both liveness passes'
// treatment of an ExternFunction edge.
func (p *Program) externAt(i int) (extern.Function, error) {
	if i < 0 || i >= len(p.Insns) {
		return extern.Function{}, fmt.Errorf("recomp: extern-call site index %d out of range", i)
	}
	insn := p.Insns[i].Insn()
	target := insn.Target
	if p.Insns[i].PatchedValid {
		target = p.Insns[i].PatchedAddr
	}
	name, ok := p.In.SymbolNames[target]
	if !ok {
		return extern.Function{}, fmt.Errorf("recomp: extern call at 0x%x has no symbol", p.Insns[i].Addr())
	}
	fn, ok := extern.Lookup(name)
	if !ok {
		return extern.Function{}, fmt.Errorf("recomp: missing extern function catalog entry: %s", name)
	}
	return fn, nil
}

func allLive(mask uint64, regs []mips.Reg) bool {
	for _, r := range regs {
		if !hasReg(mask, r) {
			return false
		}
	}
	return true
}
