package recomp

import (
	"mipsrecomp/internal/hints"
	"mipsrecomp/internal/mips"
)

// tryJumpTable recognizes the `jr $tN` switch-dispatch idiom: a
// $gp-relative table load, scaled by the case index and added to a base,
// landing in the register jumped through. Two lowering variants exist in
// the wild (PIC, which loads an offset and adds the jump-table base back
// in, and non-PIC, which loads an absolute case target directly), and
// some toolchains pad the sequence with a delay-slot NOP. The case count
// is read off whichever bounds check precedes the load: `sltiu`+`bgez`-ish
// or `andi`+compare-against-1.
func (p *Program) tryJumpTable(jrIndex int, ht hints.Table) {
	jr := p.Insns[jrIndex].Insn()
	if jr.Rs == mips.RA {
		return // ordinary return, not a computed jump
	}

	if o, ok := ht.Lookup(p.fingerprint(), jrIndex); ok {
		p.materializeJumpTable(jrIndex, jr.Rs, o.JtblAddr, o.NumCases)
		return
	}

	indexReg, tableAddr, scaleAt, ok := p.matchJumpTableLoad(jrIndex, jr.Rs)
	if !ok {
		return
	}

	numCases, ok := p.matchBoundsCheck(scaleAt, indexReg)
	if !ok {
		return
	}

	p.materializeJumpTable(jrIndex, indexReg, tableAddr, numCases)
}

// matchJumpTableLoad scans backward from the jr for the
// `sll $t,$index,2 ; addu $base,$base,$t ; lw $dest,off($gp) ; addu
// $dest,$dest,$base` (PIC) or `... lw $dest,off($base)` (non-PIC, table
// already absolute) producer chain feeding reg. It returns the index
// register, the table's base VRAM (read from the resolved $gp-relative
// load), and the instruction index of the SLL that scales the index (the
// anchor the bounds check sits just above).
func (p *Program) matchJumpTableLoad(jrIndex int, reg mips.Reg) (mips.Reg, uint32, int, bool) {
	end := jrIndex - 12
	if end < 0 {
		end = 0
	}

	var loadIdx = -1
	for s := jrIndex - 1; s >= end; s-- {
		in := p.Insns[s].Insn()
		if dst, ok := in.DestGPR(); ok && dst == reg && in.Op == mips.OpLW {
			loadIdx = s
			break
		}
		if in.Op == mips.OpADDU {
			reg = in.Rs // follow the addu chain back toward the raw table load
		}
	}
	if loadIdx < 0 {
		return 0, 0, -1, false
	}

	loadInsn := p.Insns[loadIdx].Insn()
	tableAddr := p.Insns[loadIdx].LinkedValue
	if tableAddr == 0 && p.Insns[loadIdx].PatchedValid {
		tableAddr = p.Insns[loadIdx].PatchedAddr
	}
	if tableAddr == 0 {
		return 0, 0, -1, false
	}
	_ = loadInsn

	for s := loadIdx - 1; s >= end; s-- {
		in := p.Insns[s].Insn()
		if in.Op == mips.OpSLL && in.Sa == 2 {
			return in.Rt, tableAddr, s, true
		}
	}
	return 0, 0, -1, false
}

// matchBoundsCheck looks just above the scaling SLL for either an SLTIU
// comparing indexReg against the table size, or an ANDI masking it,
// whose immediate is (size-1).
func (p *Program) matchBoundsCheck(sllIndex int, indexReg mips.Reg) (uint32, bool) {
	end := sllIndex - 4
	if end < 0 {
		end = 0
	}
	for s := sllIndex - 1; s >= end; s-- {
		in := p.Insns[s].Insn()
		switch in.Op {
		case mips.OpSLTIU:
			if in.Rs == indexReg {
				return uint32(in.ImmU), true
			}
		case mips.OpANDI:
			if in.Rt == indexReg || in.Rs == indexReg {
				return uint32(in.ImmU) + 1, true
			}
		}
	}
	return 0, false
}

func (p *Program) materializeJumpTable(jrIndex int, indexReg mips.Reg, tableAddr, numCases uint32) {
	p.Insns[jrIndex].JtblAddr = tableAddr
	p.Insns[jrIndex].NumCases = numCases
	p.Insns[jrIndex].IndexReg = indexReg

	for c := uint32(0); c < numCases; c++ {
		word, ok := p.readRodataWordBE(tableAddr + c*4)
		if !ok {
			continue
		}
		p.LabelAddresses[word+p.In.GPValue] = true
	}
}

func (p *Program) fingerprint() hints.Fingerprint {
	if p.fp == (hints.Fingerprint{}) {
		p.fp = hints.FingerprintText(p.In.Text)
	}
	return p.fp
}
