package recomp

import (
	"encoding/binary"
	"math"

	"mipsrecomp/internal/hints"
	"mipsrecomp/internal/mips"
)

const maxLookback = 128

// Resolve runs stage 2: symbolic relocation recovery. It pairs HI/LO
// address materializations, rewrites GOT-relative loads, materializes
// jump tables, recognizes JALR $t9 PIC call sequences, canonicalizes BAL,
// and elides the PIC $gp-restore sequence at function entries.
func (p *Program) Resolve(ht hints.Table) {
	for i := range p.Insns {
		insn := p.Insns[i].Insn()

		// BAL canonicalization: BGEZAL $zero, off -> JAL off.
		if insn.Op == mips.OpBGEZAL && insn.Rs == mips.ZERO {
			target := uint32(int32(p.Insns[i].Addr()) + 4 + insn.Imm*4)
			p.patchTo(i, mips.OpJAL, target, insn)
		}

		insn = p.Insns[i].Insn()

		switch {
		case insn.Op == mips.OpJAL || insn.Op == mips.OpJ:
			target := insn.Target
			if p.Insns[i].PatchedValid && p.Insns[i].PatchedAddr != 0 {
				target = p.Insns[i].PatchedAddr
			}
			p.LabelAddresses[target] = true
			p.AddFunction(target)

		case insn.Op == mips.OpJR:
			p.tryJumpTable(i, ht)

		case insn.IsBranch():
			target := uint32(int32(p.Insns[i].Addr()) + 4 + insn.Imm*4)
			p.LabelAddresses[target] = true
		}

		switch insn.Op {
		case mips.OpMTC1:
			p.linkFloatLI(i, insn.Rt)

		case mips.OpLB, mips.OpLBU, mips.OpLH, mips.OpLHU, mips.OpLW, mips.OpLWL, mips.OpLWR,
			mips.OpSB, mips.OpSH, mips.OpSW, mips.OpSWL, mips.OpSWR,
			mips.OpLWC1, mips.OpSWC1, mips.OpLDC1, mips.OpSDC1:
			p.resolveMemop(i, insn)

		case mips.OpADDIU, mips.OpORI:
			if insn.Rs == mips.ZERO {
				// already effectively a materialized immediate; nothing to link.
			} else if insn.Rd != mips.GP {
				p.linkWithLUI(i, insn.Rs, insn.Imm)
			}

		case mips.OpJALR:
			if insn.Rs == mips.T9 {
				p.linkWithJALR(i)
			}
		}

		p.elideGPRestore(i)
	}
}

func (p *Program) patchTo(i int, op mips.Op, target uint32, base mips.Insn) {
	patched := base
	patched.Op = op
	p.Insns[i].Patch(patched, target)
}

// resolveMemop handles a load/store whose base register is $gp (the
// GOT-global case, resolved immediately) or anything else (deferred to
// linkWithLUI's HI/LO-pairing backward scan).
func (p *Program) resolveMemop(i int, insn mips.Insn) {
	if insn.Rs != mips.GP {
		p.linkWithLUI(i, insn.Rs, insn.Imm)
		return
	}

	gotEntry := int64(insn.Imm)+int64(int32(p.In.GPValueAdj))
	gotEntry /= 4
	if gotEntry < 0 {
		return
	}
	if int(gotEntry) < len(p.In.GOTLocals) {
		// Local GOT entry: this load is a producer, resolved later when a
		// user instruction (ADDIU/load/store off the loaded register)
		// calls linkWithLUI and finds us.
		return
	}
	globalEntry := int(gotEntry) - len(p.In.GOTLocals)
	if globalEntry < 0 || globalEntry >= len(p.In.GOTGlobals) {
		return
	}
	if insn.Op != mips.OpLW {
		return
	}
	addr := p.In.GOTGlobals[globalEntry]
	p.Insns[i].IsGlobalGOTMemop = true
	p.Insns[i].LinkedValue = addr
	p.patchTo(i, mips.OpORI, addr, insn)
}

// linkWithLUI scans backward up to maxLookback instructions for the
// producer of reg, the register used as a base at instruction offset
// with its own immediate memImm. See spec.md §4.2.
func (p *Program) linkWithLUI(offset int, reg mips.Reg, memImm int32) {
	end := offset - maxLookback
	if end < 0 {
		end = 0
	}

	for s := offset - 1; s >= end; s-- {
		in := p.Insns[s].Insn()

		if in.Op == mips.OpLUI {
			if in.Rt == reg {
				p.Insns[s].LinkedInsn = offset
				p.Insns[offset].LinkedInsn = s
				combined := uint32(in.ImmU)<<16 + uint32(memImm)
				p.LabelAddresses[combined] = true
				p.AddFunction(combined)
				return
			}
			continue
		}

		if dst, ok := in.DestGPR(); ok && dst == reg &&
			(in.Op == mips.OpLW || in.Op == mips.OpADDIU || in.Op == mips.OpADD ||
				in.Op == mips.OpSUB || in.Op == mips.OpSUBU) {
			if in.Op == mips.OpLW && in.Rs == mips.GP {
				gotEntry := (int64(in.Imm) + int64(int32(p.In.GPValueAdj))) / 4
				if gotEntry >= 0 && int(gotEntry) < len(p.In.GOTLocals) {
					addr := p.In.GOTLocals[gotEntry] + uint32(memImm)
					p.Insns[s].LinkedInsn = offset
					p.Insns[s].LinkedValue = addr
					p.Insns[offset].LinkedInsn = s
					p.Insns[offset].LinkedValue = addr
					p.patchTo(s, mips.OpORI, addr, in)

					user := p.Insns[offset].Insn()
					switch user.Op {
					case mips.OpADDIU:
						p.patchTo(offset, mips.OpMOVE, 0, user)
						if addr >= p.In.TextVaddr && addr < p.In.TextVaddr+uint32(len(p.In.Text)) {
							p.AddFunction(addr)
						}
					default:
						zeroed := user
						zeroed.Imm = 0
						p.Insns[offset].Patch(zeroed, 0)
						p.Insns[offset].PatchedAddr = 0
					}
				}
			}
			// reg holds a pointer into a struct (not a relocatable label); stop.
			return
		}

		if in.Op == mips.OpJR && in.Rs == mips.RA && offset-s >= 2 {
			return
		}
	}
}

// linkWithJALR resolves `jalr $t9` by scanning backward for the
// instruction that materialized $t9: a GOT-global load (now an ORI) or an
// ORI-materialized constant. See spec.md §4.2.
func (p *Program) linkWithJALR(offset int) {
	end := offset - maxLookback
	if end < 0 {
		end = 0
	}

	for s := offset - 1; s >= end; s-- {
		in := p.Insns[s].Insn()

		if in.Op == mips.OpORI && in.Rt == mips.T9 {
			if p.Insns[s].IsGlobalGOTMemop || p.Insns[s].PatchedValid {
				target := p.Insns[s].LinkedValue
				if target == 0 {
					target = p.Insns[s].PatchedAddr
				}
				p.Insns[offset].LinkedInsn = s
				p.Insns[offset].LinkedValue = target
				p.Insns[s].LinkedInsn = offset

				cur := p.Insns[offset].Insn()
				p.patchTo(offset, mips.OpJAL, target, cur)
				p.LabelAddresses[target] = true
				p.AddFunction(target)
			}
			return
		}

		switch in.Op {
		case mips.OpJR, mips.OpADDU, mips.OpADD, mips.OpSUB, mips.OpSUBU:
			return
		}
		if dst, ok := in.DestGPR(); ok && dst == mips.T9 {
			return
		}
	}
}

// linkFloatLI recognizes `lui $rt, imm; ...; mtc1 $rt, $fX` and rewrites
// the LUI into an ORI carrying the float bit pattern.
func (p *Program) linkFloatLI(offset int, rt mips.Reg) {
	for s := offset - 1; s >= 0; s-- {
		in := p.Insns[s].Insn()

		switch in.Op {
		case mips.OpLUI:
			if in.Rt == rt {
				bits := uint32(in.ImmU) << 16
				f := math.Float32frombits(bits)
				p.Insns[s].LinkedInsn = offset
				p.Insns[s].LinkedFloat = f
				p.Insns[s].HasLinkedFloat = true
				p.patchTo(s, mips.OpORI, bits, in)
			}
			return

		case mips.OpLW, mips.OpADDIU, mips.OpADD, mips.OpSUB, mips.OpSUBU:
			if in.Rd == rt {
				return
			}
			continue

		case mips.OpJR:
			if in.Rs == mips.RA {
				return
			}
			continue
		}
	}
}

// elideGPRestore replaces the PIC $gp-recomputation triplet
// (lui/addiu/addu $gp,$gp,$t9) ending at i with three NOPs.
func (p *Program) elideGPRestore(i int) {
	if i < 2 {
		return
	}
	in := p.Insns[i].Insn()
	if in.Op != mips.OpADDU || in.Rd != mips.GP || in.Rs != mips.GP || in.Rt != mips.T9 {
		return
	}
	for j := i - 2; j <= i; j++ {
		cur := p.Insns[j].Insn()
		p.Insns[j].Patch(mips.Insn{Addr: p.Insns[j].Addr(), Word: cur.Word, Op: mips.OpNOP}, 0)
	}
}

// readRodataWordBE reads a big-endian 32-bit word from .rodata at vram.
func (p *Program) readRodataWordBE(vram uint32) (uint32, bool) {
	if vram < p.In.RodataVaddr {
		return 0, false
	}
	off := vram - p.In.RodataVaddr
	if int(off)+4 > len(p.In.Rodata) {
		return 0, false
	}
	return binary.BigEndian.Uint32(p.In.Rodata[off:]), true
}
