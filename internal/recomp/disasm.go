package recomp

import (
	"encoding/binary"

	"mipsrecomp/internal/mips"
)

// Disassemble performs stage 1: decode every 4-byte big-endian word in
// .text into one RInsn, in order, plus a sentinel NOP at text end so that
// index-plus-one lookups in later stages never read out of bounds.
func (p *Program) Disassemble() {
	n := len(p.In.Text) / 4
	p.Insns = make([]RInsn, 0, n+1)

	for i := 0; i < n; i++ {
		word := binary.BigEndian.Uint32(p.In.Text[i*4:])
		vram := p.In.TextVaddr + uint32(i*4)
		in := mips.Decode(word, vram)
		p.Insns = append(p.Insns, RInsn{Decoded: in, LinkedInsn: -1})
	}

	sentinelVRAM := p.In.TextVaddr + uint32(n*4)
	sentinel := mips.Decode(0, sentinelVRAM) // word 0 decodes to NOP
	p.Insns = append(p.Insns, RInsn{
		Decoded:         sentinel,
		LinkedInsn:      -1,
		NoFollowingSucc: true,
	})
}
