package recomp

import (
	"testing"

	"mipsrecomp/internal/mips"
)

func TestInferSignaturesArgsAndReturn(t *testing.T) {
	const base = 0x2000
	p := NewProgram(Input{TextVaddr: base, Text: make([]byte, 2*4)})
	p.Insns = []RInsn{{}, {}}
	p.Insns[0].Decoded.Addr = base
	p.Insns[1].Decoded.Addr = base + 4

	fn := &Function{Entry: base, Returns: []uint32{base + 4}}
	p.Functions[base] = fn

	// Entry instruction agrees (forward+backward) that $a0 and $a1 carry
	// real incoming data -> NArgs should land on 2.
	both := maskReachable | regMask(mips.A0) | regMask(mips.A1)
	p.Insns[0].FLiveIn = both
	p.Insns[0].BLiveIn = both

	// Return instruction agrees $v0 and $v1 both carry live outgoing data
	// -> NRet should land on 2.
	bothOut := maskReachable | regMask(mips.V0) | regMask(mips.V1)
	p.Insns[1].FLiveOut = bothOut
	p.Insns[1].BLiveOut = bothOut

	p.InferSignatures()

	if fn.NArgs != 2 {
		t.Errorf("NArgs = %d, want 2", fn.NArgs)
	}
	if fn.NRet != 2 {
		t.Errorf("NRet = %d, want 2", fn.NRet)
	}
}

func TestInferSignaturesSingleReturnNoArgs(t *testing.T) {
	const base = 0x3000
	p := NewProgram(Input{TextVaddr: base, Text: make([]byte, 2*4)})
	p.Insns = []RInsn{{}, {}}
	p.Insns[0].Decoded.Addr = base
	p.Insns[1].Decoded.Addr = base + 4

	fn := &Function{Entry: base, Returns: []uint32{base + 4}}
	p.Functions[base] = fn

	onlyV0 := maskReachable | regMask(mips.V0)
	p.Insns[1].FLiveOut = onlyV0
	p.Insns[1].BLiveOut = onlyV0

	p.InferSignatures()

	if fn.NArgs != 0 {
		t.Errorf("NArgs = %d, want 0", fn.NArgs)
	}
	if fn.NRet != 1 {
		t.Errorf("NRet = %d, want 1", fn.NRet)
	}
}

func TestInferSignaturesV0InSkippedWhenAddressTaken(t *testing.T) {
	const base = 0x4000
	p := NewProgram(Input{TextVaddr: base, Text: make([]byte, 1*4)})
	p.Insns = []RInsn{{}}
	p.Insns[0].Decoded.Addr = base

	fn := &Function{Entry: base, ReferencedByFunctionPointer: true}
	p.Functions[base] = fn

	withV0 := maskReachable | regMask(mips.V0)
	p.Insns[0].FLiveIn = withV0
	p.Insns[0].BLiveIn = withV0

	p.InferSignatures()

	if fn.V0In {
		t.Error("V0In = true, want false (function is address-taken, V0In convention doesn't apply)")
	}
}
