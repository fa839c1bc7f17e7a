package recomp

import (
	"testing"

	"mipsrecomp/internal/mips"
)

// buildCallProgram assembles a tiny synthetic two-function program: "main"
// calls "helper" via JAL, helper returns via JR $ra back into main's delay
// slot, and main itself returns.
func buildCallProgram() *Program {
	const base = 0x1000
	p := NewProgram(Input{TextVaddr: base, Text: make([]byte, 7*4)})

	mk := func(op mips.Op) mips.Insn { return mips.Insn{Op: op} }
	p.Insns = []RInsn{
		{Decoded: mk(mips.OpJAL)},   // 0: call helper (target patched below)
		{Decoded: mk(mips.OpNOP)},   // 1: delay slot
		{Decoded: mk(mips.OpJR)},    // 2: main's own return
		{Decoded: mk(mips.OpNOP)},   // 3: delay slot of main's return
		{Decoded: mk(mips.OpADDIU)}, // 4: helper entry
		{Decoded: mk(mips.OpJR)},    // 5: helper's return
		{Decoded: mk(mips.OpNOP)},   // 6: delay slot of helper's return
	}
	for i := range p.Insns {
		p.Insns[i].Decoded.Addr = base + uint32(i)*4
	}
	p.Insns[0].Decoded.Target = base + 4*4

	p.Functions[base] = &Function{Entry: base, EndAddr: base + 4*4, Name: "main"}
	p.Functions[base+4*4] = &Function{
		Entry: base + 4*4, EndAddr: base + 7*4, Name: "helper",
		Returns: []uint32{base + 6*4},
	}

	return p
}

func TestBuildCFGWiresCallAndReturnEdges(t *testing.T) {
	p := buildCallProgram()
	if err := p.BuildCFG(); err != nil {
		t.Fatalf("BuildCFG: %v", err)
	}

	// index 1 (JAL's delay slot) should carry a FunctionEntry edge to
	// index 4 (helper's entry).
	var foundEntry bool
	for _, e := range p.Insns[1].Successors {
		if e.FunctionEntry && e.To == 4 {
			foundEntry = true
		}
	}
	if !foundEntry {
		t.Errorf("expected FunctionEntry edge from delay slot (1) to helper (4), got %+v", p.Insns[1].Successors)
	}

	// index 6 (helper's return delay slot) should carry a FunctionExit
	// edge back to index 2, the instruction after the JAL+delay-slot pair.
	var foundExit bool
	for _, e := range p.Insns[6].Successors {
		if e.FunctionExit && e.To == 2 {
			foundExit = true
		}
	}
	if !foundExit {
		t.Errorf("expected FunctionExit edge from helper return (6) to call site+2 (2), got %+v", p.Insns[6].Successors)
	}
}

func TestBuildCFGExternCallHasNoFunctionEntryEdge(t *testing.T) {
	const base = 0x1000
	p := NewProgram(Input{TextVaddr: base, Text: make([]byte, 3*4)})
	p.Insns = []RInsn{
		{Decoded: mips.Insn{Op: mips.OpJAL, Target: 0x500000}}, // call outside .text
		{Decoded: mips.Insn{Op: mips.OpNOP}},
		{Decoded: mips.Insn{Op: mips.OpNOP}},
	}
	for i := range p.Insns {
		p.Insns[i].Decoded.Addr = base + uint32(i)*4
	}

	if err := p.BuildCFG(); err != nil {
		t.Fatalf("BuildCFG: %v", err)
	}

	var foundExtern bool
	for _, e := range p.Insns[1].Successors {
		if e.ExternFunction && e.To == 2 {
			foundExtern = true
		}
	}
	if !foundExtern {
		t.Errorf("expected ExternFunction edge from delay slot (1) to (2), got %+v", p.Insns[1].Successors)
	}
}

func TestBuildCFGMissingCalleeFunctionErrors(t *testing.T) {
	const base = 0x1000
	p := NewProgram(Input{TextVaddr: base, Text: make([]byte, 3*4)})
	p.Insns = []RInsn{
		{Decoded: mips.Insn{Op: mips.OpJAL, Target: base + 2*4}},
		{Decoded: mips.Insn{Op: mips.OpNOP}},
		{Decoded: mips.Insn{Op: mips.OpNOP}},
	}
	for i := range p.Insns {
		p.Insns[i].Decoded.Addr = base + uint32(i)*4
	}
	// Deliberately no p.Functions[base+2*4] registered.

	if err := p.BuildCFG(); err == nil {
		t.Error("expected error for call to unregistered function, got nil")
	}
}
