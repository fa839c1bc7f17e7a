// Package recomp implements the analysis and lowering pipeline: linear
// disassembly, symbolic relocation recovery, function discovery, CFG
// construction, bidirectional liveness, and signature inference.
package recomp

import "mipsrecomp/internal/mips"

// Edge is a CFG edge tagged with the kind of control transfer it
// represents. Exactly one of the four bool fields may be set; all false
// means a plain fallthrough/branch edge.
type Edge struct {
	To             int
	FunctionEntry  bool
	FunctionExit   bool
	ExternFunction bool
	FunctionPtr    bool
}

// RInsn is one decoded instruction, annotated by every pipeline stage.
// Mutation is via the "patched overlay" pattern: Decoded always holds the
// instruction as originally fetched, while Patched (when PatchedValid) is
// the rewritten form later stages should read opcode/operands from.
type RInsn struct {
	Decoded mips.Insn

	PatchedValid bool
	Patched      mips.Insn
	PatchedAddr  uint32 // resolved absolute address carried by a patch

	IsGlobalGOTMemop bool
	NoFollowingSucc  bool

	LinkedInsn  int // index of HI/LO or JALR partner, or -1
	LinkedValue uint32
	LinkedFloat float32
	HasLinkedFloat bool

	JtblAddr uint32
	NumCases uint32
	IndexReg mips.Reg

	Successors   []Edge
	Predecessors []Edge

	BLiveIn, BLiveOut uint64
	FLiveIn, FLiveOut uint64
}

// Op returns the effective opcode: the patched one if present, else the
// originally decoded one.
func (r *RInsn) Op() mips.Op {
	if r.PatchedValid {
		return r.Patched.Op
	}
	return r.Decoded.Op
}

// Insn returns the effective instruction fields (patched overlay if set).
func (r *RInsn) Insn() mips.Insn {
	if r.PatchedValid {
		return r.Patched
	}
	return r.Decoded
}

// Addr returns this instruction's VRAM.
func (r *RInsn) Addr() uint32 { return r.Decoded.Addr }

// Patch rewrites the effective instruction in place, recording that a
// patch occurred. addr is stored as PatchedAddr verbatim (0 is a
// legitimate resolved value, not "unset" — the GP-restore-elision NOPs
// and forced-immediate memory patches both rely on that).
func (r *RInsn) Patch(in mips.Insn, addr uint32) {
	r.PatchedValid = true
	r.Patched = in
	r.PatchedAddr = addr
}

// Function is keyed by entry VRAM in Program.Functions.
type Function struct {
	Entry   uint32
	Returns []uint32 // VRAMs of delay slots following JR $ra
	EndAddr uint32    // exclusive

	NArgs int  // 0..4
	NRet  int  // 0, 1, or 2
	V0In  bool
	ReferencedByFunctionPointer bool

	Name string // from symbol_names, if known
}

// Register mask bit layout: bit 0 is the "reachable" marker, bits 1..32
// are GPR 0..31, bits 33/34 are HI/LO. uint64 comfortably holds all of it.
const (
	maskReachable = uint64(1) << 0
	maskHI        = uint64(1) << 33
	maskLO        = uint64(1) << 34
)

func regMask(r mips.Reg) uint64 {
	return uint64(1) << (1 + uint(r))
}

func hasReg(mask uint64, r mips.Reg) bool {
	return mask&regMask(r) != 0
}

// callerSavedMask covers $v0,$v1,$a0-$a3, and the temporaries ($t0-$t9
// minus $t8/$t9 already included), matching the O32 call convention: any
// register a callee is free to clobber.
func callerSavedMask() uint64 {
	m := regMask(mips.V0) | regMask(mips.V1) |
		regMask(mips.A0) | regMask(mips.A1) | regMask(mips.A2) | regMask(mips.A3) |
		maskHI | maskLO
	for r := mips.T0; r <= mips.T7; r++ {
		m |= regMask(r)
	}
	m |= regMask(mips.T8) | regMask(mips.T9)
	return m
}
