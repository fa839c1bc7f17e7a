package mips

import "testing"

func TestDecodeBasic(t *testing.T) {
	cases := []struct {
		name string
		word uint32
		want Op
	}{
		{"ADDIU", 0x24420001, OpADDIU},   // addiu $v0, $v0, 1
		{"LUI", 0x3c010000, OpLUI},       // lui $at, 0
		{"J", 0x08000000, OpJ},           // j 0
		{"JAL", 0x0c000000, OpJAL},       // jal 0
		{"JR", 0x03e00008, OpJR},         // jr $ra
		{"JALR", 0x0320f809, OpJALR},     // jalr $t9
		{"BEQ", 0x10400000, OpBEQ},       // beq $v0, $zero, 0
		{"BEQL", 0x50400000, OpBEQL},     // beql $v0, $zero, 0
		{"NOP", 0x00000000, OpNOP},       // sll $zero, $zero, 0
		{"SLL", 0x00021080, OpSLL},       // sll $v0, $v0, 2
		{"SYSCALL", 0x0000000c, OpSYSCALL},
		{"MULT", 0x00430018, OpMULT},  // mult $v0, $v1
		{"MULTU", 0x00430019, OpMULTU},
		{"DIV", 0x0043001a, OpDIV},
		{"DIVU", 0x0043001b, OpDIVU},
		{"LW", 0x8c420000, OpLW},
		{"SW", 0xac420000, OpSW},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := Decode(c.word, 0x1000)
			if in.Op != c.want {
				t.Errorf("Decode(0x%08x).Op = %v, want %v", c.word, in.Op, c.want)
			}
		})
	}
}

func TestDecodeJTargetCombinesUpperVram(t *testing.T) {
	// j 0x401000, executed from a text segment based at 0x80400000.
	in := Decode(0x08100400, 0x80400000)
	want := uint32(0x80401000)
	if in.Target != want {
		t.Errorf("Target = 0x%08x, want 0x%08x", in.Target, want)
	}
}

func TestDecodeMoveIsADDUWithZeroRt(t *testing.T) {
	// addu $v0, $v1, $zero -> recognized pseudo "move $v0, $v1"
	in := Decode(0x00601021, 0x1000)
	if in.Op != OpMOVE {
		t.Errorf("Op = %v, want OpMOVE (addu rt=$zero is move)", in.Op)
	}
}

func TestDecodeNegUIsSUBUWithZeroRs(t *testing.T) {
	// subu $v0, $zero, $v1 -> negu $v0, $v1
	in := Decode(0x00031023, 0x1000)
	if in.Op != OpNEGU {
		t.Errorf("Op = %v, want OpNEGU (subu rs=$zero is negu)", in.Op)
	}
}

func TestDecodeCop1MtcMfc(t *testing.T) {
	mtc1 := Decode(0x44821000, 0x1000) // mtc1 $v0, $f2
	if mtc1.Op != OpMTC1 {
		t.Errorf("Op = %v, want OpMTC1", mtc1.Op)
	}
	mfc1 := Decode(0x44021000, 0x1000) // mfc1 $v0, $f2
	if mfc1.Op != OpMFC1 {
		t.Errorf("Op = %v, want OpMFC1", mfc1.Op)
	}
}

func TestDecodeInvalidOpcode(t *testing.T) {
	in := Decode(0xfc000000, 0x1000) // opcode 0x3f, unassigned
	if in.Op != OpInvalid {
		t.Errorf("Op = %v, want OpInvalid", in.Op)
	}
}
