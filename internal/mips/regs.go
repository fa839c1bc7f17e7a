// Package mips decodes big-endian MIPS-I/II O32 instructions.
package mips

import "strconv"

// Reg is a MIPS general-purpose register number, 0..31.
type Reg uint8

// O32 GPR names, matching the ABI's calling-convention roles.
const (
	ZERO Reg = iota
	AT
	V0
	V1
	A0
	A1
	A2
	A3
	T0
	T1
	T2
	T3
	T4
	T5
	T6
	T7
	S0
	S1
	S2
	S3
	S4
	S5
	S6
	S7
	T8
	T9
	K0
	K1
	GP
	SP
	FP
	RA
)

var gprNames = [32]string{
	"zero", "at", "v0", "v1",
	"a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

// String returns the ABI register name (e.g. "a0", "ra").
func (r Reg) String() string {
	if int(r) < len(gprNames) {
		return gprNames[r]
	}
	return "?"
}

// FReg is a coprocessor-1 (FPU) register number, 0..31.
type FReg uint8

var fregNames = [32]string{
	"f0", "f1", "f2", "f3", "f4", "f5", "f6", "f7",
	"f8", "f9", "f10", "f11", "f12", "f13", "f14", "f15",
	"f16", "f17", "f18", "f19", "f20", "f21", "f22", "f23",
	"f24", "f25", "f26", "f27", "f28", "f29", "f30", "f31",
}

func (r FReg) String() string {
	if int(r) < len(fregNames) {
		return fregNames[r]
	}
	return "?"
}

// DRegName names a double-precision FPU register pair by its even base.
func DRegName(base FReg) string {
	return "d" + strconv.Itoa(int(base))
}
