package extern

import "mipsrecomp/internal/mips"

// ReturnRegs reports which of $v0/$v1 carry this function's return value:
// none for void and float/double (returned via $f0/$f0-$f1, outside GPR
// liveness tracking), just $v0 for scalar/pointer types, both for 64-bit
// integer types.
func (f Function) ReturnRegs() []mips.Reg {
	if len(f.Params) == 0 {
		return nil
	}
	switch f.Params[0] {
	case 'i', 'u', 'p':
		return []mips.Reg{mips.V0}
	case 'l', 'j':
		return []mips.Reg{mips.V0, mips.V1}
	default: // 'v', 'f', 'd'
		return nil
	}
}

// ArgRegs walks the parameter string and reports which of $a0-$a3 the
// fixed (non-vararg) arguments occupy, honoring the O32 rule that a
// double or 64-bit integer argument starts on an even register slot.
func (f Function) ArgRegs() []mips.Reg {
	var regs []mips.Reg
	pos := 0
	floatPos := 0
	onlyFloatsSoFar := true

	addSlot := func(n int) {
		for i := 0; i < n; i++ {
			if pos+i < 4 {
				regs = append(regs, mips.A0+mips.Reg(pos+i))
			}
		}
	}

	if len(f.Params) <= 1 {
		return nil
	}

	for _, c := range f.Params[1:] {
		switch c {
		case 'i', 'u', 'p', 't':
			onlyFloatsSoFar = false
			addSlot(1)
			pos++

		case 'f':
			if onlyFloatsSoFar && floatPos < 4 {
				floatPos += 2
			} else {
				addSlot(1)
			}
			pos++

		case 'd':
			if pos%2 != 0 {
				pos++
			}
			if onlyFloatsSoFar && floatPos < 4 {
				floatPos += 2
			} else {
				addSlot(2)
			}
			pos += 2

		case 'l', 'j':
			if pos%2 != 0 {
				pos++
			}
			onlyFloatsSoFar = false
			addSlot(2)
			pos += 2
		}
	}

	if f.Flags&FlagVararg != 0 {
		return []mips.Reg{mips.A0, mips.A1, mips.A2, mips.A3}
	}

	return regs
}
