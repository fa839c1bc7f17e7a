package lower

import (
	"mipsrecomp/internal/mips"
	"mipsrecomp/internal/recomp"
)

// signature renders a function's Go signature string from its inferred
// NArgs/NRet, e.g. "(mem *rt.Memory, sp uint32, a0 uint32, a1 uint32) uint32".
func signature(fn *recomp.Function) string {
	s := "(mem *rt.Memory, sp uint32"
	for i := 0; i < fn.NArgs; i++ {
		s += ", " + regName(mips.A0+mips.Reg(i)) + " uint32"
	}
	s += ")"
	switch fn.NRet {
	case 1:
		s += " uint32"
	case 2:
		s += " uint64" // packed (v0<<32)|v1, per spec.md §3 Function record
	}
	return s
}

// forwardDecls emits a forward declaration comment block for every
// reachable function, matching the original's preamble of function
// prototypes so the trampoline and entry harness below can reference
// functions defined later in the file.
func (l *lowerer) forwardDecls() {
	l.printf("// Forward declarations.\n")
	for _, entry := range l.p.SortedFunctionEntries() {
		fn := l.p.Functions[entry]
		l.printf("// func %s%s\n", funcName(entry, fn.Name), signature(fn))
	}
	l.printf("\n")
}
