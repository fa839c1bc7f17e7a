package lower

import (
	"fmt"
	"strings"

	"mipsrecomp/internal/extern"
	"mipsrecomp/internal/mips"
)

// externCallStmt lowers a `jal <extern>` site per spec.md §4.8 and
// scenarios 5/6: fixed arguments are passed positionally; a vararg
// function's arguments are spilled to the stack at sp+0/4/8/12 first and
// the callee receives (mem, a0, sp) so it can walk the spill slots for
// anything past the format string.
func externCallStmt(fn extern.Function) []string {
	wrapper := "rt.Wrapper" + exportedName(fn.Name)

	var lines []string
	var call string
	if fn.Flags&extern.FlagVararg != 0 {
		lines = append(lines,
			"mem.SetU32(sp+0, a0)",
			"mem.SetU32(sp+4, a1)",
			"mem.SetU32(sp+8, a2)",
			"mem.SetU32(sp+12, a3)",
		)
		call = fmt.Sprintf("%s(mem, a0, sp)", wrapper)
	} else {
		args := fn.ArgRegs()
		argNames := make([]string, 0, len(args)+1)
		argNames = append(argNames, "mem")
		for _, r := range args {
			argNames = append(argNames, regName(r))
		}
		call = fmt.Sprintf("%s(%s)", wrapper, strings.Join(argNames, ", "))
	}

	switch retRegs := fn.ReturnRegs(); len(retRegs) {
	case 0:
		lines = append(lines, call)
	case 1:
		lines = append(lines, fmt.Sprintf("%s = %s", regName(retRegs[0]), call))
	case 2:
		lines = append(lines, fmt.Sprintf("%s, %s = rt.SplitU64(%s)", regName(mips.V0), regName(mips.V1), call))
	}
	return lines
}

// exportedName turns a C-style extern symbol like "x_free" into the
// CamelCase suffix used for its rt.Wrapper<Name> Go identifier.
func exportedName(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
