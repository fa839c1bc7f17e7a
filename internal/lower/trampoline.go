package lower

import (
	"sort"

	"mipsrecomp/internal/recomp"
)

// trampoline emits the indirect-call dispatcher: every function whose
// address was taken (by a data-segment pointer table or a `li`-materialized
// constant) gets one case in a switch keyed by its VRAM, calling it with
// its own inferred argument count and packing the two-register return
// into the (v0<<32)|v1 uint64 convention shared with direct calls.
// Unresolved JALR sites go through this.
func (l *lowerer) trampoline() error {
	var targets []uint32
	for entry, fn := range l.p.Functions {
		if fn.ReferencedByFunctionPointer {
			targets = append(targets, entry)
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })

	l.printf("// trampoline dispatches an indirect call through a guest code\n")
	l.printf("// pointer (fpDest) to the corresponding recompiled function,\n")
	l.printf("// assembling a 64-bit (v0:v1) return regardless of the callee's\n")
	l.printf("// real arity; unused arguments are simply ignored by the callee.\n")
	l.printf("func trampoline(mem *rt.Memory, fpDest, sp, a0, a1, a2, a3 uint32) uint64 {\n")
	l.printf("\tswitch fpDest {\n")
	for _, entry := range targets {
		fn := l.p.Functions[entry]
		l.printf("\tcase 0x%08x:\n", entry)
		l.printf("\t\t%s\n", trampolineCallStmt(entry, fn))
	}
	l.printf("\tdefault:\n")
	l.printf("\t\tpanic(\"trampoline: unresolved indirect call target\")\n")
	l.printf("\t}\n")
	l.printf("}\n\n")
	return nil
}

func trampolineCallStmt(entry uint32, fn *recomp.Function) string {
	call := funcName(entry, fn.Name) + "(mem, sp"
	argNames := []string{"a0", "a1", "a2", "a3"}
	for i := 0; i < fn.NArgs; i++ {
		call += ", " + argNames[i]
	}
	call += ")"

	switch fn.NRet {
	case 0:
		return call + "\n\t\treturn 0"
	case 1:
		return "return uint64(" + call + ") << 32"
	default:
		return "return " + call
	}
}

// entryHarness emits run(mem, argc, argv): the translated program's
// equivalent of process startup. It copies the static data segments into
// guest memory, synthesizes the guest argv array, and invokes the
// recompiled main.
func (l *lowerer) entryHarness() {
	mainFn := l.p.Functions[l.p.In.MainAddr]

	l.printf("// run maps the initial data image into guest memory, synthesizes\n")
	l.printf("// argv for the guest, and calls the recompiled main().\n")
	l.printf("func run(mem *rt.Memory, argc int, argv []string) int {\n")
	l.printf("\trt.MmapInitialDataRange(mem, rodataVaddr, initialRodata)\n")
	l.printf("\trt.MmapInitialDataRange(mem, dataVaddr, initialData)\n")
	l.printf("\trt.MmapZeroRange(mem, bssVaddr, bssLen)\n\n")
	l.printf("\tguestArgv := rt.SetupLibcData(mem, argc, argv)\n")
	l.printf("\tsp := rt.InitialStackPointer(mem)\n\n")

	if mainFn != nil && mainFn.NArgs >= 2 {
		l.printf("\t%s(mem, sp, uint32(argc), guestArgv)\n", funcName(l.p.In.MainAddr, mainFn.Name))
	} else if mainFn != nil {
		l.printf("\t%s(mem, sp)\n", funcName(l.p.In.MainAddr, mainFn.Name))
	} else {
		l.printf("\tpanic(\"run: no main function discovered\")\n")
	}
	l.printf("\treturn 0\n")
	l.printf("}\n\n")

	l.printf("func main() {\n")
	l.printf("\tmem := rt.NewMemory()\n")
	l.printf("\tos.Exit(run(mem, len(os.Args), os.Args))\n")
	l.printf("}\n\n")
}
