package lower

import (
	"strings"
	"testing"

	"mipsrecomp/internal/extern"
)

func TestExternCallStmtFixedArgsSingleReturn(t *testing.T) {
	fn := extern.Function{Name: "strlen", Params: "ip", Flags: 0}
	lines := externCallStmt(fn)
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	want := "v0 = rt.WrapperStrlen(mem, a0)"
	if lines[0] != want {
		t.Errorf("got %q, want %q", lines[0], want)
	}
}

func TestExternCallStmtVoidNoReturn(t *testing.T) {
	fn := extern.Function{Name: "free", Params: "vp", Flags: 0}
	lines := externCallStmt(fn)
	want := "rt.WrapperFree(mem, a0)"
	if lines[len(lines)-1] != want {
		t.Errorf("got %q, want %q", lines[len(lines)-1], want)
	}
}

func TestExternCallStmtPackedTwoRegisterReturn(t *testing.T) {
	fn := extern.Function{Name: "ftell", Params: "lp", Flags: 0}
	lines := externCallStmt(fn)
	last := lines[len(lines)-1]
	if !strings.Contains(last, "rt.SplitU64(rt.WrapperFtell(mem, a0))") {
		t.Errorf("got %q, want a call wrapped in rt.SplitU64", last)
	}
	if !strings.HasPrefix(last, "v0, v1 = ") {
		t.Errorf("got %q, want prefix %q", last, "v0, v1 = ")
	}
}

func TestExternCallStmtVarargSpillsFixedRegisters(t *testing.T) {
	fn := extern.Function{Name: "printf", Params: "itp", Flags: extern.FlagVararg}
	lines := externCallStmt(fn)

	wantSpills := []string{
		"mem.SetU32(sp+0, a0)",
		"mem.SetU32(sp+4, a1)",
		"mem.SetU32(sp+8, a2)",
		"mem.SetU32(sp+12, a3)",
	}
	for i, want := range wantSpills {
		if lines[i] != want {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}

	last := lines[len(lines)-1]
	want := "v0 = rt.WrapperPrintf(mem, a0, sp)"
	if last != want {
		t.Errorf("got %q, want %q", last, want)
	}
}
