package callgraph

import (
	"testing"

	"mipsrecomp/internal/mips"
	"mipsrecomp/internal/recomp"
)

// buildProgram assembles a tiny synthetic two-function Program by hand,
// bypassing Disassemble/BuildCFG: a JAL call site in "main" at index 0
// reaches "helper" at index 4, wired the same way recomp.BuildCFG itself
// wires a call (FunctionEntry edge off the delay slot, FunctionExit edge
// off the callee's return delay slot).
func buildProgram() *recomp.Program {
	const base = 0x1000
	p := recomp.NewProgram(recomp.Input{TextVaddr: base, Text: make([]byte, 7*4)})

	mk := func(op mips.Op) recomp.RInsn {
		return recomp.RInsn{Decoded: mips.Insn{Op: op}}
	}

	p.Insns = []recomp.RInsn{
		mk(mips.OpJAL),   // 0: call site
		mk(mips.OpNOP),   // 1: delay slot
		mk(mips.OpJR),    // 2: main's own return
		mk(mips.OpNOP),   // 3: delay slot of main's return
		mk(mips.OpADDIU), // 4: helper entry
		mk(mips.OpJR),    // 5: helper's return
		mk(mips.OpNOP),   // 6: delay slot of helper's return
	}
	for i := range p.Insns {
		p.Insns[i].Decoded.Addr = base + uint32(i)*4
	}

	add := func(from, to int, kind recomp.Edge) {
		fe, be := kind, kind
		fe.To, be.To = to, from
		p.Insns[from].Successors = append(p.Insns[from].Successors, fe)
		p.Insns[to].Predecessors = append(p.Insns[to].Predecessors, be)
	}

	add(0, 1, recomp.Edge{})
	add(1, 4, recomp.Edge{FunctionEntry: true})
	add(6, 2, recomp.Edge{FunctionExit: true})
	add(4, 5, recomp.Edge{})
	add(5, 6, recomp.Edge{})

	p.Functions[base] = &recomp.Function{
		Entry: base, EndAddr: base + 4*4, Name: "main",
	}
	p.Functions[base+4*4] = &recomp.Function{
		Entry: base + 4*4, EndAddr: base + 7*4, Name: "helper",
		Returns: []uint32{base + 6*4},
	}

	return p
}

func TestBuildFuncCFG(t *testing.T) {
	p := buildProgram()
	cfg := BuildFuncCFG(p, p.Functions[0x1000])

	if cfg.Name != "main" {
		t.Errorf("name = %q, want main", cfg.Name)
	}
	if len(cfg.Blocks) == 0 {
		t.Fatal("expected at least one block")
	}
	if !cfg.Blocks[0].IsEntry {
		t.Error("first block should be marked entry")
	}
	if !cfg.Blocks[len(cfg.Blocks)-1].IsTerm {
		t.Error("last block should be terminal (main's own return)")
	}
}

func TestBuildCallGraph(t *testing.T) {
	p := buildProgram()
	g := BuildCallGraph(p)

	if len(g.Nodes) != 2 {
		t.Errorf("expected 2 nodes (main, helper), got %d: %v", len(g.Nodes), g.Nodes)
	}

	found := false
	for _, e := range g.Edges {
		if e.Caller == "main" && e.Callee == "helper" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected main -> helper edge, got %+v", g.Edges)
	}
}
