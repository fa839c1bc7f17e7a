// Package callgraph turns an analyzed recomp.Program into structures
// suitable for Graphviz rendering via internal/render: the whole-program
// call graph as a lattice.Graph, and per-function basic-block CFGs (the
// package's own FuncCFG type) built from the edges recomp.BuildCFG
// already computed.
package callgraph

import (
	"fmt"

	"github.com/zboralski/lattice"
	"mipsrecomp/internal/recomp"
)

// funcLabel names a function node the way the recompiled source's own
// identifiers read, falling back to its entry address when the symbol
// table had nothing to offer.
func funcLabel(addr uint32, name string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("sub_%08x", addr)
}

// BuildCallGraph walks every discovered function's call sites (resolved by
// recomp.BuildCFG's FunctionEntry/ExternFunction/FunctionPtr edge tags) and
// assembles the whole-program call graph. Indirect calls through the
// trampoline collapse to a single "trampoline" node rather than fanning out
// to every address-taken target, matching how a reader would actually want
// to see an indirect dispatch summarized.
func BuildCallGraph(p *recomp.Program) *lattice.Graph {
	g := &lattice.Graph{}
	seenNode := make(map[string]bool)
	seenEdge := make(map[[2]string]bool)

	addNode := func(name string) {
		if !seenNode[name] {
			seenNode[name] = true
			g.Nodes = append(g.Nodes, name)
		}
	}
	addEdge := func(caller, callee string) {
		key := [2]string{caller, callee}
		if seenEdge[key] {
			return
		}
		seenEdge[key] = true
		g.Edges = append(g.Edges, lattice.Edge{Caller: caller, Callee: callee})
	}

	for _, entry := range p.SortedFunctionEntries() {
		fn := p.Functions[entry]
		caller := funcLabel(entry, fn.Name)
		addNode(caller)

		start, end := p.IndexOf(fn.Entry), p.IndexOf(fn.EndAddr)
		if start < 0 {
			continue
		}
		if end < 0 {
			end = len(p.Insns)
		}

		for i := start; i < end; i++ {
			for _, s := range p.Insns[i].Successors {
				switch {
				case s.FunctionEntry:
					callee := p.Functions[p.Insns[s.To].Addr()]
					if callee == nil {
						continue
					}
					name := funcLabel(callee.Entry, callee.Name)
					addNode(name)
					addEdge(caller, name)
				case s.ExternFunction:
					// This edge hangs off the JAL's delay-slot index; the
					// extern catalog lookup wants the JAL instruction itself.
					if ext, err := p.ExternAtSite(i - 1); err == nil {
						addNode(ext.Name)
						addEdge(caller, ext.Name)
					}
				case s.FunctionPtr:
					addNode("trampoline")
					addEdge(caller, "trampoline")
				}
			}
		}
	}

	g.Dedup()
	return g
}
