package callgraph

import (
	"fmt"
	"sort"

	"mipsrecomp/internal/mips"
	"mipsrecomp/internal/recomp"
)

// Inst is one instruction as the CFG renderer wants it: just enough to
// print a readable line, without dragging render into recomp/mips types.
type Inst struct {
	Addr uint32
	Text string
}

// Succ describes a control-flow successor edge between basic blocks.
type Succ struct {
	BlockID int
	Cond    string // "" = unconditional, "T" = taken, "F" = fallthrough
}

// BasicBlock is a maximal straight-line run of instructions.
type BasicBlock struct {
	ID      int
	Start   int // index into FuncCFG.Insts (inclusive)
	End     int // index into FuncCFG.Insts (exclusive)
	Succs   []Succ
	IsEntry bool
	IsTerm  bool
}

// FuncCFG is a per-function control-flow graph, grounded on the shape of
// the teacher's disasm.FuncCFG but built from recomp's own resolved
// per-instruction Successors edges instead of a standalone branch decode.
type FuncCFG struct {
	Name   string
	Blocks []BasicBlock
	Insts  []Inst
}

// BuildFuncCFG partitions fn's instruction range into basic blocks,
// reusing the leader/partition/successor three-pass shape of the
// original per-function CFG builder: pass 1 finds block leaders from
// recomp's own edges, pass 2 partitions instructions by leader, pass 3
// reads block-level successors off each block's last instruction.
func BuildFuncCFG(p *recomp.Program, fn *recomp.Function) FuncCFG {
	name := funcLabel(fn.Entry, fn.Name)
	start, end := p.IndexOf(fn.Entry), p.IndexOf(fn.EndAddr)
	if start < 0 {
		return FuncCFG{Name: name}
	}
	if end < 0 {
		end = len(p.Insns)
	}
	if end <= start {
		return FuncCFG{Name: name}
	}

	insts := make([]Inst, 0, end-start)
	for i := start; i < end; i++ {
		in := p.Insns[i].Insn()
		insts = append(insts, Inst{Addr: p.Insns[i].Addr(), Text: instText(in)})
	}

	// Pass 1: leaders.
	leaders := map[int]bool{0: true}
	for i := start; i < end; i++ {
		rel := i - start
		succs := p.Insns[i].Successors
		branchy := len(succs) > 1
		for _, s := range succs {
			if s.To != i+1 {
				branchy = true
				if s.To >= start && s.To < end {
					leaders[s.To-start] = true
				}
			}
		}
		if branchy && rel+1 < end-start {
			leaders[rel+1] = true
		}
	}

	sorted := make([]int, 0, len(leaders))
	for idx := range leaders {
		sorted = append(sorted, idx)
	}
	sort.Ints(sorted)

	// Pass 2: partition into blocks.
	blocks := make([]BasicBlock, len(sorted))
	blockOf := make(map[int]int, len(sorted))
	for bi, s := range sorted {
		blkEnd := end - start
		if bi+1 < len(sorted) {
			blkEnd = sorted[bi+1]
		}
		blocks[bi] = BasicBlock{ID: bi, Start: s, End: blkEnd, IsEntry: s == 0}
		blockOf[s] = bi
	}

	// Pass 3: successors, read off each block's last instruction.
	for bi := range blocks {
		blk := &blocks[bi]
		if blk.End <= blk.Start {
			blk.IsTerm = true
			continue
		}
		last := start + blk.End - 1
		succs := p.Insns[last].Successors
		if len(succs) == 0 {
			blk.IsTerm = true
			continue
		}
		for _, s := range succs {
			if s.To < start || s.To >= end {
				blk.IsTerm = true
				continue
			}
			target, ok := blockOf[s.To-start]
			if !ok {
				continue
			}
			cond := ""
			if len(succs) > 1 {
				if s.To == last+1 {
					cond = "F"
				} else {
					cond = "T"
				}
			}
			blk.Succs = append(blk.Succs, Succ{BlockID: target, Cond: cond})
		}
	}

	return FuncCFG{Name: name, Blocks: blocks, Insts: insts}
}

// instText renders one instruction as a short mnemonic line for CFG node
// labels; it isn't the recompiled source, just a diagnostic gloss.
func instText(in mips.Insn) string {
	switch {
	case in.Op == mips.OpJAL || in.Op == mips.OpJ:
		return fmt.Sprintf("%s 0x%08x", in.Op, in.Target)
	case in.IsBranch() || in.Op == mips.OpADDI || in.Op == mips.OpADDIU ||
		in.Op == mips.OpLW || in.Op == mips.OpSW:
		return fmt.Sprintf("%s %s, %s, %d", in.Op, in.Rt.String(), in.Rs.String(), in.Imm)
	default:
		return fmt.Sprintf("%s %s, %s, %s", in.Op, in.Rd.String(), in.Rs.String(), in.Rt.String())
	}
}
