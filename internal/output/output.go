// Package output writes mipsrecomp analysis results to files: the
// per-instruction disassembly listing, the discovered-function summary,
// and per-function CFG DOT graphs.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mipsrecomp/internal/callgraph"
	"mipsrecomp/internal/mips"
	"mipsrecomp/internal/recomp"
	"mipsrecomp/internal/render"
)

// FunctionEntry summarizes one discovered function for functions.json.
type FunctionEntry struct {
	Entry   uint32 `json:"entry"`
	EndAddr uint32 `json:"end_addr"`
	Name    string `json:"name,omitempty"`
	NArgs   int    `json:"nargs"`
	NRet    int    `json:"nret"`
	V0In    bool   `json:"v0_in"`
}

// WriteFunctionsJSON writes the discovered-function table to
// functions.json, the same entry/name/arity summary the lowerer itself
// works from.
func WriteFunctionsJSON(dir string, p *recomp.Program) error {
	entries := make([]FunctionEntry, 0, len(p.Functions))
	for _, addr := range p.SortedFunctionEntries() {
		fn := p.Functions[addr]
		entries = append(entries, FunctionEntry{
			Entry:   fn.Entry,
			EndAddr: fn.EndAddr,
			Name:    fn.Name,
			NArgs:   fn.NArgs,
			NRet:    fn.NRet,
			V0In:    fn.V0In,
		})
	}
	return writeJSON(filepath.Join(dir, "functions.json"), entries)
}

// WriteASM writes the full .text listing to asm.txt: one line per
// instruction, in address order, prefixed with any label this address
// carries. No liveness annotation is written.
func WriteASM(dir string, p *recomp.Program) error {
	path := filepath.Join(dir, "asm.txt")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("output: mkdir %s: %w", dir, err)
	}

	var b strings.Builder
	for i := range p.Insns {
		in := p.Insns[i].Insn()
		addr := p.Insns[i].Addr()
		if p.LabelAddresses[addr] {
			fmt.Fprintf(&b, "L%08x:\n", addr)
		}
		fmt.Fprintf(&b, "  %08x: %s\n", addr, formatInsn(in))
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// formatInsn renders one instruction as a plain operand-field line; it is
// a diagnostic gloss, not the recompiled source (see internal/lower for
// that).
func formatInsn(in mips.Insn) string {
	switch in.Op {
	case mips.OpJAL, mips.OpJ:
		return fmt.Sprintf("%-8s 0x%08x", in.Op, in.Target)
	case mips.OpNOP:
		return "nop"
	default:
		return fmt.Sprintf("%-8s rd=%s rs=%s rt=%s imm=%d", in.Op, in.Rd, in.Rs, in.Rt, in.Imm)
	}
}

// WriteCFGDot writes one Graphviz DOT file per discovered function under
// dir, named <entry-hex>.dot.
func WriteCFGDot(dir string, p *recomp.Program) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("output: mkdir %s: %w", dir, err)
	}
	for _, entry := range p.SortedFunctionEntries() {
		fn := p.Functions[entry]
		cfg := callgraph.BuildFuncCFG(p, fn)
		if len(cfg.Blocks) == 0 {
			continue
		}
		dot := render.CFGDOT(cfg, render.NASA)
		path := filepath.Join(dir, fmt.Sprintf("%08x.dot", entry))
		if err := os.WriteFile(path, []byte(dot), 0644); err != nil {
			return fmt.Errorf("output: write %s: %w", path, err)
		}
	}
	return nil
}

// WriteSource writes the recompiled Go source to path.
func WriteSource(path, src string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("output: mkdir %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, []byte(src), 0644)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("output: encode %s: %w", path, err)
	}
	return nil
}
