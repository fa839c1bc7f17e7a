package main

import (
	"flag"
	"fmt"
	"os"

	"mipsrecomp/internal/config"
	"mipsrecomp/internal/elfx"
	"mipsrecomp/internal/hints"
	"mipsrecomp/internal/lower"
	"mipsrecomp/internal/output"
	"mipsrecomp/internal/recomp"
)

func cmdRecompile(args []string) error {
	fs := flag.NewFlagSet("recompile", flag.ExitOnError)
	in := fs.String("in", "", "path to the MIPS O32 big-endian ELF executable")
	out := fs.String("out", "", "write recompiled Go source here (default: stdout)")
	pkg := fs.String("package", "", `emitted package clause (default "main")`)
	runtimeImport := fs.String("runtime-import", "", `import path for the runtime package`)
	conservative := fs.Bool("conservative", false, "accepted; does not change the emitted code")
	strict := fs.Bool("strict", false, "abort on the first pipeline error (default)")
	bestEffort := fs.Bool("best-effort", false, "log pipeline errors to stderr instead of aborting")
	dumpAsm := fs.String("dump-asm", "", "also write a disassembly listing and functions.json to this directory")
	dumpCFG := fs.String("dump-cfg", "", "also write one Graphviz DOT file per function to this directory")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("--in is required")
	}

	opts := config.Options{Conservative: *conservative}
	if *bestEffort {
		opts.Mode = config.ModeBestEffort
	}
	_ = strict // ModeStrict is the zero value; flag kept for explicitness/documentation

	ef, err := elfx.Open(*in)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer ef.Close()

	fmt.Fprintf(os.Stderr, "mipsrecomp: %s: %d bytes, MIPS-I/II O32 big-endian ET_EXEC\n", *in, ef.FileSize())

	input, err := ef.LoadInput(*conservative)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	fmt.Fprintf(os.Stderr, "mipsrecomp: .text=0x%x bytes, .rodata=0x%x bytes, .data=0x%x bytes, .bss=0x%x bytes\n",
		len(input.Text), len(input.Rodata), len(input.Data), input.BSSLen)

	p := recomp.NewProgram(input)
	diags := &config.Diags{}
	if err := p.Run(hints.Empty()); err != nil {
		if opts.Mode != config.ModeBestEffort {
			return fmt.Errorf("pipeline: %w", err)
		}
		diags.Addf(input.TextVaddr, config.DiagUnresolvedJumpTable, "%v", err)
	}
	fmt.Fprintf(os.Stderr, "mipsrecomp: %d instructions, %d functions discovered\n", len(p.Insns), len(p.Functions))
	for _, d := range diags.Items() {
		fmt.Fprintf(os.Stderr, "mipsrecomp: %s\n", d)
	}

	if *dumpAsm != "" {
		if err := output.WriteASM(*dumpAsm, p); err != nil {
			return fmt.Errorf("dump-asm: %w", err)
		}
		if err := output.WriteFunctionsJSON(*dumpAsm, p); err != nil {
			return fmt.Errorf("dump-asm: %w", err)
		}
		fmt.Fprintf(os.Stderr, "mipsrecomp: wrote disassembly + function table to %s\n", *dumpAsm)
	}
	if *dumpCFG != "" {
		if err := output.WriteCFGDot(*dumpCFG, p); err != nil {
			return fmt.Errorf("dump-cfg: %w", err)
		}
		fmt.Fprintf(os.Stderr, "mipsrecomp: wrote per-function CFG DOT files to %s\n", *dumpCFG)
	}

	src, err := lower.Lower(p, lower.Options{
		Conservative:  *conservative,
		RuntimeImport: *runtimeImport,
		PackageName:   *pkg,
	})
	if err != nil {
		return fmt.Errorf("lower: %w", err)
	}

	if *out == "" {
		_, err = fmt.Fprint(os.Stdout, src)
		return err
	}
	if err := output.WriteSource(*out, src); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	fmt.Fprintf(os.Stderr, "mipsrecomp: wrote %s\n", *out)
	return nil
}
