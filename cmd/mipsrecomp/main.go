package main

import (
	"fmt"
	"os"
)

func main() {
	args := os.Args[1:]
	cmd := "recompile"
	if len(args) > 0 && !isFlag(args[0]) {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "recompile":
		err = cmdRecompile(args)
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func isFlag(s string) bool {
	return len(s) > 0 && s[0] == '-'
}

func usage() {
	fmt.Fprintf(os.Stderr, `mipsrecomp — static MIPS-I/II O32 ELF recompiler

Usage:
  mipsrecomp [recompile] --in <path> [--out <path>] [flags]

Flags:
  --in <path>              Path to the MIPS O32 big-endian ELF executable (required)
  --out <path>             Write recompiled Go source here (default: stdout)
  --package <name>         Emitted package clause (default "main")
  --runtime-import <path>  Import path for the runtime package (default "mipsrecomp/runtime")
  --conservative           Accepted; does not change the emitted code
  --strict                 Abort on the first pipeline error (default)
  --best-effort            Log pipeline errors to stderr instead of aborting
  --dump-asm <dir>         Also write a per-instruction disassembly listing and functions.json
  --dump-cfg <dir>         Also write one Graphviz DOT file per function
`)
}
