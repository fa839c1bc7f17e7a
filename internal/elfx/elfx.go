// Package elfx loads a statically linked MIPS-I/II O32 big-endian ELF
// executable and extracts the section/segment/symbol data the recomp
// pipeline needs, via the stdlib debug/elf reader.
package elfx

import (
	"debug/elf"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"mipsrecomp/internal/recomp"
)

var (
	ErrNotELF        = errors.New("elfx: not an ELF file")
	ErrNot32Bit      = errors.New("elfx: not a 32-bit ELF")
	ErrNotBigEndian  = errors.New("elfx: not big-endian")
	ErrNotMIPS       = errors.New("elfx: not MIPS (EM_MIPS)")
	ErrNotExec       = errors.New("elfx: not an executable (ET_EXEC)")
	ErrNoSymbol      = errors.New("elfx: symbol not found")
	ErrNoSection     = errors.New("elfx: section not found")
	ErrNoSegment     = errors.New("elfx: no PT_LOAD segment covers address")
	ErrNoTextSection = errors.New("elfx: binary has no .text section")
)

// File wraps a debug/elf.File with convenience methods for MIPS O32
// static-executable analysis.
type File struct {
	ELF  *elf.File
	raw  io.ReaderAt
	size int64
}

// Open opens path and validates it is a MIPS-I/II O32 big-endian
// executable.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("elfx: open: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("elfx: stat: %w", err)
	}

	ef, err := elf.NewFile(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrNotELF, err)
	}

	if ef.Class != elf.ELFCLASS32 {
		ef.Close()
		return nil, ErrNot32Bit
	}
	if ef.Data != elf.ELFDATA2MSB {
		ef.Close()
		return nil, ErrNotBigEndian
	}
	if ef.Machine != elf.EM_MIPS {
		ef.Close()
		return nil, ErrNotMIPS
	}
	if ef.Type != elf.ET_EXEC {
		ef.Close()
		return nil, ErrNotExec
	}

	return &File{ELF: ef, raw: f, size: info.Size()}, nil
}

// Close releases resources.
func (f *File) Close() error { return f.ELF.Close() }

// FileSize returns the size of the underlying file.
func (f *File) FileSize() int64 { return f.size }

// Symbol looks up a static symbol by exact name, returning its value and
// size.
func (f *File) Symbol(name string) (addr, size uint64, err error) {
	syms, err := f.ELF.Symbols()
	if err != nil {
		return 0, 0, fmt.Errorf("elfx: symtab: %w", err)
	}
	for _, s := range syms {
		if s.Name == name {
			return s.Value, s.Size, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %s", ErrNoSymbol, name)
}

// SymbolNames returns every named symbol, of any type, as a
// VRAM-to-name map, the form the recomp pipeline and the lowerer consume
// (e.g. to recognize extern-function call targets and emit readable
// labels).
func (f *File) SymbolNames() (map[uint32]string, error) {
	syms, err := f.ELF.Symbols()
	if err != nil {
		return nil, fmt.Errorf("elfx: symtab: %w", err)
	}
	out := make(map[uint32]string, len(syms))
	for _, s := range syms {
		if s.Name == "" {
			continue
		}
		out[uint32(s.Value)] = s.Name
	}
	return out, nil
}

// section returns the named section or ErrNoSection.
func (f *File) section(name string) (*elf.Section, error) {
	s := f.ELF.Section(name)
	if s == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSection, name)
	}
	return s, nil
}

// VAToFileOffset converts a virtual address to a file offset using
// PT_LOAD segments.
func (f *File) VAToFileOffset(va uint64) (uint64, error) {
	for _, p := range f.ELF.Progs {
		if p.Type != elf.PT_LOAD {
			continue
		}
		if va >= p.Vaddr && va < p.Vaddr+p.Memsz {
			offset := va - p.Vaddr + p.Off
			if offset >= uint64(f.size) {
				return 0, fmt.Errorf("elfx: VA 0x%x maps to offset 0x%x beyond file size 0x%x", va, offset, f.size)
			}
			return offset, nil
		}
	}
	return 0, fmt.Errorf("%w: VA 0x%x", ErrNoSegment, va)
}

// ByteOrder returns the ELF byte order (always big-endian for a binary
// that passed Open).
func (f *File) ByteOrder() binary.ByteOrder { return f.ELF.ByteOrder }

// mipsRegInfoGPValue reads gp_value out of the .reginfo section (the O32
// ABI's fixed-layout register-usage note), which is where statically
// linked MIPS toolchains record the `$gp` base every GOT-relative access
// in .text was compiled against.
func (f *File) mipsRegInfoGPValue() (uint32, bool) {
	s := f.ELF.Section(".reginfo")
	if s == nil {
		return 0, false
	}
	data, err := s.Data()
	if err != nil || len(data) < 24 {
		return 0, false
	}
	// Elf32_RegInfo: 5 x uint32 masks, then gp_value.
	return binary.BigEndian.Uint32(data[20:24]), true
}

// LoadInput builds a recomp.Input from this ELF file: the .text/.rodata/
// .data section bytes and VRAMs, the .bss size, every GOT entry (all
// placed in GOTLocals), the resolved $gp base, the full symbol table, and
// the well-known entry points (`main`, `_mcount`) the pipeline treats
// specially.
func (f *File) LoadInput(conservative bool) (recomp.Input, error) {
	var in recomp.Input

	text, err := f.section(".text")
	if err != nil {
		return in, ErrNoTextSection
	}
	in.TextVaddr = uint32(text.Addr)
	in.Text, err = text.Data()
	if err != nil {
		return in, fmt.Errorf("elfx: read .text: %w", err)
	}

	if s := f.ELF.Section(".rodata"); s != nil {
		in.RodataVaddr = uint32(s.Addr)
		if in.Rodata, err = s.Data(); err != nil {
			return in, fmt.Errorf("elfx: read .rodata: %w", err)
		}
	}
	if s := f.ELF.Section(".data"); s != nil {
		in.DataVaddr = uint32(s.Addr)
		if in.Data, err = s.Data(); err != nil {
			return in, fmt.Errorf("elfx: read .data: %w", err)
		}
	}
	if s := f.ELF.Section(".bss"); s != nil {
		in.BSSVaddr = uint32(s.Addr)
		in.BSSLen = uint32(s.Size)
	}

	if gp, ok := f.mipsRegInfoGPValue(); ok {
		in.GPValue = gp
	}

	if got := f.ELF.Section(".got"); got != nil {
		gotData, err := got.Data()
		if err != nil {
			return in, fmt.Errorf("elfx: read .got: %w", err)
		}
		n := len(gotData) / 4
		in.GOTLocals = make([]uint32, n)
		for i := 0; i < n; i++ {
			in.GOTLocals[i] = binary.BigEndian.Uint32(gotData[i*4:])
		}
		// Statically linked, no .dynamic: every GOT slot was resolved at
		// link time, so there is no separate "global" sub-range to split
		// off. GOTGlobals stays empty; GPValueAdj centers offsets the way
		// the toolchain emits them ($gp = .got base + 0x7ff0 by convention).
		in.GPValueAdj = in.GPValue - uint32(got.Addr)
	}

	in.SymbolNames, err = f.SymbolNames()
	if err != nil {
		return in, err
	}

	if addr, _, err := f.Symbol("main"); err == nil {
		in.MainAddr = uint32(addr)
	}
	if addr, _, err := f.Symbol("_mcount"); err == nil {
		in.MCountAddr = uint32(addr)
	} else if addr, _, err := f.Symbol("mcount"); err == nil {
		in.MCountAddr = uint32(addr)
	}

	in.Conservative = conservative
	return in, nil
}

// sortedSymbolAddrs is a small helper diagnostics code can use to walk
// the symbol table in address order.
func sortedSymbolAddrs(m map[uint32]string) []uint32 {
	out := make([]uint32, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
