package elfx

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// minimalELFHeader builds a bare, structurally valid ELF header (52 bytes
// for ELFCLASS32, 64 for ELFCLASS64) with zero program/section headers,
// which is enough for debug/elf.NewFile to succeed and hand control to
// Open's own class/machine/endianness checks.
func minimalELFHeader(class byte, data byte, machine uint16, etype uint16) []byte {
	// e_ehsize and the entry-size fields follow three address-sized
	// fields, so they sit 12 bytes later in an ELFCLASS64 header.
	size, at, phent, shent := 52, 40, uint16(32), uint16(40)
	if class == 2 {
		size, at, phent, shent = 64, 52, 56, 64
	}
	b := make([]byte, size)
	copy(b[0:4], []byte{0x7f, 'E', 'L', 'F'})
	b[4] = class
	b[5] = data
	b[6] = 1 // EI_VERSION

	order := binary.ByteOrder(binary.BigEndian)
	if data == 1 { // ELFDATA2LSB
		order = binary.LittleEndian
	}

	order.PutUint16(b[16:18], etype)
	order.PutUint16(b[18:20], machine)
	order.PutUint32(b[20:24], 1)              // e_version
	order.PutUint16(b[at:at+2], uint16(size)) // e_ehsize
	order.PutUint16(b[at+2:at+4], phent)      // e_phentsize
	order.PutUint16(b[at+6:at+8], shent)      // e_shentsize
	return b
}

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "bin.elf")
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestOpenRejectsNonELF(t *testing.T) {
	p := writeTemp(t, []byte("not an ELF file at all"))
	if _, err := Open(p); err == nil {
		t.Fatal("expected error for non-ELF file")
	} else if !errors.Is(err, ErrNotELF) {
		t.Errorf("expected ErrNotELF, got %v", err)
	}
}

func TestOpenRejects64Bit(t *testing.T) {
	p := writeTemp(t, minimalELFHeader(2 /* ELFCLASS64 */, 2, 8, 2))
	_, err := Open(p)
	if !errors.Is(err, ErrNot32Bit) {
		t.Errorf("expected ErrNot32Bit, got %v", err)
	}
}

func TestOpenRejectsLittleEndian(t *testing.T) {
	p := writeTemp(t, minimalELFHeader(1, 1 /* ELFDATA2LSB */, 8, 2))
	_, err := Open(p)
	if !errors.Is(err, ErrNotBigEndian) {
		t.Errorf("expected ErrNotBigEndian, got %v", err)
	}
}

func TestOpenRejectsWrongMachine(t *testing.T) {
	p := writeTemp(t, minimalELFHeader(1, 2, 62 /* EM_X86_64 */, 2))
	_, err := Open(p)
	if !errors.Is(err, ErrNotMIPS) {
		t.Errorf("expected ErrNotMIPS, got %v", err)
	}
}

func TestOpenRejectsNonExecutable(t *testing.T) {
	p := writeTemp(t, minimalELFHeader(1, 2, 8, 3 /* ET_DYN */))
	_, err := Open(p)
	if !errors.Is(err, ErrNotExec) {
		t.Errorf("expected ErrNotExec, got %v", err)
	}
}

func TestOpenAcceptsMIPSExec(t *testing.T) {
	p := writeTemp(t, minimalELFHeader(1, 2, 8, 2))
	f, err := Open(p)
	if err != nil {
		t.Fatalf("expected a valid MIPS32 BE ET_EXEC header to open, got %v", err)
	}
	defer f.Close()

	if f.FileSize() != 52 {
		t.Errorf("FileSize() = %d, want 52", f.FileSize())
	}
}

func TestVAToFileOffsetNoSegments(t *testing.T) {
	p := writeTemp(t, minimalELFHeader(1, 2, 8, 2))
	f, err := Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.VAToFileOffset(0x400000); !errors.Is(err, ErrNoSegment) {
		t.Errorf("expected ErrNoSegment, got %v", err)
	}
}

func TestLoadInputMissingText(t *testing.T) {
	p := writeTemp(t, minimalELFHeader(1, 2, 8, 2))
	f, err := Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.LoadInput(false); !errors.Is(err, ErrNoTextSection) {
		t.Errorf("expected ErrNoTextSection, got %v", err)
	}
}

func FuzzELFOpen(f *testing.F) {
	f.Add(minimalELFHeader(1, 2, 8, 2))
	f.Add([]byte("not an elf at all"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		p := filepath.Join(t.TempDir(), "fuzz.elf")
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatal(err)
		}
		ef, err := Open(p)
		if err != nil {
			return
		}
		ef.FileSize()
		ef.VAToFileOffset(0)
		ef.Close()
	})
}
