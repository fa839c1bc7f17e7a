package runtime

import "testing"

func putCString(t *testing.T, m *Memory, s string) uint32 {
	t.Helper()
	addr := m.Alloc(uint32(len(s) + 1))
	m.SetCString(addr, s)
	return addr
}

func TestWrapperStrlen(t *testing.T) {
	m := NewMemory()
	addr := putCString(t, m, "hello")
	if got := WrapperStrlen(m, addr); got != 5 {
		t.Errorf("WrapperStrlen = %d, want 5", got)
	}
}

func TestWrapperStrcpy(t *testing.T) {
	m := NewMemory()
	dst := m.Alloc(16)
	src := putCString(t, m, "copy me")
	WrapperStrcpy(m, dst, src)
	if got := m.CString(dst); got != "copy me" {
		t.Errorf("WrapperStrcpy result = %q, want %q", got, "copy me")
	}
}

func TestWrapperStrncpyPadsWithNUL(t *testing.T) {
	m := NewMemory()
	dst := m.Alloc(8)
	src := putCString(t, m, "ab")
	WrapperStrncpy(m, dst, src, 8, 0)
	buf := m.Bytes(dst, 8)
	if string(buf[:2]) != "ab" {
		t.Errorf("WrapperStrncpy copied %q, want prefix %q", buf[:2], "ab")
	}
	for i := 2; i < 8; i++ {
		if buf[i] != 0 {
			t.Errorf("WrapperStrncpy byte %d = %d, want 0 (NUL pad)", i, buf[i])
		}
	}
}

func TestWrapperStrcmp(t *testing.T) {
	m := NewMemory()
	a := putCString(t, m, "abc")
	b := putCString(t, m, "abd")
	if int32(WrapperStrcmp(m, a, a)) != 0 {
		t.Error("WrapperStrcmp(x, x) != 0")
	}
	if int32(WrapperStrcmp(m, a, b)) >= 0 {
		t.Error("WrapperStrcmp(\"abc\", \"abd\") should be negative")
	}
}

func TestWrapperMemcpy(t *testing.T) {
	m := NewMemory()
	src := m.Alloc(4)
	dst := m.Alloc(4)
	m.SetU32(src, 0xCAFEBABE)
	WrapperMemcpy(m, dst, src, 4)
	if m.U32(dst) != 0xCAFEBABE {
		t.Errorf("WrapperMemcpy result = 0x%x, want 0xcafebabe", m.U32(dst))
	}
}

func TestWrapperMemset(t *testing.T) {
	m := NewMemory()
	addr := m.Alloc(4)
	WrapperMemset(m, addr, 0xAB, 4)
	for _, b := range m.Bytes(addr, 4) {
		if b != 0xAB {
			t.Errorf("WrapperMemset byte = 0x%x, want 0xab", b)
		}
	}
}

func TestWrapperAtoiAndAtol(t *testing.T) {
	m := NewMemory()
	addr := putCString(t, m, "  -42abc")
	if got := int32(WrapperAtoi(m, addr)); got != -42 {
		t.Errorf("WrapperAtoi = %d, want -42", got)
	}
	_, lo := SplitU64(WrapperAtol(m, addr))
	if int32(lo) != -42 {
		t.Errorf("WrapperAtol low word = %d, want -42", int32(lo))
	}
}

func TestWrapperStrtolBase16(t *testing.T) {
	m := NewMemory()
	addr := putCString(t, m, "2a")
	_, lo := SplitU64(WrapperStrtol(m, addr, 0, 16))
	if lo != 42 {
		t.Errorf("WrapperStrtol(\"2a\", base 16) = %d, want 42", lo)
	}
}

func TestWrapperMallocFreeRealloc(t *testing.T) {
	m := NewMemory()
	addr := WrapperMalloc(m, 16)
	if addr == 0 {
		t.Fatal("WrapperMalloc returned guest NULL")
	}
	m.SetU32(addr, 0x11223344)
	bigger := WrapperRealloc(m, addr, 32)
	if m.U32(bigger) != 0x11223344 {
		t.Errorf("WrapperRealloc lost data: got 0x%x", m.U32(bigger))
	}
	WrapperFree(m, bigger)
}

func TestWrapperCallocZeroes(t *testing.T) {
	m := NewMemory()
	addr := WrapperCalloc(m, 4, 4)
	for _, b := range m.Bytes(addr, 16) {
		if b != 0 {
			t.Errorf("WrapperCalloc byte = 0x%x, want 0", b)
		}
	}
}

func TestWrapperSprintfDecimal(t *testing.T) {
	m := NewMemory()
	dst := m.Alloc(32)
	fmtAddr := putCString(t, m, "x=%d!")
	sp := m.Alloc(16)
	// sprintf(dst, fmt, ...): slot 0 is unused (dst is a0, not spilled),
	// slot 1 holds the format pointer, varargs start at slot 2.
	m.SetU32(sp+4, fmtAddr)
	m.SetU32(sp+8, 7)

	WrapperSprintf(m, dst, sp)
	got := m.CString(dst)
	if got != "x=7!" {
		t.Errorf("WrapperSprintf = %q, want %q", got, "x=7!")
	}
}
