package runtime

import "testing"

func TestMemoryStaticAndHeapAccess(t *testing.T) {
	m := NewMemory()
	MmapInitialDataRange(m, 0x400000, []byte{0x01, 0x02, 0x03, 0x04})
	MmapZeroRange(m, 0x500000, 16)

	if got := m.U32(0x400000); got != 0x01020304 {
		t.Errorf("U32(.rodata) = 0x%x, want 0x01020304", got)
	}
	if got := m.U32(0x500000); got != 0 {
		t.Errorf("U32(.bss) = 0x%x, want 0", got)
	}

	addr := m.Alloc(16)
	if addr == 0 {
		t.Fatal("Alloc(16) returned guest NULL")
	}
	m.SetU32(addr, 0xDEADBEEF)
	if got := m.U32(addr); got != 0xDEADBEEF {
		t.Errorf("U32(heap) = 0x%x, want 0xDEADBEEF", got)
	}
}

func TestMemoryAllocZeroReturnsNull(t *testing.T) {
	m := NewMemory()
	if addr := m.Alloc(0); addr != 0 {
		t.Errorf("Alloc(0) = 0x%x, want 0 (guest NULL)", addr)
	}
}

func TestMemoryFreeThenReallocReuses(t *testing.T) {
	m := NewMemory()
	addr := m.Alloc(32)
	m.Free(addr, 32)
	again := m.Alloc(32)
	if again != addr {
		t.Errorf("Alloc after Free = 0x%x, want reused 0x%x", again, addr)
	}
}

func TestMemoryCStringRoundTrip(t *testing.T) {
	m := NewMemory()
	addr := m.Alloc(16)
	n := m.SetCString(addr, "hello")
	if n != 6 {
		t.Errorf("SetCString wrote %d bytes, want 6 (5 + NUL)", n)
	}
	if got := m.CString(addr); got != "hello" {
		t.Errorf("CString = %q, want %q", got, "hello")
	}
}

func TestMemoryOutOfRangeAccessPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on out-of-range access")
		}
	}()
	m := NewMemory()
	m.U32(0xFFFFFFFF)
}

func TestInitialStackPointerAligned(t *testing.T) {
	m := NewMemory()
	sp := InitialStackPointer(m)
	if sp&0xF != 0 {
		t.Errorf("initial $sp = 0x%x, not 16-byte aligned", sp)
	}
	if sp >= stackBase+uint32(stackSize) || sp < stackBase {
		t.Errorf("initial $sp = 0x%x, not within stack region", sp)
	}
}
