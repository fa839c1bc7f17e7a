// Package runtime is the companion support library that every recompiled
// program imports: a guest address space ("Memory"), the bit-level helpers
// a MIPS instruction set needs that Go doesn't expose as operators
// (HI/LO multiply-divide, float/int bitcasts, FPU condition codes), and the C-runtime surface extern calls are lowered against
// (malloc/free, the stdio family, string/mem routines, process startup).
//
// Memory models the flat 32-bit guest address space as a small set of
// mapped regions instead of one 4GiB backing array, the same region-table
// shape a register/memory-mapped emulator uses: each region owns a
// disjoint [Base, Base+len) range, and an access walks the table to find
// which one (if any) covers it. A MIPS binary only ever touches a few
// contiguous ranges (.rodata, .data+.bss, the heap, the stack), so a
// linear scan over a handful of regions is cheap and the representation
// never allocates memory the guest program didn't ask for.
package runtime

import (
	"encoding/binary"
	"fmt"
)

const (
	heapBase      = 0x10000000
	heapInitSize  = 1 << 20 // 1 MiB, grown by doubling on exhaustion
	stackBase     = 0x7FF00000
	stackSize     = 8 << 20 // 8 MiB
	stackRedZone  = 64      // bytes reserved below the initial $sp
)

type region struct {
	base uint32
	buf  []byte
	name string
}

func (r *region) covers(addr uint32, length int) bool {
	if addr < r.base {
		return false
	}
	off := uint64(addr-r.base) + uint64(length)
	return off <= uint64(len(r.buf))
}

// Memory is the guest's address space: every MEM_* access in recompiled
// code goes through it.
type Memory struct {
	regions []*region
	heap    *region
	heapTop uint32 // next free byte within heap.buf, relative to heap.base
	freed   []freeBlock
}

type freeBlock struct {
	addr uint32
	size uint32
}

// NewMemory allocates the heap and stack regions; the caller maps the
// ELF's static data in with MmapInitialDataRange/MmapZeroRange afterward.
func NewMemory() *Memory {
	m := &Memory{}
	m.heap = &region{base: heapBase, buf: make([]byte, heapInitSize), name: "heap"}
	m.regions = append(m.regions, m.heap)
	m.regions = append(m.regions, &region{base: stackBase, buf: make([]byte, stackSize), name: "stack"})
	return m
}

// MmapInitialDataRange copies the ELF's .rodata or .data section image
// into guest memory at its link-time virtual address.
func MmapInitialDataRange(m *Memory, vaddr uint32, data []byte) {
	r := &region{base: vaddr, buf: make([]byte, len(data)), name: "static"}
	copy(r.buf, data)
	m.regions = append(m.regions, r)
}

// MmapZeroRange reserves length zero-filled bytes at vaddr, mirroring
// .bss: no file content, just reserved and cleared address space.
func MmapZeroRange(m *Memory, vaddr uint32, length uint32) {
	m.regions = append(m.regions, &region{base: vaddr, buf: make([]byte, length), name: "bss"})
}

// InitialStackPointer returns the guest $sp value process startup hands
// to main: near the top of the stack region, leaving headroom below it.
func InitialStackPointer(m *Memory) uint32 {
	top := stackBase + uint32(stackSize) - stackRedZone
	return top &^ 0xF // 16-byte aligned, matching the O32 stack convention
}

func (m *Memory) find(addr uint32, length int) *region {
	for _, r := range m.regions {
		if r.covers(addr, length) {
			return r
		}
	}
	return nil
}

func (m *Memory) slice(addr uint32, length int) []byte {
	r := m.find(addr, length)
	if r == nil {
		panic(fmt.Sprintf("runtime: memory access out of range: addr=0x%08x len=%d", addr, length))
	}
	off := addr - r.base
	return r.buf[off : off+uint32(length)]
}

// U8/U16/U32/U64 load a big-endian value from guest memory, matching the
// byte order the source ELF's sections were captured in.
func (m *Memory) U8(addr uint32) uint32  { return uint32(m.slice(addr, 1)[0]) }
func (m *Memory) U16(addr uint32) uint32 { return uint32(binary.BigEndian.Uint16(m.slice(addr, 2))) }
func (m *Memory) U32(addr uint32) uint32 { return binary.BigEndian.Uint32(m.slice(addr, 4)) }
func (m *Memory) U64(addr uint32) uint64 { return binary.BigEndian.Uint64(m.slice(addr, 8)) }

// SetU8/SetU16/SetU32/SetU64 store a big-endian value to guest memory.
func (m *Memory) SetU8(addr uint32, v uint32) { m.slice(addr, 1)[0] = byte(v) }
func (m *Memory) SetU16(addr uint32, v uint32) {
	binary.BigEndian.PutUint16(m.slice(addr, 2), uint16(v))
}
func (m *Memory) SetU32(addr uint32, v uint32) {
	binary.BigEndian.PutUint32(m.slice(addr, 4), v)
}
func (m *Memory) SetU64(addr uint32, v uint64) {
	binary.BigEndian.PutUint64(m.slice(addr, 8), v)
}

// Bytes returns a direct view of length bytes at addr, for routines
// (strlen, memcpy, the printf family) that want to work on a guest
// buffer without a copy-out round trip.
func (m *Memory) Bytes(addr uint32, length int) []byte { return m.slice(addr, length) }

// CString reads a NUL-terminated guest string starting at addr.
func (m *Memory) CString(addr uint32) string {
	r := m.find(addr, 1)
	if r == nil {
		panic(fmt.Sprintf("runtime: CString out of range: addr=0x%08x", addr))
	}
	off := addr - r.base
	end := off
	for end < uint32(len(r.buf)) && r.buf[end] != 0 {
		end++
	}
	return string(r.buf[off:end])
}

// SetCString writes s plus a trailing NUL at addr, returning the number
// of bytes written including the terminator.
func (m *Memory) SetCString(addr uint32, s string) int {
	buf := m.slice(addr, len(s)+1)
	copy(buf, s)
	buf[len(s)] = 0
	return len(s) + 1
}

// Alloc reserves size bytes on the guest heap, reusing the first freed
// block that is large enough, or else bumping the heap top and growing
// the heap region's backing slice (same base address) when it runs out. Returns 0 (guest NULL) for a zero-size request, matching
// malloc(0)'s implementation-defined-but-commonly-null behavior.
func (m *Memory) Alloc(size uint32) uint32 {
	if size == 0 {
		return 0
	}
	size = (size + 7) &^ 7 // 8-byte align, matching typical libc allocators

	for i, fb := range m.freed {
		if fb.size >= size {
			m.freed = append(m.freed[:i], m.freed[i+1:]...)
			return fb.addr
		}
	}

	if uint64(m.heapTop)+uint64(size) > uint64(len(m.heap.buf)) {
		grown := make([]byte, len(m.heap.buf)*2+int(size))
		copy(grown, m.heap.buf)
		m.heap.buf = grown
	}
	addr := m.heap.base + m.heapTop
	m.heapTop += size
	return addr
}

// Free returns a previous Alloc result to the free list. size must match
// (or exceed) the request Alloc rounded up to, so the free list doesn't
// need to track allocation sizes separately; callers that don't know the
// original size (C's free(ptr) has no length) pass 0, and the block is
// simply leaked rather than guessed at — matching real malloc
// implementations that keep allocation headers the recompiled program
// never had.
func (m *Memory) Free(addr uint32, size uint32) {
	if addr == 0 || size == 0 {
		return
	}
	m.freed = append(m.freed, freeBlock{addr: addr, size: size})
}
