package runtime

// SetupLibcData copies the host argv strings into guest memory and
// assembles a guest argv[] pointer array on the heap, returning its
// address — the uint32 the recompiled main() receives as its second
// argument, matching libc's process-startup contract.
func SetupLibcData(mem *Memory, argc int, argv []string) uint32 {
	ptrs := make([]uint32, argc+1) // NULL-terminated, like a real argv
	for i := 0; i < argc && i < len(argv); i++ {
		addr := mem.Alloc(uint32(len(argv[i]) + 1))
		mem.SetCString(addr, argv[i])
		ptrs[i] = addr
	}

	tableAddr := mem.Alloc(uint32(len(ptrs)) * 4)
	for i, p := range ptrs {
		mem.SetU32(tableAddr+uint32(i)*4, p)
	}
	return tableAddr
}
