package runtime

// Syscall handles a `syscall` trap. Per spec.md's explicit Non-goal ("no
// trap-semantics fidelity beyond what's explicitly emitted"), the
// recompiled call site passes no register state in (the syscall number
// and arguments live in locals the lowerer never threads through this
// call), so there is nothing for it to act on: real syscall use in an
// O32 MIPS binary almost always comes in through the libc wrappers this
// package implements directly (Wrapper*), not a bare `syscall`
// instruction, so reaching this at run time means the source binary used
// the raw trap itself.
func Syscall(mem *Memory) {
	panic("runtime: bare syscall instruction has no modeled semantics")
}
