package lower

// dataSections emits .rodata and .data as package-level byte slices the
// entry harness copies into guest memory, plus .bss's length so the
// harness can zero-fill it. Both are emitted as big-endian byte literals
// rather than word arrays: the recompiled program's own loads/stores
// already go through rt.Mem's endianness-aware accessors, so the backing
// bytes should be laid out exactly as the guest ELF had them.
func (l *lowerer) dataSections() {
	l.printf("var initialRodata = []byte{\n")
	l.byteLiteralRows(l.p.In.Rodata)
	l.printf("}\n\n")

	l.printf("var initialData = []byte{\n")
	l.byteLiteralRows(l.p.In.Data)
	l.printf("}\n\n")

	l.printf("const (\n")
	l.printf("\ttextVaddr   = 0x%08x\n", l.p.In.TextVaddr)
	l.printf("\trodataVaddr = 0x%08x\n", l.p.In.RodataVaddr)
	l.printf("\tdataVaddr   = 0x%08x\n", l.p.In.DataVaddr)
	l.printf("\tbssVaddr    = 0x%08x\n", l.p.In.BSSVaddr)
	l.printf("\tbssLen      = 0x%08x\n", l.p.In.BSSLen)
	l.printf(")\n\n")
}

func (l *lowerer) byteLiteralRows(data []byte) {
	const perRow = 16
	for i := 0; i < len(data); i += perRow {
		end := i + perRow
		if end > len(data) {
			end = len(data)
		}
		l.printf("\t")
		for _, b := range data[i:end] {
			l.printf("0x%02x, ", b)
		}
		l.printf("\n")
	}
}
