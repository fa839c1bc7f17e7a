package recomp

import "encoding/binary"

// ScanDataFunctionPointers runs part of stage 2a: scanning a
// data-segment-like section for 4-byte-aligned words that look like
// addresses of instructions, the conservative way the original finds
// function-pointer tables baked into .rodata/.data (switch-dispatch
// tables, vtables, callback arrays) before any instruction has been
// resolved. Every hit becomes both a function entry and a liveness seed,
// since such a function may be called indirectly with an unknown
// argument count the direct-call graph alone would never reveal.
func (p *Program) ScanDataFunctionPointers(vaddr uint32, data []byte) {
	n := len(data) / 4
	for i := 0; i < n; i++ {
		word := binary.BigEndian.Uint32(data[i*4:])
		if word < p.In.TextVaddr || word >= p.In.TextVaddr+uint32(len(p.In.Text)) {
			continue
		}
		if word%4 != 0 {
			continue
		}
		p.AddFunction(word)
		p.LabelAddresses[word] = true
		p.DataFunctionPointers = append(p.DataFunctionPointers, word)
		p.Functions[word].ReferencedByFunctionPointer = true
	}
}
