// Package hints holds per-binary jump-table recognition overrides.
//
// The instruction-level jump-table pattern the resolver looks for (a
// $gp-relative table load feeding a shift-and-add into $t9, jumped to via
// `jr $t9`) has a handful of real-world variants: PIC vs non-PIC
// addressing, a delay-slot NOP pad inserted by some toolchain versions,
// and bounds checks expressed as either `sltiu`/`bgez` or `andi`+1. Two or
// three binaries in the wild fall outside every variant this package
// knows how to recognize structurally — rather than hard-code their
// instruction indices into the resolver itself, each such case is listed
// here, keyed by a fingerprint of the binary's .text section plus the
// instruction index, with the table size the human analyst already
// worked out by hand.
package hints

import "crypto/sha256"

// Fingerprint identifies a binary by the SHA-256 of its .text section, so
// a hint only ever applies to the exact binary it was recorded against.
type Fingerprint [32]byte

// FingerprintText computes the Fingerprint for a .text section's bytes.
func FingerprintText(text []byte) Fingerprint {
	return sha256.Sum256(text)
}

// Override is a manually-verified jump-table site that the automatic
// pattern matcher in internal/recomp could not classify on its own.
type Override struct {
	InsnIndex int    // index into the instruction vector of the `jr` site
	JtblAddr  uint32 // VRAM of the table in .rodata
	NumCases  uint32
}

// Table maps a binary fingerprint to its manual overrides.
type Table map[Fingerprint][]Override

// Lookup returns the override for insnIndex in the binary identified by
// fp, if one was recorded.
func (t Table) Lookup(fp Fingerprint, insnIndex int) (Override, bool) {
	for _, o := range t[fp] {
		if o.InsnIndex == insnIndex {
			return o, true
		}
	}
	return Override{}, false
}

// Empty is the zero hints table: every Lookup misses, so the idiom
// recognizer decides every jump table on its own.
func Empty() Table { return Table{} }
