package lower

import (
	"testing"

	"mipsrecomp/internal/recomp"
)

func TestSignatureNoArgsNoReturn(t *testing.T) {
	fn := &recomp.Function{}
	got := signature(fn)
	want := "(mem *rt.Memory, sp uint32)"
	if got != want {
		t.Errorf("signature = %q, want %q", got, want)
	}
}

func TestSignatureTwoArgsSingleReturn(t *testing.T) {
	fn := &recomp.Function{NArgs: 2, NRet: 1}
	got := signature(fn)
	want := "(mem *rt.Memory, sp uint32, a0 uint32, a1 uint32) uint32"
	if got != want {
		t.Errorf("signature = %q, want %q", got, want)
	}
}

func TestSignatureFourArgsPackedReturn(t *testing.T) {
	fn := &recomp.Function{NArgs: 4, NRet: 2}
	got := signature(fn)
	want := "(mem *rt.Memory, sp uint32, a0 uint32, a1 uint32, a2 uint32, a3 uint32) uint64"
	if got != want {
		t.Errorf("signature = %q, want %q", got, want)
	}
}
