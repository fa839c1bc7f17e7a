package runtime

import "testing"

func TestMultSigned(t *testing.T) {
	lo, hi := Mult(-2, 3)
	if int64(hi)<<32|int64(lo) == 0 {
		t.Fatal("unexpected zero product")
	}
	want := int64(-6)
	got := int64(int32(hi))<<32 | int64(lo)
	if got != want {
		t.Errorf("Mult(-2,3) = %d, want %d", got, want)
	}
}

func TestMultUOverflowsIntoHi(t *testing.T) {
	lo, hi := MultU(0xFFFFFFFF, 2)
	if hi != 1 || lo != 0xFFFFFFFE {
		t.Errorf("MultU = (lo=0x%x, hi=0x%x), want (0xfffffffe, 1)", lo, hi)
	}
}

func TestDivByZeroReturnsZero(t *testing.T) {
	lo, hi := Div(10, 0)
	if lo != 0 || hi != 0 {
		t.Errorf("Div by zero = (%d, %d), want (0, 0)", lo, hi)
	}
}

func TestDivUTruncates(t *testing.T) {
	lo, hi := DivU(7, 2)
	if lo != 3 || hi != 1 {
		t.Errorf("DivU(7,2) = (q=%d, r=%d), want (3, 1)", lo, hi)
	}
}

func TestCvtSWRoundTripsViaBitcast(t *testing.T) {
	// mtc1 of integer 42 stores its raw bits, cvt.s.w must unwrap those
	// bits as an int, not reinterpret the float value of 42.0.
	raw := BitcastI2F(42)
	got := CvtSW(raw)
	if got != 42.0 {
		t.Errorf("CvtSW(bits of 42) = %v, want 42.0", got)
	}
}

func TestCvtWSRewrapsBits(t *testing.T) {
	got := CvtWS(7.9)
	asInt := BitcastF2I(got)
	if int32(asInt) != 7 {
		t.Errorf("CvtWS(7.9) unwrapped = %d, want 7 (truncated toward zero)", int32(asInt))
	}
}

func TestCvtWDRewrapsBits(t *testing.T) {
	got := CvtWD(7.9)
	asInt := BitcastF2I(got)
	if int32(asInt) != 7 {
		t.Errorf("CvtWD(7.9) unwrapped = %d, want 7 (truncated toward zero)", int32(asInt))
	}
}

func TestCCondS(t *testing.T) {
	if !CCondS(2, 1.0, 1.0) {
		t.Error("CCondS(eq, 1.0, 1.0) = false, want true")
	}
	if CCondS(4, 1.0, 1.0) {
		t.Error("CCondS(olt, 1.0, 1.0) = true, want false")
	}
	if !CCondS(6, 1.0, 1.0) {
		t.Error("CCondS(ole, 1.0, 1.0) = false, want true")
	}
}
