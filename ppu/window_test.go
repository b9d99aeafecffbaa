package ppu

import "testing"

func TestWindowRect_Contains(t *testing.T) {
	r := WindowRect{X1: 8, Y1: 8, X2: 112, Y2: 56}
	if !r.contains(8, 8) {
		t.Error("lower bounds are inclusive")
	}
	if r.contains(112, 8) || r.contains(8, 56) {
		t.Error("upper bounds are exclusive")
	}
	if (WindowRect{}).contains(0, 0) {
		t.Error("zero rectangle must contain nothing")
	}
}

func TestWindowMask_Precedence(t *testing.T) {
	s := makeTestSnapshot()
	s.Win.Win0 = WindowRect{X1: 0, Y1: 0, X2: 50, Y2: 50}
	s.Win.Win1 = WindowRect{X1: 25, Y1: 25, X2: 100, Y2: 100}
	s.Win.In0 = MaskBG0
	s.Win.In1 = MaskBG1
	s.Win.Obj = MaskBG2
	s.Win.Out = MaskBG3
	ln := lineFor(s, 0)

	// Inside both rectangles: window 0 wins.
	if got := s.windowMask(30, 30, &ln, true); got != MaskBG0 {
		t.Errorf("expected window 0 mask, got %#02x", got)
	}
	// Inside window 1 only.
	if got := s.windowMask(60, 60, &ln, false); got != MaskBG1 {
		t.Errorf("expected window 1 mask, got %#02x", got)
	}
	// Object window beats the outside region.
	if got := s.windowMask(150, 150, &ln, true); got != MaskBG2 {
		t.Errorf("expected object window mask, got %#02x", got)
	}
	// Nothing applies: outside mask.
	if got := s.windowMask(150, 150, &ln, false); got != MaskBG3 {
		t.Errorf("expected outside mask, got %#02x", got)
	}
}

func TestWindowMask_ScanlineSlitOverride(t *testing.T) {
	s := makeTestSnapshot()
	s.Win.Win0 = WindowRect{X1: 0, Y1: 0, X2: 240, Y2: 160}
	s.Win.In0 = MaskBG0
	s.Win.Out = MaskBG1
	// Line 10 narrows window 0 to x in [100, 120).
	s.Scan[10].Win0X1 = 100
	s.Scan[10].Win0X2 = 120
	s.Scan[10].Enabled = true

	ln := lineFor(s, 10)
	if got := s.windowMask(50, 10, &ln, false); got != MaskBG1 {
		t.Errorf("outside the overridden slit: expected outside mask, got %#02x", got)
	}
	if got := s.windowMask(110, 10, &ln, false); got != MaskBG0 {
		t.Errorf("inside the overridden slit: expected window 0 mask, got %#02x", got)
	}

	// Other lines keep the global extent.
	ln = lineFor(s, 11)
	if got := s.windowMask(50, 11, &ln, false); got != MaskBG0 {
		t.Errorf("unoverridden line: expected window 0 mask, got %#02x", got)
	}
}
