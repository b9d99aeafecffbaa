package ppu

// windowMask resolves the layer-enable mask at (x, y). Window 0 has the
// highest precedence, then window 1, then the object window, then the
// outside region. The rectangles tested are the line-effective ones, so
// per-scanline X overrides are already folded in.
func (s *Snapshot) windowMask(x, y int, ln *lineState, objWin bool) uint8 {
	if ln.win0.contains(x, y) {
		return s.Win.In0
	}
	if ln.win1.contains(x, y) {
		return s.Win.In1
	}
	if objWin {
		return s.Win.Obj
	}
	return s.Win.Out
}
