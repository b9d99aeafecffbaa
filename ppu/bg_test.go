package ppu

import "testing"

// makeTestSnapshot returns a snapshot with all sprites hidden and every
// window mask fully open, so tests see layer output without window gating.
func makeTestSnapshot() *Snapshot {
	s := NewSnapshot()
	s.HideAllSprites()
	s.Win.Out = 0x3F
	return s
}

// lineFor resolves the effective line registers the way composition does.
func lineFor(s *Snapshot, y int) lineState {
	return s.lineRegs(y)
}

// --- Tile pixel decode tests ---

func TestTilePixel4_NibbleOrder(t *testing.T) {
	s := makeTestSnapshot()
	// Byte 0x21: low nibble 1 = left pixel, high nibble 2 = right pixel.
	s.VRAM[0] = 0x21
	if got := s.tilePixel4(0, 0, 0, 0); got != 1 {
		t.Errorf("pixel 0 expected index 1, got %d", got)
	}
	if got := s.tilePixel4(0, 0, 1, 0); got != 2 {
		t.Errorf("pixel 1 expected index 2, got %d", got)
	}
}

func TestTilePixel4_RowStride(t *testing.T) {
	s := makeTestSnapshot()
	// 4bpp rows are 4 bytes; row 3 starts at byte 12.
	s.VRAM[12] = 0x05
	if got := s.tilePixel4(0, 0, 0, 3); got != 5 {
		t.Errorf("expected index 5, got %d", got)
	}
}

func TestTilePixel4_TileStride(t *testing.T) {
	s := makeTestSnapshot()
	// 4bpp tiles are 32 bytes; tile 2 starts at byte 64.
	s.VRAM[64] = 0x07
	if got := s.tilePixel4(0, 2, 0, 0); got != 7 {
		t.Errorf("expected index 7, got %d", got)
	}
}

func TestTilePixel8_Layout(t *testing.T) {
	s := makeTestSnapshot()
	// 8bpp rows are 8 bytes, one pixel per byte; tile 1 starts at byte 64.
	s.VRAM[64+2*8+5] = 0xAB
	if got := s.tilePixel8(0, 1, 5, 2); got != 0xAB {
		t.Errorf("expected index 0xAB, got %#x", got)
	}
}

func TestTilePixel_OutOfRangeReadsZero(t *testing.T) {
	s := makeTestSnapshot()
	if got := s.tilePixel4(VRAMSize-4, 10, 0, 0); got != 0 {
		t.Errorf("out-of-range 4bpp read expected 0, got %d", got)
	}
	if got := s.tilePixel8(VRAMSize-4, 10, 0, 0); got != 0 {
		t.Errorf("out-of-range 8bpp read expected 0, got %d", got)
	}
}

// --- Text background sampling tests ---

func TestTextBG_BasicSample(t *testing.T) {
	s := makeTestSnapshot()
	s.BG[0].Enabled = true
	s.FillTile4(0, 0, 1)
	s.SetBGColor(1, 0x7FFF)
	// Map region is all zeroes: every cell is tile 0, bank 0.
	s.BG[0].ScreenBase = 0x8000
	lp := s.sampleTextBG(0, 5, 5, 0, 0)
	if !lp.opaque {
		t.Fatal("expected opaque pixel")
	}
	if lp.color != 0x7FFF {
		t.Errorf("expected color 0x7FFF, got %#04x", lp.color)
	}
}

func TestTextBG_Index0Transparent(t *testing.T) {
	s := makeTestSnapshot()
	// Tile data all zero: every pixel is palette index 0.
	if lp := s.sampleTextBG(0, 0, 0, 0, 0); lp.opaque {
		t.Error("index 0 should be transparent")
	}
}

func TestTextBG_ScrollWraps(t *testing.T) {
	s := makeTestSnapshot()
	// 32x32 map = 256x256 pixels. Mark cell (0,0) with tile 1, fill tile 1.
	s.FillTile4(0, 1, 2)
	s.SetBGColor(2, 0x001F)
	s.SetTextMapEntry(0x8000, 0, 0, 1)
	s.BG[0].ScreenBase = 0x8000
	// x=10 with hofs=250 lands at u=260 -> wraps to 4 -> cell 0.
	lp := s.sampleTextBG(0, 10, 0, 250, 0)
	if !lp.opaque || lp.color != 0x001F {
		t.Errorf("expected wrapped sample (opaque, 0x001F), got (%v, %#04x)", lp.opaque, lp.color)
	}
}

func TestTextBG_NegativeScrollWraps(t *testing.T) {
	s := makeTestSnapshot()
	s.FillTile4(0, 1, 2)
	s.SetBGColor(2, 0x001F)
	// Cell (31,0) is the rightmost map column.
	s.SetTextMapEntry(0x8000, 31, 0, 1)
	s.BG[0].ScreenBase = 0x8000
	// hofs written as -8 in two's complement: x=0 samples map x 248.
	lp := s.sampleTextBG(0, 0, 0, 0xFFFFFFF8, 0)
	if !lp.opaque || lp.color != 0x001F {
		t.Errorf("expected sample from rightmost column, got (%v, %#04x)", lp.opaque, lp.color)
	}
}

func TestTextBG_HFlip(t *testing.T) {
	s := makeTestSnapshot()
	// Asymmetric tile: only pixel (0,0) set.
	s.VRAM[0] = 0x01
	s.SetBGColor(1, 0x7FFF)
	s.SetTextMapEntry(0x8000, 0, 0, TextMapEntry(0, true, false, 0))
	s.BG[0].ScreenBase = 0x8000
	if lp := s.sampleTextBG(0, 0, 0, 0, 0); lp.opaque {
		t.Error("flipped tile should be transparent at x=0")
	}
	if lp := s.sampleTextBG(0, 7, 0, 0, 0); !lp.opaque {
		t.Error("flipped tile should be opaque at x=7")
	}
}

func TestTextBG_VFlip(t *testing.T) {
	s := makeTestSnapshot()
	s.VRAM[0] = 0x01
	s.SetBGColor(1, 0x7FFF)
	s.SetTextMapEntry(0x8000, 0, 0, TextMapEntry(0, false, true, 0))
	s.BG[0].ScreenBase = 0x8000
	if lp := s.sampleTextBG(0, 0, 0, 0, 0); lp.opaque {
		t.Error("flipped tile should be transparent at y=0")
	}
	if lp := s.sampleTextBG(0, 0, 7, 0, 0); !lp.opaque {
		t.Error("flipped tile should be opaque at y=7")
	}
}

func TestTextBG_PaletteBank(t *testing.T) {
	s := makeTestSnapshot()
	s.FillTile4(0, 0, 1)
	s.SetBGColor(1, 0x0000)
	s.SetBGColor(16+1, 0x03E0) // bank 1 entry 1
	s.SetTextMapEntry(0x8000, 0, 0, TextMapEntry(0, false, false, 1))
	s.BG[0].ScreenBase = 0x8000
	lp := s.sampleTextBG(0, 0, 0, 0, 0)
	if lp.color != 0x03E0 {
		t.Errorf("expected bank 1 color 0x03E0, got %#04x", lp.color)
	}
}

func TestTextBG_Color256(t *testing.T) {
	s := makeTestSnapshot()
	s.BG[0].Flags = BGFlagColor256
	s.BG[0].ScreenBase = 0x8000
	s.FillTile8(0, 0, 200)
	s.SetBGColor(200, 0x7C00)
	lp := s.sampleTextBG(0, 3, 3, 0, 0)
	if !lp.opaque || lp.color != 0x7C00 {
		t.Errorf("expected 256-color sample 0x7C00, got (%v, %#04x)", lp.opaque, lp.color)
	}
}

// --- Affine background sampling tests ---

func TestAffineBG_IdentitySample(t *testing.T) {
	s := makeTestSnapshot()
	s.BG[2].Flags = BGFlagAffine
	s.BG[2].ScreenBase = 0x8000
	// Map byte 0 = tile 1; tile 1 filled with index 3.
	s.VRAM[0x8000] = 1
	s.FillTile8(0, 1, 3)
	s.SetBGColor(3, 0x001F)
	lp := s.sampleAffineBG(2, 4, 4)
	if !lp.opaque || lp.color != 0x001F {
		t.Errorf("expected identity affine sample 0x001F, got (%v, %#04x)", lp.opaque, lp.color)
	}
}

func TestAffineBG_OutOfBoundsTransparentWithoutWrap(t *testing.T) {
	s := makeTestSnapshot()
	s.BG[2].Flags = BGFlagAffine
	s.BG[2].ScreenBase = 0x8000
	s.FillTile8(0, 1, 3)
	s.SetBGColor(3, 0x001F)
	// Reference point behind the map origin: x=0 maps to u=-16.
	s.BGAffine[2].RefX = -16 << 8
	if lp := s.sampleAffineBG(2, 0, 0); lp.opaque {
		t.Error("out-of-bounds affine sample should be transparent without wrap")
	}
}

func TestAffineBG_WrapsWhenFlagged(t *testing.T) {
	s := makeTestSnapshot()
	s.BG[2].Flags = BGFlagAffine | BGFlagWrap
	s.BG[2].ScreenBase = 0x8000
	// u=-16 wraps to map x 240 -> cell 30.
	s.VRAM[0x8000+30] = 1
	s.FillTile8(0, 1, 3)
	s.SetBGColor(3, 0x001F)
	s.BGAffine[2].RefX = -16 << 8
	lp := s.sampleAffineBG(2, 0, 0)
	if !lp.opaque || lp.color != 0x001F {
		t.Errorf("expected wrapped affine sample, got (%v, %#04x)", lp.opaque, lp.color)
	}
}

func TestAffineBG_ScaleHalf(t *testing.T) {
	s := makeTestSnapshot()
	s.BG[2].Flags = BGFlagAffine
	s.BG[2].ScreenBase = 0x8000
	// PA=512 doubles the step: screen x=4 samples map x=8 -> cell 1.
	s.BGAffine[2].PA = 512
	s.VRAM[0x8000+1] = 1
	s.FillTile8(0, 1, 3)
	s.SetBGColor(3, 0x001F)
	lp := s.sampleAffineBG(2, 4, 0)
	if !lp.opaque || lp.color != 0x001F {
		t.Errorf("expected scaled sample from cell 1, got (%v, %#04x)", lp.opaque, lp.color)
	}
}

// --- Mosaic tests ---

func TestMosaicQuantize(t *testing.T) {
	if got := mosaicQuantize(7, 4); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
	if got := mosaicQuantize(8, 4); got != 8 {
		t.Errorf("expected 8, got %d", got)
	}
	if got := mosaicQuantize(7, 1); got != 7 {
		t.Errorf("block 1 should pass through, got %d", got)
	}
}

func TestBG_MosaicQuantizesCoordinates(t *testing.T) {
	s := makeTestSnapshot()
	s.BG[0].Enabled = true
	s.BG[0].Flags = BGFlagMosaic
	s.BG[0].ScreenBase = 0x8000
	s.Blend.Mosaic = 3 | 3<<4 // 4x4 blocks
	// Only pixel (0,0) of tile 0 is opaque.
	s.VRAM[0] = 0x01
	s.SetBGColor(1, 0x7FFF)
	ln := lineFor(s, 0)
	// (3,3) quantizes to (0,0) and becomes opaque.
	if lp := s.sampleBG(0, 3, 3, &ln); !lp.opaque {
		t.Error("mosaic should replicate the block origin pixel")
	}
	// (4,4) is the next block origin: transparent.
	if lp := s.sampleBG(0, 4, 4, &ln); lp.opaque {
		t.Error("next mosaic block should sample its own origin")
	}
}
