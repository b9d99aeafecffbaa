package ppu

import "testing"

func TestDemoScene_BGConfiguration(t *testing.T) {
	s := BuildDemoScene()
	if !s.BG[0].Enabled || !s.BG[1].Enabled || !s.BG[2].Enabled {
		t.Error("BG0-2 should be enabled")
	}
	if s.BG[3].Enabled {
		t.Error("BG3 should be disabled")
	}
	if !s.BG[2].affine() || !s.BG[2].wrap() {
		t.Error("BG2 should be an affine wrapping layer")
	}
	if !s.BG[1].mosaic() {
		t.Error("BG1 should have its mosaic flag set")
	}
}

func TestDemoScene_SpriteVisibleAtOrigin(t *testing.T) {
	s := BuildDemoScene()
	// Entry 0 is a magenta 16x16 sprite at (12,12), priority 1: it sits
	// inside window 0, which admits the sprite layer.
	ln := s.lineRegs(14)
	op := s.sampleSprites(14, 14, &ln)
	if !op.opaque || op.color != 0x7C1F {
		t.Errorf("expected magenta sprite pixel, got (%v, %#04x)", op.opaque, op.color)
	}
}

func TestDemoScene_ScanlineSineBoundsScroll(t *testing.T) {
	s := BuildDemoScene()
	for y := 0; y < ScreenHeight; y++ {
		if !s.Scan[y].Enabled {
			t.Fatalf("line %d override should be enabled", y)
		}
		h := s.Scan[y].HOfs[0]
		if h < 8 || h > 16 {
			t.Fatalf("line %d: BG0 hofs %d outside sine envelope [8,16]", y, h)
		}
	}
}

func TestDemoScene_ComposesWithoutBackdropEverywhere(t *testing.T) {
	s := BuildDemoScene()
	// BG0's checker map is fully opaque, so no pixel should fall through
	// to the raw backdrop gray while BG0 is enabled everywhere.
	backdrop := packRGBA(0x4210)
	frame := s.ComposeFrameWords()
	for i, w := range frame {
		if w == backdrop {
			t.Fatalf("pixel %d shows the backdrop through an opaque layer", i)
		}
	}
}

func TestDemoScene_WindowBrightensPatch(t *testing.T) {
	s := BuildDemoScene()
	// The red patch on BG1 occupies map cells (10..19, 5..14) at scroll
	// (100,32): screen x in [-20..60), y in [8..88). Point (30,30) lies in
	// the patch and inside window 0 with the effect bit, so the brighten
	// applies: red (31,0,0) -> (31,15,15).
	want := packRGBA(0x001F | 15<<5 | 15<<10)
	if got := s.ComposePixel(30, 30); got != want {
		t.Errorf("expected brightened red %#08x, got %#08x", want, got)
	}
}

func TestDemoScene_OutsideWindowNoEffect(t *testing.T) {
	s := BuildDemoScene()
	// Point (30,70) is in the red patch but below window 0 (y >= 56); the
	// outside mask has no effect bit, so the red stays unblended.
	want := packRGBA(0x001F)
	if got := s.ComposePixel(30, 70); got != want {
		t.Errorf("expected plain red %#08x, got %#08x", want, got)
	}
}
