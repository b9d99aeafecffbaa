package ppu

import "math"

// fx8 converts a float to 8.8 fixed point, rounding to nearest.
func fx8(f float64) int32 {
	return int32(math.Round(f * 256))
}

// BuildDemoScene authors the built-in test scene: a checkered text layer
// with a sine-wave horizontal scroll, a red patch layer under a brighten
// window, a rotated affine layer and a handful of sprites exercising the
// object modes. It doubles as a smoke test for every composition feature.
func BuildDemoScene() *Snapshot {
	s := NewSnapshot()

	const (
		charBase0 = 0
		charBase1 = 8 * 1024
		charBase2 = 16 * 1024
		charBase3 = 24 * 1024

		screenBase0 = 64 * 1024
		screenBase1 = 72 * 1024
		screenBase2 = 80 * 1024
		screenBase3 = 88 * 1024

		hofs0, vofs0 = 12, 7
		hofs1, vofs1 = 100, 32
	)

	s.BG[0] = BGParam{CharBase: charBase0, ScreenBase: screenBase0,
		HOfs: hofs0, VOfs: vofs0, Priority: 2, Enabled: true}
	s.BG[1] = BGParam{CharBase: charBase1, ScreenBase: screenBase1,
		HOfs: hofs1, VOfs: vofs1, Priority: 1, Enabled: true, Flags: BGFlagMosaic}
	s.BG[2] = BGParam{CharBase: charBase2, ScreenBase: screenBase2,
		Priority: 1, Enabled: true, Flags: BGFlagAffine | BGFlagWrap}
	s.BG[3] = BGParam{CharBase: charBase3, ScreenBase: screenBase3, Priority: 3}

	// BG0 tiles: tile 0 solid index 1, tile 1 solid index 2.
	s.FillTile4(charBase0, 0, 1)
	s.FillTile4(charBase0, 1, 2)

	// BG1 tiles: tile 0 solid index 3 (red), tile 1 fully transparent.
	s.FillTile4(charBase1, 0, 3)
	s.FillTile4(charBase1, 1, 0)

	// BG2 8bpp tile 0: coarse checker of indices 1 and 4.
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			idx := uint8(4)
			if (y/2^x/2)&1 != 0 {
				idx = 1
			}
			s.VRAM[charBase2+y*8+x] = idx
		}
	}

	// Sprite tiles: 4bpp tiles 0-3 solid index 1, 8bpp tiles 16-19 solid
	// index 2.
	objBase := int(s.Dispatch.ObjCharBase)
	for t := 0; t < 4; t++ {
		s.FillTile4(objBase, t, 1)
		s.FillTile8(objBase, 16+t, 2)
	}

	// BG0 map: checker of tiles 0/1, palette bank alternating by column.
	for ty := 0; ty < 32; ty++ {
		for tx := 0; tx < 32; tx++ {
			tile := (tx + ty) & 1
			s.SetTextMapEntry(screenBase0, tx, ty, TextMapEntry(tile, false, false, tx&1))
		}
	}

	// BG1 map: transparent tile everywhere, then a 10x10 red patch with
	// alternating flips.
	for ty := 0; ty < 32; ty++ {
		for tx := 0; tx < 32; tx++ {
			s.SetTextMapEntry(screenBase1, tx, ty, 1)
		}
	}
	for ty := 0; ty < 10; ty++ {
		for tx := 0; tx < 10; tx++ {
			e := TextMapEntry(0, tx&1 != 0, ty&1 != 0, 0)
			s.SetTextMapEntry(screenBase1, 10+tx, 5+ty, e)
		}
	}

	// BG2 affine map: all tile 0. The region is already zero; this keeps
	// the layout explicit next to the other maps.
	for ty := 0; ty < 32; ty++ {
		for tx := 0; tx < 32; tx++ {
			s.SetAffineMapEntry(screenBase2, tx, ty, 0)
		}
	}

	s.SetBGColor(0, 0x4210) // backdrop gray
	s.SetBGColor(1, 0x0000)
	s.SetBGColor(2, 0x7FFF)
	s.SetBGColor(3, 0x001F) // red
	s.SetBGColor(4, 0x03FF) // yellow
	s.SetBGColor(16+1, 0x03E0)
	s.SetBGColor(16+2, 0x7C00)
	s.SetOBJColor(0, 0x0000)
	s.SetOBJColor(1, 0x7C1F) // magenta
	s.SetOBJColor(2, 0x7FE0) // cyan

	s.HideAllSprites()

	// Entry 0: plain 16x16 4bpp sprite at (12,12).
	s.SetOAM(0, 12, 12|1<<14, 0|1<<10)

	// Entry 1: 16x16 object-window sprite at (18,18).
	s.SetOAM(1, 18|uint16(ObjModeWindow)<<10, 18|1<<14, 0|1<<10)

	// Entry 2: 16x16 8bpp semi-transparent sprite at (44,24), affine set 0
	// with double-size render box and mosaic.
	s.SetOAM(2,
		24|Attr0Affine|Attr0Double|uint16(ObjModeSemi)<<10|Attr0Mosaic|Attr0Color256,
		44|1<<14,
		16|1<<10)

	// Entry 3: 32x16 wide sprite at (24,40).
	s.SetOAM(3, 40|1<<14, 24|1<<14, 0|1<<10)

	s.Win.Win0 = WindowRect{X1: 8, Y1: 8, X2: 112, Y2: 56}
	s.Win.In0 = MaskBG0 | MaskBG1 | MaskOBJ | MaskEffect
	s.Win.In1 = 0
	s.Win.Out = MaskBG0 | MaskBG1 | MaskBG2 | MaskBG3 | MaskOBJ
	s.Win.Obj = MaskBG0 | MaskEffect

	// Brighten BG1 inside the effect window.
	s.Blend.Control = 1<<1 | 2<<6
	s.Blend.Alpha = 8 | 8<<8
	s.Blend.Bright = 8
	s.Blend.Mosaic = 3 | 3<<4 | 3<<8 | 3<<12

	// Per-scanline: BG0 rides a small sine on its horizontal scroll; all
	// other values restate the globals.
	for y := 0; y < ScreenHeight; y++ {
		phase := float64(y) * math.Pi / 16
		ov := &s.Scan[y]
		ov.HOfs = [4]uint32{hofs0 + uint32(int32(4*math.Sin(phase))), hofs1, 0, 0}
		ov.VOfs = [4]uint32{vofs0, vofs1, 0, 0}
		ov.Win0X1, ov.Win0X2 = 8, 112
		ov.Win1X1, ov.Win1X2 = 0, 0
		ov.Enabled = true
	}

	// BG2: rotate 30 degrees at 0.75 scale, pivoting the map center on
	// screen point (120,80).
	{
		rad := 30 * math.Pi / 180
		cs := math.Cos(rad) * 0.75
		sn := math.Sin(rad) * 0.75
		pa, pb, pc, pd := fx8(cs), fx8(-sn), fx8(sn), fx8(cs)
		const x0, y0 = 120, 80
		const u0, v0 = 32 * 8 / 2, 32 * 8 / 2
		s.BGAffine[2] = AffineParam{
			RefX: u0<<8 - pa*x0 - pb*y0,
			RefY: v0<<8 - pc*x0 - pd*y0,
			PA: pa, PB: pb, PC: pc, PD: pd,
		}
	}

	// Sprite affine set 0: rotate 30 degrees, unit scale.
	{
		rad := 30 * math.Pi / 180
		cs, sn := math.Cos(rad), math.Sin(rad)
		s.ObjAff[0] = ObjAffine{PA: fx8(cs), PB: fx8(-sn), PC: fx8(sn), PD: fx8(cs)}
	}

	return s
}
