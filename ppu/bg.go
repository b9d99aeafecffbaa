package ppu

// layerPixel holds one layer's result for one pixel position.
type layerPixel struct {
	color  uint16 // BGR555
	opaque bool
}

// vramByte reads a VRAM byte, treating out-of-range offsets as zero
// (transparent) rather than faulting; the modeled hardware has no fault
// path for bad register values.
func (s *Snapshot) vramByte(off int) uint8 {
	if off < 0 || off >= VRAMSize {
		return 0
	}
	return s.VRAM[off]
}

// tilePixel4 returns the palette index (0-15) of pixel (px, py) within a
// 4bpp tile. Each row is 4 bytes; the low nibble of each byte is the left
// pixel of its pair.
func (s *Snapshot) tilePixel4(base, tile, px, py int) uint8 {
	b := s.vramByte(base + tile*32 + py*4 + px/2)
	if px&1 == 0 {
		return b & 0xF
	}
	return b >> 4
}

// tilePixel8 returns the palette index (0-255) of pixel (px, py) within an
// 8bpp tile. Each row is 8 bytes, one pixel per byte.
func (s *Snapshot) tilePixel8(base, tile, px, py int) uint8 {
	return s.vramByte(base + tile*64 + py*8 + px)
}

// bgColor555 resolves a background palette entry to a BGR555 color.
func (s *Snapshot) bgColor555(entry int) uint16 {
	return read16(s.PalBG[:], entry*2)
}

// objColor555 resolves a sprite palette entry to a BGR555 color.
func (s *Snapshot) objColor555(entry int) uint16 {
	return read16(s.PalOBJ[:], entry*2)
}

// mosaicQuantize truncates a coordinate to its mosaic block origin.
func mosaicQuantize(v, block int) int {
	if block > 1 {
		v -= v % block
	}
	return v
}

// sampleBG samples background b at screen pixel (x, y) using the effective
// line registers. Palette index 0 is transparent.
func (s *Snapshot) sampleBG(b, x, y int, ln *lineState) layerPixel {
	bg := &s.BG[b]
	if bg.mosaic() {
		x = mosaicQuantize(x, ln.blend.bgMosaicW())
		y = mosaicQuantize(y, ln.blend.bgMosaicH())
	}
	if bg.affine() {
		return s.sampleAffineBG(b, x, y)
	}
	return s.sampleTextBG(b, x, y, ln.hofs[b], ln.vofs[b])
}

// sampleTextBG samples a text-mode background: scrolled coordinates wrap
// around the map, 2-byte map entries carry tile index, flips and palette
// bank. Scroll arithmetic is unsigned so register values written as small
// negatives wrap the same way the hardware's adders do.
func (s *Snapshot) sampleTextBG(b, x, y int, hofs, vofs uint32) layerPixel {
	bg := &s.BG[b]
	mapW := s.Dispatch.MapWidth
	mapH := s.Dispatch.MapHeight
	if mapW == 0 || mapH == 0 {
		return layerPixel{}
	}

	u := uint32(x) + hofs
	v := uint32(y) + vofs
	tx := int((u / 8) % mapW)
	ty := int((v / 8) % mapH)
	px := int(u & 7)
	py := int(v & 7)

	entry := read16(s.VRAM[:], int(bg.ScreenBase)+2*(ty*int(mapW)+tx))
	tile := int(entry & 0x3FF)
	if entry&MapHFlip != 0 {
		px = 7 - px
	}
	if entry&MapVFlip != 0 {
		py = 7 - py
	}

	if bg.color256() {
		idx := s.tilePixel8(int(bg.CharBase), tile, px, py)
		if idx == 0 {
			return layerPixel{}
		}
		return layerPixel{color: s.bgColor555(int(idx)), opaque: true}
	}

	idx := s.tilePixel4(int(bg.CharBase), tile, px, py)
	if idx == 0 {
		return layerPixel{}
	}
	bank := int(entry >> 12 & 0xF)
	return layerPixel{color: s.bgColor555(bank*16 + int(idx)), opaque: true}
}

// sampleAffineBG samples an affine background: the 8.8 transform maps the
// screen pixel to a fractional map-space coordinate. With the wrap flag the
// coordinate wraps modulo the map size; without it, out-of-bounds samples
// are transparent. Affine maps use 1-byte entries (tile index only) and
// 8bpp tiles.
func (s *Snapshot) sampleAffineBG(b, x, y int) layerPixel {
	bg := &s.BG[b]
	aff := &s.BGAffine[b]
	mapW := int(s.Dispatch.MapWidth)
	mapH := int(s.Dispatch.MapHeight)
	if mapW == 0 || mapH == 0 {
		return layerPixel{}
	}

	u := int(aff.RefX+aff.PA*int32(x)+aff.PB*int32(y)) >> 8
	v := int(aff.RefY+aff.PC*int32(x)+aff.PD*int32(y)) >> 8

	pixW := mapW * 8
	pixH := mapH * 8
	if bg.wrap() {
		u = ((u % pixW) + pixW) % pixW
		v = ((v % pixH) + pixH) % pixH
	} else if u < 0 || u >= pixW || v < 0 || v >= pixH {
		return layerPixel{}
	}

	tile := int(s.vramByte(int(bg.ScreenBase) + (v/8)*mapW + u/8))
	idx := s.tilePixel8(int(bg.CharBase), tile, u&7, v&7)
	if idx == 0 {
		return layerPixel{}
	}
	return layerPixel{color: s.bgColor555(int(idx)), opaque: true}
}
