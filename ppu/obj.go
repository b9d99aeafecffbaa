package ppu

// objPixel is the winning sprite contribution at one pixel position.
type objPixel struct {
	color    uint16
	opaque   bool
	priority uint32
	semi     bool
}

// sampleSprites walks the sprite table in index order and returns the first
// opaque sprite pixel at (x, y). Lower OAM index wins regardless of
// priority; priority only matters later when the sprite layer is ranked
// against backgrounds. Object-window sprites never contribute color.
func (s *Snapshot) sampleSprites(x, y int, ln *lineState) objPixel {
	for i := 0; i < OAMEntries; i++ {
		sp := decodeSprite(s.oamAttrs(i))
		if sp.hidden || sp.mode == ObjModeWindow {
			continue
		}
		sx, sy := x, y
		if sp.mosaic {
			sx = mosaicQuantize(sx, ln.blend.objMosaicW())
			sy = mosaicQuantize(sy, ln.blend.objMosaicH())
		}
		c, ok := s.spriteSample(&sp, sx, sy)
		if !ok {
			continue
		}
		return objPixel{
			color:    c,
			opaque:   true,
			priority: sp.priority,
			semi:     sp.mode == ObjModeSemi,
		}
	}
	return objPixel{}
}

// objWindowAt reports whether any object-window sprite covers (x, y).
// Coverage means an opaque texel, not just the bounding box. Mosaic
// sprites quantize the position the same way the visible pass does.
func (s *Snapshot) objWindowAt(x, y int, ln *lineState) bool {
	for i := 0; i < OAMEntries; i++ {
		sp := decodeSprite(s.oamAttrs(i))
		if sp.hidden || sp.mode != ObjModeWindow {
			continue
		}
		sx, sy := x, y
		if sp.mosaic {
			sx = mosaicQuantize(sx, ln.blend.objMosaicW())
			sy = mosaicQuantize(sy, ln.blend.objMosaicH())
		}
		if _, ok := s.spriteSample(&sp, sx, sy); ok {
			return true
		}
	}
	return false
}

// spriteSample resolves the texel of sprite sp at screen position (x, y).
// The second return is false when the position misses the sprite or lands
// on a transparent texel.
func (s *Snapshot) spriteSample(sp *sprite, x, y int) (uint16, bool) {
	left, top, bw, bh := sp.boundingBox()
	dx := x - left
	dy := y - top
	if dx < 0 || dx >= bw || dy < 0 || dy >= bh {
		return 0, false
	}

	var tx, ty int
	if sp.affine {
		aff := &s.ObjAff[sp.affSet&31]
		// Transform relative to the render box center; the result is a
		// texel coordinate in the sprite's untransformed w by h frame.
		cx := int32(dx - bw/2)
		cy := int32(dy - bh/2)
		tx = int((aff.PA*cx+aff.PB*cy)>>8) + sp.w/2
		ty = int((aff.PC*cx+aff.PD*cy)>>8) + sp.h/2
		if tx < 0 || tx >= sp.w || ty < 0 || ty >= sp.h {
			return 0, false
		}
	} else {
		tx, ty = dx, dy
		if sp.hflip {
			tx = sp.w - 1 - tx
		}
		if sp.vflip {
			ty = sp.h - 1 - ty
		}
	}

	return s.spriteTexel(sp, tx, ty)
}

// spriteTexel fetches the texel at (tx, ty) inside sprite sp's tile data.
// In 1D mapping consecutive tiles follow the sprite row by row; in 2D
// mapping the tile index walks a 32-tile-wide character grid.
func (s *Snapshot) spriteTexel(sp *sprite, tx, ty int) (uint16, bool) {
	cellX := tx / 8
	cellY := ty / 8

	var tile int
	if s.Dispatch.ObjMapMode != 0 {
		tile = sp.tile + cellY*(sp.w/8) + cellX
	} else {
		tile = sp.tile + cellY*32 + cellX
	}

	base := int(s.Dispatch.ObjCharBase)
	if sp.color256 {
		idx := s.tilePixel8(base, tile, tx&7, ty&7)
		if idx == 0 {
			return 0, false
		}
		return s.objColor555(int(idx)), true
	}

	idx := s.tilePixel4(base, tile, tx&7, ty&7)
	if idx == 0 {
		return 0, false
	}
	return s.objColor555(sp.palBank*16 + int(idx)), true
}
