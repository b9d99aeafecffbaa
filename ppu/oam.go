package ppu

// OAM attribute word layout. Each entry is three little-endian 16-bit words
// followed by two bytes of padding.
//
// attr0: bits 0-7 Y, bit 8 affine enable, bit 9 double-size (affine) or
// hide (non-affine), bits 10-11 mode, bit 12 mosaic, bit 13 color depth,
// bits 14-15 shape.
// attr1: bits 0-8 X, bits 9-13 affine set (affine) or bit 12 h-flip /
// bit 13 v-flip (non-affine), bits 14-15 size.
// attr2: bits 0-9 base tile, bits 10-11 priority, bits 12-15 palette bank.
const (
	Attr0Affine   = 1 << 8
	Attr0Double   = 1 << 9 // affine entries only
	Attr0Hide     = 1 << 9 // non-affine entries only
	Attr0Mosaic   = 1 << 12
	Attr0Color256 = 1 << 13

	Attr1HFlip = 1 << 12
	Attr1VFlip = 1 << 13
)

// Sprite modes (attr0 bits 10-11).
const (
	ObjModeNormal = 0
	ObjModeSemi   = 1 // semi-transparent: forces alpha blend over a second target
	ObjModeWindow = 2 // contributes to the OBJ window mask, never to color
)

// Sprite shapes (attr0 bits 14-15).
const (
	ShapeSquare = 0
	ShapeWide   = 1
	ShapeTall   = 2
)

// spriteDims maps (shape, size) to texel dimensions. Shape 3 is undefined
// on the modeled hardware; entries are zero so such sprites never cover a
// pixel.
var spriteDims = [4][4][2]int{
	ShapeSquare: {{8, 8}, {16, 16}, {32, 32}, {64, 64}},
	ShapeWide:   {{16, 8}, {32, 8}, {32, 16}, {64, 32}},
	ShapeTall:   {{8, 16}, {8, 32}, {16, 32}, {32, 64}},
}

// sprite is the decoded view of one OAM entry.
type sprite struct {
	x, y     int // screen position, top-left of the bounding box
	w, h     int // texel dimensions (bounding box doubles when double is set)
	affine   bool
	double   bool
	hidden   bool
	mode     int
	mosaic   bool
	color256 bool
	hflip    bool
	vflip    bool
	affSet   int
	tile     int
	priority uint32
	palBank  int
}

// oamAttrs returns the three attribute words of entry i.
func (s *Snapshot) oamAttrs(i int) (a0, a1, a2 uint16) {
	off := i * 8
	a0 = read16(s.OAM[:], off)
	a1 = read16(s.OAM[:], off+2)
	a2 = read16(s.OAM[:], off+4)
	return
}

// decodeSprite expands the packed attribute words.
//
// The 9-bit X and 8-bit Y positions wrap: X at or beyond 256 reads as X-512
// and Y at or beyond the screen height reads as Y-256, so sprites scrolled
// off the right or bottom edge re-enter from the left or top.
func decodeSprite(a0, a1, a2 uint16) sprite {
	var spr sprite

	spr.y = int(a0 & 0xFF)
	if spr.y >= ScreenHeight {
		spr.y -= 256
	}
	spr.affine = a0&Attr0Affine != 0
	if spr.affine {
		spr.double = a0&Attr0Double != 0
	} else {
		spr.hidden = a0&Attr0Hide != 0
	}
	spr.mode = int(a0>>10) & 3
	spr.mosaic = a0&Attr0Mosaic != 0
	spr.color256 = a0&Attr0Color256 != 0
	shape := int(a0>>14) & 3

	spr.x = int(a1 & 0x1FF)
	if spr.x >= 256 {
		spr.x -= 512
	}
	if spr.affine {
		spr.affSet = int(a1>>9) & 0x1F
	} else {
		spr.hflip = a1&Attr1HFlip != 0
		spr.vflip = a1&Attr1VFlip != 0
	}
	size := int(a1>>14) & 3

	spr.w = spriteDims[shape][size][0]
	spr.h = spriteDims[shape][size][1]

	spr.tile = int(a2 & 0x3FF)
	spr.priority = uint32(a2>>10) & 3
	spr.palBank = int(a2>>12) & 0xF

	return spr
}

// boundingBox returns the screen-space coverage rectangle. Affine sprites
// with the double-size flag cover twice the texel dimensions.
func (spr sprite) boundingBox() (left, top, width, height int) {
	width, height = spr.w, spr.h
	if spr.affine && spr.double {
		width *= 2
		height *= 2
	}
	return spr.x, spr.y, width, height
}
