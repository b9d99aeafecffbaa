// Package ppu models a handheld-style 2D picture processing unit: four
// tiled backgrounds, 128 sprites, windows, and color-math effects. A frame
// is described by an immutable Snapshot; composition is a pure function of
// (x, y, Snapshot) so any backend, serial or parallel, produces the same
// image.
package ppu

const (
	ScreenWidth  = 240
	ScreenHeight = 160
)

// Core identity reported by front ends.
const (
	Name    = "emagb"
	Version = "0.1.0"
)

const (
	VRAMSize   = 96 * 1024
	PalBGSize  = 1024
	PalOBJSize = 512
	OAMSize    = 1024

	OAMEntries     = 128
	NumBackgrounds = 4
	NumObjAffine   = 32
)

// Background flag bits. These match the flags word in the flat buffer layout.
const (
	BGFlagAffine   = 1 << 0 // affine sampling (BG2/BG3)
	BGFlagWrap     = 1 << 1 // wrap affine sampling instead of clamping to transparent
	BGFlagMosaic   = 1 << 2
	BGFlagColor256 = 1 << 3 // 8bpp text tiles (affine backgrounds are always 8bpp)
)

// Window mask bits. Bit 5 gates the color-math effect, not a layer.
const (
	MaskBG0    = 1 << 0
	MaskBG1    = 1 << 1
	MaskBG2    = 1 << 2
	MaskBG3    = 1 << 3
	MaskOBJ    = 1 << 4
	MaskEffect = 1 << 5
)

// BGParam describes one background layer.
type BGParam struct {
	CharBase   uint32 // byte offset of tile pixel data in VRAM
	ScreenBase uint32 // byte offset of the tile map in VRAM
	HOfs       uint32 // scroll X (text mode only)
	VOfs       uint32 // scroll Y (text mode only)
	Priority   uint32 // 0 = front .. 3 = back
	Enabled    bool
	Flags      uint32 // BGFlag* bits
}

func (b BGParam) affine() bool   { return b.Flags&BGFlagAffine != 0 }
func (b BGParam) wrap() bool     { return b.Flags&BGFlagWrap != 0 }
func (b BGParam) mosaic() bool   { return b.Flags&BGFlagMosaic != 0 }
func (b BGParam) color256() bool { return b.Flags&BGFlagColor256 != 0 }

// WindowRect is a screen-space rectangle with exclusive upper bounds.
// A zero rectangle never contains any pixel.
type WindowRect struct {
	X1, Y1, X2, Y2 uint32
}

func (r WindowRect) contains(x, y int) bool {
	return x >= int(r.X1) && x < int(r.X2) && y >= int(r.Y1) && y < int(r.Y2)
}

// WindowState holds the two window rectangles and the four enable masks.
// Each mask is a Mask* bitfield restricting which layers (and the blend
// effect) may contribute to pixels inside that window region.
type WindowState struct {
	Win0, Win1         WindowRect
	In0, In1, Out, Obj uint8
}

// Blend modes from the effect-control word.
const (
	BlendNone     = 0
	BlendAlpha    = 1
	BlendBrighten = 2
	BlendDarken   = 3
)

// BlendState holds the color-math and mosaic registers.
//
// Control: bits 0-5 first-target layers, bits 6-7 mode, bits 8-13
// second-target layers. Layer bit n is BGn for n<4, 4 is OBJ, 5 is backdrop.
// Alpha: EVA | EVB<<8, 5-bit coefficients out of 16 (values above 16 clamp).
// Bright: EVY, same scale. Mosaic: bgH | bgV<<4 | objH<<8 | objV<<12; block
// size is the 4-bit field plus one.
type BlendState struct {
	Control uint16
	Alpha   uint16
	Bright  uint16
	Mosaic  uint16
}

func (f BlendState) mode() int            { return int(f.Control>>6) & 3 }
func (f BlendState) firstTarget() uint16  { return f.Control & 0x3F }
func (f BlendState) secondTarget() uint16 { return (f.Control >> 8) & 0x3F }

func clampCoef(v uint16) uint32 {
	v &= 0x1F
	if v > 16 {
		return 16
	}
	return uint32(v)
}

func (f BlendState) eva() uint32 { return clampCoef(f.Alpha) }
func (f BlendState) evb() uint32 { return clampCoef(f.Alpha >> 8) }
func (f BlendState) evy() uint32 { return clampCoef(f.Bright) }

func (f BlendState) bgMosaicW() int  { return int(f.Mosaic&0xF) + 1 }
func (f BlendState) bgMosaicH() int  { return int(f.Mosaic>>4&0xF) + 1 }
func (f BlendState) objMosaicW() int { return int(f.Mosaic>>8&0xF) + 1 }
func (f BlendState) objMosaicH() int { return int(f.Mosaic>>12&0xF) + 1 }

// ScanlineOverride replaces selected frame-global registers for one line.
// When Enabled is false the frame-global values apply. The blend words are
// substituted only when BldCnt is nonzero; a zero BldCnt inherits the
// frame-global blend state.
type ScanlineOverride struct {
	HOfs, VOfs     [NumBackgrounds]uint32
	Win0X1, Win0X2 uint32
	Win1X1, Win1X2 uint32
	BldCnt         uint32
	BldAlpha       uint32
	BldY           uint32
	Enabled        bool
}

// AffineParam is a background affine transform: 8.8 fixed-point matrix plus
// the map-space reference point, also 8.8.
type AffineParam struct {
	RefX, RefY     int32
	PA, PB, PC, PD int32
}

// ObjAffine is one of the 32 shared sprite transform sets, 8.8 fixed point.
type ObjAffine struct {
	PA, PB, PC, PD int32
}

var identityAffine = ObjAffine{PA: 256, PD: 256}

// DispatchParams are the frame-wide composition parameters that ride along
// with a dispatch rather than living in a hardware register: the tile-map
// dimensions, the sprite tile region, and the sprite tile-addressing mode.
type DispatchParams struct {
	MapWidth    uint32 // tile map width in tiles
	MapHeight   uint32 // tile map height in tiles
	ObjCharBase uint32 // byte offset of sprite tile data in VRAM
	ObjMapMode  uint32 // 0 = 2D (32-tile-wide grid), 1 = 1D
}

// Snapshot is one frame's fully-populated PPU state. It is built once,
// treated as read-only by composition, and replaced wholesale for the next
// frame. Nothing in this package mutates a Snapshot after it is handed to
// ComposeFrame.
type Snapshot struct {
	VRAM   [VRAMSize]byte
	PalBG  [PalBGSize]byte  // 512 BGR555 entries, little-endian
	PalOBJ [PalOBJSize]byte // 256 BGR555 entries, little-endian
	OAM    [OAMSize]byte    // 128 entries x 8 bytes

	BG       [NumBackgrounds]BGParam
	Win      WindowState
	Blend    BlendState
	Scan     [ScreenHeight]ScanlineOverride
	BGAffine [NumBackgrounds]AffineParam
	ObjAff   [NumObjAffine]ObjAffine
	Dispatch DispatchParams
}

// NewSnapshot returns a zeroed snapshot with identity affine transforms and
// the default dispatch parameters (32x32 map, sprite tiles at 32 KiB).
func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	for i := range s.BGAffine {
		s.BGAffine[i].PA = 256
		s.BGAffine[i].PD = 256
	}
	for i := range s.ObjAff {
		s.ObjAff[i] = identityAffine
	}
	s.Dispatch = DispatchParams{
		MapWidth:    32,
		MapHeight:   32,
		ObjCharBase: 32 * 1024,
	}
	return s
}

// --- Direct-authoring helpers ---

// write16 stores a little-endian 16-bit value into a byte region.
// Out-of-range offsets are ignored.
func write16(dst []byte, off int, v uint16) {
	if off < 0 || off+1 >= len(dst) {
		return
	}
	dst[off] = uint8(v)
	dst[off+1] = uint8(v >> 8)
}

// read16 loads a little-endian 16-bit value from a byte region.
// Out-of-range offsets read as zero.
func read16(src []byte, off int) uint16 {
	if off < 0 || off+1 >= len(src) {
		return 0
	}
	return uint16(src[off]) | uint16(src[off+1])<<8
}

// WriteVRAM16 writes a little-endian 16-bit value at a VRAM byte offset.
func (s *Snapshot) WriteVRAM16(off int, v uint16) {
	write16(s.VRAM[:], off, v)
}

// SetBGColor sets background palette entry index to a BGR555 color.
func (s *Snapshot) SetBGColor(index int, c uint16) {
	write16(s.PalBG[:], index*2, c)
}

// SetOBJColor sets sprite palette entry index to a BGR555 color.
func (s *Snapshot) SetOBJColor(index int, c uint16) {
	write16(s.PalOBJ[:], index*2, c)
}

// FillTile4 fills an entire 4bpp tile with one palette index. charBase is
// the byte offset of the tile region, tile its index within that region.
func (s *Snapshot) FillTile4(charBase, tile int, index uint8) {
	base := charBase + tile*32
	if base < 0 || base+32 > VRAMSize {
		return
	}
	b := (index&0xF)<<4 | index&0xF
	for i := 0; i < 32; i++ {
		s.VRAM[base+i] = b
	}
}

// FillTile8 fills an entire 8bpp tile with one palette index.
func (s *Snapshot) FillTile8(charBase, tile int, index uint8) {
	base := charBase + tile*64
	if base < 0 || base+64 > VRAMSize {
		return
	}
	for i := 0; i < 64; i++ {
		s.VRAM[base+i] = index
	}
}

// Text map entry bits.
const (
	MapHFlip = 1 << 10
	MapVFlip = 1 << 11
)

// TextMapEntry packs a 2-byte text map entry.
func TextMapEntry(tile int, hflip, vflip bool, palBank int) uint16 {
	e := uint16(tile) & 0x3FF
	if hflip {
		e |= MapHFlip
	}
	if vflip {
		e |= MapVFlip
	}
	e |= uint16(palBank&0xF) << 12
	return e
}

// SetTextMapEntry writes a 2-byte map entry at cell (tx, ty) of the text map
// at screenBase, using the snapshot's dispatch map width.
func (s *Snapshot) SetTextMapEntry(screenBase, tx, ty int, entry uint16) {
	off := screenBase + 2*(ty*int(s.Dispatch.MapWidth)+tx)
	write16(s.VRAM[:], off, entry)
}

// SetAffineMapEntry writes a 1-byte map entry at cell (tx, ty) of the affine
// map at screenBase.
func (s *Snapshot) SetAffineMapEntry(screenBase, tx, ty int, tile uint8) {
	off := screenBase + ty*int(s.Dispatch.MapWidth) + tx
	if off < 0 || off >= VRAMSize {
		return
	}
	s.VRAM[off] = tile
}

// SetOAM writes the three attribute words of OAM entry i.
func (s *Snapshot) SetOAM(i int, attr0, attr1, attr2 uint16) {
	if i < 0 || i >= OAMEntries {
		return
	}
	write16(s.OAM[:], i*8+0, attr0)
	write16(s.OAM[:], i*8+2, attr1)
	write16(s.OAM[:], i*8+4, attr2)
}

// HideAllSprites marks every OAM entry hidden (attr0 hide bit, affine off).
func (s *Snapshot) HideAllSprites() {
	for i := 0; i < OAMEntries; i++ {
		s.SetOAM(i, 0x0200, 0, 0)
	}
}
