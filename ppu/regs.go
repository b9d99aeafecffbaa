package ppu

import "errors"

// Register offsets within the mirrored I/O block. The layout follows the
// hardware's display-register map.
const (
	RegDispCnt  = 0x00
	RegBG0Cnt   = 0x08 // BG1-3 follow at 2-byte steps
	RegBG0HOfs  = 0x10 // hofs/vofs pairs for BG0-3
	RegBG2PA    = 0x20
	RegBG2PB    = 0x22
	RegBG2PC    = 0x24
	RegBG2PD    = 0x26
	RegBG2XL    = 0x28
	RegBG2XH    = 0x2A
	RegBG2YL    = 0x2C
	RegBG2YH    = 0x2E
	RegBG3PA    = 0x30
	RegBG3XL    = 0x38
	RegBG3YL    = 0x3C
	RegWin0H    = 0x40
	RegWin1H    = 0x42
	RegWin0V    = 0x44
	RegWin1V    = 0x46
	RegWinIn    = 0x48
	RegWinOut   = 0x4A
	RegMosaic   = 0x4C
	RegBldCnt   = 0x50
	RegBldAlpha = 0x52
	RegBldY     = 0x54
)

// DISPCNT bits used by the capture path.
const (
	dispObjMap1D = 1 << 6
	dispBG0On    = 1 << 8
)

// RegisterMirror is a write-through model of the display hardware's
// register file and memories. A driver pokes registers and memory the way
// it would on the real machine, then Capture decodes the whole mirror into
// a snapshot.
type RegisterMirror struct {
	VRAM   [VRAMSize]uint8
	PalBG  [PalBGSize]uint8
	PalOBJ [PalOBJSize]uint8
	OAM    [OAMSize]uint8

	DispCnt uint16
	BGCnt   [NumBackgrounds]uint16
	BGHOfs  [NumBackgrounds]uint16
	BGVOfs  [NumBackgrounds]uint16

	BG2PA, BG2PB, BG2PC, BG2PD int16
	BG3PA, BG3PB, BG3PC, BG3PD int16
	BG2X, BG2Y, BG3X, BG3Y     int32

	Win0H, Win1H   uint16
	Win0V, Win1V   uint16
	WinIn, WinOut  uint16
	BldCnt         uint16
	BldAlpha       uint16
	BldY           uint8
	Mosaic         uint16
	ObjAff         [NumObjAffine]struct{ PA, PB, PC, PD int16 }

	// Dispatch-time configuration with no hardware register.
	MapWidth, MapHeight uint32
	ObjCharBase         uint32
}

// NewRegisterMirror returns a mirror in the post-reset state: identity
// affine coefficients and the default 32x32 map geometry.
func NewRegisterMirror() *RegisterMirror {
	m := &RegisterMirror{
		BG2PA: 256, BG2PD: 256,
		BG3PA: 256, BG3PD: 256,
		MapWidth:    32,
		MapHeight:   32,
		ObjCharBase: 32 * 1024,
	}
	for i := range m.ObjAff {
		m.ObjAff[i].PA = 256
		m.ObjAff[i].PD = 256
	}
	return m
}

// WriteRegister applies a 16-bit store at the given register offset. Writes
// to offsets outside the modeled block are dropped, matching the open-bus
// behavior of unmapped I/O.
func (m *RegisterMirror) WriteRegister(off uint32, v uint16) {
	switch {
	case off == RegDispCnt:
		m.DispCnt = v
	case off >= RegBG0Cnt && off < RegBG0Cnt+8:
		m.BGCnt[(off-RegBG0Cnt)/2] = v
	case off >= RegBG0HOfs && off < RegBG0HOfs+16:
		i := (off - RegBG0HOfs) / 2
		if i&1 == 0 {
			m.BGHOfs[i/2] = v
		} else {
			m.BGVOfs[i/2] = v
		}
	case off == RegBG2PA:
		m.BG2PA = int16(v)
	case off == RegBG2PB:
		m.BG2PB = int16(v)
	case off == RegBG2PC:
		m.BG2PC = int16(v)
	case off == RegBG2PD:
		m.BG2PD = int16(v)
	case off == RegBG2XL:
		m.BG2X = mergeLo(m.BG2X, v)
	case off == RegBG2XH:
		m.BG2X = mergeHi(m.BG2X, v)
	case off == RegBG2YL:
		m.BG2Y = mergeLo(m.BG2Y, v)
	case off == RegBG2YH:
		m.BG2Y = mergeHi(m.BG2Y, v)
	case off == RegBG3PA:
		m.BG3PA = int16(v)
	case off == RegBG3PA+2:
		m.BG3PB = int16(v)
	case off == RegBG3PA+4:
		m.BG3PC = int16(v)
	case off == RegBG3PA+6:
		m.BG3PD = int16(v)
	case off == RegBG3XL:
		m.BG3X = mergeLo(m.BG3X, v)
	case off == RegBG3XL+2:
		m.BG3X = mergeHi(m.BG3X, v)
	case off == RegBG3YL:
		m.BG3Y = mergeLo(m.BG3Y, v)
	case off == RegBG3YL+2:
		m.BG3Y = mergeHi(m.BG3Y, v)
	case off == RegWin0H:
		m.Win0H = v
	case off == RegWin1H:
		m.Win1H = v
	case off == RegWin0V:
		m.Win0V = v
	case off == RegWin1V:
		m.Win1V = v
	case off == RegWinIn:
		m.WinIn = v
	case off == RegWinOut:
		m.WinOut = v
	case off == RegMosaic:
		m.Mosaic = v
	case off == RegBldCnt:
		m.BldCnt = v
	case off == RegBldAlpha:
		m.BldAlpha = v
	case off == RegBldY:
		m.BldY = uint8(v)
	}
}

func mergeLo(cur int32, v uint16) int32 {
	return int32(uint32(cur)&0xFFFF0000 | uint32(v))
}

func mergeHi(cur int32, v uint16) int32 {
	// Sign-extend from the 28-bit register width.
	w := uint32(cur)&0xFFFF | uint32(v)<<16
	return int32(w<<4) >> 4
}

// Capture decodes the whole mirror into a fresh snapshot. The decode is
// lossy in the same places the hardware is: fields the display block never
// latches simply do not exist in the result.
func Capture(m *RegisterMirror) (*Snapshot, error) {
	if m == nil {
		return nil, errors.New("ppu: nil register mirror")
	}

	s := &Snapshot{}
	copy(s.VRAM[:], m.VRAM[:])
	copy(s.PalBG[:], m.PalBG[:])
	copy(s.PalOBJ[:], m.PalOBJ[:])
	copy(s.OAM[:], m.OAM[:])

	for b := 0; b < NumBackgrounds; b++ {
		cnt := m.BGCnt[b]
		bg := &s.BG[b]
		bg.Priority = uint32(cnt & 3)
		bg.CharBase = uint32(cnt>>2&3) * 16 * 1024
		bg.ScreenBase = uint32(cnt>>8&0x1F) * 2 * 1024
		bg.HOfs = uint32(m.BGHOfs[b])
		bg.VOfs = uint32(m.BGVOfs[b])
		bg.Enabled = m.DispCnt&(dispBG0On<<b) != 0
		if cnt&(1<<6) != 0 {
			bg.Flags |= BGFlagMosaic
		}
		if cnt&(1<<7) != 0 {
			bg.Flags |= BGFlagColor256
		}
		if b >= 2 {
			bg.Flags |= BGFlagAffine
			if cnt&(1<<13) != 0 {
				bg.Flags |= BGFlagWrap
			}
		}
	}

	s.Win.Win0 = decodeWinRect(m.Win0H, m.Win0V)
	s.Win.Win1 = decodeWinRect(m.Win1H, m.Win1V)
	s.Win.In0 = uint8(m.WinIn) & 0x3F
	s.Win.In1 = uint8(m.WinIn>>8) & 0x3F
	s.Win.Out = uint8(m.WinOut) & 0x3F
	s.Win.Obj = uint8(m.WinOut>>8) & 0x3F

	s.Blend.Control = m.BldCnt
	s.Blend.Alpha = m.BldAlpha
	s.Blend.Bright = uint16(m.BldY)
	s.Blend.Mosaic = m.Mosaic

	s.BGAffine[2] = AffineParam{
		RefX: m.BG2X >> 20, RefY: m.BG2Y >> 20,
		PA: int32(m.BG2PA), PB: int32(m.BG2PB),
		PC: int32(m.BG2PC), PD: int32(m.BG2PD),
	}
	s.BGAffine[3] = AffineParam{
		RefX: m.BG3X >> 20, RefY: m.BG3Y >> 20,
		PA: int32(m.BG3PA), PB: int32(m.BG3PB),
		PC: int32(m.BG3PC), PD: int32(m.BG3PD),
	}
	s.BGAffine[0] = AffineParam{PA: 256, PD: 256}
	s.BGAffine[1] = AffineParam{PA: 256, PD: 256}

	for i := range m.ObjAff {
		s.ObjAff[i] = ObjAffine{
			PA: int32(m.ObjAff[i].PA), PB: int32(m.ObjAff[i].PB),
			PC: int32(m.ObjAff[i].PC), PD: int32(m.ObjAff[i].PD),
		}
	}

	s.Dispatch.MapWidth = m.MapWidth
	s.Dispatch.MapHeight = m.MapHeight
	s.Dispatch.ObjCharBase = m.ObjCharBase
	if m.DispCnt&dispObjMap1D != 0 {
		s.Dispatch.ObjMapMode = 1
	}

	return s, nil
}

// decodeWinRect splits the hardware's packed window registers: the low byte
// is the leading edge, the high byte the trailing edge.
func decodeWinRect(h, v uint16) WindowRect {
	return WindowRect{
		X1: uint32(h & 0xFF), X2: uint32(h >> 8),
		Y1: uint32(v & 0xFF), Y2: uint32(v >> 8),
	}
}
