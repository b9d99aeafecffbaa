package ppu

import (
	"errors"
	"fmt"
	"image"
)

// Flat buffer word counts. Byte regions expand to one word per byte.
const (
	VRAMWords     = VRAMSize
	PalBGWords    = PalBGSize
	PalOBJWords   = PalOBJSize
	OAMWords      = OAMSize
	BGParamWords  = NumBackgrounds * 8
	WindowWords   = 12
	BlendWords    = 4
	ScanlineWords = ScreenHeight * 20
	BGAffineWords = NumBackgrounds * 6
	ObjAffWords   = NumObjAffine * 4
	ParamWords    = 6
	OutputWords   = ScreenWidth * ScreenHeight
)

// FlatBuffers is the backend-facing form of a snapshot: word-addressable
// storage with fixed per-buffer layouts. A backend reading these buffers
// must see exactly the snapshot the builder authored.
type FlatBuffers struct {
	VRAM     []uint32
	PalBG    []uint32
	PalOBJ   []uint32
	OAM      []uint32
	BGParams []uint32
	Window   []uint32
	Blend    []uint32
	Scanline []uint32
	BGAffine []int32
	ObjAff   []int32
	Params   []uint32
}

var errNilSnapshot = errors.New("ppu: nil snapshot")

func expandBytes(dst []uint32, src []uint8) {
	for i, b := range src {
		dst[i] = uint32(b)
	}
}

// MarshalState flattens a snapshot into the buffer layouts of §6 of the
// backend contract: byte regions zero-extended to words, register state as
// fixed-width records.
func MarshalState(s *Snapshot) (*FlatBuffers, error) {
	if s == nil {
		return nil, errNilSnapshot
	}
	fb := &FlatBuffers{
		VRAM:     make([]uint32, VRAMWords),
		PalBG:    make([]uint32, PalBGWords),
		PalOBJ:   make([]uint32, PalOBJWords),
		OAM:      make([]uint32, OAMWords),
		BGParams: make([]uint32, BGParamWords),
		Window:   make([]uint32, WindowWords),
		Blend:    make([]uint32, BlendWords),
		Scanline: make([]uint32, ScanlineWords),
		BGAffine: make([]int32, BGAffineWords),
		ObjAff:   make([]int32, ObjAffWords),
		Params:   make([]uint32, ParamWords),
	}

	expandBytes(fb.VRAM, s.VRAM[:])
	expandBytes(fb.PalBG, s.PalBG[:])
	expandBytes(fb.PalOBJ, s.PalOBJ[:])
	expandBytes(fb.OAM, s.OAM[:])

	for b := 0; b < NumBackgrounds; b++ {
		bg := &s.BG[b]
		rec := fb.BGParams[b*8:]
		rec[0] = bg.CharBase
		rec[1] = bg.ScreenBase
		rec[2] = bg.HOfs
		rec[3] = bg.VOfs
		rec[4] = bg.Priority
		if bg.Enabled {
			rec[5] = 1
		}
		rec[6] = bg.Flags
		rec[7] = 0
	}

	putRect := func(dst []uint32, r WindowRect) {
		dst[0], dst[1], dst[2], dst[3] = r.X1, r.Y1, r.X2, r.Y2
	}
	putRect(fb.Window[0:], s.Win.Win0)
	putRect(fb.Window[4:], s.Win.Win1)
	fb.Window[8] = uint32(s.Win.In0)
	fb.Window[9] = uint32(s.Win.In1)
	fb.Window[10] = uint32(s.Win.Out)
	fb.Window[11] = uint32(s.Win.Obj)

	fb.Blend[0] = uint32(s.Blend.Control)
	fb.Blend[1] = uint32(s.Blend.Alpha)
	fb.Blend[2] = uint32(s.Blend.Bright)
	fb.Blend[3] = uint32(s.Blend.Mosaic)

	for y := 0; y < ScreenHeight; y++ {
		ov := &s.Scan[y]
		rec := fb.Scanline[y*20:]
		for b := 0; b < NumBackgrounds; b++ {
			rec[b] = ov.HOfs[b]
			rec[4+b] = ov.VOfs[b]
		}
		rec[8] = ov.Win0X1
		rec[9] = ov.Win0X2
		rec[12] = ov.Win1X1
		rec[13] = ov.Win1X2
		rec[16] = ov.BldCnt
		rec[17] = ov.BldAlpha
		rec[18] = ov.BldY
		if ov.Enabled {
			rec[19] = 1
		}
	}

	for b := 0; b < NumBackgrounds; b++ {
		a := &s.BGAffine[b]
		rec := fb.BGAffine[b*6:]
		rec[0], rec[1] = a.RefX, a.RefY
		rec[2], rec[3], rec[4], rec[5] = a.PA, a.PB, a.PC, a.PD
	}
	for i := 0; i < NumObjAffine; i++ {
		a := &s.ObjAff[i]
		rec := fb.ObjAff[i*4:]
		rec[0], rec[1], rec[2], rec[3] = a.PA, a.PB, a.PC, a.PD
	}

	fb.Params[0] = ScreenWidth
	fb.Params[1] = ScreenHeight
	fb.Params[2] = s.Dispatch.MapWidth
	fb.Params[3] = s.Dispatch.MapHeight
	fb.Params[4] = s.Dispatch.ObjCharBase
	fb.Params[5] = s.Dispatch.ObjMapMode

	return fb, nil
}

func checkLen(name string, got, want int) error {
	if got != want {
		return fmt.Errorf("ppu: %s buffer has %d words, want %d", name, got, want)
	}
	return nil
}

func packBytes(dst []uint8, src []uint32) {
	for i, w := range src {
		dst[i] = uint8(w)
	}
}

// UnmarshalState rebuilds a snapshot from flat buffers. Buffer sizes must
// match the fixed layouts exactly; a mismatch rejects the whole set with no
// partial result.
func UnmarshalState(fb *FlatBuffers) (*Snapshot, error) {
	if fb == nil {
		return nil, errors.New("ppu: nil flat buffers")
	}
	for _, c := range []struct {
		name string
		got  int
		want int
	}{
		{"vram", len(fb.VRAM), VRAMWords},
		{"bg palette", len(fb.PalBG), PalBGWords},
		{"obj palette", len(fb.PalOBJ), PalOBJWords},
		{"oam", len(fb.OAM), OAMWords},
		{"bg params", len(fb.BGParams), BGParamWords},
		{"window", len(fb.Window), WindowWords},
		{"blend", len(fb.Blend), BlendWords},
		{"scanline", len(fb.Scanline), ScanlineWords},
		{"bg affine", len(fb.BGAffine), BGAffineWords},
		{"obj affine", len(fb.ObjAff), ObjAffWords},
		{"params", len(fb.Params), ParamWords},
	} {
		if err := checkLen(c.name, c.got, c.want); err != nil {
			return nil, err
		}
	}

	s := &Snapshot{}
	packBytes(s.VRAM[:], fb.VRAM)
	packBytes(s.PalBG[:], fb.PalBG)
	packBytes(s.PalOBJ[:], fb.PalOBJ)
	packBytes(s.OAM[:], fb.OAM)

	for b := 0; b < NumBackgrounds; b++ {
		rec := fb.BGParams[b*8:]
		s.BG[b] = BGParam{
			CharBase:   rec[0],
			ScreenBase: rec[1],
			HOfs:       rec[2],
			VOfs:       rec[3],
			Priority:   rec[4],
			Enabled:    rec[5] != 0,
			Flags:      rec[6],
		}
	}

	s.Win.Win0 = WindowRect{fb.Window[0], fb.Window[1], fb.Window[2], fb.Window[3]}
	s.Win.Win1 = WindowRect{fb.Window[4], fb.Window[5], fb.Window[6], fb.Window[7]}
	s.Win.In0 = uint8(fb.Window[8])
	s.Win.In1 = uint8(fb.Window[9])
	s.Win.Out = uint8(fb.Window[10])
	s.Win.Obj = uint8(fb.Window[11])

	s.Blend.Control = uint16(fb.Blend[0])
	s.Blend.Alpha = uint16(fb.Blend[1])
	s.Blend.Bright = uint16(fb.Blend[2])
	s.Blend.Mosaic = uint16(fb.Blend[3])

	for y := 0; y < ScreenHeight; y++ {
		rec := fb.Scanline[y*20:]
		ov := &s.Scan[y]
		for b := 0; b < NumBackgrounds; b++ {
			ov.HOfs[b] = rec[b]
			ov.VOfs[b] = rec[4+b]
		}
		ov.Win0X1 = rec[8]
		ov.Win0X2 = rec[9]
		ov.Win1X1 = rec[12]
		ov.Win1X2 = rec[13]
		ov.BldCnt = rec[16]
		ov.BldAlpha = rec[17]
		ov.BldY = rec[18]
		ov.Enabled = rec[19]&1 != 0
	}

	for b := 0; b < NumBackgrounds; b++ {
		rec := fb.BGAffine[b*6:]
		s.BGAffine[b] = AffineParam{
			RefX: rec[0], RefY: rec[1],
			PA: rec[2], PB: rec[3], PC: rec[4], PD: rec[5],
		}
	}
	for i := 0; i < NumObjAffine; i++ {
		rec := fb.ObjAff[i*4:]
		s.ObjAff[i] = ObjAffine{PA: rec[0], PB: rec[1], PC: rec[2], PD: rec[3]}
	}

	s.Dispatch.MapWidth = fb.Params[2]
	s.Dispatch.MapHeight = fb.Params[3]
	s.Dispatch.ObjCharBase = fb.Params[4]
	s.Dispatch.ObjMapMode = fb.Params[5]

	return s, nil
}

// FrameImage converts a backend pixel buffer (byte0=R, byte1=G, byte2=B,
// byte3=alpha) into an RGBA image.
func FrameImage(pix []uint32) (*image.RGBA, error) {
	if err := checkLen("output", len(pix), OutputWords); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight))
	for i, w := range pix {
		img.Pix[i*4+0] = uint8(w)
		img.Pix[i*4+1] = uint8(w >> 8)
		img.Pix[i*4+2] = uint8(w >> 16)
		img.Pix[i*4+3] = uint8(w >> 24)
	}
	return img, nil
}

// Backend runs the composition stage over a marshaled state. The call is a
// blocking round trip: submit, wait, read back the pixel words.
type Backend interface {
	Render(fb *FlatBuffers) ([]uint32, error)
}

// SoftwareBackend composes frames on the CPU. It consumes the same flat
// buffers a device backend would, so it doubles as the reference for
// validating any other backend's output.
type SoftwareBackend struct{}

func (SoftwareBackend) Render(fb *FlatBuffers) ([]uint32, error) {
	s, err := UnmarshalState(fb)
	if err != nil {
		return nil, err
	}
	return s.ComposeFrameWords(), nil
}
