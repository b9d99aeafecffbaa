package ppu

import (
	"image"
	"runtime"
	"sync"
)

// lineState is the effective register set for one scanline: the global
// values with any per-scanline overrides folded in.
type lineState struct {
	hofs  [4]uint32
	vofs  [4]uint32
	win0  WindowRect
	win1  WindowRect
	blend BlendState
}

// lineRegs resolves the effective registers for scanline y. An enabled
// override replaces the scroll values and window X extents; blend registers
// are only replaced when the override carries a nonzero control word, so a
// line can retune scrolling without disturbing the global color math.
func (s *Snapshot) lineRegs(y int) lineState {
	ln := lineState{
		win0:  s.Win.Win0,
		win1:  s.Win.Win1,
		blend: s.Blend,
	}
	for b := 0; b < NumBackgrounds; b++ {
		ln.hofs[b] = s.BG[b].HOfs
		ln.vofs[b] = s.BG[b].VOfs
	}

	if y < 0 || y >= ScreenHeight {
		return ln
	}
	ov := &s.Scan[y]
	if !ov.Enabled {
		return ln
	}

	ln.hofs = ov.HOfs
	ln.vofs = ov.VOfs
	ln.win0.X1 = ov.Win0X1
	ln.win0.X2 = ov.Win0X2
	ln.win1.X1 = ov.Win1X1
	ln.win1.X2 = ov.Win1X2
	if ov.BldCnt != 0 {
		ln.blend.Control = uint16(ov.BldCnt)
		ln.blend.Alpha = uint16(ov.BldAlpha)
		ln.blend.Bright = uint16(ov.BldY)
	}
	return ln
}

// Blend target bit positions. Bits 0-3 are the backgrounds, bit 4 the
// sprite layer and bit 5 the backdrop.
const (
	targetOBJ      = 4
	targetBackdrop = 5
)

// resolved is one layer's contribution after window gating, carrying the
// composite sort key. Lower keys draw on top: priority dominates and the
// sprite layer beats backgrounds of equal priority.
type resolved struct {
	color  uint16
	key    uint32
	target int // blend target bit
	semi   bool
}

// ComposePixel computes the final color of screen pixel (x, y) as a packed
// RGBA word. It reads only the snapshot, so any number of pixels may be
// composed concurrently over the same state.
func (s *Snapshot) ComposePixel(x, y int) uint32 {
	ln := s.lineRegs(y)
	return s.composeAt(x, y, &ln)
}

func (s *Snapshot) composeAt(x, y int, ln *lineState) uint32 {
	mask := s.windowMask(x, y, ln, s.objWindowAt(x, y, ln))

	// Backdrop is always present and always loses ties.
	top := resolved{
		color:  s.bgColor555(0),
		key:    ^uint32(0),
		target: targetBackdrop,
	}
	second := top

	place := func(r resolved) {
		if r.key < top.key {
			second = top
			top = r
		} else if r.key < second.key {
			second = r
		}
	}

	if mask&MaskOBJ != 0 {
		if op := s.sampleSprites(x, y, ln); op.opaque {
			place(resolved{
				color:  op.color,
				key:    op.priority << 3,
				target: targetOBJ,
				semi:   op.semi,
			})
		}
	}

	for b := 0; b < NumBackgrounds; b++ {
		if !s.BG[b].Enabled || mask&(1<<b) == 0 {
			continue
		}
		if lp := s.sampleBG(b, x, y, ln); lp.opaque {
			place(resolved{
				color:  lp.color,
				key:    s.BG[b].Priority<<3 | uint32(1+b),
				target: b,
			})
		}
	}

	return packRGBA(applyEffects(&ln.blend, mask, top, second))
}

// applyEffects runs the color math stage on the winning layer. A
// semi-transparent sprite forces alpha blending with whatever second-target
// layer sits beneath it; otherwise the global blend mode applies when the
// effect window bit is open and the targets line up.
func applyEffects(bl *BlendState, mask uint8, top, second resolved) uint16 {
	first := bl.firstTarget()
	secMask := bl.secondTarget()

	if top.semi && mask&MaskEffect != 0 && secMask&(1<<second.target) != 0 {
		return blendAlpha(top.color, second.color, bl.eva(), bl.evb())
	}
	if mask&MaskEffect == 0 || first&(1<<top.target) == 0 {
		return top.color
	}

	switch bl.mode() {
	case BlendAlpha:
		if secMask&(1<<second.target) == 0 {
			return top.color
		}
		return blendAlpha(top.color, second.color, bl.eva(), bl.evb())
	case BlendBrighten:
		return blendBrighten(top.color, bl.evy())
	case BlendDarken:
		return blendDarken(top.color, bl.evy())
	}
	return top.color
}

// ComposeFrameWords composes the full frame into a 240x160 buffer of packed
// RGBA words, splitting rows across the machine's cores. Each row resolves
// its line registers once.
func (s *Snapshot) ComposeFrameWords() []uint32 {
	out := make([]uint32, ScreenWidth*ScreenHeight)

	workers := runtime.NumCPU()
	if workers > ScreenHeight {
		workers = ScreenHeight
	}
	rows := make(chan int, ScreenHeight)
	for y := 0; y < ScreenHeight; y++ {
		rows <- y
	}
	close(rows)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				ln := s.lineRegs(y)
				base := y * ScreenWidth
				for x := 0; x < ScreenWidth; x++ {
					out[base+x] = s.composeAt(x, y, &ln)
				}
			}
		}()
	}
	wg.Wait()
	return out
}

// ComposeFrame composes the full frame as an RGBA image.
func (s *Snapshot) ComposeFrame() *image.RGBA {
	img, _ := FrameImage(s.ComposeFrameWords())
	return img
}

// channel extraction and 5-to-8-bit expansion

func chans555(c uint16) (r, g, b uint32) {
	return uint32(c) & 0x1F, uint32(c>>5) & 0x1F, uint32(c>>10) & 0x1F
}

func pack555(r, g, b uint32) uint16 {
	return uint16(r | g<<5 | b<<10)
}

func expand5(c uint32) uint32 {
	return c<<3 | c>>2
}

func packRGBA(c uint16) uint32 {
	r, g, b := chans555(c)
	return expand5(r) | expand5(g)<<8 | expand5(b)<<16 | 0xFF000000
}

func clamp31(v uint32) uint32 {
	if v > 31 {
		return 31
	}
	return v
}

func blendAlpha(c1, c2 uint16, eva, evb uint32) uint16 {
	r1, g1, b1 := chans555(c1)
	r2, g2, b2 := chans555(c2)
	return pack555(
		clamp31((r1*eva+r2*evb)/16),
		clamp31((g1*eva+g2*evb)/16),
		clamp31((b1*eva+b2*evb)/16),
	)
}

func blendBrighten(c uint16, evy uint32) uint16 {
	r, g, b := chans555(c)
	return pack555(
		r+(31-r)*evy/16,
		g+(31-g)*evy/16,
		b+(31-b)*evy/16,
	)
}

func blendDarken(c uint16, evy uint32) uint16 {
	r, g, b := chans555(c)
	return pack555(
		r-r*evy/16,
		g-g*evy/16,
		b-b*evy/16,
	)
}
