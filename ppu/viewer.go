package ppu

import (
	emucore "github.com/user-none/eblitui/api"
)

// Region is an alias for emucore.Region so internal code compiles unchanged.
type Region = emucore.Region

const (
	RegionNTSC = emucore.RegionNTSC
	RegionPAL  = emucore.RegionPAL
)

// Display timing. The modeled hardware draws 160 visible lines followed by
// 68 blanking lines at just under 60 Hz.
const (
	FramesPerSecond = 60
	TotalScanlines  = 228
)

// Compile-time interface checks.
var _ emucore.Emulator = (*Viewer)(nil)
var _ emucore.SaveStater = (*Viewer)(nil)
var _ emucore.MemoryInspector = (*Viewer)(nil)
var _ emucore.MemoryMapper = (*Viewer)(nil)

// Flat address boundaries for ReadMemory.
const (
	vramStart   = 0x00000
	vramEnd     = vramStart + VRAMSize - 1
	palBGStart  = 0x18000
	palBGEnd    = palBGStart + PalBGSize - 1
	palOBJStart = 0x18400
	palOBJEnd   = palOBJStart + PalOBJSize - 1
	oamStart    = 0x18600
	oamEnd      = oamStart + OAMSize - 1
)

// Viewer drives the compositor behind the emucore interface: it owns a
// snapshot, renders it through a backend and exposes the result as an RGBA
// framebuffer. A frame is recomposed only after the snapshot changes.
type Viewer struct {
	snap    *Snapshot
	backend Backend

	framebuffer []byte
	dirty       bool
	region      Region
}

// NewViewer creates a viewer for the given encoded snapshot. Empty input
// loads the built-in demo scene.
func NewViewer(data []byte) (Viewer, error) {
	snap, err := loadSnapshot(data)
	if err != nil {
		return Viewer{}, err
	}
	return Viewer{
		snap:        snap,
		backend:     SoftwareBackend{},
		framebuffer: make([]byte, ScreenWidth*ScreenHeight*4),
		dirty:       true,
		region:      RegionNTSC,
	}, nil
}

func loadSnapshot(data []byte) (*Snapshot, error) {
	if len(data) == 0 {
		return BuildDemoScene(), nil
	}
	return DecodeSnapshot(data)
}

// State returns the viewer's snapshot for direct authoring. Call
// Invalidate after mutating it.
func (v *Viewer) State() *Snapshot {
	return v.snap
}

// Invalidate marks the snapshot changed so the next frame recomposes.
func (v *Viewer) Invalidate() {
	v.dirty = true
}

// RunFrame recomposes the framebuffer if the snapshot changed since the
// last frame. A clean snapshot costs nothing; the scene is a still image.
func (v *Viewer) RunFrame() {
	if !v.dirty {
		return
	}
	fb, err := MarshalState(v.snap)
	if err != nil {
		return
	}
	words, err := v.backend.Render(fb)
	if err != nil {
		return
	}
	for i, w := range words {
		v.framebuffer[i*4+0] = uint8(w)
		v.framebuffer[i*4+1] = uint8(w >> 8)
		v.framebuffer[i*4+2] = uint8(w >> 16)
		v.framebuffer[i*4+3] = uint8(w >> 24)
	}
	v.dirty = false
}

// GetFramebuffer returns raw RGBA pixel data for the current frame.
func (v *Viewer) GetFramebuffer() []byte {
	return v.framebuffer
}

// GetFramebufferStride returns the stride (bytes per row) of the framebuffer.
func (v *Viewer) GetFramebufferStride() int {
	return ScreenWidth * 4
}

// GetActiveHeight returns the active display height.
func (v *Viewer) GetActiveHeight() int {
	return ScreenHeight
}

// GetAudioSamples returns no samples; the display block has no sound path.
func (v *Viewer) GetAudioSamples() []int16 {
	return nil
}

// SetInput is a no-op; a still frame takes no controller input.
func (v *Viewer) SetInput(player int, buttons uint32) {
}

// GetRegion returns the viewer's region setting.
func (v *Viewer) GetRegion() Region {
	return v.region
}

// SetRegion stores the region. Timing is fixed; the setting only affects
// what the UI reports.
func (v *Viewer) SetRegion(region Region) {
	v.region = region
}

// GetTiming returns FPS and scanline count.
func (v *Viewer) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       FramesPerSecond,
		Scanlines: TotalScanlines,
	}
}

// SetOption applies a core option change.
func (v *Viewer) SetOption(key string, value string) {
	switch key {
	case "demo_scene":
		if value == "true" {
			v.snap = BuildDemoScene()
			v.dirty = true
		}
	}
}

// Close releases viewer resources.
func (v *Viewer) Close() {
}

// Serialize captures the complete snapshot state.
func (v *Viewer) Serialize() ([]byte, error) {
	return EncodeSnapshot(v.snap)
}

// Deserialize restores snapshot state from previously serialized data.
func (v *Viewer) Deserialize(data []byte) error {
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return err
	}
	v.snap = snap
	v.dirty = true
	return nil
}

// ReadMemory reads from a flat address into buf and returns the number of
// bytes read. Video memory, the two palettes and the attribute table are
// mapped back to back.
func (v *Viewer) ReadMemory(addr uint32, buf []byte) uint32 {
	var src []byte
	var off uint32
	switch {
	case addr <= vramEnd:
		src, off = v.snap.VRAM[:], addr-vramStart
	case addr >= palBGStart && addr <= palBGEnd:
		src, off = v.snap.PalBG[:], addr-palBGStart
	case addr >= palOBJStart && addr <= palOBJEnd:
		src, off = v.snap.PalOBJ[:], addr-palOBJStart
	case addr >= oamStart && addr <= oamEnd:
		src, off = v.snap.OAM[:], addr-oamStart
	default:
		return 0
	}
	return uint32(copy(buf, src[off:]))
}

// MemoryMap returns the available memory regions.
func (v *Viewer) MemoryMap() []emucore.MemoryRegion {
	return []emucore.MemoryRegion{
		{Type: emucore.MemorySystemRAM, Size: VRAMSize},
	}
}

// ReadRegion returns a copy of the specified memory region.
func (v *Viewer) ReadRegion(regionType int) []byte {
	if regionType != emucore.MemorySystemRAM {
		return nil
	}
	out := make([]byte, VRAMSize)
	copy(out, v.snap.VRAM[:])
	return out
}

// WriteRegion writes data to the specified memory region.
func (v *Viewer) WriteRegion(regionType int, data []byte) {
	if regionType != emucore.MemorySystemRAM {
		return
	}
	copy(v.snap.VRAM[:], data)
	v.dirty = true
}
