package ppu

import (
	"bytes"
	"testing"

	emucore "github.com/user-none/eblitui/api"
)

func TestViewerDemoFrame(t *testing.T) {
	v, err := NewViewer(nil)
	if err != nil {
		t.Fatalf("NewViewer: %v", err)
	}
	v.RunFrame()

	fb := v.GetFramebuffer()
	if len(fb) != ScreenWidth*ScreenHeight*4 {
		t.Fatalf("framebuffer length = %d, want %d", len(fb), ScreenWidth*ScreenHeight*4)
	}
	if v.GetFramebufferStride() != ScreenWidth*4 {
		t.Errorf("stride = %d, want %d", v.GetFramebufferStride(), ScreenWidth*4)
	}
	if v.GetActiveHeight() != ScreenHeight {
		t.Errorf("active height = %d, want %d", v.GetActiveHeight(), ScreenHeight)
	}

	want := v.snap.ComposeFrameWords()
	for i, w := range want {
		got := uint32(fb[i*4]) | uint32(fb[i*4+1])<<8 | uint32(fb[i*4+2])<<16 | uint32(fb[i*4+3])<<24
		if got != w {
			t.Fatalf("pixel %d = %08x, want %08x", i, got, w)
		}
	}
}

func TestViewerFrameCaching(t *testing.T) {
	v, err := NewViewer(nil)
	if err != nil {
		t.Fatalf("NewViewer: %v", err)
	}
	v.RunFrame()
	first := append([]byte(nil), v.GetFramebuffer()...)

	// A clean snapshot keeps the cached frame.
	v.RunFrame()
	if !bytes.Equal(first, v.GetFramebuffer()) {
		t.Error("frame changed without a snapshot change")
	}

	// Changing state and invalidating recomposes. Collapsing window 0
	// drops the demo scene's brightened region.
	v.State().Win.Win0 = WindowRect{}
	v.Invalidate()
	v.RunFrame()
	if bytes.Equal(first, v.GetFramebuffer()) {
		t.Error("frame did not recompose after Invalidate")
	}
}

func TestViewerLoadsEncodedSnapshot(t *testing.T) {
	s := NewSnapshot()
	s.Win.Out = 0x3F
	s.SetBGColor(0, 0x7C00)
	data, err := EncodeSnapshot(s)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}

	v, err := NewViewer(data)
	if err != nil {
		t.Fatalf("NewViewer: %v", err)
	}
	if *v.State() != *s {
		t.Error("decoded snapshot does not match source")
	}
}

func TestViewerRejectsBadSnapshot(t *testing.T) {
	if _, err := NewViewer([]byte("not a snapshot")); err == nil {
		t.Error("expected error for malformed snapshot data")
	}
}

func TestViewerSerializeRoundTrip(t *testing.T) {
	v, err := NewViewer(nil)
	if err != nil {
		t.Fatalf("NewViewer: %v", err)
	}
	data, err := v.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	want := *v.State()
	v2, err := NewViewer(nil)
	if err != nil {
		t.Fatalf("NewViewer: %v", err)
	}
	v2.State().Blend.Control = 0xFFFF
	if err := v2.Deserialize(data); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if *v2.State() != want {
		t.Error("deserialized state does not match")
	}
}

func TestViewerReadMemory(t *testing.T) {
	v, err := NewViewer(nil)
	if err != nil {
		t.Fatalf("NewViewer: %v", err)
	}
	s := v.State()
	s.VRAM[0] = 0xAA
	s.PalBG[0] = 0xBB
	s.PalOBJ[0] = 0xCC
	s.OAM[0] = 0xDD

	tests := []struct {
		name string
		addr uint32
		want byte
	}{
		{"vram", 0x00000, 0xAA},
		{"palbg", 0x18000, 0xBB},
		{"palobj", 0x18400, 0xCC},
		{"oam", 0x18600, 0xDD},
	}
	buf := make([]byte, 1)
	for _, tt := range tests {
		if n := v.ReadMemory(tt.addr, buf); n != 1 {
			t.Errorf("%s: read %d bytes, want 1", tt.name, n)
		} else if buf[0] != tt.want {
			t.Errorf("%s: got %02x, want %02x", tt.name, buf[0], tt.want)
		}
	}

	if n := v.ReadMemory(0x20000, buf); n != 0 {
		t.Errorf("unmapped read returned %d bytes, want 0", n)
	}
}

func TestViewerWriteRegionInvalidates(t *testing.T) {
	v, err := NewViewer(nil)
	if err != nil {
		t.Fatalf("NewViewer: %v", err)
	}
	v.RunFrame()

	data := v.ReadRegion(emucore.MemorySystemRAM)
	if len(data) != VRAMSize {
		t.Fatalf("region size = %d, want %d", len(data), VRAMSize)
	}
	for i := range data {
		data[i] = 0
	}
	v.WriteRegion(emucore.MemorySystemRAM, data)
	if !v.dirty {
		t.Error("WriteRegion did not mark the snapshot dirty")
	}
}
