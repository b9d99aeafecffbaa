// Package ebiten provides an Ebiten-specific wrapper for the viewer.
package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/emagb/ppu"
)

// Viewer wraps ppu.Viewer with Ebiten-specific functionality
type Viewer struct {
	ppu.Viewer

	offscreen *ebiten.Image           // Offscreen buffer for native resolution rendering
	drawOpts  ebiten.DrawImageOptions // Pre-allocated draw options to avoid per-frame allocation
}

// NewViewer creates a new viewer instance with Ebiten rendering. Empty
// snapshot data loads the built-in demo scene.
func NewViewer(data []byte) (*Viewer, error) {
	base, err := ppu.NewViewer(data)
	if err != nil {
		return nil, err
	}

	return &Viewer{
		Viewer: base,
	}, nil
}

// Layout implements ebiten.Game.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// DrawFramebuffer renders the composed pixel data to the screen, scaled
// to fit the window while preserving aspect ratio.
func (v *Viewer) DrawFramebuffer(screen *ebiten.Image, pixels []byte, stride, activeHeight int) {
	if activeHeight == 0 || stride == 0 {
		return
	}

	requiredLen := stride * activeHeight
	if len(pixels) < requiredLen {
		return
	}

	if v.offscreen == nil || v.offscreen.Bounds().Dy() != activeHeight {
		v.offscreen = ebiten.NewImage(ppu.ScreenWidth, activeHeight)
	}

	v.offscreen.WritePixels(pixels[:requiredLen])

	// Calculate scaling to fit window while preserving aspect ratio
	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	nativeW := float64(ppu.ScreenWidth)
	nativeH := float64(activeHeight)

	scaleX := float64(screenW) / nativeW
	scaleY := float64(screenH) / nativeH
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}

	scaledW := nativeW * scale
	scaledH := nativeH * scale
	offsetX := (float64(screenW) - scaledW) / 2
	offsetY := (float64(screenH) - scaledH) / 2

	v.drawOpts = ebiten.DrawImageOptions{}
	v.drawOpts.GeoM.Scale(scale, scale)
	v.drawOpts.GeoM.Translate(offsetX, offsetY)
	v.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(v.offscreen, &v.drawOpts)
}
