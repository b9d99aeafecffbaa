// Package cli provides a command-line runner for the viewer.
// It displays a composed frame in a window without the full UI.
package cli

import (
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	emubridge "github.com/user-none/emagb/bridge/ebiten"
)

// Runner wraps a viewer for command-line mode. Composition is cheap for
// a still frame, so everything runs on the Ebiten thread.
type Runner struct {
	viewer *emubridge.Viewer

	savePath string
	savePrev bool
}

// NewRunner creates a new Runner wrapping the given viewer. savePath is
// where the F5 key writes the current snapshot; empty disables saving.
func NewRunner(v *emubridge.Viewer, savePath string) *Runner {
	return &Runner{
		viewer:   v,
		savePath: savePath,
	}
}

// Close cleans up the runner's resources.
func (r *Runner) Close() {
	r.viewer.Close()
}

// Update implements ebiten.Game.
func (r *Runner) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	save := ebiten.IsKeyPressed(ebiten.KeyF5)
	if save && !r.savePrev && r.savePath != "" {
		if err := r.saveSnapshot(); err != nil {
			log.Printf("Warning: snapshot save failed: %v", err)
		}
	}
	r.savePrev = save

	r.viewer.RunFrame()
	return nil
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	r.viewer.DrawFramebuffer(
		screen,
		r.viewer.GetFramebuffer(),
		r.viewer.GetFramebufferStride(),
		r.viewer.GetActiveHeight(),
	)
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.viewer.Layout(outsideWidth, outsideHeight)
}

// saveSnapshot writes the current snapshot to the configured path.
func (r *Runner) saveSnapshot() error {
	data, err := r.viewer.Serialize()
	if err != nil {
		return err
	}
	return os.WriteFile(r.savePath, data, 0644)
}
