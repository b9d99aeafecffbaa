package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	emubridge "github.com/user-none/emagb/bridge/ebiten"
	"github.com/user-none/emagb/cli"
	"github.com/user-none/emagb/ppu"
)

func main() {
	snapPath := flag.String("snapshot", "", "path to snapshot file (empty for the built-in demo scene)")
	flag.Parse()

	var snapData []byte
	if *snapPath != "" {
		data, err := os.ReadFile(*snapPath)
		if err != nil {
			log.Fatalf("Failed to load snapshot: %v", err)
		}
		snapData = data
	}

	v, err := emubridge.NewViewer(snapData)
	if err != nil {
		log.Fatalf("Failed to initialize viewer: %v", err)
	}

	// F5 writes the snapshot next to the input, or to demo.agbsnap when
	// running the built-in scene.
	savePath := "demo.agbsnap"
	if *snapPath != "" {
		savePath = strings.TrimSuffix(*snapPath, filepath.Ext(*snapPath)) + ".agbsnap"
	}

	ebiten.SetWindowSize(ppu.ScreenWidth*2, ppu.ScreenHeight*2)
	ebiten.SetWindowTitle(ppu.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(ppu.ScreenWidth, ppu.ScreenHeight, -1, -1)
	ebiten.SetTPS(ppu.FramesPerSecond)

	runner := cli.NewRunner(v, savePath)
	defer runner.Close()

	if err := ebiten.RunGame(runner); err != nil {
		log.Fatal(err)
	}
}
