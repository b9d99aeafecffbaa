// Command frameviewer composes a snapshot to a PNG or PPM image without
// opening a window.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/user-none/emagb/ppu"
)

func main() {
	snapPath := flag.String("snapshot", "", "path to snapshot file (empty for the built-in demo scene)")
	outPath := flag.String("o", "frame.png", "output image path (.png or .ppm)")
	flag.Parse()

	snap := ppu.BuildDemoScene()
	if *snapPath != "" {
		data, err := os.ReadFile(*snapPath)
		if err != nil {
			log.Fatalf("Failed to load snapshot: %v", err)
		}
		snap, err = ppu.DecodeSnapshot(data)
		if err != nil {
			log.Fatalf("Failed to decode snapshot: %v", err)
		}
	}

	pix := snap.ComposeFrameWords()

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	defer out.Close()

	switch strings.ToLower(filepath.Ext(*outPath)) {
	case ".ppm":
		err = writePPM(out, pix)
	default:
		var img *image.RGBA
		img, err = ppu.FrameImage(pix)
		if err == nil {
			err = png.Encode(out, img)
		}
	}
	if err != nil {
		log.Fatalf("Failed to write image: %v", err)
	}
}

// writePPM emits a binary P6 image, one RGB triplet per pixel.
func writePPM(out *os.File, pix []uint32) error {
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "P6\n%d %d\n255\n", ppu.ScreenWidth, ppu.ScreenHeight)
	for _, p := range pix {
		w.WriteByte(uint8(p))
		w.WriteByte(uint8(p >> 8))
		w.WriteByte(uint8(p >> 16))
	}
	return w.Flush()
}
