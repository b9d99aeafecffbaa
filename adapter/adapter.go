package adapter

import (
	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emagb/ppu"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Factory implements emucore.CoreFactory for the frame compositor.
type Factory struct{}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:            "emagb",
		ConsoleName:     "Game Boy Advance",
		Extensions:      []string{".agbsnap"},
		ScreenWidth:     ppu.ScreenWidth,
		MaxScreenHeight: ppu.ScreenHeight,
		AspectRatio:     240.0 / 160.0,
		SampleRate:      48000,
		Players:         1,
		CoreOptions: []emucore.CoreOption{
			{
				Key:         "demo_scene",
				Label:       "Load Demo Scene",
				Description: "Replace the current snapshot with the built-in demo scene",
				Type:    emucore.CoreOptionBool,
				Default: "false",
			},
		},
		RDBName:       "Nintendo - Game Boy Advance",
		ThumbnailRepo: "Nintendo_-_Game_Boy_Advance",
		DataDirName:   "emagb",
		ConsoleID:     12,
		CoreName:      ppu.Name,
		CoreVersion:   ppu.Version,
		SerializeSize: ppu.SnapshotSerializeSize,
	}
}

// CreateEmulator creates a new viewer instance for the given snapshot
// data. Empty data loads the built-in demo scene.
func (f *Factory) CreateEmulator(rom []byte, region emucore.Region) (emucore.Emulator, error) {
	v, err := ppu.NewViewer(rom)
	if err != nil {
		return nil, err
	}
	v.SetRegion(region)
	return &v, nil
}

// DetectRegion reports NTSC for every snapshot. The display block has no
// regional variants; the bool return is false since no database lookup
// happens.
func (f *Factory) DetectRegion(rom []byte) (emucore.Region, bool) {
	return ppu.RegionNTSC, false
}
