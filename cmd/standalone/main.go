//go:build !libretro && !ios

package main

import (
	"flag"
	"log"

	"github.com/user-none/eblitui/standalone"
	"github.com/user-none/emagb/adapter"
)

func main() {
	snapPath := flag.String("snapshot", "", "path to snapshot file (opens UI if not provided)")
	regionFlag := flag.String("region", "auto", "region: auto, ntsc, or pal")
	flag.Parse()

	factory := &adapter.Factory{}

	if *snapPath != "" {
		options := map[string]string{}
		if err := standalone.RunDirect(factory, *snapPath, *regionFlag, options); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := standalone.Run(factory); err != nil {
		log.Fatal(err)
	}
}
