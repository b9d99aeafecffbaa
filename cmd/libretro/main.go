package main

import (
	libretro "github.com/user-none/eblitui/libretro"
	"github.com/user-none/emagb/adapter"
)

func init() {
	// The viewer takes no controller input, so no retropad mappings.
	libretro.RegisterFactory(&adapter.Factory{}, nil)
}

func main() {}
