package main

import (
	"context"
	"flag"
	"hash/crc32"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/nescore/nescore/console"
	"github.com/nescore/nescore/mappers"
	"github.com/nescore/nescore/nesrom"
)

var (
	romFile = flag.String("rom", "", "Path to an iNES/NES2.0 ROM (.nes) or a .zip containing one.")
	bios    = flag.Bool("bios", false, "Drop into the interactive debugger instead of running the game loop.")
	cycles  = flag.Uint64("cycles", 0, "Run headlessly for exactly this many CPU cycles instead of opening a window, then print the framebuffer's CRC32 and exit.")
	scale   = flag.Int("scale", 2, "Window scale factor (ignored in -cycles headless mode).")
)

func loadROM(path string) (*nesrom.ROM, error) {
	if strings.HasSuffix(strings.ToLower(path), ".zip") {
		return nesrom.NewFromZip(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return nesrom.New(f)
}

func main() {
	flag.Parse()

	if *romFile == "" {
		log.Fatal("missing required -rom flag")
	}

	rom, err := loadROM(*romFile)
	if err != nil {
		log.Fatalf("invalid ROM: %v", err)
	}

	m, err := mappers.Get(rom)
	if err != nil {
		log.Fatalf("couldn't get mapper: %v", err)
	}

	if *cycles > 0 {
		nes := console.NewHeadless(m)
		nes.RunCycles(*cycles)
		sum := crc32.ChecksumIEEE(nes.Framebuffer())
		log.Printf("ran %d CPU cycles; framebuffer CRC32 = 0x%08X", *cycles, sum)
		return
	}

	nes := console.NewWindowed(m, *scale)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *bios {
		nes.BIOS(ctx)
		return
	}

	go nes.Run(ctx)

	if err := ebiten.RunGame(nes); err != nil {
		log.Fatal(err)
	}
}
