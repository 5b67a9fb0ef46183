// Command gbz80run is a minimal demonstration host for the gbz80 core: it
// maps a ROM file into a flat bus, drives the CPU one video frame at a
// time, and renders the pixel pipeline's scanline callback into an ebiten
// window. It exists to exercise the core end to end, not as a full
// console frontend (no audio, no MBC bank switching beyond a flat ROM).
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/draw"
	"golang.org/x/term"

	"github.com/r4forth/UEFIBoy/gbz80"
)

const (
	screenWidth  = 160
	screenHeight = 144

	// cyclesPerFrame is the CPU cycle budget of one 59.7Hz video frame at
	// the documented 4.194304MHz clock (70224 = 154 scanlines * 456
	// cycles/line).
	cyclesPerFrame = 70224
)

// flatBus backs the whole 16-bit address space with plain byte slices: a
// fixed ROM image plus writable work/video/OAM RAM. It implements
// gbz80.Bus.
type flatBus struct {
	rom  [0x8000]byte
	vram [0x2000]byte
	wram [0x2000]byte
	oam  [0xA0]byte
	hram [0x7F]byte
}

func newFlatBus(rom []byte) *flatBus {
	b := &flatBus{}
	copy(b.rom[:], rom)
	return b
}

func (b *flatBus) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		return b.rom[addr]
	case addr >= 0x8000 && addr < 0xA000:
		return b.vram[addr-0x8000]
	case addr >= 0xC000 && addr < 0xE000:
		return b.wram[addr-0xC000]
	case addr >= 0xFE00 && addr < 0xFEA0:
		return b.oam[addr-0xFE00]
	case addr >= 0xFF80 && addr < 0xFFFF:
		return b.hram[addr-0xFF80]
	default:
		return 0xFF
	}
}

func (b *flatBus) Write(addr uint16, value byte) {
	switch {
	case addr < 0x8000:
		// ROM is not writable; a real MBC would decode this as a banking
		// control write, which this flat bus does not model.
	case addr >= 0x8000 && addr < 0xA000:
		b.vram[addr-0x8000] = value
	case addr >= 0xC000 && addr < 0xE000:
		b.wram[addr-0xC000] = value
	case addr >= 0xFE00 && addr < 0xFEA0:
		b.oam[addr-0xFE00] = value
	case addr >= 0xFF80 && addr < 0xFFFF:
		b.hram[addr-0xFF80] = value
	}
}

// padState tracks the host's live button mailbox (gbz80.Input), sampled
// by the CPU's P1 register read.
type padState struct {
	buttons byte
}

func (p *padState) ButtonState() byte { return p.buttons }

func (p *padState) poll() {
	p.buttons = 0
	keymap := []struct {
		key ebiten.Key
		bit byte
	}{
		{ebiten.KeyArrowRight, gbz80.ButtonRight},
		{ebiten.KeyArrowLeft, gbz80.ButtonLeft},
		{ebiten.KeyArrowUp, gbz80.ButtonUp},
		{ebiten.KeyArrowDown, gbz80.ButtonDown},
		{ebiten.KeyZ, gbz80.ButtonA},
		{ebiten.KeyX, gbz80.ButtonB},
		{ebiten.KeyBackspace, gbz80.ButtonSelect},
		{ebiten.KeyEnter, gbz80.ButtonStart},
	}
	for _, k := range keymap {
		if ebiten.IsKeyPressed(k.key) {
			p.buttons |= k.bit
		}
	}
}

// game implements ebiten.Game around a running gbz80.CPU, with a small
// RGBA framebuffer the pixel pipeline's scanline callback paints into.
type game struct {
	cpu    *gbz80.CPU
	bus    *flatBus
	pad    *padState
	frame  *image.RGBA
	scaled *image.RGBA
	scale  int
}

// gbShades is the classic four-tone palette, light to dark.
var gbShades = [4]color.RGBA{
	{0xE0, 0xF0, 0xE7, 0xFF},
	{0x8B, 0xA3, 0x94, 0xFF},
	{0x55, 0x64, 0x5A, 0xFF},
	{0x29, 0x31, 0x2B, 0xFF},
}

func newGame(rom []byte, scale int) *game {
	bus := newFlatBus(rom)
	g := &game{
		bus:    bus,
		pad:    &padState{},
		frame:  image.NewRGBA(image.Rect(0, 0, screenWidth, screenHeight)),
		scaled: image.NewRGBA(image.Rect(0, 0, screenWidth*scale, screenHeight*scale)),
		scale:  scale,
	}
	g.cpu = gbz80.New(bus)
	g.cpu.SetInput(g.pad)
	g.cpu.PixelCallback = g.renderLine
	return g
}

// renderLine samples VRAM's background tile map for the completed
// scanline ly and paints it into the frame buffer. It is a deliberately
// simple renderer: background only, no window layer, no sprites, and no
// scrolling (SCX/SCY are not read) — enough to prove the pixel pipeline's
// timing drives something visible.
func (g *game) renderLine(ly byte) {
	if int(ly) >= screenHeight {
		return
	}
	for x := 0; x < screenWidth; x++ {
		tileX := (x) / 8 % 32
		tileY := int(ly) / 8 % 32
		tileIndex := g.bus.vram[0x1800+tileY*32+tileX]
		tileAddr := int(tileIndex) * 16
		row := int(ly) % 8
		lo := g.bus.vram[tileAddr+row*2]
		hi := g.bus.vram[tileAddr+row*2+1]
		bit := 7 - (x % 8)
		shade := (lo>>bit)&1 | ((hi>>bit)&1)<<1
		g.frame.Set(x, int(ly), gbShades[shade])
	}
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.pad.poll()
	if _, err := g.cpu.Run(cyclesPerFrame); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ebiten.Termination
	}
	return nil
}

// Draw upscales the pixel pipeline's 160x144 frame with a nearest-
// neighbor filter before handing it to ebiten, so the hard tile edges of
// the source material aren't softened by ebiten's own bilinear window
// scaling.
func (g *game) Draw(screen *ebiten.Image) {
	draw.NearestNeighbor.Scale(g.scaled, g.scaled.Bounds(), g.frame, g.frame.Bounds(), draw.Over, nil)
	screen.DrawImage(ebiten.NewImageFromImage(g.scaled), nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth * g.scale, screenHeight * g.scale
}

func main() {
	romPath := flag.String("rom", "", "path to a flat ROM image")
	scale := flag.Int("scale", 3, "window scale factor")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "usage: gbz80run -rom <path>")
		os.Exit(1)
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// When stdout is a real terminal, put it into raw mode for the
	// duration of the run so a host built around this core can surface a
	// debug console without the terminal line-buffering keystrokes out
	// from under it; restored unconditionally on exit.
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if oldState, err := term.MakeRaw(int(os.Stdout.Fd())); err == nil {
			defer term.Restore(int(os.Stdout.Fd()), oldState)
		}
	}

	g := newGame(rom, *scale)

	ebiten.SetWindowSize(screenWidth*(*scale), screenHeight*(*scale))
	ebiten.SetWindowTitle("gbz80run")
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
