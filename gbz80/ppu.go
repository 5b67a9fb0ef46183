package gbz80

// ppu advances the CPU-facing part of the pixel pipeline: a four-phase
// scanline state machine (OAM search, pixel transfer, H-Blank, V-Blank),
// LY maintenance, and the V-Blank/STAT interrupt sources. Actual pixel
// rendering is the host's concern (spec.md §4.6); this core only drives
// the timing and fires the PixelCallback once per completed visible line
// so the host can fetch tiles through the Bus at the right instant.
//
// Grounded on original_source/IO.c's increment_ly/get_lcd_control (the
// LY-wraps-at-154 and V-Blank-sets-IF-bit-0 behavior) and re-derived from
// the hardware reference for mode/STAT timing and the LYC coincidence
// flag, since the source's own lcd_status function is dead and buggy
// (spec.md §9 "stray multiplication").
type ppu struct {
	dot int // cycles elapsed within the current scanline
}

// Mode numbers occupy STAT bits 1:0.
const (
	modeHBlank   byte = 0
	modeVBlank   byte = 1
	modeOAM      byte = 2
	modeTransfer byte = 3
)

const (
	cyclesOAMSearch   = 80
	cyclesPixelXfer   = 172
	cyclesPerScanline = 456
	lastVisibleLine   = 143
	lastScanline      = 153
)

// PixelCallback is invoked once per rendered scanline with the LY index,
// after that line's pixel-transfer phase has completed, so the renderer
// may read VRAM/OAM through the Bus at that instant (spec.md §6).
type PixelCallback func(ly byte)

// tickPPU credits the pixel pipeline with cycles CPU cycles, advancing
// the scanline state machine and raising V-Blank/STAT interrupts at the
// defined transitions.
func (c *CPU) tickPPU(cycles int) {
	io := c.io
	if io.lcdc&0x80 == 0 { // LCD off: no scanline advancement
		return
	}
	for remaining := cycles; remaining > 0; {
		// Never step past the next mode boundary, so a large credit still
		// passes through every mode transition of every line it covers.
		boundary := cyclesPerScanline
		switch {
		case c.ppu.dot < cyclesOAMSearch:
			boundary = cyclesOAMSearch
		case c.ppu.dot < cyclesOAMSearch+cyclesPixelXfer:
			boundary = cyclesOAMSearch + cyclesPixelXfer
		}
		step := remaining
		budget := boundary - c.ppu.dot
		if step > budget {
			step = budget
		}
		c.ppu.dot += step
		remaining -= step
		if c.ppu.dot >= cyclesPerScanline {
			c.ppu.dot = 0
			c.advanceLine()
		}
		c.updateSTATMode()
	}
}

func (c *CPU) updateSTATMode() {
	io := c.io
	var mode byte
	switch {
	case io.ly > lastVisibleLine:
		mode = modeVBlank
	case c.ppu.dot < cyclesOAMSearch:
		mode = modeOAM
	case c.ppu.dot < cyclesOAMSearch+cyclesPixelXfer:
		mode = modeTransfer
	default:
		mode = modeHBlank
	}
	prevMode := io.stat & 0x03
	io.stat = (io.stat &^ 0x03) | mode
	if mode == prevMode {
		return
	}
	statInt := false
	switch mode {
	case modeHBlank:
		statInt = io.stat&0x08 != 0
	case modeVBlank:
		statInt = io.stat&0x10 != 0
	case modeOAM:
		statInt = io.stat&0x20 != 0
	}
	if statInt {
		io.ifReg |= intStat
	}
	if mode == modeHBlank && io.ly <= lastVisibleLine && c.PixelCallback != nil {
		c.PixelCallback(io.ly)
	}
}

// advanceLine increments LY modulo 154, raising V-Blank's interrupt on
// the 144 transition and re-evaluating the LYC coincidence flag.
func (c *CPU) advanceLine() {
	io := c.io
	io.ly++
	if io.ly > lastScanline {
		io.ly = 0
	}
	if io.ly == lastVisibleLine+1 {
		io.ifReg |= intVBlank
	}
	coincidence := io.ly == io.lyc
	if coincidence {
		io.stat |= 0x04
		if io.stat&0x40 != 0 {
			io.ifReg |= intStat
		}
	} else {
		io.stat &^= 0x04
	}
}
