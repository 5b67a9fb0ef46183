package gbz80

// Interrupt vector table, priority strictly by bit index ascending
// (spec.md §4.4). Entry order here matches priority, not the other way
// round. Bit 3 is Serial and bit 4 is Joypad per the hardware reference;
// original_source/IO.c's interrupts[] table duplicates bit 3 for both
// entries (spec.md §9's "Serial vs Joypad vector" open question) and is
// not followed here.
var interruptVectors = [5]struct {
	bit    byte
	vector uint16
}{
	{intVBlank, 0x0040},
	{intStat, 0x0048},
	{intTimer, 0x0050},
	{intSerial, 0x0058},
	{intJoypad, 0x0060},
}

// serviceInterrupt implements spec.md §4.4: compute pending = IF & IE &
// 0x1F; if nonzero and IME is set, acknowledge the lowest-numbered
// pending bit (clear it in IF, clear IME, push PC, vector PC, charge 20
// cycles) and clear Halted. If IME is clear but the CPU is halted, any
// pending bit un-halts it without vectoring. serviced reports whether an
// interrupt was acknowledged (the scheduler charges 20 cycles only then).
func (c *CPU) serviceInterrupt() (serviced bool) {
	pending := c.io.ifReg & c.io.ieReg & 0x1F
	if pending == 0 {
		return false
	}
	if c.IME {
		for _, entry := range interruptVectors {
			if pending&entry.bit == 0 {
				continue
			}
			c.io.ifReg &^= entry.bit
			c.IME = false
			c.wake()
			c.pushWord(c.PC)
			c.PC = entry.vector
			return true
		}
	}
	if c.mode == Halted || c.mode == Stopped {
		c.wake()
	}
	return false
}

// wake clears both the mode-based and teacher-style halted flags
// together, since the scheduler's dispatch decision is driven by mode
// while Halted exists only as the direct-check mirror of it. A pending
// interrupt un-suspends Stopped exactly like it un-suspends Halted: per
// the glossary, STOP is "ended only by joypad input", and a joypad press
// reaches here the same way any other source does, as a pending IF bit.
func (c *CPU) wake() {
	c.Halted = false
	if c.mode == Halted || c.mode == Stopped {
		c.mode = Running
	}
}
