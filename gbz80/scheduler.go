package gbz80

// Step drives exactly one unit of CPU progress and returns the number of
// CPU cycles it consumed. Grounded on cpu_z80.go's Step (NMI-then-IRQ-
// then-halted-then-fetch/execute priority), re-derived for the Game Boy's
// single IME latch over five maskable sources and its halt-bug-free
// servicing model.
//
// Priority each call, per spec.md §4.7:
//  1. Promote a pending EI (opEI armed imeEnableDelay two calls ago) to a
//     live IME, one instruction after the EI itself executed.
//  2. Service a pending, enabled interrupt if IME is set (vectoring).
//  3. If the CPU was Halted or Stopped at the start of this step, the
//     step ends here: either it is still suspended (nothing pending,
//     or pending but IME=0 and step 2 already woke it without
//     vectoring), in which case 4 cycles are spent doing nothing and PC
//     does not move. Waking and dispatching the next instruction are
//     always two separate Step calls.
//  4. Otherwise fetch, dispatch, and execute one instruction.
//
// Step returns a non-nil error only for InvalidOpcode; the CPU's state at
// that point already reflects the 4 cycles opInvalid charged, so the host
// may inspect registers before deciding whether to halt the emulation.
func (c *CPU) Step() (cycles int, err error) {
	startCycles := c.Cycles
	wasSuspended := c.mode == Halted || c.mode == Stopped

	c.promotePendingIME()

	if c.serviceInterrupt() {
		c.tick(20)
		return int(c.Cycles - startCycles), nil
	}

	if wasSuspended {
		c.tick(4)
		return int(c.Cycles - startCycles), nil
	}

	opcode := c.fetchByte()
	c.lastOpcode = opcode
	c.baseOps[opcode](c)

	if c.err != nil {
		err = c.err
		c.err = nil
	}
	return int(c.Cycles - startCycles), err
}

// promotePendingIME advances opEI's one-instruction delay (spec.md §4.3
// step 1, grounded on the hardware's documented EI-takes-effect-after-the-
// following-instruction behavior, which cpu_z80.go has no equivalent for
// since the Z80's EI/DI are synchronous).
func (c *CPU) promotePendingIME() {
	if c.imeEnableDelay == 0 {
		return
	}
	c.imeEnableDelay--
	if c.imeEnableDelay == 0 {
		c.IME = true
	}
}

// Run steps the CPU until either an InvalidOpcode is encountered or
// budget cycles have been consumed, whichever comes first, returning the
// cycles actually spent. A host driving real-time emulation typically
// calls Run once per video frame with budget set to the frame's cycle
// count (70224 for a full 59.7Hz frame at 4.194304MHz).
func (c *CPU) Run(budget int) (spent int, err error) {
	for spent < budget {
		n, stepErr := c.Step()
		spent += n
		if stepErr != nil {
			return spent, stepErr
		}
	}
	return spent, nil
}
