package gbz80

// The extended (CB-prefix) page: 256 opcodes covering rotates, shifts,
// SWAP, and BIT/RES/SET across the same eight operand slots the base
// table's LD/ALU instructions use. Grounded on cpu_z80.go's initCBOps,
// which builds this same four-way-banded table (rotate/shift group,
// BIT, RES, SET) from the opcode's bit fields rather than 256 individual
// entries; re-derived for the Game Boy CB page, which (unlike the Z80's)
// has no separate DDCB/FDCB indexed forms.
func (c *CPU) initCBOps() {
	for i := range c.cbOps {
		c.cbOps[i] = (*CPU).opInvalid
	}

	for opcode := 0x00; opcode <= 0x3F; opcode++ {
		group := byte((opcode >> 3) & 0x07)
		reg := byte(opcode & 0x07)
		c.cbOps[opcode] = func(cpu *CPU) { cpu.opCBShift(group, reg) }
	}
	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		bit := byte((opcode >> 3) & 0x07)
		reg := byte(opcode & 0x07)
		c.cbOps[opcode] = func(cpu *CPU) { cpu.opCBBit(bit, reg) }
	}
	for opcode := 0x80; opcode <= 0xBF; opcode++ {
		bit := byte((opcode >> 3) & 0x07)
		reg := byte(opcode & 0x07)
		c.cbOps[opcode] = func(cpu *CPU) { cpu.opCBRes(bit, reg) }
	}
	for opcode := 0xC0; opcode <= 0xFF; opcode++ {
		bit := byte((opcode >> 3) & 0x07)
		reg := byte(opcode & 0x07)
		c.cbOps[opcode] = func(cpu *CPU) { cpu.opCBSet(bit, reg) }
	}
}

// cbShiftGroup indices, matching bits 5:3 of a 0x00-0x3F CB opcode.
const (
	cbRLC = iota
	cbRRC
	cbRL
	cbRR
	cbSLA
	cbSRA
	cbSWAP
	cbSRL
)

// opCBShift implements the rotate/shift/SWAP group of the extended page.
// Unlike the A-register accelerators, every variant here sets Z from the
// result (spec.md §4.1 "Rotates/shifts... Z from result for the CB-page
// variants").
func (c *CPU) opCBShift(group, reg byte) {
	value := c.readReg8(reg)
	var result byte
	var carry bool
	switch group {
	case cbRLC:
		result, carry = rotateLeft(value, value&0x80 != 0)
	case cbRRC:
		result, carry = rotateRight(value, value&0x01 != 0)
	case cbRL:
		result, carry = rotateLeft(value, c.Flag(FlagC))
	case cbRR:
		result, carry = rotateRight(value, c.Flag(FlagC))
	case cbSLA:
		result, carry = shiftLeftArithmetic(value)
	case cbSRA:
		result, carry = shiftRightArithmetic(value)
	case cbSWAP:
		result = swapNibbles(value)
	case cbSRL:
		result, carry = shiftRightLogical(value)
	}
	c.writeReg8(reg, result)
	c.F = flagsFromZ(result)
	if group == cbSWAP {
		carry = false
	}
	c.SetFlag(FlagC, carry)
	c.cbTick(reg, 8, 16)
}

// opCBBit implements BIT b,r: Z iff the bit is zero, N=0, H=1, C
// untouched.
func (c *CPU) opCBBit(bit, reg byte) {
	value := c.readReg8(reg)
	zero := value&(1<<bit) == 0
	c.SetFlag(FlagZ, zero)
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, true)
	c.cbTick(reg, 8, 12)
}

func (c *CPU) opCBRes(bit, reg byte) {
	value := c.readReg8(reg)
	c.writeReg8(reg, value&^(1<<bit))
	c.cbTick(reg, 8, 16)
}

func (c *CPU) opCBSet(bit, reg byte) {
	value := c.readReg8(reg)
	c.writeReg8(reg, value|(1<<bit))
	c.cbTick(reg, 8, 16)
}

func (c *CPU) cbTick(reg byte, regCost, hlCost int) {
	if reg == reg8HLInd {
		c.tick(hlCost)
	} else {
		c.tick(regCost)
	}
}
