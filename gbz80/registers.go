// Package gbz80 implements the instruction-level execution core of a
// handheld 8-bit console's CPU: register/flag model, memory bus contract,
// interrupt servicing, timer and pixel-pipeline cycle coupling, and the
// decode/execute loop for the full opcode set including the CB-prefixed
// extended page.
package gbz80

// Registers holds the eight 8-bit registers paired into four 16-bit views,
// plus SP and PC. Pairing is big-endian at the pair level: A is the high
// byte of AF, B of BC, D of DE, H of HL. Bytes are the source of truth;
// pair values are derived by mask/shift rather than aliased through a
// union, so the layout is portable across host endianness.
type Registers struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte
	SP   uint16
	PC   uint16
}

// Flag bits occupy the high nibble of F. The low nibble is always zero.
const (
	FlagZ byte = 1 << 7
	FlagN byte = 1 << 6
	FlagH byte = 1 << 5
	FlagC byte = 1 << 4
)

// AF returns the paired value with F's reserved low nibble already zero.
func (r *Registers) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F&0xF0) }

func (r *Registers) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }

func (r *Registers) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }

func (r *Registers) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

// SetAF masks the low nibble of the incoming low byte to zero before it
// lands in F, so POP AF can never leave stray bits set in the flag field.
func (r *Registers) SetAF(v uint16) {
	r.A = byte(v >> 8)
	r.F = byte(v) & 0xF0
}

func (r *Registers) SetBC(v uint16) {
	r.B = byte(v >> 8)
	r.C = byte(v)
}

func (r *Registers) SetDE(v uint16) {
	r.D = byte(v >> 8)
	r.E = byte(v)
}

func (r *Registers) SetHL(v uint16) {
	r.H = byte(v >> 8)
	r.L = byte(v)
}

// Flag reports whether every bit in mask is set in F.
func (r *Registers) Flag(mask byte) bool {
	return r.F&mask == mask
}

// SetFlag sets or clears the bits in mask, then re-masks F's reserved
// low nibble to zero so the invariant holds after every mutation.
func (r *Registers) SetFlag(mask byte, on bool) {
	if on {
		r.F |= mask
	} else {
		r.F &^= mask
	}
	r.F &= 0xF0
}

// reg8 indexes the eight places an 8-bit operand can come from in the
// standard opcode encoding: B, C, D, E, H, L, (HL), A. Index 6, (HL), is
// resolved through the bus rather than this table.
const (
	reg8B = iota
	reg8C
	reg8D
	reg8E
	reg8H
	reg8L
	reg8HLInd
	reg8A
)

// regPostBoot holds the documented post-boot register values used by the
// default Reset. See cpu.go for the ColdReset alternative.
var regPostBoot = Registers{
	A: 0x01, F: 0xB0,
	B: 0x00, C: 0x13,
	D: 0x00, E: 0xD8,
	H: 0x01, L: 0x4D,
	SP: 0xFFFE,
	PC: 0x0100,
}
