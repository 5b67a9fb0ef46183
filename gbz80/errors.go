package gbz80

import "fmt"

// InvalidOpcode is returned by Step when the fetched opcode has no
// handler. It is fatal and non-recoverable: the host decides whether to
// terminate (spec.md §7). PC is the program counter *after* the opcode's
// width has been advanced, and Opcode is the byte that was decoded.
type InvalidOpcode struct {
	PC     uint16
	Opcode byte
}

func (e *InvalidOpcode) Error() string {
	return fmt.Sprintf("gbz80: invalid opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
}

// BusOutOfRange describes a non-fatal out-of-map access: reads return
// 0xFF and writes are discarded. The core never constructs, returns or
// prints it, and emits no diagnostic of its own for such accesses; it is
// provided for a host Bus implementation that wants to report them. Op is
// "read" or "write".
type BusOutOfRange struct {
	Addr uint16
	Op   string
}

func (e *BusOutOfRange) Error() string {
	return fmt.Sprintf("gbz80: bus %s out of range at 0x%04X", e.Op, e.Addr)
}
