package gbz80

import "testing"

func TestReadWrite16RoundTrip(t *testing.T) {
	rig := newCPUTestRig()
	rig.cpu.write16(0xC000, 0xBEEF)
	requireEqualU16(t, "read16", rig.cpu.read16(0xC000), 0xBEEF)
	requireEqualU8(t, "low byte", rig.bus.mem[0xC000], 0xEF)
	requireEqualU8(t, "high byte", rig.bus.mem[0xC001], 0xBE)
}

func TestIORegistersInterceptBusAddresses(t *testing.T) {
	rig := newCPUTestRig()
	rig.cpu.write(addrTMA, 0x42)
	requireEqualU8(t, "TMA via read", rig.cpu.read(addrTMA), 0x42)
	// The bus behind the register block must never have seen the write.
	requireEqualU8(t, "bus backing store", rig.bus.mem[addrTMA], 0x00)
}

func TestDMATransferCopies160Bytes(t *testing.T) {
	rig := newCPUTestRig()
	for i := 0; i < 0xA0; i++ {
		rig.bus.mem[0xC000+uint16(i)] = byte(i + 1)
	}
	rig.cpu.write(addrDMA, 0xC0)
	for i := 0; i < 0xA0; i++ {
		requireEqualU8(t, "OAM byte", rig.bus.mem[0xFE00+uint16(i)], byte(i+1))
	}
}
