package gbz80

import "testing"

func TestRegisterPairing(t *testing.T) {
	r := Registers{A: 0x12, F: 0x30, B: 0x45, C: 0x67, D: 0x89, E: 0xAB, H: 0xCD, L: 0xEF}
	requireEqualU16(t, "AF", r.AF(), 0x1230)
	requireEqualU16(t, "BC", r.BC(), 0x4567)
	requireEqualU16(t, "DE", r.DE(), 0x89AB)
	requireEqualU16(t, "HL", r.HL(), 0xCDEF)
}

func TestSetAFMasksLowNibble(t *testing.T) {
	var r Registers
	r.SetAF(0x12FF)
	requireEqualU8(t, "A", r.A, 0x12)
	requireEqualU8(t, "F", r.F, 0xF0)
}

func TestSetPairs(t *testing.T) {
	var r Registers
	r.SetBC(0x1122)
	r.SetDE(0x3344)
	r.SetHL(0x5566)
	requireEqualU16(t, "BC", r.BC(), 0x1122)
	requireEqualU16(t, "DE", r.DE(), 0x3344)
	requireEqualU16(t, "HL", r.HL(), 0x5566)
}

func TestFlagSetAndClear(t *testing.T) {
	var r Registers
	r.SetFlag(FlagZ, true)
	r.SetFlag(FlagC, true)
	if !r.Flag(FlagZ) || !r.Flag(FlagC) {
		t.Fatalf("Z and C should both be set")
	}
	if r.Flag(FlagN) || r.Flag(FlagH) {
		t.Fatalf("N and H should be clear")
	}
	r.SetFlag(FlagZ, false)
	if r.Flag(FlagZ) {
		t.Fatalf("Z should be cleared")
	}
	requireEqualU8(t, "F", r.F, FlagC)
}

func TestFlagLowNibbleAlwaysZero(t *testing.T) {
	var r Registers
	r.F = 0xFF
	r.SetFlag(FlagZ, true)
	if r.F&0x0F != 0 {
		t.Fatalf("F low nibble = 0x%X, want 0", r.F&0x0F)
	}
}

func TestPostBootDefaults(t *testing.T) {
	requireEqualU8(t, "A", regPostBoot.A, 0x01)
	requireEqualU8(t, "F", regPostBoot.F, 0xB0)
	requireEqualU16(t, "SP", regPostBoot.SP, 0xFFFE)
	requireEqualU16(t, "PC", regPostBoot.PC, 0x0100)
}
