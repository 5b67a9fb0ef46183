package gbz80

import "testing"

func TestServiceInterruptVectorsAndClearsIF(t *testing.T) {
	rig := newCPUTestRig()
	cpu := rig.cpu
	cpu.PC = 0x1234
	cpu.SP = 0xFFFE
	cpu.IME = true
	cpu.SetIE(intVBlank)
	cpu.SetIF(intVBlank)

	serviced := cpu.serviceInterrupt()
	if !serviced {
		t.Fatalf("expected an interrupt to be serviced")
	}
	requireEqualU16(t, "PC", cpu.PC, 0x0040)
	requireEqualU16(t, "pushed return address", cpu.popWord(), 0x1234)
	if cpu.IME {
		t.Fatalf("IME should be cleared on entry to the handler")
	}
	if cpu.IF()&intVBlank != 0 {
		t.Fatalf("serviced interrupt's IF bit should be cleared")
	}
}

func TestServiceInterruptPriorityIsBitOrderAscending(t *testing.T) {
	rig := newCPUTestRig()
	cpu := rig.cpu
	cpu.IME = true
	cpu.SetIE(intVBlank | intTimer)
	cpu.SetIF(intTimer | intVBlank)

	cpu.serviceInterrupt()
	requireEqualU16(t, "PC", cpu.PC, 0x0040) // V-Blank (bit 0) wins over Timer (bit 2)
	if cpu.IF()&intTimer == 0 {
		t.Fatalf("lower-priority Timer bit should remain pending")
	}
}

func TestDisabledIMEJustUnhaltsWithoutVectoring(t *testing.T) {
	rig := newCPUTestRig()
	cpu := rig.cpu
	cpu.PC = 0x2000
	cpu.IME = false
	cpu.mode = Halted
	cpu.Halted = true
	cpu.SetIE(intJoypad)
	cpu.SetIF(intJoypad)

	serviced := cpu.serviceInterrupt()
	if serviced {
		t.Fatalf("must not service while IME is clear")
	}
	if cpu.Halted {
		t.Fatalf("a pending enabled interrupt should un-halt even with IME clear")
	}
	requireEqualU16(t, "PC", cpu.PC, 0x2000)
	if cpu.IF()&intJoypad == 0 {
		t.Fatalf("IF bit must remain set when not actually serviced")
	}
}

func TestNoPendingInterruptLeavesStateAlone(t *testing.T) {
	rig := newCPUTestRig()
	cpu := rig.cpu
	cpu.IME = true
	cpu.SetIE(0)
	cpu.SetIF(0x1F)
	if cpu.serviceInterrupt() {
		t.Fatalf("no interrupt should service when IE masks everything off")
	}
}

// End-to-end: a V-Blank interrupt arrives mid-frame, IME is enabled, and
// Step both vectors the CPU and resumes normal dispatch at the handler.
func TestStepServicesVBlankThenRunsHandler(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0040, []byte{0x00}) // NOP at the V-Blank vector
	cpu := rig.cpu
	cpu.PC = 0x0100
	cpu.SP = 0xFFFE
	cpu.IME = true
	cpu.SetIE(intVBlank)
	cpu.SetIF(intVBlank)

	cycles, err := cpu.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireEqualU16(t, "PC after vectoring", cpu.PC, 0x0040)
	if cycles != 20 {
		t.Fatalf("interrupt dispatch should cost 20 cycles, got %d", cycles)
	}

	cycles, err = cpu.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireEqualU16(t, "PC after handler NOP", cpu.PC, 0x0041)
	if cycles != 4 {
		t.Fatalf("NOP should cost 4 cycles, got %d", cycles)
	}
}

// End-to-end: a Halted CPU with IME clear and a pending enabled interrupt
// must leave Halted mode within the step that sees it pending, without
// vectoring and without dispatching the instruction that follows HALT.
func TestStepUnhaltsWithoutVectoringInExactlyOneStep(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0100, []byte{0x76, 0x3C}) // HALT; INC A
	cpu := rig.cpu
	cpu.IME = false
	cpu.A = 0x00
	cpu.SetIE(intJoypad)

	cpu.Step() // HALT
	if cpu.Mode() != Halted {
		t.Fatalf("expected Halted mode after HALT")
	}

	cpu.SetIF(intJoypad)
	cycles, err := cpu.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cycles != 4 {
		t.Fatalf("un-halt step cycles = %d, want 4", cycles)
	}
	if cpu.Mode() == Halted {
		t.Fatalf("a pending enabled interrupt must leave Halted mode even with IME clear")
	}
	requireEqualU16(t, "PC must not advance in the un-halt step", cpu.PC, 0x0101)
	if cpu.A != 0 {
		t.Fatalf("INC A must not dispatch in the same step that un-halts")
	}

	cycles, _ = cpu.Step() // now a normal step: INC A runs
	requireEqualU16(t, "PC after INC A", cpu.PC, 0x0102)
	if cpu.A != 1 {
		t.Fatalf("INC A should run on the following step")
	}
	_ = cycles
}

// End-to-end: STOP is exited by a pending, enabled interrupt the same way
// HALT is, and the serviced interrupt actually runs its handler on the
// following Step instead of wedging the CPU at the vector.
func TestStepServicesInterruptAndExitsStopMode(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0040, []byte{0x00}) // NOP at the V-Blank vector
	cpu := rig.cpu
	cpu.PC = 0x0100
	cpu.SP = 0xFFFE
	cpu.mode = Stopped
	cpu.IME = true
	cpu.SetIE(intVBlank)
	cpu.SetIF(intVBlank)

	cycles, err := cpu.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cycles != 20 {
		t.Fatalf("interrupt dispatch should cost 20 cycles, got %d", cycles)
	}
	if cpu.Mode() == Stopped {
		t.Fatalf("a serviced interrupt must exit Stopped mode")
	}
	requireEqualU16(t, "PC after vectoring", cpu.PC, 0x0040)

	cycles, err = cpu.Step() // the handler NOP must actually execute now
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireEqualU16(t, "PC after handler NOP", cpu.PC, 0x0041)
	if cycles != 4 {
		t.Fatalf("NOP should cost 4 cycles, got %d", cycles)
	}
}

// End-to-end: a Stopped CPU with IME clear and a pending enabled interrupt
// (e.g. joypad) un-stops without vectoring, just like HALT.
func TestStepUnstopsWithoutVectoringWhenIMEClear(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0100, []byte{0x00}) // NOP
	cpu := rig.cpu
	cpu.mode = Stopped
	cpu.IME = false
	cpu.SetIE(intJoypad)
	cpu.SetIF(intJoypad)

	cycles, err := cpu.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cycles != 4 {
		t.Fatalf("un-stop step cycles = %d, want 4", cycles)
	}
	if cpu.Mode() == Stopped {
		t.Fatalf("a pending enabled interrupt must exit Stopped mode even with IME clear")
	}
	requireEqualU16(t, "PC must not advance in the un-stop step", cpu.PC, 0x0100)

	cycles, _ = cpu.Step()
	requireEqualU16(t, "PC after NOP runs on the following step", cpu.PC, 0x0101)
	if cycles != 4 {
		t.Fatalf("NOP cycles = %d, want 4", cycles)
	}
}

// End-to-end: EI's one-instruction delay means an interrupt pending right
// after EI is not serviced until the instruction following EI completes.
func TestEIDelaysInterruptByOneInstruction(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0100, []byte{0xFB, 0x00, 0x00}) // EI; NOP; NOP
	cpu := rig.cpu
	cpu.IME = false
	cpu.SetIE(intVBlank)
	cpu.SetIF(intVBlank)

	cpu.Step() // EI executes; IME still false immediately after
	if cpu.IME {
		t.Fatalf("IME must not be live immediately after EI")
	}

	cpu.Step() // first NOP after EI; interrupt must not preempt it
	requireEqualU16(t, "PC after first post-EI NOP", cpu.PC, 0x0102)

	cycles, _ := cpu.Step() // IME becomes live at this step's start: the pending V-Blank vectors here instead of the second NOP
	requireEqualU16(t, "PC vectored to V-Blank", cpu.PC, 0x0040)
	if cycles != 20 {
		t.Fatalf("expected interrupt dispatch, got %d cycles", cycles)
	}
}
