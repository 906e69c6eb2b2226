package hw

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mos6502/hw/hwio"
)

func TestReset(t *testing.T) {
	cpu := loadCPUWith(t, `fffc: 00 c0`)
	cpu.A, cpu.X, cpu.Y = 1, 2, 3
	cpu.RequestNMI()
	cpu.RequestIRQ()

	cpu.Reset()

	if cpu.A != 0 || cpu.X != 0 || cpu.Y != 0 || cpu.SP != 0xff ||
		cpu.PC != 0xc000 || cpu.P != Unused {
		t.Errorf("after reset: A=%02X X=%02X Y=%02X SP=%02X PC=%04X P=%s",
			cpu.A, cpu.X, cpu.Y, cpu.SP, cpu.PC, cpu.P)
	}
	if cpu.PendingNMI() || cpu.PendingIRQ() {
		t.Errorf("interrupt latches not cleared by reset")
	}
	if cpu.Cycles() != 0 {
		t.Errorf("Cycles() = %d, want 0", cpu.Cycles())
	}
}

func TestResetVectorFromDevice(t *testing.T) {
	// The vector is only served through a read callback.
	rom := hwio.NewManual("rom", 0xFF00, 0xFFFF)
	rom.ReadCb = func(addr uint16) uint8 {
		switch addr {
		case 0xFFFC:
			return 0x00
		case 0xFFFD:
			return 0x80
		}
		return 0xEA
	}
	bus := hwio.NewBus("cputest")
	bus.Add(rom, hwio.NewRAM("ram", 0x0000, 0xFFFF))

	cpu := NewCPU(bus)
	if cpu.PC != 0x8000 {
		t.Errorf("PC = %04X after reset, want 8000", cpu.PC)
	}
}

func TestLDAImmediateZero(t *testing.T) {
	cpu := loadCPUWith(t, `0200: a9 00`)
	cpu.PC = 0x0200

	n, err := cpu.Step()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Step() = %d cycles, want 2", n)
	}
	if cpu.PC != 0x0202 || cpu.A != 0 || !cpu.P.Z() || cpu.P.N() {
		t.Errorf("PC=%04X A=%02X P=%s", cpu.PC, cpu.A, cpu.P)
	}
}

func TestExecCycles(t *testing.T) {
	// LDA $1234 takes 4 cycles, the instruction is executed on the first one.
	cpu := loadCPUWith(t, `
0200: ad 34 12
1234: 99
`)
	cpu.PC = 0x0200

	for i, want := range []int{3, 2, 1, 0} {
		if err := cpu.Exec(); err != nil {
			t.Fatal(err)
		}
		if cpu.A != 0x99 {
			t.Fatalf("cycle %d: A = %02X, want 99", i, cpu.A)
		}
		if got := cpu.Cycles(); got != want {
			t.Errorf("cycle %d: Cycles() = %d, want %d", i, got, want)
		}
	}
	if cpu.Clock != 4 {
		t.Errorf("Clock = %d, want 4", cpu.Clock)
	}

	// Step finishes a partially executed instruction.
	cpu.PC = 0x0200
	if err := cpu.Exec(); err != nil {
		t.Fatal(err)
	}
	n, err := cpu.Step()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Step() = %d, want 3", n)
	}
}

func TestCycleCounts(t *testing.T) {
	tests := []struct {
		name   string
		dump   string
		x, y   uint8
		cycles int
	}{
		{"LDA abs,X same page", "0200: bd 00 10", 0x10, 0, 4},
		{"LDA abs,X cross", "0200: bd f0 10", 0x10, 0, 5},
		{"LDA abs,Y cross", "0200: b9 ff 10", 0, 0x01, 5},
		{"LDA (zp),Y same page", "0010: 00 20\n0200: b1 10", 0, 0x10, 5},
		{"LDA (zp),Y cross", "0010: f8 20\n0200: b1 10", 0, 0x10, 6},
		{"LDA (zp,X)", "0020: 00 20\n0200: a1 10", 0x10, 0, 6},
		{"LDA zp,X", "0200: b5 10", 0xff, 0, 4},
		{"STA abs,X cross", "0200: 9d f0 10", 0x10, 0, 5},
		{"STA abs,X same page", "0200: 9d 00 10", 0x10, 0, 5},
		{"STA (zp),Y cross", "0010: f8 20\n0200: 91 10", 0, 0x10, 6},
		{"ASL abs,X cross", "0200: 1e f0 10", 0x10, 0, 7},
		{"INC abs,X same page", "0200: fe 00 10", 0x01, 0, 7},
		{"LDX abs,Y cross", "0200: be ff 10", 0, 0x01, 5},
		{"LDY abs,X cross", "0200: bc ff 10", 0x01, 0, 5},
		{"JMP ind", "0200: 6c 00 30", 0, 0, 5},
		{"NOP", "0200: ea", 0, 0, 2},
		{"PLA", "0200: 68", 0, 0, 4},
		{"RTI", "0200: 40", 0, 0, 6},
		{"RTS", "0200: 60", 0, 0, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu := loadCPUWith(t, tt.dump)
			cpu.PC = 0x0200
			cpu.X, cpu.Y = tt.x, tt.y

			n, err := cpu.Step()
			if err != nil {
				t.Fatal(err)
			}
			if n != tt.cycles {
				t.Errorf("got %d cycles, want %d", n, tt.cycles)
			}
		})
	}
}

func TestBranch(t *testing.T) {
	tests := []struct {
		name   string
		pc     uint16
		prog   []byte
		p      P
		cycles int
		wantPC uint16
	}{
		{"not taken", 0x0200, []byte{0xd0, 0x10}, Zero, 2, 0x0202},
		{"not taken across page", 0x02f0, []byte{0xd0, 0x20}, Zero, 2, 0x02f2},
		{"taken same page", 0x0200, []byte{0xd0, 0x10}, 0, 3, 0x0212},
		{"taken backward", 0x0210, []byte{0xf0, 0xfc}, Zero, 3, 0x020e},
		{"taken forward cross", 0x02f0, []byte{0x90, 0x20}, 0, 4, 0x0312},
		{"taken backward cross", 0x0200, []byte{0xb0, 0xfc}, Carry, 4, 0x01fe},
		// Page crossing is measured from the address of the next instruction.
		{"taken next instr on new page", 0x02fe, []byte{0x10, 0x01}, 0, 3, 0x0301},
		{"BVS taken", 0x0200, []byte{0x70, 0x02}, Overflow, 3, 0x0204},
		{"BMI not taken", 0x0200, []byte{0x30, 0x02}, 0, 2, 0x0202},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus, ram := newTestBus()
			ram.Load(tt.pc, tt.prog)
			cpu := NewCPU(bus)
			cpu.PC = tt.pc
			cpu.P = tt.p | Unused

			n, err := cpu.Step()
			if err != nil {
				t.Fatal(err)
			}
			if n != tt.cycles {
				t.Errorf("got %d cycles, want %d", n, tt.cycles)
			}
			if cpu.PC != tt.wantPC {
				t.Errorf("got PC=$%04X, want $%04X", cpu.PC, tt.wantPC)
			}
		})
	}
}

func TestJMPIndirectPageWrap(t *testing.T) {
	cpu := loadCPUWith(t, `
0200: 6c ff 30
3000: 40
30ff: 80
3100: 50
`)
	cpu.PC = 0x0200
	runAndCheckState(t, cpu, 5,
		"PC", 0x4080,
	)
}

func TestZeroPageWrap(t *testing.T) {
	t.Run("zp,X", func(t *testing.T) {
		cpu := loadCPUWith(t, `
007f: 42
0200: b5 80
`)
		cpu.PC = 0x0200
		cpu.X = 0xff
		runAndCheckState(t, cpu, 4, "A", 0x42)
	})
	t.Run("(zp,X)", func(t *testing.T) {
		cpu := loadCPUWith(t, `
0000: 12
00ff: 34
0100: 99
0200: a1 fe
1234: 77
`)
		cpu.PC = 0x0200
		cpu.X = 0x01
		runAndCheckState(t, cpu, 6, "A", 0x77)
	})
	t.Run("(zp),Y", func(t *testing.T) {
		cpu := loadCPUWith(t, `
0000: 12
00ff: 30
0200: b1 ff
1231: 55
`)
		cpu.PC = 0x0200
		cpu.Y = 0x01
		runAndCheckState(t, cpu, 5, "A", 0x55)
	})
	t.Run("abs,X wraps address space", func(t *testing.T) {
		cpu := loadCPUWith(t, `
0001: 66
0200: bd ff ff
`)
		cpu.PC = 0x0200
		cpu.X = 0x02
		runAndCheckState(t, cpu, 5, "A", 0x66)
	})
}

func TestBRK_RTI(t *testing.T) {
	cpu := loadCPUWith(t, `
0200: 00 ea a9 01
0300: 40
fffe: 00 03
`)
	cpu.PC = 0x0200
	cpu.P = Unused | Break | Carry

	n, err := cpu.Step()
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 {
		t.Errorf("BRK took %d cycles, want 7", n)
	}
	wantMem(t, cpu, dumpline{off: 0x01fd, bytes: []byte{0x31, 0x02, 0x02}})
	if cpu.PC != 0x0300 || cpu.SP != 0xfc || !cpu.P.I() || cpu.P.B() {
		t.Fatalf("after BRK: PC=$%04X SP=$%02X P=%s", cpu.PC, cpu.SP, cpu.P)
	}

	// RTI restores P from the stack, including I, and resumes after BRK's
	// padding byte. The live B stays clear.
	runAndCheckState(t, cpu, 6,
		"PC", 0x0202,
		"SP", 0xff,
		"P", int(Unused|Carry),
	)
	runAndCheckState(t, cpu, 2, "A", 0x01)
}

func TestInterrupts(t *testing.T) {
	const prog = `
0200: ea ea
0300: 40
0400: 40
fffa: 00 04
fffe: 00 03
`
	t.Run("IRQ", func(t *testing.T) {
		cpu := loadCPUWith(t, prog)
		cpu.PC = 0x0200
		cpu.P = Unused | Zero
		cpu.RequestIRQ()

		n, err := cpu.Step()
		if err != nil {
			t.Fatal(err)
		}
		if n != interruptCycles {
			t.Errorf("IRQ took %d cycles, want %d", n, interruptCycles)
		}
		if cpu.PC != 0x0300 || !cpu.P.I() || cpu.PendingIRQ() {
			t.Errorf("after IRQ: PC=$%04X P=%s pending=%t", cpu.PC, cpu.P, cpu.PendingIRQ())
		}
		// B is clear in the pushed status.
		wantMem(t, cpu, dumpline{off: 0x01fd, bytes: []byte{0x22, 0x00, 0x02}})

		runAndCheckState(t, cpu, 6, "PC", 0x0200, "Pi", 0, "Pz", 1)
	})

	t.Run("IRQ masked", func(t *testing.T) {
		cpu := loadCPUWith(t, prog)
		cpu.PC = 0x0200
		cpu.P = Unused | Interrupt
		cpu.RequestIRQ()

		n, err := cpu.Step()
		if err != nil {
			t.Fatal(err)
		}
		if n != 2 || cpu.PC != 0x0201 {
			t.Errorf("got %d cycles PC=$%04X, want NOP to execute", n, cpu.PC)
		}
		if !cpu.PendingIRQ() {
			t.Errorf("masked IRQ should stay pending")
		}

		// Serviced as soon as I is cleared.
		cpu.P.Set(Interrupt, false)
		if _, err := cpu.Step(); err != nil {
			t.Fatal(err)
		}
		if cpu.PC != 0x0300 {
			t.Errorf("got PC=$%04X, want $0300", cpu.PC)
		}
	})

	t.Run("NMI priority", func(t *testing.T) {
		cpu := loadCPUWith(t, prog)
		cpu.PC = 0x0200
		cpu.RequestIRQ()
		cpu.RequestNMI()

		n, err := cpu.Step()
		if err != nil {
			t.Fatal(err)
		}
		if n != interruptCycles || cpu.PC != 0x0400 {
			t.Fatalf("got %d cycles PC=$%04X, want NMI service", n, cpu.PC)
		}
		if cpu.PendingNMI() || !cpu.PendingIRQ() {
			t.Errorf("NMI=%t IRQ=%t, want only IRQ pending", cpu.PendingNMI(), cpu.PendingIRQ())
		}

		// NMI ignores I.
		cpu.RequestNMI()
		if _, err := cpu.Step(); err != nil {
			t.Fatal(err)
		}
		if cpu.PC != 0x0400 || cpu.SP != 0xf9 {
			t.Errorf("got PC=$%04X SP=$%02X", cpu.PC, cpu.SP)
		}
	})

	t.Run("at instruction boundary", func(t *testing.T) {
		cpu := loadCPUWith(t, prog)
		cpu.PC = 0x0200
		if err := cpu.Exec(); err != nil {
			t.Fatal(err)
		}
		cpu.RequestNMI()
		if err := cpu.Exec(); err != nil {
			t.Fatal(err)
		}
		if cpu.PC != 0x0201 || !cpu.PendingNMI() {
			t.Fatalf("NMI serviced mid-instruction")
		}
		if err := cpu.Exec(); err != nil {
			t.Fatal(err)
		}
		if cpu.PC != 0x0400 {
			t.Errorf("got PC=$%04X, want $0400", cpu.PC)
		}
	})
}

func TestUnimplementedOpcode(t *testing.T) {
	cpu := loadCPUWith(t, `0200: ea 02`)
	cpu.PC = 0x0200

	if _, err := cpu.Step(); err != nil {
		t.Fatal(err)
	}

	_, err := cpu.Step()
	if !errors.Is(err, ErrUnimplementedOpcode) {
		t.Fatalf("got err %v, want ErrUnimplementedOpcode", err)
	}
	var uerr *UnimplementedOpcodeError
	if !errors.As(err, &uerr) {
		t.Fatalf("got %T, want *UnimplementedOpcodeError", err)
	}
	if uerr.Opcode != 0x02 || uerr.PC != 0x0201 {
		t.Errorf("got %+v", uerr)
	}
	if got := err.Error(); got != "unimplemented opcode $02 at $0201" {
		t.Errorf("Error() = %q", got)
	}

	if !cpu.Halted() {
		t.Fatalf("CPU should be halted")
	}

	// Stays halted, state frozen.
	clock := cpu.Clock
	if err := cpu.Exec(); !errors.Is(err, ErrUnimplementedOpcode) {
		t.Errorf("Exec() = %v, want ErrUnimplementedOpcode", err)
	}
	if cpu.Clock != clock || cpu.PC != 0x0201 {
		t.Errorf("halted CPU moved: Clock=%d PC=$%04X", cpu.Clock, cpu.PC)
	}

	cpu.Reset()
	if cpu.Halted() {
		t.Errorf("reset should clear the halt")
	}
}

type tickCounter struct {
	hwio.Range
	ticks []hwio.LastAccess
}

func (d *tickCounter) GetData(uint16) uint8  { return 0 }
func (d *tickCounter) SetData(uint16, uint8) {}
func (d *tickCounter) PerformClockAction(la hwio.LastAccess) {
	d.ticks = append(d.ticks, la)
}

func TestBusTickedOncePerInstruction(t *testing.T) {
	bus, ram := newTestBus()
	dev := &tickCounter{Range: hwio.Range{Start: 0xff00, End: 0xff00}}
	bus.Devices = append([]hwio.Device{dev}, bus.Devices...)

	// LDA $1234 ; STA $1235 ; NOP
	ram.Load(0x0200, []byte{0xad, 0x34, 0x12, 0x8d, 0x35, 0x12, 0xea})
	cpu := NewCPU(bus)
	cpu.PC = 0x0200

	if err := cpu.Run(4 + 4 + 2); err != nil {
		t.Fatal(err)
	}

	want := []hwio.LastAccess{
		{Addr: 0x1234, Valid: true},
		{Addr: 0x1235, Valid: true},
		{Addr: 0x0206, Valid: true},
	}
	if diff := cmp.Diff(want, dev.ticks); diff != "" {
		t.Errorf("clock actions mismatch (-want +got):\n%s", diff)
	}
}

type recordingDebugger struct {
	traced []uint16
	intrs  []bool
}

func (d *recordingDebugger) Trace(pc uint16) { d.traced = append(d.traced, pc) }
func (d *recordingDebugger) Interrupt(prevpc, curpc uint16, isNMI bool) {
	d.intrs = append(d.intrs, isNMI)
}

func TestDebugger(t *testing.T) {
	cpu := loadCPUWith(t, `
0200: ea ea
0300: ea
fffa: 00 03
`)
	cpu.PC = 0x0200

	dbg := &recordingDebugger{}
	cpu.SetDebugger(dbg)
	cpu.Step()
	cpu.RequestNMI()
	cpu.Step()
	cpu.Step()

	if diff := cmp.Diff([]uint16{0x0200, 0x0300}, dbg.traced); diff != "" {
		t.Errorf("traced mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{true}, dbg.intrs); diff != "" {
		t.Errorf("interrupts mismatch (-want +got):\n%s", diff)
	}

	cpu.SetDebugger(nil)
	cpu.Step()
}

func TestSnapshotRestore(t *testing.T) {
	cpu := loadCPUWith(t, `0200: ad 34 12 e8`)
	cpu.PC = 0x0200
	cpu.X = 0x10
	cpu.RequestIRQ()
	cpu.P.Set(Interrupt, true)

	// Snapshot in the middle of LDA.
	cpu.Exec()
	snap := cpu.Snapshot()
	if snap.Cycles != 3 || snap.PC != 0x0203 || !snap.IRQPending {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	cpu.Run(3 + 2)
	if cpu.X != 0x11 {
		t.Fatalf("X = %02X, want 11", cpu.X)
	}

	cpu.Restore(snap)
	if diff := cmp.Diff(snap, cpu.Snapshot()); diff != "" {
		t.Errorf("restored state mismatch (-want +got):\n%s", diff)
	}

	n, err := cpu.Step()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Step() = %d, want 3 remaining cycles", n)
	}
	runAndCheckState(t, cpu, 2, "X", 0x11, "PC", 0x0204)
}
