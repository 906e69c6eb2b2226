package hw

import (
	"mos6502/emu/log"
	"mos6502/hw/hwio"
)

// Locations reserved for vector pointers.
const (
	NMIVector   = uint16(0xFFFA) // Non-Maskable Interrupt
	ResetVector = uint16(0xFFFC) // Reset
	IRQVector   = uint16(0xFFFE) // Interrupt Request and BRK
)

const (
	stackBase = uint16(0x0100)

	// cycles taken to service an IRQ or an NMI.
	interruptCycles = 8
)

// CPU is a NMOS 6502 core. It's stepped one clock cycle at a time with Exec,
// an instruction is entirely executed on its first cycle and the remaining
// cycles are just counted down.
//
// The CPU doesn't own its Bus, it must not be stepped once the bus is gone.
// The CPU is not safe for concurrent use.
type CPU struct {
	Bus *hwio.Bus

	// cpu registers
	A, X, Y, SP uint8
	PC          uint16
	P           P

	Clock  int64 // total elapsed cycles
	cycles int   // cycles still owed by the current instruction

	// interrupt latches
	nmiPending bool
	irqPending bool

	halted error

	// Non-nil when execution tracing is enabled.
	tracer *tracer
	dbg    Debugger
}

// NewCPU creates a CPU bound to bus, at power-up state.
func NewCPU(bus *hwio.Bus) *CPU {
	cpu := &CPU{
		Bus: bus,
		dbg: nopDebugger{},
	}
	cpu.Reset()
	return cpu
}

// Reset reinitializes registers, loads PC from the reset vector and clears
// interrupt latches. The bus and its devices are left untouched.
func (c *CPU) Reset() {
	c.A = 0x00
	c.X = 0x00
	c.Y = 0x00
	c.SP = 0xFF
	c.P = Unused
	c.cycles = 0
	c.nmiPending = false
	c.irqPending = false
	c.halted = nil

	c.PC = c.Read16(ResetVector)

	log.ModCPU.DebugZ("reset").Hex16("PC", c.PC).End()
}

// Cycles returns the number of cycles the current instruction still owes.
// New instructions are only fetched when it reaches 0.
func (c *CPU) Cycles() int {
	return c.cycles
}

// Halted reports whether the CPU stopped on an unimplemented opcode.
func (c *CPU) Halted() bool {
	return c.halted != nil
}

// Exec advances emulation by exactly one clock cycle. On a cycle where no
// cycles are owed, pending interrupts are serviced, or the next instruction
// is executed, then bus devices are ticked.
func (c *CPU) Exec() error {
	if c.halted != nil {
		return c.halted
	}

	if c.cycles == 0 {
		switch {
		case c.nmiPending:
			c.interrupt(NMIVector, true)
		case c.irqPending && !c.P.I():
			c.interrupt(IRQVector, false)
		default:
			if err := c.execute(); err != nil {
				return err
			}
		}
		c.Bus.PerformClockActions()
	}

	c.cycles--
	c.Clock++
	return nil
}

// Step retires one full instruction, or one interrupt service sequence,
// and returns the number of cycles it took.
func (c *CPU) Step() (int, error) {
	n := 0
	for {
		if err := c.Exec(); err != nil {
			return n, err
		}
		n++
		if c.cycles == 0 {
			return n, nil
		}
	}
}

// Run runs the CPU for ncycles clock cycles or until an error occurs.
func (c *CPU) Run(ncycles int64) error {
	until := c.Clock + ncycles
	for c.Clock < until {
		if err := c.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (c *CPU) execute() error {
	pc := c.PC
	opcode := c.Read8(pc)
	c.traceOp(pc)

	def := &ops[opcode]
	if def.f == nil {
		c.halted = &UnimplementedOpcodeError{Opcode: opcode, PC: pc}
		log.ModCPU.ErrorZ("CPU halted").
			Hex16("PC", pc).
			Hex8("opcode", opcode).
			End()
		return c.halted
	}

	op := c.resolve(def.m)
	c.PC += uint16(def.m.Size())

	c.cycles = int(def.c)
	if def.d == rd && op.crossed {
		c.cycles++
	}
	def.f(c, op)
	return nil
}

func (c *CPU) Read8(addr uint16) uint8 {
	return c.Bus.GetData(addr)
}

func (c *CPU) Write8(addr uint16, val uint8) {
	c.Bus.SetData(addr, val)
}

func (c *CPU) Read16(addr uint16) uint16 {
	return hwio.Read16(c.Bus, addr)
}

/* operand access */

func (c *CPU) load(op operand) uint8 {
	if op.mode == Accumulator {
		return c.A
	}
	return c.Read8(op.addr)
}

func (c *CPU) store(op operand, val uint8) {
	if op.mode == Accumulator {
		c.A = val
		return
	}
	c.Write8(op.addr, val)
}

/* stack operations */

func (c *CPU) push8(val uint8) {
	c.Write8(stackBase+uint16(c.SP), val)
	c.SP--
}

func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val & 0xff))
}

func (c *CPU) pull8() uint8 {
	c.SP++
	return c.Read8(stackBase + uint16(c.SP))
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(hi)<<8 | uint16(lo)
}

/* tracing / debugging */

func (c *CPU) traceOp(pc uint16) {
	if c.tracer != nil {
		c.tracer.write(c, pc)
	}
	c.dbg.Trace(pc)
}

// SetDebugger installs dbg, a nil dbg removes the current one.
func (c *CPU) SetDebugger(dbg Debugger) {
	if dbg == nil {
		dbg = nopDebugger{}
	}
	c.dbg = dbg
}
