package hw

import "mos6502/emu/log"

// RequestNMI latches a non-maskable interrupt, serviced at the next
// instruction boundary.
func (c *CPU) RequestNMI() { c.nmiPending = true }

// RequestIRQ latches an interrupt request, serviced at the next instruction
// boundary where the interrupt disable flag is clear. The request stays
// pending while interrupts are disabled.
func (c *CPU) RequestIRQ() { c.irqPending = true }

func (c *CPU) PendingNMI() bool { return c.nmiPending }
func (c *CPU) PendingIRQ() bool { return c.irqPending }

// interrupt services an NMI or an IRQ. NMI has priority, so it's always
// checked first by the caller.
func (c *CPU) interrupt(vector uint16, isNMI bool) {
	prevpc := c.PC
	c.push16(c.PC)

	p := c.P
	p.Set(Break, false)
	p.Set(Unused, true)
	c.push8(uint8(p))
	c.P.Set(Interrupt, true)

	if isNMI {
		c.nmiPending = false
	} else {
		c.irqPending = false
	}

	c.PC = c.Read16(vector)
	c.cycles = interruptCycles

	c.dbg.Interrupt(prevpc, c.PC, isNMI)
	log.ModCPU.DebugZ("interrupt").
		Bool("nmi", isNMI).
		Hex16("from", prevpc).
		Hex16("to", c.PC).
		End()
}
