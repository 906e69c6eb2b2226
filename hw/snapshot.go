package hw

import "mos6502/hw/snapshot"

func (c *CPU) Snapshot() *snapshot.CPU {
	return &snapshot.CPU{
		Version:    snapshot.Version,
		PC:         c.PC,
		SP:         c.SP,
		P:          uint8(c.P),
		A:          c.A,
		X:          c.X,
		Y:          c.Y,
		Clock:      c.Clock,
		Cycles:     c.cycles,
		NMIPending: c.nmiPending,
		IRQPending: c.irqPending,
	}
}

// Restore loads the CPU state from snap. The bus content is not part of the
// snapshot.
func (c *CPU) Restore(snap *snapshot.CPU) {
	c.PC = snap.PC
	c.SP = snap.SP
	c.P = P(snap.P)
	c.A = snap.A
	c.X = snap.X
	c.Y = snap.Y
	c.Clock = snap.Clock
	c.cycles = snap.Cycles
	c.nmiPending = snap.NMIPending
	c.irqPending = snap.IRQPending
	c.halted = nil
}
