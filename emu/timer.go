package emu

import (
	"mos6502/emu/log"
	"mos6502/hw/hwio"
)

// Timer is an interval timer raising an IRQ every N clock actions, that is
// every N retired instructions or serviced interrupts. It's controlled by a
// single register: writing N > 0 (re)starts it, writing 0 stops it. Reads
// return the current interval.
type Timer struct {
	*hwio.Manual

	period uint8
	count  int
	fired  int

	irq func()
}

func NewTimer(addr uint16, irq func()) *Timer {
	t := &Timer{
		Manual: hwio.NewManual("timer", addr, addr),
		irq:    irq,
	}
	t.ReadCb = t.read
	t.PeekCb = t.read
	t.WriteCb = t.write
	t.ClockCb = t.tick
	return t
}

func (t *Timer) read(uint16) uint8 { return t.period }

func (t *Timer) write(_ uint16, val uint8) {
	t.period = val
	t.count = 0
	log.ModDev.DebugZ("Timer programmed").Int("period", int(val)).End()
}

func (t *Timer) tick(hwio.LastAccess) {
	if t.period == 0 {
		return
	}
	t.count++
	if t.count < int(t.period) {
		return
	}
	t.count = 0
	t.fired++
	t.irq()
}

// Armed reports whether the timer is running.
func (t *Timer) Armed() bool { return t.period != 0 }

// Fired returns the number of IRQs raised so far.
func (t *Timer) Fired() int { return t.fired }

// Reset stops the timer.
func (t *Timer) Reset() {
	t.period = 0
	t.count = 0
	t.fired = 0
}
