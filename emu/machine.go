// Package emu assembles a 6502 machine from its configuration and runs it.
package emu

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"mos6502/emu/log"
	"mos6502/hw"
	"mos6502/hw/hwio"
	"mos6502/hw/snapshot"
)

//go:generate go tool stringer -type=StopKind -trimprefix=Stop

// StopKind tells why Run returned.
type StopKind int

const (
	StopTrap       StopKind = iota // an instruction left PC unchanged
	StopCycleLimit                 // the configured cycle budget is spent
	StopHalted                     // the CPU met an unimplemented opcode
	StopRequested                  // Stop was called
)

type StopReason struct {
	Kind   StopKind
	PC     uint16
	Cycles int64 // cycles run by this call to Run
}

func (r StopReason) String() string {
	var what string
	switch r.Kind {
	case StopTrap:
		what = "trapped"
	case StopCycleLimit:
		what = "cycle limit reached"
	case StopHalted:
		what = "halted"
	case StopRequested:
		what = "stopped"
	default:
		what = r.Kind.String()
	}
	return fmt.Sprintf("%s at $%04X after %d cycles", what, r.PC, r.Cycles)
}

// Machine is a 6502 CPU and the devices mapped on its bus. Devices are
// mapped in this order: terminal, timer, then memories in configuration
// order.
type Machine struct {
	Bus      *hwio.Bus
	CPU      *hw.CPU
	Terminal *Terminal // nil if disabled
	Timer    *Timer    // nil if disabled

	cfg    CPUConfig
	cstack *callStack

	quit atomic.Bool
}

// New builds a machine and resets it. The terminal, if enabled, reads its
// input from in and writes its output to out.
func New(cfg Config, in io.Reader, out io.Writer) (*Machine, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}

	m := &Machine{
		Bus: hwio.NewBus("cpu"),
		cfg: cfg.CPU,
	}

	if cfg.Terminal.Enabled {
		m.Terminal = NewTerminal(cfg.Terminal.Data, cfg.Terminal.Status, in, out)
		m.Bus.Add(m.Terminal)
	}
	if cfg.Timer.Enabled {
		m.Timer = NewTimer(cfg.Timer.Addr, func() { m.CPU.RequestIRQ() })
		m.Bus.Add(m.Timer)
	}
	for i := range cfg.Memory {
		mem, err := cfg.Memory[i].build(cfg.dir)
		if err != nil {
			return nil, fmt.Errorf("memory %q: %w", cfg.Memory[i].Name, err)
		}
		m.Bus.Add(mem)
	}

	m.CPU = hw.NewCPU(m.Bus)
	m.cstack = newCallStack(m.Bus)
	m.CPU.SetDebugger(m.cstack)
	if cfg.TraceOut != nil {
		m.CPU.SetTraceOutput(cfg.TraceOut)
	}

	m.Reset()
	return m, nil
}

// Reset resets the CPU and the peripherals. Memory content is preserved.
func (m *Machine) Reset() {
	m.CPU.Reset()
	if m.cfg.StartPC != nil {
		m.CPU.PC = *m.cfg.StartPC
	}
	m.Bus.Reset()
	m.cstack.reset()
	if m.Terminal != nil {
		m.Terminal.Reset()
	}
	if m.Timer != nil {
		m.Timer.Reset()
	}
	log.ModEmu.InfoZ("Machine reset").Hex16("PC", m.CPU.PC).End()
}

// Stop makes Run return at the next instruction boundary. It can be called
// from another goroutine.
func (m *Machine) Stop() { m.quit.Store(true) }

// Run executes instructions until a trap is detected (if enabled), the cycle
// limit is reached, Stop is called or the CPU halts. In the latter case the
// error is returned.
func (m *Machine) Run() (StopReason, error) {
	start := m.CPU.Clock
	reason := func(kind StopKind) StopReason {
		return StopReason{Kind: kind, PC: m.CPU.PC, Cycles: m.CPU.Clock - start}
	}

	for {
		if m.quit.CompareAndSwap(true, false) {
			return reason(StopRequested), nil
		}

		pc := m.CPU.PC
		if _, err := m.CPU.Step(); err != nil {
			log.ModEmu.ErrorZ("CPU halted").
				Hex16("PC", m.CPU.PC).
				String("backtrace", m.Backtrace()).
				End()
			return reason(StopHalted), err
		}

		if m.cfg.StopOnTrap && m.CPU.PC == pc && !m.interruptible() {
			return reason(StopTrap), nil
		}
		if m.cfg.MaxCycles > 0 && m.CPU.Clock-start >= m.cfg.MaxCycles {
			return reason(StopCycleLimit), nil
		}
	}
}

// interruptible reports whether an interrupt can still move the CPU out of
// a loop-to-self.
func (m *Machine) interruptible() bool {
	switch {
	case m.CPU.PendingNMI():
		return true
	case m.CPU.P.I():
		return false
	case m.CPU.PendingIRQ():
		return true
	}
	return m.Timer != nil && m.Timer.Armed()
}

// Passed reports whether r is a successful end of run. It's always true,
// unless a success address is configured and the run trapped elsewhere.
func (m *Machine) Passed(r StopReason) bool {
	if r.Kind == StopHalted {
		return false
	}
	if r.Kind != StopTrap || m.cfg.SuccessPC == nil {
		return true
	}
	return r.PC == *m.cfg.SuccessPC
}

// Backtrace returns a one-line description of the call stack, innermost
// frame first.
func (m *Machine) Backtrace() string {
	var sb strings.Builder
	for i, f := range m.cstack.build(m.CPU.PC) {
		if i > 0 {
			sb.WriteString(" <- ")
		}
		fmt.Fprintf(&sb, "%s@%s", f[0], f[1])
	}
	return sb.String()
}

// SaveState returns the CPU state, encoded in JSON.
func (m *Machine) SaveState() ([]byte, error) {
	return m.CPU.Snapshot().MarshalJSON()
}

// LoadState restores a CPU state previously returned by SaveState.
func (m *Machine) LoadState(buf []byte) error {
	var snap snapshot.CPU
	if err := snap.UnmarshalJSON(buf); err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	m.CPU.Restore(&snap)
	m.cstack.reset()
	return nil
}
