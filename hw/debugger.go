package hw

// A Debugger monitors a CPU.
type Debugger interface {
	// Trace is called before each instruction is executed. A debugger can
	// stop the CPU by blocking until user interaction finishes.
	Trace(pc uint16)

	// Interrupt is called when an interrupt has been serviced. prevpc is the
	// address of the instruction that was about to be executed, curpc is the
	// address of the interrupt handler.
	Interrupt(prevpc, curpc uint16, isNMI bool)
}

type nopDebugger struct{}

func (nopDebugger) Trace(pc uint16)                            {}
func (nopDebugger) Interrupt(prevpc, curpc uint16, isNMI bool) {}
