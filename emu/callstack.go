package emu

import (
	"fmt"
	"slices"

	"mos6502/hw/hwio"
)

type frameFlag uint8

const (
	ffCall frameFlag = iota
	ffBRK
	ffNMI
	ffIRQ
)

type stackFrame struct {
	src    uint16
	target uint16
	ret    uint16
	flag   frameFlag
}

// frames are dropped from the bottom past that depth.
const maxFrames = 256

// callStack follows subroutine calls and interrupts as the CPU executes, in
// order to provide a backtrace. It implements hw.Debugger.
type callStack struct {
	bus    *hwio.Bus
	frames []stackFrame

	prevPC     uint16
	prevOpcode uint8
}

func newCallStack(bus *hwio.Bus) *callStack {
	return &callStack{bus: bus, prevOpcode: 0xFF}
}

func (cs *callStack) push(src, dst, ret uint16, flag frameFlag) {
	if len(cs.frames) == maxFrames {
		cs.frames = slices.Delete(cs.frames, 0, 1)
	}
	cs.frames = append(cs.frames, stackFrame{
		src:    src,
		target: dst,
		ret:    ret,
		flag:   flag,
	})
}

func (cs *callStack) pop() {
	if len(cs.frames) == 0 {
		return
	}
	cs.frames = cs.frames[:len(cs.frames)-1]
}

func (cs *callStack) reset() {
	cs.frames = cs.frames[:0]
	cs.prevOpcode = 0xFF
}

// update accounts for the effect of the previously executed instruction,
// now that we know where it went.
func (cs *callStack) update(dst uint16) {
	switch cs.prevOpcode {
	case 0x20: // JSR
		cs.push(cs.prevPC, dst, cs.prevPC+3, ffCall)
	case 0x00: // BRK
		cs.push(cs.prevPC, dst, cs.prevPC+2, ffBRK)
	case 0x40, 0x60: // RTI RTS
		cs.pop()
	}
}

func (cs *callStack) Trace(pc uint16) {
	cs.update(pc)
	cs.prevPC = pc
	cs.prevOpcode = cs.bus.Peek8(pc)
}

func (cs *callStack) Interrupt(prevpc, curpc uint16, isNMI bool) {
	flag := ffIRQ
	if isNMI {
		flag = ffNMI
	}
	cs.update(prevpc)
	cs.prevOpcode = 0xFF

	cs.push(prevpc, curpc, prevpc, flag)
}

type frameInfo [2]string

// build returns the backtrace, innermost frame first. Each frame holds the
// entry point of the routine and the current location in it.
func (cs *callStack) build(pc uint16) []frameInfo {
	nfos := make([]frameInfo, 0, len(cs.frames)+1)
	var curf *stackFrame
	for i, f := range cs.frames {
		if i > 0 {
			curf = &cs.frames[i-1]
		}
		nfos = slices.Insert(nfos, 0, frameInfo{
			cs.entryPoint(curf),
			fmt.Sprintf("$%04X", f.src),
		})
	}

	// Current frame
	curf = nil
	if len(cs.frames) > 0 {
		curf = &cs.frames[len(cs.frames)-1]
	}

	return slices.Insert(nfos, 0, frameInfo{
		cs.entryPoint(curf),
		fmt.Sprintf("$%04X", pc),
	})
}

func (*callStack) entryPoint(f *stackFrame) string {
	if f == nil {
		return "[bottom of stack]"
	}

	str := fmt.Sprintf("$%04X", f.target)
	switch f.flag {
	case ffNMI:
		return "[nmi] " + str
	case ffIRQ:
		return "[irq] " + str
	case ffBRK:
		return "[brk] " + str
	default:
		return str
	}
}
