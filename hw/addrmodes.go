package hw

//go:generate go tool stringer -type=AddrMode

// AddrMode is the rule by which an instruction derives its operand from the
// bytes following the opcode and the registers.
type AddrMode uint8

const (
	Implied AddrMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	IndirectX // (zp,X)
	IndirectY // (zp),Y
	Indirect  // JMP only
	Relative  // branches only
)

// Size returns the length in bytes of an instruction using this mode,
// opcode included.
func (m AddrMode) Size() int {
	switch m {
	case Implied, Accumulator:
		return 1
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 3
	default:
		return 2
	}
}

// operand is the result of the address resolution of an instruction.
type operand struct {
	mode    AddrMode
	addr    uint16 // effective address (unused for implied/accumulator)
	crossed bool   // indexing or branching crossed a page boundary
}

func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

// resolve computes the effective address for the instruction at PC. It only
// reads the operand bytes, registers are left untouched.
func (c *CPU) resolve(mode AddrMode) operand {
	op := operand{mode: mode}
	pc := c.PC

	switch mode {
	case Implied, Accumulator:
	case Immediate:
		op.addr = pc + 1
	case ZeroPage:
		op.addr = uint16(c.Read8(pc + 1))
	case ZeroPageX:
		op.addr = uint16(c.Read8(pc+1) + c.X)
	case ZeroPageY:
		op.addr = uint16(c.Read8(pc+1) + c.Y)
	case Absolute:
		op.addr = c.Read16(pc + 1)
	case AbsoluteX:
		base := c.Read16(pc + 1)
		op.addr = base + uint16(c.X)
		op.crossed = pageCrossed(base, op.addr)
	case AbsoluteY:
		base := c.Read16(pc + 1)
		op.addr = base + uint16(c.Y)
		op.crossed = pageCrossed(base, op.addr)
	case IndirectX:
		ptr := c.Read8(pc+1) + c.X
		op.addr = c.read16zp(ptr)
	case IndirectY:
		base := c.read16zp(c.Read8(pc + 1))
		op.addr = base + uint16(c.Y)
		op.crossed = pageCrossed(base, op.addr)
	case Indirect:
		// The high byte of the target is fetched without carrying into the
		// pointer's high byte: JMP ($xxFF) reads $xxFF and $xx00.
		ptr := c.Read16(pc + 1)
		lo := c.Read8(ptr)
		hi := c.Read8(ptr&0xFF00 | (ptr+1)&0x00FF)
		op.addr = uint16(hi)<<8 | uint16(lo)
	case Relative:
		next := pc + 2
		off := int8(c.Read8(pc + 1))
		op.addr = next + uint16(off)
		op.crossed = pageCrossed(next, op.addr)
	}
	return op
}

// read16zp reads a pointer from the zero page, wrapping at $FF.
func (c *CPU) read16zp(ptr uint8) uint16 {
	lo := c.Read8(uint16(ptr))
	hi := c.Read8(uint16(ptr + 1))
	return uint16(hi)<<8 | uint16(lo)
}
