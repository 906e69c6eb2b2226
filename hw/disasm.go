package hw

import (
	"fmt"
	"strings"

	"mos6502/hw/hwio"
)

// DisasmOp is a disassembled instruction.
type DisasmOp struct {
	PC      uint16
	Bytes   []byte
	Name    string // ".byte" for opcodes the CPU doesn't implement
	Operand string
}

func (d DisasmOp) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%04X ", d.PC)
	for i := range 3 {
		if i < len(d.Bytes) {
			fmt.Fprintf(&sb, " %02X", d.Bytes[i])
		} else {
			sb.WriteString("   ")
		}
	}
	sb.WriteString("  ")
	sb.WriteString(d.Name)
	if d.Operand != "" {
		sb.WriteByte(' ')
		sb.WriteString(d.Operand)
	}
	return sb.String()
}

// Disasm disassembles the instruction at pc. Memory is peeked, device
// registers are left untouched.
func Disasm(mem hwio.Peeker, pc uint16) DisasmOp {
	opcode := mem.Peek8(pc)
	inst, ok := Lookup(opcode)
	if !ok {
		return DisasmOp{
			PC:      pc,
			Bytes:   []byte{opcode},
			Name:    ".byte",
			Operand: fmt.Sprintf("$%02X", opcode),
		}
	}

	d := DisasmOp{
		PC:    pc,
		Bytes: make([]byte, inst.Size),
		Name:  inst.Name,
	}
	for i := range d.Bytes {
		d.Bytes[i] = mem.Peek8(pc + uint16(i))
	}

	var (
		op8  uint8
		op16 uint16
	)
	if inst.Size > 1 {
		op8 = d.Bytes[1]
		op16 = uint16(op8)
	}
	if inst.Size > 2 {
		op16 |= uint16(d.Bytes[2]) << 8
	}

	switch inst.Mode {
	case Implied:
	case Accumulator:
		d.Operand = "A"
	case Immediate:
		d.Operand = fmt.Sprintf("#$%02X", op8)
	case ZeroPage:
		d.Operand = fmt.Sprintf("$%02X", op8)
	case ZeroPageX:
		d.Operand = fmt.Sprintf("$%02X,X", op8)
	case ZeroPageY:
		d.Operand = fmt.Sprintf("$%02X,Y", op8)
	case Absolute:
		d.Operand = fmt.Sprintf("$%04X", op16)
	case AbsoluteX:
		d.Operand = fmt.Sprintf("$%04X,X", op16)
	case AbsoluteY:
		d.Operand = fmt.Sprintf("$%04X,Y", op16)
	case IndirectX:
		d.Operand = fmt.Sprintf("($%02X,X)", op8)
	case IndirectY:
		d.Operand = fmt.Sprintf("($%02X),Y", op8)
	case Indirect:
		d.Operand = fmt.Sprintf("($%04X)", op16)
	case Relative:
		d.Operand = fmt.Sprintf("$%04X", pc+2+uint16(int8(op8)))
	}
	return d
}
