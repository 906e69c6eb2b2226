package hw

type rwType uint8

const (
	no rwType = iota // no memory operand, or control flow
	rd               // reads its operand, pays a cycle on page cross
	wr               // writes its operand, fixed cycle count
	rw               // read-modify-write, fixed cycle count
)

type opdef struct {
	n string              // name
	m AddrMode            // addressing mode
	c uint8               // base cycle count
	d rwType              // memory access kind
	f func(*CPU, operand) // nil when not implemented
}

// ops holds the 151 documented NMOS 6502 opcodes.
var ops = [256]opdef{
	0x00: {n: "BRK", m: Implied, c: 7, d: no, f: BRK},
	0x01: {n: "ORA", m: IndirectX, c: 6, d: rd, f: ORA},
	0x05: {n: "ORA", m: ZeroPage, c: 3, d: rd, f: ORA},
	0x06: {n: "ASL", m: ZeroPage, c: 5, d: rw, f: ASL},
	0x08: {n: "PHP", m: Implied, c: 3, d: no, f: PHP},
	0x09: {n: "ORA", m: Immediate, c: 2, d: rd, f: ORA},
	0x0A: {n: "ASL", m: Accumulator, c: 2, d: no, f: ASL},
	0x0D: {n: "ORA", m: Absolute, c: 4, d: rd, f: ORA},
	0x0E: {n: "ASL", m: Absolute, c: 6, d: rw, f: ASL},

	0x10: {n: "BPL", m: Relative, c: 2, d: no, f: branch(Negative, false)},
	0x11: {n: "ORA", m: IndirectY, c: 5, d: rd, f: ORA},
	0x15: {n: "ORA", m: ZeroPageX, c: 4, d: rd, f: ORA},
	0x16: {n: "ASL", m: ZeroPageX, c: 6, d: rw, f: ASL},
	0x18: {n: "CLC", m: Implied, c: 2, d: no, f: clearFlag(Carry)},
	0x19: {n: "ORA", m: AbsoluteY, c: 4, d: rd, f: ORA},
	0x1D: {n: "ORA", m: AbsoluteX, c: 4, d: rd, f: ORA},
	0x1E: {n: "ASL", m: AbsoluteX, c: 7, d: rw, f: ASL},

	0x20: {n: "JSR", m: Absolute, c: 6, d: no, f: JSR},
	0x21: {n: "AND", m: IndirectX, c: 6, d: rd, f: AND},
	0x24: {n: "BIT", m: ZeroPage, c: 3, d: rd, f: BIT},
	0x25: {n: "AND", m: ZeroPage, c: 3, d: rd, f: AND},
	0x26: {n: "ROL", m: ZeroPage, c: 5, d: rw, f: ROL},
	0x28: {n: "PLP", m: Implied, c: 4, d: no, f: PLP},
	0x29: {n: "AND", m: Immediate, c: 2, d: rd, f: AND},
	0x2A: {n: "ROL", m: Accumulator, c: 2, d: no, f: ROL},
	0x2C: {n: "BIT", m: Absolute, c: 4, d: rd, f: BIT},
	0x2D: {n: "AND", m: Absolute, c: 4, d: rd, f: AND},
	0x2E: {n: "ROL", m: Absolute, c: 6, d: rw, f: ROL},

	0x30: {n: "BMI", m: Relative, c: 2, d: no, f: branch(Negative, true)},
	0x31: {n: "AND", m: IndirectY, c: 5, d: rd, f: AND},
	0x35: {n: "AND", m: ZeroPageX, c: 4, d: rd, f: AND},
	0x36: {n: "ROL", m: ZeroPageX, c: 6, d: rw, f: ROL},
	0x38: {n: "SEC", m: Implied, c: 2, d: no, f: setFlag(Carry)},
	0x39: {n: "AND", m: AbsoluteY, c: 4, d: rd, f: AND},
	0x3D: {n: "AND", m: AbsoluteX, c: 4, d: rd, f: AND},
	0x3E: {n: "ROL", m: AbsoluteX, c: 7, d: rw, f: ROL},

	0x40: {n: "RTI", m: Implied, c: 6, d: no, f: RTI},
	0x41: {n: "EOR", m: IndirectX, c: 6, d: rd, f: EOR},
	0x45: {n: "EOR", m: ZeroPage, c: 3, d: rd, f: EOR},
	0x46: {n: "LSR", m: ZeroPage, c: 5, d: rw, f: LSR},
	0x48: {n: "PHA", m: Implied, c: 3, d: no, f: PHA},
	0x49: {n: "EOR", m: Immediate, c: 2, d: rd, f: EOR},
	0x4A: {n: "LSR", m: Accumulator, c: 2, d: no, f: LSR},
	0x4C: {n: "JMP", m: Absolute, c: 3, d: no, f: JMP},
	0x4D: {n: "EOR", m: Absolute, c: 4, d: rd, f: EOR},
	0x4E: {n: "LSR", m: Absolute, c: 6, d: rw, f: LSR},

	0x50: {n: "BVC", m: Relative, c: 2, d: no, f: branch(Overflow, false)},
	0x51: {n: "EOR", m: IndirectY, c: 5, d: rd, f: EOR},
	0x55: {n: "EOR", m: ZeroPageX, c: 4, d: rd, f: EOR},
	0x56: {n: "LSR", m: ZeroPageX, c: 6, d: rw, f: LSR},
	0x58: {n: "CLI", m: Implied, c: 2, d: no, f: clearFlag(Interrupt)},
	0x59: {n: "EOR", m: AbsoluteY, c: 4, d: rd, f: EOR},
	0x5D: {n: "EOR", m: AbsoluteX, c: 4, d: rd, f: EOR},
	0x5E: {n: "LSR", m: AbsoluteX, c: 7, d: rw, f: LSR},

	0x60: {n: "RTS", m: Implied, c: 6, d: no, f: RTS},
	0x61: {n: "ADC", m: IndirectX, c: 6, d: rd, f: ADC},
	0x65: {n: "ADC", m: ZeroPage, c: 3, d: rd, f: ADC},
	0x66: {n: "ROR", m: ZeroPage, c: 5, d: rw, f: ROR},
	0x68: {n: "PLA", m: Implied, c: 4, d: no, f: PLA},
	0x69: {n: "ADC", m: Immediate, c: 2, d: rd, f: ADC},
	0x6A: {n: "ROR", m: Accumulator, c: 2, d: no, f: ROR},
	0x6C: {n: "JMP", m: Indirect, c: 5, d: no, f: JMP},
	0x6D: {n: "ADC", m: Absolute, c: 4, d: rd, f: ADC},
	0x6E: {n: "ROR", m: Absolute, c: 6, d: rw, f: ROR},

	0x70: {n: "BVS", m: Relative, c: 2, d: no, f: branch(Overflow, true)},
	0x71: {n: "ADC", m: IndirectY, c: 5, d: rd, f: ADC},
	0x75: {n: "ADC", m: ZeroPageX, c: 4, d: rd, f: ADC},
	0x76: {n: "ROR", m: ZeroPageX, c: 6, d: rw, f: ROR},
	0x78: {n: "SEI", m: Implied, c: 2, d: no, f: setFlag(Interrupt)},
	0x79: {n: "ADC", m: AbsoluteY, c: 4, d: rd, f: ADC},
	0x7D: {n: "ADC", m: AbsoluteX, c: 4, d: rd, f: ADC},
	0x7E: {n: "ROR", m: AbsoluteX, c: 7, d: rw, f: ROR},

	0x81: {n: "STA", m: IndirectX, c: 6, d: wr, f: STA},
	0x84: {n: "STY", m: ZeroPage, c: 3, d: wr, f: STY},
	0x85: {n: "STA", m: ZeroPage, c: 3, d: wr, f: STA},
	0x86: {n: "STX", m: ZeroPage, c: 3, d: wr, f: STX},
	0x88: {n: "DEY", m: Implied, c: 2, d: no, f: DEY},
	0x8A: {n: "TXA", m: Implied, c: 2, d: no, f: TXA},
	0x8C: {n: "STY", m: Absolute, c: 4, d: wr, f: STY},
	0x8D: {n: "STA", m: Absolute, c: 4, d: wr, f: STA},
	0x8E: {n: "STX", m: Absolute, c: 4, d: wr, f: STX},

	0x90: {n: "BCC", m: Relative, c: 2, d: no, f: branch(Carry, false)},
	0x91: {n: "STA", m: IndirectY, c: 6, d: wr, f: STA},
	0x94: {n: "STY", m: ZeroPageX, c: 4, d: wr, f: STY},
	0x95: {n: "STA", m: ZeroPageX, c: 4, d: wr, f: STA},
	0x96: {n: "STX", m: ZeroPageY, c: 4, d: wr, f: STX},
	0x98: {n: "TYA", m: Implied, c: 2, d: no, f: TYA},
	0x99: {n: "STA", m: AbsoluteY, c: 5, d: wr, f: STA},
	0x9A: {n: "TXS", m: Implied, c: 2, d: no, f: TXS},
	0x9D: {n: "STA", m: AbsoluteX, c: 5, d: wr, f: STA},

	0xA0: {n: "LDY", m: Immediate, c: 2, d: rd, f: LDY},
	0xA1: {n: "LDA", m: IndirectX, c: 6, d: rd, f: LDA},
	0xA2: {n: "LDX", m: Immediate, c: 2, d: rd, f: LDX},
	0xA4: {n: "LDY", m: ZeroPage, c: 3, d: rd, f: LDY},
	0xA5: {n: "LDA", m: ZeroPage, c: 3, d: rd, f: LDA},
	0xA6: {n: "LDX", m: ZeroPage, c: 3, d: rd, f: LDX},
	0xA8: {n: "TAY", m: Implied, c: 2, d: no, f: TAY},
	0xA9: {n: "LDA", m: Immediate, c: 2, d: rd, f: LDA},
	0xAA: {n: "TAX", m: Implied, c: 2, d: no, f: TAX},
	0xAC: {n: "LDY", m: Absolute, c: 4, d: rd, f: LDY},
	0xAD: {n: "LDA", m: Absolute, c: 4, d: rd, f: LDA},
	0xAE: {n: "LDX", m: Absolute, c: 4, d: rd, f: LDX},

	0xB0: {n: "BCS", m: Relative, c: 2, d: no, f: branch(Carry, true)},
	0xB1: {n: "LDA", m: IndirectY, c: 5, d: rd, f: LDA},
	0xB4: {n: "LDY", m: ZeroPageX, c: 4, d: rd, f: LDY},
	0xB5: {n: "LDA", m: ZeroPageX, c: 4, d: rd, f: LDA},
	0xB6: {n: "LDX", m: ZeroPageY, c: 4, d: rd, f: LDX},
	0xB8: {n: "CLV", m: Implied, c: 2, d: no, f: clearFlag(Overflow)},
	0xB9: {n: "LDA", m: AbsoluteY, c: 4, d: rd, f: LDA},
	0xBA: {n: "TSX", m: Implied, c: 2, d: no, f: TSX},
	0xBC: {n: "LDY", m: AbsoluteX, c: 4, d: rd, f: LDY},
	0xBD: {n: "LDA", m: AbsoluteX, c: 4, d: rd, f: LDA},
	0xBE: {n: "LDX", m: AbsoluteY, c: 4, d: rd, f: LDX},

	0xC0: {n: "CPY", m: Immediate, c: 2, d: rd, f: CPY},
	0xC1: {n: "CMP", m: IndirectX, c: 6, d: rd, f: CMP},
	0xC4: {n: "CPY", m: ZeroPage, c: 3, d: rd, f: CPY},
	0xC5: {n: "CMP", m: ZeroPage, c: 3, d: rd, f: CMP},
	0xC6: {n: "DEC", m: ZeroPage, c: 5, d: rw, f: DEC},
	0xC8: {n: "INY", m: Implied, c: 2, d: no, f: INY},
	0xC9: {n: "CMP", m: Immediate, c: 2, d: rd, f: CMP},
	0xCA: {n: "DEX", m: Implied, c: 2, d: no, f: DEX},
	0xCC: {n: "CPY", m: Absolute, c: 4, d: rd, f: CPY},
	0xCD: {n: "CMP", m: Absolute, c: 4, d: rd, f: CMP},
	0xCE: {n: "DEC", m: Absolute, c: 6, d: rw, f: DEC},

	0xD0: {n: "BNE", m: Relative, c: 2, d: no, f: branch(Zero, false)},
	0xD1: {n: "CMP", m: IndirectY, c: 5, d: rd, f: CMP},
	0xD5: {n: "CMP", m: ZeroPageX, c: 4, d: rd, f: CMP},
	0xD6: {n: "DEC", m: ZeroPageX, c: 6, d: rw, f: DEC},
	0xD8: {n: "CLD", m: Implied, c: 2, d: no, f: clearFlag(Decimal)},
	0xD9: {n: "CMP", m: AbsoluteY, c: 4, d: rd, f: CMP},
	0xDD: {n: "CMP", m: AbsoluteX, c: 4, d: rd, f: CMP},
	0xDE: {n: "DEC", m: AbsoluteX, c: 7, d: rw, f: DEC},

	0xE0: {n: "CPX", m: Immediate, c: 2, d: rd, f: CPX},
	0xE1: {n: "SBC", m: IndirectX, c: 6, d: rd, f: SBC},
	0xE4: {n: "CPX", m: ZeroPage, c: 3, d: rd, f: CPX},
	0xE5: {n: "SBC", m: ZeroPage, c: 3, d: rd, f: SBC},
	0xE6: {n: "INC", m: ZeroPage, c: 5, d: rw, f: INC},
	0xE8: {n: "INX", m: Implied, c: 2, d: no, f: INX},
	0xE9: {n: "SBC", m: Immediate, c: 2, d: rd, f: SBC},
	0xEA: {n: "NOP", m: Implied, c: 2, d: no, f: NOP},
	0xEC: {n: "CPX", m: Absolute, c: 4, d: rd, f: CPX},
	0xED: {n: "SBC", m: Absolute, c: 4, d: rd, f: SBC},
	0xEE: {n: "INC", m: Absolute, c: 6, d: rw, f: INC},

	0xF0: {n: "BEQ", m: Relative, c: 2, d: no, f: branch(Zero, true)},
	0xF1: {n: "SBC", m: IndirectY, c: 5, d: rd, f: SBC},
	0xF5: {n: "SBC", m: ZeroPageX, c: 4, d: rd, f: SBC},
	0xF6: {n: "INC", m: ZeroPageX, c: 6, d: rw, f: INC},
	0xF8: {n: "SED", m: Implied, c: 2, d: no, f: setFlag(Decimal)},
	0xF9: {n: "SBC", m: AbsoluteY, c: 4, d: rd, f: SBC},
	0xFD: {n: "SBC", m: AbsoluteX, c: 4, d: rd, f: SBC},
	0xFE: {n: "INC", m: AbsoluteX, c: 7, d: rw, f: INC},
}

// Instruction describes an opcode, for hosts such as tracers and external
// disassemblers.
type Instruction struct {
	Opcode     uint8
	Name       string
	Mode       AddrMode
	Size       int
	Cycles     int  // base cycle count
	PageCycles bool // one more cycle when indexing crosses a page
}

// Lookup returns the instruction decoded by opcode. ok is false for opcodes
// the CPU doesn't implement.
func Lookup(opcode uint8) (inst Instruction, ok bool) {
	def := &ops[opcode]
	if def.f == nil {
		return Instruction{Opcode: opcode}, false
	}
	return Instruction{
		Opcode:     opcode,
		Name:       def.n,
		Mode:       def.m,
		Size:       def.m.Size(),
		Cycles:     int(def.c),
		PageCycles: def.d == rd && (def.m == AbsoluteX || def.m == AbsoluteY || def.m == IndirectY),
	}, true
}
