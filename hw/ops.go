package hw

import "mos6502/hw/hwio"

/* loads, stores and transfers */

func LDA(cpu *CPU, op operand) {
	cpu.A = cpu.load(op)
	cpu.P.checkNZ(cpu.A)
}

func LDX(cpu *CPU, op operand) {
	cpu.X = cpu.load(op)
	cpu.P.checkNZ(cpu.X)
}

func LDY(cpu *CPU, op operand) {
	cpu.Y = cpu.load(op)
	cpu.P.checkNZ(cpu.Y)
}

func STA(cpu *CPU, op operand) { cpu.store(op, cpu.A) }
func STX(cpu *CPU, op operand) { cpu.store(op, cpu.X) }
func STY(cpu *CPU, op operand) { cpu.store(op, cpu.Y) }

func TAX(cpu *CPU, _ operand) {
	cpu.X = cpu.A
	cpu.P.checkNZ(cpu.X)
}

func TAY(cpu *CPU, _ operand) {
	cpu.Y = cpu.A
	cpu.P.checkNZ(cpu.Y)
}

func TSX(cpu *CPU, _ operand) {
	cpu.X = cpu.SP
	cpu.P.checkNZ(cpu.X)
}

func TXA(cpu *CPU, _ operand) {
	cpu.A = cpu.X
	cpu.P.checkNZ(cpu.A)
}

// TXS is the only transfer leaving flags alone.
func TXS(cpu *CPU, _ operand) {
	cpu.SP = cpu.X
}

func TYA(cpu *CPU, _ operand) {
	cpu.A = cpu.Y
	cpu.P.checkNZ(cpu.A)
}

/* stack */

func PHA(cpu *CPU, _ operand) {
	cpu.push8(cpu.A)
}

// PHP pushes P with the B and U bits set, live flags are unchanged.
func PHP(cpu *CPU, _ operand) {
	cpu.push8(uint8(cpu.P | Break | Unused))
}

func PLA(cpu *CPU, _ operand) {
	cpu.A = cpu.pull8()
	cpu.P.checkNZ(cpu.A)
}

// ignore B and U bits when restoring P from the stack.
const pullMask = uint8(^(Break | Unused))

func PLP(cpu *CPU, _ operand) {
	p := cpu.pull8()
	cpu.P = P(hwio.CopyBits8(uint8(cpu.P), p, pullMask))
}

/* logic and arithmetic */

func AND(cpu *CPU, op operand) {
	cpu.A &= cpu.load(op)
	cpu.P.checkNZ(cpu.A)
}

func ORA(cpu *CPU, op operand) {
	cpu.A |= cpu.load(op)
	cpu.P.checkNZ(cpu.A)
}

func EOR(cpu *CPU, op operand) {
	cpu.A ^= cpu.load(op)
	cpu.P.checkNZ(cpu.A)
}

func BIT(cpu *CPU, op operand) {
	val := cpu.load(op)
	cpu.P.Set(Zero, cpu.A&val == 0)
	cpu.P.Set(Negative, hwio.GetBit8(val, 7))
	cpu.P.Set(Overflow, hwio.GetBit8(val, 6))
}

func ADC(cpu *CPU, op operand) {
	val := cpu.load(op)
	if cpu.P.D() {
		cpu.adcDecimal(val)
		return
	}
	cpu.add(val)
}

func SBC(cpu *CPU, op operand) {
	val := cpu.load(op)
	if cpu.P.D() {
		cpu.sbcDecimal(val)
		return
	}
	cpu.add(^val)
}

// add performs a binary addition with carry.
func (c *CPU) add(val uint8) {
	sum := uint16(c.A) + uint16(val) + uint16(c.P.ibit(Carry))
	c.P.checkCV(c.A, val, sum)
	c.A = uint8(sum)
	c.P.checkNZ(c.A)
}

// compare sets flags from the unsigned comparison of reg with val.
func (c *CPU) compare(reg, val uint8) {
	c.P.Set(Carry, reg >= val)
	c.P.Set(Zero, reg == val)
	c.P.Set(Negative, (reg-val)&0x80 != 0)
}

func CMP(cpu *CPU, op operand) { cpu.compare(cpu.A, cpu.load(op)) }
func CPX(cpu *CPU, op operand) { cpu.compare(cpu.X, cpu.load(op)) }
func CPY(cpu *CPU, op operand) { cpu.compare(cpu.Y, cpu.load(op)) }

/* increments and decrements */

func INC(cpu *CPU, op operand) {
	val := cpu.load(op) + 1
	cpu.P.checkNZ(val)
	cpu.store(op, val)
}

func DEC(cpu *CPU, op operand) {
	val := cpu.load(op) - 1
	cpu.P.checkNZ(val)
	cpu.store(op, val)
}

func INX(cpu *CPU, _ operand) {
	cpu.X++
	cpu.P.checkNZ(cpu.X)
}

func INY(cpu *CPU, _ operand) {
	cpu.Y++
	cpu.P.checkNZ(cpu.Y)
}

func DEX(cpu *CPU, _ operand) {
	cpu.X--
	cpu.P.checkNZ(cpu.X)
}

func DEY(cpu *CPU, _ operand) {
	cpu.Y--
	cpu.P.checkNZ(cpu.Y)
}

/* shifts and rotations, on A or memory */

func ASL(cpu *CPU, op operand) {
	val := cpu.load(op)
	cpu.P.Set(Carry, hwio.GetBit8(val, 7))
	val <<= 1
	cpu.P.checkNZ(val)
	cpu.store(op, val)
}

func LSR(cpu *CPU, op operand) {
	val := cpu.load(op)
	cpu.P.Set(Carry, hwio.GetBit8(val, 0))
	val >>= 1
	cpu.P.checkNZ(val)
	cpu.store(op, val)
}

func ROL(cpu *CPU, op operand) {
	val := cpu.load(op)
	carry := cpu.P.ibit(Carry)
	cpu.P.Set(Carry, hwio.GetBit8(val, 7))
	val = val<<1 | carry
	cpu.P.checkNZ(val)
	cpu.store(op, val)
}

func ROR(cpu *CPU, op operand) {
	val := cpu.load(op)
	carry := cpu.P.ibit(Carry)
	cpu.P.Set(Carry, hwio.GetBit8(val, 0))
	val = val>>1 | carry<<7
	cpu.P.checkNZ(val)
	cpu.store(op, val)
}

/* control flow */

func JMP(cpu *CPU, op operand) {
	cpu.PC = op.addr
}

// JSR pushes the address of its own last byte.
func JSR(cpu *CPU, op operand) {
	cpu.push16(cpu.PC - 1)
	cpu.PC = op.addr
}

func RTS(cpu *CPU, _ operand) {
	cpu.PC = cpu.pull16() + 1
}

// BRK pushes the address following its padding byte and P with the B and U
// bits set, then jumps through the IRQ vector. B is left clear.
func BRK(cpu *CPU, _ operand) {
	cpu.push16(cpu.PC + 1)
	cpu.P.Set(Break|Unused, true)
	cpu.push8(uint8(cpu.P))
	cpu.P.Clear(Break)
	cpu.P.Set(Interrupt, true)
	cpu.PC = cpu.Read16(IRQVector)
}

func RTI(cpu *CPU, _ operand) {
	p := cpu.pull8()
	cpu.P = P(hwio.CopyBits8(uint8(cpu.P), p, pullMask))
	cpu.PC = cpu.pull16()
}

// branch returns a conditional branch, taken when flag's state is equal to
// val. A taken branch costs one more cycle, and another one when landing in
// a different page.
func branch(flag P, val bool) func(*CPU, operand) {
	return func(cpu *CPU, op operand) {
		if cpu.P.Has(flag) != val {
			return
		}
		cpu.cycles++
		if op.crossed {
			cpu.cycles++
		}
		cpu.PC = op.addr
	}
}

/* flags */

func setFlag(flag P) func(*CPU, operand) {
	return func(cpu *CPU, _ operand) { cpu.P.Set(flag, true) }
}

func clearFlag(flag P) func(*CPU, operand) {
	return func(cpu *CPU, _ operand) { cpu.P.Clear(flag) }
}

func NOP(*CPU, operand) {}
