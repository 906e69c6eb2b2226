package hw

// Decimal mode arithmetic, as performed by the NMOS 6502.
//
// ADC: Z is computed from the binary sum. N and V are computed after the low
// nibble has been adjusted, but before the high nibble is. C reflects the
// high nibble adjustment.
//
// SBC: all flags are those of the binary subtraction, only the result in A
// is decimal adjusted.
//
// Results for invalid BCD operands (nibbles above 9) follow from these
// rules, and match the hardware.

func (c *CPU) adcDecimal(val uint8) {
	a, v := uint16(c.A), uint16(val)
	carry := uint16(c.P.ibit(Carry))

	c.P.Set(Zero, uint8(a+v+carry) == 0)

	lo := (a & 0x0f) + (v & 0x0f) + carry
	hi := (a & 0xf0) + (v & 0xf0)
	if lo > 0x09 {
		lo += 0x06
	}
	if lo > 0x0f {
		hi += 0x10
	}

	c.P.Set(Negative, hi&0x80 != 0)
	c.P.Set(Overflow, ^(a^v)&(a^hi)&0x80 != 0)

	if hi > 0x90 {
		hi += 0x60
	}
	c.P.Set(Carry, hi > 0xff)

	c.A = uint8(hi&0xf0 | lo&0x0f)
}

func (c *CPU) sbcDecimal(val uint8) {
	a, v := int(c.A), int(val)
	borrow := 1 - int(c.P.ibit(Carry))

	lo := (a & 0x0f) - (v & 0x0f) - borrow
	hi := (a >> 4) - (v >> 4)
	if lo < 0 {
		lo -= 6
		hi--
	}
	if hi < 0 {
		hi -= 6
	}

	c.add(^val)
	c.A = uint8(lo&0x0f | (hi<<4)&0xf0)
}
