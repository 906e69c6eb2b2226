package hw

// P is the 6502 Processor Status Register.
type P uint8

// Status flags.
const (
	Carry P = 1 << iota
	Zero
	Interrupt // interrupt disable
	Decimal
	Break
	Unused // no physical latch, conventionally read as 1
	Overflow
	Negative
)

func (p P) N() bool { return p&Negative != 0 }
func (p P) V() bool { return p&Overflow != 0 }
func (p P) U() bool { return p&Unused != 0 }
func (p P) B() bool { return p&Break != 0 }
func (p P) D() bool { return p&Decimal != 0 }
func (p P) I() bool { return p&Interrupt != 0 }
func (p P) Z() bool { return p&Zero != 0 }
func (p P) C() bool { return p&Carry != 0 }

// Has reports whether all flags in mask are set.
func (p P) Has(mask P) bool {
	return p&mask == mask
}

// Set sets or clears all flags in mask.
func (p *P) Set(mask P, on bool) {
	if on {
		*p |= mask
	} else {
		*p &^= mask
	}
}

func (p *P) Clear(mask P) { *p &^= mask }

// ibit returns 1 if the flag is set, 0 otherwise.
func (p P) ibit(flag P) uint8 {
	if p&flag != 0 {
		return 1
	}
	return 0
}

func (p *P) checkNZ(v uint8) {
	p.Set(Negative, v&0x80 != 0)
	p.Set(Zero, v == 0)
}

func (p *P) checkCV(x, y uint8, sum uint16) {
	// forward carry or unsigned overflow.
	p.Set(Carry, sum > 0xFF)

	// signed overflow, can only happen if the sign of the sum differs
	// from that of both operands.
	v := (uint16(x) ^ sum) & (uint16(y) ^ sum) & 0x80
	p.Set(Overflow, v != 0)
}

func (p P) String() string {
	const bits = "nvubdizcNVUBDIZC"

	s := make([]byte, 8)
	for i := 0; i < 8; i++ {
		ibit := (uint8(p) & (1 << (7 - i))) >> (7 - i)
		s[i] = bits[i+int(8*ibit)]
	}
	return string(s)
}
