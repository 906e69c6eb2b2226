package hw

import (
	"fmt"
	"io"
)

// SetTraceOutput enables the execution trace, one line per instruction,
// written to w before the instruction executes. A nil w disables it.
func (c *CPU) SetTraceOutput(w io.Writer) {
	if w == nil {
		c.tracer = nil
		return
	}
	c.tracer = &tracer{w: w}
}

type tracer struct {
	w   io.Writer
	buf []byte
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

func appendHex8(buf []byte, v byte) []byte {
	var tmp [2]byte
	hexEncode(tmp[:], v)
	return append(buf, tmp[:]...)
}

// appendReg appends "name:XX ".
func appendReg(buf []byte, name byte, v byte) []byte {
	buf = append(buf, name, ':')
	buf = appendHex8(buf, v)
	return append(buf, ' ')
}

// write the execution trace for the instruction at pc, e.g.
//
//	0400  A9 32     LDA   A:00 X:01 Y:00 P:24 S:FD CYC:8
func (t *tracer) write(c *CPU, pc uint16) {
	const (
		nameCol = 16
		regsCol = 22
	)

	buf := t.buf[:0]
	buf = appendHex8(buf, byte(pc>>8))
	buf = appendHex8(buf, byte(pc))
	buf = append(buf, ' ', ' ')

	opcode := c.Bus.Peek8(pc)
	name := "???"
	size := 1
	if inst, ok := Lookup(opcode); ok {
		name = inst.Name
		size = inst.Size
	}

	for i := range size {
		buf = appendHex8(buf, c.Bus.Peek8(pc+uint16(i)))
		buf = append(buf, ' ')
	}
	for len(buf) < nameCol {
		buf = append(buf, ' ')
	}

	buf = append(buf, name...)
	for len(buf) < regsCol {
		buf = append(buf, ' ')
	}

	buf = appendReg(buf, 'A', c.A)
	buf = appendReg(buf, 'X', c.X)
	buf = appendReg(buf, 'Y', c.Y)
	buf = appendReg(buf, 'P', byte(c.P))
	buf = appendReg(buf, 'S', c.SP)
	buf = fmt.Appendf(buf, "CYC:%d\n", c.Clock)

	t.buf = buf
	t.w.Write(buf)
}
