package emu

import (
	"io"

	"mos6502/emu/log"
	"mos6502/hw/hwio"
)

// Terminal is a memory-mapped character device made of 2 registers:
//   - data: writes emit a character, reads return the next input character
//     (0 when none).
//   - status: bit 7 is set when input is available.
type Terminal struct {
	Data   hwio.Reg8
	Status hwio.Reg8

	out   io.Writer
	input chan byte // nil once the input reader is exhausted
	queue []byte
}

// NewTerminal creates a terminal. Input is read from in, if not nil, in a
// background goroutine, and forwarded to the CPU side at clock actions.
func NewTerminal(data, status uint16, in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{out: out}
	t.Data = hwio.Reg8{
		Addr:    data,
		Name:    "term_data",
		ReadCb:  t.readData,
		PeekCb:  t.peekData,
		WriteCb: t.writeData,
	}
	t.Status = hwio.Reg8{
		Addr:   status,
		Name:   "term_status",
		Flags:  hwio.ReadOnlyFlag,
		ReadCb: t.readStatus,
		PeekCb: t.readStatus,
	}

	if in != nil {
		t.input = make(chan byte, 256)
		go readInput(in, t.input)
	}
	return t
}

func readInput(in io.Reader, ch chan<- byte) {
	defer close(ch)

	buf := make([]byte, 256)
	for {
		n, err := in.Read(buf)
		for _, b := range buf[:n] {
			ch <- b
		}
		if err != nil {
			if err != io.EOF {
				log.ModDev.WarnZ("Terminal input error").Error("err", err).End()
			}
			return
		}
	}
}

// Feed queues input characters, as if they had been typed.
func (t *Terminal) Feed(p ...byte) {
	t.queue = append(t.queue, p...)
}

// pull moves the characters received so far into the input queue, without
// blocking.
func (t *Terminal) pull() {
	for {
		select {
		case b, ok := <-t.input:
			if !ok {
				t.input = nil
				return
			}
			t.queue = append(t.queue, b)
		default:
			return
		}
	}
}

func (t *Terminal) readData(uint8) uint8 {
	if len(t.queue) == 0 {
		return 0
	}
	b := t.queue[0]
	t.queue = t.queue[1:]
	return b
}

func (t *Terminal) peekData(uint8) uint8 {
	if len(t.queue) == 0 {
		return 0
	}
	return t.queue[0]
}

func (t *Terminal) writeData(_, val uint8) {
	if t.out == nil {
		return
	}
	if _, err := t.out.Write([]byte{val}); err != nil {
		log.ModDev.WarnZ("Terminal output error").Error("err", err).End()
	}
}

func (t *Terminal) readStatus(uint8) uint8 {
	if len(t.queue) > 0 {
		return 0x80
	}
	return 0x00
}

func (t *Terminal) reg(addr uint16) *hwio.Reg8 {
	if addr == t.Data.Addr {
		return &t.Data
	}
	return &t.Status
}

func (t *Terminal) Request(addr uint16) bool {
	return t.Data.Request(addr) || t.Status.Request(addr)
}

func (t *Terminal) GetData(addr uint16) uint8      { return t.reg(addr).GetData(addr) }
func (t *Terminal) SetData(addr uint16, val uint8) { t.reg(addr).SetData(addr, val) }
func (t *Terminal) Peek8(addr uint16) uint8        { return t.reg(addr).Peek8(addr) }

func (t *Terminal) PerformClockAction(hwio.LastAccess) {
	t.pull()
}

// Reset drops pending input.
func (t *Terminal) Reset() {
	t.queue = t.queue[:0]
}
