// Package snapshot holds plain CPU state, serializable to JSON.
package snapshot

import (
	"fmt"

	"github.com/go-faster/jx"
)

const Version = 1

type CPU struct {
	Version int

	PC uint16
	SP uint8
	P  uint8
	A  uint8
	X  uint8
	Y  uint8

	Clock  int64
	Cycles int // cycles owed by the current instruction

	NMIPending bool
	IRQPending bool
}

func (s *CPU) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("version")
	e.Int(s.Version)
	e.FieldStart("pc")
	e.UInt16(s.PC)
	e.FieldStart("sp")
	e.UInt8(s.SP)
	e.FieldStart("p")
	e.UInt8(s.P)
	e.FieldStart("a")
	e.UInt8(s.A)
	e.FieldStart("x")
	e.UInt8(s.X)
	e.FieldStart("y")
	e.UInt8(s.Y)
	e.FieldStart("clock")
	e.Int64(s.Clock)
	e.FieldStart("cycles")
	e.Int(s.Cycles)
	e.FieldStart("nmi")
	e.Bool(s.NMIPending)
	e.FieldStart("irq")
	e.Bool(s.IRQPending)
	e.ObjEnd()
}

func (s *CPU) Decode(d *jx.Decoder) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "version":
			s.Version, err = d.Int()
		case "pc":
			s.PC, err = d.UInt16()
		case "sp":
			s.SP, err = d.UInt8()
		case "p":
			s.P, err = d.UInt8()
		case "a":
			s.A, err = d.UInt8()
		case "x":
			s.X, err = d.UInt8()
		case "y":
			s.Y, err = d.UInt8()
		case "clock":
			s.Clock, err = d.Int64()
		case "cycles":
			s.Cycles, err = d.Int()
		case "nmi":
			s.NMIPending, err = d.Bool()
		case "irq":
			s.IRQPending, err = d.Bool()
		default:
			err = d.Skip()
		}
		if err != nil {
			return fmt.Errorf("snapshot field %q: %w", key, err)
		}
		return nil
	})
}

func (s CPU) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	s.Encode(&e)
	return e.Bytes(), nil
}

func (s *CPU) UnmarshalJSON(buf []byte) error {
	if err := s.Decode(jx.DecodeBytes(buf)); err != nil {
		return err
	}
	if s.Version != Version {
		return fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	return nil
}
