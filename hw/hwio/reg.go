package hwio

import "fmt"

// Reg8 is a single memory-mapped 8-bit register.
type Reg8 struct {
	Addr   uint16
	Name   string
	Value  uint8
	RoMask uint8 // bits set here are not modified by writes

	Flags   RWFlags
	ReadCb  func(val uint8) uint8
	PeekCb  func(val uint8) uint8
	WriteCb func(old uint8, val uint8)
}

func (reg *Reg8) String() string {
	s := fmt.Sprintf("%s{%02x", reg.Name, reg.Value)
	if reg.ReadCb != nil {
		s += ",r!"
	}
	if reg.PeekCb != nil {
		s += ",p!"
	}
	if reg.WriteCb != nil {
		s += ",w!"
	}
	return s + "}"
}

func (reg *Reg8) Request(addr uint16) bool { return addr == reg.Addr }

func (reg *Reg8) SetData(addr uint16, val uint8) {
	if reg.Flags&ReadOnlyFlag != 0 {
		logAccess("invalid write to readonly reg", reg.Name, addr)
		return
	}
	old := reg.Value
	reg.Value = (reg.Value & reg.RoMask) | (val &^ reg.RoMask)
	if reg.WriteCb != nil {
		reg.WriteCb(old, reg.Value)
	}
}

func (reg *Reg8) GetData(addr uint16) uint8 {
	if reg.Flags&WriteOnlyFlag != 0 {
		logAccess("invalid read from writeonly reg", reg.Name, addr)
		return 0
	}
	if reg.ReadCb != nil {
		return reg.ReadCb(reg.Value)
	}
	return reg.Value
}

func (reg *Reg8) Peek8(addr uint16) uint8 {
	if reg.PeekCb != nil {
		return reg.PeekCb(reg.Value)
	}
	return reg.Value
}

func (reg *Reg8) PerformClockAction(LastAccess) {}
