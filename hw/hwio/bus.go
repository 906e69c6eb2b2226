package hwio

import (
	"mos6502/emu/log"
)

// Bus routes CPU accesses to an ordered list of devices. The first device
// claiming an address services it, whether ranges overlap or not.
// Unclaimed addresses read as 0 and ignore writes (open bus).
type Bus struct {
	Name    string
	Devices []Device

	// log unmapped accesses (useful for debugging but verbose for programs
	// probing open bus).
	LogUnmapped bool

	last LastAccess
}

func NewBus(name string) *Bus {
	return &Bus{Name: name}
}

// Add appends devices to the bus. The bus is their sole owner from now on.
// Devices registered first shadow later ones.
func (b *Bus) Add(devs ...Device) {
	for _, dev := range devs {
		if dev == nil {
			panic("hwio: nil device added to bus " + b.Name)
		}
		b.Devices = append(b.Devices, dev)
	}
}

// Reset forgets the last accessed address, devices stay plugged.
func (b *Bus) Reset() {
	b.last = LastAccess{}
}

func (b *Bus) device(addr uint16) Device {
	for _, dev := range b.Devices {
		if dev.Request(addr) {
			return dev
		}
	}
	return nil
}

// GetData reads a byte from the first device claiming addr.
func (b *Bus) GetData(addr uint16) uint8 {
	b.last = LastAccess{Addr: addr, Valid: true}
	dev := b.device(addr)
	if dev == nil {
		if b.LogUnmapped {
			log.ModHwIo.DebugZ("unmapped read").
				String("bus", b.Name).
				Hex16("addr", addr).
				End()
		}
		return 0
	}
	return dev.GetData(addr)
}

// SetData writes a byte to the first device claiming addr.
func (b *Bus) SetData(addr uint16, val uint8) {
	b.last = LastAccess{Addr: addr, Valid: true}
	dev := b.device(addr)
	if dev == nil {
		if b.LogUnmapped {
			log.ModHwIo.DebugZ("unmapped write").
				String("bus", b.Name).
				Hex16("addr", addr).
				Hex8("val", val).
				End()
		}
		return
	}
	dev.SetData(addr, val)
}

// Peek8 reads addr without recording the access. Devices implementing Peeker
// are read without side effects.
func (b *Bus) Peek8(addr uint16) uint8 {
	switch dev := b.device(addr).(type) {
	case nil:
		return 0
	case Peeker:
		return dev.Peek8(addr)
	default:
		return dev.GetData(addr)
	}
}

// Peek16 reads a little-endian word with Peek8.
func (b *Bus) Peek16(addr uint16) uint16 {
	lo := b.Peek8(addr)
	hi := b.Peek8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// LastAccess returns the address most recently accessed through GetData or
// SetData.
func (b *Bus) LastAccess() LastAccess {
	return b.last
}

// PerformClockActions ticks all devices once, in registration order.
func (b *Bus) PerformClockActions() {
	for _, dev := range b.Devices {
		dev.PerformClockAction(b.last)
	}
}

// Read16 reads a little-endian word at addr.
func Read16(b *Bus, addr uint16) uint16 {
	lo := b.GetData(addr)
	hi := b.GetData(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Write16 writes a little-endian word at addr.
func Write16(b *Bus, addr uint16, val uint16) {
	b.SetData(addr, uint8(val&0xff))
	b.SetData(addr+1, uint8(val>>8))
}

func logAccess(msg, name string, addr uint16) {
	log.ModHwIo.ErrorZ(msg).
		String("name", name).
		Hex16("addr", addr).
		End()
}
