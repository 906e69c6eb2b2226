package hwio

import "fmt"

// LastAccess is the address most recently read or written by the CPU. Valid
// is false until the first access, e.g. right after power up.
type LastAccess struct {
	Addr  uint16
	Valid bool
}

func (la LastAccess) String() string {
	if !la.Valid {
		return "none"
	}
	return fmt.Sprintf("$%04X", la.Addr)
}

// A Device is an addressable peripheral plugged on a Bus.
type Device interface {
	// Request reports whether the device owns addr. It must be pure and
	// agree with GetData and SetData.
	Request(addr uint16) bool

	GetData(addr uint16) uint8
	SetData(addr uint16, val uint8)

	// PerformClockAction is called once per retired CPU instruction, devices
	// use it to complete asynchronous effects. They must tolerate an invalid
	// last access.
	PerformClockAction(last LastAccess)
}

// A Peeker is a device able to read without side effects (debugging/tracing).
type Peeker interface {
	Peek8(addr uint16) uint8
}

// Range is an inclusive address range, immutable once the device is built.
// Embed it to implement Device.Request.
type Range struct {
	Start, End uint16
}

func (r Range) Request(addr uint16) bool {
	return addr >= r.Start && addr <= r.End
}

// Len returns the number of addresses in the range.
func (r Range) Len() int {
	return int(r.End) - int(r.Start) + 1
}

func (r Range) Overlaps(o Range) bool {
	return r.Start <= o.End && o.Start <= r.End
}

func (r Range) String() string {
	return fmt.Sprintf("$%04X-$%04X", r.Start, r.End)
}

func mustRange(start, end uint16) Range {
	if end < start {
		panic(fmt.Sprintf("hwio: invalid range $%04X-$%04X", start, end))
	}
	return Range{Start: start, End: end}
}

type RWFlags uint8

const (
	ReadWriteFlag RWFlags = 0
	ReadOnlyFlag  RWFlags = (1 << iota)
	WriteOnlyFlag
)

// Manual is a Device that allows manual management of an entire range of
// memory through callbacks. Missing callbacks read as 0 and ignore writes.
type Manual struct {
	Range
	Name  string // name of the area (for debugging)
	Flags RWFlags

	ReadCb  func(addr uint16) uint8
	PeekCb  func(addr uint16) uint8
	WriteCb func(addr uint16, val uint8)
	ClockCb func(last LastAccess)
}

// NewManual returns a callback device covering [start, end].
func NewManual(name string, start, end uint16) *Manual {
	return &Manual{Name: name, Range: mustRange(start, end)}
}

func (d *Manual) GetData(addr uint16) uint8 {
	switch {
	case d.Flags&WriteOnlyFlag != 0:
		logAccess("invalid read from writeonly device", d.Name, addr)
		fallthrough
	case d.ReadCb == nil:
		return 0
	}
	return d.ReadCb(addr)
}

func (d *Manual) Peek8(addr uint16) uint8 {
	if d.PeekCb != nil {
		return d.PeekCb(addr)
	}
	return 0
}

func (d *Manual) SetData(addr uint16, val uint8) {
	switch {
	case d.Flags&ReadOnlyFlag != 0:
		logAccess("invalid write to readonly device", d.Name, addr)
		fallthrough
	case d.WriteCb == nil:
		return
	}
	d.WriteCb(addr, val)
}

func (d *Manual) PerformClockAction(last LastAccess) {
	if d.ClockCb != nil {
		d.ClockCb(last)
	}
}
