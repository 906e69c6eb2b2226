package hwio

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlagReadOnly  MemFlags = (1 << iota) // writes are dropped and logged
	MemFlagNoROLog                          // skip logging attempts to write when read-only
)

// Mem is a linear memory area (RAM or ROM) mapped over Range. When the range
// is bigger than the buffer, the buffer is mirrored.
type Mem struct {
	Range
	Name    string              // name of the memory area (for debugging)
	Data    []byte              // actual memory buffer
	Flags   MemFlags            // flags determining how the memory can be accessed
	WriteCb func(uint16, uint8) // optional, called after each successful write
}

// NewRAM returns a zeroed read-write memory covering [start, end].
func NewRAM(name string, start, end uint16) *Mem {
	r := mustRange(start, end)
	return &Mem{
		Range: r,
		Name:  name,
		Data:  make([]byte, r.Len()),
	}
}

// NewROM returns a read-only memory holding data, mapped from start. The
// range covers exactly len(data) bytes.
func NewROM(name string, start uint16, data []byte) *Mem {
	if len(data) == 0 || int(start)+len(data) > 0x10000 {
		panic("hwio: rom " + name + " does not fit in the address space")
	}
	return &Mem{
		Range: mustRange(start, uint16(int(start)+len(data)-1)),
		Name:  name,
		Data:  data,
		Flags: MemFlagReadOnly | MemFlagNoROLog,
	}
}

func (m *Mem) off(addr uint16) int {
	return int(addr-m.Start) % len(m.Data)
}

func (m *Mem) GetData(addr uint16) uint8 {
	return m.Data[m.off(addr)]
}

func (m *Mem) Peek8(addr uint16) uint8 {
	return m.Data[m.off(addr)]
}

func (m *Mem) SetData(addr uint16, val uint8) {
	if m.Flags&MemFlagReadOnly != 0 {
		if m.Flags&MemFlagNoROLog == 0 {
			logAccess("write to readonly memory", m.Name, addr)
		}
		return
	}
	m.Data[m.off(addr)] = val
	if m.WriteCb != nil {
		m.WriteCb(addr, val)
	}
}

func (m *Mem) PerformClockAction(LastAccess) {}

// Load copies buf into memory starting at addr, bypassing the read-only flag.
// It returns the number of bytes copied, stopping at the end of the range.
func (m *Mem) Load(addr uint16, buf []byte) int {
	if !m.Request(addr) {
		return 0
	}
	n := min(len(buf), int(m.End)-int(addr)+1)
	for i := range n {
		m.Data[m.off(addr+uint16(i))] = buf[i]
	}
	return n
}
