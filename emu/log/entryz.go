package log

import (
	"fmt"
	"sync"

	"gopkg.in/Sirupsen/logrus.v0"
)

const maxZFields = 16

// EntryZ is a fluent log entry. A nil *EntryZ is valid and discards
// everything, which is what disabled modules hand out.
type EntryZ struct {
	mod Module
	lvl Level
	msg string

	zfbuf [maxZFields]zfield
	zfidx int
}

var entryPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func NewEntryZ() *EntryZ {
	return entryPool.Get().(*EntryZ)
}

func (z *EntryZ) add(f zfield) *EntryZ {
	if z == nil {
		return nil
	}
	if z.zfidx < maxZFields {
		z.zfbuf[z.zfidx] = f
		z.zfidx++
	}
	return z
}

func (z *EntryZ) String(key, v string) *EntryZ {
	return z.add(zfield{kind: kindString, key: key, str: v})
}

func (z *EntryZ) Hex16(key string, v uint16) *EntryZ {
	return z.add(zfield{kind: kindHex16, key: key, num: int64(v)})
}

func (z *EntryZ) Int(key string, v int) *EntryZ {
	return z.add(zfield{kind: kindInt, key: key, num: int64(v)})
}

func (z *EntryZ) Int64(key string, v int64) *EntryZ {
	return z.add(zfield{kind: kindInt, key: key, num: v})
}

func (z *EntryZ) Error(key string, err error) *EntryZ {
	return z.add(zfield{kind: kindError, key: key, err: err})
}

func (z *EntryZ) Stringer(key string, v fmt.Stringer) *EntryZ {
	return z.add(zfield{kind: kindStringer, key: key, sv: v})
}

// End emits the entry and recycles it.
func (z *EntryZ) End() {
	if z == nil {
		return
	}

	fields := make(logrus.Fields, z.zfidx+1)
	fields["_mod"] = z.mod.String()
	for i := range z.zfbuf[:z.zfidx] {
		fields[z.zfbuf[i].key] = z.zfbuf[i].value()
	}
	entry := logrus.StandardLogger().WithFields(fields)

	switch z.lvl {
	case DebugLevel:
		entry.Debug(z.msg)
	case InfoLevel:
		entry.Info(z.msg)
	case WarnLevel:
		entry.Warn(z.msg)
	case ErrorLevel:
		entry.Error(z.msg)
	case FatalLevel:
		entry.Fatal(z.msg)
	default:
		entry.Panic(z.msg)
	}

	*z = EntryZ{}
	entryPool.Put(z)
}
