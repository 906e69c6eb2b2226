package log

import (
	"fmt"
	"strconv"
)

type fieldKind uint8

const (
	kindString fieldKind = iota
	kindHex16
	kindInt
	kindError
	kindStringer
)

// zfield is a log field stored without boxing, formatted only when the
// entry is emitted.
type zfield struct {
	kind fieldKind
	key  string
	str  string
	num  int64
	err  error
	sv   fmt.Stringer
}

func (f *zfield) value() string {
	switch f.kind {
	case kindString:
		return f.str
	case kindHex16:
		return fmt.Sprintf("%04x", uint16(f.num))
	case kindInt:
		return strconv.FormatInt(f.num, 10)
	case kindError:
		if f.err == nil {
			return "<nil>"
		}
		return f.err.Error()
	case kindStringer:
		return f.sv.String()
	}
	return ""
}
