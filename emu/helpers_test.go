package emu

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// load writes the bytes given in hex into the machine memory, at addr.
func load(tb testing.TB, m *Machine, addr uint16, hexstr string) {
	tb.Helper()

	buf, err := hex.DecodeString(strings.Join(strings.Fields(hexstr), ""))
	require.NoError(tb, err)
	for i, b := range buf {
		m.Bus.SetData(addr+uint16(i), b)
	}
}

// newTestMachine returns a machine with 64KB of RAM starting at $0400, with
// prog loaded there.
func newTestMachine(tb testing.TB, cfg Config, prog string) *Machine {
	tb.Helper()

	if cfg.CPU.StartPC == nil {
		cfg.CPU.StartPC = ptr[uint16](0x0400)
	}
	m, err := New(cfg, nil, nil)
	require.NoError(tb, err)
	load(tb, m, 0x0400, prog)
	return m
}
