package main

import (
	"fmt"
	"io"

	"mos6502/emu"
	"mos6502/hw"
)

// disasmMain prints args.Count instructions of the machine memory, starting
// at the reset vector unless --from is given.
func disasmMain(args Disasm, w io.Writer) {
	cfg, err := emu.LoadConfig(args.Config)
	checkf(err, "failed to load configuration %s", args.Config)

	m, err := emu.New(cfg, nil, nil)
	checkf(err, "failed to create machine")

	pc := m.CPU.PC
	if args.From != nil {
		pc = uint16(*args.From)
	}
	for range args.Count {
		op := hw.Disasm(m.Bus, pc)
		fmt.Fprintln(w, op)
		pc += uint16(len(op.Bytes))
	}
}
