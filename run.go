package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/profile"

	"mos6502/emu"
	"mos6502/emu/log"
)

// runMain runs the machine described by the configuration file until it
// stops, and returns the process exit code.
func runMain(args Run) int {
	cfg, err := emu.LoadConfig(args.Config)
	checkf(err, "failed to load configuration %s", args.Config)

	if args.Cycles != 0 {
		cfg.CPU.MaxCycles = args.Cycles
	}

	if args.Trace != nil {
		defer args.Trace.Close()
		bw := bufio.NewWriter(args.Trace)
		defer bw.Flush()
		cfg.TraceOut = bw
	}

	m, err := emu.New(cfg, os.Stdin, os.Stdout)
	checkf(err, "failed to create machine")

	if args.CPUProfile != "" {
		defer profile.Start(
			profile.CPUProfile,
			profile.ProfilePath(args.CPUProfile),
			profile.NoShutdownHook,
		).Stop()
	}

	// Stop at the next instruction boundary on Ctrl-C.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		m.Stop()
	}()

	reason, err := m.Run()
	log.ModEmu.InfoZ("Machine stopped").
		Stringer("reason", reason.Kind).
		Hex16("PC", reason.PC).
		Int64("cycles", reason.Cycles).
		End()

	if args.State != nil {
		defer args.State.Close()
		if err := writeState(m, args.State); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write state: %s\n", err)
			return 1
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		fmt.Fprintf(os.Stderr, "backtrace: %s\n", m.Backtrace())
		return 1
	}

	fmt.Fprintln(os.Stderr, reason)
	if !m.Passed(reason) {
		return 1
	}
	return 0
}

func writeState(m *emu.Machine, w *outfile) error {
	buf, err := m.SaveState()
	if err != nil {
		return err
	}
	_, err = w.Write(append(buf, '\n'))
	return err
}
