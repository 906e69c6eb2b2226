package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"mos6502/emu/log"
)

type mode byte

const (
	runMode     mode = iota // Run a machine
	disasmMode              // Disassemble memory
	versionMode             // Show version
)

type (
	CLI struct {
		Run     Run     `cmd:"" help:"Run a machine described by a configuration file."`
		Disasm  Disasm  `cmd:"" help:"Disassemble the memory of a machine."`
		Version Version `cmd:"" help:"Show mos6502 version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Run struct {
		Config string `arg:"" name:"/path/to/machine.toml" help:"${config_help}" required:"true" type:"existingfile"`

		Cycles     int64    `name:"cycles" help:"${cycles_help}"`
		CPUProfile string   `name:"cpuprofile" help:"${cpuprofile_help}" type:"path"`
		Trace      *outfile `name:"trace" help:"Write CPU trace log." placeholder:"FILE|stdout|stderr"`
		State      *outfile `name:"state" help:"Write the final CPU state, in JSON." placeholder:"FILE|stdout|stderr"`
	}

	Disasm struct {
		Config string `arg:"" name:"/path/to/machine.toml" help:"${config_help}" required:"true" type:"existingfile"`

		From  *address `name:"from" help:"Start address (default: reset vector)." placeholder:"ADDR"`
		Count int      `name:"count" help:"Number of instructions." default:"16"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"config_help":     "Machine configuration (TOML).",
	"cycles_help":     "Maximum number of cycles to run, overrides the configuration. (0: no limit)",
	"cpuprofile_help": "Write CPU profile in that directory.",
	"log_help":        "Enable logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("mos6502"),
		kong.Description("MOS 6502 emulator."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch cmd := ctx.Command(); {
	case cmd == "version":
		cfg.mode = versionMode
	case strings.HasPrefix(cmd, "disasm"):
		cfg.mode = disasmMode
	default:
		cfg.mode = runMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if strings.HasPrefix(ctx.Command(), "run") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	mask, nolog, err := parseLogModules(ctx.Scan.Pop().Value.(string))
	if err != nil {
		return err
	}
	if nolog {
		log.Disable()
		return nil
	}

	log.EnableDebugModules(mask)
	return nil
}

func parseLogModules(list string) (mask log.ModuleMask, nolog bool, err error) {
	allLogs := false
	for _, v := range strings.Split(list, ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return 0, false, fmt.Errorf("unknown log module %s", v)
			}
			mask |= mod.Mask()
		}
	}

	if nolog {
		if allLogs {
			return 0, false, fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if mask != 0 {
			return 0, false, fmt.Errorf("cannot combine 'no' with other log modules")
		}
		return 0, true, nil
	}

	if allLogs {
		mask = log.ModuleMaskAll
	}
	return mask, false, nil
}

type address uint16

// Decode decodes a 16-bit address, in decimal, hexadecimal (0x or $ prefix),
// octal or binary.
//
// Implements kong.MapperValue interface.
func (a *address) Decode(ctx *kong.DecodeContext) error {
	v, err := parseAddress(ctx.Scan.Pop().Value.(string))
	if err != nil {
		return err
	}
	*a = address(v)
	return nil
}

func parseAddress(s string) (uint16, error) {
	if rest, ok := strings.CutPrefix(s, "$"); ok {
		s = "0x" + rest
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return uint16(v), nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	return f.open(tok.Value.(string))
}

func (f *outfile) open(name string) error {
	f.name = name
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
