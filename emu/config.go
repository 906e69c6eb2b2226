package emu

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"mos6502/emu/log"
	"mos6502/hw/hwio"
)

// Config describes a machine: the CPU settings and the devices mapped on its
// bus.
type Config struct {
	CPU      CPUConfig      `toml:"cpu"`
	Memory   []MemConfig    `toml:"memory"` // in bus order
	Terminal TerminalConfig `toml:"terminal"`
	Timer    TimerConfig    `toml:"timer"`

	TraceOut io.Writer `toml:"-"`

	dir string // relative image paths are resolved from there
}

type CPUConfig struct {
	StartPC    *uint16 `toml:"start_pc"`   // overrides the reset vector
	SuccessPC  *uint16 `toml:"success_pc"` // trap address of a successful run
	MaxCycles  int64   `toml:"max_cycles"` // 0 means no limit
	StopOnTrap bool    `toml:"stop_on_trap"`
}

type MemConfig struct {
	Name  string  `toml:"name"`
	Kind  string  `toml:"kind"` // ram or rom
	Start uint16  `toml:"start"`
	End   uint16  `toml:"end"`
	Image string  `toml:"image"` // raw binary, optional
	Load  *uint16 `toml:"load"`  // image load address, defaults to Start
}

type TerminalConfig struct {
	Enabled bool   `toml:"enabled"`
	Data    uint16 `toml:"data"`
	Status  uint16 `toml:"status"`
}

type TimerConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    uint16 `toml:"addr"`
}

const (
	kindRAM = "ram"
	kindROM = "rom"
)

// DefaultConfig returns a machine with 64KB of RAM and no peripherals.
func DefaultConfig() Config {
	return Config{
		CPU: CPUConfig{StopOnTrap: true},
		Memory: []MemConfig{
			{Name: "ram", Kind: kindRAM, Start: 0x0000, End: 0xFFFF},
		},
		Terminal: TerminalConfig{Data: 0xF001, Status: 0xF004},
		Timer:    TimerConfig{Addr: 0xF010},
	}
}

// LoadConfig loads and checks the machine configuration at path. Settings
// missing from the file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	cfg.Memory = nil

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	for _, key := range md.Undecoded() {
		log.ModEmu.WarnZ("Unknown config key").String("key", key.String()).End()
	}

	if len(cfg.Memory) == 0 {
		cfg.Memory = DefaultConfig().Memory
	}
	cfg.dir = filepath.Dir(path)

	if err := cfg.Check(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Check validates the configuration. Overlapping memories are legal, the
// first one declared shadows the others, but a warning is logged.
func (cfg *Config) Check() error {
	if len(cfg.Memory) == 0 {
		return fmt.Errorf("no memory configured")
	}

	for i := range cfg.Memory {
		mc := &cfg.Memory[i]
		if mc.Name == "" {
			mc.Name = fmt.Sprintf("mem%d", i)
		}
		switch mc.Kind {
		case "":
			mc.Kind = kindRAM
		case kindRAM, kindROM:
		default:
			return fmt.Errorf("memory %q: invalid kind %q", mc.Name, mc.Kind)
		}
		if mc.End < mc.Start {
			return fmt.Errorf("memory %q: invalid range $%04X-$%04X", mc.Name, mc.Start, mc.End)
		}
		if mc.Load != nil && !mc.rng().Request(*mc.Load) {
			return fmt.Errorf("memory %q: load address $%04X out of range %s", mc.Name, *mc.Load, mc.rng())
		}
	}

	for i, a := range cfg.Memory {
		for _, b := range cfg.Memory[i+1:] {
			if a.rng().Overlaps(b.rng()) {
				log.ModEmu.WarnZ("Overlapping memories").
					String("first", a.Name).
					String("shadowed", b.Name).
					End()
			}
		}
	}

	if cfg.Terminal.Enabled && cfg.Terminal.Data == cfg.Terminal.Status {
		return fmt.Errorf("terminal: data and status registers share address $%04X", cfg.Terminal.Data)
	}
	if cfg.Terminal.Enabled && cfg.Timer.Enabled &&
		(cfg.Timer.Addr == cfg.Terminal.Data || cfg.Timer.Addr == cfg.Terminal.Status) {
		return fmt.Errorf("timer: address $%04X already used by the terminal", cfg.Timer.Addr)
	}
	return nil
}

func (mc *MemConfig) rng() hwio.Range {
	return hwio.Range{Start: mc.Start, End: mc.End}
}

// build creates the memory device, loaded with its image if any.
func (mc *MemConfig) build(dir string) (*hwio.Mem, error) {
	var img []byte
	if mc.Image != "" {
		path := mc.Image
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		var err error
		if img, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
	}

	load := mc.Start
	if mc.Load != nil {
		load = *mc.Load
	}

	var mem *hwio.Mem
	switch mc.Kind {
	case kindROM:
		data := make([]byte, mc.rng().Len())
		copy(data[load-mc.Start:], img)
		mem = hwio.NewROM(mc.Name, mc.Start, data)
	default:
		mem = hwio.NewRAM(mc.Name, mc.Start, mc.End)
		mem.Load(load, img)
	}

	if avail := int(mc.End) - int(load) + 1; len(img) > avail {
		log.ModEmu.WarnZ("Image truncated").
			String("mem", mc.Name).
			Int("size", len(img)).
			Int("loaded", avail).
			End()
	}

	log.ModEmu.InfoZ("Mapped memory").
		String("name", mc.Name).
		String("kind", mc.Kind).
		Stringer("range", mc.rng()).
		Int("image", len(img)).
		End()
	return mem, nil
}
