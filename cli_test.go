package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mos6502/emu/log"
)

func TestParseLogModules(t *testing.T) {
	tests := []struct {
		list   string
		mask   log.ModuleMask
		nolog  bool
		errmsg string
	}{
		{list: "cpu", mask: log.ModCPU.Mask()},
		{list: "cpu,emu", mask: log.ModCPU.Mask() | log.ModEmu.Mask()},
		{list: "all", mask: log.ModuleMaskAll},
		{list: "cpu,all", mask: log.ModuleMaskAll},
		{list: "no", nolog: true},
		{list: "no,cpu", errmsg: "cannot combine 'no' with other log modules"},
		{list: "all,no", errmsg: "cannot use 'all' and 'no' together"},
		{list: "gpu", errmsg: "unknown log module gpu"},
	}
	for _, tt := range tests {
		t.Run(tt.list, func(t *testing.T) {
			mask, nolog, err := parseLogModules(tt.list)
			if tt.errmsg != "" {
				require.EqualError(t, err, tt.errmsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.mask, mask)
			assert.Equal(t, tt.nolog, nolog)
		})
	}
}

func TestOutfile(t *testing.T) {
	var f outfile
	require.NoError(t, f.open("stderr"))
	assert.Equal(t, "stderr", f.String())
	assert.Same(t, os.Stderr, f.w)
	require.NoError(t, f.Close())

	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, f.open(path))
	_, err := f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf))
}

func TestRunMain(t *testing.T) {
	dir := t.TempDir()

	// LDX #$05 ; DEX ; BNE -3 ; JMP $0405
	prog := []byte{0xa2, 0x05, 0xca, 0xd0, 0xfd, 0x4c, 0x05, 0x04}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prog.bin"), prog, 0644))

	writeConfig := func(successPC string) string {
		path := filepath.Join(dir, "machine.toml")
		config := `
[cpu]
start_pc = 0x0400
success_pc = ` + successPC + `

[[memory]]
name = "ram"
start = 0x0000
end = 0xFFFF
image = "prog.bin"
load = 0x0400
`
		require.NoError(t, os.WriteFile(path, []byte(config), 0644))
		return path
	}

	t.Run("success", func(t *testing.T) {
		state := &outfile{}
		statePath := filepath.Join(dir, "state.json")
		require.NoError(t, state.open(statePath))

		code := runMain(Run{Config: writeConfig("0x0405"), State: state})
		assert.Equal(t, 0, code)

		buf, err := os.ReadFile(statePath)
		require.NoError(t, err)
		assert.Contains(t, string(buf), `"pc":1029`)
		assert.Contains(t, string(buf), `"x":0`)
	})

	t.Run("failure", func(t *testing.T) {
		code := runMain(Run{Config: writeConfig("0x3469")})
		assert.Equal(t, 1, code)
	})

	t.Run("trace", func(t *testing.T) {
		trace := &outfile{}
		tracePath := filepath.Join(dir, "trace.log")
		require.NoError(t, trace.open(tracePath))

		code := runMain(Run{Config: writeConfig("0x0405"), Trace: trace, Cycles: 4})
		assert.Equal(t, 0, code)

		buf, err := os.ReadFile(tracePath)
		require.NoError(t, err)
		assert.Equal(t, "0400  A2 05     LDX   A:00 X:00 Y:00 P:20 S:FF CYC:0\n"+
			"0402  CA        DEX   A:00 X:05 Y:00 P:20 S:FF CYC:2\n", string(buf))
	})
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		s       string
		want    uint16
		wantErr bool
	}{
		{s: "1024", want: 0x0400},
		{s: "0x0400", want: 0x0400},
		{s: "$FFFC", want: 0xfffc},
		{s: "0b11", want: 3},
		{s: "0x10000", wantErr: true},
		{s: "zz", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseAddress(tt.s)
		if tt.wantErr {
			assert.Error(t, err, tt.s)
			continue
		}
		require.NoError(t, err, tt.s)
		assert.Equal(t, tt.want, got, tt.s)
	}
}

func TestDisasmMain(t *testing.T) {
	dir := t.TempDir()

	// LDX #$05 ; DEX ; BNE -3 ; JMP $0405
	prog := []byte{0xa2, 0x05, 0xca, 0xd0, 0xfd, 0x4c, 0x05, 0x04}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prog.bin"), prog, 0644))

	path := filepath.Join(dir, "machine.toml")
	config := `
[cpu]
start_pc = 0x0400

[[memory]]
start = 0x0000
end = 0xFFFF
image = "prog.bin"
load = 0x0400
`
	require.NoError(t, os.WriteFile(path, []byte(config), 0644))

	var buf bytes.Buffer
	disasmMain(Disasm{Config: path, Count: 4}, &buf)
	assert.Equal(t, ""+
		"0400  A2 05     LDX #$05\n"+
		"0402  CA        DEX\n"+
		"0403  D0 FD     BNE $0402\n"+
		"0405  4C 05 04  JMP $0405\n", buf.String())

	buf.Reset()
	from := address(0x0402)
	disasmMain(Disasm{Config: path, From: &from, Count: 1}, &buf)
	assert.Equal(t, "0402  CA        DEX\n", buf.String())
}
