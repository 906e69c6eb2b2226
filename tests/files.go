// Package tests locates, and downloads on first use, the external test data
// used by the CPU and machine tests.
package tests

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

// downloads are serialized, concurrent tests would otherwise race on the
// same destination directory.
var mu sync.Mutex

func testsDir() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Dir(b)
}

func fetch(url, dest string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// download all 256 (one per opcode) SingleStepTests 6502 files into dest dir.
func downloadProcTests(tb testing.TB, dest string) {
	const urlfmt = `https://raw.githubusercontent.com/SingleStepTests/65x02/main/6502/v1/%s.json`

	tempdir, err := os.MkdirTemp(filepath.Dir(dest), "processor.tests.*")
	if err != nil {
		tb.Fatal(err)
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for opcode := range 256 {
		opstr := fmt.Sprintf("%02x", opcode)
		url := fmt.Sprintf(urlfmt, opstr)

		g.Go(func() error {
			if err := fetch(url, filepath.Join(tempdir, opstr+".json")); err != nil {
				return err
			}
			tb.Log("downloaded", url)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		os.RemoveAll(tempdir)
		tb.Fatalf("failed to download all files: %s", err)
	}

	if err := os.Rename(tempdir, dest); err != nil {
		tb.Fatal(err)
	}
}

// ProcTestsPath returns the directory holding the SingleStepTests 6502
// vectors, one JSON file per opcode named after its lowercase hex value.
func ProcTestsPath(tb testing.TB) string {
	tb.Helper()

	mu.Lock()
	defer mu.Unlock()

	dir := filepath.Join(testsDir(), "processor.tests")
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		tb.Log("processor.tests directory not found, downloading it...")
		downloadProcTests(tb, dir)
		tb.Log("processor tests downloaded in", dir)
	}
	return dir
}

// FunctionalTestEntry is the address at which the functional test program
// starts, and FunctionalTestSuccess the address of the trap it reaches when
// all tests passed.
const (
	FunctionalTestEntry   = 0x0400
	FunctionalTestSuccess = 0x3469
)

// FunctionalTestPath returns the path to Klaus Dormann's 6502 functional test
// binary, a 64KB memory image to be loaded at $0000.
func FunctionalTestPath(tb testing.TB) string {
	tb.Helper()

	const url = `https://raw.githubusercontent.com/Klaus2m5/6502_65C02_functional_tests/master/bin_files/6502_functional_test.bin`

	mu.Lock()
	defer mu.Unlock()

	path := filepath.Join(testsDir(), "6502_functional_test.bin")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		tb.Log("functional test binary not found, downloading it...")
		tmp := path + ".tmp"
		if err := fetch(url, tmp); err != nil {
			os.Remove(tmp)
			tb.Fatal(err)
		}
		if err := os.Rename(tmp, path); err != nil {
			tb.Fatal(err)
		}
	}
	return path
}
