// Package loader reads a flat binary program image and copies it into a
// riscv.Machine's DRAM starting at the DRAM base address. There is no
// header, no relocations, no symbol table -- byte i of the file lands
// at DRAMBaseAddr+i.
package loader

import (
	"fmt"
	"os"

	"github.com/rv64i/emulator/riscv"
)

// LoadFile reads path and loads its contents into machine's DRAM at the
// base address. An I/O error (cannot open/read/stat the file) is fatal
// and returned wrapped with the path; an image larger than the machine's
// DRAM is reported as a wrapped InvalidAddressError.
func LoadFile(machine *riscv.Machine, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- CLI-provided program image path
	if err != nil {
		return fmt.Errorf("failed to read program image %q: %w", path, err)
	}
	return Load(machine, data)
}

// Load copies data into machine's DRAM starting at the base address.
func Load(machine *riscv.Machine, data []byte) error {
	if err := machine.Memory.LoadImage(data); err != nil {
		return fmt.Errorf("program image (%d bytes) does not fit in DRAM (%d bytes): %w",
			len(data), machine.Memory.Size(), err)
	}
	return nil
}
