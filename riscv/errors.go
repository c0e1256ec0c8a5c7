package riscv

import "fmt"

// DecodeError reports an unknown opcode, or an unknown funct3/funct7
// combination within a known opcode class. It is fatal: the machine that
// produced it must stop.
type DecodeError struct {
	Address uint64
	Word    uint32
	Reason  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error at 0x%08x: instruction 0x%08x: %s", e.Address, e.Word, e.Reason)
}

// InvalidRegisterIndexError reports a register index outside [0,32). Per
// the error taxonomy this is non-fatal: the instruction that triggered it
// is skipped and execution continues.
type InvalidRegisterIndexError struct {
	Index int
}

func (e *InvalidRegisterIndexError) Error() string {
	return fmt.Sprintf("invalid register index %d", e.Index)
}

// InvalidCsrIndexError reports a CSR index outside [0,4096). Non-fatal.
type InvalidCsrIndexError struct {
	Index int
}

func (e *InvalidCsrIndexError) Error() string {
	return fmt.Sprintf("invalid CSR index %d", e.Index)
}

// InvalidAddressError reports a load/store effective address outside the
// machine's DRAM range. Non-fatal: no register is updated on load, no
// memory is modified on store.
type InvalidAddressError struct {
	Address uint64
	Width   int
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address 0x%016x (width %d)", e.Address, e.Width)
}

// IsFatal reports whether err must halt the driver loop. DecodeError is
// the only fatal case produced by the interpreter itself; I/O and config
// errors raised by surrounding packages are fatal by construction of
// their own call sites.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DecodeError)
	return ok
}
