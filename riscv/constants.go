package riscv

// Memory map. The machine models a single fixed DRAM region; there is no
// MMU and no notion of privilege level.
const (
	DRAMBaseAddr uint64 = 0x8000_0000
	DRAMSize     uint64 = 1 << 20 // 1 MiB

	NumRegisters = 32
	NumCSRs      = 4096

	SPRegister = 2 // x2, stack pointer by RISC-V calling convention
	RARegister = 1 // x1, return address by RISC-V calling convention
)

// Opcodes, bits [6:0] of the instruction word.
const (
	OpOpImm   uint32 = 0b0010011
	OpOpImm32 uint32 = 0b0011011
	OpLUI     uint32 = 0b0110111
	OpAUIPC   uint32 = 0b0010111
	OpJAL     uint32 = 0b1101111
	OpJALR    uint32 = 0b1100111
	OpBranch  uint32 = 0b1100011
	OpLoad    uint32 = 0b0000011
	OpStore   uint32 = 0b0100011
	OpOp      uint32 = 0b0110011
	OpOp32    uint32 = 0b0111011
	OpMiscMem uint32 = 0b0001111
	OpSystem  uint32 = 0b1110011
)
