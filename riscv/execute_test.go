package riscv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	return NewMachine(DRAMBaseAddr, DRAMSize)
}

func step(t *testing.T, m *Machine, word uint32) error {
	t.Helper()
	require.NoError(t, m.Memory.Write(m.CPU.PC, 32, uint64(word)))
	return m.Step()
}

func TestADDIPositive(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.CPU.SetRegister(1, 5))
	require.NoError(t, step(t, m, 0x00308113))
	got, err := m.CPU.GetRegister(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), got)
}

func TestADDINegativeSignExtension(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.CPU.SetRegister(1, 5))
	require.NoError(t, step(t, m, 0xFF308113))
	got, err := m.CPU.GetRegister(2)
	require.NoError(t, err)
	assert.Equal(t, int64(-8), int64(got))
}

func TestSRAIOnNegativeOne(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.CPU.SetRegister(3, 0xFFFFFFFFFFFFFFFF))
	require.NoError(t, step(t, m, 0x41F1D193))
	got, err := m.CPU.GetRegister(3)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), got)
}

func TestSRLIShamt32IsNotDecodeError(t *testing.T) {
	// srli x5, x1, 32 -- shamt=32 needs bit 25 (shamt[5]) set, which
	// also happens to be funct7 bit 0; that bit must not be mistaken
	// for a malformed-instruction signal.
	m := newTestMachine(t)
	require.NoError(t, m.CPU.SetRegister(1, 0xFFFFFFFFFFFFFFFF))
	require.NoError(t, step(t, m, encodeI(OpOpImm, 5, 0b101, 1, 0x020)))
	got, err := m.CPU.GetRegister(5)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xFFFFFFFF), got)
}

func TestSRAIShamt40IsNotDecodeError(t *testing.T) {
	// srai x5, x1, 40 -- arithmetic variant at a shift amount above 31,
	// exercising the same shamt[5]/funct7-bit-0 overlap as SRLI above.
	m := newTestMachine(t)
	require.NoError(t, m.CPU.SetRegister(1, 0x8000000000000000))
	require.NoError(t, step(t, m, encodeI(OpOpImm, 5, 0b101, 1, 0x428)))
	got, err := m.CPU.GetRegister(5)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xFFFFFFFFFF800000), got)
}

func TestAUIPC(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, step(t, m, 0x12345097))
	got, err := m.CPU.GetRegister(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x92345000), got)
}

func TestJALForward(t *testing.T) {
	m := newTestMachine(t)
	base := m.CPU.PC
	require.NoError(t, step(t, m, 0x400000EF))
	link, err := m.CPU.GetRegister(1)
	require.NoError(t, err)
	assert.Equal(t, base+4, link)
	assert.Equal(t, base+1024, m.CPU.PC)
}

func TestBranchBLTUUnsignedComparison(t *testing.T) {
	m := newTestMachine(t)
	base := m.CPU.PC
	require.NoError(t, m.CPU.SetRegister(1, 5))
	require.NoError(t, m.CPU.SetRegister(4, 0xFFFFFFFF))
	require.NoError(t, step(t, m, 0x00406463))
	assert.Equal(t, base+8, m.CPU.PC)
}

func TestCSRRWReadBeforeWrite(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.CPU.SetRegister(18, 0xAAAAAAAA))
	require.NoError(t, step(t, m, 0x30591573))
	x10, err := m.CPU.GetRegister(10)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), x10)
	csr, err := m.CPU.GetCSR(0x305)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xAAAAAAAA), csr)
}

func TestCSRRSAccumulate(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.CPU.SetRegister(18, 0xAAAAAAAA))
	require.NoError(t, step(t, m, 0x30591573)) // csrrw from scenario 7
	require.NoError(t, m.CPU.SetRegister(18, 0x55555555))
	require.NoError(t, step(t, m, 0x30592573))

	x10, err := m.CPU.GetRegister(10)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xAAAAAAAA), x10)
	csr, err := m.CPU.GetCSR(0x305)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xFFFFFFFF), csr)
}

func TestLittleEndianAlignment(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.Memory.Write(DRAMBaseAddr, 32, 0xAABBCCDD))

	b0, err := m.Memory.Read(DRAMBaseAddr, 8)
	require.NoError(t, err)
	b1, err := m.Memory.Read(DRAMBaseAddr+1, 8)
	require.NoError(t, err)
	b2, err := m.Memory.Read(DRAMBaseAddr+2, 8)
	require.NoError(t, err)
	b3, err := m.Memory.Read(DRAMBaseAddr+3, 8)
	require.NoError(t, err)

	assert.Equal(t, uint64(0xDD), b0)
	assert.Equal(t, uint64(0xCC), b1)
	assert.Equal(t, uint64(0xBB), b2)
	assert.Equal(t, uint64(0xAA), b3)
}

func TestX0AlwaysReadsZero(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.CPU.SetRegister(0, 0x1234))
	got, err := m.CPU.GetRegister(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)
}

func TestShiftMasksToLow6Bits(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.CPU.SetRegister(1, 1))
	require.NoError(t, m.CPU.SetRegister(2, 64)) // low 6 bits of 64 are 0
	require.NoError(t, step(t, m, encodeR(OpOp, 3, 0b001, 1, 2, 0)))
	got, err := m.CPU.GetRegister(3)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got)
}

func TestInvalidAddressLoadLeavesRegisterUnchanged(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.CPU.SetRegister(5, 42))
	require.NoError(t, m.CPU.SetRegister(1, DRAMBaseAddr+DRAMSize)) // one past the end
	require.Error(t, step(t, m, encodeI(OpLoad, 5, 0b000, 1, 0)))
	got, err := m.CPU.GetRegister(5)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got, "failed load must not touch the destination register")
}

func TestUnknownOpcodeIsFatal(t *testing.T) {
	m := newTestMachine(t)
	err := step(t, m, 0b1111111) // opcode 0x7F, never defined
	require.Error(t, err)
	assert.True(t, IsFatal(err))
}

// encodeR builds an R-type instruction word for tests exercising a
// specific (opcode, funct3, funct7) combination without hand-computing
// hex literals.
func encodeR(opcode uint32, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return opcode | rd<<7 | funct3<<12 | rs1<<15 | rs2<<20 | funct7<<25
}

// encodeI builds an I-type instruction word.
func encodeI(opcode uint32, rd, funct3, rs1 uint32, imm int32) uint32 {
	return opcode | rd<<7 | funct3<<12 | rs1<<15 | (uint32(imm)&0xFFF)<<20
}
