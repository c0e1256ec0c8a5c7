package riscv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeImmI(t *testing.T) {
	d := Decode(0x00308113) // addi x2, x1, 3
	assert.Equal(t, int64(3), d.ImmI)
	d = Decode(0xFF308113) // addi x2, x1, -13
	assert.Equal(t, int64(-13), d.ImmI)
}

func TestDecodeImmU(t *testing.T) {
	d := Decode(0x12345097) // auipc x1, 0x12345
	assert.Equal(t, int64(0x12345000), d.ImmU)
}

func TestDecodeImmJ(t *testing.T) {
	d := Decode(0x400000EF) // jal x1, 1024
	assert.Equal(t, int64(1024), d.ImmJ)
}

func TestDecodeImmB(t *testing.T) {
	d := Decode(0x00406463) // bltu x0, x4, 8
	assert.Equal(t, int64(8), d.ImmB)
}

func TestDecodeFields(t *testing.T) {
	d := Decode(0x00308113)
	assert.Equal(t, OpOpImm, d.Opcode)
	assert.Equal(t, 2, d.Rd)
	assert.Equal(t, 1, d.Rs1)
	assert.Equal(t, uint32(0), d.Funct3)
}
