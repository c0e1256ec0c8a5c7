package riscv

// Decoded holds every field a handler might need, extracted once up
// front by pure bit-slicing. None of this touches machine state.
type Decoded struct {
	Word   uint32
	Opcode uint32
	Rd     int
	Rs1    int
	Rs2    int
	Funct3 uint32
	Funct7 uint32
	Shamt6 uint32 // bits[25:20], 6-bit shift amount for 64-bit shifts
	Shamt5 uint32 // bits[24:20], 5-bit shift amount for *W shifts
	Csr    int

	ImmI int64
	ImmS int64
	ImmB int64
	ImmU int64
	ImmJ int64
}

// Decode extracts every field of a 32-bit RV64I/Zicsr instruction word.
// It never fails: an unrecognized opcode is detected by the executor's
// dispatch, not here.
func Decode(word uint32) Decoded {
	d := Decoded{
		Word:   word,
		Opcode: word & 0x7F,
		Rd:     int((word >> 7) & 0x1F),
		Funct3: (word >> 12) & 0x7,
		Rs1:    int((word >> 15) & 0x1F),
		Rs2:    int((word >> 20) & 0x1F),
		Funct7: (word >> 25) & 0x7F,
		Shamt6: (word >> 20) & 0x3F,
		Shamt5: (word >> 20) & 0x1F,
		Csr:    int((word >> 20) & 0xFFF),
	}

	d.ImmI = signExtend(int64(word>>20), 11)

	immS := (int64(word>>25)<<5 | int64((word>>7)&0x1F))
	d.ImmS = signExtend(immS, 11)

	immB := (((int64(word) >> 31) & 1 << 12) |
		((int64(word) >> 7 & 1) << 11) |
		((int64(word) >> 25 & 0x3F) << 5) |
		((int64(word) >> 8 & 0xF) << 1))
	d.ImmB = signExtend(immB, 12)

	d.ImmU = signExtend(int64(word)&^0xFFF, 31)

	immJ := (((int64(word) >> 31 & 1) << 20) |
		((int64(word) >> 12 & 0xFF) << 12) |
		((int64(word) >> 20 & 1) << 11) |
		((int64(word) >> 21 & 0x3FF) << 1))
	d.ImmJ = signExtend(immJ, 20)

	return d
}

// signExtend treats value as a signBit+1-bit-wide two's-complement
// quantity and sign-extends it to a full int64.
func signExtend(value int64, signBit uint) int64 {
	shift := 63 - signBit
	return (value << shift) >> shift
}
