package riscv

// execLoad implements the LOAD class: LB, LH, LW, LD, LBU, LHU, LWU.
// Effective address = rs1 + imm_I. On InvalidAddressError no register is
// updated, but PC still advances so execution can continue.
func execLoad(m *Machine, d Decoded) error {
	defer m.advance()

	rs1, err := m.CPU.GetRegister(d.Rs1)
	if err != nil {
		return err
	}
	addr := rs1 + uint64(d.ImmI)

	var width int
	var signed bool
	switch d.Funct3 {
	case 0b000:
		width, signed = 8, true // LB
	case 0b001:
		width, signed = 16, true // LH
	case 0b010:
		width, signed = 32, true // LW
	case 0b011:
		width, signed = 64, false // LD
	case 0b100:
		width, signed = 8, false // LBU
	case 0b101:
		width, signed = 16, false // LHU
	case 0b110:
		width, signed = 32, false // LWU
	default:
		return &DecodeError{Address: m.CPU.PC, Word: d.Word, Reason: "unknown LOAD funct3"}
	}

	value, err := m.Memory.Read(addr, width)
	if err != nil {
		return err
	}
	if signed {
		value = signExtendWidth(value, width)
	}
	return m.CPU.SetRegister(d.Rd, value)
}

// signExtendWidth sign-extends the low width bits of value to a full
// 64-bit value.
func signExtendWidth(value uint64, width int) uint64 {
	shift := uint(64 - width)
	return uint64(int64(value<<shift) >> shift)
}
