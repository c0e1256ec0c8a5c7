package riscv

// execLUI implements LUI: rd = imm_U (sign-extended, low 12 bits zero).
func execLUI(m *Machine, d Decoded) error {
	defer m.advance()
	return m.CPU.SetRegister(d.Rd, uint64(d.ImmU))
}

// execAUIPC implements AUIPC: rd = PC + imm_U, 64-bit wrapping.
func execAUIPC(m *Machine, d Decoded) error {
	defer m.advance()
	return m.CPU.SetRegister(d.Rd, m.CPU.PC+uint64(d.ImmU))
}
