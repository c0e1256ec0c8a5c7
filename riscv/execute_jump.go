package riscv

// execJAL implements JAL: rd = PC+4; PC = PC + imm_J.
func execJAL(m *Machine, d Decoded) error {
	link := m.CPU.PC + 4
	target := m.CPU.PC + uint64(d.ImmJ)

	err := m.CPU.SetRegister(d.Rd, link)
	m.CPU.PC = target
	return err
}

// execJALR implements JALR: target = (rs1+imm_I) with bit 0 cleared;
// rd = PC+4 using the pre-update PC (legal even when rd==rs1); PC = target.
func execJALR(m *Machine, d Decoded) error {
	rs1, err := m.CPU.GetRegister(d.Rs1)
	if err != nil {
		m.advance()
		return err
	}

	link := m.CPU.PC + 4
	target := (rs1 + uint64(d.ImmI)) &^ 1

	err = m.CPU.SetRegister(d.Rd, link)
	m.CPU.PC = target
	return err
}
