package riscv

// execMiscMem implements the MISC-MEM class. FENCE is a semantic no-op:
// the sequential interpreter already preserves program-order memory
// access, so there is nothing to do beyond advancing PC.
func execMiscMem(m *Machine, d Decoded) error {
	defer m.advance()
	return nil
}

// execSystem implements the SYSTEM class: ECALL/EBREAK (recognized,
// no-op) and the six Zicsr instructions.
func execSystem(m *Machine, d Decoded) error {
	defer m.advance()

	switch d.Funct3 {
	case 0b000: // ECALL / EBREAK
		return nil
	case 0b001:
		return csrrw(m, d)
	case 0b010:
		return csrrs(m, d)
	case 0b011:
		return csrrc(m, d)
	case 0b101:
		return csrrwi(m, d)
	case 0b110:
		return csrrsi(m, d)
	case 0b111:
		return csrrci(m, d)
	default:
		return &DecodeError{Address: m.CPU.PC, Word: d.Word, Reason: "unknown SYSTEM funct3"}
	}
}

// csrrw: old = CSR[csr]; rd = old; CSR[csr] = rs1, unconditionally. The
// read happens before the write so CSRRW x, csr, x is well defined.
func csrrw(m *Machine, d Decoded) error {
	old, err := m.CPU.GetCSR(d.Csr)
	if err != nil {
		return err
	}
	rs1, err := m.CPU.GetRegister(d.Rs1)
	if err != nil {
		return err
	}
	if err := m.CPU.SetCSR(d.Csr, rs1); err != nil {
		return err
	}
	return m.CPU.SetRegister(d.Rd, old)
}

// csrrs: old = CSR[csr]; rd = old; if rs1 != x0: CSR[csr] = old | rs1.
func csrrs(m *Machine, d Decoded) error {
	old, err := m.CPU.GetCSR(d.Csr)
	if err != nil {
		return err
	}
	rs1, err := m.CPU.GetRegister(d.Rs1)
	if err != nil {
		return err
	}
	if d.Rs1 != 0 {
		if err := m.CPU.SetCSR(d.Csr, old|rs1); err != nil {
			return err
		}
	}
	return m.CPU.SetRegister(d.Rd, old)
}

// csrrc: old = CSR[csr]; rd = old; if rs1 != x0: CSR[csr] = old &^ rs1.
func csrrc(m *Machine, d Decoded) error {
	old, err := m.CPU.GetCSR(d.Csr)
	if err != nil {
		return err
	}
	rs1, err := m.CPU.GetRegister(d.Rs1)
	if err != nil {
		return err
	}
	if d.Rs1 != 0 {
		if err := m.CPU.SetCSR(d.Csr, old&^rs1); err != nil {
			return err
		}
	}
	return m.CPU.SetRegister(d.Rd, old)
}

// csrrwi: old = CSR[csr]; if rd != x0: rd = old; CSR[csr] = uimm (the
// rs1 field read as a zero-extended 5-bit immediate).
func csrrwi(m *Machine, d Decoded) error {
	old, err := m.CPU.GetCSR(d.Csr)
	if err != nil {
		return err
	}
	uimm := uint64(d.Rs1)
	if err := m.CPU.SetCSR(d.Csr, uimm); err != nil {
		return err
	}
	if d.Rd != 0 {
		return m.CPU.SetRegister(d.Rd, old)
	}
	return nil
}

// csrrsi: old = CSR[csr]; rd = old; if uimm != 0: CSR[csr] = old | uimm.
func csrrsi(m *Machine, d Decoded) error {
	old, err := m.CPU.GetCSR(d.Csr)
	if err != nil {
		return err
	}
	uimm := uint64(d.Rs1)
	if uimm != 0 {
		if err := m.CPU.SetCSR(d.Csr, old|uimm); err != nil {
			return err
		}
	}
	return m.CPU.SetRegister(d.Rd, old)
}

// csrrci: old = CSR[csr]; rd = old; if uimm != 0: CSR[csr] = old &^ uimm.
func csrrci(m *Machine, d Decoded) error {
	old, err := m.CPU.GetCSR(d.Csr)
	if err != nil {
		return err
	}
	uimm := uint64(d.Rs1)
	if uimm != 0 {
		if err := m.CPU.SetCSR(d.Csr, old&^uimm); err != nil {
			return err
		}
	}
	return m.CPU.SetRegister(d.Rd, old)
}
