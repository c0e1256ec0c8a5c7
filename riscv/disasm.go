package riscv

import "fmt"

var opImmMnemonics = map[uint32]string{
	0b000: "addi", 0b010: "slti", 0b011: "sltiu", 0b100: "xori",
	0b110: "ori", 0b111: "andi", 0b001: "slli",
}

var opMnemonics = map[[2]uint32]string{
	{0b000, 0}: "add", {0b000, 0b0100000}: "sub", {0b001, 0}: "sll",
	{0b010, 0}: "slt", {0b011, 0}: "sltu", {0b100, 0}: "xor",
	{0b101, 0}: "srl", {0b101, 0b0100000}: "sra", {0b110, 0}: "or", {0b111, 0}: "and",
}

var branchMnemonics = map[uint32]string{
	0b000: "beq", 0b001: "bne", 0b100: "blt", 0b101: "bge", 0b110: "bltu", 0b111: "bgeu",
}

var loadMnemonics = map[uint32]string{
	0b000: "lb", 0b001: "lh", 0b010: "lw", 0b011: "ld", 0b100: "lbu", 0b101: "lhu", 0b110: "lwu",
}

var storeMnemonics = map[uint32]string{
	0b000: "sb", 0b001: "sh", 0b010: "sw", 0b011: "sd",
}

// Disassemble renders a decoded instruction as a short mnemonic string
// for trace output and debugger display. It has no bearing on execution
// semantics -- it is purely derived from the same decoded fields.
func Disassemble(d Decoded) string {
	switch d.Opcode {
	case OpOpImm:
		if d.Funct3 == 0b101 {
			if d.Funct7&0x20 != 0 {
				return fmt.Sprintf("srai x%d, x%d, %d", d.Rd, d.Rs1, d.Shamt6)
			}
			return fmt.Sprintf("srli x%d, x%d, %d", d.Rd, d.Rs1, d.Shamt6)
		}
		if name, ok := opImmMnemonics[d.Funct3]; ok {
			if d.Funct3 == 0b001 {
				return fmt.Sprintf("%s x%d, x%d, %d", name, d.Rd, d.Rs1, d.Shamt6)
			}
			return fmt.Sprintf("%s x%d, x%d, %d", name, d.Rd, d.Rs1, d.ImmI)
		}
	case OpOpImm32:
		switch d.Funct3 {
		case 0b000:
			return fmt.Sprintf("addiw x%d, x%d, %d", d.Rd, d.Rs1, d.ImmI)
		case 0b001:
			return fmt.Sprintf("slliw x%d, x%d, %d", d.Rd, d.Rs1, d.Shamt5)
		case 0b101:
			if d.Funct7&0x20 != 0 {
				return fmt.Sprintf("sraiw x%d, x%d, %d", d.Rd, d.Rs1, d.Shamt5)
			}
			return fmt.Sprintf("srliw x%d, x%d, %d", d.Rd, d.Rs1, d.Shamt5)
		}
	case OpLUI:
		return fmt.Sprintf("lui x%d, 0x%x", d.Rd, uint64(d.ImmU)>>12)
	case OpAUIPC:
		return fmt.Sprintf("auipc x%d, 0x%x", d.Rd, uint64(d.ImmU)>>12)
	case OpJAL:
		return fmt.Sprintf("jal x%d, %d", d.Rd, d.ImmJ)
	case OpJALR:
		return fmt.Sprintf("jalr x%d, x%d, %d", d.Rd, d.Rs1, d.ImmI)
	case OpBranch:
		if name, ok := branchMnemonics[d.Funct3]; ok {
			return fmt.Sprintf("%s x%d, x%d, %d", name, d.Rs1, d.Rs2, d.ImmB)
		}
	case OpLoad:
		if name, ok := loadMnemonics[d.Funct3]; ok {
			return fmt.Sprintf("%s x%d, %d(x%d)", name, d.Rd, d.ImmI, d.Rs1)
		}
	case OpStore:
		if name, ok := storeMnemonics[d.Funct3]; ok {
			return fmt.Sprintf("%s x%d, %d(x%d)", name, d.Rs2, d.ImmS, d.Rs1)
		}
	case OpOp:
		if name, ok := opMnemonics[[2]uint32{d.Funct3, d.Funct7}]; ok {
			return fmt.Sprintf("%s x%d, x%d, x%d", name, d.Rd, d.Rs1, d.Rs2)
		}
	case OpOp32:
		if name, ok := opMnemonics[[2]uint32{d.Funct3, d.Funct7}]; ok {
			return fmt.Sprintf("%sw x%d, x%d, x%d", name, d.Rd, d.Rs1, d.Rs2)
		}
	case OpMiscMem:
		return "fence"
	case OpSystem:
		switch d.Funct3 {
		case 0b000:
			return "ecall/ebreak"
		case 0b001:
			return fmt.Sprintf("csrrw x%d, 0x%x, x%d", d.Rd, d.Csr, d.Rs1)
		case 0b010:
			return fmt.Sprintf("csrrs x%d, 0x%x, x%d", d.Rd, d.Csr, d.Rs1)
		case 0b011:
			return fmt.Sprintf("csrrc x%d, 0x%x, x%d", d.Rd, d.Csr, d.Rs1)
		case 0b101:
			return fmt.Sprintf("csrrwi x%d, 0x%x, %d", d.Rd, d.Csr, d.Rs1)
		case 0b110:
			return fmt.Sprintf("csrrsi x%d, 0x%x, %d", d.Rd, d.Csr, d.Rs1)
		case 0b111:
			return fmt.Sprintf("csrrci x%d, 0x%x, %d", d.Rd, d.Csr, d.Rs1)
		}
	}
	return fmt.Sprintf(".word 0x%08x", d.Word)
}
