package riscv

// TraceHook is called by Step after an instruction has fully executed.
// It receives the address the instruction was fetched from, the decoded
// instruction, and any non-fatal error raised while executing it (nil on
// success). Hooks must not mutate the machine.
type TraceHook func(addr uint64, d Decoded, err error)

// Machine ties the register/CSR file and DRAM together and drives the
// fetch-decode-execute cycle. It owns PC unconditionally: every executed
// instruction leaves PC pointing at the next instruction to fetch, be it
// PC+4 or a branch/jump target.
type Machine struct {
	CPU    *CPU
	Memory *Memory

	hooks []TraceHook
}

// NewMachine returns a machine with a fresh CPU in the boot state and a
// DRAM region of the given base/size.
func NewMachine(base, size uint64) *Machine {
	return &Machine{CPU: NewCPU(), Memory: NewMemory(base, size)}
}

// Reset reinitializes the CPU to its boot state (PC at DRAM base, stack
// pointer at the top of DRAM, all other registers and CSRs zeroed) without
// touching the loaded memory image.
func (m *Machine) Reset() {
	m.CPU = NewCPU()
}

// AddTraceHook registers a hook invoked after every Step.
func (m *Machine) AddTraceHook(h TraceHook) {
	m.hooks = append(m.hooks, h)
}

// Fetch reads the 32-bit instruction word at PC.
func (m *Machine) Fetch() (uint32, error) {
	word, err := m.Memory.Read(m.CPU.PC, 32)
	if err != nil {
		return 0, err
	}
	return uint32(word), nil
}

// Step fetches, decodes, and executes a single instruction. A
// DecodeError is returned unmodified (fatal: the caller should stop the
// run). Any other error is non-fatal per the error taxonomy: it is
// returned to the caller for logging/reporting, but the machine's state
// is left consistent and Step may be called again.
func (m *Machine) Step() error {
	addr := m.CPU.PC
	word, err := m.Fetch()
	if err != nil {
		// A failed fetch cannot be decoded or dispatched; there is
		// nothing useful left for the driver to do but stop.
		return &DecodeError{Address: addr, Word: 0, Reason: "fetch failed: " + err.Error()}
	}

	d := Decode(word)
	execErr := m.execute(d)
	m.CPU.Cycles++

	for _, h := range m.hooks {
		h(addr, d, execErr)
	}

	return execErr
}

// execute dispatches on opcode to the class-specific handler. Every
// handler is responsible for leaving CPU.PC at the correct next value.
func (m *Machine) execute(d Decoded) error {
	switch d.Opcode {
	case OpOpImm:
		return execOpImm(m, d)
	case OpOpImm32:
		return execOpImm32(m, d)
	case OpLUI:
		return execLUI(m, d)
	case OpAUIPC:
		return execAUIPC(m, d)
	case OpJAL:
		return execJAL(m, d)
	case OpJALR:
		return execJALR(m, d)
	case OpBranch:
		return execBranch(m, d)
	case OpLoad:
		return execLoad(m, d)
	case OpStore:
		return execStore(m, d)
	case OpOp:
		return execOp(m, d)
	case OpOp32:
		return execOp32(m, d)
	case OpMiscMem:
		return execMiscMem(m, d)
	case OpSystem:
		return execSystem(m, d)
	default:
		return &DecodeError{Address: m.CPU.PC, Word: d.Word, Reason: "unknown opcode"}
	}
}

// advance moves PC to the next sequential instruction. Handlers for
// non-control-transfer instructions call this unconditionally, even when
// a register/CSR/memory error aborted the instruction's effect -- PC
// still advances past the faulting instruction so the run can continue.
func (m *Machine) advance() {
	m.CPU.PC += 4
}
