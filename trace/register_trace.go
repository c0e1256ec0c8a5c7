package trace

import "github.com/rv64i/emulator/riscv"

// RegisterDelta records a single register's value change across one step.
type RegisterDelta struct {
	Index int
	Old   uint64
	New   uint64
}

// RegisterTracer diffs the register file before and after every step and
// records which registers actually changed. It must be driven by two
// calls per step: Before (prior to Machine.Step) and installed as a
// Machine trace hook for After.
type RegisterTracer struct {
	cpu     *riscv.CPU
	before  [riscv.NumRegisters]uint64
	history [][]RegisterDelta
	keep    int
}

// NewRegisterTracer returns a tracer bound to cpu, retaining the last
// keep steps' deltas (0 = unbounded).
func NewRegisterTracer(cpu *riscv.CPU, keep int) *RegisterTracer {
	return &RegisterTracer{cpu: cpu, keep: keep}
}

// Before must be called immediately before riscv.Machine.Step.
func (t *RegisterTracer) Before() {
	t.before = t.cpu.Snapshot()
}

// Hook is a riscv.TraceHook suitable for Machine.AddTraceHook; it
// compares the snapshot taken in Before against the post-step state.
func (t *RegisterTracer) Hook(addr uint64, d riscv.Decoded, err error) {
	after := t.cpu.Snapshot()
	var deltas []RegisterDelta
	for i := 1; i < riscv.NumRegisters; i++ { // x0 never changes, skip it
		if t.before[i] != after[i] {
			deltas = append(deltas, RegisterDelta{Index: i, Old: t.before[i], New: after[i]})
		}
	}
	t.history = append(t.history, deltas)
	if t.keep > 0 && len(t.history) > t.keep {
		t.history = t.history[len(t.history)-t.keep:]
	}
}

// History returns the retained per-step delta lists, oldest first.
func (t *RegisterTracer) History() [][]RegisterDelta {
	return t.history
}
