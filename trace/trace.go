// Package trace implements the optional observer layer: instruction
// trace, register delta trace, execution statistics, and address
// coverage. Every collector here is a pure observer of riscv.Machine.Step
// -- none of them may be on the path that determines execution semantics.
package trace

import (
	"fmt"
	"io"

	"github.com/rv64i/emulator/riscv"
)

// Entry is a single recorded step, used by both the instruction tracer
// and anything (such as the API's trace endpoint) that wants the last N
// executed instructions.
type Entry struct {
	Address uint64
	Word    uint32
	Mnemonic string
	Err      error
}

// InstructionTracer writes one line per executed instruction to an
// io.Writer, matching the teacher's file-based instruction trace.
type InstructionTracer struct {
	out     io.Writer
	entries []Entry
	keep    int
}

// NewInstructionTracer returns a tracer that writes to out (may be nil to
// only keep an in-memory ring buffer) and retains the last keep entries
// for programmatic inspection (0 = unbounded).
func NewInstructionTracer(out io.Writer, keep int) *InstructionTracer {
	return &InstructionTracer{out: out, keep: keep}
}

// Hook is a riscv.TraceHook suitable for Machine.AddTraceHook.
func (t *InstructionTracer) Hook(addr uint64, d riscv.Decoded, err error) {
	e := Entry{Address: addr, Word: d.Word, Mnemonic: riscv.Disassemble(d), Err: err}
	if t.out != nil {
		if err != nil {
			fmt.Fprintf(t.out, "0x%016x: %-32s ; %v\n", addr, e.Mnemonic, err)
		} else {
			fmt.Fprintf(t.out, "0x%016x: %s\n", addr, e.Mnemonic)
		}
	}
	t.entries = append(t.entries, e)
	if t.keep > 0 && len(t.entries) > t.keep {
		t.entries = t.entries[len(t.entries)-t.keep:]
	}
}

// Entries returns the retained trace entries, oldest first.
func (t *InstructionTracer) Entries() []Entry {
	return t.entries
}
