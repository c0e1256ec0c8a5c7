package trace

import "github.com/rv64i/emulator/riscv"

// Statistics counts executed instructions by opcode class, for the
// debugger/API's "stats" surface.
type Statistics struct {
	ByOpcode map[uint32]uint64
	Total    uint64
}

// NewStatistics returns an empty collector.
func NewStatistics() *Statistics {
	return &Statistics{ByOpcode: make(map[uint32]uint64)}
}

// Hook is a riscv.TraceHook suitable for Machine.AddTraceHook.
func (s *Statistics) Hook(addr uint64, d riscv.Decoded, err error) {
	s.ByOpcode[d.Opcode]++
	s.Total++
}

// Reset clears all counters without discarding the collector.
func (s *Statistics) Reset() {
	s.ByOpcode = make(map[uint32]uint64)
	s.Total = 0
}

// Coverage records the set of distinct addresses that have been fetched
// at least once, for the debugger/API's "coverage" surface.
type Coverage struct {
	seen map[uint64]struct{}
}

// NewCoverage returns an empty coverage collector.
func NewCoverage() *Coverage {
	return &Coverage{seen: make(map[uint64]struct{})}
}

// Hook is a riscv.TraceHook suitable for Machine.AddTraceHook.
func (c *Coverage) Hook(addr uint64, d riscv.Decoded, err error) {
	c.seen[addr] = struct{}{}
}

// Addresses returns every distinct address recorded so far, in no
// particular order.
func (c *Coverage) Addresses() []uint64 {
	out := make([]uint64, 0, len(c.seen))
	for addr := range c.seen {
		out = append(out, addr)
	}
	return out
}

// Count returns the number of distinct addresses recorded so far.
func (c *Coverage) Count() int {
	return len(c.seen)
}
