package riscv

import "encoding/binary"

// Memory is the machine's DRAM: a contiguous byte region of fixed size
// mapped at a fixed base address. There are no segments, no permissions,
// and no MMU -- every address in [Base, Base+len(bytes)) is equally
// readable and writable.
type Memory struct {
	base  uint64
	bytes []byte

	reads  uint64
	writes uint64
}

// NewMemory allocates a zero-filled DRAM region of size bytes starting at
// base.
func NewMemory(base uint64, size uint64) *Memory {
	return &Memory{base: base, bytes: make([]byte, size)}
}

// Base returns the memory's mapped base address.
func (m *Memory) Base() uint64 { return m.base }

// Size returns the memory's length in bytes.
func (m *Memory) Size() uint64 { return uint64(len(m.bytes)) }

// Contains reports whether the half-open byte range [addr, addr+n) lies
// entirely within the mapped region.
func (m *Memory) Contains(addr uint64, n uint64) bool {
	if addr < m.base {
		return false
	}
	end := m.base + uint64(len(m.bytes))
	off := addr - m.base
	return off <= uint64(len(m.bytes)) && n <= uint64(len(m.bytes))-off && addr < end
}

// Read returns the little-endian value of the width-bit (8/16/32/64)
// field starting at addr. InvalidAddressError if any byte of the access
// falls outside the mapped region.
func (m *Memory) Read(addr uint64, width int) (uint64, error) {
	n := uint64(width / 8)
	if !m.Contains(addr, n) {
		return 0, &InvalidAddressError{Address: addr, Width: width}
	}
	m.reads++
	off := addr - m.base
	switch width {
	case 8:
		return uint64(m.bytes[off]), nil
	case 16:
		return uint64(binary.LittleEndian.Uint16(m.bytes[off : off+2])), nil
	case 32:
		return uint64(binary.LittleEndian.Uint32(m.bytes[off : off+4])), nil
	case 64:
		return binary.LittleEndian.Uint64(m.bytes[off : off+8]), nil
	default:
		return 0, &InvalidAddressError{Address: addr, Width: width}
	}
}

// Write stores the low width bits of value, little-endian, starting at
// addr. InvalidAddressError if any byte of the access falls outside the
// mapped region; no partial write occurs in that case.
func (m *Memory) Write(addr uint64, width int, value uint64) error {
	n := uint64(width / 8)
	if !m.Contains(addr, n) {
		return &InvalidAddressError{Address: addr, Width: width}
	}
	m.writes++
	off := addr - m.base
	switch width {
	case 8:
		m.bytes[off] = byte(value)
	case 16:
		binary.LittleEndian.PutUint16(m.bytes[off:off+2], uint16(value))
	case 32:
		binary.LittleEndian.PutUint32(m.bytes[off:off+4], uint32(value))
	case 64:
		binary.LittleEndian.PutUint64(m.bytes[off:off+8], value)
	default:
		return &InvalidAddressError{Address: addr, Width: width}
	}
	return nil
}

// LoadImage copies data into the memory starting at the mapped base
// address, as described by the flat binary image format. It is the
// loader package's sole low-level write path.
func (m *Memory) LoadImage(data []byte) error {
	if uint64(len(data)) > uint64(len(m.bytes)) {
		return &InvalidAddressError{Address: m.base + uint64(len(m.bytes)), Width: 8}
	}
	copy(m.bytes, data)
	return nil
}

// AccessCounts returns the number of completed reads and writes, for
// statistics reporting.
func (m *Memory) AccessCounts() (reads, writes uint64) {
	return m.reads, m.writes
}
