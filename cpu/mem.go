package cpu

import (
	"encoding/binary"
)

// FaultKind classifies a memory fault.
type FaultKind int

//go:generate go tool stringer -linecomment -type=FaultKind
const (
	FAULT_OUT_OF_BOUNDS = FaultKind(0) // out-of-bounds
	FAULT_MISALIGNED    = FaultKind(1) // misaligned
)

// Access widths, in bytes.
const (
	WIDTH_BYTE = 1
	WIDTH_HALF = 2
	WIDTH_WORD = 4
)

// Memory is a flat little-endian byte memory with a fixed capacity.
// Every access is bounds checked, and halfword/word accesses require
// natural alignment. A failed access touches nothing.
type Memory struct {
	Data []byte
}

// NewMemory creates a memory of the given capacity in bytes.
func NewMemory(capacity uint32) (m *Memory) {
	m = &Memory{
		Data: make([]byte, capacity),
	}

	return
}

// Capacity returns the addressable size in bytes.
func (m *Memory) Capacity() uint32 {
	return uint32(len(m.Data))
}

// check validates the bounds and alignment of an access.
func (m *Memory) check(addr uint32, width int) (err error) {
	switch width {
	case WIDTH_BYTE, WIDTH_HALF, WIDTH_WORD:
		// pass
	default:
		return ErrWidth
	}

	if uint64(addr)+uint64(width) > uint64(len(m.Data)) {
		return MemFault{Kind: FAULT_OUT_OF_BOUNDS, Addr: addr}
	}

	if addr%uint32(width) != 0 {
		return MemFault{Kind: FAULT_MISALIGNED, Addr: addr}
	}

	return
}

// Read reads a 1, 2, or 4 byte value at addr, zero-extended to 32 bits.
func (m *Memory) Read(addr uint32, width int) (value uint32, err error) {
	err = m.check(addr, width)
	if err != nil {
		return
	}

	switch width {
	case WIDTH_BYTE:
		value = uint32(m.Data[addr])
	case WIDTH_HALF:
		value = uint32(binary.LittleEndian.Uint16(m.Data[addr:]))
	case WIDTH_WORD:
		value = binary.LittleEndian.Uint32(m.Data[addr:])
	}

	return
}

// Write writes the low 1, 2, or 4 bytes of value at addr.
func (m *Memory) Write(addr uint32, width int, value uint32) (err error) {
	err = m.check(addr, width)
	if err != nil {
		return
	}

	switch width {
	case WIDTH_BYTE:
		m.Data[addr] = byte(value)
	case WIDTH_HALF:
		binary.LittleEndian.PutUint16(m.Data[addr:], uint16(value))
	case WIDTH_WORD:
		binary.LittleEndian.PutUint32(m.Data[addr:], value)
	}

	return
}

// LoadImage copies a program image into memory at origin. Used by the
// loader path only, never by the execute path.
func (m *Memory) LoadImage(data []byte, origin uint32) (err error) {
	if uint64(origin)+uint64(len(data)) > uint64(len(m.Data)) {
		err = MemFault{Kind: FAULT_OUT_OF_BOUNDS, Addr: origin}
		return
	}

	copy(m.Data[origin:], data)

	return
}
