package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_ReadWrite(t *testing.T) {
	assert := assert.New(t)

	m := NewMemory(64)

	table := [](struct {
		name  string
		addr  uint32
		width int
		value uint32
	}){
		{"byte_lo", 0, WIDTH_BYTE, 0xa5},
		{"byte_hi", 63, WIDTH_BYTE, 0xff},
		{"half", 10, WIDTH_HALF, 0xbeef},
		{"half_edge", 62, WIDTH_HALF, 0xbeef},
		{"word", 16, WIDTH_WORD, 0x12345678},
		{"word_top", 60, WIDTH_WORD, 0xdeadbeef},
	}

	for _, entry := range table {
		err := m.Write(entry.addr, entry.width, entry.value)
		assert.NoError(err, entry.name)

		value, err := m.Read(entry.addr, entry.width)
		assert.NoError(err, entry.name)
		assert.Equal(entry.value, value, entry.name)
	}
}

func TestMemory_LittleEndian(t *testing.T) {
	assert := assert.New(t)

	m := NewMemory(16)

	err := m.Write(4, WIDTH_WORD, 0x11223344)
	assert.NoError(err)

	value, err := m.Read(4, WIDTH_BYTE)
	assert.NoError(err)
	assert.Equal(uint32(0x44), value)

	value, err = m.Read(6, WIDTH_HALF)
	assert.NoError(err)
	assert.Equal(uint32(0x1122), value)
}

func TestMemory_OutOfBounds(t *testing.T) {
	assert := assert.New(t)

	m := NewMemory(32)

	table := [](struct {
		name  string
		addr  uint32
		width int
	}){
		{"byte_past", 32, WIDTH_BYTE},
		{"word_straddle", 30, WIDTH_WORD},
		{"word_past", 32, WIDTH_WORD},
		{"wraparound", 0xfffffffc, WIDTH_WORD},
	}

	for _, entry := range table {
		_, err := m.Read(entry.addr, entry.width)
		assert.Error(err, entry.name)

		mf, ok := err.(MemFault)
		assert.True(ok, entry.name)
		assert.Equal(FAULT_OUT_OF_BOUNDS, mf.Kind, entry.name)
		assert.Equal(entry.addr, mf.Addr, entry.name)

		err = m.Write(entry.addr, entry.width, 0)
		assert.ErrorIs(err, MemFault{}, entry.name)
	}
}

func TestMemory_Misaligned(t *testing.T) {
	assert := assert.New(t)

	m := NewMemory(32)

	table := [](struct {
		name  string
		addr  uint32
		width int
	}){
		{"half_odd", 1, WIDTH_HALF},
		{"word_odd", 2, WIDTH_WORD},
		{"word_plus3", 7, WIDTH_WORD},
	}

	for _, entry := range table {
		_, err := m.Read(entry.addr, entry.width)
		mf, ok := err.(MemFault)
		assert.True(ok, entry.name)
		assert.Equal(FAULT_MISALIGNED, mf.Kind, entry.name)
	}

	// Bytes never require alignment.
	_, err := m.Read(3, WIDTH_BYTE)
	assert.NoError(err)
}

func TestMemory_FaultTouchesNothing(t *testing.T) {
	assert := assert.New(t)

	m := NewMemory(8)
	err := m.Write(4, WIDTH_WORD, 0xcafef00d)
	assert.NoError(err)

	err = m.Write(6, WIDTH_WORD, 0)
	assert.Error(err)

	value, err := m.Read(4, WIDTH_WORD)
	assert.NoError(err)
	assert.Equal(uint32(0xcafef00d), value)
}

func TestMemory_LoadImage(t *testing.T) {
	assert := assert.New(t)

	m := NewMemory(16)

	err := m.LoadImage([]byte{1, 2, 3, 4}, 8)
	assert.NoError(err)

	value, err := m.Read(8, WIDTH_WORD)
	assert.NoError(err)
	assert.Equal(uint32(0x04030201), value)

	err = m.LoadImage([]byte{1, 2, 3, 4}, 14)
	assert.ErrorIs(err, MemFault{})
}
