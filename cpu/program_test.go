package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := parse(t,
		".org 0x10",
		"nop",
		".word 1 2",
	)

	var addrs []uint32
	var codes []Code
	for addr, code := range prog.Codes() {
		addrs = append(addrs, addr)
		codes = append(codes, code)
	}

	assert.Equal([]uint32{0x10, 0x14, 0x18}, addrs)
	assert.Equal([]Code{SysInst{Op: SYS_OP_NOP}.Encode(), 1, 2}, codes)
}

func TestProgram_BinaryGaps(t *testing.T) {
	assert := assert.New(t)

	prog := parse(t,
		".word 0xffffffff",
		".org 0x10",
		".word 0xffffffff",
	)

	bin := prog.Binary()
	assert.Len(bin, 0x14)
	assert.Equal(byte(0xff), bin[0])
	assert.Equal(byte(0), bin[4])
	assert.Equal(byte(0xff), bin[0x10])
}

func TestProgram_LineAt(t *testing.T) {
	assert := assert.New(t)

	prog := parse(t,
		"nop",
		".word 1 2 3",
		"halt",
	)

	assert.Equal(1, prog.LineAt(0))
	assert.Equal(2, prog.LineAt(4))
	assert.Equal(2, prog.LineAt(8))
	assert.Equal(2, prog.LineAt(0xc))
	assert.Equal(3, prog.LineAt(0x10))
	assert.Equal(0, prog.LineAt(0x100))
}
