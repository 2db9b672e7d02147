package emulator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/mach32/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(uint32(MEMORY_SIZE), emu.Cpu.Mem.Capacity())
	assert.Equal(uint32(CONSOLE_BASE), emu.Console.Base)
}

func doRun(emu *Emulator, program []string, input []byte, budget int, t *testing.T) (output []byte) {
	assert := assert.New(t)

	asm := &cpu.Assembler{}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	err = emu.LoadProgram(prog)
	assert.NoError(err)

	emu.Console.In = bytes.NewReader(input)
	console_output := &bytes.Buffer{}
	emu.Console.Out = console_output

	res := emu.Run(budget)
	if res.Err != nil {
		t.Log(emu.Cpu.String())
		t.Fatalf("%v", res.Err)
	}
	assert.Equal(cpu.RUN_HALT, res.Reason)

	output = console_output.Bytes()
	return
}

func TestEmulatorProgram(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		".equ TEN 10",
		"mov r1, TEN",
		"add r2, r1, 0x20",
		"sub r3, r2, r1",
		"mov r4, $(TEN * 4)",
		"stw r2, r0, 0x100",
		"halt",
	}

	doRun(emu, program, []byte{}, 100, t)

	assert.Equal(uint32(0x0a), emu.ReadRegister(1))
	assert.Equal(uint32(0x2a), emu.ReadRegister(2))
	assert.Equal(uint32(0x20), emu.ReadRegister(3))
	assert.Equal(uint32(0x28), emu.ReadRegister(4))

	value, err := emu.ReadMemory(0x100, cpu.WIDTH_WORD)
	assert.NoError(err)
	assert.Equal(uint32(0x2a), value)
}

func TestEmulatorConsoleOutput(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"mov r10, $(CONSOLE_TX_STATUS >> 4)",
		"shl r10, r10, 4", // console window base
		"mov r2, 1",
		"mov r1, 72", // 'H'
		"stw r1, r10, 4",
		"stw r2, r10, 0",
		"mov r1, 105", // 'i'
		"stw r1, r10, 4",
		"stw r2, r10, 0",
		"halt",
	}

	output := doRun(emu, program, []byte{}, 100, t)

	assert.Equal([]byte("Hi"), output)
}

func TestEmulatorConsoleEcho(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		".vector CAUSE_EXTERNAL isr",
		".equ NBYTE 3",
		"start:",
		"  mov r10, $(CONSOLE_TX_STATUS >> 4)",
		"  shl r10, r10, 4",
		"  mov r20, 0", // bytes received
		"  sti",
		"loop:",
		"  cmp r20, NBYTE",
		"  blt loop",
		"  halt",
		"isr:",
		"  ldw r1, r10, 12", // receive
		"  mov r2, 1",
		"  stw r1, r10, 4", // echo it back
		"  stw r2, r10, 0",
		"  mov r3, 0",
		"  stw r3, r10, 8", // acknowledge
		"  add r20, r20, 1",
		"  rti",
	}

	output := doRun(emu, program, []byte("abc"), 1000, t)

	assert.Equal([]byte("abc"), output)
	assert.Equal(uint32(3), emu.ReadRegister(20))
}

func TestEmulatorInterrupt(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		".vector CAUSE_EXTERNAL isr",
		"  sti",
		"loop:",
		"  cmp r1, 0",
		"  beq loop",
		"  halt",
		"isr:",
		"  mov r1, 1",
		"  rti",
	}

	asm := &cpu.Assembler{}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	assert.NoError(emu.LoadProgram(prog))

	// Spin a few steps, then inject.
	for range 4 {
		_, err = emu.Step()
		assert.NoError(err)
	}
	emu.Interrupt(cpu.CAUSE_EXTERNAL)

	res := emu.Run(100)
	assert.Equal(cpu.RUN_HALT, res.Reason)
	assert.Equal(uint32(1), emu.ReadRegister(1))
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"nop",
		".word 0xffffffff", // no illegal-opcode vector configured
	}

	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	assert.NoError(emu.LoadProgram(prog))

	res := emu.Run(100)
	assert.Equal(cpu.RUN_FAULT, res.Reason)
	assert.ErrorIs(res.Err, cpu.ErrUnvectored(cpu.CAUSE_ILLEGAL))

	var rte *ErrRuntime
	assert.ErrorAs(res.Err, &rte)
	assert.Equal(2, rte.LineNo)
}

func TestEmulatorReset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"mov r1, 7",
		"halt",
	}

	doRun(emu, program, []byte{}, 10, t)
	assert.True(emu.Halted)

	assert.NoError(emu.Reset())
	assert.False(emu.Halted)
	assert.Equal(uint32(0), emu.ReadRegister(1))

	res := emu.Run(10)
	assert.Equal(cpu.RUN_HALT, res.Reason)
	assert.Equal(uint32(7), emu.ReadRegister(1))
}
