package emulator

import (
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/mach32/cpu"
	"github.com/ezrec/mach32/internal"
)

const (
	MEMORY_SIZE  = 0x10000 // 64K of flat RAM.
	CONSOLE_BASE = 0xff00  // Console window, top of the address space.
)

var _emulator_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%#v", uint32(MEMORY_SIZE)),
}

// Emulator state. Core + program listing + console device.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the core simulation.
	Program  *cpu.Program // Currently loaded program listing.

	Console Console // Memory-mapped console device.
}

// New creates an emulator around a core with the given memory
// capacity, entry point, and vector table.
func New(capacity uint32, entry uint32, vectors cpu.Vectors) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(capacity, entry, vectors),
		Program: &cpu.Program{Entry: entry, Vectors: vectors},
	}
	emu.Console.Base = CONSOLE_BASE

	return
}

// NewEmulator creates a new emulator with the default memory size and
// an empty program.
func NewEmulator() (emu *Emulator) {
	return New(MEMORY_SIZE, 0, cpu.NoVectors())
}

// Defines returns an iterator over all of the assembler predefines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.ConcatSeq2(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Console.Defines(),
	)
}

// Reset reloads the current program: core state to power-on, vector
// table and entry point from the listing, image into memory, console
// window cleared.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Reset(emu.Program.Entry)
	emu.Cpu.Traps.Vectors = emu.Program.Vectors
	emu.Cpu.Verbose = emu.Verbose

	err = emu.Cpu.Mem.LoadImage(emu.Program.Binary(), emu.Program.Origin)
	if err != nil {
		return
	}

	err = emu.Console.Reset(emu.Cpu.Mem)

	return
}

// LoadProgram attaches an assembled program and resets.
func (emu *Emulator) LoadProgram(prog *cpu.Program) (err error) {
	emu.Program = prog

	return emu.Reset()
}

// LoadImage places a raw binary image into memory. The program listing
// is not affected.
func (emu *Emulator) LoadImage(data []byte, origin uint32) (err error) {
	return emu.Cpu.Mem.LoadImage(data, origin)
}

// ReadRegister returns the value of a general purpose register.
func (emu *Emulator) ReadRegister(n cpu.RegNum) uint32 {
	return emu.Cpu.Reg.Reg(n)
}

// ReadMemory returns the value at an address, with the usual alignment
// and bounds checks.
func (emu *Emulator) ReadMemory(addr uint32, width int) (value uint32, err error) {
	return emu.Cpu.Mem.Read(addr, width)
}

// Interrupt queues an external interrupt for the next boundary.
func (emu *Emulator) Interrupt(cause cpu.Cause) {
	emu.Cpu.Traps.Interrupt(cause, 0)
}

// LineNo returns the source line of the instruction at PC, or 0 when
// PC is outside the listing.
func (emu *Emulator) LineNo() int {
	return emu.Program.LineAt(emu.Cpu.Reg.PC)
}

// Step performs a single instruction step, then services the console.
// Errors carry the source line of the instruction that was stepped.
func (emu *Emulator) Step() (res cpu.StepResult, err error) {
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	res, err = emu.Cpu.Step()
	if err != nil {
		return
	}

	filled, err := emu.Console.Pump(emu.Cpu.Mem)
	if err != nil {
		return
	}
	if filled {
		emu.Cpu.Traps.Interrupt(cpu.CAUSE_EXTERNAL, emu.Console.Base+CONSOLE_RX_DATA)
	}

	return
}

// Run steps until the core halts, a fatal fault occurs, or the step
// budget is exhausted.
func (emu *Emulator) Run(maxSteps int) (res cpu.RunResult) {
	for n := 0; n < maxSteps; n++ {
		sr, err := emu.Step()
		if err != nil {
			res = cpu.RunResult{Reason: cpu.RUN_FAULT, Steps: n + 1, Err: err}
			return
		}
		if sr == cpu.STEP_HALT {
			res = cpu.RunResult{Reason: cpu.RUN_HALT, Steps: n + 1}
			return
		}
	}

	res = cpu.RunResult{Reason: cpu.RUN_BUDGET, Steps: maxSteps}
	return
}
