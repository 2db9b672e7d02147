package cpu

import (
	"iter"
	"log"

	"github.com/ezrec/mach32/internal"
)

// StepResult reports the outcome of a single instruction step.
type StepResult int

const (
	STEP_OK   = StepResult(0) // Instruction completed.
	STEP_TRAP = StepResult(1) // A trap vectored at the boundary.
	STEP_HALT = StepResult(2) // Core is halted.
)

// RunReason is the terminal reason of a Run call.
type RunReason int

//go:generate go tool stringer -linecomment -type=RunReason
const (
	RUN_HALT   = RunReason(0) // halt
	RUN_BUDGET = RunReason(1) // budget
	RUN_FAULT  = RunReason(2) // fault
)

// RunResult is the terminal state of a Run call. Budget exhaustion is
// a normal outcome, not an error; Err is set only for the fatal
// conditions (double fault, missing vector).
type RunResult struct {
	Reason RunReason
	Steps  int
	Err    error
}

// Cpu is the MACH-32 core: the register file, memory, and trap
// controller driven by a fetch-decode-execute loop.
//
// A Cpu is single-threaded by construction; one driver mutates one
// core. Independent cores may run on separate goroutines with no
// shared state.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Mem    *Memory   // Attached memory.
	Reg    Registers // Architectural registers.
	Traps  Traps     // Interrupt/trap controller.
	Halted bool      // Set once the core has stopped.

	Ticks int // Instructions completed since reset.
}

// NewCpu creates a core with the given memory capacity, entry point,
// and trap vector table.
func NewCpu(capacity uint32, entry uint32, vectors Vectors) (cpu *Cpu) {
	cpu = &Cpu{
		Mem: NewMemory(capacity),
	}
	cpu.Reg.PC = entry
	cpu.Traps.Vectors = vectors

	return
}

// Reset returns the core to power-on state at the given entry point.
// Memory contents are preserved.
func (cpu *Cpu) Reset(entry uint32) {
	if cpu.Verbose {
		log.Printf("cpu: reset, entry 0x%08x", entry)
	}

	cpu.Reg = Registers{PC: entry}
	cpu.Traps.Reset()
	cpu.Halted = false
	cpu.Ticks = 0
}

// Defines exports core constants as assembler predefines.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return internal.ConcatSeq2(cpu.Traps.Defines())
}

// Step executes one instruction cycle: fetch the word at PC, decode,
// execute, apply the control effect, then let the trap controller
// vector at the boundary. Stepping a halted core is a no-op.
//
// The returned error is fatal: a double fault or a cause with no
// configured handler. All other faults vector through the controller.
func (cpu *Cpu) Step() (res StepResult, err error) {
	if cpu.Halted {
		res = STEP_HALT
		return
	}

	cpu.Traps.Verbose = cpu.Verbose

	pc := cpu.Reg.PC

	word, ferr := cpu.Mem.Read(pc, WIDTH_WORD)
	if ferr != nil {
		// Fetch fault: PC itself is the faulting address.
		cpu.Traps.Raise(CAUSE_MEM, pc)
	} else {
		inst, derr := Decode(Code(word))
		if derr != nil {
			if cpu.Verbose {
				log.Printf("%08x: %v", pc, derr)
			}
			cpu.Traps.Raise(CAUSE_ILLEGAL, pc)
		} else {
			eff := cpu.Execute(inst)
			switch eff.Kind {
			case EFFECT_CONTINUE:
				cpu.Reg.PC = pc + WIDTH_WORD
			case EFFECT_JUMP:
				cpu.Reg.PC = eff.Target
			case EFFECT_TRAP:
				// Faults keep PC at the trapping instruction, so the
				// saved record points at it. A software interrupt
				// completes, and resumes after itself.
				if eff.Cause == CAUSE_SWI {
					cpu.Reg.PC = pc + WIDTH_WORD
				}
				cpu.Traps.Raise(eff.Cause, eff.Addr)
			case EFFECT_HALT:
				cpu.Halted = true
				cpu.Ticks++
				res = STEP_HALT
				return
			}
		}
	}

	cpu.Ticks++

	vectored, err := cpu.Traps.Boundary(&cpu.Reg)
	if err != nil {
		cpu.Halted = true
		res = STEP_HALT
		return
	}
	if vectored {
		res = STEP_TRAP
	}

	return
}

// Run steps until the core halts, a fatal fault occurs, or the step
// budget is exhausted. The budget bounds runaway programs so a
// non-terminating image yields deterministically.
func (cpu *Cpu) Run(maxSteps int) (res RunResult) {
	for n := 0; n < maxSteps; n++ {
		sr, err := cpu.Step()
		if err != nil {
			res = RunResult{Reason: RUN_FAULT, Steps: n + 1, Err: err}
			return
		}
		if sr == STEP_HALT {
			res = RunResult{Reason: RUN_HALT, Steps: n + 1}
			return
		}
	}

	res = RunResult{Reason: RUN_BUDGET, Steps: maxSteps}
	return
}

// String returns the current core state.
func (cpu *Cpu) String() (text string) {
	text = cpu.Reg.String()
	text += "trap: " + cpu.Traps.State.String()
	if cpu.Traps.Enable {
		text += " enabled"
	}
	if cpu.Traps.User {
		text += " user"
	}
	if cpu.Halted {
		text += " halted"
	}
	text += "\n"

	return
}
