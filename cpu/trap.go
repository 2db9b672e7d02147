package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

// Cause identifies the source of a trap or interrupt.
type Cause int

//go:generate go tool stringer -linecomment -type=Cause
const (
	CAUSE_ILLEGAL  = Cause(0) // illegal-opcode
	CAUSE_MEM      = Cause(1) // memory-fault
	CAUSE_DIV_ZERO = Cause(2) // divide-by-zero
	CAUSE_SWI      = Cause(3) // software-interrupt
	CAUSE_EXTERNAL = Cause(4) // external-interrupt
	CAUSE_DOUBLE   = Cause(5) // double-fault

	NCAUSE = 6
)

// Synchronous reports whether the cause is a synchronous fault, which
// is never maskable by the interrupt-enable bit.
func (c Cause) Synchronous() bool {
	return c != CAUSE_EXTERNAL
}

var _trap_defines = map[string]string{
	"CAUSE_ILLEGAL":  fmt.Sprintf("%d", CAUSE_ILLEGAL),
	"CAUSE_MEM":      fmt.Sprintf("%d", CAUSE_MEM),
	"CAUSE_DIV_ZERO": fmt.Sprintf("%d", CAUSE_DIV_ZERO),
	"CAUSE_SWI":      fmt.Sprintf("%d", CAUSE_SWI),
	"CAUSE_EXTERNAL": fmt.Sprintf("%d", CAUSE_EXTERNAL),
	"CAUSE_DOUBLE":   fmt.Sprintf("%d", CAUSE_DOUBLE),
}

// TrapState is the controller state.
type TrapState int

//go:generate go tool stringer -linecomment -type=TrapState
const (
	TRAP_IDLE       = TrapState(0) // idle
	TRAP_PENDING    = TrapState(1) // pending
	TRAP_VECTORING  = TrapState(2) // vectoring
	TRAP_IN_HANDLER = TrapState(3) // in-handler
)

// VECTOR_NONE marks an unconfigured vector table slot.
const VECTOR_NONE = uint32(0xffffffff)

// Vectors maps each cause to its handler address.
type Vectors [NCAUSE]uint32

// NoVectors returns a table with every slot unconfigured.
func NoVectors() (v Vectors) {
	for n := range v {
		v[n] = VECTOR_NONE
	}

	return
}

// Record is the saved context created when a trap is detected and
// consumed by return-from-interrupt.
type Record struct {
	Cause  Cause  // Trap cause.
	Addr   uint32 // Faulting address, or SWI payload.
	PC     uint32 // PC to resume at.
	Flags  Flags  // Saved condition flags.
	Enable bool   // Saved interrupt-enable bit.
	User   bool   // Saved privilege (user mode).
}

// Traps is the interrupt/trap controller. It owns the control/status
// state: privilege, interrupt-enable, last cause and faulting address.
//
// External interrupts queue in arrival order and vector only at an
// instruction boundary with the enable bit set. Synchronous faults
// vector at the boundary of the faulting instruction regardless of
// the enable bit. A synchronous fault raised while already in a
// handler with interrupts disabled is a double fault, the only
// unrecoverable condition.
type Traps struct {
	Verbose bool

	Vectors Vectors   // Cause to handler address table.
	State   TrapState // Controller state.
	Enable  bool      // Interrupt-enable bit.
	User    bool      // Privilege: true in user mode.
	Cause   Cause     // Cause of the last vectored trap.
	Addr    uint32    // Faulting address of the last vectored trap.
	Record  Record    // Saved context for return-from-interrupt.

	sync    *Record  // Synchronous fault raised this instruction.
	pending []Record // Queued external interrupts.
}

// Defines exports the cause codes as assembler predefines.
func (tc *Traps) Defines() iter.Seq2[string, string] {
	return maps.All(_trap_defines)
}

// Reset returns the controller to power-on state, preserving the
// vector table.
func (tc *Traps) Reset() {
	tc.State = TRAP_IDLE
	tc.Enable = false
	tc.User = false
	tc.Cause = 0
	tc.Addr = 0
	tc.Record = Record{}
	tc.sync = nil
	tc.pending = nil
}

// Raise records a synchronous fault from the executing instruction.
// At most one can occur per instruction.
func (tc *Traps) Raise(cause Cause, addr uint32) {
	if tc.Verbose {
		log.Printf("trap: raise %v addr 0x%08x", cause, addr)
	}

	tc.sync = &Record{Cause: cause, Addr: addr}
	if tc.State == TRAP_IDLE {
		tc.State = TRAP_PENDING
	}
}

// Interrupt queues an external interrupt line assertion. It is
// consumed at the next instruction boundary, never mid-instruction.
func (tc *Traps) Interrupt(cause Cause, addr uint32) {
	if tc.Verbose {
		log.Printf("trap: interrupt %v", cause)
	}

	tc.pending = append(tc.pending, Record{Cause: cause, Addr: addr})
	if tc.State == TRAP_IDLE {
		tc.State = TRAP_PENDING
	}
}

// vector saves the current context and transfers control to the
// handler for rec's cause.
func (tc *Traps) vector(rec Record, reg *Registers) (err error) {
	handler := tc.Vectors[rec.Cause]
	if handler == VECTOR_NONE {
		err = ErrUnvectored(rec.Cause)
		return
	}

	tc.State = TRAP_VECTORING

	rec.PC = reg.PC
	rec.Flags = reg.F
	rec.Enable = tc.Enable
	rec.User = tc.User
	tc.Record = rec
	tc.Cause = rec.Cause
	tc.Addr = rec.Addr

	reg.PC = handler
	tc.Enable = false
	tc.User = false
	tc.State = TRAP_IN_HANDLER

	if tc.Verbose {
		log.Printf("trap: vector %v to 0x%08x (saved pc 0x%08x)", rec.Cause, handler, rec.PC)
	}

	return
}

// Boundary is called by the driver after each completed instruction.
// It vectors a raised synchronous fault, or the oldest queued external
// interrupt when the enable bit allows. A fatal error halts the core.
func (tc *Traps) Boundary(reg *Registers) (vectored bool, err error) {
	if tc.sync != nil {
		rec := *tc.sync
		tc.sync = nil

		if tc.State == TRAP_IN_HANDLER && !tc.Enable {
			tc.Cause = CAUSE_DOUBLE
			err = ErrDoubleFault
			return
		}

		err = tc.vector(rec, reg)
		vectored = err == nil
		return
	}

	if len(tc.pending) > 0 && tc.Enable && tc.State != TRAP_IN_HANDLER {
		rec := tc.pending[0]
		tc.pending = tc.pending[1:]
		if len(tc.pending) == 0 && tc.State == TRAP_PENDING {
			tc.State = TRAP_IDLE
		}

		err = tc.vector(rec, reg)
		vectored = err == nil
		return
	}

	return
}

// Return consumes the saved record for a return-from-interrupt,
// restoring flags, privilege, and the enable bit. The returned target
// is the PC to resume at.
func (tc *Traps) Return(reg *Registers) (target uint32, err error) {
	if tc.State != TRAP_IN_HANDLER {
		err = ErrNotInHandler
		return
	}

	rec := tc.Record
	reg.F = rec.Flags
	tc.Enable = rec.Enable
	tc.User = rec.User
	target = rec.PC

	if len(tc.pending) > 0 {
		tc.State = TRAP_PENDING
	} else {
		tc.State = TRAP_IDLE
	}

	if tc.Verbose {
		log.Printf("trap: return to 0x%08x", target)
	}

	return
}

// PendingCount reports the number of queued external interrupts.
func (tc *Traps) PendingCount() int {
	return len(tc.pending)
}
