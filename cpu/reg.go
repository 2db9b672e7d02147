package cpu

import (
	"fmt"
)

// NREG is the number of general purpose registers. The 5-bit register
// fields of the instruction encoding match this exactly, so a decoded
// register index is always in range.
const NREG = 32

// RegNum is a general purpose register index (0..31).
type RegNum uint8

// String returns the register name: r0 .. r31.
func (r RegNum) String() string {
	return fmt.Sprintf("r%d", r)
}

// Flags is the condition flag bitfield.
type Flags uint32

const (
	FLAG_C = Flags(1 << 0) // Carry / not-borrow
	FLAG_Z = Flags(1 << 1) // Zero
	FLAG_N = Flags(1 << 2) // Negative (bit 31 of result)
	FLAG_V = Flags(1 << 3) // Signed overflow
)

func (fl Flags) Carry() bool    { return fl&FLAG_C != 0 }
func (fl Flags) Zero() bool     { return fl&FLAG_Z != 0 }
func (fl Flags) Negative() bool { return fl&FLAG_N != 0 }
func (fl Flags) Overflow() bool { return fl&FLAG_V != 0 }

// Set sets or clears the given flag bits.
func (fl *Flags) Set(flag Flags, on bool) {
	if on {
		*fl |= flag
	} else {
		*fl &^= flag
	}
}

// String returns the flag state in the conventional "nzcv" form, with
// a dash for each clear flag.
func (fl Flags) String() (out string) {
	bits := []struct {
		flag Flags
		name byte
	}{
		{FLAG_N, 'n'},
		{FLAG_Z, 'z'},
		{FLAG_C, 'c'},
		{FLAG_V, 'v'},
	}
	for _, b := range bits {
		if fl&b.flag != 0 {
			out += string(b.name)
		} else {
			out += "-"
		}
	}

	return
}

// Registers is the architectural register file: general purpose
// registers, the program counter, and the condition flags.
//
// The driver owns exactly one Registers value per core; nothing
// aliases it concurrently.
type Registers struct {
	R  [NREG]uint32 // General purpose registers.
	PC uint32       // Program counter.
	F  Flags        // Condition flags.
}

// Reg reads a general purpose register.
func (reg *Registers) Reg(n RegNum) uint32 {
	return reg.R[n]
}

// SetReg writes a general purpose register.
func (reg *Registers) SetReg(n RegNum, value uint32) {
	reg.R[n] = value
}

// String returns the register file state, four registers per row.
func (reg *Registers) String() (text string) {
	for n := 0; n < NREG; n++ {
		text += fmt.Sprintf("%5s: %04X_%04X", RegNum(n), reg.R[n]>>16, reg.R[n]&0xffff)
		if n%4 == 3 {
			text += "\n"
		} else {
			text += " "
		}
	}
	text += fmt.Sprintf("   pc: %04X_%04X flags: %v\n", reg.PC>>16, reg.PC&0xffff, reg.F)

	return
}
