// Package cpu implements the MACH-32 processor core and its assembler.
//
// MACH-32 is a fixed-width 32-bit RISC-style architecture: 32 general
// purpose registers (r0-r31), a program counter, four condition flags
// (carry, zero, negative, overflow), and a trap controller with a
// configurable vector table. Every instruction is one 32-bit word,
// little-endian in memory, split into four classes: ALU, memory,
// branch, and system.
//
// Execution is deterministic and atomic per instruction: a step
// fetches, decodes, and executes exactly one instruction, then lets
// the trap controller vector any pending cause at the instruction
// boundary. Faults (illegal opcode, memory, divide-by-zero) are
// vectored through the same controller rather than aborting the
// simulation; only a double fault or a missing vector stops the core.
//
// The assembler provides a small assembly language for writing MACH-32
// programs, with labels, equates, vector directives, and compile-time
// expression evaluation.
package cpu
