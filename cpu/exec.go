package cpu

import (
	"errors"
	"log"
	"math"
)

// EffectKind is the control outcome of executing one instruction.
type EffectKind int

const (
	EFFECT_CONTINUE = EffectKind(0) // Advance PC by one word.
	EFFECT_JUMP     = EffectKind(1) // Load PC with Target.
	EFFECT_TRAP     = EffectKind(2) // Raise Cause with Addr.
	EFFECT_HALT     = EffectKind(3) // Stop the core.
)

// Effect is the architectural outcome of one executed instruction.
type Effect struct {
	Kind   EffectKind
	Target uint32 // Jump target.
	Cause  Cause  // Trap cause.
	Addr   uint32 // Trap faulting address or SWI payload.
}

func effectContinue() Effect {
	return Effect{Kind: EFFECT_CONTINUE}
}

func effectJump(target uint32) Effect {
	return Effect{Kind: EFFECT_JUMP, Target: target}
}

func effectTrap(cause Cause, addr uint32) Effect {
	return Effect{Kind: EFFECT_TRAP, Cause: cause, Addr: addr}
}

// aluFlags computes an ALU result and the full flag set. All
// arithmetic wraps modulo 2^32; the caller rejects a zero divisor
// before DIV reaches here.
func aluFlags(op AluOp, a, b uint32) (res uint32, fl Flags) {
	switch op {
	case ALU_OP_MOV:
		res = b
	case ALU_OP_NOT:
		res = ^b
	case ALU_OP_AND:
		res = a & b
	case ALU_OP_OR:
		res = a | b
	case ALU_OP_XOR:
		res = a ^ b
	case ALU_OP_SHL:
		n := b & 31
		res = a << n
		if n > 0 && (a>>(32-n))&1 != 0 {
			fl |= FLAG_C
		}
	case ALU_OP_SHR:
		n := b & 31
		res = a >> n
		if n > 0 && (a>>(n-1))&1 != 0 {
			fl |= FLAG_C
		}
	case ALU_OP_SRA:
		n := b & 31
		res = uint32(int32(a) >> n)
		if n > 0 && (a>>(n-1))&1 != 0 {
			fl |= FLAG_C
		}
	case ALU_OP_ADD:
		res = a + b
		if res < a {
			fl |= FLAG_C
		}
		if (a^res)&(b^res)&(1<<31) != 0 {
			fl |= FLAG_V
		}
	case ALU_OP_SUB, ALU_OP_CMP:
		res = a - b
		if a >= b {
			// No borrow.
			fl |= FLAG_C
		}
		if (a^b)&(a^res)&(1<<31) != 0 {
			fl |= FLAG_V
		}
	case ALU_OP_MUL:
		res = a * b
	case ALU_OP_DIV:
		if int32(a) == math.MinInt32 && int32(b) == -1 {
			// MinInt32 / -1 wraps, flagged as overflow.
			res = a
			fl |= FLAG_V
		} else {
			res = uint32(int32(a) / int32(b))
		}
	}

	if res == 0 {
		fl |= FLAG_Z
	}
	if res&(1<<31) != 0 {
		fl |= FLAG_N
	}

	return
}

// taken evaluates a branch condition against the flags.
func (fl Flags) taken(op BranchOp) bool {
	switch op {
	case BRANCH_OP_BRA:
		return true
	case BRANCH_OP_BEQ:
		return fl.Zero()
	case BRANCH_OP_BNE:
		return !fl.Zero()
	case BRANCH_OP_BLT:
		return fl.Negative() != fl.Overflow()
	case BRANCH_OP_BGE:
		return fl.Negative() == fl.Overflow()
	case BRANCH_OP_BCS:
		return fl.Carry()
	case BRANCH_OP_BCC:
		return !fl.Carry()
	case BRANCH_OP_BVS:
		return fl.Overflow()
	case BRANCH_OP_BMI:
		return fl.Negative()
	case BRANCH_OP_BPL:
		return !fl.Negative()
	}

	return false
}

// value reads a second operand: a register or its sign-extended
// immediate.
func (cpu *Cpu) value(o Operand) uint32 {
	if o.Mode == MODE_REG {
		return cpu.Reg.Reg(o.Reg)
	}
	return uint32(o.Imm)
}

// memWidth returns the access width and extension of a memory op.
func memWidth(op MemOp) (width int, signExtend bool, store bool) {
	switch op {
	case MEM_OP_LDW:
		width = WIDTH_WORD
	case MEM_OP_LDH:
		width = WIDTH_HALF
	case MEM_OP_LDB:
		width = WIDTH_BYTE
	case MEM_OP_LDHS:
		width, signExtend = WIDTH_HALF, true
	case MEM_OP_LDBS:
		width, signExtend = WIDTH_BYTE, true
	case MEM_OP_STW:
		width, store = WIDTH_WORD, true
	case MEM_OP_STH:
		width, store = WIDTH_HALF, true
	case MEM_OP_STB:
		width, store = WIDTH_BYTE, true
	}

	return
}

// Execute applies one decoded instruction to the architectural state
// and reports the control effect. Faults come back as trap effects,
// never as process-level errors; registers and memory are untouched
// when an instruction faults.
func (cpu *Cpu) Execute(inst Inst) (eff Effect) {
	if cpu.Verbose {
		log.Printf("%08x: %v", cpu.Reg.PC, inst)
	}

	switch inst := inst.(type) {
	case AluInst:
		a := cpu.Reg.Reg(inst.Rs1)
		b := cpu.value(inst.Src)
		if inst.Op == ALU_OP_DIV && b == 0 {
			eff = effectTrap(CAUSE_DIV_ZERO, cpu.Reg.PC)
			return
		}
		res, fl := aluFlags(inst.Op, a, b)
		if inst.Op != ALU_OP_CMP {
			cpu.Reg.SetReg(inst.Rd, res)
		}
		cpu.Reg.F = fl
		eff = effectContinue()
	case MemInst:
		width, signExtend, store := memWidth(inst.Op)
		ea := cpu.Reg.Reg(inst.Rs1) + cpu.value(inst.Off)
		if store {
			err := cpu.Mem.Write(ea, width, cpu.Reg.Reg(inst.Rd))
			if err != nil {
				eff = memTrap(err, ea)
				return
			}
		} else {
			value, err := cpu.Mem.Read(ea, width)
			if err != nil {
				eff = memTrap(err, ea)
				return
			}
			if signExtend {
				shift := 32 - 8*width
				value = uint32(int32(value<<shift) >> shift)
			}
			cpu.Reg.SetReg(inst.Rd, value)
		}
		eff = effectContinue()
	case BranchInst:
		if !cpu.Reg.F.taken(inst.Op) {
			eff = effectContinue()
			return
		}
		if inst.Target.Mode == MODE_IMM {
			eff = effectJump(cpu.Reg.PC + uint32(inst.Target.Imm))
		} else {
			eff = effectJump(cpu.Reg.Reg(inst.Target.Reg))
		}
	case SysInst:
		eff = cpu.executeSys(inst)
	default:
		eff = effectTrap(CAUSE_ILLEGAL, cpu.Reg.PC)
	}

	return
}

// executeSys applies a system instruction. RTI, STI, CLI, and HALT are
// privileged; in user mode they fault as illegal opcodes.
func (cpu *Cpu) executeSys(inst SysInst) (eff Effect) {
	if inst.Op != SYS_OP_NOP && inst.Op != SYS_OP_SWI && cpu.Traps.User {
		eff = effectTrap(CAUSE_ILLEGAL, cpu.Reg.PC)
		return
	}

	switch inst.Op {
	case SYS_OP_NOP:
		eff = effectContinue()
	case SYS_OP_SWI:
		eff = effectTrap(CAUSE_SWI, inst.Num)
	case SYS_OP_RTI:
		target, err := cpu.Traps.Return(&cpu.Reg)
		if err != nil {
			eff = effectTrap(CAUSE_ILLEGAL, cpu.Reg.PC)
			return
		}
		eff = effectJump(target)
	case SYS_OP_STI:
		cpu.Traps.Enable = true
		eff = effectContinue()
	case SYS_OP_CLI:
		cpu.Traps.Enable = false
		eff = effectContinue()
	case SYS_OP_HALT:
		eff = Effect{Kind: EFFECT_HALT}
	}

	return
}

// memTrap converts a memory subsystem fault into a trap effect.
func memTrap(err error, ea uint32) Effect {
	var mf MemFault
	if errors.As(err, &mf) {
		return effectTrap(CAUSE_MEM, mf.Addr)
	}
	return effectTrap(CAUSE_MEM, ea)
}
