package cpu

import (
	"errors"
	"fmt"
)

// Code is a raw 32-bit MACH-32 instruction word.
//
// Word layout, most significant bits first:
//
//	[31:30] class   alu / mem / branch / sys
//	[29:26] op      class-specific operation
//	[25:21] rd      destination (alu) or data (mem) register
//	[20:16] rs1     first source or base register
//	[15]    mode    0: register operand in [4:0], [14:5] zero
//	                1: sign-extended immediate in [14:0]
//
// Reserved op patterns and nonzero must-be-zero fields never decode;
// they always fault as an illegal opcode.
type Code uint32

// CodeClass is the instruction class, from the top two bits.
type CodeClass int

//go:generate go tool stringer -linecomment -type=CodeClass
const (
	OP_ALU    = CodeClass(0) // alu
	OP_MEM    = CodeClass(1) // mem
	OP_BRANCH = CodeClass(2) // branch
	OP_SYS    = CodeClass(3) // sys
)

// AluOp is an ALU operation.
type AluOp int

//go:generate go tool stringer -linecomment -type=AluOp
const (
	ALU_OP_MOV = AluOp(0)  // mov
	ALU_OP_NOT = AluOp(1)  // not
	ALU_OP_AND = AluOp(2)  // and
	ALU_OP_OR  = AluOp(3)  // or
	ALU_OP_XOR = AluOp(4)  // xor
	ALU_OP_SHL = AluOp(5)  // shl
	ALU_OP_SHR = AluOp(6)  // shr
	ALU_OP_SRA = AluOp(7)  // sra
	ALU_OP_ADD = AluOp(8)  // add
	ALU_OP_SUB = AluOp(9)  // sub
	ALU_OP_MUL = AluOp(10) // mul
	ALU_OP_DIV = AluOp(11) // div
	ALU_OP_CMP = AluOp(12) // cmp
)

// MemOp is a load or store operation. Loads ending in 's' sign-extend.
type MemOp int

//go:generate go tool stringer -linecomment -type=MemOp
const (
	MEM_OP_LDW  = MemOp(0) // ldw
	MEM_OP_LDH  = MemOp(1) // ldh
	MEM_OP_LDB  = MemOp(2) // ldb
	MEM_OP_LDHS = MemOp(3) // ldhs
	MEM_OP_LDBS = MemOp(4) // ldbs
	MEM_OP_STW  = MemOp(5) // stw
	MEM_OP_STH  = MemOp(6) // sth
	MEM_OP_STB  = MemOp(7) // stb
)

// BranchOp is a branch condition.
type BranchOp int

//go:generate go tool stringer -linecomment -type=BranchOp
const (
	BRANCH_OP_BRA = BranchOp(0) // bra
	BRANCH_OP_BEQ = BranchOp(1) // beq
	BRANCH_OP_BNE = BranchOp(2) // bne
	BRANCH_OP_BLT = BranchOp(3) // blt
	BRANCH_OP_BGE = BranchOp(4) // bge
	BRANCH_OP_BCS = BranchOp(5) // bcs
	BRANCH_OP_BCC = BranchOp(6) // bcc
	BRANCH_OP_BVS = BranchOp(7) // bvs
	BRANCH_OP_BMI = BranchOp(8) // bmi
	BRANCH_OP_BPL = BranchOp(9) // bpl
)

// SysOp is a system operation.
type SysOp int

//go:generate go tool stringer -linecomment -type=SysOp
const (
	SYS_OP_NOP  = SysOp(0) // nop
	SYS_OP_SWI  = SysOp(1) // swi
	SYS_OP_RTI  = SysOp(2) // rti
	SYS_OP_STI  = SysOp(3) // sti
	SYS_OP_CLI  = SysOp(4) // cli
	SYS_OP_HALT = SysOp(5) // halt
)

// AddrMode selects the second operand source.
type AddrMode int

const (
	MODE_REG = AddrMode(0) // Register operand.
	MODE_IMM = AddrMode(1) // Sign-extended 15-bit immediate.
)

// IMM_MIN and IMM_MAX bound the encodable immediate range.
const (
	IMM_MIN = -(1 << 14)
	IMM_MAX = (1 << 14) - 1
)

// Operand is a decoded second operand: a register or an immediate.
type Operand struct {
	Mode AddrMode
	Reg  RegNum
	Imm  int32
}

// RegOperand returns a register operand.
func RegOperand(r RegNum) Operand {
	return Operand{Mode: MODE_REG, Reg: r}
}

// ImmOperand returns an immediate operand.
func ImmOperand(v int32) Operand {
	return Operand{Mode: MODE_IMM, Imm: v}
}

func (o Operand) String() string {
	if o.Mode == MODE_REG {
		return o.Reg.String()
	}
	return fmt.Sprintf("%d", o.Imm)
}

// Inst is the decoded structural form of an instruction word. It is
// built per fetch by Decode and consumed immediately by the execution
// unit; it is never persisted.
type Inst interface {
	// Encode returns the instruction word for this instruction.
	Encode() Code
	String() string
}

// AluInst is an arithmetic/logic instruction: rd = rs1 op src.
// MOV and NOT take only src; CMP updates flags without a destination.
type AluInst struct {
	Op  AluOp
	Rd  RegNum
	Rs1 RegNum
	Src Operand
}

// MemInst is a load or store of Rd at address Rs1 + Off.
type MemInst struct {
	Op  MemOp
	Rd  RegNum
	Rs1 RegNum
	Off Operand
}

// BranchInst transfers control when its condition holds. An immediate
// target is relative to the branch's own address; a register target is
// absolute.
type BranchInst struct {
	Op     BranchOp
	Target Operand
}

// SysInst is a system instruction. Num is the SWI cause payload.
type SysInst struct {
	Op  SysOp
	Num uint32
}

// field packing
const (
	codeClassShift = 30
	codeOpShift    = 26
	codeRdShift    = 21
	codeRs1Shift   = 16
	codeModeBit    = Code(1 << 15)
	codeImmMask    = Code(0x7fff)
	codeRs2Mask    = Code(0x1f)
)

// Class returns the instruction class from the top two bits.
func (code Code) Class() CodeClass {
	return CodeClass((code >> codeClassShift) & 0x3)
}

func (code Code) op() int {
	return int((code >> codeOpShift) & 0xf)
}

func (code Code) rd() RegNum {
	return RegNum((code >> codeRdShift) & 0x1f)
}

func (code Code) rs1() RegNum {
	return RegNum((code >> codeRs1Shift) & 0x1f)
}

// operand extracts the second operand and validates its must-be-zero
// bits.
func (code Code) operand() (o Operand, err error) {
	if code&codeModeBit != 0 {
		raw := uint32(code & codeImmMask)
		// Sign-extend 15 bits.
		o = ImmOperand(int32(raw<<17) >> 17)
		return
	}

	if code&codeImmMask != code&codeRs2Mask {
		err = ErrOpcodeField
		return
	}
	o = RegOperand(RegNum(code & codeRs2Mask))

	return
}

// encodeOperand packs an operand into the low 16 bits. Immediates are
// masked to the encodable range; the assembler validates before this.
func encodeOperand(o Operand) Code {
	if o.Mode == MODE_IMM {
		return codeModeBit | (Code(o.Imm) & codeImmMask)
	}
	return Code(o.Reg) & codeRs2Mask
}

func makeCode(class CodeClass, op int, rd, rs1 RegNum, operand Operand) Code {
	return Code(class)<<codeClassShift |
		Code(op)<<codeOpShift |
		Code(rd&0x1f)<<codeRdShift |
		Code(rs1&0x1f)<<codeRs1Shift |
		encodeOperand(operand)
}

func (inst AluInst) Encode() Code {
	return makeCode(OP_ALU, int(inst.Op), inst.Rd, inst.Rs1, inst.Src)
}

func (inst MemInst) Encode() Code {
	return makeCode(OP_MEM, int(inst.Op), inst.Rd, inst.Rs1, inst.Off)
}

func (inst BranchInst) Encode() Code {
	if inst.Target.Mode == MODE_REG {
		// Absolute target register rides in rs1.
		return makeCode(OP_BRANCH, int(inst.Op), 0, inst.Target.Reg, RegOperand(0))
	}
	return makeCode(OP_BRANCH, int(inst.Op), 0, 0, inst.Target)
}

func (inst SysInst) Encode() Code {
	if inst.Op == SYS_OP_SWI {
		return makeCode(OP_SYS, int(inst.Op), 0, 0, ImmOperand(int32(inst.Num)))
	}
	return makeCode(OP_SYS, int(inst.Op), 0, 0, RegOperand(0))
}

// Decode translates a raw instruction word into its structural form.
// Any pattern outside the defined encoding fails with ErrOpcode;
// reserved patterns are never a no-op.
func Decode(code Code) (inst Inst, err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	op := code.op()
	rd := code.rd()
	rs1 := code.rs1()

	var operand Operand
	operand, err = code.operand()
	if err != nil {
		return
	}

	switch code.Class() {
	case OP_ALU:
		if op > int(ALU_OP_CMP) {
			err = ErrOpcodeOp
			return
		}
		aop := AluOp(op)
		// Single-operand forms keep their unused fields zero.
		if (aop == ALU_OP_MOV || aop == ALU_OP_NOT) && rs1 != 0 {
			err = ErrOpcodeField
			return
		}
		if aop == ALU_OP_CMP && rd != 0 {
			err = ErrOpcodeField
			return
		}
		inst = AluInst{Op: aop, Rd: rd, Rs1: rs1, Src: operand}
	case OP_MEM:
		if op > int(MEM_OP_STB) {
			err = ErrOpcodeOp
			return
		}
		inst = MemInst{Op: MemOp(op), Rd: rd, Rs1: rs1, Off: operand}
	case OP_BRANCH:
		if op > int(BRANCH_OP_BPL) {
			err = ErrOpcodeOp
			return
		}
		if rd != 0 {
			err = ErrOpcodeField
			return
		}
		if operand.Mode == MODE_IMM {
			if rs1 != 0 {
				err = ErrOpcodeField
				return
			}
			inst = BranchInst{Op: BranchOp(op), Target: operand}
		} else {
			if operand.Reg != 0 {
				err = ErrOpcodeField
				return
			}
			inst = BranchInst{Op: BranchOp(op), Target: RegOperand(rs1)}
		}
	case OP_SYS:
		if op > int(SYS_OP_HALT) {
			err = ErrOpcodeOp
			return
		}
		sop := SysOp(op)
		if rd != 0 || rs1 != 0 {
			err = ErrOpcodeField
			return
		}
		if sop == SYS_OP_SWI {
			if operand.Mode != MODE_IMM || operand.Imm < 0 {
				err = ErrOpcodeField
				return
			}
			inst = SysInst{Op: sop, Num: uint32(operand.Imm)}
		} else {
			if operand != RegOperand(0) {
				err = ErrOpcodeField
				return
			}
			inst = SysInst{Op: sop}
		}
	}

	return
}

// String returns the disassembly of the word, or a .word directive for
// a pattern that does not decode.
func (code Code) String() string {
	inst, err := Decode(code)
	if err != nil {
		return fmt.Sprintf(".word 0x%08x", uint32(code))
	}
	return inst.String()
}

func (inst AluInst) String() string {
	switch inst.Op {
	case ALU_OP_MOV, ALU_OP_NOT:
		return fmt.Sprintf("%v %v, %v", inst.Op, inst.Rd, inst.Src)
	case ALU_OP_CMP:
		return fmt.Sprintf("%v %v, %v", inst.Op, inst.Rs1, inst.Src)
	}
	return fmt.Sprintf("%v %v, %v, %v", inst.Op, inst.Rd, inst.Rs1, inst.Src)
}

func (inst MemInst) String() string {
	return fmt.Sprintf("%v %v, %v, %v", inst.Op, inst.Rd, inst.Rs1, inst.Off)
}

func (inst BranchInst) String() string {
	return fmt.Sprintf("%v %v", inst.Op, inst.Target)
}

func (inst SysInst) String() string {
	if inst.Op == SYS_OP_SWI {
		return fmt.Sprintf("%v %d", inst.Op, inst.Num)
	}
	return inst.Op.String()
}
