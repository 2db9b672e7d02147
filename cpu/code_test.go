package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	table := []Inst{
		AluInst{Op: ALU_OP_MOV, Rd: 1, Src: ImmOperand(5)},
		AluInst{Op: ALU_OP_MOV, Rd: 31, Src: RegOperand(30)},
		AluInst{Op: ALU_OP_NOT, Rd: 2, Src: RegOperand(3)},
		AluInst{Op: ALU_OP_ADD, Rd: 1, Rs1: 2, Src: RegOperand(3)},
		AluInst{Op: ALU_OP_ADD, Rd: 1, Rs1: 2, Src: ImmOperand(-1)},
		AluInst{Op: ALU_OP_SUB, Rd: 9, Rs1: 10, Src: ImmOperand(IMM_MIN)},
		AluInst{Op: ALU_OP_DIV, Rd: 4, Rs1: 5, Src: ImmOperand(IMM_MAX)},
		AluInst{Op: ALU_OP_CMP, Rs1: 7, Src: ImmOperand(42)},
		MemInst{Op: MEM_OP_LDW, Rd: 1, Rs1: 2, Off: ImmOperand(8)},
		MemInst{Op: MEM_OP_LDBS, Rd: 3, Rs1: 0, Off: ImmOperand(-4)},
		MemInst{Op: MEM_OP_STW, Rd: 5, Rs1: 6, Off: RegOperand(7)},
		MemInst{Op: MEM_OP_STB, Rd: 31, Rs1: 31, Off: RegOperand(31)},
		BranchInst{Op: BRANCH_OP_BRA, Target: ImmOperand(-8)},
		BranchInst{Op: BRANCH_OP_BEQ, Target: ImmOperand(16)},
		BranchInst{Op: BRANCH_OP_BPL, Target: RegOperand(12)},
		SysInst{Op: SYS_OP_NOP},
		SysInst{Op: SYS_OP_SWI, Num: 3},
		SysInst{Op: SYS_OP_RTI},
		SysInst{Op: SYS_OP_STI},
		SysInst{Op: SYS_OP_CLI},
		SysInst{Op: SYS_OP_HALT},
	}

	for _, inst := range table {
		code := inst.Encode()
		decoded, err := Decode(code)
		assert.NoError(err, "%v", inst)
		assert.Equal(inst, decoded, "0x%08x", uint32(code))
	}
}

func TestCode_Reserved(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		code Code
	}){
		{"alu_op_13", makeCode(OP_ALU, 13, 0, 0, RegOperand(0))},
		{"alu_op_15", makeCode(OP_ALU, 15, 0, 0, RegOperand(0))},
		{"mem_op_8", makeCode(OP_MEM, 8, 0, 0, RegOperand(0))},
		{"branch_op_10", makeCode(OP_BRANCH, 10, 0, 0, ImmOperand(0))},
		{"sys_op_6", makeCode(OP_SYS, 6, 0, 0, RegOperand(0))},
		{"sys_op_15", makeCode(OP_SYS, 15, 0, 0, RegOperand(0))},
		{"mode_junk", makeCode(OP_ALU, int(ALU_OP_ADD), 1, 2, RegOperand(3)) | 0x7fe0},
		{"mov_rs1", makeCode(OP_ALU, int(ALU_OP_MOV), 1, 2, RegOperand(3))},
		{"cmp_rd", makeCode(OP_ALU, int(ALU_OP_CMP), 1, 2, RegOperand(3))},
		{"branch_rd", makeCode(OP_BRANCH, int(BRANCH_OP_BRA), 1, 0, ImmOperand(0))},
		{"branch_rs1_imm", makeCode(OP_BRANCH, int(BRANCH_OP_BRA), 0, 2, ImmOperand(4))},
		{"sys_fields", makeCode(OP_SYS, int(SYS_OP_HALT), 1, 0, RegOperand(0))},
		{"halt_imm", makeCode(OP_SYS, int(SYS_OP_HALT), 0, 0, ImmOperand(1))},
	}

	for _, entry := range table {
		_, err := Decode(entry.code)
		assert.Error(err, entry.name)
		assert.ErrorIs(err, ErrOpcode(0), entry.name)
	}
}

func TestCode_String(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		inst Inst
		text string
	}){
		{AluInst{Op: ALU_OP_ADD, Rd: 1, Rs1: 2, Src: RegOperand(3)}, "add r1, r2, r3"},
		{AluInst{Op: ALU_OP_MOV, Rd: 4, Src: ImmOperand(-2)}, "mov r4, -2"},
		{AluInst{Op: ALU_OP_CMP, Rs1: 7, Src: ImmOperand(0)}, "cmp r7, 0"},
		{MemInst{Op: MEM_OP_LDW, Rd: 1, Rs1: 2, Off: ImmOperand(8)}, "ldw r1, r2, 8"},
		{BranchInst{Op: BRANCH_OP_BEQ, Target: ImmOperand(12)}, "beq 12"},
		{BranchInst{Op: BRANCH_OP_BRA, Target: RegOperand(5)}, "bra r5"},
		{SysInst{Op: SYS_OP_SWI, Num: 3}, "swi 3"},
		{SysInst{Op: SYS_OP_HALT}, "halt"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.inst.String())
		assert.Equal(entry.text, entry.inst.Encode().String())
	}

	// A reserved word disassembles as raw data.
	assert.Equal(".word 0xf4000000", Code(0xf4000000).String())
}

func TestCode_ImmediateSignExtend(t *testing.T) {
	assert := assert.New(t)

	inst, err := Decode(AluInst{Op: ALU_OP_ADD, Rd: 1, Rs1: 1, Src: ImmOperand(-1)}.Encode())
	assert.NoError(err)
	assert.Equal(int32(-1), inst.(AluInst).Src.Imm)

	inst, err = Decode(AluInst{Op: ALU_OP_ADD, Rd: 1, Rs1: 1, Src: ImmOperand(IMM_MIN)}.Encode())
	assert.NoError(err)
	assert.Equal(int32(IMM_MIN), inst.(AluInst).Src.Imm)
}
