package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates.
var sysEquate = map[string]string{
	"LINENO":      "0",
	"VECTOR_NONE": fmt.Sprintf("%#v", VECTOR_NONE),
}

// Assembler is a single pass assembler for the MACH-32 instruction
// set, with labels, equates, vector declarations, and compile-time
// $( ... ) expression evaluation.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]uint32 // Map of labels to addresses.
	Equate    map[string]string // Map of equates.

	origin  uint32
	next    uint32
	entry   string // Label named by .entry, linked at the end.
	vectors Vectors
	vecfix  []vectorFix
}

type vectorFix struct {
	cause  Cause
	label  string
	lineno int
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap maps register names to indexes.
var regMap = func() (m map[string]RegNum) {
	m = make(map[string]RegNum, NREG)
	for n := 0; n < NREG; n++ {
		m[RegNum(n).String()] = RegNum(n)
	}
	return
}()

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	invert := false
	if len(word) > 0 && word[0] == '~' {
		invert = true
		word = word[1:]
	}
	v64, err := strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 <= 0xffffffff && v64 >= -int64(0x80000000) {
		if v64 < 0 {
			value = uint32(0xffffffff + (v64 + 1))
		} else {
			value = uint32(v64)
		}
	}

	if invert {
		value = ^value
	}

	return
}

// regOf returns the register index of a word.
func (asm *Assembler) regOf(word string) (r RegNum, err error) {
	r, ok := regMap[word]
	if !ok {
		err = ErrRegisterInvalid
	}

	return
}

// operandOf returns the register or immediate operand of a word.
func (asm *Assembler) operandOf(word string) (o Operand, err error) {
	r, ok := regMap[word]
	if ok {
		o = RegOperand(r)
		return
	}

	value, err := asm.valueOf(word)
	if err != nil {
		err = ErrParseValue(word)
		return
	}

	imm := int32(value)
	if imm < IMM_MIN || imm > IMM_MAX {
		err = ErrImmediateRange
		return
	}
	o = ImmOperand(imm)

	return
}

// parenEval does compile-time $(...) evaluations.
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(int(addr))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine tokenizes one line: expression expansion, equate
// substitution, and label definitions.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	// Commas separate operands; treat them as whitespace.
	line = strings.ReplaceAll(line, ",", " ")
	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.next
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// aluArity maps each ALU mnemonic to its operand count.
func aluArity(op AluOp) int {
	switch op {
	case ALU_OP_MOV, ALU_OP_NOT, ALU_OP_CMP:
		return 2
	}
	return 3
}

// mnemonic tables, keyed by the stringer names.
var aluMap = func() (m map[string]AluOp) {
	m = make(map[string]AluOp)
	for op := ALU_OP_MOV; op <= ALU_OP_CMP; op++ {
		m[op.String()] = op
	}
	return
}()

var memMap = func() (m map[string]MemOp) {
	m = make(map[string]MemOp)
	for op := MEM_OP_LDW; op <= MEM_OP_STB; op++ {
		m[op.String()] = op
	}
	return
}()

var branchMap = func() (m map[string]BranchOp) {
	m = make(map[string]BranchOp)
	for op := BRANCH_OP_BRA; op <= BRANCH_OP_BPL; op++ {
		m[op.String()] = op
	}
	return
}()

var sysMap = func() (m map[string]SysOp) {
	m = make(map[string]SysOp)
	for op := SYS_OP_NOP; op <= SYS_OP_HALT; op++ {
		m[op.String()] = op
	}
	return
}()

// parseWords assembles the tokens of one line.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	if len(words) == 0 {
		return
	}

	op := Opcode{
		LineNo: lineno,
		Addr:   asm.next,
		Words:  slices.Clone(words),
	}
	name := words[0]
	args := words[1:]

	switch {
	case name == ".org":
		if len(args) != 1 {
			err = ErrOriginSyntax
			return
		}
		var addr uint32
		addr, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if len(asm.Opcode) == 0 {
			asm.origin = addr
		} else if addr < asm.next {
			// The image cannot move backwards.
			err = ErrOriginSyntax
			return
		}
		asm.next = addr
		return
	case name == ".entry":
		if len(args) != 1 {
			err = ErrTargetMissing
			return
		}
		asm.entry = args[0]
		return
	case name == ".vector":
		if len(args) != 2 {
			err = ErrVectorSyntax
			return
		}
		var cause uint32
		cause, err = asm.valueOf(args[0])
		if err != nil || cause >= NCAUSE {
			err = ErrVectorSyntax
			return
		}
		asm.vecfix = append(asm.vecfix, vectorFix{
			cause:  Cause(cause),
			label:  args[1],
			lineno: lineno,
		})
		return
	case name == ".word":
		if len(args) == 0 {
			err = ErrWordSyntax
			return
		}
		for _, arg := range args {
			var value uint32
			value, err = asm.valueOf(arg)
			if err != nil {
				return
			}
			op.Codes = append(op.Codes, Code(value))
		}
	default:
		var code Code
		var link string
		code, link, err = asm.assemble(name, args)
		if err != nil {
			return
		}
		op.Codes = []Code{code}
		op.LinkLabel = link
	}

	asm.next = op.Addr + uint32(len(op.Codes))*WIDTH_WORD
	asm.Opcode = append(asm.Opcode, op)

	return
}

// assemble encodes one instruction. A branch to a not-yet-defined
// label returns the label for final linking.
func (asm *Assembler) assemble(name string, args []string) (code Code, link string, err error) {
	if aop, ok := aluMap[name]; ok {
		arity := aluArity(aop)
		if len(args) != arity {
			if len(args) > arity {
				err = ErrOpcodeExtraArgs
			} else {
				err = ErrTargetMissing
			}
			return
		}

		inst := AluInst{Op: aop}
		var dst RegNum
		dst, err = asm.regOf(args[0])
		if err != nil {
			return
		}
		if aop == ALU_OP_CMP {
			inst.Rs1 = dst
		} else {
			inst.Rd = dst
		}
		if arity == 3 {
			inst.Rs1, err = asm.regOf(args[1])
			if err != nil {
				return
			}
		}
		inst.Src, err = asm.operandOf(args[len(args)-1])
		if err != nil {
			return
		}
		code = inst.Encode()
		return
	}

	if mop, ok := memMap[name]; ok {
		if len(args) != 3 {
			err = ErrTargetMissing
			return
		}
		inst := MemInst{Op: mop}
		inst.Rd, err = asm.regOf(args[0])
		if err != nil {
			return
		}
		inst.Rs1, err = asm.regOf(args[1])
		if err != nil {
			return
		}
		inst.Off, err = asm.operandOf(args[2])
		if err != nil {
			return
		}
		code = inst.Encode()
		return
	}

	if bop, ok := branchMap[name]; ok {
		if len(args) != 1 {
			err = ErrTargetMissing
			return
		}
		target := args[0]
		if r, is_reg := regMap[target]; is_reg {
			code = BranchInst{Op: bop, Target: RegOperand(r)}.Encode()
			return
		}
		if addr, is_label := asm.Label[target]; is_label {
			var off Operand
			off, err = branchOffset(addr, asm.next)
			if err != nil {
				return
			}
			code = BranchInst{Op: bop, Target: off}.Encode()
			return
		}
		if _, nerr := asm.valueOf(target); nerr == nil {
			// Literal relative displacement.
			var o Operand
			o, err = asm.operandOf(target)
			if err != nil {
				return
			}
			code = BranchInst{Op: bop, Target: o}.Encode()
			return
		}
		// Forward reference, linked after the last line.
		code = BranchInst{Op: bop, Target: ImmOperand(0)}.Encode()
		link = target
		return
	}

	if sop, ok := sysMap[name]; ok {
		inst := SysInst{Op: sop}
		if sop == SYS_OP_SWI {
			if len(args) != 1 {
				err = ErrTargetMissing
				return
			}
			var num uint32
			num, err = asm.valueOf(args[0])
			if err != nil {
				return
			}
			if num > IMM_MAX {
				err = ErrImmediateRange
				return
			}
			inst.Num = num
		} else if len(args) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		code = inst.Encode()
		return
	}

	err = ErrOpcodeInvalid

	return
}

// branchOffset encodes a branch displacement from the branch's own
// address to the target address.
func branchOffset(target, from uint32) (o Operand, err error) {
	off := int64(target) - int64(from)
	if off < IMM_MIN || off > IMM_MAX {
		err = ErrImmediateRange
		return
	}
	o = ImmOperand(int32(off))

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]
	asm.Label = make(map[string]uint32, 16)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.origin = 0
	asm.next = 0
	asm.entry = ""
	asm.vectors = NoVectors()
	asm.vecfix = nil

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of branch labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}

		var inst Inst
		inst, err = Decode(op.Codes[0])
		if err != nil {
			return
		}
		branch := inst.(BranchInst)
		branch.Target, err = branchOffset(addr, op.Addr)
		if err != nil {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			return
		}
		op.Codes[0] = branch.Encode()
	}

	// Link declared vectors.
	for _, fix := range asm.vecfix {
		addr, ok := asm.Label[fix.label]
		if !ok {
			var verr error
			addr, verr = asm.valueOf(fix.label)
			if verr != nil {
				lineno = fix.lineno
				err = ErrLabelMissing(fix.label)
				return
			}
		}
		asm.vectors[fix.cause] = addr
	}

	entry := asm.origin
	if len(asm.entry) != 0 {
		addr, ok := asm.Label[asm.entry]
		if !ok {
			err = ErrLabelMissing(asm.entry)
			return
		}
		entry = addr
	}

	prog = &Program{
		Origin:  asm.origin,
		Entry:   entry,
		Vectors: asm.vectors,
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}
