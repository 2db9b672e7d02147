package cpu

import (
	"errors"

	"github.com/ezrec/mach32/translate"
)

var f = translate.From

var (
	// Core errors
	ErrDoubleFault  = errors.New(f("double fault"))
	ErrNotInHandler = errors.New(f("rti outside handler"))
	ErrWidth        = errors.New(f("width not 1, 2 or 4"))

	// Instruction decode errors
	ErrOpcodeOp    = errors.New(f("op"))
	ErrOpcodeField = errors.New(f("field not zero"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrOriginSyntax    = errors.New(f(".org syntax"))
	ErrWordSyntax      = errors.New(f(".word syntax"))
	ErrVectorSyntax    = errors.New(f(".vector syntax"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrOpcodeExtraArgs = errors.New(f("excessive arguments"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrImmediateRange  = errors.New(f("immediate out of range"))
	ErrTargetMissing   = errors.New(f("target missing"))
)

// ErrOpcode reports an instruction word that does not decode.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%08x", uint32(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrUnvectored reports a raised cause with no configured handler.
type ErrUnvectored Cause

func (eu ErrUnvectored) Error() string {
	return f("no vector for %v", Cause(eu))
}

func (eu ErrUnvectored) Is(err error) (ok bool) {
	_, ok = err.(ErrUnvectored)
	return
}

// MemFault reports an out-of-bounds or misaligned memory access.
type MemFault struct {
	Kind FaultKind
	Addr uint32
}

func (mf MemFault) Error() string {
	return f("memory fault (%v) at 0x%08x", mf.Kind, mf.Addr)
}

func (mf MemFault) Is(err error) (ok bool) {
	_, ok = err.(MemFault)
	return
}

// ErrLabelMissing reports a branch or vector target that was never defined.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrSyntax locates an assembler error in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value or register", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
