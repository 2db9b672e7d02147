package cpu

import (
	"encoding/binary"
	"iter"
)

// Opcode is one assembled source line: its location, tokens, and the
// instruction words it produced.
type Opcode struct {
	LineNo    int      // Source line number, 1-based.
	Addr      uint32   // Address of the first word.
	Words     []string // Tokenized source.
	Codes     []Code   // Assembled instruction words.
	LinkLabel string   // Branch target label awaiting resolution.
}

// Program is an assembled MACH-32 image: instruction words with their
// source mapping, plus the vector table and entry point the source
// declared.
type Program struct {
	Origin  uint32   // Load address of the image.
	Entry   uint32   // Initial PC.
	Vectors Vectors  // Trap vectors declared with .vector.
	Opcodes []Opcode // Assembled lines in address order.
}

// Codes iterates the assembled words as (address, code) pairs.
func (prog *Program) Codes() iter.Seq2[uint32, Code] {
	return func(yield func(addr uint32, code Code) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Addr+uint32(n)*WIDTH_WORD, code) {
					return
				}
			}
		}
	}
}

// Binary returns the flat little-endian image, origin-relative. Gaps
// left by .org are zero filled.
func (prog *Program) Binary() (image []byte) {
	var limit uint32
	for addr := range prog.Codes() {
		if addr+WIDTH_WORD-prog.Origin > limit {
			limit = addr + WIDTH_WORD - prog.Origin
		}
	}

	image = make([]byte, limit)
	for addr, code := range prog.Codes() {
		binary.LittleEndian.PutUint32(image[addr-prog.Origin:], uint32(code))
	}

	return
}

// LineAt maps an address back to its source line, or 0 when the
// address is outside the program.
func (prog *Program) LineAt(addr uint32) (lineno int) {
	for _, op := range prog.Opcodes {
		span := uint32(len(op.Codes)) * WIDTH_WORD
		if addr >= op.Addr && addr < op.Addr+span {
			lineno = op.LineNo
			return
		}
	}

	return
}
