package asm

// word.go defines the machine word and the bit layouts used by the second pass. It plays the role
// the teacher's vm/types.go Instruction type plays for the LC-3: a small value type plus packing
// helpers, kept next to the catalogue that drives it rather than in a separate virtual-machine
// package, since this assembler never executes the words it produces.

import "fmt"

// Word is the 10-bit unsigned machine word. Only the bottom 10 bits are ever significant.
type Word uint16

func (w Word) String() string {
	return fmt.Sprintf("%#03x", uint16(w)&0x03ff)
}

// ARE is the three-valued relocation flag attached to every emitted instruction and operand word.
type ARE uint8

//go:generate go run golang.org/x/tools/cmd/stringer -type ARE -output are_string.go

const (
	Absolute    ARE = 0 // Fixed value; never relocated.
	External    ARE = 1 // Resolved by the linker against an external symbol.
	Relocatable ARE = 2 // A code or data address, shifted if the unit is relocated.
)

// AddressingMode is how an operand's value is obtained.
type AddressingMode uint8

//go:generate go run golang.org/x/tools/cmd/stringer -type AddressingMode -output addressing_mode_string.go

const (
	Immediate    AddressingMode = iota // #n
	Direct                             // label
	MatrixAccess                       // label[rX][rY]
	Register                           // rN
)

// Mask returns the mode's 1-hot bit, as used in OpcodeInfo.SrcMask and DstMask.
func (m AddressingMode) Mask() uint8 {
	return 1 << uint8(m)
}

// Opcode numbers an instruction 0..15, matching its position in catalogue.toml.
type Opcode uint8

//go:generate go run golang.org/x/tools/cmd/stringer -type Opcode -output opcode_string.go

const (
	MOV Opcode = iota
	CMP
	ADD
	SUB
	NOT
	CLR
	LEA
	INC
	DEC
	JMP
	BNE
	RED
	PRN
	JSR
	RTS
	STOP
)

// PackHeader encodes an instruction's header word: opcode, source and destination addressing
// modes. ARE is always Absolute for a header word.
func PackHeader(op Opcode, src, dst AddressingMode) Word {
	return Word(uint16(op)<<6 | uint16(src)<<4 | uint16(dst)<<2)
}

// PackImmediate encodes an immediate operand. The value is masked to 8 bits (two's complement) and
// placed in bits 9..2; ARE is Absolute.
func PackImmediate(value int32) Word {
	return Word(uint16(value)&0x00ff) << 2
}

// PackDirect encodes a resolved direct (label) operand. are must be External or Relocatable; when
// External, address is ignored (the field is zero, per §4.8).
func PackDirect(address uint16, are ARE) Word {
	if are == External {
		return Word(are)
	}

	return Word(address&0x00ff)<<2 | Word(are)
}

// PackRegister encodes a single register operand. Only bits 4..2 carry the register number; ARE is
// Absolute.
func PackRegister(reg uint8) Word {
	return Word(reg&0x7) << 2
}

// PackRegisterPair encodes two register operands sharing one word: src in bits 9..6, dst in bits
// 5..2. Used both for two-register instructions and for the second word of a matrix access.
func PackRegisterPair(src, dst uint8) Word {
	return Word(src&0xf)<<6 | Word(dst&0xf)<<2
}

// PackData encodes a .data/.string/.mat value. Unlike operand words, a data word reserves no ARE
// sub-field: the full 10 bits are the two's-complement value (see DESIGN.md, "data word vs.
// operand word ARE layout"). No ARE value is recorded for a data word, inside it or beside it.
func PackData(value int32) Word {
	return Word(uint16(value) & 0x03ff)
}
