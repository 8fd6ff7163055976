// Package wordcode implements the base-4-letter encoding used by the assembler's output files. It
// plays the same role as an encoding.TextMarshaler over a fixed-width binary record that Intel Hex
// plays for other machines: it is not meant to be a general-purpose codec, just the one format this
// assembler's object, entries and externals files use.
//
// Each base-4 digit is a letter: 0,1,2,3 map to 'a','b','c','d'. A 10-bit machine word is always
// written as 5 letters; an 8-bit address is always written as 4 letters; both are big-endian, most
// significant digit first.
//
// # Bugs
//
// There is no decoder here. Nothing in the assembler ever needs to read these files back in, and
// adding one would mean maintaining code with no caller. The round-trip property is still worth
// checking, so a decoder exists, but only in the test file.
package wordcode

import (
	"fmt"
	"strings"
)

const digits = "abcd"

// WordDigits is the number of base-4 letters in an encoded 10-bit word.
const WordDigits = 5

// AddressDigits is the number of base-4 letters in an encoded 8-bit address.
const AddressDigits = 4

// EncodeWord encodes the bottom 10 bits of w as 5 base-4 letters.
func EncodeWord(w uint16) string {
	return encode(w&0x03ff, WordDigits)
}

// EncodeAddress encodes the bottom 8 bits of addr as 4 base-4 letters.
func EncodeAddress(addr uint16) string {
	return encode(addr&0x00ff, AddressDigits)
}

// encode writes val as width base-4 letters, most significant digit first.
func encode(val uint16, width int) string {
	letters := make([]byte, width)

	for i := width - 1; i >= 0; i-- {
		letters[i] = digits[val&0x3]
		val >>= 2
	}

	return string(letters)
}

// EncodeCount encodes val as a variable-width base-4-letter number, stripping leading 'a' digits
// but always keeping at least one. Used for the object file header, where the instruction and data
// counts are not fixed-width like word or address fields.
func EncodeCount(val uint16) string {
	full := encode(val, WordDigits)

	trimmed := strings.TrimLeft(full, "a")
	if trimmed == "" {
		return "a"
	}

	return trimmed
}

// Line formats one "address code" record as it appears in an object file.
func Line(addr uint16, code uint16) string {
	return fmt.Sprintf("%s %s", EncodeAddress(addr), EncodeWord(code))
}
