package asm

// lex.go holds the lexical validators described in the architecture's leaves-first layering: small,
// independent predicates over tokens, with no knowledge of lines, passes, or the symbol table. Each
// returns success/failure; callers that need a diagnostic wrap the failure themselves.

import (
	"regexp"
	"strconv"
	"strings"
)

const maxLabelLen = 30

var labelPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
var registerPattern = regexp.MustCompile(`^r[0-7]$`)
var matrixPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*)\[(r[0-7])\]\[(r[0-7])\]$`)

// IsValidLabel reports whether name satisfies the label-naming rules: 1..30 characters, alphabetic
// first character, alphanumeric remainder, not a register, not an opcode mnemonic.
func IsValidLabel(name string) bool {
	if len(name) < 1 || len(name) > maxLabelLen {
		return false
	}

	if !labelPattern.MatchString(name) {
		return false
	}

	if IsRegister(name) {
		return false
	}

	if _, ok := LookupOpcode(name); ok {
		return false
	}

	return true
}

// IsValidMacroName reports whether name is a legal macro name: the same shape as a label, and not
// already present in existing (the macro table built so far).
func IsValidMacroName(name string, existing map[string]bool) bool {
	if !IsValidLabel(name) {
		return false
	}

	return !existing[name]
}

// IsRegister reports whether tok is exactly "r" followed by a single digit 0..7.
func IsRegister(tok string) bool {
	return registerPattern.MatchString(tok)
}

// RegisterNumber extracts the register number from a token already known to satisfy IsRegister.
func RegisterNumber(tok string) uint8 {
	return tok[1] - '0'
}

// ParseImmediate parses an immediate operand of the form "#[+-]digits". The second return is false
// if tok isn't shaped like an immediate at all; a shaped-but-out-of-range or malformed numeral is
// reported via the error.
func ParseImmediate(tok string) (int32, bool, error) {
	if !strings.HasPrefix(tok, "#") {
		return 0, false, nil
	}

	body := tok[1:]
	if body == "" {
		return 0, true, &LexicalError{Token: tok, Msg: "immediate operand missing value"}
	}

	n, err := strconv.ParseInt(body, 10, 64)
	if err != nil {
		return 0, true, &LexicalError{Token: tok, Msg: "malformed immediate value"}
	}

	return int32(n), true, nil
}

// IsStringOperand reports whether tok is a quoted string operand: begins and ends with '"' and is
// at least two characters long.
func IsStringOperand(tok string) bool {
	return len(tok) >= 2 && strings.HasPrefix(tok, `"`) && strings.HasSuffix(tok, `"`)
}

// StringContents returns the text between the quotes of a token already known to satisfy
// IsStringOperand.
func StringContents(tok string) string {
	return tok[1 : len(tok)-1]
}

// ParseMatrixAccess recognises "LABEL[rA][rB]" with no internal whitespace. It returns the label and
// the two register tokens on success.
func ParseMatrixAccess(tok string) (label, regA, regB string, ok bool) {
	m := matrixPattern.FindStringSubmatch(tok)
	if m == nil {
		return "", "", "", false
	}

	return m[1], m[2], m[3], true
}

// ClassifyOperand determines which of the four addressing modes tok matches, without validating
// that the label (for Direct/MatrixAccess) is actually defined — that's the symbol table's job.
func ClassifyOperand(tok string) (AddressingMode, bool) {
	if _, shaped, err := ParseImmediate(tok); shaped {
		if err != nil {
			return 0, false
		}

		return Immediate, true
	}

	if _, _, _, ok := ParseMatrixAccess(tok); ok {
		return MatrixAccess, true
	}

	if IsRegister(tok) {
		return Register, true
	}

	if labelPattern.MatchString(tok) {
		return Direct, true
	}

	return 0, false
}
