package asm

import (
	"strings"
	"testing"
)

func runFirstPass(t *testing.T, src string) *SyntaxTable {
	t.Helper()

	fp := NewFirstPass("t.am")

	table, err := fp.Run(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	return table
}

func TestFirstPass_RegisterToRegisterMov(t *testing.T) {
	table := runFirstPass(t, "mov r1, r2\n")

	if table.ICFinal != 102 {
		t.Errorf("ICFinal = %d, want 102", table.ICFinal)
	}

	if len(table.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(table.Lines))
	}

	rec := table.Lines[0]
	if rec.Address != 100 {
		t.Errorf("Address = %d, want 100", rec.Address)
	}

	if len(rec.Modes) != 2 || rec.Modes[0] != Register || rec.Modes[1] != Register {
		t.Errorf("Modes = %v", rec.Modes)
	}
}

func TestFirstPass_ImmediateToRegisterAdd(t *testing.T) {
	table := runFirstPass(t, "add #-1, r3\n")

	rec := table.Lines[0]
	if rec.Address != 100 {
		t.Errorf("Address = %d, want 100", rec.Address)
	}

	// header + immediate word + register word = 3 words
	if table.ICFinal != 103 {
		t.Errorf("ICFinal = %d, want 103", table.ICFinal)
	}
}

func TestFirstPass_DataLabelRelocated(t *testing.T) {
	table := runFirstPass(t, "N: .data 1, -1, 5\n")

	if table.ICFinal != startIC {
		t.Errorf("ICFinal = %d, want %d (no code)", table.ICFinal, startIC)
	}

	sym, ok := table.Symbols.Lookup("N")
	if !ok {
		t.Fatalf("N not found")
	}

	if sym.Address != startIC {
		t.Errorf("N.Address = %d, want %d", sym.Address, startIC)
	}
}

func TestFirstPass_StringSizing(t *testing.T) {
	table := runFirstPass(t, `S: .string "ab"`+"\n")

	if table.DCFinal != 3 {
		t.Errorf("DCFinal = %d, want 3", table.DCFinal)
	}
}

func TestFirstPass_MatSizing(t *testing.T) {
	table := runFirstPass(t, "M: .mat [2][2] 1 2 3 4\n")

	if table.DCFinal != 4 {
		t.Errorf("DCFinal = %d, want 4", table.DCFinal)
	}
}

func TestFirstPass_MatSizing_NoInitialValues(t *testing.T) {
	table := runFirstPass(t, "M: .mat [2][2]\n")

	if table.DCFinal != 4 {
		t.Errorf("DCFinal = %d, want 4", table.DCFinal)
	}
}

func TestFirstPass_WrongOperandCount(t *testing.T) {
	fp := NewFirstPass("t.am")

	_, err := fp.Run(strings.NewReader("mov r1\n"))
	if err == nil {
		t.Fatalf("expected error for wrong operand count")
	}
}

func TestFirstPass_IllegalAddressingMode(t *testing.T) {
	fp := NewFirstPass("t.am")

	// lea's source mask only allows Direct/MatrixAccess, not Immediate.
	_, err := fp.Run(strings.NewReader("lea #1, r2\n"))
	if err == nil {
		t.Fatalf("expected error for illegal addressing mode")
	}
}

func TestFirstPass_EntryWithoutDefinition(t *testing.T) {
	fp := NewFirstPass("t.am")

	_, err := fp.Run(strings.NewReader(".entry GHOST\nstop\n"))
	if err == nil {
		t.Fatalf("expected error for undefined entry")
	}
}

func TestFirstPass_MatrixAccessSizing(t *testing.T) {
	table := runFirstPass(t, "prn M[r1][r2]\n")

	// header + 2 words for matrix access = 3
	if table.ICFinal != 103 {
		t.Errorf("ICFinal = %d, want 103", table.ICFinal)
	}
}
