package asm

import "testing"

func TestParseLine_Blank(t *testing.T) {
	for _, raw := range []string{"", "   ", "  ; a comment", ";whole line"} {
		pl, err := ParseLine("t.as", 1, raw)
		if err != nil {
			t.Fatalf("%q: unexpected error: %s", raw, err)
		}

		if pl != nil {
			t.Errorf("%q: expected nil ParsedLine, got %+v", raw, pl)
		}
	}
}

func TestParseLine_LabelAndOperands(t *testing.T) {
	pl, err := ParseLine("t.as", 1, "LOOP: add #-1, r3")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if pl.Label != "LOOP" {
		t.Errorf("Label = %q, want LOOP", pl.Label)
	}

	if pl.Command != "add" {
		t.Errorf("Command = %q, want add", pl.Command)
	}

	want := []string{"#-1", "r3"}
	if len(pl.Operands) != 2 || pl.Operands[0] != want[0] || pl.Operands[1] != want[1] {
		t.Errorf("Operands = %v, want %v", pl.Operands, want)
	}
}

func TestParseLine_NoLabel(t *testing.T) {
	pl, err := ParseLine("t.as", 1, "stop")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if pl.Label != "" {
		t.Errorf("Label = %q, want empty", pl.Label)
	}

	if pl.Command != "stop" {
		t.Errorf("Command = %q, want stop", pl.Command)
	}

	if len(pl.Operands) != 0 {
		t.Errorf("Operands = %v, want none", pl.Operands)
	}
}

func TestParseLine_StringOperandWithComma(t *testing.T) {
	pl, err := ParseLine("t.as", 1, `.string "a,b"`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if len(pl.Operands) != 1 || pl.Operands[0] != `"a,b"` {
		t.Errorf("Operands = %v", pl.Operands)
	}
}

func TestParseLine_MatOperandIsRawString(t *testing.T) {
	pl, err := ParseLine("t.as", 1, "MAT: .mat [2][2] 1 2 3 4")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if len(pl.Operands) != 1 || pl.Operands[0] != "[2][2] 1 2 3 4" {
		t.Errorf("Operands = %v", pl.Operands)
	}
}

func TestParseLine_Errors(t *testing.T) {
	cases := []string{
		"frobnicate r1",  // unknown command
		"mov r1,, r2",    // double comma
		"mov r1, r2,",    // trailing comma
		"1bad: stop",     // invalid label
	}

	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			if _, err := ParseLine("t.as", 1, raw); err == nil {
				t.Errorf("expected error for %q", raw)
			}
		})
	}
}

func TestParseLine_TooLong(t *testing.T) {
	long := make([]byte, 81)
	for i := range long {
		long[i] = 'a'
	}

	if _, err := ParseLine("t.as", 1, string(long)); err == nil {
		t.Errorf("expected line-too-long error")
	}
}
