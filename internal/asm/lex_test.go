package asm

import "testing"

func TestIsValidLabel(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"LOOP", true},
		{"x1", true},
		{"a", true},
		{"1label", false},
		{"r3", false},
		{"mov", false},
		{"has space", false},
		{"", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsValidLabel(c.name); got != c.ok {
				t.Errorf("IsValidLabel(%q) = %v, want %v", c.name, got, c.ok)
			}
		})
	}
}

func TestIsValidLabel_MaxLength(t *testing.T) {
	ok := make([]byte, maxLabelLen)
	for i := range ok {
		ok[i] = 'a'
	}

	if !IsValidLabel(string(ok)) {
		t.Errorf("expected 30-char label to be valid")
	}

	tooLong := append(ok, 'a')
	if IsValidLabel(string(tooLong)) {
		t.Errorf("expected 31-char label to be invalid")
	}
}

func TestIsRegister(t *testing.T) {
	for n := 0; n <= 7; n++ {
		tok := string(rune('r')) + string(rune('0'+n))
		if !IsRegister(tok) {
			t.Errorf("IsRegister(%q) = false, want true", tok)
		}
	}

	for _, tok := range []string{"r8", "r", "R1", "r10", "reg1"} {
		if IsRegister(tok) {
			t.Errorf("IsRegister(%q) = true, want false", tok)
		}
	}
}

func TestParseImmediate(t *testing.T) {
	cases := []struct {
		tok    string
		shaped bool
		want   int32
		err    bool
	}{
		{"#5", true, 5, false},
		{"#-1", true, -1, false},
		{"#+3", true, 3, false},
		{"#", true, 0, true},
		{"#abc", true, 0, true},
		{"label", false, 0, false},
	}

	for _, c := range cases {
		t.Run(c.tok, func(t *testing.T) {
			val, shaped, err := ParseImmediate(c.tok)

			if shaped != c.shaped {
				t.Fatalf("shaped = %v, want %v", shaped, c.shaped)
			}

			if c.err {
				if err == nil {
					t.Fatalf("expected error")
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}

			if shaped && val != c.want {
				t.Errorf("val = %d, want %d", val, c.want)
			}
		})
	}
}

func TestIsStringOperand(t *testing.T) {
	cases := map[string]bool{
		`"ab"`: true,
		`""`:   true,
		`"`:    false,
		`ab`:   false,
	}

	for tok, want := range cases {
		if got := IsStringOperand(tok); got != want {
			t.Errorf("IsStringOperand(%q) = %v, want %v", tok, got, want)
		}
	}
}

func TestParseMatrixAccess(t *testing.T) {
	label, regA, regB, ok := ParseMatrixAccess("M[r1][r2]")
	if !ok {
		t.Fatalf("expected match")
	}

	if label != "M" || regA != "r1" || regB != "r2" {
		t.Errorf("got (%q, %q, %q)", label, regA, regB)
	}

	for _, bad := range []string{"M[r1] [r2]", "M[r1]", "M[r8][r1]", "M r1 r2"} {
		if _, _, _, ok := ParseMatrixAccess(bad); ok {
			t.Errorf("ParseMatrixAccess(%q) unexpectedly matched", bad)
		}
	}
}

func TestClassifyOperand(t *testing.T) {
	cases := []struct {
		tok  string
		mode AddressingMode
		ok   bool
	}{
		{"#4", Immediate, true},
		{"r3", Register, true},
		{"M[r0][r1]", MatrixAccess, true},
		{"LABEL", Direct, true},
		{"1bad", 0, false},
	}

	for _, c := range cases {
		mode, ok := ClassifyOperand(c.tok)
		if ok != c.ok {
			t.Fatalf("%q: ok = %v, want %v", c.tok, ok, c.ok)
		}

		if ok && mode != c.mode {
			t.Errorf("%q: mode = %s, want %s", c.tok, mode, c.mode)
		}
	}
}
