package asm

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// nopCloser adapts a bytes.Buffer to io.WriteCloser for the writer factory.
type nopCloser struct {
	*bytes.Buffer
}

func (nopCloser) Close() error { return nil }

func newCapturingFactory() (WriterFactory, map[string]*bytes.Buffer) {
	outputs := make(map[string]*bytes.Buffer)

	factory := func(suffix string) (io.WriteCloser, error) {
		buf := &bytes.Buffer{}
		outputs[suffix] = buf

		return nopCloser{buf}, nil
	}

	return factory, outputs
}

func TestAssembler_FullPipeline(t *testing.T) {
	src := ".extern X\n.entry START\nSTART: mov r1, r2\n       jmp X\n"

	factory, outputs := newCapturingFactory()

	a := NewAssembler()
	if err := a.Assemble("t", strings.NewReader(src), factory); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	wantOb := "ba a\n" +
		"bcba aadda\n" +
		"bcbb abaca\n" +
		"bcbc cbaba\n" +
		"bcbd aaaab\n"

	if got := outputs[".ob"].String(); got != wantOb {
		t.Errorf(".ob =\n%q\nwant\n%q", got, wantOb)
	}

	if got := outputs[".ent"].String(); got != "START bcba\n" {
		t.Errorf(".ent = %q, want %q", got, "START bcba\n")
	}

	if got := outputs[".ext"].String(); got != "X bcbd\n" {
		t.Errorf(".ext = %q, want %q", got, "X bcbd\n")
	}

	if outputs[".am"].String() == "" {
		t.Errorf(".am should not be empty")
	}
}

func TestAssembler_AbortsOnError(t *testing.T) {
	factory, outputs := newCapturingFactory()

	a := NewAssembler()
	err := a.Assemble("t", strings.NewReader("jmp GHOST\n"), factory)
	if err == nil {
		t.Fatalf("expected error for undefined label")
	}

	if _, ok := outputs[".ob"]; ok {
		t.Errorf(".ob should not be produced when the file has errors")
	}
}
