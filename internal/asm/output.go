package asm

// output.go emits the three auxiliary files described in §4.9, using the base-4-letter codec in
// wordcode. It writes through whatever io.Writer the caller hands it; Assembler is the one that
// decides which suffixes get created and where, keeping this file ignorant of the filesystem.

import (
	"fmt"
	"io"

	"github.com/tenbit/asm/internal/wordcode"
	"github.com/tenbit/asm/internal/xlog"
)

// WriteObject writes the .ob file: a header line of (instruction-word count, data-word count) then
// one "address code" line per instruction word followed by one per data word.
func WriteObject(log *xlog.Logger, w io.Writer, a *Assembly) error {
	instrCount := a.ICFinal - startIC

	header := fmt.Sprintf("%s %s\n", wordcode.EncodeCount(instrCount), wordcode.EncodeCount(a.DCFinal))
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	for _, word := range a.Instr {
		log.Debug("write instruction word", "address", word.Address, "word", word.Word)

		if _, err := fmt.Fprintln(w, wordcode.Line(word.Address, uint16(word.Word))); err != nil {
			return err
		}
	}

	for _, word := range a.Data {
		log.Debug("write data word", "address", word.Address, "word", word.Word)

		if _, err := fmt.Fprintln(w, wordcode.Line(word.Address, uint16(word.Word))); err != nil {
			return err
		}
	}

	log.Debug("object file written", "instr_words", len(a.Instr), "data_words", len(a.Data))

	return nil
}

// WriteEntries writes the .ent file: one "name address" line per entry symbol, in the symbol
// table's deterministic first-mention order. Callers should skip creating the file when a.Entries
// is empty.
func WriteEntries(log *xlog.Logger, w io.Writer, a *Assembly) error {
	for _, sym := range a.Entries {
		log.Debug("write entry", "name", sym.Name, "address", sym.Address)

		line := fmt.Sprintf("%s %s\n", sym.Name, wordcode.EncodeAddress(sym.Address))
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}

	log.Debug("entries file written", "entries", len(a.Entries))

	return nil
}

// WriteExternals writes the .ext file: one "name address" line per external reference, in
// encounter order. Callers should skip creating the file when a.Externals is empty.
func WriteExternals(log *xlog.Logger, w io.Writer, a *Assembly) error {
	for _, ref := range a.Externals {
		log.Debug("write external reference", "name", ref.Name, "address", ref.Address)

		line := fmt.Sprintf("%s %s\n", ref.Name, wordcode.EncodeAddress(ref.Address))
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}

	log.Debug("externals file written", "externals", len(a.Externals))

	return nil
}
