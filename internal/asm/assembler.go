package asm

// assembler.go is the thin orchestrator tying the four stages together: preprocess, first pass,
// second pass, emit. Per §1, the command-line entry point, file-suffix wrappers, and usage text are
// external collaborators; Assembler's surface is a reader for the source and a writer factory keyed
// by output suffix, so it has no notion of paths, flags, or stdout.

import (
	"bytes"
	"io"

	"github.com/tenbit/asm/internal/xlog"
)

// WriterFactory opens a writer for one output suffix (".am", ".ob", ".ent", ".ext"), including the
// leading dot. The caller owns naming the file; Assembler only ever asks for a suffix.
type WriterFactory func(suffix string) (io.WriteCloser, error)

// Assembler runs the full pipeline for one source file.
type Assembler struct {
	log *xlog.Logger
}

// NewAssembler returns a ready Assembler, logging to the package default logger. It carries no
// state between files.
func NewAssembler() *Assembler {
	return &Assembler{log: xlog.DefaultLogger()}
}

// WithLogger overrides the logger Assemble reports progress to.
func (a *Assembler) WithLogger(log *xlog.Logger) *Assembler {
	a.log = log
	return a
}

// Assemble expands macros, runs both passes, and writes every output file the result calls for.
// file names the source for diagnostics only; newWriter is consulted once per output produced.
// On any accumulated error, no .ob/.ent/.ext file is written, matching §4.8's closing rule, though
// the .am expansion (already valid by construction once macro preprocessing succeeds) is still
// written.
func (a *Assembler) Assemble(file string, src io.Reader, newWriter WriterFactory) error {
	var am bytes.Buffer

	pre := NewPreprocessor(file).WithLogger(a.log)
	if err := pre.Expand(src, &am); err != nil {
		return err
	}

	amW, err := newWriter(".am")
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(amW, bytes.NewReader(am.Bytes()))
	closeErr := amW.Close()

	if copyErr != nil {
		return &IOError{Path: file + ".am", Err: copyErr}
	}

	if closeErr != nil {
		return &IOError{Path: file + ".am", Err: closeErr}
	}

	fp := NewFirstPass(file).WithLogger(a.log)

	table, err := fp.Run(bytes.NewReader(am.Bytes()))
	if err != nil {
		return err
	}

	sp := NewSecondPass(table).WithLogger(a.log)

	result, err := sp.Run()
	if err != nil {
		return err
	}

	return a.emit(file, result, newWriter)
}

func (a *Assembler) emit(file string, result *Assembly, newWriter WriterFactory) error {
	obW, err := newWriter(".ob")
	if err != nil {
		return err
	}

	obErr := WriteObject(a.log, obW, result)
	closeErr := obW.Close()

	if obErr != nil {
		return &IOError{Path: file + ".ob", Err: obErr}
	}

	if closeErr != nil {
		return &IOError{Path: file + ".ob", Err: closeErr}
	}

	if len(result.Entries) > 0 {
		entW, err := newWriter(".ent")
		if err != nil {
			return err
		}

		entErr := WriteEntries(a.log, entW, result)
		closeErr := entW.Close()

		if entErr != nil {
			return &IOError{Path: file + ".ent", Err: entErr}
		}

		if closeErr != nil {
			return &IOError{Path: file + ".ent", Err: closeErr}
		}
	}

	if len(result.Externals) > 0 {
		extW, err := newWriter(".ext")
		if err != nil {
			return err
		}

		extErr := WriteExternals(a.log, extW, result)
		closeErr := extW.Close()

		if extErr != nil {
			return &IOError{Path: file + ".ext", Err: extErr}
		}

		if closeErr != nil {
			return &IOError{Path: file + ".ext", Err: closeErr}
		}
	}

	return nil
}
