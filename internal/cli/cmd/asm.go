package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tenbit/asm/internal/asm"
	"github.com/tenbit/asm/internal/cli"
	"github.com/tenbit/asm/internal/xlog"
)

// Assembler is the command that translates source files into object code, entries, and externals
// files.
//
//	casm asm FILE.as...
func Assembler() cli.Command {
	return new(assembler)
}

type assembler struct {
	debug bool
}

func (assembler) Description() string {
	return "assemble source files into object, entries, and externals files"
}

func (assembler) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `asm file.as...

Assemble one or more source files. Each must end in ".as". For each input,
writes <base>.am (expanded source), <base>.ob (object code), and, when
applicable, <base>.ent (entry symbols) and <base>.ext (external references).`)

	return err
}

func (a *assembler) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("asm", flag.ExitOnError)
	fs.BoolVar(&a.debug, "debug", false, "enable debug logging")

	return fs
}

// Run assembles every named file. It returns 0 iff every file assembled without error, per the
// command's exit-code contract; one file's failure does not stop the others from being attempted.
func (a *assembler) Run(_ context.Context, args []string, _ io.Writer, logger *xlog.Logger) int {
	if a.debug {
		xlog.LogLevel.Set(xlog.Debug)
	}

	if len(args) == 0 {
		logger.Error("asm: no input files")
		return 1
	}

	status := 0

	for _, fn := range args {
		if err := assembleFile(fn, logger); err != nil {
			logger.Error("assemble failed", "file", fn, "err", err)
			status = 1
		}
	}

	return status
}

func assembleFile(fn string, logger *xlog.Logger) error {
	if !strings.HasSuffix(fn, ".as") {
		return fmt.Errorf("%s: source file must end in .as", fn)
	}

	src, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer src.Close()

	base := strings.TrimSuffix(fn, ".as")

	a := asm.NewAssembler().WithLogger(logger)

	err = a.Assemble(fn, src, func(suffix string) (io.WriteCloser, error) {
		return os.Create(base + suffix)
	})
	if err != nil {
		return err
	}

	logger.Debug("assembled", "file", fn)

	return nil
}
