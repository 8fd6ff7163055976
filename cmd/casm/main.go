// Command casm is the command-line driver for the assembler: it wires up sub-commands, opens
// input files, and reports a process exit code. The assembly logic itself lives in
// internal/asm; this package is the external collaborator the core deliberately excludes.
package main

import (
	"context"
	"os"

	"github.com/tenbit/asm/internal/cli"
	"github.com/tenbit/asm/internal/cli/cmd"
)

func main() {
	commands := []cli.Command{
		cmd.Assembler(),
	}

	commander := cli.New(context.Background()).
		WithLogger(os.Stderr).
		WithCommands(commands).
		WithHelp(cmd.Help(commands))

	os.Exit(commander.Execute(os.Args[1:]))
}
