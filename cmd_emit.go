package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"golox/compiler"
	"golox/debug"
	"golox/table"
	"golox/value"
)

// emitCmd compiles a file without running it and, optionally, prints its
// disassembly — the one place the disassembler is exercised from the
// CLI rather than from a test.
type emitCmd struct {
	disassemble bool
}

func (*emitCmd) Name() string     { return "emit" }
func (*emitCmd) Synopsis() string { return "Compile a source file without executing it" }
func (*emitCmd) Usage() string {
	return `emit [--disassemble] <path>:
  Compile path and report any compile errors, optionally printing the
  disassembled bytecode for the top-level chunk and every function
  constant it references.
`
}

func (cmd *emitCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.disassemble, "disassemble", false, "print the disassembled bytecode")
}

func (cmd *emitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "emit: no source file given")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read %s: %v\n", args[0], err)
		return exitIOFailure
	}

	var heap value.Heap
	var strings table.Table
	fn, errs := compiler.Compile(string(data), &heap, &strings)
	if len(errs) != 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return exitCompileError
	}

	if cmd.disassemble {
		emitDisassembly(args[0], &fn.Chunk)
	}
	return exitSuccess
}

func emitDisassembly(name string, chunk *value.Chunk) {
	debug.Disassemble(os.Stdout, chunk, name)
	for _, c := range chunk.Constants {
		if c.IsFunction() {
			nested := c.AsFunction()
			emitDisassembly(nested.String(), &nested.Chunk)
		}
	}
}
