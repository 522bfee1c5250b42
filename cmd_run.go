package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"golox/compiler"
	"golox/table"
	"golox/value"
	"golox/vm"
)

// Exit codes match the driver contract: 0 success, 65 a compile error,
// 70 a runtime error, 74 an I/O failure reading the source file.
const (
	exitSuccess      subcommands.ExitStatus = 0
	exitCompileError subcommands.ExitStatus = 65
	exitRuntimeError subcommands.ExitStatus = 70
	exitIOFailure    subcommands.ExitStatus = 74
)

type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Compile and execute a source file" }
func (*runCmd) Usage() string {
	return `run <path>:
  Compile and execute the Lox program at path.
`
}
func (*runCmd) SetFlags(f *flag.FlagSet) {}

func (*runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "run: no source file given")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read %s: %v\n", args[0], err)
		return exitIOFailure
	}

	return interpretSource(string(data), os.Stdout, os.Stderr)
}

// interpretSource runs the compile-then-execute pipeline once, against a
// fresh heap and intern table, the same pipeline both `run` and each
// REPL line goes through.
func interpretSource(source string, stdout, stderr *os.File) subcommands.ExitStatus {
	var heap value.Heap
	var strings table.Table

	fn, errs := compiler.Compile(source, &heap, &strings)
	if len(errs) != 0 {
		for _, e := range errs {
			fmt.Fprintln(stderr, e.Error())
		}
		return exitCompileError
	}

	machine := vm.New(&heap, &strings)
	machine.Stdout = stdout
	if _, err := machine.Run(fn); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitRuntimeError
	}
	return exitSuccess
}
