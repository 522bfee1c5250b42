package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"golox/scanner"
	"golox/token"
)

type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive line-buffered session" }
func (*replCmd) Usage() string {
	return `repl:
  Read, compile and run one line (or brace-balanced block) at a time.
  An empty line exits.
`
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "> ",
		HistoryFile: "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to start line editor: %v\n", err)
		return exitIOFailure
	}
	defer rl.Close()

	var buffer strings.Builder
	for {
		if buffer.Len() == 0 {
			rl.SetPrompt("> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return exitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return exitIOFailure
		}

		if buffer.Len() == 0 && strings.TrimSpace(line) == "" {
			return exitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)

		if !bracesBalanced(buffer.String()) {
			continue
		}

		interpretSource(buffer.String(), os.Stdout, os.Stderr)
		buffer.Reset()
	}
}

// bracesBalanced reports whether source has no unclosed '{' — the
// signal the REPL uses to keep reading additional lines into the same
// compile unit instead of compiling (and erroring on) a half-typed
// block.
func bracesBalanced(source string) bool {
	sc := scanner.New(source)
	depth := 0
	for {
		tok := sc.ScanToken()
		switch tok.TokenType {
		case token.LCUR:
			depth++
		case token.RCUR:
			depth--
		case token.EOF:
			return depth <= 0
		}
	}
}
