package debug

import (
	"strings"
	"testing"

	"golox/compiler"
	"golox/table"
	"golox/value"
)

func TestCountInstructionsMatchesEmittedOpcodes(t *testing.T) {
	var heap value.Heap
	var strings_ table.Table
	fn, errs := compiler.Compile(`
		var x = 1;
		if (x < 2) {
			print x + 1;
		} else {
			print x;
		}
	`, &heap, &strings_)
	if len(errs) != 0 {
		t.Fatalf("unexpected compile errors: %v", errs)
	}

	wantOps := 0
	offset := 0
	code := fn.Chunk.Code
	for offset < len(code) {
		op := value.OpCode(code[offset])
		switch op {
		case value.OpConstant, value.OpGetLocal, value.OpSetLocal,
			value.OpGetGlobal, value.OpDefineGlobal, value.OpSetGlobal, value.OpCall:
			offset += 2
		case value.OpJump, value.OpJumpIfFalse, value.OpLoop:
			offset += 3
		default:
			offset++
		}
		wantOps++
	}

	if got := CountInstructions(&fn.Chunk); got != wantOps {
		t.Errorf("CountInstructions = %d, want %d", got, wantOps)
	}
}

func TestDisassembleFormatsConstant(t *testing.T) {
	var heap value.Heap
	var strings_ table.Table
	fn, errs := compiler.Compile(`print 42;`, &heap, &strings_)
	if len(errs) != 0 {
		t.Fatalf("unexpected compile errors: %v", errs)
	}

	var out strings.Builder
	Disassemble(&out, &fn.Chunk, "test chunk")

	text := out.String()
	if !strings.Contains(text, "== test chunk ==") {
		t.Errorf("missing header: %q", text)
	}
	if !strings.Contains(text, "OP_CONSTANT") || !strings.Contains(text, "'42'") {
		t.Errorf("missing constant instruction line: %q", text)
	}
	if !strings.Contains(text, "OP_PRINT") {
		t.Errorf("missing print instruction line: %q", text)
	}
}

func TestDisassembleRepeatsLineAsPipe(t *testing.T) {
	var heap value.Heap
	var strings_ table.Table
	fn, errs := compiler.Compile(`print 1 + 2;`, &heap, &strings_)
	if len(errs) != 0 {
		t.Fatalf("unexpected compile errors: %v", errs)
	}

	var out strings.Builder
	Disassemble(&out, &fn.Chunk, "chunk")

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	foundPipe := false
	for _, l := range lines[1:] {
		if strings.Contains(l, "   | ") {
			foundPipe = true
		}
	}
	if !foundPipe {
		t.Errorf("expected at least one repeated-line '|' marker, got:\n%s", out.String())
	}
}
