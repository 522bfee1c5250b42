package vm

import (
	"strings"
	"testing"

	"golox/compiler"
	"golox/table"
	"golox/value"
)

func run(t *testing.T, src string) (string, InterpretResult, error) {
	t.Helper()
	var heap value.Heap
	var strings_ table.Table

	fn, errs := compiler.Compile(src, &heap, &strings_)
	if len(errs) != 0 {
		t.Fatalf("unexpected compile errors: %v", errs)
	}

	var out strings.Builder
	machine := New(&heap, &strings_)
	machine.Stdout = &out

	res, err := machine.Run(fn)
	return out.String(), res, err
}

func TestRunArithmeticPrecedence(t *testing.T) {
	out, res, err := run(t, "print 1 + 2 * 3;")
	if err != nil || res != InterpretOK {
		t.Fatalf("run failed: %v, %v", res, err)
	}
	if out != "7\n" {
		t.Errorf("output = %q, want %q", out, "7\n")
	}
}

func TestRunStringConcatenation(t *testing.T) {
	out, _, err := run(t, `print "foo" + "bar";`)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "foobar\n" {
		t.Errorf("output = %q, want %q", out, "foobar\n")
	}
}

func TestRunGlobalVariables(t *testing.T) {
	out, _, err := run(t, "var x = 10; x = x + 5; print x;")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "15\n" {
		t.Errorf("output = %q, want %q", out, "15\n")
	}
}

func TestRunUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, res, err := run(t, "print nope;")
	if res != InterpretRuntimeError {
		t.Fatalf("result = %v, want InterpretRuntimeError", res)
	}
	if err == nil || !strings.Contains(err.Error(), "Undefined variable: 'nope'") {
		t.Errorf("error = %v", err)
	}
	if !strings.Contains(err.Error(), "[line 1] in script") {
		t.Errorf("error missing line trailer: %v", err)
	}
}

func TestRunIfElseBranches(t *testing.T) {
	out, _, err := run(t, `
		if (1 < 2) { print "yes"; } else { print "no"; }
	`)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "yes\n" {
		t.Errorf("output = %q, want %q", out, "yes\n")
	}
}

func TestRunWhileLoop(t *testing.T) {
	out, _, err := run(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "0\n1\n2\n" {
		t.Errorf("output = %q, want %q", out, "0\n1\n2\n")
	}
}

func TestRunForLoop(t *testing.T) {
	out, _, err := run(t, `
		for (var i = 0; i < 3; i = i + 1) {
			print i;
		}
	`)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "0\n1\n2\n" {
		t.Errorf("output = %q, want %q", out, "0\n1\n2\n")
	}
}

func TestRunFunctionCallAndReturn(t *testing.T) {
	out, _, err := run(t, `
		fun add(a, b) {
			return a + b;
		}
		print add(3, 4);
	`)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "7\n" {
		t.Errorf("output = %q, want %q", out, "7\n")
	}
}

func TestRunRecursiveFunction(t *testing.T) {
	out, _, err := run(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "55\n" {
		t.Errorf("output = %q, want %q", out, "55\n")
	}
}

func TestRunArityMismatchIsRuntimeError(t *testing.T) {
	_, res, err := run(t, `
		fun add(a, b) { return a + b; }
		print add(1);
	`)
	if res != InterpretRuntimeError {
		t.Fatalf("result = %v, want InterpretRuntimeError", res)
	}
	if err == nil || !strings.Contains(err.Error(), "Expected 2 arguments but got 1") {
		t.Errorf("error = %v", err)
	}
}

func TestRunTypeErrorOnNegate(t *testing.T) {
	_, res, err := run(t, `print -"nope";`)
	if res != InterpretRuntimeError {
		t.Fatalf("result = %v, want InterpretRuntimeError", res)
	}
	if err == nil || !strings.Contains(err.Error(), "Operand must be a number") {
		t.Errorf("error = %v", err)
	}
}

func TestRunAndOrShortCircuit(t *testing.T) {
	out, _, err := run(t, `
		print false and (1 / 0 == 0);
		print true or (1 / 0 == 0);
	`)
	if err != nil {
		t.Fatalf("run failed (and/or should short-circuit, never dividing): %v", err)
	}
	if out != "false\ntrue\n" {
		t.Errorf("output = %q, want %q", out, "false\ntrue\n")
	}
}

func TestRunLocalScopingShadowsGlobal(t *testing.T) {
	out, _, err := run(t, `
		var x = "global";
		{
			var x = "local";
			print x;
		}
		print x;
	`)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "local\nglobal\n" {
		t.Errorf("output = %q, want %q", out, "local\nglobal\n")
	}
}
