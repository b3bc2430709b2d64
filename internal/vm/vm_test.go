package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/orus-lang/orus/internal/checker"
	"github.com/orus-lang/orus/internal/lexer"
	"github.com/orus-lang/orus/internal/parser"
	"github.com/orus-lang/orus/internal/symbols"
	"github.com/orus-lang/orus/internal/typesystem"
)

// runProgram type-checks, compiles, and executes src as a complete
// entry program, mirroring pkg/cli.Run on a single in-memory module ,
// no `use` resolution, since these are unit tests of the emitter and
// execution engine, not the loader.
func runProgram(t *testing.T, src string) string {
	t.Helper()

	toks := lexer.New(src).ScanAll()
	p := parser.New(toks)
	prog := p.ParseProgram()
	if len(p.Errors) > 0 {
		t.Fatalf("parse error: %s", p.Errors[0].Message)
	}

	globals := symbols.NewGlobalTable()
	c := checker.New("test.orus", globals, typesystem.NewRegistry())
	if !c.Check(prog) {
		t.Fatalf("check error: %s", c.Errors[0].Message)
	}

	compiler := NewCompiler(globals)
	program := compiler.CompileEntry(prog, true)
	if errs := compiler.Errors(); len(errs) > 0 {
		t.Fatalf("compile error: %s", errs[0].Message)
	}

	var out bytes.Buffer
	machine := New(program, globals)
	machine.Stdout = &out
	if _, err := machine.Run(); err != nil {
		t.Fatalf("runtime error: %s", err)
	}
	return out.String()
}

func TestRunArithmeticPrecedence(t *testing.T) {
	got := runProgram(t, `fn main() { let x: i32 = 2 + 3 * 4 ; print("{}", x) }`)
	if got != "14\n" {
		t.Errorf("got %q, want %q", got, "14\n")
	}
}

func TestRunFactorialRecursion(t *testing.T) {
	src := `fn fact(n: i32) -> i32 { if n <= 1 { return 1 } return n * fact(n - 1) }
fn main() { print("{}", fact(6)) }`
	got := runProgram(t, src)
	if got != "720\n" {
		t.Errorf("got %q, want %q", got, "720\n")
	}
}

func TestRunArrayPushAndLen(t *testing.T) {
	got := runProgram(t, `fn main() { let a = [1,2,3]; push(a, 4); print("{} {}", len(a), a[3]) }`)
	if got != "4 4\n" {
		t.Errorf("got %q, want %q", got, "4 4\n")
	}
}

func TestRunForOverRange(t *testing.T) {
	got := runProgram(t, `fn main() { for i in 0..3 { print("{}", i) } }`)
	if got != "0\n1\n2\n" {
		t.Errorf("got %q, want %q", got, "0\n1\n2\n")
	}
}

func TestRunCatchesArrayIndexOutOfBounds(t *testing.T) {
	src := `fn main() { try { let arr = [1]; print("{}", arr[5]) } catch e { print("caught: {}", e) } }`
	got := runProgram(t, src)
	if !strings.HasPrefix(got, "caught:") {
		t.Errorf("got %q, want a line starting with %q", got, "caught:")
	}
}

func TestRunSimplePrintHasNoTrailingNewline(t *testing.T) {
	got := runProgram(t, `fn main() { print("hello") }`)
	if got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestRunUncaughtArrayIndexIsFatal(t *testing.T) {
	toks := lexer.New(`fn main() { let arr = [1]; print("{}", arr[5]) }`).ScanAll()
	p := parser.New(toks)
	prog := p.ParseProgram()

	globals := symbols.NewGlobalTable()
	c := checker.New("test.orus", globals, typesystem.NewRegistry())
	if !c.Check(prog) {
		t.Fatalf("check error: %s", c.Errors[0].Message)
	}
	compiler := NewCompiler(globals)
	program := compiler.CompileEntry(prog, true)

	var out bytes.Buffer
	machine := New(program, globals)
	machine.Stdout = &out
	_, err := machine.Run()
	if err == nil {
		t.Fatal("expected an uncaught runtime error")
	}
	if _, ok := err.(*RuntimeError); !ok {
		t.Errorf("got error of type %T, want *RuntimeError", err)
	}
}

func TestRunDivisionByZeroIsFatal(t *testing.T) {
	toks := lexer.New(`fn main() { let x: i32 = 1; let y: i32 = 0; print("{}", x / y) }`).ScanAll()
	p := parser.New(toks)
	prog := p.ParseProgram()

	globals := symbols.NewGlobalTable()
	c := checker.New("test.orus", globals, typesystem.NewRegistry())
	if !c.Check(prog) {
		t.Fatalf("check error: %s", c.Errors[0].Message)
	}
	compiler := NewCompiler(globals)
	program := compiler.CompileEntry(prog, true)

	machine := New(program, globals)
	machine.Stdout = &bytes.Buffer{}
	if _, err := machine.Run(); err == nil {
		t.Fatal("expected a division-by-zero runtime error")
	}
}
