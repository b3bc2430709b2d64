package parser

import (
	"testing"

	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks := lexer.New(src).ScanAll()
	p := New(toks)
	prog := p.ParseProgram()
	if len(p.Errors) > 0 {
		t.Fatalf("unexpected parse error: %s", p.Errors[0].Message)
	}
	return prog
}

func TestParseForStatementWithRange(t *testing.T) {
	prog := parse(t, `fn main() { for i in 0..3 { print(i) } }`)
	fn := prog.Statements[0].(*ast.FunctionDeclaration)
	forStmt, ok := fn.Body.Statements[0].(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected a for statement, got %T", fn.Body.Statements[0])
	}
	if forStmt.Iterator.Name != "i" {
		t.Errorf("got iterator name %q, want %q", forStmt.Iterator.Name, "i")
	}
}

func TestParseSimplePrintHasNoFormat(t *testing.T) {
	prog := parse(t, `fn main() { print("hello") }`)
	fn := prog.Statements[0].(*ast.FunctionDeclaration)
	print, ok := fn.Body.Statements[0].(*ast.PrintStatement)
	if !ok {
		t.Fatalf("expected a print statement, got %T", fn.Body.Statements[0])
	}
	if print.Format != "" {
		t.Errorf("got format %q, want empty (bare-value print, not format print)", print.Format)
	}
	if !print.NoNewline {
		t.Error("expected plain print() to suppress the trailing newline")
	}
}

func TestParseFormatPrintCarriesFormatString(t *testing.T) {
	prog := parse(t, `fn main() { print("{}", 1) }`)
	fn := prog.Statements[0].(*ast.FunctionDeclaration)
	print, ok := fn.Body.Statements[0].(*ast.PrintStatement)
	if !ok {
		t.Fatalf("expected a print statement, got %T", fn.Body.Statements[0])
	}
	if print.Format != "{}" {
		t.Errorf("got format %q, want %q", print.Format, "{}")
	}
	if print.NoNewline {
		t.Error("format print should always terminate with a newline")
	}
}

func TestParseTryCatchStatement(t *testing.T) {
	prog := parse(t, `fn main() { try { risky() } catch e { print(e) } }`)
	fn := prog.Statements[0].(*ast.FunctionDeclaration)
	tc, ok := fn.Body.Statements[0].(*ast.TryCatchStatement)
	if !ok {
		t.Fatalf("expected a try/catch statement, got %T", fn.Body.Statements[0])
	}
	if tc.ErrorName != "e" {
		t.Errorf("got error binding name %q, want %q", tc.ErrorName, "e")
	}
}

func TestParseUseStatementWithAlias(t *testing.T) {
	prog := parse(t, `use "math" as m`)
	use, ok := prog.Statements[0].(*ast.UseStatement)
	if !ok {
		t.Fatalf("expected a use statement, got %T", prog.Statements[0])
	}
	if use.Path != "math" || use.Alias != "m" {
		t.Errorf("got path=%q alias=%q, want path=%q alias=%q", use.Path, use.Alias, "math", "m")
	}
}
