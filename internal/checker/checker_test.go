package checker

import (
	"testing"

	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/lexer"
	"github.com/orus-lang/orus/internal/parser"
	"github.com/orus-lang/orus/internal/symbols"
	"github.com/orus-lang/orus/internal/typesystem"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks := lexer.New(src).ScanAll()
	p := parser.New(toks)
	prog := p.ParseProgram()
	if len(p.Errors) > 0 {
		t.Fatalf("parse error: %s", p.Errors[0].Message)
	}
	return prog
}

func newChecker() *Checker {
	return New("test.orus", symbols.NewGlobalTable(), typesystem.NewRegistry())
}

func TestCheckAcceptsWellTypedProgram(t *testing.T) {
	prog := parseProgram(t, `fn add(a: i32, b: i32) -> i32 { return a + b }
fn main() { let x = add(1, 2) }`)
	c := newChecker()
	if !c.Check(prog) {
		t.Fatalf("expected program to check, got errors: %v", c.Errors)
	}
}

func TestCheckRejectsUndefinedIdentifier(t *testing.T) {
	prog := parseProgram(t, `fn main() { print("{}", missing) }`)
	c := newChecker()
	if c.Check(prog) {
		t.Fatal("expected a check error for an undefined identifier")
	}
	if len(c.Errors) == 0 {
		t.Fatal("expected at least one diagnostic")
	}
}

func TestCheckRejectsArityMismatch(t *testing.T) {
	prog := parseProgram(t, `fn add(a: i32, b: i32) -> i32 { return a + b }
fn main() { let x = add(1) }`)
	c := newChecker()
	if c.Check(prog) {
		t.Fatal("expected a check error for an arity mismatch")
	}
}

func TestCheckAnnotatesEveryExpressionNode(t *testing.T) {
	prog := parseProgram(t, `fn main() { let x: i32 = 2 + 3 * 4 }`)
	c := newChecker()
	if !c.Check(prog) {
		t.Fatalf("expected program to check, got errors: %v", c.Errors)
	}

	varDecl, ok := prog.Statements[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected a function declaration, got %T", prog.Statements[0])
	}
	inner, ok := varDecl.Body.Statements[0].(*ast.VarDeclaration)
	if !ok {
		t.Fatalf("expected a var declaration, got %T", varDecl.Body.Statements[0])
	}
	if inner.Value.ResolvedType() == nil {
		t.Fatal("expected the initializer expression to carry a resolved type")
	}
	if !typesystem.Equal(inner.Value.ResolvedType(), typesystem.I32) {
		t.Errorf("got resolved type %s, want i32", inner.Value.ResolvedType())
	}
	bin, ok := inner.Value.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected a binary initializer, got %T", inner.Value)
	}
	for _, operand := range []ast.Expression{bin.Left, bin.Right} {
		if !typesystem.Equal(operand.ResolvedType(), typesystem.I32) {
			t.Errorf("operand %T: got resolved type %v, want i32", operand, operand.ResolvedType())
		}
	}
}
