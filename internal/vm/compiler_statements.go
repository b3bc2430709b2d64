package vm

import (
	"strings"

	"github.com/orus-lang/orus/internal/ast"
)

func (c *Compiler) compileStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		c.compileExpression(s.Value)
		c.chunk.WriteOp(OpPop, s.Token.Line)

	case *ast.VarDeclaration:
		c.compileVarDeclaration(s)

	case *ast.AssignmentStatement:
		c.compileAssignment(s)

	case *ast.BlockStatement:
		if s.Scoped {
			c.beginScope()
			for _, inner := range s.Statements {
				c.compileStatement(inner)
			}
			c.endScope(s.Token.Line)
		} else {
			for _, inner := range s.Statements {
				c.compileStatement(inner)
			}
		}

	case *ast.IfStatement:
		c.compileIf(s)

	case *ast.WhileStatement:
		c.compileWhile(s)

	case *ast.ForStatement:
		c.compileFor(s)

	case *ast.BreakStatement:
		loop := &c.loops[len(c.loops)-1]
		for i := len(c.locals) - 1; i >= 0 && c.locals[i].depth > loop.scopeDepth; i-- {
			c.chunk.WriteOp(OpPop, s.Token.Line)
		}
		loop.breaks = append(loop.breaks, c.chunk.WriteJump(OpJump, s.Token.Line))

	case *ast.ContinueStatement:
		loop := &c.loops[len(c.loops)-1]
		for i := len(c.locals) - 1; i >= 0 && c.locals[i].depth > loop.scopeDepth; i-- {
			c.chunk.WriteOp(OpPop, s.Token.Line)
		}
		loop.continues = append(loop.continues, c.chunk.WriteJump(OpJump, s.Token.Line))

	case *ast.FunctionDeclaration:
		c.compileFunction(s)

	case *ast.ReturnStatement:
		if s.Value != nil {
			c.compileExpression(s.Value)
		} else {
			c.chunk.WriteOp(OpNil, s.Token.Line)
		}
		c.chunk.WriteOp(OpReturn, s.Token.Line)

	case *ast.StructDeclaration, *ast.EnumDeclaration:
		// Pure type declarations: nothing to emit, the checker already
		// interned the descriptor into the Registry.

	case *ast.TryCatchStatement:
		c.compileTryCatch(s)

	case *ast.UseStatement:
		// Module loading is resolved at the pipeline level before the
		// compiler runs; the alias itself never occupies runtime state.

	case *ast.PrintStatement:
		c.compilePrint(s)

	default:
		c.errAt(stmt, "E901", "emitter has no case for this statement")
	}
}

// compileVarDeclaration evaluates the initializer (or pushes nil) and
// stores it into either a global slot (top-level declaration) or a
// fresh local slot (block/function-scoped declaration); §4.2
// "Variable declaration".
func (c *Compiler) compileVarDeclaration(s *ast.VarDeclaration) {
	if s.Value != nil {
		c.compileExpression(s.Value)
	} else {
		c.chunk.WriteOp(OpNil, s.Token.Line)
	}

	if s.GlobalSlot >= 0 {
		c.chunk.WriteOp(OpDefineGlobal, s.Token.Line)
		c.chunk.Write(byte(s.GlobalSlot), s.Token.Line)
		return
	}
	c.declareLocal(s.Name.Name)
}

func (c *Compiler) compileAssignment(s *ast.AssignmentStatement) {
	switch target := s.Target.(type) {
	case *ast.Identifier:
		c.compileExpression(s.Value)
		c.storeIdentifier(target)
		c.chunk.WriteOp(OpPop, s.Token.Line)

	case *ast.IndexExpression:
		c.compileExpression(target.Array)
		c.compileExpression(target.Index)
		c.compileExpression(s.Value)
		c.chunk.WriteOp(OpIndexSet, s.Token.Line)
		c.chunk.WriteOp(OpPop, s.Token.Line)

	case *ast.FieldAccessExpression:
		c.compileExpression(target.Receiver)
		c.compileExpression(s.Value)
		c.chunk.WriteOp(OpFieldSet, s.Token.Line)
		c.chunk.Write(byte(target.FieldIndex), s.Token.Line)
		c.chunk.WriteOp(OpPop, s.Token.Line)

	default:
		c.errAt(s, "E902", "emitter has no assignment target case for this expression")
	}
}

func (c *Compiler) storeIdentifier(id *ast.Identifier) {
	if slot := c.resolveLocal(id.Name); slot >= 0 {
		c.chunk.WriteOp(OpSetLocal, id.Token.Line)
		c.chunk.Write(byte(slot), id.Token.Line)
		return
	}
	c.chunk.WriteOp(OpSetGlobal, id.Token.Line)
	c.chunk.Write(byte(id.GlobalSlot), id.Token.Line)
}

// compileIf compiles a flat if/elif/.../else branch list as a chain of
// conditional jumps, each skipping to the next branch test, with every
// taken branch jumping past the whole chain at its end (§4.2 "If").
func (c *Compiler) compileIf(s *ast.IfStatement) {
	var endJumps []int
	for _, br := range s.Branches {
		if br.Condition == nil {
			c.compileStatement(br.Body)
			continue
		}
		c.compileExpression(br.Condition)
		skip := c.chunk.WriteJump(OpJumpIfFalse, s.Token.Line)
		c.chunk.WriteOp(OpPop, s.Token.Line)
		c.compileStatement(br.Body)
		endJumps = append(endJumps, c.chunk.WriteJump(OpJump, s.Token.Line))
		c.patchJump(skip, s)
		c.chunk.WriteOp(OpPop, s.Token.Line)
	}
	for _, j := range endJumps {
		c.patchJump(j, s)
	}
}

func (c *Compiler) compileWhile(s *ast.WhileStatement) {
	start := len(c.chunk.Code)
	c.loops = append(c.loops, loopContext{start: start, scopeDepth: c.depth})

	c.compileExpression(s.Condition)
	exit := c.chunk.WriteJump(OpJumpIfFalse, s.Token.Line)
	c.chunk.WriteOp(OpPop, s.Token.Line)

	c.compileStatement(s.Body)

	loop := c.loops[len(c.loops)-1]
	for _, cont := range loop.continues {
		c.patchJump(cont, s)
	}
	c.chunk.WriteLoop(start, s.Token.Line)

	c.patchJump(exit, s)
	c.chunk.WriteOp(OpPop, s.Token.Line)
	for _, brk := range loop.breaks {
		c.patchJump(brk, s)
	}
	c.loops = c.loops[:len(c.loops)-1]
}

// compileFor lowers `for i in start..end { body }` to a counted while
// loop over a hidden local holding the current iterator value (§4.1
// "For"; the Step expression, when present, replaces the implicit +1).
func (c *Compiler) compileFor(s *ast.ForStatement) {
	c.beginScope()
	c.compileExpression(s.Start)
	iterSlot := c.declareLocal(s.Iterator.Name)
	endSlot := c.declareLocal("$for.end")
	c.compileExpression(s.End)

	start := len(c.chunk.Code)
	c.loops = append(c.loops, loopContext{start: start, scopeDepth: c.depth})

	c.chunk.WriteOp(OpGetLocal, s.Token.Line)
	c.chunk.Write(byte(iterSlot), s.Token.Line)
	c.chunk.WriteOp(OpGetLocal, s.Token.Line)
	c.chunk.Write(byte(endSlot), s.Token.Line)
	c.chunk.WriteOp(OpLess, s.Token.Line)
	exit := c.chunk.WriteJump(OpJumpIfFalse, s.Token.Line)
	c.chunk.WriteOp(OpPop, s.Token.Line)

	c.compileStatement(s.Body)

	loop := c.loops[len(c.loops)-1]
	for _, cont := range loop.continues {
		c.patchJump(cont, s)
	}

	c.chunk.WriteOp(OpGetLocal, s.Token.Line)
	c.chunk.Write(byte(iterSlot), s.Token.Line)
	if s.Step != nil {
		c.compileExpression(s.Step)
	} else {
		c.chunk.WriteConstant(I32(1), s.Token.Line)
	}
	c.chunk.WriteOp(OpAdd, s.Token.Line)
	c.chunk.WriteOp(OpSetLocal, s.Token.Line)
	c.chunk.Write(byte(iterSlot), s.Token.Line)
	c.chunk.WriteOp(OpPop, s.Token.Line)

	c.chunk.WriteLoop(start, s.Token.Line)

	c.patchJump(exit, s)
	c.chunk.WriteOp(OpPop, s.Token.Line)
	for _, brk := range loop.breaks {
		c.patchJump(brk, s)
	}
	c.loops = c.loops[:len(c.loops)-1]
	c.endScope(s.Token.Line)
}

// compileTryCatch reserves the error binding's stack slot for the
// whole statement (the runtime writes into it directly on an implicit
// throw, without the ordinary sequential bytecode ever touching it
// until a fault actually occurs), then wraps the try block with
// SETUP_EXCEPT/POP_EXCEPT (§4.1 "Try/catch"; §3 "Setup_except... error
// slot").
func (c *Compiler) compileTryCatch(s *ast.TryCatchStatement) {
	errName := s.ErrorName
	if errName == "" {
		errName = "$catch.error"
	}

	c.beginScope()
	slot := c.declareLocal(errName)
	c.chunk.WriteOp(OpNil, s.Token.Line)

	setup := c.chunk.WriteJump(OpSetupExcept, s.Token.Line)
	c.chunk.Write(byte(slot), s.Token.Line)

	c.compileStatement(s.TryBlock)
	c.chunk.WriteOp(OpPopExcept, s.Token.Line)
	skipCatch := c.chunk.WriteJump(OpJump, s.Token.Line)

	c.patchJump(setup, s)
	for _, stmt := range s.Catch.Statements {
		c.compileStatement(stmt)
	}

	c.patchJump(skipCatch, s)
	c.endScope(s.Token.Line)
}

// compilePrint unifies both print shapes by synthesizing a
// `{}`-per-argument format string when the source used the simple
// `print(x)` form, then splits the format on its `{}` placeholders and
// emits a literal chunk / argument-evaluation pair for each one, so the
// prefix up to a placeholder reaches output before the argument filling
// it is even evaluated (§9 "Print-prefix split": a side-effecting
// argument, e.g. `input()`, must see its prompt text already printed).
func (c *Compiler) compilePrint(s *ast.PrintStatement) {
	format := s.Format
	if format == "" {
		for range s.Args {
			format += "{}"
		}
	}

	line := s.Token.Line
	argIndex := 0
	var literal strings.Builder
	flushLiteral := func() {
		if literal.Len() == 0 {
			return
		}
		c.chunk.WriteConstant(FromObj(constantString(literal.String())), line)
		c.chunk.WriteOp(OpPrintPart, line)
		literal.Reset()
	}

	for i := 0; i < len(format); i++ {
		if format[i] == '{' && i+1 < len(format) && format[i+1] == '}' {
			flushLiteral()
			if argIndex < len(s.Args) {
				c.compileExpression(s.Args[argIndex])
				c.chunk.WriteOp(OpPrintPart, line)
				argIndex++
			}
			i++
			continue
		}
		literal.WriteByte(format[i])
	}
	flushLiteral()

	if !s.NoNewline {
		c.chunk.WriteOp(OpPrintNewline, line)
	}
}
