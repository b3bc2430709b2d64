package vm

import (
	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/token"
	"github.com/orus-lang/orus/internal/typesystem"
)

// compileExpression emits code that leaves exactly one value on the
// operand stack (§4.2 "Every expression compiles to code that pushes
// exactly one value").
func (c *Compiler) compileExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		c.chunk.WriteConstant(integerValue(e.ResolvedType(), e.Value), e.Token.Line)
	case *ast.FloatLiteral:
		c.chunk.WriteConstant(F64(e.Value), e.Token.Line)
	case *ast.BoolLiteral:
		if e.Value {
			c.chunk.WriteOp(OpTrue, e.Token.Line)
		} else {
			c.chunk.WriteOp(OpFalse, e.Token.Line)
		}
	case *ast.NilLiteral:
		c.chunk.WriteOp(OpNil, e.Token.Line)
	case *ast.StringLiteral:
		c.chunk.WriteConstant(FromObj(constantString(e.Value)), e.Token.Line)

	case *ast.Identifier:
		c.compileIdentifierLoad(e)

	case *ast.UnaryExpression:
		c.compileExpression(e.Operand)
		switch e.Operator {
		case token.MINUS:
			c.chunk.WriteOp(OpNeg, e.Token.Line)
		case token.NOT:
			c.chunk.WriteOp(OpNot, e.Token.Line)
		case token.TILDE:
			c.chunk.WriteOp(OpBitNot, e.Token.Line)
		}

	case *ast.BinaryExpression:
		c.compileBinary(e)

	case *ast.LogicalExpression:
		c.compileLogical(e)

	case *ast.IndexExpression:
		c.compileExpression(e.Array)
		c.compileExpression(e.Index)
		c.chunk.WriteOp(OpIndexGet, e.Token.Line)

	case *ast.SliceExpression:
		c.compileExpression(e.Array)
		if e.Start != nil {
			c.compileExpression(e.Start)
		} else {
			c.chunk.WriteOp(OpNil, e.Token.Line)
		}
		if e.End != nil {
			c.compileExpression(e.End)
		} else {
			c.chunk.WriteOp(OpNil, e.Token.Line)
		}
		c.chunk.WriteOp(OpSlice, e.Token.Line)

	case *ast.CastExpression:
		c.compileCast(e)

	case *ast.CallExpression:
		c.compileCall(e)

	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			c.compileExpression(el)
		}
		c.chunk.WriteOp(OpArray, e.Token.Line)
		c.chunk.Write(byte(len(e.Elements)), e.Token.Line)

	case *ast.StructLiteral:
		c.compileStructLiteral(e)

	case *ast.FieldAccessExpression:
		c.compileExpression(e.Receiver)
		c.chunk.WriteOp(OpFieldGet, e.Token.Line)
		c.chunk.Write(byte(e.FieldIndex), e.Token.Line)

	default:
		c.errAt(expr, "E903", "emitter has no case for this expression")
	}
}

func (c *Compiler) compileIdentifierLoad(id *ast.Identifier) {
	if slot := c.resolveLocal(id.Name); slot >= 0 {
		c.chunk.WriteOp(OpGetLocal, id.Token.Line)
		c.chunk.Write(byte(slot), id.Token.Line)
		return
	}
	c.chunk.WriteOp(OpGetGlobal, id.Token.Line)
	c.chunk.Write(byte(id.GlobalSlot), id.Token.Line)
}

func (c *Compiler) emitConvert(kind ast.ConvertKind, line int) {
	switch kind {
	case ast.ConvertI32ToI64:
		c.chunk.WriteOp(OpConvertI32ToI64, line)
	case ast.ConvertI32ToF64:
		c.chunk.WriteOp(OpConvertI32ToF64, line)
	case ast.ConvertU32ToI64:
		c.chunk.WriteOp(OpConvertU32ToI64, line)
	case ast.ConvertU32ToF64:
		c.chunk.WriteOp(OpConvertU32ToF64, line)
	case ast.ConvertToString:
		c.chunk.WriteOp(OpConvertToString, line)
	}
}

var binaryOps = map[token.Type]Op{
	token.PLUS: OpAdd, token.MINUS: OpSub, token.STAR: OpMul,
	token.SLASH: OpDiv, token.PERCENT: OpMod,
	token.AMP: OpBitAnd, token.PIPE: OpBitOr, token.CARET: OpBitXor,
	token.SHL: OpShl, token.SHR: OpShr,
	token.EQ: OpEqual, token.NE: OpNotEqual,
	token.LT: OpLess, token.LE: OpLessEqual, token.GT: OpGreater, token.GE: OpGreaterEqual,
}

// compileBinary realizes the convert-flags the checker recorded, then
// the operator itself, which by the time it executes always sees two
// operands of the same Kind (§4.2 "Numeric promotion conversions...
// emitted between the two operands").
func (c *Compiler) compileBinary(e *ast.BinaryExpression) {
	isConcat := e.LeftConvert == ast.ConvertToString || e.RightConvert == ast.ConvertToString

	c.compileExpression(e.Left)
	c.emitConvert(e.LeftConvert, e.Token.Line)
	c.compileExpression(e.Right)
	c.emitConvert(e.RightConvert, e.Token.Line)

	if isConcat {
		c.chunk.WriteOp(OpConcat, e.Token.Line)
		return
	}
	op, ok := binaryOps[e.Operator]
	if !ok {
		c.errAt(e, "E904", "emitter has no opcode for this binary operator")
		return
	}
	c.chunk.WriteOp(op, e.Token.Line)
}

// compileLogical realizes and/or short-circuiting with a peek-not-pop
// conditional jump: when the jump is taken, the left operand's own
// truth value is left on the stack as the whole expression's result
// (§4.1 "Short-circuit semantics realized by the emitter").
func (c *Compiler) compileLogical(e *ast.LogicalExpression) {
	c.compileExpression(e.Left)
	if e.Operator == token.AND {
		end := c.chunk.WriteJump(OpJumpIfFalse, e.Token.Line)
		c.chunk.WriteOp(OpPop, e.Token.Line)
		c.compileExpression(e.Right)
		c.patchJump(end, e)
		return
	}
	end := c.chunk.WriteJump(OpJumpIfTrue, e.Token.Line)
	c.chunk.WriteOp(OpPop, e.Token.Line)
	c.compileExpression(e.Right)
	c.patchJump(end, e)
}

// compileCast emits either the folded replacement literal, an explicit
// string conversion, or the generic numeric cast opcode (§4.1 "Cast").
func (c *Compiler) compileCast(e *ast.CastExpression) {
	if e.Folded {
		c.compileExpression(e.FoldedValue)
		return
	}
	c.compileExpression(e.Operand)
	if typesystem.Equal(e.ResolvedType(), typesystem.String) {
		c.chunk.WriteOp(OpConvertToString, e.Token.Line)
		return
	}
	c.chunk.WriteOp(OpCastNumeric, e.Token.Line)
	c.chunk.Write(byte(kindOf(e.ResolvedType())), e.Token.Line)
}

func (c *Compiler) compileCall(e *ast.CallExpression) {
	for _, a := range e.Args {
		c.compileExpression(a)
	}
	switch e.Kind {
	case ast.CallBuiltin:
		c.chunk.WriteOp(OpCallNative, e.Token.Line)
		c.chunk.Write(byte(e.NativeIndex), e.Token.Line)
		c.chunk.Write(byte(len(e.Args)), e.Token.Line)
	case ast.CallUserFunction, ast.CallMethod:
		c.chunk.WriteOp(OpCall, e.Token.Line)
		c.chunk.Write(byte(e.GlobalSlot), e.Token.Line)
		c.chunk.Write(byte(len(e.Args)), e.Token.Line)
	default:
		c.errAt(e, "E905", "call expression was never resolved to a call kind")
	}
}

func (c *Compiler) compileStructLiteral(e *ast.StructLiteral) {
	st, ok := e.ResolvedType().(*typesystem.Struct)
	if !ok {
		c.errAt(e, "E906", "struct literal has no resolved struct type")
		return
	}
	values := make(map[string]ast.Expression, len(e.Fields))
	for _, f := range e.Fields {
		values[f.Name] = f.Value
	}
	for _, field := range st.Fields {
		if v, ok := values[field.Name]; ok {
			c.compileExpression(v)
		} else {
			c.chunk.WriteOp(OpNil, e.Token.Line)
		}
	}
	nameIdx := c.addConstant(FromObj(constantString(st.Name)), e)
	c.chunk.WriteOp(OpStruct, e.Token.Line)
	c.chunk.Write(byte(len(st.Fields)), e.Token.Line)
	c.chunk.Write(byte(nameIdx), e.Token.Line)
}

// integerValue builds the Value matching an integer literal's resolved
// primitive width.
func integerValue(t typesystem.Type, v int64) Value {
	p, _ := t.(typesystem.Primitive)
	switch p.Name {
	case "i64":
		return I64(v)
	case "u32":
		return U32(uint32(v))
	case "u64":
		return U64(uint64(v))
	default:
		return I32(int32(v))
	}
}

// kindOf maps a checked numeric or string type to the vm.Kind an
// explicit cast opcode encodes as its operand.
func kindOf(t typesystem.Type) Kind {
	p, _ := t.(typesystem.Primitive)
	switch p.Name {
	case "i32":
		return KindI32
	case "i64":
		return KindI64
	case "u32":
		return KindU32
	case "u64":
		return KindU64
	case "f64":
		return KindF64
	case "bool":
		return KindBool
	default:
		return KindObj
	}
}
