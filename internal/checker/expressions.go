package checker

import (
	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/symbols"
	"github.com/orus-lang/orus/internal/token"
	"github.com/orus-lang/orus/internal/typesystem"
)

// checkExpression type-checks expr and returns the node that should
// replace it in its parent's field; usually expr itself, annotated in
// place, but sometimes a different node entirely (a folded literal, or
// a module-alias field access rewritten to a plain variable reference,
// §4.1).
func (c *Checker) checkExpression(expr ast.Expression) ast.Expression {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		e.SetResolvedType(integerLiteralType(e.Suffix))
		return e
	case *ast.FloatLiteral:
		e.SetResolvedType(typesystem.F64)
		return e
	case *ast.BoolLiteral:
		e.SetResolvedType(typesystem.Bool)
		return e
	case *ast.NilLiteral:
		e.SetResolvedType(typesystem.Nil)
		return e
	case *ast.StringLiteral:
		e.SetResolvedType(typesystem.String)
		return e
	case *ast.Identifier:
		return c.checkIdentifier(e)
	case *ast.UnaryExpression:
		return c.checkUnary(e)
	case *ast.BinaryExpression:
		return c.checkBinary(e)
	case *ast.LogicalExpression:
		return c.checkLogical(e)
	case *ast.IndexExpression:
		return c.checkIndex(e)
	case *ast.SliceExpression:
		return c.checkSlice(e)
	case *ast.CastExpression:
		return c.checkCast(e)
	case *ast.CallExpression:
		return c.checkCall(e)
	case *ast.ArrayLiteral:
		return c.checkArrayLiteral(e)
	case *ast.StructLiteral:
		return c.checkStructLiteral(e)
	case *ast.FieldAccessExpression:
		return c.checkFieldAccess(e)
	default:
		return expr
	}
}

func integerLiteralType(suffix string) typesystem.Type {
	switch suffix {
	case "i64":
		return typesystem.I64
	case "u32":
		return typesystem.U32
	case "u64":
		return typesystem.U64
	default:
		return typesystem.I32
	}
}

func (c *Checker) checkIdentifier(e *ast.Identifier) ast.Expression {
	sym := c.Symbols.Find(e.Name)
	if sym == nil {
		if any := c.Symbols.FindAny(e.Name); any != nil {
			c.errAt(e, "C010", "%q is not in scope here (declared at line %d, but out of scope)", e.Name, any.Token.Line)
		} else {
			c.errAt(e, "C011", "undefined name %q", e.Name)
		}
		e.SetResolvedType(typesystem.Void)
		return e
	}
	e.SetResolvedType(sym.Type)
	e.GlobalSlot = sym.GlobalSlot
	e.IsModuleRef = sym.IsModuleAlias
	return e
}

func (c *Checker) checkUnary(e *ast.UnaryExpression) ast.Expression {
	e.Operand = c.checkExpression(e.Operand)
	t := e.Operand.ResolvedType()
	switch e.Operator {
	case token.MINUS:
		if !typesystem.IsNumeric(t) {
			c.errAt(e, "C020", "unary - requires a numeric operand, found %s", t)
		}
		e.SetResolvedType(t)
	case token.NOT:
		if !typesystem.Equal(t, typesystem.Bool) {
			c.errAt(e, "C021", "'not' requires a bool operand, found %s", t)
		}
		e.SetResolvedType(typesystem.Bool)
	case token.TILDE:
		if !typesystem.IsInteger(t) {
			c.errAt(e, "C022", "~ requires an integer operand, found %s", t)
		}
		e.SetResolvedType(t)
	default:
		e.SetResolvedType(t)
	}
	return e
}

var comparisonOps = map[token.Type]bool{
	token.EQ: true, token.NE: true,
	token.LT: true, token.LE: true, token.GT: true, token.GE: true,
}

var bitwiseOps = map[token.Type]bool{
	token.AMP: true, token.PIPE: true, token.CARET: true,
	token.SHL: true, token.SHR: true,
}

func (c *Checker) checkBinary(e *ast.BinaryExpression) ast.Expression {
	e.Left = c.checkExpression(e.Left)
	e.Right = c.checkExpression(e.Right)
	lt, rt := e.Left.ResolvedType(), e.Right.ResolvedType()

	if e.Operator == token.PLUS && (typesystem.Equal(lt, typesystem.String) || typesystem.Equal(rt, typesystem.String)) {
		if !typesystem.Equal(lt, typesystem.String) {
			e.LeftConvert = ast.ConvertToString
		}
		if !typesystem.Equal(rt, typesystem.String) {
			e.RightConvert = ast.ConvertToString
		}
		e.SetResolvedType(typesystem.String)
		return e
	}

	if typesystem.IsNumeric(lt) && typesystem.IsNumeric(rt) && !typesystem.Equal(lt, rt) {
		result, lc, rc := commonNumericType(lt, rt)
		if (!typesystem.Equal(lt, result) && lc == ast.NoConvert) || (!typesystem.Equal(rt, result) && rc == ast.NoConvert) {
			c.errAt(e, "C029", "mismatched numeric operands %s and %s", lt, rt)
		}
	}

	if comparisonOps[e.Operator] {
		if typesystem.IsNumeric(lt) && typesystem.IsNumeric(rt) {
			_, e.LeftConvert, e.RightConvert = commonNumericType(lt, rt)
		} else if !typesystem.Equal(lt, rt) {
			c.errAt(e, "C023", "cannot compare %s with %s", lt, rt)
		}
		e.SetResolvedType(typesystem.Bool)
		return e
	}

	if bitwiseOps[e.Operator] {
		if !typesystem.IsInteger(lt) || !typesystem.IsInteger(rt) {
			c.errAt(e, "C027", "operator %s requires integer operands, found %s and %s", e.Operator, lt, rt)
			e.SetResolvedType(lt)
			return e
		}
		result, leftConv, rightConv := commonNumericType(lt, rt)
		e.LeftConvert, e.RightConvert = leftConv, rightConv
		e.SetResolvedType(result)
		return e
	}

	if !typesystem.IsNumeric(lt) || !typesystem.IsNumeric(rt) {
		c.errAt(e, "C024", "operator %s requires numeric operands, found %s and %s", e.Operator, lt, rt)
		e.SetResolvedType(lt)
		return e
	}
	if e.Operator == token.PERCENT && (typesystem.Equal(lt, typesystem.F64) || typesystem.Equal(rt, typesystem.F64)) {
		c.errAt(e, "C028", "%% is forbidden on float operands, found %s and %s", lt, rt)
		e.SetResolvedType(typesystem.F64)
		return e
	}
	result, leftConv, rightConv := commonNumericType(lt, rt)
	e.LeftConvert, e.RightConvert = leftConv, rightConv
	e.SetResolvedType(result)
	return e
}

func (c *Checker) checkLogical(e *ast.LogicalExpression) ast.Expression {
	e.Left = c.checkExpression(e.Left)
	e.Right = c.checkExpression(e.Right)
	if !typesystem.Equal(e.Left.ResolvedType(), typesystem.Bool) {
		c.errAt(e, "C025", "left operand of %s must be bool, found %s", e.Operator, e.Left.ResolvedType())
	}
	if !typesystem.Equal(e.Right.ResolvedType(), typesystem.Bool) {
		c.errAt(e, "C026", "right operand of %s must be bool, found %s", e.Operator, e.Right.ResolvedType())
	}
	e.SetResolvedType(typesystem.Bool)
	return e
}

func (c *Checker) checkIndex(e *ast.IndexExpression) ast.Expression {
	e.Array = c.checkExpression(e.Array)
	e.Index = c.checkExpression(e.Index)
	if !typesystem.IsInteger(e.Index.ResolvedType()) {
		c.errAt(e, "C030", "array index must be an integer, found %s", e.Index.ResolvedType())
	}
	arr, ok := e.Array.ResolvedType().(typesystem.Array)
	if !ok {
		c.errAt(e, "C031", "cannot index non-array type %s", e.Array.ResolvedType())
		e.SetResolvedType(typesystem.Void)
		return e
	}
	e.SetResolvedType(arr.Element)
	return e
}

func (c *Checker) checkSlice(e *ast.SliceExpression) ast.Expression {
	e.Array = c.checkExpression(e.Array)
	if e.Start != nil {
		e.Start = c.checkExpression(e.Start)
	}
	if e.End != nil {
		e.End = c.checkExpression(e.End)
	}
	arr, ok := e.Array.ResolvedType().(typesystem.Array)
	if !ok {
		c.errAt(e, "C032", "cannot slice non-array type %s", e.Array.ResolvedType())
		e.SetResolvedType(typesystem.Void)
		return e
	}
	e.SetResolvedType(arr)
	return e
}

func (c *Checker) checkCast(e *ast.CastExpression) ast.Expression {
	e.Operand = c.checkExpression(e.Operand)
	target := c.resolveTypeExpr(e.TargetType, nil)
	src := e.Operand.ResolvedType()

	if typesystem.IsNumeric(src) && typesystem.IsNumeric(target) {
		if folded, ok := foldNumericCast(e.Operand, target); ok {
			e.Folded = true
			e.FoldedValue = folded
			e.SetResolvedType(target)
			return e
		}
		e.SetResolvedType(target)
		return e
	}
	if typesystem.Equal(target, typesystem.String) {
		e.SetResolvedType(typesystem.String)
		return e
	}
	c.errAt(e, "C040", "cannot cast %s to %s", src, target)
	e.SetResolvedType(target)
	return e
}

// foldNumericCast performs the compile-time literal conversion of
// §4.2 "Literal folding": a numeric cast applied directly to a literal
// is resolved to a new literal node instead of a runtime cast opcode.
func foldNumericCast(operand ast.Expression, target typesystem.Type) (ast.Expression, bool) {
	switch lit := operand.(type) {
	case *ast.IntegerLiteral:
		if typesystem.Equal(target, typesystem.F64) {
			f := &ast.FloatLiteral{Token: lit.Token, Value: float64(lit.Value)}
			f.SetResolvedType(typesystem.F64)
			return f, true
		}
		nl := &ast.IntegerLiteral{Token: lit.Token, Value: lit.Value}
		nl.SetResolvedType(target)
		return nl, true
	case *ast.FloatLiteral:
		if typesystem.IsInteger(target) {
			nl := &ast.IntegerLiteral{Token: lit.Token, Value: int64(lit.Value)}
			nl.SetResolvedType(target)
			return nl, true
		}
	}
	return nil, false
}

func (c *Checker) checkArrayLiteral(e *ast.ArrayLiteral) ast.Expression {
	var elem typesystem.Type = typesystem.Void
	for i, el := range e.Elements {
		checked := c.checkExpression(el)
		e.Elements[i] = checked
		if i == 0 {
			elem = checked.ResolvedType()
		} else if !assignable(checked.ResolvedType(), elem) {
			c.errAt(checked, "C050", "array element type %s does not match %s", checked.ResolvedType(), elem)
		}
	}
	e.SetResolvedType(typesystem.Array{Element: elem})
	return e
}

func (c *Checker) checkStructLiteral(e *ast.StructLiteral) ast.Expression {
	st, ok := c.Registry.LookupStruct(e.StructName)
	if !ok {
		c.errAt(e, "C060", "undefined struct %q", e.StructName)
		e.SetResolvedType(typesystem.Void)
		return e
	}
	if len(e.GenericArgs) > 0 {
		var args []typesystem.Type
		for _, a := range e.GenericArgs {
			args = append(args, c.resolveTypeExpr(a, nil))
		}
		st = c.Registry.InstantiateStruct(st, args)
	}
	for i, f := range e.Fields {
		checked := c.checkExpression(f.Value)
		e.Fields[i].Value = checked
		ft, _, ok := st.FieldType(f.Name)
		if !ok {
			c.errAt(checked, "C061", "%s has no field %q", st.Name, f.Name)
			continue
		}
		if !assignable(checked.ResolvedType(), ft) {
			c.errAt(checked, "C062", "field %q: cannot assign %s to %s", f.Name, checked.ResolvedType(), ft)
		}
	}
	e.SetResolvedType(st)
	return e
}

// checkFieldAccess resolves `.field`. When the receiver is an
// identifier bound to a module alias, it rewrites the whole node to a
// plain *ast.Identifier pointing at the exporting module's global slot
// (§4.1), instead of leaving a receiver-carrying node for the emitter
// to special-case.
func (c *Checker) checkFieldAccess(e *ast.FieldAccessExpression) ast.Expression {
	if id, ok := e.Receiver.(*ast.Identifier); ok {
		if sym := c.Symbols.Find(id.Name); sym != nil && sym.IsModuleAlias {
			return c.rewriteModuleFieldAccess(e, sym)
		}
	}

	e.Receiver = c.checkExpression(e.Receiver)
	st, ok := e.Receiver.ResolvedType().(*typesystem.Struct)
	if !ok {
		c.errAt(e, "C070", "cannot access field %q on non-struct type %s", e.FieldName, e.Receiver.ResolvedType())
		e.SetResolvedType(typesystem.Void)
		return e
	}
	ft, idx, ok := st.FieldType(e.FieldName)
	if !ok {
		c.errAt(e, "C071", "%s has no field %q", st.Name, e.FieldName)
		e.SetResolvedType(typesystem.Void)
		return e
	}
	e.FieldIndex = idx
	e.SetResolvedType(ft)
	return e
}

func (c *Checker) rewriteModuleFieldAccess(e *ast.FieldAccessExpression, alias *symbols.Symbol) ast.Expression {
	mod, ok := c.Modules[alias.ModuleHandle]
	if !ok {
		c.errAt(e, "C072", "module %q is not loaded", alias.ModuleHandle)
		e.SetResolvedType(typesystem.Void)
		return e
	}
	slot, ok := mod.Globals.SlotOf(e.FieldName)
	if !ok {
		c.errAt(e, "C073", "module %q has no exported name %q", alias.ModuleHandle, e.FieldName)
		e.SetResolvedType(typesystem.Void)
		return e
	}
	if !mod.Globals.Public[slot] {
		c.errAt(e, "C074", "%q is not public in module %q", e.FieldName, alias.ModuleHandle)
	}
	rewritten := &ast.Identifier{
		Token:       e.Token,
		Name:        e.FieldName,
		GlobalSlot:  slot,
		IsModuleRef: true,
	}
	rewritten.SetResolvedType(mod.Globals.Types[slot])
	return rewritten
}
