package checker

import (
	"path/filepath"

	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/symbols"
	"github.com/orus-lang/orus/internal/typesystem"
	"github.com/orus-lang/orus/internal/utils"
)

// checkStatement type-checks stmt and returns the node that should
// replace it in its parent's statement slice (almost always itself,
// annotated in place).
func (c *Checker) checkStatement(stmt ast.Statement) ast.Statement {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		s.Value = c.checkExpression(s.Value)
		return s
	case *ast.VarDeclaration:
		return c.checkVarDeclaration(s)
	case *ast.AssignmentStatement:
		return c.checkAssignment(s)
	case *ast.BlockStatement:
		return c.checkBlock(s)
	case *ast.IfStatement:
		return c.checkIf(s)
	case *ast.WhileStatement:
		return c.checkWhile(s)
	case *ast.ForStatement:
		return c.checkFor(s)
	case *ast.BreakStatement:
		if c.loopDepth == 0 {
			c.errAt(s, "C100", "break used outside a loop")
		}
		return s
	case *ast.ContinueStatement:
		if c.loopDepth == 0 {
			c.errAt(s, "C101", "continue used outside a loop")
		}
		return s
	case *ast.FunctionDeclaration:
		c.checkFunctionBody(s)
		return s
	case *ast.ReturnStatement:
		return c.checkReturn(s)
	case *ast.StructDeclaration, *ast.EnumDeclaration:
		return s
	case *ast.TryCatchStatement:
		return c.checkTryCatch(s)
	case *ast.UseStatement:
		return c.checkUse(s)
	case *ast.PrintStatement:
		for i, a := range s.Args {
			s.Args[i] = c.checkExpression(a)
		}
		return s
	default:
		return stmt
	}
}

func (c *Checker) checkBlock(b *ast.BlockStatement) *ast.BlockStatement {
	if b.Scoped {
		c.Symbols.BeginScope()
		defer c.Symbols.EndScope()
	}
	for i, s := range b.Statements {
		b.Statements[i] = c.checkStatement(s)
	}
	return b
}

func (c *Checker) checkVarDeclaration(s *ast.VarDeclaration) ast.Statement {
	var declared typesystem.Type
	if s.TypeAnnotation != nil {
		declared = c.resolveTypeExpr(s.TypeAnnotation, nil)
	}

	var valueType typesystem.Type = typesystem.Nil
	if s.Value != nil {
		s.Value = c.checkExpression(s.Value)
		valueType = s.Value.ResolvedType()
	}

	if s.Kind == ast.DeclConst && !isLiteral(s.Value) {
		c.errAt(s, "C110", "const %q requires a literal initializer", s.Name.Name)
	}

	switch {
	case declared != nil && s.Value != nil:
		if !assignable(valueType, declared) {
			c.errAt(s, "C111", "cannot assign %s to %s in declaration of %q", valueType, declared, s.Name.Name)
		}
		s.ResolvedType = declared
	case declared != nil:
		s.ResolvedType = declared
	default:
		s.ResolvedType = valueType
	}

	top := c.Symbols.ScopeDepth() == 0
	slot := -1
	if top {
		var err error
		slot, err = c.Globals.Declare(s.Name.Name, s.ResolvedType, s.IsPublic, s.IsMutable)
		if err != nil {
			c.errAt(s, "C112", "%s", err.Error())
		}
	}
	s.GlobalSlot = slot
	s.Name.GlobalSlot = slot
	s.Name.SetResolvedType(s.ResolvedType)

	if _, ok := c.Symbols.Add(symbols.Symbol{
		Name:           s.Name.Name,
		Token:          s.Token,
		Type:           s.ResolvedType,
		GlobalSlot:     slot,
		IsMutable:      s.IsMutable,
		IsConst:        s.Kind == ast.DeclConst,
		IsPublic:       s.IsPublic,
		ConstValue:     s.Value,
		DefinitionNode: s,
	}); !ok {
		c.errAt(s, "C113", "%q is already declared in this scope", s.Name.Name)
	}
	return s
}

func isLiteral(e ast.Expression) bool {
	switch e.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.BoolLiteral, *ast.NilLiteral:
		return true
	default:
		return false
	}
}

func (c *Checker) checkAssignment(s *ast.AssignmentStatement) ast.Statement {
	s.Value = c.checkExpression(s.Value)

	if id, ok := s.Target.(*ast.Identifier); ok {
		sym := c.Symbols.Find(id.Name)
		if sym == nil {
			c.errAt(s, "C120", "undefined name %q", id.Name)
			return s
		}
		if !sym.IsMutable {
			c.errAt(s, "C121", "cannot assign to immutable binding %q", id.Name)
		}
		id.SetResolvedType(sym.Type)
		id.GlobalSlot = sym.GlobalSlot
		s.Target = id

		if typesystem.Equal(sym.Type, typesystem.Nil) {
			sym.Type = s.Value.ResolvedType()
			if sym.GlobalSlot >= 0 {
				c.Globals.SetType(sym.GlobalSlot, sym.Type)
			}
			id.SetResolvedType(sym.Type)
		} else if !assignable(s.Value.ResolvedType(), sym.Type) {
			c.errAt(s, "C122", "cannot assign %s to %q of type %s", s.Value.ResolvedType(), id.Name, sym.Type)
		}
		return s
	}

	s.Target = c.checkExpression(s.Target)
	if !assignable(s.Value.ResolvedType(), s.Target.ResolvedType()) {
		c.errAt(s, "C123", "cannot assign %s to %s", s.Value.ResolvedType(), s.Target.ResolvedType())
	}
	return s
}

func (c *Checker) checkIf(s *ast.IfStatement) ast.Statement {
	for i := range s.Branches {
		if s.Branches[i].Condition != nil {
			s.Branches[i].Condition = c.checkExpression(s.Branches[i].Condition)
			if !typesystem.Equal(s.Branches[i].Condition.ResolvedType(), typesystem.Bool) {
				c.errAt(s, "C130", "if condition must be bool, found %s", s.Branches[i].Condition.ResolvedType())
			}
		}
		s.Branches[i].Body = c.checkBlock(s.Branches[i].Body)
	}
	return s
}

func (c *Checker) checkWhile(s *ast.WhileStatement) ast.Statement {
	s.Condition = c.checkExpression(s.Condition)
	if !typesystem.Equal(s.Condition.ResolvedType(), typesystem.Bool) {
		c.errAt(s, "C131", "while condition must be bool, found %s", s.Condition.ResolvedType())
	}
	c.loopDepth++
	s.Body = c.checkBlock(s.Body)
	c.loopDepth--
	return s
}

func (c *Checker) checkFor(s *ast.ForStatement) ast.Statement {
	s.Start = c.checkExpression(s.Start)
	s.End = c.checkExpression(s.End)
	if !typesystem.IsInteger(s.Start.ResolvedType()) {
		c.errAt(s, "C132", "for loop start must be an integer, found %s", s.Start.ResolvedType())
	}
	if s.Step != nil {
		s.Step = c.checkExpression(s.Step)
	}

	c.Symbols.BeginScope()
	s.Iterator.SetResolvedType(s.Start.ResolvedType())
	c.Symbols.Add(symbols.Symbol{
		Name:       s.Iterator.Name,
		Token:      s.Iterator.Token,
		Type:       s.Iterator.ResolvedType(),
		GlobalSlot: -1,
		IsMutable:  true,
	})

	c.loopDepth++
	s.Body = c.checkBlock(s.Body)
	c.loopDepth--
	c.Symbols.EndScope()
	return s
}

func (c *Checker) checkFunctionBody(s *ast.FunctionDeclaration) {
	sym := c.Symbols.Find(s.MangledName())
	var fnType typesystem.Function
	if sym != nil {
		fnType, _ = sym.Type.(typesystem.Function)
	}

	c.Symbols.BeginScope()
	prevReturn, prevInFn := c.funcReturn, c.inFunction
	c.funcReturn, c.inFunction = fnType.Return, true

	generics := genericSet(s.GenericParams)
	for i, p := range s.Params {
		pt := c.resolveTypeExpr(p.TypeAnnotation, generics)
		if i < len(fnType.Params) {
			pt = fnType.Params[i]
		}
		c.Symbols.Add(symbols.Symbol{Name: p.Name, Type: pt, GlobalSlot: -1, IsMutable: true})
	}

	for i, stmt := range s.Body.Statements {
		s.Body.Statements[i] = c.checkStatement(stmt)
	}

	if s.ReturnType != nil && len(s.GenericParams) == 0 && !blockReturns(s.Body) {
		c.errAt(s, "C143", "function %q must return %s on every path", s.Name, fnType.Return)
	}

	c.funcReturn, c.inFunction = prevReturn, prevInFn
	c.Symbols.EndScope()
}

// blockReturns reports whether every control-flow path through b ends in
// a return (§4.1 "the body must contain a return and all paths must
// return"). Loops are never treated as guaranteed to run, so a return
// only inside a while/for body does not satisfy the caller.
func blockReturns(b *ast.BlockStatement) bool {
	for _, stmt := range b.Statements {
		if stmtReturns(stmt) {
			return true
		}
	}
	return false
}

// stmtReturns reports whether stmt alone guarantees a return on every
// path through it.
func stmtReturns(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.ReturnStatement:
		return true
	case *ast.BlockStatement:
		return blockReturns(s)
	case *ast.IfStatement:
		if len(s.Branches) == 0 || s.Branches[len(s.Branches)-1].Condition != nil {
			// No trailing else: some path falls through without entering
			// any branch.
			return false
		}
		for _, branch := range s.Branches {
			if !blockReturns(branch.Body) {
				return false
			}
		}
		return true
	case *ast.TryCatchStatement:
		return blockReturns(s.TryBlock) && blockReturns(s.Catch)
	default:
		return false
	}
}

func (c *Checker) checkReturn(s *ast.ReturnStatement) ast.Statement {
	if !c.inFunction {
		c.errAt(s, "C140", "return used outside a function")
	}
	want := c.funcReturn
	if s.Value == nil {
		if want != nil && !typesystem.Equal(want, typesystem.Void) {
			c.errAt(s, "C141", "missing return value, expected %s", want)
		}
		return s
	}
	s.Value = c.checkExpression(s.Value)
	if want != nil && !assignable(s.Value.ResolvedType(), want) {
		c.errAt(s, "C142", "cannot return %s, expected %s", s.Value.ResolvedType(), want)
	}
	return s
}

func (c *Checker) checkTryCatch(s *ast.TryCatchStatement) ast.Statement {
	s.TryBlock = c.checkBlock(s.TryBlock)

	c.Symbols.BeginScope()
	if s.ErrorName != "" {
		c.Symbols.Add(symbols.Symbol{Name: s.ErrorName, Type: typesystem.String, GlobalSlot: -1, IsMutable: false})
	}
	for i, stmt := range s.Catch.Statements {
		s.Catch.Statements[i] = c.checkStatement(stmt)
	}
	c.Symbols.EndScope()
	return s
}

func (c *Checker) checkUse(s *ast.UseStatement) ast.Statement {
	alias := s.Alias
	if alias == "" {
		alias = utils.ExtractModuleName(s.Path)
	}
	// Resolved the same way modules.Loader resolves the `use` path it
	// loads this module from, so c.Modules[canonical] (populated by the
	// loader before Check runs) and this alias agree on identity.
	canonical := utils.Canonical(filepath.Dir(c.File), s.Path)
	c.Symbols.Add(symbols.Symbol{
		Name:          alias,
		Token:         s.Token,
		IsModuleAlias: true,
		ModuleHandle:  canonical,
		GlobalSlot:    -1,
	})
	return s
}
