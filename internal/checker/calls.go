package checker

import (
	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/typesystem"
)

// builtin describes one of the fixed native functions of the Glossary
// ("Builtins"; len, substring, push, pop, reserve, range, sum, min,
// max, type_of, is_type, input, int, float, timestamp, sorted,
// module_name, module_path, native_pow, native_sqrt) that the checker
// resolves directly instead of through the global slot table.
type builtin struct {
	index int
	// params are checked positionally; a nil element means "accept any
	// type, no check" (type_of/is_type/int/float's first argument).
	params     []typesystem.Type
	ret        typesystem.Type
	arrayParam bool              // true: args[0] must be an array; extra holds any params after it
	arrayRet   bool              // true: return type is the element type of args[0]
	arraySame  bool              // true: return type is args[0]'s own array type (sorted)
	extra      []typesystem.Type // extra positional params checked after args[0], when arrayParam; nil means args[0]'s element type
}

var builtins = map[string]builtin{
	"native_pow":  {index: 0, params: []typesystem.Type{typesystem.F64, typesystem.F64}, ret: typesystem.F64},
	"native_sqrt": {index: 1, params: []typesystem.Type{typesystem.F64}, ret: typesystem.F64},
	"timestamp":   {index: 2, params: nil, ret: typesystem.I64},
	"input":       {index: 3, params: nil, ret: typesystem.String},
	"len":         {index: 4, arrayParam: true, ret: typesystem.I64},
	"push":        {index: 5, arrayParam: true, extra: []typesystem.Type{nil}, ret: typesystem.Void},
	"pop":         {index: 6, arrayParam: true, arrayRet: true},

	"substring":   {index: 7, params: []typesystem.Type{typesystem.String, typesystem.I64, typesystem.I64}, ret: typesystem.String},
	"reserve":     {index: 8, arrayParam: true, extra: []typesystem.Type{typesystem.I64}, ret: typesystem.Void},
	"range":       {index: 9, params: []typesystem.Type{typesystem.I64, typesystem.I64}, ret: typesystem.Array{Element: typesystem.I64}},
	"sum":         {index: 10, arrayParam: true, arrayRet: true},
	"min":         {index: 11, arrayParam: true, arrayRet: true},
	"max":         {index: 12, arrayParam: true, arrayRet: true},
	"type_of":     {index: 13, params: []typesystem.Type{nil}, ret: typesystem.String},
	"is_type":     {index: 14, params: []typesystem.Type{nil, typesystem.String}, ret: typesystem.Bool},
	"int":         {index: 15, params: []typesystem.Type{nil}, ret: typesystem.I32},
	"float":       {index: 16, params: []typesystem.Type{nil}, ret: typesystem.F64},
	"sorted":      {index: 17, arrayParam: true, arraySame: true},
	"module_name": {index: 18, params: nil, ret: typesystem.String},
	"module_path": {index: 19, params: nil, ret: typesystem.String},
}

// checkCall implements the four-way call resolution of §4.1 "Call":
// a builtin name, a user function resolved by mangled name, a method
// call (receiver.method(...) mangled to Type_method), or a generic
// user function whose type arguments are deduced by unifying declared
// parameter types against the checked argument types.
func (c *Checker) checkCall(e *ast.CallExpression) ast.Expression {
	for i, a := range e.Args {
		e.Args[i] = c.checkExpression(a)
	}

	if fa, ok := e.Callee.(*ast.FieldAccessExpression); ok {
		return c.checkMethodCall(e, fa)
	}

	id, ok := e.Callee.(*ast.Identifier)
	if !ok {
		c.errAt(e, "C080", "expression is not callable")
		e.SetResolvedType(typesystem.Void)
		return e
	}

	if b, ok := builtins[id.Name]; ok {
		return c.checkBuiltinCall(e, id, b)
	}

	return c.checkUserFunctionCall(e, id.Name)
}

func (c *Checker) checkBuiltinCall(e *ast.CallExpression, id *ast.Identifier, b builtin) ast.Expression {
	e.Kind = ast.CallBuiltin
	e.NativeIndex = b.index

	if b.arrayParam {
		want := 1 + len(b.extra)
		if len(e.Args) != want {
			c.errAt(e, "C081", "%s expects %d argument(s), found %d", id.Name, want, len(e.Args))
			e.SetResolvedType(typesystem.Void)
			return e
		}
		arr, ok := e.Args[0].ResolvedType().(typesystem.Array)
		if !ok {
			c.errAt(e, "C082", "%s expects an array, found %s", id.Name, e.Args[0].ResolvedType())
			e.SetResolvedType(typesystem.Void)
			return e
		}
		for i, p := range b.extra {
			if p == nil {
				p = arr.Element
			}
			if !assignable(e.Args[i+1].ResolvedType(), p) {
				c.errAt(e.Args[i+1], "C084", "%s argument %d: cannot use %s as %s", id.Name, i+2, e.Args[i+1].ResolvedType(), p)
			}
		}
		switch {
		case b.arrayRet:
			e.SetResolvedType(arr.Element)
		case b.arraySame:
			e.SetResolvedType(arr)
		default:
			e.SetResolvedType(b.ret)
		}
		return e
	}

	if len(e.Args) != len(b.params) {
		c.errAt(e, "C083", "%s expects %d argument(s), found %d", id.Name, len(b.params), len(e.Args))
	} else {
		for i, p := range b.params {
			if p == nil {
				continue
			}
			if !assignable(e.Args[i].ResolvedType(), p) {
				c.errAt(e.Args[i], "C084", "%s argument %d: cannot use %s as %s", id.Name, i+1, e.Args[i].ResolvedType(), p)
			}
		}
	}
	e.SetResolvedType(b.ret)
	return e
}

func (c *Checker) checkUserFunctionCall(e *ast.CallExpression, name string) ast.Expression {
	sym := c.Symbols.Find(name)
	if sym == nil {
		c.errAt(e, "C085", "undefined function %q", name)
		e.SetResolvedType(typesystem.Void)
		return e
	}
	fnType, ok := sym.Type.(typesystem.Function)
	if !ok {
		c.errAt(e, "C086", "%q is not a function", name)
		e.SetResolvedType(typesystem.Void)
		return e
	}

	e.Kind = ast.CallUserFunction
	e.ResolvedName = name
	e.GlobalSlot = sym.GlobalSlot

	decl, _ := c.Globals.FuncNodes[sym.GlobalSlot].(*ast.FunctionDeclaration)
	if decl != nil && len(decl.GenericParams) > 0 {
		fnType = c.instantiateGenericCall(e, decl, fnType)
	} else {
		c.checkArity(e, name, fnType.Params)
	}

	e.SetResolvedType(fnType.Return)
	return e
}

func (c *Checker) checkMethodCall(e *ast.CallExpression, fa *ast.FieldAccessExpression) ast.Expression {
	fa.Receiver = c.checkExpression(fa.Receiver)
	st, ok := fa.Receiver.ResolvedType().(*typesystem.Struct)
	if !ok {
		c.errAt(e, "C087", "cannot call method %q on non-struct type %s", fa.FieldName, fa.Receiver.ResolvedType())
		e.SetResolvedType(typesystem.Void)
		return e
	}
	mangled := st.Name + "_" + fa.FieldName
	sym := c.Symbols.Find(mangled)
	if sym == nil {
		c.errAt(e, "C088", "%s has no method %q", st.Name, fa.FieldName)
		e.SetResolvedType(typesystem.Void)
		return e
	}
	fnType, _ := sym.Type.(typesystem.Function)

	// The receiver becomes the method's implicit first argument, so the
	// compiler can emit a method call exactly like a user-function call
	// with no receiver-passing special case.
	e.Args = append([]ast.Expression{fa.Receiver}, e.Args...)

	e.Kind = ast.CallMethod
	e.ResolvedName = mangled
	e.GlobalSlot = sym.GlobalSlot
	e.Callee = fa.Receiver

	c.checkArity(e, mangled, fnType.Params)
	e.SetResolvedType(fnType.Return)
	return e
}

func (c *Checker) checkArity(e *ast.CallExpression, name string, params []typesystem.Type) {
	if len(e.Args) != len(params) {
		c.errAt(e, "C089", "%s expects %d argument(s), found %d", name, len(params), len(e.Args))
		return
	}
	for i, p := range params {
		if !assignable(e.Args[i].ResolvedType(), p) {
			c.errAt(e.Args[i], "C090", "%s argument %d: cannot use %s as %s", name, i+1, e.Args[i].ResolvedType(), p)
		}
	}
}

// instantiateGenericCall deduces generic type arguments by unifying
// each declared parameter type against its checked argument type, then
// substitutes them into fnType for this call site (§4.1 "Call... for a
// generic user function, parameter types are unified against argument
// types to deduce generic type arguments").
func (c *Checker) instantiateGenericCall(e *ast.CallExpression, decl *ast.FunctionDeclaration, fnType typesystem.Function) typesystem.Function {
	if len(e.Args) != len(fnType.Params) {
		c.errAt(e, "C091", "%s expects %d argument(s), found %d", decl.Name, len(fnType.Params), len(e.Args))
		return fnType
	}
	subst := make(typesystem.Subst)
	for i, p := range fnType.Params {
		if err := typesystem.Unify(p, e.Args[i].ResolvedType(), subst); err != nil {
			c.errAt(e.Args[i], "C092", "%s argument %d: %s", decl.Name, i+1, err.Error())
		}
	}
	applied := fnType.Apply(subst).(typesystem.Function)
	return applied
}
