package checker

import (
	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/symbols"
	"github.com/orus-lang/orus/internal/typesystem"
)

// declareTopLevel forward-declares every struct, enum, and function so
// call sites and type annotations anywhere in the unit can reference
// them regardless of source order (§4.1 "Function declaration is
// pre-declared in a prepass so recursive and forward references
// resolve before bodies are checked").
func (c *Checker) declareTopLevel(prog *ast.Program) {
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.StructDeclaration:
			c.declareStruct(s)
		case *ast.EnumDeclaration:
			c.declareEnum(s)
		}
	}
	for _, stmt := range prog.Statements {
		if fn, ok := stmt.(*ast.FunctionDeclaration); ok {
			c.declareFunction(fn)
		}
	}
}

func (c *Checker) declareStruct(s *ast.StructDeclaration) {
	generics := genericSet(s.GenericParams)
	st := &typesystem.Struct{Name: s.Name, GenericParams: s.GenericParams}
	for _, f := range s.Fields {
		st.Fields = append(st.Fields, typesystem.StructField{
			Name: f.Name,
			Type: c.resolveTypeExpr(f.TypeAnnotation, generics),
		})
	}
	c.Registry.DefineStruct(st)
}

func (c *Checker) declareEnum(e *ast.EnumDeclaration) {
	generics := genericSet(e.GenericParams)
	en := &typesystem.Enum{Name: e.Name, GenericParams: e.GenericParams}
	for _, v := range e.Variants {
		variant := typesystem.EnumVariant{Name: v.Name}
		for _, ft := range v.FieldTypes {
			variant.FieldTypes = append(variant.FieldTypes, c.resolveTypeExpr(ft, generics))
		}
		en.Variants = append(en.Variants, variant)
	}
	c.Registry.DefineEnum(en)
}

func (c *Checker) declareFunction(fn *ast.FunctionDeclaration) {
	generics := genericSet(fn.GenericParams)
	fnType := typesystem.Function{}
	for _, p := range fn.Params {
		fnType.Params = append(fnType.Params, c.resolveTypeExpr(p.TypeAnnotation, generics))
	}
	if fn.ReturnType != nil {
		fnType.Return = c.resolveTypeExpr(fn.ReturnType, generics)
	} else {
		fnType.Return = typesystem.Void
	}

	slot, err := c.Globals.Declare(fn.MangledName(), fnType, fn.IsPublic, false)
	if err != nil {
		c.errAt(fn, "C001", "%s", err.Error())
		return
	}
	fn.GlobalSlot = slot
	c.Globals.FuncNodes[slot] = fn
	c.Globals.Functions[slot] = symbols.FunctionEntry{Arity: len(fn.Params)}

	c.Symbols.Add(symbols.Symbol{
		Name:           fn.MangledName(),
		Token:          fn.Token,
		Type:           fnType,
		GlobalSlot:     slot,
		IsMutable:      false,
		IsPublic:       fn.IsPublic,
		DefinitionNode: fn,
	})
}

func genericSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// resolveTypeExpr turns a syntactic type annotation into a resolved
// typesystem.Type, recognizing names bound in generics as
// typesystem.GenericParam rather than an unknown type (§4.1 "Generic
// parameter names occurring in a type annotation resolve against the
// enclosing declaration's generic-parameter list").
func (c *Checker) resolveTypeExpr(te ast.TypeExpr, generics map[string]bool) typesystem.Type {
	switch t := te.(type) {
	case nil:
		return typesystem.Void
	case *ast.NamedType:
		if generics[t.Name] {
			return typesystem.GenericParam{Name: t.Name}
		}
		if prim, ok := typesystem.LookupPrimitive(t.Name); ok {
			return prim
		}
		var args []typesystem.Type
		for _, a := range t.GenericArgs {
			args = append(args, c.resolveTypeExpr(a, generics))
		}
		if st, ok := c.Registry.LookupStruct(t.Name); ok {
			if len(args) > 0 {
				return c.Registry.InstantiateStruct(st, args)
			}
			return st
		}
		if en, ok := c.Registry.LookupEnum(t.Name); ok {
			if len(args) > 0 {
				return c.Registry.InstantiateEnum(en, args)
			}
			return en
		}
		c.errAt(t, "C002", "unknown type %q", t.Name)
		return typesystem.Void
	case *ast.ArrayTypeExpr:
		return typesystem.Array{Element: c.resolveTypeExpr(t.Element, generics)}
	case *ast.FunctionTypeExpr:
		ft := typesystem.Function{}
		for _, p := range t.Params {
			ft.Params = append(ft.Params, c.resolveTypeExpr(p, generics))
		}
		if t.ReturnType != nil {
			ft.Return = c.resolveTypeExpr(t.ReturnType, generics)
		} else {
			ft.Return = typesystem.Void
		}
		return ft
	default:
		return typesystem.Void
	}
}
