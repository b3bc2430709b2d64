// Package typesystem implements the tagged type-descriptor variant of
// spec §3 "Type descriptor": primitives, arrays, functions, structs,
// enums, and generic parameters, plus the interned struct/enum
// registries and the substitution machinery generics need.
//
// Modeled on the teacher's internal/typesystem/types.go (a Type
// interface implemented by a handful of concrete kinds, substitution
// via Apply(Subst)), simplified from the teacher's full Hindley-Milner
// lattice (TVar/TApp/TCon with kinds) down to the closed, monomorphic
// set spec §3 actually names.
package typesystem

import (
	"fmt"
	"strings"
)

// Type is the closed sum type every type descriptor implements. Design
// note 9: "Value and Type are closed sum types; tagged unions... the
// handlers for each... kind are exhaustive."
type Type interface {
	String() string
	Equals(other Type) bool
	// Apply substitutes generic parameters per s, returning a new Type
	// (or itself, if s has no effect).
	Apply(s Subst) Type
}

// Primitive is a scalar type: one of i32, i64, u32, u64, f64, bool,
// string, void, nil.
type Primitive struct {
	Name string
}

func (p Primitive) String() string { return p.Name }
func (p Primitive) Equals(o Type) bool {
	op, ok := o.(Primitive)
	return ok && op.Name == p.Name
}
func (p Primitive) Apply(Subst) Type { return p }

var (
	I32    = Primitive{"i32"}
	I64    = Primitive{"i64"}
	U32    = Primitive{"u32"}
	U64    = Primitive{"u64"}
	F64    = Primitive{"f64"}
	Bool   = Primitive{"bool"}
	String = Primitive{"string"}
	Void   = Primitive{"void"}
	Nil    = Primitive{"nil"}
)

// primitivesByName resolves a NamedType.Name with no generic args to a
// primitive, if it is one.
var primitivesByName = map[string]Primitive{
	"i32": I32, "i64": I64, "u32": U32, "u64": U64, "f64": F64,
	"bool": Bool, "string": String, "void": Void, "nil": Nil,
}

// LookupPrimitive returns the primitive named name, if any.
func LookupPrimitive(name string) (Primitive, bool) {
	p, ok := primitivesByName[name]
	return p, ok
}

// IsInteger reports whether t is one of the four integer primitives.
func IsInteger(t Type) bool {
	p, ok := t.(Primitive)
	if !ok {
		return false
	}
	switch p.Name {
	case "i32", "i64", "u32", "u64":
		return true
	}
	return false
}

// IsNumeric reports whether t is an integer or f64.
func IsNumeric(t Type) bool {
	return IsInteger(t) || Equal(t, F64)
}

// IsSigned reports whether t is i32 or i64.
func IsSigned(t Type) bool {
	p, ok := t.(Primitive)
	return ok && (p.Name == "i32" || p.Name == "i64")
}

// Array is `[T]`.
type Array struct {
	Element Type
}

func (a Array) String() string { return "[" + a.Element.String() + "]" }
func (a Array) Equals(o Type) bool {
	oa, ok := o.(Array)
	return ok && Equal(a.Element, oa.Element)
}
func (a Array) Apply(s Subst) Type { return Array{Element: a.Element.Apply(s)} }

// Function is a first-class function type.
type Function struct {
	Return Type
	Params []Type
}

func (f Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	ret := "void"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return "fn(" + strings.Join(parts, ", ") + ") -> " + ret
}
func (f Function) Equals(o Type) bool {
	of, ok := o.(Function)
	if !ok || len(of.Params) != len(f.Params) {
		return false
	}
	if !Equal(f.Return, of.Return) {
		return false
	}
	for i := range f.Params {
		if !Equal(f.Params[i], of.Params[i]) {
			return false
		}
	}
	return true
}
func (f Function) Apply(s Subst) Type {
	params := make([]Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Apply(s)
	}
	var ret Type
	if f.Return != nil {
		ret = f.Return.Apply(s)
	}
	return Function{Return: ret, Params: params}
}

// GenericParam is a named type placeholder (Glossary "Generic
// parameter"), substituted at a call or instantiation site.
type GenericParam struct {
	Name string
}

func (g GenericParam) String() string { return g.Name }
func (g GenericParam) Equals(o Type) bool {
	og, ok := o.(GenericParam)
	return ok && og.Name == g.Name
}
func (g GenericParam) Apply(s Subst) Type {
	if repl, ok := s[g.Name]; ok {
		return repl
	}
	return g
}

// Equal is nil-safe structural equality used throughout the checker.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}

// Subst maps generic parameter names to concrete types.
type Subst map[string]Type

// String renders s for diagnostics/debug traces.
func (s Subst) String() string {
	var b strings.Builder
	first := true
	for k, v := range s {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%s=%s", k, v.String())
	}
	return b.String()
}
