package typesystem

import "strings"

// StructField is one field of a Struct descriptor.
type StructField struct {
	Name string
	Type Type
}

// Struct is `struct Name<T...> { field: T, ... }`. Interned in the
// Registry keyed by name (§3 "Struct and enum descriptors are interned
// in process-wide registries keyed by name").
type Struct struct {
	Name          string
	Fields        []StructField
	GenericParams []string
}

func (s *Struct) String() string {
	if len(s.GenericParams) == 0 {
		return s.Name
	}
	return s.Name + "<" + strings.Join(s.GenericParams, ", ") + ">"
}
func (s *Struct) Equals(o Type) bool {
	os, ok := o.(*Struct)
	return ok && os.Name == s.Name
}
func (s *Struct) Apply(sub Subst) Type {
	fields := make([]StructField, len(s.Fields))
	changed := false
	for i, f := range s.Fields {
		nf := f.Type.Apply(sub)
		fields[i] = StructField{Name: f.Name, Type: nf}
		if nf != f.Type {
			changed = true
		}
	}
	if !changed {
		return s
	}
	return &Struct{Name: s.Name, Fields: fields, GenericParams: nil}
}

// FieldType returns the declared type of a field, or nil if absent.
func (s *Struct) FieldType(name string) (Type, int, bool) {
	for i, f := range s.Fields {
		if f.Name == name {
			return f.Type, i, true
		}
	}
	return nil, -1, false
}

// EnumVariant is one case of an Enum descriptor.
type EnumVariant struct {
	Name       string
	FieldTypes []Type
	FieldNames []string
}

// Enum is `enum Name<T...> { Variant(T, ...), ... }`.
type Enum struct {
	Name          string
	Variants      []EnumVariant
	GenericParams []string
}

func (e *Enum) String() string {
	if len(e.GenericParams) == 0 {
		return e.Name
	}
	return e.Name + "<" + strings.Join(e.GenericParams, ", ") + ">"
}
func (e *Enum) Equals(o Type) bool {
	oe, ok := o.(*Enum)
	return ok && oe.Name == e.Name
}
func (e *Enum) Apply(sub Subst) Type {
	variants := make([]EnumVariant, len(e.Variants))
	changed := false
	for i, v := range e.Variants {
		fts := make([]Type, len(v.FieldTypes))
		for j, ft := range v.FieldTypes {
			nft := ft.Apply(sub)
			fts[j] = nft
			if nft != ft {
				changed = true
			}
		}
		variants[i] = EnumVariant{Name: v.Name, FieldTypes: fts, FieldNames: v.FieldNames}
	}
	if !changed {
		return e
	}
	return &Enum{Name: e.Name, Variants: variants}
}

// VariantByName finds a variant by name and its ordinal tag.
func (e *Enum) VariantByName(name string) (EnumVariant, int, bool) {
	for i, v := range e.Variants {
		if v.Name == name {
			return v, i, true
		}
	}
	return EnumVariant{}, -1, false
}

// Registry holds the process-wide struct/enum interning tables. Per
// design note 9 ("Model them as one 'interpreter context' object
// passed explicitly; avoid implicit singletons"), a Registry is owned
// by one compilation/execution context rather than a package-level
// global, so multiple interpreters can coexist in tests.
type Registry struct {
	structs map[string]*Struct
	enums   map[string]*Enum
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{structs: make(map[string]*Struct), enums: make(map[string]*Enum)}
}

func (r *Registry) DefineStruct(s *Struct) { r.structs[s.Name] = s }
func (r *Registry) DefineEnum(e *Enum)     { r.enums[e.Name] = e }

func (r *Registry) LookupStruct(name string) (*Struct, bool) {
	s, ok := r.structs[name]
	return s, ok
}

func (r *Registry) LookupEnum(name string) (*Enum, bool) {
	e, ok := r.enums[name]
	return e, ok
}

// Instantiate substitutes a struct's generic parameters with concrete
// Args in declaration order, producing a fresh (uninterned) Struct
// descriptor (§4.1 "Struct literal... supports explicit generic
// arguments (instantiates a substituted copy)").
func (r *Registry) InstantiateStruct(s *Struct, args []Type) *Struct {
	if len(s.GenericParams) == 0 || len(args) == 0 {
		return s
	}
	sub := make(Subst, len(s.GenericParams))
	for i, p := range s.GenericParams {
		if i < len(args) {
			sub[p] = args[i]
		}
	}
	inst := s.Apply(sub).(*Struct)
	inst.GenericParams = nil
	return inst
}

// InstantiateEnum is InstantiateStruct's enum counterpart.
func (r *Registry) InstantiateEnum(e *Enum, args []Type) *Enum {
	if len(e.GenericParams) == 0 || len(args) == 0 {
		return e
	}
	sub := make(Subst, len(e.GenericParams))
	for i, p := range e.GenericParams {
		if i < len(args) {
			sub[p] = args[i]
		}
	}
	inst := e.Apply(sub).(*Enum)
	inst.GenericParams = nil
	return inst
}
