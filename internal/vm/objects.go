package vm

import "strings"

// ObjKind tags a heap object's concrete shape.
type ObjKind uint8

const (
	ObjKindString ObjKind = iota
	ObjKindArray
	ObjKindStruct
	ObjKindError
	ObjKindRange
)

// Obj is one heap allocation. Like Value, it is a tagged union rather
// than a family of types behind an interface, so the collector can
// walk a single intrusive linked list without a type switch on every
// node just to find its Next pointer (§3 "Heap object header: a mark
// bit and an intrusive next-pointer linking every live allocation into
// one list the collector walks").
type Obj struct {
	Kind   ObjKind
	Marked bool
	Next   *Obj

	Str      string  // ObjKindString
	Elements []Value // ObjKindArray
	TypeName string  // ObjKindStruct
	Fields   []Value // ObjKindStruct
	Message  string  // ObjKindError

	RangeCurrent int64 // ObjKindRange
	RangeEnd     int64
	RangeStep    int64
}

func newString(heap *Heap, s string) *Obj {
	o := &Obj{Kind: ObjKindString, Str: s}
	heap.register(o)
	return o
}

// constantString builds a string Obj that is never registered with a
// Heap. Chunk constant pools hold string literals (including the
// synthesized print format string) that live exactly as long as the
// chunk itself, so they need no collector bookkeeping.
func constantString(s string) *Obj {
	return &Obj{Kind: ObjKindString, Str: s}
}

func newArray(heap *Heap, elems []Value) *Obj {
	o := &Obj{Kind: ObjKindArray, Elements: elems}
	heap.register(o)
	return o
}

func newStruct(heap *Heap, typeName string, fields []Value) *Obj {
	o := &Obj{Kind: ObjKindStruct, TypeName: typeName, Fields: fields}
	heap.register(o)
	return o
}

func newError(heap *Heap, msg string) *Obj {
	o := &Obj{Kind: ObjKindError, Message: msg}
	heap.register(o)
	return o
}

// AsString reports whether the object is a string and returns its
// content, used by Value.Equal for by-content string comparison.
func (o *Obj) AsString() (string, bool) {
	if o == nil || o.Kind != ObjKindString {
		return "", false
	}
	return o.Str, true
}

func (o *Obj) String() string {
	switch o.Kind {
	case ObjKindString:
		return o.Str
	case ObjKindArray:
		parts := make([]string, len(o.Elements))
		for i, e := range o.Elements {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ObjKindStruct:
		var b strings.Builder
		b.WriteString(o.TypeName)
		b.WriteString("{")
		for i, f := range o.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.String())
		}
		b.WriteString("}")
		return b.String()
	case ObjKindError:
		return o.Message
	case ObjKindRange:
		return "<range>"
	default:
		return "<obj>"
	}
}
