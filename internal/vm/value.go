// Package vm implements the bytecode emitter and stack-based execution
// engine of spec §4.2/§4.3: a tagged-union Value model, a tracing
// mark-and-sweep garbage collector over an intrusive heap-object list,
// and a fetch-decode-execute loop with call frames and exception
// frames for try/catch.
//
// Modeled on the teacher's internal/vm package (Value as a small tagged
// struct, Obj as an intrusive-list heap header, a flat byte-indexed
// Chunk, a giant switch in the execution loop) but built around Orus's
// closed value set instead of the teacher's full object model.
package vm

import (
	"fmt"
	"math"
)

// Kind tags which field of a Value is live (design note 9: "Value and
// Type are closed sum types... exhaustive switches, no default case
// silently swallowing a new kind").
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindI32
	KindI64
	KindU32
	KindU64
	KindF64
	KindObj
)

// Value is one stack slot, global slot, or struct field. It is a
// tagged union rather than an interface so the hot execution loop
// never allocates to box a primitive (§3 "Value... a tagged union of
// a primitive or a heap object reference").
type Value struct {
	Kind Kind
	num  uint64 // bit pattern for Bool/I32/I64/U32/U64/F64
	Obj  *Obj
}

func Nil() Value { return Value{Kind: KindNil} }

func Bool(b bool) Value {
	var n uint64
	if b {
		n = 1
	}
	return Value{Kind: KindBool, num: n}
}

func I32(v int32) Value    { return Value{Kind: KindI32, num: uint64(uint32(v))} }
func I64(v int64) Value    { return Value{Kind: KindI64, num: uint64(v)} }
func U32(v uint32) Value   { return Value{Kind: KindU32, num: uint64(v)} }
func U64(v uint64) Value   { return Value{Kind: KindU64, num: v} }
func F64(f float64) Value  { return Value{Kind: KindF64, num: math.Float64bits(f)} }
func FromObj(o *Obj) Value { return Value{Kind: KindObj, Obj: o} }

func (v Value) AsBool() bool  { return v.num != 0 }
func (v Value) AsI32() int32  { return int32(uint32(v.num)) }
func (v Value) AsI64() int64  { return int64(v.num) }
func (v Value) AsU32() uint32 { return uint32(v.num) }
func (v Value) AsU64() uint64  { return v.num }
func (v Value) AsF64() float64 { return math.Float64frombits(v.num) }

// AsInt widens any integer-kinded value to int64, for index/arity/loop
// bound arithmetic that doesn't care about the exact width.
func (v Value) AsInt() int64 {
	switch v.Kind {
	case KindI32:
		return int64(v.AsI32())
	case KindI64:
		return v.AsI64()
	case KindU32:
		return int64(v.AsU32())
	case KindU64:
		return int64(v.AsU64())
	default:
		return 0
	}
}

// AsFloat widens any numeric-kinded value to float64.
func (v Value) AsFloat() float64 {
	if v.Kind == KindF64 {
		return v.AsF64()
	}
	return float64(v.AsInt())
}

// IsTruthy implements the condition test every branch/loop opcode uses
// (§3 "Truthiness: bool values only; every other kind is a type
// error caught at check time").
func (v Value) IsTruthy() bool { return v.Kind == KindBool && v.AsBool() }

// Equal is value equality for `==`/`!=`, comparing heap objects by
// reference except strings, which compare by content.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNil:
		return true
	case KindObj:
		if v.Obj == o.Obj {
			return true
		}
		if vs, ok := v.Obj.AsString(); ok {
			if os, ok2 := o.Obj.AsString(); ok2 {
				return vs == os
			}
		}
		return false
	default:
		return v.num == o.num
	}
}

// String renders v for print/trace output.
func (v Value) String() string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		return fmt.Sprintf("%t", v.AsBool())
	case KindI32:
		return fmt.Sprintf("%d", v.AsI32())
	case KindI64:
		return fmt.Sprintf("%d", v.AsI64())
	case KindU32:
		return fmt.Sprintf("%d", v.AsU32())
	case KindU64:
		return fmt.Sprintf("%d", v.AsU64())
	case KindF64:
		return fmt.Sprintf("%g", v.AsF64())
	case KindObj:
		return v.Obj.String()
	default:
		return "<?>"
	}
}
