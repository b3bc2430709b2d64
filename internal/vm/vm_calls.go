package vm

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/orus-lang/orus/internal/config"
)

// execCall pushes a new call frame for a user function or method
// (§4.3 "Call... the N argument values already on the stack become the
// callee's locals at slots 0..N-1").
func (vm *VM) execCall(f *Frame) error {
	slot := vm.readByte(f)
	argc := int(vm.readByte(f))

	entry, ok := vm.Globals.Functions[int(slot)]
	if !ok {
		return vm.fail(f, "call to an unresolved function slot")
	}
	if argc != entry.Arity {
		return vm.fault(f, "arity mismatch")
	}
	if len(vm.frames) >= config.MaxFrames {
		return vm.fault(f, "call-stack overflow")
	}

	base := len(vm.stack) - argc
	vm.frames = append(vm.frames, Frame{
		chunk: vm.program.Functions[entry.ChunkOffset],
		base:  base,
	})
	return nil
}

// execReturn pops the returning frame, discards its locals, and pushes
// result for the caller; or, if no frame remains, signals that the
// whole run is complete.
func (vm *VM) execReturn(result Value) (done bool, err error) {
	returning := vm.frames[len(vm.frames)-1]
	vm.frames = vm.frames[:len(vm.frames)-1]
	vm.stack = vm.stack[:returning.base]

	if len(vm.frames) == 0 {
		return true, nil
	}
	vm.push(result)
	return false, nil
}

// execCallNative dispatches the fixed builtin table of §4.1 "Builtin":
// all twenty builtins, native_pow (0) through module_path (19). Index
// values match internal/checker's builtins table exactly; the
// checker and the emitter share one hardcoded numbering instead of a
// name lookup at run time.
func (vm *VM) execCallNative(f *Frame) error {
	idx := vm.readByte(f)
	argc := int(vm.readByte(f))
	args := make([]Value, argc)
	copy(args, vm.stack[len(vm.stack)-argc:])
	vm.stack = vm.stack[:len(vm.stack)-argc]

	switch idx {
	case 0: // native_pow(f64, f64) -> f64
		vm.push(F64(math.Pow(args[0].AsF64(), args[1].AsF64())))
	case 1: // native_sqrt(f64) -> f64
		vm.push(F64(math.Sqrt(args[0].AsF64())))
	case 2: // timestamp() -> i64 (nanoseconds since epoch)
		vm.push(I64(time.Now().UnixNano()))
	case 3: // input() -> string (one line from stdin, newline stripped)
		if vm.PromptOnInput {
			fmt.Fprint(vm.Stdout, "> ")
		}
		line, _ := vm.Stdin.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		vm.push(FromObj(newString(vm.heap, line)))
	case 4: // len(array) -> i64
		vm.push(I64(int64(len(args[0].Obj.Elements))))
	case 5: // push(array, value) -> void
		arr := args[0].Obj
		arr.Elements = append(arr.Elements, args[1])
		vm.push(Nil())
	case 6: // pop(array) -> element
		arr := args[0].Obj
		if len(arr.Elements) == 0 {
			return vm.fault(f, "pop from an empty array")
		}
		last := arr.Elements[len(arr.Elements)-1]
		arr.Elements = arr.Elements[:len(arr.Elements)-1]
		vm.push(last)
	case 7: // substring(s, start, end) -> string
		s, _ := args[0].Obj.AsString()
		start, end := args[1].AsInt(), args[2].AsInt()
		if start < 0 || end > int64(len(s)) || start > end {
			return vm.fault(f, "substring bounds out of range")
		}
		vm.push(FromObj(newString(vm.heap, s[start:end])))
	case 8: // reserve(array, n) -> void
		arr := args[0].Obj
		n := int(args[1].AsInt())
		if cap(arr.Elements) < n {
			grown := make([]Value, len(arr.Elements), n)
			copy(grown, arr.Elements)
			arr.Elements = grown
		}
		vm.push(Nil())
	case 9: // range(start, end) -> [i64]
		start, end := args[0].AsInt(), args[1].AsInt()
		elems := make([]Value, 0, max64(end-start, 0))
		for i := start; i < end; i++ {
			elems = append(elems, I64(i))
		}
		vm.push(FromObj(newArray(vm.heap, elems)))
	case 10: // sum(array) -> element type
		vm.push(sumArray(args[0].Obj.Elements))
	case 11: // min(array) -> element type
		v, err := extremeOf(f, vm, args[0].Obj.Elements, true)
		if err != nil {
			return err
		}
		vm.push(v)
	case 12: // max(array) -> element type
		v, err := extremeOf(f, vm, args[0].Obj.Elements, false)
		if err != nil {
			return err
		}
		vm.push(v)
	case 13: // type_of(x) -> string
		vm.push(FromObj(newString(vm.heap, typeOfRuntime(args[0]))))
	case 14: // is_type(x, name) -> bool
		name, _ := args[1].Obj.AsString()
		vm.push(Bool(typeOfRuntime(args[0]) == name))
	case 15: // int(x) -> i32
		v, err := toInt32(f, vm, args[0])
		if err != nil {
			return err
		}
		vm.push(v)
	case 16: // float(x) -> f64
		v, err := toFloat64(f, vm, args[0])
		if err != nil {
			return err
		}
		vm.push(v)
	case 17: // sorted(array) -> same array type, ascending
		sorted := make([]Value, len(args[0].Obj.Elements))
		copy(sorted, args[0].Obj.Elements)
		sortValues(sorted)
		vm.push(FromObj(newArray(vm.heap, sorted)))
	case 18: // module_name() -> string
		vm.push(FromObj(newString(vm.heap, vm.ModuleName)))
	case 19: // module_path() -> string
		vm.push(FromObj(newString(vm.heap, vm.ModulePath)))
	default:
		return vm.fail(f, "call to an unknown native function")
	}
	vm.collectIfNeeded()
	return nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// sumArray accumulates elems in the numeric kind of the first element,
// the same type-dispatch convention the arithmetic opcodes use. An
// empty array sums to i64(0); there is no element to take a kind from.
func sumArray(elems []Value) Value {
	if len(elems) == 0 {
		return I64(0)
	}
	switch elems[0].Kind {
	case KindF64:
		var s float64
		for _, e := range elems {
			s += e.AsF64()
		}
		return F64(s)
	case KindI32:
		var s int32
		for _, e := range elems {
			s += e.AsI32()
		}
		return I32(s)
	case KindU32:
		var s uint32
		for _, e := range elems {
			s += e.AsU32()
		}
		return U32(s)
	case KindU64:
		var s uint64
		for _, e := range elems {
			s += e.AsU64()
		}
		return U64(s)
	default:
		var s int64
		for _, e := range elems {
			s += e.AsInt()
		}
		return I64(s)
	}
}

// extremeOf returns the smallest (wantMin) or largest element of elems
// by the same ordering execCompare uses for numeric opcodes.
func extremeOf(f *Frame, vm *VM, elems []Value, wantMin bool) (Value, error) {
	if len(elems) == 0 {
		return Value{}, vm.fault(f, "min/max of an empty array")
	}
	best := elems[0]
	for _, e := range elems[1:] {
		if numericLess(e, best) == wantMin {
			best = e
		}
	}
	return best, nil
}

// numericLess reports whether a < b for two values of the same
// numeric kind, mirroring execCompare's ordering rules.
func numericLess(a, b Value) bool {
	if a.Kind == KindF64 {
		return a.AsF64() < b.AsF64()
	}
	if a.Kind == KindU32 || a.Kind == KindU64 {
		return a.AsU64() < b.AsU64()
	}
	return a.AsInt() < b.AsInt()
}

// sortValues sorts elems ascending in place, numerically or
// lexicographically for strings, matching numericLess's ordering
// (§8 "Sorting an already-sorted array... leaves it unchanged").
// Stable, so an ascending input is a no-op.
func sortValues(elems []Value) {
	sort.SliceStable(elems, func(i, j int) bool {
		if elems[i].Kind == KindObj {
			si, _ := elems[i].Obj.AsString()
			sj, _ := elems[j].Obj.AsString()
			return si < sj
		}
		return numericLess(elems[i], elems[j])
	})
}

// typeOfRuntime renders the runtime type name type_of()/is_type() share.
// The exact strings returned here are the ones is_type accepts.
func typeOfRuntime(v Value) string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindF64:
		return "f64"
	case KindObj:
		switch v.Obj.Kind {
		case ObjKindString:
			return "string"
		case ObjKindArray:
			return "array"
		case ObjKindStruct:
			return v.Obj.TypeName
		case ObjKindError:
			return "error"
		default:
			return "object"
		}
	default:
		return "unknown"
	}
}

// toInt32 implements the int() builtin: numeric/bool truncate, strings
// parse (a malformed string is a runtime error, per §7's "i/o"-adjacent
// conversion-failure class).
func toInt32(f *Frame, vm *VM, v Value) (Value, error) {
	if v.Kind == KindObj {
		s, ok := v.Obj.AsString()
		if !ok {
			return Value{}, vm.fault(f, "int() argument is not convertible")
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
		if err != nil {
			return Value{}, vm.fault(f, "int(): invalid integer literal "+strconv.Quote(s))
		}
		return I32(int32(n)), nil
	}
	if v.Kind == KindBool {
		if v.AsBool() {
			return I32(1), nil
		}
		return I32(0), nil
	}
	return I32(int32(v.AsInt())), nil
}

// toFloat64 implements the float() builtin, the float() counterpart of
// toInt32.
func toFloat64(f *Frame, vm *VM, v Value) (Value, error) {
	if v.Kind == KindObj {
		s, ok := v.Obj.AsString()
		if !ok {
			return Value{}, vm.fault(f, "float() argument is not convertible")
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return Value{}, vm.fault(f, "float(): invalid float literal "+strconv.Quote(s))
		}
		return F64(n), nil
	}
	if v.Kind == KindBool {
		if v.AsBool() {
			return F64(1), nil
		}
		return F64(0), nil
	}
	return F64(v.AsFloat()), nil
}
