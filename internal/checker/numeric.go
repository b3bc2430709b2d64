package checker

import (
	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/typesystem"
)

// widen reports whether a value of type from can be used where to is
// expected via an implicit numeric promotion, and if so which
// ConvertKind the emitter should realize at the use site (§4.1
// "Numeric promotion... i32 widens to i64, u32 widens to i64 or f64,
// i32 widens to f64").
func widen(from, to typesystem.Type) (kind ast.ConvertKind, ok bool) {
	if typesystem.Equal(from, to) {
		return ast.NoConvert, true
	}
	switch {
	case typesystem.Equal(from, typesystem.I32) && typesystem.Equal(to, typesystem.I64):
		return ast.ConvertI32ToI64, true
	case typesystem.Equal(from, typesystem.I32) && typesystem.Equal(to, typesystem.F64):
		return ast.ConvertI32ToF64, true
	case typesystem.Equal(from, typesystem.U32) && typesystem.Equal(to, typesystem.I64):
		return ast.ConvertU32ToI64, true
	case typesystem.Equal(from, typesystem.U32) && typesystem.Equal(to, typesystem.F64):
		return ast.ConvertU32ToF64, true
	}
	return ast.NoConvert, false
}

// assignable reports whether a value of type from may be stored where
// to is declared, allowing widening but not narrowing (§4.1 "Let /
// static / const... a narrowing initializer is an error").
func assignable(from, to typesystem.Type) bool {
	if to == nil || typesystem.Equal(to, typesystem.Void) {
		return true
	}
	if typesystem.Equal(from, to) {
		return true
	}
	_, ok := widen(from, to)
	return ok
}

// commonNumericType picks the result type of a binary arithmetic
// operation between two numeric operands, and which side (if any)
// needs a promotion conversion emitted (§4.1 "Binary arithmetic...
// the wider type wins; a promotion conversion is recorded on the
// narrower operand"). A pair with no promotion rule between them
// (i32 with u32, u64 with any other type) comes back as l with no
// conversion; checkBinary reports such a pair as C029.
func commonNumericType(l, r typesystem.Type) (result typesystem.Type, leftConv, rightConv ast.ConvertKind) {
	if typesystem.Equal(l, r) {
		return l, ast.NoConvert, ast.NoConvert
	}
	if typesystem.Equal(l, typesystem.F64) || typesystem.Equal(r, typesystem.F64) {
		if !typesystem.Equal(l, typesystem.F64) {
			if k, ok := widen(l, typesystem.F64); ok {
				leftConv = k
			}
		}
		if !typesystem.Equal(r, typesystem.F64) {
			if k, ok := widen(r, typesystem.F64); ok {
				rightConv = k
			}
		}
		return typesystem.F64, leftConv, rightConv
	}
	if typesystem.Equal(l, typesystem.I64) || typesystem.Equal(r, typesystem.I64) {
		if !typesystem.Equal(l, typesystem.I64) {
			if k, ok := widen(l, typesystem.I64); ok {
				leftConv = k
			}
		}
		if !typesystem.Equal(r, typesystem.I64) {
			if k, ok := widen(r, typesystem.I64); ok {
				rightConv = k
			}
		}
		return typesystem.I64, leftConv, rightConv
	}
	return l, ast.NoConvert, ast.NoConvert
}
