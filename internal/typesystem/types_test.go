package typesystem

import "testing"

func TestEqualIsNilSafe(t *testing.T) {
	if !Equal(nil, nil) {
		t.Error("two nil types should be equal")
	}
	if Equal(I32, nil) || Equal(nil, I32) {
		t.Error("a nil type should never equal a concrete one")
	}
	if !Equal(I32, I32) {
		t.Error("i32 should equal itself")
	}
	if Equal(I32, I64) {
		t.Error("i32 and i64 should not be equal")
	}
}

func TestArrayEqualsComparesElementType(t *testing.T) {
	a := Array{Element: I32}
	b := Array{Element: I32}
	c := Array{Element: String}
	if !Equal(a, b) {
		t.Error("arrays of the same element type should be equal")
	}
	if Equal(a, c) {
		t.Error("arrays of different element types should not be equal")
	}
}

func TestFunctionApplySubstitutesGenericParams(t *testing.T) {
	fn := Function{Return: GenericParam{"T"}, Params: []Type{GenericParam{"T"}, I32}}
	applied := fn.Apply(Subst{"T": String})

	got, ok := applied.(Function)
	if !ok {
		t.Fatalf("Apply should return a Function, got %T", applied)
	}
	if !Equal(got.Return, String) {
		t.Errorf("got return type %s, want string", got.Return)
	}
	if !Equal(got.Params[0], String) || !Equal(got.Params[1], I32) {
		t.Errorf("got params %v, want [string, i32]", got.Params)
	}
}

func TestIsIntegerAndIsNumeric(t *testing.T) {
	for _, p := range []Primitive{I32, I64, U32, U64} {
		if !IsInteger(p) {
			t.Errorf("%s should be an integer type", p)
		}
		if !IsNumeric(p) {
			t.Errorf("%s should be numeric", p)
		}
	}
	if IsInteger(F64) {
		t.Error("f64 should not count as an integer type")
	}
	if !IsNumeric(F64) {
		t.Error("f64 should count as numeric")
	}
	if IsNumeric(Bool) || IsNumeric(String) {
		t.Error("bool/string should not count as numeric")
	}
}

func TestLookupPrimitive(t *testing.T) {
	p, ok := LookupPrimitive("i64")
	if !ok || p != I64 {
		t.Errorf("LookupPrimitive(i64) = (%v, %t), want (i64, true)", p, ok)
	}
	if _, ok := LookupPrimitive("not-a-type"); ok {
		t.Error("LookupPrimitive should report false for an unknown name")
	}
}
