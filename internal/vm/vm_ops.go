package vm

// execArith implements the arithmetic and bitwise opcodes. By the time
// one of these executes, the checker's recorded convert-flags have
// already been realized by the emitter, so l and r always share the
// same Kind (§4.2 "the operator itself never sees mismatched widths").
func (vm *VM) execArith(f *Frame, op Op) error {
	r := vm.pop()
	l := vm.pop()

	switch l.Kind {
	case KindF64:
		lf, rf := l.AsF64(), r.AsF64()
		switch op {
		case OpAdd:
			vm.push(F64(lf + rf))
		case OpSub:
			vm.push(F64(lf - rf))
		case OpMul:
			vm.push(F64(lf * rf))
		case OpDiv:
			// Float division by zero yields IEEE 754 Inf/NaN rather than
			// faulting (§8 boundary behavior); only the integer paths
			// below treat a zero divisor as a runtime error.
			vm.push(F64(lf / rf))
		default:
			return vm.fail(f, "operator not defined for f64")
		}
	case KindI32:
		li, ri := l.AsI32(), r.AsI32()
		v, err := intArith(f, vm, op, int64(li), int64(ri))
		if err != nil {
			return err
		}
		if v != nil {
			vm.push(I32(int32(*v)))
		}
	case KindI64:
		li, ri := l.AsI64(), r.AsI64()
		v, err := intArith(f, vm, op, li, ri)
		if err != nil {
			return err
		}
		if v != nil {
			vm.push(I64(*v))
		}
	case KindU32:
		li, ri := uint64(l.AsU32()), uint64(r.AsU32())
		v, err := uintArith(f, vm, op, li, ri)
		if err != nil {
			return err
		}
		if v != nil {
			vm.push(U32(uint32(*v)))
		}
	case KindU64:
		li, ri := l.AsU64(), r.AsU64()
		v, err := uintArith(f, vm, op, li, ri)
		if err != nil {
			return err
		}
		if v != nil {
			vm.push(U64(*v))
		}
	default:
		return vm.fail(f, "arithmetic on a non-numeric value")
	}
	return nil
}

// intArith handles the signed integer opcodes, sharing one
// implementation across i32/i64 by always widening into int64 and
// letting the caller narrow back. Returning (nil, nil) means the
// result was already pushed by a fault handler resuming into a catch
// block; the caller must skip its own push in that case.
func intArith(f *Frame, vm *VM, op Op, l, r int64) (*int64, error) {
	var v int64
	switch op {
	case OpAdd:
		v = l + r
	case OpSub:
		v = l - r
	case OpMul:
		v = l * r
	case OpDiv:
		if r == 0 {
			if err := vm.fault(f, "division by zero"); err != nil {
				return nil, err
			}
			return nil, nil
		}
		v = l / r
	case OpMod:
		if r == 0 {
			if err := vm.fault(f, "modulo by zero"); err != nil {
				return nil, err
			}
			return nil, nil
		}
		v = l % r
	case OpBitAnd:
		v = l & r
	case OpBitOr:
		v = l | r
	case OpBitXor:
		v = l ^ r
	case OpShl:
		v = l << uint(r)
	case OpShr:
		v = l >> uint(r)
	default:
		return nil, vm.fail(f, "operator not defined for integers")
	}
	return &v, nil
}

func uintArith(f *Frame, vm *VM, op Op, l, r uint64) (*uint64, error) {
	var v uint64
	switch op {
	case OpAdd:
		v = l + r
	case OpSub:
		v = l - r
	case OpMul:
		v = l * r
	case OpDiv:
		if r == 0 {
			if err := vm.fault(f, "division by zero"); err != nil {
				return nil, err
			}
			return nil, nil
		}
		v = l / r
	case OpMod:
		if r == 0 {
			if err := vm.fault(f, "modulo by zero"); err != nil {
				return nil, err
			}
			return nil, nil
		}
		v = l % r
	case OpBitAnd:
		v = l & r
	case OpBitOr:
		v = l | r
	case OpBitXor:
		v = l ^ r
	case OpShl:
		v = l << r
	case OpShr:
		v = l >> r
	default:
		return nil, vm.fail(f, "operator not defined for unsigned integers")
	}
	return &v, nil
}

func (vm *VM) execNeg() {
	v := vm.pop()
	switch v.Kind {
	case KindI32:
		vm.push(I32(-v.AsI32()))
	case KindI64:
		vm.push(I64(-v.AsI64()))
	case KindF64:
		vm.push(F64(-v.AsF64()))
	default:
		vm.push(v)
	}
}

func (vm *VM) execBitNot() {
	v := vm.pop()
	switch v.Kind {
	case KindI32:
		vm.push(I32(^v.AsI32()))
	case KindI64:
		vm.push(I64(^v.AsI64()))
	case KindU32:
		vm.push(U32(^v.AsU32()))
	case KindU64:
		vm.push(U64(^v.AsU64()))
	default:
		vm.push(v)
	}
}

// execCompare implements equality (any matching-kind pair, including
// objects and nil) and ordering (numeric only, post-promotion).
func (vm *VM) execCompare(op Op) {
	r := vm.pop()
	l := vm.pop()

	if op == OpEqual {
		vm.push(Bool(l.Equal(r)))
		return
	}
	if op == OpNotEqual {
		vm.push(Bool(!l.Equal(r)))
		return
	}

	var cmp int
	switch l.Kind {
	case KindF64:
		lf, rf := l.AsF64(), r.AsF64()
		cmp = floatCmp(lf, rf)
	case KindU32, KindU64:
		lu, ru := l.AsU64(), r.AsU64()
		switch {
		case lu < ru:
			cmp = -1
		case lu > ru:
			cmp = 1
		}
	default:
		li, ri := l.AsInt(), r.AsInt()
		switch {
		case li < ri:
			cmp = -1
		case li > ri:
			cmp = 1
		}
	}

	switch op {
	case OpLess:
		vm.push(Bool(cmp < 0))
	case OpLessEqual:
		vm.push(Bool(cmp <= 0))
	case OpGreater:
		vm.push(Bool(cmp > 0))
	case OpGreaterEqual:
		vm.push(Bool(cmp >= 0))
	}
}

func floatCmp(l, r float64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

// castNumeric realizes an explicit `as` cast between numeric kinds,
// truncating rather than erroring on narrowing (§4.1 "Cast... explicit
// narrowing is permitted; the programmer asked for it").
func castNumeric(v Value, target Kind) Value {
	var asFloat float64
	var asInt int64
	if v.Kind == KindF64 {
		asFloat = v.AsF64()
		asInt = int64(asFloat)
	} else {
		asInt = v.AsInt()
		asFloat = float64(asInt)
	}

	switch target {
	case KindI32:
		return I32(int32(asInt))
	case KindI64:
		return I64(asInt)
	case KindU32:
		return U32(uint32(asInt))
	case KindU64:
		return U64(uint64(asInt))
	case KindF64:
		return F64(asFloat)
	default:
		return v
	}
}
