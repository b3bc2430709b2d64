package vm

// execIndexGet implements `arr[i]`: bounds violations are a catchable
// fault, not a fatal error (§7 "array index out of bounds" is listed
// among the faults a try/catch can intercept).
func (vm *VM) execIndexGet(f *Frame) error {
	idx := vm.pop()
	recv := vm.pop()

	i := idx.AsInt()
	elems := recv.Obj.Elements
	if i < 0 || i >= int64(len(elems)) {
		return vm.fault(f, "array index out of bounds")
	}
	vm.push(elems[i])
	return nil
}

// execIndexSet implements `arr[i] = v`, leaving v as the expression's
// result so it can be used as a statement (compiled with a trailing
// OpPop) or, eventually, chained.
func (vm *VM) execIndexSet(f *Frame) error {
	val := vm.pop()
	idx := vm.pop()
	recv := vm.pop()

	i := idx.AsInt()
	elems := recv.Obj.Elements
	if i < 0 || i >= int64(len(elems)) {
		return vm.fault(f, "array index out of bounds")
	}
	elems[i] = val
	vm.push(val)
	return nil
}

// execSlice implements `arr[start:end]`. A nil sentinel Value for
// either bound (pushed by the compiler for an open bound) means "use
// the array's own edge" rather than a literal nil index.
func (vm *VM) execSlice(f *Frame) error {
	end := vm.pop()
	start := vm.pop()
	recv := vm.pop()

	elems := recv.Obj.Elements
	lo := int64(0)
	hi := int64(len(elems))
	if start.Kind != KindNil {
		lo = start.AsInt()
	}
	if end.Kind != KindNil {
		hi = end.AsInt()
	}

	if lo < 0 || hi > int64(len(elems)) || lo > hi {
		return vm.fault(f, "slice bounds out of range")
	}

	sliced := make([]Value, hi-lo)
	copy(sliced, elems[lo:hi])
	vm.push(FromObj(newArray(vm.heap, sliced)))
	vm.collectIfNeeded()
	return nil
}
