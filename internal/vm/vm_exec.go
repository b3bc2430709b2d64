package vm

import "github.com/orus-lang/orus/internal/config"

// execute is the fetch-decode-execute loop (§4.3). It runs until the
// outermost frame executes OpHalt, or an OpReturn pops the last frame,
// or a fatal condition produces a RuntimeError.
func (vm *VM) execute() (Value, error) {
	for {
		f := vm.currentFrame()
		if vm.Trace != nil {
			writeTraceLine(vm.Trace, f.chunk, f.ip)
		}
		op := Op(vm.readByte(f))

		switch op {
		case OpConstant:
			vm.push(vm.readConstant(f))
		case OpNil:
			vm.push(Nil())
		case OpTrue:
			vm.push(Bool(true))
		case OpFalse:
			vm.push(Bool(false))
		case OpPop:
			vm.pop()

		case OpDefineGlobal, OpSetGlobal:
			slot := vm.readByte(f)
			vm.globals[slot] = vm.peek(0)
			if op == OpDefineGlobal {
				vm.pop()
			}
		case OpGetGlobal:
			slot := vm.readByte(f)
			vm.push(vm.globals[slot])
		case OpGetLocal:
			slot := vm.readByte(f)
			vm.push(vm.stack[f.base+int(slot)])
		case OpSetLocal:
			slot := vm.readByte(f)
			vm.stack[f.base+int(slot)] = vm.peek(0)

		case OpAdd, OpSub, OpMul, OpDiv, OpMod,
			OpBitAnd, OpBitOr, OpBitXor, OpShl, OpShr:
			if err := vm.execArith(f, op); err != nil {
				return Value{}, err
			}
		case OpNeg:
			vm.execNeg()
		case OpNot:
			v := vm.pop()
			vm.push(Bool(!v.AsBool()))
		case OpBitNot:
			vm.execBitNot()

		case OpEqual, OpNotEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
			vm.execCompare(op)

		case OpConvertI32ToI64:
			v := vm.pop()
			vm.push(I64(int64(v.AsI32())))
		case OpConvertI32ToF64:
			v := vm.pop()
			vm.push(F64(float64(v.AsI32())))
		case OpConvertU32ToI64:
			v := vm.pop()
			vm.push(I64(int64(v.AsU32())))
		case OpConvertU32ToF64:
			v := vm.pop()
			vm.push(F64(float64(v.AsU32())))
		case OpConvertToString:
			v := vm.pop()
			vm.push(FromObj(newString(vm.heap, v.String())))
		case OpCastNumeric:
			target := Kind(vm.readByte(f))
			v := vm.pop()
			vm.push(castNumeric(v, target))
		case OpConcat:
			r := vm.pop()
			l := vm.pop()
			vm.push(FromObj(newString(vm.heap, l.String()+r.String())))

		case OpJump:
			dist := vm.readU16(f)
			f.ip += dist
		case OpJumpIfFalse:
			dist := vm.readU16(f)
			if !vm.peek(0).IsTruthy() {
				f.ip += dist
			}
		case OpJumpIfTrue:
			dist := vm.readU16(f)
			if vm.peek(0).IsTruthy() {
				f.ip += dist
			}
		case OpLoop:
			dist := vm.readU16(f)
			f.ip -= dist

		case OpArray:
			n := int(vm.readByte(f))
			elems := make([]Value, n)
			copy(elems, vm.stack[len(vm.stack)-n:])
			vm.stack = vm.stack[:len(vm.stack)-n]
			vm.push(FromObj(newArray(vm.heap, elems)))
			vm.collectIfNeeded()
		case OpIndexGet:
			if err := vm.execIndexGet(f); err != nil {
				return Value{}, err
			}
		case OpIndexSet:
			if err := vm.execIndexSet(f); err != nil {
				return Value{}, err
			}
		case OpSlice:
			if err := vm.execSlice(f); err != nil {
				return Value{}, err
			}
		case OpStruct:
			n := int(vm.readByte(f))
			nameIdx := vm.readByte(f)
			name, _ := f.chunk.Constants[nameIdx].Obj.AsString()
			fields := make([]Value, n)
			copy(fields, vm.stack[len(vm.stack)-n:])
			vm.stack = vm.stack[:len(vm.stack)-n]
			vm.push(FromObj(newStruct(vm.heap, name, fields)))
			vm.collectIfNeeded()
		case OpFieldGet:
			idx := int(vm.readByte(f))
			recv := vm.pop()
			vm.push(recv.Obj.Fields[idx])
		case OpFieldSet:
			idx := int(vm.readByte(f))
			val := vm.pop()
			recv := vm.pop()
			recv.Obj.Fields[idx] = val
			vm.push(val)

		case OpCall:
			if err := vm.execCall(f); err != nil {
				return Value{}, err
			}
		case OpCallNative:
			if err := vm.execCallNative(f); err != nil {
				return Value{}, err
			}
		case OpReturn:
			result := vm.pop()
			done, err := vm.execReturn(result)
			if err != nil {
				return Value{}, err
			}
			if done {
				return result, nil
			}

		case OpPrintPart:
			v := vm.pop()
			fmtPrint(vm.Stdout, v.String(), false)

		case OpPrintNewline:
			fmtPrint(vm.Stdout, "", true)

		case OpSetupExcept:
			dist := vm.readU16(f)
			target := f.ip + dist
			slot := vm.readByte(f)
			if len(vm.except) >= config.MaxExceptionFrames {
				return Value{}, vm.fail(f, "exception-frame overflow")
			}
			vm.except = append(vm.except, exceptFrame{
				frameDepth: len(vm.frames) - 1,
				stackLen:   len(vm.stack),
				catchIP:    target,
				slot:       int(slot),
			})
		case OpPopExcept:
			vm.except = vm.except[:len(vm.except)-1]

		case OpHalt:
			return Nil(), nil

		default:
			return Value{}, vm.fail(f, "unknown opcode")
		}
	}
}
