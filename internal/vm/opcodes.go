package vm

// Op is one bytecode instruction (§4.2 "Emitter"). Values are assigned
// by iota per the Open Question decision: stable within a build, not
// meant to be persisted across versions (Non-goal: persistent on-disk
// bytecode).
type Op byte

const (
	OpConstant Op = iota
	OpNil
	OpTrue
	OpFalse
	OpPop

	OpDefineGlobal
	OpGetGlobal
	OpSetGlobal
	OpGetLocal
	OpSetLocal

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpNot
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNot
	OpShl
	OpShr

	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual

	OpConvertI32ToI64
	OpConvertI32ToF64
	OpConvertU32ToI64
	OpConvertU32ToF64
	OpConvertToString
	OpCastNumeric // explicit `as` cast between numeric kinds not covered by a promotion opcode; operand byte encodes the target Kind
	OpConcat

	OpJump
	OpJumpIfFalse
	OpJumpIfTrue // peek-not-pop conditional jump used by `or` short-circuit
	OpLoop

	OpArray
	OpIndexGet
	OpIndexSet
	OpSlice
	OpStruct
	OpFieldGet
	OpFieldSet

	OpCall
	OpCallNative
	OpReturn

	// OpPrintPart pops one value, renders it, and writes it without a
	// trailing newline; OpPrintNewline writes a bare newline. The
	// compiler interleaves these with argument evaluation so a format
	// string's literal prefix reaches output before the placeholder
	// filling it is evaluated (§9 "Print-prefix split").
	OpPrintPart
	OpPrintNewline

	// OpSetupExcept's operand is handler-offset(2 bytes) then
	// error-slot(1 byte); a thrown runtime error is implicit; there is
	// no corresponding Throw opcode, only a fault site (division,
	// index-out-of-bounds, ...) that checks for an active handler
	// before failing fatally.
	OpSetupExcept
	OpPopExcept

	OpHalt
)

var opNames = map[Op]string{
	OpConstant: "CONSTANT", OpNil: "NIL", OpTrue: "TRUE", OpFalse: "FALSE", OpPop: "POP",
	OpDefineGlobal: "DEFINE_GLOBAL", OpGetGlobal: "GET_GLOBAL", OpSetGlobal: "SET_GLOBAL",
	OpGetLocal: "GET_LOCAL", OpSetLocal: "SET_LOCAL",
	OpAdd: "ADD", OpSub: "SUB", OpMul: "MUL", OpDiv: "DIV", OpMod: "MOD",
	OpNeg: "NEG", OpNot: "NOT",
	OpBitAnd: "BIT_AND", OpBitOr: "BIT_OR", OpBitXor: "BIT_XOR", OpBitNot: "BIT_NOT",
	OpShl: "SHL", OpShr: "SHR",
	OpEqual: "EQUAL", OpNotEqual: "NOT_EQUAL",
	OpLess: "LESS", OpLessEqual: "LESS_EQUAL", OpGreater: "GREATER", OpGreaterEqual: "GREATER_EQUAL",
	OpConvertI32ToI64: "CONV_I32_I64", OpConvertI32ToF64: "CONV_I32_F64",
	OpConvertU32ToI64: "CONV_U32_I64", OpConvertU32ToF64: "CONV_U32_F64",
	OpConvertToString: "CONV_STRING", OpCastNumeric: "CAST_NUMERIC", OpConcat: "CONCAT",
	OpJump: "JUMP", OpJumpIfFalse: "JUMP_IF_FALSE", OpJumpIfTrue: "JUMP_IF_TRUE", OpLoop: "LOOP",
	OpArray: "ARRAY", OpIndexGet: "INDEX_GET", OpIndexSet: "INDEX_SET", OpSlice: "SLICE",
	OpStruct: "STRUCT", OpFieldGet: "FIELD_GET", OpFieldSet: "FIELD_SET",
	OpCall: "CALL", OpCallNative: "CALL_NATIVE", OpReturn: "RETURN",
	OpPrintPart: "PRINT_PART", OpPrintNewline: "PRINT_NEWLINE",
	OpSetupExcept: "SETUP_EXCEPT", OpPopExcept: "POP_EXCEPT",
	OpHalt: "HALT",
}

func (op Op) String() string {
	if n, ok := opNames[op]; ok {
		return n
	}
	return "UNKNOWN"
}
