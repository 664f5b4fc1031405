package bytecode

// OpCode is a single bytecode instruction. The VM dispatch loop in
// internal/vm switches on these; each operand layout is documented at
// its compiler-side emission site.
type OpCode byte

const (
	// OpConstant pushes Constants[operand] (1-byte index).
	OpConstant OpCode = iota
	// OpConstantLong pushes Constants[operand] (3-byte big-endian
	// index), emitted once a chunk's constant pool exceeds 256 entries.
	OpConstantLong

	OpTrue
	OpFalse
	OpNil

	OpPop
	OpDup

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpNot

	OpEqual
	OpNotEqual
	OpLess
	OpGreater
	OpLessEqual
	OpGreaterEqual

	OpDebug

	OpDefineGlobal
	OpGetGlobal
	OpSetGlobal
	OpGetLocal
	OpSetLocal
	OpGetUpvalue
	OpSetUpvalue

	OpJump
	OpJumpIfFalse
	OpJumpIfTrue
	OpJumpIfNotMatch
	OpLoop

	OpCall
	OpClosure
	OpCloseUpvalue
	OpReturn

	// OpMatchFail raises "no match arm satisfied" — emitted after the
	// last arm of a match expression whose scrutinee matched nothing.
	OpMatchFail

	OpExit
)

var names = map[OpCode]string{
	OpConstant:       "OP_CONSTANT",
	OpConstantLong:   "OP_CONSTANT_LONG",
	OpTrue:           "OP_TRUE",
	OpFalse:          "OP_FALSE",
	OpNil:            "OP_NIL",
	OpPop:            "OP_POP",
	OpDup:            "OP_DUP",
	OpAdd:            "OP_ADD",
	OpSub:            "OP_SUB",
	OpMul:            "OP_MUL",
	OpDiv:            "OP_DIV",
	OpNot:            "OP_NOT",
	OpEqual:          "OP_EQUAL",
	OpNotEqual:       "OP_NOT_EQUAL",
	OpLess:           "OP_LESS",
	OpGreater:        "OP_GREATER",
	OpLessEqual:      "OP_LESS_EQUAL",
	OpGreaterEqual:   "OP_GREATER_EQUAL",
	OpDebug:          "OP_DEBUG",
	OpDefineGlobal:   "OP_DEFINE_GLOBAL",
	OpGetGlobal:      "OP_GET_GLOBAL",
	OpSetGlobal:      "OP_SET_GLOBAL",
	OpGetLocal:       "OP_GET_LOCAL",
	OpSetLocal:       "OP_SET_LOCAL",
	OpGetUpvalue:     "OP_GET_UPVALUE",
	OpSetUpvalue:     "OP_SET_UPVALUE",
	OpJump:           "OP_JUMP",
	OpJumpIfFalse:    "OP_JUMP_IF_FALSE",
	OpJumpIfTrue:     "OP_JUMP_IF_TRUE",
	OpJumpIfNotMatch: "OP_JUMP_IF_NOT_MATCH",
	OpLoop:           "OP_LOOP",
	OpCall:           "OP_CALL",
	OpClosure:        "OP_CLOSURE",
	OpCloseUpvalue:   "OP_CLOSE_UPVALUE",
	OpReturn:         "OP_RETURN",
	OpMatchFail:      "OP_MATCH_FAIL",
	OpExit:           "OP_EXIT",
}

func (op OpCode) String() string {
	if name, ok := names[op]; ok {
		return name
	}
	return "OP_UNKNOWN"
}
