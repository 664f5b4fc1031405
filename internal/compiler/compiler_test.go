package compiler

import (
	"testing"

	"github.com/oba-lang/oba/internal/bytecode"
	"github.com/oba-lang/oba/internal/value"
)

func compileOK(t *testing.T, source string) []byte {
	t.Helper()
	fn, err := Compile(source)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	return fn.Chunk.Code
}

func opsOf(code []byte) []bytecode.OpCode {
	// Best-effort disassembly for test assertions: walks the stream
	// assuming every operand-bearing opcode here takes a fixed,
	// known-width operand. Good enough to check emission order without
	// hand-counting bytes in every test.
	widths := map[bytecode.OpCode]int{
		bytecode.OpConstant:       1,
		bytecode.OpConstantLong:   3,
		bytecode.OpDefineGlobal:   1,
		bytecode.OpGetGlobal:      1,
		bytecode.OpSetGlobal:      1,
		bytecode.OpGetLocal:       1,
		bytecode.OpSetLocal:       1,
		bytecode.OpGetUpvalue:     1,
		bytecode.OpSetUpvalue:     1,
		bytecode.OpJump:           2,
		bytecode.OpJumpIfFalse:    2,
		bytecode.OpJumpIfTrue:     2,
		bytecode.OpJumpIfNotMatch: 2,
		bytecode.OpLoop:           2,
		bytecode.OpCall:           1,
	}
	var ops []bytecode.OpCode
	i := 0
	for i < len(code) {
		op := bytecode.OpCode(code[i])
		ops = append(ops, op)
		i++
		if op == bytecode.OpClosure {
			// index byte, then a variable number of upvalue descriptor
			// pairs this helper can't know in advance; tests touching
			// OP_CLOSURE inspect raw bytes instead of using opsOf.
			return ops
		}
		i += widths[op]
	}
	return ops
}

func TestCompileNumberLiteral(t *testing.T) {
	code := compileOK(t, "debug 1;")
	got := opsOf(code)
	want := []bytecode.OpCode{bytecode.OpConstant, bytecode.OpDebug, bytecode.OpNil, bytecode.OpReturn}
	assertOps(t, got, want)
}

func TestCompileArithmeticRightAssociative(t *testing.T) {
	// 2 - 3 - 4 should parse as 2 - (3 - 4), since every binary operator
	// here is right-associative: operand order in the emitted bytecode
	// is CONST 2, CONST 3, CONST 4, SUB, SUB.
	fn, err := Compile("debug 2 - 3 - 4;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	code := fn.Chunk.Code
	var subCount int
	for _, b := range code {
		if bytecode.OpCode(b) == bytecode.OpSub {
			subCount++
		}
	}
	if subCount != 2 {
		t.Fatalf("expected two OP_SUB instructions, got %d", subCount)
	}
	// last SUB must come before the final instructions (DEBUG/NIL/RETURN)
	lastOp := bytecode.OpCode(code[len(code)-4])
	if lastOp != bytecode.OpSub {
		t.Errorf("expected OP_SUB immediately before OP_DEBUG, got %s", lastOp)
	}
}

func TestCompileGlobalLetAndGet(t *testing.T) {
	code := compileOK(t, "let x = 1;\ndebug x;")
	got := opsOf(code)
	want := []bytecode.OpCode{
		bytecode.OpConstant, bytecode.OpDefineGlobal,
		bytecode.OpGetGlobal, bytecode.OpDebug,
		bytecode.OpNil, bytecode.OpReturn,
	}
	assertOps(t, got, want)
}

func TestCompileLocalInBlockNoDefineGlobal(t *testing.T) {
	fn, err := Compile("{\nlet x = 1\ndebug x\n}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, b := range fn.Chunk.Code {
		if bytecode.OpCode(b) == bytecode.OpDefineGlobal {
			t.Fatal("a let inside a block should be a local, not a global")
		}
	}
	got := opsOf(fn.Chunk.Code)
	want := []bytecode.OpCode{
		bytecode.OpConstant, bytecode.OpGetLocal, bytecode.OpDebug,
		bytecode.OpPop, bytecode.OpNil, bytecode.OpReturn,
	}
	assertOps(t, got, want)
}

func TestCompileUndefinedPrefixIsCompileError(t *testing.T) {
	_, err := Compile("debug ;")
	if err == nil {
		t.Fatal("expected a compile error for a missing prefix expression")
	}
}

func TestCompileMissingClosingBraceIsCompileError(t *testing.T) {
	_, err := Compile("if true { debug 1;")
	if err == nil {
		t.Fatal("expected a compile error for an unterminated if-branch")
	}
}

func TestCompileDuplicateLocalIsCompileError(t *testing.T) {
	_, err := Compile("{\nlet x = 1\nlet x = 2\n}")
	if err == nil {
		t.Fatal("expected a compile error for redeclaring a local in the same scope")
	}
}

func TestCompileLetWithoutNameIsCompileError(t *testing.T) {
	_, err := Compile("let = 1;\nlet = 2;")
	if err == nil {
		t.Fatal("expected an error for a let with no variable name")
	}
}

func TestCompileIfExpressionProducesValue(t *testing.T) {
	code := compileOK(t, "debug if true { 1 } else { 2 };")
	got := opsOf(code)
	want := []bytecode.OpCode{
		bytecode.OpTrue, bytecode.OpJumpIfFalse, bytecode.OpPop,
		bytecode.OpConstant, bytecode.OpJump, bytecode.OpPop,
		bytecode.OpConstant, bytecode.OpDebug, bytecode.OpNil, bytecode.OpReturn,
	}
	assertOps(t, got, want)
}

func TestCompileIfWithoutElsePushesNil(t *testing.T) {
	code := compileOK(t, "debug if true { 1 };")
	got := opsOf(code)
	want := []bytecode.OpCode{
		bytecode.OpTrue, bytecode.OpJumpIfFalse, bytecode.OpPop,
		bytecode.OpConstant, bytecode.OpJump, bytecode.OpPop,
		bytecode.OpNil, bytecode.OpDebug, bytecode.OpNil, bytecode.OpReturn,
	}
	assertOps(t, got, want)
}

func TestCompileMatchEmitsMatchFailAfterLastArm(t *testing.T) {
	fn, err := Compile("debug match 1 | 1 = 10 ;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, b := range fn.Chunk.Code {
		if bytecode.OpCode(b) == bytecode.OpMatchFail {
			found = true
		}
	}
	if !found {
		t.Error("expected OP_MATCH_FAIL to be emitted after the last arm")
	}
}

func TestCompileMatchWithoutLeadingPipeIsCompileError(t *testing.T) {
	_, err := Compile("debug match 1 1 = 10 ;")
	if err == nil {
		t.Fatal("expected a compile error when a match has no leading '|'")
	}
}

func TestCompileFunctionEmitsClosure(t *testing.T) {
	fn, err := Compile("fn add a b {\na + b\n}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hasClosure := false
	for _, b := range fn.Chunk.Code {
		if bytecode.OpCode(b) == bytecode.OpClosure {
			hasClosure = true
		}
	}
	if !hasClosure {
		t.Fatal("expected OP_CLOSURE at the function's definition site")
	}
}

func TestCompileFunctionArity(t *testing.T) {
	fn, err := Compile("fn add a b {\na + b\n}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, c := range fn.Chunk.Constants {
		if obj, ok := c.(*value.ObjFunction); ok {
			found = true
			if obj.Arity != 2 {
				t.Errorf("expected arity 2, got %d", obj.Arity)
			}
		}
	}
	if !found {
		t.Fatal("expected the compiled function to appear in the outer chunk's constant pool")
	}
}

func assertOps(t *testing.T, got, want []bytecode.OpCode) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d ops %v, got %d ops %v", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("op %d: expected %s, got %s (full: got=%v want=%v)", i, want[i], got[i], got, want)
		}
	}
}
