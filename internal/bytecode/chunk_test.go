package bytecode

import "testing"

func TestWriteConstantShort(t *testing.T) {
	c := NewChunk()
	c.WriteConstant(float64(42), 1)

	if len(c.Code) != 2 {
		t.Fatalf("expected 2 bytes (op + index), got %d", len(c.Code))
	}
	if OpCode(c.Code[0]) != OpConstant {
		t.Errorf("expected OP_CONSTANT, got %s", OpCode(c.Code[0]))
	}
	if c.Code[1] != 0 {
		t.Errorf("expected index 0, got %d", c.Code[1])
	}
	if c.Constants[0] != float64(42) {
		t.Errorf("expected constant 42, got %v", c.Constants[0])
	}
}

func TestWriteConstantLongBeyond256(t *testing.T) {
	c := NewChunk()
	for i := 0; i < 300; i++ {
		c.AddConstant(float64(i))
	}
	c.WriteConstant(float64(999), 1)

	if OpCode(c.Code[0]) != OpConstantLong {
		t.Fatalf("expected OP_CONSTANT_LONG once pool exceeds 256 entries, got %s", OpCode(c.Code[0]))
	}
	idx := int(c.Code[1])<<16 | int(c.Code[2])<<8 | int(c.Code[3])
	if idx != 300 {
		t.Errorf("expected 3-byte index 300, got %d", idx)
	}
}

func TestLineAtTracksEveryByte(t *testing.T) {
	c := NewChunk()
	c.WriteOp(OpTrue, 5)
	c.WriteOp(OpPop, 7)

	if got := c.LineAt(0); got != 5 {
		t.Errorf("byte 0: expected line 5, got %d", got)
	}
	if got := c.LineAt(1); got != 7 {
		t.Errorf("byte 1: expected line 7, got %d", got)
	}
	if got := c.LineAt(99); got != 0 {
		t.Errorf("out of range: expected 0, got %d", got)
	}
}

func TestOpCodeString(t *testing.T) {
	if OpAdd.String() != "OP_ADD" {
		t.Errorf("expected OP_ADD, got %s", OpAdd.String())
	}
	if OpCode(250).String() != "OP_UNKNOWN" {
		t.Errorf("expected OP_UNKNOWN for an unregistered opcode, got %s", OpCode(250).String())
	}
}
