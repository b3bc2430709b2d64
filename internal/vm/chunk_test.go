package vm

import "testing"

func TestWriteConstantRoundTrips(t *testing.T) {
	c := NewChunk()
	c.WriteConstant(I64(42), 1)

	if len(c.Code) != 2 {
		t.Fatalf("got %d bytes, want 2 (opcode + index)", len(c.Code))
	}
	if Op(c.Code[0]) != OpConstant {
		t.Fatalf("got opcode %s, want OpConstant", Op(c.Code[0]))
	}
	idx := c.Code[1]
	if c.Constants[idx].AsI64() != 42 {
		t.Errorf("got constant %d, want 42", c.Constants[idx].AsI64())
	}
}

func TestPatchJumpComputesForwardDistance(t *testing.T) {
	c := NewChunk()
	pos := c.WriteJump(OpJump, 1)
	c.WriteOp(OpNil, 2)
	c.WriteOp(OpNil, 2)
	c.PatchJump(pos)

	dist := readU16(c.Code, pos)
	if dist != 2 {
		t.Errorf("got jump distance %d, want 2", dist)
	}
}

func TestWriteLoopComputesBackwardDistance(t *testing.T) {
	c := NewChunk()
	loopStart := len(c.Code)
	c.WriteOp(OpNil, 1)
	c.WriteLoop(loopStart, 2)

	opAt := len(c.Code) - 3
	if Op(c.Code[opAt]) != OpLoop {
		t.Fatalf("expected OpLoop at %d", opAt)
	}
	dist := readU16(c.Code, opAt+1)
	if dist != 4 {
		t.Errorf("got loop distance %d, want 4", dist)
	}
}
