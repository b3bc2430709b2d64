package vm

import (
	"fmt"
	"io"
	"strings"
)

// Disassemble returns a human-readable dump of an entire chunk. The CLI
// does not call it; the `-trace` flag logs each executed instruction
// through writeTraceLine instead.
func Disassemble(chunk *Chunk, name string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("== %s ==\n", name))
	offset := 0
	for offset < len(chunk.Code) {
		offset = disassembleInstruction(&sb, chunk, offset)
	}
	return sb.String()
}

// writeTraceLine disassembles the single instruction at ip and writes
// it to w, for the -trace flag's per-step execution log.
func writeTraceLine(w io.Writer, chunk *Chunk, ip int) {
	var sb strings.Builder
	disassembleInstruction(&sb, chunk, ip)
	io.WriteString(w, sb.String())
}

func disassembleInstruction(sb *strings.Builder, chunk *Chunk, offset int) int {
	sb.WriteString(fmt.Sprintf("%04d ", offset))
	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		sb.WriteString("   | ")
	} else {
		sb.WriteString(fmt.Sprintf("%4d ", chunk.Lines[offset]))
	}

	op := Op(chunk.Code[offset])
	switch op {
	case OpConstant:
		return constantInstruction(sb, op.String(), chunk, offset)
	case OpDefineGlobal, OpGetGlobal, OpSetGlobal, OpGetLocal, OpSetLocal:
		return byteInstruction(sb, op.String(), chunk, offset)
	case OpJump, OpJumpIfFalse, OpJumpIfTrue:
		return jumpInstruction(sb, op.String(), 1, chunk, offset)
	case OpLoop:
		return jumpInstruction(sb, op.String(), -1, chunk, offset)
	case OpCall, OpFieldGet, OpFieldSet:
		return byteInstruction(sb, op.String(), chunk, offset)
	case OpCallNative:
		idx := chunk.Code[offset+1]
		argc := chunk.Code[offset+2]
		sb.WriteString(fmt.Sprintf("%-16s %4d (args: %d)\n", op.String(), idx, argc))
		return offset + 3
	case OpArray:
		return byteInstruction(sb, op.String(), chunk, offset)
	case OpStruct:
		count := chunk.Code[offset+1]
		nameIdx := chunk.Code[offset+2]
		sb.WriteString(fmt.Sprintf("%-16s %4d (type const %d)\n", op.String(), count, nameIdx))
		return offset + 3
	case OpCastNumeric:
		return byteInstruction(sb, op.String(), chunk, offset)
	case OpSetupExcept:
		dist := readU16(chunk.Code, offset+1)
		slot := chunk.Code[offset+3]
		target := offset + 3 + dist
		sb.WriteString(fmt.Sprintf("%-16s -> %d (err slot %d)\n", op.String(), target, slot))
		return offset + 4
	default:
		return simpleInstruction(sb, op.String(), offset)
	}
}

func simpleInstruction(sb *strings.Builder, name string, offset int) int {
	sb.WriteString(name + "\n")
	return offset + 1
}

func constantInstruction(sb *strings.Builder, name string, chunk *Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	if int(idx) < len(chunk.Constants) {
		sb.WriteString(fmt.Sprintf("%-16s %4d '%s'\n", name, idx, chunk.Constants[idx].String()))
	} else {
		sb.WriteString(fmt.Sprintf("%-16s %4d (invalid)\n", name, idx))
	}
	return offset + 2
}

func byteInstruction(sb *strings.Builder, name string, chunk *Chunk, offset int) int {
	slot := chunk.Code[offset+1]
	sb.WriteString(fmt.Sprintf("%-16s %4d\n", name, slot))
	return offset + 2
}

func jumpInstruction(sb *strings.Builder, name string, sign int, chunk *Chunk, offset int) int {
	dist := readU16(chunk.Code, offset+1)
	target := offset + 3 + sign*dist
	sb.WriteString(fmt.Sprintf("%-16s %4d -> %d\n", name, dist, target))
	return offset + 3
}
