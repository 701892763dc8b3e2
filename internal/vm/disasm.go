package vm

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable representation of the program
func Disassemble(p *Program, name string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("== %s ==\n", name))

	offset := 0
	for offset < len(p.Code) {
		offset = disassembleInstruction(&sb, p, offset)
	}

	return sb.String()
}

// disassembleInstruction renders a single instruction and returns the
// offset of the next one
func disassembleInstruction(sb *strings.Builder, p *Program, offset int) int {
	sb.WriteString(fmt.Sprintf("%04d ", offset))

	// Print line number
	if offset > 0 && p.Lines[offset] == p.Lines[offset-1] {
		sb.WriteString("   | ")
	} else {
		sb.WriteString(fmt.Sprintf("%4d ", p.Lines[offset]))
	}

	op := Opcode(p.Code[offset])
	width, ok := operandWidth[op]
	if !ok || offset+1+width > len(p.Code) {
		sb.WriteString(fmt.Sprintf("BAD 0x%02x\n", p.Code[offset]))
		return offset + 1
	}

	switch op {
	case OP_LOAD_BYTE:
		sb.WriteString(fmt.Sprintf("%-14s r%d <- %d\n", OpcodeNames[op],
			p.Code[offset+1], p.Code[offset+2]))

	case OP_LOAD_STRING, OP_LOAD_GLOBAL:
		idx := p.ReadNameIndex(offset + 2)
		sb.WriteString(fmt.Sprintf("%-14s r%d <- %s\n", OpcodeNames[op],
			p.Code[offset+1], nameAt(p, idx)))

	case OP_ADD:
		sb.WriteString(fmt.Sprintf("%-14s r%d <- r%d + r%d\n", OpcodeNames[op],
			p.Code[offset+1], p.Code[offset+2], p.Code[offset+3]))

	case OP_SET_LOCAL:
		sb.WriteString(fmt.Sprintf("%-14s l%d <- r%d\n", OpcodeNames[op],
			p.Code[offset+1], p.Code[offset+2]))

	case OP_LOAD_LOCAL:
		sb.WriteString(fmt.Sprintf("%-14s r%d <- l%d\n", OpcodeNames[op],
			p.Code[offset+1], p.Code[offset+2]))

	case OP_CALL_FUNCTION:
		idx := p.ReadNameIndex(offset + 1)
		sb.WriteString(fmt.Sprintf("%-14s %s args r%d..+%d\n", OpcodeNames[op],
			nameAt(p, idx), p.Code[offset+3], p.Code[offset+4]))

	case OP_MOVE:
		sb.WriteString(fmt.Sprintf("%-14s r%d -> r%d\n", OpcodeNames[op],
			p.Code[offset+1], p.Code[offset+2]))

	case OP_LOAD_NONE:
		sb.WriteString(fmt.Sprintf("%-14s r%d\n", OpcodeNames[op], p.Code[offset+1]))
	}

	return offset + 1 + width
}

func nameAt(p *Program, idx int) string {
	if idx >= len(p.Names) {
		return fmt.Sprintf("<bad name %d>", idx)
	}
	return fmt.Sprintf("%q", p.Names[idx])
}
