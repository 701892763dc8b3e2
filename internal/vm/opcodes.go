// Package vm contains the register-allocating compiler, the instruction
// stream it produces and the virtual machine that executes it.
package vm

// Opcode represents a single VM instruction
type Opcode byte

const (
	OP_LOAD_BYTE     Opcode = iota // target:u8 value:u8; register <- exact Real of value
	OP_LOAD_STRING                 // target:u8 name:u16; register <- borrowed string
	OP_ADD                         // target:u8 lhs:u8 rhs:u8; register <- lhs + rhs
	OP_SET_LOCAL                   // local:u8 source:u8; local <- clone of register
	OP_LOAD_LOCAL                  // target:u8 local:u8; register <- clone of local
	OP_LOAD_GLOBAL                 // target:u8 name:u16; register <- named constant
	OP_CALL_FUNCTION               // name:u16 argsStart:u8 argsNum:u8
	OP_MOVE                        // source:u8 target:u8; register <- clone of register
	OP_LOAD_NONE                   // target:u8; register <- None
)

// OpcodeNames maps opcodes to their string names (for disassembly and traces)
var OpcodeNames = map[Opcode]string{
	OP_LOAD_BYTE:     "LOAD_BYTE",
	OP_LOAD_STRING:   "LOAD_STRING",
	OP_ADD:           "ADD",
	OP_SET_LOCAL:     "SET_LOCAL",
	OP_LOAD_LOCAL:    "LOAD_LOCAL",
	OP_LOAD_GLOBAL:   "LOAD_GLOBAL",
	OP_CALL_FUNCTION: "CALL_FUNCTION",
	OP_MOVE:          "MOVE",
	OP_LOAD_NONE:     "LOAD_NONE",
}

// operandWidth is the number of operand bytes following each opcode.
var operandWidth = map[Opcode]int{
	OP_LOAD_BYTE:     2,
	OP_LOAD_STRING:   3,
	OP_ADD:           3,
	OP_SET_LOCAL:     2,
	OP_LOAD_LOCAL:    2,
	OP_LOAD_GLOBAL:   3,
	OP_CALL_FUNCTION: 4,
	OP_MOVE:          2,
	OP_LOAD_NONE:     1,
}
