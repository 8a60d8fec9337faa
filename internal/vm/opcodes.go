package vm

import "fmt"

// Opcode represents a bytecode instruction.
type Opcode byte

const (
	// ========================================================================
	// Stack and constants (0x00-0x0F)
	// ========================================================================

	OpNop    Opcode = 0x00 // No operation
	OpPop    Opcode = 0x01 // Pop top of stack
	OpConst  Opcode = 0x02 // Push constant: OpConst <index:u16>
	OpString Opcode = 0x03 // Push string handle: OpString <index:u16>

	// ========================================================================
	// Variables (0x10-0x1F)
	// ========================================================================

	OpLoad  Opcode = 0x10 // Push variable: OpLoad <slot:u16>
	OpStore Opcode = 0x11 // Store top into variable, keep it: OpStore <slot:u16>

	// ========================================================================
	// Arithmetic (0x20-0x2F)
	// ========================================================================

	OpAdd Opcode = 0x20
	OpSub Opcode = 0x21 // a - b where b is TOS
	OpMul Opcode = 0x22
	OpDiv Opcode = 0x23
	OpMod Opcode = 0x24 // integer remainder, 0 when the divisor truncates to 0
	OpPow Opcode = 0x25
	OpNeg Opcode = 0x26

	// ========================================================================
	// Comparison and logic (0x30-0x3F), results are 0 or 1
	// ========================================================================

	OpEq  Opcode = 0x30
	OpNe  Opcode = 0x31
	OpLt  Opcode = 0x32
	OpLe  Opcode = 0x33
	OpGt  Opcode = 0x34
	OpGe  Opcode = 0x35
	OpNot Opcode = 0x36

	// ========================================================================
	// Control flow (0x40-0x4F), offsets are relative to the next instruction
	// ========================================================================

	OpJump      Opcode = 0x40 // OpJump <offset:i16>
	OpJumpFalse Opcode = 0x41 // Pop, jump if zero: OpJumpFalse <offset:i16>
	OpJumpTrue  Opcode = 0x42 // Pop, jump if non-zero: OpJumpTrue <offset:i16>
	OpLoopPrep  Opcode = 0x43 // Clamp TOS to an iteration count in [0, MaxLoop]
	OpLoopNext  Opcode = 0x44 // If TOS <= 0 pop and jump, else decrement: OpLoopNext <offset:i16>

	// ========================================================================
	// Calls (0x50-0x5F)
	// ========================================================================

	OpCall Opcode = 0x50 // OpCall <target:u16> <argc:u8>
)

var opcodeInfo = map[Opcode]struct {
	name     string
	operands []int // operand widths in bytes
}{
	OpNop:       {"NOP", nil},
	OpPop:       {"POP", nil},
	OpConst:     {"CONST", []int{2}},
	OpString:    {"STRING", []int{2}},
	OpLoad:      {"LOAD", []int{2}},
	OpStore:     {"STORE", []int{2}},
	OpAdd:       {"ADD", nil},
	OpSub:       {"SUB", nil},
	OpMul:       {"MUL", nil},
	OpDiv:       {"DIV", nil},
	OpMod:       {"MOD", nil},
	OpPow:       {"POW", nil},
	OpNeg:       {"NEG", nil},
	OpEq:        {"EQ", nil},
	OpNe:        {"NE", nil},
	OpLt:        {"LT", nil},
	OpLe:        {"LE", nil},
	OpGt:        {"GT", nil},
	OpGe:        {"GE", nil},
	OpNot:       {"NOT", nil},
	OpJump:      {"JUMP", []int{2}},
	OpJumpFalse: {"JUMP_FALSE", []int{2}},
	OpJumpTrue:  {"JUMP_TRUE", []int{2}},
	OpLoopPrep:  {"LOOP_PREP", nil},
	OpLoopNext:  {"LOOP_NEXT", []int{2}},
	OpCall:      {"CALL", []int{2, 1}},
}

// String returns the mnemonic of the opcode.
func (op Opcode) String() string {
	if info, ok := opcodeInfo[op]; ok {
		return info.name
	}
	return fmt.Sprintf("OP_%02X", byte(op))
}

// Width returns the encoded size of the instruction including its operands.
func (op Opcode) Width() int {
	w := 1
	for _, n := range opcodeInfo[op].operands {
		w += n
	}
	return w
}
