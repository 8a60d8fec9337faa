package vm

import (
	"encoding/binary"
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// Chunk is the compiled form of one block.
type Chunk struct {
	Code       []byte
	Consts     []float64
	Strings    []string // literal texts, NFC normalized
	Vars       []string // variable names by slot
	Calls      []string // call target names by index
	LineOffset int

	strIDs  []int // table ids of Strings, -1 until published
	slots   []*float64
	targets []callTarget
	dead    bool
}

func (c *Chunk) emit(op Opcode) int {
	c.Code = append(c.Code, byte(op))
	return len(c.Code) - 1
}

func (c *Chunk) emitU16(op Opcode, operand uint16) {
	c.Code = append(c.Code, byte(op))
	c.Code = binary.LittleEndian.AppendUint16(c.Code, operand)
}

// emitJump writes a jump with a placeholder offset and returns the operand
// position for patchJump.
func (c *Chunk) emitJump(op Opcode) int {
	c.Code = append(c.Code, byte(op), 0, 0)
	return len(c.Code) - 2
}

// patchJump points the jump operand at pos to the end of the code.
func (c *Chunk) patchJump(pos int) error {
	off, err := safecast.Conv[int16](len(c.Code) - (pos + 2))
	if err != nil {
		return fmt.Errorf("jump too long: %w", err)
	}
	binary.LittleEndian.PutUint16(c.Code[pos:], uint16(off))
	return nil
}

// emitBackJump emits op with an offset that lands on target.
func (c *Chunk) emitBackJump(op Opcode, target int) error {
	off, err := safecast.Conv[int16](target - (len(c.Code) + 3))
	if err != nil {
		return fmt.Errorf("loop body too long: %w", err)
	}
	c.Code = append(c.Code, byte(op))
	c.Code = binary.LittleEndian.AppendUint16(c.Code, uint16(off))
	return nil
}

func (c *Chunk) emitCall(target uint16, argc uint8) {
	c.Code = append(c.Code, byte(OpCall))
	c.Code = binary.LittleEndian.AppendUint16(c.Code, target)
	c.Code = append(c.Code, argc)
}

func (c *Chunk) u16(at int) uint16 {
	return binary.LittleEndian.Uint16(c.Code[at:])
}

func (c *Chunk) i16(at int) int {
	return int(int16(binary.LittleEndian.Uint16(c.Code[at:])))
}

// Disassemble renders the instruction stream, one instruction per line.
func (c *Chunk) Disassemble() string {
	var sb strings.Builder
	for ip := 0; ip < len(c.Code); {
		op := Opcode(c.Code[ip])
		fmt.Fprintf(&sb, "%04d %-10s", ip, op)
		switch op {
		case OpConst:
			fmt.Fprintf(&sb, " %g", c.Consts[c.u16(ip+1)])
		case OpString:
			fmt.Fprintf(&sb, " %q", c.Strings[c.u16(ip+1)])
		case OpLoad, OpStore:
			fmt.Fprintf(&sb, " %s", c.Vars[c.u16(ip+1)])
		case OpJump, OpJumpFalse, OpJumpTrue, OpLoopNext:
			fmt.Fprintf(&sb, " -> %04d", ip+3+c.i16(ip+1))
		case OpCall:
			fmt.Fprintf(&sb, " %s/%d", c.Calls[c.u16(ip+1)], c.Code[ip+3])
		}
		sb.WriteByte('\n')
		ip += op.Width()
	}
	return sb.String()
}
