package vm

import "math"

const closeFactor = 0.00001

func truth(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (m *VM) call(t callTarget, args []float64) float64 {
	switch t.kind {
	case targetBuiltin:
		return t.builtin.fn(args)
	case targetHost:
		own := append([]float64(nil), args...)
		return t.host.fn(&Call{VM: m, Name: t.name, Args: own})
	}
	return 0
}

// run interprets c. The stack is reused between runs; host functions may
// re-enter Execute, so the frame base is remembered.
func (m *VM) run(c *Chunk) {
	base := len(m.stack)
	code := c.Code
	for ip := 0; ip < len(code); {
		op := Opcode(code[ip])
		ip++
		switch op {
		case OpNop:
		case OpPop:
			m.stack = m.stack[:len(m.stack)-1]
		case OpConst:
			m.stack = append(m.stack, c.Consts[c.u16(ip)])
			ip += 2
		case OpString:
			v := -1.0
			if id := c.strIDs[c.u16(ip)]; id >= 0 {
				v = float64(StringBase + id)
			}
			m.stack = append(m.stack, v)
			ip += 2
		case OpLoad:
			m.stack = append(m.stack, *c.slots[c.u16(ip)])
			ip += 2
		case OpStore:
			*c.slots[c.u16(ip)] = m.stack[len(m.stack)-1]
			ip += 2

		case OpNeg:
			top := len(m.stack) - 1
			m.stack[top] = -m.stack[top]
		case OpNot:
			top := len(m.stack) - 1
			m.stack[top] = truth(math.Abs(m.stack[top]) < closeFactor)

		case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow,
			OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
			n := len(m.stack)
			a, b := m.stack[n-2], m.stack[n-1]
			m.stack = m.stack[:n-1]
			m.stack[n-2] = arith(op, a, b)

		case OpJump:
			ip += 2 + c.i16(ip)
		case OpJumpFalse, OpJumpTrue:
			n := len(m.stack)
			v := m.stack[n-1]
			m.stack = m.stack[:n-1]
			isTrue := math.Abs(v) >= closeFactor
			if isTrue == (op == OpJumpTrue) {
				ip += 2 + c.i16(ip)
			} else {
				ip += 2
			}
		case OpLoopPrep:
			top := len(m.stack) - 1
			n := math.Floor(m.stack[top])
			switch {
			case math.IsNaN(n) || n < 0:
				n = 0
			case n > float64(m.maxLoop):
				n = float64(m.maxLoop)
			}
			m.stack[top] = n
		case OpLoopNext:
			top := len(m.stack) - 1
			if m.stack[top] <= 0 {
				m.stack = m.stack[:top]
				ip += 2 + c.i16(ip)
			} else {
				m.stack[top]--
				ip += 2
			}

		case OpCall:
			t := c.targets[c.u16(ip)]
			argc := int(code[ip+2])
			ip += 3
			n := len(m.stack)
			res := m.call(t, m.stack[n-argc:n])
			m.stack = append(m.stack[:n-argc], res)
		}
	}
	m.stack = m.stack[:base]
}

func arith(op Opcode, a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	case OpMod:
		ia, ib := int64(a), int64(b)
		if ib == 0 {
			return 0
		}
		return float64(ia % ib)
	case OpPow:
		return math.Pow(a, b)
	case OpEq:
		return truth(math.Abs(a-b) < closeFactor)
	case OpNe:
		return truth(math.Abs(a-b) >= closeFactor)
	case OpLt:
		return truth(a < b)
	case OpLe:
		return truth(a <= b)
	case OpGt:
		return truth(a > b)
	case OpGe:
		return truth(a >= b)
	}
	return 0
}
