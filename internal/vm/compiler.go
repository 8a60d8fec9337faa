package vm

import (
	"fmt"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"easel/internal/token"
)

// Flags select optional language features at compile time.
type Flags uint32

const (
	// FlagCommonFuncs enables the math builtins (sin, sqrt, min, ...).
	FlagCommonFuncs Flags = 1 << iota
)

// CompileError reports the first problem found in a block. Line is
// absolute: the block's line offset plus the line inside the block.
type CompileError struct {
	Line int
	Col  int
	Msg  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

type targetKind uint8

const (
	targetBuiltin targetKind = iota
	targetHost
)

type callTarget struct {
	kind    targetKind
	name    string
	builtin *builtin
	host    *hostEntry
}

type compiler struct {
	m      *VM
	flags  Flags
	chunk  *Chunk
	consts map[float64]uint16
	strs   map[string]uint16
	vars   map[string]uint16
	calls  map[string]uint16
}

func newCompiler(m *VM, flags Flags, lineOffset int) *compiler {
	return &compiler{
		m:      m,
		flags:  flags,
		chunk:  &Chunk{LineOffset: lineOffset},
		consts: make(map[float64]uint16),
		strs:   make(map[string]uint16),
		vars:   make(map[string]uint16),
		calls:  make(map[string]uint16),
	}
}

func (c *compiler) fail(at token.Pos, format string, args ...any) {
	panic(&posError{at: at, msg: fmt.Sprintf(format, args...)})
}

// compile generates code for root; errors surface as *posError.
func (c *compiler) compile(root expr) (chunk *Chunk, perr *posError) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*posError)
			if !ok {
				panic(r)
			}
			chunk, perr = nil, e
		}
	}()
	c.gen(root)
	c.chunk.strIDs = make([]int, len(c.chunk.Strings))
	for i := range c.chunk.strIDs {
		c.chunk.strIDs[i] = -1
	}
	return c.chunk, nil
}

func (c *compiler) index(at token.Pos, n int, what string) uint16 {
	idx, err := safecast.Conv[uint16](n)
	if err != nil {
		c.fail(at, "too many %s in one section", what)
	}
	return idx
}

func (c *compiler) constant(at token.Pos, v float64) {
	idx, ok := c.consts[v]
	if !ok {
		idx = c.index(at, len(c.chunk.Consts), "constants")
		c.chunk.Consts = append(c.chunk.Consts, v)
		c.consts[v] = idx
	}
	c.chunk.emitU16(OpConst, idx)
}

func (c *compiler) str(at token.Pos, s string) {
	s = norm.NFC.String(s)
	idx, ok := c.strs[s]
	if !ok {
		idx = c.index(at, len(c.chunk.Strings), "strings")
		c.chunk.Strings = append(c.chunk.Strings, s)
		c.strs[s] = idx
	}
	c.chunk.emitU16(OpString, idx)
}

func (c *compiler) slot(at token.Pos, name string) uint16 {
	idx, ok := c.vars[name]
	if !ok {
		idx = c.index(at, len(c.chunk.Vars), "variables")
		c.chunk.Vars = append(c.chunk.Vars, name)
		c.chunk.slots = append(c.chunk.slots, c.m.slot(name))
		c.vars[name] = idx
	}
	return idx
}

func (c *compiler) jumpHere(at token.Pos, pos int) {
	if err := c.chunk.patchJump(pos); err != nil {
		c.fail(at, "%v", err)
	}
}

func (c *compiler) jumpBack(at token.Pos, op Opcode, target int) {
	if err := c.chunk.emitBackJump(op, target); err != nil {
		c.fail(at, "%v", err)
	}
}

// gen emits code that leaves exactly one value on the stack.
func (c *compiler) gen(e expr) {
	switch n := e.(type) {
	case *numberLit:
		c.constant(n.at, n.value)

	case *stringLit:
		c.str(n.at, n.value)

	case *varRef:
		c.chunk.emitU16(OpLoad, c.slot(n.at, n.name))

	case *assignExpr:
		slot := c.slot(n.at, n.name)
		if n.op == token.Assign {
			c.gen(n.value)
		} else {
			c.chunk.emitU16(OpLoad, slot)
			c.gen(n.value)
			c.chunk.emit(binaryOps[n.op])
		}
		c.chunk.emitU16(OpStore, slot)

	case *unaryExpr:
		c.gen(n.x)
		switch n.op {
		case token.Minus:
			c.chunk.emit(OpNeg)
		case token.Bang:
			c.chunk.emit(OpNot)
		}

	case *binaryExpr:
		c.genBinary(n)

	case *ternaryExpr:
		c.gen(n.cond)
		skipThen := c.chunk.emitJump(OpJumpFalse)
		c.gen(n.then)
		skipElse := c.chunk.emitJump(OpJump)
		c.jumpHere(n.at, skipThen)
		if n.els != nil {
			c.gen(n.els)
		} else {
			c.constant(n.at, 0)
		}
		c.jumpHere(n.at, skipElse)

	case *seqExpr:
		if len(n.items) == 0 {
			c.constant(n.at, 0)
			return
		}
		for i, item := range n.items {
			c.gen(item)
			if i < len(n.items)-1 {
				c.chunk.emit(OpPop)
			}
		}

	case *callExpr:
		c.genCall(n)

	default:
		panic(fmt.Sprintf("vm: unexpected node %T", e))
	}
}

var binaryOps = map[token.Kind]Opcode{
	token.Plus:    OpAdd,
	token.Minus:   OpSub,
	token.Star:    OpMul,
	token.Slash:   OpDiv,
	token.Percent: OpMod,
	token.Caret:   OpPow,
	token.EqEq:    OpEq,
	token.BangEq:  OpNe,
	token.Lt:      OpLt,
	token.LtEq:    OpLe,
	token.Gt:      OpGt,
	token.GtEq:    OpGe,
}

func (c *compiler) genBinary(n *binaryExpr) {
	switch n.op {
	case token.AndAnd, token.OrOr:
		// short circuit; the evaluated right side is normalized to 0/1
		c.gen(n.l)
		shortOp, shortVal := OpJumpFalse, 0.0
		if n.op == token.OrOr {
			shortOp, shortVal = OpJumpTrue, 1.0
		}
		short := c.chunk.emitJump(shortOp)
		c.gen(n.r)
		c.chunk.emit(OpNot)
		c.chunk.emit(OpNot)
		end := c.chunk.emitJump(OpJump)
		c.jumpHere(n.at, short)
		c.constant(n.at, shortVal)
		c.jumpHere(n.at, end)
		return
	}
	c.gen(n.l)
	c.gen(n.r)
	c.chunk.emit(binaryOps[n.op])
}

func (c *compiler) genCall(n *callExpr) {
	switch n.name {
	case "loop":
		if len(n.args) != 2 {
			c.fail(n.at, "loop() takes 2 arguments, got %d", len(n.args))
		}
		c.gen(n.args[0])
		c.chunk.emit(OpLoopPrep)
		top := len(c.chunk.Code)
		exit := c.chunk.emitJump(OpLoopNext)
		c.gen(n.args[1])
		c.chunk.emit(OpPop)
		c.jumpBack(n.at, OpJump, top)
		c.jumpHere(n.at, exit)
		c.constant(n.at, 0)
		return

	case "while":
		if len(n.args) != 1 {
			c.fail(n.at, "while() takes 1 argument, got %d", len(n.args))
		}
		c.constant(n.at, float64(c.m.maxLoop))
		top := len(c.chunk.Code)
		exhausted := c.chunk.emitJump(OpLoopNext)
		c.gen(n.args[0])
		c.jumpBack(n.at, OpJumpTrue, top)
		c.chunk.emit(OpPop)
		c.jumpHere(n.at, exhausted)
		c.constant(n.at, 0)
		return
	}

	target := c.resolve(n)
	argc, err := safecast.Conv[uint8](len(n.args))
	if err != nil {
		c.fail(n.at, "too many arguments to %s()", n.name)
	}
	for _, arg := range n.args {
		c.gen(arg)
	}
	c.chunk.emitCall(target, argc)
}

func (c *compiler) resolve(n *callExpr) uint16 {
	if idx, ok := c.calls[n.name]; ok {
		c.checkArity(n, c.chunk.targets[idx])
		return idx
	}
	var t callTarget
	if h, ok := c.m.funcs[n.name]; ok {
		t = callTarget{kind: targetHost, name: n.name, host: h}
	} else if b, ok := builtins[n.name]; ok && c.flags&FlagCommonFuncs != 0 {
		t = callTarget{kind: targetBuiltin, name: n.name, builtin: b}
	} else {
		c.fail(n.at, "unknown function '%s'", n.name)
	}
	c.checkArity(n, t)
	idx := c.index(n.at, len(c.chunk.targets), "call targets")
	c.chunk.targets = append(c.chunk.targets, t)
	c.chunk.Calls = append(c.chunk.Calls, n.name)
	c.calls[n.name] = idx
	return idx
}

func (c *compiler) checkArity(n *callExpr, t callTarget) {
	argc := len(n.args)
	switch t.kind {
	case targetBuiltin:
		if argc != t.builtin.args {
			c.fail(n.at, "%s() takes %d argument(s), got %d", n.name, t.builtin.args, argc)
		}
	case targetHost:
		if !t.host.accepts(argc) {
			c.fail(n.at, "%s() needs at least %d argument(s), got %d", n.name, t.host.minArgs, argc)
		}
	}
}
