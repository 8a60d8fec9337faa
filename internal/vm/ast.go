package vm

import "easel/internal/token"

// expr is a node of the parsed block. The tree only lives between parse and
// code generation.
type expr interface {
	pos() token.Pos
}

type numberLit struct {
	at    token.Pos
	value float64
}

type stringLit struct {
	at    token.Pos
	value string
}

type varRef struct {
	at   token.Pos
	name string
}

// assignExpr stores value into name; op is token.Assign or the binary
// operator of a compound assignment.
type assignExpr struct {
	at    token.Pos
	name  string
	op    token.Kind
	value expr
}

type unaryExpr struct {
	at token.Pos
	op token.Kind
	x  expr
}

type binaryExpr struct {
	at   token.Pos
	op   token.Kind
	l, r expr
}

// ternaryExpr has a nil otherwise branch when the source omits ": ...".
type ternaryExpr struct {
	at              token.Pos
	cond, then, els expr
}

type callExpr struct {
	at   token.Pos
	name string
	args []expr
}

// seqExpr evaluates items in order and yields the last value, 0 when empty.
type seqExpr struct {
	at    token.Pos
	items []expr
}

func (e *numberLit) pos() token.Pos   { return e.at }
func (e *stringLit) pos() token.Pos   { return e.at }
func (e *varRef) pos() token.Pos      { return e.at }
func (e *assignExpr) pos() token.Pos  { return e.at }
func (e *unaryExpr) pos() token.Pos   { return e.at }
func (e *binaryExpr) pos() token.Pos  { return e.at }
func (e *ternaryExpr) pos() token.Pos { return e.at }
func (e *callExpr) pos() token.Pos    { return e.at }
func (e *seqExpr) pos() token.Pos     { return e.at }
