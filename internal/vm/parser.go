package vm

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"easel/internal/lexer"
	"easel/internal/token"
)

const (
	precLowest = iota
	precAssign
	precTernary
	precOr
	precAnd
	precCompare
	precAdd
	precMul
	precUnary
	precPow
)

func binaryPrec(k token.Kind) int {
	switch k {
	case token.OrOr:
		return precOr
	case token.AndAnd:
		return precAnd
	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precCompare
	case token.Plus, token.Minus:
		return precAdd
	case token.Star, token.Slash, token.Percent:
		return precMul
	case token.Caret:
		return precPow
	}
	return 0
}

var namedConstants = map[string]float64{
	"$pi":  math.Pi,
	"$e":   math.E,
	"$phi": math.Phi,
}

// posError is a parse or codegen error with a block-relative position.
type posError struct {
	at  token.Pos
	msg string
}

type bailout struct{}

type parser struct {
	lx  *lexer.Lexer
	tok token.Token
	err *posError
}

// Report receives lexer errors; only the first error of a block is kept.
func (p *parser) Report(pos token.Pos, msg string) {
	if p.err == nil {
		p.err = &posError{at: pos, msg: msg}
	}
}

func (p *parser) fail(at token.Pos, format string, args ...any) {
	p.Report(at, fmt.Sprintf(format, args...))
	panic(bailout{})
}

func (p *parser) next() {
	p.tok = p.lx.Next()
	if p.err != nil {
		panic(bailout{})
	}
}

func (p *parser) expect(k token.Kind) token.Token {
	tok := p.tok
	if tok.Kind != k {
		p.fail(tok.Pos, "expected '%s' but found %s", k, tok.Describe())
	}
	p.next()
	return tok
}

// parse turns a block into a sequence expression.
func parse(src string) (root expr, perr *posError) {
	p := &parser{}
	p.lx = lexer.New(src, lexer.Options{Reporter: p})
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			root, perr = nil, p.err
		}
	}()
	p.next()
	seq := p.parseSeq(token.EOF)
	p.expect(token.EOF)
	if p.err != nil {
		return nil, p.err
	}
	return seq, nil
}

func isOneOf(k token.Kind, set []token.Kind) bool {
	for _, s := range set {
		if k == s {
			return true
		}
	}
	return false
}

// parseSeq reads expressions separated by ';' until one of the end tokens.
// Empty statements are allowed.
func (p *parser) parseSeq(end ...token.Kind) *seqExpr {
	seq := &seqExpr{at: p.tok.Pos}
	for {
		if p.tok.Kind == token.Semicolon {
			p.next()
			continue
		}
		if isOneOf(p.tok.Kind, end) {
			return seq
		}
		seq.items = append(seq.items, p.parseExpr(precLowest))
		switch {
		case p.tok.Kind == token.Semicolon:
			p.next()
		case isOneOf(p.tok.Kind, end):
			return seq
		default:
			p.fail(p.tok.Pos, "expected ';' but found %s", p.tok.Describe())
		}
	}
}

func (p *parser) parseExpr(minPrec int) expr {
	left := p.parseUnary()
	for {
		op := p.tok
		switch {
		case op.Kind.IsAssign() && minPrec <= precAssign:
			ref, ok := left.(*varRef)
			if !ok {
				p.fail(op.Pos, "cannot assign to this expression")
			}
			p.next()
			value := p.parseExpr(precAssign)
			kind := token.Assign
			if base, compound := op.Kind.Compound(); compound {
				kind = base
			}
			left = &assignExpr{at: op.Pos, name: ref.name, op: kind, value: value}

		case op.Kind == token.Question && minPrec <= precTernary:
			p.next()
			t := &ternaryExpr{at: op.Pos, cond: left}
			t.then = p.parseExpr(precAssign)
			if p.tok.Kind == token.Colon {
				p.next()
				t.els = p.parseExpr(precAssign)
			}
			left = t

		default:
			prec := binaryPrec(op.Kind)
			if prec == 0 || prec < minPrec {
				return left
			}
			p.next()
			next := prec + 1
			if op.Kind == token.Caret {
				next = prec // right associative
			}
			right := p.parseExpr(next)
			left = &binaryExpr{at: op.Pos, op: op.Kind, l: left, r: right}
		}
	}
}

func (p *parser) parseUnary() expr {
	switch p.tok.Kind {
	case token.Minus, token.Plus, token.Bang:
		op := p.tok
		p.next()
		return &unaryExpr{at: op.Pos, op: op.Kind, x: p.parseExpr(precUnary)}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() expr {
	tok := p.tok
	switch tok.Kind {
	case token.Number:
		p.next()
		return &numberLit{at: tok.Pos, value: p.number(tok)}

	case token.String:
		p.next()
		return &stringLit{at: tok.Pos, value: tok.Text}

	case token.Ident:
		p.next()
		name := strings.ToLower(tok.Text)
		if strings.HasPrefix(name, "$") {
			v, ok := namedConstants[name]
			if !ok {
				p.fail(tok.Pos, "unknown constant '%s'", tok.Text)
			}
			return &numberLit{at: tok.Pos, value: v}
		}
		if p.tok.Kind == token.LParen {
			return p.parseCall(tok.Pos, name)
		}
		return &varRef{at: tok.Pos, name: name}

	case token.LParen:
		p.next()
		seq := p.parseSeq(token.RParen)
		p.expect(token.RParen)
		return seq
	}
	p.fail(tok.Pos, "unexpected %s", tok.Describe())
	return nil
}

func (p *parser) parseCall(at token.Pos, name string) expr {
	p.expect(token.LParen)
	call := &callExpr{at: at, name: name}
	if p.tok.Kind == token.RParen {
		p.next()
		return call
	}
	for {
		arg := p.parseSeq(token.Comma, token.RParen)
		if len(arg.items) == 1 {
			call.args = append(call.args, arg.items[0])
		} else {
			call.args = append(call.args, arg)
		}
		if p.tok.Kind == token.Comma {
			p.next()
			continue
		}
		p.expect(token.RParen)
		return call
	}
}

func (p *parser) number(tok token.Token) float64 {
	text := tok.Text
	if len(text) > 2 && (text[1] == 'x' || text[1] == 'X') {
		u, err := strconv.ParseUint(text[2:], 16, 64)
		if err != nil {
			p.fail(tok.Pos, "malformed hex literal '%s'", text)
		}
		return float64(u)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.fail(tok.Pos, "malformed number '%s'", text)
	}
	return v
}
