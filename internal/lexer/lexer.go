// Package lexer turns section source text into tokens.
package lexer

import (
	"fmt"

	"easel/internal/token"
)

type Lexer struct {
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
	end    token.Pos    // сразу за последним значимым токеном
	seen   bool
}

func New(src string, opts Options) *Lexer {
	return &Lexer{
		cursor: NewCursor(src),
		opts:   opts,
	}
}

// Next returns the next significant token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()
	if lx.cursor.EOF() {
		// EOF is placed right after the last token, not past trailing blank lines
		pos := lx.cursor.Pos()
		if lx.seen {
			pos = lx.end
		}
		return token.Token{Kind: token.EOF, Pos: pos}
	}

	tok := lx.scan()
	lx.end, lx.seen = lx.cursor.Pos(), true
	return tok
}

func (lx *Lexer) scan() token.Token {
	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch) || ch == '$':
		return lx.scanIdent()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.':
		if _, b1, ok := lx.cursor.Peek2(); ok && isDec(b1) {
			return lx.scanNumber()
		}
	case ch == '"':
		return lx.scanString()
	}
	return lx.scanOperator()
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// skipTrivia skips whitespace, // line comments and /* */ block comments.
// Block comments do not nest.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isSpace(b) {
			lx.cursor.Bump()
			continue
		}
		b0, b1, ok := lx.cursor.Peek2()
		if !ok || b0 != '/' {
			return
		}
		switch b1 {
		case '/':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case '*':
			start := lx.cursor.Pos()
			lx.cursor.Bump()
			lx.cursor.Bump()
			closed := false
			for !lx.cursor.EOF() {
				if c0, c1, ok := lx.cursor.Peek2(); ok && c0 == '*' && c1 == '/' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					closed = true
					break
				}
				lx.cursor.Bump()
			}
			if !closed {
				lx.report(start, "unterminated block comment")
			}
		default:
			return
		}
	}
}

func (lx *Lexer) scanIdent() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if !isIdentContinueByte(b) && b != '.' {
			break
		}
		lx.cursor.Bump()
	}
	text := lx.cursor.TextFrom(m)
	if text == "$" {
		lx.report(m.Pos(), "expected constant name after '$'")
		return token.Token{Kind: token.Invalid, Pos: m.Pos(), Text: text}
	}
	return token.Token{Kind: token.Ident, Pos: m.Pos(), Text: text}
}

func (lx *Lexer) scanNumber() token.Token {
	m := lx.cursor.Mark()
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		digits := 0
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			digits++
		}
		if digits == 0 {
			lx.report(m.Pos(), "malformed hex literal")
			return token.Token{Kind: token.Invalid, Pos: m.Pos(), Text: lx.cursor.TextFrom(m)}
		}
		return token.Token{Kind: token.Number, Pos: m.Pos(), Text: lx.cursor.TextFrom(m)}
	}

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		save := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			// "2e" followed by something else: the e belongs to the next token
			lx.cursor.Reset(save)
		} else {
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	}
	return token.Token{Kind: token.Number, Pos: m.Pos(), Text: lx.cursor.TextFrom(m)}
}

func (lx *Lexer) scanString() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	var buf []byte
	for {
		if lx.cursor.EOF() {
			lx.report(m.Pos(), "unterminated string literal")
			return token.Token{Kind: token.Invalid, Pos: m.Pos(), Text: string(buf)}
		}
		b := lx.cursor.Bump()
		switch b {
		case '"':
			return token.Token{Kind: token.String, Pos: m.Pos(), Text: string(buf)}
		case '\\':
			if lx.cursor.EOF() {
				continue
			}
			buf = append(buf, unescape(lx.cursor.Bump())...)
		default:
			buf = append(buf, b)
		}
	}
}

func unescape(b byte) []byte {
	switch b {
	case 'n':
		return []byte{'\n'}
	case 't':
		return []byte{'\t'}
	case 'r':
		return []byte{'\r'}
	case '"', '\\', '\'':
		return []byte{b}
	}
	return []byte{'\\', b}
}

func (lx *Lexer) scanOperator() token.Token {
	pos := lx.cursor.Pos()
	b := lx.cursor.Bump()
	kind := token.Invalid
	withEq := func(plain, eq token.Kind) token.Kind {
		if lx.cursor.Eat('=') {
			return eq
		}
		return plain
	}
	switch b {
	case '+':
		kind = withEq(token.Plus, token.PlusAssign)
	case '-':
		kind = withEq(token.Minus, token.MinusAssign)
	case '*':
		kind = withEq(token.Star, token.StarAssign)
	case '/':
		kind = withEq(token.Slash, token.SlashAssign)
	case '%':
		kind = withEq(token.Percent, token.PercentAssign)
	case '^':
		kind = withEq(token.Caret, token.CaretAssign)
	case '=':
		kind = withEq(token.Assign, token.EqEq)
	case '!':
		kind = withEq(token.Bang, token.BangEq)
	case '<':
		kind = withEq(token.Lt, token.LtEq)
	case '>':
		kind = withEq(token.Gt, token.GtEq)
	case '&':
		if lx.cursor.Eat('&') {
			kind = token.AndAnd
		}
	case '|':
		if lx.cursor.Eat('|') {
			kind = token.OrOr
		}
	case '?':
		kind = token.Question
	case ':':
		kind = token.Colon
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	}
	if kind == token.Invalid {
		lx.report(pos, fmt.Sprintf("unexpected character %q", b))
		return token.Token{Kind: token.Invalid, Pos: pos, Text: string(b)}
	}
	return token.Token{Kind: kind, Pos: pos, Text: kind.String()}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}
