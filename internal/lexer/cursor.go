package lexer

import "easel/internal/token"

// Cursor представляет собой позицию в тексте секции
type Cursor struct {
	src  string
	Off  int
	Line int // 1-based
	Col  int // 1-based
}

// NewCursor creates a new cursor at the start of src.
func NewCursor(src string) Cursor {
	return Cursor{src: src, Line: 1, Col: 1}
}

// EOF проверяет, достигнут ли конец текста
func (c *Cursor) EOF() bool {
	return c.Off >= len(c.src)
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.Off]
}

// Peek2 читает текущий и следующий байт, если есть, иначе возвращает 0, 0, false
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= len(c.src) {
		return 0, 0, false
	}
	return c.src[c.Off], c.src[c.Off+1], true
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.src[c.Off]
	c.Off++
	if b == '\n' {
		c.Line++
		c.Col = 1
	} else {
		c.Col++
	}
	return b
}

// Eat consumes the next byte if it matches the provided byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.src[c.Off] == b {
		c.Bump()
		return true
	}
	return false
}

// Pos returns the current position.
func (c *Cursor) Pos() token.Pos {
	return token.Pos{Line: c.Line, Col: c.Col}
}

// Mark это метка, чтобы быстро получать фрагмент текста
type Mark struct {
	off  int
	line int
	col  int
}

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark{off: c.Off, line: c.Line, col: c.Col}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off, c.Line, c.Col = m.off, m.line, m.col
}

// TextFrom returns the text consumed since m.
func (c *Cursor) TextFrom(m Mark) string {
	return c.src[m.off:c.Off]
}

// PosOf returns the position recorded in m.
func (m Mark) Pos() token.Pos {
	return token.Pos{Line: m.line, Col: m.col}
}
