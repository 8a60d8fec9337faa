package token

import "fmt"

// Pos is a 1-based line/column inside the compiled block.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Pos  Pos
	Text string
}

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	return t.Kind == Number || t.Kind == String
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Describe renders the token for error messages.
func (t Token) Describe() string {
	switch t.Kind {
	case Ident, Number:
		return fmt.Sprintf("'%s'", t.Text)
	case String:
		return fmt.Sprintf("string %q", t.Text)
	case EOF, Invalid:
		return t.Kind.String()
	}
	return fmt.Sprintf("'%s'", t.Kind)
}
