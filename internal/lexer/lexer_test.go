package lexer_test

import (
	"testing"

	"easel/internal/lexer"
	"easel/internal/token"
)

// testReporter собирает все ошибки, полученные от лексера
type testReporter struct {
	msgs []string
	pos  []token.Pos
}

func (r *testReporter) Report(pos token.Pos, msg string) {
	r.msgs = append(r.msgs, msg)
	r.pos = append(r.pos, pos)
}

func lexAll(src string) ([]token.Token, *testReporter) {
	rep := &testReporter{}
	lx := lexer.New(src, lexer.Options{Reporter: rep})
	var toks []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return toks, rep
		}
		toks = append(toks, tok)
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexer_Kinds(t *testing.T) {
	tests := []struct {
		src  string
		want []token.Kind
	}{
		{"a = 12;", []token.Kind{token.Ident, token.Assign, token.Number, token.Semicolon}},
		{"a += 1", []token.Kind{token.Ident, token.PlusAssign, token.Number}},
		{"x ^= 2 % 3", []token.Kind{token.Ident, token.CaretAssign, token.Number, token.Percent, token.Number}},
		{"a == b != c", []token.Kind{token.Ident, token.EqEq, token.Ident, token.BangEq, token.Ident}},
		{"a <= b >= c < d > e", []token.Kind{token.Ident, token.LtEq, token.Ident, token.GtEq, token.Ident, token.Lt, token.Ident, token.Gt, token.Ident}},
		{"!a && b || c", []token.Kind{token.Bang, token.Ident, token.AndAnd, token.Ident, token.OrOr, token.Ident}},
		{"c ? 1 : 2", []token.Kind{token.Ident, token.Question, token.Number, token.Colon, token.Number}},
		{`printf("x", 1)`, []token.Kind{token.Ident, token.LParen, token.String, token.Comma, token.Number, token.RParen}},
		{"$pi * this.x", []token.Kind{token.Ident, token.Star, token.Ident}},
	}
	for _, tt := range tests {
		toks, rep := lexAll(tt.src)
		if len(rep.msgs) != 0 {
			t.Errorf("%q: unexpected errors %v", tt.src, rep.msgs)
		}
		got := kinds(toks)
		if len(got) != len(tt.want) {
			t.Errorf("%q: kinds = %v, want %v", tt.src, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%q: token %d = %s, want %s", tt.src, i, got[i], tt.want[i])
			}
		}
	}
}

func TestLexer_Numbers(t *testing.T) {
	cases := []string{"12", "1.5", ".25", "3.", "0x1F", "1e3", "2.5E-2"}
	for _, src := range cases {
		toks, rep := lexAll(src)
		if len(rep.msgs) != 0 || len(toks) != 1 || toks[0].Kind != token.Number || toks[0].Text != src {
			t.Errorf("%q: got %+v errors %v", src, toks, rep.msgs)
		}
	}
	// "2e" is a number followed by an identifier
	toks, _ := lexAll("2e")
	if len(toks) != 2 || toks[0].Text != "2" || toks[1].Text != "e" {
		t.Errorf("2e: got %+v", toks)
	}
}

func TestLexer_Strings(t *testing.T) {
	toks, rep := lexAll(`"a\tb\n\"q\"\\"`)
	if len(rep.msgs) != 0 || len(toks) != 1 {
		t.Fatalf("got %+v errors %v", toks, rep.msgs)
	}
	if toks[0].Text != "a\tb\n\"q\"\\" {
		t.Errorf("decoded string = %q", toks[0].Text)
	}
}

func TestLexer_Comments(t *testing.T) {
	src := "// line\na /* block\nspanning */ = 1; // tail"
	toks, rep := lexAll(src)
	if len(rep.msgs) != 0 {
		t.Fatalf("unexpected errors %v", rep.msgs)
	}
	if len(toks) != 4 {
		t.Fatalf("comments must be skipped, got %+v", toks)
	}
	if toks[1].Pos != (token.Pos{Line: 3, Col: 13}) {
		t.Errorf("'=' position = %v, want 3:13", toks[1].Pos)
	}
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		src  string
		msg  string
		line int
	}{
		{"a = \"open", "unterminated string literal", 1},
		{"a = 1;\n/* never closed", "unterminated block comment", 2},
		{"a # b", "unexpected character '#'", 1},
		{"0x", "malformed hex literal", 1},
		{"a & b", "unexpected character '&'", 1},
	}
	for _, tt := range tests {
		_, rep := lexAll(tt.src)
		if len(rep.msgs) == 0 {
			t.Errorf("%q: expected an error", tt.src)
			continue
		}
		if rep.msgs[0] != tt.msg || rep.pos[0].Line != tt.line {
			t.Errorf("%q: got %q at %v, want %q on line %d", tt.src, rep.msgs[0], rep.pos[0], tt.msg, tt.line)
		}
	}
}

func TestLexer_Peek(t *testing.T) {
	lx := lexer.New("a b", lexer.Options{})
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("Peek = %+v", p)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("Next after Peek = %+v", n)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("second Next = %+v", n)
	}
	for i := 0; i < 2; i++ {
		if n := lx.Next(); n.Kind != token.EOF {
			t.Fatalf("expected sticky EOF, got %+v", n)
		}
	}
}

func TestEOFFollowsLastToken(t *testing.T) {
	tests := []struct {
		src  string
		want token.Pos
	}{
		{"", token.Pos{Line: 1, Col: 1}},
		{"a = 1;\n\n", token.Pos{Line: 1, Col: 7}},
		{"x\n  /* tail */\n", token.Pos{Line: 1, Col: 2}},
	}
	for _, tt := range tests {
		lx := lexer.New(tt.src, lexer.Options{})
		var tok token.Token
		for tok = lx.Next(); tok.Kind != token.EOF; tok = lx.Next() {
		}
		if tok.Pos != tt.want {
			t.Errorf("%q: EOF at %v, want %v", tt.src, tok.Pos, tt.want)
		}
	}
}
