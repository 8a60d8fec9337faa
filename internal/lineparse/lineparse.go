// Package lineparse tokenizes single script lines to detect section directives.
//
// Tokens are separated by spaces or tabs. A token that starts with a quote
// character (", ' or `) extends to the matching quote and may contain spaces,
// comment markers or the directive sentinel; such a token is never treated
// as a directive. Quotes inside a bare word protect their contents the same
// way but stay part of the word. Comments are skipped: "//" ends the line and "/* ... */"
// may span lines, which is why the caller threads the in-comment flag from
// one call to the next.
package lineparse

import (
	"errors"
	"strings"
)

// Sentinel is the first character of a directive token, e.g. "@code".
const Sentinel = '@'

// ErrUnterminatedQuote is returned when a quoted token has no closing quote.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// Token is one word of a line.
type Token struct {
	Text   string
	Quoted bool
	// Col is the 0-based byte offset of the token (of its opening quote when quoted).
	Col int
}

// Line is the parse result of one input line.
type Line struct {
	Tokens []Token
	// InComment is true when the line ends inside an unclosed block comment.
	InComment bool
}

// Directive returns the first token when it is a directive candidate.
func (l Line) Directive() (string, bool) {
	if len(l.Tokens) == 0 {
		return "", false
	}
	first := l.Tokens[0]
	if first.Quoted || first.Text == "" || first.Text[0] != Sentinel {
		return "", false
	}
	return first.Text, true
}

// Parse splits text into tokens. inComment reports whether the previous line
// ended inside a block comment. On error the returned Line holds the tokens
// and comment state reached before the malformed part.
func Parse(text string, inComment bool) (Line, error) {
	line := Line{InComment: inComment}
	n := len(text)
	i := 0
	for i < n {
		if line.InComment {
			end := strings.Index(text[i:], "*/")
			if end < 0 {
				return line, nil
			}
			i += end + 2
			line.InComment = false
			continue
		}

		for i < n && isSpace(text[i]) {
			i++
		}
		if i >= n {
			break
		}

		switch {
		case hasPrefixAt(text, i, "//"):
			return line, nil
		case hasPrefixAt(text, i, "/*"):
			line.InComment = true
			i += 2
			continue
		case isQuote(text[i]):
			end := closingQuote(text, i)
			if end < 0 {
				return line, ErrUnterminatedQuote
			}
			line.Tokens = append(line.Tokens, Token{
				Text:   text[i+1 : end],
				Quoted: true,
				Col:    i,
			})
			i = end + 1
			continue
		}

		start := i
		for i < n && !isSpace(text[i]) && !hasPrefixAt(text, i, "//") && !hasPrefixAt(text, i, "/*") {
			if isQuote(text[i]) {
				// quoted run inside a bare word, e.g. printf("a b"); kept verbatim
				end := closingQuote(text, i)
				if end < 0 {
					return line, ErrUnterminatedQuote
				}
				i = end + 1
				continue
			}
			i++
		}
		line.Tokens = append(line.Tokens, Token{Text: text[start:i], Col: start})
	}
	return line, nil
}

// closingQuote returns the index of the quote closing the one at open, or
// -1. A backslash escapes the next byte, as in script string literals.
func closingQuote(text string, open int) int {
	q := text[open]
	for i := open + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case q:
			return i
		}
	}
	return -1
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\v' || b == '\f' || b == '\r'
}

func isQuote(b byte) bool {
	return b == '"' || b == '\'' || b == '`'
}

func hasPrefixAt(s string, i int, prefix string) bool {
	return len(s)-i >= len(prefix) && s[i:i+len(prefix)] == prefix
}
