// Package section splits a script stream into named section blocks.
//
// A section starts at a directive line such as "@code" and runs until the
// next declared directive or the end of the stream. Comments are tracked only
// to drive state transitions; block text reaches the compiler verbatim.
package section

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"easel/internal/diag"
	"easel/internal/lineparse"
)

// excerptLimit bounds the stray-line excerpt in the outside-section warning.
const excerptLimit = 100

// Block is one completed section.
type Block struct {
	// Name is the directive token that opened the block.
	Name string
	// Index is the position of Name in the declaration set.
	Index int
	// Source holds the raw lines of the block, each terminated by "\n".
	Source string
	// LineOffset is the 1-based stream line of the opening directive; the
	// first line of Source is LineOffset+1.
	LineOffset int
}

// Lines returns the number of lines in the block.
func (b Block) Lines() int {
	return strings.Count(b.Source, "\n")
}

// Sink receives every completed block in stream order.
type Sink func(Block)

// Segmenter is the line-driven state machine. It is not safe for concurrent use.
type Segmenter struct {
	decls    []string
	index    map[string]int
	reporter diag.Reporter
	sink     Sink

	state     State
	carry     bool
	block     strings.Builder
	name      string
	startLine int
	line      int
}

// New returns a segmenter accepting the given directive names.
// A name listed twice resolves to its first position.
func New(decls []string, reporter diag.Reporter, sink Sink) *Segmenter {
	index := make(map[string]int, len(decls))
	for i, d := range decls {
		if _, dup := index[d]; !dup {
			index[d] = i
		}
	}
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Segmenter{
		decls:    append([]string(nil), decls...),
		index:    index,
		reporter: reporter,
		sink:     sink,
	}
}

// Declared returns a copy of the declaration set.
func (s *Segmenter) Declared() []string {
	return append([]string(nil), s.decls...)
}

// State returns the current parse state.
func (s *Segmenter) State() State {
	return s.state
}

// Line returns the number of lines consumed so far.
func (s *Segmenter) Line() int {
	return s.line
}

// Feed consumes one line without its terminating newline.
func (s *Segmenter) Feed(text string) {
	text = strings.TrimSuffix(text, "\r")
	s.line++

	if text != "" {
		parsed, err := lineparse.Parse(text, s.carry)
		s.carry = parsed.InComment
		if tok, ok := parsed.Directive(); ok && err == nil {
			s.directive(tok)
			return
		}
	}

	rest := text
	for {
		if s.state.Kind == InsideBlockComment {
			end := strings.Index(rest, "*/")
			if end < 0 {
				break
			}
			s.state = State{Kind: NoActiveSection}
			rest = rest[end+2:]
		}
		if s.state.Kind != NoActiveSection || rest == "" {
			break
		}
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" || strings.HasPrefix(rest, "//") {
			break
		}
		if strings.HasPrefix(rest, "/*") {
			s.state = State{Kind: InsideBlockComment}
			rest = rest[2:]
			continue
		}
		diag.ReportWarning(s.reporter, diag.SecOutside, s.line,
			fmt.Sprintf("line '%s' (and possibly more)' are not in valid section and may be ignored", excerpt(text))).
			Emit()
		s.state = State{Kind: OutsideAnySection}
		break
	}

	if s.state.IsActive() {
		s.block.WriteString(text)
		s.block.WriteByte('\n')
	}
}

func (s *Segmenter) directive(tok string) {
	idx, ok := s.index[tok]
	if !ok {
		diag.ReportWarning(s.reporter, diag.SecUndeclared, s.line, "Undeclared section: "+tok).
			WithSection(tok).
			Emit()
		return
	}
	s.finalize()
	s.state = Active(idx)
	s.name = tok
	s.startLine = s.line
	s.block.Reset()
}

// Finish hands the open block, if any, to the sink and resets the segmenter
// so it can consume another stream.
func (s *Segmenter) Finish() {
	s.finalize()
	s.state = State{}
	s.carry = false
	s.block.Reset()
	s.name = ""
	s.startLine = 0
	s.line = 0
}

func (s *Segmenter) finalize() {
	if !s.state.IsActive() || s.sink == nil {
		return
	}
	s.sink(Block{
		Name:       s.name,
		Index:      s.state.Index,
		Source:     s.block.String(),
		LineOffset: s.startLine,
	})
}

// Run feeds every line of r and finishes the stream. Lines may end in "\n"
// or "\r\n"; a final line without a newline is still consumed. A read error
// stops the pass after finishing the open block.
func (s *Segmenter) Run(r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		text, err := br.ReadString('\n')
		if text != "" {
			s.Feed(strings.TrimSuffix(text, "\n"))
		}
		if err != nil {
			s.Finish()
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read script stream: %w", err)
		}
	}
}

// Segment is a convenience wrapper that collects every block of r.
func Segment(r io.Reader, decls []string, reporter diag.Reporter) ([]Block, error) {
	var blocks []Block
	seg := New(decls, reporter, func(b Block) { blocks = append(blocks, b) })
	err := seg.Run(r)
	return blocks, err
}

func excerpt(text string) string {
	n := 0
	for i := range text {
		if n == excerptLimit {
			return text[:i]
		}
		n++
	}
	return text
}
