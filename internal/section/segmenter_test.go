package section

import (
	"errors"
	"strings"
	"testing"

	"easel/internal/diag"
)

func segment(t *testing.T, src string, decls ...string) ([]Block, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	blocks, err := Segment(strings.NewReader(src), decls, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	return blocks, bag
}

const twoSections = `
        @code
        // iejrotijeirjtoe
        a = 12; 
        printf("This is executing.");
        /* ioijiosdjf
            isodijfiosdjf
        */
        
        @numpty
        // comment a += 19999;
        /* a += 200000;
        multiline   
        */ a += 1;
        b = 2;

    `

func TestSegment_TwoSections(t *testing.T) {
	blocks, bag := segment(t, twoSections, "@code", "@numpty")
	if !bag.Empty() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	code, numpty := blocks[0], blocks[1]
	if code.Name != "@code" || code.Index != 0 || code.LineOffset != 2 {
		t.Errorf("unexpected first block %+v", code)
	}
	if numpty.Name != "@numpty" || numpty.Index != 1 || numpty.LineOffset != 10 {
		t.Errorf("unexpected second block %+v", numpty)
	}
	if !strings.Contains(code.Source, `printf("This is executing.");`) {
		t.Errorf("code block lost a line: %q", code.Source)
	}
	// comments are passed through to the compiler untouched
	if !strings.Contains(numpty.Source, "/* a += 200000;") || !strings.Contains(numpty.Source, "*/ a += 1;") {
		t.Errorf("comment text must reach the compiler verbatim: %q", numpty.Source)
	}
	if code.Lines() != 7 {
		t.Errorf("code block should hold 7 lines, got %d", code.Lines())
	}
}

func TestSegment_BlockCommentHidesDirective(t *testing.T) {
	src := "@code\na = 1;\n/* disabled\n@numpty\n*/\nb = 2;\n"
	blocks, bag := segment(t, src, "@code", "@numpty")
	if !bag.Empty() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if len(blocks) != 1 {
		t.Fatalf("commented directive must not open a section, got %d blocks", len(blocks))
	}
	if !strings.Contains(blocks[0].Source, "@numpty") || !strings.Contains(blocks[0].Source, "b = 2;") {
		t.Errorf("block should keep the commented lines: %q", blocks[0].Source)
	}
}

func TestSegment_EscapedQuoteDoesNotOpenComment(t *testing.T) {
	src := "@code\nprintf(\"say \\\"hi /* there\\\"\");\n@numpty\na += 1;\n"
	blocks, bag := segment(t, src, "@code", "@numpty")
	if !bag.Empty() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[1].Name != "@numpty" || blocks[1].Source != "a += 1;\n" {
		t.Errorf("unexpected second block %+v", blocks[1])
	}
}

func TestSegment_CommentBeforeFirstSection(t *testing.T) {
	src := "/* header\n@code\n*/\n// note\n\n@code\nx = 1;\n"
	blocks, bag := segment(t, src, "@code")
	if !bag.Empty() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if len(blocks) != 1 || blocks[0].LineOffset != 6 || blocks[0].Source != "x = 1;\n" {
		t.Fatalf("unexpected blocks %+v", blocks)
	}
}

func TestSegment_SingleLineCommentOutside(t *testing.T) {
	src := "/* hi */ // ok\n   /* a */ /* b\n c */\n@code\nx;\n"
	blocks, bag := segment(t, src, "@code")
	if !bag.Empty() {
		t.Fatalf("closed comments outside sections must not warn: %+v", bag.Items())
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
}

func TestSegment_TextOutsideSection(t *testing.T) {
	src := "stray text\nmore stray\n@code\nx = 1;\n"
	blocks, bag := segment(t, src, "@code")
	if bag.Len() != 1 {
		t.Fatalf("expected exactly one warning, got %+v", bag.Items())
	}
	d := bag.Items()[0]
	if d.Code != diag.SecOutside || d.Severity != diag.SevWarning || d.Line != 1 {
		t.Errorf("unexpected diagnostic %+v", d)
	}
	want := "line 'stray text' (and possibly more)' are not in valid section and may be ignored"
	if d.Message != want {
		t.Errorf("message = %q, want %q", d.Message, want)
	}
	if len(blocks) != 1 {
		t.Errorf("the declared section should still compile, got %d blocks", len(blocks))
	}
}

func TestSegment_OutsideExcerptTruncated(t *testing.T) {
	long := strings.Repeat("x", 150)
	_, bag := segment(t, long+"\n", "@code")
	if bag.Len() != 1 {
		t.Fatalf("expected one warning, got %d", bag.Len())
	}
	msg := bag.Items()[0].Message
	if !strings.Contains(msg, "'"+strings.Repeat("x", 100)+"'") {
		t.Errorf("excerpt should be truncated to 100 characters: %q", msg)
	}
}

func TestSegment_UndeclaredSection(t *testing.T) {
	src := "@code\nx = 1;\n@bogus\ny = 2;\n@bogus\n"
	blocks, bag := segment(t, src, "@code")
	if bag.Len() != 2 {
		t.Fatalf("expected one warning per undeclared directive, got %d", bag.Len())
	}
	for _, d := range bag.Items() {
		if d.Code != diag.SecUndeclared || d.Message != "Undeclared section: @bogus" || d.Section != "@bogus" {
			t.Errorf("unexpected diagnostic %+v", d)
		}
	}
	if len(blocks) != 1 {
		t.Fatalf("undeclared sections never produce blocks, got %d", len(blocks))
	}
	if blocks[0].Source != "x = 1;\ny = 2;\n" {
		t.Errorf("state must not change on an undeclared directive: %q", blocks[0].Source)
	}
}

func TestSegment_ReopenedSection(t *testing.T) {
	src := "@a\n1;\n@b\n2;\n@a\n3;\n"
	blocks, _ := segment(t, src, "@a", "@b")
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	want := []Block{
		{Name: "@a", Index: 0, Source: "1;\n", LineOffset: 1},
		{Name: "@b", Index: 1, Source: "2;\n", LineOffset: 3},
		{Name: "@a", Index: 0, Source: "3;\n", LineOffset: 5},
	}
	for i := range want {
		if blocks[i] != want[i] {
			t.Errorf("block %d = %+v, want %+v", i, blocks[i], want[i])
		}
	}
}

func TestSegment_NamesFollowOpeningDirective(t *testing.T) {
	src := "@a\n1;\n@nope\n@b\n2;\n"
	blocks, _ := segment(t, src, "@a", "@b")
	if len(blocks) != 2 || blocks[0].Name != "@a" || blocks[1].Name != "@b" {
		t.Fatalf("unexpected blocks %+v", blocks)
	}
}

func TestSegment_CRLF(t *testing.T) {
	blocks, bag := segment(t, "@code\r\nx = 1;\r\ny = 2;", "@code")
	if !bag.Empty() || len(blocks) != 1 {
		t.Fatalf("unexpected result: %+v %+v", blocks, bag.Items())
	}
	if blocks[0].Source != "x = 1;\ny = 2;\n" {
		t.Errorf("carriage returns must be stripped: %q", blocks[0].Source)
	}
}

func TestSegment_MalformedLineIsText(t *testing.T) {
	src := "@code\n@numpty \"unterminated\n"
	blocks, bag := segment(t, src, "@code", "@numpty")
	if !bag.Empty() {
		t.Fatalf("a malformed line is not reported: %+v", bag.Items())
	}
	if len(blocks) != 1 || !strings.Contains(blocks[0].Source, "@numpty") {
		t.Errorf("malformed directive line should stay in the block: %+v", blocks)
	}
}

func TestSegment_EmptyStream(t *testing.T) {
	blocks, bag := segment(t, "", "@code")
	if len(blocks) != 0 || !bag.Empty() {
		t.Errorf("empty stream yields nothing: %+v %+v", blocks, bag.Items())
	}
}

func TestSegmenter_StateTransitions(t *testing.T) {
	var got []Block
	s := New([]string{"@code"}, nil, func(b Block) { got = append(got, b) })
	steps := []struct {
		line string
		want State
	}{
		{"", State{Kind: NoActiveSection}},
		{"/* open", State{Kind: InsideBlockComment}},
		{"still */", State{Kind: NoActiveSection}},
		{"@code", Active(0)},
		{"x = 1;", Active(0)},
	}
	for _, st := range steps {
		s.Feed(st.line)
		if s.State() != st.want {
			t.Fatalf("after %q: state %v, want %v", st.line, s.State(), st.want)
		}
	}
	s.Finish()
	if len(got) != 1 || s.State() != (State{}) || s.Line() != 0 {
		t.Errorf("Finish should flush and reset: blocks=%d state=%v line=%d", len(got), s.State(), s.Line())
	}
}

type failingReader struct{ sent bool }

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, "@code\nx = 1;\n"), nil
	}
	return 0, errors.New("disk on fire")
}

func TestSegment_ReadError(t *testing.T) {
	blocks, err := Segment(&failingReader{}, []string{"@code"}, nil)
	if err == nil {
		t.Fatal("expected read error")
	}
	if len(blocks) != 1 {
		t.Errorf("open block should still be finished, got %d", len(blocks))
	}
}
