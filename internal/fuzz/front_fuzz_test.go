package fuzztests

import (
	"bytes"
	"testing"
	"time"

	"easel/internal/diag"
	"easel/internal/lexer"
	"easel/internal/section"
	"easel/internal/token"
	"easel/internal/vm"
)

// execTimeout bounds one compile+execute round; exceeding it means a hang.
const execTimeout = 5 * time.Second

type nopLexReporter struct{}

func (nopLexReporter) Report(token.Pos, string) {}

func FuzzSegmenter(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		bag := diag.NewBag(64)
		blocks, err := section.Segment(bytes.NewReader(input), seedSections, diag.BagReporter{Bag: bag})
		if err != nil {
			t.Fatalf("Segment: %v", err)
		}
		prev := 0
		for _, b := range blocks {
			if b.Index < 0 || b.Index >= len(seedSections) || seedSections[b.Index] != b.Name {
				t.Errorf("block %s has index %d", b.Name, b.Index)
			}
			if b.LineOffset <= prev {
				t.Errorf("block %s starts at line %d after %d", b.Name, b.LineOffset, prev)
			}
			prev = b.LineOffset
		}
	})
}

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		lx := lexer.New(string(input), lexer.Options{Reporter: nopLexReporter{}})
		// каждый вызов Next продвигает курсор хотя бы на байт
		for i := 0; i <= len(input)+1; i++ {
			if lx.Next().Kind == token.EOF {
				return
			}
		}
		t.Fatalf("lexer did not reach EOF after %d tokens", len(input)+2)
	})
}

// FuzzCompileNoHang compiles every segmented block and runs it under a small
// loop limit.
func FuzzCompileNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("@a\nloop(3, loop(3, x += 1));\n"))
	f.Add([]byte("@a\nwhile(x < 10, x += 1);\n"))
	f.Add([]byte("@a\n((((((((1\n"))
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > 4<<10 {
			input = input[:4<<10]
		}
		blocks, err := section.Segment(bytes.NewReader(input), seedSections, diag.NopReporter{})
		if err != nil {
			t.Fatalf("Segment: %v", err)
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			m := vm.New(vm.Options{MaxLoop: 8})
			m.RegisterFunc("printf", 1, func(*vm.Call) float64 { return 0 })
			for _, b := range blocks {
				h, err := m.Compile(b.Source, b.LineOffset, vm.FlagCommonFuncs)
				if err != nil {
					continue
				}
				m.Execute(h)
				if err := m.Free(h); err != nil {
					t.Errorf("Free: %v", err)
				}
			}
		}()

		select {
		case <-done:
		case <-time.After(execTimeout):
			t.Fatalf("compile/execute timed out after %v", execTimeout)
		}
	})
}
