package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"easel/internal/project"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB
	maxFuzzInput = 1 << 16
)

// seedSections are declared for every segmenter run.
var seedSections = []string{"@code", "@numpty", "@a", "@b", "@init", "@block"}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	f.Add([]byte{})
	f.Add([]byte(project.DefaultScript([]string{"@init", "@block"})))
	f.Add([]byte("@a\nx = 1; /* open\n@b\n*/ y = 2;\n"))
	f.Add([]byte("\"@a\"\n@a // c\r\nz = x % 0;\r\n"))
	f.Add([]byte("@undeclared\nq = 1;\n@a\n"))
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "loader", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// все *.eel из testdata загрузчика
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".eel" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
