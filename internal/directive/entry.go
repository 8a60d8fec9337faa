package directive

import (
	"fmt"
	"path/filepath"
)

// Entry describes one successfully compiled section occurrence.
type Entry struct {
	// Slot is the key used by index based execution: the declared index
	// for the first compiled occurrence of a section, a key past the
	// declared range for a reopening.
	Slot int

	// Section is the directive that opened the block (e.g. "@init").
	Section string

	// Decl is the position of Section in the declaration set.
	Decl int

	// SourceFile is the script path, empty for anonymous streams.
	SourceFile string

	// LineOffset is the line of the opening directive; block line N is
	// stream line LineOffset+N.
	LineOffset int

	// Lines is the number of source lines in the block.
	Lines int
}

// Location returns a human-readable location string.
func (e *Entry) Location() string {
	file := "<stream>"
	if e.SourceFile != "" {
		file = filepath.Base(e.SourceFile)
	}
	return fmt.Sprintf("%s#%d", file, e.Slot)
}
