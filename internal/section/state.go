package section

import "fmt"

// Kind names the parse state of the segmenter.
type Kind uint8

const (
	// NoActiveSection is the initial state: no section opened yet, or a
	// block comment seen outside any section just closed.
	NoActiveSection Kind = iota
	// OutsideAnySection is entered when text shows up before any section.
	// It has been reported once; further stray text is dropped silently.
	OutsideAnySection
	// InsideBlockComment tracks a /* ... */ comment opened outside any section.
	InsideBlockComment
	// ActiveSection means lines are collected into the current block.
	ActiveSection
)

func (k Kind) String() string {
	switch k {
	case NoActiveSection:
		return "no-section"
	case OutsideAnySection:
		return "outside-section"
	case InsideBlockComment:
		return "in-comment"
	case ActiveSection:
		return "section"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// State is the tagged parse state. Index is meaningful only for ActiveSection
// and is a position in the section declaration set.
type State struct {
	Kind  Kind
	Index int
}

// Active returns the ActiveSection state for declaration index i.
func Active(i int) State {
	return State{Kind: ActiveSection, Index: i}
}

// IsActive reports whether a block is being collected.
func (s State) IsActive() bool {
	return s.Kind == ActiveSection
}

func (s State) String() string {
	if s.Kind == ActiveSection {
		return fmt.Sprintf("section(%d)", s.Index)
	}
	return s.Kind.String()
}
