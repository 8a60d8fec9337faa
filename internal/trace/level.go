package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff     Level = iota // no tracing
	LevelError                // ring only, dumped when a command fails
	LevelPhase                // command and phase boundaries
	LevelSection              // every section compile/exec
	LevelDebug                // everything including host calls
)

var levelNames = [...]string{
	LevelOff:     "off",
	LevelError:   "error",
	LevelPhase:   "phase",
	LevelSection: "section",
	LevelDebug:   "debug",
}

// String returns the string representation of Level.
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a string to a Level. "detail" is accepted as an alias
// of "section".
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(s)
	if name == "detail" {
		return LevelSection, nil
	}
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil // #nosec G115 -- bounded by levelNames
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|section|debug)", s)
}

// ShouldEmit returns true if the given scope should emit at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopePhase
	case LevelSection:
		return scope <= ScopeSection
	case LevelDebug:
		return true
	}
	return false
}
