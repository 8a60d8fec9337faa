package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// загрузка скрипта
	LoadInfo     Code = 1000
	LoadFileOpen Code = 1001
	LoadRead     Code = 1002

	// разбиение на секции
	SecInfo       Code = 2000
	SecUndeclared Code = 2001
	SecOutside    Code = 2002

	// компиляция секций
	CompInfo   Code = 3000
	CompFailed Code = 3001
)

var codeDescription = map[Code]string{
	UnknownCode:   "Unknown error",
	LoadInfo:      "Load information",
	LoadFileOpen:  "Failed opening script file",
	LoadRead:      "Failed reading script stream",
	SecInfo:       "Section information",
	SecUndeclared: "Undeclared section",
	SecOutside:    "Text outside any declared section",
	CompInfo:      "Compile information",
	CompFailed:    "Section failed to compile",
}

// ID returns the stable short form of the code, e.g. "SEC2001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LOAD%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SEC%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("COMP%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
