package diag

import "fmt"

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	// Path is the script file, empty for in-memory streams.
	Path string
	// Line is 1-based within the whole stream; 0 when the finding has no line.
	Line int
	// Section is the directive token the finding belongs to, if any.
	Section string
}

// Location renders "path:line" with whatever parts are known.
func (d Diagnostic) Location() string {
	switch {
	case d.Path != "" && d.Line > 0:
		return fmt.Sprintf("%s:%d", d.Path, d.Line)
	case d.Path != "":
		return d.Path
	case d.Line > 0:
		return fmt.Sprintf("<stream>:%d", d.Line)
	}
	return "<stream>"
}
