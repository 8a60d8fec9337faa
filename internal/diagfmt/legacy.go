package diagfmt

import (
	"io"
	"strings"

	"easel/internal/diag"
)

// LegacyEntry renders one diagnostic in the classic loader buffer format.
// Info diagnostics render as nothing.
func LegacyEntry(d diag.Diagnostic) string {
	switch {
	case d.Severity == diag.SevWarning:
		return "\tWarning: " + d.Message + "\r\n"
	case d.Severity == diag.SevError && d.Code == diag.CompFailed:
		return "\nError: " + d.Message + "\r\n"
	case d.Severity == diag.SevError:
		return "\tError: " + d.Message + "\r\n"
	}
	return ""
}

// Legacy concatenates LegacyEntry for every item in bag order. An empty
// result means the pass succeeded.
func Legacy(bag *diag.Bag) string {
	var sb strings.Builder
	for _, d := range bag.Items() {
		sb.WriteString(LegacyEntry(d))
	}
	return sb.String()
}

// WriteLegacy writes Legacy(bag) to w.
func WriteLegacy(w io.Writer, bag *diag.Bag) error {
	_, err := io.WriteString(w, Legacy(bag))
	return err
}
