package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"easel/internal/diag"
	"easel/internal/source"
)

type palette struct {
	path, errSev, warnSev, infoSev, code, gutter, marker, section *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		path:    mk(color.Bold),
		errSev:  mk(color.FgRed, color.Bold),
		warnSev: mk(color.FgYellow, color.Bold),
		infoSev: mk(color.FgCyan, color.Bold),
		code:    mk(color.FgMagenta),
		gutter:  mk(color.FgBlue),
		marker:  mk(color.FgRed, color.Bold),
		section: mk(color.FgGreen),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.errSev
	case diag.SevWarning:
		return p.warnSev
	}
	return p.infoSev
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>: <SEV> <CODE>: <Message> [in <section>]
// затем контекст строк скрипта, если файл есть в FileSet.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		loc := locationOf(d, fs, opts.PathMode)
		fmt.Fprintf(w, "%s: %s %s: %s",
			pal.path.Sprint(loc),
			pal.severity(d.Severity).Sprint(d.Severity),
			pal.code.Sprint(d.Code.ID()),
			d.Message)
		if d.Section != "" {
			fmt.Fprintf(w, " [in %s]", pal.section.Sprint(d.Section))
		}
		fmt.Fprintln(w)
		if opts.Context >= 0 {
			writeContext(w, d, fs, opts.Context, pal)
		}
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "... %d more diagnostic(s) not shown\n", n)
	}
}

func locationOf(d diag.Diagnostic, fs *source.FileSet, mode PathMode) string {
	path := mode.format(d.Path, fs)
	switch {
	case path != "" && d.Line > 0:
		return path + ":" + strconv.Itoa(d.Line)
	case path != "":
		return path
	}
	return d.Location()
}

func writeContext(w io.Writer, d diag.Diagnostic, fs *source.FileSet, around int, pal palette) {
	if fs == nil || d.Path == "" || d.Line <= 0 {
		return
	}
	f, ok := fs.GetByPath(d.Path)
	if !ok {
		return
	}
	first := max(d.Line-around, 1)
	last := min(d.Line+around, f.LineCount())
	width := len(strconv.Itoa(last))
	for n := first; n <= last; n++ {
		mark := " "
		if n == d.Line {
			mark = pal.marker.Sprint(">")
		}
		num := fmt.Sprintf("%*d", width, n)
		fmt.Fprintf(w, "%s %s %s %s\n", mark, pal.gutter.Sprint(num), pal.gutter.Sprint("|"),
			strings.TrimRight(f.Line(n), " \t"))
	}
}
