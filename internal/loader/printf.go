package loader

import (
	"io"

	"easel/internal/trace"
	"easel/internal/vm"
)

// printf(fmt, ...) writes to the loader output and evaluates to the number
// of bytes written. A format that is not a string writes nothing.
func (l *Loader) printf(call *vm.Call) float64 {
	format, ok := call.String(0)
	if !ok {
		return 0
	}
	var args []float64
	if len(call.Args) > 1 {
		args = call.Args[1:]
	}
	text := call.VM.Sprintf(format, args)
	trace.Point(l.tracer, trace.ScopeHost, "printf", text, 0)
	n, _ := io.WriteString(l.output, text)
	return float64(n)
}
