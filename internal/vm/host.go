package vm

// HostFunc implements a function callable from scripts.
type HostFunc func(call *Call) float64

// Call carries the arguments of one host function invocation.
type Call struct {
	VM   *VM
	Name string
	Args []float64
}

// Arg returns the i-th argument or 0 when it was not passed.
func (c *Call) Arg(i int) float64 {
	if i < 0 || i >= len(c.Args) {
		return 0
	}
	return c.Args[i]
}

// Context returns the host context attached with SetContext.
func (c *Call) Context() any {
	return c.VM.Context()
}

// String resolves the i-th argument as a string handle.
func (c *Call) String(i int) (string, bool) {
	return c.VM.LookupString(c.Arg(i))
}

// Typed adapts a function that needs a concrete host context. When the
// context is missing or of another type the call evaluates to 0.
func Typed[T any](fn func(ctx T, call *Call) float64) HostFunc {
	return func(call *Call) float64 {
		ctx, ok := call.Context().(T)
		if !ok {
			return 0
		}
		return fn(ctx, call)
	}
}

type hostEntry struct {
	minArgs int
	fn      HostFunc
}

// accepts reports whether argc satisfies the minimum. A minimum of one also
// admits a bare call with no arguments.
func (h *hostEntry) accepts(argc int) bool {
	if argc >= h.minArgs {
		return true
	}
	return h.minArgs == 1 && argc == 0
}
