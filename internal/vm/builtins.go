package vm

import "math"

type builtin struct {
	args int
	fn   func(a []float64) float64
}

func unary(f func(float64) float64) *builtin {
	return &builtin{args: 1, fn: func(a []float64) float64 { return f(a[0]) }}
}

func binop(f func(float64, float64) float64) *builtin {
	return &builtin{args: 2, fn: func(a []float64) float64 { return f(a[0], a[1]) }}
}

// builtins are available when a block is compiled with FlagCommonFuncs.
var builtins = map[string]*builtin{
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"tan":   unary(math.Tan),
	"atan":  unary(math.Atan),
	"sqrt":  unary(func(x float64) float64 { return math.Sqrt(math.Abs(x)) }),
	"abs":   unary(math.Abs),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"exp":   unary(math.Exp),
	"log":   unary(math.Log),
	"log10": unary(math.Log10),
	"sign": unary(func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		}
		return 0
	}),
	"invsqrt": unary(func(x float64) float64 { return 1 / math.Sqrt(math.Abs(x)) }),
	"min":     binop(math.Min),
	"max":     binop(math.Max),
	"pow":     binop(math.Pow),
	"atan2":   binop(math.Atan2),
}
