package vm

import (
	"fmt"
	"strings"
)

// Sprintf formats args the way the printf host function does. Supported
// conversions are %d %i %x %X %f %e %g %s %c and %%, with the usual flags,
// width and precision. %s resolves its argument through the string table.
func (m *VM) Sprintf(format string, args []float64) string {
	var sb strings.Builder
	next := 0
	arg := func() float64 {
		if next >= len(args) {
			return 0
		}
		v := args[next]
		next++
		return v
	}
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' {
			sb.WriteByte(ch)
			continue
		}
		j := i + 1
		for j < len(format) && strings.IndexByte("-+ 0#", format[j]) >= 0 {
			j++
		}
		for j < len(format) && format[j] >= '0' && format[j] <= '9' {
			j++
		}
		if j < len(format) && format[j] == '.' {
			j++
			for j < len(format) && format[j] >= '0' && format[j] <= '9' {
				j++
			}
		}
		if j >= len(format) {
			sb.WriteString(format[i:])
			break
		}
		spec := format[i:j]
		switch conv := format[j]; conv {
		case '%':
			sb.WriteByte('%')
		case 'd', 'i':
			fmt.Fprintf(&sb, spec+"d", int64(arg()))
		case 'x', 'X':
			fmt.Fprintf(&sb, spec+string(conv), int64(arg()))
		case 'c':
			fmt.Fprintf(&sb, spec+"c", rune(int64(arg())))
		case 'f', 'e', 'E', 'g', 'G':
			fmt.Fprintf(&sb, spec+string(conv), arg())
		case 's':
			v := arg()
			s, ok := m.LookupString(v)
			if !ok {
				s = fmt.Sprintf("%g", v)
			}
			fmt.Fprintf(&sb, spec+"s", s)
		default:
			sb.WriteString(format[i : j+1])
		}
		i = j
	}
	return sb.String()
}
