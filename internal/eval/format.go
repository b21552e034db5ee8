package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kolkov/nawk/internal/ast"
	"github.com/kolkov/nawk/internal/types"
)

// sprintfArgs evaluates a sprintf(...) builtin's argument expressions and
// formats them, the entry point shared with the printf statement (execPrint
// evaluates its own arguments and calls sprintf directly).
func (it *Interp) sprintfArgs(args []ast.Expr) string {
	if len(args) == 0 {
		return ""
	}
	format := it.evalExpr(args[0]).AsStr(it.convfmt)
	values := make([]types.Value, len(args)-1)
	for i, a := range args[1:] {
		values[i] = it.evalExpr(a)
	}
	return it.sprintf(format, values)
}

// sprintf implements AWK's printf/sprintf format-string scanner: flags,
// width (including dynamic '*'), precision (including dynamic '*'), and a
// per-specifier dispatch that rebuilds a Go format verb and delegates to
// fmt.Sprintf. %c takes a full Unicode code point rather than a single byte,
// since spec requires character, not byte, semantics throughout.
func (it *Interp) sprintf(format string, args []types.Value) string {
	var result strings.Builder
	idx := 0
	next := func() types.Value {
		if idx < len(args) {
			v := args[idx]
			idx++
			return v
		}
		return types.Null()
	}

	i := 0
	for i < len(format) {
		if format[i] != '%' {
			result.WriteByte(format[i])
			i++
			continue
		}
		i++
		if i >= len(format) {
			result.WriteByte('%')
			break
		}
		if format[i] == '%' {
			result.WriteByte('%')
			i++
			continue
		}

		var flags strings.Builder
		for i < len(format) && strings.ContainsAny(string(format[i]), "-+ #0") {
			flags.WriteByte(format[i])
			i++
		}

		var width string
		if i < len(format) && format[i] == '*' {
			w := int(next().AsNum())
			if w < 0 {
				flags.WriteByte('-')
				w = -w
			}
			width = strconv.Itoa(w)
			i++
		} else {
			for i < len(format) && format[i] >= '0' && format[i] <= '9' {
				width += string(format[i])
				i++
			}
		}

		var precision string
		if i < len(format) && format[i] == '.' {
			precision = "."
			i++
			if i < len(format) && format[i] == '*' {
				p := int(next().AsNum())
				if p >= 0 {
					precision += strconv.Itoa(p)
				} else {
					precision = ""
				}
				i++
			} else {
				for i < len(format) && format[i] >= '0' && format[i] <= '9' {
					precision += string(format[i])
					i++
				}
			}
		}

		if i >= len(format) {
			result.WriteString("%" + flags.String() + width + precision)
			break
		}

		specifier := format[i]
		i++
		value := next()

		switch specifier {
		case 'd', 'i':
			goFmt := "%" + flags.String() + width + precision + "d"
			fmt.Fprintf(&result, goFmt, int64(value.AsNum()))
		case 'o':
			goFmt := "%" + flags.String() + width + precision + "o"
			fmt.Fprintf(&result, goFmt, uint64(value.AsNum()))
		case 'x':
			goFmt := "%" + flags.String() + width + precision + "x"
			fmt.Fprintf(&result, goFmt, uint64(value.AsNum()))
		case 'X':
			goFmt := "%" + flags.String() + width + precision + "X"
			fmt.Fprintf(&result, goFmt, uint64(value.AsNum()))
		case 'u':
			goFmt := "%" + flags.String() + width + precision + "d"
			fmt.Fprintf(&result, goFmt, uint64(value.AsNum()))
		case 'c':
			goFmt := "%" + flags.String() + width + "c"
			if value.IsNum() || value.IsNull() {
				fmt.Fprintf(&result, goFmt, rune(int(value.AsNum())))
			} else {
				s := value.AsStr(it.convfmt)
				if s == "" {
					fmt.Fprintf(&result, "%"+flags.String()+width+"s", "")
				} else {
					r := []rune(s)[0]
					fmt.Fprintf(&result, goFmt, r)
				}
			}
		case 's':
			goFmt := "%" + flags.String() + width + precision + "s"
			fmt.Fprintf(&result, goFmt, value.AsStr(it.convfmt))
		case 'e':
			goFmt := "%" + flags.String() + width + precision + "e"
			fmt.Fprintf(&result, goFmt, value.AsNum())
		case 'E':
			goFmt := "%" + flags.String() + width + precision + "E"
			fmt.Fprintf(&result, goFmt, value.AsNum())
		case 'f', 'F':
			goFmt := "%" + flags.String() + width + precision + "f"
			fmt.Fprintf(&result, goFmt, value.AsNum())
		case 'g':
			goFmt := "%" + flags.String() + width + precision + "g"
			fmt.Fprintf(&result, goFmt, value.AsNum())
		case 'G':
			goFmt := "%" + flags.String() + width + precision + "G"
			fmt.Fprintf(&result, goFmt, value.AsNum())
		default:
			result.WriteByte('%')
			result.WriteByte(specifier)
		}
	}

	return result.String()
}

// toLowerASCII lowercases with an ASCII fast path, falling back to
// strings.ToLower only when non-ASCII bytes are present.
func toLowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			return toLowerASCIISlow(s, i)
		}
		if c > 127 {
			return strings.ToLower(s)
		}
	}
	return s
}

func toLowerASCIISlow(s string, start int) string {
	b := make([]byte, len(s))
	copy(b, s[:start])
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			b[i] = c + 32
		case c > 127:
			return strings.ToLower(s)
		default:
			b[i] = c
		}
	}
	return string(b)
}

// toUpperASCII uppercases with an ASCII fast path, falling back to
// strings.ToUpper only when non-ASCII bytes are present.
func toUpperASCII(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			return toUpperASCIISlow(s, i)
		}
		if c > 127 {
			return strings.ToUpper(s)
		}
	}
	return s
}

func toUpperASCIISlow(s string, start int) string {
	b := make([]byte, len(s))
	copy(b, s[:start])
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			b[i] = c - 32
		case c > 127:
			return strings.ToUpper(s)
		default:
			b[i] = c
		}
	}
	return string(b)
}
