package format

import (
	"strings"

	"github.com/scohen/ex-format/ast"
)

// groupThreshold is the digit count at which decimal literals gain
// underscore grouping.
const groupThreshold = 6

// charEscapes maps characters that cannot appear verbatim after ? to
// their escaped spelling.
var charEscapes = map[string]string{
	" ":    `\s`,
	"\x00": `\0`,
}

// formatInteger renders an integer literal honoring its source style.
func formatInteger(n *ast.Integer) string {
	switch n.Style {
	case ast.Hex:
		return "0x" + n.Raw
	case ast.Octal:
		return "0o" + n.Raw
	case ast.Binary:
		return "0b" + n.Raw
	case ast.Char:
		if esc, ok := charEscapes[n.Raw]; ok {
			return "?" + esc
		}
		return "?" + n.Raw
	default:
		return groupDigits(n.Raw)
	}
}

// groupDigits inserts an underscore every three digits, counting from the
// right, once the literal is long enough to warrant it.
func groupDigits(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	out := digits
	if len(digits) >= groupThreshold {
		var b strings.Builder
		b.Grow(len(digits) + len(digits)/3)
		lead := len(digits) % 3
		if lead > 0 {
			b.WriteString(digits[:lead])
		}
		for i := lead; i < len(digits); i += 3 {
			if b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteString(digits[i : i+3])
		}
		out = b.String()
	}
	if neg {
		return "-" + out
	}
	return out
}

// atomNeedsQuotes reports whether an atom name can be spelled bare after
// the colon.
func atomNeedsQuotes(name string) bool {
	if name == "" {
		return true
	}
	c := name[0]
	if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_') {
		return true
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		ok := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
			c >= '0' && c <= '9' || c == '_' ||
			(i == len(name)-1 && (c == '?' || c == '!'))
		if !ok {
			return true
		}
	}
	return false
}

// escapeAtom renders a quoted atom body, escaping quotes and backslashes.
func escapeAtom(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 2)
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(name[i])
		}
	}
	return b.String()
}
