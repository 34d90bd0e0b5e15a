package format

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/scohen/ex-format/ast"
)

func TestGroupDigits(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "0"},
		{"12345", "12345"},
		{"123456", "123_456"},
		{"1234567", "1_234_567"},
		{"1000000", "1_000_000"},
		{"-1234567", "-1_234_567"},
		{"-12345", "-12345"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, groupDigits(tt.input))
	}
}

func TestFormatInteger(t *testing.T) {
	tests := []struct {
		name string
		node *ast.Integer
		want string
	}{
		{"decimal", &ast.Integer{Raw: "42", Style: ast.Decimal}, "42"},
		{"decimal grouped", &ast.Integer{Raw: "1000000", Style: ast.Decimal}, "1_000_000"},
		{"hex", &ast.Integer{Raw: "FF", Style: ast.Hex}, "0xFF"},
		{"octal", &ast.Integer{Raw: "777", Style: ast.Octal}, "0o777"},
		{"binary", &ast.Integer{Raw: "101", Style: ast.Binary}, "0b101"},
		{"char", &ast.Integer{Raw: "a", Style: ast.Char}, "?a"},
		{"char space escapes", &ast.Integer{Raw: " ", Style: ast.Char}, `?\s`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatInteger(tt.node))
		})
	}
}

func TestAtomNeedsQuotes(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"foo", false},
		{"foo_bar", false},
		{"foo?", false},
		{"foo!", false},
		{"_ok", false},
		{"Foo", false},
		{"foo2", false},
		{"", true},
		{"9foo", true},
		{"foo bar", true},
		{"foo?bar", true},
		{"foo-bar", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, atomNeedsQuotes(tt.name))
	}
}

func TestEscapeAtom(t *testing.T) {
	assert.Equal(t, `foo bar`, escapeAtom("foo bar"))
	assert.Equal(t, `a\"b`, escapeAtom(`a"b`))
	assert.Equal(t, `a\\b`, escapeAtom(`a\b`))
}
