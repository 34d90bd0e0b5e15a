package errors

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/scohen/ex-format/parser"
)

func TestTextFormatter_Format_WithPosition(t *testing.T) {
	tf := NewTextFormatter()

	err := &parser.ParseError{
		Pos: parser.Position{
			Filename: "lib/foo.ex",
			Line:     42,
			Column:   7,
		},
		Message: "unexpected token",
	}

	output := tf.Format(err)
	assert.Equal(t, "lib/foo.ex:42:7: unexpected token", output)
}

func TestTextFormatter_Format_WithoutFilename(t *testing.T) {
	tf := NewTextFormatter()

	err := &parser.ParseError{
		Pos:     parser.Position{Line: 3, Column: 1},
		Message: "unexpected end of input",
	}

	output := tf.Format(err)
	assert.Equal(t, "line 3, column 1: unexpected end of input", output)
}

func TestTextFormatter_Format_WithSourceContext(t *testing.T) {
	source := []byte("defmodule Foo do\n  def bar( do\nend\n")
	tf := NewTextFormatter(WithSource(source))

	err := &parser.ParseError{
		Pos: parser.Position{
			Filename: "lib/foo.ex",
			Line:     2,
			Column:   11,
		},
		Message: "lib/foo.ex:2:11: unexpected token",
	}

	output := tf.Format(err)

	assert.Contains(t, output, "lib/foo.ex:2:11: unexpected token")
	assert.Contains(t, output, "def bar( do")

	// The caret line sits directly under the offending line, pointing
	// at the error column.
	lines := strings.Split(output, "\n")
	caretIdx := -1
	for i, line := range lines {
		if strings.Contains(line, "def bar( do") {
			caretIdx = i + 1
		}
	}
	assert.True(t, caretIdx > 0)
	assert.Equal(t, "   "+strings.Repeat(" ", 10)+"^", lines[caretIdx])
}

func TestTextFormatter_Format_PlainError(t *testing.T) {
	tf := NewTextFormatter()

	output := tf.Format(assertableError("boom"))
	assert.Equal(t, "boom", output)
}

type assertableError string

func (e assertableError) Error() string { return string(e) }

func TestTextFormatter_FormatAll(t *testing.T) {
	tf := NewTextFormatter()

	errs := []error{
		&parser.ParseError{Pos: parser.Position{Filename: "a.ex", Line: 1, Column: 1}, Message: "first"},
		&parser.ParseError{Pos: parser.Position{Filename: "b.ex", Line: 2, Column: 2}, Message: "second"},
	}

	output := tf.FormatAll(errs)
	assert.Equal(t, "a.ex:1:1: first\n\nb.ex:2:2: second", output)
}

func TestTextFormatter_FormatAll_Empty(t *testing.T) {
	tf := NewTextFormatter()
	assert.Equal(t, "", tf.FormatAll(nil))
}

func TestJSONFormatter_Format(t *testing.T) {
	jf := NewJSONFormatter()

	err := &parser.ParseError{
		Pos: parser.Position{
			Filename: "lib/foo.ex",
			Line:     4,
			Column:   9,
		},
		Message: "unexpected token",
	}

	output := jf.Format(err)
	assert.Contains(t, output, `"message":"lib/foo.ex:4:9: unexpected token"`)
	assert.Contains(t, output, `"filename":"lib/foo.ex"`)
	assert.Contains(t, output, `"line":4`)
	assert.Contains(t, output, `"column":9`)
}

func TestJSONFormatter_FormatAllToSlice(t *testing.T) {
	jf := NewJSONFormatter()

	errs := []error{
		&parser.ParseError{Pos: parser.Position{Filename: "a.ex", Line: 1, Column: 2}, Message: "first"},
		assertableError("plain"),
	}

	result := jf.FormatAllToSlice(errs)
	assert.Equal(t, 2, len(result))

	assert.NotZero(t, result[0].Position)
	assert.Equal(t, "a.ex", result[0].Position.Filename)
	assert.Equal(t, 1, result[0].Position.Line)
	assert.Equal(t, 2, result[0].Position.Column)

	// Plain errors carry no position.
	assert.Equal(t, "plain", result[1].Message)
	assert.True(t, result[1].Position == nil)
}
