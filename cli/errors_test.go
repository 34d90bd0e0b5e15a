package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/scohen/ex-format/parser"
)

func TestErrorRenderer_RenderParseErrorWithSourceContext(t *testing.T) {
	sourceContent := `defmodule Foo do
  def bar() do
    :ok
  end

  def baz( do
    :ok
  end
end`

	parseErr := &parser.ParseError{
		Pos: parser.Position{
			Filename: "lib/foo.ex",
			Line:     6,
			Column:   11,
		},
		Message: "unexpected token",
	}

	renderer := NewErrorRenderer([]byte(sourceContent))
	output := renderer.Render(parseErr)

	// Verify the output contains the error message
	assert.Contains(t, output, "unexpected token")

	// Verify the output contains the filename and position
	assert.Contains(t, output, "lib/foo.ex:6:11")

	// Verify the output contains the offending source line
	assert.Contains(t, output, "def baz( do")

	// Verify the caret is present
	assert.Contains(t, output, "^")

	// Verify the source lines are indented with 3 spaces
	lines := strings.Split(output, "\n")
	foundIndentedLine := false
	for _, line := range lines {
		if strings.HasPrefix(line, "   ") && strings.Contains(line, "def baz( do") {
			foundIndentedLine = true
			break
		}
	}
	assert.True(t, foundIndentedLine, "Expected indented source lines")
}

func TestErrorRenderer_RenderParseErrorWithoutSourceContext(t *testing.T) {
	parseErr := &parser.ParseError{
		Pos: parser.Position{
			Filename: "lib/foo.ex",
			Line:     6,
			Column:   11,
		},
		Message: "unexpected token",
	}

	renderer := NewErrorRenderer(nil)
	output := renderer.Render(parseErr)

	// Should fall back to basic position formatting
	assert.Contains(t, output, "lib/foo.ex:6:11: unexpected token")
}

func TestErrorRenderer_RenderWithSourceContext_BoundsChecking(t *testing.T) {
	// Error on the first line must not underflow the context window
	sourceContent := `def bar( do
  :ok
end`

	parseErr := &parser.ParseError{
		Pos: parser.Position{
			Filename: "lib/foo.ex",
			Line:     1,
			Column:   10,
		},
		Message: "unexpected token",
	}

	renderer := NewErrorRenderer([]byte(sourceContent))
	output := renderer.Render(parseErr)

	// Should not panic and should include source lines
	assert.Contains(t, output, "def bar( do")
	assert.Contains(t, output, "^")
}

func TestErrorRenderer_RenderAll(t *testing.T) {
	errs := []error{
		&parser.ParseError{Pos: parser.Position{Filename: "a.ex", Line: 1, Column: 1}, Message: "first"},
		&parser.ParseError{Pos: parser.Position{Filename: "b.ex", Line: 2, Column: 2}, Message: "second"},
	}

	renderer := NewErrorRenderer(nil)
	output := renderer.RenderAll(errs)

	assert.Contains(t, output, "a.ex:1:1: first")
	assert.Contains(t, output, "b.ex:2:2: second")
	assert.Contains(t, output, "\n\n")
}

func TestErrorRenderer_RenderAllEmpty(t *testing.T) {
	renderer := NewErrorRenderer(nil)
	assert.Equal(t, "", renderer.RenderAll(nil))
}
