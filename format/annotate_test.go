package format

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/scohen/ex-format/ast"
	"github.com/scohen/ex-format/parser"
)

func annotateSource(t *testing.T, src string) (*ast.Block, *Ledger, *Analysis) {
	t.Helper()
	tree := parser.MustParseBytes([]byte(src))
	led := NewLedger([]byte(src))
	info := Annotate(tree, led)
	return tree, led, info
}

func TestAnnotatePrefixComment(t *testing.T) {
	tree, led, _ := annotateSource(t, "x = 1\n\n# note\ny = 2\n")

	assert.Equal(t, 2, len(tree.Exprs))

	m := tree.Exprs[1].Layout()
	assert.Equal(t, "# note", m.PrefixComments)
	assert.True(t, m.PrefixBlank)
	assert.Equal(t, 1, m.PrevLine)

	// The attached comment line is consumed
	_, ok := led.Line(3)
	assert.False(t, ok)
}

func TestAnnotateHeaderCommentKeepsGap(t *testing.T) {
	tree, _, _ := annotateSource(t, "# header\n\nx = 1\n")

	m := tree.Exprs[0].Layout()
	// The blank sits between the comment block and the node, so it is
	// carried as a trailing break on the comment text.
	assert.Equal(t, "# header\n", m.PrefixComments)
	assert.False(t, m.PrefixBlank)
}

func TestAnnotateBlankWithoutComment(t *testing.T) {
	tree, _, _ := annotateSource(t, "x = 1\n\ny = 2\n")

	m := tree.Exprs[1].Layout()
	assert.Equal(t, "", m.PrefixComments)
	assert.True(t, m.PrefixBlank)
}

func TestAnnotateMultipleComments(t *testing.T) {
	tree, _, _ := annotateSource(t, "x = 1\n# first\n# second\ny = 2\n")

	m := tree.Exprs[1].Layout()
	assert.Equal(t, "# first\n# second", m.PrefixComments)
	assert.False(t, m.PrefixBlank)
}

func TestAnnotateSuffixComment(t *testing.T) {
	tree, led, _ := annotateSource(t, "x = 1\n# bye\n")

	m := tree.Exprs[0].Layout()
	assert.Equal(t, "# bye", m.SuffixComments)

	_, ok := led.Line(2)
	assert.False(t, ok)
}

func TestAnnotateCommentInsideDoBlock(t *testing.T) {
	tree, _, _ := annotateSource(t, "defmodule Foo do\n  # internal\n  def bar() do\n    :ok\n  end\nend\n")

	mod := tree.Exprs[0].(*ast.Call)
	body := mod.Blocks[0].Body.(*ast.Block)
	m := body.Exprs[0].Layout()
	assert.Equal(t, "# internal", m.PrefixComments)
}

func TestAnnotateParenlessDiscovery(t *testing.T) {
	_, _, info := annotateSource(t, "walk do\n  :ok\nend\n")
	assert.True(t, info.Parenless["walk"])
}

func TestAnnotateKeywordBlockDiscovery(t *testing.T) {
	_, _, info := annotateSource(t, "custom x, do: y\n")
	assert.True(t, info.Parenless["custom"])

	// Keywords without a do: entry do not qualify
	_, _, info = annotateSource(t, "plot x, color: :red\n")
	assert.False(t, info.Parenless["plot"])
}

func TestAnnotateZeroArityDefHead(t *testing.T) {
	tree, _, _ := annotateSource(t, "def foo do\n  :ok\nend\n")

	def := tree.Exprs[0].(*ast.Call)
	head, ok := def.Args[0].(*ast.Call)
	assert.True(t, ok)

	target, ok := head.Target.(*ast.Var)
	assert.True(t, ok)
	assert.Equal(t, "foo", target.Name)
	assert.Equal(t, 0, len(head.Args))
}

func TestAnnotateZeroArityGuardedHead(t *testing.T) {
	tree, _, _ := annotateSource(t, "def foo when true do\n  :ok\nend\n")

	def := tree.Exprs[0].(*ast.Call)
	when, ok := def.Args[0].(*ast.When)
	assert.True(t, ok)

	_, ok = when.Left.(*ast.Call)
	assert.True(t, ok)
}

func TestAnnotateZeroArityPipeTarget(t *testing.T) {
	tree, _, _ := annotateSource(t, "x |> f\n")

	pipe := tree.Exprs[0].(*ast.BinaryOp)
	call, ok := pipe.Right.(*ast.Call)
	assert.True(t, ok)

	target, ok := call.Target.(*ast.Var)
	assert.True(t, ok)
	assert.Equal(t, "f", target.Name)
}

func TestAnnotateClauseSequence(t *testing.T) {
	tree, _, _ := annotateSource(t, "case x do\n  # happy path\n  {:ok, v} -> v\n  :error -> nil\nend\n")

	call := tree.Exprs[0].(*ast.Call)
	clauses := call.Blocks[0].Body.(*ast.Clauses)
	assert.Equal(t, 2, len(clauses.List))

	m := clauses.List[0].Layout()
	assert.Equal(t, "# happy path", m.PrefixComments)
}
