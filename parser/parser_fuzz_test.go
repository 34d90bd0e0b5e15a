package parser

import (
	"context"
	"testing"
)

func FuzzParser(f *testing.F) {
	// Seed corpus with representative valid inputs
	seeds := []string{
		// Expressions
		"x = 1",
		"1 + 2 * 3",
		"a |> b |> c(1)",
		"a not in b",
		"1..10//2",
		"- -x",

		// Literals
		"1_000_000",
		"0xFF",
		"?a",
		":ok",
		`:"quoted atom"`,
		`"a#{b}c"`,
		"\"\"\"\nheredoc\n\"\"\"",
		"'charlist'",

		// Containers
		"[1, 2, 3]",
		"[a: 1, b: 2]",
		"{:ok, v}",
		"%{a: 1}",
		`%{"k" => v}`,
		"%{m | a: 1}",
		"%Foo.Bar{a: 1}",
		"<<1, 2, x::8>>",
		"a[k]",

		// Calls
		"foo(a, b)",
		"foo a, b",
		"Foo.bar(1)",
		"f.(1)",
		"@doc \"hello\"",
		"if x, do: y",

		// Captures and anonymous functions
		"&foo/1",
		"&Mod.fun/2",
		"&(&1 + &2)",
		"fn x -> x + 1 end",
		"fn\n  0 -> :zero\n  _ -> :other\nend",

		// Definitions and blocks
		"defmodule Foo do\n  def bar(x) when x > 0 do\n    x\n  end\nend",
		"case x do\n  {:ok, v} -> v\n  :error -> nil\nend",
		"try do\n  foo()\nrescue\n  e -> bar(e)\nafter\n  :ok\nend",
		"with {:ok, a} <- f(),\n     {:ok, b} <- g(a) do\n  {a, b}\nend",

		// Separators and comments
		"a = 1; b = 2",
		"# comment\nx = 1 # trailing",

		// Edge cases
		"",           // Empty input
		"  \n\n  \n", // Whitespace only
		"# only\n",   // Comment only
		"foo(",       // Unclosed call
		")",          // Stray paren
		"fn end",     // fn without clauses
	}

	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		// CRITICAL: Parser must never panic on any input
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Parser panicked on input %q: %v", data, r)
			}
		}()

		ctx := context.Background()
		tree, err := ParseBytes(ctx, data)

		// Validate invariants
		if err == nil {
			if tree == nil {
				t.Error("ParseBytes returned nil tree with nil error")
			}
		}
		// If err != nil, that's expected for invalid syntax - parser handled it gracefully
	})
}
