package format_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/scohen/ex-format/format"
	"github.com/scohen/ex-format/parser"
)

func FuzzFormatter(f *testing.F) {
	// Seed corpus - only valid source
	seeds := []string{
		// Expressions
		"x = 1 + 2 * 3",
		"a |> b() |> c(1)",
		"(1 + 2) * 3",

		// Literals and containers
		"1_000_000",
		"[1, 2, 3]",
		"[a: 1, b: 2]",
		"%{m | a: 1}",
		"%Foo{a: 1}",
		"<<1, x::8>>",
		`"a#{b}c"`,

		// Calls and captures
		"foo(a, b)",
		"Foo.bar",
		"&(&1 + &2)",
		"@spec foo :: integer",

		// Definitions
		"defmodule Foo do\n  def bar() do\n    :ok\n  end\nend",
		"def baz(x) when x > 0 do\n  x\nend",

		// Blocks
		"case x do\n  {:ok, v} -> v\n  :error -> nil\nend",
		"if x do\n  y\nelse\n  z\nend",
		"fn x -> x + 1 end",

		// Comments and blanks
		"# header\nx = 1\n",
		"x = 1 # inline\n",
		"a = 1\n\nb = 2\n",

		// Multiline layout
		"foo(\n  aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa,\n  bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb,\n)",
	}

	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		// CRITICAL: Must never panic
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Formatter panicked: %v\nInput: %q", r, data)
			}
		}()

		ctx := context.Background()

		// Parse original (filter invalid inputs)
		tree1, err := parser.ParseBytes(ctx, data)
		if err != nil {
			return // Skip invalid inputs - the formatter only works on valid syntax
		}

		// Format
		var buf bytes.Buffer
		fmtr := format.New()
		if err := fmtr.Format(ctx, tree1, data, &buf); err != nil {
			t.Errorf("Format failed: %v", err)
			return
		}

		formatted := buf.Bytes()

		// Property 1: the output parses again
		tree2, err := parser.ParseBytes(ctx, formatted)
		if err != nil {
			t.Errorf("Re-parsing failed: %v\nOriginal: %q\nFormatted: %q", err, data, formatted)
			return
		}

		// Property 2: formatting the output changes nothing
		var buf2 bytes.Buffer
		if err := format.New().Format(ctx, tree2, formatted, &buf2); err != nil {
			t.Errorf("Second format failed: %v", err)
			return
		}

		if !bytes.Equal(buf.Bytes(), buf2.Bytes()) {
			t.Errorf("Not idempotent:\nFirst:  %q\nSecond: %q", buf.Bytes(), buf2.Bytes())
		}
	})
}
