// Package exformat is the top-level entry point for formatting Elixir
// source code: parse it, re-render it in the canonical style, and get the
// result back with comments and blank-line structure preserved.
//
// Example usage:
//
//	out, err := exformat.Format(ctx, src)
//	if err != nil {
//		// src did not parse
//	}
//	os.Stdout.Write(out)
package exformat

import (
	"bytes"
	"context"

	"github.com/scohen/ex-format/ast"
	"github.com/scohen/ex-format/format"
	"github.com/scohen/ex-format/parser"
)

// Parse parses source text into its syntax tree.
func Parse(ctx context.Context, src []byte) (*ast.Block, error) {
	return parser.ParseBytes(ctx, src)
}

// Format parses src and renders it in the canonical style. The output is
// newline-terminated and stable: formatting it again returns it
// unchanged.
func Format(ctx context.Context, src []byte, opts ...format.Option) ([]byte, error) {
	tree, err := parser.ParseBytes(ctx, src)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := format.New(opts...).Format(ctx, tree, src, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
