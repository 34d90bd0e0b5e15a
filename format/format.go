// Package format re-renders a parsed syntax tree back into canonical,
// idiomatically laid-out source text, preserving the programmer's comments
// and blank-line structure. The output is semantically identical to the
// input and stable under re-application.
//
// The pipeline runs annotate → render → reinject within a single Format
// call. All mutable state (the source line ledger, the contextual render
// state) is scoped to that call, so independent files may be formatted
// concurrently by parallel invocations without locking.
package format

import (
	"context"
	"io"

	"github.com/scohen/ex-format/ast"
	"github.com/scohen/ex-format/telemetry"
)

// DefaultParenlessCalls are the identifiers treated a priori as
// parenthesis-free call targets: declaration and control forms.
var DefaultParenlessCalls = []string{
	"defmodule", "def", "defp", "defmacro", "defmacrop", "defguard",
	"defguardp", "defstruct", "defexception", "defimpl", "defprotocol",
	"defdelegate", "defoverridable",
	"if", "unless", "case", "cond", "for", "with", "try", "receive",
	"quote", "unquote",
	"import", "alias", "require", "use",
	"raise", "reraise", "throw", "send",
	"test", "describe", "setup", "assert", "refute",
}

// Formatter formats parsed source trees in the canonical style.
type Formatter struct {
	// MaxWidth is the line-fit column threshold. Default 80.
	MaxWidth int

	// ParenlessCalls is the seed set of identifiers rendered without
	// argument parentheses, extended per invocation by the targets the
	// annotation pass discovers carrying trailing do-blocks.
	ParenlessCalls []string
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

// WithMaxWidth sets the line-fit column threshold.
func WithMaxWidth(width int) Option {
	return func(f *Formatter) {
		f.MaxWidth = width
	}
}

// WithParenlessCalls replaces the seed set of parenthesis-free call
// targets.
func WithParenlessCalls(names []string) Option {
	return func(f *Formatter) {
		f.ParenlessCalls = names
	}
}

// New creates a new Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		MaxWidth:       DefaultMaxWidth,
		ParenlessCalls: DefaultParenlessCalls,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Format runs the full pipeline over an annotated tree and its raw source,
// writing the newline-terminated result to w. The tree must come from
// parsing src: the ledger built from src supplies the comments and blank
// lines that are not represented in the tree itself.
func (f *Formatter) Format(ctx context.Context, tree ast.Node, src []byte, w io.Writer) error {
	collector := telemetry.FromContext(ctx)

	led := NewLedger(src)

	timer := collector.Start("annotate")
	info := Annotate(tree, led)
	timer.End()

	state := State{Parenless: make(map[string]bool, len(f.ParenlessCalls)+len(info.Parenless))}
	for _, name := range f.ParenlessCalls {
		state.Parenless[name] = true
	}
	for name := range info.Parenless {
		state.Parenless[name] = true
	}

	decorate := func(n ast.Node, text string) string {
		m := n.Layout()
		if m.PrefixComments != "" {
			text = m.PrefixComments + "\n" + text
		}
		if m.PrefixBlank {
			text = "\n" + text
		}
		if m.SuffixComments != "" {
			text = text + "\n" + m.SuffixComments
		}
		return text
	}

	timer = collector.Start("render")
	out := Render(tree, decorate, state, f.MaxWidth)
	timer.End()

	timer = collector.Start("reinject")
	out = reinject(out, led)
	timer.End()

	_, err := w.Write([]byte(out))
	return err
}
