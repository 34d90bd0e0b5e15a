// Package ast declares the types used to represent syntax trees for
// Elixir-style source files.
//
// The tree is produced by the parser package and consumed by the format
// package. Nodes form a closed set of tagged variants; the renderer matches
// on the concrete types exhaustively. Each node embeds a Meta block carrying
// layout metadata (originating line, attached comments, blank-line flags)
// that is not part of the syntactic structure itself. The metadata is filled
// in by the formatter's annotation pass, never by the parser.
package ast

// Meta carries per-node layout metadata.
//
// Line and PrevLine are 1-indexed source lines; zero means unknown. The
// comment fields are populated during annotation from the source line
// ledger and spliced into the rendered output by the decorate hook.
type Meta struct {
	// Line is the source line the node originates from.
	Line int

	// PrevLine is the line of the preceding sibling at the same nesting
	// level. Used for blank-line and same-line layout decisions.
	PrevLine int

	// PrefixComments is a block of comment lines emitted before the node.
	PrefixComments string

	// PrefixBlank requests one blank line before the node.
	PrefixBlank bool

	// SuffixComments is a block of freestanding comments that follow the
	// node. Only the final node of a top-level sequence carries these.
	SuffixComments string
}

// Layout returns the node's layout metadata for in-place mutation.
func (m *Meta) Layout() *Meta { return m }

// Node is the interface implemented by every syntax tree node.
type Node interface {
	Layout() *Meta
	node()
}

// Walk traverses the tree rooted at n in depth-first, source order,
// calling visit for every node. If visit returns false the node's
// children are skipped.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}

	switch v := n.(type) {
	case *Block:
		for _, e := range v.Exprs {
			Walk(e, visit)
		}
	case *List:
		for _, e := range v.Elems {
			Walk(e, visit)
		}
	case *Tuple:
		for _, e := range v.Elems {
			Walk(e, visit)
		}
	case *Bitstring:
		for _, e := range v.Parts {
			Walk(e, visit)
		}
	case *Pair:
		Walk(v.Key, visit)
		Walk(v.Value, visit)
	case *MapLit:
		Walk(v.Base, visit)
		for _, p := range v.Pairs {
			Walk(p, visit)
		}
	case *StructLit:
		Walk(v.Name, visit)
		Walk(v.Map, visit)
	case *Range:
		Walk(v.From, visit)
		Walk(v.To, visit)
		Walk(v.Step, visit)
	case *Fn:
		for _, c := range v.Clauses {
			Walk(c, visit)
		}
	case *Clauses:
		for _, c := range v.List {
			Walk(c, visit)
		}
	case *Clause:
		for _, p := range v.Patterns {
			Walk(p, visit)
		}
		Walk(v.Guard, visit)
		Walk(v.Body, visit)
	case *When:
		Walk(v.Left, visit)
		Walk(v.Guard, visit)
	case *BinaryOp:
		Walk(v.Left, visit)
		Walk(v.Right, visit)
	case *UnaryOp:
		Walk(v.Operand, visit)
	case *Capture:
		Walk(v.Target, visit)
	case *Access:
		Walk(v.Base, visit)
		Walk(v.Key, visit)
	case *Dot:
		Walk(v.Base, visit)
	case *Call:
		Walk(v.Target, visit)
		for _, a := range v.Args {
			Walk(a, visit)
		}
		for _, b := range v.Blocks {
			Walk(b.Body, visit)
		}
	case *StringLit:
		for _, s := range v.Segments {
			Walk(s.Expr, visit)
		}
	case *CharList:
		for _, s := range v.Segments {
			Walk(s.Expr, visit)
		}
	}
}
