package format

import (
	"strings"

	"github.com/scohen/ex-format/ast"
)

// defForms are the definition heads whose first argument is subject to
// zero-arity normalization.
var defForms = map[string]bool{
	"def": true, "defp": true, "defmacro": true, "defmacrop": true,
}

// Analysis is the traversal-wide information derived by Annotate.
type Analysis struct {
	// Parenless is the set of call targets discovered to take the
	// parenthesis-free call with trailing block form.
	Parenless map[string]bool
}

// Annotate performs the single top-down pass over the tree: it attaches
// layout metadata (prefix comments, blank-line flags, trailing comments)
// to every sequence element using the ledger, normalizes zero-argument
// references in definition heads and pipe targets into explicit calls, and
// records which call targets carry trailing do-blocks.
//
// Metadata is written into the nodes in place; the ledger is mutated only
// by consuming the comment lines that get attached.
func Annotate(tree ast.Node, led *Ledger) *Analysis {
	a := &annotator{
		led:  led,
		root: tree,
		info: &Analysis{Parenless: make(map[string]bool)},
	}
	ast.Walk(tree, a.visit)
	return a.info
}

type annotator struct {
	led  *Ledger
	root ast.Node
	info *Analysis
}

func (a *annotator) visit(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.Block:
		a.annotateSequence(v.Exprs, v.Line, v == a.root)

	case *ast.Clauses:
		nodes := make([]ast.Node, len(v.List))
		for i, c := range v.List {
			nodes[i] = c
		}
		a.annotateSequence(nodes, v.Line, false)

	case *ast.Call:
		if len(v.Blocks) > 0 || hasBlockKeywords(v.Args) {
			if name := v.TargetName(); name != "" {
				a.info.Parenless[name] = true
			}
		}
		if defForms[v.TargetName()] && len(v.Args) > 0 {
			v.Args[0] = normalizeZeroArity(v.Args[0])
		}

	case *ast.BinaryOp:
		if v.Op == "|>" {
			if bare, ok := v.Right.(*ast.Var); ok {
				v.Right = &ast.Call{Meta: bare.Meta, Target: bare}
			}
		}
	}
	return true
}

// hasBlockKeywords reports whether the trailing argument is a keyword
// list carrying a do: entry, the inline spelling of a block.
func hasBlockKeywords(args []ast.Node) bool {
	if len(args) == 0 {
		return false
	}
	l, ok := args[len(args)-1].(*ast.List)
	if !ok || !l.KeywordList() {
		return false
	}
	for _, e := range l.Elems {
		p, ok := e.(*ast.Pair)
		if !ok || !p.Shorthand {
			continue
		}
		if key, ok := p.Key.(*ast.Atom); ok && key.Name == "do" {
			return true
		}
	}
	return false
}

// normalizeZeroArity rewrites a bare identifier in a definition head into
// an explicit empty-argument call, so the renderer treats all heads
// uniformly. Guarded heads are normalized on their guarded side.
func normalizeZeroArity(head ast.Node) ast.Node {
	switch h := head.(type) {
	case *ast.Var:
		return &ast.Call{Meta: h.Meta, Target: h}
	case *ast.When:
		h.Left = normalizeZeroArity(h.Left)
		return h
	}
	return head
}

// annotateSequence attaches layout metadata to the elements of one
// sequence (a block body or a clause list). start is the line the sequence
// opens on; it bounds the upward comment walk of the first element so a
// file header or a comment directly under a do line finds a home.
func (a *annotator) annotateSequence(nodes []ast.Node, start int, topLevel bool) {
	prev := start
	if topLevel && prev == 0 {
		prev = 1
	}

	for i, n := range nodes {
		m := n.Layout()
		if m.Line == 0 {
			continue
		}
		m.PrevLine = prev
		if prev > 0 {
			m.PrefixComments, m.PrefixBlank = a.prefixContent(m.Line, prev)
		}
		prev = m.Line

		if topLevel && i == len(nodes)-1 {
			m.SuffixComments = a.suffixContent(subtreeLastLine(n) + 1)
		}
	}
}

// prefixContent walks lines upward from curr-1 while they are blank or
// comment lines. Comment lines are attached (earliest first) and consumed
// from the ledger; the walk stops at the first code line or once it passes
// prev. A blank line above the comment block becomes the blank flag; a
// blank between the comment block and the node is encoded as a trailing
// break on the comment text, so both gaps survive rendering.
func (a *annotator) prefixContent(curr, prev int) (string, bool) {
	var comments []string
	blankBelow := false
	blankAbove := false

	for l := curr - 1; l >= prev && l >= 1; l-- {
		text, ok := a.led.Line(l)
		if !ok {
			continue
		}
		if text == "" {
			if len(comments) == 0 {
				blankBelow = true
			} else {
				blankAbove = true
			}
			continue
		}
		if strings.HasPrefix(text, "#") {
			comments = append([]string{text}, comments...)
			a.led.Consume(l)
			continue
		}
		break
	}

	if curr-1 < prev {
		return "", false
	}

	joined := strings.Join(comments, "\n")
	if len(comments) > 0 && blankBelow {
		joined += "\n"
	}
	blank := blankAbove || (len(comments) == 0 && blankBelow)
	return joined, blank
}

// suffixContent walks downward from the given line collecting freestanding
// comments until the first code line or end of source. Used only for the
// final element of the top-level sequence.
func (a *annotator) suffixContent(from int) string {
	var comments []string

	for l := from; ; l++ {
		text, ok := a.led.Line(l)
		if !ok {
			if l > len(a.led.lines) {
				break
			}
			continue
		}
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "#") {
			comments = append(comments, text)
			a.led.Consume(l)
			continue
		}
		break
	}

	return strings.Join(comments, "\n")
}

// subtreeLastLine returns the greatest known source line in the subtree.
func subtreeLastLine(n ast.Node) int {
	last := 0
	ast.Walk(n, func(c ast.Node) bool {
		if l := c.Layout().Line; l > last {
			last = l
		}
		return true
	})
	return last
}
