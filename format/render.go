package format

import (
	"strings"

	"github.com/alecthomas/repr"
	"github.com/mattn/go-runewidth"

	"github.com/scohen/ex-format/ast"
)

// DefaultMaxWidth is the column threshold of the line-fit heuristic.
const DefaultMaxWidth = 80

// Decorator is the caller-supplied hook invoked on every node after its
// text is computed, used to splice in the node's leading and trailing
// layout metadata.
type Decorator func(n ast.Node, text string) string

// State is the contextual render state threaded through the recursion: the
// set of call targets permitted to render without argument parentheses,
// and whether bare zero-arity references are allowed in this position
// (enabled inside type-annotation operator subtrees).
type State struct {
	Parenless map[string]bool
	ZeroArity bool
}

// Render linearizes the annotated node into source text. It is a pure
// function of its inputs: deterministic, synchronous, total over
// well-formed trees. Node shapes outside the modeled grammar surface fall
// back to a literal-inspection rendering rather than failing.
func Render(n ast.Node, decorate Decorator, st State, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	r := &renderer{decorate: decorate, maxWidth: maxWidth}
	return r.render(n, st)
}

type renderer struct {
	decorate Decorator
	maxWidth int
}

func (r *renderer) render(n ast.Node, st State) string {
	text := r.renderNode(n, st)
	if r.decorate != nil {
		text = r.decorate(n, text)
	}
	return text
}

func (r *renderer) renderNode(n ast.Node, st State) string {
	switch v := n.(type) {
	case *ast.Var:
		return v.Name
	case *ast.Alias:
		return strings.Join(v.Segments, ".")
	case *ast.Atom:
		return renderAtom(v)
	case *ast.Integer:
		return formatInteger(v)
	case *ast.Float:
		return v.Raw
	case *ast.StringLit:
		return r.renderSegments(v.Segments, v.Heredoc, `"`, st)
	case *ast.CharList:
		return r.renderSegments(v.Segments, v.Heredoc, `'`, st)
	case *ast.List:
		return r.renderList(v, st)
	case *ast.Pair:
		return r.renderPair(v, st)
	case *ast.Tuple:
		return r.renderContainer("{", "}", v.Elems, st)
	case *ast.MapLit:
		return r.renderMap(v, "%{", st)
	case *ast.StructLit:
		return r.renderMap(v.Map, "%"+r.render(v.Name, st)+"{", st)
	case *ast.Bitstring:
		return r.renderContainer("<<", ">>", v.Parts, st)
	case *ast.Range:
		return r.renderRange(v, st)
	case *ast.Block:
		return r.renderBlock(v, st)
	case *ast.Clauses:
		return r.renderClauses(v, st)
	case *ast.Clause:
		return r.renderClause(v, st)
	case *ast.Fn:
		return r.renderFn(v, st)
	case *ast.When:
		return r.renderWhen(v, st)
	case *ast.BinaryOp:
		return r.renderBinaryOp(v, st)
	case *ast.UnaryOp:
		return r.renderUnaryOp(v, st)
	case *ast.Capture:
		return r.renderCapture(v, st)
	case *ast.Access:
		return r.renderAccess(v, st)
	case *ast.Dot:
		return r.renderDot(v, st)
	case *ast.Call:
		return r.renderCall(v, st)
	case *ast.Raw:
		return v.Text
	default:
		// Exhaustiveness gap: trade fidelity for total coverage.
		return repr.String(n)
	}
}

// fitsOneLine decides whether a single-line candidate survives: it must
// contain no break, measure within the column threshold, and all the given
// child nodes must originate on the same source line.
func (r *renderer) fitsOneLine(s string, nodes ...ast.Node) bool {
	if strings.Contains(s, "\n") {
		return false
	}
	if runewidth.StringWidth(s) > r.maxWidth {
		return false
	}
	line := 0
	for _, n := range nodes {
		if n == nil {
			continue
		}
		l := n.Layout().Line
		if l == 0 {
			continue
		}
		if line == 0 {
			line = l
		} else if l != line {
			return false
		}
	}
	return true
}

// indent shifts every embedded line of an already-rendered fragment by one
// level.
func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}

// multilineLayout renders one element per line with a trailing separator
// before the closing delimiter.
func multilineLayout(open, close string, items []string) string {
	var b strings.Builder
	b.WriteString(open)
	for _, it := range items {
		b.WriteString("\n  ")
		b.WriteString(indent(it))
		b.WriteString(",")
	}
	b.WriteString("\n")
	b.WriteString(close)
	return b.String()
}

func renderAtom(a *ast.Atom) string {
	if a.Bare {
		return a.Name
	}
	if a.Quoted {
		// Quoted names keep their source escapes verbatim.
		return `:"` + a.Name + `"`
	}
	if atomNeedsQuotes(a.Name) {
		return `:"` + escapeAtom(a.Name) + `"`
	}
	return ":" + a.Name
}

func (r *renderer) renderSegments(segs []ast.Segment, heredoc bool, quote string, st State) string {
	var b strings.Builder
	if heredoc {
		b.WriteString(quote + quote + quote)
		b.WriteString("\n")
	} else {
		b.WriteString(quote)
	}
	for _, seg := range segs {
		if seg.Expr != nil {
			b.WriteString("#{")
			b.WriteString(r.render(seg.Expr, st))
			b.WriteString("}")
			continue
		}
		b.WriteString(seg.Text)
	}
	if heredoc {
		b.WriteString(quote + quote + quote)
	} else {
		b.WriteString(quote)
	}
	return b.String()
}

func (r *renderer) renderList(l *ast.List, st State) string {
	items := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		items[i] = r.render(e, st)
	}
	single := "[" + strings.Join(items, ", ") + "]"
	if len(items) == 0 || r.fitsOneLine(single, l.Elems...) {
		return single
	}
	return multilineLayout("[", "]", items)
}

func (r *renderer) renderPair(p *ast.Pair, st State) string {
	if p.Shorthand {
		if key, ok := p.Key.(*ast.Atom); ok {
			name := key.Name
			if key.Quoted {
				name = `"` + name + `"`
			} else if atomNeedsQuotes(name) {
				name = `"` + escapeAtom(name) + `"`
			}
			return name + ": " + r.render(p.Value, st)
		}
	}
	return r.render(p.Key, st) + " => " + r.render(p.Value, st)
}

func (r *renderer) renderContainer(open, close string, elems []ast.Node, st State) string {
	items := make([]string, len(elems))
	for i, e := range elems {
		items[i] = r.render(e, st)
	}
	single := open + strings.Join(items, ", ") + close
	if len(items) == 0 || r.fitsOneLine(single, elems...) {
		return single
	}
	return multilineLayout(open, close, items)
}

func (r *renderer) renderMap(m *ast.MapLit, open string, st State) string {
	items := make([]string, len(m.Pairs))
	for i, p := range m.Pairs {
		items[i] = r.render(p, st)
	}

	if m.Base != nil {
		base := r.render(m.Base, st)
		single := open + base + " | " + strings.Join(items, ", ") + "}"
		children := append([]ast.Node{m.Base}, m.Pairs...)
		if len(items) == 0 || r.fitsOneLine(single, children...) {
			return single
		}
		return multilineLayout(open+base+" |", "}", items)
	}

	single := open + strings.Join(items, ", ") + "}"
	if len(items) == 0 || r.fitsOneLine(single, m.Pairs...) {
		return single
	}
	return multilineLayout(open, "}", items)
}

func (r *renderer) renderRange(n *ast.Range, st State) string {
	info := binaryOps[".."]
	out := r.operand(n.From, info, true, st) + ".." + r.operand(n.To, info, false, st)
	if n.Step != nil {
		out += "//" + r.operand(n.Step, info, false, st)
	}
	return out
}

func (r *renderer) renderBlock(b *ast.Block, st State) string {
	parts := make([]string, len(b.Exprs))
	for i, e := range b.Exprs {
		parts[i] = r.render(e, st)
	}
	return strings.Join(parts, "\n")
}

func (r *renderer) renderClauses(c *ast.Clauses, st State) string {
	parts := make([]string, len(c.List))
	for i, cl := range c.List {
		parts[i] = r.render(cl, st)
	}
	return strings.Join(parts, "\n")
}

func (r *renderer) renderClause(c *ast.Clause, st State) string {
	head := r.clauseHead(c, st)
	body := r.render(c.Body, st)

	if len(c.Body.Exprs) == 1 {
		single := head + " -> " + body
		var bodyNode ast.Node
		if len(c.Body.Exprs) > 0 {
			bodyNode = c.Body.Exprs[0]
		}
		if r.fitsOneLine(single, c, bodyNode) {
			return single
		}
	}
	return head + " ->\n  " + indent(body)
}

func (r *renderer) clauseHead(c *ast.Clause, st State) string {
	pats := make([]string, len(c.Patterns))
	for i, p := range c.Patterns {
		pats[i] = r.render(p, st)
	}
	head := strings.Join(pats, ", ")
	if c.Guard != nil {
		head += " when " + r.render(c.Guard, st)
	}
	return head
}

func (r *renderer) renderFn(f *ast.Fn, st State) string {
	if len(f.Clauses) == 1 {
		c := f.Clauses[0]
		head := r.clauseHead(c, st)
		body := r.render(c.Body, st)

		open := "fn"
		if head != "" {
			open += " " + head
		}

		if len(c.Body.Exprs) == 1 {
			single := open + " -> " + body + " end"
			bodyNode := c.Body.Exprs[0]
			if r.fitsOneLine(single, c, bodyNode) {
				return single
			}
		}
		return open + " ->\n  " + indent(body) + "\nend"
	}

	parts := make([]string, len(f.Clauses))
	for i, c := range f.Clauses {
		parts[i] = r.render(c, st)
	}
	return "fn\n  " + indent(strings.Join(parts, "\n")) + "\nend"
}

func (r *renderer) renderWhen(n *ast.When, st State) string {
	info := binaryOps["when"]
	left := r.operand(n.Left, info, true, st)
	guard := r.operand(n.Guard, info, false, st)

	single := left + " when " + guard
	if r.fitsOneLine(single, n.Left, n.Guard) {
		return single
	}
	return left + "\nwhen " + guard
}

func (r *renderer) renderBinaryOp(n *ast.BinaryOp, st State) string {
	info, known := binaryOps[n.Op]
	if !known {
		info = opInfo{170, assocLeft} // custom operators share the arrow class
	}

	childSt := st
	if n.Op == "::" {
		childSt.ZeroArity = true
	}

	left := r.operand(n.Left, info, true, childSt)
	right := r.operand(n.Right, info, false, childSt)

	single := left + " " + n.Op + " " + right
	if !longFormOps[n.Op] || r.fitsOneLine(single, n.Left, n.Right) {
		return single
	}

	if n.Op == "|>" {
		return left + "\n|> " + right
	}
	return left + " " + n.Op + "\n  " + indent(right)
}

// operand renders a child of a binary operator, parenthesizing it when its
// own precedence is strictly lower than the parent's, or equal with the
// opposite associativity side.
func (r *renderer) operand(child ast.Node, parent opInfo, isLeft bool, st State) string {
	text := r.render(child, st)
	info, ok := operandInfo(child)
	if !ok {
		return text
	}
	needs := info.prec < parent.prec ||
		(info.prec == parent.prec &&
			((parent.assoc == assocLeft && !isLeft) ||
				(parent.assoc == assocRight && isLeft)))
	if needs {
		return "(" + text + ")"
	}
	return text
}

// operandInfo reports the binding info of a node when it appears as an
// operand. Nodes that are not operator applications bind tightest and
// never need parentheses.
func operandInfo(n ast.Node) (opInfo, bool) {
	switch v := n.(type) {
	case *ast.BinaryOp:
		if info, ok := binaryOps[v.Op]; ok {
			return info, true
		}
		return opInfo{170, assocLeft}, true
	case *ast.When:
		return binaryOps["when"], true
	case *ast.Range:
		return binaryOps[".."], true
	}
	return opInfo{}, false
}

func (r *renderer) renderUnaryOp(n *ast.UnaryOp, st State) string {
	if n.Op == "@" {
		return r.renderAttribute(n, st)
	}

	text := r.render(n.Operand, st)
	if _, ok := operandInfo(n.Operand); ok {
		text = "(" + text + ")"
	} else if _, nested := n.Operand.(*ast.UnaryOp); nested {
		// --a would lex as the -- operator.
		text = "(" + text + ")"
	}

	if wordOps[n.Op] {
		return n.Op + " " + text
	}
	return n.Op + text
}

// renderAttribute lays out a module attribute: @name value, parenless.
func (r *renderer) renderAttribute(n *ast.UnaryOp, st State) string {
	if call, ok := n.Operand.(*ast.Call); ok && len(call.Blocks) == 0 {
		if name := call.TargetName(); name != "" {
			if len(call.Args) == 0 {
				return "@" + name
			}
			args := r.renderArgs(call.Args, st)
			return "@" + name + " " + strings.Join(args, ", ")
		}
	}
	return "@" + r.render(n.Operand, st)
}

func (r *renderer) renderCapture(c *ast.Capture, st State) string {
	switch t := c.Target.(type) {
	case *ast.BinaryOp:
		// Arity references keep the tight name/arity spelling.
		if t.Op == "/" && captureArityRef(t) {
			return "&" + r.render(t.Left, st) + "/" + r.render(t.Right, st)
		}
	case *ast.Call:
		if len(t.Blocks) == 0 {
			return "&" + r.render(c.Target, st)
		}
	case *ast.Var, *ast.Dot:
		return "&" + r.render(c.Target, st)
	}
	return "&(" + r.render(c.Target, st) + ")"
}

// captureArityRef reports the &name/arity shape.
func captureArityRef(b *ast.BinaryOp) bool {
	if _, ok := b.Right.(*ast.Integer); !ok {
		return false
	}
	switch b.Left.(type) {
	case *ast.Var, *ast.Dot:
		return true
	}
	return false
}

func (r *renderer) renderAccess(a *ast.Access, st State) string {
	base := r.render(a.Base, st)
	if _, ok := operandInfo(a.Base); ok {
		base = "(" + base + ")"
	}
	return base + "[" + r.render(a.Key, st) + "]"
}

func (r *renderer) renderDot(d *ast.Dot, st State) string {
	base := r.render(d.Base, st)
	if _, ok := operandInfo(d.Base); ok {
		base = "(" + base + ")"
	}
	return base + "." + d.Name
}

// renderArgs renders a call argument list, merging a trailing keyword list
// into the arguments without its enclosing brackets.
func (r *renderer) renderArgs(args []ast.Node, st State) []string {
	var out []string
	for i, a := range args {
		if i == len(args)-1 {
			if l, ok := a.(*ast.List); ok && l.KeywordList() {
				for _, p := range l.Elems {
					out = append(out, r.render(p, st))
				}
				continue
			}
		}
		out = append(out, r.render(a, st))
	}
	return out
}

func (r *renderer) renderCall(c *ast.Call, st State) string {
	target := r.render(c.Target, st)
	name := c.TargetName()

	parenless := len(c.Blocks) > 0 || (name != "" && st.Parenless[name])

	bare := false
	if len(c.Args) == 0 && len(c.Blocks) == 0 {
		if st.ZeroArity {
			bare = true
		}
		if d, ok := c.Target.(*ast.Dot); ok {
			switch d.Base.(type) {
			case *ast.Alias, *ast.Atom:
				bare = true
			}
		}
	}

	args := r.renderArgs(c.Args, st)

	var head string
	switch {
	case bare:
		head = target
	case parenless && len(args) > 0:
		head = target + " " + strings.Join(args, ", ")
	case parenless:
		head = target
	default:
		head = target + "(" + strings.Join(args, ", ") + ")"
		if len(args) > 0 && !r.fitsOneLine(head, c.Args...) {
			head = target + multilineLayout("(", ")", args)
		}
	}

	if len(c.Blocks) > 0 {
		head += r.renderBlocks(c.Blocks, st)
	}
	return head
}

func (r *renderer) renderBlocks(blocks []*ast.BlockItem, st State) string {
	var b strings.Builder
	for _, item := range blocks {
		if item.Key == "do" {
			b.WriteString(" do")
		} else {
			b.WriteString("\n" + item.Key)
		}
		body := r.render(item.Body, st)
		if body != "" {
			b.WriteString("\n  ")
			b.WriteString(indent(body))
		}
	}
	b.WriteString("\nend")
	return b.String()
}
