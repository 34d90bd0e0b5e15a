package ast

// NumStyle records the literal style a numeric literal was written in,
// so the renderer can reproduce it.
type NumStyle int

const (
	Decimal NumStyle = iota
	Hex
	Octal
	Binary
	Char
)

// Var is a bare identifier: a variable reference or a zero-argument
// function reference that has not been normalized to a call yet.
type Var struct {
	Meta
	Name string
}

// Alias is a module path such as Foo or Foo.Bar.Baz.
type Alias struct {
	Meta
	Segments []string
}

// Atom is an atom literal. Bare atoms (true, false, nil) render without a
// leading colon; Quoted atoms keep their original quoted spelling.
type Atom struct {
	Meta
	Name   string
	Bare   bool
	Quoted bool
}

// Integer is an integer literal. Raw holds the digits without prefix or
// underscore grouping; Style records the source notation. For Char style
// Raw holds the source text after the leading question mark.
type Integer struct {
	Meta
	Raw   string
	Style NumStyle
}

// Float is a floating point literal, preserved verbatim.
type Float struct {
	Meta
	Raw string
}

// Segment is one piece of an interpolated string or charlist: either
// literal text (Expr nil) or an interpolated sub-expression.
type Segment struct {
	Text string
	Expr Node
}

// StringLit is a double-quoted string or a """ heredoc.
type StringLit struct {
	Meta
	Segments []Segment
	Heredoc  bool
}

// CharList is a single-quoted charlist or a ''' heredoc.
type CharList struct {
	Meta
	Segments []Segment
	Heredoc  bool
}

// List is a list literal. A list whose elements are all keyword Pairs is a
// keyword list and renders as key: value entries.
type List struct {
	Meta
	Elems []Node
}

// Pair is a key-value entry in a keyword list or map. Shorthand pairs
// (atom key written as key:) render without the leading colon.
type Pair struct {
	Meta
	Key       Node
	Value     Node
	Shorthand bool
}

// Tuple is a tuple literal of any arity.
type Tuple struct {
	Meta
	Elems []Node
}

// MapLit is a map literal %{...}. A non-nil Base makes it the update form
// %{base | ...}.
type MapLit struct {
	Meta
	Base  Node
	Pairs []Node
}

// StructLit is a struct literal %Name{...}.
type StructLit struct {
	Meta
	Name Node
	Map  *MapLit
}

// Bitstring is a binary/bitstring literal <<...>>.
type Bitstring struct {
	Meta
	Parts []Node
}

// Range is from..to with an optional //step.
type Range struct {
	Meta
	From Node
	To   Node
	Step Node
}

// Block is a sequence of expressions: the top level of a compilation unit,
// a do-block body, or a clause body.
type Block struct {
	Meta
	Exprs []Node
}

// Clause is one pattern -> body arrow, optionally guarded.
type Clause struct {
	Meta
	Patterns []Node
	Guard    Node
	Body     *Block
}

// Clauses is a sequence of arrows, the body form used by case, cond,
// receive and friends.
type Clauses struct {
	Meta
	List []*Clause
}

// Fn is an anonymous function fn ... end.
type Fn struct {
	Meta
	Clauses []*Clause
}

// When is a guarded expression: left when guard. Distinct from the guard
// attached to a Clause.
type When struct {
	Meta
	Left  Node
	Guard Node
}

// BinaryOp is a binary operator application.
type BinaryOp struct {
	Meta
	Op    string
	Left  Node
	Right Node
}

// UnaryOp is a unary operator application, including the module attribute
// operator @.
type UnaryOp struct {
	Meta
	Op      string
	Operand Node
}

// Capture is a capture expression: &f/1, &Mod.f/2 or &(expr).
type Capture struct {
	Meta
	Target Node
}

// Access is bracket access: base[key].
type Access struct {
	Meta
	Base Node
	Key  Node
}

// Dot is member access or a qualified name: base.name.
type Dot struct {
	Meta
	Base Node
	Name string
}

// BlockItem is one section of a do-block: do, else, rescue, after or
// catch, with either a plain Block or a Clauses body.
type BlockItem struct {
	Key  string
	Body Node
}

// Call is a function invocation. A trailing do-block is carried in Blocks
// rather than in Args, so the renderer can lay the sections out and the
// annotation pass can record the target as parenless.
type Call struct {
	Meta
	Target Node
	Args   []Node
	Blocks []*BlockItem
}

// Raw is the fallback node for source shapes outside the modeled grammar
// surface. It renders verbatim.
type Raw struct {
	Meta
	Text string
}

func (*Var) node()       {}
func (*Alias) node()     {}
func (*Atom) node()      {}
func (*Integer) node()   {}
func (*Float) node()     {}
func (*StringLit) node() {}
func (*CharList) node()  {}
func (*List) node()      {}
func (*Pair) node()      {}
func (*Tuple) node()     {}
func (*MapLit) node()    {}
func (*StructLit) node() {}
func (*Bitstring) node() {}
func (*Range) node()     {}
func (*Block) node()     {}
func (*Clause) node()    {}
func (*Clauses) node()   {}
func (*Fn) node()        {}
func (*When) node()      {}
func (*BinaryOp) node()  {}
func (*UnaryOp) node()   {}
func (*Capture) node()   {}
func (*Access) node()    {}
func (*Dot) node()       {}
func (*Call) node()      {}
func (*Raw) node()       {}

// TargetName returns the bare name a call target answers to, for parenless
// lookups: the identifier for Var targets, the member name for Dot targets.
func (c *Call) TargetName() string {
	switch t := c.Target.(type) {
	case *Var:
		return t.Name
	case *Dot:
		return t.Name
	}
	return ""
}

// KeywordList reports whether the list consists solely of keyword pairs.
func (l *List) KeywordList() bool {
	if len(l.Elems) == 0 {
		return false
	}
	for _, e := range l.Elems {
		if _, ok := e.(*Pair); !ok {
			return false
		}
	}
	return true
}
