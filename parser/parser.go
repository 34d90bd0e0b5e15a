// Package parser turns Elixir-style source text into the annotated tree
// the formatter renders back out. It is a hand-written Pratt parser over
// the zero-copy token stream: precedence climbing for operators, with
// special handling for parenthesis-free calls, trailing do-blocks, and
// arrow clause bodies.
package parser

import (
	"context"
	"io"
	"strings"

	"github.com/scohen/ex-format/ast"
	"github.com/scohen/ex-format/telemetry"
)

// binding is the parse-side description of one infix operator.
type binding struct {
	prec  int
	right bool
}

var infixOps = map[string]binding{
	"<-":   {40, false},
	"\\\\": {40, false},

	"when": {50, true},

	"::": {60, true},

	"|": {70, true},

	"=": {90, true},

	"||": {130, false},
	"or": {130, false},

	"&&":  {140, false},
	"and": {140, false},

	"==":  {150, false},
	"!=":  {150, false},
	"=~":  {150, false},
	"===": {150, false},
	"!==": {150, false},

	"<":  {160, false},
	"<=": {160, false},
	">=": {160, false},
	">":  {160, false},

	"|>":  {170, false},
	"<<<": {170, false},
	">>>": {170, false},
	"<~":  {170, false},
	"~>":  {170, false},
	"<<~": {170, false},
	"~>>": {170, false},
	"<~>": {170, false},
	"<|>": {170, false},
	"^^^": {170, false},

	"in":     {180, false},
	"not in": {180, false},

	"++": {200, true},
	"--": {200, true},
	"..": {200, true},
	"<>": {200, true},

	"+": {210, false},
	"-": {210, false},

	"*": {220, false},
	"/": {220, false},
}

// patternPrec keeps clause patterns from swallowing the when guard or the
// arrow: everything binding tighter than when is allowed.
const patternPrec = 51

// capturePrec bounds a capture target: member access, calls, arithmetic
// and the arity slash bind into the capture, a surrounding match does not.
const capturePrec = 100

var sectionKeywords = map[string]bool{
	"else": true, "rescue": true, "after": true, "catch": true,
}

var bareAtoms = map[string]bool{
	"true": true, "false": true, "nil": true,
}

// Parser is a single-use recursive descent parser over a token stream.
type Parser struct {
	source   []byte
	filename string
	tokens   []Token
	pos      int

	// noDo disables do-block attachment while the arguments of a
	// parenthesis-free call are being collected, so the block binds to
	// the call and not to its last argument. Delimited sub-expressions
	// reset it.
	noDo int
}

// Parse parses a compilation unit from a reader.
func Parse(ctx context.Context, r io.Reader) (*ast.Block, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(ctx, data)
}

// ParseString parses a compilation unit from a string.
func ParseString(ctx context.Context, src string) (*ast.Block, error) {
	return ParseBytes(ctx, []byte(src))
}

// ParseBytes parses a compilation unit from bytes.
func ParseBytes(ctx context.Context, data []byte) (*ast.Block, error) {
	return ParseBytesWithFilename(ctx, "", data)
}

// ParseBytesWithFilename parses a compilation unit, attributing errors to
// the given filename.
func ParseBytesWithFilename(ctx context.Context, filename string, data []byte) (*ast.Block, error) {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start("parse")
	defer timer.End()

	p := &Parser{
		source:   data,
		filename: filename,
		tokens:   NewLexer(data).ScanAll(),
	}
	return p.parseProgram()
}

// MustParseBytes parses a compilation unit and panics on error. Intended
// for tests and fixtures.
func MustParseBytes(data []byte) *ast.Block {
	tree, err := ParseBytes(context.Background(), data)
	if err != nil {
		panic(err)
	}
	return tree
}

func (p *Parser) parseProgram() (*ast.Block, error) {
	block := &ast.Block{}

	p.skipNewlines()
	for p.cur().Type != EOF {
		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		block.Exprs = append(block.Exprs, expr)

		switch p.cur().Type {
		case EOF:
		case NEWLINE, SEMI:
			p.advance()
			p.skipNewlines()
		default:
			return nil, p.errUnexpected("expression separator")
		}
	}

	return block, nil
}

// parseExpr is the precedence climbing loop.
func (p *Parser) parseExpr(minPrec int) (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.cur()

		// A line break ends the expression unless the next line leads
		// with a pipe.
		if tok.Type == NEWLINE {
			if next := p.peekAt(1); next.Type == OP && next.String(p.source) == "|>" {
				p.advance()
				continue
			}
			break
		}

		if tok.Type != OP {
			break
		}

		op := tok.String(p.source)
		wide := 1
		if op == "not" {
			next := p.peekAt(1)
			if next.Type != OP || next.String(p.source) != "in" {
				break
			}
			op = "not in"
			wide = 2
		}

		b, ok := infixOps[op]
		if !ok || b.prec < minPrec {
			break
		}

		for i := 0; i < wide; i++ {
			p.advance()
		}
		p.skipNewlines()

		nextMin := b.prec + 1
		if b.right {
			nextMin = b.prec
		}

		right, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}

		switch op {
		case "when":
			left = &ast.When{Meta: metaOf(left), Left: left, Guard: right}
		case "..":
			rng := &ast.Range{Meta: metaOf(left), From: left, To: right}
			if p.atOp("//") {
				p.advance()
				p.skipNewlines()
				step, err := p.parseExpr(b.prec + 1)
				if err != nil {
					return nil, err
				}
				rng.Step = step
			}
			left = rng
		default:
			left = &ast.BinaryOp{Meta: metaOf(left), Op: op, Left: left, Right: right}
		}
	}

	return left, nil
}

func (p *Parser) parseUnary() (ast.Node, error) {
	tok := p.cur()
	if tok.Type == OP {
		op := tok.String(p.source)
		switch op {
		case "&":
			p.advance()
			// &1 style positional capture arguments read as one name.
			if num := p.cur(); num.Type == INT && num.Start == tok.End {
				p.advance()
				return &ast.Var{Meta: meta(tok), Name: "&" + num.String(p.source)}, nil
			}
			target, err := p.parseExpr(capturePrec)
			if err != nil {
				return nil, err
			}
			return &ast.Capture{Meta: meta(tok), Target: target}, nil

		case "@", "+", "-", "!", "^", "~~~", "not":
			p.advance()
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &ast.UnaryOp{Meta: meta(tok), Op: op, Operand: operand}, nil
		}
	}

	primary, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(primary)
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.cur()

	switch tok.Type {
	case INT:
		p.advance()
		return integerNode(tok, tok.String(p.source)), nil

	case FLOAT:
		p.advance()
		return &ast.Float{Meta: meta(tok), Raw: tok.String(p.source)}, nil

	case CHAR:
		p.advance()
		return &ast.Integer{Meta: meta(tok), Raw: tok.String(p.source)[1:], Style: ast.Char}, nil

	case STRING:
		p.advance()
		txt := tok.String(p.source)
		return &ast.StringLit{Meta: meta(tok), Segments: p.parseSegments(txt[1 : len(txt)-1])}, nil

	case HEREDOC:
		p.advance()
		return &ast.StringLit{
			Meta:     meta(tok),
			Segments: p.parseSegments(heredocContent(tok.String(p.source))),
			Heredoc:  true,
		}, nil

	case CHARLIST:
		p.advance()
		txt := tok.String(p.source)
		return &ast.CharList{Meta: meta(tok), Segments: p.parseSegments(txt[1 : len(txt)-1])}, nil

	case CHARLISTHEREDOC:
		p.advance()
		return &ast.CharList{
			Meta:     meta(tok),
			Segments: p.parseSegments(heredocContent(tok.String(p.source))),
			Heredoc:  true,
		}, nil

	case ATOM:
		p.advance()
		return &ast.Atom{Meta: meta(tok), Name: tok.String(p.source)[1:]}, nil

	case QUOTEDATOM:
		p.advance()
		txt := tok.String(p.source)
		return &ast.Atom{Meta: meta(tok), Name: txt[2 : len(txt)-1], Quoted: true}, nil

	case IDENT:
		p.advance()
		name := tok.String(p.source)
		if bareAtoms[name] {
			return &ast.Atom{Meta: meta(tok), Name: name, Bare: true}, nil
		}
		return &ast.Var{Meta: meta(tok), Name: name}, nil

	case ALIAS:
		return p.parseAliasPath()

	case KWKEY:
		return p.parseKeywordList()

	case LPAREN:
		p.advance()
		p.skipNewlines()
		save := p.noDo
		p.noDo = 0
		expr, err := p.parseExpr(0)
		p.noDo = save
		if err != nil {
			return nil, err
		}
		p.skipNewlines()
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	case LBRACKET:
		p.advance()
		elems, err := p.parseContainerElems(RBRACKET)
		if err != nil {
			return nil, err
		}
		return &ast.List{Meta: meta(tok), Elems: elems}, nil

	case LBRACE:
		p.advance()
		elems, err := p.parseContainerElems(RBRACE)
		if err != nil {
			return nil, err
		}
		return &ast.Tuple{Meta: meta(tok), Elems: elems}, nil

	case MAPSTART:
		p.advance()
		return p.parseMapBody(meta(tok))

	case PERCENT:
		return p.parseStruct()

	case BITSTART:
		p.advance()
		elems, err := p.parseContainerElems(BITEND)
		if err != nil {
			return nil, err
		}
		return &ast.Bitstring{Meta: meta(tok), Parts: elems}, nil

	case FN:
		return p.parseFn()

	case ILLEGAL:
		return nil, newParseError(p.filename, tok, "unexpected character %q", tok.String(p.source))
	}

	return nil, p.errUnexpected("expression")
}

// parsePostfix applies member access, bracket access, call parentheses,
// parenthesis-free arguments and trailing do-blocks to a primary.
func (p *Parser) parsePostfix(left ast.Node) (ast.Node, error) {
	for {
		tok := p.cur()

		switch {
		case tok.Type == DOT:
			next := p.peekAt(1)
			switch next.Type {
			case LPAREN:
				// Anonymous call: f.(args)
				p.advance()
				args, err := p.parseParenArgs()
				if err != nil {
					return nil, err
				}
				left = &ast.Call{
					Meta:   metaOf(left),
					Target: &ast.Dot{Meta: metaOf(left), Base: left},
					Args:   args,
				}
			case IDENT, ALIAS:
				p.advance()
				p.advance()
				left = &ast.Dot{Meta: metaOf(left), Base: left, Name: next.String(p.source)}
			default:
				return nil, p.errUnexpected("name after .")
			}

		case tok.Type == LPAREN && callable(left):
			args, err := p.parseParenArgs()
			if err != nil {
				return nil, err
			}
			left = &ast.Call{Meta: metaOf(left), Target: left, Args: args}

		case tok.Type == LBRACKET && p.adjacent(tok):
			p.advance()
			p.skipNewlines()
			save := p.noDo
			p.noDo = 0
			key, err := p.parseExpr(0)
			p.noDo = save
			if err != nil {
				return nil, err
			}
			p.skipNewlines()
			if _, err := p.expect(RBRACKET); err != nil {
				return nil, err
			}
			left = &ast.Access{Meta: metaOf(left), Base: left, Key: key}

		case tok.Type == DO && p.noDo == 0:
			call, ok := left.(*ast.Call)
			if !ok {
				if !callable(left) {
					return left, nil
				}
				call = &ast.Call{Meta: metaOf(left), Target: left}
			}
			if len(call.Blocks) > 0 {
				return left, nil
			}
			blocks, err := p.parseDoBlocks()
			if err != nil {
				return nil, err
			}
			call.Blocks = blocks
			left = call

		case callable(left) && p.startsParenlessArgs(tok):
			args, err := p.parseParenlessArgs()
			if err != nil {
				return nil, err
			}
			left = &ast.Call{Meta: metaOf(left), Target: left, Args: args}

		default:
			return left, nil
		}
	}
}

// callable reports whether a node can be a call target. Only bare names
// and member accesses are; a completed call never collects more
// arguments.
func callable(n ast.Node) bool {
	switch n.(type) {
	case *ast.Var, *ast.Dot:
		return true
	}
	return false
}

// startsParenlessArgs reports whether the token opens the first argument
// of a parenthesis-free call: it must begin an expression and sit on the
// same line as the call target.
func (p *Parser) startsParenlessArgs(tok Token) bool {
	if p.pos == 0 || tok.Line != p.tokens[p.pos-1].Line {
		return false
	}

	switch tok.Type {
	case INT, FLOAT, CHAR, STRING, HEREDOC, CHARLIST, CHARLISTHEREDOC,
		ATOM, QUOTEDATOM, IDENT, ALIAS, KWKEY,
		LBRACKET, LBRACE, MAPSTART, PERCENT, BITSTART, FN:
		return true
	case OP:
		switch tok.String(p.source) {
		case "&", "!", "^", "~~~", "@":
			return true
		case "not":
			// not followed by in spells the infix not in operator.
			next := p.peekAt(1)
			return next.Type != OP || next.String(p.source) != "in"
		}
	}
	return false
}

func (p *Parser) parseParenlessArgs() ([]ast.Node, error) {
	p.noDo++
	defer func() { p.noDo-- }()

	var args []ast.Node
	for {
		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if p.cur().Type != COMMA {
			return args, nil
		}
		p.advance()
		p.skipNewlines()
	}
}

// parseParenArgs parses a parenthesized argument list, consuming both
// delimiters. Trailing commas and interior line breaks are accepted.
func (p *Parser) parseParenArgs() ([]ast.Node, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	save := p.noDo
	p.noDo = 0
	defer func() { p.noDo = save }()

	var args []ast.Node
	for {
		p.skipNewlines()
		if p.cur().Type == RPAREN {
			p.advance()
			return args, nil
		}

		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		p.skipNewlines()
		switch p.cur().Type {
		case COMMA:
			p.advance()
		case RPAREN:
			p.advance()
			return args, nil
		default:
			return nil, p.errUnexpected(", or )")
		}
	}
}

// parseContainerElems parses the comma-separated elements of a list,
// tuple or bitstring up to and including the closing delimiter. Keyword
// keys become individual pairs so mixed containers keep their shape.
func (p *Parser) parseContainerElems(close TokenType) ([]ast.Node, error) {
	save := p.noDo
	p.noDo = 0
	defer func() { p.noDo = save }()

	var elems []ast.Node
	for {
		p.skipNewlines()
		if p.cur().Type == close {
			p.advance()
			return elems, nil
		}

		var elem ast.Node
		var err error
		if p.cur().Type == KWKEY {
			elem, err = p.parseKeywordPair()
		} else {
			elem, err = p.parseExpr(0)
		}
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)

		p.skipNewlines()
		switch p.cur().Type {
		case COMMA:
			p.advance()
		case close:
			p.advance()
			return elems, nil
		default:
			return nil, p.errUnexpected(", or closing delimiter")
		}
	}
}

// parseMapBody parses the interior of %{...} after the opener, including
// the %{base | overrides} update form.
func (p *Parser) parseMapBody(m ast.Meta) (ast.Node, error) {
	save := p.noDo
	p.noDo = 0
	defer func() { p.noDo = save }()

	lit := &ast.MapLit{Meta: m}

	p.skipNewlines()
	if p.cur().Type == RBRACE {
		p.advance()
		return lit, nil
	}

	// The first entry decides between the update form and a plain
	// literal: parsing above | leaves the pipe for us to see.
	if p.cur().Type != KWKEY {
		first, err := p.parseExpr(infixOps["|"].prec + 1)
		if err != nil {
			return nil, err
		}
		// The pipe may lead a continuation line.
		if p.cur().Type == NEWLINE {
			if next := p.peekAt(1); next.Type == OP && next.String(p.source) == "|" {
				p.advance()
			}
		}
		if p.atOp("|") {
			p.advance()
			p.skipNewlines()
			lit.Base = first
		} else {
			pair, err := p.finishMapPair(first)
			if err != nil {
				return nil, err
			}
			lit.Pairs = append(lit.Pairs, pair)
			if done, err := p.containerSeparator(RBRACE); done || err != nil {
				return lit, err
			}
		}
	}

	for {
		p.skipNewlines()
		if p.cur().Type == RBRACE {
			p.advance()
			return lit, nil
		}

		var pair ast.Node
		var err error
		if p.cur().Type == KWKEY {
			pair, err = p.parseKeywordPair()
		} else {
			var key ast.Node
			key, err = p.parseExpr(0)
			if err == nil {
				pair, err = p.finishMapPair(key)
			}
		}
		if err != nil {
			return nil, err
		}
		lit.Pairs = append(lit.Pairs, pair)

		if done, err := p.containerSeparator(RBRACE); done || err != nil {
			return lit, err
		}
	}
}

// containerSeparator consumes a comma or the closing delimiter, reporting
// whether the container is finished.
func (p *Parser) containerSeparator(close TokenType) (bool, error) {
	p.skipNewlines()
	switch p.cur().Type {
	case COMMA:
		p.advance()
		return false, nil
	case close:
		p.advance()
		return true, nil
	}
	return false, p.errUnexpected(", or closing delimiter")
}

func (p *Parser) finishMapPair(key ast.Node) (ast.Node, error) {
	if _, err := p.expect(FATARROW); err != nil {
		return nil, err
	}
	p.skipNewlines()
	value, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	return &ast.Pair{Meta: metaOf(key), Key: key, Value: value}, nil
}

func (p *Parser) parseStruct() (ast.Node, error) {
	tok, err := p.expect(PERCENT)
	if err != nil {
		return nil, err
	}

	var name ast.Node
	switch p.cur().Type {
	case ALIAS:
		name, err = p.parseAliasPath()
		if err != nil {
			return nil, err
		}
	case IDENT:
		id := p.advance()
		name = &ast.Var{Meta: meta(id), Name: id.String(p.source)}
	default:
		return nil, p.errUnexpected("struct name")
	}

	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseMapBody(meta(tok))
	if err != nil {
		return nil, err
	}

	return &ast.StructLit{Meta: meta(tok), Name: name, Map: body.(*ast.MapLit)}, nil
}

// parseAliasPath parses Foo or Foo.Bar.Baz. A dot followed by a lowercase
// name is left for the postfix pass.
func (p *Parser) parseAliasPath() (ast.Node, error) {
	tok, err := p.expect(ALIAS)
	if err != nil {
		return nil, err
	}
	segments := []string{tok.String(p.source)}

	for p.cur().Type == DOT && p.peekAt(1).Type == ALIAS {
		p.advance()
		seg := p.advance()
		segments = append(segments, seg.String(p.source))
	}

	return &ast.Alias{Meta: meta(tok), Segments: segments}, nil
}

// parseKeywordPair parses one key: value entry.
func (p *Parser) parseKeywordPair() (ast.Node, error) {
	tok, err := p.expect(KWKEY)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(tok.String(p.source), ":")

	p.skipNewlines()
	value, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}

	return &ast.Pair{
		Meta:      meta(tok),
		Key:       &ast.Atom{Meta: meta(tok), Name: name},
		Value:     value,
		Shorthand: true,
	}, nil
}

// parseKeywordList parses a bracketless keyword list: the trailing
// arguments of a call written key: value, key: value.
func (p *Parser) parseKeywordList() (ast.Node, error) {
	first, err := p.parseKeywordPair()
	if err != nil {
		return nil, err
	}
	elems := []ast.Node{first}

	for p.cur().Type == COMMA {
		mark := p.pos
		p.advance()
		p.skipNewlines()
		if p.cur().Type != KWKEY {
			p.pos = mark
			break
		}
		pair, err := p.parseKeywordPair()
		if err != nil {
			return nil, err
		}
		elems = append(elems, pair)
	}

	return &ast.List{Meta: metaOf(first), Elems: elems}, nil
}

func (p *Parser) parseFn() (ast.Node, error) {
	tok, err := p.expect(FN)
	if err != nil {
		return nil, err
	}

	save := p.noDo
	p.noDo = 0
	defer func() { p.noDo = save }()

	var clauses []*ast.Clause
	for {
		p.skipNewlines()
		if p.cur().Type == END {
			p.advance()
			break
		}
		if p.cur().Type == EOF {
			return nil, newParseError(p.filename, tok, "fn without end")
		}
		c, err := p.parseClause()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
	}

	if len(clauses) == 0 {
		return nil, newParseError(p.filename, tok, "fn without clauses")
	}

	return &ast.Fn{Meta: meta(tok), Clauses: clauses}, nil
}

// parseClause parses patterns, an optional guard, the arrow, and the body
// expressions up to the next clause or the enclosing terminator.
func (p *Parser) parseClause() (*ast.Clause, error) {
	start := p.cur()
	clause := &ast.Clause{Meta: meta(start)}

	if start.Type != ARROW {
		for {
			pat, err := p.parseExpr(patternPrec)
			if err != nil {
				return nil, err
			}
			clause.Patterns = append(clause.Patterns, pat)

			if p.cur().Type != COMMA {
				break
			}
			p.advance()
			p.skipNewlines()
		}

		if p.atOp("when") {
			p.advance()
			p.skipNewlines()
			guard, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			clause.Guard = guard
		}
	}

	arrow, err := p.expect(ARROW)
	if err != nil {
		return nil, err
	}
	p.skipNewlines()

	body, err := p.parseClauseBody(arrow.Line)
	if err != nil {
		return nil, err
	}
	clause.Body = body

	return clause, nil
}

// parseClauseBody collects the body expressions of one clause: it stops
// at end, at a section keyword, or when the next line begins a fresh
// clause.
func (p *Parser) parseClauseBody(startLine int) (*ast.Block, error) {
	body := &ast.Block{Meta: ast.Meta{Line: startLine}}

	for {
		if p.cur().Type == END || p.atSectionKeyword() {
			return body, nil
		}

		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		body.Exprs = append(body.Exprs, expr)

		switch p.cur().Type {
		case SEMI:
			p.advance()
			p.skipNewlines()
		case NEWLINE:
			p.advance()
			p.skipNewlines()
			if p.cur().Type == END || p.atSectionKeyword() || p.lineHasArrow() {
				return body, nil
			}
		default:
			return body, nil
		}
	}
}

// parseDoBlocks parses do ... end with optional else/rescue/after/catch
// sections. Each section body is a clause sequence when its first line
// carries an arrow, a plain expression block otherwise.
func (p *Parser) parseDoBlocks() ([]*ast.BlockItem, error) {
	doTok, err := p.expect(DO)
	if err != nil {
		return nil, err
	}

	save := p.noDo
	p.noDo = 0
	defer func() { p.noDo = save }()

	var blocks []*ast.BlockItem
	key := "do"
	keyLine := doTok.Line

	for {
		body, err := p.parseSectionBody(keyLine)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, &ast.BlockItem{Key: key, Body: body})

		p.skipNewlines()
		switch {
		case p.cur().Type == END:
			p.advance()
			return blocks, nil
		case p.atSectionKeyword():
			tok := p.advance()
			key = tok.String(p.source)
			keyLine = tok.Line
		default:
			return nil, p.errUnexpected("end")
		}
	}
}

func (p *Parser) parseSectionBody(startLine int) (ast.Node, error) {
	p.skipNewlines()

	if p.lineHasArrow() {
		clauses := &ast.Clauses{Meta: ast.Meta{Line: startLine}}
		for {
			p.skipNewlines()
			if p.cur().Type == END || p.atSectionKeyword() {
				return clauses, nil
			}
			if p.cur().Type == EOF {
				return nil, p.errUnexpected("end")
			}
			c, err := p.parseClause()
			if err != nil {
				return nil, err
			}
			clauses.List = append(clauses.List, c)
		}
	}

	block := &ast.Block{Meta: ast.Meta{Line: startLine}}
	for {
		p.skipNewlines()
		if p.cur().Type == END || p.atSectionKeyword() {
			return block, nil
		}
		if p.cur().Type == EOF {
			return nil, p.errUnexpected("end")
		}

		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		block.Exprs = append(block.Exprs, expr)

		switch p.cur().Type {
		case NEWLINE, SEMI:
			p.advance()
		case END:
		default:
			if !p.atSectionKeyword() {
				return nil, p.errUnexpected("expression separator")
			}
		}
	}
}

// atSectionKeyword reports whether the current token opens an else,
// rescue, after or catch section.
func (p *Parser) atSectionKeyword() bool {
	tok := p.cur()
	return tok.Type == IDENT && sectionKeywords[tok.String(p.source)]
}

// lineHasArrow looks ahead on the current line for a clause arrow at
// nesting depth zero, which marks the token run as a clause head.
func (p *Parser) lineHasArrow() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case NEWLINE, EOF:
			if depth == 0 {
				return false
			}
		case LPAREN, LBRACKET, LBRACE, MAPSTART, BITSTART, FN, DO:
			depth++
		case RPAREN, RBRACKET, RBRACE, BITEND:
			depth--
		case END:
			if depth == 0 {
				return false
			}
			depth--
		case ARROW:
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// parseSegments splits string content into literal and interpolated
// segments. Interpolated expressions are parsed recursively; if one does
// not parse, it is kept as literal text so formatting degrades instead of
// failing.
func (p *Parser) parseSegments(content string) []ast.Segment {
	var segs []ast.Segment
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, ast.Segment{Text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(content); {
		if content[i] == '\\' && i+1 < len(content) {
			lit.WriteByte(content[i])
			lit.WriteByte(content[i+1])
			i += 2
			continue
		}
		if content[i] == '#' && i+1 < len(content) && content[i+1] == '{' {
			end := interpolationEnd(content, i+2)
			if end < 0 {
				lit.WriteString(content[i:])
				break
			}
			inner := content[i+2 : end]
			sub := &Parser{
				source:   []byte(inner),
				filename: p.filename,
				tokens:   NewLexer([]byte(inner)).ScanAll(),
			}
			sub.skipNewlines()
			expr, err := sub.parseExpr(0)
			if err != nil {
				lit.WriteString(content[i : end+1])
			} else {
				flush()
				segs = append(segs, ast.Segment{Expr: expr})
			}
			i = end + 1
			continue
		}
		lit.WriteByte(content[i])
		i++
	}

	flush()
	return segs
}

// interpolationEnd finds the brace closing an interpolation opened just
// before from, honoring nested braces and quoted regions.
func interpolationEnd(content string, from int) int {
	depth := 1
	var quote byte

	for i := from; i < len(content); i++ {
		ch := content[i]
		switch {
		case ch == '\\':
			i++
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// heredocContent strips the fences from a heredoc token: the delimiters,
// the line break after the opener, and the closing fence indentation.
func heredocContent(txt string) string {
	content := txt[3 : len(txt)-3]
	content = strings.TrimPrefix(content, "\n")
	if i := strings.LastIndexByte(content, '\n'); i >= 0 {
		tail := content[i+1:]
		if strings.TrimLeft(tail, " \t") == "" {
			content = content[:i+1]
		}
	}
	return content
}

// integerNode classifies an integer token by its prefix.
func integerNode(tok Token, txt string) *ast.Integer {
	n := &ast.Integer{Meta: meta(tok)}
	switch {
	case strings.HasPrefix(txt, "0x"), strings.HasPrefix(txt, "0X"):
		n.Raw = txt[2:]
		n.Style = ast.Hex
	case strings.HasPrefix(txt, "0o"), strings.HasPrefix(txt, "0O"):
		n.Raw = txt[2:]
		n.Style = ast.Octal
	case strings.HasPrefix(txt, "0b"), strings.HasPrefix(txt, "0B"):
		n.Raw = txt[2:]
		n.Style = ast.Binary
	default:
		n.Raw = strings.ReplaceAll(txt, "_", "")
		n.Style = ast.Decimal
	}
	return n
}

func meta(tok Token) ast.Meta {
	return ast.Meta{Line: tok.Line}
}

func metaOf(n ast.Node) ast.Meta {
	return ast.Meta{Line: n.Layout().Line}
}

func (p *Parser) cur() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(k int) Token {
	if p.pos+k >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+k]
}

func (p *Parser) advance() Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) skipNewlines() {
	for p.cur().Type == NEWLINE {
		p.advance()
	}
}

func (p *Parser) atOp(s string) bool {
	tok := p.cur()
	return tok.Type == OP && tok.String(p.source) == s
}

// adjacent reports whether the token directly abuts the previous one,
// with no whitespace between.
func (p *Parser) adjacent(tok Token) bool {
	return p.pos > 0 && p.tokens[p.pos-1].End == tok.Start
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.cur()
	if tok.Type != tt {
		return tok, newParseError(p.filename, tok, "expected %s, found %q", tt, tok.String(p.source))
	}
	return p.advance(), nil
}

func (p *Parser) errUnexpected(wanted string) error {
	tok := p.cur()
	found := tok.String(p.source)
	if tok.Type == EOF {
		found = "end of input"
	} else if tok.Type == NEWLINE {
		found = "line break"
	}
	return newParseError(p.filename, tok, "expected %s, found %q", wanted, found)
}
